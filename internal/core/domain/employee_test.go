package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailFromName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "first and last", input: "John Doe", want: "johnd@company.com"},
		{name: "single token", input: "Cher", want: "cher@company.com"},
		{name: "middle name uses last initial", input: "Mary Ann Smith", want: "marys@company.com"},
		{name: "extra whitespace", input: "  Jane   Smith ", want: "janes@company.com"},
		{name: "blank", input: "   ", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EmailFromName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateInput_Employee(t *testing.T) {
	in := CreateInput{Name: "Bob Johnson", Title: "Engineer", Salary: 75000, Age: 40}

	emp, err := in.Employee()
	require.NoError(t, err)

	assert.Empty(t, emp.ID)
	assert.Equal(t, "Bob Johnson", emp.Name)
	assert.Equal(t, "Engineer", emp.Title)
	assert.Equal(t, 75000, emp.Salary)
	assert.Equal(t, 40, emp.Age)
	assert.Equal(t, "bobj@company.com", emp.Email)
}
