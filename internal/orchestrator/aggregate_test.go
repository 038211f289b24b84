package orchestrator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferg-cod3s/rq-challenge/internal/core/domain"
	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
)

func sampleEmployees() []domain.Employee {
	return []domain.Employee{
		{ID: "1", Name: "John Doe", Salary: 50000},
		{ID: "2", Name: "Jane Smith", Salary: 100000},
		{ID: "3", Name: "Bob Johnson", Salary: 75000},
	}
}

func TestTruncate(t *testing.T) {
	employees := make([]domain.Employee, 15000)
	for i := range employees {
		employees[i] = domain.Employee{ID: fmt.Sprint(i)}
	}

	kept, truncated := Truncate(employees, MaxEmployees)
	assert.True(t, truncated)
	require.Len(t, kept, MaxEmployees)
	assert.Equal(t, "0", kept[0].ID)
	assert.Equal(t, "9999", kept[MaxEmployees-1].ID)

	kept, truncated = Truncate(sampleEmployees(), MaxEmployees)
	assert.False(t, truncated)
	assert.Len(t, kept, 3)
}

func TestSearchByName(t *testing.T) {
	employees := append(sampleEmployees(), domain.Employee{ID: "4", Name: ""})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"lowercase query", "john", []string{"John Doe", "Bob Johnson"}},
		{"uppercase query", "SMITH", []string{"Jane Smith"}},
		{"no match", "zed", []string{}},
		{"empty query skips unnamed", "", []string{"John Doe", "Jane Smith", "Bob Johnson"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchByName(employees, tt.query)
			names := make([]string, 0, len(got))
			for _, e := range got {
				names = append(names, e.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMaxSalary(t *testing.T) {
	got, err := MaxSalary(sampleEmployees())
	require.NoError(t, err)
	assert.Equal(t, 100000, got)

	_, err = MaxSalary(nil)
	assert.ErrorIs(t, err, apperrors.ErrNoEmployees)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNoEmployees))
}

func TestTopEarners(t *testing.T) {
	t.Run("orders by salary descending", func(t *testing.T) {
		assert.Equal(t, []string{"Jane Smith", "Bob Johnson", "John Doe"}, TopEarners(sampleEmployees(), TopEarnersLimit))
	})

	t.Run("caps at n", func(t *testing.T) {
		employees := make([]domain.Employee, 25)
		for i := range employees {
			employees[i] = domain.Employee{Name: fmt.Sprintf("e%02d", i), Salary: i * 1000}
		}
		got := TopEarners(employees, TopEarnersLimit)
		require.Len(t, got, TopEarnersLimit)
		assert.Equal(t, "e24", got[0])
		assert.Equal(t, "e15", got[9])
	})

	t.Run("ties keep upstream order", func(t *testing.T) {
		employees := []domain.Employee{
			{Name: "A", Salary: 100},
			{Name: "B", Salary: 200},
			{Name: "C", Salary: 100},
			{Name: "D", Salary: 200},
		}
		assert.Equal(t, []string{"B", "D", "A", "C"}, TopEarners(employees, TopEarnersLimit))
	})

	t.Run("does not reorder the input", func(t *testing.T) {
		employees := sampleEmployees()
		_ = TopEarners(employees, TopEarnersLimit)
		assert.Equal(t, sampleEmployees(), employees)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, TopEarners(nil, TopEarnersLimit))
	})
}
