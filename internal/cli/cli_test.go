package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "upstream:\n  base_url: " + baseURL + "\n  retry:\n    initial_delay: 1ms\n    max_delay: 2ms\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEmployeesTop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":"1","employee_name":"John Doe","employee_salary":50000},
			{"id":"2","employee_name":"Jane Smith","employee_salary":75000}
		]}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "employees", "top", "--config", writeConfig(t, srv.URL))
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Equal(t, []string{"Jane Smith", "John Doe"}, names)
}

func TestEmployeesMaxSalaryEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, "employees", "max-salary", "--config", writeConfig(t, srv.URL))
	assert.Error(t, err)
}

func TestJournalWithoutDurableSink(t *testing.T) {
	_, err := runCLI(t, "journal", "--config", writeConfig(t, "http://127.0.0.1:1"))
	assert.Error(t, err)
}
