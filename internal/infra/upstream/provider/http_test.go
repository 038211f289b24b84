package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_ExecuteUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/employee/abc-1" {
			t.Errorf("expected path /api/v1/employee/abc-1, got %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected method GET, got %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"abc-1","employee_name":"John Doe"},"status":"Successfully processed request."}`))
	}))
	defer server.Close()

	p := NewHTTPProvider("mock", server.URL+"/api/v1/employee/", 5*time.Second)

	data, err := p.Execute(context.Background(), Operation{Name: "get", Method: http.MethodGet, Path: "/abc-1"})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "John Doe", got["employee_name"])
}

func TestHTTPProvider_ExecuteMissingDataIsEmpty(t *testing.T) {
	bodies := []string{`{"status":"ok"}`, `{"data":null}`, ``}

	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		p := NewHTTPProvider("mock", server.URL, 5*time.Second)
		data, err := p.Execute(context.Background(), Operation{Name: "list", Method: http.MethodGet})

		assert.NoError(t, err, "body %q", body)
		assert.Nil(t, data, "body %q", body)
		server.Close()
	}
}

func TestHTTPProvider_ExecuteSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/John%20Doe", r.URL.EscapedPath())
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		assert.Equal(t, "John Doe", body["name"])

		_, _ = w.Write([]byte(`{"data":true}`))
	}))
	defer server.Close()

	p := NewHTTPProvider("mock", server.URL, 5*time.Second)
	data, err := p.Execute(context.Background(), Operation{
		Name:   "delete",
		Method: http.MethodDelete,
		Path:   "/John%20Doe",
		Body:   map[string]string{"name": "John Doe"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, "true", string(data))
}

func TestHTTPProvider_ExecuteReturnsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	p := NewHTTPProvider("mock", server.URL, 5*time.Second)
	_, err := p.Execute(context.Background(), Operation{Name: "list", Method: http.MethodGet})
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusTooManyRequests, te.StatusCode)
	assert.Equal(t, "slow down", te.Body)
	assert.Equal(t, 7*time.Second, te.RetryAfter)

	stats := p.GetHealth().MonitorStats
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.ThrottleCount429)
}

func TestHTTPProvider_ExecuteNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewHTTPProvider("mock", url, time.Second)
	_, err := p.Execute(context.Background(), Operation{Name: "list", Method: http.MethodGet})

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.StatusCode)
	assert.NotNil(t, te.Cause)
	assert.Greater(t, p.GetHealth().ErrorRate, 0.0)
}

func TestHTTPProvider_NotFoundKeepsProviderHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewHTTPProvider("mock", server.URL, time.Second)
	_, err := p.Execute(context.Background(), Operation{Name: "get", Method: http.MethodGet, Path: "/missing"})
	require.Error(t, err)

	health := p.GetHealth()
	assert.True(t, health.Available)
	assert.Zero(t, health.ErrorRate)
}
