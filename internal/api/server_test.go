package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferg-cod3s/rq-challenge/internal/core/domain"
	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
)

type stubService struct {
	employees []domain.Employee
	err       error
	lastQuery string
	lastInput domain.CreateInput
	deleted   []string
	panicOn   string
}

func (s *stubService) ListAll(ctx context.Context) ([]domain.Employee, error) {
	return s.employees, s.err
}

func (s *stubService) Search(ctx context.Context, query string) ([]domain.Employee, error) {
	s.lastQuery = query
	return s.employees, s.err
}

func (s *stubService) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if s.panicOn == id {
		panic("boom")
	}
	if s.err != nil {
		return nil, s.err
	}
	for _, e := range s.employees {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "employee with ID "+id+" not found")
}

func (s *stubService) MaxSalary(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(s.employees) == 0 {
		return 0, apperrors.ErrNoEmployees
	}
	return s.employees[0].Salary, nil
}

func (s *stubService) TopTenNames(ctx context.Context) ([]string, error) {
	return []string{"Jane Smith"}, s.err
}

func (s *stubService) Create(ctx context.Context, in domain.CreateInput) (*domain.Employee, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Employee{ID: "new", Name: in.Name, Salary: in.Salary, Age: in.Age, Title: in.Title}, nil
}

func (s *stubService) DeleteByID(ctx context.Context, id string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.deleted = append(s.deleted, id)
	return "John Doe", nil
}

func newTestRouter(svc EmployeeService, cfg Config) http.Handler {
	return NewRouter(svc, nil, cfg, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRoutes(t *testing.T) {
	svc := &stubService{employees: []domain.Employee{
		{ID: "1", Name: "John Doe", Salary: 50000},
	}}
	h := newTestRouter(svc, Config{})

	rec := do(t, h, http.MethodGet, BasePath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"employee_name":"John Doe"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = do(t, h, http.MethodGet, BasePath+"/search/john", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "john", svc.lastQuery)

	rec = do(t, h, http.MethodGet, BasePath+"/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, BasePath+"/highestSalary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "50000\n", rec.Body.String())

	rec = do(t, h, http.MethodGet, BasePath+"/topTenHighestEarningEmployeeNames", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Jane Smith"]`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, BasePath+"/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"John Doe"`, rec.Body.String())
	assert.Equal(t, []string{"1"}, svc.deleted)
}

func TestCreate(t *testing.T) {
	svc := &stubService{}
	h := newTestRouter(svc, Config{})

	rec := do(t, h, http.MethodPost, BasePath, `{"name":"Ada Lovelace","title":"Engineer","salary":120000,"age":36}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ada Lovelace", svc.lastInput.Name)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"name":`},
		{"short name", `{"name":"A","title":"Engineer","salary":1,"age":30}`},
		{"digits in name", `{"name":"R2 D2","title":"Droid","salary":1,"age":30}`},
		{"short title", `{"name":"Ada","title":"E","salary":1,"age":30}`},
		{"zero salary", `{"name":"Ada","title":"Engineer","salary":0,"age":30}`},
		{"huge salary", `{"name":"Ada","title":"Engineer","salary":10000001,"age":30}`},
		{"too young", `{"name":"Ada","title":"Engineer","salary":1,"age":15}`},
		{"too old", `{"name":"Ada","title":"Engineer","salary":1,"age":76}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.lastInput = domain.CreateInput{}
			rec := do(t, h, http.MethodPost, BasePath, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(apperrors.KindInvalidInput), decodeError(t, rec).Code)
			assert.Empty(t, svc.lastInput.Name)
		})
	}
}

func TestInvalidID(t *testing.T) {
	svc := &stubService{}
	h := newTestRouter(svc, Config{})

	rec := do(t, h, http.MethodDelete, BasePath+"/bad_id!", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.deleted)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		retryable  bool
	}{
		{"rate limited", apperrors.New(apperrors.KindRateLimited, "rate limited"), http.StatusTooManyRequests, true},
		{"not found", apperrors.New(apperrors.KindNotFound, "missing"), http.StatusNotFound, false},
		{"invalid", apperrors.New(apperrors.KindInvalidInput, "bad"), http.StatusBadRequest, false},
		{"unavailable", apperrors.New(apperrors.KindUpstreamUnavailable, "down"), http.StatusServiceUnavailable, true},
		{"no employees", apperrors.ErrNoEmployees, http.StatusNotFound, false},
		{"unknown", apperrors.New(apperrors.KindUnknown, "weird"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&stubService{err: tt.err}, Config{})
			rec := do(t, h, http.MethodGet, BasePath+"/highestSalary", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, string(apperrors.KindOf(tt.err)), resp.Code)
			assert.Equal(t, tt.retryable, resp.Retryable)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestRetryAfterFromUpstream(t *testing.T) {
	err := apperrors.New(apperrors.KindRateLimited, "rate limited").
		WithContext("retry_after", 2500*time.Millisecond)
	h := newTestRouter(&stubService{err: err}, Config{})

	rec := do(t, h, http.MethodGet, BasePath, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Retry-After"))
}

func TestInboundRateLimit(t *testing.T) {
	h := newTestRouter(&stubService{}, Config{RateLimit: 0.001, RateBurst: 1})

	rec := do(t, h, http.MethodGet, BasePath, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, BasePath, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ErrCodeRateLimitExceeded, decodeError(t, rec).Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestPanicRecovery(t *testing.T) {
	h := newTestRouter(&stubService{panicOn: "explode"}, Config{})

	rec := do(t, h, http.MethodGet, BasePath+"/explode", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrCodeInternalError, decodeError(t, rec).Code)
}

func TestRequestIDPropagation(t *testing.T) {
	h := newTestRouter(&stubService{}, Config{})
	id := "6f1c1f2e-3f0a-4b8e-9a55-0d1f7a3c2b11"

	req := httptest.NewRequest(http.MethodGet, BasePath, nil)
	req.Header.Set("X-Request-Id", id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get("X-Request-Id"))
}

func TestHealthAndMetricsMounted(t *testing.T) {
	health := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	h := NewRouter(&stubService{}, health, Config{}, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gateway_")
}
