package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferg-cod3s/rq-challenge/internal/core/domain"
	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
)

// EmployeeService is the orchestration facade the handlers call.
// *orchestrator.Service satisfies it.
type EmployeeService interface {
	ListAll(ctx context.Context) ([]domain.Employee, error)
	Search(ctx context.Context, query string) ([]domain.Employee, error)
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	MaxSalary(ctx context.Context) (int, error)
	TopTenNames(ctx context.Context) ([]string, error)
	Create(ctx context.Context, in domain.CreateInput) (*domain.Employee, error)
	DeleteByID(ctx context.Context, id string) (string, error)
}

const maxBodyBytes = 1 << 20

type employeeHandler struct {
	svc EmployeeService
}

func (h *employeeHandler) Register(r chi.Router) {
	r.Get("/", h.listAll)
	r.Post("/", h.create)
	r.Get("/search/{searchString}", h.search)
	r.Get("/highestSalary", h.highestSalary)
	r.Get("/topTenHighestEarningEmployeeNames", h.topTenNames)
	r.Get("/{id}", h.getByID)
	r.Delete("/{id}", h.deleteByID)
}

func (h *employeeHandler) listAll(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, employees)
}

func (h *employeeHandler) search(w http.ResponseWriter, r *http.Request) {
	q := chi.URLParam(r, "searchString")
	if err := validateSearch(q); err != nil {
		writeAppError(w, r, err)
		return
	}

	employees, err := h.svc.Search(r.Context(), q)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, employees)
}

func (h *employeeHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		writeAppError(w, r, err)
		return
	}

	emp, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

func (h *employeeHandler) highestSalary(w http.ResponseWriter, r *http.Request) {
	salary, err := h.svc.MaxSalary(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, salary)
}

func (h *employeeHandler) topTenNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.TopTenNames(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

func (h *employeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeAppError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "malformed request body", err))
		return
	}
	if err := validateCreate(in); err != nil {
		writeAppError(w, r, err)
		return
	}

	emp, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, emp)
}

func (h *employeeHandler) deleteByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		writeAppError(w, r, err)
		return
	}

	name, err := h.svc.DeleteByID(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, name)
}
