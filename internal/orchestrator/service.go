// Package orchestrator turns the upstream's primitive employee operations
// into the gateway's client-facing operations: list, search, lookup,
// aggregates, create, and delete-by-id.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ferg-cod3s/rq-challenge/internal/core/domain"
	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/journal"
	"github.com/ferg-cod3s/rq-challenge/internal/metrics"
)

// Upstream is the subset of the upstream client the orchestrator needs.
// *upstream.Client satisfies it.
type Upstream interface {
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error)
	DeleteEmployeeByName(ctx context.Context, name string) (bool, error)
}

// Recorder receives mutation events. *journal.Journal satisfies it.
type Recorder interface {
	Record(ctx context.Context, ev journal.Event)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, journal.Event) {}

// Service is the orchestration facade. It holds no state between calls;
// every operation reads the upstream fresh.
type Service struct {
	upstream     Upstream
	deleter      *Deleter
	journal      Recorder
	log          *slog.Logger
	maxEmployees int
}

// NewService creates a Service. rec may be nil.
func NewService(up Upstream, rec Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	logger = logger.With("component", "orchestrator")
	return &Service{
		upstream:     up,
		deleter:      NewDeleter(up, rec, logger),
		journal:      rec,
		log:          logger,
		maxEmployees: MaxEmployees,
	}
}

// ListAll returns the upstream collection, truncated to MaxEmployees.
func (s *Service) ListAll(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.upstream.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []domain.Employee{}
	}

	kept, truncated := Truncate(employees, s.maxEmployees)
	if truncated {
		metrics.ListTruncationsTotal.Inc()
		s.log.Warn("Upstream returned more employees than allowed, truncating",
			"received", len(employees), "limit", s.maxEmployees)
	}
	s.log.Debug("Fetched employees", "count", len(kept))
	return kept, nil
}

// Search returns employees whose name contains query, ignoring case.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Employee, error) {
	employees, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	matches := SearchByName(employees, query)
	s.log.Debug("Searched employees", "query", query, "matches", len(matches))
	return matches, nil
}

// GetByID returns one employee. A missing record is a KindNotFound error.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	emp, err := s.upstream.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, apperrors.New(apperrors.KindNotFound, fmt.Sprintf("employee with ID %s not found", id)).
			WithContext("id", id)
	}
	return emp, nil
}

// MaxSalary returns the highest salary in the collection.
func (s *Service) MaxSalary(ctx context.Context) (int, error) {
	employees, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return MaxSalary(employees)
}

// TopTenNames returns the names of the ten best-paid employees.
func (s *Service) TopTenNames(ctx context.Context) ([]string, error) {
	employees, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return TopEarners(employees, TopEarnersLimit), nil
}

// Create derives the email, submits the record and returns what the upstream
// stored.
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (*domain.Employee, error) {
	emp, err := in.Employee()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid employee input", err)
	}

	created, err := s.upstream.CreateEmployee(ctx, emp)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperrors.New(apperrors.KindUnknown, "upstream returned no employee after create")
	}

	s.journal.Record(ctx, journal.NewEvent(journal.EventCreated, created.ID, created.Name))
	s.log.Info("Created employee", "id", created.ID, "name", created.Name)
	return created, nil
}

// DeleteByID deletes the employee with the given id and returns its name.
func (s *Service) DeleteByID(ctx context.Context, id string) (string, error) {
	return s.deleter.Delete(ctx, domain.DeleteRequest{ID: id})
}
