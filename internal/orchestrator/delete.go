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

// deleteOutcome tags the result of the delete step.
type deleteOutcome int

const (
	outcomeDeleted deleteOutcome = iota
	outcomeRace                  // record vanished after resolve; counts as success
	outcomeFailed
)

func (o deleteOutcome) String() string {
	switch o {
	case outcomeDeleted:
		return "deleted"
	case outcomeRace:
		return "race"
	default:
		return "failed"
	}
}

type deleteResult struct {
	outcome deleteOutcome
	err     error
}

// Deleter turns a delete-by-id into resolve, delete-by-name and reconcile,
// because the upstream only deletes by name.
type Deleter struct {
	upstream Upstream
	journal  Recorder
	log      *slog.Logger
}

// NewDeleter creates a Deleter.
func NewDeleter(up Upstream, rec Recorder, logger *slog.Logger) *Deleter {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Deleter{upstream: up, journal: rec, log: logger}
}

// Delete removes the employee identified by req.ID and returns its name.
func (d *Deleter) Delete(ctx context.Context, req domain.DeleteRequest) (string, error) {
	if req.ID == "" {
		return "", apperrors.New(apperrors.KindInvalidInput, "employee id must not be empty")
	}

	// 1. Resolve: only the name captured here crosses into the next step.
	name, err := d.resolve(ctx, req.ID)
	if err != nil {
		return "", err
	}
	if req.Name != "" && req.Name != name {
		d.log.Debug("Delete name hint differs from upstream record",
			"id", req.ID, "hint", req.Name, "name", name)
	}

	// 2. Delete by name.
	res := d.deleteByName(ctx, name)

	// 3. Reconcile.
	switch res.outcome {
	case outcomeDeleted:
		d.journal.Record(ctx, journal.NewEvent(journal.EventDeleted, req.ID, name))
		d.log.Info("Deleted employee", "id", req.ID, "name", name)
		return name, nil
	case outcomeRace:
		metrics.DeleteRacesTotal.Inc()
		d.journal.Record(ctx, journal.NewEvent(journal.EventDeleteRace, req.ID, name))
		d.log.Warn("Employee was deleted by another request during deletion",
			"id", req.ID, "name", name, "reason", res.err)
		return name, nil
	default:
		return "", res.err
	}
}

func (d *Deleter) resolve(ctx context.Context, id string) (string, error) {
	emp, err := d.upstream.GetEmployee(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve employee %s: %w", id, err)
	}
	if emp == nil {
		return "", apperrors.New(apperrors.KindNotFound, fmt.Sprintf("employee with ID %s not found", id)).
			WithContext("id", id)
	}
	if emp.Name == "" {
		return "", apperrors.New(apperrors.KindUnknown, fmt.Sprintf("employee with ID %s has no name to delete by", id)).
			WithContext("id", id)
	}
	return emp.Name, nil
}

func (d *Deleter) deleteByName(ctx context.Context, name string) deleteResult {
	deleted, err := d.upstream.DeleteEmployeeByName(ctx, name)
	switch {
	case apperrors.IsKind(err, apperrors.KindNotFound):
		return deleteResult{
			outcome: outcomeRace,
			err:     apperrors.Wrap(apperrors.KindDeletionRace, "employee already deleted", err),
		}
	case err != nil:
		return deleteResult{outcome: outcomeFailed, err: fmt.Errorf("delete employee %q: %w", name, err)}
	case !deleted:
		return deleteResult{
			outcome: outcomeRace,
			err:     apperrors.New(apperrors.KindDeletionRace, "upstream reported nothing to delete"),
		}
	default:
		return deleteResult{outcome: outcomeDeleted}
	}
}
