// Package journal records employee mutations performed through the gateway.
//
// Recording is best-effort: a failing sink is logged and counted but never
// fails the mutation that produced the event.
package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ferg-cod3s/rq-challenge/internal/metrics"
)

// EventKind names the mutation.
type EventKind string

const (
	EventCreated    EventKind = "created"
	EventDeleted    EventKind = "deleted"
	EventDeleteRace EventKind = "delete_race" // record vanished between resolve and delete
)

// Event is one journaled mutation.
type Event struct {
	ID         string    `json:"id" db:"id"`
	Kind       EventKind `json:"kind" db:"kind"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	Name       string    `json:"name" db:"name"`
	At         time.Time `json:"at" db:"recorded_at"`
}

// NewEvent stamps a new event with a random ID and the current time.
func NewEvent(kind EventKind, employeeID, name string) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		EmployeeID: employeeID,
		Name:       name,
		At:         time.Now().UTC(),
	}
}

// Sink persists events.
type Sink interface {
	Name() string
	Record(ctx context.Context, ev Event) error
}

// Journal fans events out to its sinks.
type Journal struct {
	sinks []Sink
	log   *slog.Logger
}

// New creates a journal over the given sinks.
func New(logger *slog.Logger, sinks ...Sink) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{sinks: sinks, log: logger.With("component", "journal")}
}

// Record writes ev to every sink.
func (j *Journal) Record(ctx context.Context, ev Event) {
	if j == nil {
		return
	}
	for _, s := range j.sinks {
		if err := s.Record(ctx, ev); err != nil {
			metrics.JournalFailuresTotal.WithLabelValues(s.Name()).Inc()
			j.log.Warn("Failed to record mutation", "sink", s.Name(), "kind", ev.Kind, "error", err)
		}
	}
}

// LogSink writes events to a slog logger.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{log: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Record(ctx context.Context, ev Event) error {
	s.log.InfoContext(ctx, "Employee mutation",
		"event_id", ev.ID,
		"kind", ev.Kind,
		"employee_id", ev.EmployeeID,
		"name", ev.Name,
	)
	return nil
}
