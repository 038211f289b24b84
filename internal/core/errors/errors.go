// Package errors defines the gateway's error taxonomy.
//
// Every failure leaving the orchestrator is an *Error carrying a Kind, so the
// entry-point layer can map it to a response without inspecting messages.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindRateLimited means the upstream kept answering 429 after retries.
	KindRateLimited Kind = "RATE_LIMITED"
	// KindNotFound means the requested employee does not exist upstream.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidInput means the upstream (or local validation) rejected the input.
	KindInvalidInput Kind = "INVALID_INPUT"
	// KindUpstreamUnavailable means the upstream answered with a 5xx.
	KindUpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"
	// KindNoEmployees means an aggregate was requested over an empty collection.
	KindNoEmployees Kind = "NO_EMPLOYEES"
	// KindDeletionRace is internal to the delete flow and never surfaced.
	KindDeletionRace Kind = "DELETION_RACE"
	// KindUnknown covers everything else.
	KindUnknown Kind = "UNKNOWN"
)

// ErrNoEmployees is returned by aggregates over an empty collection.
var ErrNoEmployees = New(KindNoEmployees, "no employees found")

// Error is a classified failure.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // upstream HTTP status, 0 when none
	Cause      error
	Context    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies cause under kind.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithContext returns a copy of e with key=value added to its context.
func (e *Error) WithContext(key string, value any) *Error {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
