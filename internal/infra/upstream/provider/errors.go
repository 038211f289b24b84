package provider

import (
	"fmt"
	"time"
)

// TransportError is a failed round trip. StatusCode is 0 when no response
// was received.
type TransportError struct {
	Operation  string
	StatusCode int
	Body       string
	RetryAfter time.Duration
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: transport: %v", e.Operation, e.Cause)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: http %d: %s", e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: http %d", e.Operation, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
