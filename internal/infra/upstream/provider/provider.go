// Package provider implements the upstream employee service transport.
//
// This package contains:
//   - Provider interface: one round trip per Execute, no retry or interpretation
//   - HTTPProvider: JSON-over-HTTP implementation against the envelope API
//   - Monitor: latency and throttle tracking shared by health reporting
//   - TransportError: status code and raw body of a failed round trip
package provider

import (
	"context"
	"encoding/json"
	"time"
)

// Operation describes a single upstream call.
type Operation struct {
	// Name identifies the operation for logs and metrics (e.g. "list", "delete")
	Name string

	// Method is the HTTP method (GET, POST, DELETE)
	Method string

	// Path is appended to the provider endpoint. It must already be escaped.
	Path string

	// Body is JSON encoded when non-nil.
	Body any
}

// Provider executes operations against the upstream service.
type Provider interface {
	// GetName returns provider identifier
	GetName() string

	// GetHealth returns current health metrics
	GetHealth() HealthStatus

	// Execute performs exactly one round trip and returns the envelope's data
	// field, or nil when the upstream omitted it.
	Execute(ctx context.Context, op Operation) (json.RawMessage, error)

	// Close cleans up resources
	Close() error
}

// HealthStatus represents the health state of a provider.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
	MonitorStats  *MonitorStats `json:"monitor_stats,omitempty"`
}
