// Package health derives the gateway's health from the upstream transport
// and reports it over HTTP and the standard gRPC health protocol.
package health

import (
	"time"

	"github.com/ferg-cod3s/rq-challenge/internal/infra/upstream/provider"
)

// SystemStatus represents the overall health state of the gateway.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Report is the full health report served on /health.
type Report struct {
	Status    SystemStatus          `json:"status"`
	Upstream  provider.HealthStatus `json:"upstream"`
	CheckedAt time.Time             `json:"checked_at"`
}

// Evaluate maps upstream transport health to a system status.
// Worst case wins: a failing upstream is critical, a throttling or slow one
// is degraded.
func Evaluate(h provider.HealthStatus) SystemStatus {
	if !h.Available || h.ErrorRate > 0.5 {
		return StatusCritical
	}
	if h.MonitorStats != nil {
		switch h.MonitorStats.Status {
		case provider.StatusThrottled.String(), provider.StatusDegraded.String():
			return StatusDegraded
		}
	}
	return StatusHealthy
}
