package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ferg-cod3s/rq-challenge/internal/infra/upstream/provider"
)

// Source reports upstream transport health. *upstream.Client satisfies it.
type Source interface {
	Health() provider.HealthStatus
}

// Monitor produces health reports from a Source.
type Monitor struct {
	source   Source
	cacheTTL time.Duration

	mu         sync.Mutex
	lastReport *Report
}

// NewMonitor creates a monitor. Reports are reused for cacheTTL; zero
// disables caching.
func NewMonitor(source Source, cacheTTL time.Duration) *Monitor {
	return &Monitor{source: source, cacheTTL: cacheTTL}
}

// Check returns the current health report.
func (m *Monitor) Check() Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastReport != nil && m.cacheTTL > 0 && time.Since(m.lastReport.CheckedAt) < m.cacheTTL {
		return *m.lastReport
	}

	upstream := m.source.Health()
	report := Report{
		Status:    Evaluate(upstream),
		Upstream:  upstream,
		CheckedAt: time.Now(),
	}
	m.lastReport = &report
	return report
}

// ServeHTTP writes the report as JSON. Critical maps to 503.
func (m *Monitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := m.Check()
	w.Header().Set("Content-Type", "application/json")

	if report.Status == StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(report)
}
