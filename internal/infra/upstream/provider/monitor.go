package provider

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Status represents the observed state of the upstream.
type Status int

const (
	StatusHealthy   Status = iota // Upstream is answering normally
	StatusDegraded                // Upstream is slow but answering
	StatusThrottled               // Upstream is rate limiting us
)

// String returns a lower-case name for logs and JSON.
func (s Status) String() string {
	switch s {
	case StatusDegraded:
		return "degraded"
	case StatusThrottled:
		return "throttled"
	default:
		return "healthy"
	}
}

// MonitorStats holds monitoring statistics for a provider.
type MonitorStats struct {
	Status            string        `json:"status"`
	AverageLatency    time.Duration `json:"average_latency"`
	ThrottleCount429  int           `json:"throttle_count_429"`
	RequestsLastHour  int           `json:"requests_last_hour"`
	RetryAfter        time.Duration `json:"retry_after"`
	LastThrottledTime time.Time     `json:"last_throttled_at,omitempty"`
}

// Monitor tracks upstream latency and rate limiting. It only observes;
// it never blocks a call.
type Monitor struct {
	mu sync.RWMutex

	// Response time tracking
	recentLatencies  []time.Duration
	maxLatencyWindow int

	// Throttle tracking
	status429Count     int
	lastThrottleTime   time.Time
	retryAfterDuration time.Duration
	throttleThreshold  int

	// Sliding window
	requestTimestamps []time.Time
	windowDuration    time.Duration

	slowResponseThreshold time.Duration
}

// NewMonitor creates a new monitor with default settings.
func NewMonitor() *Monitor {
	return &Monitor{
		recentLatencies:       make([]time.Duration, 0, 100),
		maxLatencyWindow:      100,
		throttleThreshold:     3,
		requestTimestamps:     make([]time.Time, 0),
		windowDuration:        time.Hour,
		slowResponseThreshold: 3 * time.Second,
	}
}

// RecordRequest records a completed request with its latency.
func (m *Monitor) RecordRequest(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	m.recentLatencies = append(m.recentLatencies, latency)
	if len(m.recentLatencies) > m.maxLatencyWindow {
		m.recentLatencies = m.recentLatencies[1:]
	}

	m.requestTimestamps = append(m.requestTimestamps, now)

	cutoff := now.Add(-m.windowDuration)
	i := 0
	for i < len(m.requestTimestamps) && !m.requestTimestamps[i].After(cutoff) {
		i++
	}
	m.requestTimestamps = m.requestTimestamps[i:]
}

// RecordThrottle records a rate limiting response.
func (m *Monitor) RecordThrottle(statusCode int, retryAfter string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if statusCode != 429 {
		return
	}

	m.lastThrottleTime = time.Now()
	m.status429Count++
	m.retryAfterDuration = parseRetryAfter(retryAfter)
	if m.retryAfterDuration == 0 {
		m.retryAfterDuration = 60 * time.Second // Default 1min
	}
}

// CheckStatus returns the current status of the upstream.
func (m *Monitor) CheckStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.checkStatusLocked()
}

func (m *Monitor) checkStatusLocked() Status {
	if m.status429Count >= m.throttleThreshold &&
		time.Since(m.lastThrottleTime) < m.retryAfterDuration {
		return StatusThrottled
	}

	if len(m.recentLatencies) > 10 && m.averageLatencyLocked() > m.slowResponseThreshold {
		return StatusDegraded
	}

	return StatusHealthy
}

// GetRetryAfter returns remaining time before the upstream asked us to retry.
func (m *Monitor) GetRetryAfter() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.retryAfterLocked()
}

func (m *Monitor) retryAfterLocked() time.Duration {
	if m.retryAfterDuration > 0 {
		remaining := m.retryAfterDuration - time.Since(m.lastThrottleTime)
		if remaining > 0 {
			return remaining
		}
	}
	return 0
}

// GetAverageLatency returns the average latency of recent requests.
func (m *Monitor) GetAverageLatency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.averageLatencyLocked()
}

func (m *Monitor) averageLatencyLocked() time.Duration {
	if len(m.recentLatencies) == 0 {
		return 0
	}

	var total time.Duration
	for _, lat := range m.recentLatencies {
		total += lat
	}
	return total / time.Duration(len(m.recentLatencies))
}

// GetRequestCount returns number of requests in the given duration.
func (m *Monitor) GetRequestCount(duration time.Duration) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := time.Now().Add(-duration)
	count := 0
	for _, t := range m.requestTimestamps {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}

// GetStats returns current monitoring statistics.
func (m *Monitor) GetStats() MonitorStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MonitorStats{
		Status:            m.checkStatusLocked().String(),
		AverageLatency:    m.averageLatencyLocked(),
		ThrottleCount429:  m.status429Count,
		RequestsLastHour:  len(m.requestTimestamps),
		RetryAfter:        m.retryAfterLocked(),
		LastThrottledTime: m.lastThrottleTime,
	}
}

// parseRetryAfter understands the delta-seconds and HTTP-date forms.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
