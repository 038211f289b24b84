// Package upstream provides a resilient client for the upstream employee
// service.
//
// Every call goes through the same pipeline:
//
//	Client method -> routing.CallWithRetry -> provider.Execute (one round trip)
//	              -> routing.ToAppError on failure
//
// Package layout:
//
//   - provider/ - HTTP transport, envelope decoding, throttle monitor
//   - routing/  - retry/backoff policy and the status-code classifier
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ferg-cod3s/rq-challenge/internal/core/domain"
	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/upstream/provider"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/upstream/routing"
	"github.com/ferg-cod3s/rq-challenge/internal/metrics"
)

// Operation names used in logs and metrics.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpDelete = "delete"
)

// Client is the typed, retrying view of the upstream employee API.
// It is safe for concurrent use; it holds no per-call state.
type Client struct {
	provider provider.Provider
	retry    routing.RetryConfig
	log      *slog.Logger
}

// NewClient creates a client over p using the given retry policy.
func NewClient(p provider.Provider, retry routing.RetryConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		provider: p,
		retry:    retry,
		log:      logger.With("component", "upstream", "provider", p.GetName()),
	}
}

// ListEmployees reads the full upstream collection.
func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	op := provider.Operation{Name: OpList, Method: http.MethodGet}
	return call[[]domain.Employee](ctx, c, op, "list employees")
}

// GetEmployee reads one employee. A missing data field yields (nil, nil).
func (c *Client) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	op := provider.Operation{Name: OpGet, Method: http.MethodGet, Path: "/" + url.PathEscape(id)}
	return call[*domain.Employee](ctx, c, op, fmt.Sprintf("get employee %s", id))
}

// CreateEmployee posts a new employee and returns the upstream's copy.
func (c *Client) CreateEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error) {
	op := provider.Operation{Name: OpCreate, Method: http.MethodPost, Body: emp}
	return call[*domain.Employee](ctx, c, op, "create employee")
}

// DeleteEmployeeByName removes an employee. The upstream delete endpoint is
// keyed by name and also expects the name in the JSON body.
func (c *Client) DeleteEmployeeByName(ctx context.Context, name string) (bool, error) {
	op := provider.Operation{
		Name:   OpDelete,
		Method: http.MethodDelete,
		Path:   "/" + url.PathEscape(name),
		Body:   map[string]string{"name": name},
	}
	return call[bool](ctx, c, op, fmt.Sprintf("delete employee %q", name))
}

// Health exposes the underlying provider health.
func (c *Client) Health() provider.HealthStatus {
	return c.provider.GetHealth()
}

func call[T any](ctx context.Context, c *Client, op provider.Operation, message string) (T, error) {
	attemptFn := func(ctx context.Context) (json.RawMessage, error) {
		start := time.Now()
		data, err := c.provider.Execute(ctx, op)
		metrics.UpstreamLatency.WithLabelValues(op.Name).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.UpstreamCallsTotal.WithLabelValues(op.Name, "error").Inc()
			metrics.UpstreamErrorsTotal.WithLabelValues(op.Name, string(routing.Classify(err))).Inc()
			return nil, err
		}
		metrics.UpstreamCallsTotal.WithLabelValues(op.Name, "success").Inc()
		return data, nil
	}

	onRetry := func(attempt int, err error, delay time.Duration) {
		metrics.UpstreamRetriesTotal.WithLabelValues(op.Name).Inc()
		c.log.Warn("Rate limited by upstream, backing off",
			"operation", op.Name,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
	}

	var zero T
	data, err := routing.CallWithRetry(ctx, c.retry, attemptFn, onRetry)
	if err != nil {
		appErr := routing.ToAppError(message, err)
		logFailure(c.log, op.Name, appErr)
		return zero, appErr
	}

	if data == nil {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, apperrors.Wrap(apperrors.KindUnknown, message+": decode data", err)
	}
	return out, nil
}

func logFailure(log *slog.Logger, op string, err error) {
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindNotFound, apperrors.KindInvalidInput:
		log.Debug("Upstream rejected request", "operation", op, "kind", kind, "error", err)
	case apperrors.KindUnknown, apperrors.KindUpstreamUnavailable:
		log.Error("Upstream call failed", "operation", op, "kind", kind, "error", err)
	default:
		log.Warn("Upstream call failed", "operation", op, "kind", kind, "error", err)
	}
}
