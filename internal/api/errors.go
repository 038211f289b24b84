package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
)

// Error codes used outside the domain taxonomy.
const (
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// statusFor maps a failure kind to the HTTP status returned to callers.
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	case apperrors.KindNotFound, apperrors.KindNoEmployees:
		return http.StatusNotFound
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// writeError writes error response
func writeError(w http.ResponseWriter, r *http.Request, statusCode int,
	code, message string, retryable bool, details map[string]any) {

	requestID := RequestIDFrom(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	respondJSON(w, statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// writeAppError maps a classified failure onto the response.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	status := statusFor(kind)
	message := "Internal server error"
	var details map[string]any

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && kind != apperrors.KindUnknown {
		message = appErr.Message
	}

	if kind == apperrors.KindRateLimited {
		retryAfter := time.Second
		if appErr != nil {
			if d, ok := appErr.Context["retry_after"].(time.Duration); ok && d > 0 {
				retryAfter = d
			}
		}
		secs := int(math.Ceil(retryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		details = map[string]any{"retryAfterSeconds": secs}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"requestID", RequestIDFrom(r.Context()),
			"path", r.URL.Path,
			"kind", kind,
			"error", err,
		)
	}

	retryable := kind == apperrors.KindRateLimited || kind == apperrors.KindUpstreamUnavailable
	writeError(w, r, status, string(kind), message, retryable, details)
}
