package routing

import (
	"errors"
	"net/http"

	apperrors "github.com/ferg-cod3s/rq-challenge/internal/core/errors"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/upstream/provider"
)

// ErrorAction determines how to handle an error.
type ErrorAction int

const (
	ActionRetry ErrorAction = iota
	ActionFatal
)

// ClassifyStatus maps an upstream HTTP status to an error kind.
func ClassifyStatus(statusCode int) apperrors.Kind {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return apperrors.KindRateLimited
	case statusCode == http.StatusNotFound:
		return apperrors.KindNotFound
	case statusCode == http.StatusBadRequest:
		return apperrors.KindInvalidInput
	case statusCode >= 500 && statusCode <= 599:
		return apperrors.KindUpstreamUnavailable
	default:
		return apperrors.KindUnknown
	}
}

// Classify returns the kind of err. An already classified error keeps its
// kind; a transport failure is classified by status code only.
func Classify(err error) apperrors.Kind {
	if err == nil {
		return ""
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	var te *provider.TransportError
	if errors.As(err, &te) {
		return ClassifyStatus(te.StatusCode)
	}

	return apperrors.KindUnknown
}

// ClassifyError determines the action for a given error. Only rate limiting
// is retried; every other failure is returned to the caller as is.
func ClassifyError(err error) ErrorAction {
	if Classify(err) == apperrors.KindRateLimited {
		return ActionRetry
	}
	return ActionFatal
}

// ToAppError converts err into a classified *apperrors.Error.
func ToAppError(message string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	out := apperrors.Wrap(Classify(err), message, err)

	var te *provider.TransportError
	if errors.As(err, &te) {
		out.StatusCode = te.StatusCode
		if te.RetryAfter > 0 {
			out = out.WithContext("retry_after", te.RetryAfter)
		}
	}
	return out
}
