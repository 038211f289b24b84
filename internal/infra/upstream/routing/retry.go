// Package routing wraps upstream calls with the retry policy and the error
// classifier.
package routing

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	InitialDelay    time.Duration `yaml:"initial_delay"`
	MaxDelay        time.Duration `yaml:"max_delay"`
	BackoffMultiple float64       `yaml:"backoff_multiple"`
}

// DefaultRetryConfig is one attempt plus four retries, starting at one second
// and doubling, never waiting more than two minutes.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     5,
	InitialDelay:    1 * time.Second,
	MaxDelay:        120 * time.Second,
	BackoffMultiple: 2.0,
}

// RetryHook is called before each backoff wait. attempt is 1-based and
// counts the attempt that just failed.
type RetryHook func(attempt int, err error, delay time.Duration)

// CallWithRetry executes fn, retrying rate-limited failures with exponential
// backoff. Any other failure is returned immediately. When attempts run out
// the last rate-limit failure is returned. Cancelling ctx aborts a pending
// wait and no further attempt is made.
func CallWithRetry[T any](
	ctx context.Context,
	config RetryConfig,
	fn func(ctx context.Context) (T, error),
	onRetry RetryHook,
) (T, error) {
	var zero T
	var lastErr error

	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if ClassifyError(err) == ActionFatal {
			return zero, err // Stop immediately, do not retry
		}

		if attempt == maxAttempts-1 {
			break
		}

		delay := calculateBackoff(attempt, config)
		if onRetry != nil {
			onRetry(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("retry wait aborted after %d attempts: %w", attempt+1, ctx.Err())
		case <-timer.C:
		}
	}

	return zero, lastErr
}

func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	multiple := config.BackoffMultiple
	if multiple < 1 {
		multiple = 1
	}
	delay := float64(config.InitialDelay) * math.Pow(multiple, float64(attempt))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}
