// Package retry wraps a filesystem operation with a bounded retry loop.
// Only transient failures are retried; conflicts and configuration
// problems are handed straight back to the caller.
package retry

import (
	"errors"
	"fmt"
	"time"

	errs "locpack/pkg/errors"
	"locpack/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying
type Operation func() error

// Config holds retry configuration
type Config struct {
	// MaxAttempts is the maximum number of attempts
	MaxAttempts int
	// Backoff strategy to use
	Backoff BackoffStrategy
	// RetryIf determines if an error should be retried
	RetryIf func(error) bool
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultConfig returns a retry configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Backoff:     DefaultExponentialBackoff(),
		RetryIf:     DefaultRetryIf,
		Logger:      logger.GetLogger(),
	}
}

// DefaultRetryIf is the default retry predicate
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}

	var typed *errs.Error
	if errors.As(err, &typed) {
		return errs.IsRetryable(typed.Type)
	}

	// Untyped errors are assumed transient
	return true
}

// Do executes an operation with retry logic
func Do(op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		if cfg.MaxAttempts > 0 && attempt > cfg.MaxAttempts {
			if cfg.Logger != nil {
				cfg.Logger.ErrorWithFields("max retry attempts exceeded", map[string]interface{}{
					"attempts": attempt - 1,
					"error":    lastErr.Error(),
				})
			}
			return fmt.Errorf("operation failed after %d attempts: %w", attempt-1, lastErr)
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if cfg.RetryIf != nil && !cfg.RetryIf(lastErr) {
			return lastErr
		}

		delay := time.Duration(0)
		if cfg.Backoff != nil {
			delay = cfg.Backoff.NextDelay(attempt)
		}

		if cfg.Logger != nil {
			cfg.Logger.WarnWithFields("operation failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"delay":   delay,
				"error":   lastErr.Error(),
			})
		}

		time.Sleep(delay)
	}
}
