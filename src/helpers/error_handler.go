package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"candle-chart/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type ChartError struct {
	Message string
	Cause   error
}

func (e *ChartError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ChartError) Unwrap() error {
	return e.Cause
}

// Distinct kinds so callers can map them with errors.As.
type ConfigurationError struct{ ChartError }
type NetworkError struct{ ChartError }
type DataSourceError struct{ ChartError }
type DatabaseError struct{ ChartError }
type ValidationError struct{ ChartError }
type NotFoundError struct{ ChartError }

// -----------------------------------------------------------------------------

func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{ChartError{Message: fmt.Sprintf(format, args...)}}
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{ChartError{Message: fmt.Sprintf(format, args...)}}
}

func NewNotFoundError(format string, args ...interface{}) error {
	return &NotFoundError{ChartError{Message: fmt.Sprintf(format, args...)}}
}

func WrapNetworkError(cause error, format string, args ...interface{}) error {
	return &NetworkError{ChartError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

func WrapDataSourceError(cause error, format string, args ...interface{}) error {
	return &DataSourceError{ChartError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

func WrapDatabaseError(cause error, format string, args ...interface{}) error {
	return &DatabaseError{ChartError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

var retryLogger = logger.NewLogger(nil, "Retry")

// RetryWithBackoff runs fn up to maxRetries times, doubling baseDelay after
// every failure. It gives up early when ctx is cancelled.
func RetryWithBackoff(ctx context.Context, operation string, maxRetries int, baseDelay time.Duration, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		retryLogger.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries, operation, lastErr, delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w (last error: %v)", operation, ctx.Err(), lastErr)
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, maxRetries, lastErr)
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

// ErrorHandler counts consecutive failures of a recurring job and logs them.
type ErrorHandler struct {
	Logger          *logger.Logger
	ErrorCount      int
	MaxErrorsBefore int
}

func NewErrorHandler(name string) *ErrorHandler {
	return &ErrorHandler{
		Logger:          logger.NewLogger(nil, name),
		MaxErrorsBefore: 10,
	}
}

// -----------------------------------------------------------------------------

// Handle logs err and reports whether the failure budget is exhausted.
// A nil err recovers one unit of budget.
func (e *ErrorHandler) Handle(err error, where string) bool {
	if err == nil {
		if e.ErrorCount > 0 {
			e.ErrorCount--
		}
		return false
	}

	e.ErrorCount++
	e.Logger.Error("Error in %s (%d/%d): %v", where, e.ErrorCount, e.MaxErrorsBefore, err)
	return e.ErrorCount >= e.MaxErrorsBefore
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.ErrorCount = 0
}
