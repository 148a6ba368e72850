package errors

import "fmt"

// ErrorType classifies the failures the distribution engine can hit
type ErrorType string

const (
	ErrorTypeConfig             ErrorType = "config"
	ErrorTypeStateCorrupt       ErrorType = "state_corrupt"
	ErrorTypeFolderConflict     ErrorType = "folder_conflict"
	ErrorTypeInsufficientImages ErrorType = "insufficient_images"
	ErrorTypeCopy               ErrorType = "copy"
	ErrorTypeUnknown            ErrorType = "unknown"
)

// Error carries the failure type alongside the message and underlying cause
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a typed error without an underlying cause
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a typed error around an underlying cause
func Wrap(errorType ErrorType, message string, cause error) *Error {
	return &Error{Type: errorType, Message: message, Cause: cause}
}

// IsFatal checks if an error type must abort the run. Config and state
// errors abort before any batch work; everything else is handled
// per-location with a warning.
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeConfig, ErrorTypeStateCorrupt:
		return true
	case ErrorTypeFolderConflict, ErrorTypeInsufficientImages, ErrorTypeCopy:
		return false
	default:
		return false
	}
}

// IsRetryable checks if an error type should be retried. Only copy
// failures are transient; conflicts and config problems will not change
// between attempts.
func IsRetryable(errorType ErrorType) bool {
	return errorType == ErrorTypeCopy
}
