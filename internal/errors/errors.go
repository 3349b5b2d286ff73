package errors

import (
	"errors"
	"fmt"
)

// Exit codes for ebctl
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitCloudNotFound = 2
	ExitTransport     = 3
	ExitNotFound      = 4
	ExitValidation    = 5
	ExitConfigError   = 6
	ExitTimeout       = 7
)

// EBError is the base error type for ebctl
type EBError struct {
	Code    int
	Message string
	Cause   error
}

func (e *EBError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *EBError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *EBError) ExitCode() int {
	return e.Code
}

// New creates a new EBError
func New(code int, message string) *EBError {
	return &EBError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an EBError
func Wrap(code int, message string, cause error) *EBError {
	return &EBError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// CloudNotFound returns an error for a cloud missing from the configuration
func CloudNotFound(name string) *EBError {
	return New(ExitCloudNotFound, fmt.Sprintf("cloud not found: %s", name))
}

// TransportError returns an error for a failed call to the ElasticBox API
func TransportError(op string, cause error) *EBError {
	return Wrap(ExitTransport, fmt.Sprintf("%s failed", op), cause)
}

// NotFound returns an error for an unresolvable resource
func NotFound(kind, id string) *EBError {
	return New(ExitNotFound, fmt.Sprintf("%s not found: %s", kind, id))
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *EBError {
	return New(ExitValidation, message)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *EBError {
	return Wrap(ExitConfigError, message, cause)
}

// Timeout returns an error for a wait that ran out of time
func Timeout(what string) *EBError {
	return New(ExitTimeout, fmt.Sprintf("timed out waiting for %s", what))
}

// IsTransport reports whether err carries a transport failure
func IsTransport(err error) bool {
	var ebErr *EBError
	return errors.As(err, &ebErr) && ebErr.Code == ExitTransport
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var ebErr *EBError
	if errors.As(err, &ebErr) {
		return ebErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
