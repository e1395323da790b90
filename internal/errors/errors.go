// Package errors provides structured error handling for the vnext CLI.
// Only internal defects are fatal: absence conditions (no repository, no
// head) and collaborator failures are absorbed where detected and never
// surface through this package.
package errors

import "fmt"

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Config errors are caused by invalid configuration values.
	Config ErrorCategory = iota
	// Repository errors occur while reading the git repository.
	Repository
	// Network errors occur while talking to a hosting API.
	Network
	// Internal errors indicate a programming defect.
	Internal
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Config:
		return "Configuration Error"
	case Repository:
		return "Repository Error"
	case Network:
		return "Network Error"
	case Internal:
		return "Internal Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with a category and remediation guidance.
type CLIError struct {
	// Category is the type of error.
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// cause is the wrapped underlying error, if any.
	cause error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *CLIError) Unwrap() error {
	return e.cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Config, Message: message, Remediation: remediation}
}

// NewRepositoryError creates a new repository error.
func NewRepositoryError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Repository, Message: message, Remediation: remediation}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Internal, Message: message, Remediation: remediation}
}

// Wrap wraps an existing error with a CLIError, preserving the original
// message and the unwrap chain.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		cause:       err,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		cause:       err,
	}
}

// AsCLIError attempts to convert an error to a CLIError.
// Returns nil if the error is not a CLIError.
func AsCLIError(err error) *CLIError {
	cliErr, ok := err.(*CLIError)
	if ok {
		return cliErr
	}
	return nil
}
