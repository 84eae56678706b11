package errors

import (
	"fmt"
)

// PreflightError is the structured error type for preinstall.
// It carries enough context to render an actionable message to the user.
type PreflightError struct {
	// Code is the unique error code (e.g., "ERR_402_RUNTIME_VERSION").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *PreflightError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *PreflightError) Unwrap() error {
	return e.Cause
}

// Is matches another PreflightError by code, so errors.Is works against
// sentinel values built with New.
func (e *PreflightError) Is(target error) bool {
	if t, ok := target.(*PreflightError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *PreflightError) WithDetail(key, value string) *PreflightError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *PreflightError) WithSuggestion(suggestion string) *PreflightError {
	e.Suggestion = suggestion
	return e
}

// New creates a new PreflightError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *PreflightError {
	return &PreflightError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a PreflightError from an existing error.
// The error's message becomes the PreflightError message.
func Wrap(code string, err error) *PreflightError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *PreflightError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ProcessError creates an error for an external tool that failed to run.
func ProcessError(code, tool string, cause error) *PreflightError {
	return New(code, fmt.Sprintf("%s failed: %v", tool, cause), cause).
		WithDetail("tool", tool)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort the run instead of being accumulated.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := err.(*PreflightError); ok {
		return pe.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a PreflightError.
// Returns empty string if not a PreflightError.
func GetCode(err error) string {
	if pe, ok := err.(*PreflightError); ok {
		return pe.Code
	}
	return ""
}
