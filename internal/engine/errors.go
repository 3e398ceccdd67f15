package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error surfaced by the invocation pipeline.
//
// The pipeline surfaces exactly one kind of error: an unknown template
// name. Faults inside a behavior are contained and never become a
// RuntimeError.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Template is the name the caller asked for.
	Template string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownTemplate indicates no canonical name or alias matched.
	ErrCodeUnknownTemplate RuntimeErrorCode = "UNKNOWN_TEMPLATE"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("%s: %s (template=%q)", e.Code, e.Message, e.Template)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsUnknownTemplate returns true if the error is an unknown template error.
// Uses errors.As to handle wrapped errors.
func IsUnknownTemplate(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnknownTemplate
	}
	return false
}

// NewUnknownTemplateError creates a RuntimeError for an unresolvable name.
func NewUnknownTemplateError(name string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeUnknownTemplate,
		Message:  "no template or alias matches",
		Template: name,
		Err:      cause,
	}
}
