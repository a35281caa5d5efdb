// Package errors provides a lightweight structured error type (PipelineError)
// for category-based classification across the content pipeline and CLI.
package errors

import (
	"fmt"
)

// Category represents the category of a pipeline error for classification
type Category string

const (
	// User-facing configuration and input errors
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"

	// Content source errors
	CategoryContent    Category = "content"
	CategoryGit        Category = "git"
	CategoryFileSystem Category = "filesystem"

	// Index construction errors
	CategoryIndex Category = "index"

	// Runtime and infrastructure errors
	CategoryState   Category = "state"
	CategoryRuntime Category = "runtime"
)

// Severity indicates how critical an error is
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Stops execution
	SeverityError   Severity = "error"   // Error, but not fatal
	SeverityWarning Severity = "warning" // Continues with degraded functionality
)

// PipelineError is a structured error with category, severity, and context
type PipelineError struct {
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PipelineError
type ContextFields map[string]any

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PipelineError) WithContext(key string, value any) *PipelineError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// IsFatal reports whether the error should stop execution
func (e *PipelineError) IsFatal() bool {
	return e.Severity == SeverityFatal
}

// New creates a new PipelineError
func New(category Category, severity Severity, message string) *PipelineError {
	return &PipelineError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a PipelineError wrapping an underlying cause
func Wrap(cause error, category Category, severity Severity, message string) *PipelineError {
	return &PipelineError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    cause,
	}
}
