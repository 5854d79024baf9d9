// Package domain defines core types, interfaces, and errors for the query
// cost analyzer.
package domain

import "fmt"

// DataUnavailableError indicates the execution-history or metadata source is
// unreachable or the session lacks read access. Retryable.
type DataUnavailableError struct {
	Message string
}

func (e *DataUnavailableError) Error() string { return e.Message }

// TableNotFoundError indicates a single table could not be resolved.
// Per-table and non-fatal: aggregation degrades to an empty entry.
type TableNotFoundError struct {
	Message string
}

func (e *TableNotFoundError) Error() string { return e.Message }

// PromptConstructionError indicates malformed inputs to the prompt builder.
// Fatal: this is a programming error, not a transient condition.
type PromptConstructionError struct {
	Message string
}

func (e *PromptConstructionError) Error() string { return e.Message }

// CompletionUnavailableError indicates the external completion service
// failed. The built prompt is preserved so the caller can retry or display it.
type CompletionUnavailableError struct {
	Message string
	Prompt  OptimizationPrompt
}

func (e *CompletionUnavailableError) Error() string { return e.Message }

// ValidationError indicates invalid caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrDataUnavailable creates a DataUnavailableError with a formatted message.
func ErrDataUnavailable(format string, args ...interface{}) *DataUnavailableError {
	return &DataUnavailableError{Message: fmt.Sprintf(format, args...)}
}

// ErrTableNotFound creates a TableNotFoundError with a formatted message.
func ErrTableNotFound(format string, args ...interface{}) *TableNotFoundError {
	return &TableNotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrPromptConstruction creates a PromptConstructionError with a formatted message.
func ErrPromptConstruction(format string, args ...interface{}) *PromptConstructionError {
	return &PromptConstructionError{Message: fmt.Sprintf(format, args...)}
}

// ErrCompletionUnavailable creates a CompletionUnavailableError carrying the
// prompt that was already built.
func ErrCompletionUnavailable(prompt OptimizationPrompt, format string, args ...interface{}) *CompletionUnavailableError {
	return &CompletionUnavailableError{Message: fmt.Sprintf(format, args...), Prompt: prompt}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
