package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies pipeline errors. Per-row data problems are not
// errors at this level; they become ErrorDescriptor values. Only dataset
// and run level failures are represented here.
type ErrorType string

const (
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"
	ErrTypeEmptyDataset   ErrorType = "EMPTY_DATASET"
	ErrTypeExtraction     ErrorType = "EXTRACTION"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// PipelineError is the application error type for the ETL pipeline.
type PipelineError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with PipelineError
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error
func New(errType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewSchemaMismatch reports a dataset that lacks columns the cleaner
// requires. This is structural and fatal; it aborts the run.
func NewSchemaMismatch(message string, cause error) *PipelineError {
	return New(ErrTypeSchemaMismatch, message, cause)
}

// NewEmptyDataset reports that zero rows reached a stage whose ratio
// computations would otherwise divide by zero.
func NewEmptyDataset(message string) *PipelineError {
	return New(ErrTypeEmptyDataset, message, nil)
}

// NewExtractionError creates an extraction-related error
func NewExtractionError(message string, cause error) *PipelineError {
	return New(ErrTypeExtraction, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *PipelineError {
	return New(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration-related error
func NewConfigError(message string, cause error) *PipelineError {
	return New(ErrTypeConfig, message, cause)
}

// IsType reports whether err is a PipelineError of the given type.
func IsType(err error, errType ErrorType) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}
