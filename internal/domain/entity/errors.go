package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// RecordError collects the field errors of one invalid record.
// It unwraps to ErrValidationFailed and to each *ValidationError.
type RecordError struct {
	Model  string
	Fields []*ValidationError
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s on fields [%s]", e.Model, ErrValidationFailed, strings.Join(e.FieldNames(), ", "))
}

// FieldNames returns the names of the failing fields in order.
func (e *RecordError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

func (e *RecordError) Unwrap() []error {
	out := make([]error, 0, len(e.Fields)+1)
	out = append(out, ErrValidationFailed)
	for _, f := range e.Fields {
		out = append(out, f)
	}
	return out
}
