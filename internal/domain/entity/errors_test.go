package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "rule failure",
			field:    "name",
			message:  "failed rules: required",
			expected: "validation error on field 'name': failed rules: required",
		},
		{
			name:     "empty field name",
			field:    "",
			message:  "test message",
			expected: "validation error on field '': test message",
		},
		{
			name:     "empty message",
			field:    "uri",
			message:  "",
			expected: "validation error on field 'uri': ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_InErrorChain(t *testing.T) {
	original := &ValidationError{Field: "uri", Message: "bad"}
	wrapped := fmt.Errorf("save folder: %w", original)

	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "uri", ve.Field)
}

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "entity not found", ErrNotFound.Error())
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
	assert.Equal(t, "validation failed", ErrValidationFailed.Error())

	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
	assert.False(t, errors.Is(ErrInvalidInput, ErrValidationFailed))
}

func TestRecordError(t *testing.T) {
	nameErr := &ValidationError{Field: "name", Message: "failed rules: required"}
	uriErr := &ValidationError{Field: "uri", Message: "uri must not contain whitespace"}
	err := &RecordError{Model: "Folder", Fields: []*ValidationError{nameErr, uriErr}}

	assert.Equal(t, "Folder: validation failed on fields [name, uri]", err.Error())
	assert.Equal(t, []string{"name", "uri"}, err.FieldNames())
	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.True(t, errors.Is(err, uriErr))
	assert.False(t, errors.Is(err, ErrNotFound))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Field)
}

func TestRecordError_Wrapped(t *testing.T) {
	err := fmt.Errorf("Save: %w", &RecordError{Model: "Tag"})

	var re *RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Tag", re.Model)
	assert.True(t, errors.Is(err, ErrValidationFailed))
}
