// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMessages(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{ErrMeetingNotFound, "meeting not found"},
		{ErrAvailabilityNotFound, "availability not found"},
		{ErrAuthenticationRequired, "authentication required"},
		{ErrForbidden, "forbidden"},
		{ErrRevisionMismatch, "revision mismatch"},
		{ErrValidationFailed, "validation failed"},
		{ErrServiceUnavailable, "service unavailable"},
		{ErrInternal, "internal error"},
		{ErrUnmarshal, "unmarshal error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	errorVars := []error{
		ErrMeetingNotFound,
		ErrAvailabilityNotFound,
		ErrAuthenticationRequired,
		ErrForbidden,
		ErrRevisionMismatch,
		ErrValidationFailed,
		ErrServiceUnavailable,
		ErrInternal,
		ErrUnmarshal,
	}

	for i, a := range errorVars {
		for j, b := range errorVars {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors %d and %d should be distinct", i, j)
			}
		}
	}
}

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	err := NewNotFoundError("meeting not found", ErrMeetingNotFound)
	assert.Equal(t, "meeting not found: meeting not found", err.Error())
	assert.ErrorIs(t, err, ErrMeetingNotFound)

	bare := NewValidationError("bad input")
	assert.Equal(t, "bad input", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"validation", NewValidationError("x"), ErrorTypeValidation},
		{"unauthorized", NewUnauthorizedError("x"), ErrorTypeUnauthorized},
		{"forbidden", NewForbiddenError("x"), ErrorTypeForbidden},
		{"not found", NewNotFoundError("x"), ErrorTypeNotFound},
		{"conflict", NewConflictError("x"), ErrorTypeConflict},
		{"internal", NewInternalError("x"), ErrorTypeInternal},
		{"unavailable", NewUnavailableError("x"), ErrorTypeUnavailable},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewForbiddenError("x")), ErrorTypeForbidden},
		{"plain error falls back to internal", errors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorType(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "meeting not found", GetErrorMessage(NewNotFoundError("meeting not found", errors.New("kv: key not found"))))
	assert.Equal(t, "internal error", GetErrorMessage(errors.New("pq: connection refused")))
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "validation", ErrorTypeValidation.String())
	assert.Equal(t, "unauthorized", ErrorTypeUnauthorized.String())
	assert.Equal(t, "forbidden", ErrorTypeForbidden.String())
	assert.Equal(t, "not_found", ErrorTypeNotFound.String())
	assert.Equal(t, "conflict", ErrorTypeConflict.String())
	assert.Equal(t, "internal", ErrorTypeInternal.String())
	assert.Equal(t, "unavailable", ErrorTypeUnavailable.String())
}
