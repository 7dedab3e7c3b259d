package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized: user not authenticated")
	ErrForbidden    = errors.New("forbidden: insufficient permissions")
	ErrNotFound     = errors.New("resource not found")
	ErrStorage      = errors.New("file storage failure")
)

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// invalid builds a ValidationError, or nil when fields is empty.
func invalid(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ConflictError reports a business rule that blocks the operation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}
