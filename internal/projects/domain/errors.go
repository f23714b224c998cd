package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound also covers projects that exist but belong to someone else.
	ErrNotFound        = errors.New("project not found")
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrForbidden       = errors.New("not allowed")
	ErrSlugTaken       = errors.New("project slug already taken")
)

// ValidationError reports payload problems found before any store access.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, f)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, f := range keys {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
