package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateReview = errors.New("duplicate review")
)

// ValidationError reports missing or malformed input (HTTP 400).
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PermissionError reports a role that lacks a capability (HTTP 403).
type PermissionError struct{ Message string }

func (e *PermissionError) Error() string { return e.Message }

func Forbidden(format string, args ...any) error {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an id that does not resolve (HTTP 404).
type NotFoundError struct{ Entity string }

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(entity string) error { return &NotFoundError{Entity: entity} }

// DuplicateReviewError is returned when a user reviews the same property
// twice; the unique index on (property_id, user_id) is the source of truth.
type DuplicateReviewError struct {
	PropertyID string
	UserID     string
}

func (e *DuplicateReviewError) Error() string {
	return "you have already reviewed this property"
}

func (e *DuplicateReviewError) Is(target error) bool { return target == ErrDuplicateReview }

// StatusOf maps an error onto the HTTP status of its taxonomy bucket.
func StatusOf(err error) int {
	var ve *ValidationError
	var pe *PermissionError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve), errors.Is(err, ErrDuplicateReview):
		return http.StatusBadRequest
	case errors.As(err, &pe):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
