package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrOfferNotFound      = errors.New("offer not found")
	ErrPackageNotFound    = errors.New("offer detail not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrDuplicateReview    = errors.New("review already exists")
	ErrPageNotFound       = errors.New("invalid page")
)

// ValidationError collects per-field messages for a rejected input.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// FieldError is shorthand for a validation error on a single field.
func FieldError(field, msg string) error {
	return NewValidationError().Add(field, msg)
}

func (e *ValidationError) Add(field, msg string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Err returns nil when nothing was collected, so callers can write
// `if err := v.Err(); err != nil`.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation reports whether err carries field-level validation messages.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
