package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated      = errors.New("usuario no autenticado")
	ErrForbidden            = errors.New("access forbidden")
	ErrNotFound             = errors.New("record not found")
	ErrConflict             = errors.New("record already exists")
	ErrSellerRequired       = errors.New("debes seleccionar un vendedor")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderLocked          = errors.New("order can no longer be deleted")
	ErrSelfModification     = errors.New("cannot modify own account")
	ErrRateLimited          = errors.New("too many requests")
	ErrMailerNotConfigured  = errors.New("mailer not configured")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// ValidationError is a structured validation failure keyed by the JSON field
// name of every invalid field.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
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

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}
