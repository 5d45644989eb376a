package constants

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the store, the coordinator and the HTTP layer.
var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrProtected            = errors.New("protected mutation rejected")
	ErrConflict             = errors.New("conflict")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrUnauthorized         = errors.New("unauthorized")
)

// FieldError is a validation failure scoped to one field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match field errors.
func (e *FieldError) Unwrap() error { return ErrValidation }

func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// ProtectedError explains why a protected mutation was rejected locally.
type ProtectedError struct {
	Message string
}

func (e *ProtectedError) Error() string { return e.Message }

// Unwrap lets errors.Is(err, ErrProtected) match.
func (e *ProtectedError) Unwrap() error { return ErrProtected }

func NewProtectedError(message string) error {
	return &ProtectedError{Message: message}
}
