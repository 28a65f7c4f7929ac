// Package apperror defines the outcome signals the core reports to the
// transport layer. Handlers map them to HTTP; nothing below the handler knows
// about status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrInvalidReference = errors.New("invalid reference")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// TagNotFound is the NotFound variant for a tag addressed by name on a prompt.
func TagNotFound(promptID, name string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("tag %q not found on prompt %s", name, promptID),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidReference reports that field points at an entity that does not exist.
// HTTP handlers map this to 400 Bad Request.
func InvalidReference(field, id string) *AppError {
	return &AppError{
		Err:     ErrInvalidReference,
		Message: fmt.Sprintf("%s %s does not reference an existing collection", field, id),
		Field:   field,
	}
}
