// Package apperror defines the error taxonomy shared by the service and HTTP layers.
//
// The service layer returns *AppError values that wrap one of the sentinel
// errors below. The handler layer uses errors.Is to pick an HTTP status and
// AppError.Message as the client-visible text, so the service never needs to
// know about status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrTooLarge        = errors.New("too large")
	ErrInvalidContent  = errors.New("invalid content")
)

type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Detail  string // Optional: internal detail for logs, never sent to clients
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. The message is shown to the client as is.
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// UnsupportedType rejects a declared content type outside the allow-list.
func UnsupportedType(declared string) *AppError {
	return &AppError{
		Err:     ErrUnsupportedType,
		Message: "Unsupported file type. Only PNG or JPEG allowed.",
		Detail:  fmt.Sprintf("declared content type %q", declared),
	}
}

// TooLarge rejects a payload whose length exceeds limit bytes.
func TooLarge(size, limit int64) *AppError {
	return &AppError{
		Err:     ErrTooLarge,
		Message: "File too large. Max file size is 1MB.",
		Detail:  fmt.Sprintf("%d bytes exceeds limit of %d", size, limit),
	}
}

// InvalidContent rejects a payload whose bytes are not an allowed image format.
// reason says whether the signature was unknown or known but disallowed.
func InvalidContent(reason string) *AppError {
	return &AppError{
		Err:     ErrInvalidContent,
		Message: "File content is not a valid PNG or JPEG image.",
		Detail:  reason,
	}
}
