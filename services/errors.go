package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Each maps to one HTTP status in the response package.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrInvalidID    = errors.New("invalid id")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrNotFound     = errors.New("not found")
)

// Error is a classified failure with a client-facing message and an
// optional structured detail object.
type Error struct {
	Kind    error
	Message string
	Detail  map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string, detail map[string]any) *Error {
	return &Error{Kind: kind, Message: message, Detail: detail}
}

func ValidationError(message string, detail map[string]any) *Error {
	return newError(ErrValidation, message, detail)
}

func ConflictError(message string) *Error {
	return newError(ErrConflict, message, nil)
}

func NotFoundError(message string, detail map[string]any) *Error {
	return newError(ErrNotFound, message, detail)
}

func InvalidIDError(resource string) *Error {
	return newError(ErrInvalidID, "Invalid "+resource+" ID", map[string]any{
		"message": "The provided " + strings.ToLower(resource) + " ID is not valid",
	})
}

func AuthError(message string) *Error {
	return newError(ErrUnauthorized, message, nil)
}

func InvalidTokenError(message string) *Error {
	return newError(ErrInvalidToken, message, nil)
}
