package common

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable rejection code.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindConflict           Kind = "CONFLICT"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindTokenExpired       Kind = "TOKEN_EXPIRED"
	KindUserNotFound       Kind = "USER_NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindNotFound           Kind = "NOT_FOUND"
	KindInternal           Kind = "INTERNAL"
)

// Violation describes one invalid input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a structured rejection. Message is safe to show to clients; Err
// holds the underlying cause and is only meant for logs.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so sentinels match derived errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// Validation builds a VALIDATION_ERROR listing every violation.
func Validation(violations []Violation) *Error {
	return &Error{Kind: KindValidation, Message: ErrValidation.Message, Violations: violations}
}

// Internal wraps an unexpected failure. Already structured errors pass through.
func Internal(cause error) *Error {
	var e *Error
	if errors.As(cause, &e) {
		return e
	}
	return ErrorInternal.Wrap(cause)
}
