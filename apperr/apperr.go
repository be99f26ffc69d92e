// Package apperr carries the error taxonomy shared by services, storage and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the coarse class of an error; it decides the HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeValidation        Code = "VALIDATION"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeInvalidOperation  Code = "INVALID_OPERATION"
	CodeConflict          Code = "CONFLICT"
	CodeInternal          Code = "INTERNAL"
)

// Error is a structured application error.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of code or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound, Code: CodeNotFound, Message: "not found"}
	ErrValidation = &Error{Kind: KindValidation, Code: CodeValidation, Message: "validation failed"}
	ErrConflict   = &Error{Kind: KindConflict, Code: CodeConflict, Message: "conflict"}
	ErrInternal   = &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal error"}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a status change the session state machine forbids.
func InvalidTransition(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

// InvalidOperation reports an operation that is well-formed but not allowed in the
// current state (e.g. a prediction on a session that is no longer taking bets).
func InvalidOperation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure, usually from storage.
func Internal(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of err; anything that is not an *Error is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the code of err, CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return CodeInternal
}

// HTTPStatus maps err onto a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
