package model

import (
	"errors"
	"fmt"
)

// ErrorKind is a stable machine-readable error category. Handlers map kinds
// to HTTP status codes; clients key their recovery behaviour off the kind.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindDuplicateUsername  ErrorKind = "duplicate_username"
	KindDuplicateEmail     ErrorKind = "duplicate_email"
	KindDuplicateContact   ErrorKind = "duplicate_contact"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindInvalidOperation   ErrorKind = "invalid_operation"
	KindServer             ErrorKind = "server_error"
)

// AppError is an application error with a stable kind and a human-readable
// message safe to return to the caller.
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates an AppError with the given kind and message.
func NewAppError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// ValidationError creates a validation-kind error.
func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// ServerError wraps an unexpected internal failure. The original error is
// logged by the caller; only a generic message travels to the client.
func ServerError() *AppError {
	return &AppError{Kind: KindServer, Message: "server error"}
}

// KindOf extracts the kind from an error, defaulting to KindServer for
// anything that is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}

// Errorf formats an AppError with the given kind.
func Errorf(kind ErrorKind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
