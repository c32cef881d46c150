package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure for the HTTP boundary.
type Kind int

const (
	KindUnclassified Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindLocked
)

// AppError is a typed domain failure. Message is safe to show to clients;
// Err keeps the internal cause for logs.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) error {
	return newError(KindValidation, format, args...)
}

func Unauthorized(format string, args ...interface{}) error {
	return newError(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return newError(KindForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return newError(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newError(KindConflict, format, args...)
}

func Locked(format string, args ...interface{}) error {
	return newError(KindLocked, format, args...)
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnclassified
}

// HTTPStatus maps err to a status code and a client-safe message.
func HTTPStatus(err error) (int, string) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Kind == KindUnclassified {
		return http.StatusInternalServerError, "Internal Server Error"
	}

	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest, appErr.Message
	case KindUnauthorized:
		return http.StatusUnauthorized, appErr.Message
	case KindForbidden:
		return http.StatusForbidden, appErr.Message
	case KindNotFound:
		return http.StatusNotFound, appErr.Message
	case KindConflict:
		return http.StatusConflict, appErr.Message
	case KindLocked:
		return http.StatusLocked, appErr.Message
	}
	return http.StatusInternalServerError, "Internal Server Error"
}
