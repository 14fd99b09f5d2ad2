package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-checkable classification attached to every
// service error. Controllers map kinds to HTTP statuses.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindOutOfRange         ErrorKind = "out_of_range"
	KindInvalidRubricLevel ErrorKind = "invalid_rubric_level"
	KindNotFound           ErrorKind = "not_found"
	KindForbidden          ErrorKind = "forbidden"
	KindConflict           ErrorKind = "conflict"
	KindInternal           ErrorKind = "internal"
)

// Error is the service-layer error type. Wrap an underlying cause with one
// of the constructors below; errors.As and KindOf unwrap it.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func OutOfRangeError(format string, args ...interface{}) *Error {
	return newError(KindOutOfRange, format, args...)
}

func InvalidRubricLevelError(format string, args ...interface{}) *Error {
	return newError(KindInvalidRubricLevel, format, args...)
}

func NotFoundError(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func ForbiddenError(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

func ConflictError(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// InternalError wraps an unexpected failure (usually from the datastore).
func InternalError(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf returns the kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
