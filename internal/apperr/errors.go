// Package apperr defines the error taxonomy surfaced by the API:
// Unauthorized, Validation, NotFound, Conflict, Internal. Handlers map
// each kind to a distinct status code; absent and unowned rows are both
// NotFound so existence never leaks across owners.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindValidation
	KindNotFound
	KindConflict
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }
func (e *Error) Kind() Kind    { return e.kind }
func (e *Error) Message() string {
	return e.msg
}

func newError(kind Kind, msg string) *Error { return &Error{kind: kind, msg: msg} }

func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg) }
func Validation(msg string) *Error   { return newError(KindValidation, msg) }
func NotFound(msg string) *Error     { return newError(KindNotFound, msg) }
func Conflict(msg string) *Error     { return newError(KindConflict, msg) }

// Internal wraps an unexpected downstream failure.
func Internal(msg string, err error) *Error {
	return &Error{kind: KindInternal, msg: msg, err: err}
}

// Validationf formats a validation message.
func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// KindOf extracts the kind of err, defaulting to KindInternal for
// anything outside the taxonomy.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind()
	}
	return KindInternal
}

// IsKind reports whether err belongs to the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
