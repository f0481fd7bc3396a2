// Package apperr carries the error kinds the HTTP layer translates into status codes.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	Backend Kind = iota
	NotFound
	Unauthorized
	Invalid
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Unauthorized:
		return "unauthorized"
	case Invalid:
		return "invalid"
	default:
		return "backend"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation messages for Invalid errors.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...interface{}) *Error {
	return &Error{Kind: Unauthorized, Message: fmt.Sprintf(format, args...)}
}

func InvalidField(field, message string) *Error {
	return &Error{
		Kind:    Invalid,
		Message: "Validation failed",
		Fields:  map[string][]string{field: {message}},
	}
}

func Wrap(err error, message string) *Error {
	return &Error{Kind: Backend, Message: message, Err: err}
}

// KindOf reports Backend for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Backend
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing text: the *Error message when there is one,
// otherwise the error string itself.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func FieldsOf(err error) map[string][]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
