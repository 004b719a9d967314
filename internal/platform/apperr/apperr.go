// Package apperr defines the error taxonomy shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConsistency
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConsistency:
		return "consistency"
	case KindTransient:
		return "transient"
	default:
		return "unexpected"
	}
}

// Error carries a kind, a stable machine code, a human message and optional context
// values (counts, names) the caller can act on.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Context map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// With returns a copy of e with key set in its context.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}

func newErr(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error { return newErr(KindValidation, code, message) }

func Conflict(code, message string) *Error { return newErr(KindConflict, code, message) }

func NotFound(code, message string) *Error { return newErr(KindNotFound, code, message) }

func Unauthenticated(message string) *Error {
	return newErr(KindUnauthenticated, "UNAUTHORIZED", message)
}

func Forbidden(message string) *Error { return newErr(KindForbidden, "FORBIDDEN", message) }

func Consistency(message string) *Error {
	return newErr(KindConsistency, "CONSISTENCY_ERROR", message)
}

// Transient marks a failure the caller may retry (lock timeout, deadlock, serialization).
func Transient(message string, err error) *Error {
	e := newErr(KindTransient, "TRANSIENT_ERROR", message)
	e.Err = err
	return e
}

// Wrap turns an arbitrary error into an Unexpected one, leaving *Error values untouched.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	e := newErr(KindUnexpected, "INTERNAL_ERROR", message)
	e.Err = err
	return e
}

// KindOf reports the kind of err, KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnexpected
}

// Is reports whether err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}

// As extracts the *Error from err.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
