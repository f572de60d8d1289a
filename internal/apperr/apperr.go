// Package apperr defines the error taxonomy shared by the API layer and the
// data layer. Every failure the backend reports carries one of these kinds.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthorized Kind = "unauthorized" // no or invalid principal
	KindForbidden    Kind = "forbidden"    // valid principal, no access
	KindNotFound     Kind = "not_found"    // entity absent or inactive
	KindValidation   Kind = "validation"   // missing or malformed input
	KindConflict     Kind = "conflict"     // duplicate entity
	KindStorage      Kind = "storage"      // database failure, transaction rolled back
	KindUpstream     Kind = "upstream"     // external engine unreachable, timed out or non-success
)

// Error is a typed failure with a stable symbolic kind and a human-readable
// message. The wrapped cause, if any, is preserved for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, or KindStorage when err carries none.
// Unknown errors are treated as storage failures so nothing leaks details
// to the client by accident.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// MessageOf returns the human-readable message of err, falling back to a
// generic one for untyped errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
