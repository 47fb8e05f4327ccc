// Package apperr defines the coded error type shared by every feature.
// Usecases declare sentinels with New and handlers map them to HTTP responses.
package apperr

import (
	"errors"
	"fmt"
)

// CodeInternal is reported for any error that is not an *Error.
const CodeInternal = "Internal"

// Error is a domain error with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
}

// New creates a domain error sentinel.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsDomain reports whether err carries a domain error code.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

type detailed struct {
	base *Error
	msg  string
}

func (d *detailed) Error() string { return d.msg }
func (d *detailed) Unwrap() error { return d.base }

// Wrapf returns an error with a formatted message that still matches base
// with errors.Is and reports base's code.
func Wrapf(base *Error, format string, args ...any) error {
	return &detailed{base: base, msg: fmt.Sprintf(format, args...)}
}
