// Package errors provides coded errors shared by the placement engine, the
// pipeline, the HTTP API and the CLI.
//
// Every failure a caller may want to act on carries a [Code]. Codes are
// plain strings grouped by prefix: INVALID_* for rejected input, NOT_* for
// capacity and lookup failures, and INTERNAL_ERROR / UNSUPPORTED for the rest.
// A Code is itself an error, so the standard library can match it:
//
//	_, err := placement.Search(ctx, cmds, min, max, orient, placer)
//	if stderrors.Is(err, errors.ErrCodeNotEnoughSpace) {
//	    // grow the box
//	}
//
// [Is] is the same check without the stdlib import.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidArgument    Code = "INVALID_ARGUMENT"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidOrientation Code = "INVALID_ORIENTATION"
	ErrCodeInvalidChain       Code = "INVALID_CHAIN"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	ErrCodeNotEnoughSpace Code = "NOT_ENOUGH_SPACE"
	ErrCodeNotFound       Code = "NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error makes a Code usable as an errors.Is target.
func (c Code) Error() string { return string(c) }

// Invalid reports whether c is one of the INVALID_* codes.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Error is a coded error with a human-readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches a Code target against e's code.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any Error in err's chain carries code.
func Is(err error, code Code) bool {
	return err != nil && errors.Is(err, code)
}

// GetCode returns the code of the outermost Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the outermost Error's message without its code, or
// err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err's code is one of the INVALID_* codes.
func IsInvalid(err error) bool {
	return GetCode(err).Invalid()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
