// Package errors attaches typed codes to errors so callers can branch on failure kind
// after the error has crossed package boundaries.
//
// A code survives wrapping, both by this package and by fmt.Errorf with %w:
//
//	err := errors.Wrapf(errors.ErrCodeStateDecodeFailed, cause, "failed to restore %s", name)
//	if errors.HasCode(err, errors.ErrCodeVersionMismatch) { ... }
//
// Pipeline layer rejections are results, not errors, and do not use this package.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a coded error, optionally wrapping the error that caused it.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches code and message to cause. A nil cause yields a plain coded error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Error renders "[code category] message: cause".
func (e *Error) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%d %s] %s", e.Code, e.Code.Category(), e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is is errors.Is, re-exported so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the code of the outermost *Error in the chain, or ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	codes := Codes(err)
	if len(codes) == 0 {
		return ErrCodeUnknown
	}

	return codes[0]
}

// Codes lists the code of every *Error in the chain, outermost first.
func Codes(err error) []ErrorCode {
	var codes []ErrorCode

	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}

		codes = append(codes, e.Code)
		err = e.Cause
	}

	return codes
}

// HasCode reports whether any *Error in the chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for _, c := range Codes(err) {
		if c == code {
			return true
		}
	}

	return false
}
