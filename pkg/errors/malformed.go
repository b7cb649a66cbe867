package errors

import (
	"errors"
	"fmt"
)

// MalformedError reports a construct that cannot be mapped to any document
// node: an inconsistent table row, an empty field body, a section adornment
// introduced at a shallower level than first seen. It carries the offending
// source location and is never silently repaired.
type MalformedError struct {
	Message string
	Line    int // 1-based source line
	Col     int // 1-based source column, 0 when unknown
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	if e.Col > 0 {
		return fmt.Sprintf("%s: %s (line %d, column %d)", ErrCodeMalformedInput, e.Message, e.Line, e.Col)
	}
	return fmt.Sprintf("%s: %s (line %d)", ErrCodeMalformedInput, e.Message, e.Line)
}

// Code returns the error code for this error type.
func (e *MalformedError) Code() Code {
	return ErrCodeMalformedInput
}

// Malformed creates a MalformedError at the given source line.
func Malformed(line int, format string, args ...any) *MalformedError {
	return &MalformedError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

// MalformedAt creates a MalformedError with a full line/column location.
func MalformedAt(line, col int, format string, args ...any) *MalformedError {
	return &MalformedError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Col:     col,
	}
}

// IsMalformed reports whether err is (or wraps) a MalformedError.
func IsMalformed(err error) bool {
	var e *MalformedError
	return errors.As(err, &e)
}

// AsMalformed extracts the MalformedError from an error chain, if present.
func AsMalformed(err error) (*MalformedError, bool) {
	var e *MalformedError
	ok := errors.As(err, &e)
	return e, ok
}
