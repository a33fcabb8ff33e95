// Package bounds holds the error taxonomy shared by the text engine and the
// range checks that produce it.
//
// Every check runs before a mutation begins, so a failed check leaves the
// document and all attached caches untouched.
package bounds

import (
	"errors"
	"fmt"
)

// Errors returned by bounds checks.
var (
	// ErrIndexOutOfRange indicates a flat character index is negative or past the end.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrLineOutOfRange indicates a 1-based line number outside [1, lineCount].
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrColumnOutOfRange indicates a column outside the target line.
	ErrColumnOutOfRange = errors.New("column out of range")

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = errors.New("invalid range")
)

// Error describes a failed bounds check. It unwraps to one of the sentinel
// errors above so callers can use errors.Is.
type Error struct {
	// Kind is the sentinel error describing the failure.
	Kind error
	// Value is the rejected value (the start, for ErrInvalidRange).
	Value int
	// Limit is the bound the value was checked against (the end, for ErrInvalidRange).
	Limit int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == ErrInvalidRange {
		return fmt.Sprintf("%v: start %d > end %d", e.Kind, e.Value, e.Limit)
	}
	return fmt.Sprintf("%v: %d (limit %d)", e.Kind, e.Value, e.Limit)
}

// Unwrap returns the sentinel error.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, value, limit int) *Error {
	return &Error{Kind: kind, Value: value, Limit: limit}
}

// Index checks that index lies in [0, length]. When allowEnd is false the
// upper bound is exclusive.
func Index(index, length int, allowEnd bool) error {
	if index < 0 {
		return newError(ErrIndexOutOfRange, index, length)
	}
	if allowEnd {
		if index > length {
			return newError(ErrIndexOutOfRange, index, length)
		}
	} else if index >= length {
		return newError(ErrIndexOutOfRange, index, length)
	}
	return nil
}

// Range checks that [start, end) is a valid sub-range of a sequence of the
// given length.
func Range(start, end, length int) error {
	if err := Index(start, length, true); err != nil {
		return err
	}
	if err := Index(end, length, true); err != nil {
		return err
	}
	if start > end {
		return newError(ErrInvalidRange, start, end)
	}
	return nil
}

// Line checks that a 1-based line number lies in [1, lineCount].
func Line(line, lineCount int) error {
	if line < 1 || line > lineCount {
		return newError(ErrLineOutOfRange, line, lineCount)
	}
	return nil
}

// Column checks that column lies in [0, lineLen]. When allowEnd is false the
// upper bound is exclusive.
func Column(column, lineLen int, allowEnd bool) error {
	if column < 0 {
		return newError(ErrColumnOutOfRange, column, lineLen)
	}
	if allowEnd {
		if column > lineLen {
			return newError(ErrColumnOutOfRange, column, lineLen)
		}
	} else if column >= lineLen {
		return newError(ErrColumnOutOfRange, column, lineLen)
	}
	return nil
}

// Order checks that start is not after end.
func Order(start, end int) error {
	if start > end {
		return newError(ErrInvalidRange, start, end)
	}
	return nil
}
