package note

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes notebook errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a bad input: an out-of-range rule
	// index, a name that was never written, or an empty name.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeInvalidState indicates an operation attempted in the wrong
	// state, such as amending before any name has been written.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Error is returned by every failing notebook operation.
// Message is always non-blank.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the name involved, if any.
	Name string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%q)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidArgument returns true if err is an ErrCodeInvalidArgument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Code == ErrCodeInvalidArgument
	}
	return false
}

// IsInvalidState returns true if err is an ErrCodeInvalidState error.
// Uses errors.As to handle wrapped errors.
func IsInvalidState(err error) bool {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Code == ErrCodeInvalidState
	}
	return false
}

func invalidArgument(name, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
		Name:    name,
	}
}

func invalidState(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf(format, args...),
	}
}
