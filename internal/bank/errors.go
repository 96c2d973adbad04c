package bank

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes account errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a rejected amount: non-positive, or
	// more than the strict account can cover.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeUnauthorized indicates an operation by someone other than the holder.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Error is returned by every failing account operation. The account is
// left unchanged.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidArgument returns true if err is an ErrCodeInvalidArgument error.
func IsInvalidArgument(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == ErrCodeInvalidArgument
}

// IsUnauthorized returns true if err is an ErrCodeUnauthorized error.
func IsUnauthorized(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == ErrCodeUnauthorized
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
