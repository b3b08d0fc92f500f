// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-nus.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrNotSupported       = fmt.Errorf("operation not supported")
	ErrNotInitialized     = fmt.Errorf("transport is not initialized")
	ErrAlreadyInitialized = fmt.Errorf("transport is already initialized")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
	ErrNoConnection       = fmt.Errorf("no subscribed connection")
	ErrDispatcherClosed   = fmt.Errorf("event dispatcher is closed")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeNotSupported
	ErrCodeInvalidState
	ErrCodeLink
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the sentinel the error was built from, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap creates a structured error around a sentinel.
func Wrap(code ErrorCode, err error) *Error {
	e := NewError(code, err.Error())
	e.Err = err
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
