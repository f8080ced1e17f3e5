// Package errors contains helper functions for wrapping errors with stack traces,
// aggregating multiple errors, and panic recovery.
package errors

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New creates a new error from the given value and wraps it in an Error type
// that contains the stack trace. If the value is already an error with a stack
// trace, it is reused rather than re-captured. If the value is nil, returns nil.
func New(val any) error {
	if val == nil {
		return nil
	}

	err, ok := val.(error)
	if !ok {
		err = fmt.Errorf("%v", val) //nolint:err113
	}

	if ContainsStackTrace(err) {
		return err
	}

	return goerrors.Wrap(err, 1)
}

// Errorf creates a new error with a formatted message and wraps it in an Error
// type that contains the stack trace.
func Errorf(message string, args ...any) error {
	err := fmt.Errorf(message, args...)
	return goerrors.Wrap(err, 1)
}

// WithStackTrace wraps the given error in an Error type that contains the stack trace.
// If the given error is nil, returns nil.
func WithStackTrace(err error) error {
	if err == nil {
		return nil
	}

	return goerrors.Wrap(err, 1)
}

// WithStackTraceAndPrefix wraps the given error in an Error type that contains the
// stack trace and has the given message prepended as part of the error message.
// If the given error is nil, returns nil.
func WithStackTraceAndPrefix(err error, message string, args ...any) error {
	if err == nil {
		return nil
	}

	return goerrors.WrapPrefix(err, fmt.Sprintf(message, args...), 1)
}

// ErrorWithExitCode is a custom error that is used to specify the app exit code.
type ErrorWithExitCode struct {
	Err      error
	ExitCode int
}

func (err ErrorWithExitCode) Error() string {
	return err.Err.Error()
}

func (err ErrorWithExitCode) Unwrap() error {
	return err.Err
}

// ErrorStack returns the stack traces of the given error and of any errors it
// wraps, if available.
func ErrorStack(err error) string {
	var stacks string

	for _, err := range UnwrapMultiErrors(err) {
		for {
			if err, ok := err.(interface{ ErrorStack() string }); ok {
				stacks += err.ErrorStack()
			}

			if err = errors.Unwrap(err); err == nil {
				break
			}
		}
	}

	return stacks
}

// ContainsStackTrace returns true if the given error contains a stack trace.
// Useful to avoid creating a nested stack trace.
func ContainsStackTrace(err error) bool {
	for _, err := range UnwrapMultiErrors(err) {
		for {
			if err, ok := err.(interface{ ErrorStack() string }); ok && err != nil {
				return true
			}

			if err = errors.Unwrap(err); err == nil {
				break
			}
		}
	}

	return false
}

// IsContextCanceled returns `true` if the error occurred due to `context.Canceled`, which is not really an error.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Recover tries to recover from panics, and if it succeeds, calls the given onPanic
// function with an error that explains the cause of the panic. This function should
// only be called from a defer statement.
func Recover(onPanic func(cause error)) {
	if rec := recover(); rec != nil {
		err, isError := rec.(error)
		if !isError {
			err = fmt.Errorf("%v", rec) //nolint:err113
		}

		onPanic(New(err))
	}
}

// UnwrapMultiErrors unwraps all nested multierrors into an error slice.
func UnwrapMultiErrors(err error) []error {
	errs := []error{err}

	for index := 0; index < len(errs); index++ {
		err := errs[index]

		for {
			if multiErr, ok := err.(interface{ WrappedErrors() []error }); ok {
				errs = append(errs[:index], errs[index+1:]...)
				errs = append(errs, multiErr.WrappedErrors()...)
				index--

				break
			}

			if err = errors.Unwrap(err); err == nil {
				break
			}
		}
	}

	return errs
}

// As finds the first error in err's tree that matches target, and if one is found, sets
// target to that error value and returns true. Otherwise, it returns false.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap returns the result of calling the Unwrap method on err, if err's
// type contains an Unwrap method returning error. Otherwise, Unwrap returns nil.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
