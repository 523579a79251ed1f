// Package errors provides the application's typed error system.
//
// It extends the standard errors package with type-based classification
// and chaining. Every error carries an ErrorType, and Wrap accumulates
// context while preserving the cause chain.
//
// Creating and wrapping:
//
//	err := errors.New(errors.InvalidInput, "target count must be at least 1")
//	return errors.Wrap(err, errors.System, "failed to open the output file")
//
// Inspecting:
//
//	if errors.Is(err, errors.InvalidInput) { ... }
//	root := errors.RootCause(err)
package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// AppError is the standard representation of every error raised by the
// application.
type AppError struct {
	errType ErrorType
	message string
	cause   error
	stack   []StackFrame
}

// Type returns the error classification.
func (e *AppError) Type() ErrorType {
	return e.errType
}

// Message returns the human readable message without the cause chain.
func (e *AppError) Message() string {
	return e.message
}

// Stack returns the call stack captured when the error was created.
func (e *AppError) Stack() []StackFrame {
	return e.stack
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.errType, e.message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Format implements fmt.Formatter. With %+v the full cause chain and the
// captured stack are printed. The stack is only printed at the innermost
// AppError of the chain to avoid repeating it at every wrapping layer.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "[%s] %s", e.errType, e.message)

			var target *AppError
			if e.cause == nil || !errors.As(e.cause, &target) {
				if len(e.stack) > 0 {
					fmt.Fprint(s, "\nStack trace:")
					for _, frame := range e.stack {
						funcName := frame.Function
						if idx := strings.LastIndex(funcName, "/"); idx != -1 {
							funcName = funcName[idx+1:]
						}
						fmt.Fprintf(s, "\n\t%s:%d %s", frame.File, frame.Line, funcName)
					}
				}
			}

			if e.cause != nil {
				fmt.Fprint(s, "\nCaused by:\n")
				if formatter, ok := e.cause.(fmt.Formatter); ok {
					formatter.Format(s, verb)
				} else {
					fmt.Fprintf(s, "\t%v", e.cause)
				}
			}
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// New creates a new classified error.
func New(errType ErrorType, message string) error {
	return &AppError{
		errType: errType,
		message: message,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Newf creates a new classified error from a format string.
func Newf(errType ErrorType, format string, args ...any) error {
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrap annotates an existing error with a type and message. Returns nil
// when err is nil so call sites can wrap unconditionally.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: message,
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrapf annotates an existing error using a format string.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Is reports whether any error in the chain carries the given ErrorType.
func Is(err error, errType ErrorType) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			if appErr.errType == errType {
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// As finds the first error in the chain matching target's type.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// RootCause walks the chain down to the innermost error.
func RootCause(err error) error {
	if err == nil {
		return nil
	}

	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// UnderlyingType returns the ErrorType of the innermost AppError of the
// chain, or Unknown when the chain holds no AppError. Useful when a wrapped
// error must be classified by its original nature rather than by the
// outermost wrapping layer.
func UnderlyingType(err error) ErrorType {
	var lastAppErrorType ErrorType = Unknown

	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			lastAppErrorType = appErr.errType
		}
		err = errors.Unwrap(err)
	}

	return lastAppErrorType
}
