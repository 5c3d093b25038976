// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
)

const defaultStackDepth = 32

var (
	_ error         = &Error{}
	_ fmt.Formatter = &Error{}
)

// Error wraps another error with the stacktrace captured at wrap time.
type Error struct {
	err   error
	trace stacktrace
}

// WithStack attaches a stacktrace to err. Wrapping nil returns nil.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return &Error{err: err, trace: callers(1, defaultStackDepth)}
}

// Format implements fmt.Formatter. %v/%+v include the stacktrace, %s does not.
func (e *Error) Format(st fmt.State, verb rune) {
	switch verb {
	case 'v':
		fmt.Fprintf(st, "%v", e.err)
		e.trace.Format(st, 'v')
	case 's':
		fmt.Fprintf(st, "%s", e.err)
	}
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.err, target)
}

func (e *Error) As(target any) bool {
	return errors.As(e.err, target)
}

func (e *Error) Unwrap() error {
	return e.err
}

// annotatedError prefixes an error with a message, keeping the cause
// reachable through Unwrap.
type annotatedError struct {
	msg string
	err error
}

// Wrapf annotates err with a formatted message. Wrapping nil returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &annotatedError{msg: fmt.Sprintf(format, args...), err: err}
}

func (e *annotatedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

func New(text string) error {
	return errors.New(text)
}

func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}
