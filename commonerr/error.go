/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package commonerr

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/commonskit/go-commons/log"
)

// Argument is a named piece of context attached to an Error.
type Argument struct {
	Key   string
	Value interface{}
}

// Arg creates a new Argument.
func Arg(key string, value interface{}) Argument {
	return Argument{Key: key, Value: value}
}

// Error is an error with a message, an optional cause, and an ordered list of named arguments
// (e.g. the offending type or the attempted capacity).
type Error struct {
	msg   string
	cause error
	args  []Argument
}

// New creates a new Error without a cause.
func New(msg string, args ...Argument) *Error {
	e := &Error{msg: msg}
	for _, arg := range args {
		e.AddArgument(arg.Key, arg.Value)
	}
	return e
}

// Wrap creates a new Error caused by the given error.
// The cause is annotated with the stack trace of the caller, so it may be matched with errors.Is
// and printed with "%+v" for diagnostics.
func Wrap(cause error, msg string, args ...Argument) *Error {
	e := New(msg, args...)
	if cause != nil {
		e.cause = errors.WithStackDepth(cause, 1)
	}
	return e
}

// AddArgument adds a named argument to the error.
// If the argument with the same key already exists, its value is replaced and its position is kept.
func (e *Error) AddArgument(key string, value interface{}) *Error {
	if _, idx, found := lo.FindIndexOf(e.args, func(a Argument) bool { return a.Key == key }); found {
		e.args[idx].Value = value
		return e
	}
	e.args = append(e.args, Argument{Key: key, Value: value})
	return e
}

// Argument returns the value of the argument with the given key.
func (e *Error) Argument(key string) (interface{}, bool) {
	arg, found := lo.Find(e.args, func(a Argument) bool { return a.Key == key })
	return arg.Value, found
}

// Arguments returns a copy of all arguments in the order they were added.
func (e *Error) Arguments() []Argument {
	return append([]Argument(nil), e.args...)
}

// Message returns the error message without the cause and arguments.
func (e *Error) Message() string {
	return e.msg
}

// LogFields returns arguments as logging fields.
func (e *Error) LogFields() []log.Field {
	return lo.Map(e.args, func(a Argument, _ int) log.Field {
		return log.Any(a.Key, a.Value)
	})
}

// Error returns a string representation of the error.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	if e.cause != nil {
		if sb.Len() != 0 {
			sb.WriteString(": ")
		}
		sb.WriteString(e.cause.Error())
	}
	if len(e.args) != 0 {
		sb.WriteString(" [")
		for i, arg := range e.args {
			if i != 0 {
				sb.WriteString(", ")
			}
			_, _ = fmt.Fprintf(&sb, "%s=%v", arg.Key, arg.Value)
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Format implements fmt.Formatter interface.
// "%+v" prints the error together with the stack trace of its cause.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') && e.cause != nil {
			_, _ = io.WriteString(s, e.Error())
			_, _ = fmt.Fprintf(s, "\n%+v", e.cause)
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}
