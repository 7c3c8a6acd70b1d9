/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import "fmt"

// PrefixedLogger prepends a fixed text to every message logged through it.
// The registry uses it to mark messages of all caches it owns (e.g. "cache registry: entry added").
type PrefixedLogger struct {
	delegate FieldLogger
	prefix   string
}

// NewPrefixedLogger returns a logger that prefixes all messages with the given text.
// Prefixing an already prefixed logger concatenates both prefixes, the outer one first.
func NewPrefixedLogger(delegate FieldLogger, prefix string) FieldLogger {
	if inner, ok := delegate.(*PrefixedLogger); ok {
		return &PrefixedLogger{delegate: inner.delegate, prefix: prefix + inner.prefix}
	}
	return &PrefixedLogger{delegate: delegate, prefix: prefix}
}

// Prefix returns the text prepended to messages.
func (l *PrefixedLogger) Prefix() string {
	return l.prefix
}

// With returns a new prefixed logger with the given additional fields.
func (l *PrefixedLogger) With(fs ...Field) FieldLogger {
	return &PrefixedLogger{delegate: l.delegate.With(fs...), prefix: l.prefix}
}

// WithLevel returns a new prefixed logger with additional level check.
// It makes sense only to increase the level ("debug" is the minimal one, "error" is the maximal one).
func (l *PrefixedLogger) WithLevel(level Level) FieldLogger {
	return &PrefixedLogger{delegate: l.delegate.WithLevel(level), prefix: l.prefix}
}

// Debug logs a message at "debug" level.
func (l *PrefixedLogger) Debug(text string, fs ...Field) { l.delegate.Debug(l.prefix+text, fs...) }

// Info logs a message at "info" level.
func (l *PrefixedLogger) Info(text string, fs ...Field) { l.delegate.Info(l.prefix+text, fs...) }

// Warn logs a message at "warn" level.
func (l *PrefixedLogger) Warn(text string, fs ...Field) { l.delegate.Warn(l.prefix+text, fs...) }

// Error logs a message at "error" level.
func (l *PrefixedLogger) Error(text string, fs ...Field) { l.delegate.Error(l.prefix+text, fs...) }

// Debugf logs a formatted message at "debug" level.
func (l *PrefixedLogger) Debugf(format string, args ...interface{}) {
	l.logfAtLevel(LevelDebug, format, args)
}

// Infof logs a formatted message at "info" level.
func (l *PrefixedLogger) Infof(format string, args ...interface{}) {
	l.logfAtLevel(LevelInfo, format, args)
}

// Warnf logs a formatted message at "warn" level.
func (l *PrefixedLogger) Warnf(format string, args ...interface{}) {
	l.logfAtLevel(LevelWarn, format, args)
}

// Errorf logs a formatted message at "error" level.
func (l *PrefixedLogger) Errorf(format string, args ...interface{}) {
	l.logfAtLevel(LevelError, format, args)
}

// AtLevel calls fn if logging at the given level is enabled.
// Messages logged with the LogFunc passed to fn are prefixed too.
func (l *PrefixedLogger) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.delegate.AtLevel(level, func(logFunc LogFunc) {
		fn(func(msg string, fs ...Field) {
			logFunc(l.prefix+msg, fs...)
		})
	})
}

// logfAtLevel formats the message only if the level is enabled.
func (l *PrefixedLogger) logfAtLevel(level Level, format string, args []interface{}) {
	l.AtLevel(level, func(logFunc LogFunc) {
		logFunc(fmt.Sprintf(format, args...))
	})
}
