/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package log provides structured logging on top of the logf library.
// Loggers are configured with Config (level, format, output, file rotation),
// which may be loaded via the config package.
package log
