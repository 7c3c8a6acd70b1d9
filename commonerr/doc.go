/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

// Package commonerr provides an error type that carries named contextual arguments
// (e.g. the offending type or the attempted capacity) in addition to a message and a cause.
package commonerr
