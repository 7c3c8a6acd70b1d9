/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package caches

import (
	"github.com/cockroachdb/errors"

	"github.com/commonskit/go-commons/internal/lrucache"
)

// Errors that may be returned by the registry and the caches it holds.
// Use errors.Is to check them.
var (
	ErrUndefinedType    = errors.New("entity type is undefined")
	ErrUnregisteredType = errors.New("cache for entity type is not registered")
	ErrDuplicateType    = errors.New("entity type is configured more than once")

	ErrInvalidCapacity = lrucache.ErrInvalidCapacity
	ErrNilEntity       = lrucache.ErrNilEntity
	ErrNilID           = lrucache.ErrNilID
	ErrIDMismatch      = lrucache.ErrIDMismatch

	// ErrGoexit is returned to callers of Cache.GetOrLoad waiting for a loader that called runtime.Goexit.
	ErrGoexit = lrucache.ErrGoexit
)

// PanicError is returned to callers of Cache.GetOrLoad waiting for a loader that panicked.
type PanicError = lrucache.PanicError
