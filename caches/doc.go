/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

// Package caches provides a registry of bounded LRU caches, one per entity type.
//
// A cache for an entity type is created explicitly with Register (or RegisterWithCapacity)
// and then accessed through the returned handle or through the Add/Get/Remove functions
// that look the cache up by a typed key token:
//
//	userType := caches.TypeOf[int, *User]()
//	reg := caches.NewRegistry()
//	if _, err := caches.Register(reg, userType); err != nil {
//		return err
//	}
//	if err := caches.Add(reg, userType, user); err != nil {
//		return err
//	}
//	u, found, err := caches.Get(reg, userType, 42)
//
// Each cache is independently thread-safe. Operations on a type without a registered cache
// fail with ErrUnregisteredType, while a missing entry is reported as "not found" without an error.
package caches
