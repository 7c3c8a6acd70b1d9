/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

// Package entity defines the identity contract for values that can be stored in caches.
package entity
