/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package lrucache provides a bounded, thread-safe in-memory cache of identified entities
// with the least-recently-used eviction policy.
//
// The cache is an access-ordered doubly-linked list of entries plus a map from entity id to list element.
// Get and Add move the entry to the front of the list, and Add evicts the entry from the back
// when the capacity is exceeded. A single RWMutex guards the structure; Get takes the write lock
// since it reorders the list, while Peek, Contains, Keys and Len only read it.
package lrucache
