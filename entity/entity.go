/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package entity

import "fmt"

// Identified is implemented by values that expose a stable identifier.
// Two values occupy the same cache slot if and only if their identifiers are equal (==).
// The identifier must not change while the value is stored in a cache.
type Identified[ID comparable] interface {
	ID() ID
}

// Ident is an immutable identifier that may be embedded into entity structs
// to make them satisfy the Identified interface.
//
//	type User struct {
//		entity.Ident[int]
//		Name string
//	}
//
//	user := User{Ident: entity.NewIdent(42), Name: "Bob"}
type Ident[T comparable] struct {
	id T
}

var _ Identified[string] = Ident[string]{}

// NewIdent creates a new Ident with the given identifier.
func NewIdent[T comparable](id T) Ident[T] {
	return Ident[T]{id: id}
}

// ID returns the identifier.
func (i Ident[T]) ID() T {
	return i.id
}

// Equal reports whether both identifiers are equal.
func (i Ident[T]) Equal(other Ident[T]) bool {
	return i.id == other.id
}

// String returns a human-readable representation of the identifier.
// Implements fmt.Stringer interface.
func (i Ident[T]) String() string {
	return fmt.Sprintf("id: '%v'", i.id)
}
