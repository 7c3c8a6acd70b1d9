/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package caches

import (
	"reflect"

	"github.com/commonskit/go-commons/entity"
)

// Type is a typed key token that identifies the cache of entities of type E.
// The zero Type is undefined, and every registry operation rejects it with ErrUndefinedType.
type Type[ID comparable, E entity.Identified[ID]] struct {
	rt   reflect.Type
	name string
}

// TypeOf returns the Type for entities of type E.
// By default, the name of the Type is the name of E (for pointers, the name of the element type).
func TypeOf[ID comparable, E entity.Identified[ID]]() Type[ID, E] {
	rt := reflect.TypeOf((*E)(nil)).Elem()
	return Type[ID, E]{rt: rt, name: typeName(rt)}
}

// Named returns a copy of the Type with the given name.
// The name is used to look up the per-type capacity in Config and in logs and errors.
// It does not affect the identity of the Type: all Types of the same E refer to the same cache.
func (t Type[ID, E]) Named(name string) Type[ID, E] {
	t.name = name
	return t
}

// Name returns the name of the Type.
func (t Type[ID, E]) Name() string {
	return t.name
}

// IsDefined reports whether the Type was created by TypeOf.
func (t Type[ID, E]) IsDefined() bool {
	return t.rt != nil
}

// String implements fmt.Stringer interface.
func (t Type[ID, E]) String() string {
	if !t.IsDefined() {
		return "<undefined>"
	}
	return t.name
}

func typeName(rt reflect.Type) string {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Name() != "" {
		return rt.Name()
	}
	return rt.String()
}
