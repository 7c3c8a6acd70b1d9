/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type user struct {
	Ident[int]
	Name string
}

func TestIdent(t *testing.T) {
	u := user{Ident: NewIdent(42), Name: "Bob"}

	var identified Identified[int] = u
	require.Equal(t, 42, identified.ID())
	require.Equal(t, "id: '42'", u.Ident.String())

	require.True(t, NewIdent("a").Equal(NewIdent("a")))
	require.False(t, NewIdent("a").Equal(NewIdent("b")))

	var zero Ident[string]
	require.Equal(t, "", zero.ID())
}
