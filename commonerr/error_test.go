/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package commonerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	errSentinel := errors.New("sentinel")

	tests := []struct {
		name    string
		err     *Error
		wantMsg string
		wantIs  error
	}{
		{
			name:    "message only",
			err:     New("something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "message with arguments",
			err:     New("bad input", Arg("capacity", -5), Arg("type", "user")),
			wantMsg: "bad input [capacity=-5, type=user]",
		},
		{
			name:    "wrapped cause",
			err:     Wrap(errSentinel, "cannot create cache", Arg("max_entries", 0)),
			wantMsg: "cannot create cache: sentinel [max_entries=0]",
			wantIs:  errSentinel,
		},
		{
			name:    "wrapped cause without message",
			err:     Wrap(errSentinel, ""),
			wantMsg: "sentinel",
			wantIs:  errSentinel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.EqualError(t, tt.err, tt.wantMsg)
			require.Equal(t, tt.wantMsg, fmt.Sprintf("%v", tt.err))
			if tt.wantIs != nil {
				require.ErrorIs(t, tt.err, tt.wantIs)
			}
		})
	}
}

func TestError_Arguments(t *testing.T) {
	err := New("failed").
		AddArgument("a", 1).
		AddArgument("b", "two").
		AddArgument("a", 3)

	require.Equal(t, []Argument{{"a", 3}, {"b", "two"}}, err.Arguments())

	val, found := err.Argument("b")
	require.True(t, found)
	require.Equal(t, "two", val)

	_, found = err.Argument("c")
	require.False(t, found)

	args := err.Arguments()
	args[0].Value = 100
	val, _ = err.Argument("a")
	require.Equal(t, 3, val, "Arguments must return a copy")

	fields := err.LogFields()
	require.Len(t, fields, 2)
	require.Equal(t, "a", fields[0].Key)
	require.Equal(t, "b", fields[1].Key)
}

func TestError_VerboseFormat(t *testing.T) {
	err := Wrap(errors.New("root cause"), "outer", Arg("id", 7))
	verbose := fmt.Sprintf("%+v", err)
	require.Contains(t, verbose, "outer: root cause [id=7]")
	require.Contains(t, verbose, "TestError_VerboseFormat")

	var target *Error
	require.True(t, errors.As(fmt.Errorf("context: %w", err), &target))
	require.Equal(t, "outer", target.Message())
}
