/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/commonskit/go-commons/commonerr"
)

func TestRequireErrorArgument(t *testing.T) {
	errTarget := errors.New("target")
	inner := commonerr.Wrap(errTarget, "inner", commonerr.Arg("max_entries", 0))
	err := commonerr.Wrap(inner, "outer", commonerr.Arg("type", "user"))

	tests := []struct {
		name       string
		err        error
		target     error
		key        string
		value      interface{}
		wantFailed bool
	}{
		{name: "outer argument", err: err, target: errTarget, key: "type", value: "user"},
		{name: "inner argument", err: fmt.Errorf("wrapped: %w", err), target: errTarget, key: "max_entries", value: 0},
		{name: "wrong value", err: err, target: errTarget, key: "type", value: "post", wantFailed: true},
		{name: "missing argument", err: err, target: errTarget, key: "unknown", wantFailed: true},
		{name: "wrong target", err: err, target: errors.New("other"), key: "type", value: "user", wantFailed: true},
		{name: "plain error", err: errTarget, target: errTarget, key: "type", value: "user", wantFailed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockT := &MockT{}
			RequireErrorArgument(mockT, tt.err, tt.target, tt.key, tt.value)
			require.Equal(t, tt.wantFailed, mockT.Failed)
		})
	}
}

func TestBuildErrorChainString(t *testing.T) {
	require.Equal(t, "", buildErrorChainString(nil))

	err := fmt.Errorf("outer: %w", fmt.Errorf("inner"))
	require.Equal(t, "\"outer: inner\"\n\t\"inner\"", buildErrorChainString(err))
}
