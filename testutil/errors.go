/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/commonskit/go-commons/commonerr"
)

type tHelper interface {
	Helper()
}

// RequireErrorArgument asserts that err matches target (errors.Is)
// and that a *commonerr.Error in its chain carries the argument with the given key and value.
func RequireErrorArgument(t require.TestingT, err error, target error, key string, value interface{}, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	require.ErrorIs(t, err, target, msgAndArgs...)

	var cErr *commonerr.Error
	require.ErrorAs(t, err, &cErr, msgAndArgs...)
	if cErr == nil {
		return
	}
	for e := error(cErr); e != nil; e = errors.UnwrapOnce(e) {
		if argErr, ok := e.(*commonerr.Error); ok {
			if got, found := argErr.Argument(key); found {
				require.Equal(t, value, got, msgAndArgs...)
				return
			}
		}
	}
	require.FailNow(t, fmt.Sprintf("Argument %q not found in error chain:\n%s", key, buildErrorChainString(err)), msgAndArgs...)
}

func buildErrorChainString(err error) string {
	if err == nil {
		return ""
	}

	chain := fmt.Sprintf("%q", err.Error())
	for e := errors.UnwrapOnce(err); e != nil; e = errors.UnwrapOnce(e) {
		chain += fmt.Sprintf("\n\t%q", e.Error())
	}
	return chain
}
