/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"bytes"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrGoexit is returned to waiters when the loader calls runtime.Goexit.
var ErrGoexit = errors.New("runtime.Goexit was called")

// PanicError is returned to waiters when the loader panics.
// It holds the panic value and the stack trace of the panicking goroutine.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("%v\n\n%s", p.Value, p.Stack)
}

// Unwrap returns the panic value if it is an error.
func (p *PanicError) Unwrap() error {
	err, ok := p.Value.(error)
	if !ok {
		return nil
	}
	return err
}

func newPanicError(v interface{}) error {
	stack := debug.Stack()

	// The first line of the stack trace is "goroutine N [status]:",
	// but the goroutine status may already be different for waiters. Trim it out.
	if line := bytes.IndexByte(stack, '\n'); line >= 0 {
		stack = stack[line+1:]
	}
	return &PanicError{Value: v, Stack: stack}
}

type singleFlightCall[V any] struct {
	done chan struct{} // closed when val and err are set
	val  V
	err  error
}

// singleFlightGroup suppresses duplicate loads: only one fn is in flight for a given key,
// and duplicate callers wait for it and receive the same result.
type singleFlightGroup[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*singleFlightCall[V]
}

// Do runs fn for the key unless a call for the same key is already in flight,
// in which case it waits for that call and returns its result.
// If fn panics, the panic is propagated to the caller that ran fn and waiters get *PanicError.
// If fn calls runtime.Goexit, waiters get ErrGoexit.
func (g *singleFlightGroup[K, V]) Do(key K, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err
	}
	if g.calls == nil {
		g.calls = make(map[K]*singleFlightCall[V])
	}
	c := &singleFlightCall[V]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	return g.run(key, c, fn)
}

func (g *singleFlightGroup[K, V]) run(key K, c *singleFlightCall[V], fn func() (V, error)) (V, error) {
	var returned, panicked bool

	// Runs on normal return, after a recovered panic, and on runtime.Goexit.
	defer func() {
		if !returned && !panicked {
			c.err = ErrGoexit
		}
		close(c.done)
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		if panicked {
			panic(c.err.(*PanicError).Value)
		}
	}()

	func() {
		defer func() {
			if returned {
				return
			}
			if v := recover(); v != nil {
				c.err = newPanicError(v)
				panicked = true
			}
		}()
		c.val, c.err = fn()
		returned = true
	}()

	return c.val, c.err
}
