/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package caches

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/commonskit/go-commons/entity"
	"github.com/commonskit/go-commons/log/logtest"
	"github.com/commonskit/go-commons/testutil"
)

type user struct {
	entity.Ident[int]
	Name string
}

type post struct {
	entity.Ident[int]
	Title string
}

type tag struct {
	entity.Ident[string]
}

var (
	userType = TypeOf[int, *user]()
	postType = TypeOf[int, *post]()
	tagType  = TypeOf[string, tag]()
)

func newUser(id int, name string) *user {
	return &user{Ident: entity.NewIdent(id), Name: name}
}

func newPost(id int, title string) *post {
	return &post{Ident: entity.NewIdent(id), Title: title}
}

func TestRegister(t *testing.T) {
	t.Run("default capacity", func(t *testing.T) {
		reg := NewRegistry()
		cache, err := Register(reg, userType)
		require.NoError(t, err)
		require.Equal(t, DefaultMaxEntries, cache.MaxEntries())
		require.Equal(t, 0, cache.Len())

		got, ok := GetCache(reg, userType)
		require.True(t, ok)
		require.Equal(t, cache, got)
	})

	t.Run("configured capacity", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.DefaultMaxEntries = 50
		cfg.MaxEntries["user"] = 2
		reg, err := NewRegistryWithOpts(Options{Config: cfg})
		require.NoError(t, err)

		userCache, err := Register(reg, userType)
		require.NoError(t, err)
		require.Equal(t, 2, userCache.MaxEntries())

		postCache, err := Register(reg, postType)
		require.NoError(t, err)
		require.Equal(t, 50, postCache.MaxEntries())
	})

	t.Run("named type", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.MaxEntries["customer"] = 3
		reg, err := NewRegistryWithOpts(Options{Config: cfg})
		require.NoError(t, err)

		cache, err := Register(reg, userType.Named("customer"))
		require.NoError(t, err)
		require.Equal(t, 3, cache.MaxEntries())

		// Name does not change the identity of the type.
		require.NoError(t, Add(reg, userType, newUser(1, "Bob")))
		require.Equal(t, 1, cache.Len())
		require.Equal(t, []string{"customer"}, reg.RegisteredTypes())
	})

	t.Run("invalid capacity", func(t *testing.T) {
		reg := NewRegistry()
		for _, maxEntries := range []int{0, -5} {
			cache, err := RegisterWithCapacity(reg, userType, maxEntries)
			require.Nil(t, cache)
			testutil.RequireErrorArgument(t, err, ErrInvalidCapacity, "max_entries", maxEntries)
		}
		require.Equal(t, 0, reg.Len())
		_, ok := GetCache(reg, userType)
		require.False(t, ok)
	})

	t.Run("invalid capacity keeps previous cache", func(t *testing.T) {
		reg := NewRegistry()
		_, err := RegisterWithCapacity(reg, userType, 10)
		require.NoError(t, err)
		require.NoError(t, Add(reg, userType, newUser(1, "Bob")))

		_, err = RegisterWithCapacity(reg, userType, 0)
		require.ErrorIs(t, err, ErrInvalidCapacity)

		_, found, err := Get(reg, userType, 1)
		require.NoError(t, err)
		require.True(t, found)
	})

	t.Run("re-register replaces cache", func(t *testing.T) {
		logRecorder := logtest.NewRecorder()
		reg, err := NewRegistryWithOpts(Options{Logger: logRecorder})
		require.NoError(t, err)

		oldCache, err := RegisterWithCapacity(reg, userType, 10)
		require.NoError(t, err)
		require.NoError(t, oldCache.Add(newUser(1, "Bob")))

		newCache, err := RegisterWithCapacity(reg, userType, 20)
		require.NoError(t, err)
		require.Equal(t, 20, newCache.MaxEntries())
		require.Equal(t, 1, reg.Len())

		_, found, err := Get(reg, userType, 1)
		require.NoError(t, err)
		require.False(t, found, "contents of the replaced cache must be discarded")

		registered, found := logRecorder.FindEntry("cache registry: cache registered")
		require.True(t, found)
		replaced, found := logRecorder.FindEntry("cache registry: cache replaced")
		require.True(t, found)
		regInstance, found := registered.FindField("cache_instance")
		require.True(t, found)
		prevInstance, found := replaced.FindField("prev_cache_instance")
		require.True(t, found)
		require.Equal(t, string(regInstance.Bytes), string(prevInstance.Bytes))
	})

	t.Run("undefined type", func(t *testing.T) {
		reg := NewRegistry()
		var undefined Type[int, *user]

		_, err := Register(reg, undefined)
		require.ErrorIs(t, err, ErrUndefinedType)
		_, err = RegisterWithCapacity(reg, undefined, 10)
		require.ErrorIs(t, err, ErrUndefinedType)
		require.Equal(t, 0, reg.Len())

		_, ok := GetCache(reg, undefined)
		require.False(t, ok)
	})
}

func TestRegistry_UnregisteredType(t *testing.T) {
	reg := NewRegistry()
	_, err := Register(reg, postType)
	require.NoError(t, err)

	requireUnregistered := func(t *testing.T, err error) {
		t.Helper()
		testutil.RequireErrorArgument(t, err, ErrUnregisteredType, "type", "user")
	}

	requireUnregistered(t, Add(reg, userType, newUser(1, "Bob")))
	_, _, err = Get(reg, userType, 1)
	requireUnregistered(t, err)
	_, _, err = Remove(reg, userType, 1)
	requireUnregistered(t, err)

	_, ok := GetCache(reg, userType)
	require.False(t, ok)
}

func TestRegistry_UndefinedTypeOperations(t *testing.T) {
	reg := NewRegistry()
	var undefined Type[int, *user]

	require.ErrorIs(t, Add(reg, undefined, newUser(1, "Bob")), ErrUndefinedType)
	_, _, err := Get(reg, undefined, 1)
	require.ErrorIs(t, err, ErrUndefinedType)
	_, _, err = Remove(reg, undefined, 1)
	require.ErrorIs(t, err, ErrUndefinedType)
}

func TestRegistry_Operations(t *testing.T) {
	reg := NewRegistry()
	_, err := RegisterWithCapacity(reg, userType, 2)
	require.NoError(t, err)

	require.NoError(t, Add(reg, userType, newUser(1, "Bob")))
	require.NoError(t, Add(reg, userType, newUser(2, "Alice")))

	got, found, err := Get(reg, userType, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Bob", got.Name)

	require.NoError(t, Add(reg, userType, newUser(3, "Eve")))
	_, found, err = Get(reg, userType, 2)
	require.NoError(t, err)
	require.False(t, found, "least recently used entry must be evicted")

	removed, found, err := Remove(reg, userType, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Eve", removed.Name)

	_, found, err = Remove(reg, userType, 3)
	require.NoError(t, err)
	require.False(t, found)

	require.ErrorIs(t, Add(reg, userType, nil), ErrNilEntity)
}

func TestRegistry_Isolation(t *testing.T) {
	reg := NewRegistry()
	_, err := Register(reg, userType)
	require.NoError(t, err)
	_, err = Register(reg, postType)
	require.NoError(t, err)
	_, err = Register(reg, tagType)
	require.NoError(t, err)

	require.NoError(t, Add(reg, userType, newUser(1, "Bob")))
	require.NoError(t, Add(reg, postType, newPost(1, "Hello")))
	require.NoError(t, Add(reg, tagType, tag{entity.NewIdent("1")}))

	u, found, err := Get(reg, userType, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Bob", u.Name)

	p, found, err := Get(reg, postType, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Hello", p.Title)

	_, found, err = Remove(reg, userType, 1)
	require.NoError(t, err)
	require.True(t, found)

	_, found, err = Get(reg, postType, 1)
	require.NoError(t, err)
	require.True(t, found, "removing a user must not affect posts")

	require.Equal(t, []string{"post", "tag", "user"}, reg.RegisteredTypes())
	require.Equal(t, 3, reg.Len())
}

func TestRegistry_DebugLogging(t *testing.T) {
	logRecorder := logtest.NewRecorder()
	reg, err := NewRegistryWithOpts(Options{Logger: logRecorder})
	require.NoError(t, err)
	_, err = Register(reg, userType)
	require.NoError(t, err)

	require.NoError(t, Add(reg, userType, newUser(1, "Bob")))

	logEntry, found := logRecorder.FindEntry("cache registry: entry added")
	require.True(t, found)
	cacheField, found := logEntry.FindField("cache")
	require.True(t, found)
	require.Equal(t, "user", string(cacheField.Bytes))
	_, found = logEntry.FindField("cache_instance")
	require.True(t, found)

	require.NoError(t, Add(reg, userType, newUser(2, "Alice")))
	userEntries := logRecorder.FindAllEntriesByFilter(func(entry logtest.RecordedEntry) bool {
		f, ok := entry.FindField("cache")
		return ok && string(f.Bytes) == "user" && entry.Text == "cache registry: entry added"
	})
	require.Len(t, userEntries, 2)
}

func TestNewRegistryWithOpts_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MaxEntries["user"] = 0
	reg, err := NewRegistryWithOpts(Options{Config: cfg})
	require.ErrorIs(t, err, ErrInvalidCapacity)
	require.Nil(t, reg)
}

func TestRegistry_Concurrency(t *testing.T) {
	reg := NewRegistry()

	var registerGroup errgroup.Group
	for i := 0; i < 10; i++ {
		i := i // per-iteration copy (Go 1.22 loop semantics under go 1.21)
		registerGroup.Go(func() error {
			name := fmt.Sprintf("entity%d", i)
			if i%2 == 0 {
				_, err := RegisterWithCapacity(reg, userType.Named(name), 10)
				return err
			}
			_, err := RegisterWithCapacity(reg, postType.Named(name), 10)
			return err
		})
	}
	require.NoError(t, registerGroup.Wait())
	require.Equal(t, 2, reg.Len(), "concurrent registrations of the same type keep a single cache")

	var opsGroup errgroup.Group
	for i := 0; i < 10; i++ {
		i := i // per-iteration copy (Go 1.22 loop semantics under go 1.21)
		opsGroup.Go(func() error {
			for j := 0; j < 100; j++ {
				id := i*100 + j
				if err := Add(reg, userType, newUser(id, strings.Repeat("x", j%5))); err != nil {
					return err
				}
				if _, _, err := Get(reg, userType, id); err != nil {
					return err
				}
				if _, _, err := Remove(reg, postType, id); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, opsGroup.Wait())

	cache, ok := GetCache(reg, userType)
	require.True(t, ok)
	require.LessOrEqual(t, cache.Len(), 10)
}
