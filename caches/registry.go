/*
Copyright © 2025 The go-commons Authors.

Released under MIT license.
*/

package caches

import (
	"reflect"
	"sort"
	"sync"

	"github.com/rs/xid"
	"github.com/samber/lo"

	"github.com/commonskit/go-commons/commonerr"
	"github.com/commonskit/go-commons/entity"
	"github.com/commonskit/go-commons/internal/lrucache"
	"github.com/commonskit/go-commons/log"
)

// Cache is a handle of the bounded LRU cache registered for an entity type.
// All methods are safe for concurrent use.
type Cache[ID comparable, E entity.Identified[ID]] interface {
	// Add adds the entity to the cache or replaces the entity with the same id,
	// and marks it as the most recently used one. If the cache is full, the least recently used entry is evicted.
	Add(entity E) error
	// Get returns the entity by id and marks it as the most recently used one.
	Get(id ID) (E, bool)
	// Remove removes the entity by id and returns it.
	Remove(id ID) (E, bool)

	Peek(id ID) (E, bool)
	Contains(id ID) bool
	Keys() []ID
	Len() int
	MaxEntries() int
	Purge()
	Resize(maxEntries int) (evicted int, err error)

	// GetOrAdd returns the cached entity or adds the one returned by provider.
	// Provider is called under the cache lock.
	GetOrAdd(id ID, provider func() (E, error)) (value E, exists bool, err error)
	// GetOrLoad returns the cached entity or loads it with loader.
	// Concurrent calls for the same id share a single loader call.
	GetOrLoad(id ID, loader func(id ID) (E, error)) (E, error)
}

var _ Cache[int, entity.Ident[int]] = (*lrucache.LRUCache[int, entity.Ident[int]])(nil)

// Options represents options for the Registry.
type Options struct {
	// Config defines capacities of the caches registered by Register. If nil, NewDefaultConfig is used.
	Config *Config

	// Logger is used for logging cache registrations and debug tracing of cache operations.
	// If nil, nothing is logged.
	Logger log.FieldLogger
}

type registeredCache struct {
	cache      interface{} // *lrucache.LRUCache[ID, E]
	typeName   string
	instanceID xid.ID
}

// Registry holds at most one cache per entity type.
// Caches are registered explicitly and never removed, re-registering a type replaces its cache.
type Registry struct {
	cfg    *Config
	logger log.FieldLogger

	mu     sync.RWMutex
	caches map[reflect.Type]registeredCache
}

// NewRegistry creates a new Registry with the default configuration.
func NewRegistry() *Registry {
	r, _ := NewRegistryWithOpts(Options{}) // default options are always valid
	return r
}

// NewRegistryWithOpts creates a new Registry with the given options.
func NewRegistryWithOpts(opts Options) (*Registry, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewDisabledLogger()
	}
	return &Registry{
		cfg:    cfg,
		logger: log.NewPrefixedLogger(logger, "cache registry: "),
		caches: make(map[reflect.Type]registeredCache),
	}, nil
}

// Register creates a new cache for the entity type and stores it in the registry.
// The capacity is taken from the registry Config: the value configured for the type name if any,
// the default capacity otherwise.
// A previously registered cache for the same type is replaced, and its contents are discarded.
func Register[ID comparable, E entity.Identified[ID]](r *Registry, t Type[ID, E]) (Cache[ID, E], error) {
	if !t.IsDefined() {
		return nil, commonerr.Wrap(ErrUndefinedType, "cannot register cache")
	}
	return RegisterWithCapacity(r, t, r.cfg.MaxEntriesFor(t.Name()))
}

// RegisterWithCapacity creates a new cache with the given capacity for the entity type and stores it in the registry.
// A previously registered cache for the same type is replaced, and its contents are discarded.
// On error, the registry is not changed.
func RegisterWithCapacity[ID comparable, E entity.Identified[ID]](
	r *Registry, t Type[ID, E], maxEntries int,
) (Cache[ID, E], error) {
	if !t.IsDefined() {
		return nil, commonerr.Wrap(ErrUndefinedType, "cannot register cache", commonerr.Arg("max_entries", maxEntries))
	}

	instanceID := xid.New()
	cache, err := lrucache.NewWithOpts[ID, E](maxEntries, lrucache.Options{
		Name:   t.Name(),
		Logger: r.logger.With(log.String("cache_instance", instanceID.String())),
	})
	if err != nil {
		r.logger.Warn("cannot register cache", append([]log.Field{log.String("cache", t.Name())}, log.ErrorFields(err)...)...)
		return nil, err
	}

	r.mu.Lock()
	prev, replaced := r.caches[t.rt]
	r.caches[t.rt] = registeredCache{cache: cache, typeName: t.Name(), instanceID: instanceID}
	r.mu.Unlock()

	logFields := []log.Field{
		log.String("cache", t.Name()),
		log.String("cache_instance", instanceID.String()),
		log.Int("max_entries", maxEntries),
	}
	if replaced {
		r.logger.Info("cache replaced", append(logFields, log.String("prev_cache_instance", prev.instanceID.String()))...)
	} else {
		r.logger.Info("cache registered", logFields...)
	}

	return cache, nil
}

// GetCache returns the cache registered for the entity type.
func GetCache[ID comparable, E entity.Identified[ID]](r *Registry, t Type[ID, E]) (Cache[ID, E], bool) {
	if !t.IsDefined() {
		return nil, false
	}
	r.mu.RLock()
	rc, ok := r.caches[t.rt]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	cache, ok := rc.cache.(Cache[ID, E])
	return cache, ok
}

// Add adds the entity to the cache registered for its type.
func Add[ID comparable, E entity.Identified[ID]](r *Registry, t Type[ID, E], value E) error {
	cache, err := lookupCache(r, t, "cannot add entity")
	if err != nil {
		return err
	}
	return cache.Add(value)
}

// Get returns the entity by id from the cache registered for its type.
// Missing entity is not an error: found is false in this case.
func Get[ID comparable, E entity.Identified[ID]](r *Registry, t Type[ID, E], id ID) (value E, found bool, err error) {
	cache, err := lookupCache(r, t, "cannot get entity")
	if err != nil {
		return value, false, err
	}
	value, found = cache.Get(id)
	return value, found, nil
}

// Remove removes the entity by id from the cache registered for its type and returns it.
// Missing entity is not an error: found is false in this case.
func Remove[ID comparable, E entity.Identified[ID]](r *Registry, t Type[ID, E], id ID) (value E, found bool, err error) {
	cache, err := lookupCache(r, t, "cannot remove entity")
	if err != nil {
		return value, false, err
	}
	value, found = cache.Remove(id)
	return value, found, nil
}

func lookupCache[ID comparable, E entity.Identified[ID]](r *Registry, t Type[ID, E], errMsg string) (Cache[ID, E], error) {
	if !t.IsDefined() {
		return nil, commonerr.Wrap(ErrUndefinedType, errMsg)
	}
	cache, ok := GetCache(r, t)
	if !ok {
		return nil, commonerr.Wrap(ErrUnregisteredType, errMsg, commonerr.Arg("type", t.Name()))
	}
	return cache, nil
}

// RegisteredTypes returns sorted names of the entity types with registered caches.
func (r *Registry) RegisteredTypes() []string {
	r.mu.RLock()
	names := lo.MapToSlice(r.caches, func(_ reflect.Type, rc registeredCache) string {
		return rc.typeName
	})
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered caches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.caches)
}

// Config returns the configuration the registry was created with.
func (r *Registry) Config() *Config {
	return r.cfg
}
