/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"container/list"
	"fmt"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/commonskit/go-commons/commonerr"
	"github.com/commonskit/go-commons/entity"
	"github.com/commonskit/go-commons/log"
)

// initialCapacityDivisor defines the share (1/10) of the maximum number of entries
// that is used to pre-allocate the cache index.
const initialCapacityDivisor = 10

// Errors that may be returned by the cache.
var (
	ErrInvalidCapacity = errors.New("cache capacity must be greater than 0")
	ErrNilEntity       = errors.New("entity must not be nil")
	ErrNilID           = errors.New("entity id must not be nil")
	ErrIDMismatch      = errors.New("entity id does not match the requested id")
)

type cacheEntry[ID comparable, E entity.Identified[ID]] struct {
	id     ID
	entity E
}

// LRUCache is a bounded, thread-safe cache of entities indexed by their identifiers.
// When the number of entries exceeds the capacity, the least recently used entry is evicted.
// Both Get and Add mark the entry as the most recently used one.
type LRUCache[ID comparable, E entity.Identified[ID]] struct {
	name       string
	maxEntries int

	mu      sync.RWMutex
	lruList *list.List          // front is the most recently used entry
	cache   map[ID]*list.Element // value is a lruList element

	loadGroup singleFlightGroup[ID, E]

	logger log.FieldLogger
}

// Options represents options for the cache.
type Options struct {
	// Name is used in logs and errors to distinguish caches.
	Name string

	// Logger is used for debug tracing of cache operations. If nil, nothing is logged.
	Logger log.FieldLogger
}

// New creates a new LRUCache with the provided maximum number of entries.
func New[ID comparable, E entity.Identified[ID]](maxEntries int) (*LRUCache[ID, E], error) {
	return NewWithOpts[ID, E](maxEntries, Options{})
}

// NewWithOpts creates a new LRUCache with the provided maximum number of entries and options.
func NewWithOpts[ID comparable, E entity.Identified[ID]](maxEntries int, opts Options) (*LRUCache[ID, E], error) {
	if maxEntries <= 0 {
		return nil, commonerr.Wrap(ErrInvalidCapacity, "cannot create LRU cache",
			commonerr.Arg("cache", opts.Name), commonerr.Arg("max_entries", maxEntries))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewDisabledLogger()
	}
	return &LRUCache[ID, E]{
		name:       opts.Name,
		maxEntries: maxEntries,
		lruList:    list.New(),
		cache:      make(map[ID]*list.Element, InitialCapacity(maxEntries)),
		logger:     logger.With(log.String("cache", opts.Name)),
	}, nil
}

// InitialCapacity returns the number of index slots pre-allocated for the cache
// with the given maximum number of entries (10% of the maximum, rounded up).
func InitialCapacity(maxEntries int) int {
	if maxEntries <= 0 {
		return 0
	}
	return (maxEntries + initialCapacityDivisor - 1) / initialCapacityDivisor
}

// Get returns an entity from the cache by the provided id and marks it as the most recently used one.
func (c *LRUCache[ID, E]) Get(id ID) (value E, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, hit := c.cache[id]
	if !hit {
		return value, false
	}
	c.lruList.MoveToFront(elem)
	return elem.Value.(*cacheEntry[ID, E]).entity, true
}

// Add adds an entity to the cache (or replaces the existing one with the same id)
// and marks it as the most recently used one.
// If the cache is full, the least recently used entry will be evicted.
func (c *LRUCache[ID, E]) Add(value E) error {
	id, err := c.checkEntity(value, "cannot add entity to cache")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(id, value)
	return nil
}

// GetOrAdd returns an entity from the cache by the provided id.
// If the id does not exist, it adds the entity returned by provider to the cache.
// Provider is called under the cache lock, so it should be fast and must not use the cache.
// Error from provider is returned as is, and nothing is added to the cache in this case.
func (c *LRUCache[ID, E]) GetOrAdd(id ID, provider func() (E, error)) (value E, exists bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, hit := c.cache[id]; hit {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*cacheEntry[ID, E]).entity, true, nil
	}

	var zero E
	if value, err = provider(); err != nil {
		return zero, false, err
	}
	if err = c.checkLoadedEntity(id, value); err != nil {
		return zero, false, err
	}
	c.add(id, value)
	return value, false, nil
}

// GetOrLoad returns an entity from the cache by the provided id.
// If the id does not exist, loader is called outside the cache lock and its result is added to the cache.
// If the id is added by another caller while loader runs, that entity is kept and returned instead.
// Concurrent calls for the same id share a single loader call.
// Error from loader is returned as is, and nothing is added to the cache in this case.
// If loader panics, the panic is propagated to the caller that ran it,
// and other callers waiting for the same id receive *PanicError.
func (c *LRUCache[ID, E]) GetOrLoad(id ID, loader func(id ID) (E, error)) (E, error) {
	if value, ok := c.Get(id); ok {
		return value, nil
	}
	return c.loadGroup.Do(id, func() (E, error) {
		// The entity may have been added while we were waiting for the previous load to finish.
		if value, ok := c.Get(id); ok {
			return value, nil
		}
		var zero E
		value, err := loader(id)
		if err != nil {
			c.logger.AtLevel(log.LevelDebug, func(logFunc log.LogFunc) {
				logFunc("entry load failed", append([]log.Field{log.Any("id", id)}, log.ErrorFields(err)...)...)
			})
			return zero, err
		}
		if err = c.checkLoadedEntity(id, value); err != nil {
			return zero, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		// An entity added while loading is newer than the loaded one.
		if elem, hit := c.cache[id]; hit {
			c.lruList.MoveToFront(elem)
			return elem.Value.(*cacheEntry[ID, E]).entity, nil
		}
		c.add(id, value)
		return value, nil
	})
}

// Remove removes an entity from the cache by the provided id and returns it.
// Recency order of other entries is not changed.
func (c *LRUCache[ID, E]) Remove(id ID) (value E, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, hit := c.cache[id]
	if !hit {
		return value, false
	}
	c.lruList.Remove(elem)
	delete(c.cache, id)
	c.logDebug("entry removed", id)
	return elem.Value.(*cacheEntry[ID, E]).entity, true
}

// Peek returns an entity from the cache by the provided id without updating its recency.
func (c *LRUCache[ID, E]) Peek(id ID) (value E, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elem, hit := c.cache[id]
	if !hit {
		return value, false
	}
	return elem.Value.(*cacheEntry[ID, E]).entity, true
}

// Contains checks whether the entity with the provided id is in the cache without updating its recency.
func (c *LRUCache[ID, E]) Contains(id ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hit := c.cache[id]
	return hit
}

// Keys returns ids of all cached entities, from the least recently used to the most recently used.
func (c *LRUCache[ID, E]) Keys() []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]ID, 0, len(c.cache))
	for elem := c.lruList.Back(); elem != nil; elem = elem.Prev() {
		keys = append(keys, elem.Value.(*cacheEntry[ID, E]).id)
	}
	return keys
}

// Len returns the number of entities in the cache.
func (c *LRUCache[ID, E]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// MaxEntries returns the maximum number of entities the cache may hold.
func (c *LRUCache[ID, E]) MaxEntries() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxEntries
}

// Purge removes all entities from the cache.
// Removed entities are not counted as evictions.
func (c *LRUCache[ID, E]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[ID]*list.Element, InitialCapacity(c.maxEntries))
	c.lruList.Init()
	c.logger.AtLevel(log.LevelDebug, func(logFunc log.LogFunc) {
		logFunc("cache purged")
	})
}

// Resize changes the cache capacity and returns the number of evicted entries.
func (c *LRUCache[ID, E]) Resize(maxEntries int) (evicted int, err error) {
	if maxEntries <= 0 {
		return 0, commonerr.Wrap(ErrInvalidCapacity, "cannot resize LRU cache",
			commonerr.Arg("cache", c.name), commonerr.Arg("max_entries", maxEntries))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxEntries = maxEntries
	for len(c.cache) > c.maxEntries {
		c.removeOldest()
		evicted++
	}
	c.logger.AtLevel(log.LevelDebug, func(logFunc log.LogFunc) {
		logFunc("cache resized", log.Int("max_entries", maxEntries), log.Int("evicted", evicted))
	})
	return evicted, nil
}

// String returns a short description of the cache.
// Implements fmt.Stringer interface.
func (c *LRUCache[ID, E]) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("LRUCache [name:%s] [max:%d] [initial:%d] [len:%d]",
		c.name, c.maxEntries, InitialCapacity(c.maxEntries), len(c.cache))
}

// add must be called under the write lock.
func (c *LRUCache[ID, E]) add(id ID, value E) {
	if elem, ok := c.cache[id]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*cacheEntry[ID, E]).entity = value
		c.logDebug("entry replaced", id)
		return
	}

	c.cache[id] = c.lruList.PushFront(&cacheEntry[ID, E]{id: id, entity: value})
	c.logDebug("entry added", id)
	if len(c.cache) <= c.maxEntries {
		return
	}
	if evictedEntry := c.removeOldest(); evictedEntry != nil {
		c.logDebug("entry evicted", evictedEntry.id)
	}
}

func (c *LRUCache[ID, E]) removeOldest() *cacheEntry[ID, E] {
	elem := c.lruList.Back()
	if elem == nil {
		return nil
	}
	c.lruList.Remove(elem)
	entry := elem.Value.(*cacheEntry[ID, E])
	delete(c.cache, entry.id)
	return entry
}

func (c *LRUCache[ID, E]) checkEntity(value E, errMsg string) (id ID, err error) {
	if isNil(value) {
		return id, commonerr.Wrap(ErrNilEntity, errMsg,
			commonerr.Arg("cache", c.name), commonerr.Arg("entity_type", fmt.Sprintf("%T", value)))
	}
	id = value.ID()
	if isNil(id) {
		return id, commonerr.Wrap(ErrNilID, errMsg,
			commonerr.Arg("cache", c.name), commonerr.Arg("entity_type", fmt.Sprintf("%T", value)))
	}
	return id, nil
}

func (c *LRUCache[ID, E]) checkLoadedEntity(wantID ID, value E) error {
	const errMsg = "cannot add loaded entity to cache"
	id, err := c.checkEntity(value, errMsg)
	if err != nil {
		return err
	}
	if id != wantID {
		return commonerr.Wrap(ErrIDMismatch, errMsg,
			commonerr.Arg("cache", c.name), commonerr.Arg("id", wantID), commonerr.Arg("entity_id", id))
	}
	return nil
}

func (c *LRUCache[ID, E]) logDebug(msg string, id ID) {
	c.logger.AtLevel(log.LevelDebug, func(logFunc log.LogFunc) {
		logFunc(msg, log.Any("id", id), log.Int("len", len(c.cache)))
	})
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
