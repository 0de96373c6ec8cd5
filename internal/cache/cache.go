package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/biraysutcuoglu/KeyValueStore/internal/logging"
)

// Cache is a bounded, write-through cache in front of a Store. Writes go
// to the store first and become visible in memory only once durable;
// reads that miss are answered by the store and promoted back into the
// cache. All methods are safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	fifo  *fifo
	store Store
	stats counters
}

// New creates a cache over store bounded by capacityBytes of key+value
// data. The bound applies to the in-memory copy only; the store keeps
// every accepted write regardless of size.
func New(store Store, capacityBytes int64) (*Cache, error) {
	if store == nil {
		return nil, errors.New("cache: store is required")
	}
	if capacityBytes <= 0 {
		return nil, fmt.Errorf("cache: capacity must be positive, got %d", capacityBytes)
	}
	return &Cache{
		fifo:  newFIFO(capacityBytes),
		store: store,
	}, nil
}

// Get returns the value for key, from memory when resident and from the
// store otherwise. A store hit is promoted into the cache so later reads
// stay in memory. found is false only when neither tier holds the key.
//
// The lock is released before store I/O, so two concurrent misses on the
// same key may both promote it; that is benign, both carry the value the
// store just returned.
func (c *Cache) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	c.mu.RLock()
	value, ok := c.fifo.lookup(key)
	c.mu.RUnlock()
	if ok {
		c.stats.hits.Add(1)
		return value, true, nil
	}
	c.stats.misses.Add(1)

	value, found, err = c.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("store get %q: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}

	c.mu.Lock()
	evicted, cached := c.fifo.insert(key, value)
	c.mu.Unlock()
	c.stats.evictions.Add(int64(evicted))
	if cached {
		c.stats.promotions.Add(1)
	}
	logging.FromContext(ctx).Debug().
		Str("key", key).
		Bool("cached", cached).
		Msg("promoted store hit")

	return value, true, nil
}

// Put writes the entry durably and then admits it to the cache, evicting
// oldest entries as needed. An empty key is ignored and touches neither
// tier. When the store write fails the cache is left unpopulated: a
// cached entry with no durable copy could never be recovered after
// eviction.
func (c *Cache) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		logging.FromContext(ctx).Debug().Msg("put with empty key ignored")
		return nil
	}

	if err := c.store.Put(ctx, key, value); err != nil {
		return fmt.Errorf("store put %q: %w", key, err)
	}

	c.mu.Lock()
	evicted, cached := c.fifo.insert(key, value)
	c.mu.Unlock()
	c.stats.evictions.Add(int64(evicted))
	if !cached {
		logging.FromContext(ctx).Debug().
			Str("key", key).
			Int("size", len(key)+len(value)).
			Msg("entry larger than capacity, stored without caching")
	}

	return nil
}

// Remove deletes the key from the store and drops any cached copy,
// reporting whether either tier held it. An entry can outlive its cached
// copy by an arbitrary margin, so both tiers are always consulted. When
// the store fails the cached copy is still dropped and the error is
// returned alongside the cache-side result.
func (c *Cache) Remove(ctx context.Context, key string) (removed bool, err error) {
	storeRemoved, err := c.store.Remove(ctx, key)

	c.mu.Lock()
	cacheRemoved := c.fifo.remove(key)
	c.mu.Unlock()

	if err != nil {
		return cacheRemoved, fmt.Errorf("store remove %q: %w", key, err)
	}
	return storeRemoved || cacheRemoved, nil
}

// Stats returns a snapshot of cache effectiveness and occupancy.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	s := Stats{
		Entries:   c.fifo.len(),
		SizeBytes: c.fifo.bytes(),
		Capacity:  c.fifo.capacity,
	}
	c.mu.RUnlock()

	s.Hits = c.stats.hits.Load()
	s.Misses = c.stats.misses.Load()
	s.Promotions = c.stats.promotions.Load()
	s.Evictions = c.stats.evictions.Load()
	return s
}

// Entries lists resident entries oldest-first, the order eviction will
// take them.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fifo.snapshot()
}
