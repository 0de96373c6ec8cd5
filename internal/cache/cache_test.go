package cache

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store that counts calls, standing in for the
// durable tier.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	puts int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *memStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	out := make([]byte, len(value))
	copy(out, value)
	s.data[key] = out
	return nil
}

func (s *memStore) Remove(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok, nil
}

func (s *memStore) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func (s *memStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *memStore) contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, 100)
	require.Error(t, err)

	s := newMemStore()
	_, err = New(s, 0)
	require.Error(t, err)
	_, err = New(s, -1)
	require.Error(t, err)

	c, err := New(s, 100)
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestCache_PutThenGet(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1000)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "key1", []byte("value1")))

	// Write-through: the store holds the entry immediately
	assert.True(t, s.contains("key1"))

	v, found, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("value1"), v)

	// Served from memory, not the store
	assert.Zero(t, s.getCount())

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Zero(t, stats.Misses)
}

func TestCache_GetMissPromotesFromStore(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1000)
	require.NoError(t, err)

	// Seed the store behind the cache's back
	require.NoError(t, s.Put(ctx, "k", []byte("v")))

	v, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 1, s.getCount())

	// The second read is a cache hit
	v, found, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 1, s.getCount(), "promotion should keep later reads in memory")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Promotions)
}

func TestCache_GetAbsentKey(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1000)
	require.NoError(t, err)

	v, found, err := c.Get(ctx, "nonexistent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Zero(t, stats.Promotions)
}

func TestCache_EmptyKeyIgnored(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1000)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "", []byte("value")))

	assert.Zero(t, s.putCount(), "empty key should touch neither tier")
	assert.Empty(t, c.Entries())
}

func TestCache_EmptyValueAllowed(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1000)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "key", nil))

	v, found, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, v)
}

func TestCache_OversizedStoredNotCached(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 50)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "small", []byte("tiny")))

	// 4 bytes of key plus 100 of value exceed the whole budget
	huge := bytes.Repeat([]byte{'X'}, 100)
	require.NoError(t, c.Put(ctx, "huge", huge))

	assert.True(t, s.contains("huge"), "oversized entry must still be durable")

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "small", entries[0].Key)

	// Every read of the oversized entry goes to the store
	v, found, err := c.Get(ctx, "huge")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, huge, v)

	_, _, err = c.Get(ctx, "huge")
	require.NoError(t, err)
	assert.Equal(t, 2, s.getCount())

	// The small entry is untouched
	v, found, err = c.Get(ctx, "small")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("tiny"), v)
}

func TestCache_EvictionWalkthrough(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 50)
	require.NoError(t, err)

	// Two 21 byte entries fill the cache to 42 of 50
	require.NoError(t, c.Put(ctx, "a", bytes.Repeat([]byte{'A'}, 20)))
	require.NoError(t, c.Put(ctx, "b", bytes.Repeat([]byte{'B'}, 20)))

	// The third entry evicts "a"
	require.NoError(t, c.Put(ctx, "c", bytes.Repeat([]byte{'C'}, 20)))

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Key)
	assert.Equal(t, "c", entries[1].Key)

	// "a" is still durable; reading it promotes it back, evicting "b"
	v, found, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, bytes.Repeat([]byte{'A'}, 20), v)

	entries = c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Key)
	assert.Equal(t, "a", entries[1].Key)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Evictions)
	assert.Equal(t, int64(1), stats.Promotions)
	assert.Equal(t, int64(42), stats.SizeBytes)
	assert.Equal(t, int64(50), stats.Capacity)
}

func TestCache_UpdateDoesNotRenewPosition(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 50)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "a", bytes.Repeat([]byte{'A'}, 20)))
	require.NoError(t, c.Put(ctx, "b", bytes.Repeat([]byte{'B'}, 20)))

	// Overwriting "a" does not move it to the back of the queue
	require.NoError(t, c.Put(ctx, "a", bytes.Repeat([]byte{'Z'}, 20)))

	require.NoError(t, c.Put(ctx, "c", bytes.Repeat([]byte{'C'}, 20)))

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Key)
	assert.Equal(t, "c", entries[1].Key)

	// The evicted update is still durable with its new content
	v, found, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, bytes.Repeat([]byte{'Z'}, 20), v)
}

func TestCache_Remove(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 50)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "key1", []byte("value1")))

	removed, err := c.Remove(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, removed)

	assert.False(t, s.contains("key1"))
	assert.Empty(t, c.Entries())

	_, found, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, found)

	// Removing again reports nothing was held
	removed, err = c.Remove(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCache_RemoveEvictedEntry(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 50)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "a", bytes.Repeat([]byte{'A'}, 20)))
	require.NoError(t, c.Put(ctx, "b", bytes.Repeat([]byte{'B'}, 20)))
	require.NoError(t, c.Put(ctx, "c", bytes.Repeat([]byte{'C'}, 20)))

	// "a" was evicted from memory but the store still holds it
	removed, err := c.Remove(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed, "store-only entries still count as removed")
}

func TestCache_ValueIsolation(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1000)
	require.NoError(t, err)

	buf := []byte("original")
	require.NoError(t, c.Put(ctx, "k", buf))

	// Mutating the caller's slice must not reach the cached copy
	buf[0] = 'X'

	v, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("original"), v)

	// Mutating a returned slice must not reach the cached copy either
	v[0] = 'Y'
	v2, _, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), v2)
}

func TestCache_StatsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 50)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "a", bytes.Repeat([]byte{'A'}, 20)))

	_, _, err = c.Get(ctx, "a")
	require.NoError(t, err)
	_, _, err = c.Get(ctx, "nope")
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(21), stats.SizeBytes)
	assert.Equal(t, int64(50), stats.Capacity)
	assert.InDelta(t, 50.0, stats.HitRate(), 0.001)
}

func TestCache_HitRateEmpty(t *testing.T) {
	s := newMemStore()
	c, err := New(s, 50)
	require.NoError(t, err)

	assert.Zero(t, c.Stats().HitRate())
}

func TestCache_ConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1<<20)
	require.NoError(t, err)

	const (
		numWorkers   = 10
		opsPerWorker = 20
	)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < opsPerWorker; j++ {
				key := fmt.Sprintf("t%d_k%d", i, j)
				value := fmt.Sprintf("v%d", j)
				assert.NoError(t, c.Put(ctx, key, []byte(value)))
			}
		}(i)
	}
	wg.Wait()

	v, found, err := c.Get(ctx, "t0_k0")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v0"), v)

	v, found, err = c.Get(ctx, "t5_k10")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v10"), v)
}

func TestCache_ConcurrentGets(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1<<20)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Put(ctx, fmt.Sprintf("key%d", i), []byte(fmt.Sprintf("value%d", i))))
	}

	const numWorkers = 10
	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				v, found, err := c.Get(ctx, fmt.Sprintf("key%d", j))
				if err == nil && found && string(v) == fmt.Sprintf("value%d", j) {
					successCount.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(numWorkers*5), successCount.Load())
}

func TestCache_ConcurrentMixedOperations(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1<<20)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Put(ctx, fmt.Sprintf("init%d", i), []byte(fmt.Sprintf("val%d", i))))
	}

	var wg sync.WaitGroup

	// Writers
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				key := fmt.Sprintf("write%d_%d", i, j)
				assert.NoError(t, c.Put(ctx, key, []byte(fmt.Sprintf("data%d", j))))
			}
		}(i)
	}

	// Readers
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, _, err := c.Get(ctx, fmt.Sprintf("init%d", j))
				assert.NoError(t, err)
			}
		}()
	}

	// Removers
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Remove(ctx, fmt.Sprintf("init%d", i))
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	stats := c.Stats()
	assert.LessOrEqual(t, stats.SizeBytes, stats.Capacity)

	// Keys no remover touched are still readable
	v, found, err := c.Get(ctx, "init5")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("val5"), v)
}

func TestCache_ConcurrentMissesSameKey(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	c, err := New(s, 1000)
	require.NoError(t, err)

	// Only the store holds the key, so every first read misses
	require.NoError(t, s.Put(ctx, "shared", []byte("payload")))

	const numWorkers = 8
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, found, err := c.Get(ctx, "shared")
			assert.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("payload"), v)
		}()
	}
	wg.Wait()

	// Duplicate promotions collapse into a single resident copy
	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "shared", entries[0].Key)

	stats := c.Stats()
	assert.Equal(t, entrySize("shared", []byte("payload")), stats.SizeBytes)
	assert.GreaterOrEqual(t, stats.Promotions, int64(1))
}
