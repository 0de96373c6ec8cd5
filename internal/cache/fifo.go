package cache

import "container/list"

// fifoEntry is the value stored in the order list's elements. The key is
// kept here because eviction starts from list nodes.
type fifoEntry struct {
	key   string
	value []byte
}

func (e *fifoEntry) size() int64 {
	return entrySize(e.key, e.value)
}

// entrySize is the capacity cost of an entry: key bytes plus value bytes.
func entrySize(key string, value []byte) int64 {
	return int64(len(key)) + int64(len(value))
}

// fifo is the eviction engine: the index of resident entries, their
// insertion order, and the running byte counter. The three must change
// together, so Cache guards them with a single lock and fifo itself holds
// none. Front of the order list is the oldest entry, back the newest.
type fifo struct {
	capacity int64
	size     int64
	entries  map[string]*list.Element
	order    *list.List
}

func newFIFO(capacity int64) *fifo {
	return &fifo{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// lookup returns a copy of the resident value. Needs only the shared lock.
func (f *fifo) lookup(key string) ([]byte, bool) {
	el, ok := f.entries[key]
	if !ok {
		return nil, false
	}
	return cloneBytes(el.Value.(*fifoEntry).value), true
}

// insert admits an entry, evicting oldest-first until it fits. Requires
// the exclusive lock.
//
// Overwriting a resident key re-accounts its size but keeps its position:
// updates refresh content, not recency. An entry larger than the whole
// capacity is never cached; if a resident version exists it is dropped,
// so the cache cannot keep serving a superseded value.
//
// The eviction loop runs at most once per queued node, and tolerates
// nodes whose key has already left the index by skipping them without
// touching the counter.
func (f *fifo) insert(key string, value []byte) (evicted int, cached bool) {
	size := entrySize(key, value)

	if size > f.capacity {
		if f.remove(key) {
			evicted++
		}
		return evicted, false
	}

	if el, ok := f.entries[key]; ok {
		// Re-account now; the node stays where it is.
		f.size -= el.Value.(*fifoEntry).size()
	}

	for f.size+size > f.capacity && f.order.Len() > 0 {
		oldest := f.order.Front()
		f.order.Remove(oldest)
		e := oldest.Value.(*fifoEntry)
		if _, ok := f.entries[e.key]; !ok {
			continue
		}
		delete(f.entries, e.key)
		if e.key == key {
			// The key being rewritten reached the front of the queue:
			// its old size is already off the counter, and it will be
			// re-queued as new content below.
			continue
		}
		f.size -= e.size()
		evicted++
	}

	if el, ok := f.entries[key]; ok {
		el.Value.(*fifoEntry).value = cloneBytes(value)
	} else {
		f.entries[key] = f.order.PushBack(&fifoEntry{key: key, value: cloneBytes(value)})
	}
	f.size += size

	return evicted, true
}

// remove unlinks the key from the index and the order list, adjusting the
// counter. Reports whether the key was resident. Requires the exclusive
// lock.
func (f *fifo) remove(key string) bool {
	el, ok := f.entries[key]
	if !ok {
		return false
	}
	delete(f.entries, key)
	f.order.Remove(el)
	f.size -= el.Value.(*fifoEntry).size()
	return true
}

func (f *fifo) len() int {
	return len(f.entries)
}

func (f *fifo) bytes() int64 {
	return f.size
}

// snapshot lists resident entries oldest-first, the order eviction will
// take them.
func (f *fifo) snapshot() []Entry {
	out := make([]Entry, 0, f.order.Len())
	for el := f.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*fifoEntry)
		out = append(out, Entry{Key: e.key, Size: e.size()})
	}
	return out
}

// cloneBytes copies b so cached bytes never alias caller-owned slices.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
