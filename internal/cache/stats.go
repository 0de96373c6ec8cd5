package cache

import "sync/atomic"

// Stats is a point-in-time snapshot of cache counters and occupancy.
type Stats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Promotions int64 `json:"promotions"`
	Evictions  int64 `json:"evictions"`
	Entries    int   `json:"entries"`
	SizeBytes  int64 `json:"size_bytes"`
	Capacity   int64 `json:"capacity_bytes"`
}

// HitRate returns the percentage of reads served from memory.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Entry describes one resident cache entry.
type Entry struct {
	Key  string `json:"key"`
	Size int64  `json:"size_bytes"`
}

// counters are bumped on the read path while only the shared lock is
// held, so they must be atomic rather than guarded fields.
type counters struct {
	hits       atomic.Int64
	misses     atomic.Int64
	promotions atomic.Int64
	evictions  atomic.Int64
}
