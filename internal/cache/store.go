package cache

import "context"

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// Store is the durable backend the cache writes through to.
// Implementations must be safe for concurrent use; the cache never holds
// its own lock across a Store call, so a slow backend stalls only the
// caller that touched it.
//
// Get reports a missing key as found=false with a nil error; a non-nil
// error always means an I/O failure, never a miss. Put must make the
// write durable before returning. Remove reports whether a record was
// actually deleted.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) (removed bool, err error)
}
