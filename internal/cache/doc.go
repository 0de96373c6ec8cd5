// Package cache implements a bounded, write-through FIFO cache over a
// durable key-value store.
//
// Entries are evicted in insertion order under a byte budget covering
// key plus value. Overwriting a key refreshes its content but not its
// queue position, and a read that misses memory is answered by the store
// and promoted back in. The cache holds no durable state of its own; a
// restart starts cold and refills from the store on demand.
package cache
