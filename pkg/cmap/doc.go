// Package cmap provides a concurrent map implementation for grcbridge.
//
// This package implements a sharded concurrent map backing the catalog
// and field-definition caches:
//
//   - Sharding: murmur3-hashed keys over a power-of-two shard count
//   - Fine-grained Locking: per-shard RWMutex for minimal contention
//   - Fill races: GetOrSet lets racing cache fillers converge on one value
//   - Iteration: safe iteration while holding read locks
//
// Usage:
//
//	m := cmap.New[string, *domain.Container]()
//	m.Set("risk-register", container)
//	val, ok := m.Get("risk-register")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has) use RLock,
// write operations (Set, Delete) use Lock.
package cmap
