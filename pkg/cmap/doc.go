// Package cmap provides a concurrent-safe sharded map.
//
// The session registry is read and mutated by every request handler, so
// the map shards its entries across independently locked buckets to keep
// contention low. Registration relies on SetIfAbsent being atomic, and
// eviction on Pop, so concurrent register/evict/lookup calls for the
// same key always observe a consistent entry.
package cmap
