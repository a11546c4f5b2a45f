// Package hood provides a generic open-addressing hash table using Robin Hood
// displacement, and a bounded cache with approximate-LRU eviction built on
// top of it.
//
// # Overview
//
// Two types make up the package:
//   - Table[K, V]: a hash table that may grow, or be pinned to a fixed capacity
//   - Cache[K, V]: a fixed-capacity Table plus one recency bit per slot and an
//     eviction cursor, evicting one entry whenever an insert finds it full
//
// Neither is safe for concurrent use. Use Locked, or your own mutex, to share
// a cache between goroutines.
//
// # Quick Start
//
//	cache, err := hood.NewCache[string, *Session](hood.Config{Capacity: 10_000},
//	    func(id string, s *Session) { s.Close() })
//	if err != nil {
//	    return err
//	}
//
//	cache.Insert("sess:42", session)
//	if s, found := cache.Find("sess:42"); found {
//	    s.Touch()
//	}
//
// A standalone growable table:
//
//	table, _ := hood.NewTable[uint64, string](hood.Config{Capacity: 64}, hood.GrowthAllowed)
//	table.Insert(7, "seven")
//	if i, ok := table.FindIndex(7); ok {
//	    _ = table.DeleteIndex(i)
//	}
//
// # Robin Hood Hashing
//
// Every key gets a 64-bit tag from a keyed hash (xxhash64 with a random seed
// by default). Tag 0 marks an empty slot and the top bit marks a tombstone,
// so both are masked out of the usable tag space. The home slot is
// tag mod capacity; probing is linear.
//
// On insert, an entry that has travelled further from its home than the
// resident it meets takes that slot, and the resident is carried forward.
// Lookups stop at the first empty slot, or at the first resident closer to
// its home than the distance already walked. Deletion leaves a tombstone
// that still records the deleted entry's distance, so the stopping rule
// stays sound and a later insert can reuse the slot. A table that is not
// full always keeps an empty slot: deleting from a completely full table
// shifts the following entries back instead of leaving a tombstone, and an
// insert that would take the last empty slot purges tombstones first.
//
// A growable table doubles (to a power of two) when an insert would push the
// load factor above Config.MaxLoadFactor (default 90%). Any table rehashes
// in place once tombstones take up more than a quarter of its slots.
//
// # Eviction
//
// Find sets the recency bit of the slot it hits. Bits are grouped in 64-bit
// blocks; when a mark would set every bit of a block, the block is cleared
// first. That ages recency per neighbourhood in O(1) and guarantees that a
// full table always has an unmarked entry to evict.
//
// The eviction pass scans circularly from the cursor for the first occupied,
// unmarked slot, runs the eviction callback, deletes the entry, moves the
// cursor past it and clears all recency bits. A scan that finds nothing is an
// invariant violation.
//
// # Error Handling
//
// A full fixed table (Insert returns RejectedFull) and an absent key are
// ordinary results. Configuration and index errors are structured
// go-errors values with HOOD_* codes:
//
//	if _, err := hood.NewCache[string, int](hood.Config{Capacity: -1}, nil); err != nil {
//	    if hood.IsConfigError(err) {
//	        log.Printf("bad config: %v", hood.GetErrorContext(err))
//	    }
//	}
//
// Conditions the design rules out, such as an insert still failing right
// after an eviction, are handed to Config.Abort with a
// HOOD_INVARIANT_VIOLATION error. The default logs and panics.
//
// # Observability
//
// Config.Logger receives Debug events for evictions, resizes and tombstone
// purges. Config.MetricsCollector receives per-operation latencies and
// eviction counts; github.com/agilira/hood/otel implements it on top of
// OpenTelemetry.
//
// # Packages
//
//   - github.com/agilira/hood: table and cache
//   - github.com/agilira/hood/otel: OpenTelemetry integration (separate module)
//   - github.com/agilira/hood/cmd/hoodbench: workload driver
package hood
