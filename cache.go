// cache.go: bounded cache with pseudo-LRU eviction over a fixed Table
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

// Cache is a bounded key-value cache. It owns a fixed-capacity Table and
// approximates LRU with one recency bit per slot and a circular eviction
// cursor (a clock / second-chance scheme).
//
// When an insert finds the table full, the cache evicts exactly one entry:
// the first occupied slot at or after the cursor whose recency bit is
// clear. Every Find sets the bit of the slot it hits, so recently read
// entries survive the next eviction pass.
//
// A Cache is not safe for concurrent use. Wrap it in Locked, or lock
// externally, to share it between goroutines.
type Cache[K comparable, V any] struct {
	table         *Table[K, V]
	accessed      accessBitmap
	evictionIndex int
	onEvict       EvictionCallback[K, V]

	logger       Logger
	metrics      MetricsCollector
	timeProvider TimeProvider
	abort        func(error)

	hits      uint64
	misses    uint64
	inserts   uint64
	deletes   uint64
	evictions uint64
	cleared   uint64
}

// NewCache creates a cache holding at most cfg.Capacity entries.
// onEvict may be nil; when set it runs once for every entry removed by
// eviction, Clear or Close.
func NewCache[K comparable, V any](cfg Config, onEvict EvictionCallback[K, V], opts ...Option[K]) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := NewTable[K, V](cfg, GrowthForbidden, opts...)
	if err != nil {
		return nil, err
	}

	c := &Cache[K, V]{
		table:        table,
		accessed:     newAccessBitmap(cfg.Capacity),
		onEvict:      onEvict,
		logger:       cfg.Logger,
		metrics:      cfg.MetricsCollector,
		timeProvider: cfg.TimeProvider,
		abort:        cfg.Abort,
	}
	table.observer = c
	return c, nil
}

// moved keeps a relocated entry's recency bit with the entry.
func (c *Cache[K, V]) moved(from, to int) {
	c.accessed.assign(to, c.accessed.isSet(from))
}

// rehashed drops all recency information once indices are meaningless.
func (c *Cache[K, V]) rehashed() {
	c.accessed.reset()
}

// Find returns the value stored for key and marks its slot as recently
// accessed.
func (c *Cache[K, V]) Find(key K) (V, bool) {
	start := c.timeProvider.Now()

	i, ok := c.table.FindIndex(key)
	if !ok {
		c.misses++
		c.metrics.RecordGet(c.timeProvider.Now()-start, false)
		var zero V
		return zero, false
	}

	c.accessed.mark(i)
	c.hits++
	c.metrics.RecordGet(c.timeProvider.Now()-start, true)
	return c.table.slots[i].value, true
}

// Has reports whether key is cached without touching its recency bit.
func (c *Cache[K, V]) Has(key K) bool {
	_, ok := c.table.FindIndex(key)
	return ok
}

// Insert stores value under key, evicting one entry first if the cache is
// full. An existing key has its value replaced without eviction. The
// inserted entry is marked accessed, so it is never the next victim.
func (c *Cache[K, V]) Insert(key K, value V) {
	start := c.timeProvider.Now()

	i, res := c.table.insert(key, value)
	if res == RejectedFull {
		c.evict()
		i, res = c.table.insert(key, value)
		if res == RejectedFull {
			c.fatal("insert", map[string]interface{}{
				"capacity": c.table.Cap(),
				"size":     c.table.Len(),
				"reason":   "insert rejected right after an eviction freed a slot",
			})
		}
	}

	c.accessed.mark(i)
	c.inserts++
	c.metrics.RecordSet(c.timeProvider.Now() - start)
}

// evict removes exactly one entry: the first occupied, unmarked slot at or
// after the cursor.
func (c *Cache[K, V]) evict() {
	n := c.table.Cap()
	i := c.evictionIndex
	for scanned := 0; scanned < n; scanned++ {
		s := &c.table.slots[i]
		if s.occupied() && !c.accessed.isSet(i) {
			if c.onEvict != nil {
				c.onEvict(s.key, s.value)
			}
			if err := c.table.DeleteIndex(i); err != nil {
				c.fatal("evict", map[string]interface{}{"index": i, "cause": err.Error()})
			}
			c.evictionIndex = (i + 1) % n
			// recency restarts after every eviction
			c.accessed.reset()
			c.evictions++
			c.metrics.RecordEviction()
			c.logger.Debug("hood: evicted entry", "index", i, "next_cursor", c.evictionIndex)
			return
		}
		if i++; i == n {
			i = 0
		}
	}

	c.fatal("evict", map[string]interface{}{
		"capacity": n,
		"size":     c.table.Len(),
		"marked":   c.accessed.count(),
		"cursor":   c.evictionIndex,
		"reason":   "full scan found no unmarked occupied slot",
	})
}

// Delete removes key without invoking the eviction callback and reports
// whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	start := c.timeProvider.Now()

	i, ok := c.table.FindIndex(key)
	if !ok {
		return false
	}
	if err := c.table.DeleteIndex(i); err != nil {
		c.fatal("delete", map[string]interface{}{"index": i, "cause": err.Error()})
	}
	c.accessed.reset()
	c.deletes++
	c.metrics.RecordDelete(c.timeProvider.Now() - start)
	return true
}

// Clear invokes the eviction callback for every entry, removes them all and
// resets recency information. Calling Clear on an empty cache does nothing.
func (c *Cache[K, V]) Clear() {
	removed := c.table.Len()
	if removed == 0 {
		return
	}
	if c.onEvict != nil {
		c.table.Range(func(_ int, key K, value V) bool {
			c.onEvict(key, value)
			return true
		})
	}
	c.table.Clear()
	c.accessed.reset()
	c.cleared += uint64(removed) // #nosec G115 - removed is non-negative
	c.logger.Debug("hood: cache cleared", "removed", removed)
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.table.Len()
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int {
	return c.table.Cap()
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits,
		Misses:    c.misses,
		Inserts:   c.inserts,
		Deletes:   c.deletes,
		Evictions: c.evictions,
		Cleared:   c.cleared,
		Size:      c.table.Len(),
		Capacity:  c.table.Cap(),
	}
}

// TableStats returns probe statistics of the underlying table.
func (c *Cache[K, V]) TableStats() TableStats {
	return c.table.Stats()
}

// Range calls fn for every cached entry in slot order until fn returns
// false. It does not mark entries as accessed. fn must not modify the cache.
func (c *Cache[K, V]) Range(fn func(key K, value V) bool) {
	c.table.Range(func(_ int, key K, value V) bool {
		return fn(key, value)
	})
}

// Close clears the cache, running the eviction callback for every entry.
func (c *Cache[K, V]) Close() error {
	c.Clear()
	return nil
}

func (c *Cache[K, V]) fatal(op string, details map[string]interface{}) {
	err := NewErrInvariantViolation(op, details)
	c.abort(err)
	panic(err)
}
