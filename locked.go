// locked.go: mutex-guarded cache for callers that share one between goroutines
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

import "sync"

// Locked serializes every call to an underlying Cache with a mutex.
// Find mutates recency state, so reads take the same exclusive lock as
// writes. The eviction callback runs with the lock held and must not call
// back into the Locked cache.
type Locked[K comparable, V any] struct {
	mu    sync.Mutex
	cache *Cache[K, V]
}

// NewLocked wraps cache. The caller must stop using cache directly.
func NewLocked[K comparable, V any](cache *Cache[K, V]) *Locked[K, V] {
	return &Locked[K, V]{cache: cache}
}

// Find is Cache.Find under the lock.
func (l *Locked[K, V]) Find(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Find(key)
}

// Insert is Cache.Insert under the lock.
func (l *Locked[K, V]) Insert(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Insert(key, value)
}

// Delete is Cache.Delete under the lock.
func (l *Locked[K, V]) Delete(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Delete(key)
}

// Clear is Cache.Clear under the lock.
func (l *Locked[K, V]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Clear()
}

// GetOrLoad is Cache.GetOrLoad under the lock. The loader runs with the
// lock held, so concurrent callers for any key wait for it.
func (l *Locked[K, V]) GetOrLoad(key K, loader func() (V, error)) (V, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.GetOrLoad(key, loader)
}

// Len is Cache.Len under the lock.
func (l *Locked[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Len()
}

// Stats is Cache.Stats under the lock.
func (l *Locked[K, V]) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Stats()
}

// Close is Cache.Close under the lock.
func (l *Locked[K, V]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Close()
}
