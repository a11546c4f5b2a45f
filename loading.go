// loading.go: cache-aside loading for Cache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package hood

// GetOrLoad returns the cached value for key, or calls loader, caches its
// result and returns it.
//
// Returns:
//   - HOOD_INVALID_LOADER if the key is absent and loader is nil
//   - HOOD_LOADER_FAILED wrapping the loader's error (nothing is cached)
//   - HOOD_PANIC_RECOVERED if loader panics (nothing is cached)
//
// Example:
//
//	user, err := cache.GetOrLoad(123, func() (User, error) {
//	    return fetchUserFromDB(123)
//	})
func (c *Cache[K, V]) GetOrLoad(key K, loader func() (V, error)) (V, error) {
	if value, found := c.Find(key); found {
		return value, nil
	}

	var zero V
	if loader == nil {
		return zero, NewErrInvalidLoader(key)
	}

	value, err := callLoader(loader)
	if err != nil {
		if IsLoaderError(err) || GetErrorCode(err) == ErrCodePanicRecovered {
			return zero, err
		}
		return zero, NewErrLoaderFailed(key, err)
	}

	c.Insert(key, value)
	return value, nil
}

// callLoader runs loader, turning a panic into HOOD_PANIC_RECOVERED.
func callLoader[V any](loader func() (V, error)) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			value, err = zero, NewErrPanicRecovered("GetOrLoad", r)
		}
	}()
	return loader()
}
