// Package hood provides a generic Robin Hood hash table and a bounded,
// pseudo-LRU cache built on top of it.
//
// Example usage:
//
//	cache, err := hood.NewCache[string, []byte](hood.Config{Capacity: 1024},
//		func(key string, value []byte) { release(value) })
//	if err != nil {
//		return err
//	}
//
//	cache.Insert("key", payload)
//	value, found := cache.Find("key")
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hood

const (
	// Version of the hood library
	Version = "v0.1.0-dev"

	// DefaultCapacity is the default number of slots
	DefaultCapacity = 1024

	// DefaultMaxLoadFactor is the load factor a growable table may reach before it resizes
	DefaultMaxLoadFactor = 0.9 // 90%

	// bitmapBlockBits is the width of one recency block
	bitmapBlockBits = 64
)
