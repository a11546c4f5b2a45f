// fuzz_test.go: fuzz testing of table and cache against a map model
//
// The fuzzer drives a byte-coded sequence of operations through a Table and
// a Cache built on deliberately weak hashers, so probe chains, displacement
// and tombstone reuse are exercised far more than with a good hash.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

import (
	"testing"
)

// FuzzTableOperations checks that a fixed table agrees with a map after
// every insert and delete, and that its Robin Hood ordering holds.
func FuzzTableOperations(f *testing.F) {
	f.Add(uint8(8), []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	f.Add(uint8(1), []byte{0, 0, 128, 1, 129})
	f.Add(uint8(5), []byte{10, 20, 30, 138, 148, 40, 50, 60, 70})
	f.Add(uint8(64), []byte{255, 254, 253, 127, 126, 125})
	// a full table churned one and two entries at a time
	f.Add(uint8(5), []byte{0, 1, 2, 3, 4, 5, 129, 13, 131, 15, 141, 133, 7, 17, 128, 143, 21, 25, 132, 135, 29, 33})

	f.Fuzz(func(t *testing.T, capByte uint8, ops []byte) {
		capacity := int(capByte%64) + 1
		tbl, err := NewTable[uint8, int](Config{Capacity: capacity}, GrowthForbidden,
			WithHasher(HasherFunc[uint8](func(k uint8) uint64 { return uint64(k % 11) })))
		if err != nil {
			t.Fatal(err)
		}

		model := map[uint8]int{}
		for i, op := range ops {
			k := op & 0x7f
			if op&0x80 == 0 {
				res := tbl.Insert(k, i)
				_, existed := model[k]
				switch {
				case existed:
					if res != Updated {
						t.Fatalf("op %d: update of %d returned %v", i, k, res)
					}
					model[k] = i
				case res == Inserted:
					model[k] = i
				case res == RejectedFull:
					if tbl.Len() != tbl.Cap() {
						t.Fatalf("op %d: rejected with %d/%d slots used", i, tbl.Len(), tbl.Cap())
					}
				}
			} else {
				_, existed := model[k]
				if tbl.Delete(k) != existed {
					t.Fatalf("op %d: Delete(%d) disagrees with model", i, k)
				}
				delete(model, k)
			}
		}

		checkInvariants(t, tbl)
		for k, v := range model {
			if got, ok := tbl.Get(k); !ok || got != v {
				t.Fatalf("Get(%d) = %d, %v; want %d", k, got, ok, v)
			}
		}
	})
}

// FuzzCacheOperations checks that a cache never exceeds its capacity, never
// loses a key it did not report evicting, and runs the callback once per
// eviction.
func FuzzCacheOperations(f *testing.F) {
	f.Add(uint8(4), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	f.Add(uint8(1), []byte{1, 2, 1, 2})
	f.Add(uint8(65), []byte{0, 64, 128, 192, 1, 65, 129, 193})

	f.Fuzz(func(t *testing.T, capByte uint8, ops []byte) {
		capacity := int(capByte%100) + 1
		model := map[uint8]int{}
		c, err := NewCache[uint8, int](Config{Capacity: capacity},
			func(k uint8, v int) {
				if got, ok := model[k]; !ok || got != v {
					t.Fatalf("evicted %d=%d not in model", k, v)
				}
				delete(model, k)
			},
			WithHasher(HasherFunc[uint8](func(k uint8) uint64 { return uint64(k % 13) })))
		if err != nil {
			t.Fatal(err)
		}

		for i, op := range ops {
			k := op & 0x3f
			switch op >> 6 {
			case 0, 1:
				c.Insert(k, i)
				model[k] = i
			case 2:
				c.Find(k)
			case 3:
				c.Delete(k)
				delete(model, k)
			}
			if c.Len() != len(model) || c.Len() > capacity {
				t.Fatalf("op %d: len %d, model %d, capacity %d", i, c.Len(), len(model), capacity)
			}
		}

		for k, v := range model {
			if got, ok := c.Find(k); !ok || got != v {
				t.Fatalf("Find(%d) = %d, %v; want %d", k, got, ok, v)
			}
		}
	})
}
