// hasher.go: keyed hashing and tag derivation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	// tagEmpty marks a slot that has never held an entry since the last rehash.
	tagEmpty uint64 = 0

	// tombstoneBit is reserved: set only on deleted slots. The remaining
	// bits of a tombstone keep the deleted entry's tag so its probe
	// distance can still be computed.
	tombstoneBit uint64 = 1 << 63
)

// Hasher maps a key to a 64-bit hash. Any value is acceptable; the table
// masks it into the usable tag space itself.
type Hasher[K any] interface {
	Hash(key K) uint64
}

// HasherFunc adapts a plain function to the Hasher interface.
type HasherFunc[K any] func(key K) uint64

// Hash calls f(key).
func (f HasherFunc[K]) Hash(key K) uint64 {
	return f(key)
}

// KeyedHasher hashes the bytes of a key with xxhash64 keyed by a seed.
// It reuses one digest and scratch buffer, so like the table that owns it,
// it must not be shared between goroutines.
type KeyedHasher[K any] struct {
	seed     uint64
	digest   *xxhash.Digest
	keyBytes func(dst []byte, key K) []byte
	buf      []byte
}

// NewKeyedHasher returns a hasher that feeds keyBytes(key) through xxhash64
// seeded with seed.
func NewKeyedHasher[K any](seed uint64, keyBytes func(dst []byte, key K) []byte) *KeyedHasher[K] {
	return &KeyedHasher[K]{
		seed:     seed,
		digest:   xxhash.NewWithSeed(seed),
		keyBytes: keyBytes,
		buf:      make([]byte, 0, 64),
	}
}

// Hash returns the keyed hash of key.
func (h *KeyedHasher[K]) Hash(key K) uint64 {
	h.buf = h.keyBytes(h.buf[:0], key)
	h.digest.ResetWithSeed(h.seed)
	_, _ = h.digest.Write(h.buf)
	return h.digest.Sum64()
}

// Seed returns the key the hasher was created with.
func (h *KeyedHasher[K]) Seed() uint64 {
	return h.seed
}

// DefaultKeyBytes appends a byte representation of key to dst. Keys equal
// under == always produce equal bytes.
// Strings, booleans, integers and floats are encoded directly. Other
// comparable types, named ones included, are walked with reflection, which
// is slower; WithKeyBytes avoids it for hot key types.
func DefaultKeyBytes[K comparable](dst []byte, key K) []byte {
	switch v := any(key).(type) {
	case string:
		return append(dst, v...)
	case bool:
		if v {
			return append(dst, 1)
		}
		return append(dst, 0)
	case int:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case int8:
		return append(dst, byte(v))
	case int16:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case int32:
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	case int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case uint:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case uint8:
		return append(dst, v)
	case uint16:
		return binary.LittleEndian.AppendUint16(dst, v)
	case uint32:
		return binary.LittleEndian.AppendUint32(dst, v)
	case uint64:
		return binary.LittleEndian.AppendUint64(dst, v)
	case uintptr:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case float32:
		if v == 0 {
			v = 0 // -0 == +0, so both must hash alike
		}
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	case float64:
		return appendFloat(dst, v)
	default:
		return appendValue(dst, reflect.ValueOf(key))
	}
}

func appendFloat(dst []byte, f float64) []byte {
	if f == 0 {
		f = 0
	}
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f))
}

// appendValue encodes any comparable value field by field.
func appendValue(dst []byte, v reflect.Value) []byte {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return append(dst, 1)
		}
		return append(dst, 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(v.Int())) // #nosec G115 - bit pattern only
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return binary.LittleEndian.AppendUint64(dst, v.Uint())
	case reflect.Float32, reflect.Float64:
		return appendFloat(dst, v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		return appendFloat(appendFloat(dst, real(c)), imag(c))
	case reflect.String:
		s := v.String()
		dst = binary.LittleEndian.AppendUint64(dst, uint64(len(s)))
		return append(dst, s...)
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return binary.LittleEndian.AppendUint64(dst, uint64(v.Pointer()))
	case reflect.Interface:
		if v.IsNil() {
			return append(dst, 0)
		}
		e := v.Elem()
		dst = append(dst, e.Type().String()...)
		return appendValue(dst, e)
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			dst = appendValue(dst, v.Index(i))
		}
		return dst
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			dst = appendValue(dst, v.Field(i))
		}
		return dst
	default:
		// nil interface keys and kinds that cannot be compared
		return append(dst, v.Kind().String()...)
	}
}

// GenerateSeed returns a random 64-bit seed for keying hash functions.
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is not worth failing table construction over
		return uint64(time.Now().UnixNano()) // #nosec G115 - only used as a seed
	}
	return binary.LittleEndian.Uint64(b[:])
}

// tagOf maps a raw hash into the usable tag space: the tombstone bit is
// masked off and zero (the empty sentinel) becomes one.
func tagOf(h uint64) uint64 {
	h &^= tombstoneBit
	if h == tagEmpty {
		return 1
	}
	return h
}
