// bitmap.go: block-packed recency bits for pseudo-LRU eviction
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

import "math/bits"

// accessBitmap holds one "recently accessed" bit per table slot, packed into
// 64-bit blocks. Bits beyond n in the last block are never set.
//
// Marking uses a clear-then-set rule: when setting a bit would turn every
// meaningful bit of its block on, the whole block is zeroed first. A block
// of two or more slots therefore always keeps at least one slot unmarked,
// which is what guarantees the cache an eviction victim once the table is
// full.
type accessBitmap struct {
	blocks []uint64
	n      int
}

func newAccessBitmap(n int) accessBitmap {
	return accessBitmap{
		blocks: make([]uint64, (n+bitmapBlockBits-1)/bitmapBlockBits),
		n:      n,
	}
}

// fullMask returns the mask of meaningful bits in block blk.
func (b *accessBitmap) fullMask(blk int) uint64 {
	if blk == len(b.blocks)-1 {
		if r := b.n % bitmapBlockBits; r != 0 {
			return uint64(1)<<uint(r) - 1
		}
	}
	return ^uint64(0)
}

// mark records an access to slot i.
func (b *accessBitmap) mark(i int) {
	if b.n == 1 {
		// the only slot is always the victim; marking it would make every
		// eviction scan come up empty
		return
	}
	blk, bit := i/bitmapBlockBits, uint64(1)<<uint(i%bitmapBlockBits)
	if b.blocks[blk]|bit == b.fullMask(blk) {
		b.blocks[blk] = 0
	}
	b.blocks[blk] |= bit
}

func (b *accessBitmap) isSet(i int) bool {
	return b.blocks[i/bitmapBlockBits]&(uint64(1)<<uint(i%bitmapBlockBits)) != 0
}

// assign carries a recency bit to slot i when the table relocates an entry.
// Setting goes through mark so a relocation can never fill a block.
func (b *accessBitmap) assign(i int, v bool) {
	if v {
		b.mark(i)
		return
	}
	b.blocks[i/bitmapBlockBits] &^= uint64(1) << uint(i%bitmapBlockBits)
}

func (b *accessBitmap) reset() {
	clear(b.blocks)
}

// count returns the number of marked slots.
func (b *accessBitmap) count() int {
	n := 0
	for _, blk := range b.blocks {
		n += bits.OnesCount64(blk)
	}
	return n
}
