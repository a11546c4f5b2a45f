// table.go: open-addressing hash table with Robin Hood displacement
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hood

// slot is one cell of the table. Its state is encoded in tag:
// 0 = empty, tombstoneBit set = deleted, anything else = occupied.
type slot[K comparable, V any] struct {
	tag   uint64
	key   K
	value V
}

func (s *slot[K, V]) occupied() bool {
	return s.tag != tagEmpty && s.tag&tombstoneBit == 0
}

func (s *slot[K, V]) tombstone() bool {
	return s.tag&tombstoneBit != 0
}

// tableObserver is told about every index change so owners of side data
// aligned with slot indices (the cache's recency bitmap) stay consistent.
type tableObserver interface {
	// moved reports that the entry at from now lives at to. Moves of one
	// insert are reported tail first, so to never holds a pending entry.
	moved(from, to int)

	// rehashed reports that every index has been invalidated.
	rehashed()
}

// Table is a generic hash table using open addressing with linear probing
// and Robin Hood displacement.
//
// A Table is not safe for concurrent use; callers that share one between
// goroutines must lock around every call.
//
// Slot indices returned by FindIndex are valid until the next Insert,
// DeleteIndex, Resize or Clear. Inserts may shift residents forward by
// Robin Hood displacement, and deleting from a completely full table
// shifts the entries behind the gap back by one. Resize and Clear
// invalidate all indices and bump Generation.
//
// Whenever the table is not full it holds at least one empty slot, which
// is what bounds every probe walk.
type Table[K comparable, V any] struct {
	slots      []slot[K, V]
	size       int
	tombstones int
	growth     GrowthPolicy
	maxLoad    float64

	hasher Hasher[K]
	equal  func(a, b K) bool

	logger   Logger
	abort    func(error)
	observer tableObserver

	// scratch list of positions displaced by the current insert
	chain []int

	generation    uint64
	resizes       uint64
	purges        uint64
	displacements uint64
}

// Option customizes how a table hashes and compares keys.
type Option[K comparable] func(*keyOptions[K])

type keyOptions[K comparable] struct {
	hasher   Hasher[K]
	equal    func(a, b K) bool
	keyBytes func(dst []byte, key K) []byte
}

// WithHasher replaces the default keyed xxhash hasher.
func WithHasher[K comparable](h Hasher[K]) Option[K] {
	return func(o *keyOptions[K]) {
		o.hasher = h
	}
}

// WithEqual replaces == as the key equality. Keys that are equal under eq
// must hash identically.
func WithEqual[K comparable](eq func(a, b K) bool) Option[K] {
	return func(o *keyOptions[K]) {
		o.equal = eq
	}
}

// WithKeyBytes sets the byte extraction used by the default hasher.
// Ignored when WithHasher is also given.
func WithKeyBytes[K comparable](fn func(dst []byte, key K) []byte) Option[K] {
	return func(o *keyOptions[K]) {
		o.keyBytes = fn
	}
}

func resolveKeyOptions[K comparable](seed uint64, opts []Option[K]) keyOptions[K] {
	var o keyOptions[K]
	for _, opt := range opts {
		opt(&o)
	}
	if o.keyBytes == nil {
		o.keyBytes = DefaultKeyBytes[K]
	}
	if o.hasher == nil {
		o.hasher = NewKeyedHasher(seed, o.keyBytes)
	}
	if o.equal == nil {
		o.equal = func(a, b K) bool { return a == b }
	}
	return o
}

// NewTable creates a table with cfg.Capacity slots.
func NewTable[K comparable, V any](cfg Config, growth GrowthPolicy, opts ...Option[K]) (*Table[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ko := resolveKeyOptions(cfg.Seed, opts)

	return &Table[K, V]{
		slots:   make([]slot[K, V], cfg.Capacity),
		growth:  growth,
		maxLoad: cfg.MaxLoadFactor,
		hasher:  ko.hasher,
		equal:   ko.equal,
		logger:  cfg.Logger,
		abort:   cfg.Abort,
	}, nil
}

// nextPowerOf2 returns the next power of 2 greater than or equal to n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

func (t *Table[K, V]) home(tag uint64) int {
	return int((tag &^ tombstoneBit) % uint64(len(t.slots))) // #nosec G115 - bounded by len(t.slots)
}

// distance returns how far the entry (or tombstone) with tag sitting at
// index i is from its home slot.
func (t *Table[K, V]) distance(tag uint64, i int) int {
	d := i - t.home(tag)
	if d < 0 {
		d += len(t.slots)
	}
	return d
}

// FindIndex returns the slot index holding key.
func (t *Table[K, V]) FindIndex(key K) (int, bool) {
	return t.find(key, tagOf(t.hasher.Hash(key)))
}

func (t *Table[K, V]) find(key K, tag uint64) (int, bool) {
	n := len(t.slots)
	i := t.home(tag)
	for dist := 0; dist < n; dist++ {
		s := &t.slots[i]
		switch {
		case s.tag == tagEmpty:
			return -1, false
		case s.tombstone():
			// deleted entries keep the chain intact but never match
		case t.distance(s.tag, i) < dist:
			// a richer resident: our key would have displaced it
			return -1, false
		case s.tag == tag && t.equal(s.key, key):
			return i, true
		}
		if i++; i == n {
			i = 0
		}
	}
	return -1, false
}

// Get returns the value stored for key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	if i, ok := t.FindIndex(key); ok {
		return t.slots[i].value, true
	}
	var zero V
	return zero, false
}

// Insert stores value under key. An existing key has its value replaced.
// A new key is rejected with RejectedFull only when the table is full and
// its growth policy is GrowthForbidden.
func (t *Table[K, V]) Insert(key K, value V) InsertResult {
	_, res := t.insert(key, value)
	return res
}

// insert is Insert that also reports where key ended up.
func (t *Table[K, V]) insert(key K, value V) (int, InsertResult) {
	tag := tagOf(t.hasher.Hash(key))
	if i, ok := t.find(key, tag); ok {
		t.slots[i].value = value
		return i, Updated
	}
	if !t.reserve() {
		return -1, RejectedFull
	}

	at := t.place(slot[K, V]{tag: tag, key: key, value: value})
	if t.observer != nil && len(t.chain) > 0 {
		t.notifyMoves()
	}
	return at, Inserted
}

// reserve makes room for one more entry, growing or purging tombstones as
// the growth policy allows. On success at least one slot is empty, and the
// insert cannot consume the last empty slot while tombstones remain.
func (t *Table[K, V]) reserve() bool {
	n := len(t.slots)
	if t.growth == GrowthAllowed && float64(t.size+1) > t.maxLoad*float64(n) {
		newCap := nextPowerOf2(n * 2)
		for float64(t.size+1) > t.maxLoad*float64(newCap) {
			newCap *= 2
		}
		t.logger.Debug("hood: growing table", "from", n, "to", newCap, "size", t.size)
		t.rehash(newCap)
		t.resizes++
		return true
	}

	if t.size >= n {
		return false
	}

	// tombstones lengthen every probe that crosses them, and a table
	// holding only entries and tombstones has nowhere to end a walk
	if t.tombstones > n/4 ||
		(t.tombstones > 0 && t.size+t.tombstones+1 >= n) ||
		(t.growth == GrowthAllowed && float64(t.size+t.tombstones+1) > t.maxLoad*float64(n)) {
		t.purge()
	}
	return true
}

// purge rehashes at the current capacity, dropping every tombstone.
func (t *Table[K, V]) purge() {
	t.logger.Debug("hood: purging tombstones", "capacity", len(t.slots), "tombstones", t.tombstones)
	t.rehash(len(t.slots))
	t.purges++
}

// place runs the Robin Hood insertion walk for a key known to be absent
// and returns the index the new entry landed on.
//
// A tombstone is taken over once the carried entry is at least as far from
// home as the deleted entry was, which keeps every probe chain crossing it
// valid. Every carried entry has its home between the start of the walk and
// the current slot, so with an empty slot present the walk ends within one
// lap and no carried distance reaches n.
func (t *Table[K, V]) place(cur slot[K, V]) int {
	n := len(t.slots)
	i := t.home(cur.tag)
	dist := 0
	at := -1
	t.chain = t.chain[:0]

	for step := 0; step < n; step++ {
		s := &t.slots[i]
		switch {
		case s.tag == tagEmpty:
			*s = cur
			t.size++
			return t.landed(at, i)
		case s.tombstone():
			if t.distance(s.tag, i) <= dist {
				*s = cur
				t.size++
				t.tombstones--
				return t.landed(at, i)
			}
		default:
			if rd := t.distance(s.tag, i); rd < dist {
				// the resident is richer: take its slot and carry it on
				cur, *s = *s, cur
				if at < 0 {
					at = i
				}
				t.chain = append(t.chain, i)
				t.displacements++
				dist = rd
			}
		}
		dist++
		if i++; i == n {
			i = 0
		}
	}

	t.fatal("insert", map[string]interface{}{
		"capacity":   n,
		"size":       t.size,
		"tombstones": t.tombstones,
	})
	return -1
}

// landed finishes a placement: the last carried entry went to final.
func (t *Table[K, V]) landed(at, final int) int {
	if at < 0 {
		return final
	}
	t.chain = append(t.chain, final)
	return at
}

// notifyMoves reports the displacement chain of the last insert, tail first.
// chain[0] is where the new entry landed; the resident displaced from
// chain[k] moved to chain[k+1].
func (t *Table[K, V]) notifyMoves() {
	for k := len(t.chain) - 2; k >= 0; k-- {
		t.observer.moved(t.chain[k], t.chain[k+1])
	}
}

// DeleteIndex removes the entry at slot index i, leaving a tombstone.
// A tombstone directly followed by an empty slot can never be part of a
// probe chain, so such tombstones revert to empty. A completely full table
// has no empty slot to spare, so there the entries behind i shift back
// instead and the freed slot ends up empty.
func (t *Table[K, V]) DeleteIndex(i int) error {
	if i < 0 || i >= len(t.slots) || !t.slots[i].occupied() {
		return NewErrInvalidIndex(i, len(t.slots))
	}
	if t.size == len(t.slots) {
		t.shiftBack(i)
		t.size--
		return nil
	}

	s := &t.slots[i]
	var zeroK K
	var zeroV V
	s.key, s.value = zeroK, zeroV
	s.tag |= tombstoneBit
	t.size--
	t.tombstones++

	n := len(t.slots)
	for j := i; t.slots[j].tombstone() && t.slots[(j+1)%n].tag == tagEmpty; {
		t.slots[j].tag = tagEmpty
		t.tombstones--
		if j--; j < 0 {
			j = n - 1
		}
	}
	return nil
}

// shiftBack closes the gap at i by moving every displaced successor one
// slot closer to its home, stopping at the first entry already at home.
func (t *Table[K, V]) shiftBack(i int) {
	n := len(t.slots)
	for step := 1; step < n; step++ {
		j := i + 1
		if j == n {
			j = 0
		}
		next := &t.slots[j]
		if !next.occupied() || t.distance(next.tag, j) == 0 {
			break
		}
		t.slots[i] = *next
		if t.observer != nil {
			t.observer.moved(j, i)
		}
		i = j
	}
	t.slots[i] = slot[K, V]{}
}

// Delete removes key and reports whether it was present.
func (t *Table[K, V]) Delete(key K) bool {
	i, ok := t.FindIndex(key)
	if !ok {
		return false
	}
	return t.DeleteIndex(i) == nil
}

// Entry returns the key and value at slot index i.
func (t *Table[K, V]) Entry(i int) (K, V, bool) {
	if i < 0 || i >= len(t.slots) || !t.slots[i].occupied() {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	return t.slots[i].key, t.slots[i].value, true
}

// Resize rehashes every live entry into newCap slots and drops all
// tombstones. Every previously returned index becomes invalid.
func (t *Table[K, V]) Resize(newCap int) error {
	if newCap <= 0 {
		return NewErrInvalidCapacity(newCap)
	}
	if newCap < t.size {
		return NewErrTableFull(newCap, t.size)
	}
	t.logger.Debug("hood: resizing table", "from", len(t.slots), "to", newCap, "size", t.size)
	t.rehash(newCap)
	t.resizes++
	return nil
}

func (t *Table[K, V]) rehash(newCap int) {
	old := t.slots
	t.slots = make([]slot[K, V], newCap)
	t.size, t.tombstones = 0, 0
	for i := range old {
		if old[i].occupied() {
			t.place(old[i])
		}
	}
	t.chain = t.chain[:0]
	t.invalidate()
}

func (t *Table[K, V]) invalidate() {
	t.generation++
	if t.observer != nil {
		t.observer.rehashed()
	}
}

// Clear removes every entry, leaving all slots empty.
func (t *Table[K, V]) Clear() {
	clear(t.slots)
	t.size, t.tombstones = 0, 0
	t.invalidate()
}

// Range calls fn for every live entry in slot order until fn returns false.
// fn must not modify the table.
func (t *Table[K, V]) Range(fn func(index int, key K, value V) bool) {
	for i := range t.slots {
		if t.slots[i].occupied() && !fn(i, t.slots[i].key, t.slots[i].value) {
			return
		}
	}
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int {
	return t.size
}

// Cap returns the number of slots.
func (t *Table[K, V]) Cap() int {
	return len(t.slots)
}

// Tombstones returns the number of deleted slots not yet reclaimed.
func (t *Table[K, V]) Tombstones() int {
	return t.tombstones
}

// LoadFactor returns Len()/Cap().
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.size) / float64(len(t.slots))
}

// Growth returns the table's growth policy.
func (t *Table[K, V]) Growth() GrowthPolicy {
	return t.growth
}

// Generation changes every time all slot indices are invalidated.
func (t *Table[K, V]) Generation() uint64 {
	return t.generation
}

// SetMaxLoadFactor changes the resize threshold of a growable table.
// The new threshold applies from the next insert.
func (t *Table[K, V]) SetMaxLoadFactor(factor float64) error {
	if !(factor > 0 && factor <= 1) {
		return NewErrInvalidLoadFactor(factor)
	}
	t.maxLoad = factor
	return nil
}

// MaxLoadFactor returns the current resize threshold.
func (t *Table[K, V]) MaxLoadFactor() float64 {
	return t.maxLoad
}

// Stats returns probe-length and maintenance statistics. It walks every
// slot, so it is O(capacity).
func (t *Table[K, V]) Stats() TableStats {
	st := TableStats{
		Size:         t.size,
		Capacity:     len(t.slots),
		Tombstones:   t.tombstones,
		LoadFactor:   t.LoadFactor(),
		Resizes:      t.resizes,
		Purges:       t.purges,
		Displacement: t.displacements,
	}
	total := 0
	for i := range t.slots {
		if !t.slots[i].occupied() {
			continue
		}
		d := t.distance(t.slots[i].tag, i)
		total += d
		if d > st.MaxProbe {
			st.MaxProbe = d
		}
	}
	if t.size > 0 {
		st.MeanProbe = float64(total) / float64(t.size)
	}
	return st
}

// fatal hands an invariant violation to the abort primitive. Abort must
// not return; if it does, fatal panics so corrupted state is never used.
func (t *Table[K, V]) fatal(op string, details map[string]interface{}) {
	err := NewErrInvariantViolation(op, details)
	t.abort(err)
	panic(err)
}
