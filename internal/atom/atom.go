// Package atom implements the interning table that makes equal atomic
// values pointer-equal (spec.md §3, module 3): "Hash table interning all
// immutable ("atomic") objects so equal atoms compare by pointer."
//
// The spec's own table is open-addressed with a type-supplied hash/cmp
// pair, probing downward with wraparound. Go's map can't host a custom
// hash/cmp, so this table uses a dolthub/swiss.Map bucketed on the raw
// 64-bit hash, with each bucket a short slice resolved by the object's
// own Type.Cmp — the same two-level "hash bucket, then compare" shape
// mna-nenuphar's interner uses swiss.Map for, just keyed here on a
// uint64 instead of a comparable Go value since spec atoms compare by
// value, not by Go identity.
package atom

import (
	"sync"

	"github.com/dolthub/swiss"

	"github.com/emberlang/ember/internal/types"
)

const loadFactor = 0.75

// Table is the process-wide atom table. One Table is shared by every
// thread (spec.md §7: "Threads share atoms, the type registry, and the
// object registry").
type Table struct {
	mu        sync.Mutex
	buckets   *swiss.Map[uint64, []types.Object]
	count     int
	threshold int
}

func New() *Table {
	return &Table{buckets: swiss.NewMap[uint64, []types.Object](64), threshold: 48}
}

// Probe looks up the canonical atom equal to o without inserting
// (spec.md §3: "atom_probe(o) queries without inserting").
func (t *Table) Probe(o types.Object) (types.Object, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.probeLocked(o)
}

func (t *Table) probeLocked(o types.Object) (types.Object, bool) {
	ty := object_Reg.TypeOf(o)
	h := ty.Hash(o)
	bucket, ok := t.buckets.Get(h)
	if !ok {
		return nil, false
	}
	for _, cand := range bucket {
		if ty.Cmp(cand, o) == 0 {
			return cand, true
		}
	}
	return nil, false
}

// Probe2 returns both the probe result and enough state to finish the
// insertion without re-hashing (spec.md §3: "atom_probe2(o, &slot)
// returns both result and insertion slot for a hoisted create-if-missing
// pattern"). Slot is opaque to callers; pass it to StoreAndCount to
// finish the insert after constructing a new atomic object.
type Slot struct {
	hash uint64
}

func (t *Table) Probe2(o types.Object) (types.Object, *Slot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.probeLocked(o); ok {
		return existing, nil, true
	}
	return nil, &Slot{hash: object_Reg.TypeOf(o).Hash(o)}, false
}

// StoreAndCount inserts o (already marked FlagAtom by the caller) at the
// slot produced by a prior Probe2 miss, growing the table if the load
// factor is exceeded (spec.md §3: "store_atom_and_count(slot, o)").
func (t *Table) StoreAndCount(slot *Slot, o types.Object) types.Object {
	t.mu.Lock()
	defer t.mu.Unlock()
	bucket, _ := t.buckets.Get(slot.hash)
	bucket = append(bucket, o)
	t.buckets.Put(slot.hash, bucket)
	t.count++
	if t.count > t.threshold {
		t.rehashLocked()
	}
	return o
}

// Atom returns the canonical atom equal to o (spec.md §3: "atom(o, lose)
// returns the canonical atom equivalent to o. If an equivalent atom
// already exists, o is discarded ... and the existing atom is returned;
// otherwise o itself is marked atomic, inserted, and returned"). lose is
// purely documentary here — Go's GC reclaims a discarded o on its own,
// unlike the spec's manual decref.
func (t *Table) Atom(o types.Object, lose bool) types.Object {
	if existing, slot, found := t.Probe2(o); found {
		return existing
	} else {
		o.Hdr().SetFlag(types.FlagAtom)
		return t.StoreAndCount(slot, o)
	}
}

// rehashLocked raises the load-factor threshold (spec.md §3: "Occupancy
// kept strictly below a tunable load factor; on exceedance the table is
// grown and rehashed"). swiss.Map already grows its own backing array as
// entries accumulate and is keyed directly on the 64-bit hash, so there
// is no fixed modulus to invalidate and no bucket contents to move —
// only the threshold that decides when the next exceedance fires.
func (t *Table) rehashLocked() {
	t.threshold = int(float64(t.threshold) / loadFactor)
}

// Count returns the number of interned atoms, a GC root count per
// spec.md §5 ("The atom table" is listed among GC roots).
func (t *Table) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Remove deletes o from the table. Called by the GC's sweep phase for
// every unmarked atom (spec.md §5: "Remove freed atoms from the atom
// table").
func (t *Table) Remove(o types.Object) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ty := object_Reg.TypeOf(o)
	h := ty.Hash(o)
	bucket, ok := t.buckets.Get(h)
	if !ok {
		return
	}
	for i, cand := range bucket {
		if cand == o {
			bucket = append(bucket[:i], bucket[i+1:]...)
			t.count--
			if len(bucket) == 0 {
				t.buckets.Delete(h)
			} else {
				t.buckets.Put(h, bucket)
			}
			return
		}
	}
}

// Walk calls fn for every interned atom, used by the GC to mark the
// table's contents as roots before sweeping it.
func (t *Table) Walk(fn func(types.Object)) {
	t.mu.Lock()
	snapshot := make([]types.Object, 0, t.count)
	t.buckets.Iter(func(_ uint64, bucket []types.Object) bool {
		snapshot = append(snapshot, bucket...)
		return false
	})
	t.mu.Unlock()
	for _, o := range snapshot {
		fn(o)
	}
}

// object_Reg is wired by engine.New at startup, mirroring object.Reg —
// this package needs the type registry to hash/cmp atoms but must not
// import package object (object imports atom for key interning, which
// would cycle).
var object_Reg *types.Registry

// SetRegistry wires the process-wide type registry. Called once by
// engine.New before any atom operation runs.
func SetRegistry(r *types.Registry) { object_Reg = r }
