package types

// Type is the virtual operation table for one tcode. There is no
// inheritance hierarchy and no per-object vtable: the header's Tcode
// selects a row of this table, and every dispatch through it is a single
// indirect call (spec.md §4.2).
type Type interface {
	// Name is the type's script-visible name, used in error messages
	// ("attempt to do X with a <typename>").
	Name() string

	// Mark sets FlagMark on o (idempotently — re-entry must short-circuit)
	// and recursively marks every object o transitively owns. It returns
	// the number of bytes o occupies, summed with everything it marked,
	// so the GC can recompute its next allocation threshold.
	Mark(o Object) uintptr

	// Free releases o back to the allocator. Called only by the sweep
	// phase on objects that were not marked.
	Free(o Object)

	// Hash must satisfy: Cmp(a,b) == 0 implies Hash(a) == Hash(b), for
	// every atomisable type.
	Hash(o Object) uint64

	// Cmp returns 0 iff a and b are equal by value.
	Cmp(a, b Object) int

	// Copy returns a new, non-atomic object with the same observable
	// value as o.
	Copy(o Object) Object
}

// Indexable is implemented by types that support indexed store/load
// (arrays, maps, sets, handles). The default for a type that does not
// implement this interface is "assign/fetch fails".
type Indexable interface {
	Assign(o, key, val Object) error
	Fetch(o, key Object) (Object, bool)
}

// Saveable is implemented by types that participate in the external
// archiver's save/restore hooks (spec.md §3.2, §6). Optional: file-like
// and other non-transmissible types omit it.
type Saveable interface {
	Save(w ArchiveWriter, o Object) error
	Restore(r ArchiveReader) (Object, error)
}

// ArchiveWriter/ArchiveReader are the narrow seams the external
// serialization collaborator (out of scope per spec.md §1) plugs into.
type ArchiveWriter interface {
	WriteTcode(Tcode) error
	WriteBytes([]byte) error
}

type ArchiveReader interface {
	ReadTcode() (Tcode, error)
	ReadBytes(n int) ([]byte, error)
}

// ScopeLike is implemented by map-like objects used as lexical scopes: it
// supplies the super-chain hooks from spec.md §3.2.
type ScopeLike interface {
	AssignSuper(o, key, val Object) error
	FetchSuper(o, key Object) (Object, bool)
	AssignBase(o, key, val Object) error
	FetchBase(o, key Object) (Object, bool)
	Keys(o Object) []Object
	Len(o Object) int
}

// Callable is implemented by the cfunc and method types. The func type
// does not implement it: the VM and Engine.Call run a *object.Func
// through Func.Entry instead.
type Callable interface {
	Call(o Object, subject Object, args []Object) (Object, error)
}
