// Package engine is the bootstrap facade spec.md §6 calls the core's
// public contract: init()/uninit()/main(), object construction,
// indexed access, atom management, and invocation from native code. It
// is the one place that wires the otherwise import-cycle-free packages
// (types, object, atom, alloc, gc, vm, thread) into one running
// interpreter instance.
package engine

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/emberlang/ember/internal/alloc"
	"github.com/emberlang/ember/internal/atom"
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/gc"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/thread"
	"github.com/emberlang/ember/internal/types"
)

// Engine is one process's interpreter instance (spec.md §3: "process-wide
// singletons: the type registry, the atom table, the allocator, and the
// object registry used by the GC"). Multiple Engines may coexist in one
// Go process — each gets its own registry and atom table — but every
// thread() spawned from one Engine shares that Engine's state, per
// spec.md §4.8.
type Engine struct {
	Reg     *types.Registry
	Atoms   *atom.Table
	Alloc   *alloc.Allocator
	Coll    *gc.Collector
	Threads *thread.Group
	Log     *zap.Logger

	// Globals is the outermost lexical scope every top-level program and
	// thread is compiled against, seeded with the built-in cfuncs (§6's
	// public contract made callable from script code).
	Globals *object.Map

	main *thread.Exec
}

// New wires a fresh Engine: registers every built-in type, sets the
// object/atom packages' shared registry (breaking their import cycle
// with types), cross-wires the allocator's GC trigger with the
// collector's post-sweep threshold recompute, and seeds Globals with the
// native contract functions (spec.md §6).
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	reg := types.NewRegistry()
	object.RegisterBuiltins(reg)
	object.Reg = reg

	atoms := atom.New()
	atom.SetRegistry(reg)
	object.Atoms = atoms

	coll := gc.New(reg, atoms, log)
	alc := alloc.New(func() { coll.Collect() })
	coll.SetThresholdFunc(alc.RecomputeThreshold)

	threads := thread.NewGroup(reg, coll, log)

	e := &Engine{
		Reg:     reg,
		Atoms:   atoms,
		Alloc:   alc,
		Coll:    coll,
		Threads: threads,
		Log:     log,
		Globals: object.NewMap(),
	}
	e.main = threads.NewExec()
	e.registerNatives()
	return e
}

// Uninit runs a final collection so every tracked finalizable (open
// files, handles, channels) releases its resource deterministically
// instead of waiting on Go's own finalizers, which spec.md §3.2 treats
// as an implementation detail this core does not rely on. Two passes
// catch finalizables that were only reachable through another
// finalizable freed in the first pass (e.g. a Handle holding a File).
func (e *Engine) Uninit() error {
	return aggregateClose(
		func() error { e.Coll.Collect(); return nil },
		func() error { e.Coll.Collect(); return nil },
	)
}

// Run compiles nothing itself — c is already a code array, produced by
// internal/compiler from a tree an external parser collaborator built —
// and executes it on the engine's main thread (spec.md §6 "main(argc,
// argv, parse_args=true)" narrowed to the core's half of that contract).
func (e *Engine) Run(c *code.CodeArray) (types.Object, error) {
	return e.main.Run(c, e.Globals)
}

// RegisterType extends the registry with a dynamically-loaded module's
// type (spec.md §6 "register_type(Type*) -> tcode"), for the loadable-
// module mechanism the core exposes but does not itself implement.
func (e *Engine) RegisterType(t types.Type) types.Tcode { return e.Reg.Register(t) }

// Atom implements spec.md §6's "atom(o, lose) -> canonical".
func (e *Engine) Atom(o types.Object) types.Object { return e.Atoms.Atom(o, false) }

// Fetch/Assign implement spec.md §6's indexed-access contract for native
// collaborators that hold an Object but not a VM. key is interned before
// dispatch: Map/scope keys only match by Go identity (map.go), so a
// freshly-built key (e.g. object.NewStr in a native) must resolve to the
// same pointer a script-level lookup of the same value would use. Array
// indexing only reads key's int Value, so interning it is a harmless
// no-op there.
func (e *Engine) Fetch(o, key types.Object) (types.Object, bool) {
	idx, ok := e.Reg.TypeOf(o).(types.Indexable)
	if !ok {
		return nil, false
	}
	return idx.Fetch(o, object.Intern(key))
}

func (e *Engine) Assign(o, key, val types.Object) error {
	idx, ok := e.Reg.TypeOf(o).(types.Indexable)
	if !ok {
		return e.main.VM.Err.TypeMismatch("index-assign", e.Reg.TypeOf(o).Name())
	}
	return idx.Assign(o, object.Intern(key), val)
}

// Call implements spec.md §6's "call(callable, ...)": builds an arg
// frame and invokes it from native code, outside the VM's own dispatch
// loop, for Go-level collaborators (typically cfuncs) that need to call
// back into script code.
func (e *Engine) Call(callable types.Object, args ...types.Object) (types.Object, error) {
	if fn, ok := callable.(*object.Func); ok {
		entry, err := fn.Entry(object.TheNull(), args)
		if err != nil {
			return nil, err
		}
		return e.main.VM.Run(entry.Pc.Code, entry.Scope)
	}
	ty := e.Reg.TypeOf(callable)
	cb, ok := ty.(types.Callable)
	if !ok {
		return nil, e.main.VM.Err.TypeMismatch("call", ty.Name())
	}
	return cb.Call(callable, object.TheNull(), args)
}

// Typecheck implements spec.md §6's "typecheck('fmt', ...)" minimally: it
// validates args against a format string of one-letter type codes (i
// int, f float, s string, a array, m map, o any) and reports an
// errs.ArgError for the first mismatch, aggregating nothing further since
// native-arg validation stops at the first failure by spec (§4.7).
func (e *Engine) Typecheck(format string, args []types.Object) error {
	if len(format) != len(args) {
		return e.main.VM.Err.ArgCount(len(format), len(args))
	}
	for i, want := range format {
		if want == 'o' {
			continue
		}
		got := e.Reg.TypeOf(args[i]).Name()
		if !typecheckMatches(want, got) {
			return e.main.VM.Err.ArgError(i)
		}
	}
	return nil
}

func typecheckMatches(code rune, typeName string) bool {
	switch code {
	case 'i':
		return typeName == "int"
	case 'f':
		return typeName == "float"
	case 's':
		return typeName == "string"
	case 'a':
		return typeName == "array"
	case 'm':
		return typeName == "struct"
	default:
		return false
	}
}

// CollectGarbageCycles runs the collector count times and returns each
// cycle's Stats, for a caller that wants a deterministic GC trend instead
// of waiting on the allocator's own threshold.
func (e *Engine) CollectGarbageCycles(count int) []gc.Stats {
	stats := make([]gc.Stats, count)
	for i := range stats {
		stats[i] = e.Coll.Collect()
	}
	return stats
}

// aggregateClose runs every fn in order, collecting every returned error
// into one via multierr rather than stopping at the first failure — used
// by teardown paths where every listed resource should get a chance to
// close even if an earlier one failed (grounded on the teacher's shutdown
// sequencing, generalized from HTTP listeners to script-level handles).
func aggregateClose(fns ...func() error) error {
	var err error
	for _, fn := range fns {
		err = multierr.Append(err, fn())
	}
	return err
}
