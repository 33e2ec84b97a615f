package engine

import (
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

// registerNatives seeds Globals with the cfuncs that make spec.md §6's
// public contract callable from script code: object construction, the
// error-taxonomy helpers, fetch/assign/call, and argcount (type checks
// are the Go-level Engine.Typecheck, not a global). Standard-
// library tables beyond this (math, regex, channels, signals) are out of
// core scope per spec.md §1 and belong to a separate collaborator.
func (e *Engine) registerNatives() {
	def := func(name string, fn object.NativeFunc) {
		_ = e.Assign(e.Globals, object.NewStr(name), object.NewCfunc(name, fn, nil, nil))
	}

	def("new_int", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) != 1 {
			return nil, e.main.VM.Err.ArgCount(1, len(args))
		}
		n, ok := args[0].(*object.Int)
		if !ok {
			return nil, e.main.VM.Err.ArgError(0)
		}
		return object.NewInt(n.Value), nil
	})

	def("new_float", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) != 1 {
			return nil, e.main.VM.Err.ArgCount(1, len(args))
		}
		switch n := args[0].(type) {
		case *object.Float:
			return object.NewFloat(n.Value), nil
		case *object.Int:
			return object.NewFloat(float64(n.Value)), nil
		default:
			return nil, e.main.VM.Err.ArgError(0)
		}
	})

	def("new_str", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) != 1 {
			return nil, e.main.VM.Err.ArgCount(1, len(args))
		}
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, e.main.VM.Err.ArgError(0)
		}
		return object.NewStr(s.String()), nil
	})

	def("new_array", func(args []types.Object, _, _ any) (types.Object, error) {
		a := object.NewArray(len(args))
		for _, v := range args {
			a.PushBack(v)
		}
		return a, nil
	})

	def("new_map", func(args []types.Object, _, _ any) (types.Object, error) {
		return object.NewMap(), nil
	})

	def("new_set", func(args []types.Object, _, _ any) (types.Object, error) {
		s := object.NewSet()
		for _, v := range args {
			s.Add(e.Atom(v))
		}
		return s, nil
	})

	def("atom", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) != 1 {
			return nil, e.main.VM.Err.ArgCount(1, len(args))
		}
		return e.Atom(args[0]), nil
	})

	def("fetch", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) != 2 {
			return nil, e.main.VM.Err.ArgCount(2, len(args))
		}
		v, ok := e.Fetch(args[0], args[1])
		if !ok {
			return object.TheNull(), nil
		}
		return v, nil
	})

	def("assign", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) != 3 {
			return nil, e.main.VM.Err.ArgCount(3, len(args))
		}
		if err := e.Assign(args[0], args[1], args[2]); err != nil {
			return nil, err
		}
		return args[2], nil
	})

	def("call", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) < 1 {
			return nil, e.main.VM.Err.ArgCount(1, len(args))
		}
		return e.Call(args[0], args[1:]...)
	})

	def("fail", func(args []types.Object, _, _ any) (types.Object, error) {
		msg := ""
		if len(args) > 0 {
			if s, ok := args[0].(*object.String); ok {
				msg = s.String()
			}
		}
		return nil, e.main.VM.Err.Fail(msg)
	})

	def("argerror", func(args []types.Object, _, _ any) (types.Object, error) {
		i := 0
		if len(args) > 0 {
			if n, ok := args[0].(*object.Int); ok {
				i = int(n.Value)
			}
		}
		return nil, e.main.VM.Err.ArgError(i)
	})

	def("new_handle", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) != 1 {
			return nil, e.main.VM.Err.ArgCount(1, len(args))
		}
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, e.main.VM.Err.ArgError(0)
		}
		h := object.NewHandle(nil, s.String(), nil)
		e.Coll.Track(h)
		return h, nil
	})

	def("new_mem", func(args []types.Object, _, _ any) (types.Object, error) {
		if len(args) != 1 {
			return nil, e.main.VM.Err.ArgCount(1, len(args))
		}
		n, ok := args[0].(*object.Int)
		if !ok {
			return nil, e.main.VM.Err.ArgError(0)
		}
		m := object.NewMem(make([]byte, n.Value), 1, nil)
		e.Coll.Track(m)
		return m, nil
	})

	def("new_channel", func(args []types.Object, _, _ any) (types.Object, error) {
		capacity := int64(0)
		if len(args) > 0 {
			n, ok := args[0].(*object.Int)
			if !ok {
				return nil, e.main.VM.Err.ArgError(0)
			}
			capacity = n.Value
		}
		ch := object.NewChannel(capacity)
		e.Coll.Track(ch)
		return ch, nil
	})

	def("argcount", func(args []types.Object, _, _ any) (types.Object, error) {
		want, got := 0, 0
		if len(args) > 0 {
			if n, ok := args[0].(*object.Int); ok {
				want = int(n.Value)
			}
		}
		if len(args) > 1 {
			if n, ok := args[1].(*object.Int); ok {
				got = int(n.Value)
			}
		}
		return nil, e.main.VM.Err.ArgCount(want, got)
	})
}
