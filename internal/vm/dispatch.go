package vm

import (
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

// exec dispatches one instruction, grouped into the sub-switches spec.md
// §9 asks for (arithmetic/comparison/logical in binop.go, assignment and
// control-flow below, call in call.go).
func (vm *VM) exec(instr code.Instruction) error {
	switch instr.Op {
	case code.OpPush:
		vm.OS.PushBack(vm.cur.Literals[instr.A])
		return nil

	case code.OpPop:
		vm.OS.PopBack()
		return nil

	case code.OpDup:
		top, ok := vm.OS.Back()
		if !ok {
			return vm.Err.SetError("stack underflow: dup on empty operand stack")
		}
		vm.OS.PushBack(top)
		return nil

	case code.OpMark:
		vm.OS.PushBack(object.TheMark())
		return nil

	case code.OpName:
		name := vm.cur.Literals[instr.A]
		val, ok := vm.lookup(name)
		if !ok {
			val = object.TheNull()
		}
		vm.OS.PushBack(val)
		return nil

	case code.OpAssign:
		return vm.execAssign(instr)

	case code.OpAssignBase:
		val, ok := vm.OS.PopBack()
		if !ok {
			return vm.Err.SetError("stack underflow: assign with no value")
		}
		name := vm.cur.Literals[instr.A]
		scope := vm.scope()
		if err := vm.reg.TypeOf(scope).(types.ScopeLike).AssignBase(scope, name, val); err != nil {
			return err
		}
		vm.OS.PushBack(val)
		return nil

	case code.OpFetch:
		key, _ := vm.OS.PopBack()
		agg, _ := vm.OS.PopBack()
		idx, ok := vm.reg.TypeOf(agg).(types.Indexable)
		if !ok {
			vm.OS.PushBack(object.TheNull())
			return nil
		}
		val, found := idx.Fetch(agg, key)
		if !found {
			val = object.TheNull()
		}
		vm.OS.PushBack(val)
		return nil

	case code.OpMkPtr:
		key, _ := vm.OS.PopBack()
		agg, _ := vm.OS.PopBack()
		vm.OS.PushBack(object.NewPtr(agg, key))
		return nil

	case code.OpDeref:
		p, ok := vm.OS.PopBack()
		ptr, isPtr := p.(*object.Ptr)
		if !ok || !isPtr {
			return vm.Err.TypeMismatch("dereference", "non-ptr")
		}
		idx, ok := vm.reg.TypeOf(ptr.Aggregate).(types.Indexable)
		if !ok {
			vm.OS.PushBack(object.TheNull())
			return nil
		}
		val, found := idx.Fetch(ptr.Aggregate, ptr.Key)
		if !found {
			val = object.TheNull()
		}
		vm.OS.PushBack(val)
		return nil

	case code.OpAssignPtr:
		val, _ := vm.OS.PopBack()
		p, _ := vm.OS.PopBack()
		ptr, isPtr := p.(*object.Ptr)
		if !isPtr {
			return vm.Err.TypeMismatch("assign through", "non-ptr")
		}
		idx, ok := vm.reg.TypeOf(ptr.Aggregate).(types.Indexable)
		if !ok {
			return vm.Err.TypeMismatch("index-assign", vm.reg.TypeOf(ptr.Aggregate).Name())
		}
		if err := idx.Assign(ptr.Aggregate, ptr.Key, val); err != nil {
			return err
		}
		vm.OS.PushBack(val)
		return nil

	case code.OpBinop:
		return vm.execBinop(code.OpSubtype(instr.B))

	case code.OpUnaryMinus:
		return vm.execUnaryMinus()

	case code.OpNot:
		v, _ := vm.OS.PopBack()
		if truthy(v) {
			vm.OS.PushBack(falseValue())
		} else {
			vm.OS.PushBack(trueValue())
		}
		return nil

	case code.OpJump, code.OpLoop:
		vm.ip = instr.A
		return nil

	case code.OpJumpFalse:
		v, _ := vm.OS.PopBack()
		if !truthy(v) {
			vm.ip = instr.A
		}
		return nil

	case code.OpJumpTrue:
		v, _ := vm.OS.PopBack()
		if truthy(v) {
			vm.ip = instr.A
		}
		return nil

	case code.OpBreak, code.OpContinue:
		// The compiler resolves break/continue to a concrete jump target
		// at compile time (see internal/compiler); by the time the VM
		// sees either opcode it behaves exactly like OpJump.
		vm.ip = instr.A
		return nil

	case code.OpCall:
		return vm.execCall()

	case code.OpReturn:
		vm.opReturn()
		return nil

	case code.OpMakeClosure:
		tmpl, ok := vm.cur.Literals[instr.A].(*object.Func)
		if !ok {
			return vm.Err.SetError("make-closure: literal %d is not a func template", instr.A)
		}
		vm.OS.PushBack(object.NewFunc(tmpl.Code, tmpl.ArgNames, tmpl.Autos, vm.scope(), tmpl.Name))
		return nil

	case code.OpPushScope:
		vm.VS.PushBack(object.NewScope(vm.scope()))
		return nil

	case code.OpPopScope:
		vm.VS.PopBack()
		return nil

	case code.OpPushCatcher:
		c := object.NewCatcher(int32(vm.VS.Len()), int32(vm.OS.Len()), int32(vm.XS.Len()), object.NewPc(vm.cur, instr.A))
		vm.XS.PushBack(c)
		return nil

	case code.OpPopCatcher:
		vm.XS.PopBack()
		return nil

	case code.OpFail:
		msg, _ := vm.OS.PopBack()
		s, ok := msg.(*object.String)
		if !ok {
			return vm.Err.Fail("fail() requires a string message")
		}
		return vm.Err.Fail(s.String())

	case code.OpLoadError:
		if vm.lastCaught == "" {
			vm.OS.PushBack(object.TheNull())
		} else {
			vm.OS.PushBack(object.NewStr(vm.lastCaught))
		}
		return nil

	case code.OpSrc:
		// Positional bookkeeping only; CurrentSrc derives file:line from
		// cur.Lines, which Emit already populates per instruction.
		return nil

	default:
		return vm.Err.SetError("unknown opcode %v", instr.Op)
	}
}

func (vm *VM) execAssign(instr code.Instruction) error {
	if instr.B == 0 {
		val, _ := vm.OS.PopBack()
		name := vm.cur.Literals[instr.A]
		scope := vm.scope()
		if err := vm.reg.TypeOf(scope).(types.ScopeLike).AssignSuper(scope, name, val); err != nil {
			return err
		}
		vm.OS.PushBack(val)
		return nil
	}
	val, _ := vm.OS.PopBack()
	key, _ := vm.OS.PopBack()
	agg, _ := vm.OS.PopBack()
	idx, ok := vm.reg.TypeOf(agg).(types.Indexable)
	if !ok {
		return vm.Err.TypeMismatch("index-assign", vm.reg.TypeOf(agg).Name())
	}
	if err := idx.Assign(agg, key, val); err != nil {
		return err
	}
	vm.OS.PushBack(val)
	return nil
}

// lookup resolves a bare name by walking the vs chain (spec.md §4.5,
// "string → variable name: look up in vs (walk super chain)").
func (vm *VM) lookup(name types.Object) (types.Object, bool) {
	scope := vm.scope()
	if scope == nil {
		return nil, false
	}
	return vm.reg.TypeOf(scope).(types.ScopeLike).FetchSuper(scope, name)
}

func truthy(o types.Object) bool {
	switch v := o.(type) {
	case *object.Null:
		return false
	case *object.Int:
		return v.Value != 0
	case *object.Float:
		return v.Value != 0
	default:
		return o != nil
	}
}

var (
	trueSingleton  = object.NewInt(1)
	falseSingleton = object.NewInt(0)
)

func trueValue() types.Object  { return trueSingleton }
func falseValue() types.Object { return falseSingleton }
