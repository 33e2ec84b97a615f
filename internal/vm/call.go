package vm

import (
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

// execCall implements the call sequence of spec.md §4.5: the operand
// stack holds [mark, a1, ..., aN, f] with f on top, pushed in that
// order by the compiler. Popping f first and then args down to the
// mark recovers a1..aN in call order.
func (vm *VM) execCall() error {
	f, ok := vm.OS.PopBack()
	if !ok {
		return vm.Err.SetError("stack underflow: call with no callable")
	}

	var args []types.Object
	for {
		v, ok := vm.OS.PopBack()
		if !ok {
			return vm.Err.SetError("call: missing mark sentinel")
		}
		if _, isMark := v.(*object.Mark); isMark {
			break
		}
		args = append(args, v)
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}

	if fn, ok := f.(*object.Func); ok {
		return vm.callFunc(fn, args)
	}

	ty := vm.reg.TypeOf(f)
	callable, ok := ty.(types.Callable)
	if !ok {
		return vm.Err.TypeMismatch("call", ty.Name())
	}
	result, err := callable.Call(f, object.TheNull(), args)
	if err != nil {
		return err
	}
	vm.OS.PushBack(result)
	return nil
}

// callFunc implements call step 4: builds the callee's locals scope,
// pushes the return point, and transfers control — execution resumes in
// the main Run loop rather than recursing the Go call stack, so ember
// call depth is bounded only by the xs/vs arrays' own growth.
func (vm *VM) callFunc(fn *object.Func, args []types.Object) error {
	entry, err := fn.Entry(object.TheNull(), args)
	if err != nil {
		return err
	}
	vm.XS.PushBack(object.NewPc(vm.cur, vm.ip))
	vm.VS.PushBack(entry.Scope)
	vm.cur = entry.Pc.Code
	vm.ip = entry.Pc.Off
	return nil
}

// opReturn implements spec.md §4.5's "Returning pops the exec frame,
// restores the previous scope, and leaves the result on os."
func (vm *VM) opReturn() {
	vm.VS.PopBack()
	top, ok := vm.XS.PopBack()
	if !ok {
		vm.state = Returning
		return
	}
	pc, ok := top.(*object.Pc)
	if !ok {
		vm.state = Returning
		return
	}
	vm.cur = pc.Code
	vm.ip = pc.Off
}
