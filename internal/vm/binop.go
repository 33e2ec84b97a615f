package vm

import (
	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

// execBinop implements spec.md §4.5's binop path: pop the two top os
// entries and switch on (type, type, OpSubtype) to produce the result in
// place. The table is realized as a handful of Go type switches rather
// than a literal (tcode,tcode,subtype) lookup array, since Go's dynamic
// dispatch through types.Registry already gives the same effect without
// hand-rolled tcode arithmetic.
func (vm *VM) execBinop(sub code.OpSubtype) error {
	b, ok1 := vm.OS.PopBack()
	a, ok2 := vm.OS.PopBack()
	if !ok1 || !ok2 {
		return vm.Err.SetError("stack underflow: binop needs two operands")
	}

	switch sub {
	case code.SubAnd:
		vm.OS.PushBack(boolObj(truthy(a) && truthy(b)))
		return nil
	case code.SubOr:
		vm.OS.PushBack(boolObj(truthy(a) || truthy(b)))
		return nil
	case code.SubEq, code.SubNeq, code.SubLt, code.SubLe, code.SubGt, code.SubGe:
		return vm.execCompare(a, b, sub)
	}

	av, aIsNum := numericValue(a)
	bv, bIsNum := numericValue(b)
	if aIsNum && bIsNum {
		return vm.execArith(a, b, av, bv, sub)
	}

	as, aIsStr := a.(*object.String)
	bs, bIsStr := b.(*object.String)
	if aIsStr && bIsStr && sub == code.SubAdd {
		vm.OS.PushBack(object.NewStr(as.String() + bs.String()))
		return nil
	}

	aa, aIsArr := a.(*object.Array)
	ba, bIsArr := b.(*object.Array)
	if aIsArr && bIsArr && sub == code.SubAdd {
		n := object.NewArray(aa.Len() + ba.Len())
		for i := 0; i < aa.Len(); i++ {
			n.PushBack(aa.At(i))
		}
		for i := 0; i < ba.Len(); i++ {
			n.PushBack(ba.At(i))
		}
		vm.OS.PushBack(n)
		return nil
	}

	if v, ok, err := vm.execVector(a, b, aIsArr, bIsArr, sub); ok || err != nil {
		if err != nil {
			return err
		}
		vm.OS.PushBack(v)
		return nil
	}

	return vm.Err.TypeMismatch("apply operator to", vm.reg.TypeOf(a).Name()+"/"+vm.reg.TypeOf(b).Name())
}

// execVector implements spec.md §4.5's vector broadcast: a numeric array
// paired with `+ - * /` against either another same-length numeric array
// (element-wise) or a bare scalar (every element against the scalar). It
// is only reached once execBinop has already ruled out the scalar/scalar
// and string/array-concat paths above. Two arrays under `+` are
// concatenated there, so the array/array case here only sees `- * /`.
func (vm *VM) execVector(a, b types.Object, aIsArr, bIsArr bool, sub code.OpSubtype) (types.Object, bool, error) {
	if sub != code.SubAdd && sub != code.SubSub && sub != code.SubMul && sub != code.SubDiv {
		return nil, false, nil
	}

	switch {
	case aIsArr && bIsArr:
		av := a.(*object.Array)
		bv := b.(*object.Array)
		if av.Len() != bv.Len() {
			return nil, false, vm.Err.SetError("vector length mismatch: %d vs %d", av.Len(), bv.Len())
		}
		n := object.NewArray(av.Len())
		for i := 0; i < av.Len(); i++ {
			elem, err := vm.scalarArith(av.At(i), bv.At(i), sub)
			if err != nil {
				return nil, false, err
			}
			n.PushBack(elem)
		}
		return n, true, nil
	case aIsArr:
		av := a.(*object.Array)
		if _, ok := numericValue(b); !ok {
			return nil, false, nil
		}
		n := object.NewArray(av.Len())
		for i := 0; i < av.Len(); i++ {
			elem, err := vm.scalarArith(av.At(i), b, sub)
			if err != nil {
				return nil, false, err
			}
			n.PushBack(elem)
		}
		return n, true, nil
	case bIsArr:
		bv := b.(*object.Array)
		if _, ok := numericValue(a); !ok {
			return nil, false, nil
		}
		n := object.NewArray(bv.Len())
		for i := 0; i < bv.Len(); i++ {
			elem, err := vm.scalarArith(a, bv.At(i), sub)
			if err != nil {
				return nil, false, err
			}
			n.PushBack(elem)
		}
		return n, true, nil
	default:
		return nil, false, nil
	}
}

// scalarArith applies one arithmetic op to a single pair of elements
// within a vector broadcast, reusing execArith's int/float promotion
// rules but returning the result instead of pushing it.
func (vm *VM) scalarArith(a, b types.Object, sub code.OpSubtype) (types.Object, error) {
	av, aIsNum := numericValue(a)
	bv, bIsNum := numericValue(b)
	if !aIsNum || !bIsNum {
		return nil, vm.Err.TypeMismatch("apply operator to", vm.reg.TypeOf(a).Name()+"/"+vm.reg.TypeOf(b).Name())
	}
	if err := vm.execArith(a, b, av, bv, sub); err != nil {
		return nil, err
	}
	result, _ := vm.OS.PopBack()
	return result, nil
}

// execUnaryMinus implements numeric negation; spec.md leaves other types'
// behavior under unary minus unspecified, so anything else is a type
// error the way OpBinop's fallthrough is.
func (vm *VM) execUnaryMinus() error {
	v, ok := vm.OS.PopBack()
	if !ok {
		return vm.Err.SetError("stack underflow: unary minus with no operand")
	}
	switch n := v.(type) {
	case *object.Int:
		vm.OS.PushBack(object.NewInt(-n.Value))
		return nil
	case *object.Float:
		vm.OS.PushBack(object.NewFloat(-n.Value))
		return nil
	default:
		return vm.Err.TypeMismatch("negate", vm.reg.TypeOf(v).Name())
	}
}

func boolObj(v bool) *object.Int {
	if v {
		return trueSingleton
	}
	return falseSingleton
}

// numericValue reports o's float64 value for uniform arithmetic; callers
// that must preserve int-ness re-check the concrete type afterward.
func numericValue(o types.Object) (float64, bool) {
	switch v := o.(type) {
	case *object.Int:
		return float64(v.Value), true
	case *object.Float:
		return v.Value, true
	}
	return 0, false
}

func (vm *VM) execArith(a, b types.Object, av, bv float64, sub code.OpSubtype) error {
	_, aInt := a.(*object.Int)
	_, bInt := b.(*object.Int)
	bothInt := aInt && bInt

	var result float64
	switch sub {
	case code.SubAdd:
		result = av + bv
	case code.SubSub:
		result = av - bv
	case code.SubMul:
		result = av * bv
	case code.SubDiv:
		if bv == 0 {
			return vm.Err.SetError("division by zero")
		}
		result = av / bv
	case code.SubMod:
		if bv == 0 {
			return vm.Err.SetError("modulo by zero")
		}
		if bothInt {
			result = float64(int64(av) % int64(bv))
		} else {
			result = floatMod(av, bv)
		}
	default:
		return vm.Err.SetError("unsupported arithmetic subtype %d", sub)
	}

	if bothInt {
		vm.OS.PushBack(object.NewInt(int64(result)))
	} else {
		vm.OS.PushBack(object.NewFloat(result))
	}
	return nil
}

func floatMod(a, b float64) float64 {
	for a >= b {
		a -= b
	}
	for a < 0 {
		a += b
	}
	return a
}

// execCompare implements SubEq..SubGe. Equal tcodes defer to that type's
// Cmp; mixed numeric tcodes (Int vs Float) compare by value; anything
// else is unequal/incomparable, matching spec.md's "Cmp is only defined
// within a type; cross-type values are never equal."
func (vm *VM) execCompare(a, b types.Object, sub code.OpSubtype) error {
	var c int
	if a.Hdr().Tcode == b.Hdr().Tcode {
		c = vm.reg.TypeOf(a).Cmp(a, b)
	} else if av, aIsNum := numericValue(a); aIsNum {
		if bv, bIsNum := numericValue(b); bIsNum {
			switch {
			case av < bv:
				c = -1
			case av > bv:
				c = 1
			default:
				c = 0
			}
		} else {
			c = 1 // incomparable types: never equal
		}
	} else {
		c = 1
	}

	var result bool
	switch sub {
	case code.SubEq:
		result = c == 0
	case code.SubNeq:
		result = c != 0
	case code.SubLt:
		result = c < 0
	case code.SubLe:
		result = c <= 0
	case code.SubGt:
		result = c > 0
	case code.SubGe:
		result = c >= 0
	}
	vm.OS.PushBack(boolObj(result))
	return nil
}
