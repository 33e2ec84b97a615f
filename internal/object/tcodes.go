package object

import "github.com/emberlang/ember/internal/types"

// Built-in tcodes, in registration order. Tcode 0 is reserved by
// types.NewRegistry. This order must match the sequence of Register calls
// in RegisterBuiltins below — the constants exist so the rest of the
// codebase can switch on a stable small integer instead of a string name,
// per spec.md §3.2 ("tcodes less than a fixed constant are reserved for
// the core built-in types so their codes are stable across
// serialization").
const (
	TcodeNull types.Tcode = iota + 1
	TcodeInt
	TcodeFloat
	TcodeString
	TcodeArray
	TcodeMap
	TcodeSet
	TcodeRegexp
	TcodeMem
	TcodeFile
	TcodePtr
	TcodeFunc
	TcodeCfunc
	TcodeMethod
	TcodeHandle
	TcodeMark
	TcodeOp
	TcodeSrc
	TcodePc
	TcodeCatcher
	TcodeParse
	TcodeChannel

	numBuiltinTcodes = iota
)

// RegisterBuiltins registers every built-in Type descriptor with r in the
// exact order the Tcode* constants above assume. It returns nothing; the
// null singleton is available through TheNull.
func RegisterBuiltins(r *types.Registry) {
	r.Register(nullType{})
	r.Register(intType{})
	r.Register(floatType{})
	r.Register(stringType{})
	r.Register(arrayType{})
	r.Register(mapType{})
	r.Register(setType{})
	r.Register(regexpType{})
	r.Register(memType{})
	r.Register(fileType{})
	r.Register(ptrType{})
	r.Register(funcType{})
	r.Register(cfuncType{})
	r.Register(methodType{})
	r.Register(handleType{})
	r.Register(markType{})
	r.Register(opType{})
	r.Register(srcType{})
	r.Register(pcType{})
	r.Register(catcherType{})
	r.Register(parseType{})
	r.Register(channelType{})
}
