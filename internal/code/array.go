package code

import "github.com/emberlang/ember/internal/types"

// Instruction is one bytecode op: an Ecode plus two small operand fields,
// whose meaning depends on the opcode (constant-pool index, jump target,
// local slot, or an OpSubtype for OpBinop).
type Instruction struct {
	Op Ecode
	A  int32
	B  int32
}

// CodeArray is the flat sequence the compiler emits and the VM executes:
// instructions plus the literal pool they index into (spec.md §4.6,
// GLOSSARY "Code array"). It is not itself a GC-tracked heap object —
// object.Func is the heap value that owns one and keeps its literals
// reachable for marking.
type CodeArray struct {
	Instructions []Instruction
	Literals     []types.Object
	// Lines maps instruction index -> source line, appended by Emit for
	// every instruction, so error reporting can find a position without
	// any Src marker.
	Lines []int
	File  string
}

func NewCodeArray(file string) *CodeArray {
	return &CodeArray{File: file}
}

func (c *CodeArray) Emit(op Ecode, a, b int32, line int) int {
	c.Instructions = append(c.Instructions, Instruction{Op: op, A: a, B: b})
	c.Lines = append(c.Lines, line)
	return len(c.Instructions) - 1
}

func (c *CodeArray) AddLiteral(v types.Object) int32 {
	c.Literals = append(c.Literals, v)
	return int32(len(c.Literals) - 1)
}

// Patch rewrites the operand of a previously emitted jump, used by the
// compiler once a forward jump's target is known.
func (c *CodeArray) Patch(idx int, target int32) {
	c.Instructions[idx].A = target
}

func (c *CodeArray) Len() int { return len(c.Instructions) }
