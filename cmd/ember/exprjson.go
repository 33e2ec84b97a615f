package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/compiler"
	"github.com/emberlang/ember/internal/object"
	"github.com/emberlang/ember/internal/types"
)

// exprNode is the on-disk shape of a compiler.Expr: the CLI's stand-in
// for the expr-tree an external parser collaborator would otherwise
// hand the compiler directly (spec.md §1, §6). It exists only so this
// command-line tool has something to read from a file; a host embedding
// the engine normally builds *compiler.Expr values itself.
type exprNode struct {
	Kind     string          `json:"kind"`
	Literal  json.RawMessage `json:"literal,omitempty"`
	Name     string          `json:"name,omitempty"`
	Sub      string          `json:"sub,omitempty"`
	Params   []string        `json:"params,omitempty"`
	FnName   string          `json:"fn_name,omitempty"`
	Children []exprNode      `json:"children,omitempty"`
}

var kindNames = map[string]compiler.Kind{
	"literal":      compiler.KLiteral,
	"name":         compiler.KName,
	"assign":       compiler.KAssign,
	"assign_base":  compiler.KAssignBase,
	"index":        compiler.KIndex,
	"index_assign": compiler.KIndexAssign,
	"mkptr":        compiler.KMkPtr,
	"deref":        compiler.KDeref,
	"ptr_assign":   compiler.KPtrAssign,
	"binary":       compiler.KBinary,
	"neg":          compiler.KUnaryMinus,
	"not":          compiler.KNot,
	"and":          compiler.KAnd,
	"or":           compiler.KOr,
	"if":           compiler.KIf,
	"while":        compiler.KWhile,
	"for":          compiler.KFor,
	"break":        compiler.KBreak,
	"continue":     compiler.KContinue,
	"call":         compiler.KCall,
	"block":        compiler.KBlock,
	"funclit":      compiler.KFuncLit,
	"return":       compiler.KReturn,
	"try":          compiler.KTry,
	"load_error":   compiler.KLoadError,
}

var subNames = map[string]code.OpSubtype{
	"+":   code.SubAdd,
	"-":   code.SubSub,
	"*":   code.SubMul,
	"/":   code.SubDiv,
	"%":   code.SubMod,
	"==":  code.SubEq,
	"!=":  code.SubNeq,
	"<":   code.SubLt,
	"<=":  code.SubLe,
	">":   code.SubGt,
	">=":  code.SubGe,
	"&&":  code.SubAnd,
	"||":  code.SubOr,
}

func decodeExprTree(r io.Reader) (*compiler.Expr, error) {
	var root exprNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding expr tree: %w", err)
	}
	return root.toExpr()
}

func (n exprNode) toExpr() (*compiler.Expr, error) {
	kind, ok := kindNames[n.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown expr kind %q", n.Kind)
	}
	e := &compiler.Expr{
		Kind:   kind,
		Name:   n.Name,
		Params: n.Params,
		FnName: n.FnName,
	}
	if n.Sub != "" {
		sub, ok := subNames[n.Sub]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", n.Sub)
		}
		e.Sub = sub
	}
	if len(n.Literal) > 0 {
		lit, err := decodeLiteral(n.Literal)
		if err != nil {
			return nil, err
		}
		e.Literal = lit
	}
	for _, child := range n.Children {
		ce, err := child.toExpr()
		if err != nil {
			return nil, err
		}
		e.Children = append(e.Children, ce)
	}
	return e, nil
}

// decodeLiteral accepts the JSON scalar types directly: numbers become
// *object.Int when they have no fractional part and no exponent marker
// in their source text, otherwise *object.Float.
func decodeLiteral(raw json.RawMessage) (types.Object, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding literal: %w", err)
	}
	switch t := v.(type) {
	case nil:
		return object.TheNull(), nil
	case bool:
		if t {
			return object.NewInt(1), nil
		}
		return object.NewInt(0), nil
	case string:
		return object.NewStr(t), nil
	case float64:
		if !strings.ContainsAny(string(raw), ".eE") && t == float64(int64(t)) {
			return object.NewInt(int64(t)), nil
		}
		return object.NewFloat(t), nil
	default:
		return nil, fmt.Errorf("unsupported literal type %T", v)
	}
}
