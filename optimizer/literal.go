package optimizer

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/value"
)

// literalOf reports the value.Value an already-folded expression node
// carries, if e is one of the literal node kinds (the native literals
// or a ValueLit a previous pass produced).
func literalOf(e ast.Expr) (value.Value, bool) {
	switch n := e.(type) {
	case *ast.IntLit:
		return value.IntValue(n.Value), true
	case *ast.FloatLit:
		return value.FloatValue(n.Value), true
	case *ast.StringLit:
		return value.StringValue(n.Value), true
	case *ast.BoolLit:
		return value.BoolValue(n.Value), true
	case *ast.NilLit:
		return value.NilValue, true
	case *ast.ValueLit:
		v, ok := n.Payload.(value.Value)
		return v, ok
	}
	return value.Value{}, false
}

func isLiteral(e ast.Expr) bool {
	_, ok := literalOf(e)
	return ok
}

// valueToExpr wraps v back into an AST literal node at pos, preferring
// a native literal node over ValueLit when one exists so folded output
// stays readable to later passes (and to anyone inspecting the tree).
func valueToExpr(v value.Value, pos ast.Pos) ast.Expr {
	switch v.Kind() {
	case value.Int:
		n, _ := v.AsInt()
		return &ast.IntLit{Pos: pos, Value: n}
	case value.Float:
		f, _ := v.AsFloat()
		return &ast.FloatLit{Pos: pos, Value: f}
	case value.String:
		s, _ := v.AsString()
		return &ast.StringLit{Pos: pos, Value: s}
	case value.Bool:
		b, _ := v.AsBool()
		return &ast.BoolLit{Pos: pos, Value: b}
	case value.Nil:
		return &ast.NilLit{Pos: pos}
	}
	return &ast.ValueLit{Pos: pos, Payload: v}
}
