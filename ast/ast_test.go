package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/sym"
)

// Every node's Position() must return the Pos it was built with; the
// optimizer and evaluator both rely on this to locate errstack frames
// without a type switch on every node kind.
func TestNodePositionsRoundTrip(t *testing.T) {
	const p ast.Pos = 42

	exprs := []ast.Expr{
		&ast.IntLit{Pos: p, Value: 1},
		&ast.FloatLit{Pos: p, Value: 1},
		&ast.StringLit{Pos: p, Value: "s"},
		&ast.BoolLit{Pos: p, Value: true},
		&ast.NilLit{Pos: p},
		&ast.ArrayLit{Pos: p},
		&ast.MapLit{Pos: p},
		&ast.Ident{Pos: p},
		&ast.Call{Pos: p},
		&ast.ClosureLit{Pos: p},
		&ast.FieldAccess{Pos: p},
		&ast.Index{Pos: p},
		&ast.RangeExpr{Pos: p},
		&ast.BinOp{Pos: p},
		&ast.UnaryOp{Pos: p},
		&ast.If{Pos: p},
		&ast.Block{Pos: p},
		&ast.ValueLit{Pos: p},
	}
	for _, e := range exprs {
		assert.Equal(t, p, e.Position())
	}

	stmts := []ast.Stmt{
		&ast.AssignStmt{Pos: p},
		&ast.ReturnStmt{Pos: p},
		&ast.BreakStmt{Pos: p},
		&ast.ExprStmt{Pos: p},
	}
	for _, s := range stmts {
		assert.Equal(t, p, s.Position())
	}

	patterns := []ast.Pattern{
		&ast.IdentPattern{Pos: p},
		&ast.MapPattern{Pos: p},
		&ast.ArrayPattern{Pos: p},
	}
	for _, pat := range patterns {
		assert.Equal(t, pat.Position(), p)
	}
}

// ValueLit.Payload is an opaque interface{} precisely so ast need not
// import package value (which would cycle); confirm it round-trips an
// arbitrary payload untouched.
func TestValueLitPayloadRoundTrips(t *testing.T) {
	type folded struct{ n int }
	lit := &ast.ValueLit{Pos: 1, Payload: folded{n: 7}}
	got, ok := lit.Payload.(folded)
	assert.True(t, ok)
	assert.Equal(t, 7, got.n)
}

// A ReturnStmt with a nil Value means a bare `return` (implicit Nil);
// confirm the zero value is usable as that sentinel rather than a
// required-but-missing field.
func TestReturnStmtNilValueMeansBareReturn(t *testing.T) {
	r := &ast.ReturnStmt{Pos: 3}
	assert.Nil(t, r.Value)
}

// MapEntry's Splat flag distinguishes a `...expr` spread (Key nil) from
// an ordinary `k: v` entry.
func TestMapEntrySplatHasNoKey(t *testing.T) {
	spread := ast.MapEntry{Value: &ast.Ident{}, Splat: true}
	assert.Nil(t, spread.Key)
	assert.True(t, spread.Splat)

	kv := ast.MapEntry{Key: &ast.StringLit{Value: "a"}, Value: &ast.IntLit{Value: 1}}
	assert.False(t, kv.Splat)
	assert.NotNil(t, kv.Key)
}

// An `else if` chain is represented by nesting an *If under Else; a
// terminal `else expr` has a non-If Else.
func TestIfElseIfChaining(t *testing.T) {
	inner := &ast.If{Cond: &ast.BoolLit{Value: false}, Then: &ast.IntLit{Value: 2}, Else: &ast.IntLit{Value: 3}}
	outer := &ast.If{Cond: &ast.BoolLit{Value: true}, Then: &ast.IntLit{Value: 1}, Else: inner}

	chained, ok := outer.Else.(*ast.If)
	assert.True(t, ok)
	assert.Same(t, inner, chained)

	_, ok = chained.Else.(*ast.If)
	assert.False(t, ok)
}

// CallArg.HasName distinguishes `f(1)` (positional) from `f(k = 1)`
// (keyword); Name is only meaningful when HasName is true.
func TestCallArgPositionalVsKeyword(t *testing.T) {
	tbl := sym.NewTable()
	k := tbl.Intern("k")

	positional := ast.CallArg{Value: &ast.IntLit{Value: 1}}
	keyword := ast.CallArg{HasName: true, Name: k, Value: &ast.IntLit{Value: 1}}

	assert.False(t, positional.HasName)
	assert.True(t, keyword.HasName)
	assert.Equal(t, k, keyword.Name)
}

// Param.HasDefault/HasTypeHint gate their respective fields, matching
// the closure-literal grammar's optional `: Type` and `= default`.
func TestParamDefaultAndTypeHintFlags(t *testing.T) {
	bare := ast.Param{Pattern: &ast.IdentPattern{}}
	assert.False(t, bare.HasDefault)
	assert.False(t, bare.HasTypeHint)

	full := ast.Param{
		Pattern:     &ast.IdentPattern{},
		TypeHint:    "Int",
		HasTypeHint: true,
		Default:     &ast.IntLit{Value: 0},
		HasDefault:  true,
	}
	assert.Equal(t, "Int", full.TypeHint)
	assert.NotNil(t, full.Default)
}

// RangeExpr.Inclusive distinguishes `..` from `..=`.
func TestRangeExprInclusiveFlag(t *testing.T) {
	excl := &ast.RangeExpr{Lo: &ast.IntLit{Value: 1}, Hi: &ast.IntLit{Value: 5}}
	incl := &ast.RangeExpr{Lo: &ast.IntLit{Value: 1}, Hi: &ast.IntLit{Value: 5}, Inclusive: true}
	assert.False(t, excl.Inclusive)
	assert.True(t, incl.Inclusive)
}

// A Program is just its flat statement slice; an empty program parses
// to a non-nil Program with zero statements, not a nil Program.
func TestEmptyProgramHasNoStmts(t *testing.T) {
	prog := &ast.Program{}
	assert.Len(t, prog.Stmts, 0)
}
