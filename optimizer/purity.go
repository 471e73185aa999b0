package optimizer

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/sym"
)

// sideEffectfulBuiltins names the builtins eager constant folding must
// never call, because each one does something
// observable beyond returning a value: printing, rendering a mesh into
// the scene, or mutating process-wide RNG/material/threshold state.
var sideEffectfulBuiltins = map[string]bool{
	"print":                     true,
	"render":                    true,
	"set_rng_seed":              true,
	"set_sharp_angle_threshold": true,
	"set_default_material":      true,
}

// IsPureBody reports whether body, taken as a closure's statement list,
// is free of direct calls to a side-effectful builtin.
// It is used both to mark a runtime value.Closure.Pure at the moment a
// ClosureLit is evaluated, and by the optimizer's own constant folder
// to decide whether a closure call is safe to fold or inline.
//
// The walk does not descend into nested ClosureLit bodies: a closure
// literal appearing inside body merely defines a value there: it runs
// only when called, which is a separate purity question for its own
// body.
func IsPureBody(body []ast.Stmt, table *sym.Table) bool {
	for _, st := range body {
		if !isPureStmt(st, table) {
			return false
		}
	}
	return true
}

func isPureStmt(st ast.Stmt, table *sym.Table) bool {
	switch s := st.(type) {
	case *ast.ExprStmt:
		return isPureExpr(s.Value, table)
	case *ast.AssignStmt:
		return isPureExpr(s.Value, table)
	case *ast.ReturnStmt:
		return s.Value == nil || isPureExpr(s.Value, table)
	case *ast.BreakStmt:
		return s.Value == nil || isPureExpr(s.Value, table)
	}
	return true
}

func isPureExpr(e ast.Expr, table *sym.Table) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.BoolLit, *ast.NilLit, *ast.ValueLit, *ast.Ident:
		return true
	case *ast.ClosureLit:
		// Defining a closure has no effect; only calling it does.
		return true
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			if !isPureExpr(el, table) {
				return false
			}
		}
		return true
	case *ast.MapLit:
		for _, ent := range n.Entries {
			if !isPureExpr(ent.Key, table) || !isPureExpr(ent.Value, table) {
				return false
			}
		}
		return true
	case *ast.FieldAccess:
		return isPureExpr(n.Target, table)
	case *ast.Index:
		return isPureExpr(n.Target, table) && isPureExpr(n.Index, table)
	case *ast.RangeExpr:
		return isPureExpr(n.Lo, table) && isPureExpr(n.Hi, table)
	case *ast.BinOp:
		return isPureExpr(n.Lhs, table) && isPureExpr(n.Rhs, table)
	case *ast.UnaryOp:
		return isPureExpr(n.Operand, table)
	case *ast.If:
		return isPureExpr(n.Cond, table) && isPureExpr(n.Then, table) && isPureExpr(n.Else, table)
	case *ast.Block:
		for _, st := range n.Stmts {
			if !isPureStmt(st, table) {
				return false
			}
		}
		return true
	case *ast.Call:
		if !isPureExpr(n.Fn, table) {
			return false
		}
		for _, a := range n.Args {
			if !isPureExpr(a.Value, table) {
				return false
			}
		}
		if id, ok := n.Fn.(*ast.Ident); ok {
			name := table.MustLookup(id.Name)
			if sideEffectfulBuiltins[name] {
				return false
			}
			if name == "assert" && len(n.Args) > 0 && !isLiteralExpr(n.Args[0].Value) {
				// A non-literal assert condition may observably panic
				// at runtime; folding it away would discard that.
				return false
			}
		}
		return true
	}
	return true
}

func isLiteralExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.BoolLit, *ast.NilLit, *ast.ValueLit:
		return true
	}
	return false
}
