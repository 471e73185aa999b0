package optimizer

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// optimizeIf optimizes an If's condition and both branches, demoting
// any name assigned inside either branch in the parent tracker
// afterward: its compile-time-known value, if any, no longer holds once
// control flow rejoins after the conditional. If the condition itself
// folds to a literal, the
// whole If collapses to whichever branch is taken (Else defaulting to
// Nil), matching eval_if exactly.
func (o *optimization) optimizeIf(n *ast.If, tr *scope.Tracker) ast.Expr {
	n.Cond = o.optimizeExpr(n.Cond, tr)

	// If itself introduces no scope at runtime (only Block does, in
	// optimizeBlockExpr); Then/Else are optimized against tr directly so
	// the tracker nesting matches eval_if's single-scope-per-Block shape.
	n.Then = o.optimizeExpr(n.Then, tr)
	demoteAssignedIn(n.Then, tr)

	if n.Else != nil {
		n.Else = o.optimizeExpr(n.Else, tr)
		demoteAssignedIn(n.Else, tr)
	}

	if cv, ok := literalOf(n.Cond); ok {
		if cv.Truthy() {
			return n.Then
		}
		if n.Else == nil {
			return valueToExpr(value.NilValue, n.Pos)
		}
		return n.Else
	}
	return n
}

// demoteAssignedIn finds every name a branch assigns directly (not
// through a nested closure) and demotes it in tr, the tracker the
// branches share as their parent.
func demoteAssignedIn(branch ast.Expr, tr *scope.Tracker) {
	block, ok := branch.(*ast.Block)
	if !ok {
		return
	}
	bound := make(map[sym.Sym]bool)
	collectBoundNamesStmts(block.Stmts, bound)
	for name := range bound {
		tr.Demote(name)
	}
}

// optimizeBlockExpr optimizes a Block's statements, then collapses it
// to a single literal (pass 6) if every statement folded to a literal
// and its value-producing last statement is a bare expression (Block's
// result-value rule); otherwise the Block is kept, with its statements
// left optimized in place.
func (o *optimization) optimizeBlockExpr(n *ast.Block, tr *scope.Tracker) ast.Expr {
	child := scope.NewTracker(tr)
	n.Stmts = o.optimizeStmts(n.Stmts, child)

	if len(n.Stmts) == 0 {
		return valueToExpr(value.NilValue, n.Pos)
	}
	last, ok := n.Stmts[len(n.Stmts)-1].(*ast.ExprStmt)
	if !ok {
		return n
	}
	v, ok := literalOf(last.Value)
	if !ok {
		return n
	}
	for _, st := range n.Stmts[:len(n.Stmts)-1] {
		es, ok := st.(*ast.ExprStmt)
		if !ok || !isLiteral(es.Value) {
			return n
		}
	}
	return valueToExpr(v, n.Pos)
}
