package eval

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/value"
)

// EvalProgram evaluates every top-level statement of prog in ctx's
// global scope, discarding the final Control (a program does not
// itself produce a value; an embedder reads results via
// RenderedMeshes/RenderedLights/GetGlobal).
func (e *EvalCtx) EvalProgram(prog *ast.Program) error {
	_, err := e.evalStmts(prog.Stmts, e.Global)
	return err
}

// evalStmts runs stmts in order, short-circuiting on the first
// non-Continue Control (a Break or Return propagating out of the
// block) or the first error.
func (e *EvalCtx) evalStmts(stmts []ast.Stmt, sc *scope.Scope) (Control, error) {
	last := Continue(value.NilValue)
	for _, st := range stmts {
		c, err := e.EvalStmt(st, sc)
		if err != nil {
			return Control{}, err
		}
		if c.Kind != FlowContinue {
			return c, nil
		}
		last = c
	}
	return last, nil
}

// EvalStmt evaluates one statement.
func (e *EvalCtx) EvalStmt(stmt ast.Stmt, sc *scope.Scope) (Control, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return e.EvalExpr(s.Value, sc)

	case *ast.AssignStmt:
		c, err := e.EvalExpr(s.Value, sc)
		if err != nil {
			return Control{}, err
		}
		if c.Kind != FlowContinue {
			return c, nil
		}
		if err := e.bindAssign(s.Pattern, c.Val, sc); err != nil {
			return Control{}, err
		}
		return Continue(value.NilValue), nil

	case *ast.ReturnStmt:
		if s.Value == nil {
			return Control{Kind: FlowReturn, Val: value.NilValue}, nil
		}
		c, err := e.EvalExpr(s.Value, sc)
		if err != nil {
			return Control{}, err
		}
		if c.Kind != FlowContinue {
			return c, nil
		}
		return Control{Kind: FlowReturn, Val: c.Val}, nil

	case *ast.BreakStmt:
		if s.Value == nil {
			return Control{Kind: FlowBreak, Val: value.NilValue}, nil
		}
		c, err := e.EvalExpr(s.Value, sc)
		if err != nil {
			return Control{}, err
		}
		if c.Kind != FlowContinue {
			return c, nil
		}
		return Control{Kind: FlowBreak, Val: c.Val}, nil
	}
	return Control{}, errstack.Newf(errstack.ErrType, "eval: unknown statement type %T", stmt)
}
