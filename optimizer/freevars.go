package optimizer

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/sym"
)

// freeVarInfo is the result of scanning a closure body for the names it
// references from outside its own parameters.
type freeVarInfo struct {
	names    map[sym.Sym]bool
	hasNestedClosure bool
}

// collectFreeVars computes a conservative over-approximation of body's
// locally-bound names (every pattern introduced by an AssignStmt or a
// param, at any nesting depth of Block/If, which mirrors how assignment
// inside a nested Block can still shadow locally per scope.Assign) and
// reports every Ident reference not among them. A nested ClosureLit's
// own free variables are not resolved transitively: hasNestedClosure is
// set instead, and the caller treats that as "cannot prove closed over
// constants only" rather than attempting a deeper analysis.
func collectFreeVars(body []ast.Stmt, params []ast.Param) freeVarInfo {
	bound := make(map[sym.Sym]bool)
	for _, p := range params {
		collectPatternNames(p.Pattern, bound)
	}
	collectBoundNamesStmts(body, bound)

	info := freeVarInfo{names: make(map[sym.Sym]bool)}
	collectIdentUsesStmts(body, bound, &info)
	return info
}

func collectPatternNames(p ast.Pattern, out map[sym.Sym]bool) {
	switch pat := p.(type) {
	case *ast.IdentPattern:
		out[pat.Name] = true
	case *ast.MapPattern:
		for _, ent := range pat.Entries {
			collectPatternNames(ent.Pattern, out)
		}
	case *ast.ArrayPattern:
		for _, el := range pat.Elems {
			collectPatternNames(el, out)
		}
	}
}

func collectBoundNamesStmts(stmts []ast.Stmt, out map[sym.Sym]bool) {
	for _, st := range stmts {
		collectBoundNamesStmt(st, out)
	}
}

func collectBoundNamesStmt(st ast.Stmt, out map[sym.Sym]bool) {
	switch s := st.(type) {
	case *ast.AssignStmt:
		collectPatternNames(s.Pattern, out)
		collectBoundNamesExpr(s.Value, out)
	case *ast.ExprStmt:
		collectBoundNamesExpr(s.Value, out)
	case *ast.ReturnStmt:
		if s.Value != nil {
			collectBoundNamesExpr(s.Value, out)
		}
	case *ast.BreakStmt:
		if s.Value != nil {
			collectBoundNamesExpr(s.Value, out)
		}
	}
}

// collectBoundNamesExpr only descends into sub-expressions that share
// this closure's runtime scope chain (If branches, Blocks); it does not
// descend into a nested ClosureLit's body, which introduces its own.
func collectBoundNamesExpr(e ast.Expr, out map[sym.Sym]bool) {
	switch n := e.(type) {
	case *ast.If:
		collectBoundNamesExpr(n.Cond, out)
		collectBoundNamesExpr(n.Then, out)
		if n.Else != nil {
			collectBoundNamesExpr(n.Else, out)
		}
	case *ast.Block:
		collectBoundNamesStmts(n.Stmts, out)
	case *ast.BinOp:
		collectBoundNamesExpr(n.Lhs, out)
		collectBoundNamesExpr(n.Rhs, out)
	case *ast.UnaryOp:
		collectBoundNamesExpr(n.Operand, out)
	case *ast.Call:
		collectBoundNamesExpr(n.Fn, out)
		for _, a := range n.Args {
			collectBoundNamesExpr(a.Value, out)
		}
	case *ast.FieldAccess:
		collectBoundNamesExpr(n.Target, out)
	case *ast.Index:
		collectBoundNamesExpr(n.Target, out)
		collectBoundNamesExpr(n.Index, out)
	case *ast.RangeExpr:
		collectBoundNamesExpr(n.Lo, out)
		collectBoundNamesExpr(n.Hi, out)
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			collectBoundNamesExpr(el, out)
		}
	case *ast.MapLit:
		for _, ent := range n.Entries {
			collectBoundNamesExpr(ent.Key, out)
			collectBoundNamesExpr(ent.Value, out)
		}
	}
}

func collectIdentUsesStmts(stmts []ast.Stmt, bound map[sym.Sym]bool, info *freeVarInfo) {
	for _, st := range stmts {
		collectIdentUsesStmt(st, bound, info)
	}
}

func collectIdentUsesStmt(st ast.Stmt, bound map[sym.Sym]bool, info *freeVarInfo) {
	switch s := st.(type) {
	case *ast.AssignStmt:
		collectIdentUsesExpr(s.Value, bound, info)
	case *ast.ExprStmt:
		collectIdentUsesExpr(s.Value, bound, info)
	case *ast.ReturnStmt:
		if s.Value != nil {
			collectIdentUsesExpr(s.Value, bound, info)
		}
	case *ast.BreakStmt:
		if s.Value != nil {
			collectIdentUsesExpr(s.Value, bound, info)
		}
	}
}

func collectIdentUsesExpr(e ast.Expr, bound map[sym.Sym]bool, info *freeVarInfo) {
	switch n := e.(type) {
	case *ast.Ident:
		if !bound[n.Name] {
			info.names[n.Name] = true
		}
	case *ast.ClosureLit:
		info.hasNestedClosure = true
	case *ast.If:
		collectIdentUsesExpr(n.Cond, bound, info)
		collectIdentUsesExpr(n.Then, bound, info)
		if n.Else != nil {
			collectIdentUsesExpr(n.Else, bound, info)
		}
	case *ast.Block:
		collectIdentUsesStmts(n.Stmts, bound, info)
	case *ast.BinOp:
		collectIdentUsesExpr(n.Lhs, bound, info)
		collectIdentUsesExpr(n.Rhs, bound, info)
	case *ast.UnaryOp:
		collectIdentUsesExpr(n.Operand, bound, info)
	case *ast.Call:
		collectIdentUsesExpr(n.Fn, bound, info)
		for _, a := range n.Args {
			collectIdentUsesExpr(a.Value, bound, info)
		}
	case *ast.FieldAccess:
		collectIdentUsesExpr(n.Target, bound, info)
	case *ast.Index:
		collectIdentUsesExpr(n.Target, bound, info)
		collectIdentUsesExpr(n.Index, bound, info)
	case *ast.RangeExpr:
		collectIdentUsesExpr(n.Lo, bound, info)
		collectIdentUsesExpr(n.Hi, bound, info)
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			collectIdentUsesExpr(el, bound, info)
		}
	case *ast.MapLit:
		for _, ent := range n.Entries {
			collectIdentUsesExpr(ent.Key, bound, info)
			collectIdentUsesExpr(ent.Value, bound, info)
		}
	}
}
