// Package optimizer runs the compile-time AST rewriting passes over a
// parsed Program before it reaches package eval:
// constant folding, associativity-driven literal reassociation,
// single-overload dispatch pre-resolution, identifier resolution,
// pure-closure lifting/call folding, and block folding.
package optimizer

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// Options tunes optimizer behavior an embedder may want to disable.
type Options struct {
	// FloatAssocFolding allows literal reassociation to combine Float,
	// Vec2, and Vec3 operands (not just Int), at the cost of the result
	// possibly rounding differently than strict left-to-right
	// evaluation would have. Defaults to true; an embedder that needs
	// bit-identical evaluation order can disable it.
	FloatAssocFolding bool
}

// DefaultOptions is what Optimize uses when called via OptimizeAST.
func DefaultOptions() Options {
	return Options{FloatAssocFolding: true}
}

// optimization carries the read-only context every pass needs: the
// registry (for Pure flags and dispatch), the interner (to resolve
// Ident/Call names to strings), and the tuning Options.
type optimization struct {
	registry *builtin.Registry
	table    *sym.Table
	opts     Options
}

// Optimize rewrites prog's statements in place, running every pass
// bottom-up with a fresh root scope tracker. registry
// supplies Pure flags and FnDefs for folding/dispatch; table resolves
// interned names.
func Optimize(prog *ast.Program, registry *builtin.Registry, table *sym.Table) error {
	o := &optimization{registry: registry, table: table, opts: DefaultOptions()}
	tr := scope.NewTracker(nil)
	prog.Stmts = o.optimizeStmts(prog.Stmts, tr)
	return nil
}

func (o *optimization) optimizeStmts(stmts []ast.Stmt, tr *scope.Tracker) []ast.Stmt {
	for i, st := range stmts {
		stmts[i] = o.optimizeStmt(st, tr)
	}
	return stmts
}

func (o *optimization) optimizeStmt(st ast.Stmt, tr *scope.Tracker) ast.Stmt {
	switch s := st.(type) {
	case *ast.ExprStmt:
		s.Value = o.optimizeExpr(s.Value, tr)
		return s
	case *ast.AssignStmt:
		s.Value = o.optimizeExpr(s.Value, tr)
		o.trackAssign(s.Pattern, s.Value, tr)
		return s
	case *ast.ReturnStmt:
		if s.Value != nil {
			s.Value = o.optimizeExpr(s.Value, tr)
		}
		return s
	case *ast.BreakStmt:
		if s.Value != nil {
			s.Value = o.optimizeExpr(s.Value, tr)
		}
		return s
	}
	return st
}

// trackAssign records what the tracker now knows about an AssignStmt's
// target(s) after its value has been optimized: a bare Ident bound to a
// literal becomes TrackConst, anything else becomes TrackArg (known to
// exist, value not statically known) so later reassignment-demotion and
// free-variable analysis still sees the name as bound.
func (o *optimization) trackAssign(pat ast.Pattern, valueExpr ast.Expr, tr *scope.Tracker) {
	ip, ok := pat.(*ast.IdentPattern)
	if !ok {
		for _, name := range patternNames(pat) {
			tr.SetArg(name)
		}
		return
	}
	if v, ok := literalOf(valueExpr); ok {
		tr.SetConst(ip.Name, v)
	} else {
		tr.SetArg(ip.Name)
	}
}

func patternNames(p ast.Pattern) []sym.Sym {
	out := make(map[sym.Sym]bool)
	collectPatternNames(p, out)
	names := make([]sym.Sym, 0, len(out))
	for n := range out {
		names = append(names, n)
	}
	return names
}

// optimizeExpr dispatches bottom-up: children are optimized first, then
// the node itself is considered for folding, so a deep chain of
// literal-only sub-expressions collapses in one traversal.
func (o *optimization) optimizeExpr(e ast.Expr, tr *scope.Tracker) ast.Expr {
	switch n := e.(type) {
	case *ast.ArrayLit:
		for i, el := range n.Elems {
			n.Elems[i] = o.optimizeExpr(el, tr)
		}
		return n

	case *ast.MapLit:
		for i, ent := range n.Entries {
			if ent.Key != nil {
				n.Entries[i].Key = o.optimizeExpr(ent.Key, tr)
			}
			n.Entries[i].Value = o.optimizeExpr(ent.Value, tr)
		}
		return n

	case *ast.Ident:
		return o.optimizeIdent(n, tr)

	case *ast.Call:
		return o.optimizeCall(n, tr)

	case *ast.ClosureLit:
		return o.optimizeClosureLit(n, tr)

	case *ast.FieldAccess:
		n.Target = o.optimizeExpr(n.Target, tr)
		return n

	case *ast.Index:
		n.Target = o.optimizeExpr(n.Target, tr)
		n.Index = o.optimizeExpr(n.Index, tr)
		return n

	case *ast.RangeExpr:
		n.Lo = o.optimizeExpr(n.Lo, tr)
		n.Hi = o.optimizeExpr(n.Hi, tr)
		return n

	case *ast.UnaryOp:
		n.Operand = o.optimizeExpr(n.Operand, tr)
		return o.foldUnaryOp(n)

	case *ast.BinOp:
		return o.optimizeBinOp(n, tr)

	case *ast.If:
		return o.optimizeIf(n, tr)

	case *ast.Block:
		return o.optimizeBlockExpr(n, tr)
	}
	// Literal nodes (IntLit, FloatLit, StringLit, BoolLit, NilLit,
	// ValueLit) have no children and are already in their final form.
	return e
}

func (o *optimization) optimizeBinOp(n *ast.BinOp, tr *scope.Tracker) ast.Expr {
	if n.Op == "&&" || n.Op == "||" {
		n.Lhs = o.optimizeExpr(n.Lhs, tr)
		// The right side is only optimized if it can still run (i.e.
		// the left side didn't already fold the whole expression),
		// mirroring eval's runtime short-circuit.
		if lv, ok := literalOf(n.Lhs); ok && lv.Kind() == value.Bool {
			left, _ := lv.AsBool()
			if left == (n.Op == "||") {
				return valueToExpr(value.BoolValue(n.Op == "||"), n.Pos)
			}
		}
		n.Rhs = o.optimizeExpr(n.Rhs, tr)
		return o.foldShortCircuit(n, n.Op == "||")
	}

	n.Lhs = o.optimizeExpr(n.Lhs, tr)
	n.Rhs = o.optimizeExpr(n.Rhs, tr)

	if n.Op == "|" || n.Op == "|>" || n.Op == "||>" {
		return n
	}

	folded := o.foldBinOp(n)
	if folded != ast.Expr(n) {
		return folded
	}
	return o.reassociate(n)
}

// optimizeIdent is pass 4: a name the tracker knows to be a compile-time
// constant is replaced with its literal value; a name unbound in the
// tracker (so not a local/parameter at all, from the optimizer's point
// of view) falls back to the builtin registry, matching eval_ident's
// own scope-then-registry order, so a bare reference to a builtin
// folds to a literal callable.
func (o *optimization) optimizeIdent(n *ast.Ident, tr *scope.Tracker) ast.Expr {
	if entry, ok := tr.Get(n.Name); ok {
		if entry.Kind == scope.TrackConst {
			return valueToExpr(entry.ConstValue, n.Pos)
		}
		return n
	}
	name := o.table.MustLookup(n.Name)
	if c, ok := o.registry.MakeCallable(name); ok {
		return valueToExpr(value.CallableValue(c), n.Pos)
	}
	return n
}
