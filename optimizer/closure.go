package optimizer

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/value"
)

// optimizeClosureLit is pass 5: a closure whose only free variables (if
// any) are themselves compile-time constants can become a literal
// Callable outright, with those constants substituted directly into a
// recursively re-optimized copy of its body. A closure with a free
// variable that is only known as TrackArg/TrackDyn, or with a nested
// ClosureLit this analysis does not see through, is left as an ordinary
// ClosureLit for eval to close over at runtime.
func (o *optimization) optimizeClosureLit(n *ast.ClosureLit, tr *scope.Tracker) ast.Expr {
	free := collectFreeVars(n.Body, n.Params)
	if free.hasNestedClosure {
		n.Body = o.optimizeStmts(n.Body, scope.NewTracker(tr))
		return n
	}

	child := scope.NewTracker(nil)
	for name := range free.names {
		entry, ok := tr.Get(name)
		if !ok || entry.Kind != scope.TrackConst {
			// Not provably closed over constants only: optimize the
			// body in place (still useful for folding within it) but
			// keep it an ordinary, captured ClosureLit.
			n.Body = o.optimizeStmts(n.Body, scope.NewTracker(tr))
			return n
		}
		child.SetConst(name, entry.ConstValue)
	}
	for _, p := range n.Params {
		for _, name := range patternNames(p.Pattern) {
			child.SetArg(name)
		}
	}

	body := o.optimizeStmts(n.Body, child)
	params := make([]value.Param, len(n.Params))
	for i, p := range n.Params {
		params[i] = value.Param{
			Pattern:     p.Pattern,
			TypeHint:    p.TypeHint,
			HasTypeHint: p.HasTypeHint,
			Default:     p.Default,
			HasDefault:  p.HasDefault,
		}
	}
	cl := &value.Closure{
		Params:   params,
		Body:     body,
		Captured: scope.New(nil),
		Pure:     IsPureBody(body, o.table),
	}
	return valueToExpr(value.CallableValue(&value.Callable{Kind: value.CallClosure, Closure: cl}), n.Pos)
}
