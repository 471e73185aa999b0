package optimizer

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/value"
)

// foldUnaryOp attempts constant folding for a UnaryOp whose operand
// already folded to a literal: dispatch the same builtin runtime
// evaluation would use and wrap a successful result back into a literal
// node. A dispatch error (e.g. `-"x"`) is left for the runtime to
// report, since the optimizer must never itself fail a well-formed
// program that merely folds to a runtime error.
func (o *optimization) foldUnaryOp(n *ast.UnaryOp) ast.Expr {
	v, ok := literalOf(n.Operand)
	if !ok {
		return n
	}
	name, ok := builtin.UnaryOpBuiltinName(n.Op)
	if !ok {
		return n
	}
	def, fn, ok := o.registry.Lookup(name)
	if !ok || !def.Pure {
		return n
	}
	out, err := fn([]value.Value{v})
	if err != nil {
		return n
	}
	return valueToExpr(out, n.Pos)
}

// foldBinOp attempts constant folding for an arithmetic/comparison/
// bitwise BinOp whose operands already folded to literals. `|`, `|>`,
// and `||>` are never folded here: their semantics depend on the
// runtime Kind of the right operand (callable-pipe vs. bit_or, or the
// map builtin), which this pass does not re-derive.
func (o *optimization) foldBinOp(n *ast.BinOp) ast.Expr {
	name, ok := builtin.OpBuiltinName(n.Op)
	if !ok {
		return n
	}
	lv, ok := literalOf(n.Lhs)
	if !ok {
		return n
	}
	rv, ok := literalOf(n.Rhs)
	if !ok {
		return n
	}
	def, fn, ok := o.registry.Lookup(name)
	if !ok || !def.Pure {
		return n
	}
	out, err := fn([]value.Value{lv, rv})
	if err != nil {
		return n
	}
	return valueToExpr(out, n.Pos)
}

// foldShortCircuit folds && / || per the short-circuit preservation
// rule: the left side decides the whole expression without the right
// side ever running (even if it would have been side-effectful), same
// as eval.evalShortCircuit at runtime.
func (o *optimization) foldShortCircuit(n *ast.BinOp, isOr bool) ast.Expr {
	lv, ok := literalOf(n.Lhs)
	if !ok || lv.Kind() != value.Bool {
		return n
	}
	left, _ := lv.AsBool()
	if left == isOr {
		return valueToExpr(value.BoolValue(isOr), n.Pos)
	}
	rv, ok := literalOf(n.Rhs)
	if !ok || rv.Kind() != value.Bool {
		return n
	}
	right, _ := rv.AsBool()
	return valueToExpr(value.BoolValue(right), n.Pos)
}

// reassociate implements pass 2: for a `+`/`*` BinOp whose operands
// have already been folded/reassociated bottom-up, pull a literal
// across one level of same-operator nesting, e.g. `1 + (1 + x)` ->
// `2 + x` or `(x + 1) + 1` -> `x + 2`. Integer combination is always
// performed; Float/Vec2/Vec3 combination additionally requires
// o.opts.FloatAssocFolding.
func (o *optimization) reassociate(n *ast.BinOp) ast.Expr {
	if n.Op != "+" && n.Op != "*" {
		return n
	}

	if lv, ok := literalOf(n.Lhs); ok {
		if inner, ok := n.Rhs.(*ast.BinOp); ok && inner.Op == n.Op {
			if combined, x, ok := o.combineAcross(n.Op, lv, inner, n.Pos); ok {
				return &ast.BinOp{Pos: n.Pos, Op: n.Op, Lhs: combined, Rhs: x}
			}
		}
	}
	if rv, ok := literalOf(n.Rhs); ok {
		if inner, ok := n.Lhs.(*ast.BinOp); ok && inner.Op == n.Op {
			if combined, x, ok := o.combineAcross(n.Op, rv, inner, n.Pos); ok {
				return &ast.BinOp{Pos: n.Pos, Op: n.Op, Lhs: combined, Rhs: x}
			}
		}
	}
	return n
}

// combineAcross looks for a literal child of inner (the other being the
// free operand x), and if found and foldable given the assoc-folding
// gate, returns the combined literal and x.
func (o *optimization) combineAcross(op string, outer value.Value, inner *ast.BinOp, pos ast.Pos) (ast.Expr, ast.Expr, bool) {
	var innerLit value.Value
	var x ast.Expr
	switch {
	case isLiteral(inner.Lhs):
		innerLit, _ = literalOf(inner.Lhs)
		x = inner.Rhs
	case isLiteral(inner.Rhs):
		innerLit, _ = literalOf(inner.Rhs)
		x = inner.Lhs
	default:
		return nil, nil, false
	}
	if !o.assocFoldAllowed(outer, innerLit) {
		return nil, nil, false
	}
	name, _ := builtin.OpBuiltinName(op)
	_, fn, ok := o.registry.Lookup(name)
	if !ok {
		return nil, nil, false
	}
	combined, err := fn([]value.Value{outer, innerLit})
	if err != nil {
		return nil, nil, false
	}
	return valueToExpr(combined, pos), x, true
}

// assocFoldAllowed gates Float/Vec2/Vec3 reassociation behind
// o.opts.FloatAssocFolding; Int combination is
// always safe since integer addition/multiplication do not accumulate
// rounding error.
func (o *optimization) assocFoldAllowed(a, b value.Value) bool {
	if o.opts.FloatAssocFolding {
		return true
	}
	return isAssocSafeKind(a.Kind()) && isAssocSafeKind(b.Kind())
}

func isAssocSafeKind(k value.Kind) bool {
	return k == value.Int || k == value.Bool || k == value.String
}
