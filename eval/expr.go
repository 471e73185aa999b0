package eval

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/seq"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// EvalExpr evaluates one expression, returning a
// ControlFlow<Value> so a Return or Break reached inside a nested block
// propagates out without unwinding through a Go panic.
func (e *EvalCtx) EvalExpr(expr ast.Expr, sc *scope.Scope) (Control, error) {
	switch n := expr.(type) {
	case *ast.ValueLit:
		v, ok := n.Payload.(value.Value)
		if !ok {
			return Control{}, errstack.New(errstack.ErrType, "eval: ValueLit payload is not a value.Value")
		}
		return Continue(v), nil

	case *ast.IntLit:
		return Continue(value.IntValue(n.Value)), nil
	case *ast.FloatLit:
		return Continue(value.FloatValue(n.Value)), nil
	case *ast.StringLit:
		return Continue(value.StringValue(n.Value)), nil
	case *ast.BoolLit:
		return Continue(value.BoolValue(n.Value)), nil
	case *ast.NilLit:
		return Continue(value.NilValue), nil

	case *ast.ArrayLit:
		return e.evalArrayLit(n, sc)
	case *ast.MapLit:
		return e.evalMapLit(n, sc)
	case *ast.Ident:
		return e.evalIdent(n, sc)
	case *ast.Call:
		return e.evalCall(n, sc)
	case *ast.ClosureLit:
		return Continue(e.makeClosure(n, sc)), nil
	case *ast.FieldAccess:
		return e.evalFieldAccess(n, sc)
	case *ast.Index:
		return e.evalIndex(n, sc)
	case *ast.RangeExpr:
		return e.evalRange(n, sc)
	case *ast.BinOp:
		return e.evalBinOp(n, sc)
	case *ast.UnaryOp:
		return e.evalUnaryOp(n, sc)
	case *ast.If:
		return e.evalIf(n, sc)
	case *ast.Block:
		child := scope.New(sc)
		return e.evalStmts(n.Stmts, child)
	}
	return Control{}, errstack.Newf(errstack.ErrType, "eval: unknown expression type %T", expr)
}

func (e *EvalCtx) evalArrayLit(n *ast.ArrayLit, sc *scope.Scope) (Control, error) {
	vals := make([]value.Value, 0, len(n.Elems))
	for _, el := range n.Elems {
		c, err := e.EvalExpr(el, sc)
		if err != nil {
			return Control{}, err
		}
		if c.Kind != FlowContinue {
			return c, nil
		}
		vals = append(vals, c.Val)
	}
	return Continue(value.SequenceValue(seq.NewSlice(vals))), nil
}

func (e *EvalCtx) evalMapLit(n *ast.MapLit, sc *scope.Scope) (Control, error) {
	entries := make(map[string]value.Value, len(n.Entries))
	for _, me := range n.Entries {
		if me.Splat {
			c, err := e.EvalExpr(me.Value, sc)
			if err != nil {
				return Control{}, err
			}
			if c.Kind != FlowContinue {
				return c, nil
			}
			m, ok := c.Val.AsMap()
			if !ok {
				return Control{}, errstack.Newf(errstack.ErrType, "map literal: splat expected a map, found %s", c.Val.Kind())
			}
			m.Each(func(k string, v value.Value) { entries[k] = v })
			continue
		}
		kc, err := e.EvalExpr(me.Key, sc)
		if err != nil {
			return Control{}, err
		}
		if kc.Kind != FlowContinue {
			return kc, nil
		}
		key, ok := kc.Val.AsString()
		if !ok {
			return Control{}, errstack.Newf(errstack.ErrType, "map literal: key expected a string, found %s", kc.Val.Kind())
		}
		vc, err := e.EvalExpr(me.Value, sc)
		if err != nil {
			return Control{}, err
		}
		if vc.Kind != FlowContinue {
			return vc, nil
		}
		entries[key] = vc.Val
	}
	return Continue(value.MapValue(value.NewMapFrom(entries))), nil
}

// evalIdent resolves a bare identifier: a scope lookup
// first, then a fallback to the builtin registry so a bare reference to
// a builtin name (e.g. `f = map`) yields a first-class Callable.
func (e *EvalCtx) evalIdent(n *ast.Ident, sc *scope.Scope) (Control, error) {
	if v, ok := sc.Get(n.Name); ok {
		return Continue(v), nil
	}
	name := e.Table.MustLookup(n.Name)
	if c, ok := e.Registry.MakeCallable(name); ok {
		return Continue(value.CallableValue(c)), nil
	}
	return Control{}, errstack.Newf(errstack.ErrName, "Variable or function not found: %s", name)
}

func (e *EvalCtx) evalIf(n *ast.If, sc *scope.Scope) (Control, error) {
	cc, err := e.EvalExpr(n.Cond, sc)
	if err != nil {
		return Control{}, err
	}
	if cc.Kind != FlowContinue {
		return cc, nil
	}
	if cc.Val.Truthy() {
		return e.EvalExpr(n.Then, sc)
	}
	if n.Else == nil {
		return Continue(value.NilValue), nil
	}
	return e.EvalExpr(n.Else, sc)
}

func (e *EvalCtx) evalRange(n *ast.RangeExpr, sc *scope.Scope) (Control, error) {
	lc, err := e.EvalExpr(n.Lo, sc)
	if err != nil {
		return Control{}, err
	}
	if lc.Kind != FlowContinue {
		return lc, nil
	}
	hc, err := e.EvalExpr(n.Hi, sc)
	if err != nil {
		return Control{}, err
	}
	if hc.Kind != FlowContinue {
		return hc, nil
	}
	lo, ok := lc.Val.AsInt()
	if !ok {
		return Control{}, errstack.Newf(errstack.ErrType, "range: expected an int bound, found %s", lc.Val.Kind())
	}
	hi, ok := hc.Val.AsInt()
	if !ok {
		return Control{}, errstack.Newf(errstack.ErrType, "range: expected an int bound, found %s", hc.Val.Kind())
	}
	return Continue(value.SequenceValue(newRangeSeq(lo, hi, n.Inclusive))), nil
}

func (e *EvalCtx) evalUnaryOp(n *ast.UnaryOp, sc *scope.Scope) (Control, error) {
	oc, err := e.EvalExpr(n.Operand, sc)
	if err != nil {
		return Control{}, err
	}
	if oc.Kind != FlowContinue {
		return oc, nil
	}
	name, ok := builtin.UnaryOpBuiltinName(n.Op)
	if !ok {
		return Control{}, errstack.Newf(errstack.ErrType, "eval: unknown unary operator %q", n.Op)
	}
	v, err := e.Registry.Resolve(name, []value.Value{oc.Val}, nil)
	if err != nil {
		return Control{}, err
	}
	return Continue(v), nil
}

func (e *EvalCtx) evalBinOp(n *ast.BinOp, sc *scope.Scope) (Control, error) {
	switch n.Op {
	case "&&":
		return e.evalShortCircuit(n, sc, false)
	case "||":
		return e.evalShortCircuit(n, sc, true)
	}

	lc, err := e.EvalExpr(n.Lhs, sc)
	if err != nil {
		return Control{}, err
	}
	if lc.Kind != FlowContinue {
		return lc, nil
	}
	rc, err := e.EvalExpr(n.Rhs, sc)
	if err != nil {
		return Control{}, err
	}
	if rc.Kind != FlowContinue {
		return rc, nil
	}

	switch n.Op {
	case "|":
		// If the right operand is a callable this is rhs(lhs);
		// otherwise it dispatches to bit_or.
		if cb, ok := rc.Val.AsCallable(); ok {
			v, err := e.InvokeCallable(cb, []value.Value{lc.Val}, nil)
			if err != nil {
				return Control{}, err
			}
			return Continue(v), nil
		}
		v, err := e.Registry.Resolve("bit_or", []value.Value{lc.Val, rc.Val}, nil)
		if err != nil {
			return Control{}, err
		}
		return Continue(v), nil

	case "|>":
		cb, ok := rc.Val.AsCallable()
		if !ok {
			return Control{}, errstack.Newf(errstack.ErrType, "|>: right operand must be a callable, found %s", rc.Val.Kind())
		}
		v, err := e.InvokeCallable(cb, []value.Value{lc.Val}, nil)
		if err != nil {
			return Control{}, err
		}
		return Continue(v), nil

	case "||>":
		// seq ||> fn maps fn over seq: the left operand fills map's
		// sequence slot, the right its callable slot.
		v, err := e.Registry.Resolve("map", []value.Value{lc.Val, rc.Val}, nil)
		if err != nil {
			return Control{}, err
		}
		return Continue(v), nil
	}

	name, ok := builtin.OpBuiltinName(n.Op)
	if !ok {
		return Control{}, errstack.Newf(errstack.ErrType, "eval: unknown binary operator %q", n.Op)
	}
	v, err := e.Registry.Resolve(name, []value.Value{lc.Val, rc.Val}, nil)
	if err != nil {
		return Control{}, err
	}
	return Continue(v), nil
}

// evalShortCircuit implements && (isOr false) and || (isOr true):
// evaluate the left operand; if it already decides the result, the
// right operand is never evaluated (the same short-circuit rule the
// optimizer's constant folder honors statically).
func (e *EvalCtx) evalShortCircuit(n *ast.BinOp, sc *scope.Scope, isOr bool) (Control, error) {
	lc, err := e.EvalExpr(n.Lhs, sc)
	if err != nil {
		return Control{}, err
	}
	if lc.Kind != FlowContinue {
		return lc, nil
	}
	if lc.Val.Truthy() == isOr {
		return Continue(value.BoolValue(isOr)), nil
	}
	rc, err := e.EvalExpr(n.Rhs, sc)
	if err != nil {
		return Control{}, err
	}
	if rc.Kind != FlowContinue {
		return rc, nil
	}
	return Continue(value.BoolValue(rc.Val.Truthy())), nil
}

// evalCall evaluates a Call. When Fn is a bare
// identifier, name resolution follows eval_fn_call's scope-then-registry
// order; otherwise Fn is evaluated to a Callable value and invoked
// directly (covering calls through a parenthesized expression, a field
// access, or an already-folded ValueLit the optimizer produced).
func (e *EvalCtx) evalCall(n *ast.Call, sc *scope.Scope) (Control, error) {
	args := make([]value.Value, 0, len(n.Args))
	var kwargs map[string]value.Value
	for _, a := range n.Args {
		c, err := e.EvalExpr(a.Value, sc)
		if err != nil {
			return Control{}, err
		}
		if c.Kind != FlowContinue {
			return c, nil
		}
		if a.HasName {
			if kwargs == nil {
				kwargs = make(map[string]value.Value, len(n.Args))
			}
			kwargs[e.Table.MustLookup(a.Name)] = c.Val
		} else {
			args = append(args, c.Val)
		}
	}

	if ident, ok := n.Fn.(*ast.Ident); ok {
		return e.evalFnCallByName(ident.Name, args, kwargs, sc)
	}

	fc, err := e.EvalExpr(n.Fn, sc)
	if err != nil {
		return Control{}, err
	}
	if fc.Kind != FlowContinue {
		return fc, nil
	}
	callable, ok := fc.Val.AsCallable()
	if !ok {
		return Control{}, errstack.Newf(errstack.ErrType, "cannot call a value of kind %s", fc.Val.Kind())
	}
	v, err := e.InvokeCallable(callable, args, kwargs)
	if err != nil {
		return Control{}, err
	}
	return Continue(v), nil
}

// evalFnCallByName resolves name to a
// callable via scope lookup first, then the builtin registry (which
// applies its own alias-table indirection); fail with "Variable or
// function not found" if both miss.
func (e *EvalCtx) evalFnCallByName(nameSym sym.Sym, args []value.Value, kwargs map[string]value.Value, sc *scope.Scope) (Control, error) {
	if v, ok := sc.Get(nameSym); ok {
		callable, ok := v.AsCallable()
		if !ok {
			return Control{}, errstack.Newf(errstack.ErrType, "cannot call a value of kind %s", v.Kind())
		}
		out, err := e.InvokeCallable(callable, args, kwargs)
		if err != nil {
			return Control{}, err
		}
		return Continue(out), nil
	}
	name := e.Table.MustLookup(nameSym)
	out, err := e.Registry.Resolve(name, args, kwargs)
	if err != nil {
		return Control{}, err
	}
	return Continue(out), nil
}
