package eval

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/builtins"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/optimizer"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/value"
)

// InvokeCallable invokes c with the given arguments: it dispatches on
// c.Kind and returns the call's final value, collapsing a Return or an
// uncaught Break from a closure body into an ordinary result (a bare
// `break` outside of a builtin loop construct behaves like `return`).
func (e *EvalCtx) InvokeCallable(c *value.Callable, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, _, err := e.invokeCallableFlow(c, args, kwargs)
	return v, err
}

// ctxInvoke is the builtins.Invoker this EvalCtx installs into its
// Context: it is identical to InvokeCallable except a
// Break is reported as a builtins.BreakSignal error instead of being
// collapsed, so a sequence-consuming builtin like for_each can catch it
// and stop its underlying loop early.
func (e *EvalCtx) ctxInvoke(c *value.Callable, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	v, kind, err := e.invokeCallableFlow(c, args, kwargs)
	if err != nil {
		return value.Value{}, err
	}
	if kind == FlowBreak {
		return value.Value{}, builtins.BreakSignal{Value: v}
	}
	return v, nil
}

func (e *EvalCtx) invokeCallableFlow(c *value.Callable, args []value.Value, kwargs map[string]value.Value) (value.Value, FlowKind, error) {
	if c == nil {
		return value.Value{}, FlowReturn, errstack.New(errstack.ErrType, "cannot call a nil callable")
	}
	switch c.Kind {
	case value.CallBuiltin:
		v, err := e.invokeBuiltin(c.Builtin, args, kwargs)
		return v, FlowReturn, err
	case value.CallClosure:
		return e.invokeClosureFlow(c.Closure, args, kwargs)
	case value.CallPartial:
		p := c.Partial
		allArgs := make([]value.Value, 0, len(p.BoundArgs)+len(args))
		allArgs = append(allArgs, p.BoundArgs...)
		allArgs = append(allArgs, args...)
		allKwargs := mergeKwargs(p.BoundKwargs, kwargs)
		return e.invokeCallableFlow(p.Target, allArgs, allKwargs)
	case value.CallComposed:
		return e.invokeComposedFlow(c.Composed, args, kwargs)
	case value.CallDynamic:
		v, err := c.Dynamic.Invoke(args, kwargs)
		return v, FlowReturn, err
	}
	return value.Value{}, FlowReturn, errstack.New(errstack.ErrType, "cannot call a value of unknown callable kind")
}

// invokeComposedFlow runs a compose(f, g) chain left-to-right over the
// stored [f, g] slice: f(x) first, then g(f(x)), matching registerControl's
// "equivalent to |x| g(f(x))" doc.
func (e *EvalCtx) invokeComposedFlow(chain []*value.Callable, args []value.Value, kwargs map[string]value.Value) (value.Value, FlowKind, error) {
	if len(chain) == 0 {
		return value.Value{}, FlowReturn, errstack.New(errstack.ErrArity, "compose: empty composition")
	}
	cur := args
	curKwargs := kwargs
	var result value.Value
	for i := 0; i < len(chain); i++ {
		v, _, err := e.invokeCallableFlow(chain[i], cur, curKwargs)
		if err != nil {
			return value.Value{}, FlowReturn, err
		}
		result = v
		cur = []value.Value{result}
		curKwargs = nil
	}
	return result, FlowReturn, nil
}

func mergeKwargs(a, b map[string]value.Value) map[string]value.Value {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]value.Value, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// invokeBuiltin is invoke_callable's Builtin arm: when the optimizer has
// already pre-resolved the call, it realizes the
// recorded ArgRefs directly instead of re-running GetArgs; otherwise it
// falls through to the registry's full runtime dispatch.
func (e *EvalCtx) invokeBuiltin(b *value.Builtin, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if b.Resolved != nil {
		vals := make([]value.Value, len(b.Resolved.ArgRefs))
		for i, ref := range b.Resolved.ArgRefs {
			switch ref.Kind {
			case value.ArgPositional:
				if ref.Index >= len(args) {
					return value.Value{}, errstack.Newf(errstack.ErrArity, "%s: pre-resolved positional argument %d missing at call time", b.Name, ref.Index)
				}
				vals[i] = args[ref.Index]
			case value.ArgKeyword:
				v, ok := kwargs[ref.Name]
				if !ok {
					return value.Value{}, errstack.Newf(errstack.ErrArity, "%s: pre-resolved keyword argument %q missing at call time", b.Name, ref.Name)
				}
				vals[i] = v
			case value.ArgDefault:
				if ref.Default != nil {
					vals[i] = ref.Default()
				} else {
					vals[i] = value.NilValue
				}
			}
		}
		return b.Fn(vals)
	}
	return e.Registry.Resolve(b.Name, args, kwargs)
}

// invokeClosureFlow runs a Closure body in a fresh child scope of its
// captured environment, with parameters bound by destructuring.
func (e *EvalCtx) invokeClosureFlow(cl *value.Closure, args []value.Value, kwargs map[string]value.Value) (value.Value, FlowKind, error) {
	var child *scope.Scope
	if cl.Captured == nil {
		child = scope.New(e.Global)
	} else {
		child = scope.NewFromRef(cl.Captured)
	}
	if err := e.bindParams(cl.Params, args, kwargs, child); err != nil {
		return value.Value{}, FlowReturn, err
	}
	ctrl, err := e.evalStmts(cl.Body, child)
	if err != nil {
		return value.Value{}, FlowReturn, err
	}
	switch ctrl.Kind {
	case FlowBreak:
		return ctrl.Val, FlowBreak, nil
	default:
		// FlowReturn or falling off the end of the body (FlowContinue,
		// whose Val is the last statement's value, matching Block
		// semantics) both produce the closure's result.
		return ctrl.Val, FlowReturn, nil
	}
}

// bindParams binds cl's positional args and kwargs against params in a
// fresh child scope, falling back to each parameter's default
// expression (evaluated in that same child scope, so later defaults may
// reference earlier parameters) and finally to Nil.
func (e *EvalCtx) bindParams(params []value.Param, args []value.Value, kwargs map[string]value.Value, sc *scope.Scope) error {
	for i, p := range params {
		var v value.Value
		switch {
		case i < len(args):
			v = args[i]
		default:
			if name, ok := identPatternName(p.Pattern); ok {
				if kv, ok := kwargs[e.Table.MustLookup(name)]; ok {
					v = kv
					break
				}
			}
			if p.HasDefault {
				c, err := e.EvalExpr(p.Default, sc)
				if err != nil {
					return err
				}
				v = c.Val
			} else {
				v = value.NilValue
			}
		}
		if err := e.destructure(p.Pattern, v, sc, sc.Set); err != nil {
			return err
		}
	}
	return nil
}

// makeClosure evaluates a ClosureLit into a Callable Value, capturing sc
// and converting its ast.Param list into value.Param.
// Purity is determined structurally: a closure is pure
// unless its body directly calls a known side-effectful builtin, the
// same rule the optimizer's constant folder uses to decide whether a
// pure-closure call can be inlined.
func (e *EvalCtx) makeClosure(n *ast.ClosureLit, sc *scope.Scope) value.Value {
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
		Body:     n.Body,
		Captured: sc,
		Pure:     optimizer.IsPureBody(n.Body, e.Table),
	}
	return value.CallableValue(&value.Callable{Kind: value.CallClosure, Closure: cl})
}
