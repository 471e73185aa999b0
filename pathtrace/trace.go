package pathtrace

import (
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// ClosureInvoker is the minimal capability TracePath needs from the
// evaluator: running a closure's body to completion and yielding its
// final value. It is satisfied structurally by the evaluator's EvalCtx
// without pathtrace ever importing package eval.
type ClosureInvoker interface {
	InvokeClosure(c *value.Closure, args []value.Value, kwargs map[string]value.Value) (value.Value, error)
}

// TracePath executes cb (which must be a plain Closure, not a builtin,
// partial application, composition, or dynamic callable) in a copy of
// its own captured scope augmented with the draw-command recorder
// bindings, then builds a PathTracer from what it recorded.
func TracePath(invoker ClosureInvoker, table *sym.Table, cb *value.Callable, closed, center bool) (value.Value, error) {
	if cb == nil || cb.Kind != value.CallClosure || cb.Closure == nil {
		return value.Value{}, errstack.New(errstack.ErrType, "you must pass a closure directly to `trace_path`'s callback argument; its scope is specially augmented to make the path drawing commands available")
	}

	rec := &Recorder{}
	wrapped := *cb.Closure
	wrapped.Captured = newRecorderScope(cb.Closure.Captured, table, rec)

	if _, err := invoker.InvokeClosure(&wrapped, nil, nil); err != nil {
		return value.Value{}, errstack.Push(toErrorStack(err), "error while evaluating callback provided to `trace_path`")
	}

	tracer := Build(rec.Commands(), closed, center)

	return dynamicValue(&tracerCallable{tracer: tracer}), nil
}

// TraceSVGPath parses an SVG path `d` attribute into the same
// draw-command stream TracePath's callback would have produced, then
// builds a PathTracer from it. SVG paths are never implicitly closed by
// this path (closed=false); the `Z`/`z` command, if present, already
// appends its own closing line.
func TraceSVGPath(svgPathStr string, center bool) (value.Value, error) {
	cmds, err := parseSVGPath(svgPathStr)
	if err != nil {
		return value.Value{}, errstack.Push(toErrorStack(err), "error while parsing SVG path string")
	}

	tracer := Build(cmds, false, center)

	return dynamicValue(&tracerCallable{tracer: tracer}), nil
}

func toErrorStack(err error) *errstack.ErrorStack {
	if es, ok := err.(*errstack.ErrorStack); ok {
		return es
	}

	return errstack.New(err, "")
}

// tracerCallable adapts a *PathTracer to value.DynamicCallable, the
// Value the trace_path/trace_svg_path builtins return to the script.
type tracerCallable struct {
	tracer *PathTracer
}

func (tc *tracerCallable) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	var tVal value.Value
	switch {
	case len(kwargs) > 0:
		if len(kwargs) != 1 {
			return value.Value{}, errstack.New(errstack.ErrArity, "unexpected keyword arguments; expected only `t`")
		}
		v, ok := kwargs["t"]
		if !ok {
			return value.Value{}, errstack.New(errstack.ErrArity, "unexpected keyword arguments; expected only `t`")
		}
		if len(args) != 0 {
			return value.Value{}, errstack.New(errstack.ErrArity, "expected only keyword argument `t` and no positional args")
		}
		tVal = v
	default:
		if len(args) != 1 {
			return value.Value{}, errstack.New(errstack.ErrArity, "expected argument `t`")
		}
		tVal = args[0]
	}

	t, ok := tVal.AsNumeric()
	if !ok {
		return value.Value{}, errstack.Newf(errstack.ErrType, "expected `t` to be a number, found %s", tVal.Kind())
	}

	pos, err := tc.tracer.Sample(clampf(t, 0, 1))
	if err != nil {
		return value.Value{}, err
	}

	return value.Vec2Value(pos), nil
}
