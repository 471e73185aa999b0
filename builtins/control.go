package builtins

import (
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/value"
)

// registerControl wires the side-effectful and control-flow builtins:
// print/render/assert (effects reaching outside the
// evaluation) and call/compose (callable plumbing).
func registerControl(r *builtin.Registry, ctx *Context) {
	r.Define(builtin.FnDef{
		Name: "print", Module: "control",
		Signatures: []builtin.FnSignature{sig(req("v", builtin.TAny))},
	}, func(args []value.Value) (value.Value, error) {
		if ctx.LogFn != nil {
			ctx.LogFn(args[0].String())
		}
		return value.NilValue, nil
	})

	r.Define(builtin.FnDef{
		Name: "render", Module: "control",
		Doc:        "appends a mesh or light to this evaluation's rendered-output lists",
		Signatures: []builtin.FnSignature{sig(req("v", builtin.TMesh, builtin.TLight))},
	}, func(args []value.Value) (value.Value, error) {
		v := args[0]
		switch v.Kind() {
		case value.KMesh:
			ctx.Rendered = append(ctx.Rendered, v)
		case value.KLight:
			light, _ := v.AsLight()
			ctx.RenderedLights = append(ctx.RenderedLights, light)
		default:
			return value.Value{}, errstack.Newf(errstack.ErrType, "render: expected a mesh or light, found %s", v.Kind())
		}
		return value.NilValue, nil
	})

	r.Define(builtin.FnDef{
		Name: "assert", Module: "control",
		Signatures: []builtin.FnSignature{sig(
			req("cond", builtin.TBool),
			optDef("message", constDefault(value.StringValue("assertion failed")), builtin.TString),
		)},
	}, func(args []value.Value) (value.Value, error) {
		cond, ok := args[0].AsBool()
		if !ok {
			return value.Value{}, errstack.Newf(errstack.ErrType, "assert: expected a bool, found %s", args[0].Kind())
		}
		if !cond {
			msg, _ := args[1].AsString()
			return value.Value{}, errstack.New(errstack.ErrAssertion, msg)
		}
		return value.NilValue, nil
	})

	r.Define(builtin.FnDef{
		Name: "call", Module: "control",
		Doc:        "invokes a callable with an array of positional arguments",
		Signatures: []builtin.FnSignature{sig(req("fn", builtin.TCallable), req("args", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		cb, err := asCallable("call", args[0])
		if err != nil {
			return value.Value{}, err
		}
		s, err := asSequence("call", args[1])
		if err != nil {
			return value.Value{}, err
		}
		var callArgs []value.Value
		for {
			v, ok, err := s.Next()
			if err != nil {
				return value.Value{}, err
			}
			if !ok {
				break
			}
			callArgs = append(callArgs, v)
		}
		return ctx.Invoke(cb, callArgs, nil)
	})

	r.Define(builtin.FnDef{
		Name: "compose", Module: "control",
		Doc:        "returns a callable equivalent to |x| g(f(x))",
		Signatures: []builtin.FnSignature{sig(req("f", builtin.TCallable), req("g", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		f, err := asCallable("compose", args[0])
		if err != nil {
			return value.Value{}, err
		}
		g, err := asCallable("compose", args[1])
		if err != nil {
			return value.Value{}, err
		}
		composed := &value.Callable{
			Kind:     value.CallComposed,
			Composed: []*value.Callable{f, g},
		}
		return value.CallableValue(composed), nil
	})
}
