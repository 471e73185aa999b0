package builtins

import (
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/value"
)

// NewRegistry returns a *builtin.Registry with the full builtin surface
// defined, closing over ctx for the builtins that need per-evaluation
// state or re-entrant evaluation.
func NewRegistry(ctx *Context) *builtin.Registry {
	r := builtin.NewRegistry()

	registerScalar(r)
	registerArith(r)
	registerVecOps(r)
	registerSeqOps(r, ctx)
	registerControl(r, ctx)
	registerMeshPrimitives(r)
	registerMeshOps(r, ctx)
	registerSweepExtrude(r, ctx)
	registerPathCurves(r, ctx)
	registerRNG(r)
	registerLights(r)
	registerIntrospection(r)

	return r
}

// sig is a tiny constructor for the common case of a single FnSignature
// with no return-type enforcement beyond documentation.
func sig(args...builtin.ArgDef) builtin.FnSignature {
	return builtin.FnSignature{Args: args, Return: builtin.TAny}
}

func req(name string, types...builtin.ArgType) builtin.ArgDef {
	return builtin.ArgDef{Name: name, Types: types, Required: true}
}

// optDef declares an optional argument slot whose default is produced
// by calling def() when the slot goes unsupplied.
func optDef(name string, def func() value.Value, types...builtin.ArgType) builtin.ArgDef {
	return builtin.ArgDef{Name: name, Types: types, Required: false, Default: def}
}

func constDefault(v value.Value) func() value.Value {
	return func() value.Value { return v }
}
