package eval

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/builtins"
	"github.com/katalvlaran/geoscript/optimizer"
	"github.com/katalvlaran/geoscript/parser"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// EvalCtx is the embedding entry point: one instance owns
// a symbol table, a global scope, and the builtin registry a parsed
// program's calls dispatch through.
type EvalCtx struct {
	Table    *sym.Table
	Registry *builtin.Registry
	Global   *scope.Scope

	bctx *builtins.Context
}

// New returns a fresh, empty EvalCtx: a new symbol table, a new global
// scope, and a builtin registry wired for re-entrant calls back into
// this EvalCtx (invoke_callable).
func New() *EvalCtx {
	e := &EvalCtx{
		Table:  sym.NewTable(),
		Global: scope.New(nil),
	}
	e.bctx = builtins.NewContext(e.ctxInvoke, e.Table)
	e.Registry = builtins.NewRegistry(e.bctx)
	return e
}

// SetLogFn installs the sink print's output is written to; nil
// discards it (the zero value already does).
func (e *EvalCtx) SetLogFn(f func(string)) { e.bctx.LogFn = f }

// SetRNGSeed reseeds the process-wide PRNG backing randi/randf/randv/fbm
// (the set_rng_seed builtin's effect, also exposed directly to
// embedders).
func (e *EvalCtx) SetRNGSeed(seed int64) { builtins.SetRNGSeed(seed) }

// RenderedMeshes returns every mesh passed to render() so far, in call
// order.
func (e *EvalCtx) RenderedMeshes() []value.Value {
	out := make([]value.Value, 0, len(e.bctx.Rendered))
	for _, v := range e.bctx.Rendered {
		out = append(out, v)
	}
	return out
}

// RenderedLights returns every light passed to render() so far, in call
// order.
func (e *EvalCtx) RenderedLights() []*value.Light {
	out := make([]*value.Light, len(e.bctx.RenderedLights))
	copy(out, e.bctx.RenderedLights)
	return out
}

// GetGlobal looks up name in the global scope, for an embedder that
// wants a script's top-level bindings after evaluation.
func (e *EvalCtx) GetGlobal(name string) (value.Value, bool) {
	return e.Global.Get(e.Table.Intern(name))
}

// ParseProgramSrc parses src against ctx's symbol table, so identifiers
// in the returned Program intern into the same table ctx's scopes and
// registry already use.
func ParseProgramSrc(ctx *EvalCtx, src string) (*ast.Program, error) {
	return parser.ParseProgram(src, ctx.Table)
}

// OptimizeAST runs the optimizer's pass pipeline over prog in place
//, using ctx's registry and symbol table to fold
// constants and pre-resolve builtin dispatch.
func OptimizeAST(ctx *EvalCtx, prog *ast.Program) error {
	return optimizer.Optimize(prog, ctx.Registry, ctx.Table)
}

// ParseAndEvalProgram parses, optimizes, and evaluates src as a fresh
// top-level program, returning the EvalCtx it ran in (so an embedder can
// read RenderedMeshes/RenderedLights/GetGlobal afterward).
func ParseAndEvalProgram(src string) (*EvalCtx, error) {
	ctx := New()
	prog, err := ParseProgramSrc(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := OptimizeAST(ctx, prog); err != nil {
		return nil, err
	}
	if err := ctx.EvalProgram(prog); err != nil {
		return nil, err
	}
	return ctx, nil
}
