// Package geoscript is a procedural 3D geometry engine: a small
// expression-oriented scripting language for constructing meshes, plus the
// topological mesh kernel and mesh-synthesis algorithms that back it.
//
// A script is parsed, constant-folded and dispatch-resolved by an
// optimizer, then evaluated against a fresh EvalCtx:
//
//	ctx, err := eval.ParseAndEvalProgram(`
//	    render(box(1))
//	`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range ctx.RenderedMeshes() {
//	    // triangulate, export,...
//	}
//
// Everything under consideration lives in its own subpackage, leaves first:
//
//	geom/       Vec2/Vec3/Mat4 and AABB (stdlib only)
//	sym/        interned identifier table
//	errstack/   structured, located error chains (wraps ztrue/tracerr)
//	mesh/       LinkedMesh, the half-edge-like topological kernel
//	value/      the tagged-union Value and its Callable/Map/Sequence kinds
//	seq/        lazy sequence combinators
//	scope/      runtime Scope and the optimizer's parallel ScopeTracker
//	sampler/    curvature-aware adaptive sampling + critical-point snapping
//	fku/        Fuchs/Kedem/Uselton optimal ring-to-ring stitching
//	sweep/      rail sweep: profile-along-spine mesh generation
//	pathtrace/  the 2D drawing-command path tracer
//	builtin/    the signature registry and overload dispatch
//	builtins/   the builtin function library itself
//	ast/        the expression language's syntax tree
//	optimizer/  constant folding, dispatch pre-resolution, closure lifting
//	parser/     the hand-written lexer and recursive-descent parser
//	eval/       the evaluator and the embedding entry points (EvalCtx)
//
// See the package-level docs under each of those directories, and
// DESIGN.md at the repository root, for the full design.
package geoscript
