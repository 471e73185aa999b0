// Package pathtrace implements the path tracer: a 2D
// draw-command recorder plus an arc-length-parameterized sampler built
// from the recorded line, Bezier, and arc segments.
//
// pathtrace knows about value.Value and value.Callable so that its
// recorder callables and the resulting PathTracer can be embedded
// directly as Dynamic callables, but it has no knowledge
// of the evaluator or the builtin dispatch registry: TracePath takes a
// ClosureInvoker, a minimal interface satisfied by the evaluator's
// EvalCtx, so that invoking the user's drawing callback doesn't require
// importing the eval package (which imports everything, including the
// builtins package that in turn imports pathtrace).
package pathtrace
