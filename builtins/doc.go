// Package builtins registers the concrete Go implementations of
// geoscript's builtin function library against the
// signatures package builtin only describes the shape of. It depends on
// value, seq, mesh, sweep, fku, sampler, and pathtrace to actually do
// the work each builtin promises, and on errstack to report failures.
//
// NewRegistry(ctx) is the sole entry point: it returns a
// *builtin.Registry with every builtin name defined, closing
// over ctx for the handful of builtins that touch per-evaluation state
// (the rendered-mesh list, the log sink) or need to re-enter the
// evaluator (map/filter/trace_path's callback,...). The three
// process-wide states -- the PRNG, the sharp-angle
// threshold, and the default material -- are package-level, matching
// "process-wide" rather than per-context.
package builtins
