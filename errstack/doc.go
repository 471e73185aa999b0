// Package errstack implements ErrorStack: the single error type that
// crosses the geoscript embedding boundary.
//
// An ErrorStack is a chain of message frames, each with a short
// description and an optional source location. Wrapping is the idiom:
// callers push a frame of context as the error propagates, like
// fmt.Errorf("Func: %w", err) at each API boundary, generalized into a
// visible, walkable stack instead of an opaque %w chain, since callers
// of the embedding API need to print every frame, not just the
// innermost cause.
//
// Source locations are captured with github.com/ztrue/tracerr rather
// than hand-rolled runtime.Caller bookkeeping, so a frame raised inside
// geometry-validation code (vertex/edge invariant failures) prints with
// the file and line it came from.
package errstack
