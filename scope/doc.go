// Package scope implements the runtime Scope and the optimizer's
// parallel ScopeTracker: a Sym-to-Value mapping with a
// parent link, and a compile-time shadow of the same shape that tracks
// which bindings are statically known.
package scope
