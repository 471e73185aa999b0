// Package value implements the dynamically-typed Value tagged union:
// scalars are value types; meshes, sequences, callables,
// and maps are shared handles mutated only through clone-on-write, so
// there is no mutable aliasing path through a Value.
package value
