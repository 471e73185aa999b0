// Package seq implements the lazy sequence combinators:
// map, filter, take, skip, take_while, skip_while, chain, scan, and the
// collect/flatten/fold/reduce terminal operations, plus the eager
// random-access sequence collect produces.
//
// Every concrete type here is used through value.Sequence exclusively via
// a pointer receiver. value.Equal compares Sequence values by Go's `==`
// on the interface, which panics if the underlying concrete type is an
// uncomparable struct (one holding a slice, map, or func field) compared
// by value; a pointer is always comparable regardless of what it points
// to. This is a hard constraint on every type added to this package, not
// just a style preference (see value.Equal's sameIface doc comment).
package seq
