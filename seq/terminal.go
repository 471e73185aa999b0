package seq

import (
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/value"
)

// Collect drains s into a fresh eager Slice (`collect`).
// s is left exhausted; callers that still need it should Clone first.
func Collect(s value.Sequence) (*Slice, error) {
	var out []value.Value
	for {
		v, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, v)
	}

	return NewSlice(out), nil
}

// ForEach drains s, calling f on each element in order. It stops at the
// first error f returns.
func ForEach(s value.Sequence, f func(value.Value) error) error {
	for {
		v, ok, err := s.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := f(v); err != nil {
			return err
		}
	}
}

// Any reports whether any element of s satisfies pred, short-circuiting
// on the first match.
func Any(s value.Sequence, pred func(value.Value) (bool, error)) (bool, error) {
	for {
		v, ok, err := s.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		hit, err := pred(v)
		if err != nil {
			return false, err
		}
		if hit {
			return true, nil
		}
	}
}

// All reports whether every element of s satisfies pred, short-circuiting
// on the first miss.
func All(s value.Sequence, pred func(value.Value) (bool, error)) (bool, error) {
	for {
		v, ok, err := s.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}

		hit, err := pred(v)
		if err != nil {
			return false, err
		}
		if !hit {
			return false, nil
		}
	}
}

// Fold drains s, threading acc through f starting from init.
func Fold(s value.Sequence, init value.Value, f func(acc, v value.Value) (value.Value, error)) (value.Value, error) {
	acc := init
	for {
		v, ok, err := s.Next()
		if err != nil {
			return value.NilValue, err
		}
		if !ok {
			return acc, nil
		}

		acc, err = f(acc, v)
		if err != nil {
			return value.NilValue, err
		}
	}
}

// Reduce is Fold seeded with s's own first element instead of a supplied
// init. ok is false if s is empty.
func Reduce(s value.Sequence, f func(acc, v value.Value) (value.Value, error)) (result value.Value, ok bool, err error) {
	first, has, err := s.Next()
	if err != nil {
		return value.NilValue, false, err
	}
	if !has {
		return value.NilValue, false, nil
	}

	acc, err := Fold(s, first, f)
	if err != nil {
		return value.NilValue, false, err
	}

	return acc, true, nil
}

// FoldWhile is Fold that stops early when f reports cont=false, returning
// the accumulator as of that step.
func FoldWhile(s value.Sequence, init value.Value, f func(acc, v value.Value) (next value.Value, cont bool, err error)) (value.Value, error) {
	acc := init
	for {
		v, ok, err := s.Next()
		if err != nil {
			return value.NilValue, err
		}
		if !ok {
			return acc, nil
		}

		next, cont, err := f(acc, v)
		if err != nil {
			return value.NilValue, err
		}
		acc = next
		if !cont {
			return acc, nil
		}
	}
}

// First returns s's first element without draining the rest.
func First(s value.Sequence) (value.Value, bool, error) {
	return s.Next()
}

// Last drains s fully and returns its final element. Callers must not
// call Last on an unbounded sequence; there is no defensive length
// check here.
func Last(s value.Sequence) (value.Value, bool, error) {
	var (
		result value.Value
		found  bool
	)
	for {
		v, ok, err := s.Next()
		if err != nil {
			return value.NilValue, false, err
		}
		if !ok {
			return result, found, nil
		}
		result, found = v, true
	}
}

// Append returns a lazy sequence of s's elements followed by v.
func Append(s value.Sequence, v value.Value) value.Sequence {
	return Chain(s, NewSlice([]value.Value{v}))
}

// Reverse collects s and returns a new eager Slice with its elements in
// reverse order. Reversal needs random access, so unlike the other
// combinators this one is not lazy (combinators needing more than
// single-pass iteration must collect first).
func Reverse(s value.Sequence) (*Slice, error) {
	collected, err := Collect(s)
	if err != nil {
		return nil, err
	}

	n := len(collected.values)
	out := make([]value.Value, n)
	for i, v := range collected.values {
		out[n-1-i] = v
	}

	return NewSlice(out), nil
}

// EnsureSequence is a small dispatch helper shared by builtins: it views
// v as a value.Sequence, producing a type-error ErrorStack if v does
// not carry one.
func EnsureSequence(v value.Value) (value.Sequence, error) {
	s, ok := v.AsSequence()
	if !ok {
		return nil, errstack.Newf(errstack.ErrType, "expected a sequence, got %s", v.Kind())
	}

	return s, nil
}
