package seq

import (
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/value"
)

func errNotASequence() error {
	return errstack.New(errstack.ErrType, "flatten: element is not a sequence")
}

// mapSeq is the lazy sequence returned by Map: it pulls one element from
// inner per Next call and applies f, never buffering ahead.
type mapSeq struct {
	inner value.Sequence
	f     func(value.Value) (value.Value, error)
}

// Map returns a lazy sequence of f applied to each element of inner.
func Map(inner value.Sequence, f func(value.Value) (value.Value, error)) value.Sequence {
	return &mapSeq{inner: inner, f: f}
}

func (m *mapSeq) Next() (value.Value, bool, error) {
	v, ok, err := m.inner.Next()
	if err != nil || !ok {
		return value.NilValue, false, err
	}

	r, err := m.f(v)
	if err != nil {
		return value.NilValue, false, err
	}

	return r, true, nil
}

func (m *mapSeq) Clone() value.Sequence {
	return &mapSeq{inner: m.inner.Clone(), f: m.f}
}

// filterSeq is the lazy sequence returned by Filter.
type filterSeq struct {
	inner value.Sequence
	pred  func(value.Value) (bool, error)
}

// Filter returns a lazy sequence of inner's elements for which pred
// returns true.
func Filter(inner value.Sequence, pred func(value.Value) (bool, error)) value.Sequence {
	return &filterSeq{inner: inner, pred: pred}
}

func (f *filterSeq) Next() (value.Value, bool, error) {
	for {
		v, ok, err := f.inner.Next()
		if err != nil || !ok {
			return value.NilValue, false, err
		}

		keep, err := f.pred(v)
		if err != nil {
			return value.NilValue, false, err
		}
		if keep {
			return v, true, nil
		}
	}
}

func (f *filterSeq) Clone() value.Sequence {
	return &filterSeq{inner: f.inner.Clone(), pred: f.pred}
}

// takeSeq is the lazy sequence returned by Take.
type takeSeq struct {
	inner     value.Sequence
	remaining int
}

// Take returns a lazy sequence of inner's first n elements (fewer if
// inner is shorter). n <= 0 yields an immediately-exhausted sequence.
func Take(inner value.Sequence, n int) value.Sequence {
	return &takeSeq{inner: inner, remaining: n}
}

func (t *takeSeq) Next() (value.Value, bool, error) {
	if t.remaining <= 0 {
		return value.NilValue, false, nil
	}

	v, ok, err := t.inner.Next()
	if err != nil || !ok {
		t.remaining = 0

		return value.NilValue, false, err
	}
	t.remaining--

	return v, true, nil
}

func (t *takeSeq) Clone() value.Sequence {
	return &takeSeq{inner: t.inner.Clone(), remaining: t.remaining}
}

// skipSeq is the lazy sequence returned by Skip.
type skipSeq struct {
	inner   value.Sequence
	toSkip  int
	skipped bool
}

// Skip returns a lazy sequence of inner's elements after dropping the
// first n.
func Skip(inner value.Sequence, n int) value.Sequence {
	return &skipSeq{inner: inner, toSkip: n}
}

func (s *skipSeq) Next() (value.Value, bool, error) {
	if !s.skipped {
		s.skipped = true
		for i := 0; i < s.toSkip; i++ {
			if _, ok, err := s.inner.Next(); err != nil {
				return value.NilValue, false, err
			} else if !ok {
				break
			}
		}
	}

	return s.inner.Next()
}

func (s *skipSeq) Clone() value.Sequence {
	return &skipSeq{inner: s.inner.Clone(), toSkip: s.toSkip, skipped: s.skipped}
}

// takeWhileSeq is the lazy sequence returned by TakeWhile.
type takeWhileSeq struct {
	inner value.Sequence
	pred  func(value.Value) (bool, error)
	done  bool
}

// TakeWhile returns a lazy sequence of inner's elements up to (not
// including) the first one for which pred returns false.
func TakeWhile(inner value.Sequence, pred func(value.Value) (bool, error)) value.Sequence {
	return &takeWhileSeq{inner: inner, pred: pred}
}

func (t *takeWhileSeq) Next() (value.Value, bool, error) {
	if t.done {
		return value.NilValue, false, nil
	}

	v, ok, err := t.inner.Next()
	if err != nil || !ok {
		t.done = true

		return value.NilValue, false, err
	}

	keep, err := t.pred(v)
	if err != nil {
		t.done = true

		return value.NilValue, false, err
	}
	if !keep {
		t.done = true

		return value.NilValue, false, nil
	}

	return v, true, nil
}

func (t *takeWhileSeq) Clone() value.Sequence {
	return &takeWhileSeq{inner: t.inner.Clone(), pred: t.pred, done: t.done}
}

// skipWhileSeq is the lazy sequence returned by SkipWhile.
type skipWhileSeq struct {
	inner     value.Sequence
	pred      func(value.Value) (bool, error)
	skipping  bool
	inspected bool
}

// SkipWhile returns a lazy sequence that drops inner's leading elements
// while pred holds, then yields everything from the first element for
// which pred returns false onward.
func SkipWhile(inner value.Sequence, pred func(value.Value) (bool, error)) value.Sequence {
	return &skipWhileSeq{inner: inner, pred: pred, skipping: true}
}

func (s *skipWhileSeq) Next() (value.Value, bool, error) {
	for s.skipping {
		v, ok, err := s.inner.Next()
		if err != nil || !ok {
			s.skipping = false

			return value.NilValue, false, err
		}

		keep, err := s.pred(v)
		if err != nil {
			return value.NilValue, false, err
		}
		if !keep {
			s.skipping = false

			return v, true, nil
		}
	}

	return s.inner.Next()
}

func (s *skipWhileSeq) Clone() value.Sequence {
	return &skipWhileSeq{inner: s.inner.Clone(), pred: s.pred, skipping: s.skipping}
}

// chainSeq is the lazy sequence returned by Chain.
type chainSeq struct {
	a, b value.Sequence
	onB  bool
}

// Chain returns a lazy sequence of a's elements followed by b's.
func Chain(a, b value.Sequence) value.Sequence {
	return &chainSeq{a: a, b: b}
}

func (c *chainSeq) Next() (value.Value, bool, error) {
	if !c.onB {
		v, ok, err := c.a.Next()
		if err != nil {
			return value.NilValue, false, err
		}
		if ok {
			return v, true, nil
		}
		c.onB = true
	}

	return c.b.Next()
}

func (c *chainSeq) Clone() value.Sequence {
	return &chainSeq{a: c.a.Clone(), b: c.b.Clone(), onB: c.onB}
}

// scanSeq is the lazy sequence returned by Scan.
type scanSeq struct {
	inner   value.Sequence
	state   value.Value
	f       func(state, v value.Value) (value.Value, error)
	emitted bool
	done    bool
}

// Scan returns a lazy sequence starting with init, then each subsequent
// running state produced by folding f over inner's elements. Unlike
// Fold (a terminal operation), Scan exposes every intermediate state.
func Scan(inner value.Sequence, init value.Value, f func(state, v value.Value) (value.Value, error)) value.Sequence {
	return &scanSeq{inner: inner, state: init, f: f}
}

func (s *scanSeq) Next() (value.Value, bool, error) {
	if !s.emitted {
		s.emitted = true

		return s.state, true, nil
	}
	if s.done {
		return value.NilValue, false, nil
	}

	v, ok, err := s.inner.Next()
	if err != nil || !ok {
		s.done = true

		return value.NilValue, false, err
	}

	next, err := s.f(s.state, v)
	if err != nil {
		return value.NilValue, false, err
	}
	s.state = next

	return s.state, true, nil
}

func (s *scanSeq) Clone() value.Sequence {
	return &scanSeq{inner: s.inner.Clone(), state: s.state, f: s.f, emitted: s.emitted, done: s.done}
}

// flattenSeq is the lazy sequence returned by Flatten: inner yields
// Values that must themselves be Sequences, concatenated in order.
type flattenSeq struct {
	outer value.Sequence
	cur   value.Sequence
}

// Flatten returns a lazy sequence concatenating the sequence-valued
// elements yielded by outer. An element of outer that is not itself a
// Sequence is an error.
func Flatten(outer value.Sequence) value.Sequence {
	return &flattenSeq{outer: outer}
}

func (fl *flattenSeq) Next() (value.Value, bool, error) {
	for {
		if fl.cur != nil {
			v, ok, err := fl.cur.Next()
			if err != nil {
				return value.NilValue, false, err
			}
			if ok {
				return v, true, nil
			}
			fl.cur = nil
		}

		v, ok, err := fl.outer.Next()
		if err != nil {
			return value.NilValue, false, err
		}
		if !ok {
			return value.NilValue, false, nil
		}

		inner, ok := v.AsSequence()
		if !ok {
			return value.NilValue, false, errNotASequence()
		}
		fl.cur = inner
	}
}

func (fl *flattenSeq) Clone() value.Sequence {
	var curClone value.Sequence
	if fl.cur != nil {
		curClone = fl.cur.Clone()
	}

	return &flattenSeq{outer: fl.outer.Clone(), cur: curClone}
}
