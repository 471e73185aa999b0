package seq

import "github.com/katalvlaran/geoscript/value"

// Slice is the eager, random-access sequence value.Sequence.Collect
// and `collect` materialize into. It also backs array
// literals once a Sequence view over them is requested.
type Slice struct {
	values []value.Value
	idx    int
}

// NewSlice wraps values as a fresh Slice sequence positioned at its
// start. The caller's slice is retained, not copied; callers that hand
// off an array literal's backing slice must treat it as owned by the
// sequence afterward.
func NewSlice(values []value.Value) *Slice {
	return &Slice{values: values}
}

// Next returns the element at the current cursor and advances it.
func (s *Slice) Next() (value.Value, bool, error) {
	if s.idx >= len(s.values) {
		return value.NilValue, false, nil
	}
	v := s.values[s.idx]
	s.idx++

	return v, true, nil
}

// Clone returns an independent iterator sharing the same backing values
// but with its own cursor, positioned wherever this one currently is.
func (s *Slice) Clone() value.Sequence {
	return &Slice{values: s.values, idx: s.idx}
}

// Len reports how many elements remain ahead of the cursor.
func (s *Slice) Len() int {
	if s.idx >= len(s.values) {
		return 0
	}

	return len(s.values) - s.idx
}

// At returns the i-th element ahead of the cursor (0-based), without
// advancing it.
func (s *Slice) At(i int) (value.Value, bool) {
	j := s.idx + i
	if i < 0 || j >= len(s.values) {
		return value.NilValue, false
	}

	return s.values[j], true
}
