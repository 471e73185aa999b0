package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/value"
)

func ints(xs...int64) *Slice {
	vs := make([]value.Value, len(xs))
	for i, x := range xs {
		vs[i] = value.IntValue(x)
	}

	return NewSlice(vs)
}

func collectInts(t *testing.T, s value.Sequence) []int64 {
	t.Helper()
	out := []int64{}
	require.NoError(t, ForEach(s, func(v value.Value) error {
		i, ok := v.AsInt()
		require.True(t, ok)
		out = append(out, i)

		return nil
	}))

	return out
}

func TestSliceCloneIsIndependent(t *testing.T) {
	s := ints(1, 2, 3)
	v, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(1), i)

	clone := s.Clone()
	assert.Equal(t, []int64{2, 3}, collectInts(t, clone))
	assert.Equal(t, []int64{2, 3}, collectInts(t, s))
}

func TestMapFilter(t *testing.T) {
	doubled := Map(ints(1, 2, 3), func(v value.Value) (value.Value, error) {
		i, _ := v.AsInt()

		return value.IntValue(i * 2), nil
	})
	assert.Equal(t, []int64{2, 4, 6}, collectInts(t, doubled))

	evens := Filter(ints(1, 2, 3, 4, 5), func(v value.Value) (bool, error) {
		i, _ := v.AsInt()

		return i%2 == 0, nil
	})
	assert.Equal(t, []int64{2, 4}, collectInts(t, evens))
}

func TestTakeSkip(t *testing.T) {
	assert.Equal(t, []int64{1, 2}, collectInts(t, Take(ints(1, 2, 3, 4), 2)))
	assert.Equal(t, []int64{}, collectInts(t, Take(ints(1, 2), 0)))
	assert.Equal(t, []int64{3, 4}, collectInts(t, Skip(ints(1, 2, 3, 4), 2)))
	assert.Equal(t, []int64{}, collectInts(t, Skip(ints(1, 2), 10)))
}

func TestTakeWhileSkipWhile(t *testing.T) {
	lt3 := func(v value.Value) (bool, error) {
		i, _ := v.AsInt()

		return i < 3, nil
	}
	assert.Equal(t, []int64{1, 2}, collectInts(t, TakeWhile(ints(1, 2, 3, 1), lt3)))
	assert.Equal(t, []int64{3, 1}, collectInts(t, SkipWhile(ints(1, 2, 3, 1), lt3)))
}

func TestChain(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3, 4}, collectInts(t, Chain(ints(1, 2), ints(3, 4))))
}

func TestScanEmitsInitFirst(t *testing.T) {
	running := Scan(ints(1, 2, 3), value.IntValue(0), func(acc, v value.Value) (value.Value, error) {
		a, _ := acc.AsInt()
		i, _ := v.AsInt()

		return value.IntValue(a + i), nil
	})
	assert.Equal(t, []int64{0, 1, 3, 6}, collectInts(t, running))
}

func TestFoldReduceFoldWhile(t *testing.T) {
	sum := func(acc, v value.Value) (value.Value, error) {
		a, _ := acc.AsInt()
		i, _ := v.AsInt()

		return value.IntValue(a + i), nil
	}

	total, err := Fold(ints(1, 2, 3), value.IntValue(10), sum)
	require.NoError(t, err)
	ti, _ := total.AsInt()
	assert.Equal(t, int64(16), ti)

	reduced, ok, err := Reduce(ints(1, 2, 3), sum)
	require.NoError(t, err)
	require.True(t, ok)
	ri, _ := reduced.AsInt()
	assert.Equal(t, int64(6), ri)

	_, ok, err = Reduce(ints(), sum)
	require.NoError(t, err)
	assert.False(t, ok)

	capped, err := FoldWhile(ints(1, 2, 3, 4, 5), value.IntValue(0), func(acc, v value.Value) (value.Value, bool, error) {
		a, _ := acc.AsInt()
		i, _ := v.AsInt()
		next := a + i

		return value.IntValue(next), next < 6, nil
	})
	require.NoError(t, err)
	ci, _ := capped.AsInt()
	assert.Equal(t, int64(6), ci)
}

func TestAnyAll(t *testing.T) {
	even := func(v value.Value) (bool, error) {
		i, _ := v.AsInt()

		return i%2 == 0, nil
	}
	any, err := Any(ints(1, 3, 4), even)
	require.NoError(t, err)
	assert.True(t, any)

	all, err := All(ints(2, 4, 6), even)
	require.NoError(t, err)
	assert.True(t, all)

	all, err = All(ints(2, 3, 6), even)
	require.NoError(t, err)
	assert.False(t, all)
}

func TestFirstLastAppendReverse(t *testing.T) {
	v, ok, err := First(ints(5, 6, 7))
	require.NoError(t, err)
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(5), i)

	v, ok, err = Last(ints(5, 6, 7))
	require.NoError(t, err)
	require.True(t, ok)
	i, _ = v.AsInt()
	assert.Equal(t, int64(7), i)

	assert.Equal(t, []int64{1, 2, 3}, collectInts(t, Append(ints(1, 2), value.IntValue(3))))

	rev, err := Reverse(ints(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, collectInts(t, rev))
}

func TestFlatten(t *testing.T) {
	outer := NewSlice([]value.Value{
		value.SequenceValue(ints(1, 2)),
		value.SequenceValue(ints(3)),
	})
	assert.Equal(t, []int64{1, 2, 3}, collectInts(t, Flatten(outer)))
}

func TestCollectProducesEagerSlice(t *testing.T) {
	collected, err := Collect(Map(ints(1, 2, 3), func(v value.Value) (value.Value, error) { return v, nil }))
	require.NoError(t, err)
	assert.Equal(t, 3, collected.Len())

	v, ok := collected.At(1)
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(2), i)
}
