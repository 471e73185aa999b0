package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

func TestScopeLookupWalksParent(t *testing.T) {
	table := sym.NewTable()
	x := table.Intern("x")

	root := New(nil)
	root.Set(x, value.IntValue(1))

	child := New(root)
	v, ok := child.Get(x)
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(1), i)
}

func TestScopeShadowing(t *testing.T) {
	table := sym.NewTable()
	x := table.Intern("x")

	root := New(nil)
	root.Set(x, value.IntValue(1))
	child := New(root)
	child.Set(x, value.IntValue(2))

	v, _ := child.Get(x)
	i, _ := v.AsInt()
	assert.Equal(t, int64(2), i)

	v, _ = root.Get(x)
	i, _ = v.AsInt()
	assert.Equal(t, int64(1), i)
}

func TestScopeAssignRebindsOuter(t *testing.T) {
	table := sym.NewTable()
	x := table.Intern("x")

	root := New(nil)
	root.Set(x, value.IntValue(1))
	child := New(root)
	child.Assign(x, value.IntValue(9))

	v, _ := root.Get(x)
	i, _ := v.AsInt()
	assert.Equal(t, int64(9), i)
	assert.False(t, child.Has(x))
}

func TestTrackerDemote(t *testing.T) {
	table := sym.NewTable()
	x := table.Intern("x")

	root := NewTracker(nil)
	root.SetConst(x, value.IntValue(1))

	branch := NewTracker(root)
	branch.SetConst(x, value.IntValue(2))
	branch.Demote(x)

	e, ok := root.Get(x)
	require.True(t, ok)
	assert.Equal(t, TrackArg, e.Kind)
}
