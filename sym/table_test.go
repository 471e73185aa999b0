package sym_test

import (
	"testing"

	"github.com/katalvlaran/geoscript/sym"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InternIsIdempotent(t *testing.T) {
	tbl := sym.NewTable()
	a := tbl.Intern("box")
	b := tbl.Intern("box")
	assert.Equal(t, a, b)
}

func TestTable_DistinctStringsGetDistinctSyms(t *testing.T) {
	tbl := sym.NewTable()
	a := tbl.Intern("x")
	b := tbl.Intern("y")
	assert.NotEqual(t, a, b)
}

func TestTable_LookupRoundTrip(t *testing.T) {
	tbl := sym.NewTable()
	s := tbl.Intern("rail_sweep")
	str, ok := tbl.Lookup(s)
	require.True(t, ok)
	assert.Equal(t, "rail_sweep", str)
}

func TestTable_LookupUnknownSym(t *testing.T) {
	tbl := sym.NewTable()
	_, ok := tbl.Lookup(sym.Sym(999))
	assert.False(t, ok)
}

func TestTable_ZeroSymIsAlwaysAbsent(t *testing.T) {
	tbl := sym.NewTable()
	tbl.Intern("anything")
	_, ok := tbl.Lookup(0)
	assert.False(t, ok)
}

func TestTable_Len(t *testing.T) {
	tbl := sym.NewTable()
	tbl.Intern("a")
	tbl.Intern("b")
	tbl.Intern("a")
	assert.Equal(t, 2, tbl.Len())
}
