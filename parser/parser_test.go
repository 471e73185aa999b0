package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/sym"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	table := sym.NewTable()
	prog, err := ParseProgram(src, table)
	require.NoError(t, err)
	return prog
}

func TestParseIntLiteral(t *testing.T) {
	prog := parse(t, "1")
	require.Len(t, prog.Stmts, 1)
	es, ok := prog.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	lit, ok := es.Value.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)
}

func TestParseAssignment(t *testing.T) {
	prog := parse(t, "x = 1 + 2")
	require.Len(t, prog.Stmts, 1)
	as, ok := prog.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	_, ok = as.Pattern.(*ast.IdentPattern)
	require.True(t, ok)
	bin, ok := as.Value.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseDestructuringArrayAssignment(t *testing.T) {
	prog := parse(t, "[a, b] = [1, 2]")
	as, ok := prog.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	arr, ok := as.Pattern.(*ast.ArrayPattern)
	require.True(t, ok)
	assert.Len(t, arr.Elems, 2)
}

func TestParseDestructuringMapAssignment(t *testing.T) {
	prog := parse(t, "{a, b} = m")
	as, ok := prog.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	mp, ok := as.Pattern.(*ast.MapPattern)
	require.True(t, ok)
	assert.Len(t, mp.Entries, 2)
}

func TestParseClosureLiteralSingleParamNoBraces(t *testing.T) {
	prog := parse(t, "f = |x| x + 1")
	as := prog.Stmts[0].(*ast.AssignStmt)
	cl, ok := as.Value.(*ast.ClosureLit)
	require.True(t, ok)
	require.Len(t, cl.Params, 1)
	require.Len(t, cl.Body, 1)
}

func TestParseClosureLiteralBlockBodyAndDefaults(t *testing.T) {
	prog := parse(t, "f = |x, y = 2| { z = x + y\nreturn z }")
	as := prog.Stmts[0].(*ast.AssignStmt)
	cl := as.Value.(*ast.ClosureLit)
	require.Len(t, cl.Params, 2)
	assert.True(t, cl.Params[1].HasDefault)
	require.Len(t, cl.Body, 2)
	_, ok := cl.Body[1].(*ast.ReturnStmt)
	assert.True(t, ok)
}

func TestParseCallWithKeywordArgs(t *testing.T) {
	prog := parse(t, "f(1, 2, k = 3)")
	es := prog.Stmts[0].(*ast.ExprStmt)
	call, ok := es.Value.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 3)
	assert.False(t, call.Args[0].HasName)
	assert.True(t, call.Args[2].HasName)
}

func TestParseFieldAccessAndIndex(t *testing.T) {
	prog := parse(t, "a.b[0]")
	es := prog.Stmts[0].(*ast.ExprStmt)
	idx, ok := es.Value.(*ast.Index)
	require.True(t, ok)
	fa, ok := idx.Target.(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "b", fa.Field)
}

func TestParseRangesInclusiveAndExclusive(t *testing.T) {
	prog := parse(t, "a = 1..5\nb = 1..=5")
	a := prog.Stmts[0].(*ast.AssignStmt).Value.(*ast.RangeExpr)
	b := prog.Stmts[1].(*ast.AssignStmt).Value.(*ast.RangeExpr)
	assert.False(t, a.Inclusive)
	assert.True(t, b.Inclusive)
}

func TestParseIfElseIfElse(t *testing.T) {
	prog := parse(t, "x = if a then 1 else if b then 2 else 3")
	ifExpr := prog.Stmts[0].(*ast.AssignStmt).Value.(*ast.If)
	elseIf, ok := ifExpr.Else.(*ast.If)
	require.True(t, ok)
	_, ok = elseIf.Else.(*ast.IntLit)
	assert.True(t, ok)
}

func TestParsePipelineAndMapOperators(t *testing.T) {
	prog := parse(t, "y = 5 |> f\nz = s ||> g")
	y := prog.Stmts[0].(*ast.AssignStmt).Value.(*ast.BinOp)
	z := prog.Stmts[1].(*ast.AssignStmt).Value.(*ast.BinOp)
	assert.Equal(t, "|>", y.Op)
	assert.Equal(t, "||>", z.Op)
}

func TestParseBitwiseOrVsClosureDisambiguation(t *testing.T) {
	prog := parse(t, "x = a | b")
	bin, ok := prog.Stmts[0].(*ast.AssignStmt).Value.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "|", bin.Op)
}

func TestParseStringLiteralBothQuoteStyles(t *testing.T) {
	prog := parse(t, "a = \"hi\\n\"\nb = 'hi\\n'")
	a := prog.Stmts[0].(*ast.AssignStmt).Value.(*ast.StringLit)
	b := prog.Stmts[1].(*ast.AssignStmt).Value.(*ast.StringLit)
	assert.Equal(t, "hi\n", a.Value)
	assert.Equal(t, "hi\n", b.Value)
}

func TestParseMapLiteralWithSplat(t *testing.T) {
	prog := parse(t, "m = {a: 1,...rest}")
	ml := prog.Stmts[0].(*ast.AssignStmt).Value.(*ast.MapLit)
	require.Len(t, ml.Entries, 2)
	assert.False(t, ml.Entries[0].Splat)
	assert.True(t, ml.Entries[1].Splat)
}

func TestParseMalformedSourceReturnsError(t *testing.T) {
	table := sym.NewTable()
	_, err := ParseProgram("x = (1 +", table)
	require.Error(t, err)
}

func TestParseTypeHintOnAssignment(t *testing.T) {
	prog := parse(t, "x: Int = 1")
	as := prog.Stmts[0].(*ast.AssignStmt)
	assert.True(t, as.HasTypeHint)
	assert.Equal(t, "Int", as.TypeHint)
}
