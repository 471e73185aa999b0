package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/builtins"
	"github.com/katalvlaran/geoscript/optimizer"
	"github.com/katalvlaran/geoscript/parser"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// optimizeSrc parses src, runs the optimizer over it with a registry that
// fails the test if any callable is actually invoked re-entrantly (constant folding
// never needs to call back into a closure, only Registry.Resolve), and
// returns the rewritten Program.
func optimizeSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	table := sym.NewTable()
	prog, err := parser.ParseProgram(src, table)
	require.NoError(t, err)

	invoke := func(c *value.Callable, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		t.Fatal("optimizer must not re-enter a callable at compile time")
		return value.Value{}, nil
	}
	ctx := builtins.NewContext(invoke, table)
	registry := builtins.NewRegistry(ctx)

	require.NoError(t, optimizer.Optimize(prog, registry, table))
	return prog
}

func TestConstantFoldingOfIntArithmetic(t *testing.T) {
	prog := optimizeSrc(t, "x = 1 + 2 * 3")
	as := prog.Stmts[0].(*ast.AssignStmt)
	lit, ok := as.Value.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(7), lit.Value)
}

func TestConstantFoldingOfPureBuiltinCall(t *testing.T) {
	prog := optimizeSrc(t, "y = sqrt(16.0)")
	as := prog.Stmts[0].(*ast.AssignStmt)
	lit, ok := as.Value.(*ast.FloatLit)
	require.True(t, ok)
	assert.Equal(t, float32(4), lit.Value)
}

// A bare reference to a builtin's name (not a call) folds to a literal
// Callable value, matching eval_ident's own scope-then-registry order.
func TestBareBuiltinNameFoldsToLiteralCallable(t *testing.T) {
	prog := optimizeSrc(t, "f = sin")
	as := prog.Stmts[0].(*ast.AssignStmt)
	vl, ok := as.Value.(*ast.ValueLit)
	require.True(t, ok)
	v, ok := vl.Payload.(value.Value)
	require.True(t, ok)
	assert.Equal(t, value.KCallable, v.Kind())
}

// A closure whose only free variable is a compile-time constant lifts to
// a self-contained literal Callable.
func TestClosureLiftingOverConstCapture(t *testing.T) {
	prog := optimizeSrc(t, "k = 2\nf = |x| x + k")
	as := prog.Stmts[1].(*ast.AssignStmt)
	vl, ok := as.Value.(*ast.ValueLit)
	require.True(t, ok)
	v, ok := vl.Payload.(value.Value)
	require.True(t, ok)
	assert.Equal(t, value.KCallable, v.Kind())
	cb, ok := v.AsCallable()
	require.True(t, ok)
	assert.Equal(t, value.CallClosure, cb.Kind)
}

// A closure capturing a non-const (TrackArg) name is left as an ordinary
// ClosureLit, not lifted.
func TestClosureNotLiftedOverNonConstCapture(t *testing.T) {
	prog := optimizeSrc(t, "k = randi(0, 10)\nf = |x| x + k")
	as := prog.Stmts[1].(*ast.AssignStmt)
	_, ok := as.Value.(*ast.ClosureLit)
	assert.True(t, ok)
}

// Short-circuit folding must not optimize (and so never risk invoking) the
// right operand once the left operand already determines the result.
func TestShortCircuitFoldingSkipsRightOperand(t *testing.T) {
	prog := optimizeSrc(t, "a = false && print(1)")
	as := prog.Stmts[0].(*ast.AssignStmt)
	lit, ok := as.Value.(*ast.BoolLit)
	require.True(t, ok)
	assert.False(t, lit.Value)
}

func TestShortCircuitFoldingOrSkipsRightOperand(t *testing.T) {
	prog := optimizeSrc(t, "a = true || print(1)")
	as := prog.Stmts[0].(*ast.AssignStmt)
	lit, ok := as.Value.(*ast.BoolLit)
	require.True(t, ok)
	assert.True(t, lit.Value)
}

// A side-effectful (impure) call is never folded away, even when every
// argument is a literal.
func TestImpureCallIsNeverFolded(t *testing.T) {
	prog := optimizeSrc(t, "print(1 + 2)")
	es := prog.Stmts[0].(*ast.ExprStmt)
	call, ok := es.Value.(*ast.Call)
	require.True(t, ok)
	// the argument itself still folds, only the call survives unevaluated
	lit, ok := call.Args[0].Value.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(3), lit.Value)
}

// An if/else over a non-literal condition still optimizes both branches
// (the condition itself is not known until runtime); this checks that
// Then/Else each still get folded.
func TestIfBranchesAreIndependentlyFolded(t *testing.T) {
	prog := optimizeSrc(t, "x = if cond then 1 + 1 else 2 + 2")
	as := prog.Stmts[0].(*ast.AssignStmt)
	ifExpr, ok := as.Value.(*ast.If)
	require.True(t, ok)
	then, ok := ifExpr.Then.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(2), then.Value)
	els, ok := ifExpr.Else.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(4), els.Value)
}

// A Block whose statements are all literal expressions collapses to its
// last value outright (pass 6).
func TestBlockFoldingCollapsesAllLiteralBlock(t *testing.T) {
	prog := optimizeSrc(t, "x = { 1 + 1\n2 + 2 }")
	as := prog.Stmts[0].(*ast.AssignStmt)
	lit, ok := as.Value.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(4), lit.Value)
}
