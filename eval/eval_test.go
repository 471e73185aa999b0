package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runProgram parses, optimizes, and evaluates src, asserting no error
// at any stage (the convenience pipeline, called directly instead of
// through ParseAndEvalProgram so individual scenarios can inspect the
// EvalCtx's global scope afterward).
func runProgram(t *testing.T, src string) *EvalCtx {
	t.Helper()
	ctx := New()
	prog, err := ParseProgramSrc(ctx, src)
	require.NoError(t, err, "parse: %s", src)
	require.NoError(t, OptimizeAST(ctx, prog), "optimize: %s", src)
	require.NoError(t, ctx.EvalProgram(prog), "eval: %s", src)
	return ctx
}

// A pure closure over constants, called with literal arguments, folds
// to a literal result.
func TestConstClosureEvaluation(t *testing.T) {
	ctx := runProgram(t, "fn = |x| x + 1\ny = fn(2)")
	v, ok := ctx.GetGlobal("y")
	require.True(t, ok)
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(3), i)
}

// Swizzling a vec3 built from constant-folded arithmetic arguments.
func TestVec3SwizzleOfFoldedArithmetic(t *testing.T) {
	ctx := runProgram(t, "p = vec3(1+2, 2, 3*1+0+1).zyx")
	v, ok := ctx.GetGlobal("p")
	require.True(t, ok)
	v3, ok := v.AsVec3()
	require.True(t, ok)
	assert.Equal(t, float64(3), v3.Z)
	assert.Equal(t, float64(2), v3.Y)
	assert.Equal(t, float64(4), v3.X)
}

// The optimizer must not eagerly invoke or eliminate side-effectful
// builtins.
func TestSideEffectPreservation(t *testing.T) {
	var printed []string
	ctx := New()
	ctx.SetLogFn(func(s string) { printed = append(printed, s) })

	prog, err := ParseProgramSrc(ctx, "print(1+2)\n(fn = || { print(1+2); return 1+2 })()")
	require.NoError(t, err)
	require.NoError(t, OptimizeAST(ctx, prog))
	require.NoError(t, ctx.EvalProgram(prog))

	require.Len(t, printed, 2)
	assert.Equal(t, "3", printed[0])
	assert.Equal(t, "3", printed[1])
}

// box(1) topology and its axis-aligned bounding box.
func TestBoxAABB(t *testing.T) {
	ctx := runProgram(t, "b = box(1)")
	v, ok := ctx.GetGlobal("b")
	require.True(t, ok)
	m, ok := v.AsMesh()
	require.True(t, ok)

	assert.Equal(t, 8, m.Mesh.VertexCount())
	assert.Equal(t, 12, m.Mesh.FaceCount())
	assert.Equal(t, 18, m.Mesh.EdgeCount())

	box := m.AABB()
	assert.InDelta(t, -0.5, box.Min.X, 1e-6)
	assert.InDelta(t, -0.5, box.Min.Y, 1e-6)
	assert.InDelta(t, -0.5, box.Min.Z, 1e-6)
	assert.InDelta(t, 0.5, box.Max.X, 1e-6)
	assert.InDelta(t, 0.5, box.Max.Y, 1e-6)
	assert.InDelta(t, 0.5, box.Max.Z, 1e-6)
}

func TestRenderAppendsToRenderedMeshes(t *testing.T) {
	ctx := runProgram(t, "render(box(2))")
	meshes := ctx.RenderedMeshes()
	require.Len(t, meshes, 1)
	m, ok := meshes[0].AsMesh()
	require.True(t, ok)
	assert.Equal(t, 8, m.Mesh.VertexCount())
}

func TestDestructuringAssignment(t *testing.T) {
	ctx := runProgram(t, "{a, b} = {a: 1, b: 2}\n[c, d] = [3, 4]")
	a, _ := ctx.GetGlobal("a")
	b, _ := ctx.GetGlobal("b")
	c, _ := ctx.GetGlobal("c")
	d, _ := ctx.GetGlobal("d")
	ai, _ := a.AsInt()
	bi, _ := b.AsInt()
	ci, _ := c.AsInt()
	di, _ := d.AsInt()
	assert.Equal(t, int64(1), ai)
	assert.Equal(t, int64(2), bi)
	assert.Equal(t, int64(3), ci)
	assert.Equal(t, int64(4), di)
}

func TestPipelineOperatorAppliesCallable(t *testing.T) {
	ctx := runProgram(t, "double = |x| x * 2\ny = 5 |> double")
	v, ok := ctx.GetGlobal("y")
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(10), i)
}

func TestPipeMapOperatorMapsOverSequence(t *testing.T) {
	ctx := runProgram(t, "xs = collect([1, 2, 3] ||> |x| x + 10)")
	v, ok := ctx.GetGlobal("xs")
	require.True(t, ok)
	s, ok := v.AsSequence()
	require.True(t, ok)
	var out []int64
	for {
		ev, more, err := s.Next()
		require.NoError(t, err)
		if !more {
			break
		}
		i, _ := ev.AsInt()
		out = append(out, i)
	}
	assert.Equal(t, []int64{11, 12, 13}, out)
}

func TestShortCircuitAndDoesNotInvokeRight(t *testing.T) {
	var called bool
	ctx := New()
	// a call with a side effect that must never run, since the left
	// operand of && is false.
	ctx.SetLogFn(func(string) { called = true })
	prog, err := ParseProgramSrc(ctx, "false && print(1)")
	require.NoError(t, err)
	require.NoError(t, OptimizeAST(ctx, prog))
	require.NoError(t, ctx.EvalProgram(prog))
	assert.False(t, called)
}

func TestUndefinedNameErrors(t *testing.T) {
	ctx := New()
	prog, err := ParseProgramSrc(ctx, "y = undefined_thing_xyz")
	require.NoError(t, err)
	require.NoError(t, OptimizeAST(ctx, prog))
	err = ctx.EvalProgram(prog)
	require.Error(t, err)
}

func TestSequencePipelineCollect(t *testing.T) {
	ctx := runProgram(t, "xs = collect(filter(map([1,2,3,4], |x| x * 2), |x| x > 2))")
	v, ok := ctx.GetGlobal("xs")
	require.True(t, ok)
	s, ok := v.AsSequence()
	require.True(t, ok)
	var out []int64
	for {
		ev, more, err := s.Next()
		require.NoError(t, err)
		if !more {
			break
		}
		i, _ := ev.AsInt()
		out = append(out, i)
	}
	assert.Equal(t, []int64{4, 6, 8}, out)
}

func TestIfElseExpression(t *testing.T) {
	ctx := runProgram(t, "x = if 1 > 2 then 10 else 20")
	v, _ := ctx.GetGlobal("x")
	i, _ := v.AsInt()
	assert.Equal(t, int64(20), i)
}

func TestRecursiveClosureViaWeakCapture(t *testing.T) {
	ctx := runProgram(t, "fact = |n| if n <= 1 then 1 else n * fact(n - 1)\ny = fact(5)")
	v, ok := ctx.GetGlobal("y")
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(120), i)
}
