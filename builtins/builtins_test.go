package builtins_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/builtins"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/seq"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// fnCallable adapts a plain Go func into a value.DynamicCallable, letting
// these tests exercise map/filter/fold/call without going through the
// parser or evaluator.
type fnCallable struct {
	f func(args []value.Value) (value.Value, error)
}

func (c fnCallable) Invoke(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	return c.f(args)
}

func dynCallable(f func(args []value.Value) (value.Value, error)) *value.Callable {
	return &value.Callable{Kind: value.CallDynamic, Dynamic: fnCallable{f: f}}
}

// newTestRegistry wires a Context whose Invoke only needs to dispatch the
// Dynamic callables these tests build by hand (no closures or builtin
// partials are invoked re-entrantly here).
func newTestRegistry(t *testing.T) (*builtins.Context, *registryHandle) {
	t.Helper()
	invoke := func(c *value.Callable, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if c.Kind == value.CallDynamic {
			return c.Dynamic.Invoke(args, kwargs)
		}
		t.Fatalf("unsupported callable kind %v in test invoker", c.Kind)
		return value.Value{}, nil
	}
	ctx := builtins.NewContext(invoke, sym.NewTable())
	return ctx, &registryHandle{r: builtins.NewRegistry(ctx)}
}

// registryHandle just avoids importing package builtin into this test
// file for the sole purpose of naming *builtin.Registry's type.
type registryHandle struct {
	r interface {
		Resolve(name string, positional []value.Value, kwargs map[string]value.Value) (value.Value, error)
	}
}

func TestArithAddDispatchesOnOperandKind(t *testing.T) {
	_, reg := newTestRegistry(t)

	sum, err := reg.r.Resolve("add", []value.Value{value.IntValue(2), value.IntValue(3)}, nil)
	require.NoError(t, err)
	i, ok := sum.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(5), i)

	str, err := reg.r.Resolve("add", []value.Value{value.StringValue("a"), value.StringValue("b")}, nil)
	require.NoError(t, err)
	s, _ := str.AsString()
	assert.Equal(t, "ab", s)
}

func TestArithDivByZeroErrors(t *testing.T) {
	_, reg := newTestRegistry(t)
	_, err := reg.r.Resolve("div", []value.Value{value.IntValue(1), value.IntValue(0)}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errstack.ErrRuntime))
}

func TestArithModMatchesIntRemainder(t *testing.T) {
	_, reg := newTestRegistry(t)
	v, err := reg.r.Resolve("mod", []value.Value{value.IntValue(7), value.IntValue(3)}, nil)
	require.NoError(t, err)
	i, _ := v.AsInt()
	assert.Equal(t, int64(1), i)
}

func TestArithComparisonBuiltins(t *testing.T) {
	_, reg := newTestRegistry(t)
	lt, err := reg.r.Resolve("lt", []value.Value{value.IntValue(1), value.IntValue(2)}, nil)
	require.NoError(t, err)
	b, _ := lt.AsBool()
	assert.True(t, b)

	ge, err := reg.r.Resolve("ge", []value.Value{value.FloatValue(2), value.IntValue(2)}, nil)
	require.NoError(t, err)
	b, _ = ge.AsBool()
	assert.True(t, b)
}

func TestVecOpsDotCrossNormalize(t *testing.T) {
	_, reg := newTestRegistry(t)

	v3 := func(x, y, z float64) value.Value {
		v, err := reg.r.Resolve("vec3", []value.Value{value.FloatValue(float32(x)), value.FloatValue(float32(y)), value.FloatValue(float32(z))}, nil)
		require.NoError(t, err)
		return v
	}

	dot, err := reg.r.Resolve("dot", []value.Value{v3(1, 0, 0), v3(1, 0, 0)}, nil)
	require.NoError(t, err)
	f, _ := dot.AsFloat()
	assert.Equal(t, float32(1), f)

	cross, err := reg.r.Resolve("cross", []value.Value{v3(1, 0, 0), v3(0, 1, 0)}, nil)
	require.NoError(t, err)
	cv, ok := cross.AsVec3()
	require.True(t, ok)
	assert.Equal(t, float64(1), cv.Z)

	_, err = reg.r.Resolve("normalize", []value.Value{v3(0, 0, 0)}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errstack.ErrGeometric))
}

func TestScalarClampLerpMinMax(t *testing.T) {
	_, reg := newTestRegistry(t)

	clamped, err := reg.r.Resolve("clamp", []value.Value{value.FloatValue(5), value.FloatValue(0), value.FloatValue(1)}, nil)
	require.NoError(t, err)
	f, _ := clamped.AsFloat()
	assert.Equal(t, float32(1), f)

	lerped, err := reg.r.Resolve("lerp", []value.Value{value.FloatValue(0), value.FloatValue(10), value.FloatValue(0.5)}, nil)
	require.NoError(t, err)
	f, _ = lerped.AsFloat()
	assert.Equal(t, float32(5), f)

	mx, err := reg.r.Resolve("max", []value.Value{value.IntValue(3), value.IntValue(7)}, nil)
	require.NoError(t, err)
	i, _ := mx.AsInt()
	assert.Equal(t, int64(7), i)
}

func TestScalarFixFloatRecoversNaNAndInf(t *testing.T) {
	_, reg := newTestRegistry(t)

	// div by zero is still a runtime error (checked separately); fix_float
	// only recovers a NaN/Inf that arrives some other way, e.g. 0 ** -1.
	inf, err := reg.r.Resolve("pow", []value.Value{value.FloatValue(0), value.FloatValue(-1)}, nil)
	require.NoError(t, err)
	fixed, err := reg.r.Resolve("fix_float", []value.Value{inf}, nil)
	require.NoError(t, err)
	f, _ := fixed.AsFloat()
	assert.Equal(t, float32(0), f)
}

func TestSeqMapFilterFoldViaRegistry(t *testing.T) {
	_, reg := newTestRegistry(t)

	xs := value.SequenceValue(seq.NewSlice([]value.Value{
		value.IntValue(1), value.IntValue(2), value.IntValue(3), value.IntValue(4),
	}))

	doubled, err := reg.r.Resolve("map", []value.Value{xs, value.CallableValue(dynCallable(func(args []value.Value) (value.Value, error) {
		i, _ := args[0].AsInt()
		return value.IntValue(i * 2), nil
	}))}, nil)
	require.NoError(t, err)

	evens, err := reg.r.Resolve("filter", []value.Value{doubled, value.CallableValue(dynCallable(func(args []value.Value) (value.Value, error) {
		i, _ := args[0].AsInt()
		return value.BoolValue(i > 2), nil
	}))}, nil)
	require.NoError(t, err)

	collected, err := reg.r.Resolve("collect", []value.Value{evens}, nil)
	require.NoError(t, err)
	s, ok := collected.AsSequence()
	require.True(t, ok)

	var out []int64
	for {
		v, more, err := s.Next()
		require.NoError(t, err)
		if !more {
			break
		}
		i, _ := v.AsInt()
		out = append(out, i)
	}
	assert.Equal(t, []int64{4, 6, 8}, out)

	sum, err := reg.r.Resolve("fold", []value.Value{xs, value.IntValue(0), value.CallableValue(dynCallable(func(args []value.Value) (value.Value, error) {
		a, _ := args[0].AsInt()
		b, _ := args[1].AsInt()
		return value.IntValue(a + b), nil
	}))}, nil)
	require.NoError(t, err)
	si, _ := sum.AsInt()
	assert.Equal(t, int64(10), si)
}

func TestReduceOnEmptySequenceErrors(t *testing.T) {
	_, reg := newTestRegistry(t)
	empty := value.SequenceValue(seq.NewSlice(nil))
	_, err := reg.r.Resolve("reduce", []value.Value{empty, value.CallableValue(dynCallable(func(args []value.Value) (value.Value, error) {
		return args[0], nil
	}))}, nil)
	require.Error(t, err)
}

func TestControlRenderAppendsMeshToContext(t *testing.T) {
	ctx, reg := newTestRegistry(t)

	b, err := reg.r.Resolve("box", []value.Value{value.FloatValue(1)}, nil)
	require.NoError(t, err)

	_, err = reg.r.Resolve("render", []value.Value{b}, nil)
	require.NoError(t, err)
	require.Len(t, ctx.Rendered, 1)
}

func TestControlAssertFailureCarriesMessage(t *testing.T) {
	_, reg := newTestRegistry(t)
	_, err := reg.r.Resolve("assert", []value.Value{value.BoolValue(false), value.StringValue("boom")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestControlCallInvokesWithArgsArray(t *testing.T) {
	_, reg := newTestRegistry(t)
	cb := value.CallableValue(dynCallable(func(args []value.Value) (value.Value, error) {
		a, _ := args[0].AsInt()
		b, _ := args[1].AsInt()
		return value.IntValue(a - b), nil
	}))
	argv := value.SequenceValue(seq.NewSlice([]value.Value{value.IntValue(10), value.IntValue(4)}))
	out, err := reg.r.Resolve("call", []value.Value{cb, argv}, nil)
	require.NoError(t, err)
	i, _ := out.AsInt()
	assert.Equal(t, int64(6), i)
}

func TestControlComposeChainsLeftToRight(t *testing.T) {
	_, reg := newTestRegistry(t)
	f := value.CallableValue(dynCallable(func(args []value.Value) (value.Value, error) {
		i, _ := args[0].AsInt()
		return value.IntValue(i + 1), nil
	}))
	g := value.CallableValue(dynCallable(func(args []value.Value) (value.Value, error) {
		i, _ := args[0].AsInt()
		return value.IntValue(i * 10), nil
	}))
	out, err := reg.r.Resolve("compose", []value.Value{f, g}, nil)
	require.NoError(t, err)
	cb, ok := out.AsCallable()
	require.True(t, ok)
	assert.Equal(t, value.CallComposed, cb.Kind)
	require.Len(t, cb.Composed, 2)
}

func TestRNGSeedMakesRandiDeterministic(t *testing.T) {
	builtins.SetRNGSeed(42)
	_, reg1 := newTestRegistry(t)
	a, err := reg1.r.Resolve("randi", []value.Value{value.IntValue(0), value.IntValue(1000)}, nil)
	require.NoError(t, err)

	builtins.SetRNGSeed(42)
	_, reg2 := newTestRegistry(t)
	b, err := reg2.r.Resolve("randi", []value.Value{value.IntValue(0), value.IntValue(1000)}, nil)
	require.NoError(t, err)

	ai, _ := a.AsInt()
	bi, _ := b.AsInt()
	assert.Equal(t, ai, bi)
}

func TestRNGRandiDegenerateRangeReturnsLow(t *testing.T) {
	_, reg := newTestRegistry(t)
	v, err := reg.r.Resolve("randi", []value.Value{value.IntValue(5), value.IntValue(5)}, nil)
	require.NoError(t, err)
	i, _ := v.AsInt()
	assert.Equal(t, int64(5), i)
}

func TestMeshPrimBoxSingleArgIsACube(t *testing.T) {
	_, reg := newTestRegistry(t)
	v, err := reg.r.Resolve("box", []value.Value{value.FloatValue(2)}, nil)
	require.NoError(t, err)
	m, ok := v.AsMesh()
	require.True(t, ok)
	box := m.AABB()
	assert.InDelta(t, -1, box.Min.X, 1e-6)
	assert.InDelta(t, 1, box.Max.X, 1e-6)
}

func TestMeshPrimBoxThreeArgIsACuboid(t *testing.T) {
	_, reg := newTestRegistry(t)
	v, err := reg.r.Resolve("box", []value.Value{value.FloatValue(2), value.FloatValue(4), value.FloatValue(6)}, nil)
	require.NoError(t, err)
	m, ok := v.AsMesh()
	require.True(t, ok)
	box := m.AABB()
	assert.InDelta(t, -1, box.Min.X, 1e-6)
	assert.InDelta(t, -2, box.Min.Y, 1e-6)
	assert.InDelta(t, -3, box.Min.Z, 1e-6)
	assert.InDelta(t, 1, box.Max.X, 1e-6)
	assert.InDelta(t, 2, box.Max.Y, 1e-6)
	assert.InDelta(t, 3, box.Max.Z, 1e-6)
}

func TestDescribeReturnsDocAndSignature(t *testing.T) {
	_, reg := newTestRegistry(t)
	v, err := reg.r.Resolve("describe", []value.Value{value.StringValue("sqrt")}, nil)
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Contains(t, s, "sqrt")
	assert.Contains(t, s, "->")
}

func TestDescribeUnknownNameReportsRatherThanErrors(t *testing.T) {
	_, reg := newTestRegistry(t)
	v, err := reg.r.Resolve("describe", []value.Value{value.StringValue("not_a_builtin")}, nil)
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Contains(t, s, "no such builtin")
}
