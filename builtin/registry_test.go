package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/value"
)

func addDef() FnDef {
	return FnDef{
		Name:   "add2",
		Module: "test",
		Pure:   true,
		Signatures: []FnSignature{
			{
				Args: []ArgDef{
					{Name: "a", Types: []ArgType{TInt}, Required: true},
					{Name: "b", Types: []ArgType{TInt}, Required: true},
				},
				Return: TInt,
			},
			{
				Args: []ArgDef{
					{Name: "a", Types: []ArgType{TNumeric}, Required: true},
					{Name: "b", Types: []ArgType{TNumeric}, Required: true},
				},
				Return: TFloat,
			},
		},
	}
}

func addImpl(args []value.Value) (value.Value, error) {
	af, _ := args[0].AsNumeric()
	bf, _ := args[1].AsNumeric()
	_, aIsInt := args[0].AsInt()
	_, bIsInt := args[1].AsInt()
	if aIsInt && bIsInt {
		ai, _ := args[0].AsInt()
		bi, _ := args[1].AsInt()
		return value.IntValue(ai + bi), nil
	}
	return value.FloatValue(float32(af + bf)), nil
}

func TestRegistryResolveExactOverloadWins(t *testing.T) {
	r := NewRegistry()
	r.Define(addDef(), addImpl)

	res, err := r.Resolve("add2", []value.Value{value.IntValue(2), value.IntValue(3)}, nil)
	require.NoError(t, err)
	i, ok := res.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(5), i)
}

func TestRegistryResolveFloatOverload(t *testing.T) {
	r := NewRegistry()
	r.Define(addDef(), addImpl)

	res, err := r.Resolve("add2", []value.Value{value.FloatValue(2), value.IntValue(3)}, nil)
	require.NoError(t, err)
	_, isFloat := res.AsFloat()
	assert.True(t, isFloat)
}

func TestRegistryAliasResolvesToCanonical(t *testing.T) {
	r := NewRegistry()
	r.Define(addDef(), addImpl)
	r.Alias("plus2", "add2")

	res, err := r.Resolve("plus2", []value.Value{value.IntValue(1), value.IntValue(1)}, nil)
	require.NoError(t, err)
	i, _ := res.AsInt()
	assert.Equal(t, int64(2), i)
}

func TestRegistryUnknownNameErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("does_not_exist", nil, nil)
	require.Error(t, err)
}

func TestRegistryPartialApplicationWhenArgsAreLegalPrefix(t *testing.T) {
	r := NewRegistry()
	r.Define(addDef(), addImpl)

	res, err := r.Resolve("add2", []value.Value{value.IntValue(2)}, nil)
	require.NoError(t, err)
	cb, ok := res.AsCallable()
	require.True(t, ok)
	assert.Equal(t, value.CallPartial, cb.Kind)
}

func TestRegistryTypeMismatchEnumeratesFailures(t *testing.T) {
	r := NewRegistry()
	r.Define(addDef(), addImpl)

	_, err := r.Resolve("add2", []value.Value{value.StringValue("x"), value.StringValue("y")}, nil)
	require.Error(t, err)
}

func TestRegistryKeywordArgumentsByName(t *testing.T) {
	r := NewRegistry()
	r.Define(addDef(), addImpl)

	res, err := r.Resolve("add2", nil, map[string]value.Value{"a": value.IntValue(4), "b": value.IntValue(6)})
	require.NoError(t, err)
	i, _ := res.AsInt()
	assert.Equal(t, int64(10), i)
}

func TestRegistryDefinePanicsOnDuplicateName(t *testing.T) {
	r := NewRegistry()
	r.Define(addDef(), addImpl)
	assert.Panics(t, func() { r.Define(addDef(), addImpl) })
}

func TestExampleValueRoundTripsKind(t *testing.T) {
	assert.Equal(t, value.Int, ExampleValue(TInt).Kind())
	assert.Equal(t, value.Float, ExampleValue(TFloat).Kind())
	assert.Equal(t, value.String, ExampleValue(TString).Kind())
	assert.Equal(t, value.KVec3, ExampleValue(TVec3).Kind())
}

func TestMakeCallableWrapsBuiltin(t *testing.T) {
	r := NewRegistry()
	r.Define(addDef(), addImpl)
	cb, ok := r.MakeCallable("add2")
	require.True(t, ok)
	assert.Equal(t, value.CallBuiltin, cb.Kind)
	assert.Equal(t, "add2", cb.Builtin.Name)
}
