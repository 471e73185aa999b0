package value

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/geoscript/geom"
)

func TestScalarRoundTrip(t *testing.T) {
	iv := IntValue(42)
	i, ok := iv.AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)

	fv := FloatValue(3.5)
	f, ok := fv.AsFloat()
	assert.True(t, ok)
	assert.Equal(t, float32(3.5), f)

	_, ok = iv.AsFloat()
	assert.False(t, ok)
}

func TestAsNumericWidensBoth(t *testing.T) {
	n, ok := IntValue(7).AsNumeric()
	assert.True(t, ok)
	assert.Equal(t, float64(7), n)

	n, ok = FloatValue(2.5).AsNumeric()
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)

	_, ok = StringValue("x").AsNumeric()
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	assert.False(t, NilValue.Truthy())
	assert.False(t, BoolValue(false).Truthy())
	assert.True(t, BoolValue(true).Truthy())
	assert.True(t, IntValue(0).Truthy())
	assert.True(t, StringValue("").Truthy())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(IntValue(1), IntValue(1)))
	assert.False(t, Equal(IntValue(1), IntValue(2)))
	assert.False(t, Equal(IntValue(1), FloatValue(1)))
	assert.True(t, Equal(Vec3Value(geom.NewVec3(1, 2, 3)), Vec3Value(geom.NewVec3(1, 2, 3))))

	m1 := MapValue(NewMap())
	assert.True(t, Equal(m1, m1))
	assert.False(t, Equal(MapValue(NewMap()), MapValue(NewMap())))
}

func TestMapCloneIsIndependent(t *testing.T) {
	m := NewMap()
	m2 := m.With("a", IntValue(1))
	_, stillAbsent := m.Get("a")
	assert.False(t, stillAbsent)
	v, ok := m2.Get("a")
	assert.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(1), i)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "nil", NilValue.String())
	assert.Equal(t, "42", IntValue(42).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "hello", StringValue("hello").String())
}
