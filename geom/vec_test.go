package geom_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/geoscript/geom"
	"github.com/stretchr/testify/assert"
)

func TestVec3_Normalize_Degenerate(t *testing.T) {
	v := geom.Vec3{}
	assert.Equal(t, geom.Zero3, v.Normalize(), "zero vector normalizes to zero, not NaN")
}

func TestVec3_Normalize_Unit(t *testing.T) {
	v := geom.NewVec3(3, 4, 0)
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Y, 1e-12)
}

func TestVec3_Cross_RightHanded(t *testing.T) {
	x := geom.NewVec3(1, 0, 0)
	y := geom.NewVec3(0, 1, 0)
	assert.Equal(t, geom.NewVec3(0, 0, 1), x.Cross(y))
}

func TestVec3_Lerp(t *testing.T) {
	a := geom.NewVec3(0, 0, 0)
	b := geom.NewVec3(10, 0, 0)
	assert.Equal(t, geom.NewVec3(5, 0, 0), a.Lerp(b, 0.5))
}

func TestVec2_PerpDistance(t *testing.T) {
	a := geom.Vec2{X: 0, Y: 0}
	b := geom.Vec2{X: 10, Y: 0}
	p := geom.Vec2{X: 5, Y: 3}
	assert.InDelta(t, 3.0, p.PerpDistance(a, b), 1e-9)
}

func TestVec2_PerpDistance_DegenerateSegment(t *testing.T) {
	a := geom.Vec2{X: 2, Y: 2}
	p := geom.Vec2{X: 5, Y: 6}
	assert.InDelta(t, p.Sub(a).Len(), p.PerpDistance(a, a), 1e-9)
}

func TestAABB_ExtendAndCenter(t *testing.T) {
	b := geom.EmptyAABB()
	b = b.Extend(geom.NewVec3(-1, -1, -1))
	b = b.Extend(geom.NewVec3(1, 1, 1))
	assert.Equal(t, geom.Zero3, b.Center())
	assert.Equal(t, geom.NewVec3(2, 2, 2), b.Size())
}

func TestMat4_TranslateThenRotate(t *testing.T) {
	m := geom.RotateAxis4(geom.NewVec3(0, 0, 1), math.Pi/2).Mul(geom.Translate4(geom.NewVec3(1, 0, 0)))
	p := m.MulPoint(geom.Zero3)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 1, p.Y, 1e-9)
}
