package fku

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/geom"
)

func squarePts() []geom.Vec3 {
	return []geom.Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: -1, Z: 0},
	}
}

func TestSolveDPBasicOpen(t *testing.T) {
	ptsA := squarePts()
	ptsB := squarePts()

	moves := solveDP(ptsA, ptsB, nil, nil, nil, nil, 1.0, 1.0, false)
	assert.Len(t, moves, 8)
}

func TestSolveDPBasicClosed(t *testing.T) {
	ptsA := squarePts()
	ptsB := squarePts()

	moves := solveDP(ptsA, ptsB, nil, nil, nil, nil, 1.0, 1.0, true)
	assert.NotEmpty(t, moves)
	last := moves[len(moves)-1]
	assert.Equal(t, 5, last.I)
	assert.Equal(t, 5, last.J)
}

func TestStitchPresampledOpenProducesTriangles(t *testing.T) {
	ptsA := squarePts()
	ptsB := squarePts()

	indices := StitchPresampled(ptsA, ptsB, nil, nil, nil, nil, 0, 4, false)
	require.NotEmpty(t, indices)
	assert.Equal(t, 0, len(indices)%3)

	for _, idx := range indices {
		assert.True(t, idx < 8)
	}
}

func TestStitchPresampledClosedWrapsAround(t *testing.T) {
	ptsA := squarePts()
	ptsB := squarePts()

	indices := StitchPresampled(ptsA, ptsB, nil, nil, nil, nil, 0, 4, true)
	require.NotEmpty(t, indices)
	assert.Equal(t, 0, len(indices)%3)
}

func TestRingAverageRadiusUnitSquare(t *testing.T) {
	r := RingAverageRadius(squarePts())
	assert.InDelta(t, 1.0, r, 1e-9)
}

func TestRotateRingWraps(t *testing.T) {
	pts := squarePts()
	rotated := RotateRing(pts, 1)
	assert.Equal(t, pts[1], rotated[0])
	assert.Equal(t, pts[0], rotated[3])
}

func TestFindBestRingAlignmentIdentical(t *testing.T) {
	pts := squarePts()
	shift := FindBestRingAlignment(pts, RotateRing(pts, 2))
	// Rotating B by 2 positions must be undone by exactly shift 2, not
	// merely some shift whose resampling happens to coincide.
	assert.Equal(t, 2, shift)
	resA := ResampleRing(pts, alignmentResampleK)
	resB := ResampleRing(RotateRing(RotateRing(pts, 2), shift), alignmentResampleK)
	errSum := 0.0
	for i := range resA {
		errSum += resA[i].Sub(resB[i]).LenSq()
	}
	assert.Less(t, errSum, 1e-6)
}

func TestUniformStitchRowsOpenVsClosed(t *testing.T) {
	open := UniformStitchRows(0, 4, 4, false, false)
	assert.Len(t, open, 3*6) // 3 wrap steps * 2 triangles * 3 indices

	closed := UniformStitchRows(0, 4, 4, true, false)
	assert.Len(t, closed, 4*6)
}

func TestStitchApexToRow(t *testing.T) {
	out := StitchApexToRow(8, 0, 4, true, true, false)
	assert.Len(t, out, 4*3)
	assert.Equal(t, uint32(8), out[0])
}

func TestShouldUseFKU(t *testing.T) {
	assert.True(t, ShouldUseFKU(true, 100, 100))
	assert.False(t, ShouldUseFKU(false, 100, 100))
	assert.False(t, ShouldUseFKU(true, MaxDPStitchResolution+1, 100))
}
