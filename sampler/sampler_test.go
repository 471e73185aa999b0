package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/geom"
)

func circleProfile(t float64) (geom.Vec2, error) {
	angle := t * 2 * math.Pi

	return geom.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}, nil
}

func helix3D(t float64) (geom.Vec3, error) {
	angle := t * 4 * math.Pi

	return geom.Vec3{X: math.Cos(angle), Y: math.Sin(angle), Z: t * 2}, nil
}

func assertSortedAndInRange(t *testing.T, result []float64) {
	t.Helper()
	for i, v := range result {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
		if i > 0 {
			assert.Greater(t, v, result[i-1])
		}
	}
}

func TestSampleBasic(t *testing.T) {
	result, err := Sample[geom.Vec2](10, []float64{0, 1}, circleProfile, 1e-5)
	require.NoError(t, err)
	assert.Len(t, result, 10)
	assertSortedAndInRange(t, result)
}

func TestSampleRespectsCriticalPoints(t *testing.T) {
	critical := []float64{0, 0.25, 0.5, 0.75, 1}
	result, err := Sample[geom.Vec2](10, critical, circleProfile, 1e-5)
	require.NoError(t, err)
	assert.Len(t, result, 10)

	for _, cp := range []float64{0, 0.25, 0.5, 0.75} {
		found := false
		for _, v := range result {
			if math.Abs(v-cp) < 1e-5 {
				found = true

				break
			}
		}
		assert.True(t, found, "expected critical point %v in result", cp)
	}
}

func TestSampleTargetCount(t *testing.T) {
	for _, target := range []int{3, 5, 10, 20, 50} {
		result, err := Sample[geom.Vec2](target, []float64{0, 1}, circleProfile, 1e-5)
		require.NoError(t, err)
		assert.Len(t, result, target)
	}
}

func TestSampleEmptyAndSingle(t *testing.T) {
	result, err := Sample[geom.Vec2](0, []float64{0, 1}, circleProfile, 1e-5)
	require.NoError(t, err)
	assert.Empty(t, result)

	result, err = Sample[geom.Vec2](1, []float64{0, 1}, circleProfile, 1e-5)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.InDelta(t, 0.0, result[0], 1e-5)
}

func TestSample3DHelix(t *testing.T) {
	result, err := Sample[geom.Vec3](15, []float64{0, 1}, helix3D, 1e-5)
	require.NoError(t, err)
	assert.Len(t, result, 15)
	assertSortedAndInRange(t, result)
}

// superellipseProfile traces a superellipse with exponent 8: nearly
// flat sides joined by four tight corners, so curvature is heavily
// concentrated at the corners.
func superellipseProfile(t float64) (geom.Vec2, error) {
	angle := t * 2 * math.Pi
	c, s := math.Cos(angle), math.Sin(angle)
	exp := 2.0 / 8.0

	return geom.Vec2{
		X: math.Copysign(math.Pow(math.Abs(c), exp), c),
		Y: math.Copysign(math.Pow(math.Abs(s), exp), s),
	}, nil
}

// sampleGaps returns the smallest and largest gap between consecutive
// t-values, including the closing gap from the last sample back to 1.0
// (the output range is [0, 1), so the parameter wraps).
func sampleGaps(t *testing.T, result []float64) (minGap, maxGap float64) {
	t.Helper()
	require.NotEmpty(t, result)
	minGap, maxGap = math.MaxFloat64, 0.0
	for i := 1; i <= len(result); i++ {
		var gap float64
		if i == len(result) {
			gap = 1.0 - result[i-1] + result[0]
		} else {
			gap = result[i] - result[i-1]
		}
		minGap = math.Min(minGap, gap)
		maxGap = math.Max(maxGap, gap)
	}

	return minGap, maxGap
}

// A circle has uniform curvature, so 8 samples with no interior critical
// points must come out close to evenly spaced: the largest gap stays
// under three times the smallest.
func TestSampleCircleGapsNearUniform(t *testing.T) {
	result, err := Sample[geom.Vec2](8, []float64{0, 1}, circleProfile, 1e-5)
	require.NoError(t, err)
	require.Len(t, result, 8)
	assertSortedAndInRange(t, result)

	minGap, maxGap := sampleGaps(t, result)
	assert.Less(t, maxGap/minGap, 3.0,
		"circle sampling should be near-uniform, got gaps [%v, %v]", minGap, maxGap)
}

// A high-exponent superellipse concentrates samples at its corners, so
// the flat sides must end up with visibly coarser spacing than the
// corners: the largest gap exceeds the smallest by at least 1.5x.
func TestSampleSuperellipseConcentratesAtCorners(t *testing.T) {
	result, err := Sample[geom.Vec2](20, []float64{0, 1}, superellipseProfile, 1e-5)
	require.NoError(t, err)
	require.Len(t, result, 20)
	assertSortedAndInRange(t, result)

	minGap, maxGap := sampleGaps(t, result)
	assert.GreaterOrEqual(t, maxGap, 1.5*minGap,
		"corner curvature should concentrate samples, got gaps [%v, %v]", minGap, maxGap)
}

func TestSampleMinSegmentLengthLimitsSubdivision(t *testing.T) {
	result, err := Sample[geom.Vec2](100, []float64{0, 1}, circleProfile, 0.2)
	require.NoError(t, err)
	assert.Less(t, len(result), 100)
}

func TestSnapCriticalPointsPrefersCriticalOnOverlap(t *testing.T) {
	base := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5}
	critical := []float64{0.201}

	out := SnapCriticalPoints(base, critical, 10)
	found201 := false
	for _, v := range out {
		if math.Abs(v-0.201) < 1e-9 {
			found201 = true
		}
		assert.NotEqual(t, 0.2, v)
	}
	assert.True(t, found201, "critical point should have replaced the nearby base sample")
}

func TestSnapCriticalPointsEmptyInputs(t *testing.T) {
	assert.Empty(t, SnapCriticalPoints(nil, nil, 10))
}
