package sweep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
)

func straightSpine(n int) []geom.Vec3 {
	pts := make([]geom.Vec3, n)
	for i := range pts {
		pts[i] = geom.Vec3{X: 0, Y: 0, Z: float64(i)}
	}

	return pts
}

func unitCircleProfile(_, v float64, _, _ int, _ geom.Vec3) (geom.Vec2, *errstack.ErrorStack) {
	theta := v * 2 * math.Pi

	return geom.Vec2{X: math.Cos(theta), Y: math.Sin(theta)}, nil
}

func TestCalculateTangentsStraightLine(t *testing.T) {
	tans := CalculateTangents(straightSpine(4))
	for _, tan := range tans {
		assert.InDelta(t, 0.0, tan.X, 1e-9)
		assert.InDelta(t, 0.0, tan.Y, 1e-9)
		assert.InDelta(t, 1.0, tan.Z, 1e-9)
	}
}

func TestCalculateSpineFramesRMFOrthonormal(t *testing.T) {
	pts := []geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 2, Y: 1, Z: 0}}
	frames, err := CalculateSpineFrames(pts, FrameRMF, geom.Vec3{})
	require.NoError(t, err)
	require.Len(t, frames, len(pts))

	for _, f := range frames {
		assert.InDelta(t, 1.0, f.Tangent.Len(), 1e-6)
		assert.InDelta(t, 1.0, f.Normal.Len(), 1e-6)
		assert.InDelta(t, 1.0, f.Binormal.Len(), 1e-6)
		assert.InDelta(t, 0.0, f.Tangent.Dot(f.Normal), 1e-6)
		assert.InDelta(t, 0.0, f.Tangent.Dot(f.Binormal), 1e-6)
		assert.InDelta(t, 0.0, f.Normal.Dot(f.Binormal), 1e-6)
	}
}

func TestCalculateSpineFramesFixedUpRejectsZeroUp(t *testing.T) {
	_, err := CalculateSpineFrames(straightSpine(3), FrameFixedUp, geom.Vec3{})
	require.Error(t, err)
}

func TestSpineIsApproximatelyStraight(t *testing.T) {
	assert.True(t, SpineIsApproximatelyStraight(straightSpine(5)))

	bent := straightSpine(5)
	bent[2].X = 10
	assert.False(t, SpineIsApproximatelyStraight(bent))
}

func TestUniformNodesEndpoints(t *testing.T) {
	nodes := UniformNodes(5)
	assert.InDelta(t, 0.0, nodes[0], 1e-12)
	assert.InDelta(t, 1.0, nodes[len(nodes)-1], 1e-12)
}

func TestChebyshevNodesDenserAtEnds(t *testing.T) {
	nodes := ChebyshevNodes(5)
	require.Len(t, nodes, 5)
	assert.Less(t, nodes[1]-nodes[0], nodes[2]-nodes[1])
}

func TestSuperellipseNodesFallsBackOnInvalidExponent(t *testing.T) {
	_, ok := SuperellipseNodes(5, -1)
	assert.False(t, ok)

	nodes, ok := SuperellipseNodes(5, 5)
	assert.True(t, ok)
	assert.Len(t, nodes, 5)
}

func TestResampleSpinePointsAtT(t *testing.T) {
	pts := straightSpine(4)
	out, err := ResampleSpinePointsAtT(pts, []float64{0, 0.5, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[0].Z, 1e-9)
	assert.InDelta(t, 1.5, out[1].Z, 1e-9)
	assert.InDelta(t, 3.0, out[2].Z, 1e-9)
}

func TestBuildTopologySamplesForcesGuides(t *testing.T) {
	guides := []float64{0, 0.3, 1}
	out := BuildTopologySamples(8, guides, []float64{1, 3})
	assert.Contains(t, out, 0.0)
	assert.Contains(t, out, 0.3)
	assert.Contains(t, out, 1.0)
	assert.Len(t, out, 8)
}

func TestBuildTopologySamplesSkipsZeroWeightInterval(t *testing.T) {
	guides := []float64{0, 0.5, 1}
	out := BuildTopologySamples(10, guides, []float64{0, 1})
	for _, v := range out {
		assert.False(t, v > 0 && v < 0.5, "expected no interior samples in the zero-weight interval, got %v", v)
	}
}

func TestSweepStraightTubeProducesClosedRingMesh(t *testing.T) {
	in := Input{
		SpineResolution: 5,
		RingResolution:  8,
		SpinePoints:     straightSpine(5),
		Profile:         unitCircleProfile,
		FrameMode:       FrameRMF,
	}

	res, err := Sweep(in)
	require.NoError(t, err)
	require.Len(t, res.RingStarts, 5)
	for _, c := range res.RingCounts {
		assert.Equal(t, 8, c)
	}
	assert.Equal(t, 0, len(res.Indices)%3)
	assert.NotEmpty(t, res.Indices)
}

func TestSweepClosedLoopWrapsStitching(t *testing.T) {
	in := Input{
		SpineResolution: 6,
		RingResolution:  6,
		SpinePoints: []geom.Vec3{
			{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: -1, Y: 0, Z: 0},
			{X: 0, Y: -1, Z: 0}, {X: 0.7, Y: -0.7, Z: 0}, {X: 1, Y: 0, Z: 0},
		},
		Profile:   unitCircleProfile,
		FrameMode: FrameRMF,
		Closed:    true,
	}

	res, err := Sweep(in)
	require.NoError(t, err)
	assert.Equal(t, 0, len(res.Indices)%3)
}

func TestSweepCappedTube(t *testing.T) {
	in := Input{
		SpineResolution: 4,
		RingResolution:  6,
		SpinePoints:     straightSpine(4),
		Profile:         unitCircleProfile,
		FrameMode:       FrameRMF,
		Capped:          true,
	}

	res, err := Sweep(in)
	require.NoError(t, err)
	assert.Equal(t, 0, len(res.Indices)%3)
	// Two cap apexes beyond the 4 rings of 6 vertices each.
	assert.Len(t, res.Positions, 4*6+2)
}

func TestSweepRejectsBothProfileKinds(t *testing.T) {
	in := Input{
		SpineResolution: 3,
		RingResolution:  3,
		SpinePoints:     straightSpine(3),
		Profile:         unitCircleProfile,
		DynamicProfile:  func(float64) (DynamicRing, *errstack.ErrorStack) { return nil, nil },
	}

	_, err := Sweep(in)
	require.Error(t, err)
}

func TestSweepRejectsSmallResolutions(t *testing.T) {
	in := Input{SpineResolution: 1, RingResolution: 8, SpinePoints: straightSpine(3), Profile: unitCircleProfile}
	_, err := Sweep(in)
	require.Error(t, err)

	in2 := Input{SpineResolution: 3, RingResolution: 2, SpinePoints: straightSpine(3), Profile: unitCircleProfile}
	_, err = Sweep(in2)
	require.Error(t, err)
}

func TestSweepFKUStitchingEnabled(t *testing.T) {
	in := Input{
		SpineResolution: 4,
		RingResolution:  10,
		SpinePoints:     straightSpine(4),
		Profile:         unitCircleProfile,
		FrameMode:       FrameRMF,
		FKUStitching:    true,
	}

	res, err := Sweep(in)
	require.NoError(t, err)
	assert.Equal(t, 0, len(res.Indices)%3)
}

func TestDefaultMinSegmentLengthScalesWithResolution(t *testing.T) {
	coarse := defaultMinSegmentLength(4, 4)
	fine := defaultMinSegmentLength(40, 40)
	assert.Greater(t, coarse, fine)
	assert.InDelta(t, 1.5/16, coarse, 1e-12)
}

func TestDefaultMinSegmentLengthHandlesZeroResolution(t *testing.T) {
	assert.Equal(t, 1.5, defaultMinSegmentLength(0, 0))
}
