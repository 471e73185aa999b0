package pathtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/value"
)

func TestPathTracerSamplesLinearPath(t *testing.T) {
	cmds := []Command{
		MoveTo(geom.Vec2{X: 0, Y: 0}),
		LineTo(geom.Vec2{X: 10, Y: 0}),
	}
	pt := Build(cmds, false, false)

	start, err := pt.Sample(0)
	require.NoError(t, err)
	assert.InDelta(t, 0, start.X, 1e-9)
	assert.InDelta(t, 0, start.Y, 1e-9)

	mid, err := pt.Sample(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 5, mid.X, 1e-9)
	assert.InDelta(t, 0, mid.Y, 1e-9)

	end, err := pt.Sample(1.0)
	require.NoError(t, err)
	assert.InDelta(t, 10, end.X, 1e-9)
	assert.InDelta(t, 0, end.Y, 1e-9)
}

func TestPathTracerSamplesArcEndpoints(t *testing.T) {
	cmds := []Command{
		MoveTo(geom.Vec2{X: 10, Y: 0}),
		ArcTo(10, 10, 0, false, true, geom.Vec2{X: 0, Y: 10}),
	}
	pt := Build(cmds, false, false)

	start, err := pt.Sample(0)
	require.NoError(t, err)
	assert.InDelta(t, 10, start.X, 1e-6)
	assert.InDelta(t, 0, start.Y, 1e-6)

	end, err := pt.Sample(1.0)
	require.NoError(t, err)
	assert.InDelta(t, 0, end.X, 1e-6)
	assert.InDelta(t, 10, end.Y, 1e-6)
}

func TestPathTracerClosedAppendsClosingLine(t *testing.T) {
	cmds := []Command{
		MoveTo(geom.Vec2{X: 0, Y: 0}),
		LineTo(geom.Vec2{X: 10, Y: 0}),
		LineTo(geom.Vec2{X: 10, Y: 10}),
	}
	open := Build(cmds, false, false)
	closed := Build(cmds, true, false)

	assert.Greater(t, closed.totalLength, open.totalLength)

	end, err := closed.Sample(1.0)
	require.NoError(t, err)
	assert.InDelta(t, 0, end.X, 1e-9)
	assert.InDelta(t, 0, end.Y, 1e-9)
}

func TestPathTracerCenterTranslatesToOrigin(t *testing.T) {
	cmds := []Command{
		MoveTo(geom.Vec2{X: 0, Y: 0}),
		LineTo(geom.Vec2{X: 10, Y: 0}),
		LineTo(geom.Vec2{X: 10, Y: 10}),
		LineTo(geom.Vec2{X: 0, Y: 10}),
	}
	pt := Build(cmds, true, true)

	var min, max geom.Vec2
	min = geom.Vec2{X: 1e18, Y: 1e18}
	max = geom.Vec2{X: -1e18, Y: -1e18}
	for _, seg := range pt.segments {
		for _, p := range []geom.Vec2{seg.start, seg.end} {
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	center := min.Add(max).Scale(0.5)
	assert.InDelta(t, 0, center.X, 1e-6)
	assert.InDelta(t, 0, center.Y, 1e-6)
}

func TestPathTracerSmoothCubicReflectsPreviousControl(t *testing.T) {
	cmds := []Command{
		MoveTo(geom.Vec2{X: 0, Y: 0}),
		CubicBezierTo(geom.Vec2{X: 0, Y: 10}, geom.Vec2{X: 10, Y: 10}, geom.Vec2{X: 10, Y: 0}),
		SmoothCubicBezierTo(geom.Vec2{X: 20, Y: 10}, geom.Vec2{X: 20, Y: 0}),
	}
	pt := Build(cmds, false, false)
	require.Len(t, pt.segments, 2)

	reflected := pt.segments[1].ctrl1
	assert.InDelta(t, 10, reflected.X, 1e-9)
	assert.InDelta(t, -10, reflected.Y, 1e-9)
}

func TestPathTracerSmoothQuadraticReflectsPreviousControl(t *testing.T) {
	cmds := []Command{
		MoveTo(geom.Vec2{X: 0, Y: 0}),
		QuadraticBezierTo(geom.Vec2{X: 5, Y: 10}, geom.Vec2{X: 10, Y: 0}),
		SmoothQuadraticBezierTo(geom.Vec2{X: 20, Y: 0}),
	}
	pt := Build(cmds, false, false)
	require.Len(t, pt.segments, 2)

	reflected := pt.segments[1].ctrl
	assert.InDelta(t, 15, reflected.X, 1e-9)
	assert.InDelta(t, -10, reflected.Y, 1e-9)
}

func TestPathTracerDegenerateSegmentsAreDropped(t *testing.T) {
	cmds := []Command{
		MoveTo(geom.Vec2{X: 0, Y: 0}),
		LineTo(geom.Vec2{X: 0, Y: 0}),
		LineTo(geom.Vec2{X: 10, Y: 0}),
	}
	pt := Build(cmds, false, false)
	assert.Len(t, pt.segments, 1)
}

func TestPathTracerSampleWithNoSegmentsErrors(t *testing.T) {
	pt := Build(nil, false, false)
	_, err := pt.Sample(0.5)
	assert.Error(t, err)
}

func TestTracerCallableInvokeByPositionalAndKwarg(t *testing.T) {
	cmds := []Command{
		MoveTo(geom.Vec2{X: 0, Y: 0}),
		LineTo(geom.Vec2{X: 4, Y: 0}),
	}
	tc := &tracerCallable{tracer: Build(cmds, false, false)}

	byPos, err := tc.Invoke([]value.Value{value.FloatValue(0.5)}, nil)
	require.NoError(t, err)

	byKwarg, err := tc.Invoke(nil, map[string]value.Value{"t": value.FloatValue(0.5)})
	require.NoError(t, err)

	assert.Equal(t, byPos, byKwarg)
}

func TestParseSVGPathAbsoluteAndRelativeLines(t *testing.T) {
	cmds, err := parseSVGPath("M0 0 L10 0 l0 10 Z")
	require.NoError(t, err)
	require.Len(t, cmds, 4)
	assert.Equal(t, CmdMove, cmds[0].Kind)
	assert.Equal(t, CmdLine, cmds[1].Kind)
	assert.InDelta(t, 10, cmds[1].To.X, 1e-9)
	assert.Equal(t, CmdLine, cmds[2].Kind)
	assert.InDelta(t, 10, cmds[2].To.Y, 1e-9)
	assert.Equal(t, CmdLine, cmds[3].Kind)
}

func TestParseSVGPathHorizontalAndVerticalShorthand(t *testing.T) {
	cmds, err := parseSVGPath("M0 0 H5 V5 h-2 v-2")
	require.NoError(t, err)
	require.Len(t, cmds, 5)
	assert.InDelta(t, 5, cmds[1].To.X, 1e-9)
	assert.InDelta(t, 0, cmds[1].To.Y, 1e-9)
	assert.InDelta(t, 5, cmds[2].To.X, 1e-9)
	assert.InDelta(t, 5, cmds[2].To.Y, 1e-9)
	assert.InDelta(t, 3, cmds[3].To.X, 1e-9)
	assert.InDelta(t, 3, cmds[4].To.Y, 1e-9)
}

func TestParseSVGPathCubicAndSmoothCubic(t *testing.T) {
	cmds, err := parseSVGPath("M0 0 C0 10 10 10 10 0 S20 -10 20 0")
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, CmdCubicBezier, cmds[1].Kind)
	assert.Equal(t, CmdCubicBezier, cmds[2].Kind)
	assert.InDelta(t, 10, cmds[2].Ctrl1.X, 1e-9)
	assert.InDelta(t, -10, cmds[2].Ctrl1.Y, 1e-9)
}

func TestParseSVGPathQuadraticAndSmoothQuadratic(t *testing.T) {
	cmds, err := parseSVGPath("M0 0 Q5 10 10 0 T20 0")
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, CmdQuadraticBezier, cmds[1].Kind)
	assert.Equal(t, CmdQuadraticBezier, cmds[2].Kind)
}

func TestParseSVGPathArcWithPackedFlags(t *testing.T) {
	cmds, err := parseSVGPath("M10 0 A10 10 0 0110 10")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, CmdArc, cmds[1].Kind)
	assert.False(t, cmds[1].LargeArc)
	assert.True(t, cmds[1].Sweep)
	assert.InDelta(t, 10, cmds[1].To.X, 1e-9)
	assert.InDelta(t, 10, cmds[1].To.Y, 1e-9)
}

func TestParseSVGPathImplicitMoveRepeatIsLineTo(t *testing.T) {
	cmds, err := parseSVGPath("M0 0 10 0 10 10")
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, CmdMove, cmds[0].Kind)
	assert.Equal(t, CmdLine, cmds[1].Kind)
	assert.Equal(t, CmdLine, cmds[2].Kind)
}

func TestParseSVGPathRejectsUnknownCommand(t *testing.T) {
	_, err := parseSVGPath("M0 0 X5 5")
	assert.Error(t, err)
}

func TestTraceSVGPathBuildsSampleableTracer(t *testing.T) {
	v, err := TraceSVGPath("M0 0 L10 0", false)
	require.NoError(t, err)

	tc, ok := v.AsCallable()
	require.True(t, ok)
	require.NotNil(t, tc.Dynamic)

	out, err := tc.Dynamic.Invoke([]value.Value{value.FloatValue(1.0)}, nil)
	require.NoError(t, err)
	end, ok := out.AsVec2()
	require.True(t, ok)
	assert.InDelta(t, 10, end.X, 1e-9)
}
