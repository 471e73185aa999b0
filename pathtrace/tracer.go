package pathtrace

import (
	"math"
	"sort"

	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
)

// PathTracer samples the path traced out by a recorded Command stream
// at normalized arc length t in [0, 1].
type PathTracer struct {
	segments          []pathSegment
	cumulativeLengths []float64
	totalLength       float64
}

// Build consumes a recorded draw-command stream into path segments. If
// closed is set, a final line connects the current position back to the
// first move. If center is set, every segment is translated so the
// stream's axis-aligned bounding box is centered at the origin.
func Build(cmds []Command, closed, center bool) *PathTracer {
	var segments []pathSegment
	var current, firstPoint *geom.Vec2
	var lastCubicCtrl, lastQuadCtrl *geom.Vec2

	min := geom.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	max := geom.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}

	getStart := func() geom.Vec2 {
		if current != nil {
			return *current
		}
		if firstPoint != nil {
			return *firstPoint
		}

		return geom.Vec2{}
	}

	for _, cmd := range cmds {
		switch cmd.Kind {
		case CmdMove:
			extendBounds(&min, &max, cmd.To)
			pos := cmd.To
			current = &pos
			if firstPoint == nil {
				fp := cmd.To
				firstPoint = &fp
			}
			lastCubicCtrl, lastQuadCtrl = nil, nil

		case CmdLine:
			start := getStart()
			extendBounds(&min, &max, start)
			extendBounds(&min, &max, cmd.To)
			length := cmd.To.Sub(start).Len()
			if length > lengthEpsilon {
				segments = append(segments, pathSegment{kind: segLine, start: start, end: cmd.To, lineLength: length})
			}
			pos := cmd.To
			current = &pos
			lastCubicCtrl, lastQuadCtrl = nil, nil

		case CmdQuadraticBezier:
			start := getStart()
			table, tmin, tmax := newArcLengthTable(curveTableSamples, func(t float64) geom.Vec2 {
				return quadraticBezier(start, cmd.Ctrl, cmd.To, t)
			})
			extendBounds(&min, &max, tmin)
			extendBounds(&min, &max, tmax)
			if table.total > lengthEpsilon {
				segments = append(segments, pathSegment{kind: segQuadratic, start: start, ctrl: cmd.Ctrl, end: cmd.To, table: table})
			}
			pos := cmd.To
			current = &pos
			ctrl := cmd.Ctrl
			lastQuadCtrl = &ctrl
			lastCubicCtrl = nil

		case CmdSmoothQuadraticBezier:
			start := getStart()
			ctrl := start
			if lastQuadCtrl != nil {
				ctrl = start.Add(start.Sub(*lastQuadCtrl))
			}
			table, tmin, tmax := newArcLengthTable(curveTableSamples, func(t float64) geom.Vec2 {
				return quadraticBezier(start, ctrl, cmd.To, t)
			})
			extendBounds(&min, &max, tmin)
			extendBounds(&min, &max, tmax)
			if table.total > lengthEpsilon {
				segments = append(segments, pathSegment{kind: segQuadratic, start: start, ctrl: ctrl, end: cmd.To, table: table})
			}
			pos := cmd.To
			current = &pos
			lastQuadCtrl = &ctrl
			lastCubicCtrl = nil

		case CmdCubicBezier:
			start := getStart()
			table, tmin, tmax := newArcLengthTable(curveTableSamples, func(t float64) geom.Vec2 {
				return cubicBezier(start, cmd.Ctrl1, cmd.Ctrl2, cmd.To, t)
			})
			extendBounds(&min, &max, tmin)
			extendBounds(&min, &max, tmax)
			if table.total > lengthEpsilon {
				segments = append(segments, pathSegment{kind: segCubic, start: start, ctrl1: cmd.Ctrl1, ctrl2: cmd.Ctrl2, end: cmd.To, table: table})
			}
			pos := cmd.To
			current = &pos
			ctrl2 := cmd.Ctrl2
			lastCubicCtrl = &ctrl2
			lastQuadCtrl = nil

		case CmdSmoothCubicBezier:
			start := getStart()
			ctrl1 := start
			if lastCubicCtrl != nil {
				ctrl1 = start.Add(start.Sub(*lastCubicCtrl))
			}
			table, tmin, tmax := newArcLengthTable(curveTableSamples, func(t float64) geom.Vec2 {
				return cubicBezier(start, ctrl1, cmd.Ctrl2, cmd.To, t)
			})
			extendBounds(&min, &max, tmin)
			extendBounds(&min, &max, tmax)
			if table.total > lengthEpsilon {
				segments = append(segments, pathSegment{kind: segCubic, start: start, ctrl1: ctrl1, ctrl2: cmd.Ctrl2, end: cmd.To, table: table})
			}
			pos := cmd.To
			current = &pos
			ctrl2 := cmd.Ctrl2
			lastCubicCtrl = &ctrl2
			lastQuadCtrl = nil

		case CmdArc:
			start := getStart()
			if seg, tmin, tmax, ok := buildArcSegment(start, cmd.To, cmd.Rx, cmd.Ry, cmd.XAxisRotation, cmd.LargeArc, cmd.Sweep); ok {
				extendBounds(&min, &max, tmin)
				extendBounds(&min, &max, tmax)
				if seg.segLength() > lengthEpsilon {
					segments = append(segments, seg)
				}
			}
			pos := cmd.To
			current = &pos
			lastCubicCtrl, lastQuadCtrl = nil, nil

		case CmdClose:
			if current != nil && firstPoint != nil {
				extendBounds(&min, &max, *current)
				extendBounds(&min, &max, *firstPoint)
				length := firstPoint.Sub(*current).Len()
				if length > lengthEpsilon {
					segments = append(segments, pathSegment{kind: segLine, start: *current, end: *firstPoint, lineLength: length})
				}
				fp := *firstPoint
				current = &fp
			}
			lastCubicCtrl, lastQuadCtrl = nil, nil
		}
	}

	if closed && current != nil {
		start := *current
		if firstPoint != nil {
			start = *firstPoint
		}
		extendBounds(&min, &max, *current)
		extendBounds(&min, &max, start)
		length := start.Sub(*current).Len()
		if length > lengthEpsilon {
			segments = append(segments, pathSegment{kind: segLine, start: *current, end: start, lineLength: length})
		}
	}

	if center && min.X <= max.X {
		centerPt := min.Add(max).Scale(0.5)
		offset := geom.Vec2{X: -centerPt.X, Y: -centerPt.Y}
		for i := range segments {
			segments[i].translate(offset)
		}
	}

	cumulativeLengths := make([]float64, len(segments))
	var total float64
	for i, seg := range segments {
		total += seg.segLength()
		cumulativeLengths[i] = total
	}

	return &PathTracer{segments: segments, cumulativeLengths: cumulativeLengths, totalLength: total}
}

// Sample evaluates the traced path at normalized arc length t, clamped
// to [0, 1].
func (pt *PathTracer) Sample(t float64) (geom.Vec2, error) {
	if len(pt.segments) == 0 || pt.totalLength <= lengthEpsilon {
		return geom.Vec2{}, errstack.New(errstack.ErrGeometric, "trace_path path has no drawable segments to sample")
	}

	t = clampf(t, 0, 1)
	target := t * pt.totalLength
	idx := sort.Search(len(pt.cumulativeLengths), func(i int) bool { return pt.cumulativeLengths[i] >= target })
	if idx >= len(pt.segments) {
		idx = len(pt.segments) - 1
	}

	segStartLen := 0.0
	if idx > 0 {
		segStartLen = pt.cumulativeLengths[idx-1]
	}
	seg := &pt.segments[idx]
	segLen := seg.segLength()
	if segLen <= lengthEpsilon {
		return seg.segEnd(), nil
	}
	localLen := clampf(target-segStartLen, 0, segLen)

	return seg.sampleByLength(localLen), nil
}
