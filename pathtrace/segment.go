package pathtrace

import (
	"math"
	"sort"

	"github.com/katalvlaran/geoscript/geom"
)

// curveTableSamples is the resolution of the arc-length lookup table
// built for every curved segment (quadratic, cubic, arc).
const curveTableSamples = 32

// lengthEpsilon is the minimum segment length (or table total length)
// treated as non-degenerate.
const lengthEpsilon = 1e-5

func extendBounds(min, max *geom.Vec2, p geom.Vec2) {
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

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}

	return x
}

// arcLengthTable maps a curve parameter's cumulative chord length back
// to its originating parameter, via curveTableSamples uniform samples.
type arcLengthTable struct {
	cumulative []float64
	total      float64
}

func newArcLengthTable(samples int, sampleFn func(t float64) geom.Vec2) (arcLengthTable, geom.Vec2, geom.Vec2) {
	if samples < 1 {
		samples = 1
	}

	cumulative := make([]float64, 0, samples+1)
	var total float64

	min := geom.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	max := geom.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}

	prev := sampleFn(0)
	extendBounds(&min, &max, prev)
	cumulative = append(cumulative, 0)

	for i := 1; i <= samples; i++ {
		t := float64(i) / float64(samples)
		p := sampleFn(t)
		extendBounds(&min, &max, p)
		total += p.Sub(prev).Len()
		cumulative = append(cumulative, total)
		prev = p
	}

	return arcLengthTable{cumulative: cumulative, total: total}, min, max
}

// paramForLength inverts the table: given a target chord length along
// the curve, returns the parameter t that produces it.
func (t arcLengthTable) paramForLength(length float64) float64 {
	if t.total <= lengthEpsilon {
		return 0
	}

	target := clampf(length, 0, t.total)
	idx := sort.Search(len(t.cumulative), func(i int) bool { return t.cumulative[i] >= target })
	if idx == 0 {
		return 0
	}
	if idx >= len(t.cumulative) {
		return 1
	}

	prev := t.cumulative[idx-1]
	next := t.cumulative[idx]
	span := next - prev
	alpha := 0.0
	if span > 0 {
		alpha = (target - prev) / span
	}

	samples := float64(len(t.cumulative) - 1)
	t0 := float64(idx-1) / samples
	t1 := float64(idx) / samples

	return t0 + (t1-t0)*alpha
}

func quadraticBezier(p0, p1, p2 geom.Vec2, t float64) geom.Vec2 {
	u := 1 - t
	tt := t * t
	uu := u * u

	return p0.Scale(uu).Add(p1.Scale(2 * u * t)).Add(p2.Scale(tt))
}

func cubicBezier(p0, p1, p2, p3 geom.Vec2, t float64) geom.Vec2 {
	u := 1 - t
	tt := t * t
	uu := u * u
	uuu := uu * u
	ttt := tt * t

	return p0.Scale(uuu).Add(p1.Scale(3 * uu * t)).Add(p2.Scale(3 * u * tt)).Add(p3.Scale(ttt))
}

func arcPoint(center geom.Vec2, rx, ry, cosPhi, sinPhi, thetaStart, thetaDelta, t float64) geom.Vec2 {
	theta := thetaStart + thetaDelta*t
	sinTheta, cosTheta := math.Sincos(theta)
	x := rx * cosTheta
	y := ry * sinTheta
	px := cosPhi*x - sinPhi*y + center.X
	py := sinPhi*x + cosPhi*y + center.Y

	return geom.Vec2{X: px, Y: py}
}

type segmentKind int

const (
	segLine segmentKind = iota
	segQuadratic
	segCubic
	segArc
)

// pathSegment is one arc-length-sampleable piece of a recorded path
//: a line, a quadratic or cubic Bezier with a precomputed
// arc-length table, or an SVG-style arc converted to center
// parameterization with its own table.
type pathSegment struct {
	kind segmentKind

	start, end geom.Vec2
	lineLength float64

	ctrl              geom.Vec2 // quadratic
	ctrl1, ctrl2      geom.Vec2 // cubic
	center            geom.Vec2 // arc
	rx, ry            float64
	cosPhi, sinPhi    float64
	thetaStart        float64
	thetaDelta        float64
	table             arcLengthTable
}

func (s *pathSegment) translate(offset geom.Vec2) {
	switch s.kind {
	case segLine:
		s.start = s.start.Add(offset)
		s.end = s.end.Add(offset)
	case segQuadratic:
		s.start = s.start.Add(offset)
		s.ctrl = s.ctrl.Add(offset)
		s.end = s.end.Add(offset)
	case segCubic:
		s.start = s.start.Add(offset)
		s.ctrl1 = s.ctrl1.Add(offset)
		s.ctrl2 = s.ctrl2.Add(offset)
		s.end = s.end.Add(offset)
	case segArc:
		s.center = s.center.Add(offset)
		s.end = s.end.Add(offset)
	}
}

func (s *pathSegment) segLength() float64 {
	switch s.kind {
	case segLine:
		return s.lineLength
	default:
		return s.table.total
	}
}

func (s *pathSegment) segEnd() geom.Vec2 {
	return s.end
}

func (s *pathSegment) sampleByLength(length float64) geom.Vec2 {
	switch s.kind {
	case segLine:
		if s.lineLength <= lengthEpsilon {
			return s.end
		}
		t := clampf(length/s.lineLength, 0, 1)

		return s.start.Lerp(s.end, t)
	case segQuadratic:
		t := s.table.paramForLength(length)

		return quadraticBezier(s.start, s.ctrl, s.end, t)
	case segCubic:
		t := s.table.paramForLength(length)

		return cubicBezier(s.start, s.ctrl1, s.ctrl2, s.end, t)
	case segArc:
		t := s.table.paramForLength(length)

		return arcPoint(s.center, s.rx, s.ry, s.cosPhi, s.sinPhi, s.thetaStart, s.thetaDelta, t)
	default:
		return s.end
	}
}

// buildArcSegment converts an SVG-style arc (endpoint parameterization)
// to a center-parameterized pathSegment with a precomputed arc-length
// table, following the standard SVG 1.1 appendix F.6 conversion. ok is
// false when the arc degenerates to nothing (zero-length chord).
func buildArcSegment(start, end geom.Vec2, rx, ry, xAxisRotation float64, largeArc, sweep bool) (seg pathSegment, min, max geom.Vec2, ok bool) {
	rx = math.Abs(rx)
	ry = math.Abs(ry)

	if rx <= lengthEpsilon || ry <= lengthEpsilon {
		length := end.Sub(start).Len()
		min, max = start, start
		extendBounds(&min, &max, end)

		return pathSegment{kind: segLine, start: start, end: end, lineLength: length}, min, max, true
	}

	if end.Sub(start).Len() <= lengthEpsilon {
		return pathSegment{}, geom.Vec2{}, geom.Vec2{}, false
	}

	phi := xAxisRotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	dx := (start.X - end.X) / 2
	dy := (start.Y - end.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		scale := math.Sqrt(lambda)
		rx *= scale
		ry *= scale
	}

	rxSq, rySq := rx*rx, ry*ry
	x1pSq, y1pSq := x1p*x1p, y1p*y1p
	denom := rxSq*y1pSq + rySq*x1pSq
	if math.Abs(denom) <= lengthEpsilon {
		length := end.Sub(start).Len()
		min, max = start, start
		extendBounds(&min, &max, end)

		return pathSegment{kind: segLine, start: start, end: end, lineLength: length}, min, max, true
	}

	numerator := rxSq*rySq - rxSq*y1pSq - rySq*x1pSq
	coef := math.Sqrt(math.Max(numerator/denom, 0))
	if largeArc == sweep {
		coef = -coef
	}

	cxp := coef * (rx * y1p / ry)
	cyp := coef * (-ry * x1p / rx)
	cx := cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2
	center := geom.Vec2{X: cx, Y: cy}

	v1 := geom.Vec2{X: (x1p - cxp) / rx, Y: (y1p - cyp) / ry}
	v2 := geom.Vec2{X: (-x1p - cxp) / rx, Y: (-y1p - cyp) / ry}
	thetaStart := math.Atan2(v1.Y, v1.X)
	thetaDelta := math.Atan2(v1.X*v2.Y-v1.Y*v2.X, v1.X*v2.X+v1.Y*v2.Y)

	if !sweep && thetaDelta > 0 {
		thetaDelta -= 2 * math.Pi
	} else if sweep && thetaDelta < 0 {
		thetaDelta += 2 * math.Pi
	}

	table, tmin, tmax := newArcLengthTable(curveTableSamples, func(t float64) geom.Vec2 {
		return arcPoint(center, rx, ry, cosPhi, sinPhi, thetaStart, thetaDelta, t)
	})

	return pathSegment{
		kind: segArc, end: end, center: center, rx: rx, ry: ry,
		cosPhi: cosPhi, sinPhi: sinPhi, thetaStart: thetaStart, thetaDelta: thetaDelta, table: table,
	}, tmin, tmax, true
}
