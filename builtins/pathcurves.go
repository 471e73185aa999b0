package builtins

import (
	"math"

	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/mesh"
	"github.com/katalvlaran/geoscript/pathtrace"
	"github.com/katalvlaran/geoscript/seq"
	"github.com/katalvlaran/geoscript/value"
)

// closureInvokerAdapter satisfies pathtrace.ClosureInvoker by routing
// through ctx.Invoke, letting pathtrace stay ignorant of package eval
// (the recorder scope only needs to run one closure to completion).
type closureInvokerAdapter struct{ ctx *Context }

func (a closureInvokerAdapter) InvokeClosure(c *value.Closure, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	return a.ctx.Invoke(&value.Callable{Kind: value.CallClosure, Closure: c}, args, kwargs)
}

// registerPathCurves wires the 2D path tracer (trace_path/trace_svg_path)
// and the parametric space-curve generators.
func registerPathCurves(r *builtin.Registry, ctx *Context) {
	r.Define(builtin.FnDef{
		Name: "trace_path", Module: "path",
		Doc: "runs a closure whose scope exposes move/line/*bezier/arc/close drawing commands, returning a callable sampled by arc-length fraction t",
		Signatures: []builtin.FnSignature{sig(
			req("fn", builtin.TCallable),
			optDef("closed", constDefault(value.BoolValue(false)), builtin.TBool),
			optDef("center", constDefault(value.BoolValue(false)), builtin.TBool),
		)},
	}, func(args []value.Value) (value.Value, error) {
		cb, err := asCallable("trace_path", args[0])
		if err != nil {
			return value.Value{}, err
		}
		closed, _ := args[1].AsBool()
		center, _ := args[2].AsBool()
		if ctx.Symbols == nil {
			return value.Value{}, errstack.New(errstack.ErrRuntime, "trace_path: no symbol table configured on this evaluation context")
		}
		return pathtrace.TracePath(closureInvokerAdapter{ctx}, ctx.Symbols, cb, closed, center)
	})

	r.Define(builtin.FnDef{
		Name: "trace_svg_path", Module: "path",
		Signatures: []builtin.FnSignature{sig(
			req("d", builtin.TString),
			optDef("center", constDefault(value.BoolValue(false)), builtin.TBool),
		)},
	}, func(args []value.Value) (value.Value, error) {
		d, err := asString("trace_svg_path", args[0])
		if err != nil {
			return value.Value{}, err
		}
		center, _ := args[1].AsBool()
		return pathtrace.TraceSVGPath(d, center)
	})

	r.Define(builtin.FnDef{
		Name: "bezier3d", Module: "path", Pure: true,
		Doc: "a cubic Bezier space curve through four control points, sampled as a point sequence",
		Signatures: []builtin.FnSignature{sig(
			req("p0", builtin.TVec3), req("p1", builtin.TVec3), req("p2", builtin.TVec3), req("p3", builtin.TVec3),
			optDef("segments", constDefault(value.IntValue(32)), builtin.TInt),
		)},
	}, func(args []value.Value) (value.Value, error) {
		p0, err := asVec3("bezier3d", args[0])
		if err != nil {
			return value.Value{}, err
		}
		p1, err := asVec3("bezier3d", args[1])
		if err != nil {
			return value.Value{}, err
		}
		p2, err := asVec3("bezier3d", args[2])
		if err != nil {
			return value.Value{}, err
		}
		p3, err := asVec3("bezier3d", args[3])
		if err != nil {
			return value.Value{}, err
		}
		segs, err := asInt("bezier3d", args[4])
		if err != nil {
			return value.Value{}, err
		}
		return sampleCurve3d(int(segs), func(t float64) geom.Vec3 {
			return cubicBezier3d(p0, p1, p2, p3, t)
		}), nil
	})

	r.Define(builtin.FnDef{
		Name: "superellipse_path", Module: "path", Pure: true,
		Doc: "a 2D superellipse |x/a|^n + |y/b|^n = 1 boundary, sampled as a vec2 point sequence",
		Signatures: []builtin.FnSignature{sig(
			req("a", builtin.TNumeric), req("b", builtin.TNumeric), req("n", builtin.TNumeric),
			optDef("segments", constDefault(value.IntValue(64)), builtin.TInt),
		)},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asFloat("superellipse_path", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asFloat("superellipse_path", args[1])
		if err != nil {
			return value.Value{}, err
		}
		n, err := asFloat("superellipse_path", args[2])
		if err != nil {
			return value.Value{}, err
		}
		segs, err := asInt("superellipse_path", args[3])
		if err != nil {
			return value.Value{}, err
		}
		out := make([]value.Value, 0, segs)
		for i := 0; i < int(segs); i++ {
			theta := 2 * math.Pi * float64(i) / float64(segs)
			x := superellipseCoord(math.Cos(theta), a, n)
			y := superellipseCoord(math.Sin(theta), b, n)
			out = append(out, value.Vec2Value(geom.Vec2{X: x, Y: y}))
		}
		return value.SequenceValue(seq.NewSlice(out)), nil
	})

	r.Define(builtin.FnDef{
		Name: "torus_knot_path", Module: "path", Pure: true,
		Doc: "the (p, q) torus knot on a torus of radii (R, r), sampled as a vec3 point sequence",
		Signatures: []builtin.FnSignature{sig(
			req("p", builtin.TInt), req("q", builtin.TInt), req("big_r", builtin.TNumeric), req("small_r", builtin.TNumeric),
			optDef("segments", constDefault(value.IntValue(256)), builtin.TInt),
		)},
	}, func(args []value.Value) (value.Value, error) {
		p, err := asInt("torus_knot_path", args[0])
		if err != nil {
			return value.Value{}, err
		}
		q, err := asInt("torus_knot_path", args[1])
		if err != nil {
			return value.Value{}, err
		}
		bigR, err := asFloat("torus_knot_path", args[2])
		if err != nil {
			return value.Value{}, err
		}
		smallR, err := asFloat("torus_knot_path", args[3])
		if err != nil {
			return value.Value{}, err
		}
		segs, err := asInt("torus_knot_path", args[4])
		if err != nil {
			return value.Value{}, err
		}
		return sampleCurve3d(int(segs), func(t float64) geom.Vec3 {
			return torusKnotPoint(float64(p), float64(q), bigR, smallR, t)
		}), nil
	})

	r.Define(builtin.FnDef{
		Name: "lissajous_knot_path", Module: "path", Pure: true,
		Doc: "a 3D Lissajous curve x=sin(nx t+phase.x), y=sin(ny t+phase.y), z=sin(nz t+phase.z), scaled by radius",
		Signatures: []builtin.FnSignature{sig(
			req("frequencies", builtin.TVec3), req("phase", builtin.TVec3), req("radius", builtin.TNumeric),
			optDef("segments", constDefault(value.IntValue(256)), builtin.TInt),
		)},
	}, func(args []value.Value) (value.Value, error) {
		freq, err := asVec3("lissajous_knot_path", args[0])
		if err != nil {
			return value.Value{}, err
		}
		phase, err := asVec3("lissajous_knot_path", args[1])
		if err != nil {
			return value.Value{}, err
		}
		radius, err := asFloat("lissajous_knot_path", args[2])
		if err != nil {
			return value.Value{}, err
		}
		segs, err := asInt("lissajous_knot_path", args[3])
		if err != nil {
			return value.Value{}, err
		}
		return sampleCurve3d(int(segs), func(t float64) geom.Vec3 {
			theta := 2 * math.Pi * t
			return geom.Vec3{
				X: radius * math.Sin(freq.X*theta+phase.X),
				Y: radius * math.Sin(freq.Y*theta+phase.Y),
				Z: radius * math.Sin(freq.Z*theta+phase.Z),
			}
		}), nil
	})

	r.Define(builtin.FnDef{
		Name: "trace_geodesic_path", Module: "path",
		Doc: "walks approximately along a mesh's surface from an origin point in a tangent direction, snapping each step to the nearest surface point",
		Signatures: []builtin.FnSignature{sig(
			req("m", builtin.TMesh), req("origin", builtin.TVec3), req("direction", builtin.TVec3), req("length", builtin.TNumeric),
			optDef("steps", constDefault(value.IntValue(32)), builtin.TInt),
		)},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("trace_geodesic_path", args[0])
		if err != nil {
			return value.Value{}, err
		}
		origin, err := asVec3("trace_geodesic_path", args[1])
		if err != nil {
			return value.Value{}, err
		}
		dir, err := asVec3("trace_geodesic_path", args[2])
		if err != nil {
			return value.Value{}, err
		}
		length, err := asFloat("trace_geodesic_path", args[3])
		if err != nil {
			return value.Value{}, err
		}
		steps, err := asInt("trace_geodesic_path", args[4])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.NewSlice(traceGeodesic(h, origin, dir, length, int(steps)))), nil
	})
}

func sampleCurve3d(segments int, fn func(t float64) geom.Vec3) value.Value {
	if segments < 1 {
		segments = 1
	}
	out := make([]value.Value, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		out = append(out, value.Vec3Value(fn(t)))
	}
	return value.SequenceValue(seq.NewSlice(out))
}

func cubicBezier3d(p0, p1, p2, p3 geom.Vec3, t float64) geom.Vec3 {
	u := 1 - t
	a := p0.Scale(u * u * u)
	b := p1.Scale(3 * u * u * t)
	c := p2.Scale(3 * u * t * t)
	d := p3.Scale(t * t * t)
	return a.Add(b).Add(c).Add(d)
}

func superellipseCoord(c, scale, n float64) float64 {
	sign := 1.0
	if c < 0 {
		sign = -1.0
	}
	return sign * scale * math.Pow(math.Abs(c), 2/n)
}

func torusKnotPoint(p, q, bigR, smallR, t float64) geom.Vec3 {
	theta := 2 * math.Pi * t
	r := bigR + smallR*math.Cos(q*theta)
	return geom.Vec3{
		X: r * math.Cos(p*theta),
		Y: r * math.Sin(p*theta),
		Z: smallR * math.Sin(q*theta),
	}
}

// traceGeodesic approximates a surface geodesic by stepping along the
// straight-line tangent direction and snapping each step back onto the
// mesh's nearest triangle, rather than unfolding triangle strips the way
// an exact geodesic walk would.
func traceGeodesic(h *value.MeshHandle, origin, dir geom.Vec3, length float64, steps int) []value.Value {
	if steps < 1 {
		steps = 1
	}
	dir = dir.Normalize()
	raw := h.Mesh.ToRawIndexed(false, false, true)
	out := make([]value.Value, 0, steps+1)
	pos := origin
	out = append(out, value.Vec3Value(pos))
	stepLen := length / float64(steps)
	for i := 0; i < steps; i++ {
		pos = pos.Add(dir.Scale(stepLen))
		pos = snapToNearestTriangle(raw, pos)
		out = append(out, value.Vec3Value(pos))
	}
	return out
}

func snapToNearestTriangle(raw mesh.RawIndexed, p geom.Vec3) geom.Vec3 {
	bestDist := math.Inf(1)
	best := p
	for i := 0; i+2 < len(raw.Indices); i += 3 {
		a := raw.Positions[raw.Indices[i]]
		b := raw.Positions[raw.Indices[i+1]]
		c := raw.Positions[raw.Indices[i+2]]
		closest := closestPointOnTriangle(p, a, b, c)
		d := closest.DistanceSq(p)
		if d < bestDist {
			bestDist = d
			best = closest
		}
	}
	return best
}

// closestPointOnTriangle projects p onto triangle abc's plane and clamps
// into the triangle via barycentric coordinates.
func closestPointOnTriangle(p, a, b, c geom.Vec3) geom.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}
