package builtins

import (
	"math"

	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/fku"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/seq"
	"github.com/katalvlaran/geoscript/sweep"
	"github.com/katalvlaran/geoscript/value"
)

// registerSweepExtrude wires the profile-sweep family into the
// registry: extrude_pipe (a fixed-radius circular sweep),
// rail_sweep (the fully parameterized sweep), fan_fill, and
// stitch_contours.
func registerSweepExtrude(r *builtin.Registry, ctx *Context) {
	r.Define(builtin.FnDef{
		Name: "extrude_pipe", Module: "sweep",
		Doc:        "sweeps a circular profile of the given radius along a spine point sequence",
		Signatures: []builtin.FnSignature{sig(
			req("spine", builtin.TSequence),
			req("radius", builtin.TNumeric),
			optDef("segments", constDefault(value.IntValue(16)), builtin.TInt),
			optDef("closed", constDefault(value.BoolValue(false)), builtin.TBool),
			optDef("capped", constDefault(value.BoolValue(true)), builtin.TBool),
		)},
	}, func(args []value.Value) (value.Value, error) {
		spine, err := vec3sFromSeq("extrude_pipe", args[0])
		if err != nil {
			return value.Value{}, err
		}
		radius, err := asFloat("extrude_pipe", args[1])
		if err != nil {
			return value.Value{}, err
		}
		segments, err := asInt("extrude_pipe", args[2])
		if err != nil {
			return value.Value{}, err
		}
		closed, _ := args[3].AsBool()
		capped, _ := args[4].AsBool()

		in := sweep.Input{
			SpineResolution: len(spine),
			RingResolution:  int(segments),
			SpinePoints:     spine,
			Profile:         circleProfile(radius),
			FrameMode:       sweep.FrameRMF,
			Up:              geom.Vec3{X: 0, Y: 1, Z: 0},
			Closed:          closed,
			Capped:          capped,
		}
		return runSweep(in)
	})

	r.Define(builtin.FnDef{
		Name: "rail_sweep", Module: "sweep",
		Doc: "the fully parameterized rail sweep: spine and profile may each be a point/vec2 sequence or a callable",
		Signatures: []builtin.FnSignature{sig(req("options", builtin.TMap))},
	}, func(args []value.Value) (value.Value, error) {
		opts, err := asMap("rail_sweep", args[0])
		if err != nil {
			return value.Value{}, err
		}
		in, err := buildRailSweepInput(ctx, opts)
		if err != nil {
			return value.Value{}, err
		}
		return runSweep(in)
	})

	r.Define(builtin.FnDef{
		Name: "fan_fill", Module: "sweep",
		Doc:        "triangulates a single closed polygon ring into a fan around its centroid",
		Signatures: []builtin.FnSignature{sig(req("ring", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		ring, err := vec3sFromSeq("fan_fill", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return fanFill(ring)
	})

	r.Define(builtin.FnDef{
		Name: "stitch_contours", Module: "sweep",
		Doc: "stitches two point rings into a triangle band, using FKU DP alignment when both rings are small enough",
		Signatures: []builtin.FnSignature{sig(
			req("ring_a", builtin.TSequence),
			req("ring_b", builtin.TSequence),
			optDef("closed", constDefault(value.BoolValue(true)), builtin.TBool),
			optDef("use_fku", constDefault(value.BoolValue(true)), builtin.TBool),
		)},
	}, func(args []value.Value) (value.Value, error) {
		ringA, err := vec3sFromSeq("stitch_contours", args[0])
		if err != nil {
			return value.Value{}, err
		}
		ringB, err := vec3sFromSeq("stitch_contours", args[1])
		if err != nil {
			return value.Value{}, err
		}
		closed, _ := args[2].AsBool()
		useFKU, _ := args[3].AsBool()
		return stitchContours(ringA, ringB, closed, useFKU)
	})
}

func vec3sFromSeq(name string, v value.Value) ([]geom.Vec3, error) {
	s, err := asSequence(name, v)
	if err != nil {
		return nil, err
	}
	slice, err := seq.Collect(s)
	if err != nil {
		return nil, err
	}
	out := make([]geom.Vec3, slice.Len())
	for i := 0; i < slice.Len(); i++ {
		elem, _ := slice.At(i)
		p, err := asVec3(name, elem)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func circleProfile(radius float64) sweep.ProfileFunc {
	return func(u, v float64, uIdx, vIdx int, center geom.Vec3) (geom.Vec2, *errstack.ErrorStack) {
		theta := v * 2 * math.Pi
		return geom.Vec2{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}, nil
	}
}

func runSweep(in sweep.Input) (value.Value, error) {
	res, err := sweep.Sweep(in)
	if err != nil {
		return value.Value{}, err
	}
	indices := make([]int, len(res.Indices))
	for i, idx := range res.Indices {
		indices[i] = int(idx)
	}
	return meshFromRaw(res.Positions, indices)
}

// buildRailSweepInput reads rail_sweep's options map into a sweep.Input,
// invoking script callables through ctx for dynamic spine/profile/twist.
func buildRailSweepInput(ctx *Context, opts *value.Map) (sweep.Input, error) {
	var in sweep.Input
	in.SpineResolution = 64
	in.RingResolution = 16
	in.FrameMode = sweep.FrameRMF
	in.Up = geom.Vec3{X: 0, Y: 1, Z: 0}
	in.SpineSamplingScheme = sweep.SamplingScheme{Kind: sweep.SchemeUniform}

	if v, ok := opts.Get("spine_resolution"); ok {
		n, err := asInt("rail_sweep", v)
		if err != nil {
			return in, err
		}
		in.SpineResolution = int(n)
	}
	if v, ok := opts.Get("ring_resolution"); ok {
		n, err := asInt("rail_sweep", v)
		if err != nil {
			return in, err
		}
		in.RingResolution = int(n)
	}
	if v, ok := opts.Get("closed"); ok {
		in.Closed, _ = v.AsBool()
	}
	if v, ok := opts.Get("capped"); ok {
		in.Capped, _ = v.AsBool()
	}
	if v, ok := opts.Get("fku_stitching"); ok {
		in.FKUStitching, _ = v.AsBool()
	}
	if v, ok := opts.Get("adaptive_profile_sampling"); ok {
		in.AdaptiveProfileSampling, _ = v.AsBool()
	}
	if v, ok := opts.Get("min_segment_length"); ok {
		f, err := asFloat("rail_sweep", v)
		if err != nil {
			return in, err
		}
		in.MinSegmentLength = f
	}
	if v, ok := opts.Get("up"); ok {
		up, err := asVec3("rail_sweep", v)
		if err != nil {
			return in, err
		}
		in.Up = up
	}
	if v, ok := opts.Get("sampling_scheme"); ok {
		name, err := asString("rail_sweep", v)
		if err != nil {
			return in, err
		}
		scheme, err := sweep.ParseSchemeName(name)
		if err != nil {
			return in, err
		}
		in.SpineSamplingScheme = scheme
	}

	spineVal, ok := opts.Get("spine")
	if !ok {
		return in, errstack.New(errstack.ErrArity, "rail_sweep: options map missing required `spine` entry")
	}
	if cb, ok := spineVal.AsCallable(); ok {
		in.SpineFn = func(t float64) (geom.Vec3, *errstack.ErrorStack) {
			out, err := ctx.Invoke(cb, []value.Value{value.FloatValue(float32(t))}, nil)
			if err != nil {
				return geom.Vec3{}, toStack(err)
			}
			p, ok := out.AsVec3()
			if !ok {
				return geom.Vec3{}, errstack.New(errstack.ErrType, "rail_sweep: spine callable must return a vec3")
			}
			return p, nil
		}
	} else {
		pts, err := vec3sFromSeq("rail_sweep", spineVal)
		if err != nil {
			return in, err
		}
		in.SpinePoints = pts
	}

	profileVal, ok := opts.Get("profile")
	if !ok {
		return in, errstack.New(errstack.ErrArity, "rail_sweep: options map missing required `profile` entry")
	}
	cb, err := asCallable("rail_sweep", profileVal)
	if err != nil {
		return in, err
	}
	in.Profile = func(u, v float64, uIdx, vIdx int, center geom.Vec3) (geom.Vec2, *errstack.ErrorStack) {
		out, err := ctx.Invoke(cb, []value.Value{
			value.FloatValue(float32(u)), value.FloatValue(float32(v)), value.Vec3Value(center),
		}, nil)
		if err != nil {
			return geom.Vec2{}, toStack(err)
		}
		p, ok := out.AsVec2()
		if !ok {
			return geom.Vec2{}, errstack.New(errstack.ErrType, "rail_sweep: profile callable must return a vec2")
		}
		return p, nil
	}

	if twistVal, ok := opts.Get("twist"); ok {
		twistCb, err := asCallable("rail_sweep", twistVal)
		if err != nil {
			return in, err
		}
		in.Twist = func(uIdx int, center geom.Vec3) (float64, *errstack.ErrorStack) {
			out, err := ctx.Invoke(twistCb, []value.Value{value.IntValue(int64(uIdx)), value.Vec3Value(center)}, nil)
			if err != nil {
				return 0, toStack(err)
			}
			f, ok := out.AsNumeric()
			if !ok {
				return 0, errstack.New(errstack.ErrType, "rail_sweep: twist callable must return a number")
			}
			return f, nil
		}
	}

	return in, nil
}

func toStack(err error) *errstack.ErrorStack {
	if es, ok := err.(*errstack.ErrorStack); ok {
		return es
	}
	return errstack.New(errstack.ErrRuntime, err.Error())
}

func fanFill(ring []geom.Vec3) (value.Value, error) {
	if len(ring) < 3 {
		return value.Value{}, errstack.New(errstack.ErrGeometric, "fan_fill: a ring needs at least 3 points")
	}
	var centroid geom.Vec3
	for _, p := range ring {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1.0 / float64(len(ring)))

	positions := append([]geom.Vec3{centroid}, ring...)
	var indices []int
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		indices = append(indices, 0, i+1, j+1)
	}
	return meshFromRaw(positions, indices)
}

func stitchContours(ringA, ringB []geom.Vec3, closed, useFKU bool) (value.Value, error) {
	if len(ringA) == 0 || len(ringB) == 0 {
		return value.Value{}, errstack.New(errstack.ErrGeometric, "stitch_contours: both rings must be non-empty")
	}
	positions := append(append([]geom.Vec3(nil), ringA...), ringB...)

	var idx []uint32
	if fku.ShouldUseFKU(useFKU, len(ringA), len(ringB)) && len(ringA) == len(ringB) {
		offset := fku.FindBestRingAlignment(ringA, ringB)
		rotatedB := fku.RotateRing(ringB, offset)
		copy(positions[len(ringA):], rotatedB)
		tsA := evenTValues(len(ringA))
		tsB := evenTValues(len(rotatedB))
		idx = fku.StitchPresampled(ringA, rotatedB, tsA, tsB, nil, nil, 0, len(ringA), closed)
	} else if len(ringA) == len(ringB) {
		idx = fku.UniformStitchRows(0, len(ringA), len(ringA), closed, false)
	} else {
		return value.Value{}, errstack.New(errstack.ErrGeometric, "stitch_contours: rings of unequal length require fku stitching to be enabled")
	}

	indices := make([]int, len(idx))
	for i, v := range idx {
		indices[i] = int(v)
	}
	return meshFromRaw(positions, indices)
}

func evenTValues(n int) []float64 {
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n)
	}
	return out
}
