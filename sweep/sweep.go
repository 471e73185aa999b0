package sweep

import (
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/fku"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/sampler"
)

// collapseEpsilon is the average-radius threshold below which a ring is
// treated as a single apex vertex instead of a full profile loop.
const collapseEpsilon = 1e-5

// critMatchEpsilon is how close a sampled t-value must be to a guide
// value to count as landing exactly on it, for DP cost's critical-pair
// bonus.
const critMatchEpsilon = 1e-6

// SpineFunc evaluates the spine curve at arc-length fraction t.
type SpineFunc func(t float64) (geom.Vec3, *errstack.ErrorStack)

// ProfileFunc evaluates a static profile: u is the spine's arc-length
// fraction, v the profile parameter in [0, 1], uIdx/vIdx the ring/sample
// indices, and center the spine point the ring is built around.
type ProfileFunc func(u, v float64, uIdx, vIdx int, center geom.Vec3) (geom.Vec2, *errstack.ErrorStack)

// TwistFunc evaluates the twist angle (radians) applied to ring uIdx.
type TwistFunc func(uIdx int, center geom.Vec3) (float64, *errstack.ErrorStack)

// DynamicRing is one ring's worth of a dynamic profile: a callable
// sub-curve plus the critical points it wants snapped into its sample set.
type DynamicRing interface {
	At(v float64) (geom.Vec2, *errstack.ErrorStack)
	CriticalPoints() []float64
}

// DynamicProfileFunc produces a DynamicRing for the ring at spine
// fraction u.
type DynamicProfileFunc func(u float64) (DynamicRing, *errstack.ErrorStack)

// Input collects every rail_sweep parameter.
type Input struct {
	SpineResolution int
	RingResolution  int

	// Exactly one of SpinePoints or SpineFn must be set.
	SpinePoints []geom.Vec3
	SpineFn     SpineFunc

	// Exactly one of Profile or DynamicProfile must be set.
	Profile                ProfileFunc
	ProfileGuides          []float64 // critical t-values in profile space, static path only
	ProfileIntervalWeights []float64 // per-interval weight aligned to ProfileGuides, static path only
	DynamicProfile         DynamicProfileFunc

	FrameMode FrameMode
	Up        geom.Vec3
	Twist     TwistFunc

	Closed bool
	Capped bool

	FKUStitching            bool
	SpineSamplingScheme     SamplingScheme
	AdaptiveProfileSampling bool

	MinSegmentLength float64 // adaptive sampling floor; 0 uses sampler's default
}

// Result is the flat triangle mesh a sweep produces, in the same shape
// mesh.FromIndexedVertices consumes.
type Result struct {
	Positions  []geom.Vec3
	Indices    []uint32
	RingStarts []int
	RingCounts []int
}

type ringData struct {
	start, count int
	center       geom.Vec3
	normal       geom.Vec3 // ring plane's first in-plane axis (frame normal, post-twist)
	binormal     geom.Vec3 // ring plane's second in-plane axis (frame binormal, post-twist)
	tValues      []float64
	critical     []bool
}

// Sweep builds a mesh by sampling a profile at frames along a spine and
// stitching the resulting rings together.
func Sweep(in Input) (*Result, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.MinSegmentLength <= 0 {
		in.MinSegmentLength = defaultMinSegmentLength(in.SpineResolution, in.RingResolution)
	}

	spinePoints, err := resolveSpinePoints(in)
	if err != nil {
		return nil, err
	}

	frames, err := CalculateSpineFrames(spinePoints, in.FrameMode, in.Up)
	if err != nil {
		return nil, err
	}

	twists, constantTwist, err := resolveTwists(in, spinePoints, frames)
	if err != nil {
		return nil, err
	}

	honorWeights := in.Profile != nil && constantTwist && SpineIsApproximatelyStraight(spinePoints) && in.ProfileIntervalWeights != nil

	res := &Result{}
	rings := make([]ringData, len(frames))
	for i, frame := range frames {
		normal, binormal := ApplyTwist(frame.Normal, frame.Binormal, twists[i])

		var offsets []geom.Vec2
		var tValues []float64
		var ringGuides []float64
		switch {
		case in.Profile != nil:
			ringGuides = in.ProfileGuides
			tValues = staticRingTValues(in, honorWeights)
			offsets = make([]geom.Vec2, len(tValues))
			uFrac := spineFraction(i, len(frames))
			for j, v := range tValues {
				off, perr := in.Profile(uFrac, v, i, j, frame.Center)
				if perr != nil {
					return nil, errstack.Push(perr, "evaluating rail_sweep profile")
				}
				offsets[j] = off
			}
		case in.DynamicProfile != nil:
			uFrac := spineFraction(i, len(frames))
			dynRing, derr := in.DynamicProfile(uFrac)
			if derr != nil {
				return nil, errstack.Push(derr, "evaluating rail_sweep dynamic_profile")
			}
			ringGuides = dynRing.CriticalPoints()
			tValues, err = dynamicRingTValues(in, dynRing)
			if err != nil {
				return nil, err
			}
			offsets = make([]geom.Vec2, len(tValues))
			for j, v := range tValues {
				off, oerr := dynRing.At(v)
				if oerr != nil {
					return nil, errstack.Push(oerr, "evaluating rail_sweep dynamic_profile ring")
				}
				offsets[j] = off
			}
		default:
			return nil, errstack.New(errstack.ErrGeometric, "rail_sweep requires either `profile` or `dynamic_profile`")
		}

		rings[i] = appendRing(res, frame.Center, normal, binormal, offsets, tValues, ringGuides)
	}

	stitchAdjacentRings(res, rings, in.Closed, in.FKUStitching)

	if in.Capped && !in.Closed && len(rings) >= 2 {
		capRing(res, rings[0], frames[0].Tangent.Neg(), true)
		capRing(res, rings[len(rings)-1], frames[len(frames)-1].Tangent, false)
	}

	return res, nil
}

func validateInput(in Input) error {
	if in.SpineResolution < 2 {
		return errstack.Newf(errstack.ErrGeometric, "invalid spine_resolution for rail_sweep; expected >= 2, found: %d", in.SpineResolution)
	}
	if in.RingResolution < 3 {
		return errstack.Newf(errstack.ErrGeometric, "invalid ring_resolution for rail_sweep; expected >= 3, found: %d", in.RingResolution)
	}
	if in.SpinePoints == nil && in.SpineFn == nil {
		return errstack.New(errstack.ErrGeometric, "rail_sweep requires a spine (point sequence or callable)")
	}
	if in.Profile == nil && in.DynamicProfile == nil {
		return errstack.New(errstack.ErrGeometric, "rail_sweep requires either `profile` or `dynamic_profile`")
	}
	if in.Profile != nil && in.DynamicProfile != nil {
		return errstack.New(errstack.ErrGeometric, "cannot specify both `profile` and `dynamic_profile` in rail_sweep")
	}

	return nil
}

// defaultMinSegmentLength derives the adaptive-sampling floor from the
// requested spine/ring resolution when the caller leaves MinSegmentLength
// unset, so coarse sweeps don't over-refine and fine sweeps don't
// under-refine against a single global constant.
func defaultMinSegmentLength(spineResolution, ringResolution int) float64 {
	n := spineResolution * ringResolution
	if n <= 0 {
		return 1.5
	}

	return 1.5 / float64(n)
}

func spineFraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}

	return float64(i) / float64(n-1)
}

func resolveSpinePoints(in Input) ([]geom.Vec3, error) {
	useAdaptive := in.SpineSamplingScheme.Kind == SchemeAdaptive

	if in.SpineFn != nil {
		if useAdaptive {
			ts, err := sampler.Sample(in.SpineResolution, []float64{0, 1}, vec3CurveFunc(in.SpineFn), in.MinSegmentLength)
			if err != nil {
				return nil, errstack.New(err, "adaptively sampling rail_sweep spine")
			}

			return evalSpineAt(in.SpineFn, ts)
		}

		ts, err := ComputeSchemeTValues(in.SpineSamplingScheme, in.SpineResolution)
		if err != nil {
			return nil, err
		}

		return evalSpineAt(in.SpineFn, ts)
	}

	if useAdaptive {
		var curve sampler.CurveFunc[geom.Vec3] = func(t float64) (geom.Vec3, error) {
			pts, err := ResampleSpinePointsAtT(in.SpinePoints, []float64{t})
			if err != nil {
				return geom.Vec3{}, err
			}

			return pts[0], nil
		}
		ts, err := sampler.Sample(in.SpineResolution, []float64{0, 1}, curve, in.MinSegmentLength)
		if err != nil {
			return nil, errstack.New(err, "adaptively sampling rail_sweep spine")
		}

		return ResampleSpinePointsAtT(in.SpinePoints, ts)
	}

	ts, err := ComputeSchemeTValues(in.SpineSamplingScheme, in.SpineResolution)
	if err != nil {
		return nil, err
	}

	return ResampleSpinePointsAtT(in.SpinePoints, ts)
}

func vec3CurveFunc(fn SpineFunc) sampler.CurveFunc[geom.Vec3] {
	return func(t float64) (geom.Vec3, error) {
		v, err := fn(t)
		if err != nil {
			return geom.Vec3{}, err
		}

		return v, nil
	}
}

func evalSpineAt(fn SpineFunc, ts []float64) ([]geom.Vec3, error) {
	out := make([]geom.Vec3, len(ts))
	for i, t := range ts {
		p, err := fn(t)
		if err != nil {
			return nil, errstack.Push(err, "evaluating rail_sweep spine callable")
		}
		out[i] = p
	}

	return out, nil
}

func resolveTwists(in Input, spinePoints []geom.Vec3, frames []SpineFrame) ([]float64, bool, error) {
	out := make([]float64, len(frames))
	if in.Twist == nil {
		return out, true, nil
	}

	for i := range frames {
		v, err := in.Twist(i, frames[i].Center)
		if err != nil {
			return nil, false, errstack.Push(err, "evaluating rail_sweep twist")
		}
		out[i] = v
	}

	constant := true
	for _, v := range out {
		if absF(v-out[0]) > 1e-6 {
			constant = false

			break
		}
	}

	return out, constant, nil
}

func staticRingTValues(in Input, honorWeights bool) []float64 {
	if honorWeights {
		return BuildTopologySamples(in.RingResolution, in.ProfileGuides, in.ProfileIntervalWeights)
	}
	if len(in.ProfileGuides) > 0 {
		return sampler.SnapCriticalPoints(UniformNodes(in.RingResolution), in.ProfileGuides, in.RingResolution)
	}

	return UniformNodes(in.RingResolution)
}

func dynamicRingTValues(in Input, ring DynamicRing) ([]float64, error) {
	critical := ring.CriticalPoints()

	if in.AdaptiveProfileSampling {
		var curve sampler.CurveFunc[geom.Vec2] = func(v float64) (geom.Vec2, error) {
			p, err := ring.At(v)
			if err != nil {
				return geom.Vec2{}, err
			}

			return p, nil
		}
		ts, err := sampler.Sample(in.RingResolution, critical, curve, in.MinSegmentLength)
		if err != nil {
			return nil, errstack.New(err, "adaptively sampling rail_sweep dynamic_profile ring")
		}

		return ts, nil
	}

	return sampler.SnapCriticalPoints(UniformNodes(in.RingResolution), critical, in.RingResolution), nil
}

func critMask(tValues, guides []float64) []bool {
	out := make([]bool, len(tValues))
	if len(guides) == 0 {
		return out
	}
	for i, t := range tValues {
		for _, g := range guides {
			if absF(t-g) < critMatchEpsilon {
				out[i] = true

				break
			}
		}
	}

	return out
}

func appendRing(res *Result, center, normal, binormal geom.Vec3, offsets []geom.Vec2, tValues, guides []float64) ringData {
	positions := make([]geom.Vec3, len(offsets))
	for i, o := range offsets {
		positions[i] = center.Add(normal.Scale(o.X)).Add(binormal.Scale(o.Y))
	}

	start := len(res.Positions)
	if fku.RingAverageRadius(positions) < collapseEpsilon {
		res.Positions = append(res.Positions, center)
		res.RingStarts = append(res.RingStarts, start)
		res.RingCounts = append(res.RingCounts, 1)

		return ringData{start: start, count: 1, center: center, normal: normal, binormal: binormal}
	}

	res.Positions = append(res.Positions, positions...)
	res.RingStarts = append(res.RingStarts, start)
	res.RingCounts = append(res.RingCounts, len(positions))

	return ringData{
		start: start, count: len(positions),
		center: center, normal: normal, binormal: binormal,
		tValues: tValues, critical: critMask(tValues, guides),
	}
}

func stitchAdjacentRings(res *Result, rings []ringData, closed bool, fkuStitching bool) {
	for i := 0; i+1 < len(rings); i++ {
		stitchPair(res, rings[i], rings[i+1], fkuStitching)
	}
	if closed && len(rings) > 2 {
		stitchPair(res, rings[len(rings)-1], rings[0], fkuStitching)
	}
}

func stitchPair(res *Result, a, b ringData, fkuStitching bool) {
	switch {
	case a.count == 1 && b.count == 1:
		// Apex to apex: a degenerate sliver, nothing to emit.
	case a.count == 1:
		res.Indices = append(res.Indices, fku.StitchApexToRow(a.start, b.start, b.count, true, true, false)...)
	case b.count == 1:
		res.Indices = append(res.Indices, fku.StitchApexToRow(b.start, a.start, a.count, true, false, false)...)
	case a.count == b.count && fku.ShouldUseFKU(fkuStitching, a.count, b.count):
		res.Indices = append(res.Indices, fku.StitchPresampled(ringPositions(res, a), ringPositions(res, b), a.tValues, b.tValues, a.critical, b.critical, a.start, b.start, true)...)
	case a.count == b.count:
		res.Indices = append(res.Indices, fku.UniformStitchRows(a.start, b.start, a.count, true, false)...)
	default:
		// Differing vertex counts: DP stitching handles n != m directly,
		// unlike the uniform ladder which needs equal counts.
		res.Indices = append(res.Indices, fku.StitchPresampled(ringPositions(res, a), ringPositions(res, b), a.tValues, b.tValues, a.critical, b.critical, a.start, b.start, true)...)
	}
}

func ringPositions(res *Result, r ringData) []geom.Vec3 {
	return res.Positions[r.start: r.start+r.count]
}

// capRing triangulates a ring as a fan from its centroid, projected onto
// the ring's own plane, for end-capping an open sweep.
// outward is the direction the cap should face; startCap reverses
// winding relative to the end cap so both faces point away from the tube.
func capRing(res *Result, r ringData, outward geom.Vec3, startCap bool) {
	if r.count < 3 {
		return
	}

	apexIdx := len(res.Positions)
	res.Positions = append(res.Positions, r.center)

	flip := startCap
	if outward.Dot(r.normal.Cross(r.binormal)) < 0 {
		flip = !flip
	}

	res.Indices = append(res.Indices, fku.StitchApexToRow(apexIdx, r.start, r.count, true, true, flip)...)
}
