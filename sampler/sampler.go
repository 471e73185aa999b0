package sampler

import (
	"math"
	"sort"
)

// Defaults grounded in the reference sampler: a hard floor on subdivision
// depth, an oversampling factor for the dense curvature pass, and the
// density field's curvature weight.
const (
	defaultMinSegmentLength = 1e-5
	oversampleFactor        = 25
	minDenseSamples         = 64
	curvatureWeight         = 70.0
	dedupEpsilon            = 1e-6
)

// Point constrains the point types Sample operates over: a vector
// type supporting subtraction, squared norm, and perpendicular
// distance to a segment. geom.Vec2 and geom.Vec3 both satisfy it as-is.
type Point[T any] interface {
	Sub(T) T
	LenSq() float64
	PerpDistance(a, b T) float64
}

// CurveFunc evaluates a parametric curve at t in [0, 1]. It is fallible
// because it may run a user-supplied closure (a Dynamic callable, or a
// path-tracer command list).
type CurveFunc[T any] func(t float64) (T, error)

func distance[T Point[T]](a, b T) float64 {
	diff := a.Sub(b)

	return math.Sqrt(diff.LenSq())
}

// spanData holds one hard-boundary span's dense curvature analysis:
// uniformly-spaced sample t-values, per-sub-segment density, and the
// cumulative prefix sum used to invert mass quantiles back to t-values.
type spanData[T any] struct {
	tStart, tEnd float64
	mass         float64
	denseTs      []float64
	densities    []float64
	cumulative   []float64
}

func analyzeSpan[T Point[T]](tStart, tEnd float64, nDense int, curve CurveFunc[T]) (spanData[T], error) {
	nPts := nDense + 1
	spanLen := tEnd - tStart

	denseTs := make([]float64, nPts)
	for i := 0; i < nPts; i++ {
		denseTs[i] = tStart + spanLen*(float64(i)/float64(nDense))
	}

	densePts := make([]T, nPts)
	for i, t := range denseTs {
		p, err := curve(t)
		if err != nil {
			return spanData[T]{}, err
		}
		densePts[i] = p
	}

	// Chord deviations forced to zero at both span endpoints so that
	// corner curvature at a hard boundary never bleeds into this span's
	// density field.
	chordDevs := make([]float64, nPts)
	for i := 1; i < nDense; i++ {
		chordDevs[i] = densePts[i].PerpDistance(densePts[i-1], densePts[i+1])
	}

	densities := make([]float64, nDense)
	for i := 0; i < nDense; i++ {
		arcLen := distance(densePts[i+1], densePts[i])
		curvatureAvg := (chordDevs[i] + chordDevs[i+1]) * 0.5
		densities[i] = arcLen + curvatureWeight*curvatureAvg
	}

	cumulative := make([]float64, nPts)
	for i, d := range densities {
		cumulative[i+1] = cumulative[i] + d
	}

	return spanData[T]{
		tStart:     tStart,
		tEnd:       tEnd,
		mass:       cumulative[len(cumulative)-1],
		denseTs:    denseTs,
		densities:  densities,
		cumulative: cumulative,
	}, nil
}

// sampleInternal places up to k interior t-values at cumulative-mass
// quantiles j/(k+1), filtering out any candidate
// too close to the previous emitted sample or to the span end.
func (s *spanData[T]) sampleInternal(k int, minSegLen float64) []float64 {
	if k <= 0 || s.mass <= 0 {
		return nil
	}

	result := make([]float64, 0, k)
	lastT := s.tStart
	for j := 1; j <= k; j++ {
		target := (float64(j) / float64(k+1)) * s.mass

		ix := sort.Search(len(s.cumulative), func(i int) bool { return s.cumulative[i] >= target })
		if ix < 1 {
			ix = 1
		}
		if ix > len(s.cumulative)-1 {
			ix = len(s.cumulative) - 1
		}

		segDensity := s.densities[ix-1]
		var t float64
		if segDensity < 1e-10 {
			t = s.denseTs[ix-1]
		} else {
			c0 := s.cumulative[ix-1]
			t0 := s.denseTs[ix-1]
			t1 := s.denseTs[ix]
			t = t0 + (target-c0)/segDensity*(t1-t0)
		}

		if t-lastT >= minSegLen && s.tEnd-t >= minSegLen {
			result = append(result, t)
			lastT = t
		}
	}

	return result
}

// distributeBudget allocates freeBudget interior samples across spans
// proportional to their metric mass, via the largest-remainder
// (Hamilton) method: floor each raw share, then
// hand the rounding shortfall to the spans with the largest fractional
// remainder until the integer allocations sum exactly to freeBudget.
func distributeBudget(freeBudget int, masses []float64, totalMass float64) []int {
	n := len(masses)
	allocations := make([]int, n)
	if totalMass <= 0 || freeBudget == 0 {
		return allocations
	}

	raw := make([]float64, n)
	floored := make([]int, n)
	floorSum := 0
	for i, m := range masses {
		raw[i] = m / totalMass * float64(freeBudget)
		floored[i] = int(math.Floor(raw[i]))
		floorSum += floored[i]
	}

	shortfall := freeBudget - floorSum
	if shortfall < 0 {
		shortfall = 0
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra := raw[order[a]] - math.Floor(raw[order[a]])
		rb := raw[order[b]] - math.Floor(raw[order[b]])

		return ra > rb
	})

	for rank, idx := range order {
		if rank < shortfall {
			allocations[idx] = floored[idx] + 1
		} else {
			allocations[idx] = floored[idx]
		}
	}

	return allocations
}

func dedupSorted(xs []float64, eps float64) []float64 {
	if len(xs) == 0 {
		return xs
	}

	out := xs[:1]
	for _, x := range xs[1:] {
		if x-out[len(out)-1] >= eps {
			out = append(out, x)
		}
	}

	return out
}

// Sample adaptively samples a curve using curvature-aware density
// integration. It returns a sorted, deduplicated slice of
// t-values in [0, 1) with up to targetCount elements; critical points in
// initialTs are honored as hard span boundaries and included (except
// 1.0, which the API contract never emits) when they number fewer than
// targetCount; otherwise targetCount of them are picked at evenly
// spaced indices and nothing else is sampled. minSegmentLength
// defaults to 1e-5 when non-positive.
func Sample[T Point[T]](targetCount int, initialTs []float64, curve CurveFunc[T], minSegmentLength float64) ([]float64, error) {
	if targetCount <= 0 {
		return nil, nil
	}

	minSegLen := minSegmentLength
	if minSegLen <= 0 {
		minSegLen = defaultMinSegmentLength
	}

	boundaries := make([]float64, 0, len(initialTs)+2)
	for _, t := range initialTs {
		if !math.IsNaN(t) && !math.IsInf(t, 0) && t >= 0 && t <= 1 {
			boundaries = append(boundaries, t)
		}
	}

	hasNear0, hasNear1 := false, false
	for _, t := range boundaries {
		if t <= dedupEpsilon {
			hasNear0 = true
		}
		if t >= 1-dedupEpsilon {
			hasNear1 = true
		}
	}
	if !hasNear0 {
		boundaries = append(boundaries, 0)
	}
	if !hasNear1 {
		boundaries = append(boundaries, 1)
	}
	sort.Float64s(boundaries)
	boundaries = dedupSorted(boundaries, dedupEpsilon)

	mandatoryCount := len(boundaries) - 1
	if mandatoryCount < 0 {
		mandatoryCount = 0
	}

	if mandatoryCount >= targetCount {
		mandatory := boundaries[:mandatoryCount]
		result := make([]float64, targetCount)
		if targetCount == 1 {
			result[0] = mandatory[0]
		} else {
			for i := 0; i < targetCount; i++ {
				idx := i * (len(mandatory) - 1) / (targetCount - 1)
				result[i] = mandatory[idx]
			}
		}

		return result, nil
	}

	freeBudget := targetCount - mandatoryCount
	nSpans := mandatoryCount

	nDensePerSpan := oversampleFactor * targetCount / nSpans
	if nDensePerSpan < minDenseSamples {
		nDensePerSpan = minDenseSamples
	}

	spans := make([]spanData[T], nSpans)
	for i := 0; i < nSpans; i++ {
		s, err := analyzeSpan[T](boundaries[i], boundaries[i+1], nDensePerSpan, curve)
		if err != nil {
			return nil, err
		}
		spans[i] = s
	}

	totalMass := 0.0
	masses := make([]float64, nSpans)
	for i, s := range spans {
		masses[i] = s.mass
		totalMass += s.mass
	}
	allocations := distributeBudget(freeBudget, masses, totalMass)

	result := make([]float64, 0, targetCount)
	for i := range spans {
		result = append(result, boundaries[i])
		result = append(result, spans[i].sampleInternal(allocations[i], minSegLen)...)
	}

	sort.Float64s(result)
	result = dedupSorted(result, dedupEpsilon)
	if len(result) > targetCount {
		result = result[:targetCount]
	}

	return result, nil
}
