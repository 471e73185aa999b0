package sampler

import "sort"

// SnapCriticalPoints merges base samples with critical points,
// snapping nearby values together so near-coincident critical
// points never produce sliver triangles, while critical points take
// priority over a base sample they overlap.
//
// step is the minimum observed gap between consecutive base samples,
// falling back to 1/ringResolution when base has fewer than two points
// or is perfectly uniform with zero gaps recorded.
func SnapCriticalPoints(base, critical []float64, ringResolution int) []float64 {
	if len(base) == 0 && len(critical) == 0 {
		return nil
	}

	baseSorted := cleanAndSort(base)
	criticalSorted := cleanAndSort(critical)

	minStep := 0.0
	haveStep := false
	for i := 1; i < len(baseSorted); i++ {
		gap := baseSorted[i] - baseSorted[i-1]
		if gap > 0 && (!haveStep || gap < minStep) {
			minStep, haveStep = gap, true
		}
	}

	fallbackStep := 1.0
	if ringResolution > 0 {
		fallbackStep = 1.0 / float64(ringResolution)
	}
	step := fallbackStep
	if haveStep {
		step = minStep
	}
	if step < fallbackStep {
		step = fallbackStep
	}

	// Critical-critical snapping uses a wider epsilon to avoid nearly
	// coincident guides; base-critical snapping is tighter so "extra"
	// critical points can still be added alongside a nearby base sample.
	criticalSnapEpsilon := step * 0.5
	baseSnapEpsilon := step * 0.25

	criticalSorted = dedupWithin(criticalSorted, criticalSnapEpsilon)

	type samplePoint struct {
		t          float64
		isCritical bool
	}

	points := make([]samplePoint, 0, len(baseSorted)+len(criticalSorted))
	for _, t := range baseSorted {
		points = append(points, samplePoint{t: t})
	}
	for _, t := range criticalSorted {
		points = append(points, samplePoint{t: t, isCritical: true})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].t < points[j].t })

	out := make([]float64, 0, len(points))
	idx := 0
	for idx < len(points) {
		chosen := points[idx]
		hasCritical := chosen.isCritical
		lastT := chosen.t
		idx++

		for idx < len(points) && absF(points[idx].t-lastT) <= baseSnapEpsilon {
			if points[idx].isCritical && !hasCritical {
				chosen = points[idx]
				hasCritical = true
			}
			lastT = points[idx].t
			idx++
		}

		out = append(out, chosen.t)
	}

	return out
}

func cleanAndSort(ts []float64) []float64 {
	out := make([]float64, 0, len(ts))
	for _, t := range ts {
		if t != t { // NaN
			continue
		}
		if t < 0 {
			t = 0
		}
		if t >= 1 {
			continue
		}
		out = append(out, t)
	}
	sort.Float64s(out)

	return out
}

func dedupWithin(ts []float64, eps float64) []float64 {
	if len(ts) == 0 {
		return ts
	}

	out := ts[:1]
	for _, t := range ts[1:] {
		if absF(t-out[len(out)-1]) > eps {
			out = append(out, t)
		}
	}

	return out
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
