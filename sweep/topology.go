package sweep

// BuildTopologySamples distributes targetCount t-values over [0, 1],
// forcing every value in guides (sorted ascending, including 0 and 1) to
// appear, and allocating the remaining budget across the intervals
// guides partitions proportional to intervalWeights.
// Zero-weight intervals receive no interior samples. When
// intervalWeights is nil, every interval is weighted equally.
//
// When targetCount does not exceed len(guides), guides itself is evenly
// subsampled (always keeping the first and last entries) rather than
// padded, mirroring the adaptive sampler's mandatory-boundary handling
// (see sampler.Sample).
func BuildTopologySamples(targetCount int, guides []float64, intervalWeights []float64) []float64 {
	if len(guides) == 0 {
		return UniformNodes(targetCount)
	}
	if len(guides) == 1 {
		return append([]float64(nil), guides...)
	}

	if targetCount <= len(guides) {
		return subsampleEvenly(guides, targetCount)
	}

	nIntervals := len(guides) - 1
	weights := intervalWeights
	if weights == nil {
		weights = make([]float64, nIntervals)
		for i := range weights {
			weights[i] = 1
		}
	}

	totalWeight := 0.0
	for _, w := range weights {
		if w > 0 {
			totalWeight += w
		}
	}

	freeBudget := targetCount - len(guides)
	counts := hamiltonAllocate(freeBudget, weights, totalWeight)

	out := make([]float64, 0, targetCount)
	for i := 0; i < nIntervals; i++ {
		out = append(out, guides[i])
		k := counts[i]
		if k <= 0 {
			continue
		}
		tStart, tEnd := guides[i], guides[i+1]
		span := tEnd - tStart
		for j := 1; j <= k; j++ {
			out = append(out, tStart+span*float64(j)/float64(k+1))
		}
	}
	out = append(out, guides[len(guides)-1])

	return out
}

// hamiltonAllocate distributes freeBudget whole units across weights
// proportional to mass, using the largest-remainder method so the
// rounded allocation sums exactly to freeBudget. Zero-or-negative
// weighted entries never receive an allocation.
func hamiltonAllocate(freeBudget int, weights []float64, totalWeight float64) []int {
	counts := make([]int, len(weights))
	if freeBudget <= 0 || totalWeight <= 0 {
		return counts
	}

	type remainder struct {
		idx int
		rem float64
	}
	remainders := make([]remainder, 0, len(weights))

	assigned := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		share := float64(freeBudget) * w / totalWeight
		whole := int(share)
		counts[i] = whole
		assigned += whole
		remainders = append(remainders, remainder{idx: i, rem: share - float64(whole)})
	}

	remaining := freeBudget - assigned
	for remaining > 0 && len(remainders) > 0 {
		bestIx := 0
		for i := 1; i < len(remainders); i++ {
			if remainders[i].rem > remainders[bestIx].rem {
				bestIx = i
			}
		}
		counts[remainders[bestIx].idx]++
		remainders = append(remainders[:bestIx], remainders[bestIx+1:]...)
		remaining--
	}

	return counts
}

func subsampleEvenly(guides []float64, count int) []float64 {
	if count <= 1 || len(guides) <= 1 {
		return []float64{guides[0]}
	}
	if count >= len(guides) {
		return append([]float64(nil), guides...)
	}

	out := make([]float64, count)
	denom := float64(count - 1)
	for i := 0; i < count; i++ {
		srcIx := int(float64(i) * float64(len(guides)-1) / denom)
		out[i] = guides[srcIx]
	}

	return out
}
