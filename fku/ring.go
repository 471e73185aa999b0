package fku

import (
	"math"
	"sort"

	"github.com/katalvlaran/geoscript/geom"
)

// alignmentResampleK is the number of evenly-spaced arc-length samples
// used during ring alignment cross-correlation:
// enough to capture corners and curves without making the O(K^2)
// cross-correlation expensive.
const alignmentResampleK = 64

// RotateRing returns a copy of pts cyclically shifted left by offset, so
// the DP solver's inner loop never needs a modulo.
func RotateRing(pts []geom.Vec3, offset int) []geom.Vec3 {
	m := len(pts)
	if offset == 0 || m == 0 {
		out := make([]geom.Vec3, m)
		copy(out, pts)

		return out
	}

	offset %= m
	out := make([]geom.Vec3, m)
	for i := 0; i < m; i++ {
		out[i] = pts[(i+offset)%m]
	}

	return out
}

// CumulativeArcLengths returns, for a closed ring pts, a slice of length
// len(pts)+1 where entry i is the distance from pts[0] to pts[i] walking
// forward along ring edges (wrapping); the final entry is the full
// perimeter.
func CumulativeArcLengths(pts []geom.Vec3) []float64 {
	n := len(pts)
	lens := make([]float64, n+1)
	total := 0.0
	for i := 0; i < n; i++ {
		total += pts[(i+1)%n].Sub(pts[i]).Len()
		lens[i+1] = total
	}

	return lens
}

// SampleRingAt samples pts at normalized arc-length parameter t in
// [0, 1), linearly interpolating between adjacent vertices.
func SampleRingAt(pts []geom.Vec3, lens []float64, totalLen, t float64) geom.Vec3 {
	target := t * totalLen
	if target <= 0 {
		return pts[0]
	}

	idx := sort.Search(len(lens), func(i int) bool { return lens[i] >= target })
	if idx >= len(lens) {
		idx = len(lens) - 1
	}
	if idx > 0 {
		idx--
	}
	if idx > len(pts)-1 {
		idx = len(pts) - 1
	}

	p0 := pts[idx]
	p1 := pts[(idx+1)%len(pts)]
	segLen := lens[idx+1] - lens[idx]
	if segLen < 1e-9 {
		return p0
	}

	alpha := (target - lens[idx]) / segLen

	return p0.Lerp(p1, alpha)
}

// ResampleRing resamples pts into count uniformly arc-length-spaced
// points, used by FindBestRingAlignment.
func ResampleRing(pts []geom.Vec3, count int) []geom.Vec3 {
	cum := CumulativeArcLengths(pts)
	totalLen := cum[len(cum)-1]

	out := make([]geom.Vec3, count)
	for i := 0; i < count; i++ {
		t := float64(i) / float64(count)
		out[i] = SampleRingAt(pts, cum, totalLen, t)
	}

	return out
}

// FindBestRingAlignment finds the cyclic shift of ptsB that best aligns
// it with ptsA: both rings are resampled to K
// arc-length-uniform points, every cyclic shift is scored by summed
// squared distance, and the winning normalized shift is mapped back to
// the nearest actual vertex index in ptsB via its own arc-length
// parameterization.
func FindBestRingAlignment(ptsA, ptsB []geom.Vec3) int {
	if len(ptsA) == 0 || len(ptsB) == 0 {
		return 0
	}

	k := alignmentResampleK
	resA := ResampleRing(ptsA, k)
	resB := ResampleRing(ptsB, k)

	bestShift := 0
	bestError := math.MaxFloat64
	for shift := 0; shift < k; shift++ {
		errSum := 0.0
		for i := 0; i < k; i++ {
			errSum += resA[i].Sub(resB[(i+shift)%k]).LenSq()
		}
		if errSum < bestError {
			bestError = errSum
			bestShift = shift
		}
	}

	bestT := float64(bestShift) / float64(k)
	cumB := CumulativeArcLengths(ptsB)
	totalLenB := cumB[len(cumB)-1]

	bestRealIdx := 0
	bestDiff := math.MaxFloat64
	for i := 0; i < len(ptsB); i++ {
		d := cumB[i]
		t := 0.0
		if totalLenB > 1e-9 {
			t = d / totalLenB
		}

		diff := absF(t - bestT)
		cyclicDiff := diff
		if 1-diff < cyclicDiff {
			cyclicDiff = 1 - diff
		}
		if cyclicDiff < bestDiff {
			bestDiff = cyclicDiff
			bestRealIdx = i
		}
	}

	return bestRealIdx
}
