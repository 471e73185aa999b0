package sweep

import (
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
)

// ResampleSpinePointsAtT resamples points at the given arc-length
// fractions (each in [0, 1]), linearly interpolating within whichever
// segment of the polyline contains the target arc length. points must
// have at least two entries and non-zero length.
func ResampleSpinePointsAtT(points []geom.Vec3, tValues []float64) ([]geom.Vec3, error) {
	if len(points) < 2 {
		return nil, errstack.Newf(errstack.ErrGeometric, "rail_sweep requires at least two spine points, found: %d", len(points))
	}

	cumulative := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cumulative[i] = cumulative[i-1] + points[i].Sub(points[i-1]).Len()
	}

	total := cumulative[len(cumulative)-1]
	if total <= 0 {
		return nil, errstack.New(errstack.ErrGeometric, "cannot resample rail_sweep spine with zero length")
	}

	out := make([]geom.Vec3, len(tValues))
	for k, t := range tValues {
		target := total * t
		segIx := 0
		for segIx+1 < len(cumulative) && cumulative[segIx+1] < target {
			segIx++
		}
		if segIx+1 >= len(cumulative) {
			segIx = len(cumulative) - 2
		}

		segLen := cumulative[segIx+1] - cumulative[segIx]
		localT := 0.0
		if segLen > 0 {
			localT = clamp01((target - cumulative[segIx]) / segLen)
		}
		out[k] = points[segIx].Lerp(points[segIx+1], localT)
	}

	return out, nil
}
