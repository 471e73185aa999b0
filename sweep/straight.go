package sweep

import (
	"math"

	"github.com/katalvlaran/geoscript/geom"
)

// spineStraightnessThreshold is the maximum deviation from a straight
// line, as a fraction of total spine length, before the topology-aware
// static-profile sampling optimization is disabled.
const spineStraightnessThreshold = 0.035

// SpineIsApproximatelyStraight reports whether every interior point of
// points lies within spineStraightnessThreshold of the line from the
// first point to the last.
func SpineIsApproximatelyStraight(points []geom.Vec3) bool {
	if len(points) < 3 {
		return true
	}

	start := points[0]
	end := points[len(points)-1]
	lineDir := end.Sub(start)
	lineLenSq := lineDir.LenSq()

	if lineLenSq < frameEpsilon {
		thresholdSq := spineStraightnessThreshold * spineStraightnessThreshold
		for _, p := range points {
			if p.Sub(start).LenSq() >= thresholdSq {
				return false
			}
		}

		return true
	}

	lineLen := math.Sqrt(lineLenSq)
	lineDirN := lineDir.Scale(1 / lineLen)

	maxDeviation := 0.0
	for _, p := range points[1: len(points)-1] {
		toPoint := p.Sub(start)
		projLen := toPoint.Dot(lineDirN)
		proj := lineDirN.Scale(projLen)
		perp := toPoint.Sub(proj)
		if d := perp.Len(); d > maxDeviation {
			maxDeviation = d
		}
	}

	return maxDeviation <= lineLen*spineStraightnessThreshold
}
