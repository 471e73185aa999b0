package fku

import "github.com/katalvlaran/geoscript/geom"

// MaxDPStitchResolution is the per-ring vertex-count cutoff beyond which
// DP stitching is skipped in favor of uniform stitching:
// the DP table is O(N*M) in both time and memory.
const MaxDPStitchResolution = 5000

const (
	areaWeight = 0.85
	edgeWeight = 1.0
	dtWeight   = 2.5
	// criticalPairMultiplier biases the solver toward connecting two
	// critical (sharp-seam) points to each other rather than taking a
	// cheaper shortcut across the seam.
	criticalPairMultiplier = 0.5
)

// Cost is the DP stitch cost functional: for a triangle
// (p1, p2, p3) where p1->p2 is the segment being advanced on one ring
// and p3 is the tip on the opposite ring, it combines triangle area,
// connecting-edge length, and a t-value proximity penalty, all scaled by
// invScale/invScaleSq so the weights behave consistently across mesh
// sizes. bothCritical halves the cost when p2 and p3 are both
// flagged as critical seam points.
func Cost(p1, p2, p3 geom.Vec3, invScale, invScaleSq, t2, t3 float64, bothCritical bool) float64 {
	edge1 := p2.Sub(p1)
	edge2 := p3.Sub(p1)
	area := edge1.Cross(edge2).Len() * 0.5

	connecting := p3.Sub(p2)
	edgeLen := connecting.Len()

	dt := absF(t2 - t3)
	if dt > 0.5 {
		dt = 1.0 - dt
	}

	cost := areaWeight*area*invScaleSq + edgeWeight*edgeLen*invScale + dtWeight*dt
	if bothCritical {
		cost *= criticalPairMultiplier
	}

	return cost
}

// RingAverageRadius returns the average distance of pts from their
// centroid: the characteristic scale used to non-dimensionalize Cost's
// weights (inv_scale).
func RingAverageRadius(pts []geom.Vec3) float64 {
	if len(pts) == 0 {
		return 0
	}

	centroid := geom.Zero3
	for _, p := range pts {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1 / float64(len(pts)))

	sum := 0.0
	for _, p := range pts {
		sum += p.Sub(centroid).Len()
	}

	return sum / float64(len(pts))
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
