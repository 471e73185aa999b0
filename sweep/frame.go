package sweep

import (
	"math"

	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
)

// frameEpsilon bounds the degenerate cases in frame computation: a
// squared-norm projection below this is treated as zero.
const frameEpsilon = 1e-6

// FrameMode selects how the sweep computes its per-spine-point reference
// frame.
type FrameMode int

const (
	// FrameRMF computes rotation-minimizing frames: each frame's normal
	// is the previous frame's normal parallel-transported onto the new
	// tangent's perpendicular plane.
	FrameRMF FrameMode = iota
	// FrameFixedUp derives each frame's normal from a single fixed up
	// vector, falling back to parallel transport where the up vector is
	// nearly parallel to the tangent.
	FrameFixedUp
)

// SpineFrame is the local coordinate frame at one spine point: tangent
// (direction of travel), normal and binormal (together spanning the
// profile's plane), all unit length and mutually perpendicular.
type SpineFrame struct {
	Center   geom.Vec3
	Tangent  geom.Vec3
	Normal   geom.Vec3
	Binormal geom.Vec3
}

// CalculateTangents computes a forward-difference tangent at every point
// except the last, which uses a backward difference.
func CalculateTangents(points []geom.Vec3) []geom.Vec3 {
	tangents := make([]geom.Vec3, len(points))
	for i := range points {
		var dir geom.Vec3
		if i == len(points)-1 {
			dir = points[i].Sub(points[i-1])
		} else {
			dir = points[i+1].Sub(points[i])
		}
		tangents[i] = dir.Normalize()
	}

	return tangents
}

// nonParallelAxis returns a unit axis guaranteed not to be nearly
// parallel to t, used as a last-resort fallback when both the preferred
// and secondary construction of a frame's normal degenerate.
func nonParallelAxis(t geom.Vec3) geom.Vec3 {
	up := geom.Vec3{X: 0, Y: 1, Z: 0}
	if absF(t.Dot(up)) > 0.999 {
		return geom.Vec3{X: 1, Y: 0, Z: 0}
	}

	return up
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}

// CalculateSpineFrames builds one SpineFrame per spine point. For
// FrameRMF, up seeds only the very first frame; for
// FrameFixedUp, up is used (where it does not degenerate) at every frame.
func CalculateSpineFrames(points []geom.Vec3, mode FrameMode, up geom.Vec3) ([]SpineFrame, error) {
	if len(points) < 2 {
		return nil, errstack.Newf(errstack.ErrGeometric, "rail_sweep requires at least two points in the spine, found: %d", len(points))
	}

	tangents := CalculateTangents(points)
	frames := make([]SpineFrame, 0, len(points))

	switch mode {
	case FrameRMF:
		t0 := tangents[0]
		seed := up
		if seed.LenSq() < frameEpsilon || absF(t0.Dot(seed.Normalize())) > 0.999 {
			seed = nonParallelAxis(t0)
		}
		normal := t0.Cross(seed).Normalize()
		binormal := t0.Cross(normal).Normalize()

		frames = append(frames, SpineFrame{Center: points[0], Tangent: t0, Normal: normal, Binormal: binormal})

		for i := 1; i < len(points); i++ {
			ti := tangents[i]
			dot := ti.Dot(normal)
			proj := normal.Sub(ti.Scale(dot))
			if proj.LenSq() < frameEpsilon {
				proj = ti.Cross(binormal)
				if proj.LenSq() < frameEpsilon {
					proj = ti.Cross(nonParallelAxis(ti))
				}
			}
			normal = proj.Normalize()
			binormal = ti.Cross(normal).Normalize()

			frames = append(frames, SpineFrame{Center: points[i], Tangent: ti, Normal: normal, Binormal: binormal})
		}

	case FrameFixedUp:
		if up.LenSq() < frameEpsilon {
			return nil, errstack.New(errstack.ErrGeometric, "invalid up vector for rail_sweep; expected non-zero length")
		}

		var prevNormal geom.Vec3
		havePrev := false
		for i, ti := range tangents {
			normal := ti.Cross(up)
			if normal.LenSq() < frameEpsilon {
				if havePrev {
					dot := ti.Dot(prevNormal)
					proj := prevNormal.Sub(ti.Scale(dot))
					if proj.LenSq() >= frameEpsilon {
						normal = proj
					}
				}
				if normal.LenSq() < frameEpsilon {
					normal = ti.Cross(nonParallelAxis(ti))
				}
			}
			normal = normal.Normalize()
			binormal := ti.Cross(normal).Normalize()

			frames = append(frames, SpineFrame{Center: points[i], Tangent: ti, Normal: normal, Binormal: binormal})
			prevNormal = normal
			havePrev = true
		}

	default:
		return nil, errstack.Newf(errstack.ErrGeometric, "unknown rail_sweep frame mode: %d", mode)
	}

	return frames, nil
}

// ApplyTwist rotates normal/binormal about the frame's tangent axis by
// twist radians (per-ring twist).
func ApplyTwist(normal, binormal geom.Vec3, twist float64) (geom.Vec3, geom.Vec3) {
	sin, cos := math.Sincos(twist)
	rotatedNormal := normal.Scale(cos).Add(binormal.Scale(sin))
	rotatedBinormal := binormal.Scale(cos).Sub(normal.Scale(sin))

	return rotatedNormal, rotatedBinormal
}
