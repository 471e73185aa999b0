// Package sampler implements the curvature-aware adaptive sampler and
// the critical-point snapping pass used by the sweep builtins.
//
// The algorithm is generic over the point type via the Point
// constraint: geom.Vec2 and
// geom.Vec3 both already expose LenSq and PerpDistance, so Sample is a
// single generic function rather than a duplicated 2D/3D implementation.
package sampler
