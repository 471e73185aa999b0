package geom

import "math"

// AABB is an axis-aligned bounding box. A Mesh value's AABB
// is computed lazily and cached; callers that only need containment or
// center queries use this type directly.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns an AABB with inverted bounds, ready to be grown by
// repeated calls to Extend.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// Extend grows the box to include p, returning the updated box.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box's extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// IsEmpty reports whether the box has never been extended (or was built
// degenerate), i.e. any axis has Min > Max.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Inflate grows the box by f on every side, used by merge_vertices_by_distance
// to build a spatial hash slightly larger than the mesh's
// tight bounds so boundary vertices still hash correctly.
func (b AABB) Inflate(f float64) AABB {
	pad := Vec3{f, f, f}
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}
