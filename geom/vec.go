package geom

import "math"

// Vec2 is a 2-component float64 vector, used by the path tracer and by
// static mesh profiles.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3-component float64 vector: mesh positions, normals, spine
// points, and frame axes are all Vec3.
//
// Vec3 is a value type: scalars and vectors have no shared, mutable
// aliasing path.
type Vec3 struct {
	X, Y, Z float64
}

// Zero2 is the additive identity for Vec2.
var Zero2 = Vec2{}

// Zero3 is the additive identity for Vec3.
var Zero3 = Vec3{}

// NewVec3 constructs a Vec3 from three components.
func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Dot returns the dot product of v and w.
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// Cross returns the scalar (2D) cross product of v and w, equal to the
// signed area of the parallelogram they span. Used by the adaptive
// sampler's 2D perpendicular-distance metric.
func (v Vec2) Cross(w Vec2) float64 { return v.X*w.Y - v.Y*w.X }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// LenSq returns the squared Euclidean length of v, avoiding a sqrt when
// only a comparison is needed.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Lerp linearly interpolates between v and w at parameter t.
func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{v.X + (w.X-v.X)*t, v.Y + (w.Y-v.Y)*t}
}

// Distance returns the Euclidean distance between v and w.
func (v Vec2) Distance(w Vec2) float64 { return v.Sub(w).Len() }

// PerpDistance returns the perpendicular distance from p to the
// (infinite) line through a and b, via the 2D cross-product magnitude.
// Used by the adaptive sampler's chord-deviation density term.
// When a and b coincide it returns the distance from p to a.
func (p Vec2) PerpDistance(a, b Vec2) float64 {
	ab := b.Sub(a)
	abLen := ab.Len()
	if abLen < 1e-12 {
		return p.Sub(a).Len()
	}
	return math.Abs(ab.Cross(p.Sub(a))) / abLen
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Scale returns v scaled by f.
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

// Mul returns the componentwise product of v and w.
func (v Vec3) Mul(w Vec3) Vec3 { return Vec3{v.X * w.X, v.Y * w.Y, v.Z * w.Z} }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSq returns the squared Euclidean length of v.
func (v Vec3) LenSq() float64 { return v.Dot(v) }

// Distance returns the Euclidean distance between v and w.
func (v Vec3) Distance(w Vec3) float64 { return v.Sub(w).Len() }

// DistanceSq returns the squared Euclidean distance between v and w.
func (v Vec3) DistanceSq(w Vec3) float64 { return v.Sub(w).LenSq() }

// Normalize returns v scaled to unit length. Degenerate (near-zero) input
// returns Zero3 rather than producing NaN.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Zero3
	}
	return v.Scale(1 / l)
}

// Lerp linearly interpolates between v and w at parameter t. Used by
// split_edge to place the new midpoint vertex.
func (v Vec3) Lerp(w Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (w.X-v.X)*t,
		v.Y + (w.Y-v.Y)*t,
		v.Z + (w.Z-v.Z)*t,
	}
}

// PerpDistance returns the perpendicular distance from p to the segment
// direction ab (treated as infinite), via the 3D cross product's norm.
// Mirrors Vec2.PerpDistance for the adaptive sampler's 3D instantiation.
func (p Vec3) PerpDistance(a, b Vec3) float64 {
	ab := b.Sub(a)
	abLen := ab.Len()
	if abLen < 1e-12 {
		return p.Sub(a).Len()
	}
	return ab.Cross(p.Sub(a)).Len() / abLen
}

// ApproxEqual reports whether v and w differ by less than eps in every
// component.
func (v Vec3) ApproxEqual(w Vec3, eps float64) bool {
	return math.Abs(v.X-w.X) < eps && math.Abs(v.Y-w.Y) < eps && math.Abs(v.Z-w.Z) < eps
}

// Min returns the componentwise minimum of v and w.
func (v Vec3) Min(w Vec3) Vec3 {
	return Vec3{math.Min(v.X, w.X), math.Min(v.Y, w.Y), math.Min(v.Z, w.Z)}
}

// Max returns the componentwise maximum of v and w.
func (v Vec3) Max(w Vec3) Vec3 {
	return Vec3{math.Max(v.X, w.X), math.Max(v.Y, w.Y), math.Max(v.Z, w.Z)}
}
