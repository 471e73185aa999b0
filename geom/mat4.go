package geom

import "math"

// Mat4 is a row-major 4x4 matrix used as a mesh's world transform.
type Mat4 [16]float64

// Identity4 returns the identity transform.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 returns a translation matrix.
func Translate4(t Vec3) Mat4 {
	m := Identity4()
	m[3], m[7], m[11] = t.X, t.Y, t.Z
	return m
}

// Scale4 returns a nonuniform scaling matrix.
func Scale4(s Vec3) Mat4 {
	m := Identity4()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// RotateAxis4 returns a rotation matrix for angle radians about axis
// (Rodrigues' formula), used by the rot builtin.
func RotateAxis4(axis Vec3, angle float64) Mat4 {
	a := axis.Normalize()
	s, c := math.Sin(angle), math.Cos(angle)
	t := 1 - c
	x, y, z := a.X, a.Y, a.Z
	return Mat4{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * other (m applied after other when both transform a
// point, i.e. (m.Mul(other)).MulPoint(p) == m.MulPoint(other.MulPoint(p))).
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * o[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// MulPoint transforms p as a point (implicit w=1).
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// MulDirection transforms v as a direction (implicit w=0, no translation);
// used for transforming normals under a uniform-scale assumption.
func (m Mat4) MulDirection(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}
