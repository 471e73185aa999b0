// Package geom provides the vector and matrix primitives shared by every
// other geoscript package: Vec2, Vec3, and a 4x4 world transform.
//
// geom has no dependency on anything else in the module: every other
// package sits above it in the dependency order.
package geom
