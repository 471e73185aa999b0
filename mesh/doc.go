// Package mesh implements LinkedMesh, the half-edge-like topological mesh
// kernel: a vertex/edge/face graph with strict adjacency invariants,
// edge splitting with displacement-normal interpolation,
// vertex merging with edge coalescing, smooth-fan normal computation, and
// manifold checking.
//
// Entities live in generational arenas (arena.go): a table the rest of
// the package mutates through keys rather than pointers, so a walk can
// hold keys across a mutation that would invalidate a pointer into a
// resized slice.
//
// LinkedMesh is generic over a per-face data payload; most callers instantiate it as
// LinkedMesh[any] or with a small struct carrying a material index.
package mesh
