package builtins

import (
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/value"
)

// MeshBooleanBackend performs a CSG combination of two meshes via a
// third-party CSG library. geoscript ships no
// concrete implementation; an embedder wires one in via SetMeshBoolean.
type MeshBooleanBackend interface {
	Union(a, b *value.MeshHandle) (*value.MeshHandle, error)
	Difference(a, b *value.MeshHandle) (*value.MeshHandle, error)
	Intersect(a, b *value.MeshHandle) (*value.MeshHandle, error)
}

// HullBackend computes a convex hull over a point cloud.
type HullBackend interface {
	ConvexHull(points []value.Value) (*value.MeshHandle, error)
}

// RemeshBackend performs the remeshing operations geoscript treats as
// external collaborators: alpha-wrap and isotropic/Delaunay remeshing.
type RemeshBackend interface {
	AlphaWrap(m *value.MeshHandle, offset float64) (*value.MeshHandle, error)
	IsotropicRemesh(m *value.MeshHandle, targetEdgeLen float64, iterations int) (*value.MeshHandle, error)
	DelaunayRemesh(m *value.MeshHandle) (*value.MeshHandle, error)
}

// Backends holds whatever external collaborators an embedder has wired
// in; a nil field means "not configured" and the corresponding builtin
// returns a clear error rather than panicking.
type Backends struct {
	Boolean MeshBooleanBackend
	Hull    HullBackend
	Remesh  RemeshBackend
}

var backends Backends

// SetBackends installs the embedder-supplied external collaborators
//. Passing a zero Backends clears whatever was configured.
func SetBackends(b Backends) { backends = b }

func errBackendNotConfigured(op string) error {
	return errstack.Newf(errstack.ErrRuntime, "%s: no backend configured; the embedder must call builtins.SetBackends before a script can use this operation", op)
}
