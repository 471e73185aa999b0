package value

import (
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/mesh"
)

// FaceData is the generic per-face payload every geoscript LinkedMesh
// instantiates ("generic per-face data"): the index of
// the Material in effect for that face at the time it was created, or
// -1 if none was set.
type FaceData struct {
	MaterialIndex int
}

// NoMaterial is the FaceData.MaterialIndex sentinel for "no material
// assigned".
const NoMaterial = -1

// MeshHandle is the shared handle a `Mesh` Value wraps: a
// LinkedMesh, its world transform, a lazily-computed bounding box, and
// an optional material.
type MeshHandle struct {
	Mesh      *mesh.LinkedMesh[FaceData]
	Transform *geom.Mat4
	Material  *Material

	aabb      *geom.AABB
	aabbDirty bool
}

// NewMeshHandle wraps m in a fresh handle with no transform or material.
func NewMeshHandle(m *mesh.LinkedMesh[FaceData]) *MeshHandle {
	return &MeshHandle{Mesh: m, aabbDirty: true}
}

// AABB returns the handle's (object-space) bounding box, computing and
// caching it on first use or after InvalidateAABB.
func (h *MeshHandle) AABB() geom.AABB {
	if h.aabb != nil && !h.aabbDirty {
		return *h.aabb
	}
	box := geom.EmptyAABB()
	h.Mesh.EachVertex(func(_ mesh.VertexKey, v *mesh.Vertex) {
		box = box.Extend(v.Position)
	})
	h.aabb = &box
	h.aabbDirty = false
	return box
}

// InvalidateAABB marks the cached bounding box stale; callers that
// mutate vertex positions directly (rather than through a method that
// already calls this) must call it themselves.
func (h *MeshHandle) InvalidateAABB() { h.aabbDirty = true }

// Clone performs the copy-on-write duplication required before any
// builtin mutates a Mesh Value that might be aliased elsewhere
// (mutations clone, never touching an aliased handle). It round-trips
// through the flat indexed
// representation rather than cloning the arena directly, which is
// simpler to keep correct and cheap enough for the mesh sizes this
// engine targets (see DESIGN.md).
func (h *MeshHandle) Clone() *MeshHandle {
	raw := h.Mesh.ToRawIndexed(true, true, true)
	cloned, ok := mesh.FromIndexedVertices[FaceData](raw.Positions, raw.Indices, shadingOrNil(raw), nil)
	if !ok {
		cloned = mesh.New[FaceData]()
	}
	var transform *geom.Mat4
	if h.Transform != nil {
		t := *h.Transform
		transform = &t
	}
	var material *Material
	if h.Material != nil {
		m := *h.Material
		material = &m
	}
	return &MeshHandle{Mesh: cloned, Transform: transform, Material: material, aabbDirty: true}
}

func shadingOrNil(raw mesh.RawIndexed) []geom.Vec3 {
	if len(raw.ShadingNormals) == len(raw.Positions) {
		return raw.ShadingNormals
	}
	return nil
}
