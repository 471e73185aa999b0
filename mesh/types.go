package mesh

import "github.com/katalvlaran/geoscript/geom"

// Vertex is an entity in a LinkedMesh.
type Vertex struct {
	Position Vec3

	// ShadingNormal is set once smooth-fan normal computation has run;
	// nil beforehand.
	ShadingNormal *Vec3

	// DisplacementNormal is the single normal used by offset operations
	// (extrusion, warping); distinct from ShadingNormal, which may be
	// per-fan after a smooth-fan split.
	DisplacementNormal *Vec3

	// Edges lists every EdgeKey incident to this vertex. Order is
	// insertion order; it is not meaningful for traversal, which instead
	// walks via Face/Edge adjacency.
	Edges []EdgeKey
}

// Vec3 is an alias so call sites in this package read naturally without forcing
// every caller to import geom directly for this one type; mesh otherwise
// depends only on geom.
type Vec3 = geom.Vec3

// Edge is an entity in a LinkedMesh. V holds the two endpoint
// VertexKeys, sorted so V[0].Less(V[1]) always holds.
type Edge struct {
	V [2]VertexKey

	// Faces lists the faces incident to this edge: typically length 1
	// (border) or 2 (manifold interior edge), occasionally more during
	// an in-progress non-manifold construction.
	Faces []FaceKey

	Sharp bool

	// DisplacementNormal is consulted by split_edge when NormalMethod is
	// FromEdgeDisplacement.
	DisplacementNormal *Vec3
}

// OtherEndpoint returns the endpoint of e that is not v, and false if v
// is not one of e's endpoints.
func (e *Edge) OtherEndpoint(v VertexKey) (VertexKey, bool) {
	switch {
	case e.V[0] == v:
		return e.V[1], true
	case e.V[1] == v:
		return e.V[0], true
	default:
		return VertexKey{}, false
	}
}

// Face is an entity in a LinkedMesh. V holds its three VertexKeys in CCW
// order; E holds its three EdgeKeys, unordered relative to V.
type Face[D any] struct {
	V [3]VertexKey
	E [3]EdgeKey
	Data D
}

// LinkedMesh is the topological mesh kernel: three entity
// arenas (vertices, edges, faces) plus an optional world transform.
type LinkedMesh[D any] struct {
	vertices *arena[Vertex]
	edges    *arena[Edge]
	faces    *arena[Face[D]]

	// Transform is the mesh's optional 4x4 world transform.
	// It is not applied to stored positions; callers that need
	// world-space coordinates apply it explicitly (e.g. when computing
	// to_raw_indexed for rendering).
	Transform *geom.Mat4
}

// New returns an empty LinkedMesh.
func New[D any]() *LinkedMesh[D] {
	return &LinkedMesh[D]{
		vertices: newArena[Vertex](),
		edges:    newArena[Edge](),
		faces:    newArena[Face[D]](),
	}
}

// VertexCount, FaceCount, and EdgeCount are cheap O(1) accessors, used
// by builtins to validate a mesh before geometric operations.
func (m *LinkedMesh[D]) VertexCount() int { return m.vertices.len() }
func (m *LinkedMesh[D]) FaceCount() int   { return m.faces.len() }
func (m *LinkedMesh[D]) EdgeCount() int   { return m.edges.len() }

// IsEmpty reports whether the mesh has no faces.
func (m *LinkedMesh[D]) IsEmpty() bool { return m.faces.len() == 0 }

// Vertex returns the vertex at k, or (nil, false) if k does not reference
// a live vertex.
func (m *LinkedMesh[D]) Vertex(k VertexKey) (*Vertex, bool) {
	return m.vertices.get(Key(k))
}

// Edge returns the edge at k, or (nil, false) if k does not reference a
// live edge.
func (m *LinkedMesh[D]) Edge(k EdgeKey) (*Edge, bool) {
	return m.edges.get(Key(k))
}

// Face returns the face at k, or (nil, false) if k does not reference a
// live face.
func (m *LinkedMesh[D]) Face(k FaceKey) (*Face[D], bool) {
	return m.faces.get(Key(k))
}

// AddVertex inserts a new vertex at pos and returns its key.
func (m *LinkedMesh[D]) AddVertex(pos Vec3) VertexKey {
	return VertexKey(m.vertices.insert(Vertex{Position: pos}))
}

// EachVertex calls fn for every live vertex, in arena order.
func (m *LinkedMesh[D]) EachVertex(fn func(VertexKey, *Vertex)) {
	m.vertices.each(func(k Key, v *Vertex) { fn(VertexKey(k), v) })
}

// EachEdge calls fn for every live edge, in arena order.
func (m *LinkedMesh[D]) EachEdge(fn func(EdgeKey, *Edge)) {
	m.edges.each(func(k Key, e *Edge) { fn(EdgeKey(k), e) })
}

// EachFace calls fn for every live face, in arena order (insertion
// order among still-live faces, the order ToRawIndexed emits).
func (m *LinkedMesh[D]) EachFace(fn func(FaceKey, *Face[D])) {
	m.faces.each(func(k Key, f *Face[D]) { fn(FaceKey(k), f) })
}
