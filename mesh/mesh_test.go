package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
)

// newTri builds a single-triangle mesh at the three given positions, CCW
// when viewed from +Z, with empty face data.
func newTri(a, b, c geom.Vec3) (*LinkedMesh[struct{}], VertexKey, VertexKey, VertexKey, FaceKey) {
	m := New[struct{}]()
	va := m.AddVertex(a)
	vb := m.AddVertex(b)
	vc := m.AddVertex(c)
	fk := m.AddFace([3]VertexKey{va, vb, vc}, struct{}{})
	return m, va, vb, vc, fk
}

func TestAddFaceSharesEdges(t *testing.T) {
	m, va, vb, vc, _ := newTri(
		geom.NewVec3(0, 0, 0),
		geom.NewVec3(1, 0, 0),
		geom.NewVec3(0, 1, 0),
	)
	require.Equal(t, 3, m.VertexCount())
	require.Equal(t, 3, m.EdgeCount())
	require.Equal(t, 1, m.FaceCount())

	vd := m.AddVertex(geom.NewVec3(1, 1, 0))
	m.AddFace([3]VertexKey{vb, vd, vc}, struct{}{})

	// The shared edge (vb, vc) must not have been duplicated.
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 5, m.EdgeCount())
	assert.Equal(t, 2, m.FaceCount())

	shared, ok := m.findEdge(vb, vc)
	require.True(t, ok)
	edge, ok := m.Edge(shared)
	require.True(t, ok)
	assert.Len(t, edge.Faces, 2)

	_ = va
}

func TestRemoveFaceDeletesOrphanedEdges(t *testing.T) {
	m, va, vb, vc, fk := newTri(
		geom.NewVec3(0, 0, 0),
		geom.NewVec3(1, 0, 0),
		geom.NewVec3(0, 1, 0),
	)
	_, ok := m.RemoveFace(fk)
	require.True(t, ok)

	assert.Equal(t, 0, m.FaceCount())
	assert.Equal(t, 0, m.EdgeCount())
	assert.True(t, m.IsEmpty())

	_, okA := m.Vertex(va)
	_, okB := m.Vertex(vb)
	_, okC := m.Vertex(vc)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.True(t, okC)
	va1, _ := m.Vertex(va)
	assert.Empty(t, va1.Edges)
}

// TestSplitEdgeDiamond reproduces the diamond scenario: two triangles
// sharing an edge, split at its midpoint. 4 vertices become 5, 2 faces
// become 4, 5 edges become 8, and the new vertex has 4 incident edges.
func TestSplitEdgeDiamond(t *testing.T) {
	m := New[struct{}]()
	v0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	v1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	v2 := m.AddVertex(geom.NewVec3(0, 1, 0))
	v3 := m.AddVertex(geom.NewVec3(1, 1, 0))
	m.AddFace([3]VertexKey{v0, v1, v2}, struct{}{})
	m.AddFace([3]VertexKey{v1, v3, v2}, struct{}{})

	require.Equal(t, 4, m.VertexCount())
	require.Equal(t, 5, m.EdgeCount())
	require.Equal(t, 2, m.FaceCount())

	shared, ok := m.findEdge(v1, v2)
	require.True(t, ok)

	mid, ok := m.SplitEdge(shared, 0.5, NormalInterpolate)
	require.True(t, ok)

	assert.Equal(t, 5, m.VertexCount())
	assert.Equal(t, 8, m.EdgeCount())
	assert.Equal(t, 4, m.FaceCount())

	midVert, ok := m.Vertex(mid)
	require.True(t, ok)
	assert.Len(t, midVert.Edges, 4)
	assert.True(t, midVert.Position.ApproxEqual(geom.NewVec3(0.5, 0.5, 0), 1e-9))
}

func TestSplitEdgeRejectsEndpoints(t *testing.T) {
	m, v0, v1, _, _ := newTri(
		geom.NewVec3(0, 0, 0),
		geom.NewVec3(1, 0, 0),
		geom.NewVec3(0, 1, 0),
	)
	ek, ok := m.findEdge(v0, v1)
	require.True(t, ok)

	_, ok0 := m.SplitEdge(ek, 0, NormalInterpolate)
	_, ok1 := m.SplitEdge(ek, 1, NormalInterpolate)
	assert.False(t, ok0)
	assert.False(t, ok1)
}

func TestMergeVerticesCoalescesEdges(t *testing.T) {
	// Two disjoint triangles sharing no topology, then weld two of their
	// vertices together.
	m := New[struct{}]()
	a0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	a1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	a2 := m.AddVertex(geom.NewVec3(0, 1, 0))
	m.AddFace([3]VertexKey{a0, a1, a2}, struct{}{})

	b0 := m.AddVertex(geom.NewVec3(1, 0, 0)) // coincides with a1
	b1 := m.AddVertex(geom.NewVec3(2, 0, 0))
	b2 := m.AddVertex(geom.NewVec3(1, 1, 0))
	m.AddFace([3]VertexKey{b0, b1, b2}, struct{}{})

	require.Equal(t, 6, m.VertexCount())
	require.Equal(t, 2, m.FaceCount())

	m.MergeVertices(a1, b0)

	assert.Equal(t, 5, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
	_, stillThere := m.Vertex(b0)
	assert.False(t, stillThere)

	a1v, ok := m.Vertex(a1)
	require.True(t, ok)
	for _, ek := range a1v.Edges {
		e, ok := m.Edge(ek)
		require.True(t, ok)
		_, matches := e.OtherEndpoint(a1)
		assert.True(t, matches)
	}
}

func TestMergeVerticesPanicsOnSharedFace(t *testing.T) {
	m, v0, v1, _, _ := newTri(
		geom.NewVec3(0, 0, 0),
		geom.NewVec3(1, 0, 0),
		geom.NewVec3(0, 1, 0),
	)
	assert.Panics(t, func() { m.MergeVertices(v0, v1) })
}

func TestMergeVerticesByDistanceWeldsCoincidentPositions(t *testing.T) {
	m := New[struct{}]()
	a0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	a1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	a2 := m.AddVertex(geom.NewVec3(0, 1, 0))
	m.AddFace([3]VertexKey{a0, a1, a2}, struct{}{})

	b0 := m.AddVertex(geom.NewVec3(1, 0, 1e-7))
	b1 := m.AddVertex(geom.NewVec3(2, 0, 0))
	b2 := m.AddVertex(geom.NewVec3(1, 1, 0))
	m.AddFace([3]VertexKey{b0, b1, b2}, struct{}{})

	merged := m.MergeVerticesByDistance(1e-4)
	assert.Equal(t, 1, merged)
	assert.Equal(t, 5, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
}

func TestMergeVerticesByDistanceRemovesCollapsedSharedFaces(t *testing.T) {
	// Two triangles sharing no vertex keys but two coincident position
	// pairs; merging welds both pairs (the path through
	// removeFacesContainingBoth) and must not panic.
	m := New[struct{}]()
	v0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	v1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	v2 := m.AddVertex(geom.NewVec3(0, 1, 0))
	m.AddFace([3]VertexKey{v0, v1, v2}, struct{}{})

	w0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	w1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	w2 := m.AddVertex(geom.NewVec3(5, 5, 5))
	m.AddFace([3]VertexKey{w0, w1, w2}, struct{}{})

	assert.NotPanics(t, func() {
		m.MergeVerticesByDistance(1e-6)
	})
}

func TestCleanupDegenerateTriangles(t *testing.T) {
	m := New[struct{}]()
	v0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	v1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	v2 := m.AddVertex(geom.NewVec3(2, 0, 0)) // collinear with v0, v1
	m.AddFace([3]VertexKey{v0, v1, v2}, struct{}{})

	removed := m.CleanupDegenerateTriangles()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, m.FaceCount())
}

func TestFromIndexedVerticesAndToRawIndexedRoundTrip(t *testing.T) {
	positions := []geom.Vec3{
		geom.NewVec3(0, 0, 0),
		geom.NewVec3(1, 0, 0),
		geom.NewVec3(0, 1, 0),
		geom.NewVec3(1, 1, 0),
	}
	indices := []int{0, 1, 2, 1, 3, 2}

	m, ok := FromIndexedVertices[struct{}](positions, indices, nil, nil)
	require.True(t, ok)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())

	raw := m.ToRawIndexed(false, false, false)
	assert.Equal(t, 4, len(raw.Positions))
	assert.Equal(t, 6, len(raw.Indices))

	m2, ok := FromIndexedVertices[struct{}](raw.Positions, raw.Indices, nil, nil)
	require.True(t, ok)
	assert.Equal(t, m.VertexCount(), m2.VertexCount())
	assert.Equal(t, m.FaceCount(), m2.FaceCount())
}

func TestFromIndexedVerticesRejectsBadTriangleCount(t *testing.T) {
	_, ok := FromIndexedVertices[struct{}]([]geom.Vec3{{}, {}, {}}, []int{0, 1}, nil, nil)
	assert.False(t, ok)
}

func TestCheckManifoldLenientAcceptsBorder(t *testing.T) {
	m, _, _, _, _ := newTri(
		geom.NewVec3(0, 0, 0),
		geom.NewVec3(1, 0, 0),
		geom.NewVec3(0, 1, 0),
	)
	assert.Nil(t, m.CheckManifold(false))
}

func TestCheckManifoldEmptyMesh(t *testing.T) {
	m := New[struct{}]()
	err := m.CheckManifold(false)
	require.NotNil(t, err)
	detail, ok := errstack.TopologyDetailOf(err)
	require.True(t, ok)
	assert.Equal(t, errstack.EmptyMesh, detail.Kind)
}

func TestCheckManifoldStrictRejectsOpenMesh(t *testing.T) {
	// A single triangle: every edge has exactly 1 face, not 2, so
	// strict=true must reject it.
	m, _, _, _, _ := newTri(
		geom.NewVec3(0, 0, 0),
		geom.NewVec3(1, 0, 0),
		geom.NewVec3(0, 1, 0),
	)
	err := m.CheckManifold(true)
	require.NotNil(t, err)
}

func TestCheckManifoldStrictAcceptsTetrahedron(t *testing.T) {
	m := New[struct{}]()
	v0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	v1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	v2 := m.AddVertex(geom.NewVec3(0, 1, 0))
	v3 := m.AddVertex(geom.NewVec3(0, 0, 1))

	m.AddFace([3]VertexKey{v0, v2, v1}, struct{}{})
	m.AddFace([3]VertexKey{v0, v1, v3}, struct{}{})
	m.AddFace([3]VertexKey{v1, v2, v3}, struct{}{})
	m.AddFace([3]VertexKey{v2, v0, v3}, struct{}{})

	assert.Nil(t, m.CheckManifold(true))
}

// TestComputeSmoothNormalsSingleFan builds a closed tetrahedron (every
// edge non-sharp) and checks every vertex ends up with exactly one
// shading normal and no vertex splitting occurs.
func TestComputeSmoothNormalsSingleFan(t *testing.T) {
	m := New[struct{}]()
	v0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	v1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	v2 := m.AddVertex(geom.NewVec3(0, 1, 0))
	v3 := m.AddVertex(geom.NewVec3(0, 0, 1))

	m.AddFace([3]VertexKey{v0, v2, v1}, struct{}{})
	m.AddFace([3]VertexKey{v0, v1, v3}, struct{}{})
	m.AddFace([3]VertexKey{v1, v2, v3}, struct{}{})
	m.AddFace([3]VertexKey{v2, v0, v3}, struct{}{})

	before := m.VertexCount()
	m.ComputeSmoothNormals()
	assert.Equal(t, before, m.VertexCount())

	m.EachVertex(func(_ VertexKey, v *Vertex) {
		require.NotNil(t, v.ShadingNormal)
		require.NotNil(t, v.DisplacementNormal)
	})
}

// TestComputeSmoothNormalsSharpEdgeSplitsVertex builds two triangles that
// share only a single vertex (a bowtie) and no edge between them, so the
// shared vertex naturally has two disconnected border fans and must be
// split.
func TestComputeSmoothNormalsSharpEdgeSplitsVertex(t *testing.T) {
	m := New[struct{}]()
	shared := m.AddVertex(geom.NewVec3(0, 0, 0))
	a1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	a2 := m.AddVertex(geom.NewVec3(0, 1, 0))
	b1 := m.AddVertex(geom.NewVec3(-1, 0, 0))
	b2 := m.AddVertex(geom.NewVec3(0, -1, 0))

	m.AddFace([3]VertexKey{shared, a1, a2}, struct{}{})
	m.AddFace([3]VertexKey{shared, b1, b2}, struct{}{})

	beforeVerts := m.VertexCount()
	m.ComputeSmoothNormals()
	// One extra vertex created for the second fan.
	assert.Equal(t, beforeVerts+1, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
}

func TestMarkSharpEdgesByAngle(t *testing.T) {
	// Two triangles forming a right-angle fold: the shared edge's
	// dihedral angle is 90 degrees.
	m := New[struct{}]()
	v0 := m.AddVertex(geom.NewVec3(0, 0, 0))
	v1 := m.AddVertex(geom.NewVec3(1, 0, 0))
	v2 := m.AddVertex(geom.NewVec3(0, 1, 0))
	v3 := m.AddVertex(geom.NewVec3(0, 0, 1))
	m.AddFace([3]VertexKey{v0, v1, v2}, struct{}{})
	m.AddFace([3]VertexKey{v1, v0, v3}, struct{}{})

	shared, ok := m.findEdge(v0, v1)
	require.True(t, ok)

	m.MarkSharpEdgesByAngle(45)
	e, ok := m.Edge(shared)
	require.True(t, ok)
	assert.True(t, e.Sharp)
}
