package mesh

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/geoscript/geom"
)

func containsFaceKey(fs []FaceKey, fk FaceKey) bool {
	for _, f := range fs {
		if f == fk {
			return true
		}
	}
	return false
}

func faceContainsVertex(v [3]VertexKey, k VertexKey) bool {
	return v[0] == k || v[1] == k || v[2] == k
}

// facesIncidentToVertex returns the set of distinct faces touching v, via
// its incident edges.
func (m *LinkedMesh[D]) facesIncidentToVertex(v VertexKey) []FaceKey {
	vv, ok := m.Vertex(v)
	if !ok {
		return nil
	}
	var out []FaceKey
	for _, ek := range vv.Edges {
		if e, ok := m.Edge(ek); ok {
			for _, fk := range e.Faces {
				if !containsFaceKey(out, fk) {
					out = append(out, fk)
				}
			}
		}
	}
	return out
}

// MergeVertices retargets every reference to v1 onto v0 and deletes v1.
// For each edge that becomes (v0, otherEnd) as a result, if another edge
// already connects that pair, the two edges are coalesced: their faces
// are union-merged onto the surviving edge and the duplicate is deleted
//.
//
// MergeVertices panics if any face currently contains both v0 and v1 --
// merging would collapse it to a degenerate (two-vertex) triangle.
// Callers must remove such faces first (this is treated as a programmer
// error, not a recoverable runtime error).
func (m *LinkedMesh[D]) MergeVertices(v0, v1 VertexKey) {
	if v0 == v1 {
		return
	}
	vv1, ok := m.Vertex(v1)
	if !ok {
		return
	}

	sharedFaces := m.facesIncidentToVertex(v1)
	for _, fk := range sharedFaces {
		if face, ok := m.Face(fk); ok && faceContainsVertex(face.V, v0) {
			panic(fmt.Sprintf("mesh: merge_vertices(%v, %v): face %v contains both endpoints; remove it first", v0, v1, fk))
		}
	}

	// Rewrite every face's vertex reference from v1 to v0 before touching
	// edges, so the coalescing pass below can freely remove v1's edges.
	for _, fk := range sharedFaces {
		face, ok := m.Face(fk)
		if !ok {
			continue
		}
		for i, vk := range face.V {
			if vk == v1 {
				face.V[i] = v0
			}
		}
	}

	incident := append([]EdgeKey(nil), vv1.Edges...)
	for _, ek := range incident {
		edge, ok := m.Edge(ek)
		if !ok {
			continue
		}
		other, matched := edge.OtherEndpoint(v1)
		if !matched {
			continue
		}
		if other == v0 {
			// The direct v0-v1 edge: every face on it already contained
			// both endpoints and would have panicked above, so in
			// practice this branch is unreachable for a well-formed
			// mesh. Defensively drop it rather than leave a self-loop.
			m.edges.remove(Key(ek))
			m.removeEdgeFromVertex(other, ek)
			continue
		}

		a, b := sortPair(other, v0)
		if existing, ok := m.findEdge(a, b); ok && existing != ek {
			// Coalesce ek into existing: union-merge faces, rewrite
			// those faces' edge references from ek to existing, then
			// delete ek.
			edgeEk, _ := m.Edge(ek)
			existingEdge, _ := m.Edge(existing)
			for _, fk := range edgeEk.Faces {
				if !containsFaceKey(existingEdge.Faces, fk) {
					existingEdge.Faces = append(existingEdge.Faces, fk)
				}
				if face, ok := m.Face(fk); ok {
					for i, fek := range face.E {
						if fek == ek {
							face.E[i] = existing
						}
					}
				}
			}
			m.removeEdgeFromVertex(other, ek)
			m.edges.remove(Key(ek))
		} else {
			edge.V = [2]VertexKey{a, b}
			if v0Vert, ok := m.Vertex(v0); ok {
				v0Vert.Edges = append(v0Vert.Edges, ek)
			}
		}
	}

	m.vertices.remove(Key(v1))
}

type bucketKey [3]int

// bucketOf returns the 32^3 spatial-hash cell containing p within the
// (inflated) bounding box.
func bucketOf(p geom.Vec3, box geom.AABB, cell geom.Vec3) bucketKey {
	clampIdx := func(v, c float64) int {
		if c <= 0 {
			return 0
		}
		idx := int((v) / c)
		if idx < 0 {
			idx = 0
		}
		if idx > 31 {
			idx = 31
		}
		return idx
	}
	rel := p.Sub(box.Min)
	return bucketKey{clampIdx(rel.X, cell.X), clampIdx(rel.Y, cell.Y), clampIdx(rel.Z, cell.Z)}
}

// MergeVerticesByDistance merges every pair of vertices within eps of
// each other. It builds a uniform 32x32x32 spatial hash
// over the mesh's (slightly inflated) bounding box, so each vertex only
// needs to scan its own bucket plus, when near a boundary, its 26
// neighbors, rather than every other vertex. Returns the number of
// vertices removed by merging.
func (m *LinkedMesh[D]) MergeVerticesByDistance(eps float64) int {
	if eps <= 0 {
		return 0
	}
	box := geom.EmptyAABB()
	var keys []VertexKey
	m.EachVertex(func(k VertexKey, v *Vertex) {
		box = box.Extend(v.Position)
		keys = append(keys, k)
	})
	if len(keys) < 2 || box.IsEmpty() {
		return 0
	}
	box = box.Inflate(eps * 1.01)
	size := box.Size()
	cell := geom.Vec3{X: size.X / 32, Y: size.Y / 32, Z: size.Z / 32}

	buckets := make(map[bucketKey][]VertexKey)
	posOf := func(k VertexKey) geom.Vec3 {
		v, _ := m.Vertex(k)
		return v.Position
	}
	for _, k := range keys {
		bk := bucketOf(posOf(k), box, cell)
		buckets[bk] = append(buckets[bk], k)
	}

	onBoundary := func(p geom.Vec3) bool {
		rel := p.Sub(box.Min)
		check := func(v, c float64) bool {
			if c <= 0 {
				return false
			}
			frac := v / c
			i := int(frac)
			return frac-float64(i) < eps/c || float64(i+1)-frac < eps/c
		}
		return check(rel.X, cell.X) || check(rel.Y, cell.Y) || check(rel.Z, cell.Z)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	count := 0
	epsSq := eps * eps
	for _, base := range keys {
		bv, ok := m.Vertex(base)
		if !ok {
			continue
		}
		basePos := bv.Position
		bk := bucketOf(basePos, box, cell)

		cells := [][3]int{{bk[0], bk[1], bk[2]}}
		if onBoundary(basePos) {
			cells = cells[:0]
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					for dz := -1; dz <= 1; dz++ {
						cells = append(cells, [3]int{bk[0] + dx, bk[1] + dy, bk[2] + dz})
					}
				}
			}
		}

		var candidates []VertexKey
		for _, c := range cells {
			candidates = append(candidates, buckets[bucketKey{c[0], c[1], c[2]}]...)
		}

		for _, cand := range candidates {
			if !base.Less(cand) {
				continue
			}
			cv, ok := m.Vertex(cand)
			if !ok {
				continue
			}
			if cv.Position.DistanceSq(basePos) > epsSq {
				continue
			}
			m.removeFacesContainingBoth(base, cand)
			if _, ok := m.Vertex(cand); !ok {
				continue
			}
			m.MergeVertices(base, cand)
			count++
		}
	}
	return count
}

// removeFacesContainingBoth removes every face that currently lists both
// v0 and v1 among its three vertices, clearing the way for MergeVertices
// to proceed without panicking.
func (m *LinkedMesh[D]) removeFacesContainingBoth(v0, v1 VertexKey) {
	for _, fk := range m.facesIncidentToVertex(v1) {
		if face, ok := m.Face(fk); ok && faceContainsVertex(face.V, v0) {
			m.RemoveFace(fk)
		}
	}
}
