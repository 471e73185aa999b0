package mesh

import "github.com/katalvlaran/geoscript/geom"

// FromIndexedVertices builds a LinkedMesh from a flat vertex array and a
// triangle index array. Vertices are inserted in order
// into a fresh arena, so input index i maps to the vertex key
// {Index: i+1, Gen: 1} -- the arena's slot 0 is a permanent dummy, so the
// first insertion always lands at index 1, a stable mapping callers may
// rely on. normals, if non-nil, must have one entry per
// position and is applied as each vertex's shading normal; transform, if
// non-nil, becomes the mesh's world transform.
func FromIndexedVertices[D any](positions []geom.Vec3, indices []int, normals []geom.Vec3, transform *geom.Mat4) (*LinkedMesh[D], bool) {
	if len(indices)%3 != 0 {
		return nil, false
	}
	if normals != nil && len(normals) != len(positions) {
		return nil, false
	}

	m := New[D]()
	keys := make([]VertexKey, len(positions))
	for i, p := range positions {
		keys[i] = m.AddVertex(p)
		if normals != nil {
			if v, ok := m.Vertex(keys[i]); ok {
				n := normals[i]
				v.ShadingNormal = &n
			}
		}
	}

	var zero D
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a < 0 || b < 0 || c < 0 || a >= len(keys) || b >= len(keys) || c >= len(keys) {
			return nil, false
		}
		m.AddFace([3]VertexKey{keys[a], keys[b], keys[c]}, zero)
	}
	m.Transform = transform
	return m, true
}

// RawIndexed is the flat representation produced by ToRawIndexed: a
// vertex array plus a triangle index array, with parallel normal arrays
// when requested.
type RawIndexed struct {
	Positions           []geom.Vec3
	Indices             []int
	ShadingNormals      []geom.Vec3 // len == len(Positions) iff requested
	DisplacementNormals []geom.Vec3 // len == len(Positions) iff requested
}

// ToRawIndexed walks faces in (arena) insertion order; for each vertex
// first seen while walking, it emits the vertex's position (and,
// optionally, its normals) into the flat output arrays and records the
// assigned output index, then emits the face's three output indices
//. Degenerate (collinear) faces are skipped unless
// includeDegenerate is set.
func (m *LinkedMesh[D]) ToRawIndexed(includeShading, includeDisplacement, includeDegenerate bool) RawIndexed {
	var out RawIndexed
	assigned := make(map[VertexKey]int)

	m.EachFace(func(_ FaceKey, f *Face[D]) {
		p0, ok0 := m.Vertex(f.V[0])
		p1, ok1 := m.Vertex(f.V[1])
		p2, ok2 := m.Vertex(f.V[2])
		if !ok0 || !ok1 || !ok2 {
			return
		}
		if !includeDegenerate && isCollinear(p0.Position, p1.Position, p2.Position) {
			return
		}

		var tri [3]int
		for i, vk := range f.V {
			idx, seen := assigned[vk]
			if !seen {
				vv, _ := m.Vertex(vk)
				idx = len(out.Positions)
				out.Positions = append(out.Positions, vv.Position)
				if includeShading {
					var n geom.Vec3
					if vv.ShadingNormal != nil {
						n = *vv.ShadingNormal
					}
					out.ShadingNormals = append(out.ShadingNormals, n)
				}
				if includeDisplacement {
					var n geom.Vec3
					if vv.DisplacementNormal != nil {
						n = *vv.DisplacementNormal
					}
					out.DisplacementNormals = append(out.DisplacementNormals, n)
				}
				assigned[vk] = idx
			}
			tri[i] = idx
		}
		out.Indices = append(out.Indices, tri[0], tri[1], tri[2])
	})

	return out
}
