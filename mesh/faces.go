package mesh

// sortPair returns v0, v1 in Key.Less order: an edge's vertex pair is
// always stored sorted.
func sortPair(a, b VertexKey) (VertexKey, VertexKey) {
	if a.Less(b) {
		return a, b
	}
	return b, a
}

// findEdge returns the EdgeKey already connecting v0 and v1, if any, by
// walking whichever endpoint currently has the shorter incident-edge
// list.
func (m *LinkedMesh[D]) findEdge(v0, v1 VertexKey) (EdgeKey, bool) {
	vv0, ok0 := m.Vertex(v0)
	vv1, ok1 := m.Vertex(v1)
	if !ok0 || !ok1 {
		return EdgeKey{}, false
	}
	probe, other := vv0, v1
	if len(vv1.Edges) < len(vv0.Edges) {
		probe, other = vv1, v0
	}
	for _, ek := range probe.Edges {
		e, ok := m.Edge(ek)
		if !ok {
			continue
		}
		if _, matches := e.OtherEndpoint(other); matches {
			if (e.V[0] == v0 && e.V[1] == v1) || (e.V[0] == v1 && e.V[1] == v0) {
				return ek, true
			}
		}
	}
	return EdgeKey{}, false
}

// GetOrCreateEdge returns the edge connecting the two given vertices,
// creating it if no such edge yet exists. The pair is sorted first, so
// GetOrCreateEdge(a, b) and GetOrCreateEdge(b, a) always resolve to the
// same edge.
func (m *LinkedMesh[D]) GetOrCreateEdge(v0, v1 VertexKey) EdgeKey {
	a, b := sortPair(v0, v1)
	if ek, ok := m.findEdge(a, b); ok {
		return ek
	}
	ek := EdgeKey(m.edges.insert(Edge{V: [2]VertexKey{a, b}}))
	if va, ok := m.Vertex(a); ok {
		va.Edges = append(va.Edges, ek)
	}
	if vb, ok := m.Vertex(b); ok {
		vb.Edges = append(vb.Edges, ek)
	}
	return ek
}

// AddFace inserts a triangular face over the three given vertices (in
// CCW order) carrying data, creating or reusing each of its three edges,
// and returns the new FaceKey.
func (m *LinkedMesh[D]) AddFace(v [3]VertexKey, data D) FaceKey {
	var e [3]EdgeKey
	e[0] = m.GetOrCreateEdge(v[0], v[1])
	e[1] = m.GetOrCreateEdge(v[1], v[2])
	e[2] = m.GetOrCreateEdge(v[2], v[0])

	fk := FaceKey(m.faces.insert(Face[D]{V: v, E: e, Data: data}))
	for _, ek := range e {
		if edge, ok := m.Edge(ek); ok {
			edge.Faces = append(edge.Faces, fk)
		}
	}
	return fk
}

// removeEdgeFromVertex deletes ek from v's incident-edge list, if
// present.
func (m *LinkedMesh[D]) removeEdgeFromVertex(v VertexKey, ek EdgeKey) {
	vv, ok := m.Vertex(v)
	if !ok {
		return
	}
	for i, e := range vv.Edges {
		if e == ek {
			vv.Edges = append(vv.Edges[:i], vv.Edges[i+1:]...)
			return
		}
	}
}

// removeFaceFromEdgeList removes fk from e.Faces in place.
func removeFaceFromEdgeList(faces []FaceKey, fk FaceKey) []FaceKey {
	for i, f := range faces {
		if f == fk {
			return append(faces[:i], faces[i+1:]...)
		}
	}
	return faces
}

// RemoveFace deletes the face at fk. For each of its edges: the face is
// removed from that edge's face list; if the edge then has no faces
// left, the edge itself is removed and deleted from both endpoints'
// vertex edge lists. Returns the face's attached data.
func (m *LinkedMesh[D]) RemoveFace(fk FaceKey) (D, bool) {
	face, ok := m.Face(fk)
	if !ok {
		var zero D
		return zero, false
	}
	edges := face.E
	data := face.Data

	m.faces.remove(Key(fk))

	for _, ek := range edges {
		edge, ok := m.Edge(ek)
		if !ok {
			continue
		}
		edge.Faces = removeFaceFromEdgeList(edge.Faces, fk)
		if len(edge.Faces) == 0 {
			v0, v1 := edge.V[0], edge.V[1]
			m.edges.remove(Key(ek))
			m.removeEdgeFromVertex(v0, ek)
			m.removeEdgeFromVertex(v1, ek)
		}
	}
	return data, true
}
