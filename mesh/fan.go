package mesh

// faceOtherEdgeAtVertex returns the edge of face f, other than from, that
// also contains vertex v -- the next edge to step across while walking a
// fan around v.
func (m *LinkedMesh[D]) faceOtherEdgeAtVertex(f FaceKey, from EdgeKey, v VertexKey) (EdgeKey, bool) {
	face, ok := m.Face(f)
	if !ok {
		return EdgeKey{}, false
	}
	for _, ek := range face.E {
		if ek == from {
			continue
		}
		e, ok := m.Edge(ek)
		if !ok {
			continue
		}
		if e.V[0] == v || e.V[1] == v {
			return ek, true
		}
	}
	return EdgeKey{}, false
}

// otherFaceAcrossEdge returns the face on the other side of ek from f,
// when ek has exactly two incident faces.
func (m *LinkedMesh[D]) otherFaceAcrossEdge(ek EdgeKey, f FaceKey) (FaceKey, bool) {
	e, ok := m.Edge(ek)
	if !ok || len(e.Faces) != 2 {
		return FaceKey{}, false
	}
	if e.Faces[0] == f {
		return e.Faces[1], true
	}
	if e.Faces[1] == f {
		return e.Faces[0], true
	}
	return FaceKey{}, false
}

// fanStep is one step of a walk around a vertex: the edge just crossed
// and the face just entered.
type fanStep struct {
	edge EdgeKey
	face FaceKey
}

// walkFanDirection walks one direction around v starting at (startFace,
// startEdge): it consumes startFace, marks startEdge visited, finds the
// other edge of startFace touching v, and (if that edge is allowed to
// continue, per shouldContinue) steps to the face across it, repeating.
// It stops when shouldContinue rejects an edge, the walk runs out of
// faces, or it returns to startEdge (closed == true in that case).
func (m *LinkedMesh[D]) walkFanDirection(
	v VertexKey,
	startFace FaceKey,
	startEdge EdgeKey,
	shouldContinue func(EdgeKey) bool,
) (steps []fanStep, closed bool) {
	face := startFace
	edge := startEdge
	for {
		steps = append(steps, fanStep{edge: edge, face: face})
		next, ok := m.faceOtherEdgeAtVertex(face, edge, v)
		if !ok {
			return steps, false
		}
		if next == startEdge {
			return steps, true
		}
		if !shouldContinue(next) {
			return steps, false
		}
		nextFace, ok := m.otherFaceAcrossEdge(next, face)
		if !ok {
			return steps, false
		}
		face, edge = nextFace, next
	}
}
