package mesh

import "math"

// smoothFan is a maximal set of faces around a vertex connected through
// non-sharp shared edges (GLOSSARY). Each fan gets its own shading
// normal.
type smoothFan struct {
	faces  []FaceKey
	normal Vec3
}

func (m *LinkedMesh[D]) faceNormalAndAngleAt(f FaceKey, v VertexKey) (Vec3, float64) {
	face, ok := m.Face(f)
	if !ok {
		return Vec3{}, 0
	}
	var p [3]Vec3
	idx := 0
	for i, vk := range face.V {
		vv, ok := m.Vertex(vk)
		if !ok {
			return Vec3{}, 0
		}
		p[i] = vv.Position
		if vk == v {
			idx = i
		}
	}
	normal := p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Normalize()

	a := p[(idx+1)%3].Sub(p[idx])
	b := p[(idx+2)%3].Sub(p[idx])
	denom := a.Len() * b.Len()
	if denom < 1e-18 {
		return normal, 0
	}
	cos := a.Dot(b) / denom
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return normal, math.Acos(cos)
}

// computeVertexFans walks every smooth fan around v and returns them
// alongside the vertex-global
// angle-weighted normal (which becomes the displacement normal).
func (m *LinkedMesh[D]) computeVertexFans(v VertexKey) ([]smoothFan, Vec3) {
	vert, ok := m.Vertex(v)
	if !ok || len(vert.Edges) == 0 {
		return nil, Vec3{}
	}

	visited := make(map[EdgeKey]bool, len(vert.Edges))
	var fans []smoothFan
	var global Vec3

	notSharp := func(ek EdgeKey) bool {
		e, ok := m.Edge(ek)
		return ok && !e.Sharp
	}

	// markBorderEnd marks the border edge a walk stopped at as visited, so
	// the fan is not walked a second time from its other side.
	markBorderEnd := func(steps []fanStep) {
		if len(steps) == 0 {
			return
		}
		last := steps[len(steps)-1]
		if next, ok := m.faceOtherEdgeAtVertex(last.face, last.edge, v); ok {
			if ne, ok := m.Edge(next); ok && len(ne.Faces) < 2 {
				visited[next] = true
			}
		}
	}

	for _, e0 := range vert.Edges {
		if visited[e0] {
			continue
		}
		edge0, ok := m.Edge(e0)
		if !ok || len(edge0.Faces) == 0 {
			visited[e0] = true
			continue
		}
		startSmooth := !edge0.Sharp

		faceSet := make(map[FaceKey]bool)
		var fanNormal Vec3
		accumulate := func(f FaceKey) {
			if faceSet[f] {
				return
			}
			faceSet[f] = true
			n, angle := m.faceNormalAndAngleAt(f, v)
			w := n.Scale(angle)
			fanNormal = fanNormal.Add(w)
			global = global.Add(w)
		}

		steps1, _ := m.walkFanDirection(v, edge0.Faces[0], e0, notSharp)
		for _, s := range steps1 {
			visited[s.edge] = true
			accumulate(s.face)
		}
		markBorderEnd(steps1)

		if startSmooth && len(edge0.Faces) == 2 {
			steps2, _ := m.walkFanDirection(v, edge0.Faces[1], e0, notSharp)
			for _, s := range steps2 {
				visited[s.edge] = true
				accumulate(s.face)
			}
			markBorderEnd(steps2)
		}
		visited[e0] = true

		faces := make([]FaceKey, 0, len(faceSet))
		for f := range faceSet {
			faces = append(faces, f)
		}
		if len(faces) > 0 {
			fans = append(fans, smoothFan{faces: faces, normal: fanNormal.Normalize()})
		}
	}
	return fans, global.Normalize()
}

func cloneVec(v Vec3) *Vec3 {
	n := v
	return &n
}

func cloneVecPtr(p *Vec3) *Vec3 {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}

// splitVertexForFan duplicates oldV for one additional smooth fan
//: the duplicate gets the fan's normal as its
// shading normal, every face in the fan is repointed at it, and each
// edge that touched oldV is either renamed (if every face on it moved
// to the new vertex) or split into a fresh edge to the new vertex that
// inherits the original edge's displacement normal (if the edge is
// shared between a moved and an unmoved face).
func (m *LinkedMesh[D]) splitVertexForFan(oldV VertexKey, fan smoothFan) {
	oldVert, ok := m.Vertex(oldV)
	if !ok {
		return
	}
	newV := VertexKey(m.vertices.insert(Vertex{
		Position:           oldVert.Position,
		ShadingNormal:      cloneVec(fan.normal),
		DisplacementNormal: cloneVecPtr(oldVert.DisplacementNormal),
	}))

	inFan := make(map[FaceKey]bool, len(fan.faces))
	for _, f := range fan.faces {
		inFan[f] = true
	}

	for _, fk := range fan.faces {
		face, ok := m.Face(fk)
		if !ok {
			continue
		}
		for i, vk := range face.V {
			if vk == oldV {
				face.V[i] = newV
			}
		}
	}

	touching := append([]EdgeKey(nil), oldVert.Edges...)
	for _, ek := range touching {
		edge, ok := m.Edge(ek)
		if !ok {
			continue
		}
		other, matched := edge.OtherEndpoint(oldV)
		if !matched {
			continue
		}

		fanCount, otherCount := 0, 0
		for _, fk := range edge.Faces {
			if inFan[fk] {
				fanCount++
			} else {
				otherCount++
			}
		}
		switch {
		case fanCount == 0:
			// unrelated to this fan; leave untouched.
		case otherCount == 0:
			a, b := sortPair(newV, other)
			edge.V = [2]VertexKey{a, b}
			m.removeEdgeFromVertex(oldV, ek)
			if nv, ok := m.Vertex(newV); ok {
				nv.Edges = append(nv.Edges, ek)
			}
		default:
			newEdgeKey := m.GetOrCreateEdge(newV, other)
			if ne, ok := m.Edge(newEdgeKey); ok && edge.DisplacementNormal != nil {
				ne.DisplacementNormal = cloneVecPtr(edge.DisplacementNormal)
			}
			for _, fk := range edge.Faces {
				if !inFan[fk] {
					continue
				}
				if face, ok := m.Face(fk); ok {
					for i, fek := range face.E {
						if fek == ek {
							face.E[i] = newEdgeKey
						}
					}
				}
				if ne, ok := m.Edge(newEdgeKey); ok && !containsFaceKey(ne.Faces, fk) {
					ne.Faces = append(ne.Faces, fk)
				}
			}
			var kept []FaceKey
			for _, fk := range edge.Faces {
				if !inFan[fk] {
					kept = append(kept, fk)
				}
			}
			edge.Faces = kept
		}
	}
}

// ComputeSmoothNormals computes the displacement normal and shading
// normal(s) of every vertex in the mesh. All topology
// mutations (vertex splitting for multi-fan vertices) are deferred until
// every vertex has been walked, so no mutation tears the topology during
// traversal.
func (m *LinkedMesh[D]) ComputeSmoothNormals() {
	type planned struct {
		vertex VertexKey
		global Vec3
		fans   []smoothFan
	}
	var plan []planned
	m.EachVertex(func(v VertexKey, _ *Vertex) {
		fans, global := m.computeVertexFans(v)
		if len(fans) == 0 {
			return
		}
		plan = append(plan, planned{vertex: v, global: global, fans: fans})
	})

	for _, p := range plan {
		if vv, ok := m.Vertex(p.vertex); ok {
			vv.DisplacementNormal = cloneVec(p.global)
			vv.ShadingNormal = cloneVec(p.fans[0].normal)
		}
		for _, fan := range p.fans[1:] {
			m.splitVertexForFan(p.vertex, fan)
		}
	}
}

// MarkSharpEdgesByAngle marks every edge sharp whose two incident faces'
// normals differ by more than thresholdDeg degrees, implementing the
// process-wide sharp-angle threshold behind set_sharp_angle_threshold. Edges with fewer than two faces are left
// untouched (a border edge's sharpness is meaningful only as a
// user-supplied flag, not a derived one).
func (m *LinkedMesh[D]) MarkSharpEdgesByAngle(thresholdDeg float64) {
	thresholdRad := thresholdDeg * math.Pi / 180
	m.EachEdge(func(_ EdgeKey, e *Edge) {
		if len(e.Faces) != 2 {
			return
		}
		n0 := m.faceNormal(e.Faces[0])
		n1 := m.faceNormal(e.Faces[1])
		dot := n0.Dot(n1)
		if dot > 1 {
			dot = 1
		} else if dot < -1 {
			dot = -1
		}
		angle := math.Acos(dot)
		if angle > thresholdRad {
			e.Sharp = true
		}
	})
}

func (m *LinkedMesh[D]) faceNormal(f FaceKey) Vec3 {
	face, ok := m.Face(f)
	if !ok {
		return Vec3{}
	}
	p0, _ := m.Vertex(face.V[0])
	p1, _ := m.Vertex(face.V[1])
	p2, _ := m.Vertex(face.V[2])
	return p1.Position.Sub(p0.Position).Cross(p2.Position.Sub(p0.Position)).Normalize()
}
