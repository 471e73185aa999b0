package mesh

import "github.com/katalvlaran/geoscript/errstack"

// CheckManifold verifies the optional manifold property. With
// strict=false it only requires every edge to have 1 or 2
// incident faces ("manifold"); with strict=true it additionally requires
// every edge to have exactly 2 faces and every vertex's incident faces
// to form a single closed fan ("2-manifold"), reached by walking
// face-to-face across shared edges containing the vertex.
//
// Returns nil when the mesh satisfies the requested property, or a
// structured *errstack.ErrorStack carrying one of LooseEdge,
// LooseVertex, NonManifoldEdge, MultipleFans, NonClosedFan, or
// EmptyMesh otherwise.
func (m *LinkedMesh[D]) CheckManifold(strict bool) *errstack.ErrorStack {
	if m.IsEmpty() {
		return errstack.NewTopology(errstack.TopologyDetail{Kind: errstack.EmptyMesh}, "mesh has no faces")
	}

	var loose *errstack.ErrorStack
	m.EachVertex(func(k VertexKey, v *Vertex) {
		if loose != nil {
			return
		}
		if len(v.Edges) == 0 {
			loose = errstack.NewTopology(errstack.TopologyDetail{Kind: errstack.LooseVertex}, "vertex has no incident edges")
		}
	})
	if loose != nil {
		return loose
	}

	var badEdge *errstack.ErrorStack
	m.EachEdge(func(k EdgeKey, e *Edge) {
		if badEdge != nil {
			return
		}
		switch {
		case len(e.Faces) == 0:
			badEdge = errstack.NewTopology(errstack.TopologyDetail{Kind: errstack.LooseEdge}, "edge has no incident faces")
		case strict && len(e.Faces) != 2:
			badEdge = errstack.NewTopology(errstack.TopologyDetail{
				Kind:      errstack.NonManifoldEdge,
				FaceCount: len(e.Faces),
			}, "edge does not have exactly two incident faces")
		case !strict && len(e.Faces) > 2:
			badEdge = errstack.NewTopology(errstack.TopologyDetail{
				Kind:      errstack.NonManifoldEdge,
				FaceCount: len(e.Faces),
			}, "edge has more than two incident faces")
		}
	})
	if badEdge != nil {
		return badEdge
	}
	if !strict {
		return nil
	}

	// Every edge now has exactly two faces, so a vertex's incident faces
	// decompose into one or more closed cycles (the smooth-fan walk,
	// here without a sharp-edge stop condition).
	var fanErr *errstack.ErrorStack
	m.EachVertex(func(v VertexKey, vert *Vertex) {
		if fanErr != nil {
			return
		}
		visited := make(map[EdgeKey]bool, len(vert.Edges))
		fans := 0
		for _, startEdge := range vert.Edges {
			if visited[startEdge] {
				continue
			}
			e, ok := m.Edge(startEdge)
			if !ok || len(e.Faces) == 0 {
				continue
			}
			steps, closed := m.walkFanDirection(v, e.Faces[0], startEdge, func(EdgeKey) bool { return true })
			for _, s := range steps {
				visited[s.edge] = true
			}
			fans++
			if !closed {
				fanErr = errstack.NewTopology(errstack.TopologyDetail{Kind: errstack.NonClosedFan}, "vertex fan did not close")
				return
			}
		}
		if fans > 1 {
			fanErr = errstack.NewTopology(errstack.TopologyDetail{Kind: errstack.MultipleFans}, "vertex has more than one smooth fan")
		}
	})
	return fanErr
}
