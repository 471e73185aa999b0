package mesh

const collinearTolerance = 1e-9

// isCollinear reports whether a, b, c are collinear within tolerance:
// the triangle's cross-product area is negligible relative to its edge
// lengths.
func isCollinear(a, b, c Vec3) bool {
	ab := b.Sub(a)
	ac := c.Sub(a)
	cross := ab.Cross(ac)
	// Normalize the area by the longest edge squared so the tolerance is
	// scale-invariant: a tiny sliver in a huge mesh and an equally thin
	// sliver in a unit-sized one are both flagged.
	longest := ab.LenSq()
	if l := ac.LenSq(); l > longest {
		longest = l
	}
	if bc := c.Sub(b).LenSq(); bc > longest {
		longest = bc
	}
	if longest < 1e-18 {
		return true
	}
	return cross.LenSq()/longest < collinearTolerance
}

// CleanupDegenerateTriangles removes every face whose three vertex
// positions are collinear within a small tolerance.
// Returns the number of faces removed.
func (m *LinkedMesh[D]) CleanupDegenerateTriangles() int {
	var toRemove []FaceKey
	m.EachFace(func(fk FaceKey, f *Face[D]) {
		p0, ok0 := m.Vertex(f.V[0])
		p1, ok1 := m.Vertex(f.V[1])
		p2, ok2 := m.Vertex(f.V[2])
		if !ok0 || !ok1 || !ok2 {
			return
		}
		if isCollinear(p0.Position, p1.Position, p2.Position) {
			toRemove = append(toRemove, fk)
		}
	})
	for _, fk := range toRemove {
		m.RemoveFace(fk)
	}
	return len(toRemove)
}
