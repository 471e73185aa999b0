package fku

// UniformStitchRows connects two rows of equal vertex count with simple
// index-parallel quads (each split into two triangles), the fallback
// ring-to-ring stitcher used when DP stitching is disabled or not worth
// its cost. flip reverses winding.
func UniformStitchRows(rowABaseIdx, rowBBaseIdx, count int, vClosed, flip bool) []uint32 {
	wrapCount := count
	if !vClosed {
		wrapCount = count - 1
	}
	if wrapCount < 0 {
		wrapCount = 0
	}

	out := make([]uint32, 0, wrapCount*6)
	for j := 0; j < wrapCount; j++ {
		jNext := (j + 1) % count

		a := uint32(rowABaseIdx + j)
		b := uint32(rowABaseIdx + jNext)
		c := uint32(rowBBaseIdx + j)
		d := uint32(rowBBaseIdx + jNext)

		if flip {
			out = append(out, a, b, c, b, d, c)
		} else {
			out = append(out, a, c, b, b, c, d)
		}
	}

	return out
}

// StitchApexToRow connects a single apex vertex to every edge of a ring
// row, the fallback used when one side of a rail-sweep segment degenerates
// to a point. apexIsFirst controls triangle winding order
// relative to which side holds the apex.
func StitchApexToRow(apexIdx, rowBaseIdx, rowCount int, vClosed, apexIsFirst, flip bool) []uint32 {
	wrapCount := rowCount
	if !vClosed {
		wrapCount = rowCount - 1
	}
	if wrapCount < 0 {
		wrapCount = 0
	}

	apex := uint32(apexIdx)
	out := make([]uint32, 0, wrapCount*3)
	for j := 0; j < wrapCount; j++ {
		b := uint32(rowBaseIdx + j)
		c := uint32(rowBaseIdx + (j+1)%rowCount)

		switch {
		case apexIsFirst && flip:
			out = append(out, apex, c, b)
		case apexIsFirst && !flip:
			out = append(out, apex, b, c)
		case !apexIsFirst && flip:
			out = append(out, b, apex, c)
		default:
			out = append(out, b, c, apex)
		}
	}

	return out
}
