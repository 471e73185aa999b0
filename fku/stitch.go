package fku

import "github.com/katalvlaran/geoscript/geom"

// StitchPresampled performs FKU DP stitching between two rows/rings of
// pre-sampled vertex positions, returning a flat triangle
// index list into a mesh where ring A's vertices start at ringABaseIdx
// and ring B's at ringBBaseIdx.
//
// tsA/tsB carry optional per-vertex t-values for the dt cost penalty,
// and critA/critB an optional critical-point mask, both may be nil. For
// closed rings, B is aligned to A first and its
// positions/t-values/critical mask rotated accordingly before the DP
// table is built; StitchPresampled un-rotates B's indices when emitting
// triangles so the caller's vertex buffer layout is unaffected.
func StitchPresampled(ptsA, ptsB []geom.Vec3, tsA, tsB []float64, critA, critB []bool, ringABaseIdx, ringBBaseIdx int, closed bool) []uint32 {
	n, m := len(ptsA), len(ptsB)
	if n == 0 || m == 0 {
		return nil
	}

	scale := (RingAverageRadius(ptsA) + RingAverageRadius(ptsB)) * 0.5
	if scale < 1e-6 {
		scale = 1e-6
	}
	invScale := 1 / scale
	invScaleSq := invScale * invScale

	bOffset := 0
	if closed {
		bOffset = FindBestRingAlignment(ptsA, ptsB)
	}

	rotatedPtsB := RotateRing(ptsB, bOffset)
	rotatedTsB := rotateTValues(tsB, bOffset)
	rotatedCritB := rotateCritMask(critB, bOffset)

	moves := solveDP(ptsA, rotatedPtsB, tsA, rotatedTsB, critA, rotatedCritB, invScale, invScaleSq, closed)

	getAVtx := func(i int) uint32 { return uint32(ringABaseIdx + i%n) }
	getBVtx := func(j int) uint32 { return uint32(ringBBaseIdx + (j+bOffset)%m) }

	out := make([]uint32, 0, (n+m)*3)
	for _, mv := range moves {
		i, j := mv.I, mv.J
		if i == 0 && j == 0 {
			continue
		}

		switch mv.Move {
		case moveAdvanceA:
			if i > 1 && (closed || j > 0) {
				bIdxRaw := 0
				if j > 0 {
					bIdxRaw = j - 1
				}
				out = append(out, getAVtx(i-2), getAVtx(i-1), getBVtx(bIdxRaw))
			}
		case moveAdvanceB:
			if j > 1 && (closed || i > 0) {
				aIdxRaw := 0
				if i > 0 {
					aIdxRaw = i - 1
				}
				out = append(out, getAVtx(aIdxRaw), getBVtx(j-1), getBVtx(j-2))
			}
		}
	}

	return out
}

// rotateTValues re-normalizes tsB's parametric origin to match a
// position rotation by offset, so the dt cost penalty does not fight
// the spatial alignment.
func rotateTValues(tsB []float64, offset int) []float64 {
	if tsB == nil {
		return nil
	}

	m := len(tsB)
	if offset == 0 || m == 0 {
		out := make([]float64, m)
		copy(out, tsB)

		return out
	}

	tShift := tsB[offset%m]
	out := make([]float64, m)
	for i := 0; i < m; i++ {
		t := tsB[(i+offset)%m] - tShift
		if t < 0 {
			t += 1
		}
		out[i] = t
	}

	return out
}

func rotateCritMask(critB []bool, offset int) []bool {
	if critB == nil {
		return nil
	}

	m := len(critB)
	if offset == 0 || m == 0 {
		out := make([]bool, m)
		copy(out, critB)

		return out
	}

	out := make([]bool, m)
	for i := 0; i < m; i++ {
		out[i] = critB[(i+offset)%m]
	}

	return out
}

// ShouldUseFKU decides whether DP stitching should run at all: the
// caller must have opted in, and both ring sizes must be within
// MaxDPStitchResolution.
func ShouldUseFKU(enableFKU bool, countA, countB int) bool {
	if !enableFKU {
		return false
	}

	return countA <= MaxDPStitchResolution && countB <= MaxDPStitchResolution
}
