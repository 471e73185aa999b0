package fku

import "github.com/katalvlaran/geoscript/geom"

// solveDP fills the DP table and backtracks to the triangle-move
// sequence. ptsB, tsB, critB must already
// be rotated to the alignment found by FindBestRingAlignment when
// closed is true (StitchPresampled does this before calling in).
//
// tsA/tsB/critA/critB may be nil: missing t-values read as 0 (zeroing
// the dt penalty), missing critical masks read as "not critical".
func solveDP(ptsA, ptsB []geom.Vec3, tsA, tsB []float64, critA, critB []bool, invScale, invScaleSq float64, closed bool) []dpMove {
	n := len(ptsA)
	m := len(ptsB)
	if n == 0 || m == 0 {
		return nil
	}

	tableN, tableM := n, m
	if closed {
		tableN, tableM = n+1, m+1
	}

	getA := func(i int) geom.Vec3 {
		if closed && i == n {
			return ptsA[0]
		}

		return ptsA[i]
	}
	getB := func(j int) geom.Vec3 {
		if closed && j == m {
			return ptsB[0]
		}

		return ptsB[j]
	}
	getTA := func(i int) float64 {
		if tsA == nil {
			return 0
		}
		if closed && i == n {
			return tsA[0]
		}

		return tsA[i]
	}
	getTB := func(j int) float64 {
		if tsB == nil {
			return 0
		}
		if closed && j == m {
			return tsB[0]
		}

		return tsB[j]
	}
	isCritA := func(i int) bool {
		if critA == nil {
			return false
		}
		if closed && i == n {
			return critA[0]
		}

		return critA[i]
	}
	isCritB := func(j int) bool {
		if critB == nil {
			return false
		}
		if closed && j == m {
			return critB[0]
		}

		return critB[j]
	}

	table := newDPTable(tableN+1, tableM+1)
	table.setCost(0, 0, 0)

	// First row: only AdvanceB.
	rowCost := table.getCost(0, 0)
	for j := 1; j <= tableM; j++ {
		var edgeCost float64
		if j == 1 {
			edgeCost = edgeWeight * getA(0).Sub(getB(0)).Len() * invScale
		} else {
			edgeCost = Cost(getB(j-2), getB(j-1), getA(0), invScale, invScaleSq, getTB(j-1), getTA(0), isCritB(j-1) && isCritA(0))
		}
		rowCost += edgeCost
		table.set(0, j, rowCost, moveAdvanceB)
	}

	// First column: only AdvanceA.
	colCost := table.getCost(0, 0)
	for i := 1; i <= tableN; i++ {
		var edgeCost float64
		if i == 1 {
			edgeCost = edgeWeight * getA(0).Sub(getB(0)).Len() * invScale
		} else {
			edgeCost = Cost(getA(i-2), getA(i-1), getB(0), invScale, invScaleSq, getTA(i-1), getTB(0), isCritA(i-1) && isCritB(0))
		}
		colCost += edgeCost
		table.set(i, 0, colCost, moveAdvanceA)
	}

	for i := 1; i <= tableN; i++ {
		for j := 1; j <= tableM; j++ {
			prevA := table.getCost(i-1, j)
			var costA float64
			if i == 1 {
				costA = prevA
			} else {
				costA = prevA + Cost(getA(i-2), getA(i-1), getB(j-1), invScale, invScaleSq, getTA(i-1), getTB(j-1), isCritA(i-1) && isCritB(j-1))
			}

			prevB := table.getCost(i, j-1)
			var costB float64
			if j == 1 {
				costB = prevB
			} else {
				costB = prevB + Cost(getB(j-2), getB(j-1), getA(i-1), invScale, invScaleSq, getTB(j-1), getTA(i-1), isCritB(j-1) && isCritA(i-1))
			}

			if costA <= costB {
				table.set(i, j, costA, moveAdvanceA)
			} else {
				table.set(i, j, costB, moveAdvanceB)
			}
		}
	}

	moves := make([]dpMove, 0, tableN+tableM)
	i, j := tableN, tableM
	for i > 0 || j > 0 {
		cameFrom := table.getCameFrom(i, j)
		moves = append(moves, dpMove{I: i, J: j, Move: cameFrom})

		switch cameFrom {
		case moveAdvanceA:
			if i > 0 {
				i--
			}
		case moveAdvanceB:
			if j > 0 {
				j--
			}
		}
		if i == 0 && j == 0 {
			break
		}
	}

	for l, r := 0, len(moves)-1; l < r; l, r = l+1, r-1 {
		moves[l], moves[r] = moves[r], moves[l]
	}

	return moves
}
