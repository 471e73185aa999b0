// Package fku implements the Fuchs/Kedem/Uselton dynamic-programming
// ring-stitching algorithm: an optimal triangulation that
// connects two ordered vertex rings under a per-triangle cost
// functional, plus the uniform and apex-to-ring fallback stitchers rail
// sweep dispatches to when DP stitching does not apply.
package fku
