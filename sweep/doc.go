// Package sweep builds a triangle mesh by carrying a 2D profile curve
// along a 3D spine curve (a rail sweep). It computes
// rotation-minimizing or fixed-up reference frames along the spine,
// samples the profile at each frame according to a spine sampling
// scheme, and stitches adjacent rings into triangles -- using the fku
// package's dynamic-programming stitcher when enabled, or a uniform
// ladder/fan stitch otherwise.
//
// sweep has no knowledge of the geoscript value system or expression
// language: callers adapt Value-typed callables into the plain Go
// function types declared here (ProfileFunc, SpineFunc, TwistFunc,
// DynamicProfileFunc) before calling Sweep.
package sweep
