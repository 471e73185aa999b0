package sweep

import (
	"math"
	"strings"

	"github.com/katalvlaran/geoscript/errstack"
)

// SchemeKind names a spine sampling scheme.
type SchemeKind int

const (
	SchemeUniform SchemeKind = iota
	SchemeChebyshev
	SchemeSuperellipse
	SchemeAdaptive
	SchemeExplicit // caller supplies exact t-values (sequence or callable), see SamplingScheme.Explicit
)

// SamplingScheme selects how spine_resolution t-values in [0, 1] are
// distributed along the spine.
type SamplingScheme struct {
	Kind     SchemeKind
	Exponent float64   // SchemeSuperellipse only; defaults to 5 when zero
	Explicit []float64 // SchemeExplicit only; must have length == spine_resolution
}

// ParseSchemeName maps a scheme name ("uniform", "chebyshev"/"cos"/
// "cosine", "superellipse"/"bevel", "adaptive") to a SamplingScheme.
func ParseSchemeName(name string) (SamplingScheme, error) {
	switch strings.ToLower(name) {
	case "uniform":
		return SamplingScheme{Kind: SchemeUniform}, nil
	case "chebyshev", "cos", "cosine":
		return SamplingScheme{Kind: SchemeChebyshev}, nil
	case "superellipse", "bevel":
		return SamplingScheme{Kind: SchemeSuperellipse, Exponent: 5}, nil
	case "adaptive":
		return SamplingScheme{Kind: SchemeAdaptive}, nil
	default:
		return SamplingScheme{}, errstack.Newf(errstack.ErrGeometric,
			`invalid spine_sampling_scheme %q; expected "uniform", "chebyshev", "cos", "cosine", "superellipse", "bevel", or "adaptive"`, name)
	}
}

// UniformNodes returns n evenly spaced values covering [0, 1] inclusive.
func UniformNodes(n int) []float64 {
	out := make([]float64, n)
	denom := float64(n - 1)
	for i := 0; i < n; i++ {
		if denom > 0 {
			out[i] = float64(i) / denom
		}
	}

	return out
}

// ChebyshevNodes returns n Chebyshev-distributed nodes in [0, 1], denser
// near the endpoints than in the middle.
func ChebyshevNodes(n int) []float64 {
	out := make([]float64, n)
	nf := float64(n)
	for k := 0; k < n; k++ {
		out[k] = 0.5 * (1 - math.Cos(math.Pi*(2*float64(k)+1)/(2*nf)))
	}

	return out
}

// uniformMix is a hard-coded blend factor keeping superellipse sampling
// from starving the middle of the shape at high exponents.
const uniformMix = 0.2

// SuperellipseNodes returns n superellipse-distributed nodes in [0, 1].
// ok is false when exponent is non-positive or non-finite, or the
// computation would otherwise produce NaN/Inf, in which case the caller
// should fall back to UniformNodes.
func SuperellipseNodes(n int, exponent float64) (nodes []float64, ok bool) {
	if exponent <= 0 || math.IsInf(exponent, 0) || math.IsNaN(exponent) {
		return nil, false
	}

	nf := float64(n)
	power := 2 / exponent
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		theta := math.Pi * (2*float64(k) + 1) / (2 * nf)
		cosVal := math.Cos(theta)

		var transformed float64
		if math.Abs(cosVal) < 1e-10 {
			transformed = 0
		} else {
			sign := 1.0
			if cosVal < 0 {
				sign = -1.0
			}
			magnitude := math.Pow(math.Abs(cosVal), power)
			if magnitude > 1 {
				magnitude = 1
			}
			transformed = sign * magnitude
		}

		tSuper := 0.5 * (1 - transformed)
		tUniform := (2*float64(k) + 1) / (2 * nf)
		t := tSuper*(1-uniformMix) + tUniform*uniformMix
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, false
		}

		out[k] = clamp01(t)
	}

	return out, true
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}

	return t
}

// ComputeSchemeTValues resolves a SamplingScheme into spineResolution
// t-values. SchemeAdaptive is not handled here: callers detect it ahead
// of time (via scheme.Kind == SchemeAdaptive) and instead drive
// sampler.Sample against critical points collected from the profile.
func ComputeSchemeTValues(scheme SamplingScheme, spineResolution int) ([]float64, error) {
	switch scheme.Kind {
	case SchemeUniform, SchemeAdaptive:
		return UniformNodes(spineResolution), nil
	case SchemeChebyshev:
		return ChebyshevNodes(spineResolution), nil
	case SchemeSuperellipse:
		exponent := scheme.Exponent
		if exponent == 0 {
			exponent = 5
		}
		if nodes, ok := SuperellipseNodes(spineResolution, exponent); ok {
			return nodes, nil
		}

		return UniformNodes(spineResolution), nil
	case SchemeExplicit:
		if len(scheme.Explicit) != spineResolution {
			return nil, errstack.Newf(errstack.ErrGeometric,
				"spine_sampling_scheme sequence length (%d) does not match spine_resolution (%d)",
				len(scheme.Explicit), spineResolution)
		}

		out := make([]float64, spineResolution)
		copy(out, scheme.Explicit)

		return out, nil
	default:
		return nil, errstack.Newf(errstack.ErrGeometric, "unknown spine_sampling_scheme kind: %d", scheme.Kind)
	}
}
