package builtins

import (
	"math"

	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/value"
)

// registerRNG wires the process-wide PRNG builtins
// (randi/randf/randv/set_rng_seed) plus fbm, the fractal-noise
// builtin layered on top of it.
func registerRNG(r *builtin.Registry) {
	r.Define(builtin.FnDef{
		Name: "set_rng_seed", Module: "rng",
		Signatures: []builtin.FnSignature{sig(req("seed", builtin.TInt))},
	}, func(args []value.Value) (value.Value, error) {
		seed, err := asInt("set_rng_seed", args[0])
		if err != nil {
			return value.Value{}, err
		}
		SetRNGSeed(seed)
		return value.NilValue, nil
	})

	r.Define(builtin.FnDef{
		Name: "randi", Module: "rng",
		Doc:        "a uniformly distributed integer in [lo, hi)",
		Signatures: []builtin.FnSignature{sig(req("lo", builtin.TInt), req("hi", builtin.TInt))},
	}, func(args []value.Value) (value.Value, error) {
		lo, err := asInt("randi", args[0])
		if err != nil {
			return value.Value{}, err
		}
		hi, err := asInt("randi", args[1])
		if err != nil {
			return value.Value{}, err
		}
		if hi <= lo {
			return value.IntValue(lo), nil
		}
		return value.IntValue(lo + rngInt63n(hi-lo)), nil
	})

	r.Define(builtin.FnDef{
		Name: "randf", Module: "rng",
		Doc:        "a uniformly distributed float in [lo, hi)",
		Signatures: []builtin.FnSignature{sig(
			optDef("lo", constDefault(value.FloatValue(0)), builtin.TNumeric),
			optDef("hi", constDefault(value.FloatValue(1)), builtin.TNumeric),
		)},
	}, func(args []value.Value) (value.Value, error) {
		lo, err := asFloat("randf", args[0])
		if err != nil {
			return value.Value{}, err
		}
		hi, err := asFloat("randf", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(lo + rngFloat64()*(hi-lo))), nil
	})

	r.Define(builtin.FnDef{
		Name: "randv", Module: "rng",
		Doc:        "a vec3 with each component uniform in [lo, hi)",
		Signatures: []builtin.FnSignature{sig(
			optDef("lo", constDefault(value.FloatValue(0)), builtin.TNumeric),
			optDef("hi", constDefault(value.FloatValue(1)), builtin.TNumeric),
		)},
	}, func(args []value.Value) (value.Value, error) {
		lo, err := asFloat("randv", args[0])
		if err != nil {
			return value.Value{}, err
		}
		hi, err := asFloat("randv", args[1])
		if err != nil {
			return value.Value{}, err
		}
		rv := func() float64 { return lo + rngFloat64()*(hi-lo) }
		return value.Vec3Value(geom.Vec3{X: rv(), Y: rv(), Z: rv()}), nil
	})

	r.Define(builtin.FnDef{
		Name: "fbm", Module: "rng",
		Doc:        "fractal Brownian motion: octaves of value noise at point p",
		Signatures: []builtin.FnSignature{sig(
			req("p", builtin.TVec3),
			optDef("octaves", constDefault(value.IntValue(4)), builtin.TInt),
			optDef("lacunarity", constDefault(value.FloatValue(2.0)), builtin.TNumeric),
			optDef("gain", constDefault(value.FloatValue(0.5)), builtin.TNumeric),
		)},
	}, func(args []value.Value) (value.Value, error) {
		p, err := asVec3("fbm", args[0])
		if err != nil {
			return value.Value{}, err
		}
		octaves, err := asInt("fbm", args[1])
		if err != nil {
			return value.Value{}, err
		}
		lacunarity, err := asFloat("fbm", args[2])
		if err != nil {
			return value.Value{}, err
		}
		gain, err := asFloat("fbm", args[3])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(fbm(p, int(octaves), lacunarity, gain))), nil
	})
}

// valueNoise3 is a deterministic hash-based value noise, smoothed with a
// quintic fade curve (Perlin's improved fade) so fbm's octave sum has no
// visible grid artifacts.
func valueNoise3(p geom.Vec3) float64 {
	ix, iy, iz := math.Floor(p.X), math.Floor(p.Y), math.Floor(p.Z)
	fx, fy, fz := p.X-ix, p.Y-iy, p.Z-iz

	fade := func(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }
	u, v, w := fade(fx), fade(fy), fade(fz)

	lerp := func(a, b, t float64) float64 { return a + t*(b-a) }

	corner := func(dx, dy, dz float64) float64 {
		return hash3(ix+dx, iy+dy, iz+dz)
	}

	c000, c100 := corner(0, 0, 0), corner(1, 0, 0)
	c010, c110 := corner(0, 1, 0), corner(1, 1, 0)
	c001, c101 := corner(0, 0, 1), corner(1, 0, 1)
	c011, c111 := corner(0, 1, 1), corner(1, 1, 1)

	x00 := lerp(c000, c100, u)
	x10 := lerp(c010, c110, u)
	x01 := lerp(c001, c101, u)
	x11 := lerp(c011, c111, u)

	y0 := lerp(x00, x10, v)
	y1 := lerp(x01, x11, v)

	return lerp(y0, y1, w)*2 - 1
}

func hash3(x, y, z float64) float64 {
	h := math.Sin(x*12.9898+y*78.233+z*37.719) * 43758.5453
	return h - math.Floor(h)
}

func fbm(p geom.Vec3, octaves int, lacunarity, gain float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += amplitude * valueNoise3(p.Scale(frequency))
		norm += amplitude
		amplitude *= gain
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
