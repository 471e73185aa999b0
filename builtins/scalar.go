package builtins

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/seq"
	"github.com/katalvlaran/geoscript/value"
)

// unaryMath registers a pure Float -> Float builtin under name,
// computed by fn (sin/cos/.../sinh/cosh/tanh/asin/acos/atan).
func unaryMath(r *builtin.Registry, name string, fn func(float64) float64) {
	r.Define(builtin.FnDef{
		Name: name, Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		x, err := asFloat(name, args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(fn(x))), nil
	})
}

func registerScalar(r *builtin.Registry) {
	for name, fn := range map[string]func(float64) float64{
		"sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
		"sinh": math.Sinh, "cosh": math.Cosh, "tanh": math.Tanh,
		"asin": math.Asin, "acos": math.Acos, "atan": math.Atan,
		"exp": math.Exp, "ln": math.Log, "log2": math.Log2, "log10": math.Log10,
		"sqrt": math.Sqrt,
		"floor": math.Floor, "ceil": math.Ceil, "round": math.Round, "trunc": math.Trunc,
		"deg2rad": func(x float64) float64 { return x * math.Pi / 180 },
		"rad2deg": func(x float64) float64 { return x * 180 / math.Pi },
		"fract":   func(x float64) float64 { return x - math.Trunc(x) },
		"signum":  func(x float64) float64 { return sign(x) },
	} {
		unaryMath(r, name, fn)
	}

	r.Define(builtin.FnDef{
		Name: "fix_float", Module: "math", Doc: "replaces NaN/Inf with 0 (NaN-propagation recovery)", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		x, err := asFloat("fix_float", args[0])
		if err != nil {
			return value.Value{}, err
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			x = 0
		}
		return value.FloatValue(float32(x)), nil
	})

	r.Define(builtin.FnDef{
		Name: "atan2", Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("y", builtin.TNumeric), req("x", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		y, err := asFloat("atan2", args[0])
		if err != nil {
			return value.Value{}, err
		}
		x, err := asFloat("atan2", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(math.Atan2(y, x))), nil
	})

	r.Define(builtin.FnDef{
		Name: "pow", Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("base", builtin.TNumeric), req("exp", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		base, err := asFloat("pow", args[0])
		if err != nil {
			return value.Value{}, err
		}
		exp, err := asFloat("pow", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(math.Pow(base, exp))), nil
	})

	r.Define(builtin.FnDef{
		Name: "clamp", Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric), req("lo", builtin.TNumeric), req("hi", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		x, lo, hi, err := threeFloats("clamp", args)
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(math.Min(math.Max(x, lo), hi))), nil
	})

	r.Define(builtin.FnDef{
		Name: "lerp", Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric), req("t", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		a, b, t, err := threeFloats("lerp", args)
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(a + (b-a)*t)), nil
	})

	r.Define(builtin.FnDef{
		Name: "smoothstep", Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("edge0", builtin.TNumeric), req("edge1", builtin.TNumeric), req("x", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		e0, e1, x, err := threeFloats("smoothstep", args)
		if err != nil {
			return value.Value{}, err
		}
		t := clampUnit((x - e0) / (e1 - e0))
		return value.FloatValue(float32(t * t * (3 - 2*t))), nil
	})

	r.Define(builtin.FnDef{
		Name: "linearstep", Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("edge0", builtin.TNumeric), req("edge1", builtin.TNumeric), req("x", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		e0, e1, x, err := threeFloats("linearstep", args)
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(clampUnit((x - e0) / (e1 - e0)))), nil
	})

	r.Define(builtin.FnDef{
		Name: "min", Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		return minMax("min", args, math.Min)
	})
	r.Define(builtin.FnDef{
		Name: "max", Module: "math", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		return minMax("max", args, math.Max)
	})

	r.Define(builtin.FnDef{
		Name: "float", Module: "convert", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric, builtin.TString, builtin.TBool))},
	}, func(args []value.Value) (value.Value, error) {
		switch args[0].Kind() {
		case value.String:
			s, _ := args[0].AsString()
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return value.Value{}, errstack.Newf(errstack.ErrRuntime, "float: cannot parse %q", s)
			}
			return value.FloatValue(float32(f)), nil
		case value.Bool:
			b, _ := args[0].AsBool()
			if b {
				return value.FloatValue(1), nil
			}
			return value.FloatValue(0), nil
		default:
			f, _ := args[0].AsNumeric()
			return value.FloatValue(float32(f)), nil
		}
	})

	r.Define(builtin.FnDef{
		Name: "int", Module: "convert", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric, builtin.TString, builtin.TBool))},
	}, func(args []value.Value) (value.Value, error) {
		switch args[0].Kind() {
		case value.String:
			s, _ := args[0].AsString()
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return value.Value{}, errstack.Newf(errstack.ErrRuntime, "int: cannot parse %q", s)
			}
			return value.IntValue(i), nil
		case value.Bool:
			b, _ := args[0].AsBool()
			if b {
				return value.IntValue(1), nil
			}
			return value.IntValue(0), nil
		default:
			f, _ := args[0].AsNumeric()
			return value.IntValue(int64(f)), nil
		}
	})

	r.Define(builtin.FnDef{
		Name: "str", Module: "convert", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TAny))},
	}, func(args []value.Value) (value.Value, error) {
		return value.StringValue(args[0].String()), nil
	})

	r.Define(builtin.FnDef{
		Name: "chars", Module: "convert", Pure: true,
		Doc: "splits a string into a sequence of one-rune strings; errors on invalid UTF-8",
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TString))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asString("chars", args[0])
		if err != nil {
			return value.Value{}, err
		}
		if !utf8.ValidString(s) {
			return value.Value{}, errstack.New(errstack.ErrRuntime, "chars: invalid UTF-8 in input string")
		}
		out := make([]value.Value, 0, len(s))
		for _, rn := range s {
			out = append(out, value.StringValue(string(rn)))
		}
		return value.SequenceValue(seq.NewSlice(out)), nil
	})
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func threeFloats(name string, args []value.Value) (a, b, c float64, err error) {
	a, err = asFloat(name, args[0])
	if err != nil {
		return
	}
	b, err = asFloat(name, args[1])
	if err != nil {
		return
	}
	c, err = asFloat(name, args[2])
	return
}

func minMax(name string, args []value.Value, fn func(a, b float64) float64) (value.Value, error) {
	a, err := asFloat(name, args[0])
	if err != nil {
		return value.Value{}, err
	}
	b, err := asFloat(name, args[1])
	if err != nil {
		return value.Value{}, err
	}
	// Preserve Int when both inputs are Int, matching runtime arithmetic's
	// type-dispatch convention.
	if args[0].Kind() == value.Int && args[1].Kind() == value.Int {
		ai, _ := args[0].AsInt()
		bi, _ := args[1].AsInt()
		if fn(float64(ai), float64(bi)) == float64(ai) {
			return value.IntValue(ai), nil
		}
		return value.IntValue(bi), nil
	}
	return value.FloatValue(float32(fn(a, b))), nil
}
