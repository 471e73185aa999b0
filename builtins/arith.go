package builtins

import (
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/value"
)

// registerArith defines the binary/unary operator builtins BinOp/UnaryOp
// dispatch to by operand type: add/sub/mul/div/mod over
// Int/Float/Vec2/Vec3, neg/pos/abs, and bit_and/bit_or/bit_xor which
// carry bool logic, int bitwise, and mesh-boolean dispatch depending on
// operand kind.
func registerArith(r *builtin.Registry) {
	r.Define(builtin.FnDef{
		Name: "add", Module: "arith", Pure: true,
		Doc: "numeric/vector addition; mesh + vec3 is translate-shorthand, mesh + mesh is join-shorthand",
		Signatures: []builtin.FnSignature{
			sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric)),
			sig(req("a", builtin.TVec2), req("b", builtin.TVec2)),
			sig(req("a", builtin.TVec3), req("b", builtin.TVec3)),
			sig(req("a", builtin.TString), req("b", builtin.TString)),
			sig(req("a", builtin.TMesh), req("b", builtin.TVec3)),
			sig(req("a", builtin.TMesh), req("b", builtin.TMesh)),
		},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.KMesh {
			h, err := asMesh("add", args[0])
			if err != nil {
				return value.Value{}, err
			}
			if args[1].Kind() == value.KMesh {
				b, err := asMesh("add", args[1])
				if err != nil {
					return value.Value{}, err
				}
				return meshJoin(h, b)
			}
			off, err := asVec3("add", args[1])
			if err != nil {
				return value.Value{}, err
			}
			return composeTransform(h, geom.Translate4(off)), nil
		}
		return dispatchBinOp("add", args,
			func(a, b int64) int64 { return a + b },
			func(a, b float64) float64 { return a + b },
			func(a, b geom.Vec2) geom.Vec2 { return a.Add(b) },
			func(a, b geom.Vec3) geom.Vec3 { return a.Add(b) },
			func(a, b string) (value.Value, bool) { return value.StringValue(a + b), true },
		)
	})

	r.Define(builtin.FnDef{
		Name: "sub", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{
			sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric)),
			sig(req("a", builtin.TVec2), req("b", builtin.TVec2)),
			sig(req("a", builtin.TVec3), req("b", builtin.TVec3)),
		},
	}, func(args []value.Value) (value.Value, error) {
		return dispatchBinOp("sub", args,
			func(a, b int64) int64 { return a - b },
			func(a, b float64) float64 { return a - b },
			func(a, b geom.Vec2) geom.Vec2 { return a.Sub(b) },
			func(a, b geom.Vec3) geom.Vec3 { return a.Sub(b) },
			nil,
		)
	})

	r.Define(builtin.FnDef{
		Name: "mul", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{
			sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric)),
			sig(req("a", builtin.TVec2), req("b", builtin.TNumeric)),
			sig(req("a", builtin.TVec3), req("b", builtin.TNumeric)),
		},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.KVec2 {
			v, _ := args[0].AsVec2()
			f, err := asFloat("mul", args[1])
			if err != nil {
				return value.Value{}, err
			}
			return value.Vec2Value(v.Scale(f)), nil
		}
		if args[0].Kind() == value.KVec3 {
			v, err := asVec3("mul", args[0])
			if err != nil {
				return value.Value{}, err
			}
			f, err := asFloat("mul", args[1])
			if err != nil {
				return value.Value{}, err
			}
			return value.Vec3Value(v.Scale(f)), nil
		}
		return dispatchBinOp("mul", args,
			func(a, b int64) int64 { return a * b },
			func(a, b float64) float64 { return a * b },
			nil, nil, nil,
		)
	})

	r.Define(builtin.FnDef{
		Name: "div", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{
			sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric)),
			sig(req("a", builtin.TVec3), req("b", builtin.TNumeric)),
		},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.KVec3 {
			v, err := asVec3("div", args[0])
			if err != nil {
				return value.Value{}, err
			}
			f, err := asFloat("div", args[1])
			if err != nil {
				return value.Value{}, err
			}
			if f == 0 {
				return value.Value{}, errstack.New(errstack.ErrRuntime, "div: division by zero")
			}
			return value.Vec3Value(v.Scale(1 / f)), nil
		}
		if args[0].Kind() == value.Int && args[1].Kind() == value.Int {
			a, _ := args[0].AsInt()
			b, _ := args[1].AsInt()
			if b == 0 {
				return value.Value{}, errstack.New(errstack.ErrRuntime, "div: division by zero")
			}
			return value.IntValue(a / b), nil
		}
		a, err := asFloat("div", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asFloat("div", args[1])
		if err != nil {
			return value.Value{}, err
		}
		if b == 0 {
			return value.Value{}, errstack.New(errstack.ErrRuntime, "div: division by zero")
		}
		return value.FloatValue(float32(a / b)), nil
	})

	r.Define(builtin.FnDef{
		Name: "mod", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.Int && args[1].Kind() == value.Int {
			a, _ := args[0].AsInt()
			b, _ := args[1].AsInt()
			if b == 0 {
				return value.Value{}, errstack.New(errstack.ErrRuntime, "mod: division by zero")
			}
			return value.IntValue(a % b), nil
		}
		a, err := asFloat("mod", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asFloat("mod", args[1])
		if err != nil {
			return value.Value{}, err
		}
		if b == 0 {
			return value.Value{}, errstack.New(errstack.ErrRuntime, "mod: division by zero")
		}
		r64 := a - b*float64(int64(a/b))
		return value.FloatValue(float32(r64)), nil
	})

	r.Define(builtin.FnDef{
		Name: "neg", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{
			sig(req("x", builtin.TNumeric)),
			sig(req("x", builtin.TVec3)),
		},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.KVec3 {
			v, _ := args[0].AsVec3()
			return value.Vec3Value(v.Neg()), nil
		}
		if args[0].Kind() == value.Int {
			i, _ := args[0].AsInt()
			return value.IntValue(-i), nil
		}
		f, err := asFloat("neg", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(-f)), nil
	})

	r.Define(builtin.FnDef{
		Name: "pos", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) { return args[0], nil })

	r.Define(builtin.FnDef{
		Name: "abs", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.Int {
			i, _ := args[0].AsInt()
			if i < 0 {
				i = -i
			}
			return value.IntValue(i), nil
		}
		f, err := asFloat("abs", args[0])
		if err != nil {
			return value.Value{}, err
		}
		if f < 0 {
			f = -f
		}
		return value.FloatValue(float32(f)), nil
	})

	r.Define(builtin.FnDef{
		Name: "bit_and", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TInt, builtin.TBool), req("b", builtin.TInt, builtin.TBool))},
	}, func(args []value.Value) (value.Value, error) { return bitOp("bit_and", args, func(a, b int64) int64 { return a & b }, func(a, b bool) bool { return a && b }) })

	r.Define(builtin.FnDef{
		Name: "bit_or", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TInt, builtin.TBool, builtin.TMesh), req("b", builtin.TInt, builtin.TBool, builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.KMesh {
			a, err := asMesh("bit_or", args[0])
			if err != nil {
				return value.Value{}, err
			}
			b, err := asMesh("bit_or", args[1])
			if err != nil {
				return value.Value{}, err
			}
			return meshUnion(a, b)
		}
		return bitOp("bit_or", args, func(a, b int64) int64 { return a | b }, func(a, b bool) bool { return a || b })
	})

	r.Define(builtin.FnDef{
		Name: "bit_xor", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TInt, builtin.TBool), req("b", builtin.TInt, builtin.TBool))},
	}, func(args []value.Value) (value.Value, error) {
		return bitOp("bit_xor", args, func(a, b int64) int64 { return a ^ b }, func(a, b bool) bool { return a != b })
	})

	r.Define(builtin.FnDef{
		Name: "not", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TBool))},
	}, func(args []value.Value) (value.Value, error) {
		b, ok := args[0].AsBool()
		if !ok {
			return value.Value{}, errstack.Newf(errstack.ErrType, "not: expected a bool, found %s", args[0].Kind())
		}
		return value.BoolValue(!b), nil
	})

	for name, cmp := range map[string]func(int) bool{
		"lt": func(c int) bool { return c < 0 },
		"le": func(c int) bool { return c <= 0 },
		"gt": func(c int) bool { return c > 0 },
		"ge": func(c int) bool { return c >= 0 },
	} {
		name, cmp := name, cmp
		r.Define(builtin.FnDef{
			Name: name, Module: "arith", Pure: true,
			Signatures: []builtin.FnSignature{sig(req("a", builtin.TNumeric), req("b", builtin.TNumeric))},
		}, func(args []value.Value) (value.Value, error) {
			a, err := asFloat(name, args[0])
			if err != nil {
				return value.Value{}, err
			}
			b, err := asFloat(name, args[1])
			if err != nil {
				return value.Value{}, err
			}
			c := 0
			switch {
			case a < b:
				c = -1
			case a > b:
				c = 1
			}
			return value.BoolValue(cmp(c)), nil
		})
	}

	r.Define(builtin.FnDef{
		Name: "eq", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TAny), req("b", builtin.TAny))},
	}, func(args []value.Value) (value.Value, error) { return value.BoolValue(value.Equal(args[0], args[1])), nil })

	r.Define(builtin.FnDef{
		Name: "ne", Module: "arith", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TAny), req("b", builtin.TAny))},
	}, func(args []value.Value) (value.Value, error) { return value.BoolValue(!value.Equal(args[0], args[1])), nil })
}

func bitOp(name string, args []value.Value, intFn func(a, b int64) int64, boolFn func(a, b bool) bool) (value.Value, error) {
	if args[0].Kind() == value.Bool {
		a, _ := args[0].AsBool()
		b, ok := args[1].AsBool()
		if !ok {
			return value.Value{}, errstack.Newf(errstack.ErrType, "%s: mismatched operand kinds", name)
		}
		return value.BoolValue(boolFn(a, b)), nil
	}
	a, err := asInt(name, args[0])
	if err != nil {
		return value.Value{}, err
	}
	b, err := asInt(name, args[1])
	if err != nil {
		return value.Value{}, err
	}
	return value.IntValue(intFn(a, b)), nil
}

// dispatchBinOp applies the signature matching args' shared kind, erroring
// if the pair's kinds disagree or the kind has no handler supplied.
func dispatchBinOp(
	name string, args []value.Value,
	intFn func(a, b int64) int64,
	floatFn func(a, b float64) float64,
	vec2Fn func(a, b geom.Vec2) geom.Vec2,
	vec3Fn func(a, b geom.Vec3) geom.Vec3,
	strFn func(a, b string) (value.Value, bool),
) (value.Value, error) {
	switch args[0].Kind() {
	case value.KVec2:
		if vec2Fn == nil {
			break
		}
		a, _ := args[0].AsVec2()
		b, err := asVec2(name, args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.Vec2Value(vec2Fn(a, b)), nil
	case value.KVec3:
		if vec3Fn == nil {
			break
		}
		a, err := asVec3(name, args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asVec3(name, args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.Vec3Value(vec3Fn(a, b)), nil
	case value.String:
		if strFn == nil {
			break
		}
		a, _ := args[0].AsString()
		b, err := asString(name, args[1])
		if err != nil {
			return value.Value{}, err
		}
		v, ok := strFn(a, b)
		if ok {
			return v, nil
		}
	case value.Int:
		if args[1].Kind() == value.Int && intFn != nil {
			a, _ := args[0].AsInt()
			b, _ := args[1].AsInt()
			return value.IntValue(intFn(a, b)), nil
		}
	}
	if floatFn != nil {
		a, err := asFloat(name, args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asFloat(name, args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(floatFn(a, b))), nil
	}
	return value.Value{}, errstack.Newf(errstack.ErrType, "%s: unsupported operand kinds %s, %s", name, args[0].Kind(), args[1].Kind())
}
