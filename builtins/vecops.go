package builtins

import (
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/value"
)

// registerVecOps defines the vec2/vec3 constructors and the geometric
// free functions operators don't already cover via BinOp dispatch
// (vector module).
func registerVecOps(r *builtin.Registry) {
	r.Define(builtin.FnDef{
		Name: "vec2", Module: "vec", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric), req("y", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		x, err := asFloat("vec2", args[0])
		if err != nil {
			return value.Value{}, err
		}
		y, err := asFloat("vec2", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.Vec2Value(geom.Vec2{X: x, Y: y}), nil
	})

	r.Define(builtin.FnDef{
		Name: "vec3", Module: "vec", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("x", builtin.TNumeric), req("y", builtin.TNumeric), req("z", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		x, y, z, err := threeFloats("vec3", args)
		if err != nil {
			return value.Value{}, err
		}
		return value.Vec3Value(geom.Vec3{X: x, Y: y, Z: z}), nil
	})

	r.Define(builtin.FnDef{
		Name: "dot", Module: "vec", Pure: true,
		Signatures: []builtin.FnSignature{
			sig(req("a", builtin.TVec2), req("b", builtin.TVec2)),
			sig(req("a", builtin.TVec3), req("b", builtin.TVec3)),
		},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.KVec2 {
			a, _ := args[0].AsVec2()
			b, err := asVec2("dot", args[1])
			if err != nil {
				return value.Value{}, err
			}
			return value.FloatValue(float32(a.Dot(b))), nil
		}
		a, err := asVec3("dot", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asVec3("dot", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(a.Dot(b))), nil
	})

	r.Define(builtin.FnDef{
		Name: "cross", Module: "vec", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TVec3), req("b", builtin.TVec3))},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asVec3("cross", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asVec3("cross", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.Vec3Value(a.Cross(b)), nil
	})

	r.Define(builtin.FnDef{
		Name: "len", Module: "vec", Pure: true,
		Signatures: []builtin.FnSignature{
			sig(req("v", builtin.TVec2)),
			sig(req("v", builtin.TVec3)),
		},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.KVec2 {
			v, _ := args[0].AsVec2()
			return value.FloatValue(float32(v.Len())), nil
		}
		v, err := asVec3("length", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(v.Len())), nil
	})

	r.Define(builtin.FnDef{
		Name: "distance", Module: "vec", Pure: true,
		Signatures: []builtin.FnSignature{
			sig(req("a", builtin.TVec2), req("b", builtin.TVec2)),
			sig(req("a", builtin.TVec3), req("b", builtin.TVec3)),
		},
	}, func(args []value.Value) (value.Value, error) {
		if args[0].Kind() == value.KVec2 {
			a, _ := args[0].AsVec2()
			b, err := asVec2("distance", args[1])
			if err != nil {
				return value.Value{}, err
			}
			return value.FloatValue(float32(a.Distance(b))), nil
		}
		a, err := asVec3("distance", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asVec3("distance", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.FloatValue(float32(a.Distance(b))), nil
	})

	r.Define(builtin.FnDef{
		Name: "normalize", Module: "vec", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("v", builtin.TVec3))},
	}, func(args []value.Value) (value.Value, error) {
		v, err := asVec3("normalize", args[0])
		if err != nil {
			return value.Value{}, err
		}
		if v.LenSq() == 0 {
			return value.Value{}, errstack.New(errstack.ErrGeometric, "normalize: zero-length vector")
		}
		return value.Vec3Value(v.Normalize()), nil
	})

	r.Define(builtin.FnDef{
		Name: "lerp3", Module: "vec", Pure: true,
		Doc:        "vector counterpart of lerp, used where the scalar overload doesn't apply",
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TVec3), req("b", builtin.TVec3), req("t", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asVec3("lerp3", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asVec3("lerp3", args[1])
		if err != nil {
			return value.Value{}, err
		}
		t, err := asFloat("lerp3", args[2])
		if err != nil {
			return value.Value{}, err
		}
		return value.Vec3Value(a.Lerp(b, t)), nil
	})
}
