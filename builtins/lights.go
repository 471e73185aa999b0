package builtins

import (
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/value"
)

// registerLights wires the descriptor-only light builtins:
// dir_light/ambient_light build opaque value.Light handles the core
// never shades itself, and look_at is the small vector-math helper
// scripts use to point a directional light or camera at a target.
func registerLights(r *builtin.Registry) {
	r.Define(builtin.FnDef{
		Name: "dir_light", Module: "light", Pure: true,
		Signatures: []builtin.FnSignature{sig(
			req("direction", builtin.TVec3),
			optDef("color", constDefault(value.Vec3Value(geom.NewVec3(1, 1, 1))), builtin.TVec3),
			optDef("intensity", constDefault(value.FloatValue(1.0)), builtin.TNumeric),
		)},
	}, func(args []value.Value) (value.Value, error) {
		dir, err := asVec3("dir_light", args[0])
		if err != nil {
			return value.Value{}, err
		}
		color, err := asVec3("dir_light", args[1])
		if err != nil {
			return value.Value{}, err
		}
		intensity, err := asFloat("dir_light", args[2])
		if err != nil {
			return value.Value{}, err
		}
		l := &value.Light{Kind: value.LightDirectional, Direction: dir.Normalize(), Color: color, Intensity: intensity}
		return value.LightValue(l), nil
	})

	r.Define(builtin.FnDef{
		Name: "ambient_light", Module: "light", Pure: true,
		Signatures: []builtin.FnSignature{sig(
			optDef("color", constDefault(value.Vec3Value(geom.NewVec3(1, 1, 1))), builtin.TVec3),
			optDef("intensity", constDefault(value.FloatValue(1.0)), builtin.TNumeric),
		)},
	}, func(args []value.Value) (value.Value, error) {
		color, err := asVec3("ambient_light", args[0])
		if err != nil {
			return value.Value{}, err
		}
		intensity, err := asFloat("ambient_light", args[1])
		if err != nil {
			return value.Value{}, err
		}
		l := &value.Light{Kind: value.LightAmbient, Color: color, Intensity: intensity}
		return value.LightValue(l), nil
	})

	r.Define(builtin.FnDef{
		Name: "look_at", Module: "light", Pure: true,
		Doc:        "the normalized direction from eye to target",
		Signatures: []builtin.FnSignature{sig(req("eye", builtin.TVec3), req("target", builtin.TVec3))},
	}, func(args []value.Value) (value.Value, error) {
		eye, err := asVec3("look_at", args[0])
		if err != nil {
			return value.Value{}, err
		}
		target, err := asVec3("look_at", args[1])
		if err != nil {
			return value.Value{}, err
		}
		dir := target.Sub(eye)
		if dir.LenSq() < 1e-18 {
			return value.Value{}, errstack.New(errstack.ErrGeometric, "look_at: eye and target coincide")
		}
		return value.Vec3Value(dir.Normalize()), nil
	})
}
