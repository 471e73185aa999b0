package builtins

import (
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/value"
)

func asFloat(name string, v value.Value) (float64, error) {
	if f, ok := v.AsNumeric(); ok {
		return f, nil
	}
	return 0, errstack.Newf(errstack.ErrType, "%s: expected a number, found %s", name, v.Kind())
}

func asInt(name string, v value.Value) (int64, error) {
	if i, ok := v.AsInt(); ok {
		return i, nil
	}
	if f, ok := v.AsFloat(); ok {
		return int64(f), nil
	}
	return 0, errstack.Newf(errstack.ErrType, "%s: expected an int, found %s", name, v.Kind())
}

func asVec2(name string, v value.Value) (geom.Vec2, error) {
	if vv, ok := v.AsVec2(); ok {
		return vv, nil
	}
	return geom.Vec2{}, errstack.Newf(errstack.ErrType, "%s: expected a vec2, found %s", name, v.Kind())
}

func asVec3(name string, v value.Value) (geom.Vec3, error) {
	if vv, ok := v.AsVec3(); ok {
		return vv, nil
	}
	return geom.Vec3{}, errstack.Newf(errstack.ErrType, "%s: expected a vec3, found %s", name, v.Kind())
}

func asString(name string, v value.Value) (string, error) {
	if s, ok := v.AsString(); ok {
		return s, nil
	}
	return "", errstack.Newf(errstack.ErrType, "%s: expected a string, found %s", name, v.Kind())
}

func asMesh(name string, v value.Value) (*value.MeshHandle, error) {
	if m, ok := v.AsMesh(); ok {
		return m, nil
	}
	return nil, errstack.Newf(errstack.ErrType, "%s: expected a mesh, found %s", name, v.Kind())
}

// asSequence returns a clone of v's sequence, so a builtin that consumes
// it leaves the argument's own cursor untouched.
func asSequence(name string, v value.Value) (value.Sequence, error) {
	if s, ok := v.AsSequence(); ok {
		return s.Clone(), nil
	}
	return nil, errstack.Newf(errstack.ErrType, "%s: expected a sequence, found %s", name, v.Kind())
}

func asCallable(name string, v value.Value) (*value.Callable, error) {
	if c, ok := v.AsCallable(); ok {
		return c, nil
	}
	return nil, errstack.Newf(errstack.ErrType, "%s: expected a callable, found %s", name, v.Kind())
}

func asMap(name string, v value.Value) (*value.Map, error) {
	if m, ok := v.AsMap(); ok {
		return m, nil
	}
	return nil, errstack.Newf(errstack.ErrType, "%s: expected a map, found %s", name, v.Kind())
}

func numericValue(isFloat bool, i int64, f float64) value.Value {
	if isFloat {
		return value.FloatValue(float32(f))
	}
	return value.IntValue(i)
}
