package eval

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/value"
)

// evalFieldAccess evaluates `expr.field`: a Vec2/Vec3
// swizzle when Target is a vector, or sugar for Map.Get(field) when
// Target is a map.
func (e *EvalCtx) evalFieldAccess(n *ast.FieldAccess, sc *scope.Scope) (Control, error) {
	tc, err := e.EvalExpr(n.Target, sc)
	if err != nil {
		return Control{}, err
	}
	if tc.Kind != FlowContinue {
		return tc, nil
	}
	switch tc.Val.Kind() {
	case value.KVec2:
		v2, _ := tc.Val.AsVec2()
		out, err := swizzle2(v2, n.Field)
		if err != nil {
			return Control{}, err
		}
		return Continue(out), nil
	case value.KVec3:
		v3, _ := tc.Val.AsVec3()
		out, err := swizzle3(v3, n.Field)
		if err != nil {
			return Control{}, err
		}
		return Continue(out), nil
	case value.KMap:
		m, _ := tc.Val.AsMap()
		v, ok := m.Get(n.Field)
		if !ok {
			return Continue(value.NilValue), nil
		}
		return Continue(v), nil
	}
	return Control{}, errstack.Newf(errstack.ErrType, "field access.%s: unsupported on a %s", n.Field, tc.Val.Kind())
}

func swizzle2(v geom.Vec2, field string) (value.Value, error) {
	comps, err := swizzleComponents2(v, field)
	if err != nil {
		return value.Value{}, err
	}
	return packComponents(comps)
}

func swizzle3(v geom.Vec3, field string) (value.Value, error) {
	comps, err := swizzleComponents3(v, field)
	if err != nil {
		return value.Value{}, err
	}
	return packComponents(comps)
}

func swizzleComponents2(v geom.Vec2, field string) ([]float64, error) {
	if len(field) == 0 || len(field) > 2 {
		return nil, errstack.Newf(errstack.ErrType, "field access.%s: invalid vec2 swizzle", field)
	}
	out := make([]float64, len(field))
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'x':
			out[i] = v.X
		case 'y':
			out[i] = v.Y
		default:
			return nil, errstack.Newf(errstack.ErrType, "field access.%s: invalid vec2 component %q", field, field[i])
		}
	}
	return out, nil
}

func swizzleComponents3(v geom.Vec3, field string) ([]float64, error) {
	if len(field) == 0 || len(field) > 3 {
		return nil, errstack.Newf(errstack.ErrType, "field access.%s: invalid vec3 swizzle", field)
	}
	out := make([]float64, len(field))
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'x':
			out[i] = v.X
		case 'y':
			out[i] = v.Y
		case 'z':
			out[i] = v.Z
		default:
			return nil, errstack.Newf(errstack.ErrType, "field access.%s: invalid vec3 component %q", field, field[i])
		}
	}
	return out, nil
}

func packComponents(comps []float64) (value.Value, error) {
	switch len(comps) {
	case 1:
		return value.FloatValue(float32(comps[0])), nil
	case 2:
		return value.Vec2Value(geom.Vec2{X: comps[0], Y: comps[1]}), nil
	case 3:
		return value.Vec3Value(geom.NewVec3(comps[0], comps[1], comps[2])), nil
	}
	return value.Value{}, errstack.New(errstack.ErrType, "field access: swizzle must yield 1-3 components")
}

// evalIndex evaluates `expr[i]`: random access into an
// eager Sequence by int index, or a Map lookup by string key.
func (e *EvalCtx) evalIndex(n *ast.Index, sc *scope.Scope) (Control, error) {
	tc, err := e.EvalExpr(n.Target, sc)
	if err != nil {
		return Control{}, err
	}
	if tc.Kind != FlowContinue {
		return tc, nil
	}
	ic, err := e.EvalExpr(n.Index, sc)
	if err != nil {
		return Control{}, err
	}
	if ic.Kind != FlowContinue {
		return ic, nil
	}

	switch tc.Val.Kind() {
	case value.KSequence:
		s, _ := tc.Val.AsSequence()
		eager, ok := s.(value.EagerSequence)
		if !ok {
			return Control{}, errstack.New(errstack.ErrType, "index: sequence is not eager; call collect first")
		}
		idx, ok := ic.Val.AsInt()
		if !ok {
			return Control{}, errstack.Newf(errstack.ErrType, "index: expected an int, found %s", ic.Val.Kind())
		}
		v, ok := eager.At(int(idx))
		if !ok {
			return Control{}, errstack.Newf(errstack.ErrRuntime, "index: %d out of range", idx)
		}
		return Continue(v), nil
	case value.KMap:
		m, _ := tc.Val.AsMap()
		key, ok := ic.Val.AsString()
		if !ok {
			return Control{}, errstack.Newf(errstack.ErrType, "index: expected a string key, found %s", ic.Val.Kind())
		}
		v, ok := m.Get(key)
		if !ok {
			return Continue(value.NilValue), nil
		}
		return Continue(v), nil
	}
	return Control{}, errstack.Newf(errstack.ErrType, "index: unsupported on a %s", tc.Val.Kind())
}
