package pathtrace

import (
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// recorderScope layers the draw-command bindings over a trace_path
// callback's captured scope. It implements
// value.ScopeRef directly rather than depending on package scope, the
// same way package value's ScopeRef doc comment anticipates: pathtrace
// only ever needs read-only name resolution, never scope mutation.
type recorderScope struct {
	parent value.ScopeRef
	names  map[sym.Sym]value.Value
}

func (s *recorderScope) Get(name sym.Sym) (value.Value, bool) {
	if v, ok := s.names[name]; ok {
		return v, true
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}

	return value.Value{}, false
}

func dynamicValue(dc value.DynamicCallable) value.Value {
	return value.CallableValue(&value.Callable{Kind: value.CallDynamic, Dynamic: dc})
}

// newRecorderScope binds move/line/quadratic_bezier/... (plus their
// trace_path-specific aliases) to recorder callables sharing rec, over
// parent.
func newRecorderScope(parent value.ScopeRef, table *sym.Table, rec *Recorder) *recorderScope {
	names := make(map[sym.Sym]value.Value, 12)
	set := func(name string, dc value.DynamicCallable) { names[table.Intern(name)] = dynamicValue(dc) }

	set("move", &moveRecorder{rec})
	set("line", &lineRecorder{rec})
	set("quadratic_bezier", &quadraticRecorder{rec})
	set("quad_bezier", &quadraticRecorder{rec})
	set("smooth_quadratic_bezier", &smoothQuadraticRecorder{rec})
	set("smooth_quad_bezier", &smoothQuadraticRecorder{rec})
	set("cubic_bezier", &cubicRecorder{rec})
	set("bezier", &cubicRecorder{rec})
	set("smooth_cubic_bezier", &smoothCubicRecorder{rec})
	set("smooth_bezier", &smoothCubicRecorder{rec})
	set("arc", &arcRecorder{rec})
	set("close", &closeRecorder{rec})

	return &recorderScope{parent: parent, names: names}
}

// takeVec2 consumes either one Vec2 argument or two numeric arguments
// starting at args[i], matching the two-overload shape every draw
// command with a point argument supports.
func takeVec2(fnName string, args []value.Value, i int) (geom.Vec2, int, error) {
	if i < len(args) {
		if v, ok := args[i].AsVec2(); ok {
			return v, i + 1, nil
		}
	}
	if i+1 < len(args) {
		x, xok := args[i].AsNumeric()
		y, yok := args[i+1].AsNumeric()
		if xok && yok {
			return geom.Vec2{X: x, Y: y}, i + 2, nil
		}
	}

	return geom.Vec2{}, i, errstack.Newf(errstack.ErrType, "`%s` expects a Vec2 or two numbers, found wrong argument shape", fnName)
}

func requireExhausted(fnName string, args []value.Value, consumed int) error {
	if consumed != len(args) {
		return errstack.Newf(errstack.ErrArity, "`%s` received unexpected extra arguments", fnName)
	}

	return nil
}

func requireNoKwargs(fnName string, kwargs map[string]value.Value) error {
	if len(kwargs) != 0 {
		return errstack.Newf(errstack.ErrArity, "`%s` can only be called within the callback passed to `trace_path`; it does not accept keyword arguments", fnName)
	}

	return nil
}

type moveRecorder struct{ rec *Recorder }

func (m *moveRecorder) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := requireNoKwargs("move", kwargs); err != nil {
		return value.Value{}, err
	}
	p, n, err := takeVec2("move", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireExhausted("move", args, n); err != nil {
		return value.Value{}, err
	}
	m.rec.push(MoveTo(p))

	return value.NilValue, nil
}

type lineRecorder struct{ rec *Recorder }

func (l *lineRecorder) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := requireNoKwargs("line", kwargs); err != nil {
		return value.Value{}, err
	}
	p, n, err := takeVec2("line", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireExhausted("line", args, n); err != nil {
		return value.Value{}, err
	}
	l.rec.push(LineTo(p))

	return value.NilValue, nil
}

type quadraticRecorder struct{ rec *Recorder }

func (q *quadraticRecorder) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := requireNoKwargs("quadratic_bezier", kwargs); err != nil {
		return value.Value{}, err
	}
	ctrl, n1, err := takeVec2("quadratic_bezier", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	to, n2, err := takeVec2("quadratic_bezier", args, n1)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireExhausted("quadratic_bezier", args, n2); err != nil {
		return value.Value{}, err
	}
	q.rec.push(QuadraticBezierTo(ctrl, to))

	return value.NilValue, nil
}

type smoothQuadraticRecorder struct{ rec *Recorder }

func (s *smoothQuadraticRecorder) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := requireNoKwargs("smooth_quadratic_bezier", kwargs); err != nil {
		return value.Value{}, err
	}
	to, n, err := takeVec2("smooth_quadratic_bezier", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireExhausted("smooth_quadratic_bezier", args, n); err != nil {
		return value.Value{}, err
	}
	s.rec.push(SmoothQuadraticBezierTo(to))

	return value.NilValue, nil
}

type cubicRecorder struct{ rec *Recorder }

func (c *cubicRecorder) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := requireNoKwargs("cubic_bezier", kwargs); err != nil {
		return value.Value{}, err
	}
	ctrl1, n1, err := takeVec2("cubic_bezier", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	ctrl2, n2, err := takeVec2("cubic_bezier", args, n1)
	if err != nil {
		return value.Value{}, err
	}
	to, n3, err := takeVec2("cubic_bezier", args, n2)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireExhausted("cubic_bezier", args, n3); err != nil {
		return value.Value{}, err
	}
	c.rec.push(CubicBezierTo(ctrl1, ctrl2, to))

	return value.NilValue, nil
}

type smoothCubicRecorder struct{ rec *Recorder }

func (s *smoothCubicRecorder) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := requireNoKwargs("smooth_cubic_bezier", kwargs); err != nil {
		return value.Value{}, err
	}
	ctrl2, n1, err := takeVec2("smooth_cubic_bezier", args, 0)
	if err != nil {
		return value.Value{}, err
	}
	to, n2, err := takeVec2("smooth_cubic_bezier", args, n1)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireExhausted("smooth_cubic_bezier", args, n2); err != nil {
		return value.Value{}, err
	}
	s.rec.push(SmoothCubicBezierTo(ctrl2, to))

	return value.NilValue, nil
}

type arcRecorder struct{ rec *Recorder }

func (a *arcRecorder) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := requireNoKwargs("arc", kwargs); err != nil {
		return value.Value{}, err
	}
	if len(args) < 4 {
		return value.Value{}, errstack.New(errstack.ErrArity, "`arc` expects at least rx, ry, x_axis_rotation, and an endpoint")
	}
	rx, rxOk := args[0].AsNumeric()
	ry, ryOk := args[1].AsNumeric()
	rot, rotOk := args[2].AsNumeric()
	if !rxOk || !ryOk || !rotOk {
		return value.Value{}, errstack.New(errstack.ErrType, "`arc` expects rx, ry, and x_axis_rotation to be numbers")
	}

	rest := args[3:]
	largeArc, sweep := false, true
	var to geom.Vec2
	var n int
	var err error
	if len(rest) >= 2 {
		if b0, ok0 := rest[0].AsBool(); ok0 {
			if b1, ok1 := rest[1].AsBool(); ok1 {
				largeArc, sweep = b0, b1
				to, n, err = takeVec2("arc", rest, 2)
			}
		}
	}
	if n == 0 && err == nil {
		to, n, err = takeVec2("arc", rest, 0)
	}
	if err != nil {
		return value.Value{}, err
	}
	if err := requireExhausted("arc", rest, n); err != nil {
		return value.Value{}, err
	}

	a.rec.push(ArcTo(rx, ry, rot, largeArc, sweep, to))

	return value.NilValue, nil
}

type closeRecorder struct{ rec *Recorder }

func (c *closeRecorder) Invoke(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := requireNoKwargs("close", kwargs); err != nil {
		return value.Value{}, err
	}
	if len(args) != 0 {
		return value.Value{}, errstack.New(errstack.ErrArity, "`close` takes no arguments")
	}
	c.rec.push(Close())

	return value.NilValue, nil
}
