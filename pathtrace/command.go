package pathtrace

import "github.com/katalvlaran/geoscript/geom"

// CommandKind tags one recorded draw command.
type CommandKind int

const (
	CmdMove CommandKind = iota
	CmdLine
	CmdQuadraticBezier
	CmdSmoothQuadraticBezier
	CmdCubicBezier
	CmdSmoothCubicBezier
	CmdArc
	CmdClose
)

// Command is one entry in the draw-command buffer a trace_path
// callback (or the SVG path parser) accumulates. Fields are populated
// according to Kind; unused fields are zero.
type Command struct {
	Kind CommandKind

	To   geom.Vec2 // Move, Line, Quadratic*, Cubic*, Arc endpoint
	Ctrl geom.Vec2 // QuadraticBezier control point

	Ctrl1 geom.Vec2 // CubicBezier first control point
	Ctrl2 geom.Vec2 // CubicBezier / SmoothCubicBezier control point

	Rx, Ry, XAxisRotation float64
	LargeArc, Sweep       bool
}

func MoveTo(p geom.Vec2) Command { return Command{Kind: CmdMove, To: p} }
func LineTo(p geom.Vec2) Command { return Command{Kind: CmdLine, To: p} }

func QuadraticBezierTo(ctrl, to geom.Vec2) Command {
	return Command{Kind: CmdQuadraticBezier, Ctrl: ctrl, To: to}
}

func SmoothQuadraticBezierTo(to geom.Vec2) Command {
	return Command{Kind: CmdSmoothQuadraticBezier, To: to}
}

func CubicBezierTo(ctrl1, ctrl2, to geom.Vec2) Command {
	return Command{Kind: CmdCubicBezier, Ctrl1: ctrl1, Ctrl2: ctrl2, To: to}
}

func SmoothCubicBezierTo(ctrl2, to geom.Vec2) Command {
	return Command{Kind: CmdSmoothCubicBezier, Ctrl2: ctrl2, To: to}
}

func ArcTo(rx, ry, xAxisRotation float64, largeArc, sweep bool, to geom.Vec2) Command {
	return Command{Kind: CmdArc, Rx: rx, Ry: ry, XAxisRotation: xAxisRotation, LargeArc: largeArc, Sweep: sweep, To: to}
}

func Close() Command { return Command{Kind: CmdClose} }

// Recorder is the shared append-only buffer a trace_path callback's
// recorder callables write into.
type Recorder struct {
	cmds []Command
}

func (r *Recorder) push(c Command) { r.cmds = append(r.cmds, c) }

// Commands returns a snapshot of everything recorded so far.
func (r *Recorder) Commands() []Command {
	return append([]Command(nil), r.cmds...)
}
