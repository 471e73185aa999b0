package eval

import "github.com/katalvlaran/geoscript/value"

// FlowKind tags which of the three control-flow variants a Control
// carries: Continue is the ordinary "keep going"
// case, Break and Return unwind to the nearest catcher (a loop-shaped
// builtin for Break, a closure invocation for Return) without any Go
// panic/recover machinery.
type FlowKind int

const (
	FlowContinue FlowKind = iota
	FlowBreak
	FlowReturn
)

// Control threads results and control flow together: every statement
// and expression evaluator returns one instead of a bare Value, and
// every caller that combines sub-results checks Kind before using Val
// ("no exceptions/unwinding").
type Control struct {
	Kind FlowKind
	Val  value.Value
}

// Continue wraps v as the ordinary, non-unwinding case.
func Continue(v value.Value) Control { return Control{Kind: FlowContinue, Val: v} }

// IsContinue reports whether c is the non-unwinding case.
func (c Control) IsContinue() bool { return c.Kind == FlowContinue }
