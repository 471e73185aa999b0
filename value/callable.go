package value

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/sym"
)

// ScopeRef is the minimal view of a runtime scope a Closure needs to
// capture. Package scope's *Scope satisfies this; value
// depends only on this interface, not on package scope, so scope is
// free to import value without creating a cycle.
type ScopeRef interface {
	// Get resolves a previously-interned identifier, walking parent
	// scopes. ok is false if the name is unbound anywhere in the chain.
	Get(name sym.Sym) (Value, bool)
}

// CallableKind tags which variant a Callable holds.
type CallableKind int

const (
	CallBuiltin CallableKind = iota
	CallClosure
	CallPartial
	CallComposed
	CallDynamic
)

// ArgRefKind tags one slot of a ResolvedSignature.
type ArgRefKind int

const (
	ArgPositional ArgRefKind = iota
	ArgKeyword
	ArgDefault
)

// ArgRef says, for one argument slot of a chosen overload, where its
// value comes from.
type ArgRef struct {
	Kind    ArgRefKind
	Index   int           // valid when Kind == ArgPositional
	Name    string        // valid when Kind == ArgKeyword
	Default func() Value  // valid when Kind == ArgDefault
}

// ResolvedSignature is the pre-resolved dispatch decision the optimizer
// attaches to a Builtin callable when the builtin has exactly one
// signature, so its argument slots follow from the call's arity alone.
type ResolvedSignature struct {
	OverloadIndex int
	ArgRefs       []ArgRef
}

// BuiltinFn is the function-pointer shape every registered builtin
// implements (package builtins), given already-resolved positional
// values in signature-slot order.
type BuiltinFn func(args []Value) (Value, error)

// Builtin is the Builtin callable variant: an index into
// the signature-def table (by canonical name), a function pointer, and
// an optional pre-resolved signature.
type Builtin struct {
	Name     string
	Fn       BuiltinFn
	Resolved *ResolvedSignature
	Pure     bool
}

// Closure is the Closure callable variant: parameters, a statement
// body, and a captured scope. Weak is an informational label only:
// Captured is always held by an ordinary pointer, including for a
// recursive binding such as `f = |x| if x <= 0 then 0 else f(x - 1)`
// (see package scope).
type Closure struct {
	Params   []Param
	Body     []ast.Stmt
	Captured ScopeRef
	Weak     bool
	Pure     bool
}

// Param is one closure parameter: a destructuring
// pattern, an optional type hint, and an optional default expression
// evaluated in the closure's own new scope at call time.
type Param struct {
	Pattern     ast.Pattern
	TypeHint    string
	HasTypeHint bool
	Default     ast.Expr
	HasDefault  bool
}

// PartiallyApplied is the PartiallyApplied callable variant: a target
// callable plus a bound prefix of positional and keyword arguments.
type PartiallyApplied struct {
	Target       *Callable
	BoundArgs    []Value
	BoundKwargs  map[string]Value
}

// DynamicCallable is implemented by a host-supplied object invoked via
// the Dynamic callable variant (used by the path tracer's sampler and
// draw-command stubs).
type DynamicCallable interface {
	Invoke(args []Value, kwargs map[string]Value) (Value, error)
}

// Callable is the shared handle every `Callable` Value wraps.
type Callable struct {
	Kind     CallableKind
	Builtin  *Builtin
	Closure  *Closure
	Partial  *PartiallyApplied
	Composed []*Callable
	Dynamic  DynamicCallable
}

// IsPure reports whether invoking c is known to have no side effects
//: Composed is pure iff every element is, PartiallyApplied
// inherits its target's purity, and Dynamic is conservatively impure.
func (c *Callable) IsPure() bool {
	switch c.Kind {
	case CallBuiltin:
		return c.Builtin != nil && c.Builtin.Pure
	case CallClosure:
		return c.Closure != nil && c.Closure.Pure
	case CallPartial:
		return c.Partial != nil && c.Partial.Target != nil && c.Partial.Target.IsPure()
	case CallComposed:
		for _, inner := range c.Composed {
			if inner == nil || !inner.IsPure() {
				return false
			}
		}
		return true
	default:
		return false
	}
}
