package scope

import (
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// Scope is a Sym-to-Value mapping with a parent link. A
// child scope is created for every closure call and every block that
// introduces a new binding.
//
// A captured Scope never needs an explicit weak/strong distinction to
// avoid a leak: Go's tracing garbage collector reclaims reference
// cycles (a closure whose captured scope transitively holds the closure
// itself) the same as any other unreachable graph, so Scope is always
// held by an ordinary pointer (see value.Closure.Weak, kept only as an
// informational label).
type Scope struct {
	parent   *Scope
	outer    value.ScopeRef
	bindings map[sym.Sym]value.Value
}

// New returns a fresh child scope of parent (nil for the root scope).
func New(parent *Scope) *Scope {
	return &Scope{parent: parent, bindings: make(map[sym.Sym]value.Value)}
}

// NewFromRef returns a fresh child scope whose outward lookups fall
// back to outer. When outer is a concrete *Scope this is the same as
// New; otherwise (e.g. pathtrace's draw-command recorder, which wraps
// a Closure's Captured scope in its own value.ScopeRef to inject
// move/line/... bindings) Get defers to outer.Get once this scope's
// own bindings are exhausted.
func NewFromRef(outer value.ScopeRef) *Scope {
	if sc, ok := outer.(*Scope); ok {
		return New(sc)
	}
	return &Scope{outer: outer, bindings: make(map[sym.Sym]value.Value)}
}

// Get resolves name, walking parent scopes outward and finally falling
// back to an outer value.ScopeRef (set only via NewFromRef). Satisfies
// value.ScopeRef.
func (s *Scope) Get(name sym.Sym) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.bindings[name]; ok {
			return v, true
		}
		if cur.parent == nil && cur.outer != nil {
			return cur.outer.Get(name)
		}
	}
	return value.Value{}, false
}

// Set binds name to v in this scope (not a parent), shadowing any
// outer binding of the same name.
func (s *Scope) Set(name sym.Sym, v value.Value) {
	s.bindings[name] = v
}

// Has reports whether name is bound in this scope specifically (not a
// parent) -- used when deciding whether an assignment rebinds an
// existing local or introduces a new one.
func (s *Scope) Has(name sym.Sym) bool {
	_, ok := s.bindings[name]
	return ok
}

// Parent returns the scope's parent, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Assign walks outward from s looking for the nearest scope that
// already binds name and rebinds it there; if no scope binds name, it
// is bound fresh in s itself. This is the "plain assignment rebinds the
// existing variable wherever it lives, or introduces a new local"
// convention most block-scoped dynamic languages use for `name = expr`
// (as opposed to destructuring-assignment statements, which always
// introduce fresh local bindings).
func (s *Scope) Assign(name sym.Sym, v value.Value) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.bindings[name]; ok {
			cur.bindings[name] = v
			return
		}
	}
	s.bindings[name] = v
}
