package scope

import (
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// TrackKind tags a ScopeTracker entry's compile-time knowledge of a
// binding.
type TrackKind int

const (
	// TrackConst means the binding's value is compile-time known.
	TrackConst TrackKind = iota
	// TrackArg means the binding is a function parameter, known only at
	// call time.
	TrackArg
	// TrackDyn means the binding is the result of a non-foldable
	// expression; its static type may still be known (TypeHint).
	TrackDyn
)

// TrackEntry is one ScopeTracker binding: its kind, and the payload
// that kind carries (Value for TrackConst, a type-hint string for
// TrackDyn).
type TrackEntry struct {
	Kind       TrackKind
	ConstValue value.Value
	TypeHint   string
}

// Tracker is the optimizer's parallel shadow of Scope:
// the same Sym-to-entry-with-parent-link shape, but storing what is
// known about a binding at compile time instead of its runtime value.
type Tracker struct {
	parent  *Tracker
	entries map[sym.Sym]TrackEntry
}

// NewTracker returns a fresh child tracker of parent (nil for the root).
func NewTracker(parent *Tracker) *Tracker {
	return &Tracker{parent: parent, entries: make(map[sym.Sym]TrackEntry)}
}

// Get resolves name, walking parent trackers outward.
func (t *Tracker) Get(name sym.Sym) (TrackEntry, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if e, ok := cur.entries[name]; ok {
			return e, true
		}
	}
	return TrackEntry{}, false
}

// SetConst records that name is a compile-time constant with value v.
func (t *Tracker) SetConst(name sym.Sym, v value.Value) {
	t.entries[name] = TrackEntry{Kind: TrackConst, ConstValue: v}
}

// SetArg records that name is a call-time-only parameter.
func (t *Tracker) SetArg(name sym.Sym) {
	t.entries[name] = TrackEntry{Kind: TrackArg}
}

// SetDyn records that name's value is not foldable, optionally with a
// known static type.
func (t *Tracker) SetDyn(name sym.Sym, typeHint string) {
	t.entries[name] = TrackEntry{Kind: TrackDyn, TypeHint: typeHint}
}

// Demote walks outward from t and downgrades every binding of name it
// finds to TrackArg: a variable assigned inside a conditional branch is
// no longer known statically once control flow rejoins after the branch.
// It is a no-op if no enclosing tracker binds name.
func (t *Tracker) Demote(name sym.Sym) {
	for cur := t; cur != nil; cur = cur.parent {
		if _, ok := cur.entries[name]; ok {
			cur.entries[name] = TrackEntry{Kind: TrackArg}
		}
	}
}
