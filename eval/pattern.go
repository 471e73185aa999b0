package eval

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// bindAssign applies one AssignStmt's pattern against v in sc. A plain
// `name = expr` (an *ast.IdentPattern at the top level)
// rebinds wherever the name already lives, or introduces a fresh local
// if it is unbound anywhere in the chain -- scope.Assign's contract.
// Destructuring patterns (map/array) always introduce fresh local
// bindings for every identifier they name, regardless of whether an
// outer scope already binds that name.
func (e *EvalCtx) bindAssign(pat ast.Pattern, v value.Value, sc *scope.Scope) error {
	if ip, ok := pat.(*ast.IdentPattern); ok {
		sc.Assign(ip.Name, v)
		return nil
	}
	return e.destructure(pat, v, sc, sc.Set)
}

// destructure recursively binds pat against v using bind (sc.Set for
// destructuring assignment and closure-parameter binding, both of which
// always introduce fresh local bindings).
func (e *EvalCtx) destructure(pat ast.Pattern, v value.Value, sc *scope.Scope, bind func(sym.Sym, value.Value)) error {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		bind(p.Name, v)
		return nil
	case *ast.MapPattern:
		m, isMap := v.AsMap()
		for _, entry := range p.Entries {
			var ev value.Value
			if isMap {
				ev, _ = m.Get(entry.Key)
			} else {
				ev = value.NilValue
			}
			if err := e.destructure(entry.Pattern, ev, sc, bind); err != nil {
				return err
			}
		}
		return nil
	case *ast.ArrayPattern:
		elems := collectForDestructure(v, len(p.Elems))
		for i, sub := range p.Elems {
			var ev value.Value
			if i < len(elems) {
				ev = elems[i]
			} else {
				ev = value.NilValue
			}
			if err := e.destructure(sub, ev, sc, bind); err != nil {
				return err
			}
		}
		return nil
	}
	return errstack.Newf(errstack.ErrType, "eval: unknown pattern type %T", pat)
}

// collectForDestructure eagerly pulls up to bound elements from v's
// Sequence (a sequence matched against an array pattern is collected
// eagerly, bounded by the pattern's length), leaving the original
// sequence's cursor untouched by cloning it first. v that is not a
// Sequence yields no elements, so every sub-pattern binds Nil.
func collectForDestructure(v value.Value, bound int) []value.Value {
	s, ok := v.AsSequence()
	if !ok {
		return nil
	}
	cur := s.Clone()
	out := make([]value.Value, 0, bound)
	for i := 0; i < bound; i++ {
		el, ok, err := cur.Next()
		if err != nil || !ok {
			break
		}
		out = append(out, el)
	}
	return out
}

// identPatternName returns the bound name of p when p is a plain
// *ast.IdentPattern -- used to let a closure parameter also accept its
// value by keyword argument.
func identPatternName(p ast.Pattern) (sym.Sym, bool) {
	ip, ok := p.(*ast.IdentPattern)
	if !ok {
		return 0, false
	}
	return ip.Name, true
}
