package builtin

import (
	"fmt"

	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/value"
)

// Registry is the static signature-def table plus the alias table,
// keyed by canonical name. Package builtins
// populates a Registry with the concrete Go functions that implement
// every name this package only describes the shape of.
type Registry struct {
	defs    map[string]*FnDef
	impls   map[string]value.BuiltinFn
	aliases map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]*FnDef, 128),
		impls:   make(map[string]value.BuiltinFn, 128),
		aliases: make(map[string]string, 32),
	}
}

// Define registers def's signature under def.Name, paired with its
// implementation fn. Define panics if def.Name is already registered or
// def has no signatures -- both are programmer errors caught at
// registry-construction time, not a runtime condition a script can
// trigger.
func (r *Registry) Define(def FnDef, fn value.BuiltinFn) {
	if _, exists := r.defs[def.Name]; exists {
		panic(fmt.Sprintf("builtin: %q already registered", def.Name))
	}
	if len(def.Signatures) == 0 {
		panic(fmt.Sprintf("builtin: %q has no signatures", def.Name))
	}
	d := def
	r.defs[d.Name] = &d
	r.impls[d.Name] = fn
}

// Alias maps a synonym name to an already-registered canonical name.
func (r *Registry) Alias(alias, canonical string) {
	if _, exists := r.defs[canonical]; !exists {
		panic(fmt.Sprintf("builtin: alias %q targets unknown canonical name %q", alias, canonical))
	}
	r.aliases[alias] = canonical
}

// canonicalize resolves name through the alias table, which maps
// synonym names to canonical ones.
func (r *Registry) canonicalize(name string) string {
	if c, ok := r.aliases[name]; ok {
		return c
	}
	return name
}

// Lookup resolves name (after alias indirection) to its FnDef and
// implementation.
func (r *Registry) Lookup(name string) (*FnDef, value.BuiltinFn, bool) {
	c := r.canonicalize(name)
	def, ok := r.defs[c]
	if !ok {
		return nil, nil, false
	}
	return def, r.impls[c], true
}

// Names returns every canonical name registered, for diagnostics.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.defs))
	for n := range r.defs {
		out = append(out, n)
	}
	return out
}

// MakeCallable builds the value.Callable a scope lookup or the builtin
// registry fallback of a call-by-name hands back for name.
func (r *Registry) MakeCallable(name string) (*value.Callable, bool) {
	def, fn, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	return &value.Callable{
		Kind: value.CallBuiltin,
		Builtin: &value.Builtin{
			Name: def.Name,
			Fn: func(args []value.Value) (value.Value, error) {
				return fn(args)
			},
			Pure: def.Pure,
		},
	}, true
}

// Resolve runs GetArgs against name's FnDef and, on a full match, invokes
// the registered implementation directly -- the runtime-dispatch path
// for a Builtin whose Resolved signature was not pre-computed by the
// optimizer.
func (r *Registry) Resolve(name string, positional []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	def, fn, ok := r.Lookup(name)
	if !ok {
		return value.Value{}, errstack.Newf(errstack.ErrName, "Variable or function not found: %s", name)
	}
	res, err := GetArgs(def, positional, kwargs)
	if err != nil {
		return value.Value{}, err
	}
	if res.PartiallyApplied {
		callable, _ := r.MakeCallable(name)
		return value.CallableValue(&value.Callable{
			Kind: value.CallPartial,
			Partial: &value.PartiallyApplied{
				Target:      callable,
				BoundArgs:   positional,
				BoundKwargs: kwargs,
			},
		}), nil
	}
	return fn(res.Args)
}

// ExampleValue returns a canonical value whose Kind satisfies t, for the
// optimizer's dispatch pre-resolution pass: it runs
// GetArgs with synthetic argument values matching statically-inferred
// types in order to choose an overload without evaluating anything.
func ExampleValue(t ArgType) value.Value {
	switch t {
	case TNil:
		return value.NilValue
	case TBool:
		return value.BoolValue(false)
	case TInt:
		return value.IntValue(0)
	case TFloat:
		return value.FloatValue(0)
	case TNumeric:
		return value.IntValue(0)
	case TString:
		return value.StringValue("")
	case TVec2:
		return value.Vec2Value(geom.Vec2{})
	case TVec3:
		return value.Vec3Value(geom.Vec3{})
	case TMesh:
		return value.NilValue // a Mesh example value has no cheap zero form; callers that need Mesh dispatch fall back to Any.
	case TLight:
		return value.NilValue
	case TMaterial:
		return value.NilValue
	case TMap:
		return value.MapValue(value.NewMap())
	case TSequence:
		return value.NilValue
	case TCallable:
		return value.NilValue
	default:
		return value.NilValue
	}
}
