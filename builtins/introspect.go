package builtins

import (
	"strings"

	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/value"
)

// argTypeName renders an ArgType the way a script author would read it in
// a signature, not its internal Go constant name.
func argTypeName(t builtin.ArgType) string {
	switch t {
	case builtin.TNil:
		return "nil"
	case builtin.TBool:
		return "bool"
	case builtin.TInt:
		return "int"
	case builtin.TFloat:
		return "float"
	case builtin.TNumeric:
		return "numeric"
	case builtin.TString:
		return "string"
	case builtin.TVec2:
		return "vec2"
	case builtin.TVec3:
		return "vec3"
	case builtin.TMesh:
		return "mesh"
	case builtin.TLight:
		return "light"
	case builtin.TMaterial:
		return "material"
	case builtin.TMap:
		return "map"
	case builtin.TSequence:
		return "sequence"
	case builtin.TCallable:
		return "callable"
	default:
		return "any"
	}
}

func formatArgDef(a builtin.ArgDef) string {
	var types []string
	for _, t := range a.Types {
		types = append(types, argTypeName(t))
	}
	typ := strings.Join(types, "|")
	if a.Required {
		return a.Name + ": " + typ
	}
	return a.Name + "?: " + typ
}

func formatSignature(def *builtin.FnDef, sig builtin.FnSignature) string {
	args := make([]string, len(sig.Args))
	for i, a := range sig.Args {
		args[i] = formatArgDef(a)
	}
	return def.Name + "(" + strings.Join(args, ", ") + ") -> " + argTypeName(sig.Return)
}

// describeBuiltin renders a builtin's registered doc, every overload
// signature, and its example snippets into one human-readable block, the
// runtime form of its FnDef entry (the Doc/Examples fields otherwise
// only ever read by documentation tooling, not scripts).
func describeBuiltin(r *builtin.Registry, name string) (string, bool) {
	def, _, ok := r.Lookup(name)
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString(def.Name)
	if def.Doc != "" {
		b.WriteString(" - ")
		b.WriteString(def.Doc)
	}
	for _, sig := range def.Signatures {
		b.WriteString("\n  ")
		b.WriteString(formatSignature(def, sig))
	}
	for _, ex := range def.Examples {
		b.WriteString("\n  > ")
		b.WriteString(ex)
	}

	return b.String(), true
}

// registerIntrospection defines describe, the one builtin whose
// implementation needs to see back into the registry that holds it.
func registerIntrospection(r *builtin.Registry) {
	r.Define(builtin.FnDef{
		Name: "describe", Module: "introspect", Pure: true,
		Doc:        "returns a builtin's documentation, signatures, and examples as a string",
		Examples:   []string{`describe("sqrt")`},
		Signatures: []builtin.FnSignature{sig(req("name", builtin.TString))},
	}, func(args []value.Value) (value.Value, error) {
		name, err := asString("describe", args[0])
		if err != nil {
			return value.Value{}, err
		}
		text, ok := describeBuiltin(r, name)
		if !ok {
			return value.StringValue("no such builtin: " + name), nil
		}
		return value.StringValue(text), nil
	})
}
