package builtin

import "github.com/katalvlaran/geoscript/value"

// ArgType is the closed set of argument type categories a builtin
// signature can declare.
type ArgType int

const (
	TNil ArgType = iota
	TBool
	TInt
	TFloat
	TNumeric // Int ∪ Float
	TString
	TVec2
	TVec3
	TMesh
	TLight
	TMaterial
	TMap
	TSequence
	TCallable
	TAny
)

func (t ArgType) String() string {
	switch t {
	case TNil:
		return "nil"
	case TBool:
		return "bool"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TNumeric:
		return "numeric"
	case TString:
		return "string"
	case TVec2:
		return "vec2"
	case TVec3:
		return "vec3"
	case TMesh:
		return "mesh"
	case TLight:
		return "light"
	case TMaterial:
		return "material"
	case TMap:
		return "map"
	case TSequence:
		return "sequence"
	case TCallable:
		return "callable"
	case TAny:
		return "any"
	default:
		return "unknown"
	}
}

// Accepts reports whether a value of kind k is legal for an ArgDef
// declaring t among its valid types: an exact
// kind match, Numeric accepting Int or Float, or Any accepting anything.
func (t ArgType) Accepts(k value.Kind) bool {
	switch t {
	case TAny:
		return true
	case TNumeric:
		return k == value.Int || k == value.Float
	case TNil:
		return k == value.Nil
	case TBool:
		return k == value.Bool
	case TInt:
		return k == value.Int
	case TFloat:
		return k == value.Float
	case TString:
		return k == value.String
	case TVec2:
		return k == value.KVec2
	case TVec3:
		return k == value.KVec3
	case TMesh:
		return k == value.KMesh
	case TLight:
		return k == value.KLight
	case TMaterial:
		return k == value.KMaterial
	case TMap:
		return k == value.KMap
	case TSequence:
		return k == value.KSequence
	case TCallable:
		return k == value.KCallable
	default:
		return false
	}
}

// specificity ranks how exact a type-match is for tie-breaking among
// valid overloads: Int beats Numeric, and an exact type beats Any.
// Lower is more specific.
func (t ArgType) specificity() int {
	switch t {
	case TAny:
		return 2
	case TNumeric:
		return 1
	default:
		return 0
	}
}

// ArgDef is one argument slot of an FnSignature.
type ArgDef struct {
	Name     string
	Types    []ArgType
	Required bool
	Default  func() value.Value // used when !Required and the slot is unsupplied
	Doc      string
}

func (a ArgDef) accepts(k value.Kind) (bool, ArgType) {
	for _, t := range a.Types {
		if t.Accepts(k) {
			return true, t
		}
	}
	return false, TNil
}

// FnSignature is one overload of a builtin.
type FnSignature struct {
	Args   []ArgDef
	Return ArgType
}

// FnDef is a builtin's full registry entry: its
// canonical name, module tag, documentation, example snippets, and
// every overload it supports.
type FnDef struct {
	Name       string
	Module     string
	Doc        string
	Examples   []string
	Signatures []FnSignature
	// Pure marks the builtin as safe for the optimizer to fold eagerly
	//; false for print/render/set_rng_seed and friends
	//.
	Pure bool
}
