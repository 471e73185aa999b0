package value

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/geoscript/geom"
)

// Value is the dynamically-typed tagged union behind every expression
// the evaluator produces. Scalars
// (Int, Float, Bool, String, Vec2, Vec3) are stored inline and copied by
// value, matching "scalars are value types." Mesh, Sequence, Callable,
// and Map are stored as pointers/interfaces to a shared handle, matching
// "meshes, sequences, callables, and maps are shared... mutations go
// through clone-on-write": nothing in this package ever mutates a shared
// handle that could be aliased without the caller (a builtin
// implementation) first calling its Clone method.
type Value struct {
	kind Kind

	i  int64
	f  float32
	b  bool
	s  string
	v2 geom.Vec2
	v3 geom.Vec3

	mesh     *MeshHandle
	seq      Sequence
	call     *Callable
	m        *Map
	light    *Light
	material *Material
}

var NilValue = Value{kind: Nil}

func IntValue(i int64) Value       { return Value{kind: Int, i: i} }
func FloatValue(f float32) Value   { return Value{kind: Float, f: f} }
func BoolValue(b bool) Value       { return Value{kind: Bool, b: b} }
func StringValue(s string) Value   { return Value{kind: String, s: s} }
func Vec2Value(v geom.Vec2) Value  { return Value{kind: KVec2, v2: v} }
func Vec3Value(v geom.Vec3) Value  { return Value{kind: KVec3, v3: v} }

func MeshValue(h *MeshHandle) Value         { return Value{kind: KMesh, mesh: h} }
func SequenceValue(s Sequence) Value        { return Value{kind: KSequence, seq: s} }
func CallableValue(c *Callable) Value       { return Value{kind: KCallable, call: c} }
func MapValue(m *Map) Value                 { return Value{kind: KMap, m: m} }
func LightValue(l *Light) Value             { return Value{kind: KLight, light: l} }
func MaterialValue(mt *Material) Value      { return Value{kind: KMaterial, material: mt} }

// Kind returns v's dynamic type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the Nil variant.
func (v Value) IsNil() bool { return v.kind == Nil }

func (v Value) AsInt() (int64, bool)         { return v.i, v.kind == Int }
func (v Value) AsFloat() (float32, bool)     { return v.f, v.kind == Float }
func (v Value) AsBool() (bool, bool)         { return v.b, v.kind == Bool }
func (v Value) AsString() (string, bool)     { return v.s, v.kind == String }
func (v Value) AsVec2() (geom.Vec2, bool)    { return v.v2, v.kind == KVec2 }
func (v Value) AsVec3() (geom.Vec3, bool)    { return v.v3, v.kind == KVec3 }
func (v Value) AsMesh() (*MeshHandle, bool)  { return v.mesh, v.kind == KMesh }
func (v Value) AsSequence() (Sequence, bool) { return v.seq, v.kind == KSequence }
func (v Value) AsCallable() (*Callable, bool) {
	return v.call, v.kind == KCallable
}
func (v Value) AsMap() (*Map, bool)           { return v.m, v.kind == KMap }
func (v Value) AsLight() (*Light, bool)       { return v.light, v.kind == KLight }
func (v Value) AsMaterial() (*Material, bool) { return v.material, v.kind == KMaterial }

// AsNumeric widens Int or Float to float64, for arithmetic that dispatches
// on the Numeric (Int ∪ Float) type category.
func (v Value) AsNumeric() (float64, bool) {
	switch v.kind {
	case Int:
		return float64(v.i), true
	case Float:
		return float64(v.f), true
	default:
		return 0, false
	}
}

// Truthy reports whether v is considered true in a boolean context (an
// `if` condition, the `&&`/`||` operators). Bool uses its own value;
// Nil is false; every other kind is true — there is no falsy "zero"
// value for Int, Float, or String, unlike some scripting languages
// (the short-circuit operators only ever examine Bool operands in
// practice, so this only matters for the default case).
func (v Value) Truthy() bool {
	switch v.kind {
	case Nil:
		return false
	case Bool:
		return v.b
	default:
		return true
	}
}

// Equal reports value equality (`==`/`!=`). Scalars
// compare by value; Mesh, Sequence, Callable, and Map compare by handle
// identity, since no deep-equality contract is defined for them.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Nil:
		return true
	case Int:
		return a.i == b.i
	case Float:
		return a.f == b.f
	case Bool:
		return a.b == b.b
	case String:
		return a.s == b.s
	case KVec2:
		return a.v2 == b.v2
	case KVec3:
		return a.v3 == b.v3
	case KMesh:
		return a.mesh == b.mesh
	case KSequence:
		return sameIface(a.seq, b.seq)
	case KCallable:
		return a.call == b.call
	case KMap:
		return a.m == b.m
	case KLight:
		return a.light == b.light
	case KMaterial:
		return a.material == b.material
	default:
		return false
	}
}

func sameIface(a, b Sequence) bool {
	// Every concrete Sequence in package seq is a pointer type, so the
	// interface value's dynamic part is always a pointer and == never
	// risks panicking on an uncomparable underlying struct.
	return a == b
}

// String renders v for print/debug output (`print`).
func (v Value) String() string {
	switch v.kind {
	case Nil:
		return "nil"
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case Bool:
		return strconv.FormatBool(v.b)
	case String:
		return v.s
	case KVec2:
		return fmt.Sprintf("(%g, %g)", v.v2.X, v.v2.Y)
	case KVec3:
		return fmt.Sprintf("(%g, %g, %g)", v.v3.X, v.v3.Y, v.v3.Z)
	case KMesh:
		if v.mesh == nil {
			return "<mesh:nil>"
		}
		return fmt.Sprintf("<mesh verts=%d faces=%d>", v.mesh.Mesh.VertexCount(), v.mesh.Mesh.FaceCount())
	case KSequence:
		return "<sequence>"
	case KCallable:
		return "<callable>"
	case KMap:
		if v.m == nil {
			return "{}"
		}
		return fmt.Sprintf("<map len=%d>", v.m.Len())
	case KLight:
		return "<light>"
	case KMaterial:
		return "<material>"
	default:
		return "<unknown>"
	}
}
