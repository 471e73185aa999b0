package errstack

import "errors"

// Sentinel base errors. ErrorStack frames wrap one of these so callers
// can branch with errors.Is against a stable category rather than
// string-matching a message.
var (
	// ErrParse marks a malformed-syntax error; it carries a source offset
	// in its frame message.
	ErrParse = errors.New("errstack: parse error")

	// ErrType marks an argument that does not match any signature
	// overload.
	ErrType = errors.New("errstack: type error")

	// ErrName marks an undefined identifier ("Variable or function
	// not found").
	ErrName = errors.New("errstack: name not found")

	// ErrArity marks unrecognized kwargs or a missing required argument
	// with no partial-application path.
	ErrArity = errors.New("errstack: arity or dispatch error")

	// ErrRuntime marks a runtime value error: division by zero,
	// out-of-range index, invalid UTF-8, a negative count where
	// non-negative is required.
	ErrRuntime = errors.New("errstack: runtime value error")

	// ErrGeometric marks a geometric precondition failure: empty path,
	// too few spine points, resolution below the minimum.
	ErrGeometric = errors.New("errstack: geometric error")

	// ErrTopology marks a structured manifold-check failure; see
	// TopologyError for the specific kind.
	ErrTopology = errors.New("errstack: topology error")

	// ErrAssertion marks a failed assert(cond, msg) builtin call.
	ErrAssertion = errors.New("errstack: assertion failed")
)

// TopologyKind enumerates the structured topology-error variants the
// manifold check reports.
type TopologyKind int

const (
	_ TopologyKind = iota
	LooseEdge
	LooseVertex
	NonManifoldEdge
	MultipleFans
	NonClosedFan
	EmptyMesh
)

func (k TopologyKind) String() string {
	switch k {
	case LooseEdge:
		return "LooseEdge"
	case LooseVertex:
		return "LooseVertex"
	case NonManifoldEdge:
		return "NonManifoldEdge"
	case MultipleFans:
		return "MultipleFans"
	case NonClosedFan:
		return "NonClosedFan"
	case EmptyMesh:
		return "EmptyMesh"
	default:
		return "UnknownTopologyKind"
	}
}

// TopologyDetail carries the structured payload for a topology error,
// e.g. the face count observed for a NonManifoldEdge{face_count}.
type TopologyDetail struct {
	Kind      TopologyKind
	FaceCount int // populated only for NonManifoldEdge
}
