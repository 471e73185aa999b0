package builtin

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/value"
)

// ArgRefKind mirrors value.ArgRefKind so this package does not need to
// import value's callable machinery just to describe one.
type ArgRefKind = value.ArgRefKind

const (
	ArgPositional = value.ArgPositional
	ArgKeyword    = value.ArgKeyword
	ArgDefault    = value.ArgDefault
)

// ArgRef is an alias of value.ArgRef, kept under this package's name for
// readability at call sites that only ever talk to the registry.
type ArgRef = value.ArgRef

// Resolution is the outcome of get_args.
type Resolution struct {
	// Valid is true when OverloadIndex/ArgRefs/Args fully resolve a call.
	Valid bool
	// PartiallyApplied is true when no overload fully matched but the
	// given args are a type-legal prefix of at least one signature.
	PartiallyApplied bool

	OverloadIndex int
	ArgRefs       []ArgRef
	// Args holds the actual resolved values in signature-slot order,
	// ready to hand to a BuiltinFn. Populated only when Valid.
	Args []value.Value
}

// candidateFailure records why one candidate signature was rejected, for
// the enumerated error message rule 6 requires.
type candidateFailure struct {
	index  int
	reason string
}

// GetArgs resolves a call against def's signatures given positional and
// keyword arguments. It returns a Resolution describing
// a fully-valid match, a partial-application opportunity, or an error
// enumerating every attempted overload and why it failed.
func GetArgs(def *FnDef, positional []value.Value, kwargs map[string]value.Value) (Resolution, error) {
	var failures []candidateFailure
	var bestValid *Resolution
	var bestSpecificity int
	haveValid := false

	for si, sig := range def.Signatures {
		refs, vals, ok, partialOK, reason := tryResolve(sig, positional, kwargs)
		if !ok {
			failures = append(failures, candidateFailure{index: si, reason: reason})
			if !partialOK {
				continue
			}
			continue
		}
		spec := specificityOf(sig, refs)
		if !haveValid || spec < bestSpecificity {
			res := Resolution{Valid: true, OverloadIndex: si, ArgRefs: refs, Args: vals}
			bestValid = &res
			bestSpecificity = spec
			haveValid = true
		}
	}
	if haveValid {
		return *bestValid, nil
	}

	// No full match: check whether the given args are a type-legal
	// prefix of some signature (rule 5).
	if len(kwargs) == 0 {
		for _, sig := range def.Signatures {
			if isTypeLegalPrefix(sig, positional) && len(positional) < len(sig.Args) {
				return Resolution{PartiallyApplied: true}, nil
			}
		}
	}

	return Resolution{}, enumerateFailure(def, failures)
}

// tryResolve attempts one signature: consume positional args left to
// right by slot position, then keyword args by slot name, then the
// slot's default.
func tryResolve(sig FnSignature, positional []value.Value, kwargs map[string]value.Value) (refs []ArgRef, vals []value.Value, ok bool, partialPrefixOK bool, reason string) {
	refs = make([]ArgRef, len(sig.Args))
	vals = make([]value.Value, len(sig.Args))
	usedPositional := 0
	usedKwargs := make(map[string]bool, len(kwargs))

	for i, slot := range sig.Args {
		switch {
		case usedPositional < len(positional):
			v := positional[usedPositional]
			if legal, _ := slot.accepts(v.Kind()); !legal {
				return nil, nil, false, usedPositional > 0, fmt.Sprintf("argument %d (%s): expected one of %s, found %s", usedPositional, slot.Name, typesList(slot.Types), v.Kind())
			}
			refs[i] = ArgRef{Kind: ArgPositional, Index: usedPositional}
			vals[i] = v
			usedPositional++
		case func() bool { _, has := kwargs[slot.Name]; return has }():
			v := kwargs[slot.Name]
			if legal, _ := slot.accepts(v.Kind()); !legal {
				return nil, nil, false, true, fmt.Sprintf("keyword argument %q: expected one of %s, found %s", slot.Name, typesList(slot.Types), v.Kind())
			}
			refs[i] = ArgRef{Kind: ArgKeyword, Name: slot.Name}
			vals[i] = v
			usedKwargs[slot.Name] = true
		case !slot.Required:
			def := slot.Default
			refs[i] = ArgRef{Kind: ArgDefault, Default: def}
			if def != nil {
				vals[i] = def()
			} else {
				vals[i] = value.NilValue
			}
		default:
			return nil, nil, false, usedPositional > 0, fmt.Sprintf("missing required argument %q", slot.Name)
		}
	}

	if usedPositional != len(positional) {
		return nil, nil, false, true, "too many positional arguments"
	}
	for k := range kwargs {
		if !usedKwargs[k] {
			return nil, nil, false, true, fmt.Sprintf("unrecognized keyword argument %q", k)
		}
	}

	return refs, vals, true, true, ""
}

// isTypeLegalPrefix reports whether every supplied positional arg is
// type-legal for its corresponding slot, even if the signature is not
// fully satisfied.
func isTypeLegalPrefix(sig FnSignature, positional []value.Value) bool {
	if len(positional) > len(sig.Args) {
		return false
	}
	for i, v := range positional {
		if legal, _ := sig.Args[i].accepts(v.Kind()); !legal {
			return false
		}
	}
	return true
}

// specificityOf sums the matched-type specificity across every
// positional/keyword slot: lower is more
// specific, ties broken by declaration order by the caller (callers
// iterate signatures in order and only replace the best on strictly
// lower specificity).
func specificityOf(sig FnSignature, refs []ArgRef) int {
	total := 0
	for i, slot := range sig.Args {
		if refs[i].Kind == ArgDefault {
			continue
		}
		best := 2
		for _, t := range slot.Types {
			if s := t.specificity(); s < best {
				best = s
			}
		}
		total += best
	}
	return total
}

func typesList(ts []ArgType) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, "|")
}

func enumerateFailure(def *FnDef, failures []candidateFailure) error {
	var b strings.Builder
	fmt.Fprintf(&b, "no overload of %q matched the given arguments:", def.Name)
	for _, f := range failures {
		fmt.Fprintf(&b, "\n  overload %d: %s", f.index, f.reason)
	}
	return errstack.New(errstack.ErrType, b.String())
}
