package builtins

import (
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/seq"
	"github.com/katalvlaran/geoscript/value"
)

// unaryCB turns a Callable plus a Context into the plain
// value.Value -> value.Value function the seq package's lazy
// combinators expect, so Map/Filter/... never need to know anything
// about Callable dispatch.
func unaryCB(ctx *Context, cb *value.Callable) func(value.Value) (value.Value, error) {
	return func(v value.Value) (value.Value, error) {
		return ctx.Invoke(cb, []value.Value{v}, nil)
	}
}

func predCB(ctx *Context, cb *value.Callable) func(value.Value) (bool, error) {
	return func(v value.Value) (bool, error) {
		out, err := ctx.Invoke(cb, []value.Value{v}, nil)
		if err != nil {
			return false, err
		}
		return out.Truthy(), nil
	}
}

func binCB(ctx *Context, cb *value.Callable) func(a, b value.Value) (value.Value, error) {
	return func(a, b value.Value) (value.Value, error) {
		return ctx.Invoke(cb, []value.Value{a, b}, nil)
	}
}

// registerSeqOps wires the lazy-sequence combinator family onto the
// already-implemented seq package.
func registerSeqOps(r *builtin.Registry, ctx *Context) {
	r.Define(builtin.FnDef{
		Name: "map", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("map", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("map", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.Map(s, unaryCB(ctx, cb))), nil
	})

	r.Define(builtin.FnDef{
		Name: "filter", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("filter", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("filter", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.Filter(s, predCB(ctx, cb))), nil
	})

	r.Define(builtin.FnDef{
		Name: "take", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("n", builtin.TInt))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("take", args[0])
		if err != nil {
			return value.Value{}, err
		}
		n, err := asInt("take", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.Take(s, int(n))), nil
	})

	r.Define(builtin.FnDef{
		Name: "skip", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("n", builtin.TInt))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("skip", args[0])
		if err != nil {
			return value.Value{}, err
		}
		n, err := asInt("skip", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.Skip(s, int(n))), nil
	})

	r.Define(builtin.FnDef{
		Name: "take_while", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("take_while", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("take_while", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.TakeWhile(s, predCB(ctx, cb))), nil
	})

	r.Define(builtin.FnDef{
		Name: "skip_while", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("skip_while", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("skip_while", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.SkipWhile(s, predCB(ctx, cb))), nil
	})

	r.Define(builtin.FnDef{
		Name: "chain", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TSequence), req("b", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asSequence("chain", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asSequence("chain", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.Chain(a, b)), nil
	})

	r.Define(builtin.FnDef{
		Name: "scan", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("init", builtin.TAny), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("scan", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("scan", args[2])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.Scan(s, args[1], binCB(ctx, cb))), nil
	})

	r.Define(builtin.FnDef{
		Name: "flatten", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("flatten", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.Flatten(s)), nil
	})

	r.Define(builtin.FnDef{
		Name: "first", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("first", args[0])
		if err != nil {
			return value.Value{}, err
		}
		v, ok, err := seq.First(s)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.NilValue, nil
		}
		return v, nil
	})

	r.Define(builtin.FnDef{
		Name: "last", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("last", args[0])
		if err != nil {
			return value.Value{}, err
		}
		v, ok, err := seq.Last(s)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.NilValue, nil
		}
		return v, nil
	})

	r.Define(builtin.FnDef{
		Name: "append", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("v", builtin.TAny))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("append", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.Append(s, args[1])), nil
	})

	r.Define(builtin.FnDef{
		Name: "reverse", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("reverse", args[0])
		if err != nil {
			return value.Value{}, err
		}
		sl, err := seq.Reverse(s)
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(sl), nil
	})

	r.Define(builtin.FnDef{
		Name: "collect", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("collect", args[0])
		if err != nil {
			return value.Value{}, err
		}
		sl, err := seq.Collect(s)
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(sl), nil
	})

	r.Define(builtin.FnDef{
		Name: "for_each", Module: "seq",
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("for_each", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("for_each", args[1])
		if err != nil {
			return value.Value{}, err
		}
		broke := false
		err = seq.ForEach(s, func(v value.Value) error {
			_, ierr := ctx.Invoke(cb, []value.Value{v}, nil)
			if _, ok := ierr.(BreakSignal); ok {
				broke = true
				return ierr
			}
			return ierr
		})
		if broke {
			return value.NilValue, nil
		}
		if err != nil {
			return value.Value{}, err
		}
		return value.NilValue, nil
	})

	r.Define(builtin.FnDef{
		Name: "any", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("any", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("any", args[1])
		if err != nil {
			return value.Value{}, err
		}
		ok, err := seq.Any(s, predCB(ctx, cb))
		if err != nil {
			return value.Value{}, err
		}
		return value.BoolValue(ok), nil
	})

	r.Define(builtin.FnDef{
		Name: "all", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("all", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("all", args[1])
		if err != nil {
			return value.Value{}, err
		}
		ok, err := seq.All(s, predCB(ctx, cb))
		if err != nil {
			return value.Value{}, err
		}
		return value.BoolValue(ok), nil
	})

	r.Define(builtin.FnDef{
		Name: "fold", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("init", builtin.TAny), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("fold", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("fold", args[2])
		if err != nil {
			return value.Value{}, err
		}
		return seq.Fold(s, args[1], binCB(ctx, cb))
	})

	r.Define(builtin.FnDef{
		Name: "reduce", Module: "seq", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("reduce", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("reduce", args[1])
		if err != nil {
			return value.Value{}, err
		}
		v, ok, err := seq.Reduce(s, binCB(ctx, cb))
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.Value{}, errstack.New(errstack.ErrRuntime, "reduce: sequence is empty")
		}
		return v, nil
	})

	r.Define(builtin.FnDef{
		Name: "fold_while", Module: "seq", Pure: true,
		Doc:        "folds left, stopping as soon as fn returns false as its second result",
		Signatures: []builtin.FnSignature{sig(req("s", builtin.TSequence), req("init", builtin.TAny), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("fold_while", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("fold_while", args[2])
		if err != nil {
			return value.Value{}, err
		}
		return seq.FoldWhile(s, args[1], func(acc, v value.Value) (value.Value, bool, error) {
			out, err := ctx.Invoke(cb, []value.Value{acc, v}, nil)
			if err != nil {
				return value.Value{}, false, err
			}
			m, ok := out.AsMap()
			if !ok {
				return out, true, nil
			}
			nextVal, _ := m.Get("value")
			contVal, _ := m.Get("continue")
			return nextVal, contVal.Truthy(), nil
		})
	})
}
