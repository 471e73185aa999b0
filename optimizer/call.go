package optimizer

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/scope"
	"github.com/katalvlaran/geoscript/value"
)

// optimizeCall optimizes a Call's function expression and arguments
// bottom-up, then attempts, in order: eager constant folding of a pure
// builtin call whose target and every argument are literal; inlining a
// pure, zero-free-variable closure call whose target and every argument
// are literal; and, failing both, single-overload dispatch
// pre-resolution so eval's invoke_callable can
// skip get_args at call time.
func (o *optimization) optimizeCall(n *ast.Call, tr *scope.Tracker) ast.Expr {
	n.Fn = o.optimizeExpr(n.Fn, tr)
	allLiteralArgs := true
	for i, a := range n.Args {
		n.Args[i].Value = o.optimizeExpr(a.Value, tr)
		if !isLiteral(n.Args[i].Value) {
			allLiteralArgs = false
		}
	}

	fnVal, fnIsLiteral := literalOf(n.Fn)
	if !fnIsLiteral {
		return n
	}
	callable, ok := fnVal.AsCallable()
	if !ok {
		return n
	}

	if allLiteralArgs {
		if hasKeywordArgs(n.Args) {
			return n
		}
		args := make([]value.Value, len(n.Args))
		for i, a := range n.Args {
			args[i], _ = literalOf(a.Value)
		}

		switch callable.Kind {
		case value.CallBuiltin:
			if callable.Builtin != nil && callable.Builtin.Pure {
				if out, ok := o.callBuiltinPure(callable.Builtin.Name, args); ok {
					return valueToExpr(out, n.Pos)
				}
			}
		case value.CallClosure:
			if callable.Closure != nil && callable.Closure.Pure {
				if out, ok := o.foldClosureCall(callable.Closure, args); ok {
					return valueToExpr(out, n.Pos)
				}
			}
		}
	}

	return o.preResolveDispatch(n, callable)
}

func hasKeywordArgs(args []ast.CallArg) bool {
	for _, a := range args {
		if a.HasName {
			return true
		}
	}
	return false
}

func (o *optimization) callBuiltinPure(name string, args []value.Value) (value.Value, bool) {
	out, err := o.registry.Resolve(name, args, nil)
	if err != nil {
		return value.Value{}, false
	}
	return out, true
}

// foldClosureCall inlines a call to a closure already proven pure and
// free of (unresolved) free variables -- in practice, one the lifting
// pass already turned into a self-contained literal. Only the simple
// case of plain-Ident parameters, all supplied positionally with no
// defaults needed, is attempted; anything else is left for eval.
func (o *optimization) foldClosureCall(cl *value.Closure, args []value.Value) (value.Value, bool) {
	if len(args) != len(cl.Params) {
		return value.Value{}, false
	}
	child := scope.NewTracker(nil)
	for i, p := range cl.Params {
		ip, ok := p.Pattern.(*ast.IdentPattern)
		if !ok {
			return value.Value{}, false
		}
		child.SetConst(ip.Name, args[i])
	}

	bodyCopy := cloneStmts(cl.Body)
	optimized := o.optimizeStmts(bodyCopy, child)
	return singleResultValue(optimized)
}

// singleResultValue reports the value a folded closure body reduces to,
// matching Block/closure-result semantics (the trapped Return value, or
// the last statement's expression value): it succeeds only if every
// statement folded to a literal and no Break escaped.
func singleResultValue(stmts []ast.Stmt) (value.Value, bool) {
	var last value.Value
	haveLast := false
	for _, st := range stmts {
		switch s := st.(type) {
		case *ast.ExprStmt:
			v, ok := literalOf(s.Value)
			if !ok {
				return value.Value{}, false
			}
			last, haveLast = v, true
		case *ast.ReturnStmt:
			if s.Value == nil {
				return value.NilValue, true
			}
			v, ok := literalOf(s.Value)
			if !ok {
				return value.Value{}, false
			}
			return v, true
		case *ast.AssignStmt:
			if !isLiteral(s.Value) {
				return value.Value{}, false
			}
			haveLast = false
		default:
			return value.Value{}, false
		}
	}
	if haveLast {
		return last, true
	}
	return value.NilValue, true
}

// preResolveDispatch implements the type-independent fast path of pass
// 3: a builtin with exactly one signature resolves its ArgRefs from arg
// count alone (left-to-right positional consumption is deterministic
// once there is only one candidate overload), with no need to infer
// argument types. Builtins with
// multiple overloads are left to eval's runtime get_args, which already
// performs this resolution cheaply; see DESIGN.md for why full
// type-inference-driven pre-resolution across overloads was scoped out.
func (o *optimization) preResolveDispatch(n *ast.Call, callable *value.Callable) ast.Expr {
	if callable.Kind != value.CallBuiltin || callable.Builtin == nil || callable.Builtin.Resolved != nil {
		return n
	}
	if hasKeywordArgs(n.Args) {
		return n
	}
	def, _, ok := o.registry.Lookup(callable.Builtin.Name)
	if !ok || len(def.Signatures) != 1 {
		return n
	}
	sig := def.Signatures[0]
	if len(n.Args) > len(sig.Args) {
		return n
	}
	refs := make([]value.ArgRef, len(sig.Args))
	for i, slot := range sig.Args {
		switch {
		case i < len(n.Args):
			refs[i] = value.ArgRef{Kind: builtin.ArgPositional, Index: i}
		case !slot.Required:
			def := slot.Default
			refs[i] = value.ArgRef{Kind: builtin.ArgDefault, Default: def}
		default:
			return n
		}
	}
	resolved := &value.Builtin{
		Name: callable.Builtin.Name,
		Fn:   callable.Builtin.Fn,
		Pure: callable.Builtin.Pure,
		Resolved: &value.ResolvedSignature{ArgRefs: refs},
	}
	n.Fn = valueToExpr(value.CallableValue(&value.Callable{Kind: value.CallBuiltin, Builtin: resolved}), n.Fn.Position())
	return n
}

// cloneStmts deep-clones stmts so foldClosureCall can optimize a copy
// of a shared closure body against one call's literal arguments without
// mutating the nodes other call sites (or the closure's own runtime
// value.Closure.Body, which eval still reads at call time) share.
// optimizeExpr/optimizeStmt mutate nodes in place as they fold, so a
// shallow copy of only the top-level Stmt wrappers would leak those
// mutations back into the shared tree through its aliased children.
func cloneStmts(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, st := range stmts {
		out[i] = cloneStmt(st)
	}
	return out
}

func cloneStmt(st ast.Stmt) ast.Stmt {
	switch s := st.(type) {
	case *ast.ExprStmt:
		return &ast.ExprStmt{Pos: s.Pos, Value: cloneExpr(s.Value)}
	case *ast.AssignStmt:
		return &ast.AssignStmt{
			Pos: s.Pos, Pattern: s.Pattern, TypeHint: s.TypeHint,
			HasTypeHint: s.HasTypeHint, Value: cloneExpr(s.Value),
		}
	case *ast.ReturnStmt:
		var v ast.Expr
		if s.Value != nil {
			v = cloneExpr(s.Value)
		}
		return &ast.ReturnStmt{Pos: s.Pos, Value: v}
	case *ast.BreakStmt:
		var v ast.Expr
		if s.Value != nil {
			v = cloneExpr(s.Value)
		}
		return &ast.BreakStmt{Pos: s.Pos, Value: v}
	}
	return st
}

// cloneExpr deep-clones an expression tree. Patterns (AssignStmt.Pattern,
// Param.Pattern) are not cloned: the optimizer never mutates a Pattern
// node, only the Expr tree around it, so sharing them is safe.
func cloneExpr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.BoolLit, *ast.NilLit, *ast.ValueLit, *ast.Ident:
		// Childless/already-literal nodes are immutable once built.
		return e
	case *ast.ArrayLit:
		elems := make([]ast.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = cloneExpr(el)
		}
		return &ast.ArrayLit{Pos: n.Pos, Elems: elems}
	case *ast.MapLit:
		entries := make([]ast.MapEntry, len(n.Entries))
		for i, ent := range n.Entries {
			var k ast.Expr
			if ent.Key != nil {
				k = cloneExpr(ent.Key)
			}
			entries[i] = ast.MapEntry{Key: k, Value: cloneExpr(ent.Value), Splat: ent.Splat}
		}
		return &ast.MapLit{Pos: n.Pos, Entries: entries}
	case *ast.Call:
		args := make([]ast.CallArg, len(n.Args))
		for i, a := range n.Args {
			args[i] = ast.CallArg{HasName: a.HasName, Name: a.Name, Value: cloneExpr(a.Value)}
		}
		return &ast.Call{Pos: n.Pos, Fn: cloneExpr(n.Fn), Args: args}
	case *ast.ClosureLit:
		params := make([]ast.Param, len(n.Params))
		for i, p := range n.Params {
			var def ast.Expr
			if p.Default != nil {
				def = cloneExpr(p.Default)
			}
			params[i] = ast.Param{Pattern: p.Pattern, TypeHint: p.TypeHint, HasTypeHint: p.HasTypeHint, Default: def, HasDefault: p.HasDefault}
		}
		return &ast.ClosureLit{Pos: n.Pos, Params: params, Body: cloneStmts(n.Body)}
	case *ast.FieldAccess:
		return &ast.FieldAccess{Pos: n.Pos, Target: cloneExpr(n.Target), Field: n.Field}
	case *ast.Index:
		return &ast.Index{Pos: n.Pos, Target: cloneExpr(n.Target), Index: cloneExpr(n.Index)}
	case *ast.RangeExpr:
		return &ast.RangeExpr{Pos: n.Pos, Lo: cloneExpr(n.Lo), Hi: cloneExpr(n.Hi), Inclusive: n.Inclusive}
	case *ast.BinOp:
		return &ast.BinOp{Pos: n.Pos, Op: n.Op, Lhs: cloneExpr(n.Lhs), Rhs: cloneExpr(n.Rhs)}
	case *ast.UnaryOp:
		return &ast.UnaryOp{Pos: n.Pos, Op: n.Op, Operand: cloneExpr(n.Operand)}
	case *ast.If:
		var els ast.Expr
		if n.Else != nil {
			els = cloneExpr(n.Else)
		}
		return &ast.If{Pos: n.Pos, Cond: cloneExpr(n.Cond), Then: cloneExpr(n.Then), Else: els}
	case *ast.Block:
		return &ast.Block{Pos: n.Pos, Stmts: cloneStmts(n.Stmts)}
	}
	return e
}
