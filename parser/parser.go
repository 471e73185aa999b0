package parser

import (
	"github.com/katalvlaran/geoscript/ast"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/sym"
)

// Parser holds a fully-lexed token stream and a cursor into it. Tokens
// are materialized up front by Lex so the parser can save/restore a
// plain int cursor when a grammar rule needs to backtrack (trying a
// statement as an assignment pattern first). '|' is told apart by
// grammar position: in operand position it opens a closure literal, in
// infix position it is the pipeline/bitwise-or operator.
type Parser struct {
	toks  []Token
	pos   int
	table *sym.Table
}

// New returns a Parser over src's tokens, interning identifiers into
// table.
func New(toks []Token, table *sym.Table) *Parser {
	return &Parser{toks: toks, table: table}
}

// ParseProgram lexes and parses src into a Program (the embedding entry
// point, minus the EvalCtx plumbing package eval adds on top).
func ParseProgram(src string, table *sym.Table) (*ast.Program, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := New(toks, table)
	return p.parseProgram()
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) at(k Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k Kind, what string) (Token, error) {
	if p.cur().Kind != k {
		return Token{}, p.errf("expected %s", what)
	}
	return p.advance(), nil
}

func (p *Parser) errf(format string, args...interface{}) error {
	return errstack.Newf(errstack.ErrParse, format+" at offset %d", append(args, int(p.cur().Pos))...)
}

// skipNewlines consumes zero or more TNewline tokens, used between
// statements and wherever stray newlines are tolerated (inside map
// literals, which the lexer does not track depth for).
func (p *Parser) skipNewlines() {
	for p.at(TNewline) {
		p.advance()
	}
}

func (p *Parser) intern(name string) sym.Sym {
	return p.table.Intern(name)
}

// --- Program / statements ---

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.at(TEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
		if !p.at(TEOF) && !p.at(TNewline) && !p.at(TRBrace) {
			return nil, p.errf("expected newline between statements, found %v", p.cur().Kind)
		}
		p.skipNewlines()
	}
	return prog, nil
}

// parseBlockStmts parses statements until a closing '}' (the caller has
// already consumed the opening brace), for Block expressions and
// closure bodies.
func (p *Parser) parseBlockStmts() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.at(TRBrace) && !p.at(TEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !p.at(TRBrace) && !p.at(TNewline) {
			return nil, p.errf("expected newline or '}' in block, found %v", p.cur().Kind)
		}
		p.skipNewlines()
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	start := p.cur().Pos

	switch p.cur().Kind {
	case TReturn:
		p.advance()
		if p.at(TNewline) || p.at(TEOF) || p.at(TRBrace) {
			return &ast.ReturnStmt{Pos: start}, nil
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Pos: start, Value: v}, nil
	case TBreak:
		p.advance()
		if p.at(TNewline) || p.at(TEOF) || p.at(TRBrace) {
			return &ast.BreakStmt{Pos: start}, nil
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Pos: start, Value: v}, nil
	}

	// Try a destructuring/plain-assignment pattern first: if what
	// follows a successfully-parsed pattern is an
	// optional type hint then '=', commit to an AssignStmt; otherwise
	// rewind and fall through to a plain expression statement.
	save := p.pos
	if pat, ok := p.tryParsePattern(); ok {
		typeHint := ""
		hasHint := false
		if p.at(TColon) {
			p.advance()
			tok, err := p.expect(TIdent, "type hint identifier")
			if err != nil {
				return nil, err
			}
			typeHint = tok.Text
			hasHint = true
		}
		if p.at(TAssign) {
			p.advance()
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &ast.AssignStmt{Pos: start, Pattern: pat, TypeHint: typeHint, HasTypeHint: hasHint, Value: val}, nil
		}
	}
	p.pos = save

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Pos: start, Value: expr}, nil
}

// --- Patterns ---

// tryParsePattern attempts to parse a destructuring pattern at the
// current position, returning ok=false (with the cursor left wherever
// the attempt failed) if the tokens do not form one.
func (p *Parser) tryParsePattern() (ast.Pattern, bool) {
	switch p.cur().Kind {
	case TIdent:
		tok := p.advance()
		return &ast.IdentPattern{Pos: tok.Pos, Name: p.intern(tok.Text)}, true
	case TLBrace:
		return p.tryParseMapPattern()
	case TLBracket:
		return p.tryParseArrayPattern()
	default:
		return nil, false
	}
}

func (p *Parser) tryParseMapPattern() (ast.Pattern, bool) {
	start := p.advance().Pos // '{'
	p.skipNewlines()
	mp := &ast.MapPattern{Pos: start}
	for !p.at(TRBrace) {
		var key string
		switch p.cur().Kind {
		case TIdent:
			key = p.advance().Text
		case TString:
			key = p.advance().Text
		default:
			return nil, false
		}
		var sub ast.Pattern
		if p.at(TColon) {
			p.advance()
			s, ok := p.tryParsePattern()
			if !ok {
				return nil, false
			}
			sub = s
		} else {
			sub = &ast.IdentPattern{Pos: start, Name: p.intern(key)}
		}
		mp.Entries = append(mp.Entries, ast.MapPatternEntry{Key: key, Pattern: sub})
		p.skipNewlines()
		if p.at(TComma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	if !p.at(TRBrace) {
		return nil, false
	}
	p.advance()
	return mp, true
}

func (p *Parser) tryParseArrayPattern() (ast.Pattern, bool) {
	start := p.advance().Pos // '['
	ap := &ast.ArrayPattern{Pos: start}
	for !p.at(TRBracket) {
		sub, ok := p.tryParsePattern()
		if !ok {
			return nil, false
		}
		ap.Elems = append(ap.Elems, sub)
		if p.at(TComma) {
			p.advance()
			continue
		}
		break
	}
	if !p.at(TRBracket) {
		return nil, false
	}
	p.advance()
	return ap, true
}

// --- Expressions: precedence climbing ---

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parsePipeMap()
}

func (p *Parser) parsePipeMap() (ast.Expr, error) {
	lhs, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	for p.at(TPipePipeGt) {
		pos := p.advance().Pos
		rhs, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: "||>", Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parsePipeline() (ast.Expr, error) {
	lhs, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.at(TPipeGt) {
		pos := p.advance().Pos
		rhs, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: "|>", Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(TPipePipe) {
		pos := p.advance().Pos
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: "||", Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	lhs, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(TAmpAmp) {
		pos := p.advance().Pos
		rhs, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: "&&", Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(TEq) || p.at(TNe) {
		op := "=="
		if p.cur().Kind == TNe {
			op = "!="
		}
		pos := p.advance().Pos
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	lhs, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	for p.at(TLt) || p.at(TLe) || p.at(TGt) || p.at(TGe) {
		op := map[Kind]string{TLt: "<", TLe: "<=", TGt: ">", TGe: ">="}[p.cur().Kind]
		pos := p.advance().Pos
		rhs, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseRange() (ast.Expr, error) {
	lhs, err := p.parseBitwise()
	if err != nil {
		return nil, err
	}
	if p.at(TDotDot) || p.at(TDotDotEq) {
		inclusive := p.cur().Kind == TDotDotEq
		pos := p.advance().Pos
		rhs, err := p.parseBitwise()
		if err != nil {
			return nil, err
		}
		return &ast.RangeExpr{Pos: pos, Lo: lhs, Hi: rhs, Inclusive: inclusive}, nil
	}
	return lhs, nil
}

func (p *Parser) parseBitwise() (ast.Expr, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(TPipeBar) || p.at(TAmp) {
		op := "|"
		if p.cur().Kind == TAmp {
			op = "&"
		}
		pos := p.advance().Pos
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(TPlus) || p.at(TMinus) {
		op := "+"
		if p.cur().Kind == TMinus {
			op = "-"
		}
		pos := p.advance().Pos
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(TStar) || p.at(TSlash) || p.at(TPercent) {
		op := map[Kind]string{TStar: "*", TSlash: "/", TPercent: "%"}[p.cur().Kind]
		pos := p.advance().Pos
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Pos: pos, Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.at(TMinus) || p.at(TPlus) || p.at(TBang) {
		op := map[Kind]string{TMinus: "-", TPlus: "+", TBang: "!"}[p.cur().Kind]
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Pos: pos, Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case TDot:
			pos := p.advance().Pos
			tok, err := p.expect(TIdent, "field name")
			if err != nil {
				return nil, err
			}
			e = &ast.FieldAccess{Pos: pos, Target: e, Field: tok.Text}
		case TLBracket:
			pos := p.advance().Pos
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TRBracket, "']'"); err != nil {
				return nil, err
			}
			e = &ast.Index{Pos: pos, Target: e, Index: idx}
		case TLParen:
			call, err := p.parseCallArgs(e)
			if err != nil {
				return nil, err
			}
			e = call
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseCallArgs(fn ast.Expr) (ast.Expr, error) {
	pos := p.advance().Pos // '('
	call := &ast.Call{Pos: pos, Fn: fn}
	for !p.at(TRParen) {
		if p.at(TIdent) && p.toks[p.pos+1].Kind == TAssign {
			nameTok := p.advance()
			p.advance() // '='
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, ast.CallArg{HasName: true, Name: p.intern(nameTok.Text), Value: val})
		} else {
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, ast.CallArg{Value: val})
		}
		if p.at(TComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TRParen, "')'"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case TInt:
		p.advance()
		return &ast.IntLit{Pos: tok.Pos, Value: tok.IntVal}, nil
	case TFloat:
		p.advance()
		return &ast.FloatLit{Pos: tok.Pos, Value: tok.FltVal}, nil
	case TString:
		p.advance()
		return &ast.StringLit{Pos: tok.Pos, Value: tok.Text}, nil
	case TTrue:
		p.advance()
		return &ast.BoolLit{Pos: tok.Pos, Value: true}, nil
	case TFalse:
		p.advance()
		return &ast.BoolLit{Pos: tok.Pos, Value: false}, nil
	case TNil:
		p.advance()
		return &ast.NilLit{Pos: tok.Pos}, nil
	case TIdent:
		p.advance()
		return &ast.Ident{Pos: tok.Pos, Name: p.intern(tok.Text)}, nil
	case TLParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case TLBracket:
		return p.parseArrayLit()
	case TLBrace:
		return p.parseBraceExpr()
	case TIf:
		return p.parseIf()
	case TPipeBar:
		return p.parseClosureLit()
	}
	return nil, p.errf("unexpected token %v in expression", tok.Kind)
}

func (p *Parser) parseArrayLit() (ast.Expr, error) {
	pos := p.advance().Pos // '['
	lit := &ast.ArrayLit{Pos: pos}
	for !p.at(TRBracket) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elems = append(lit.Elems, e)
		if p.at(TComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TRBracket, "']'"); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseBraceExpr disambiguates a Block from a MapLit:
// both start with '{'. An empty '{}' and anything whose first entry
// looks like `key: value` or a splat `...expr` is a MapLit; everything
// else is a statement Block.
func (p *Parser) parseBraceExpr() (ast.Expr, error) {
	pos := p.advance().Pos // '{'
	p.skipNewlines()

	looksLikeMap := p.at(TRBrace) || p.at(TEllipsis) ||
		((p.at(TIdent) || p.at(TString)) && p.toks[p.pos+1].Kind == TColon)

	if looksLikeMap {
		return p.parseMapLitBody(pos)
	}

	stmts, err := p.parseBlockStmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TRBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.Block{Pos: pos, Stmts: stmts}, nil
}

func (p *Parser) parseMapLitBody(pos ast.Pos) (ast.Expr, error) {
	lit := &ast.MapLit{Pos: pos}
	for !p.at(TRBrace) {
		if p.at(TEllipsis) {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Entries = append(lit.Entries, ast.MapEntry{Splat: true, Value: e})
		} else {
			var keyExpr ast.Expr
			switch p.cur().Kind {
			case TIdent:
				kt := p.advance()
				keyExpr = &ast.StringLit{Pos: kt.Pos, Value: kt.Text}
			case TString:
				kt := p.advance()
				keyExpr = &ast.StringLit{Pos: kt.Pos, Value: kt.Text}
			default:
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				keyExpr = e
			}
			if _, err := p.expect(TColon, "':'"); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Entries = append(lit.Entries, ast.MapEntry{Key: keyExpr, Value: val})
		}
		p.skipNewlines()
		if p.at(TComma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.skipNewlines()
	if _, err := p.expect(TRBrace, "'}'"); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseIf() (ast.Expr, error) {
	pos := p.advance().Pos // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TThen, "'then'"); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n := &ast.If{Pos: pos, Cond: cond, Then: thenExpr}
	if p.at(TElse) {
		p.advance()
		if p.at(TIf) {
			elseExpr, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			n.Else = elseExpr
		} else {
			elseExpr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			n.Else = elseExpr
		}
	}
	return n, nil
}

// parseClosureLit parses `|params| body`: params
// are destructuring patterns with optional type hint and default; body
// is either a single expression or a `{... }` block.
func (p *Parser) parseClosureLit() (ast.Expr, error) {
	pos := p.advance().Pos // opening '|'
	lit := &ast.ClosureLit{Pos: pos}

	for !p.at(TPipeBar) {
		pat, ok := p.tryParsePattern()
		if !ok {
			return nil, p.errf("expected closure parameter pattern")
		}
		param := ast.Param{Pattern: pat}
		if p.at(TColon) {
			p.advance()
			tok, err := p.expect(TIdent, "parameter type hint")
			if err != nil {
				return nil, err
			}
			param.TypeHint = tok.Text
			param.HasTypeHint = true
		}
		if p.at(TAssign) {
			p.advance()
			def, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			param.Default = def
			param.HasDefault = true
		}
		lit.Params = append(lit.Params, param)
		if p.at(TComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TPipeBar, "closing '|'"); err != nil {
		return nil, err
	}

	if p.at(TLBrace) {
		p.advance()
		stmts, err := p.parseBlockStmts()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRBrace, "'}'"); err != nil {
			return nil, err
		}
		lit.Body = stmts
		return lit, nil
	}

	bodyExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	lit.Body = []ast.Stmt{&ast.ExprStmt{Pos: bodyExpr.Position(), Value: bodyExpr}}
	return lit, nil
}
