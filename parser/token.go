// Package parser implements the hand-written lexer and recursive-descent
// parser for the geoscript expression language: newline-separated
// statements, closure literals, pipelines, ranges, destructuring
// patterns, and a precedence-ranked infix operator set.
package parser

import "github.com/katalvlaran/geoscript/ast"

// Kind tags one lexical token.
type Kind int

const (
	TEOF Kind = iota
	TNewline

	TInt
	TFloat
	TString
	TIdent

	TTrue
	TFalse
	TNil
	TIf
	TThen
	TElse
	TReturn
	TBreak

	TLParen
	TRParen
	TLBracket
	TRBracket
	TLBrace
	TRBrace
	TComma
	TColon
	TDot
	TPipeBar // the bare '|' token, disambiguated by the parser
	TAssign

	TPlus
	TMinus
	TStar
	TSlash
	TPercent
	TAmp
	TAmpAmp
	TPipePipe
	TEq
	TNe
	TLt
	TLe
	TGt
	TGe
	TDotDot
	TDotDotEq
	TPipeGt   // |>
	TPipePipeGt // ||>
	TBang
	TEllipsis //... (splat)
)

// Token is one lexed unit: its kind, raw text, and parsed literal value
// where applicable, plus the byte offset it started at (for errstack
// source-location frames: parse errors carry the byte offset they
// occurred at).
type Token struct {
	Kind   Kind
	Text   string
	IntVal int64
	FltVal float32
	Pos    ast.Pos
}

var kindNames = map[Kind]string{
	TEOF: "EOF", TNewline: "newline",
	TInt: "int", TFloat: "float", TString: "string", TIdent: "identifier",
	TTrue: "true", TFalse: "false", TNil: "nil", TIf: "if", TThen: "then",
	TElse: "else", TReturn: "return", TBreak: "break",
	TLParen: "'('", TRParen: "')'", TLBracket: "'['", TRBracket: "']'",
	TLBrace: "'{'", TRBrace: "'}'", TComma: "','", TColon: "':'", TDot: "'.'",
	TPipeBar: "'|'", TAssign: "'='",
	TPlus: "'+'", TMinus: "'-'", TStar: "'*'", TSlash: "'/'", TPercent: "'%'",
	TAmp: "'&'", TAmpAmp: "'&&'", TPipePipe: "'||'", TEq: "'=='", TNe: "'!='",
	TLt: "'<'", TLe: "'<='", TGt: "'>'", TGe: "'>='", TDotDot: "'..'",
	TDotDotEq: "'..='", TPipeGt: "'|>'", TPipePipeGt: "'||>'", TBang: "'!'",
	TEllipsis: "'...'",
}

// String renders k for diagnostics (parse-error messages).
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown token"
}
