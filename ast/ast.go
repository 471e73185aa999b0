package ast

import "github.com/katalvlaran/geoscript/sym"

// Pos is a byte offset into the source text a node was parsed from, used
// to annotate errstack frames with a source location.
type Pos int

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// Program is a parsed source file: a sequence of top-level statements.
type Program struct {
	Stmts []Stmt
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is implemented by every destructuring-pattern node: an
// identifier, a map pattern, or an array pattern.
type Pattern interface {
	Node
	patternNode()
}

// --- Literals ---

type IntLit struct {
	Pos   Pos
	Value int64
}

type FloatLit struct {
	Pos   Pos
	Value float32
}

type StringLit struct {
	Pos   Pos
	Value string
}

type BoolLit struct {
	Pos   Pos
	Value bool
}

type NilLit struct {
	Pos Pos
}

type ArrayLit struct {
	Pos   Pos
	Elems []Expr
}

// MapEntry is one `k: v` pair of a MapLit, or a `...expr` splat (Splat
// true, Key nil, Value the spread expression).
type MapEntry struct {
	Key   Expr
	Value Expr
	Splat bool
}

type MapLit struct {
	Pos     Pos
	Entries []MapEntry
}

type Ident struct {
	Pos  Pos
	Name sym.Sym
}

// --- Compound expressions ---

// CallArg is one argument of a Call: positional (HasName false) or
// keyword (HasName true, Name set).
type CallArg struct {
	HasName bool
	Name    sym.Sym
	Value   Expr
}

type Call struct {
	Pos  Pos
	Fn   Expr
	Args []CallArg
}

// Param is one closure-literal parameter: a destructuring pattern, an
// optional type hint, and an optional default expression.
type Param struct {
	Pattern     Pattern
	TypeHint    string
	HasTypeHint bool
	Default     Expr
	HasDefault  bool
}

type ClosureLit struct {
	Pos    Pos
	Params []Param
	Body   []Stmt
}

type FieldAccess struct {
	Pos    Pos
	Target Expr
	Field  string
}

type Index struct {
	Pos    Pos
	Target Expr
	Index  Expr
}

type RangeExpr struct {
	Pos       Pos
	Lo, Hi    Expr
	Inclusive bool
}

type BinOp struct {
	Pos      Pos
	Op       string
	Lhs, Rhs Expr
}

type UnaryOp struct {
	Pos     Pos
	Op      string
	Operand Expr
}

// If is `if cond then thenExpr else elseExpr`; Else may itself be an If
// (for `else if`) or nil if absent.
type If struct {
	Pos  Pos
	Cond Expr
	Then Expr
	Else Expr
}

// Block is `{ stmts... }`; its value is the last statement's expression
// value, or Nil if the block is empty or its last statement is not a
// bare expression.
type Block struct {
	Pos   Pos
	Stmts []Stmt
}

// ValueLit holds an already-known value produced by the optimizer's
// constant-folding pass: a fully evaluated
// sub-tree is replaced with one of these instead of re-walking literal
// AST nodes (IntLit, FloatLit,...) for every foldable kind, since the
// folded value may be a Vec2/Vec3/Callable/Map that has no dedicated
// literal node of its own.
//
// Payload carries an opaque value (concretely a value.Value) rather than
// a typed field: package value already imports this package for
// Closure's captured body/params, so ast importing value back would
// cycle. Package optimizer and package eval, which both import value,
// are the only callers expected to populate or unwrap Payload.
type ValueLit struct {
	Pos     Pos
	Payload interface{}
}

func (n *ValueLit) exprNode()     {}
func (n *ValueLit) Position() Pos { return n.Pos }

func (n *IntLit) exprNode()      {}
func (n *FloatLit) exprNode()    {}
func (n *StringLit) exprNode()   {}
func (n *BoolLit) exprNode()     {}
func (n *NilLit) exprNode()      {}
func (n *ArrayLit) exprNode()    {}
func (n *MapLit) exprNode()      {}
func (n *Ident) exprNode()       {}
func (n *Call) exprNode()        {}
func (n *ClosureLit) exprNode()  {}
func (n *FieldAccess) exprNode() {}
func (n *Index) exprNode()       {}
func (n *RangeExpr) exprNode()   {}
func (n *BinOp) exprNode()       {}
func (n *UnaryOp) exprNode()     {}
func (n *If) exprNode()          {}
func (n *Block) exprNode()       {}

func (n *IntLit) Position() Pos      { return n.Pos }
func (n *FloatLit) Position() Pos    { return n.Pos }
func (n *StringLit) Position() Pos   { return n.Pos }
func (n *BoolLit) Position() Pos     { return n.Pos }
func (n *NilLit) Position() Pos      { return n.Pos }
func (n *ArrayLit) Position() Pos    { return n.Pos }
func (n *MapLit) Position() Pos      { return n.Pos }
func (n *Ident) Position() Pos       { return n.Pos }
func (n *Call) Position() Pos        { return n.Pos }
func (n *ClosureLit) Position() Pos  { return n.Pos }
func (n *FieldAccess) Position() Pos { return n.Pos }
func (n *Index) Position() Pos       { return n.Pos }
func (n *RangeExpr) Position() Pos   { return n.Pos }
func (n *BinOp) Position() Pos       { return n.Pos }
func (n *UnaryOp) Position() Pos     { return n.Pos }
func (n *If) Position() Pos          { return n.Pos }
func (n *Block) Position() Pos       { return n.Pos }

// --- Statements ---

// AssignStmt is `pattern = value` or `pattern: TypeHint = value`; a
// plain `name = expr` is represented with Pattern an *IdentPattern.
type AssignStmt struct {
	Pos         Pos
	Pattern     Pattern
	TypeHint    string
	HasTypeHint bool
	Value       Expr
}

type ReturnStmt struct {
	Pos   Pos
	Value Expr // nil means `return` with an implicit Nil
}

type BreakStmt struct {
	Pos   Pos
	Value Expr
}

type ExprStmt struct {
	Pos   Pos
	Value Expr
}

func (n *AssignStmt) stmtNode() {}
func (n *ReturnStmt) stmtNode() {}
func (n *BreakStmt) stmtNode()  {}
func (n *ExprStmt) stmtNode()   {}

func (n *AssignStmt) Position() Pos { return n.Pos }
func (n *ReturnStmt) Position() Pos { return n.Pos }
func (n *BreakStmt) Position() Pos  { return n.Pos }
func (n *ExprStmt) Position() Pos   { return n.Pos }

// --- Patterns ---

type IdentPattern struct {
	Pos  Pos
	Name sym.Sym
}

type MapPatternEntry struct {
	Key     string
	Pattern Pattern
}

type MapPattern struct {
	Pos     Pos
	Entries []MapPatternEntry
}

type ArrayPattern struct {
	Pos   Pos
	Elems []Pattern
}

func (n *IdentPattern) patternNode() {}
func (n *MapPattern) patternNode()   {}
func (n *ArrayPattern) patternNode() {}

func (n *IdentPattern) Position() Pos { return n.Pos }
func (n *MapPattern) Position() Pos   { return n.Pos }
func (n *ArrayPattern) Position() Pos { return n.Pos }
