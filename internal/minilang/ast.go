package minilang

import (
	"loupe/internal/source"
)

// The frontend keeps its own lightweight AST for checking; the generic
// syntax.Tree used by point queries is lowered from it (see lower.go).

type File struct {
	Items []Item
	Span  source.Span
}

type Item interface {
	ItemSpan() source.Span
}

type Ident struct {
	Name string
	Span source.Span
}

type TypeRef struct {
	Name string
	Span source.Span
}

type Param struct {
	Name Ident
	Type TypeRef
	Span source.Span
}

type Field struct {
	Name Ident
	Type TypeRef
	Span source.Span
}

type FunDecl struct {
	Name   Ident
	Params []Param
	Ret    TypeRef // пустое имя = нет аннотации
	Body   *Block
	Span   source.Span
}

func (d *FunDecl) ItemSpan() source.Span { return d.Span }

type RecordDecl struct {
	Name     Ident
	Fields   []Field
	BodySpan source.Span // между фигурными скобками
	Span     source.Span
}

func (d *RecordDecl) ItemSpan() source.Span { return d.Span }

type ValDecl struct {
	Name Ident
	Type TypeRef // пустое имя = вывести из инициализатора
	Init Expr    // может быть nil
	Span source.Span
}

func (d *ValDecl) ItemSpan() source.Span { return d.Span }
func (d *ValDecl) StmtSpan() source.Span { return d.Span }

type Block struct {
	Stmts []Stmt
	Span  source.Span
}

type Stmt interface {
	StmtSpan() source.Span
}

type ReturnStmt struct {
	Expr Expr // может быть nil
	Span source.Span
}

func (s *ReturnStmt) StmtSpan() source.Span { return s.Span }

type ExprStmt struct {
	Expr Expr
	Span source.Span
}

func (s *ExprStmt) StmtSpan() source.Span { return s.Span }
func (s *ExprStmt) ItemSpan() source.Span { return s.Span }

type Expr interface {
	ExprSpan() source.Span
}

type IdentExpr struct {
	Name string
	Span source.Span
}

func (e *IdentExpr) ExprSpan() source.Span { return e.Span }

type IntLit struct {
	Text string
	Span source.Span
}

func (e *IntLit) ExprSpan() source.Span { return e.Span }

type StringLit struct {
	Text string
	Span source.Span
}

func (e *StringLit) ExprSpan() source.Span { return e.Span }

type BoolLit struct {
	Value bool
	Span  source.Span
}

func (e *BoolLit) ExprSpan() source.Span { return e.Span }

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpLt
	OpGt
)

func (op BinaryOp) Arithmetic() bool {
	return op <= OpDiv
}

type BinaryExpr struct {
	Op   BinaryOp
	L, R Expr
	Span source.Span
}

func (e *BinaryExpr) ExprSpan() source.Span { return e.Span }

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Span   source.Span
}

func (e *CallExpr) ExprSpan() source.Span { return e.Span }

// SelectorExpr is a two-part access: a target plus a selected member.
type SelectorExpr struct {
	Target Expr
	Field  Ident
	Span   source.Span
}

func (e *SelectorExpr) ExprSpan() source.Span { return e.Span }

type ParenExpr struct {
	Inner Expr
	Span  source.Span
}

func (e *ParenExpr) ExprSpan() source.Span { return e.Span }

// BadExpr marks a place where the parser could not form an expression.
// Запросы по нему просто не находят фактов.
type BadExpr struct {
	Span source.Span
}

func (e *BadExpr) ExprSpan() source.Span { return e.Span }
