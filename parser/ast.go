// Package parser builds a typed abstract syntax tree from a token sequence
// using recursive descent with single-token lookahead.
package parser

import (
	"fmt"
	"strings"
)

// Node is implemented by every AST node. Pos returns the source line of the
// node's leading token; it is used only for diagnostics.
type Node interface {
	Pos() int
}

// Expr is the closed set of expression variants. The marker method is
// unexported, so no variant can be added outside this package and consumers
// may switch over the full set.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the closed set of statement variants.
type Stmt interface {
	Node
	stmtNode()
}

// Op names an operator in its canonical form, independent of spelling.
type Op string

// Unary operators. Double negation and double complement cancel during
// parsing and never reach the AST.
const (
	OpNeg Op = "neg" // -
	OpInv Op = "inv" // ~
)

// Pointer operators. Deref and address-of carry an explicit repetition count.
const (
	OpDeref  Op = "deref"  // *
	OpAddrOf Op = "addrof" // &
	OpSizeOf Op = "sizeof"
)

// Binary operators, loosest-binding first: additive, multiplicative, shift,
// bitwise.
const (
	OpAdd Op = "add"
	OpSub Op = "sub"
	OpMul Op = "mul"
	OpDiv Op = "div"
	OpSra Op = "sra" // >>> arithmetic shift right
	OpSrl Op = "srl" // >>  logical shift right
	OpSll Op = "sll" // <<
	OpAnd Op = "band"
	OpOr  Op = "bor"
	OpXor Op = "bxor"
)

// Comparison operators, valid only in if/while guards.
const (
	OpEq Op = "eq"
	OpNe Op = "ne"
	OpLt Op = "lt"
	OpGt Op = "gt"
	OpLe Op = "le"
	OpGe Op = "ge"
)

// Loop control operators.
const (
	OpBreak    Op = "break"
	OpContinue Op = "continue"
)

// TypeRef is a reference to a named type with a pointer depth. Indirection 0
// is a value type; each level above it is one '*'.
type TypeRef struct {
	Base        string
	Indirection int
}

func (t TypeRef) String() string {
	return t.Base + strings.Repeat("*", t.Indirection)
}

// IsPointer reports whether the reference has at least one indirection level.
func (t TypeRef) IsPointer() bool {
	return t.Indirection > 0
}

// Deref returns the type referenced after removing count indirection levels.
func (t TypeRef) Deref(count int) TypeRef {
	return TypeRef{Base: t.Base, Indirection: t.Indirection - count}
}

// Expressions.

// VarRef names a variable.
type VarRef struct {
	Line int
	Name string
}

// IntLit is a decoded integer literal (decimal or hex in the source).
type IntLit struct {
	Line  int
	Value int64
}

// StrLit is a string literal. Value is the source spelling without the
// surrounding quotes; escapes are kept as written.
type StrLit struct {
	Line  int
	Value string
}

// UnaryOp applies OpNeg or OpInv once.
type UnaryOp struct {
	Line    int
	Op      Op
	Operand Expr
}

// PointerOp applies OpDeref, OpAddrOf or OpSizeOf. Count is the repetition
// level of the operator: **p has Count 2, which is distinct from *p. Count is
// always 1 for sizeof.
type PointerOp struct {
	Line    int
	Op      Op
	Operand Expr
	Count   int
}

// BinaryOp is a left-associative arithmetic, shift or bitwise operation.
type BinaryOp struct {
	Line  int
	Op    Op
	Left  Expr
	Right Expr
}

// Condition is a single comparison. Conditions appear only as if/while
// guards and do not compose with other expressions.
type Condition struct {
	Line  int
	Op    Op
	Left  Expr
	Right Expr
}

// StructAccess selects a member of a struct value. Chains are
// left-associative, so a.b.c nests the access of b innermost.
type StructAccess struct {
	Line  int
	Left  Expr // *VarRef or nested *StructAccess
	Field string
}

// FCall invokes a function. It doubles as an expression and as a statement.
type FCall struct {
	Line int
	Name string
	Args []Expr
}

func (n *VarRef) Pos() int       { return n.Line }
func (n *IntLit) Pos() int       { return n.Line }
func (n *StrLit) Pos() int       { return n.Line }
func (n *UnaryOp) Pos() int      { return n.Line }
func (n *PointerOp) Pos() int    { return n.Line }
func (n *BinaryOp) Pos() int     { return n.Line }
func (n *Condition) Pos() int    { return n.Line }
func (n *StructAccess) Pos() int { return n.Line }
func (n *FCall) Pos() int        { return n.Line }

func (*VarRef) exprNode()       {}
func (*IntLit) exprNode()       {}
func (*StrLit) exprNode()       {}
func (*UnaryOp) exprNode()      {}
func (*PointerOp) exprNode()    {}
func (*BinaryOp) exprNode()     {}
func (*Condition) exprNode()    {}
func (*StructAccess) exprNode() {}
func (*FCall) exprNode()        {}

// Statements.

// CtrlStmt is break or continue.
type CtrlStmt struct {
	Line int
	Op   Op
}

// ReturnStmt returns a value from the enclosing function.
type ReturnStmt struct {
	Line  int
	Value Expr
}

// StoreStmt writes through a pointer dereferenced Count times: **p = v.
type StoreStmt struct {
	Line  int
	Count int
	Dest  Expr
	Value Expr
}

// VarDeclStmt declares a local variable, struct member or parameter. A
// declaration never carries an initializer: "u8 x = 5;" parses as a
// VarDeclStmt followed by an AssignStmt.
type VarDeclStmt struct {
	Line int
	Type TypeRef
	Name string
}

// StructStoreStmt assigns to a struct member: a.b.c = v.
type StructStoreStmt struct {
	Line   int
	Target *StructAccess
	Value  Expr
}

// AssignStmt assigns to a named variable.
type AssignStmt struct {
	Line  int
	Name  string
	Value Expr
}

// WhileStmt loops while the guard holds.
type WhileStmt struct {
	Line int
	Cond *Condition
	Body Stmt
}

// IfStmt branches on the guard. Else is nil when absent.
type IfStmt struct {
	Line int
	Cond *Condition
	Then Stmt
	Else Stmt
}

// BlockStmt is an ordered statement sequence in its own lexical scope.
type BlockStmt struct {
	Line  int
	Stmts []Stmt
}

func (n *CtrlStmt) Pos() int        { return n.Line }
func (n *ReturnStmt) Pos() int      { return n.Line }
func (n *StoreStmt) Pos() int       { return n.Line }
func (n *VarDeclStmt) Pos() int     { return n.Line }
func (n *StructStoreStmt) Pos() int { return n.Line }
func (n *AssignStmt) Pos() int      { return n.Line }
func (n *WhileStmt) Pos() int       { return n.Line }
func (n *IfStmt) Pos() int          { return n.Line }
func (n *BlockStmt) Pos() int       { return n.Line }

func (*CtrlStmt) stmtNode()        {}
func (*ReturnStmt) stmtNode()      {}
func (*StoreStmt) stmtNode()       {}
func (*VarDeclStmt) stmtNode()     {}
func (*StructStoreStmt) stmtNode() {}
func (*AssignStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()       {}
func (*IfStmt) stmtNode()          {}
func (*BlockStmt) stmtNode()       {}

func (*FCall) stmtNode() {}

// Declarations.

// FuncDecl is a function definition.
type FuncDecl struct {
	Line   int
	Ret    TypeRef
	Name   string
	Params []*VarDeclStmt
	Body   Stmt
}

func (n *FuncDecl) Pos() int { return n.Line }

// Signature renders the declaration head for diagnostics and listings.
func (n *FuncDecl) Signature() string {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Type.String() + " " + p.Name
	}

	return fmt.Sprintf("%s %s(%s)", n.Ret, n.Name, strings.Join(params, ", "))
}

// StructDecl is a struct definition as written: one VarDeclStmt per declared
// member, possibly of struct type. The semantic analyzer derives the
// flattened, offset-annotated layout from it without mutating it.
type StructDecl struct {
	Line    int
	Name    string
	Members []*VarDeclStmt
}

func (n *StructDecl) Pos() int { return n.Line }

// Program is the parsed compilation unit. Structs and Funcs keep source
// order.
type Program struct {
	Structs []*StructDecl
	Funcs   []*FuncDecl
}
