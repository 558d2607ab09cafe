package parser

import "baguette/pkg/lexer"

// Node is any element of the parse tree.
type Node interface {
	Pos() lexer.Position
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of the parse tree. Decls holds the top-level nodes; a
// well-formed program contains only *FuncDecl values.
type Program struct {
	Decls []Node
}

// FuncDecl is `function Name(Params...) { Body }`.
type FuncDecl struct {
	Name   string
	Params []string
	Body   []Stmt
	At     lexer.Position
}

type (
	// IfStmt is `if (Cond) { Then }`.
	IfStmt struct {
		Cond Expr
		Then []Stmt
		At   lexer.Position
	}

	// IfElseStmt is an IfStmt followed by an else block. An `else if` chain
	// nests the next IfStmt or IfElseStmt as the only statement of Else.
	IfElseStmt struct {
		If   *IfStmt
		Else []Stmt
		At   lexer.Position
	}

	ReturnStmt struct {
		Value Expr
		At    lexer.Position
	}

	// AssignStmt is `Target Op Value;` where Op is one of = += -= *= /=.
	AssignStmt struct {
		Target Expr
		Op     lexer.TokenType
		Value  Expr
		At     lexer.Position
	}

	// CallStmt is a call whose result is discarded.
	CallStmt struct {
		Call *CallExpr
		At   lexer.Position
	}
)

type (
	CallExpr struct {
		Name string
		Args []Expr
		At   lexer.Position
	}

	BoolLit struct {
		Value bool
		At    lexer.Position
	}

	// NumberLit keeps the source text; it is parsed by the VM.
	NumberLit struct {
		Text string
		At   lexer.Position
	}

	StringLit struct {
		Value string
		At    lexer.Position
	}

	// Symbol is a variable reference, possibly dotted (game.a.b).
	Symbol struct {
		Name string
		At   lexer.Position
	}

	UnaryExpr struct {
		Op lexer.TokenType
		X  Expr
		At lexer.Position
	}

	BinaryExpr struct {
		Op    lexer.TokenType
		Left  Expr
		Right Expr
		At    lexer.Position
	}
)

func (n *FuncDecl) Pos() lexer.Position   { return n.At }
func (n *IfStmt) Pos() lexer.Position     { return n.At }
func (n *IfElseStmt) Pos() lexer.Position { return n.At }
func (n *ReturnStmt) Pos() lexer.Position { return n.At }
func (n *AssignStmt) Pos() lexer.Position { return n.At }
func (n *CallStmt) Pos() lexer.Position   { return n.At }
func (n *CallExpr) Pos() lexer.Position   { return n.At }
func (n *BoolLit) Pos() lexer.Position    { return n.At }
func (n *NumberLit) Pos() lexer.Position  { return n.At }
func (n *StringLit) Pos() lexer.Position  { return n.At }
func (n *Symbol) Pos() lexer.Position     { return n.At }
func (n *UnaryExpr) Pos() lexer.Position  { return n.At }
func (n *BinaryExpr) Pos() lexer.Position { return n.At }

func (*IfStmt) stmtNode()     {}
func (*IfElseStmt) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
func (*AssignStmt) stmtNode() {}
func (*CallStmt) stmtNode()   {}

func (*CallExpr) exprNode()   {}
func (*BoolLit) exprNode()    {}
func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*Symbol) exprNode()     {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
