package parser

import (
	"baguette/pkg/lexer"
)

type Parser struct {
	tokens []lexer.Token // token stream, always terminated by EOF
	pos    int           // index of the current token
	errors []*Error      // list of syntax errors
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{
		tokens: l.Tokenize(),
		errors: []*Error{},
	}
}

// Parse parses the whole input. Declarations that fail to parse are dropped
// and reported through Errors; parsing resumes at the next `function` keyword.
func (p *Parser) Parse() *Program {
	prog := &Program{}

	for p.current().Type != lexer.EOF {
		if decl := p.parseDecl(); decl != nil {
			prog.Decls = append(prog.Decls, decl)
		}
	}

	return prog
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) parseDecl() (decl *FuncDecl) {
	start := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			decl = nil
			p.syncToFunction(start)
		}
	}()

	return p.parseFunction()
}

func (p *Parser) parseFunction() *FuncDecl {
	start := p.expect(lexer.FUNCTION)
	name := p.expect(lexer.ID)

	p.expect(lexer.LPAREN)
	var params []string
	if p.current().Type != lexer.RPAREN {
		for {
			params = append(params, p.expect(lexer.ID).Lexeme)
			if !p.accept(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN)

	return &FuncDecl{
		Name:   name.Lexeme,
		Params: params,
		Body:   p.parseBlock(),
		At:     start.Pos,
	}
}

func (p *Parser) parseBlock() []Stmt {
	p.expect(lexer.LBRACE)

	stmts := []Stmt{}
	for p.current().Type != lexer.RBRACE {
		if p.current().Type == lexer.EOF {
			p.fail("Missing closing brace")
		}
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(lexer.RBRACE)

	return stmts
}

func (p *Parser) parseStatement() Stmt {
	tok := p.current()

	switch tok.Type {
	case lexer.IF:
		return p.parseIf()

	case lexer.RETURN:
		p.next()
		value := p.parseExpr()
		p.expectSemicolon()
		return &ReturnStmt{Value: value, At: tok.Pos}
	}

	lhs := p.parseExpr()

	if op := p.current().Type; op.IsAssignment() {
		p.next()
		value := p.parseExpr()
		p.expectSemicolon()
		return &AssignStmt{Target: lhs, Op: op, Value: value, At: tok.Pos}
	}

	call, ok := lhs.(*CallExpr)
	if !ok {
		p.fail("Expected assignment or function call")
	}
	p.expectSemicolon()

	return &CallStmt{Call: call, At: tok.Pos}
}

func (p *Parser) parseIf() Stmt {
	start := p.expect(lexer.IF)

	p.expect(lexer.LPAREN)
	if p.current().Type == lexer.RPAREN {
		p.fail("Empty condition")
	}
	cond := p.parseExpr()
	p.expect(lexer.RPAREN)

	ifStmt := &IfStmt{Cond: cond, Then: p.parseBlock(), At: start.Pos}
	if !p.accept(lexer.ELSE) {
		return ifStmt
	}

	var elseBlock []Stmt
	if p.current().Type == lexer.IF {
		elseBlock = []Stmt{p.parseIf()}
	} else {
		elseBlock = p.parseBlock()
	}

	return &IfElseStmt{If: ifStmt, Else: elseBlock, At: start.Pos}
}

// binary operator precedence levels, lowest first
var precedence = [][]lexer.TokenType{
	{lexer.OR},
	{lexer.AND},
	{lexer.EQ},
	{lexer.LT, lexer.LE, lexer.GT, lexer.GE},
	{lexer.PLUS, lexer.MINUS},
	{lexer.MULT, lexer.DIV},
}

func (p *Parser) parseExpr() Expr {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) Expr {
	if level == len(precedence) {
		return p.parseUnary()
	}

	left := p.parseBinary(level + 1)
	for {
		op := p.current()
		if !containsType(precedence[level], op.Type) {
			return left
		}
		p.next()
		right := p.parseBinary(level + 1)
		left = &BinaryExpr{Op: op.Type, Left: left, Right: right, At: op.Pos}
	}
}

func (p *Parser) parseUnary() Expr {
	if tok := p.current(); tok.Type == lexer.NOT {
		p.next()
		return &UnaryExpr{Op: lexer.NOT, X: p.parseUnary(), At: tok.Pos}
	}

	return p.parsePrimary()
}

func (p *Parser) parsePrimary() Expr {
	tok := p.current()

	switch tok.Type {
	case lexer.NUM:
		p.next()
		return &NumberLit{Text: tok.Lexeme, At: tok.Pos}

	case lexer.STRING:
		p.next()
		return &StringLit{Value: tok.Literal, At: tok.Pos}

	case lexer.TRUE, lexer.FALSE:
		p.next()
		return &BoolLit{Value: tok.Type == lexer.TRUE, At: tok.Pos}

	case lexer.UNDEFINED:
		p.next()
		return &Symbol{Name: tok.Lexeme, At: tok.Pos}

	case lexer.ID:
		p.next()
		if p.current().Type == lexer.LPAREN {
			return p.parseCallArgs(tok)
		}
		return &Symbol{Name: tok.Lexeme, At: tok.Pos}

	case lexer.LPAREN:
		p.next()
		inner := p.parseExpr()
		p.expect(lexer.RPAREN)
		return inner
	}

	if tok.Type == lexer.SEMICOLON || tok.Type == lexer.RPAREN {
		p.fail("Missing expression")
	}
	p.fail("Unexpected token '" + tok.Lexeme + "'")

	return nil
}

func (p *Parser) parseCallArgs(name lexer.Token) Expr {
	p.expect(lexer.LPAREN)

	call := &CallExpr{Name: name.Lexeme, Args: []Expr{}, At: name.Pos}
	if p.accept(lexer.RPAREN) {
		return call
	}

	for {
		call.Args = append(call.Args, p.parseExpr())
		if !p.accept(lexer.COMMA) {
			break
		}
	}

	if p.current().Type != lexer.RPAREN {
		p.fail("Missing closing parenthesis")
	}
	p.next()

	return call
}

// current returns the token under the cursor
func (p *Parser) current() lexer.Token {
	return p.tokens[p.pos]
}

// next advances to the next token, never moving past EOF
func (p *Parser) next() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// accept consumes the current token if it has the given type
func (p *Parser) accept(t lexer.TokenType) bool {
	if p.current().Type != t {
		return false
	}
	p.next()
	return true
}

// expect consumes a token of the given type or aborts the current declaration
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != t {
		p.fail(p.categorizeError(t, tok))
	}
	p.next()
	return tok
}

func (p *Parser) expectSemicolon() {
	if !p.accept(lexer.SEMICOLON) {
		p.fail("Missing semicolon")
	}
}

// syncToFunction skips tokens until the next function declaration or EOF,
// always making progress past start
func (p *Parser) syncToFunction(start int) {
	if p.pos == start {
		p.next()
	}
	for t := p.current().Type; t != lexer.FUNCTION && t != lexer.EOF; t = p.current().Type {
		p.next()
	}
}

func containsType(types []lexer.TokenType, t lexer.TokenType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
