package parser

import (
	"baguette/pkg/lexer"
	"fmt"
)

// Error is a syntax error at a source position.
type Error struct {
	Msg string
	Pos lexer.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Pos.Line, e.Pos.Column)
}

// bailout unwinds the parser to the enclosing declaration after an error
type bailout struct{}

// fail records an error at the current token and abandons the current declaration
func (p *Parser) fail(msg string) {
	p.errors = append(p.errors, &Error{Msg: msg, Pos: p.current().Pos})
	panic(bailout{})
}

// categorizeError provides a specific error message based on expected token type and current token
func (p *Parser) categorizeError(expected lexer.TokenType, current lexer.Token) string {
	switch expected {
	case lexer.RPAREN:
		return "Missing closing parenthesis"
	case lexer.RBRACE:
		return "Missing closing brace"
	case lexer.LBRACE:
		return "Missing opening brace"
	case lexer.SEMICOLON:
		return "Missing semicolon"
	case lexer.LPAREN:
		if current.Type == lexer.LBRACE {
			return "Wrong bracket type - expected parenthesis"
		}
		return "Missing opening parenthesis"
	case lexer.FUNCTION:
		return "Expected function declaration"
	case lexer.ID:
		if current.Type.GetCategory() == lexer.KEYWORD {
			return "Cannot use reserved keyword as identifier"
		}
		return "Expected identifier"
	}

	if current.Type == lexer.ILLEGAL {
		return fmt.Sprintf("Illegal character '%s'", current.Lexeme)
	}

	return fmt.Sprintf("Expected '%s', found '%s'", expected, current.Lexeme)
}
