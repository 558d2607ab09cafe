package lexer

import (
	"fmt"
)

type TokenType int
type TokenCategory int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Literal value (if applicable), empty string if not
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, Pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     Pos,
	}
}

const (
	NONE TokenCategory = iota
	KEYWORD
	IDENTIFIER
	LITERAL
	OPERATOR
	DELIMITER
)

const (
	EOF TokenType = iota // End of file

	FUNCTION  // function
	IF        // if
	ELSE      // else
	RETURN    // return
	TRUE      // true
	FALSE     // false
	UNDEFINED // undefined

	ID     // id (identifier, possibly dotted)
	NUM    // num (number)
	STRING // string literal

	ASSIGN       // =
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=
	MULT_ASSIGN  // *=
	DIV_ASSIGN   // /=
	PLUS         // +
	MINUS        // -
	MULT         // *
	DIV          // /
	LT           // <
	GT           // >
	LE           // <=
	GE           // >=
	EQ           // ==
	AND          // &&
	OR           // ||
	NOT          // !

	SEMICOLON // ;
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }

	ILLEGAL // illegal token
)

var Keywords = map[string]TokenType{
	"function":  FUNCTION,
	"if":        IF,
	"else":      ELSE,
	"return":    RETURN,
	"true":      TRUE,
	"false":     FALSE,
	"undefined": UNDEFINED,
}

var tokenNames = map[TokenType]string{
	FUNCTION:     "function",
	IF:           "if",
	ELSE:         "else",
	RETURN:       "return",
	TRUE:         "true",
	FALSE:        "false",
	UNDEFINED:    "undefined",
	ID:           "id",
	NUM:          "num",
	STRING:       "string",
	ASSIGN:       "=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	MULT_ASSIGN:  "*=",
	DIV_ASSIGN:   "/=",
	PLUS:         "+",
	MINUS:        "-",
	MULT:         "*",
	DIV:          "/",
	LT:           "<",
	GT:           ">",
	LE:           "<=",
	GE:           ">=",
	EQ:           "==",
	AND:          "&&",
	OR:           "||",
	NOT:          "!",
	SEMICOLON:    ";",
	COMMA:        ",",
	LPAREN:       "(",
	RPAREN:       ")",
	LBRACE:       "{",
	RBRACE:       "}",
	ILLEGAL:      "illegal",
	EOF:          "$",
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %v, nil, %s}", t.Type, t.Lexeme, t.Pos)
	}

	return fmt.Sprintf("T_{%s, %v, %q, %s}", t.Type, t.Lexeme, t.Literal, t.Pos)
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// GetCategory returns the category of the token
func (t TokenType) GetCategory() TokenCategory {
	switch t {
	case FUNCTION, IF, ELSE, RETURN, TRUE, FALSE, UNDEFINED:
		return KEYWORD
	case ID:
		return IDENTIFIER
	case NUM, STRING:
		return LITERAL
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, MULT_ASSIGN, DIV_ASSIGN,
		PLUS, MINUS, MULT, DIV, LT, GT, LE, GE, EQ, AND, OR, NOT:
		return OPERATOR
	case SEMICOLON, COMMA, LPAREN, RPAREN, LBRACE, RBRACE:
		return DELIMITER
	default:
		return NONE
	}
}

// IsAssignment reports whether the token is '=' or one of the compound assignment operators
func (t TokenType) IsAssignment() bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, MULT_ASSIGN, DIV_ASSIGN:
		return true
	default:
		return false
	}
}

// IsKeyword checks if the given identifier is a keyword and returns its TokenType if it is
func IsKeyword(identifier string) (TokenType, bool) {
	tokenType, ok := Keywords[identifier]
	return tokenType, ok
}
