package lexer

import (
	"regexp"
)

func rx(raw string) *regexp.Regexp {
	return regexp.MustCompile(raw)
}

// Token regex patterns
var tokenRegexes = map[TokenType]*regexp.Regexp{
	LE:           rx(`^<=`),
	GE:           rx(`^>=`),
	EQ:           rx(`^==`),
	AND:          rx(`^&&`),
	OR:           rx(`^\|\|`),
	PLUS_ASSIGN:  rx(`^\+=`),
	MINUS_ASSIGN: rx(`^-=`),
	MULT_ASSIGN:  rx(`^\*=`),
	DIV_ASSIGN:   rx(`^/=`),

	FUNCTION:  rx(`^function\b`),
	IF:        rx(`^if\b`),
	ELSE:      rx(`^else\b`),
	RETURN:    rx(`^return\b`),
	TRUE:      rx(`^true\b`),
	FALSE:     rx(`^false\b`),
	UNDEFINED: rx(`^undefined\b`),

	ASSIGN: rx(`^=`),
	PLUS:   rx(`^\+`),
	MINUS:  rx(`^-`),
	MULT:   rx(`^\*`),
	DIV:    rx(`^/`),
	LT:     rx(`^<`),
	GT:     rx(`^>`),
	NOT:    rx(`^!`),

	SEMICOLON: rx(`^;`),
	COMMA:     rx(`^,`),
	LPAREN:    rx(`^\(`),
	RPAREN:    rx(`^\)`),
	LBRACE:    rx(`^\{`),
	RBRACE:    rx(`^\}`),

	NUM:    rx(`^\d+(\.\d+)?([eE][+-]?\d+)?`),
	STRING: rx(`^"[^"\n]*"`),
	ID:     rx(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)*`),
}

var (
	whitespaceRegex = regexp.MustCompile(`^\s+`)
	commentRegex    = regexp.MustCompile(`^//[^\n]*`)
)

// Token precedence order for matching (keywords before identifiers, two-character operators before one)
var tokenPrecedenceOrder = []TokenType{
	FUNCTION, UNDEFINED, RETURN, FALSE, ELSE, TRUE, IF,
	LE, GE, EQ, AND, OR, PLUS_ASSIGN, MINUS_ASSIGN, MULT_ASSIGN, DIV_ASSIGN,
	ASSIGN, PLUS, MINUS, MULT, DIV, LT, GT, NOT,
	SEMICOLON, COMMA, LPAREN, RPAREN, LBRACE, RBRACE,
	NUM, STRING, ID,
}

// MatchToken matches the first token at the start of the string.
// Whitespace and comments are reported as EOF with a non-empty lexeme so the caller can skip them.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if match := tokenRegexes[tokenType].FindString(s); match != "" {
			return tokenType, match, true
		}
	}

	return ILLEGAL, string(s[0]), false
}

// Check if a byte is a digit
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
