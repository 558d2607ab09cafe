package lexer

type Lexer struct {
	input        string // input string to be tokenized
	length       int    // length of the input string
	position     int    // current position in the input string
	line         int    // current line number for error reporting
	column       int    // current column number for error reporting
	currentToken Token  // previous significant token (for unary minus handling)
}

// NewLexer creates a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// NextToken returns the next significant token from the input
func (l *Lexer) NextToken() Token {
	for {
		// End of input
		if l.position >= l.length {
			tok := NewToken(EOF, "", "", l.currentPosition())
			l.currentToken = tok
			return tok
		}

		// A '-' directly followed by a digit is part of the number when the
		// previous token cannot end an operand.
		if l.input[l.position] == '-' && l.prevAllowsUnary() &&
			l.position+1 < l.length && isDigit(l.input[l.position+1]) {
			t, lex, matched := MatchToken(l.input[l.position+1:])
			if matched && t == NUM {
				return l.emit(NUM, "-"+lex, "-"+lex)
			}
		}

		tokenType, lexeme, matched := MatchToken(l.input[l.position:])
		if tokenType == EOF && matched {
			// whitespace or comment
			l.advance(len(lexeme))
			continue
		}

		if !matched {
			return l.emit(ILLEGAL, lexeme, "")
		}

		literal := lexeme
		if tokenType == STRING {
			literal = lexeme[1 : len(lexeme)-1]
		}

		return l.emit(tokenType, lexeme, literal)
	}
}

// Tokenize consumes the whole input and returns every token, ending with EOF
func (l *Lexer) Tokenize() []Token {
	tokens := make([]Token, 0, l.length/4+1)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// emit builds a token at the current position and advances past its lexeme
func (l *Lexer) emit(t TokenType, lexeme, literal string) Token {
	tok := NewToken(t, lexeme, literal, l.currentPosition())
	l.advance(len(lexeme))
	l.currentToken = tok
	return tok
}

// Advance the lexer position by n characters
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return NewPosition(l.line, l.column, l.position)
}

// Check if the previous token allows a unary minus
func (l *Lexer) prevAllowsUnary() bool {
	switch l.currentToken.Type {
	case EOF,
		LPAREN, COMMA, SEMICOLON, LBRACE, RBRACE,
		// assignment operators
		ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, MULT_ASSIGN, DIV_ASSIGN,
		// arithmetic operators
		PLUS, MINUS, MULT, DIV,
		// relational and logical operators
		LT, GT, LE, GE, EQ, AND, OR, NOT,
		RETURN:
		return true
	default:
		return false
	}
}
