package codegen

import (
	"baguette/pkg/lexer"
	"errors"
	"fmt"
)

var (
	ErrSyntax               = errors.New("syntax error")
	ErrMalformedDeclaration = errors.New("not a function declaration")
	ErrDuplicateFunction    = errors.New("duplicate function")
	ErrUnknownFunction      = errors.New("unknown function")
	ErrInvalidAssignTarget  = errors.New("assignment target is not a variable")
	ErrArgumentCount        = errors.New("argument count mismatch")
	ErrUnsupportedNode      = errors.New("unsupported parse tree node")
	ErrUnencodableString    = errors.New("string literal cannot contain ','")
)

// Error is a compilation failure. Err is one of the sentinels above.
type Error struct {
	Err    error
	Detail string
	Pos    lexer.Position
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at line %d, column %d", e.Err, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%v: %s at line %d, column %d", e.Err, e.Detail, e.Pos.Line, e.Pos.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error, pos lexer.Position, format string, args ...any) *Error {
	return &Error{Err: err, Detail: fmt.Sprintf(format, args...), Pos: pos}
}
