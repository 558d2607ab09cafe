package parser_test

import (
	"baguette/pkg/lexer"
	"baguette/pkg/parser"
	"strings"
	"testing"
)

func parse(t *testing.T, src string) (*parser.Program, []*parser.Error) {
	t.Helper()
	p := parser.NewParser(lexer.NewLexer(src))
	return p.Parse(), p.Errors()
}

func mustParse(t *testing.T, src string) *parser.Program {
	t.Helper()
	prog, errs := parse(t, src)
	if len(errs) > 0 {
		t.Fatalf("unexpected syntax errors: %v", errs)
	}
	return prog
}

func TestFunctionDeclarations(t *testing.T) {
	prog := mustParse(t, `
    function max(a, b) { return a; }
    function main() { }
  `)

	if len(prog.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(prog.Decls))
	}

	max := prog.Decls[0].(*parser.FuncDecl)
	if max.Name != "max" || strings.Join(max.Params, ",") != "a,b" || len(max.Body) != 1 {
		t.Errorf("unexpected declaration %+v", max)
	}

	main := prog.Decls[1].(*parser.FuncDecl)
	if main.Name != "main" || len(main.Params) != 0 || len(main.Body) != 0 {
		t.Errorf("unexpected declaration %+v", main)
	}
}

func TestStatements(t *testing.T) {
	prog := mustParse(t, `
    function main() {
      a = 1;
      game.a.a1 += 2;
      game.print(a);
      return a;
    }
  `)
	body := prog.Decls[0].(*parser.FuncDecl).Body

	assign, ok := body[0].(*parser.AssignStmt)
	if !ok || assign.Op != lexer.ASSIGN || assign.Target.(*parser.Symbol).Name != "a" {
		t.Errorf("unexpected first statement %#v", body[0])
	}

	compound, ok := body[1].(*parser.AssignStmt)
	if !ok || compound.Op != lexer.PLUS_ASSIGN || compound.Target.(*parser.Symbol).Name != "game.a.a1" {
		t.Errorf("unexpected second statement %#v", body[1])
	}

	call, ok := body[2].(*parser.CallStmt)
	if !ok || call.Call.Name != "game.print" || len(call.Call.Args) != 1 {
		t.Errorf("unexpected third statement %#v", body[2])
	}

	if _, ok := body[3].(*parser.ReturnStmt); !ok {
		t.Errorf("unexpected fourth statement %#v", body[3])
	}
}

func TestElseIfChain(t *testing.T) {
	prog := mustParse(t, `
    function main() {
      if (a) { x = 1; } else if (b) { x = 2; } else { x = 3; }
    }
  `)
	body := prog.Decls[0].(*parser.FuncDecl).Body

	outer, ok := body[0].(*parser.IfElseStmt)
	if !ok || len(outer.Else) != 1 {
		t.Fatalf("expected if/else, got %#v", body[0])
	}
	inner, ok := outer.Else[0].(*parser.IfElseStmt)
	if !ok {
		t.Fatalf("expected nested if/else, got %#v", outer.Else[0])
	}
	if inner.If.Cond.(*parser.Symbol).Name != "b" || len(inner.Else) != 1 {
		t.Errorf("unexpected nested if/else %#v", inner)
	}

	prog = mustParse(t, `function main() { if (a) { x = 1; } }`)
	if _, ok := prog.Decls[0].(*parser.FuncDecl).Body[0].(*parser.IfStmt); !ok {
		t.Error("expected plain if statement")
	}
}

// render prints an expression fully parenthesized
func render(e parser.Expr) string {
	switch x := e.(type) {
	case *parser.BinaryExpr:
		return "(" + render(x.Left) + " " + x.Op.String() + " " + render(x.Right) + ")"
	case *parser.UnaryExpr:
		return "(" + x.Op.String() + " " + render(x.X) + ")"
	case *parser.Symbol:
		return x.Name
	case *parser.NumberLit:
		return x.Text
	case *parser.StringLit:
		return `"` + x.Value + `"`
	case *parser.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	case *parser.CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = render(a)
		}
		return x.Name + "(" + strings.Join(args, ", ") + ")"
	}
	return "?"
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 4 / 3 - 5", "((((1 + 2) * 4) / 3) - 5)"},
		{"a || b && c", "(a || (b && c))"},
		{"!a == 1 && b == 0 + 1", "(((! a) == 1) && (b == (0 + 1)))"},
		{"a < b == c >= d", "((a < b) == (c >= d))"},
		{"f(1, g(2)) + undefined", "(f(1, g(2)) + undefined)"},
		{"\"s\" + true", "(\"s\" + true)"},
	}

	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			prog := mustParse(t, "function main() { return "+test.expr+"; }")
			ret := prog.Decls[0].(*parser.FuncDecl).Body[0].(*parser.ReturnStmt)
			if got := render(ret.Value); got != test.want {
				t.Errorf("expected %s, got %s", test.want, got)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing semicolon", "function main() { a = 1 }", "Missing semicolon"},
		{"missing expression", "function main() { a = ; }", "Missing expression"},
		{"missing brace", "function main() { a = 1;", "Missing closing brace"},
		{"bare expression", "function main() { a + 1; }", "Expected assignment or function call"},
		{"empty condition", "function main() { if () { } }", "Empty condition"},
		{"missing paren", "function main() { f(1; }", "Missing closing parenthesis"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, errs := parse(t, test.src)
			if len(errs) == 0 {
				t.Fatal("expected a syntax error")
			}
			if !strings.Contains(errs[0].Msg, test.msg) {
				t.Errorf("expected %q, got %q", test.msg, errs[0].Msg)
			}
		})
	}
}

func TestRecoveryAtNextFunction(t *testing.T) {
	prog, errs := parse(t, `
    function broken() { a = ; }
    function ok() { return 1; }
    function alsoBroken( { }
    function fine() { return 2; }
  `)

	if len(errs) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(errs), errs)
	}

	var names []string
	for _, d := range prog.Decls {
		names = append(names, d.(*parser.FuncDecl).Name)
	}
	if strings.Join(names, ",") != "ok,fine" {
		t.Errorf("expected recovered declarations ok,fine, got %v", names)
	}
}

func TestErrorPosition(t *testing.T) {
	_, errs := parse(t, "function main() {\n  a = 1\n}\n")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Pos.Line != 3 {
		t.Errorf("expected error on line 3, got %s", errs[0].Pos)
	}
}
