package codegen_test

import (
	"baguette/pkg/lexer"
	"baguette/pkg/parser"
	"baguette/pkg/parser/codegen"
	"errors"
	"strings"
	"testing"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	text, err := codegen.New(src).GenerateIntermediateCode()
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	return text
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestGenerateProgram(t *testing.T) {
	got := generate(t, `
    function max(a, b)
    {
      if (a > b) { return a; } else { return b; }
    }

    function main()
    {
      game.print(max(1, 2));
    }
  `)

	want := lines(
		"function,max",
		"pushvar,a",
		"pushvar,b",
		"more",
		"if_not_goto,flowtag.0",
		"pushvar,a",
		"return",
		"goto,flowtag.1",
		"tag,flowtag.0",
		"pushvar,b",
		"return",
		"tag,flowtag.1",
		"function_end",
		"function,main",
		"pushnum,1",
		"pushnum,2",
		"pop_to_params,b",
		"pop_to_params,a",
		"call,max",
		"call,game.print",
		"pop",
		"function_end",
	)

	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestGenerateStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"assign", `a = 1;`, lines("pushnum,1", "assign,a")},
		{"compound", `game.a.a1 += 2; b -= 1; c *= 2; d /= 2;`, lines(
			"pushnum,2", "assign_plus,game.a.a1",
			"pushnum,1", "assign_minus,b",
			"pushnum,2", "assign_multiply,c",
			"pushnum,2", "assign_divide,d",
		)},
		{"literals", `return "hi" + true + undefined + -1.5;`, lines(
			"pushstr,hi", "pushbool,true", "plus", "pushvar,undefined", "plus", "pushnum,-1.5", "plus", "return",
		)},
		{"logic", `return !a || b && c == d;`, lines(
			"pushvar,a", "logic_not", "pushvar,b", "pushvar,c", "pushvar,d", "eq", "logic_and", "logic_or", "return",
		)},
		{"comparisons", `return a < b + (c >= d) + (e <= f);`, lines(
			"pushvar,a", "pushvar,b", "pushvar,c", "pushvar,d", "more_or_eq", "plus",
			"pushvar,e", "pushvar,f", "less_or_eq", "plus", "less", "return",
		)},
		{"arithmetic", `return (1 + 2) * 4 / 3 - 5;`, lines(
			"pushnum,1", "pushnum,2", "plus", "pushnum,4", "multiply", "pushnum,3", "divide", "pushnum,5", "minus", "return",
		)},
		{"host call", `game.move(1, "x", y);`, lines(
			"pushnum,1", "pushstr,x", "pushvar,y", "call,game.move", "pop",
		)},
		{"if", `if (a) { b = 1; }`, lines(
			"pushvar,a", "if_not_goto,flowtag.0", "pushnum,1", "assign,b", "goto,flowtag.1", "tag,flowtag.0", "tag,flowtag.1",
		)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := generate(t, "function main() { "+test.body+" }")
			want := "function,main\n" + test.want + "function_end\n"
			if got != want {
				t.Errorf("expected:\n%s\ngot:\n%s", want, got)
			}
		})
	}
}

func TestNestedCallsBindAfterArguments(t *testing.T) {
	got := generate(t, `
    function sub(a, b) { return a - b; }
    function main() { return sub(10, sub(5, 2)); }
  `)

	want := lines(
		"function,main",
		"pushnum,10",
		"pushnum,5",
		"pushnum,2",
		"pop_to_params,b",
		"pop_to_params,a",
		"call,sub",
		"pop_to_params,b",
		"pop_to_params,a",
		"call,sub",
		"return",
		"function_end",
	)

	if !strings.HasSuffix(got, want) {
		t.Errorf("expected main to be:\n%s\ngot:\n%s", want, got)
	}
}

func TestElseIfLabelsAreUnique(t *testing.T) {
	got := generate(t, `
    function main() {
      if (a == 1) { r = "a"; } else if (a == 2) { r = "b"; } else { r = "c"; }
    }
  `)

	seen := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(got), "\n") {
		if !strings.HasPrefix(line, "tag,") {
			continue
		}
		if seen[line] {
			t.Errorf("label placed twice: %s", line)
		}
		seen[line] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 labels, got %d in:\n%s", len(seen), got)
	}
}

func TestDeterministic(t *testing.T) {
	src := `
    function f(x) { if (x) { return 1; } else { return 2; } }
    function main() { if (game.a) { return f(1); } return f(0); }
  `

	g := codegen.New(src)
	first, err := g.GenerateIntermediateCode()
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	second, err := g.GenerateIntermediateCode()
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	if first != second || first != generate(t, src) {
		t.Error("expected identical output for the same source")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"syntax", `function main() { a = ; }`, codegen.ErrSyntax},
		{"unknown function", `function main() { return nothing(); }`, codegen.ErrUnknownFunction},
		{"argument count", `function f(a) { return a; } function main() { return f(1, 2); }`, codegen.ErrArgumentCount},
		{"assign to literal", `function main() { 1 = 2; }`, codegen.ErrInvalidAssignTarget},
		{"assign to call", `function f() { return 1; } function main() { f() = 2; }`, codegen.ErrInvalidAssignTarget},
		{"assign to undefined", `function main() { undefined = 2; }`, codegen.ErrInvalidAssignTarget},
		{"duplicate function", `function f() { } function f() { }`, codegen.ErrDuplicateFunction},
		{"comma in string", `function main() { game.print("a,b"); }`, codegen.ErrUnencodableString},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			text, err := codegen.New(test.src).GenerateIntermediateCode()
			if !errors.Is(err, test.want) {
				t.Fatalf("expected %v, got %v", test.want, err)
			}
			if text != "" {
				t.Errorf("expected no program text, got:\n%s", text)
			}

			var cerr *codegen.Error
			if !errors.As(err, &cerr) {
				t.Errorf("expected *codegen.Error, got %T", err)
			}
		})
	}
}

func TestSyntaxErrorsAreKept(t *testing.T) {
	g := codegen.New("function main() { a = 1 }\nfunction f() { return ; }")
	if _, err := g.GenerateIntermediateCode(); !errors.Is(err, codegen.ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	if n := len(g.SyntaxErrors()); n != 2 {
		t.Errorf("expected 2 syntax errors, got %d", n)
	}
}

func TestMalformedDeclaration(t *testing.T) {
	tree := &parser.Program{Decls: []parser.Node{
		&parser.ReturnStmt{Value: &parser.NumberLit{Text: "1"}, At: lexer.NewPosition(1, 1, 0)},
	}}

	if _, err := codegen.FromTree(tree).GenerateIntermediateCode(); !errors.Is(err, codegen.ErrMalformedDeclaration) {
		t.Errorf("expected ErrMalformedDeclaration, got %v", err)
	}
}

func TestFromTree(t *testing.T) {
	tree := &parser.Program{Decls: []parser.Node{
		&parser.FuncDecl{Name: "main", Body: []parser.Stmt{
			&parser.ReturnStmt{Value: &parser.BoolLit{Value: false}},
		}},
	}}

	got, err := codegen.FromTree(tree).GenerateIntermediateCode()
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if want := lines("function,main", "pushbool,false", "return", "function_end"); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestInstructionString(t *testing.T) {
	if s := (codegen.Instruction{Op: codegen.OpPop}).String(); s != "pop" {
		t.Errorf("expected pop, got %s", s)
	}
	if s := (codegen.Instruction{Op: codegen.OpPushStr, Operand: ""}).String(); s != "pushstr," {
		t.Errorf("expected pushstr, with empty operand, got %s", s)
	}
	if !codegen.OpCall.HasOperand() || codegen.OpReturn.HasOperand() || codegen.Operation("jump").Valid() {
		t.Error("unexpected operation table")
	}
}
