package codegen

import (
	"baguette/pkg/lexer"
	"baguette/pkg/parser"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

type Generator struct {
	source       string              // source text, empty when built from a tree
	tree         *parser.Program     // parse tree (set by FromTree or by parsing source)
	syntaxErrors []*parser.Error     // syntax errors from the last parse
	pb           []Instruction       // program block
	functions    map[string][]string // declared function name -> parameter names
	nextFlowTag  int                 // label counter, per compilation
}

// New creates a generator over source text
func New(source string) *Generator {
	return &Generator{source: source}
}

// FromTree creates a generator over an already parsed program
func FromTree(tree *parser.Program) *Generator {
	return &Generator{tree: tree}
}

// GenerateIntermediateCode compiles the program to intermediate-code text.
// On failure the returned text is empty.
func (g *Generator) GenerateIntermediateCode() (string, error) {
	pb, err := g.Generate()
	if err != nil {
		return "", err
	}

	return Format(pb), nil
}

// Generate compiles the program to a list of instructions
func (g *Generator) Generate() ([]Instruction, error) {
	if g.tree == nil {
		p := parser.NewParser(lexer.NewLexer(g.source))
		tree := p.Parse()
		if errs := p.Errors(); len(errs) > 0 {
			g.syntaxErrors = errs
			return nil, &Error{Err: ErrSyntax, Detail: errs[0].Msg, Pos: errs[0].Pos}
		}
		g.tree = tree
	}

	g.pb = make([]Instruction, 0, 64)
	g.nextFlowTag = 0

	if err := g.collectFunctions(); err != nil {
		return nil, err
	}

	for _, node := range g.tree.Decls {
		decl := node.(*parser.FuncDecl)

		g.emit(OpFunction, decl.Name)
		if err := g.generateBlock(decl.Body); err != nil {
			g.pb = nil
			return nil, err
		}
		g.emit(OpFunctionEnd, "")
	}

	log.Debug("Generated intermediate code", "functions", len(g.functions), "instructions", len(g.pb))

	return g.pb, nil
}

// SyntaxErrors returns every syntax error found by the last parse
func (g *Generator) SyntaxErrors() []*parser.Error {
	return g.syntaxErrors
}

// Format renders instructions as program text, one per line
func Format(pb []Instruction) string {
	var b strings.Builder
	for _, in := range pb {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// collectFunctions builds the function symbol table from all declarations
func (g *Generator) collectFunctions() error {
	g.functions = make(map[string][]string, len(g.tree.Decls))

	for _, node := range g.tree.Decls {
		decl, ok := node.(*parser.FuncDecl)
		if !ok {
			return newError(ErrMalformedDeclaration, nodePos(node), "%T", node)
		}

		if _, exists := g.functions[decl.Name]; exists {
			return newError(ErrDuplicateFunction, decl.At, "%s", decl.Name)
		}
		g.functions[decl.Name] = decl.Params
	}

	return nil
}

// getNextFlowTag returns a fresh, never reused label
func (g *Generator) getNextFlowTag() string {
	tag := fmt.Sprintf("flowtag.%d", g.nextFlowTag)
	g.nextFlowTag++
	return tag
}

// emit appends an instruction to the program block
func (g *Generator) emit(op Operation, operand string) {
	g.pb = append(g.pb, Instruction{Op: op, Operand: operand})
}

func nodePos(n parser.Node) lexer.Position {
	if n == nil {
		return lexer.Position{}
	}
	return n.Pos()
}
