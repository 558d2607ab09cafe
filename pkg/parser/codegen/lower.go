package codegen

import (
	"baguette/pkg/parser"
	"strings"
)

// generateBlock lowers a list of statements in order
func (g *Generator) generateBlock(stmts []parser.Stmt) error {
	for _, stmt := range stmts {
		if err := g.generateStatement(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) generateStatement(stmt parser.Stmt) error {
	switch s := stmt.(type) {
	case *parser.IfElseStmt:
		endTag, err := g.generateIfWithoutEndTag(s.If)
		if err != nil {
			return err
		}
		if err := g.generateBlock(s.Else); err != nil {
			return err
		}
		g.emit(OpTag, endTag)

	case *parser.IfStmt:
		endTag, err := g.generateIfWithoutEndTag(s)
		if err != nil {
			return err
		}
		g.emit(OpTag, endTag)

	case *parser.ReturnStmt:
		if err := g.generateExpr(s.Value); err != nil {
			return err
		}
		g.emit(OpReturn, "")

	case *parser.AssignStmt:
		return g.generateAssign(s)

	case *parser.CallStmt:
		// call results are always pushed
		if err := g.generateCall(s.Call); err != nil {
			return err
		}
		g.emit(OpPop, "")

	default:
		return newError(ErrUnsupportedNode, nodePos(stmt), "statement %T", stmt)
	}

	return nil
}

// generateIfWithoutEndTag lowers condition, skip and true block, and returns
// the end label still to be placed by the caller
func (g *Generator) generateIfWithoutEndTag(s *parser.IfStmt) (string, error) {
	if err := g.generateExpr(s.Cond); err != nil {
		return "", err
	}

	skipTag := g.getNextFlowTag()
	g.emit(OpIfNotGoto, skipTag)

	if err := g.generateBlock(s.Then); err != nil {
		return "", err
	}

	endTag := g.getNextFlowTag()
	g.emit(OpGoto, endTag)
	g.emit(OpTag, skipTag)

	return endTag, nil
}

func (g *Generator) generateAssign(s *parser.AssignStmt) error {
	target, ok := s.Target.(*parser.Symbol)
	if !ok || target.Name == "undefined" {
		return newError(ErrInvalidAssignTarget, nodePos(s.Target), "%T", s.Target)
	}

	op, ok := GetLexOperation(s.Op)
	if !ok || !strings.HasPrefix(string(op), string(OpAssign)) {
		return newError(ErrUnsupportedNode, s.At, "assignment operator %s", s.Op)
	}

	if err := g.generateExpr(s.Value); err != nil {
		return err
	}
	g.emit(op, target.Name)

	return nil
}

// generateCall lowers arguments left to right. Declared functions get their
// parameters bound last to first, after every argument (and any nested call)
// has been evaluated.
func (g *Generator) generateCall(call *parser.CallExpr) error {
	if strings.HasPrefix(call.Name, EnvPrefix) && len(call.Name) > len(EnvPrefix) {
		for _, arg := range call.Args {
			if err := g.generateExpr(arg); err != nil {
				return err
			}
		}
		g.emit(OpCall, call.Name)
		return nil
	}

	params, ok := g.functions[call.Name]
	if !ok {
		return newError(ErrUnknownFunction, call.At, "%s", call.Name)
	}
	if len(params) != len(call.Args) {
		return newError(ErrArgumentCount, call.At, "%s expects %d, got %d", call.Name, len(params), len(call.Args))
	}

	for _, arg := range call.Args {
		if err := g.generateExpr(arg); err != nil {
			return err
		}
	}
	for i := len(params) - 1; i >= 0; i-- {
		g.emit(OpPopToParams, params[i])
	}
	g.emit(OpCall, call.Name)

	return nil
}

func (g *Generator) generateExpr(expr parser.Expr) error {
	switch e := expr.(type) {
	case *parser.CallExpr:
		return g.generateCall(e)

	case *parser.BoolLit:
		if e.Value {
			g.emit(OpPushBool, "true")
		} else {
			g.emit(OpPushBool, "false")
		}

	case *parser.NumberLit:
		g.emit(OpPushNum, e.Text)

	case *parser.StringLit:
		// operands are comma-separated in program text
		if strings.Contains(e.Value, ",") {
			return newError(ErrUnencodableString, e.At, "%q", e.Value)
		}
		g.emit(OpPushStr, e.Value)

	case *parser.Symbol:
		g.emit(OpPushVar, e.Name)

	case *parser.UnaryExpr:
		op, ok := GetLexOperation(e.Op)
		if !ok || op != OpLogicNot {
			return newError(ErrUnsupportedNode, e.At, "unary operator %s", e.Op)
		}
		if err := g.generateExpr(e.X); err != nil {
			return err
		}
		g.emit(op, "")

	case *parser.BinaryExpr:
		op, ok := GetLexOperation(e.Op)
		if !ok || op == OpLogicNot || op.HasOperand() {
			return newError(ErrUnsupportedNode, e.At, "binary operator %s", e.Op)
		}
		if err := g.generateExpr(e.Left); err != nil {
			return err
		}
		if err := g.generateExpr(e.Right); err != nil {
			return err
		}
		g.emit(op, "")

	default:
		return newError(ErrUnsupportedNode, nodePos(expr), "expression %T", expr)
	}

	return nil
}
