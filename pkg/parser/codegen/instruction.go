package codegen

import (
	"baguette/pkg/lexer"
)

type Operation string

// EnvPrefix marks host-owned variables and host functions.
const EnvPrefix = "game."

// List of intermediate-code operations
const (
	OpTag       Operation = "tag"
	OpGoto      Operation = "goto"
	OpIfNotGoto Operation = "if_not_goto"

	OpPushBool Operation = "pushbool"
	OpPushNum  Operation = "pushnum"
	OpPushStr  Operation = "pushstr"
	OpPushVar  Operation = "pushvar"

	OpPop         Operation = "pop"
	OpPopToParams Operation = "pop_to_params"

	OpLogicNot Operation = "logic_not"
	OpLogicAnd Operation = "logic_and"
	OpLogicOr  Operation = "logic_or"
	OpMore     Operation = "more"
	OpMoreOrEq Operation = "more_or_eq"
	OpLess     Operation = "less"
	OpLessOrEq Operation = "less_or_eq"
	OpEq       Operation = "eq"
	OpPlus     Operation = "plus"
	OpMinus    Operation = "minus"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"

	OpFunction    Operation = "function"
	OpFunctionEnd Operation = "function_end"
	OpCall        Operation = "call"
	OpReturn      Operation = "return"

	OpAssign         Operation = "assign"
	OpAssignPlus     Operation = "assign_plus"
	OpAssignMinus    Operation = "assign_minus"
	OpAssignMultiply Operation = "assign_multiply"
	OpAssignDivide   Operation = "assign_divide"
)

// operations maps every known operation to whether it carries an operand
var operations = map[Operation]bool{
	OpTag: true, OpGoto: true, OpIfNotGoto: true,
	OpPushBool: true, OpPushNum: true, OpPushStr: true, OpPushVar: true,
	OpPop: false, OpPopToParams: true,
	OpLogicNot: false, OpLogicAnd: false, OpLogicOr: false,
	OpMore: false, OpMoreOrEq: false, OpLess: false, OpLessOrEq: false, OpEq: false,
	OpPlus: false, OpMinus: false, OpMultiply: false, OpDivide: false,
	OpFunction: true, OpFunctionEnd: false, OpCall: true, OpReturn: false,
	OpAssign: true, OpAssignPlus: true, OpAssignMinus: true, OpAssignMultiply: true, OpAssignDivide: true,
}

// Valid reports whether op is part of the instruction set
func (op Operation) Valid() bool {
	_, ok := operations[op]
	return ok
}

// HasOperand reports whether op takes an operand
func (op Operation) HasOperand() bool {
	return operations[op]
}

type Instruction struct {
	Op      Operation
	Operand string
}

// String returns the wire form of the instruction: "op" or "op,operand"
func (i Instruction) String() string {
	if !i.Op.HasOperand() {
		return string(i.Op)
	}

	return string(i.Op) + "," + i.Operand
}

// GetLexOperation maps an operator token to its intermediate-code operation
func GetLexOperation(t lexer.TokenType) (Operation, bool) {
	switch t {
	case lexer.OR:
		return OpLogicOr, true
	case lexer.AND:
		return OpLogicAnd, true
	case lexer.NOT:
		return OpLogicNot, true
	case lexer.GT:
		return OpMore, true
	case lexer.GE:
		return OpMoreOrEq, true
	case lexer.LT:
		return OpLess, true
	case lexer.LE:
		return OpLessOrEq, true
	case lexer.EQ:
		return OpEq, true
	case lexer.PLUS:
		return OpPlus, true
	case lexer.MINUS:
		return OpMinus, true
	case lexer.MULT:
		return OpMultiply, true
	case lexer.DIV:
		return OpDivide, true
	case lexer.ASSIGN:
		return OpAssign, true
	case lexer.PLUS_ASSIGN:
		return OpAssignPlus, true
	case lexer.MINUS_ASSIGN:
		return OpAssignMinus, true
	case lexer.MULT_ASSIGN:
		return OpAssignMultiply, true
	case lexer.DIV_ASSIGN:
		return OpAssignDivide, true
	default:
		return "", false
	}
}
