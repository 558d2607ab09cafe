package vm

import (
	"baguette/pkg/parser/codegen"
	"math"
)

// evalBinary applies a binary operator; left is the operand pushed first.
func evalBinary(op codegen.Operation, left, right Value) Value {
	switch op {
	case codegen.OpLogicAnd:
		if !left.Truthy() {
			return left
		}
		return right

	case codegen.OpLogicOr:
		if left.Truthy() {
			return left
		}
		return right

	case codegen.OpEq:
		return NewBool(left.Equal(right))

	case codegen.OpMore, codegen.OpMoreOrEq, codegen.OpLess, codegen.OpLessOrEq:
		return NewBool(compare(op, left, right))

	case codegen.OpPlus:
		if left.Kind == KindString || right.Kind == KindString {
			return NewString(left.String() + right.String())
		}
		return NewNumber(left.AsFloat64() + right.AsFloat64())

	case codegen.OpMinus:
		return NewNumber(left.AsFloat64() - right.AsFloat64())

	case codegen.OpMultiply:
		return NewNumber(left.AsFloat64() * right.AsFloat64())

	case codegen.OpDivide:
		return NewNumber(left.AsFloat64() / right.AsFloat64())
	}

	return Undefined
}

// compare orders two strings lexically and anything else numerically;
// comparisons involving NaN are false
func compare(op codegen.Operation, left, right Value) bool {
	if left.Kind == KindString && right.Kind == KindString {
		a, b := left.Str, right.Str
		switch op {
		case codegen.OpMore:
			return a > b
		case codegen.OpMoreOrEq:
			return a >= b
		case codegen.OpLess:
			return a < b
		default:
			return a <= b
		}
	}

	a, b := left.AsFloat64(), right.AsFloat64()
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}

	switch op {
	case codegen.OpMore:
		return a > b
	case codegen.OpMoreOrEq:
		return a >= b
	case codegen.OpLess:
		return a < b
	default:
		return a <= b
	}
}
