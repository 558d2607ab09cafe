package vm

import (
	"baguette/pkg/parser/codegen"
	"fmt"
	"strconv"
	"strings"
)

// step executes the instruction at ip and advances ip by one. Branches set
// ip to their target marker, so execution resumes just after it.
func (m *VM) step() error {
	if m.ip < 0 || m.ip >= len(m.program.Instructions) {
		return fmt.Errorf("%w: instruction pointer %d out of program", ErrDecode, m.ip)
	}

	in := m.program.Instructions[m.ip]

	switch in.Op {
	case codegen.OpTag, codegen.OpFunction:
		// markers

	case codegen.OpGoto:
		pos, err := m.tag(in.Operand)
		if err != nil {
			return err
		}
		m.ip = pos

	case codegen.OpIfNotGoto:
		pos, err := m.tag(in.Operand)
		if err != nil {
			return err
		}
		cond, err := m.pop()
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			m.ip = pos
		}

	case codegen.OpPushBool:
		m.push(NewBool(in.Operand == "true"))

	case codegen.OpPushNum:
		f, err := strconv.ParseFloat(in.Operand, 64)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		m.push(NewNumber(f))

	case codegen.OpPushStr:
		m.push(NewString(in.Operand))

	case codegen.OpPushVar:
		v, err := m.readVar(in.Operand)
		if err != nil {
			return err
		}
		m.push(v)

	case codegen.OpPop:
		if _, err := m.pop(); err != nil {
			return err
		}

	case codegen.OpPopToParams:
		v, err := m.pop()
		if err != nil {
			return err
		}
		m.pending[in.Operand] = v

	case codegen.OpLogicNot:
		v, err := m.pop()
		if err != nil {
			return err
		}
		m.push(NewBool(!v.Truthy()))

	case codegen.OpLogicAnd, codegen.OpLogicOr,
		codegen.OpMore, codegen.OpMoreOrEq, codegen.OpLess, codegen.OpLessOrEq, codegen.OpEq,
		codegen.OpPlus, codegen.OpMinus, codegen.OpMultiply, codegen.OpDivide:
		right, err := m.pop()
		if err != nil {
			return err
		}
		left, err := m.pop()
		if err != nil {
			return err
		}
		m.push(evalBinary(in.Op, left, right))

	case codegen.OpCall:
		if strings.HasPrefix(in.Operand, codegen.EnvPrefix) {
			if err := m.callHost(strings.TrimPrefix(in.Operand, codegen.EnvPrefix)); err != nil {
				return err
			}
			break
		}
		entry, ok := m.program.Functions[in.Operand]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFunction, in.Operand)
		}
		m.pushFrame(m.fp, m.ip)
		m.ip = entry

	case codegen.OpReturn:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if err := m.unwind(v); err != nil {
			return err
		}

	case codegen.OpFunctionEnd:
		if err := m.unwind(Undefined); err != nil {
			return err
		}

	case codegen.OpAssign:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if err := m.writeVar(in.Operand, v); err != nil {
			return err
		}

	case codegen.OpAssignPlus, codegen.OpAssignMinus, codegen.OpAssignMultiply, codegen.OpAssignDivide:
		v, err := m.pop()
		if err != nil {
			return err
		}
		cur, err := m.readVar(in.Operand)
		if err != nil {
			return err
		}
		if err := m.writeVar(in.Operand, evalBinary(compoundOps[in.Op], cur, v)); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown instruction %s", ErrDecode, in.Op)
	}

	if m.state != Complete {
		m.ip++
	}

	return nil
}

var compoundOps = map[codegen.Operation]codegen.Operation{
	codegen.OpAssignPlus:     codegen.OpPlus,
	codegen.OpAssignMinus:    codegen.OpMinus,
	codegen.OpAssignMultiply: codegen.OpMultiply,
	codegen.OpAssignDivide:   codegen.OpDivide,
}

func (m *VM) tag(name string) (int, error) {
	pos, ok := m.program.Tags[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTag, name)
	}
	return pos, nil
}

// readVar resolves parameters, then locals, then the environment tree
func (m *VM) readVar(name string) (Value, error) {
	if v, ok := m.params()[name]; ok {
		return v, nil
	}
	if v, ok := m.locals()[name]; ok {
		return v, nil
	}
	if strings.HasPrefix(name, codegen.EnvPrefix) {
		return m.env.Lookup(strings.TrimPrefix(name, codegen.EnvPrefix))
	}
	if name == "undefined" {
		return Undefined, nil
	}

	return Undefined, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
}

// writeVar stores into the environment for game.* names, into the parameter
// map when name is a parameter, and into the locals otherwise
func (m *VM) writeVar(name string, v Value) error {
	if strings.HasPrefix(name, codegen.EnvPrefix) {
		return m.env.Store(strings.TrimPrefix(name, codegen.EnvPrefix), v)
	}

	if params := m.params(); params != nil {
		if _, ok := params[name]; ok {
			params[name] = v
			return nil
		}
	}
	m.locals()[name] = v

	return nil
}

// callHost dispatches game.<name>. Arguments are popped last first and
// passed in declaration order.
func (m *VM) callHost(name string) error {
	fn, ok := m.funcs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHostFunction, name)
	}
	if fn.Arity < 0 || fn.Arity > MaxHostArity {
		return fmt.Errorf("%w: %s takes %d", ErrUnsupportedArity, name, fn.Arity)
	}
	if fn.Impl == nil {
		return fmt.Errorf("%w: %s has no implementation", ErrHostCall, name)
	}

	args := make([]Value, fn.Arity)
	for i := fn.Arity - 1; i >= 0; i-- {
		v, err := m.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	ret, err := fn.Impl(args)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrHostCall, name, err)
	}

	if fn.PauseAfterComplete {
		m.state = Paused
		return nil
	}
	m.push(ret)

	return nil
}
