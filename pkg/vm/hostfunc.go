package vm

// MaxHostArity is the largest number of arguments an environment function may take.
const MaxHostArity = 3

// HostFunc is an environment function callable from scripts as game.<name>.
// Arguments are supplied in declaration order. When PauseAfterComplete is set
// the return value is discarded and the VM pauses until Continue supplies one.
type HostFunc struct {
	Arity              int
	PauseAfterComplete bool
	Impl               func(args []Value) (Value, error)
}

// HostFuncs maps names (without the game. prefix) to environment functions.
type HostFuncs map[string]HostFunc

// Pausing returns a copy of h that pauses the VM after it completes.
func (h HostFunc) Pausing() HostFunc {
	h.PauseAfterComplete = true
	return h
}

func Func0(fn func() Value) HostFunc {
	return HostFunc{Arity: 0, Impl: func([]Value) (Value, error) { return fn(), nil }}
}

func Func1(fn func(a Value) Value) HostFunc {
	return HostFunc{Arity: 1, Impl: func(args []Value) (Value, error) { return fn(args[0]), nil }}
}

func Func2(fn func(a, b Value) Value) HostFunc {
	return HostFunc{Arity: 2, Impl: func(args []Value) (Value, error) { return fn(args[0], args[1]), nil }}
}

func Func3(fn func(a, b, c Value) Value) HostFunc {
	return HostFunc{Arity: 3, Impl: func(args []Value) (Value, error) { return fn(args[0], args[1], args[2]), nil }}
}
