package vm

import (
	"baguette/pkg/parser/codegen"
	"errors"
	"fmt"
)

var (
	ErrDecode              = errors.New("malformed instruction")
	ErrUnknownTag          = errors.New("unknown tag")
	ErrUnknownFunction     = errors.New("unknown function")
	ErrUnknownVariable     = errors.New("unknown variable")
	ErrUnknownPath         = errors.New("unknown environment path")
	ErrNotAValue           = errors.New("environment entry is a map, not a value")
	ErrStackCorruption     = errors.New("stack corruption")
	ErrUnknownHostFunction = errors.New("unknown environment function")
	ErrUnsupportedArity    = errors.New("unsupported environment function arity")
	ErrHostCall            = errors.New("environment function failed")
	ErrNotPaused           = errors.New("vm is not paused")
	ErrBusy                = errors.New("vm is paused or running")
	ErrPaused              = errors.New("vm paused")
	ErrMaxStepsExceeded    = errors.New("maximum steps exceeded")
	ErrSnapshotMismatch    = errors.New("snapshot does not match program")
)

// RuntimeError is a fatal error raised while executing an instruction.
type RuntimeError struct {
	Err   error
	IP    int
	Instr codegen.Instruction
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%v (at %d: %s)", e.Err, e.IP, e.Instr)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
