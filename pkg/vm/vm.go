package vm

import (
	"baguette/pkg/stack"
	"fmt"

	"github.com/charmbracelet/log"
)

type State int

const (
	NotStarted State = iota
	Running
	Paused
	Complete
	Failed // the last run stopped on a runtime error
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// VM executes a Program against a host environment, one function call at a time.
type VM struct {
	program *Program
	env     Env
	funcs   HostFuncs

	stack   *stack.Stack[Slot] // evaluation values and call frames
	ip      int                // instruction pointer
	fp      int                // current frame pointer, noCaller when idle
	pending map[string]Value   // parameters bound for the next call

	state  State
	result Value
	entry  string // function passed to RunFunction

	maxSteps int // maximum steps per run (0 = unlimited)
	steps    int // steps executed in the current run

	logger *log.Logger
}

type Option func(*VM)

// WithMaxSteps limits the number of instructions a single run may execute
func WithMaxSteps(n int) Option {
	return func(m *VM) { m.maxSteps = n }
}

// WithLogger sets the logger used for state transitions
func WithLogger(l *log.Logger) Option {
	return func(m *VM) { m.logger = l }
}

// New decodes program text and creates a VM bound to env and funcs.
// A nil env is replaced by an empty one.
func New(text string, env Env, funcs HostFuncs, opts ...Option) (*VM, error) {
	p, err := LoadProgram(text)
	if err != nil {
		return nil, err
	}

	return NewFromProgram(p, env, funcs, opts...), nil
}

// NewFromProgram creates a VM over an already loaded program
func NewFromProgram(p *Program, env Env, funcs HostFuncs, opts ...Option) *VM {
	if env == nil {
		env = Env{}
	}
	if funcs == nil {
		funcs = HostFuncs{}
	}

	m := &VM{
		program: p,
		env:     env,
		funcs:   funcs,
		stack:   stack.NewStack[Slot](),
		fp:      noCaller,
		pending: make(map[string]Value),
		state:   NotStarted,
	}

	for _, o := range opts {
		o(m)
	}

	if m.logger == nil {
		m.logger = log.Default()
	}

	return m
}

// State returns the current run-state
func (m *VM) State() State {
	return m.state
}

// Result returns the value of the last completed run
func (m *VM) Result() Value {
	return m.result
}

// Env returns the environment-variable tree shared with the host
func (m *VM) Env() Env {
	return m.env
}

// Program returns the loaded program
func (m *VM) Program() *Program {
	return m.program
}

// RunFunction resets the VM and runs the named function to completion or to
// the next pause. A pause is reported as ErrPaused with an undefined value.
func (m *VM) RunFunction(name string) (Value, error) {
	if m.state == Paused || m.state == Running {
		return Undefined, fmt.Errorf("%w: cannot run %s while %s", ErrBusy, name, m.state)
	}

	entry, ok := m.program.Functions[name]
	if !ok {
		return Undefined, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	m.stack.Reset()
	m.fp = noCaller
	m.pending = make(map[string]Value)
	m.result = Undefined
	m.steps = 0
	m.entry = name

	m.pushFrame(noCaller, noCaller)
	m.ip = entry
	m.state = Running

	m.logger.Debug("Running function", "function", name)

	return m.run()
}

// Continue resumes a paused run, supplying v as the result of the pausing call.
func (m *VM) Continue(v Value) (Value, error) {
	if m.state != Paused {
		return Undefined, fmt.Errorf("%w: state is %s", ErrNotPaused, m.state)
	}

	m.push(v)
	m.state = Running

	m.logger.Debug("Continuing", "function", m.entry, "value", v)

	return m.run()
}

// run executes instructions until the state leaves Running
func (m *VM) run() (Value, error) {
	for m.state == Running {
		if m.maxSteps > 0 && m.steps >= m.maxSteps {
			return Undefined, m.fail(ErrMaxStepsExceeded)
		}

		if err := m.step(); err != nil {
			return Undefined, m.fail(err)
		}
		m.steps++
	}

	if m.state == Paused {
		m.logger.Debug("Paused", "function", m.entry, "ip", m.ip)
		return Undefined, ErrPaused
	}

	m.logger.Debug("Complete", "function", m.entry, "result", m.result, "steps", m.steps)

	return m.result, nil
}

// fail marks the run as failed and wraps err with the faulting instruction
func (m *VM) fail(err error) error {
	m.state = Failed

	rerr := &RuntimeError{Err: err, IP: m.ip}
	if m.ip >= 0 && m.ip < len(m.program.Instructions) {
		rerr.Instr = m.program.Instructions[m.ip]
	}

	m.logger.Debug("Run failed", "function", m.entry, "error", rerr)

	return rerr
}
