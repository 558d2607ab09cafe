package vm

// A call frame is five fixed slots on the operand stack, relative to the
// frame pointer. Nothing may pop at or below fp+frameSize.
const (
	slotReturn   = iota // return-value placeholder
	slotCallerFP        // caller frame pointer
	slotCallerIP        // caller instruction pointer
	slotParams          // parameter map
	slotLocals          // local-variable map
	frameSize
)

// noCaller is the saved frame pointer of the outermost frame.
const noCaller = -1

type SlotKind int

const (
	SlotValue SlotKind = iota
	SlotLink
	SlotVars
)

// Slot is one operand-stack entry: an evaluation value or frame bookkeeping.
type Slot struct {
	Kind  SlotKind
	Value Value
	Link  int
	Vars  map[string]Value
}

func valueSlot(v Value) Slot {
	return Slot{Kind: SlotValue, Value: v}
}

func linkSlot(n int) Slot {
	return Slot{Kind: SlotLink, Link: n}
}

func varsSlot(m map[string]Value) Slot {
	return Slot{Kind: SlotVars, Vars: m}
}

// pushFrame reserves a new frame above the current stack top, capturing the
// caller's pointers and the pending parameters, and makes it current.
func (m *VM) pushFrame(callerFP, callerIP int) {
	base := m.stack.Size()

	m.stack.Push(valueSlot(Undefined))
	m.stack.Push(linkSlot(callerFP))
	m.stack.Push(linkSlot(callerIP))
	m.stack.Push(varsSlot(m.pending))
	m.stack.Push(varsSlot(make(map[string]Value)))

	m.pending = make(map[string]Value)
	m.fp = base
}

func (m *VM) params() map[string]Value {
	return m.stack.At(m.fp + slotParams).Vars
}

func (m *VM) locals() map[string]Value {
	return m.stack.At(m.fp + slotLocals).Vars
}

// checkPop rejects a pop that would reach into the current frame's reserved slots
func (m *VM) checkPop() error {
	if m.stack.Size()-1 < m.fp+frameSize {
		return ErrStackCorruption
	}
	return nil
}

// pop removes the top evaluation value
func (m *VM) pop() (Value, error) {
	if err := m.checkPop(); err != nil {
		return Undefined, err
	}

	slot, _ := m.stack.Pop()
	if slot.Kind != SlotValue {
		return Undefined, ErrStackCorruption
	}

	return slot.Value, nil
}

func (m *VM) push(v Value) {
	m.stack.Push(valueSlot(v))
}

// unwind leaves the current frame with ret as its result. The callee's return
// slot stays on the caller's stack as the call's pushed result.
func (m *VM) unwind(ret Value) error {
	base := m.fp
	m.stack.Set(base+slotReturn, valueSlot(ret))

	callerFP := m.stack.At(base + slotCallerFP).Link
	callerIP := m.stack.At(base + slotCallerIP).Link

	if callerFP == noCaller {
		m.result = ret
		m.state = Complete
		m.fp = noCaller
		m.stack.Reset()
		return nil
	}

	m.fp = callerFP
	m.ip = callerIP
	for m.stack.Size() > base+1 {
		if err := m.checkPop(); err != nil {
			return err
		}
		m.stack.Pop()
	}

	return nil
}
