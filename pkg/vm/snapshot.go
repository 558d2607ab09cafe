package vm

import (
	"fmt"
	"maps"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is the resumable state of a VM: everything but the program and the
// host-owned environment.
type Snapshot struct {
	Fingerprint string
	Entry       string
	State       State
	IP          int
	FP          int
	Stack       []Slot
	Pending     map[string]Value
	Result      Value
	Steps       int
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot captures the current state. Variable maps are copied.
func (m *VM) Snapshot() *Snapshot {
	slots := m.stack.Array()
	for i, s := range slots {
		if s.Kind == SlotVars {
			slots[i].Vars = maps.Clone(s.Vars)
		}
	}

	return &Snapshot{
		Fingerprint: m.program.Fingerprint,
		Entry:       m.entry,
		State:       m.state,
		IP:          m.ip,
		FP:          m.fp,
		Stack:       slots,
		Pending:     maps.Clone(m.pending),
		Result:      m.result,
		Steps:       m.steps,
	}
}

// Restore replaces the VM state with s. The snapshot must come from the same
// program and must not be mid-instruction (Running).
func (m *VM) Restore(s *Snapshot) error {
	if s.Fingerprint != m.program.Fingerprint {
		return ErrSnapshotMismatch
	}
	if s.State == Running {
		return fmt.Errorf("%w: cannot restore a running snapshot", ErrBusy)
	}

	m.stack.Reset()
	for _, slot := range s.Stack {
		if slot.Kind == SlotVars {
			if slot.Vars == nil {
				slot.Vars = make(map[string]Value)
			} else {
				slot.Vars = maps.Clone(slot.Vars)
			}
		}
		m.stack.Push(slot)
	}

	m.pending = maps.Clone(s.Pending)
	if m.pending == nil {
		m.pending = make(map[string]Value)
	}

	m.entry = s.Entry
	m.state = s.State
	m.ip = s.IP
	m.fp = s.FP
	m.result = s.Result
	m.steps = s.Steps

	m.logger.Debug("Restored snapshot", "function", m.entry, "state", m.state)

	return nil
}

// MarshalSnapshot serializes a snapshot to canonical CBOR.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("vm: unmarshal snapshot: %w", err)
	}
	return &s, nil
}
