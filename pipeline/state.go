package pipeline

import "fmt"

// State is one phase of a bundling run. A run moves strictly forward
// through the non-terminal states; any failure transitions directly to
// StateFailed, skipping everything downstream.
type State string

const (
	StateIdle         State = "idle"
	StateProvisioning State = "provisioning"
	StateBuilding     State = "building"
	StateMerging      State = "merging"
	StateVerifying    State = "verifying"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// IsTerminal reports whether the state ends a run.
func IsTerminal(s State) bool {
	return s == StateDone || s == StateFailed
}

// machine validates state transitions for one run. A rerun needs a fresh
// machine; there is no reset, matching the single-shot model.
type machine struct {
	current State
}

func newMachine() *machine {
	return &machine{current: StateIdle}
}

func (m *machine) to(next State) error {
	if !allowed(m.current, next) {
		return fmt.Errorf("disallowed transition: %s -> %s", m.current, next)
	}
	m.current = next
	return nil
}

func allowed(from, to State) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StateFailed {
		return from != StateIdle
	}
	switch from {
	case StateIdle:
		return to == StateProvisioning || to == StateBuilding
	case StateProvisioning:
		return to == StateBuilding
	case StateBuilding:
		return to == StateMerging
	case StateMerging:
		return to == StateVerifying || to == StateDone
	case StateVerifying:
		return to == StateDone
	default:
		return false
	}
}
