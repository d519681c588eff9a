package statemachine

import (
	"encoding/json"
)

// Status is a serializable snapshot of the machine for reporting.
// It is not meant to restore a machine.
type Status struct {
	Name           string      `json:"name"`
	Current        State       `json:"current"`
	LastTransition *Transition `json:"last_transition,omitempty"`
}

// Status returns a snapshot of the machine.
func (m *Machine) Status() Status {
	s := Status{Name: m.name, Current: m.current}
	if m.last.IsSome() {
		t := m.last.Some()
		s.LastTransition = &t
	}

	return s
}

// MarshalJSON implements the json.Marshaler interface.
func (m *Machine) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Status())
}
