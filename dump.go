package statemachine

import (
	"io"

	"github.com/enetx/g"
)

// Dump renders the configuration and runtime state of the machine: name,
// current state, last transition and every declared state, input and
// transition.
func (m *Machine) Dump() g.String {
	b := g.NewBuilder()

	b.WriteString(g.Format("State Machine '{}'\n", m.name))
	b.WriteString(g.Format("  Current State: {}\n", m.current))

	if m.last.IsSome() {
		b.WriteString(g.Format("  Last Transition: {}\n", m.last.Some().String()))
	} else {
		b.WriteString("  Last Transition: none\n")
	}

	b.WriteString(g.Format("  States: {}\n", len(m.table.states)))
	for state := range m.table.states.Iter() {
		b.WriteString(g.Format("    {}\n", state))
	}

	b.WriteString(g.Format("  Inputs: {}\n", len(m.table.inputs)))
	for input := range m.table.inputs.Iter() {
		b.WriteString(g.Format("    {}\n", input))
	}

	b.WriteString(g.Format("  Transitions: {}\n", len(m.table.transitions)))
	for t := range m.table.transitions.Iter() {
		b.WriteString(g.Format("    {}\n", t.String()))
	}

	return b.String()
}

// DumpConfig writes Dump to w.
func (m *Machine) DumpConfig(w io.Writer) error {
	_, err := io.WriteString(w, string(m.Dump()))
	return err
}
