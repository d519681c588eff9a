package statemachine

import (
	"github.com/enetx/g"
	"github.com/google/uuid"
)

// Context describes the event a reaction was started for.
// State is the state delivered to an on-set binding, or the target state of
// the transition for transition bindings. Transition is None for on-set
// bindings. RunID identifies one reaction run in logs.
type Context struct {
	Machine    *Machine
	Phase      Phase
	State      State
	Transition g.Option[Transition]
	RunID      uuid.UUID
}

func newSetContext(m *Machine, state State) *Context {
	return &Context{
		Machine:    m,
		Phase:      PhaseSet,
		State:      state,
		Transition: g.None[Transition](),
	}
}

func newTransitionContext(m *Machine, phase Phase, t Transition) *Context {
	return &Context{
		Machine:    m,
		Phase:      phase,
		State:      t.To,
		Transition: g.Some(t),
	}
}
