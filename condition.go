package statemachine

import "github.com/enetx/g"

// Condition is a predicate evaluated on demand by automation decision
// points.
type Condition interface {
	Check() bool
}

// Value yields a condition operand when the condition is checked.
type Value[T any] func() T

// Static returns a Value that always yields v.
func Static[T any](v T) Value[T] {
	return func() T { return v }
}

// StateCondition holds when the machine is in the state Value yields.
type StateCondition struct {
	machine *Machine
	value   Value[State]
}

// NewStateCondition creates a state condition.
func NewStateCondition(m *Machine, value Value[State]) *StateCondition {
	return &StateCondition{machine: m, value: value}
}

// StateIs is NewStateCondition with a fixed state.
func StateIs(m *Machine, state State) *StateCondition {
	return NewStateCondition(m, Static(state))
}

func (c *StateCondition) Check() bool {
	return c.machine.Current() == c.value()
}

// TransitionCondition holds when the last applied transition matches the
// present fields. A nil field is a wildcard. It never holds before the first
// transition.
type TransitionCondition struct {
	machine *Machine

	From  Value[State]
	Input Value[Input]
	To    Value[State]
}

// NewTransitionCondition creates a transition condition with all fields
// unset; fill in the ones to compare.
func NewTransitionCondition(m *Machine) *TransitionCondition {
	return &TransitionCondition{machine: m}
}

// LastTransitionMatches builds a transition condition from a pattern.
func LastTransitionMatches(m *Machine, p TransitionPattern) *TransitionCondition {
	c := NewTransitionCondition(m)
	if p.From.IsSome() {
		c.From = Static(p.From.Some())
	}

	if p.Input.IsSome() {
		c.Input = Static(p.Input.Some())
	}

	if p.To.IsSome() {
		c.To = Static(p.To.Some())
	}

	return c
}

func (c *TransitionCondition) Check() bool {
	last := c.machine.LastTransition()
	if last.IsNone() {
		return false
	}

	return c.pattern().Match(last.Some())
}

func (c *TransitionCondition) pattern() TransitionPattern {
	p := TransitionPattern{From: g.None[State](), Input: g.None[Input](), To: g.None[State]()}

	if c.From != nil {
		p.From = g.Some(c.From())
	}

	if c.Input != nil {
		p.Input = g.Some(c.Input())
	}

	if c.To != nil {
		p.To = g.Some(c.To())
	}

	return p
}
