// Package statemachine provides a deterministic finite state machine for
// modelling device behaviour: a fixed set of named states, a fixed set of
// named inputs and an explicit transition table. Observers can react to
// state changes in three phases (set, before transition, after transition),
// and bindings turn those events into automation reactions.
package statemachine

import (
	"context"
	"fmt"

	"github.com/enetx/g"
)

// NewMachine creates a machine over table starting in initial.
// The initial state is assigned directly; call Setup to announce it to
// on-set observers.
func NewMachine(table *Table, initial State, opts ...Option) (*Machine, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	if initial == "" {
		return nil, ErrNoInitialState
	}

	if !table.ValidateState(initial) {
		return nil, &ErrInvalidState{State: initial}
	}

	m := &Machine{
		name:    "state_machine",
		table:   table,
		initial: initial,
		current: initial,
		last:    g.None[Transition](),
		logger:  Logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With("component", "state_machine", "machine", m.name)

	return m, nil
}

// MustNewMachine is like NewMachine but panics on error.
func MustNewMachine(table *Table, initial State, opts ...Option) *Machine {
	m, err := NewMachine(table, initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}

	return m
}

// Name returns the machine name.
func (m *Machine) Name() string { return m.name }

// Table returns the transition table the machine runs on.
func (m *Machine) Table() *Table { return m.table }

// Initial returns the state the machine was created in.
func (m *Machine) Initial() State { return m.initial }

// Current returns the current state.
func (m *Machine) Current() State { return m.current }

// LastTransition returns the most recently applied transition, or None if
// Apply never succeeded. Set does not clear it.
func (m *Machine) LastTransition() g.Option[Transition] { return m.last }

// Executor returns the executor set with WithExecutor, or nil.
func (m *Machine) Executor() Executor { return m.exec }

// SinglePhase reports whether the before-transition phase is disabled.
func (m *Machine) SinglePhase() bool { return m.singlePhase }

// Setup announces the current state to on-set observers. It is the only
// way to deliver an on-set event without a state change and is meant to be
// called once when the host starts.
func (m *Machine) Setup() {
	m.logger.Info("state machine ready", "state", m.current)
	m.hub.set.deliver(m.current)
}

// Set moves the machine to state without consulting the transition table.
// Setting the current state again is a no-op and notifies nobody.
// The last transition is left untouched.
func (m *Machine) Set(state State) error {
	if m.committing {
		err := &ErrTransitionInProgress{Pending: m.pending()}
		m.logger.Warn("set rejected", "state", state, "error", err)
		return err
	}

	if !m.table.ValidateState(state) {
		err := &ErrInvalidState{State: state}
		m.logger.Error("invalid state", "state", state)
		return err
	}

	if state == m.current {
		m.logger.Debug("state already set", "state", state)
		return nil
	}

	m.logger.Debug("set state", "from", m.current, "to", state)
	m.current = state
	m.hub.set.deliver(state)

	return nil
}

// Apply looks up the transition for input from the current state and
// performs it. Before-transition observers see the machine in t.From;
// after-transition observers see it in t.To with LastTransition == t.
// On error nothing changed.
func (m *Machine) Apply(input Input) (Transition, error) {
	if m.committing {
		err := &ErrTransitionInProgress{Pending: m.pending()}
		m.logger.Warn("input rejected", "input", input, "error", err)
		return Transition{}, err
	}

	if !m.table.ValidateInput(input) {
		err := &ErrInvalidInput{Input: input}
		m.logger.Error("invalid input", "input", input)
		return Transition{}, err
	}

	found := m.table.Lookup(m.current, input)
	if found.IsNone() {
		err := &ErrNoTransition{From: m.current, Input: input}
		m.logger.Warn("no transition", "input", input, "state", m.current)
		return Transition{}, err
	}

	t := found.Some()

	if !m.singlePhase {
		m.deliverBefore(t)
	}

	m.current = t.To
	m.last = g.Some(t)

	m.logger.Debug("transitioned", "input", input, "from", t.From, "to", t.To)
	m.hub.after.deliver(t)

	return t, nil
}

// deliverBefore runs the before-transition observers with mutations
// locked out, so they all see the machine in t.From.
func (m *Machine) deliverBefore(t Transition) {
	m.committing = true
	m.pendingTransition = t
	defer func() { m.committing = false }()

	m.hub.before.deliver(t)
}

func (m *Machine) pending() Transition { return m.pendingTransition }

// run hands fn to the machine's executor.
func (m *Machine) run(ctx context.Context, fn func()) error {
	if m.exec == nil {
		return ErrNoExecutor
	}

	return m.exec.Run(ctx, fn)
}
