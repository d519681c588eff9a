package statemachine

import (
	"log/slog"

	"github.com/enetx/g"
)

type (
	// State is a named state of the machine.
	State g.String
	// Input is a named input that may move the machine between states.
	Input g.String

	// SetObserver is called with the new state after Set changed it.
	SetObserver func(state State)
	// TransitionObserver is called with the transition being applied.
	// Before-transition observers run while the machine is still in
	// t.From, after-transition observers run once it is in t.To.
	TransitionObserver func(t Transition)

	// Transition is a single (from, input, to) entry of the transition table.
	Transition struct {
		From  State `json:"from"`
		Input Input `json:"input"`
		To    State `json:"to"`
	}

	// Machine is the state machine runtime. It owns the current state, the
	// last applied transition and the observer lists for the three event
	// phases.
	//
	// A Machine is not safe for concurrent use. All calls must happen on one
	// execution context; see Loop.
	Machine struct {
		name    string
		table   *Table
		initial State
		current State
		last    g.Option[Transition]

		singlePhase       bool
		committing        bool
		pendingTransition Transition

		hub    hub
		exec   Executor
		logger *slog.Logger
	}
)

// String renders the transition the way the config dump lists it.
func (t Transition) String() string {
	return string(t.From) + " - " + string(t.Input) + " -> " + string(t.To)
}

// Logger is the default logger used when none is provided.
var Logger = slog.Default()
