package statemachine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNoStates is returned when a table is built without any state.
	ErrNoStates = errors.New("statemachine: at least one state must be declared")
	// ErrNoInitialState is returned when a machine is created without an initial state.
	ErrNoInitialState = errors.New("statemachine: initial state is required")
	// ErrNilTable is returned when a machine is created without a transition table.
	ErrNilTable = errors.New("statemachine: transition table is required")
	// ErrLoopStopped is returned when work is submitted to a stopped Loop.
	ErrLoopStopped = errors.New("statemachine: loop is stopped")
	// ErrNoExecutor is returned by actions that need to reach a machine
	// created without WithExecutor.
	ErrNoExecutor = errors.New("statemachine: machine has no executor")
)

// ErrInvalidState is returned by Set when the state is not part of the
// configured state set.
type ErrInvalidState struct {
	State State
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("statemachine: invalid state %q", e.State)
}

// ErrInvalidInput is returned by Apply when the input is not part of the
// configured input set.
type ErrInvalidInput struct {
	Input Input
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("statemachine: invalid input %q", e.Input)
}

// ErrNoTransition is returned by Apply when the input is valid but no
// transition leaves the current state for it.
type ErrNoTransition struct {
	From  State
	Input Input
}

func (e *ErrNoTransition) Error() string {
	return fmt.Sprintf("statemachine: no transition for input %q from state %q", e.Input, e.From)
}

// ErrTransitionInProgress is returned when Set or Apply is called from a
// before-transition observer, i.e. before the pending transition has been
// committed.
type ErrTransitionInProgress struct {
	Pending Transition
}

func (e *ErrTransitionInProgress) Error() string {
	return fmt.Sprintf("statemachine: transition %s is not committed yet", e.Pending)
}

// ErrUndeclaredState is returned when a transition references a state that
// was not declared.
type ErrUndeclaredState struct {
	State      State
	Transition Transition
}

func (e *ErrUndeclaredState) Error() string {
	return fmt.Sprintf("statemachine: transition %s references undeclared state %q", e.Transition, e.State)
}

// ErrUndeclaredInput is returned when a transition references an input that
// was not declared.
type ErrUndeclaredInput struct {
	Input      Input
	Transition Transition
}

func (e *ErrUndeclaredInput) Error() string {
	return fmt.Sprintf("statemachine: transition %s references undeclared input %q", e.Transition, e.Input)
}

// ErrAmbiguousTransition is returned when two transitions share the same
// source state and input.
type ErrAmbiguousTransition struct {
	From  State
	Input Input
}

func (e *ErrAmbiguousTransition) Error() string {
	return fmt.Sprintf("statemachine: ambiguous transitions from state %q on input %q", e.From, e.Input)
}

// ErrReaction wraps an error returned by a reaction action or the panic it
// raised. It is only logged; reactions never report back into the machine.
type ErrReaction struct {
	Reaction string
	RunID    uuid.UUID
	Err      error
}

func (e *ErrReaction) Error() string {
	return fmt.Sprintf("statemachine: reaction %q (run %s): %v", e.Reaction, e.RunID, e.Err)
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *ErrReaction) Unwrap() error { return e.Err }

// IsInvalidStateError reports whether err is an *ErrInvalidState.
func IsInvalidStateError(err error) bool {
	var e *ErrInvalidState
	return errors.As(err, &e)
}

// IsInvalidInputError reports whether err is an *ErrInvalidInput.
func IsInvalidInputError(err error) bool {
	var e *ErrInvalidInput
	return errors.As(err, &e)
}

// IsNoTransitionError reports whether err is an *ErrNoTransition.
func IsNoTransitionError(err error) bool {
	var e *ErrNoTransition
	return errors.As(err, &e)
}
