package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDefinition is returned when a definition fails struct validation.
	ErrInvalidDefinition = errors.New("config: invalid state machine definition")
	// ErrReadDefinition is returned when a definition file cannot be read.
	ErrReadDefinition = errors.New("config: failed to read state machine definition")
	// ErrParseDefinition is returned when a definition is not valid YAML.
	ErrParseDefinition = errors.New("config: failed to parse state machine definition")
)

// ErrDuplicateName is returned when two states or two inputs share a name.
type ErrDuplicateName struct {
	Kind string
	Name string
}

func (e *ErrDuplicateName) Error() string {
	return fmt.Sprintf("config: %s names must be unique, %q is declared more than once", e.Kind, e.Name)
}

// ErrUndefinedState is returned when a transition or the initial state
// refers to a state that is not declared.
type ErrUndefinedState struct {
	Field string
	State string
	Input string
}

func (e *ErrUndefinedState) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("config: undefined `%s` state %q", e.Field, e.State)
	}

	return fmt.Sprintf("config: undefined `%s` state %q used in transition for input %q", e.Field, e.State, e.Input)
}

// ErrInvalidAction is returned when an action does not set exactly one
// action key or refers to an undeclared name.
type ErrInvalidAction struct {
	Owner  string
	Reason string
}

func (e *ErrInvalidAction) Error() string {
	return fmt.Sprintf("config: invalid action in %s: %s", e.Owner, e.Reason)
}
