// Package config loads state machine definitions from YAML.
//
// A definition lists states and inputs; each input carries the transitions
// it drives, either as "FROM -> TO" shorthand or as a mapping with its own
// actions:
//
//	name: Door
//	initial_state: CLOSED
//	states:
//	  - CLOSED
//	  - name: OPEN
//	    on_enter:
//	      - log: door opened
//	inputs:
//	  - name: OPEN_DOOR
//	    transitions:
//	      - CLOSED -> OPEN
//	  - name: CLOSE_DOOR
//	    transitions:
//	      - from: OPEN
//	        to: CLOSED
//	        action:
//	          - delay: 1s
//	          - log: closed
//
// Actions are `transition: INPUT`, `set: STATE`, `log: TEXT`,
// `delay: DURATION` and the conditional `if`, which runs its `then` steps
// when the machine is in a state or its last transition matches:
//
//	on_enter:
//	  - if:
//	      transition:
//	        from: CLOSING
//	      then:
//	        - log: reopened while closing
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/enetx/g"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Definition is a parsed state machine definition.
type Definition struct {
	Name         string     `yaml:"name"`
	InitialState string     `yaml:"initial_state"`
	Diagram      bool       `yaml:"diagram"`
	States       []StateDef `yaml:"states" validate:"required,min=1,dive"`
	Inputs       []InputDef `yaml:"inputs" validate:"required,min=1,dive"`
}

// StateDef declares a state and its automations.
type StateDef struct {
	Name    string      `yaml:"name" validate:"required"`
	OnEnter []ActionDef `yaml:"on_enter" validate:"dive"`
	OnLeave []ActionDef `yaml:"on_leave" validate:"dive"`
	OnSet   []ActionDef `yaml:"on_set" validate:"dive"`
}

// InputDef declares an input, the transitions it drives and an action run
// on any of them.
type InputDef struct {
	Name        string          `yaml:"name" validate:"required"`
	Action      []ActionDef     `yaml:"action" validate:"dive"`
	Transitions []TransitionDef `yaml:"transitions" validate:"omitempty,min=1,dive"`
}

// TransitionDef declares one transition of the enclosing input.
type TransitionDef struct {
	From   string      `yaml:"from" validate:"required"`
	To     string      `yaml:"to" validate:"required"`
	Action []ActionDef `yaml:"action" validate:"dive"`
}

// ActionDef is one automation step. Exactly one field must be set.
type ActionDef struct {
	Transition string        `yaml:"transition"`
	Set        string        `yaml:"set"`
	Log        string        `yaml:"log"`
	Delay      time.Duration `yaml:"delay" validate:"gte=0"`
	If         *IfDef        `yaml:"if"`
}

// IfDef runs Then when its condition holds. Exactly one of State or
// Transition must be set.
type IfDef struct {
	State      string           `yaml:"state"`
	Transition *TransitionMatch `yaml:"transition"`
	Then       []ActionDef      `yaml:"then" validate:"required,min=1,dive"`
}

// TransitionMatch selects last transitions. Empty fields match anything.
type TransitionMatch struct {
	From  string `yaml:"from"`
	Input string `yaml:"input"`
	To    string `yaml:"to"`
}

// UnmarshalYAML accepts a bare state name as shorthand.
func (s *StateDef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Name = value.Value
		return nil
	}

	type plain StateDef
	return value.Decode((*plain)(s))
}

// UnmarshalYAML accepts a bare input name as shorthand.
func (i *InputDef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		i.Name = value.Value
		return nil
	}

	type plain InputDef
	return value.Decode((*plain)(i))
}

// UnmarshalYAML accepts "FROM -> TO" as shorthand.
func (t *TransitionDef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		from, to, ok := strings.Cut(value.Value, "->")
		if !ok {
			return fmt.Errorf("line %d: transition mapping must contain '->'", value.Line)
		}

		t.From, t.To = strings.TrimSpace(from), strings.TrimSpace(to)
		return nil
	}

	type plain TransitionDef
	return value.Decode((*plain)(t))
}

// Parse decodes and validates a definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseDefinition, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Load reads, decodes and validates the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadDefinition, err)
	}

	return Parse(data)
}

var validate = validator.New()

// Validate checks the structure of the definition, name uniqueness and
// that every referenced state and input is declared.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	states := g.NewSet[string]()
	for _, s := range d.States {
		if states.Contains(s.Name) {
			return &ErrDuplicateName{Kind: "state", Name: s.Name}
		}
		states.Insert(s.Name)
	}

	inputs := g.NewSet[string]()
	for _, i := range d.Inputs {
		if inputs.Contains(i.Name) {
			return &ErrDuplicateName{Kind: "input", Name: i.Name}
		}
		inputs.Insert(i.Name)
	}

	if d.InitialState != "" && !states.Contains(d.InitialState) {
		return &ErrUndefinedState{Field: "initial_state", State: d.InitialState}
	}

	check := func(owner string, actions []ActionDef) error {
		for _, a := range actions {
			if err := a.validate(owner, states, inputs); err != nil {
				return err
			}
		}
		return nil
	}

	for _, input := range d.Inputs {
		if err := check(input.Name+".action", input.Action); err != nil {
			return err
		}

		for _, t := range input.Transitions {
			if !states.Contains(t.From) {
				return &ErrUndefinedState{Field: "from", State: t.From, Input: input.Name}
			}

			if !states.Contains(t.To) {
				return &ErrUndefinedState{Field: "to", State: t.To, Input: input.Name}
			}

			if err := check(t.From+" -> "+t.To+".action", t.Action); err != nil {
				return err
			}
		}
	}

	for _, s := range d.States {
		if err := check(s.Name+".on_set", s.OnSet); err != nil {
			return err
		}

		if err := check(s.Name+".on_leave", s.OnLeave); err != nil {
			return err
		}

		if err := check(s.Name+".on_enter", s.OnEnter); err != nil {
			return err
		}
	}

	return nil
}

func (a ActionDef) validate(owner string, states, inputs g.Set[string]) error {
	set := g.SliceOf(a.Transition != "", a.Set != "", a.Log != "", a.Delay != 0, a.If != nil).
		Iter().
		Exclude(func(present bool) bool { return !present }).
		Collect()

	if len(set) != 1 {
		return &ErrInvalidAction{Owner: owner, Reason: "exactly one of transition, set, log, delay or if must be given"}
	}

	undefinedState := func(name string) error {
		if name != "" && !states.Contains(name) {
			return &ErrInvalidAction{Owner: owner, Reason: fmt.Sprintf("undefined state %q", name)}
		}
		return nil
	}

	undefinedInput := func(name string) error {
		if name != "" && !inputs.Contains(name) {
			return &ErrInvalidAction{Owner: owner, Reason: fmt.Sprintf("undefined input %q", name)}
		}
		return nil
	}

	if err := undefinedInput(a.Transition); err != nil {
		return err
	}

	if err := undefinedState(a.Set); err != nil {
		return err
	}

	if a.If == nil {
		return nil
	}

	if (a.If.State == "") == (a.If.Transition == nil) {
		return &ErrInvalidAction{Owner: owner, Reason: "if needs exactly one of state or transition"}
	}

	if err := undefinedState(a.If.State); err != nil {
		return err
	}

	if m := a.If.Transition; m != nil {
		for _, err := range []error{undefinedState(m.From), undefinedInput(m.Input), undefinedState(m.To)} {
			if err != nil {
				return err
			}
		}
	}

	for _, then := range a.If.Then {
		if err := then.validate(owner+".if", states, inputs); err != nil {
			return err
		}
	}

	return nil
}

// Initial returns the configured initial state, or the first state.
func (d *Definition) Initial() string {
	if d.InitialState != "" {
		return d.InitialState
	}

	return d.States[0].Name
}
