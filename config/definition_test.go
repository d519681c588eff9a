package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muxa/esphome-state-machine/config"
)

func TestLoad(t *testing.T) {
	def, err := config.Load("testdata/cover.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Cover State Machine", def.Name)
	assert.Equal(t, "CLOSED", def.Initial())
	assert.True(t, def.Diagram)
	require.Len(t, def.States, 4)
	require.Len(t, def.Inputs, 4)

	opening := def.States[1]
	assert.Equal(t, "OPENING", opening.Name)
	require.Len(t, opening.OnEnter, 2)
	assert.Equal(t, 5*time.Second, opening.OnEnter[0].Delay)
	assert.Equal(t, "ENDSTOP", opening.OnEnter[1].Transition)

	stop := def.Inputs[2]
	assert.Equal(t, "STOP", stop.Name)
	require.Len(t, stop.Transitions, 2)
	assert.Equal(t, config.TransitionDef{From: "OPENING", To: "OPEN"}, stop.Transitions[0])
	assert.Equal(t, "CLOSING", stop.Transitions[1].From)
	assert.Equal(t, "reversing", stop.Transitions[1].Action[0].Log)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("testdata/missing.yaml")
	assert.ErrorIs(t, err, config.ErrReadDefinition)
}

func TestParse_Shorthand(t *testing.T) {
	def, err := config.Parse([]byte(`
states: [OFF, ON]
inputs:
  - name: TOGGLE
    transitions:
      - OFF->ON
      - "  ON  ->  OFF "
`))
	require.NoError(t, err)

	assert.Equal(t, "OFF", def.Initial(), "initial state defaults to the first state")
	assert.Equal(t, []config.TransitionDef{{From: "OFF", To: "ON"}, {From: "ON", To: "OFF"}}, def.Inputs[0].Transitions)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		check func(t *testing.T, err error)
	}{
		{
			name: "not yaml",
			yaml: "states: [",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, config.ErrParseDefinition)
			},
		},
		{
			name: "transition without arrow",
			yaml: "states: [A]\ninputs:\n  - name: GO\n    transitions: [A]\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, config.ErrParseDefinition)
				assert.Contains(t, err.Error(), "transition mapping must contain '->'")
			},
		},
		{
			name: "no states",
			yaml: "inputs: [GO]\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, config.ErrInvalidDefinition)
			},
		},
		{
			name: "no inputs",
			yaml: "states: [A]\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, config.ErrInvalidDefinition)
			},
		},
		{
			name: "duplicate state",
			yaml: "states: [A, A]\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var dup *config.ErrDuplicateName
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "state", dup.Kind)
				assert.Equal(t, "A", dup.Name)
			},
		},
		{
			name: "duplicate input",
			yaml: "states: [A]\ninputs: [GO, GO]\n",
			check: func(t *testing.T, err error) {
				var dup *config.ErrDuplicateName
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "input", dup.Kind)
			},
		},
		{
			name: "undefined initial state",
			yaml: "initial_state: B\nstates: [A]\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var undefined *config.ErrUndefinedState
				require.ErrorAs(t, err, &undefined)
				assert.Equal(t, "initial_state", undefined.Field)
				assert.Equal(t, "B", undefined.State)
			},
		},
		{
			name: "undefined from state",
			yaml: "states: [A]\ninputs:\n  - name: GO\n    transitions: [B -> A]\n",
			check: func(t *testing.T, err error) {
				var undefined *config.ErrUndefinedState
				require.ErrorAs(t, err, &undefined)
				assert.Equal(t, "from", undefined.Field)
				assert.Equal(t, "GO", undefined.Input)
			},
		},
		{
			name: "undefined to state",
			yaml: "states: [A]\ninputs:\n  - name: GO\n    transitions: [A -> B]\n",
			check: func(t *testing.T, err error) {
				var undefined *config.ErrUndefinedState
				require.ErrorAs(t, err, &undefined)
				assert.Equal(t, "to", undefined.Field)
				assert.Equal(t, "B", undefined.State)
			},
		},
		{
			name: "action with two keys",
			yaml: "states:\n  - name: A\n    on_enter:\n      - log: hi\n        delay: 1s\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "A.on_enter", invalid.Owner)
			},
		},
		{
			name: "empty action",
			yaml: "states: [A]\ninputs:\n  - name: GO\n    action:\n      - {}\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "GO.action", invalid.Owner)
			},
		},
		{
			name: "action with undefined input",
			yaml: "states:\n  - name: A\n    on_set:\n      - transition: JUMP\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Contains(t, invalid.Reason, "JUMP")
			},
		},
		{
			name: "action with undefined state",
			yaml: "states: [A, B]\ninputs:\n  - name: GO\n    transitions:\n      - from: A\n        to: B\n        action:\n          - set: C\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "A -> B.action", invalid.Owner)
			},
		},
		{
			name: "if without condition",
			yaml: "states:\n  - name: A\n    on_enter:\n      - if:\n          then: [log: hi]\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Contains(t, invalid.Reason, "exactly one of state or transition")
			},
		},
		{
			name: "if with both conditions",
			yaml: "states:\n  - name: A\n    on_enter:\n      - if:\n          state: A\n          transition: {from: A}\n          then: [log: hi]\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "A.on_enter", invalid.Owner)
			},
		},
		{
			name: "if without then",
			yaml: "states:\n  - name: A\n    on_enter:\n      - if:\n          state: A\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, config.ErrInvalidDefinition)
			},
		},
		{
			name: "if with undefined state",
			yaml: "states:\n  - name: A\n    on_enter:\n      - if:\n          state: B\n          then: [log: hi]\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Contains(t, invalid.Reason, `undefined state "B"`)
			},
		},
		{
			name: "if with undefined transition input",
			yaml: "states:\n  - name: A\n    on_enter:\n      - if:\n          transition: {input: JUMP}\n          then: [log: hi]\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Contains(t, invalid.Reason, `undefined input "JUMP"`)
			},
		},
		{
			name: "invalid step inside then",
			yaml: "states:\n  - name: A\n    on_enter:\n      - if:\n          state: A\n          then: [set: C]\ninputs: [GO]\n",
			check: func(t *testing.T, err error) {
				var invalid *config.ErrInvalidAction
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "A.on_enter.if", invalid.Owner)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParse_IfAction(t *testing.T) {
	def, err := config.Parse([]byte(`
states:
  - A
  - name: B
    on_enter:
      - if:
          transition:
            from: A
            input: GO
          then:
            - log: came from A
            - delay: 1s
inputs:
  - name: GO
    transitions: [A -> B]
`))
	require.NoError(t, err)

	action := def.States[1].OnEnter[0]
	require.NotNil(t, action.If)
	assert.Empty(t, action.If.State)
	assert.Equal(t, &config.TransitionMatch{From: "A", Input: "GO"}, action.If.Transition)
	require.Len(t, action.If.Then, 2)
	assert.Equal(t, time.Second, action.If.Then[1].Delay)
}
