package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sm "github.com/muxa/esphome-state-machine"
)

func TestNewTable_MatchesBuilder(t *testing.T) {
	transitions := []sm.Transition{
		{From: closed, Input: inOpen, To: opening},
		{From: opening, Input: inEndstop, To: open},
	}

	fromLists, err := sm.NewTable([]sm.State{closed, opening, open}, []sm.Input{inOpen, inEndstop}, transitions)
	require.NoError(t, err)

	fromBuilder, err := sm.NewTableBuilder().
		AddState(closed).
		AddState(opening, open).
		AddInput(inOpen, inEndstop).
		AddTransition(closed, inOpen, opening).
		AddTransition(opening, inEndstop, open).
		Build()
	require.NoError(t, err)

	assert.Equal(t, fromLists.States(), fromBuilder.States())
	assert.Equal(t, fromLists.Inputs(), fromBuilder.Inputs())
	assert.Equal(t, fromLists.Transitions(), fromBuilder.Transitions())
}

func TestTable_Validate(t *testing.T) {
	table := coverTable(t)

	assert.True(t, table.ValidateState(closed))
	assert.False(t, table.ValidateState("closed"))
	assert.True(t, table.ValidateInput(inStop))
	assert.False(t, table.ValidateInput("JUMP"))
}

func TestTable_Lookup(t *testing.T) {
	table := coverTable(t)

	found := table.Lookup(closing, inStop)
	require.True(t, found.IsSome())
	assert.Equal(t, sm.Transition{From: closing, Input: inStop, To: open}, found.Some())

	assert.True(t, table.Lookup(closed, inClose).IsNone())
	assert.True(t, table.Lookup(closed, "JUMP").IsNone())
}

func TestTable_AccessorsReturnCopies(t *testing.T) {
	table := coverTable(t)

	states := table.States()
	states[0] = "MUTATED"

	assert.Equal(t, closed, table.States()[0])
	assert.Len(t, table.Inputs(), 4)
	assert.Len(t, table.Transitions(), 6)
}

func TestTableBuilder_Errors(t *testing.T) {
	_, err := sm.NewTableBuilder().AddInput(inOpen).Build()
	assert.ErrorIs(t, err, sm.ErrNoStates)

	_, err = sm.NewTableBuilder().
		AddState(closed).
		AddInput(inOpen).
		AddTransition(closed, inOpen, opening).
		Build()

	var undeclaredState *sm.ErrUndeclaredState
	require.ErrorAs(t, err, &undeclaredState)
	assert.Equal(t, opening, undeclaredState.State)

	_, err = sm.NewTableBuilder().
		AddState(closed, opening).
		AddTransition(closed, inOpen, opening).
		Build()

	var undeclaredInput *sm.ErrUndeclaredInput
	require.ErrorAs(t, err, &undeclaredInput)
	assert.Equal(t, inOpen, undeclaredInput.Input)

	_, err = sm.NewTableBuilder().
		AddState(closed, opening, open).
		AddInput(inOpen).
		AddTransition(closed, inOpen, opening).
		AddTransition(closed, inOpen, open).
		Build()

	var ambiguous *sm.ErrAmbiguousTransition
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, closed, ambiguous.From)
	assert.Equal(t, inOpen, ambiguous.Input)
}

func TestTableBuilder_EmptyInputsAllowed(t *testing.T) {
	table, err := sm.NewTableBuilder().AddState(closed).Build()
	require.NoError(t, err)

	m, err := sm.NewMachine(table, closed)
	require.NoError(t, err)

	_, err = m.Apply(inOpen)
	assert.True(t, sm.IsInvalidInputError(err))
}
