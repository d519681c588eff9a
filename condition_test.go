package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sm "github.com/muxa/esphome-state-machine"
)

func TestStateCondition(t *testing.T) {
	m := newCover(t)

	isClosed := sm.StateIs(m, closed)
	assert.True(t, isClosed.Check())

	_, err := m.Apply(inOpen)
	require.NoError(t, err)
	assert.False(t, isClosed.Check())

	target := opening
	dynamic := sm.NewStateCondition(m, func() sm.State { return target })
	assert.True(t, dynamic.Check())

	target = open
	assert.False(t, dynamic.Check())
}

func TestTransitionCondition_NeverHoldsBeforeFirstTransition(t *testing.T) {
	m := newCover(t)

	c := sm.NewTransitionCondition(m)
	assert.False(t, c.Check())

	require.NoError(t, m.Set(open))
	assert.False(t, c.Check())
}

func TestTransitionCondition_Fields(t *testing.T) {
	m := newCover(t)
	_, err := m.Apply(inOpen)
	require.NoError(t, err)

	c := sm.NewTransitionCondition(m)
	assert.True(t, c.Check(), "no fields means any transition")

	c.From = sm.Static(closed)
	assert.True(t, c.Check())

	c.To = sm.Static(open)
	assert.False(t, c.Check())

	c.To = sm.Static(opening)
	c.Input = sm.Static(inOpen)
	assert.True(t, c.Check())
}

func TestLastTransitionMatches(t *testing.T) {
	m := newCover(t)

	entered := sm.LastTransitionMatches(m, sm.MatchTo(opening))
	left := sm.LastTransitionMatches(m, sm.MatchFrom(opening))
	stopped := sm.LastTransitionMatches(m, sm.MatchTransition(sm.Transition{From: opening, Input: inStop, To: open}))

	_, err := m.Apply(inOpen)
	require.NoError(t, err)
	assert.True(t, entered.Check())
	assert.False(t, left.Check())
	assert.False(t, stopped.Check())

	_, err = m.Apply(inStop)
	require.NoError(t, err)
	assert.False(t, entered.Check())
	assert.True(t, left.Check())
	assert.True(t, stopped.Check())

	require.NoError(t, m.Set(closed))
	assert.True(t, stopped.Check(), "set keeps the last transition")
}
