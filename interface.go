package statemachine

import (
	"io"

	"github.com/enetx/g"
)

// Interface compliance check.
var _ StateMachine = (*Machine)(nil)

// StateMachine is the surface automations and hosts use.
type StateMachine interface {
	Set(State) error
	Apply(Input) (Transition, error)
	Current() State
	LastTransition() g.Option[Transition]
	Setup()
	DumpConfig(io.Writer) error
	ToDOT() g.String
	MarshalJSON() ([]byte, error)
}
