package config

import (
	"context"
	"log/slog"

	"github.com/enetx/g"

	sm "github.com/muxa/esphome-state-machine"
)

// Machine is a state machine built from a Definition together with the
// bindings that run its automations.
type Machine struct {
	*sm.Machine

	Bindings g.Slice[*sm.Binding]

	// loop is the executor Build started, nil when the caller passed one.
	loop *sm.Loop
}

// Table builds the transition table of the definition.
func (d *Definition) Table() (*sm.Table, error) {
	b := sm.NewTableBuilder()

	for _, s := range d.States {
		b.AddState(sm.State(s.Name))
	}

	for _, input := range d.Inputs {
		b.AddInput(sm.Input(input.Name))
		for _, t := range input.Transitions {
			b.AddTransition(sm.State(t.From), sm.Input(input.Name), sm.State(t.To))
		}
	}

	return b.Build()
}

// Build creates the machine and binds its automations. logger is used for
// the machine, its reactions and log actions; nil means sm.Logger.
//
// Unless opts carry sm.WithExecutor, the machine gets a Loop of its own
// that runs until Close. Either way, reach the machine through Run once
// automations may be running.
//
// Automations are registered in this order: on_set, then per input its
// transition actions and its input action, then on_leave, then on_enter.
func (d *Definition) Build(logger *slog.Logger, opts ...sm.Option) (*Machine, error) {
	if logger == nil {
		logger = sm.Logger
	}

	table, err := d.Table()
	if err != nil {
		return nil, err
	}

	loop := sm.NewLoop(sm.WithLoopLogger(logger))

	opts = append([]sm.Option{sm.WithLogger(logger), sm.WithExecutor(loop)}, opts...)
	if d.Name != "" {
		opts = append(opts, sm.WithName(d.Name))
	}

	machine, err := sm.NewMachine(table, sm.State(d.Initial()), opts...)
	if err != nil {
		return nil, err
	}

	m := &Machine{Machine: machine}

	if machine.Executor() == sm.Executor(loop) {
		loop.Start(context.Background())
		m.loop = loop
	}

	react := func(name string, defs []ActionDef) sm.Reaction {
		return sm.NewActionReaction(name, m.actions(logger, defs)...).WithLogger(logger)
	}

	for _, s := range d.States {
		if len(s.OnSet) > 0 {
			m.bind(sm.OnSetState(machine, sm.State(s.Name), react(s.Name+".on_set", s.OnSet)))
		}
	}

	for _, input := range d.Inputs {
		for _, t := range input.Transitions {
			if len(t.Action) > 0 {
				tr := sm.Transition{From: sm.State(t.From), Input: sm.Input(input.Name), To: sm.State(t.To)}
				m.bind(sm.OnTransition(machine, tr, react(tr.String()+".action", t.Action)))
			}
		}

		if len(input.Action) > 0 {
			m.bind(sm.OnInput(machine, sm.Input(input.Name), react(input.Name+".action", input.Action)))
		}
	}

	for _, s := range d.States {
		if len(s.OnLeave) > 0 {
			m.bind(sm.OnLeave(machine, sm.State(s.Name), react(s.Name+".on_leave", s.OnLeave)))
		}
	}

	for _, s := range d.States {
		if len(s.OnEnter) > 0 {
			m.bind(sm.OnEnter(machine, sm.State(s.Name), react(s.Name+".on_enter", s.OnEnter)))
		}
	}

	if d.Diagram {
		logger.Info("state machine diagram", "machine", machine.Name(), "url", machine.DiagramURL())
		logger.Info("DOT language graph", "machine", machine.Name(), "dot", string(machine.ToDOT()))
	}

	return m, nil
}

// Run calls fn on the machine's executor and waits for it.
func (m *Machine) Run(ctx context.Context, fn func()) error {
	return m.Executor().Run(ctx, fn)
}

func (m *Machine) bind(b *sm.Binding) {
	m.Bindings.Push(b)
}

func (m *Machine) actions(logger *slog.Logger, defs []ActionDef) g.Slice[sm.ActionFunc] {
	var actions g.Slice[sm.ActionFunc]

	for _, a := range defs {
		switch {
		case a.Transition != "":
			actions.Push(sm.ApplyAction(m.Machine, sm.Input(a.Transition)))
		case a.Set != "":
			actions.Push(sm.SetAction(m.Machine, sm.State(a.Set)))
		case a.Log != "":
			actions.Push(sm.LogAction(logger, a.Log))
		case a.Delay > 0:
			actions.Push(sm.DelayAction(a.Delay))
		case a.If != nil:
			actions.Push(sm.IfAction(m.Machine, m.condition(a.If), m.actions(logger, a.If.Then)...))
		}
	}

	return actions
}

func (m *Machine) condition(def *IfDef) sm.Condition {
	if def.Transition == nil {
		return sm.StateIs(m.Machine, sm.State(def.State))
	}

	p := sm.TransitionPattern{From: g.None[sm.State](), Input: g.None[sm.Input](), To: g.None[sm.State]()}

	if def.Transition.From != "" {
		p.From = g.Some(sm.State(def.Transition.From))
	}

	if def.Transition.Input != "" {
		p.Input = g.Some(sm.Input(def.Transition.Input))
	}

	if def.Transition.To != "" {
		p.To = g.Some(sm.State(def.Transition.To))
	}

	return sm.LastTransitionMatches(m.Machine, p)
}

// Close unbinds every automation, stops their reactions and stops the
// loop Build started.
func (m *Machine) Close() {
	unbind := func() {
		for b := range m.Bindings.Iter() {
			b.Close()
		}

		m.Bindings = nil
	}

	if err := m.Run(context.Background(), unbind); err != nil {
		unbind()
	}

	if m.loop != nil {
		m.loop.Stop()
	}
}
