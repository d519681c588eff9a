package statemachine

import "github.com/enetx/g"

// StatePattern matches on-set events for one target state.
type StatePattern struct {
	Target State
}

// Match reports whether state equals the target.
func (p StatePattern) Match(state State) bool { return state == p.Target }

// TransitionPattern matches transitions field by field. A None field
// matches anything.
type TransitionPattern struct {
	From  g.Option[State]
	Input g.Option[Input]
	To    g.Option[State]
}

// MatchFrom matches transitions leaving state.
func MatchFrom(state State) TransitionPattern {
	return TransitionPattern{From: g.Some(state), Input: g.None[Input](), To: g.None[State]()}
}

// MatchInput matches transitions caused by input.
func MatchInput(input Input) TransitionPattern {
	return TransitionPattern{From: g.None[State](), Input: g.Some(input), To: g.None[State]()}
}

// MatchTo matches transitions entering state.
func MatchTo(state State) TransitionPattern {
	return TransitionPattern{From: g.None[State](), Input: g.None[Input](), To: g.Some(state)}
}

// MatchTransition matches exactly t.
func MatchTransition(t Transition) TransitionPattern {
	return TransitionPattern{From: g.Some(t.From), Input: g.Some(t.Input), To: g.Some(t.To)}
}

// Match reports whether every present field equals the field of t.
func (p TransitionPattern) Match(t Transition) bool {
	if p.From.IsSome() && p.From.Some() != t.From {
		return false
	}

	if p.Input.IsSome() && p.Input.Some() != t.Input {
		return false
	}

	if p.To.IsSome() && p.To.Some() != t.To {
		return false
	}

	return true
}

// Binding connects one event phase of a Machine to one Reaction through a
// pattern. Each delivered event first stops the reaction, whether or not the
// event matches, and then triggers it again on a match. A binding therefore
// never has more than one live reaction run.
type Binding struct {
	machine *Machine
	phase   Phase
	handle  *ReactionHandle
	sub     *Subscription
}

// BindState binds r to on-set events matching p.
func BindState(m *Machine, p StatePattern, r Reaction) *Binding {
	b := &Binding{machine: m, phase: PhaseSet, handle: NewReactionHandle(r)}

	b.sub = m.OnSet(func(state State) {
		b.handle.Stop()
		if p.Match(state) {
			b.handle.Start(newSetContext(m, state))
		}
	})

	return b
}

// BindTransition binds r to transition events of phase matching p.
// phase must be PhaseBeforeTransition or PhaseAfterTransition.
func BindTransition(m *Machine, phase Phase, p TransitionPattern, r Reaction) *Binding {
	b := &Binding{machine: m, phase: phase, handle: NewReactionHandle(r)}

	observe := func(t Transition) {
		b.handle.Stop()
		if p.Match(t) {
			b.handle.Start(newTransitionContext(m, b.phase, t))
		}
	}

	if phase == PhaseBeforeTransition {
		b.sub = m.BeforeTransition(observe)
	} else {
		b.sub = m.AfterTransition(observe)
	}

	b.phase = b.sub.Phase()

	return b
}

// OnEnter triggers r after every transition into state.
func OnEnter(m *Machine, state State, r Reaction) *Binding {
	return BindTransition(m, PhaseAfterTransition, MatchTo(state), r)
}

// OnLeave triggers r before every transition out of state.
func OnLeave(m *Machine, state State, r Reaction) *Binding {
	return BindTransition(m, PhaseBeforeTransition, MatchFrom(state), r)
}

// OnInput triggers r after every transition caused by input.
func OnInput(m *Machine, input Input, r Reaction) *Binding {
	return BindTransition(m, PhaseAfterTransition, MatchInput(input), r)
}

// OnTransition triggers r after transition t.
func OnTransition(m *Machine, t Transition, r Reaction) *Binding {
	return BindTransition(m, PhaseAfterTransition, MatchTransition(t), r)
}

// OnSetState triggers r whenever the machine is set to state.
func OnSetState(m *Machine, state State, r Reaction) *Binding {
	return BindState(m, StatePattern{Target: state}, r)
}

// Phase returns the phase the binding listens to.
func (b *Binding) Phase() Phase { return b.phase }

// Handle returns the reaction handle owned by the binding.
func (b *Binding) Handle() *ReactionHandle { return b.handle }

// Close unsubscribes the binding and stops its reaction.
func (b *Binding) Close() {
	b.sub.Cancel()
	b.handle.Stop()
}
