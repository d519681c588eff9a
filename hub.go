package statemachine

import "github.com/enetx/g"

// Phase identifies one of the three notification points of a Machine.
type Phase int

const (
	// PhaseSet is delivered when Set changes the current state.
	PhaseSet Phase = iota
	// PhaseBeforeTransition is delivered before Apply commits a transition.
	PhaseBeforeTransition
	// PhaseAfterTransition is delivered after Apply committed a transition.
	PhaseAfterTransition
)

func (p Phase) String() string {
	switch p {
	case PhaseSet:
		return "set"
	case PhaseBeforeTransition:
		return "before_transition"
	case PhaseAfterTransition:
		return "after_transition"
	default:
		return "unknown"
	}
}

type observer[T any] struct {
	id uint64
	fn func(T)
}

// observers is an ordered observer list. Delivery iterates over a snapshot,
// so observers added or removed during delivery only affect later events.
type observers[T any] struct {
	next    uint64
	entries g.Slice[observer[T]]
}

func (o *observers[T]) add(fn func(T)) uint64 {
	o.next++
	o.entries.Push(observer[T]{id: o.next, fn: fn})
	return o.next
}

func (o *observers[T]) remove(id uint64) {
	o.entries = o.entries.Iter().
		Exclude(func(e observer[T]) bool { return e.id == id }).
		Collect()
}

func (o *observers[T]) deliver(v T) {
	for e := range o.entries.Iter() {
		e.fn(v)
	}
}

func (o *observers[T]) len() int { return len(o.entries) }

type hub struct {
	set    observers[State]
	before observers[Transition]
	after  observers[Transition]
}

// Subscription is the handle returned when an observer is registered.
type Subscription struct {
	phase  Phase
	cancel func()
}

// Phase returns the phase the observer was registered for.
func (s *Subscription) Phase() Phase { return s.phase }

// Cancel removes the observer. It is safe to call more than once.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// OnSet registers an observer for state changes made by Set and Setup.
func (m *Machine) OnSet(fn SetObserver) *Subscription {
	id := m.hub.set.add(fn)
	return &Subscription{phase: PhaseSet, cancel: func() { m.hub.set.remove(id) }}
}

// BeforeTransition registers an observer that runs before a transition is
// committed. On a single-phase machine there is only one transition event,
// so the observer joins the after-transition list instead.
func (m *Machine) BeforeTransition(fn TransitionObserver) *Subscription {
	if m.singlePhase {
		return m.AfterTransition(fn)
	}

	id := m.hub.before.add(fn)
	return &Subscription{phase: PhaseBeforeTransition, cancel: func() { m.hub.before.remove(id) }}
}

// AfterTransition registers an observer that runs after a transition is
// committed.
func (m *Machine) AfterTransition(fn TransitionObserver) *Subscription {
	id := m.hub.after.add(fn)
	return &Subscription{phase: PhaseAfterTransition, cancel: func() { m.hub.after.remove(id) }}
}

// Observers returns the number of observers registered for phase.
func (m *Machine) Observers(phase Phase) int {
	switch phase {
	case PhaseSet:
		return m.hub.set.len()
	case PhaseBeforeTransition:
		return m.hub.before.len()
	case PhaseAfterTransition:
		return m.hub.after.len()
	default:
		return 0
	}
}
