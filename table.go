package statemachine

import "github.com/enetx/g"

// Table is the immutable catalog of states, inputs and transitions a
// Machine runs on. Build one with NewTable or a TableBuilder.
type Table struct {
	states      g.Slice[State]
	inputs      g.Slice[Input]
	transitions g.Slice[Transition]

	stateSet g.Set[State]
	inputSet g.Set[Input]
}

// TableBuilder collects states, inputs and transitions incrementally.
// Building from a builder yields the same table as NewTable with the same
// lists in the same order.
type TableBuilder struct {
	states      g.Slice[State]
	inputs      g.Slice[Input]
	transitions g.Slice[Transition]
}

// NewTableBuilder creates an empty builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{}
}

// AddState declares a state.
func (b *TableBuilder) AddState(states ...State) *TableBuilder {
	b.states.Push(states...)
	return b
}

// AddInput declares an input.
func (b *TableBuilder) AddInput(inputs ...Input) *TableBuilder {
	b.inputs.Push(inputs...)
	return b
}

// AddTransition declares a from -> input -> to transition.
func (b *TableBuilder) AddTransition(from State, input Input, to State) *TableBuilder {
	b.transitions.Push(Transition{From: from, Input: input, To: to})
	return b
}

// Build validates the collected definitions and returns the table.
//
// Unlike a lenient runtime lookup, every transition must reference declared
// states and inputs, and each (from, input) pair may appear only once.
// Duplicate state or input names are kept as given.
func (b *TableBuilder) Build() (*Table, error) {
	if len(b.states) == 0 {
		return nil, ErrNoStates
	}

	t := &Table{
		states:      b.states.Clone(),
		inputs:      b.inputs.Clone(),
		transitions: b.transitions.Clone(),
		stateSet:    g.NewSet[State](),
		inputSet:    g.NewSet[Input](),
	}

	for s := range t.states.Iter() {
		t.stateSet.Insert(s)
	}

	for i := range t.inputs.Iter() {
		t.inputSet.Insert(i)
	}

	seen := g.NewSet[Transition]()
	for tr := range t.transitions.Iter() {
		if !t.stateSet.Contains(tr.From) {
			return nil, &ErrUndeclaredState{State: tr.From, Transition: tr}
		}

		if !t.stateSet.Contains(tr.To) {
			return nil, &ErrUndeclaredState{State: tr.To, Transition: tr}
		}

		if !t.inputSet.Contains(tr.Input) {
			return nil, &ErrUndeclaredInput{Input: tr.Input, Transition: tr}
		}

		key := Transition{From: tr.From, Input: tr.Input}
		if seen.Contains(key) {
			return nil, &ErrAmbiguousTransition{From: tr.From, Input: tr.Input}
		}
		seen.Insert(key)
	}

	return t, nil
}

// NewTable builds a table from ordered lists in one call.
func NewTable(states []State, inputs []Input, transitions []Transition) (*Table, error) {
	b := NewTableBuilder().
		AddState(states...).
		AddInput(inputs...)

	for _, tr := range transitions {
		b.AddTransition(tr.From, tr.Input, tr.To)
	}

	return b.Build()
}

// ValidateState reports whether name is a declared state.
func (t *Table) ValidateState(name State) bool { return t.stateSet.Contains(name) }

// ValidateInput reports whether name is a declared input.
func (t *Table) ValidateInput(name Input) bool { return t.inputSet.Contains(name) }

// Lookup returns the first transition leaving from on input.
func (t *Table) Lookup(from State, input Input) g.Option[Transition] {
	matched := t.transitions.Iter().
		Exclude(func(tr Transition) bool { return tr.From != from || tr.Input != input }).
		Collect()

	if matched.Empty() {
		return g.None[Transition]()
	}

	return g.Some(matched[0])
}

// States returns a copy of the declared states in declaration order.
func (t *Table) States() g.Slice[State] { return t.states.Clone() }

// Inputs returns a copy of the declared inputs in declaration order.
func (t *Table) Inputs() g.Slice[Input] { return t.inputs.Clone() }

// Transitions returns a copy of the declared transitions in declaration order.
func (t *Table) Transitions() g.Slice[Transition] { return t.transitions.Clone() }
