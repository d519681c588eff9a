package statemachine

import (
	"net/url"

	"github.com/enetx/g"
)

const quickChartURL = "https://quickchart.io/graphviz?format=svg&graph="

// ToDOT generates a DOT language string representation of the machine for
// visualization. Edges between the same pair of states are merged and
// labelled with every input that takes them.
func (m *Machine) ToDOT() g.String {
	b := g.NewBuilder()

	b.WriteString("digraph \"")
	b.WriteString(g.String(m.name))
	b.WriteString("\" {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(
		"  node [shape=ellipse, style=filled, fillcolor=\"#f8f8f8\", color=\"#444444\", fontname=\"Helvetica\"];\n",
	)
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	b.WriteString("  __start [shape=point, style=invis];\n")
	b.WriteString(g.Format("  __start -> \"{}\" [label=\" initial\"];\n\n", m.initial))

	type edge struct{ from, to State }

	var order g.Slice[edge]
	grouped := g.NewMap[edge, g.Slice[g.String]]()
	outgoing := g.NewSet[State]()

	for t := range m.table.transitions.Iter() {
		key := edge{from: t.From, to: t.To}
		if !grouped.Contains(key) {
			order.Push(key)
		}

		label := g.String(t.Input)
		grouped.Entry(key).
			AndModify(func(s *g.Slice[g.String]) { s.Push(label) }).
			OrInsert(g.SliceOf(label))

		outgoing.Insert(t.From)
	}

	for state := range m.table.states.Iter() {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", state))

		switch {
		case state == m.current:
			attrs.Push("fillcolor=\"#90ee90\"", "shape=doublecircle")
		case !outgoing.Contains(state):
			attrs.Push("fillcolor=\"#d3d3d3\"")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", state, attrs.Join(", ")))
	}

	b.WriteByte('\n')

	for e := range order.Iter() {
		labels := grouped.Get(e).Some()
		b.WriteString(g.Format("  \"{}\" -> \"{}\" [label=\" {} \"];\n", e.from, e.to, labels.Join("\\n")))
	}

	b.WriteString("}\n")

	return b.String()
}

// DiagramURL returns a quickchart.io link that renders ToDOT as SVG.
func (m *Machine) DiagramURL() string {
	return quickChartURL + url.QueryEscape(string(m.ToDOT()))
}
