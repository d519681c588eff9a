// Package textsensor publishes the current state of a state machine as a
// text value. It subscribes through the machine's ordinary observer API.
package textsensor

import (
	"fmt"
	"io"
	"log/slog"

	sm "github.com/muxa/esphome-state-machine"
)

// Publisher receives the published text.
type Publisher interface {
	Publish(value string)
}

// PublisherFunc adapts a function to a Publisher.
type PublisherFunc func(value string)

func (f PublisherFunc) Publish(value string) { f(value) }

// Sensor mirrors a machine's current state into a Publisher.
type Sensor struct {
	name      string
	machine   *sm.Machine
	publisher Publisher
	logger    *slog.Logger
	last      string
	published bool

	subs []*sm.Subscription
}

// New attaches a sensor to m. It publishes after every set and every
// transition.
func New(name string, m *sm.Machine, p Publisher) *Sensor {
	s := &Sensor{
		name:      name,
		machine:   m,
		publisher: p,
		logger:    sm.Logger.With("component", "state_machine.text_sensor", "sensor", name),
	}

	s.subs = append(s.subs,
		m.OnSet(func(sm.State) { s.Update() }),
		m.AfterTransition(func(sm.Transition) { s.Update() }),
	)

	return s
}

// Setup publishes the current state once.
func (s *Sensor) Setup() { s.Update() }

// Update publishes the machine's current state.
func (s *Sensor) Update() {
	value := string(s.machine.Current())
	s.last, s.published = value, true
	s.logger.Debug("publishing state", "value", value)
	s.publisher.Publish(value)
}

// State returns the last published value and whether anything was
// published yet.
func (s *Sensor) State() (string, bool) { return s.last, s.published }

// DumpConfig writes the sensor configuration to w.
func (s *Sensor) DumpConfig(w io.Writer) error {
	_, err := fmt.Fprintf(w, "State Machine Text Sensor '%s'\n  State Machine: %s\n", s.name, s.machine.Name())
	return err
}

// Close detaches the sensor from the machine.
func (s *Sensor) Close() {
	for _, sub := range s.subs {
		sub.Cancel()
	}

	s.subs = nil
}
