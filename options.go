package statemachine

import "log/slog"

// Option configures a Machine during construction.
type Option func(*Machine)

// WithName sets the name used in logs, dumps and diagrams.
func WithName(name string) Option {
	return func(m *Machine) {
		m.name = name
	}
}

// WithLogger sets the logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSinglePhase disables the before-transition phase. Transition
// observers then receive one combined event after the transition is
// committed, in registration order.
func WithSinglePhase() Option {
	return func(m *Machine) {
		m.singlePhase = true
	}
}

// WithExecutor sets the execution context that actions use to reach the
// machine from reaction goroutines. Without one, ApplyAction, SetAction and
// IfAction fail with ErrNoExecutor.
func WithExecutor(e Executor) Option {
	return func(m *Machine) {
		if e != nil {
			m.exec = e
		}
	}
}
