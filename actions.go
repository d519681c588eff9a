package statemachine

import (
	"context"
	"log/slog"
	"time"
)

// ApplyAction returns an action that applies input to m on m's executor.
// A rejected input is logged by the machine and does not fail the action.
//
// The machine actions are meant for reactions running on their own
// goroutine, such as ActionReaction. Calling them from an observer or a
// ReactionFunc on the executor itself blocks forever on a Loop.
func ApplyAction(m *Machine, input Input) ActionFunc {
	return func(ctx context.Context, _ *Context) error {
		return m.run(ctx, func() {
			if ctx.Err() != nil {
				return
			}

			_, _ = m.Apply(input)
		})
	}
}

// SetAction returns an action that sets m to state on m's executor. See
// ApplyAction for where it may run.
func SetAction(m *Machine, state State) ActionFunc {
	return func(ctx context.Context, _ *Context) error {
		return m.run(ctx, func() {
			if ctx.Err() != nil {
				return
			}

			_ = m.Set(state)
		})
	}
}

// DelayAction returns an action that waits for d or until the reaction is
// stopped.
func DelayAction(d time.Duration) ActionFunc {
	return func(ctx context.Context, _ *Context) error {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// LogAction returns an action that logs msg with the event that started the
// reaction.
func LogAction(logger *slog.Logger, msg string) ActionFunc {
	if logger == nil {
		logger = Logger
	}

	return func(ctx context.Context, rc *Context) error {
		attrs := []any{"run", rc.RunID, "phase", rc.Phase, "state", rc.State}
		if rc.Transition.IsSome() {
			attrs = append(attrs, "transition", rc.Transition.Some().String())
		}

		logger.InfoContext(ctx, msg, attrs...)

		return nil
	}
}

// IfAction returns an action that runs then in order when cond holds at the
// time the action is reached. cond is checked on m's executor, so the same
// restrictions as for ApplyAction apply.
func IfAction(m *Machine, cond Condition, then ...ActionFunc) ActionFunc {
	return func(ctx context.Context, rc *Context) error {
		var ok bool
		if err := m.run(ctx, func() { ok = cond.Check() }); err != nil {
			return err
		}

		if !ok {
			return nil
		}

		for _, action := range then {
			if err := action(ctx, rc); err != nil {
				return err
			}
		}

		return nil
	}
}
