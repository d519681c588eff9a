package statemachine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/enetx/g"
	"github.com/google/uuid"
)

// Reaction is the automation primitive a Binding drives. Trigger starts a
// new run for the event described by ctx; Stop cancels whatever run is in
// flight and must be a no-op when nothing runs.
type Reaction interface {
	Trigger(ctx *Context)
	Stop()
}

// HandleState is the state of a ReactionHandle.
type HandleState int

const (
	// HandleIdle means no reaction run was started since the last stop.
	HandleIdle HandleState = iota
	// HandleScheduled means a reaction run was started and not stopped.
	HandleScheduled
)

func (s HandleState) String() string {
	if s == HandleScheduled {
		return "scheduled"
	}

	return "idle"
}

// ReactionHandle is the single reaction slot owned by a Binding.
// Start moves it Idle -> Scheduled, Stop moves it back to Idle.
type ReactionHandle struct {
	reaction Reaction
	state    HandleState
	starts   int
	stops    int
}

// NewReactionHandle wraps r in an idle handle.
func NewReactionHandle(r Reaction) *ReactionHandle {
	return &ReactionHandle{reaction: r}
}

// Start triggers a new run of the reaction.
func (h *ReactionHandle) Start(ctx *Context) {
	h.starts++
	h.state = HandleScheduled
	h.reaction.Trigger(ctx)
}

// Stop cancels the reaction. The reaction is always told to stop, even when
// the handle is idle, since a run may still be winding down.
func (h *ReactionHandle) Stop() {
	h.stops++
	h.state = HandleIdle
	h.reaction.Stop()
}

// State returns the current handle state. A scheduled handle whose reaction
// reports that it finished on its own is idle again.
func (h *ReactionHandle) State() HandleState {
	if r, ok := h.reaction.(interface{ Running() bool }); ok && h.state == HandleScheduled && !r.Running() {
		h.state = HandleIdle
	}

	return h.state
}

// Starts returns how many times the reaction was triggered.
func (h *ReactionHandle) Starts() int { return h.starts }

// Stops returns how many times the reaction was stopped.
func (h *ReactionHandle) Stops() int { return h.stops }

// Reaction returns the wrapped reaction.
func (h *ReactionHandle) Reaction() Reaction { return h.reaction }

// ReactionFunc adapts a plain function to a Reaction that has nothing to
// cancel.
type ReactionFunc func(ctx *Context)

func (f ReactionFunc) Trigger(ctx *Context) { f(ctx) }
func (ReactionFunc) Stop()                  {}

// ActionFunc is one step of an ActionReaction. ctx is cancelled when the
// reaction is stopped.
type ActionFunc func(ctx context.Context, rc *Context) error

// ActionReaction runs an ordered list of actions on its own goroutine.
// Stop cancels the run in progress; the remaining actions are skipped.
type ActionReaction struct {
	name    string
	actions g.Slice[ActionFunc]
	logger  *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Interface compliance check.
var _ Reaction = (*ActionReaction)(nil)

// NewActionReaction creates a reaction named name that runs actions in order.
func NewActionReaction(name string, actions ...ActionFunc) *ActionReaction {
	return &ActionReaction{
		name:    name,
		actions: g.SliceOf(actions...),
		logger:  Logger.With("component", "state_machine_reaction", "reaction", name),
	}
}

// WithLogger sets the logger and returns r.
func (r *ActionReaction) WithLogger(logger *slog.Logger) *ActionReaction {
	if logger != nil {
		r.logger = logger.With("component", "state_machine_reaction", "reaction", r.name)
	}

	return r
}

// Name returns the reaction name.
func (r *ActionReaction) Name() string { return r.name }

// Trigger starts a new run. A run that is still in flight keeps going
// unless it was stopped first; bindings always stop before triggering.
func (r *ActionReaction) Trigger(rc *Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := *rc
	run.RunID = uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel, r.done = cancel, done

	r.logger.Debug("reaction triggered", "run", run.RunID, "state", run.State)

	go r.run(ctx, cancel, done, &run)
}

// Stop cancels the run in flight without waiting for it.
func (r *ActionReaction) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Running reports whether a run is still executing.
func (r *ActionReaction) Running() bool {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return false
	}

	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Wait blocks until the latest run finished or ctx is done.
func (r *ActionReaction) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *ActionReaction) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, rc *Context) {
	defer close(done)
	defer cancel()

	for i, action := range r.actions {
		if ctx.Err() != nil {
			r.logger.Debug("reaction stopped", "run", rc.RunID, "step", i)
			return
		}

		if err := r.call(ctx, action, rc); err != nil {
			if errors.Is(err, context.Canceled) {
				r.logger.Debug("reaction stopped", "run", rc.RunID, "step", i)
				return
			}

			r.logger.Error("reaction failed", "run", rc.RunID, "step", i, "error", err)
			return
		}
	}

	r.logger.Debug("reaction finished", "run", rc.RunID)
}

// call runs one action, recovering from panics.
func (r *ActionReaction) call(ctx context.Context, action ActionFunc, rc *Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ErrReaction{Reaction: r.name, RunID: rc.RunID, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	if actionErr := action(ctx, rc); actionErr != nil {
		err = &ErrReaction{Reaction: r.name, RunID: rc.RunID, Err: actionErr}
	}

	return err
}
