package statemachine

import (
	"context"
	"log/slog"
	"sync"
)

// Executor runs fn on the execution context that owns a Machine and waits
// for it to return. Actions started by reactions reach the machine only
// through its executor. Run must not be called from inside that execution
// context.
type Executor interface {
	Run(ctx context.Context, fn func()) error
}

// Interface compliance check.
var _ Executor = (*Loop)(nil)

// Loop serializes work onto a single goroutine. Set, Apply, Setup and the
// observers they trigger all run there, so the machine never sees
// concurrent mutation even when reactions run on their own goroutines.
type Loop struct {
	tasks  chan func()
	logger *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
	done    chan struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithQueueSize sets the task queue buffer size.
func WithQueueSize(size int) LoopOption {
	return func(l *Loop) {
		if size >= 0 {
			l.tasks = make(chan func(), size)
		}
	}
}

// WithLoopLogger sets the logger for the loop.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a stopped loop. Call Start before submitting work.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		tasks:   make(chan func(), 64),
		logger:  Logger,
		stopped: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.logger = l.logger.With("component", "state_machine_loop")
	close(l.stopped)

	return l
}

// Start launches the loop goroutine. It runs until ctx is cancelled or Stop
// is called.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		return
	}

	ctx, l.cancel = context.WithCancel(ctx)
	l.stopped = make(chan struct{})
	l.done = make(chan struct{})

	go l.run(ctx, l.stopped, l.done)
}

// Stop cancels the loop and waits for the task in progress to finish.
// Queued tasks that did not start are dropped; their Run callers get
// ErrLoopStopped.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

func (l *Loop) run(ctx context.Context, stopped, done chan struct{}) {
	defer close(done)
	defer close(stopped)

	l.logger.Debug("loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("loop stopped", "dropped", l.drain())
			return
		case fn := <-l.tasks:
			if ctx.Err() != nil {
				l.logger.Debug("loop stopped", "dropped", l.drain()+1)
				return
			}

			fn()
		}
	}
}

// drain discards queued tasks and returns how many there were.
func (l *Loop) drain() int {
	dropped := 0

	for {
		select {
		case <-l.tasks:
			dropped++
		default:
			return dropped
		}
	}
}

// Do queues fn without waiting for it. It reports false when the loop is
// not running or the queue is full.
func (l *Loop) Do(fn func()) bool {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()

	select {
	case <-stopped:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	default:
		l.logger.Warn("task queue full, dropping task")
		return false
	}
}

// Run queues fn and waits until it has run. It must not be called from the
// loop goroutine itself, which includes observers and synchronous
// reactions of a machine the loop owns.
func (l *Loop) Run(ctx context.Context, fn func()) error {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()

	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case <-stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	case l.tasks <- task:
	}

	select {
	case <-finished:
		return nil
	case <-stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
