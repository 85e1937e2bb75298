package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
)

// RunFunc is one tick of a task. It receives the task's context, which is
// canceled by Stop.
type RunFunc func(ctx context.Context)

// Task runs a function immediately on Start and then on a fixed interval
// until Stop. Ticks never overlap; a tick that arrives while a run is in
// progress is dropped.
type Task struct {
	name     string
	interval time.Duration
	run      RunFunc
	logger   *logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	trigger chan struct{}

	runs atomic.Int64
}

func NewTask(name string, interval time.Duration, run RunFunc, logger *logging.Logger) *Task {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Task{
		name:     name,
		interval: interval,
		run:      run,
		logger:   logger.Named("scheduler").With("task", name),
	}
}

// Start launches the loop. It reports false when the task is already running.
func (t *Task) Start(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.trigger = make(chan struct{}, 1)

	go t.loop(loopCtx, t.done, t.trigger)
	t.logger.InfoContext(ctx, "task started", "interval", t.interval.String())
	return true
}

// Stop cancels the loop and waits for an in-flight run to return. Stopping a
// task that is not running is a no-op.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.done = nil
	t.trigger = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	t.logger.Info("task stopped", "runs", t.runs.Load())
}

// Trigger requests an extra run as soon as the loop is idle. Requests made
// while one is already pending are coalesced.
func (t *Task) Trigger() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.trigger == nil {
		return false
	}
	select {
	case t.trigger <- struct{}{}:
	default:
	}
	return true
}

func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Runs counts completed runs since construction.
func (t *Task) Runs() int64 {
	return t.runs.Load()
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) loop(ctx context.Context, done chan struct{}, trigger <-chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx)
		case <-trigger:
			t.tick(ctx)
		}
	}
}

func (t *Task) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			t.logger.ErrorContext(ctx, "task run panicked", "panic", rec)
		}
	}()
	t.run(ctx)
	t.runs.Add(1)
}
