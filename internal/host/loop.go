package host

import (
	"context"
	"log/slog"
	"sync"
)

// Task is a unit of work run on the loop.
type Task func()

// Loop is the page's single cooperative execution thread.
//
// Tasks run one at a time, in FIFO order, on whichever goroutine calls
// Run, RunOne or Drain. The task queue is unbounded and safe for concurrent
// Post; a buffered signal channel of size 1 coalesces wakeups so Run can
// wait on a context without spinning.
//
// A task that panics is recovered and logged. One faulty callback never
// takes the loop down, matching how a browser reports an uncaught exception
// in a timer and moves on.
type Loop struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
	signal chan struct{}

	logger *slog.Logger
}

// NewLoop creates an empty loop. A nil logger uses slog.Default().
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		tasks:  make([]Task, 0, 16),
		signal: make(chan struct{}, 1),
		logger: logger,
	}
}

// Post schedules t to run after everything already queued.
// Safe from any goroutine. Returns false if the loop is closed.
func (l *Loop) Post(t Task) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	l.tasks = append(l.tasks, t)

	select {
	case l.signal <- struct{}{}:
	default:
	}
	return true
}

// next removes and returns the front task.
func (l *Loop) next() (Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) == 0 {
		return nil, false
	}
	t := l.tasks[0]
	// Release the closure so the backing array does not pin it.
	l.tasks[0] = nil
	if len(l.tasks) == 1 {
		l.tasks = l.tasks[:0]
	} else {
		l.tasks = l.tasks[1:]
	}
	return t, true
}

// RunOne runs the front task, if any, and reports whether one ran.
func (l *Loop) RunOne() bool {
	t, ok := l.next()
	if !ok {
		return false
	}
	l.run(t)
	return true
}

// Drain runs tasks until the queue is empty, including tasks posted by the
// tasks it runs. Returns the number of tasks run.
func (l *Loop) Drain() int {
	n := 0
	for l.RunOne() {
		n++
	}
	return n
}

// Run processes tasks until ctx is cancelled or the loop is closed and empty.
// Must be called from exactly one goroutine.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if l.RunOne() {
			continue
		}

		l.mu.Lock()
		done := l.closed && len(l.tasks) == 0
		l.mu.Unlock()
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
		}
	}
}

// Len returns the number of pending tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Close stops accepting tasks. Pending tasks still run.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	close(l.signal)
}

func (l *Loop) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("uncaught panic in loop task", "panic", r)
		}
	}()
	t()
}
