package internal

import (
	"sync"
	"time"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the Runtime owned by the calling goroutine, creating
// one on first use. Keying by goroutine id gives each test (Go spawns a
// fresh goroutine per t.Run) its own isolated value graph for free.
func GetRuntime() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime()
	runtimes.Store(gid, r)
	return r
}

// Runtime bundles the tracker (who's evaluating, is tracking suspended) and
// the scheduler (what's stale, the yielding runner) for one cooperative,
// single-goroutine value graph.
type Runtime struct {
	tracker   *Tracker
	scheduler *Scheduler

	mu            sync.Mutex
	errorHandlers []func(error)
}

func NewRuntime() *Runtime {
	tracker := NewTracker()
	return &Runtime{
		tracker:   tracker,
		scheduler: NewScheduler(tracker),
	}
}

// Batch suspends the runner for the duration of fn, draining once fn
// returns (including on panic, so a panicking definition doesn't leave the
// graph permanently paused).
func (r *Runtime) Batch(fn func()) {
	release := r.tracker.EnterWait()
	// release must run before Run: defers are LIFO, so it is registered
	// after Run is, letting evalWaitDepth drop back to 0 first and giving
	// this frame's Run a real chance to drain (a nested batch's own Run
	// still no-ops here, since the enclosing batch's depth is still up).
	defer r.scheduler.Run()
	defer release()

	fn()
}

// Untracked runs fn with reads suspended from creating provider edges.
func (r *Runtime) Untracked(fn func()) {
	r.tracker.RunUntracked(fn)
}

// Wait returns a channel that closes once the value graph has settled:
// nothing scheduled, no runner in flight, no outer batch pending.
func (r *Runtime) Wait() <-chan struct{} {
	return r.scheduler.Wait()
}

// Run kicks the scheduler, draining anything already scheduled. Mirrors a
// manual flush; most callers never need it since writes schedule
// themselves.
func (r *Runtime) Run() {
	r.scheduler.Run()
}

// SetSliceTime / SliceTime expose the runner's cooperative-yield budget.
func (r *Runtime) SetSliceTime(d time.Duration) {
	r.scheduler.SetSliceTime(d)
}

func (r *Runtime) SliceTime() time.Duration {
	return r.scheduler.SliceTime()
}

// OnError registers a handler invoked when an eager, consumer-less cell's
// definition fails, whether the runner drained it in the background or a
// direct Read recomputed it. Handlers run in registration order; if none
// are registered, raiseAsync panics instead of dropping the error silently.
func (r *Runtime) OnError(fn func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorHandlers = append(r.errorHandlers, fn)
}

func (r *Runtime) raiseAsync(err error) {
	r.mu.Lock()
	handlers := append([]func(error){}, r.errorHandlers...)
	r.mu.Unlock()

	if len(handlers) == 0 {
		panic(err)
	}
	for _, h := range handlers {
		h(err)
	}
}
