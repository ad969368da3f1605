package internal

import "github.com/petermattis/goid"

// Tracker holds the process-wide evaluation state: the cell whose
// definition is currently running, the untracked-read depth, and the
// evaluation-wait (batch) depth.
//
// The runtime is cooperative and single-threaded by contract: at
// most one goroutine is ever expected to be inside reactive code at a time.
// goid.Get() is used to identify the owning goroutine, not to make the
// tracker safe for concurrent use, but to catch a caller
// that violates the single-owner contract and fail loudly instead of
// silently corrupting provider/consumer edges.
type Tracker struct {
	currentEvaluator *Cell
	untrackDepth     int
	evalWaitDepth    int

	ownerGID   int64
	ownerDepth int
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// guard claims (or re-enters) ownership of the tracker for the calling
// goroutine, panicking with a CrossGoroutineError if another goroutine
// already owns it. The returned func releases one level of ownership.
func (t *Tracker) guard() func() {
	gid := goid.Get()

	if t.ownerDepth == 0 {
		t.ownerGID = gid
	} else if t.ownerGID != gid {
		panic(&CrossGoroutineError{Expected: t.ownerGID, Actual: gid})
	}

	t.ownerDepth++
	return func() {
		t.ownerDepth--
		if t.ownerDepth == 0 {
			t.ownerGID = 0
		}
	}
}

// CurrentEvaluator returns the cell whose definition is currently running,
// or nil if none is.
func (t *Tracker) CurrentEvaluator() *Cell {
	return t.currentEvaluator
}

// IsTracking reports whether reads should currently create provider edges.
func (t *Tracker) IsTracking() bool {
	return t.untrackDepth == 0
}

// IsWaiting reports whether a batch is currently suppressing the runner.
func (t *Tracker) IsWaiting() bool {
	return t.evalWaitDepth > 0
}

// Track records that currentEvaluator read cell, wiring a bidirectional
// provider/consumer edge, unless tracking is currently suspended, there
// is no evaluator (a bare top-level read), or the evaluator is reading
// itself (a self-reference, reported by the read and never wired as an edge).
func (t *Tracker) Track(cell *Cell) {
	release := t.guard()
	defer release()

	if !t.IsTracking() || t.currentEvaluator == nil || t.currentEvaluator == cell {
		return
	}

	t.currentEvaluator.addProvider(cell)
}

// RunWithEvaluator runs fn with currentEvaluator set to cell, restoring the
// previous evaluator afterwards (including on panic).
func (t *Tracker) RunWithEvaluator(cell *Cell, fn func()) {
	release := t.guard()
	defer release()

	prev := t.currentEvaluator
	t.currentEvaluator = cell
	defer func() { t.currentEvaluator = prev }()

	fn()
}

// RunUntracked runs fn with reads suppressed from creating provider edges.
func (t *Tracker) RunUntracked(fn func()) {
	release := t.guard()
	defer release()

	t.untrackDepth++
	defer func() { t.untrackDepth-- }()

	fn()
}

// EnterWait increments the evaluation-wait depth. The caller must invoke
// the returned func exactly once to decrement it again.
func (t *Tracker) EnterWait() func() {
	release := t.guard()

	t.evalWaitDepth++
	return func() {
		t.evalWaitDepth--
		release()
	}
}
