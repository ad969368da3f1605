package reactive

import (
	"fmt"
	"time"

	"github.com/mesgjs/reactive/internal"
)

// reactiveValue is the unwrap hook FV walks: anything backed by a cell
// (Cell[T], ReadOnlyView[T]) implements it.
type reactiveValue interface {
	readAny() (any, error)
}

// bundler is the deep-snapshot hook FV's unwrapBundle mode looks for.
type bundler interface {
	Snapshot() any
}

// kindTagged is what TypeOf looks for.
type kindTagged interface {
	ReactiveKind() int
}

// Batch suspends recomputation for the duration of fn: ripples still
// happen synchronously, but the scheduler does not drain until fn returns,
// so a derived cell reading several inputs that all changed inside the
// batch recomputes at most once.
func Batch(fn func()) {
	internal.GetRuntime().Batch(fn)
}

// BatchValue is Batch for a fn that returns a value.
func BatchValue[T any](fn func() T) T {
	var v T
	Batch(func() { v = fn() })
	return v
}

// Untracked runs fn with reads suspended from creating provider edges, even
// if called from inside an actively evaluating cell's definition.
func Untracked(fn func()) {
	internal.GetRuntime().Untracked(fn)
}

// UntrackedValue is Untracked for a fn that returns a value.
func UntrackedValue[T any](fn func() T) T {
	var v T
	Untracked(func() { v = fn() })
	return v
}

// FV follows v through any number of reactive wrappers down to a plain
// value: while v is a Cell or ReadOnlyView, it reads through it. If
// unwrapBundle is true and the final value is a Bundle, its deep snapshot
// is returned instead of the Bundle itself.
func FV(v any, unwrapBundle bool) any {
	for {
		rv, ok := v.(reactiveValue)
		if !ok {
			break
		}
		next, err := rv.readAny()
		if err != nil {
			panic(err)
		}
		v = next
	}

	if unwrapBundle {
		if b, ok := v.(bundler); ok {
			return b.Snapshot()
		}
	}

	return v
}

// TypeOf reports the $reactive tag of v (KindCell, KindBundle) and whether
// v carries one at all.
func TypeOf(v any) (kind int, ok bool) {
	kt, ok := v.(kindTagged)
	if !ok {
		return 0, false
	}
	return kt.ReactiveKind(), true
}

// Run drains anything already scheduled. Most callers never need this;
// writes and definition changes arm the runner themselves.
func Run() {
	internal.GetRuntime().Run()
}

// Wait returns a channel that closes once the value graph has settled:
// nothing scheduled, no runner in flight, no enclosing batch.
func Wait() <-chan struct{} {
	return internal.GetRuntime().Wait()
}

// SetSliceTime changes the wall-clock budget the runner grants itself
// between cooperative yields while draining tier 0. The default is 5ms.
func SetSliceTime(d time.Duration) {
	internal.GetRuntime().SetSliceTime(d)
}

// SliceTime returns the current slice-time budget.
func SliceTime() time.Duration {
	return internal.GetRuntime().SliceTime()
}

// OnError registers a handler for errors raised by an eager, consumer-less
// cell whose definition failed, whether the scheduler drained it in the
// background or a direct Get/TryGet recomputed it (in the latter case the
// error is also returned to that caller). Without a registered handler,
// such errors panic instead of vanishing silently.
func OnError(fn func(error)) {
	internal.GetRuntime().OnError(fn)
}

func toString(v any) string {
	return fmt.Sprint(v)
}
