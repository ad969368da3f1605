// Package reactive implements a small reactive value graph: cells that hold
// either a stored value or a definition computed from other cells, a
// dependency tracker that discovers provider/consumer edges automatically
// during evaluation, and a prioritised scheduler that recomputes stale
// cells lazily (on read) or eagerly (in the background, between yields).
//
// A Cell is created with New and a set of options:
//
//	a := reactive.New(reactive.WithValue(1))
//	b := reactive.New(reactive.WithDef(func(int) (int, error) {
//		return a.Get() + 1, nil
//	}))
//	b.Get() // 2
//	a.Set(3)
//	b.Get() // 4
//
// Writes inside Batch coalesce: every dependent recomputes at most once
// after the batch closes, no matter how many of its providers changed.
// Reads inside Untracked do not register provider edges.
package reactive
