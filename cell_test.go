package reactive

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mesgjs/reactive/internal"
	"github.com/stretchr/testify/assert"
)

func TestCellBasic(t *testing.T) {
	t.Run("plain value cell reads back what was set", func(t *testing.T) {
		c := New(WithValue(1))
		assert.Equal(t, 1, c.Get())
		c.Set(2)
		assert.Equal(t, 2, c.Get())
	})

	t.Run("chain propagates through a definition", func(t *testing.T) {
		a := New(WithValue(1))
		b := New(WithDef(func(int) (int, error) { return a.Get() + 1, nil }))

		assert.Equal(t, 2, b.Get())
		a.Set(3)
		assert.Equal(t, 4, b.Get())
	})
}

func TestCellLazyByDefault(t *testing.T) {
	// Without eager, a derived cell's definition doesn't run until its
	// first read, and provider writes before that read don't trigger it.
	a := New(WithValue(1))
	calls := 0
	b := New(WithDef(func(int) (int, error) {
		calls++
		return a.Get() + 1, nil
	}))

	assert.Equal(t, 0, calls)

	a.Set(2)
	a.Set(3)
	a.Set(4)
	assert.Equal(t, 0, calls)

	assert.Equal(t, 5, b.Get())
	assert.Equal(t, 1, calls)
}

func TestCellEagerTriggering(t *testing.T) {
	// With eager, a write to a provider triggers recomputation on the
	// scheduler without an explicit read.
	a := New(WithValue(1))
	b := New(WithDef(func(int) (int, error) { return a.Get() + 1, nil }), WithEager[int]())

	<-Wait()
	assert.Equal(t, 2, b.Get())

	a.Set(10)
	<-Wait()
	assert.Equal(t, 11, b.Get())
}

func TestCellComparePredicateSkipsRecomputation(t *testing.T) {
	// A custom comparator can treat semantically-equal values as
	// unchanged, leaving the downstream definition count unchanged.
	type point struct{ x int }

	a := New(WithValue(point{x: 1}), WithCompare(func(old, new point) bool {
		return old.x != new.x
	}))
	calls := 0
	b := New(WithDef(func(int) (int, error) {
		calls++
		return a.Get().x, nil
	}))

	assert.Equal(t, 1, b.Get())
	assert.Equal(t, 1, calls)

	a.Set(point{x: 1})
	assert.Equal(t, 1, b.Get())
	assert.Equal(t, 1, calls)

	a.Set(point{x: 2})
	assert.Equal(t, 2, b.Get())
	assert.Equal(t, 2, calls)
}

func TestCellErrorPropagation(t *testing.T) {
	// A definition failure propagates as the cached error on every
	// consumer until the definition is reassigned.
	boom := errors.New("boom")

	a := New(WithDef(func(int) (int, error) { return 0, boom }))
	b := New(WithDef(func(int) (int, error) { return a.Get() + 1, nil }))
	c := New(WithDef(func(int) (int, error) { return b.Get() + 1, nil }))

	_, errA := a.TryGet()
	_, errB := b.TryGet()
	_, errC := c.TryGet()
	assert.ErrorIs(t, errA, boom)
	assert.ErrorIs(t, errB, boom)
	assert.ErrorIs(t, errC, boom)

	a.SetDef(func(int) (int, error) { return 10, nil })
	assert.Equal(t, 10, a.Get())
	assert.Equal(t, 11, b.Get())
	assert.Equal(t, 12, c.Get())
}

func TestCellSelfReferenceDetection(t *testing.T) {
	// A cell reading itself (directly or transitively) during its own
	// evaluation fails with a self-reference error; prior state is
	// preserved.
	a := New(WithValue(0))
	a.SetDef(func(int) (int, error) { return a.Get() + 1, nil })

	_, err := a.TryGet()
	var selfRef *internal.SelfReferenceError
	assert.ErrorAs(t, err, &selfRef)
}

func TestCellIdentityStability(t *testing.T) {
	// Getter and read-only view are stable across repeated access.
	c := New(WithValue(1))

	g1 := c.Getter()
	g2 := c.Getter()
	assert.Equal(t, fmt.Sprintf("%p", g1), fmt.Sprintf("%p", g2))

	rv1 := c.ReadOnlyView()
	rv2 := c.ReadOnlyView()
	assert.Same(t, rv1, rv2)
}
