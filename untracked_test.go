package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUntracked(t *testing.T) {
	t.Run("reads inside untracked do not create provider edges", func(t *testing.T) {
		a := New(WithValue(1))
		b := New(WithValue(10))
		calls := 0
		c := New(WithDef(func(int) (int, error) {
			calls++
			return a.Get() + UntrackedValue(b.Get), nil
		}))

		assert.Equal(t, 11, c.Get())
		assert.Equal(t, 1, calls)

		b.Set(20)
		assert.Equal(t, 11, c.Get())
		assert.Equal(t, 1, calls)

		a.Set(2)
		assert.Equal(t, 22, c.Get())
		assert.Equal(t, 2, calls)
	})

	t.Run("untracked survives a panicking reader", func(t *testing.T) {
		a := New(WithValue(1))
		func() {
			defer func() { recover() }()
			Untracked(func() {
				a.Get()
				panic("boom")
			})
		}()

		// a second, ordinary untracked call should still work: the
		// depth counter must have been restored despite the panic.
		read := false
		Untracked(func() {
			a.Get()
			read = true
		})
		assert.True(t, read)
	})
}
