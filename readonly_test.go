package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadOnlyView(t *testing.T) {
	t.Run("tracks the source value and writes always fail", func(t *testing.T) {
		c := New(WithValue(1))
		view := c.ReadOnlyView()

		assert.Equal(t, 1, view.Get())
		c.Set(2)
		assert.Equal(t, 2, view.Get())

		err := view.Set(99)
		assert.ErrorIs(t, err, ErrReadOnly)
		assert.Equal(t, 2, c.Get())
	})

	t.Run("reports the same $reactive tag as a plain cell", func(t *testing.T) {
		c := New(WithValue(1))
		view := c.ReadOnlyView()

		kind, ok := TypeOf(view)
		assert.True(t, ok)
		assert.Equal(t, KindCell, kind)
	})

	t.Run("FV unwraps through a view", func(t *testing.T) {
		c := New(WithValue(7))
		view := c.ReadOnlyView()
		assert.Equal(t, 7, FV(view, false))
	})
}
