package reactive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	t.Run("coalesces multiple provider writes into one recomputation", func(t *testing.T) {
		a := New(WithValue(1))
		b := New(WithValue(2))
		calls := 0
		c := New(WithDef(func(int) (int, error) {
			calls++
			return a.Get() + b.Get(), nil
		}))

		assert.Equal(t, 3, c.Get())
		assert.Equal(t, 1, calls)

		Batch(func() {
			a.Set(2)
			b.Set(3)
		})

		assert.Equal(t, 5, c.Get())
		assert.Equal(t, 2, calls)
	})

	t.Run("log interleaves batched writes with the enclosing statement in order", func(t *testing.T) {
		log := []string{}

		count := New(WithValue(0))
		derived := New(WithDef(func(int) (int, error) {
			v := count.Get()
			log = append(log, fmt.Sprintf("changed %d", v))
			return v, nil
		}), WithEager[int]())
		_ = derived

		<-Wait()

		Batch(func() {
			count.Set(10)
			count.Set(20)
			log = append(log, "updated")
		})
		<-Wait()

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"changed 20",
		}, log)
	})

	t.Run("nested batches defer to the outer batch's single drain", func(t *testing.T) {
		count := New(WithValue(0))
		calls := 0
		derived := New(WithDef(func(int) (int, error) {
			calls++
			return count.Get(), nil
		}), WithEager[int]())

		<-Wait()
		assert.Equal(t, 1, calls)

		Batch(func() {
			count.Set(10)
			Batch(func() {
				count.Set(20)
			})
		})
		<-Wait()

		assert.Equal(t, 20, derived.Get())
		assert.Equal(t, 2, calls)
	})
}
