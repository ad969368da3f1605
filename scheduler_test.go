package reactive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSliceTime(t *testing.T) {
	original := SliceTime()
	defer SetSliceTime(original)

	SetSliceTime(2 * time.Millisecond)
	assert.Equal(t, 2*time.Millisecond, SliceTime())
}

func TestOnErrorCatchesAsyncEagerFailure(t *testing.T) {
	caught := make(chan error, 1)
	OnError(func(err error) { caught <- err })

	a := New(WithDef(func(int) (int, error) {
		return 0, assert.AnError
	}), WithEager[int]())
	_ = a

	select {
	case err := <-caught:
		assert.ErrorIs(t, err, assert.AnError)
	case <-time.After(time.Second):
		t.Fatal("expected OnError handler to be invoked for a terminal eager failure")
	}
}

func TestWaitResolvesImmediatelyWhenIdle(t *testing.T) {
	select {
	case <-Wait():
	default:
		t.Fatal("Wait() should resolve immediately on an idle runtime")
	}
}
