package eventmodels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOQueue(t *testing.T) {
	t.Run("dequeues in arrival order", func(t *testing.T) {
		queue := NewFIFOQueue[int]("test", 10)

		queue.Enqueue(1)
		queue.Enqueue(2)
		queue.Enqueue(3)

		require.Equal(t, 3, queue.Len())

		for _, expected := range []int{1, 2, 3} {
			item, ok := queue.Dequeue(context.Background())
			require.True(t, ok)
			assert.Equal(t, expected, item)
		}

		assert.Equal(t, 0, queue.Len())
	})

	t.Run("dequeue unblocks on context cancel", func(t *testing.T) {
		queue := NewFIFOQueue[int]("test", 10)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan bool, 1)
		go func() {
			_, ok := queue.Dequeue(ctx)
			done <- ok
		}()

		cancel()

		select {
		case ok := <-done:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("dequeue did not unblock after cancel")
		}
	})
}
