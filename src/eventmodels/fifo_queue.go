package eventmodels

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// FIFOQueue is an ordered work queue with concurrent producers and a single
// consumer. Items are dequeued in arrival order.
type FIFOQueue[T any] struct {
	caller  string
	queue   chan T
	counter uint
	mutex   sync.Mutex
}

func NewFIFOQueue[T any](caller string, size int) *FIFOQueue[T] {
	return &FIFOQueue[T]{
		queue:  make(chan T, size),
		caller: caller,
	}
}

func (q *FIFOQueue[T]) Enqueue(item T) {
	q.mutex.Lock()
	q.counter++
	counter := q.counter
	q.mutex.Unlock()

	log.Tracef("%v (%p): enqueueing item: %v, count=%v", q.caller, q, item, counter)
	q.queue <- item
}

// Dequeue blocks until an item is available or the context is cancelled.
func (q *FIFOQueue[T]) Dequeue(ctx context.Context) (T, bool) {
	select {
	case item := <-q.queue:
		q.mutex.Lock()
		q.counter--
		counter := q.counter
		q.mutex.Unlock()

		log.Tracef("%v (%p): dequeued item: %v, count=%v", q.caller, q, item, counter)
		return item, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

func (q *FIFOQueue[T]) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return int(q.counter)
}
