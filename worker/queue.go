package worker

import "sync"

// queue is an unbounded FIFO: push never blocks, pop blocks until an item
// arrives or the queue is closed and drained. Single consumer.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	notify chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{notify: make(chan struct{}, 1)}
}

// push returns false once the queue is closed.
func (q *queue[T]) push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// tryPop never blocks. closed is true only when the queue is closed and empty.
func (q *queue[T]) tryPop() (v T, ok bool, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) > 0 {
		v = q.items[0]
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		return v, true, false
	}
	return v, false, q.closed
}

func (q *queue[T]) pop() (T, bool) {
	for {
		v, ok, closed := q.tryPop()
		if ok {
			return v, true
		}
		if closed {
			return v, false
		}
		<-q.notify
	}
}

func (q *queue[T]) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}
