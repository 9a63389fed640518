package queue

import "errors"

// ErrEmpty is returned when popping from an empty FIFO.
var ErrEmpty = errors.New("queue is empty")

// FIFO is an unbounded first-in-first-out queue backed by a ring buffer.
// Push and Pop are O(1) amortized. FIFO is not safe for concurrent use;
// callers guard it with their own lock.
type FIFO[T any] struct {
	buf  []T
	head int
	size int
}

// New creates a FIFO with room for capacity items before it grows
func New[T any](capacity int) *FIFO[T] {
	if capacity < 1 {
		capacity = 8
	}
	return &FIFO[T]{buf: make([]T, capacity)}
}

// Push appends v at the back
func (q *FIFO[T]) Push(v T) {
	if q.buf == nil {
		q.buf = make([]T, 8)
	}
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++
}

// Pop removes and returns the front item. It returns ErrEmpty when there is
// nothing to pop; it never blocks.
func (q *FIFO[T]) Pop() (T, error) {
	var zero T
	if q.size == 0 {
		return zero, ErrEmpty
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, nil
}

// Len returns the number of queued items
func (q *FIFO[T]) Len() int {
	return q.size
}

// Drain removes every queued item and returns them oldest first
func (q *FIFO[T]) Drain() []T {
	out := make([]T, q.size)
	for i := range out {
		out[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	clear(q.buf)
	q.head = 0
	q.size = 0
	return out
}

func (q *FIFO[T]) grow() {
	next := make([]T, len(q.buf)*2)
	n := copy(next, q.buf[q.head:])
	copy(next[n:], q.buf[:q.head])
	q.buf = next
	q.head = 0
}
