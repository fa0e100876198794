// fifo_queue.go
package jobswarm

const (
	initialFifoCapacity = 256
)

// fifoQueue implements a growable first-in–first-out ring buffer.
//
// It is not safe for concurrent use; pendingQueue guards it with its own
// mutex. Elements are returned strictly in the order they were pushed.
// When the buffer is full Push doubles its capacity instead of dropping.
type fifoQueue[T any] struct {
	buf        []T // circular buffer
	head, tail int // read/write indices
	size       int // number of elements currently buffered
	capacity   int
}

// newFifoQueue creates a FIFO queue with the given initial capacity.
func newFifoQueue[T any](capacity int) *fifoQueue[T] {
	if capacity <= 0 {
		capacity = initialFifoCapacity
	}
	return &fifoQueue[T]{
		buf:      make([]T, capacity),
		capacity: capacity,
	}
}

// Len returns the number of elements currently waiting in the queue.
func (q *fifoQueue[T]) Len() int { return q.size }

// Push inserts v at the tail of the queue.
func (q *fifoQueue[T]) Push(v T) {
	if q.size == q.capacity {
		q.grow()
	}
	q.buf[q.tail] = v
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
}

// Pop removes and returns the oldest element.
//
// If the queue is empty, returns the zero value and false.
func (q *fifoQueue[T]) Pop() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	return v, true
}

// PopAll removes every buffered element and returns them oldest first.
func (q *fifoQueue[T]) PopAll() []T {
	out := make([]T, 0, q.size)
	for {
		v, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// grow doubles the buffer and unwraps the ring so head starts at zero.
func (q *fifoQueue[T]) grow() {
	newCap := q.capacity * 2
	buf := make([]T, newCap)

	if q.size > 0 {
		if q.head < q.tail {
			copy(buf, q.buf[q.head:q.tail])
		} else {
			n := copy(buf, q.buf[q.head:])
			copy(buf[n:], q.buf[:q.tail])
		}
	}

	q.buf = buf
	q.head = 0
	q.tail = q.size
	q.capacity = newCap
}
