package jobswarm

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// cachePad is used to prevent false sharing between the two queues,
// which are hammered from different sides (owner vs workers).
type cachePad = cpu.CacheLinePad

// pendingQueue holds jobs waiting for a worker.
//
// The owner pushes, workers pop. Workers park on cond while the queue is
// empty and are woken one at a time by push, or all at once by close.
type pendingQueue[P any] struct {
	mu     sync.Mutex
	cond   sync.Cond
	items  *fifoQueue[*job[P]]
	closed bool
	_      cachePad
}

func newPendingQueue[P any](capacity int) *pendingQueue[P] {
	q := &pendingQueue[P]{items: newFifoQueue[*job[P]](capacity)}
	q.cond.L = &q.mu
	return q
}

// push appends j and wakes one idle worker. It fails with ErrReleased
// once the queue has been closed.
func (q *pendingQueue[P]) push(j *job[P]) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrReleased
	}
	q.items.Push(j)
	q.mu.Unlock()
	q.cond.Signal()
	return nil
}

// pop blocks until a job is available. It returns false when the queue
// is closed and empty, which tells the worker to exit.
func (q *pendingQueue[P]) pop() (*job[P], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Len() == 0 && !q.closed {
		statParked()
		q.cond.Wait()
	}
	return q.items.Pop()
}

// close stops accepting jobs and hands back everything still queued.
// A job returned here can never be popped by a worker.
func (q *pendingQueue[P]) close() []*job[P] {
	q.mu.Lock()
	q.closed = true
	rest := q.items.PopAll()
	q.mu.Unlock()
	q.cond.Broadcast()
	return rest
}

func (q *pendingQueue[P]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// completionQueue holds resolved jobs until the owner drains them.
//
// Workers push, the owner takes the whole content at once. Two slices are
// swapped between takeAll and recycle so steady-state draining does not
// allocate.
type completionQueue[P any] struct {
	mu    sync.Mutex
	items []*job[P]
	spare []*job[P]

	// ready carries at most one pending notification that items became
	// non-empty since the last take.
	ready chan struct{}
	_     cachePad
}

func newCompletionQueue[P any](capacity int) *completionQueue[P] {
	return &completionQueue[P]{
		items: make([]*job[P], 0, capacity),
		ready: make(chan struct{}, 1),
	}
}

func (q *completionQueue[P]) push(j *job[P]) {
	q.mu.Lock()
	q.items = append(q.items, j)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
		statCoalesced()
	}
}

// takeAll returns a snapshot of every resolved job in resolution order.
// Jobs pushed after the snapshot stay for the next call.
func (q *completionQueue[P]) takeAll() []*job[P] {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = q.spare[:0]
	q.spare = nil
	return out
}

// recycle gives a fully dispatched snapshot back for reuse.
func (q *completionQueue[P]) recycle(batch []*job[P]) {
	clear(batch)
	q.mu.Lock()
	if q.spare == nil {
		q.spare = batch[:0]
	}
	q.mu.Unlock()
}

func (q *completionQueue[P]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
