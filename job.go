package jobswarm

import (
	"sync"
	"sync/atomic"
)

// Handler is the capability set a unit of work must implement.
//
// Process runs on a worker goroutine, concurrently with other Process
// calls and with the owner's unrelated work. It must only write to output
// regions that no other job touches; no lock is held while it runs.
//
// OnFinish and OnCancel run on the owner goroutine, inside Drain or
// Release, never concurrently with each other. Exactly one of them fires
// per submitted job. Bookkeeping that needs single-threaded semantics,
// such as decrementing an outstanding-job counter, belongs there.
type Handler[P any] interface {
	Process(payload P, tag int)
	OnFinish(payload P, tag int)
	OnCancel(payload P, tag int)
}

// FailureHandler is implemented by handlers that want to observe a job
// whose Process panicked. When a handler does not implement it, a failed
// job is reported through OnCancel instead, since it produced no result.
type FailureHandler[P any] interface {
	OnFail(payload P, tag int, err error)
}

// HandlerFuncs adapts plain functions to a Handler. Nil functions are no-ops.
func HandlerFuncs[P any](process, onFinish, onCancel func(P, int)) Handler[P] {
	return funcHandler[P]{process: process, onFinish: onFinish, onCancel: onCancel}
}

type funcHandler[P any] struct {
	process  func(P, int)
	onFinish func(P, int)
	onCancel func(P, int)
}

func (h funcHandler[P]) Process(p P, tag int) {
	if h.process != nil {
		h.process(p, tag)
	}
}

func (h funcHandler[P]) OnFinish(p P, tag int) {
	if h.onFinish != nil {
		h.onFinish(p, tag)
	}
}

func (h funcHandler[P]) OnCancel(p P, tag int) {
	if h.onCancel != nil {
		h.onCancel(p, tag)
	}
}

// job binds a handler to its payload and tag while it moves through the
// swarm. Records are recycled through jobPool once their callback fired.
//
// The payload is never dereferenced by the swarm. The caller keeps it
// valid until the matching callback has run.
type job[P any] struct {
	handler Handler[P]
	payload P
	tag     int

	state atomic.Int32

	// err is written by the worker before the job is pushed to the
	// completion queue and read by the owner after taking it.
	err error
}

func (j *job[P]) State() State { return State(j.state.Load()) }

// transition moves the job from one state to another and reports whether
// the job was in the expected state.
func (j *job[P]) transition(from, to State) bool {
	return j.state.CompareAndSwap(int32(from), int32(to))
}

// jobPool recycles job records to keep Submit allocation-free in steady state.
type jobPool[P any] struct {
	p sync.Pool
}

func (jp *jobPool[P]) Get(h Handler[P], payload P, tag int) *job[P] {
	j, _ := jp.p.Get().(*job[P])
	if j == nil {
		j = &job[P]{}
		statAllocated()
	}
	j.handler = h
	j.payload = payload
	j.tag = tag
	j.err = nil
	j.state.Store(int32(Pending))
	return j
}

func (jp *jobPool[P]) Put(j *job[P]) {
	var zero P
	j.handler = nil
	j.payload = zero
	j.err = nil
	jp.p.Put(j)
	statRecycled()
}
