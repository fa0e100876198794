package jobswarm

import "sync/atomic"

const (
	ownerIdle int32 = iota
	ownerBusy
	ownerDispatching
)

// ownerGuard detects owner operations that overlap.
//
// Go exposes no goroutine identity, so the guard cannot tell which
// goroutine is the owner. It can tell that two owner operations are in
// flight at once, which only happens when more than one goroutine acts as
// the owner, or when a callback calls back into Drain.
type ownerGuard struct {
	state atomic.Int32
}

// enter claims the guard for a Drain or Release.
func (g *ownerGuard) enter() error {
	if g.state.CompareAndSwap(ownerIdle, ownerBusy) {
		return nil
	}
	if g.state.Load() == ownerDispatching {
		return ErrReentrantDrain
	}
	return ErrConcurrentOwner
}

// enterSubmit claims the guard for a Submit. Submitting from inside a
// callback is allowed, so a dispatching guard is accepted as is and the
// returned release is a no-op.
func (g *ownerGuard) enterSubmit() (func(), error) {
	if g.state.CompareAndSwap(ownerIdle, ownerBusy) {
		return g.leave, nil
	}
	if g.state.Load() == ownerDispatching {
		return func() {}, nil
	}
	return nil, ErrConcurrentOwner
}

func (g *ownerGuard) leave() { g.state.Store(ownerIdle) }

// dispatching marks the span during which user callbacks run.
func (g *ownerGuard) dispatching(on bool) {
	if on {
		g.state.Store(ownerDispatching)
		return
	}
	g.state.Store(ownerBusy)
}
