package jobswarm

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Spooler bounds how many jobs a caller keeps outstanding on a swarm.
//
// A slot is taken on Submit and given back inside the job's callback,
// which only runs on the owner goroutine during Drain. When every slot is
// taken, Submit drains the swarm itself and, if nothing has resolved yet,
// blocks on Swarm.Ready until a worker finishes something.
//
// A Spooler belongs to the swarm's owner goroutine and is not safe for
// concurrent use.
type Spooler[P any] struct {
	swarm       *Swarm[P]
	slots       *semaphore.Weighted
	ceiling     int64
	outstanding int64
}

// NewSpooler limits s to ceiling outstanding jobs. A ceiling below one is
// raised to one.
func NewSpooler[P any](s *Swarm[P], ceiling int64) *Spooler[P] {
	if ceiling < 1 {
		ceiling = 1
	}
	return &Spooler[P]{
		swarm:   s,
		slots:   semaphore.NewWeighted(ceiling),
		ceiling: ceiling,
	}
}

// Submit waits for a free slot, then submits the job to the swarm.
func (sp *Spooler[P]) Submit(ctx context.Context, h Handler[P], payload P, tag int) error {
	if h == nil {
		return ErrNilHandler
	}
	if err := sp.acquire(ctx); err != nil {
		return err
	}
	if err := sp.swarm.Submit(&spooledJob[P]{inner: h, sp: sp}, payload, tag); err != nil {
		sp.slots.Release(1)
		return err
	}
	sp.outstanding++
	return nil
}

// Wait drains the swarm until every job submitted through the spooler has
// had its callback fired.
func (sp *Spooler[P]) Wait(ctx context.Context) error {
	for sp.outstanding > 0 {
		if err := sp.drainOrBlock(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Outstanding returns how many spooled jobs still await their callback.
func (sp *Spooler[P]) Outstanding() int64 { return sp.outstanding }

func (sp *Spooler[P]) Ceiling() int64 { return sp.ceiling }

func (sp *Spooler[P]) acquire(ctx context.Context) error {
	for !sp.slots.TryAcquire(1) {
		if err := sp.drainOrBlock(ctx); err != nil {
			return err
		}
	}
	return nil
}

// drainOrBlock dispatches whatever has resolved. When nothing has, it
// parks until a worker pushes a completion or ctx ends.
func (sp *Spooler[P]) drainOrBlock(ctx context.Context) error {
	n, err := sp.swarm.Drain()
	if err != nil || n > 0 {
		return err
	}
	select {
	case <-sp.swarm.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (sp *Spooler[P]) done() {
	sp.outstanding--
	sp.slots.Release(1)
}

// spooledJob returns the spooler slot before forwarding each callback,
// so a panicking callback cannot leak a slot.
type spooledJob[P any] struct {
	inner Handler[P]
	sp    *Spooler[P]
}

func (j *spooledJob[P]) Process(p P, tag int) { j.inner.Process(p, tag) }

func (j *spooledJob[P]) OnFinish(p P, tag int) {
	defer j.sp.done()
	j.inner.OnFinish(p, tag)
}

func (j *spooledJob[P]) OnCancel(p P, tag int) {
	defer j.sp.done()
	j.inner.OnCancel(p, tag)
}

func (j *spooledJob[P]) OnFail(p P, tag int, err error) {
	defer j.sp.done()
	if fh, ok := j.inner.(FailureHandler[P]); ok {
		fh.OnFail(p, tag, err)
		return
	}
	j.inner.OnCancel(p, tag)
}
