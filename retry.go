package jobswarm

import (
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// Retry submits a job that is resubmitted when its Process panics, up to
// policy.Attempts tries in total.
//
// Retrying is layered on top of the swarm: the failed attempt resolves
// normally, and the resubmission happens on the owner goroutine inside
// Drain. Every retry sleeps the next backoff delay on its worker before
// calling Process again. The handler sees exactly one callback: OnFinish
// on the first successful attempt, OnCancel if the swarm cancels a
// pending attempt, and OnFail (or OnCancel) once attempts run out.
func Retry[P any](s *Swarm[P], h Handler[P], payload P, tag int, policy RetryPolicy) error {
	if h == nil {
		return ErrNilHandler
	}
	policy = policy.withDefaults()
	bo := boff.New(policy.Initial, policy.Max, time.Now().UnixNano())
	r := &retryJob[P]{
		swarm:   s,
		inner:   h,
		policy:  policy,
		attempt: 1,
		next:    bo.Next,
	}
	return s.Submit(r, payload, tag)
}

type retryJob[P any] struct {
	swarm  *Swarm[P]
	inner  Handler[P]
	policy RetryPolicy

	// attempt, delay and next are touched by the owner only; the worker
	// reads delay after the resubmission published it through the queue.
	attempt int
	delay   time.Duration
	next    func() time.Duration
}

func (r *retryJob[P]) Process(p P, tag int) {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.inner.Process(p, tag)
}

func (r *retryJob[P]) OnFinish(p P, tag int) { r.inner.OnFinish(p, tag) }

func (r *retryJob[P]) OnCancel(p P, tag int) { r.inner.OnCancel(p, tag) }

func (r *retryJob[P]) OnFail(p P, tag int, err error) {
	if r.attempt < r.policy.Attempts {
		r.attempt++
		r.delay = r.next()
		logger := lg.FromContext(r.swarm.opts.Ctx)
		serr := r.swarm.Submit(r, p, tag)
		if serr == nil {
			logger.Warn("job attempt failed; backing off",
				lg.Int("tag", tag),
				lg.Int("attempt", r.attempt-1),
				lg.String("sleep", r.delay.String()),
				lg.Any("error", err),
			)
			return
		}
		// Release has closed submission; report the last failure instead.
		logger.Info("job retry refused", lg.Int("tag", tag), lg.Any("reason", serr))
	}

	if fh, ok := r.inner.(FailureHandler[P]); ok {
		fh.OnFail(p, tag, err)
		return
	}
	r.inner.OnCancel(p, tag)
}
