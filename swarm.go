package jobswarm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Swarm fans jobs out to a fixed pool of worker goroutines and hands
// their completions back to a single owner goroutine.
//
// Only the owner may call Submit, Drain and Release. Workers never invoke
// completion callbacks; they only run Process. Callbacks fire
// synchronously inside Drain, so the owner can mutate its own state from
// them without locks.
type Swarm[P any] struct {
	id   string
	opts Options

	pending   *pendingQueue[P]
	completed *completionQueue[P]
	records   jobPool[P]

	metrics MetricsPolicy
	owner   ownerGuard

	wg            sync.WaitGroup
	activeWorkers atomic.Int32

	closeOnce   sync.Once
	closing     atomic.Bool
	released    atomic.Bool
	workersDone chan struct{}
	closedAt    time.Time
}

// New creates a swarm with the given number of workers.
func New[P any](workers int) (*Swarm[P], error) {
	if workers < 1 {
		return nil, ErrInvalidWorkers
	}
	return NewFromOptions[P](Options{Workers: workers})
}

// NewFromOptions creates a swarm and starts its workers.
// Zero-valued options are filled with defaults first.
func NewFromOptions[P any](opts Options) (*Swarm[P], error) {
	opts.FillDefaults()
	if opts.Workers < 1 {
		return nil, ErrInvalidWorkers
	}

	s := &Swarm[P]{
		id:          uuid.NewString(),
		opts:        opts,
		pending:     newPendingQueue[P](opts.QueueCapacity),
		completed:   newCompletionQueue[P](opts.QueueCapacity),
		metrics:     opts.Metrics,
		workersDone: make(chan struct{}),
	}

	for i := 0; i < opts.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	lg.FromContext(opts.Ctx).Info("Swarm started",
		lg.String("swarm_id", s.id),
		lg.Int("workers", opts.Workers),
		lg.Any("pin_workers", opts.PinWorkers),
	)
	return s, nil
}

// Submit queues a job and wakes one idle worker. It never waits for a
// worker to become free.
//
// The handler and payload are borrowed: they must stay valid until the
// job's callback has fired.
func (s *Swarm[P]) Submit(h Handler[P], payload P, tag int) error {
	if h == nil {
		return ErrNilHandler
	}
	if s.closing.Load() {
		return ErrReleased
	}
	leave, err := s.owner.enterSubmit()
	if err != nil {
		return err
	}
	defer leave()

	j := s.records.Get(h, payload, tag)
	if err := s.pending.push(j); err != nil {
		s.records.Put(j)
		return err
	}
	s.metrics.IncSubmitted()
	return nil
}

// Drain fires the callback of every job resolved so far and returns how
// many it dispatched.
//
// It takes a snapshot of the completion queue; jobs that resolve while
// the snapshot is being dispatched are left for the next call. Drain
// never waits for running jobs. Panics raised by callbacks are recovered,
// the rest of the snapshot is still dispatched, and the panics are
// returned as joined *CallbackError values.
func (s *Swarm[P]) Drain() (int, error) {
	if s.released.Load() {
		return 0, ErrReleased
	}
	if err := s.owner.enter(); err != nil {
		return 0, err
	}
	defer s.owner.leave()
	return s.dispatch()
}

// Release cancels every job that has not started, waits for running jobs
// to finish, fires all outstanding callbacks and stops the workers.
//
// After Release returns the swarm can no longer be used. Calling Release
// again is a no-op.
func (s *Swarm[P]) Release() error {
	return s.ReleaseContext(context.Background())
}

// ReleaseContext is Release bounded by ctx. If ctx ends while running
// jobs are still executing, it returns ctx.Err(); submission stays closed
// and ReleaseContext may be called again to finish.
func (s *Swarm[P]) ReleaseContext(ctx context.Context) error {
	if s.released.Load() {
		return nil
	}
	if err := s.owner.enter(); err != nil {
		return err
	}
	defer s.owner.leave()

	s.closeOnce.Do(s.close)

	select {
	case <-s.workersDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	// Workers are gone, so this snapshot holds every remaining job.
	n, err := s.dispatch()
	s.released.Store(true)

	lg.FromContext(s.opts.Ctx).Info("Swarm released",
		lg.String("swarm_id", s.id),
		lg.Int("final_callbacks", n),
		lg.String("took", time.Since(s.closedAt).String()),
	)
	return err
}

// close stops submission and moves every pending job straight to the
// completion queue as Cancelled.
func (s *Swarm[P]) close() {
	s.closedAt = time.Now()
	s.closing.Store(true)

	cancelled := s.pending.close()
	for _, j := range cancelled {
		if !j.transition(Pending, Cancelled) {
			s.reportInternalError(fmt.Errorf("%w: cancel job %d in state %s", errInvalidState, j.tag, j.State()))
			continue
		}
		s.metrics.IncCancelled()
		s.completed.push(j)
	}

	lg.FromContext(s.opts.Ctx).Info("Swarm closing",
		lg.String("swarm_id", s.id),
		lg.Int("cancelled", len(cancelled)),
		lg.Int32("active_workers", s.activeWorkers.Load()),
	)

	go func() {
		s.wg.Wait()
		close(s.workersDone)
	}()
}

// dispatch runs the callbacks of one completion snapshot. The caller
// holds the owner guard.
func (s *Swarm[P]) dispatch() (int, error) {
	batch := s.completed.takeAll()
	if len(batch) == 0 {
		return 0, nil
	}

	s.owner.dispatching(true)
	defer s.owner.dispatching(false)

	var errs error
	for _, j := range batch {
		errs = multierr.Append(errs, s.invoke(j))
		s.records.Put(j)
	}
	s.completed.recycle(batch)
	s.metrics.IncDrained(int64(len(batch)))
	return len(batch), errs
}

// invoke fires the single callback matching the job's terminal state.
func (s *Swarm[P]) invoke(j *job[P]) (err error) {
	st := j.State()
	defer func() {
		if r := recover(); r != nil {
			err = &CallbackError{Tag: j.tag, State: st, Value: r}
		}
	}()

	switch st {
	case Completed:
		j.handler.OnFinish(j.payload, j.tag)
	case Cancelled:
		j.handler.OnCancel(j.payload, j.tag)
	case Failed:
		if fh, ok := j.handler.(FailureHandler[P]); ok {
			fh.OnFail(j.payload, j.tag, j.err)
		} else {
			j.handler.OnCancel(j.payload, j.tag)
		}
	default:
		return fmt.Errorf("%w: dispatch job %d in state %s", errInvalidState, j.tag, st)
	}
	return nil
}

// Ready returns a channel that receives a value when jobs were resolved
// since the last notification. It lets an owner with nothing else to do
// block instead of spinning on Drain.
func (s *Swarm[P]) Ready() <-chan struct{} { return s.completed.ready }

// ID identifies the swarm in logs.
func (s *Swarm[P]) ID() string { return s.id }

func (s *Swarm[P]) Workers() int { return s.opts.Workers }

// ActiveWorkers reports how many workers are inside Process right now.
func (s *Swarm[P]) ActiveWorkers() int32 { return s.activeWorkers.Load() }

// Pending reports how many jobs wait for a worker.
func (s *Swarm[P]) Pending() int { return s.pending.len() }

// Resolved reports how many jobs wait for Drain.
func (s *Swarm[P]) Resolved() int { return s.completed.len() }

// Closed reports whether Release has started and submission is closed.
func (s *Swarm[P]) Closed() bool { return s.closing.Load() }
