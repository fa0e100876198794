package jobswarm

import (
	"runtime"

	lg "github.com/Andrej220/go-utils/zlog"
)

// worker is the run loop of one pool goroutine:
//
//	Idle ──pop──► Executing ──push──► Idle … ──closed & empty──► Exited
func (s *Swarm[P]) worker(id int) {
	defer s.wg.Done()

	if s.opts.PinWorkers {
		s.pin(id)
	}

	for {
		j, ok := s.pending.pop()
		if !ok {
			return
		}
		s.execute(j)
	}
}

// execute runs Process and hands the resolved job to the owner.
func (s *Swarm[P]) execute(j *job[P]) {
	s.activeWorkers.Add(1)
	defer s.activeWorkers.Add(-1)

	if !j.transition(Pending, Running) {
		// A popped job can only be Pending; anything else is a bug.
		s.reportInternalError(errInvalidState)
		return
	}

	if err := s.process(j); err != nil {
		j.err = err
		j.state.Store(int32(Failed))
		s.metrics.IncFailed()
		s.reportJobError(err)
		lg.FromContext(s.opts.Ctx).Error("job panicked",
			lg.String("swarm_id", s.id),
			lg.Int("tag", j.tag),
			lg.Any("panic", err),
		)
	} else {
		j.state.Store(int32(Completed))
		s.metrics.IncExecuted()
	}

	s.completed.push(j)
}

// process calls the handler and converts a panic into a *PanicError so
// the worker survives and the job still resolves.
func (s *Swarm[P]) process(j *job[P]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r, j.tag)
		}
	}()
	j.handler.Process(j.payload, j.tag)
	return nil
}

// pin locks the worker to its own OS thread and restricts it to one CPU.
// The thread is never unlocked, so it is discarded when the worker exits
// instead of returning to the runtime with a narrowed affinity mask.
func (s *Swarm[P]) pin(id int) {
	runtime.LockOSThread()
	cpu := id % runtime.NumCPU()
	if err := PinToCPU(cpu); err != nil {
		s.reportInternalError(err)
		lg.FromContext(s.opts.Ctx).Warn("worker pinning failed",
			lg.String("swarm_id", s.id),
			lg.Int("worker", id),
			lg.Int("cpu", cpu),
			lg.Any("error", err),
		)
	}
}
