package jobswarm

// reportInternalError reports an internal swarm error.
//
// Internal errors are non-job-related failures such as
// worker setup issues or unexpected runtime conditions.
// If no handler is registered, the error is silently ignored.
func (s *Swarm[P]) reportInternalError(e error) {
	if s.opts.OnInternalError != nil {
		s.opts.OnInternalError(e)
	}
}

// reportJobError reports the error of a job whose Process panicked.
//
// It runs on the worker goroutine that recovered the panic, before the
// job reaches the completion queue, so the handler must be safe for
// concurrent use.
func (s *Swarm[P]) reportJobError(err error) {
	if s.opts.OnJobError != nil {
		s.opts.OnJobError(err)
	}
}
