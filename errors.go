package jobswarm

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrInvalidWorkers is returned by New when the worker count is below one.
	ErrInvalidWorkers = errors.New("jobswarm: worker count must be at least 1")

	// ErrNilHandler is returned when Submit receives a nil Handler.
	ErrNilHandler = errors.New("jobswarm: handler is nil")

	// ErrReleased is returned by owner operations once Release has begun.
	ErrReleased = errors.New("jobswarm: swarm released")

	// ErrConcurrentOwner is returned when an owner operation overlaps with
	// another one, which means more than one goroutine acts as the owner.
	ErrConcurrentOwner = errors.New("jobswarm: concurrent owner call")

	// ErrReentrantDrain is returned when Drain or Release is called while
	// callbacks of a previous Drain are still being dispatched.
	ErrReentrantDrain = errors.New("jobswarm: drain called from inside a callback")

	// ErrPinUnsupported is reported through OnInternalError when
	// Options.PinWorkers is set on a platform without CPU affinity.
	ErrPinUnsupported = errors.New("jobswarm: cpu pinning is not supported on this platform")

	errInvalidState = errors.New("jobswarm: job in unexpected state")
)

// PanicError is the error carried by a Failed job. It wraps the value
// recovered from a panicking Process call.
type PanicError struct {
	Tag   int
	Value any
	Stack []byte
}

func newPanicError(v any, tag int) *PanicError {
	return &PanicError{Tag: tag, Value: v, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("jobswarm: job %d panicked: %v", e.Tag, e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// CallbackError reports a panic raised by OnFinish, OnCancel or OnFail.
// Drain recovers it, finishes the remaining callbacks of its snapshot and
// returns every CallbackError joined together.
type CallbackError struct {
	Tag   int
	State State
	Value any
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("jobswarm: %s callback for job %d panicked: %v", e.State, e.Tag, e.Value)
}

func (e *CallbackError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
