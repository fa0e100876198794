package jobswarm_test

import (
	"crypto/sha256"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	js "github.com/Andrej220/go-utils/jobswarm"
)

type workload struct {
	name string
	fn   func(int)
}

var shaData = []byte("some deterministic payloadsome deterministic payloadsome deterministic payloadsome deterministic payload")

var (
	emptyWork = func(int) {}

	cpuWork = func(int) {
		x := 0
		for i := range 1000 {
			x += i * i
		}
		_ = x
	}

	ioWork = func(int) {
		time.Sleep(5 * time.Microsecond)
	}

	shaWork = func(int) {
		_ = sha256.Sum256(shaData)
	}
)

var workloads = []workload{
	{"empty ", emptyWork},
	{"sha256", shaWork},
	{"cpu   ", cpuWork},
	{"io    ", ioWork},
}

func newTestSwarm[P any](t *testing.T, workers int) *js.Swarm[P] {
	t.Helper()

	s, err := js.New[P](workers)
	if err != nil {
		t.Fatalf("new swarm: %v", err)
	}
	t.Cleanup(func() { _ = s.Release() })
	return s
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

// drainUntil drains s on the calling goroutine until cond holds.
func drainUntil[P any](t *testing.T, s *js.Swarm[P], timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not satisfied before timeout")
		}
		if _, err := s.Drain(); err != nil {
			t.Fatalf("drain: %v", err)
		}
		runtime.Gosched()
	}
}

// recorder counts callbacks per tag and flags callbacks that overlap.
// Its maps are only touched from callbacks, which run on the owner.
type recorder struct {
	processed atomic.Int64
	process   func(tag int)

	inCallback atomic.Int32
	overlap    atomic.Bool

	finished  map[int]int
	cancelled map[int]int
	failed    map[int]error
}

func newRecorder() *recorder {
	return &recorder{
		finished:  make(map[int]int),
		cancelled: make(map[int]int),
		failed:    make(map[int]error),
	}
}

func (r *recorder) Process(_ int, tag int) {
	r.processed.Add(1)
	if r.process != nil {
		r.process(tag)
	}
}

func (r *recorder) OnFinish(_ int, tag int) {
	r.enter()
	defer r.exit()
	r.finished[tag]++
}

func (r *recorder) OnCancel(_ int, tag int) {
	r.enter()
	defer r.exit()
	r.cancelled[tag]++
}

func (r *recorder) enter() {
	if r.inCallback.Add(1) != 1 {
		r.overlap.Store(true)
	}
	// widen the window in which an overlapping callback would be seen
	runtime.Gosched()
}

func (r *recorder) exit() { r.inCallback.Add(-1) }

// callbacks returns how many callbacks fired in total.
func (r *recorder) callbacks() int {
	n := len(r.failed)
	for _, c := range r.finished {
		n += c
	}
	for _, c := range r.cancelled {
		n += c
	}
	return n
}

// failingRecorder additionally implements FailureHandler.
type failingRecorder struct {
	*recorder
}

func (r failingRecorder) OnFail(_ int, tag int, err error) {
	r.enter()
	defer r.exit()
	r.failed[tag] = err
}
