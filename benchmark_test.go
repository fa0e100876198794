package jobswarm_test

import (
	"math"
	"runtime"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	js "github.com/Andrej220/go-utils/jobswarm"
)

// benchHandler runs fn in Process and counts callbacks on the owner.
type benchHandler struct {
	fn   func(int)
	done atomic.Int64
}

func (h *benchHandler) Process(_ struct{}, tag int) { h.fn(tag) }
func (h *benchHandler) OnFinish(struct{}, int)      { h.done.Add(1) }
func (h *benchHandler) OnCancel(struct{}, int)      { h.done.Add(1) }

func BenchmarkSwarm_SubmitOnly(b *testing.B) {
	s, err := js.New[struct{}](1)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Release()

	h := &benchHandler{fn: emptyWork}
	b.ReportAllocs()

	for b.Loop() {
		if err := s.Submit(h, struct{}{}, 0); err != nil {
			b.Fatalf("submit failed: %v", err)
		}
	}
}

func BenchmarkSwarm_Throughput(b *testing.B) {
	cases := []struct {
		name    string
		workers int
		pinned  bool
	}{
		{"W1  ", 1, false},
		{"W4  ", 4, false},
		{"WMax", runtime.GOMAXPROCS(0), false},
		{"WMaxP", runtime.GOMAXPROCS(0), true},
	}

	for _, w := range workloads {
		b.Run(w.name, func(b *testing.B) {
			for _, tc := range cases {
				b.Run(tc.name, func(b *testing.B) {
					runSwarmThroughputBench(b, tc.workers, tc.pinned, 0, w.fn)
				})
			}
		})
	}
}

func BenchmarkSpooler_Throughput(b *testing.B) {
	for _, ceiling := range []int{8, 64, 256} {
		b.Run("C"+strconv.Itoa(ceiling), func(b *testing.B) {
			runSwarmThroughputBench(b, runtime.GOMAXPROCS(0), false, ceiling, shaWork)
		})
	}
}

// runSwarmThroughputBench submits b.N jobs from the benchmark goroutine and
// drains until all callbacks fired. A non-zero ceiling routes submissions
// through a Spooler.
func runSwarmThroughputBench(b *testing.B, workers int, pinned bool, ceiling int, fn func(int)) {
	s, err := js.NewFromOptions[struct{}](js.Options{
		Workers:    workers,
		PinWorkers: pinned,
	})
	if err != nil {
		b.Fatalf("new swarm: %v", err)
	}
	defer s.Release()

	var sp *js.Spooler[struct{}]
	if ceiling > 0 {
		sp = js.NewSpooler(s, int64(ceiling))
	}
	h := &benchHandler{fn: fn}

	b.ReportAllocs()
	b.ResetTimer()
	start := time.Now()

	for i := 0; i < b.N; i++ {
		if sp != nil {
			err = sp.Submit(b.Context(), h, struct{}{}, i)
		} else {
			err = s.Submit(h, struct{}{}, i)
		}
		if err != nil {
			b.Fatalf("submit failed: %v", err)
		}
	}

	deadline := time.Now().Add(30 * time.Second)
	for h.done.Load() != int64(b.N) {
		if time.Now().After(deadline) {
			b.Fatalf("only %d of %d jobs resolved", h.done.Load(), b.N)
		}
		if _, err := s.Drain(); err != nil {
			b.Fatalf("drain: %v", err)
		}
		select {
		case <-s.Ready():
		case <-time.After(time.Millisecond):
		}
	}

	secs := time.Since(start).Seconds()
	kjps := math.Round((float64(b.N) / secs) / 1e3)
	b.ReportMetric(kjps, "kj/s")
}
