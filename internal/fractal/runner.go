package fractal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Andrej220/go-utils/jobswarm"
	lg "github.com/Andrej220/go-utils/zlog"
	"go.uber.org/multierr"
)

// ErrTileSize is returned when the image cannot be cut into whole tiles.
var ErrTileSize = errors.New("fractal: size must be a positive multiple of tile")

// Params describes one fractal run.
type Params struct {
	Region     Region
	Tile       int
	Iterations int

	// Spool caps the number of jobs outstanding at once to SpoolCeiling
	// instead of submitting every tile up front.
	Spool        bool
	SpoolCeiling int
}

func (p Params) Validate() error {
	if p.Tile < 1 || p.Region.Size < p.Tile || p.Region.Size%p.Tile != 0 {
		return fmt.Errorf("%w: size %d, tile %d", ErrTileSize, p.Region.Size, p.Tile)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("fractal: iterations must be positive, got %d", p.Iterations)
	}
	return nil
}

// Jobs is the number of tiles a swarm run submits.
func (p Params) Jobs() int {
	n := p.Region.Size / p.Tile
	return n * n
}

// Result of a single run.
type Result struct {
	Name    string
	Pixels  []byte
	Elapsed time.Duration
	Jobs    int
}

// RunLinear solves the image without a swarm.
func RunLinear(ctx context.Context, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	lg.FromContext(ctx).Info("Solving fractal on one goroutine",
		lg.Int("size", p.Region.Size),
	)

	start := time.Now()
	pixels := SolveLinear(p.Region, p.Iterations)
	return Result{Name: "linear", Pixels: pixels, Elapsed: time.Since(start), Jobs: 1}, nil
}

// RunTiles solves the image with one Tile handler per job.
func RunTiles(ctx context.Context, opts jobswarm.Options, p Params) (res Result, err error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	s, err := jobswarm.NewFromOptions[[]byte](opts)
	if err != nil {
		return Result{}, err
	}
	defer func() { err = multierr.Append(err, s.Release()) }()

	lg.FromContext(ctx).Info("Solving fractal as separate jobs",
		lg.String("swarm_id", s.ID()),
		lg.Int("jobs", p.Jobs()),
	)

	start := time.Now()
	img := make([]byte, p.Region.Size*p.Region.Size)
	tiles := make([]Tile, p.Jobs())
	remaining := 0
	sub := newSubmitter(s, p)

	next := 0
	for y := 0; y < p.Region.Size; y += p.Tile {
		for x := 0; x < p.Region.Size; x += p.Tile {
			t := &tiles[next]
			*t = Tile{X: x, Y: y, Edge: p.Tile, Iterations: p.Iterations, Region: p.Region, Remaining: &remaining}
			remaining++
			if err := sub.submit(ctx, t, img, next); err != nil {
				return Result{}, err
			}
			next++
		}
	}
	if err := sub.wait(ctx, &remaining); err != nil {
		return Result{}, err
	}

	return Result{Name: "swarm", Pixels: img, Elapsed: time.Since(start), Jobs: len(tiles)}, nil
}

// RunSolver solves the image with a single Solver handler for every job.
func RunSolver(ctx context.Context, opts jobswarm.Options, p Params) (res Result, err error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	s, err := jobswarm.NewFromOptions[[]byte](opts)
	if err != nil {
		return Result{}, err
	}
	defer func() { err = multierr.Append(err, s.Release()) }()

	lg.FromContext(ctx).Info("Solving fractal with a single handler",
		lg.String("swarm_id", s.ID()),
		lg.Int("jobs", p.Jobs()),
	)

	start := time.Now()
	solver := NewSolver(p.Region, p.Tile, p.Iterations)
	sub := newSubmitter(s, p)

	for y := 0; y < p.Region.Size; y += p.Tile {
		for x := 0; x < p.Region.Size; x += p.Tile {
			solver.remaining++
			if err := sub.submit(ctx, solver, nil, solver.Tag(x, y)); err != nil {
				return Result{}, err
			}
		}
	}
	if err := sub.wait(ctx, &solver.remaining); err != nil {
		return Result{}, err
	}

	return Result{Name: "solver", Pixels: solver.Image(), Elapsed: time.Since(start), Jobs: p.Jobs()}, nil
}

// submitter routes jobs either straight to the swarm or through a Spooler.
type submitter struct {
	swarm *jobswarm.Swarm[[]byte]
	spool *jobswarm.Spooler[[]byte]
}

func newSubmitter(s *jobswarm.Swarm[[]byte], p Params) submitter {
	sub := submitter{swarm: s}
	if p.Spool {
		sub.spool = jobswarm.NewSpooler(s, int64(p.SpoolCeiling))
	}
	return sub
}

func (sub submitter) submit(ctx context.Context, h jobswarm.Handler[[]byte], img []byte, tag int) error {
	if sub.spool != nil {
		return sub.spool.Submit(ctx, h, img, tag)
	}
	return sub.swarm.Submit(h, img, tag)
}

// wait drains until the callbacks brought remaining down to zero, parking
// on Ready between snapshots.
func (sub submitter) wait(ctx context.Context, remaining *int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := sub.swarm.Drain(); err != nil {
			return err
		}
		if *remaining == 0 {
			return nil
		}
		select {
		case <-sub.swarm.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
