package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Andrej220/go-utils/jobswarm"
	"github.com/Andrej220/go-utils/jobswarm/internal/config"
	"github.com/Andrej220/go-utils/jobswarm/internal/fractal"
)

// imageFiles names the GIF written for each kind of run.
var imageFiles = map[string]string{
	"linear": "fractal_linear.gif",
	"swarm":  "fractal_swarm1.gif",
	"solver": "fractal_swarm2.gif",
}

var (
	headline = color.New(color.FgCyan, color.Bold)
	timing   = color.New(color.FgGreen)
	warning  = color.New(color.FgYellow)
)

// Solve the fractal linearly, with one handler per tile and with a single
// handler, then save the three images.
func runCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Solve the fractal linearly and with the swarm, printing timings.",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, ctx, cleanup, err := setup(cmd, v, *cfgFile)
			if err != nil {
				return err
			}
			defer cleanup()

			sink := newMetricsSink(cfg.Metrics)
			defer func() { err = multierr.Append(err, sink.shutdown(context.Background())) }()

			results, err := solveAll(ctx, cfg, sink.policy, cmd)
			if err != nil {
				return err
			}
			if err := sink.report(ctx, cmd.OutOrStdout()); err != nil {
				return err
			}
			if !cfg.WriteImages {
				return nil
			}
			return saveImages(ctx, cfg, results)
		},
	}
}

func params(cfg *config.Configuration) fractal.Params {
	return fractal.Params{
		Region:       fractal.DefaultRegion(cfg.Size),
		Tile:         cfg.Tile,
		Iterations:   cfg.Iterations,
		Spool:        cfg.Spool,
		SpoolCeiling: cfg.SpoolCeiling,
	}
}

func swarmOptions(cfg *config.Configuration, m jobswarm.MetricsPolicy) jobswarm.Options {
	return jobswarm.Options{
		Workers:    cfg.Workers,
		PinWorkers: cfg.PinWorkers,
		Metrics:    m,
		OnJobError: func(err error) {
			zap.S().Errorw("job failed", "error", err)
		},
		OnInternalError: func(err error) {
			zap.S().Warnw("swarm internal error", "error", err)
		},
	}
}

func solveAll(ctx context.Context, cfg *config.Configuration, m jobswarm.MetricsPolicy, cmd *cobra.Command) ([]fractal.Result, error) {
	out := cmd.OutOrStdout()
	p := params(cfg)
	opts := swarmOptions(cfg, m)

	headline.Fprintln(out, "Solving a fractal on one goroutine in a straight line computation.")
	linear, err := fractal.RunLinear(ctx, p)
	if err != nil {
		return nil, err
	}
	timing.Fprintf(out, "Took %d milliseconds to compute the fractal without the swarm.\n\n", linear.Elapsed.Milliseconds())

	headline.Fprintf(out, "Solving fractal as %d separate jobs.\n", p.Jobs())
	tiles, err := fractal.RunTiles(ctx, opts, p)
	if err != nil {
		return nil, err
	}
	timing.Fprintf(out, "Took %d milliseconds to compute the fractal using a job swarm.\n\n", tiles.Elapsed.Milliseconds())

	headline.Fprintf(out, "Solving fractal as %d separate jobs with a single handler.\n", p.Jobs())
	solver, err := fractal.RunSolver(ctx, opts, p)
	if err != nil {
		return nil, err
	}
	timing.Fprintf(out, "Took %d milliseconds to compute the fractal using a job swarm with a single handler.\n\n", solver.Elapsed.Milliseconds())

	for _, r := range []fractal.Result{tiles, solver} {
		if !bytes.Equal(r.Pixels, linear.Pixels) {
			warning.Fprintf(out, "The %s image differs from the linear one.\n", r.Name)
		}
	}
	return []fractal.Result{linear, tiles, solver}, nil
}

// saveImages encodes every result concurrently.
func saveImages(ctx context.Context, cfg *config.Configuration, results []fractal.Result) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range results {
		path := filepath.Join(cfg.OutputDir, imageFiles[r.Name])
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			zap.S().Infow("Saving fractal image", "path", path)
			if err := fractal.SaveGIF(path, cfg.Size, r.Pixels); err != nil {
				return fmt.Errorf("failed to save %s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}
