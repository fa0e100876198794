package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/Andrej220/go-utils/jobswarm/internal/config"
	"github.com/Andrej220/go-utils/jobswarm/internal/fractal"
)

// Repeatedly solve the fractal as many tiny spooled jobs and print the
// average time.
func stressCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Repeat a swarm run with tiny spooled jobs and print the average time.",
		PreRun: func(cmd *cobra.Command, args []string) {
			config.StressDefaults(v)
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, ctx, cleanup, err := setup(cmd, v, *cfgFile)
			if err != nil {
				return err
			}
			defer cleanup()

			sink := newMetricsSink(cfg.Metrics)
			defer func() { err = multierr.Append(err, sink.shutdown(context.Background())) }()

			out := cmd.OutOrStdout()
			headline.Fprintf(out, "settings:\n  workers %d\n  tile %d\n  iterations %d\n  spool %t\n  spool-ceiling %d\n",
				cfg.Workers, cfg.Tile, cfg.Iterations, cfg.Spool, cfg.SpoolCeiling)

			p := params(cfg)
			opts := swarmOptions(cfg, sink.policy)
			var sum time.Duration
			for i := 0; i < cfg.Repetitions; i++ {
				headline.Fprintf(out, "%d/%d\n", i, cfg.Repetitions)
				res, err := fractal.RunTiles(ctx, opts, p)
				if err != nil {
					return err
				}
				timing.Fprintf(out, "  Took %d milliseconds to compute the fractal using a job swarm.\n", res.Elapsed.Milliseconds())
				sum += res.Elapsed
			}
			avg := sum / time.Duration(cfg.Repetitions)
			headline.Fprintf(out, "Average time of %d tests %d\n", cfg.Repetitions, avg.Milliseconds())

			return sink.report(ctx, out)
		},
	}
}
