package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Andrej220/go-utils/jobswarm/internal/config"
)

// rootCmd builds the command tree. All settings are persistent flags bound
// to one viper instance shared by the sub-commands.
func rootCmd() *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "jobswarm",
		Short: "jobswarm solves a Mandelbrot fractal with a job swarm.",
		Long: `jobswarm solves a Mandelbrot fractal with a job swarm.

Every flag can also be set through a JOBSWARM_* environment variable
(JOBSWARM_SPOOL_CEILING for --spool-ceiling) or a config file passed
with --config.`,
		SilenceUsage: true,
	}

	defs, err := config.NewConfigurationWithDefaults()
	if err != nil {
		panic(err)
	}

	f := cmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "Path to a config file")
	f.Int("size", defs.Size, "Image edge in pixels")
	f.Int("tile", defs.Tile, "Tile edge in pixels; one job per tile")
	f.Int("workers", defs.Workers, "Number of swarm workers")
	f.Int("iterations", defs.Iterations, "Escape iteration limit")
	f.Bool("spool", defs.Spool, "Bound the number of outstanding jobs")
	f.Int("spool-ceiling", defs.SpoolCeiling, "Outstanding job ceiling when spooling")
	f.Bool("pin-workers", defs.PinWorkers, "Pin workers to CPUs (Linux only)")
	f.Int("repetitions", defs.Repetitions, "Number of stress runs to average")
	f.String("output-dir", defs.OutputDir, "Directory receiving the GIF images")
	f.Bool("write-images", defs.WriteImages, "Write GIF images after run")
	f.String("metrics", defs.Metrics, "Metrics backend: none, atomic or otel")
	f.String("log-format", defs.LogFormat, "Log format: console or json")
	f.String("log-level", defs.LogLevel, "Log level")

	if err := bindFlags(v, f); err != nil {
		panic(err)
	}

	cmd.AddCommand(
		runCmd(v, &cfgFile),
		stressCmd(v, &cfgFile),
	)
	return cmd
}

// bindFlags makes every configuration key answer to its flag.
func bindFlags(v *viper.Viper, f *pflag.FlagSet) error {
	for _, key := range config.Keys() {
		flag := f.Lookup(key)
		if flag == nil {
			return fmt.Errorf("no flag for configuration key %q", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// setup loads the configuration, installs the global logger and returns a
// context cancelled on SIGINT/SIGTERM.
func setup(cmd *cobra.Command, v *viper.Viper, cfgFile string) (*config.Configuration, context.Context, func(), error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	undo := zap.ReplaceGlobals(logger)
	zap.S().Debugw("configuration loaded", "config", cfg.DebugMap())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	cleanup := func() {
		stop()
		_ = logger.Sync()
		undo()
	}
	return cfg, ctx, cleanup, nil
}

func newLogger(format, level string) (*zap.Logger, error) {
	var zc zap.Config
	if format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc.Level = lvl
	return zc.Build()
}
