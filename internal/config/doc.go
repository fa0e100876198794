// Package config defines the configuration of the jobswarm demo command.
//
// Defaults come from `default` struct tags applied by creasty/defaults.
// Load overlays an optional config file, JOBSWARM_* environment variables
// and bound command-line flags through viper, then validates the result.
//
// # Fields
//
//	┌──────────────┬───────────┬──────────────────────────────────────────┐
//	│ Field        │ Default   │ Description                              │
//	├──────────────┼───────────┼──────────────────────────────────────────┤
//	│ Size         │ 2048      │ Image edge in pixels                     │
//	│ Tile         │ 8         │ Tile edge in pixels, one job per tile    │
//	│ Workers      │ 8         │ Swarm worker goroutines                  │
//	│ Iterations   │ 65536     │ Escape iteration limit                   │
//	│ Spool        │ false     │ Bound outstanding jobs                   │
//	│ SpoolCeiling │ 256       │ Outstanding job ceiling when spooling    │
//	│ PinWorkers   │ false     │ Pin workers to CPUs (Linux only)         │
//	│ Repetitions  │ 10        │ Stress runs averaged by `stress`         │
//	│ OutputDir    │ "."       │ Directory receiving the GIF images       │
//	│ WriteImages  │ true      │ Write GIF images after `run`             │
//	│ Metrics      │ "atomic"  │ "none", "atomic" or "otel"               │
//	│ LogFormat    │ "console" │ "console" or "json"                      │
//	│ LogLevel     │ "info"    │ zap level name                           │
//	└──────────────┴───────────┴──────────────────────────────────────────┘
//
// # Stress preset
//
// ApplyStressPreset sets Tile 2, Iterations 16, Spool true and
// SpoolCeiling 32.
//
// # Environment
//
// Keys map to variables by upper-casing, replacing dashes with
// underscores and adding the prefix, so spool-ceiling is read from
// JOBSWARM_SPOOL_CEILING.
package config
