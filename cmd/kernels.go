package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bimmerbailey/clpack/internal/alias"
	"github.com/bimmerbailey/clpack/internal/config"
	"github.com/bimmerbailey/clpack/internal/generator"
	"github.com/bimmerbailey/clpack/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadConfig reads the merged viper settings and applies any
// generation flags the command was given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if s, ok := changedString(cmd, "output-dir"); ok {
		cfg.OutputDir = s
	}
	if s, ok := changedString(cmd, "prefix"); ok {
		cfg.Prefix = s
	}
	if s, ok := changedString(cmd, "strategy"); ok {
		cfg.Strategy = s
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSpecs returns the configured kernels, narrowed to names when given.
func loadSpecs(cfg *config.Config, names []string) ([]generator.KernelSpec, error) {
	specs, err := cfg.Specs()
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no kernels configured (run 'clpack init' to create %s.yaml)", configName)
	}
	return config.Select(specs, names)
}

func changedString(cmd *cobra.Command, name string) (string, bool) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func newGenerator(cfg *config.Config, logger *slog.Logger, dryRun bool) (*generator.Generator, error) {
	strategy, err := alias.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	return generator.New(logger,
		generator.WithOutputDir(cfg.OutputDir),
		generator.WithPrefix(cfg.Prefix),
		generator.WithChunkSize(cfg.ChunkSize),
		generator.WithDebugMacro(cfg.DebugMacro),
		generator.WithStrategy(strategy),
		generator.WithLineComments(cfg.StripLineComments),
		generator.WithDryRun(dryRun),
	), nil
}

func newWriter(w io.Writer, cfg *config.Config) *output.Writer {
	mode := output.ColorAuto
	if cfg.NoColor {
		mode = output.ColorNever
	}
	return output.New(w, output.ParseFormat(cfg.Format), mode)
}
