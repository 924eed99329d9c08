package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bimmerbailey/clpack/internal/alias"
	"github.com/bimmerbailey/clpack/internal/config"
	"github.com/bimmerbailey/clpack/internal/emit"
	"github.com/bimmerbailey/clpack/internal/generator"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init [source-glob...]",
	Short: "Write a starter .clpack.yaml",
	Long: `Scan a directory for kernel sources and write a .clpack.yaml listing
them with the default settings. Without arguments every *.c and *.cl file is
listed. Alias tables are left empty; use 'clpack idents' to pick names.

Examples:
  clpack init
  clpack init 'blur_*.c' sharpen.cl
  clpack init --dir kernels --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("dir", ".", "directory holding the kernel sources; the config is written there")
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	rootCmd.AddCommand(initCmd)
}

// scaffold is the layout of a generated config file.
type scaffold struct {
	SourceDir         string                `yaml:"source_dir"`
	OutputDir         string                `yaml:"output_dir"`
	Prefix            string                `yaml:"prefix"`
	DebugMacro        string                `yaml:"debug_macro"`
	ChunkSize         int                   `yaml:"chunk_size"`
	HeaderLines       int                   `yaml:"header_lines"`
	Strategy          string                `yaml:"strategy"`
	StripLineComments bool                  `yaml:"strip_line_comments"`
	Kernels           []config.KernelConfig `yaml:"kernels"`
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	force, _ := cmd.Flags().GetBool("force")

	path := filepath.Join(dir, configName+".yaml")
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	sources, err := config.ExpandSources(dir, args)
	if err != nil {
		return err
	}

	sc := scaffold{
		SourceDir:         ".",
		OutputDir:         "..",
		Prefix:            generator.DefaultPrefix,
		DebugMacro:        emit.DefaultDebugMacro,
		ChunkSize:         emit.DefaultChunkSize,
		HeaderLines:       4,
		Strategy:          string(alias.StrategyToken),
		StripLineComments: true,
		Kernels:           make([]config.KernelConfig, len(sources)),
	}
	for i, src := range sources {
		sc.Kernels[i] = config.KernelConfig{Source: filepath.ToSlash(src)}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s with %d kernel(s)\n", path, len(sources))
	return nil
}
