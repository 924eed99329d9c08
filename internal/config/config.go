// Package config provides configuration types and helpers for clpack.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bimmerbailey/clpack/internal/alias"
	"github.com/bimmerbailey/clpack/internal/generator"
)

// ErrInvalidConfig is returned when the configuration cannot describe a
// valid set of kernels.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application-wide configuration.
type Config struct {
	Format            string         `mapstructure:"format"`
	Verbose           bool           `mapstructure:"verbose"`
	NoColor           bool           `mapstructure:"no_color"`
	SourceDir         string         `mapstructure:"source_dir"`
	OutputDir         string         `mapstructure:"output_dir"`
	Prefix            string         `mapstructure:"prefix"`
	DebugMacro        string         `mapstructure:"debug_macro"`
	ChunkSize         int            `mapstructure:"chunk_size"`
	HeaderLines       int            `mapstructure:"header_lines"`
	Strategy          string         `mapstructure:"strategy"`
	StripLineComments bool           `mapstructure:"strip_line_comments"`
	Kernels           []KernelConfig `mapstructure:"kernels"`
}

// KernelConfig describes one kernel in the configuration file.
type KernelConfig struct {
	// Source is the kernel file, relative to SourceDir
	Source string `mapstructure:"source" yaml:"source"`

	// HeaderLines overrides Config.HeaderLines when set
	HeaderLines *int `mapstructure:"header_lines" yaml:"header_lines,omitempty"`

	// Namespace overrides the positional alias namespace (default: hex index)
	Namespace string `mapstructure:"namespace" yaml:"namespace,omitempty"`

	// Aliases selects explicit-pair mode; Names selects positional mode
	Aliases []AliasConfig `mapstructure:"aliases" yaml:"aliases,omitempty"`
	Names   []string      `mapstructure:"names" yaml:"names,omitempty"`
}

// AliasConfig is one explicit (alias, name) pair.
type AliasConfig struct {
	Alias string `mapstructure:"alias" yaml:"alias"`
	Name  string `mapstructure:"name" yaml:"name"`
}

// Validate checks the settings that do not depend on the kernel sources.
func (c *Config) Validate() error {
	if c.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk_size must not be negative", ErrInvalidConfig)
	}
	if c.HeaderLines < 0 {
		return fmt.Errorf("%w: header_lines must not be negative", ErrInvalidConfig)
	}
	if _, err := alias.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	seen := make(map[string]int, len(c.Kernels))
	for i, k := range c.Kernels {
		if k.Source == "" {
			return fmt.Errorf("%w: kernel %d has no source", ErrInvalidConfig, i)
		}
		if k.HeaderLines != nil && *k.HeaderLines < 0 {
			return fmt.Errorf("%w: kernel %s: header_lines must not be negative", ErrInvalidConfig, k.Source)
		}
		if len(k.Aliases) > 0 && len(k.Names) > 0 {
			return fmt.Errorf("%w: kernel %s declares both aliases and names", ErrInvalidConfig, k.Source)
		}

		// Two kernels with one base name would overwrite each other's output.
		name := generator.KernelSpec{Source: k.Source}.Name()
		if j, ok := seen[name]; ok {
			return fmt.Errorf("%w: kernels %d and %d share the name %q", ErrInvalidConfig, j, i, name)
		}
		seen[name] = i
	}
	return nil
}

// Specs converts the kernel list into pipeline specs, in configuration order.
func (c *Config) Specs() ([]generator.KernelSpec, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	specs := make([]generator.KernelSpec, len(c.Kernels))
	for i, k := range c.Kernels {
		headerLines := c.HeaderLines
		if k.HeaderLines != nil {
			headerLines = *k.HeaderLines
		}

		specs[i] = generator.KernelSpec{
			Source:      filepath.Join(c.SourceDir, k.Source),
			HeaderLines: headerLines,
			Aliases:     k.aliasSpec(i),
		}
	}
	return specs, nil
}

// Select returns the specs whose kernel name is listed in names, keeping
// configuration order. An empty names list selects everything.
func Select(specs []generator.KernelSpec, names []string) ([]generator.KernelSpec, error) {
	if len(names) == 0 {
		return specs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[generator.KernelSpec{Source: n}.Name()] = false
	}

	selected := make([]generator.KernelSpec, 0, len(names))
	for _, s := range specs {
		if _, ok := wanted[s.Name()]; ok {
			wanted[s.Name()] = true
			selected = append(selected, s)
		}
	}

	for _, n := range names {
		if !wanted[generator.KernelSpec{Source: n}.Name()] {
			return nil, fmt.Errorf("unknown kernel %q", n)
		}
	}
	return selected, nil
}

func (k KernelConfig) aliasSpec(index int) alias.Spec {
	if len(k.Names) > 0 {
		ns := k.Namespace
		if ns == "" {
			ns = alias.Namespace(index)
		}
		return alias.PositionalSpec(ns, k.Names...)
	}

	entries := make([]alias.Entry, len(k.Aliases))
	for i, a := range k.Aliases {
		entries[i] = alias.Entry{Alias: a.Alias, Name: a.Name}
	}
	return alias.ExplicitSpec(entries...)
}
