package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bimmerbailey/clpack/internal/alias"
	"github.com/bimmerbailey/clpack/internal/emit"
	"github.com/bimmerbailey/clpack/internal/minify"
)

// DefaultPrefix is prepended to the kernel base name to form its symbol.
const DefaultPrefix = "opencl___"

// KernelSpec describes one kernel to generate.
type KernelSpec struct {
	Source      string // path of the kernel source
	HeaderLines int    // leading lines to discard
	Aliases     alias.Spec
}

// Name returns the kernel base name: the source file name without extension.
func (k KernelSpec) Name() string {
	base := filepath.Base(k.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Result describes the outcome of generating one kernel.
type Result struct {
	Kernel        string `json:"kernel"`
	Symbol        string `json:"symbol"`
	SourceBytes   int    `json:"source_bytes"`
	MinifiedBytes int    `json:"minified_bytes"`
	Passes        int    `json:"passes"`
	Aliases       int    `json:"aliases"`
	Chunks        int    `json:"chunks"`
	DebugLines    int    `json:"debug_lines"`
	Written       bool   `json:"written"`
	emit.Paths

	// Text is the minified, aliased and escaped source.
	Text string `json:"-"`
}

// Ratio reports MinifiedBytes as a fraction of SourceBytes.
func (r *Result) Ratio() float64 {
	if r.SourceBytes == 0 {
		return 0
	}
	return float64(r.MinifiedBytes) / float64(r.SourceBytes)
}

// Generator runs the kernel pipeline.
type Generator struct {
	logger       *slog.Logger
	aliaser      *alias.Aliaser
	outputDir    string
	prefix       string
	chunkSize    int
	debugMacro   string
	lineComments bool
	dryRun       bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithOutputDir sets the directory artifacts are written to.
// Default is "..", the parent of the working directory.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.outputDir = dir
	}
}

// WithPrefix sets the symbol prefix. Default is DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		g.prefix = prefix
	}
}

// WithChunkSize sets the width of release-mode literals.
// Default is emit.DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(g *Generator) {
		if size > 0 {
			g.chunkSize = size
		}
	}
}

// WithDebugMacro sets the macro selecting the readable branch.
func WithDebugMacro(macro string) Option {
	return func(g *Generator) {
		if macro != "" {
			g.debugMacro = macro
		}
	}
}

// WithStrategy sets how alias tables are substituted.
func WithStrategy(s alias.Strategy) Option {
	return func(g *Generator) {
		g.aliaser = alias.New(s)
	}
}

// WithLineComments enables removal of "//" comments.
func WithLineComments(enabled bool) Option {
	return func(g *Generator) {
		g.lineComments = enabled
	}
}

// WithDryRun runs the pipeline without writing any file.
func WithDryRun(enabled bool) Option {
	return func(g *Generator) {
		g.dryRun = enabled
	}
}

// New creates a Generator. A nil logger discards all output.
func New(logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	g := &Generator{
		logger:       logger,
		aliaser:      alias.New(alias.StrategyToken),
		outputDir:    "..",
		prefix:       DefaultPrefix,
		chunkSize:    emit.DefaultChunkSize,
		debugMacro:   emit.DefaultDebugMacro,
		lineComments: true,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Symbol returns the C symbol for spec.
func (g *Generator) Symbol(spec KernelSpec) string {
	return Symbol(g.prefix, spec.Name())
}

// Generate runs the pipeline for one kernel and writes its artifacts.
func (g *Generator) Generate(spec KernelSpec) (*Result, error) {
	lines, err := minify.Load(spec.Source, spec.HeaderLines)
	if err != nil {
		return nil, fmt.Errorf("kernel %s: %w", spec.Name(), err)
	}

	result, artifact, err := g.transform(spec, lines)
	if err != nil {
		return nil, fmt.Errorf("kernel %s: %w", spec.Name(), err)
	}

	if g.dryRun {
		g.logger.Info("kernel processed (dry run)", "kernel", result.Kernel, "bytes", result.MinifiedBytes)
		return result, nil
	}

	paths, err := emit.Files(g.outputDir, artifact)
	if err != nil {
		return nil, fmt.Errorf("kernel %s: %w", spec.Name(), err)
	}
	result.Paths = paths
	result.Written = true

	g.logger.Info("kernel generated",
		"kernel", result.Kernel,
		"symbol", result.Symbol,
		"source_bytes", result.SourceBytes,
		"minified_bytes", result.MinifiedBytes,
		"chunks", result.Chunks,
	)
	return result, nil
}

// Run generates every kernel in order and stops at the first failure,
// returning the results of the kernels completed before it.
func (g *Generator) Run(ctx context.Context, specs []KernelSpec) ([]*Result, error) {
	results := make([]*Result, 0, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := g.Generate(spec)
		if err != nil {
			g.logger.Error("kernel failed", "kernel", spec.Name(), "error", err)
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// transform runs every in-memory stage on the loaded source lines.
func (g *Generator) transform(spec KernelSpec, lines []string) (*Result, emit.Artifact, error) {
	debug := minify.StripComments(lines, g.lineComments)
	text, passes := minify.Compact(minify.Normalize(debug))
	g.logger.Debug("compacted", "kernel", spec.Name(), "passes", passes)

	text, err := g.aliaser.Apply(text, spec.Aliases)
	if err != nil {
		return nil, emit.Artifact{}, fmt.Errorf("aliasing failed: %w", err)
	}

	artifact := emit.Artifact{
		Symbol:     g.Symbol(spec),
		DebugLines: debug,
		Text:       text,
		ChunkSize:  g.chunkSize,
		DebugMacro: g.debugMacro,
	}

	escaped := minify.Escape(text)
	result := &Result{
		Kernel:        spec.Name(),
		Symbol:        artifact.Symbol,
		SourceBytes:   sourceBytes(lines),
		MinifiedBytes: len(escaped),
		Passes:        passes,
		Aliases:       spec.Aliases.Len(),
		Chunks:        len(emit.Chunk(text, g.chunkSize)),
		DebugLines:    len(debug),
		Text:          escaped,
	}
	return result, artifact, nil
}

// sourceBytes counts the loaded source including line terminators.
func sourceBytes(lines []string) int {
	n := 0
	for _, ln := range lines {
		n += len(ln) + 1
	}
	return n
}

// Symbol joins prefix and name into a C identifier, replacing any character
// that cannot appear in one with '_'.
func Symbol(prefix, name string) string {
	s := []byte(prefix + name)
	for i, c := range s {
		isAlpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isAlpha && !(isDigit && i > 0) {
			s[i] = '_'
		}
	}
	return string(s)
}
