// Package watch regenerates kernels when their sources change.
//
// It keeps a single fsnotify watcher on the directories holding the kernel
// sources (editors often replace a file rather than write it in place, which
// a watch on the file itself would miss) and rebuilds the affected kernels
// once events have been quiet for the debounce interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bimmerbailey/clpack/internal/generator"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long events must be quiet before a rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Options configures the watcher behavior.
type Options struct {
	// Specs are the kernels to watch, in build order
	Specs []generator.KernelSpec

	// Debounce is the quiet period before rebuilding
	Debounce time.Duration

	// Initial builds every kernel once before watching
	Initial bool

	// OnResult is called after each build, failed or not
	OnResult func(generator.KernelSpec, *generator.Result, error)
}

// Watcher rebuilds kernels on source changes.
type Watcher struct {
	opts    Options
	gen     *generator.Generator
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	bySrc   map[string]int // cleaned absolute source path -> index in opts.Specs
	pending map[int]bool
}

// New creates a new Watcher with the given options.
func New(gen *generator.Generator, logger *slog.Logger, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		opts:    opts,
		gen:     gen,
		logger:  logger,
		bySrc:   make(map[string]int, len(opts.Specs)),
		pending: make(map[int]bool),
	}
}

// Run watches until ctx is cancelled or the watcher fails. Build errors are
// reported through OnResult and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer w.watcher.Close()

	if w.opts.Initial {
		for i := range w.opts.Specs {
			w.build(i)
		}
	}

	return w.watch(ctx)
}

// setupWatcher initializes the fsnotify watcher on every source directory.
func (w *Watcher) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	dirs := make(map[string]bool)
	for i, spec := range w.opts.Specs {
		abs, err := filepath.Abs(spec.Source)
		if err != nil {
			return err
		}
		w.bySrc[abs] = i

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", "dir", dir)
	}

	return nil
}

// watch monitors the source directories and rebuilds changed kernels.
func (w *Watcher) watch(ctx context.Context) error {
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if w.handleEvent(event) {
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)

		case <-timer.C:
			w.flush()
		}
	}
}

// handleEvent marks the kernel behind event as pending. It reports whether
// the event concerned a watched source.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		// Remove, rename and chmod: wait for the replacement to be written.
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	i, ok := w.bySrc[abs]
	if !ok {
		return false
	}

	w.logger.Debug("source changed", "kernel", w.opts.Specs[i].Name(), "op", event.Op.String())
	w.pending[i] = true
	return true
}

// flush rebuilds every pending kernel in configuration order.
func (w *Watcher) flush() {
	for i := range w.opts.Specs {
		if !w.pending[i] {
			continue
		}
		delete(w.pending, i)
		w.build(i)
	}
}

func (w *Watcher) build(i int) {
	spec := w.opts.Specs[i]
	result, err := w.gen.Generate(spec)
	if err != nil {
		w.logger.Error("rebuild failed", "kernel", spec.Name(), "error", err)
	}
	if w.opts.OnResult != nil {
		w.opts.OnResult(spec, result, err)
	}
}
