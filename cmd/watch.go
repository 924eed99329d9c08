package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bimmerbailey/clpack/internal/generator"
	"github.com/bimmerbailey/clpack/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [kernel...]",
	Short: "Rebuild kernels whenever their sources change",
	Long: `Build the configured kernels once, then keep watching their source
files and regenerate a kernel each time its source is saved. A failed
rebuild is reported and the watch continues. Stop with Ctrl-C.

Examples:
  clpack watch
  clpack watch blur_h
  clpack watch --debounce 500ms`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("output-dir", "o", "", "directory for generated files (default from config, \"..\")")
	watchCmd.Flags().String("prefix", "", "symbol prefix (default from config, \"opencl___\")")
	watchCmd.Flags().String("strategy", "", "alias substitution strategy (token, text)")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before rebuilding after a change")
	watchCmd.Flags().Bool("no-initial", false, "skip the initial build")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")
	noInitial, _ := cmd.Flags().GetBool("no-initial")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	specs, err := loadSpecs(cfg, args)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)
	gen, err := newGenerator(cfg, logger, false)
	if err != nil {
		return err
	}

	out := newWriter(cmd.OutOrStdout(), cfg)
	watcher := watch.New(gen, logger, watch.Options{
		Specs:    specs,
		Debounce: debounce,
		Initial:  !noInitial,
		OnResult: func(spec generator.KernelSpec, result *generator.Result, err error) {
			if err != nil {
				_ = out.WriteFailure(spec.Name(), err)
				return
			}
			_ = out.WriteResult(result)
		},
	})

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- watcher.Run(ctx)
	}()

	select {
	case <-sigChan:
		cancel()
		<-errChan
		return nil
	case err := <-errChan:
		return err
	}
}
