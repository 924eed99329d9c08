package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [kernel...]",
	Short: "Generate C artifacts for the configured kernels",
	Long: `Run every configured kernel through the pipeline and write its
<prefix><kernel>.c and .h files. Name kernels (by source base name) to build
only those. Kernels are built in configuration order and the build stops at
the first failure; artifacts already written are kept.

Examples:
  clpack build
  clpack build blur_h blur_v
  clpack build --output-dir ../src/kernels --prefix cl_
  clpack build --dry-run --format json`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output-dir", "o", "", "directory for generated files (default from config, \"..\")")
	buildCmd.Flags().String("prefix", "", "symbol prefix (default from config, \"opencl___\")")
	buildCmd.Flags().String("strategy", "", "alias substitution strategy (token, text)")
	buildCmd.Flags().Bool("dry-run", false, "run the pipeline and report without writing files")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	specs, err := loadSpecs(cfg, args)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, newLogger(cfg.Verbose), dryRun)
	if err != nil {
		return err
	}

	results, runErr := gen.Run(context.Background(), specs)

	out := newWriter(cmd.OutOrStdout(), cfg)
	if err := out.WriteResults(results); err != nil {
		return err
	}

	if runErr != nil {
		// Run stops at the first failure, which is the kernel after the
		// last result.
		failed := specs[len(results)].Name()
		if err := out.WriteFailure(failed, runErr); err != nil {
			return err
		}
		return runErr
	}
	return nil
}
