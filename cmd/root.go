package cmd

import (
	"fmt"
	"os"

	"github.com/bimmerbailey/clpack/internal/alias"
	"github.com/bimmerbailey/clpack/internal/emit"
	"github.com/bimmerbailey/clpack/internal/generator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "clpack",
	Short: "Pack OpenCL kernels into embeddable C strings",
	Long: `Clpack turns hand-written OpenCL kernel sources into C string constants
that can be compiled straight into a host program.

Each kernel is stripped of comments, compacted, has its long identifiers
renamed to short aliases, and is written as a .c/.h pair. The .c file keeps
a readable copy of the kernel behind a debug macro.

Examples:
  clpack init
  clpack build
  clpack build --dry-run --format table
  clpack watch blur_h
  clpack idents kernels/blur_h.c`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.clpack.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CLPACK")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// configName is the config file base name, without the .yaml extension.
const configName = ".clpack"

func setDefaults() {
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("no_color", false)
	viper.SetDefault("source_dir", ".")
	viper.SetDefault("output_dir", "..")
	viper.SetDefault("prefix", generator.DefaultPrefix)
	viper.SetDefault("debug_macro", emit.DefaultDebugMacro)
	viper.SetDefault("chunk_size", emit.DefaultChunkSize)
	viper.SetDefault("header_lines", 4)
	viper.SetDefault("strategy", string(alias.StrategyToken))
	viper.SetDefault("strip_line_comments", true)
}
