package cmd

import (
	"github.com/bimmerbailey/clpack/internal/alias"
	"github.com/bimmerbailey/clpack/internal/minify"
	"github.com/spf13/cobra"
)

var identsCmd = &cobra.Command{
	Use:   "idents [flags] <file>",
	Short: "List identifiers worth aliasing in a kernel source",
	Long: `Lex a kernel source the same way the build does (header skipped,
comments stripped) and list the identifiers it contains, most frequent
first. Long, frequent identifiers are the best candidates for an alias
table.

Examples:
  clpack idents blur_h.c
  clpack idents --min-length 4 --top 20 blur_h.c
  clpack idents --format table --header-lines 0 blur_h.c`,
	Args: cobra.ExactArgs(1),
	RunE: runIdents,
}

func init() {
	identsCmd.Flags().Int("header-lines", -1, "leading lines to skip (default from config)")
	identsCmd.Flags().Int("min-length", 3, "ignore identifiers shorter than this")
	identsCmd.Flags().IntP("top", "n", 0, "show only the N most frequent identifiers (0 for all)")

	rootCmd.AddCommand(identsCmd)
}

func runIdents(cmd *cobra.Command, args []string) error {
	headerLines, _ := cmd.Flags().GetInt("header-lines")
	minLength, _ := cmd.Flags().GetInt("min-length")
	top, _ := cmd.Flags().GetInt("top")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if headerLines < 0 {
		headerLines = cfg.HeaderLines
	}

	lines, err := minify.Load(args[0], headerLines)
	if err != nil {
		return err
	}
	text := minify.Normalize(minify.StripComments(lines, cfg.StripLineComments))

	all, err := alias.Identifiers(text)
	if err != nil {
		return err
	}

	idents := make([]alias.Ident, 0, len(all))
	for _, id := range all {
		if len(id.Name) < minLength {
			continue
		}
		idents = append(idents, id)
		if top > 0 && len(idents) == top {
			break
		}
	}

	return newWriter(cmd.OutOrStdout(), cfg).WriteIdents(idents)
}
