package commands

import (
	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/cli/output"
	"github.com/TroyWilliams3687/md-tools/internal/stats"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show word and page counts for the documentation tree",
		Long: `Count the words in every markdown document under the docs root.

Words inside code fences and YAML metadata blocks are excluded. Page
estimates assume 500 words per printed page.`,
		Example: `  docs stats
  docs stats -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutStore(cmd)

			tree, err := scanDocs(cmd, cc)
			if err != nil {
				return err
			}

			report, err := stats.Collect(cmd.Context(), tree)
			if err != nil {
				return err
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(report)
			}

			report.Render(cc.Renderer.Writer())
			return nil
		},
	}
}
