package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/cli/output"
	"github.com/TroyWilliams3687/md-tools/internal/state"
)

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the document index",
		Long: `Scan the documentation tree and write every document and link into
the SQLite index. Documents that no longer exist on disk are pruned.`,
		Example: `  docs index
  docs index --index .mdtools/index.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tree, err := scanDocs(cmd, cc)
			if err != nil {
				return err
			}

			summary, err := state.IndexTree(cc.Store, tree)
			if err != nil {
				return fmt.Errorf("failed to index %s: %w", cc.Cfg.DocsRoot, err)
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(summary)
			}

			r := cc.Renderer
			r.Println(r.FormatKeyValue("Indexed", fmt.Sprintf("%d documents", summary.Indexed)))
			r.Println(r.FormatKeyValue("Links", fmt.Sprintf("%d", summary.Links)))
			if summary.Pruned > 0 {
				r.Println(r.FormatKeyValue("Pruned", fmt.Sprintf("%d", summary.Pruned)))
			}
			r.Success("index up to date")
			return nil
		},
	}
}
