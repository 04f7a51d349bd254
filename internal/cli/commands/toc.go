package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/cli/output"
	"github.com/TroyWilliams3687/md-tools/internal/myst"
)

// NewTocCommand creates the toc command.
func NewTocCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toc",
		Short: "List toctree entries across the documentation tree",
		Long: `Find every MyST {toctree} directive in the tree and list its entries
in document order. Directive options and YAML option blocks are
skipped.`,
		Example: `  docs toc
  docs toc -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutStore(cmd)

			tree, err := scanDocs(cmd, cc)
			if err != nil {
				return err
			}

			type tocEntry struct {
				File  string `json:"file"`
				Line  int    `json:"line"`
				Entry string `json:"entry"`
			}
			var entries []tocEntry

			for _, doc := range tree.Docs {
				for _, nl := range myst.TocTreeEntries(doc.Lines) {
					entries = append(entries, tocEntry{
						File:  tree.Rel(doc.Path),
						Line:  nl.Number + 1,
						Entry: nl.Line,
					})
				}
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(entries)
			}

			r := cc.Renderer
			if len(entries) == 0 {
				r.Success("no toctree directives found")
				return nil
			}
			current := ""
			for _, e := range entries {
				if e.File != current {
					if current != "" {
						r.Println("")
					}
					r.Header(2, e.File)
					current = e.File
				}
				r.Println(fmt.Sprintf("  %d: %s", e.Line, e.Entry))
			}
			return nil
		},
	}
}
