package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/cli/output"
	"github.com/TroyWilliams3687/md-tools/internal/graph"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	var (
		dotOut  string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Analyze the document link graph",
		Long: `Build the link graph of the documentation tree and report its shape.

Nodes are documents, edges are relative markdown links between them.
The report lists orphans (documents nothing links to), leaves
(documents that link to nothing), and any cycle. Use --dot to write
the graph in Graphviz DOT format.`,
		Example: `  docs graph
  docs graph --dot graph.dot
  docs graph -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutStore(cmd)

			tree, err := scanDocs(cmd, cc)
			if err != nil {
				return err
			}

			g := graph.Build(tree)

			if dotOut != "" {
				if err := os.WriteFile(dotOut, []byte(g.DOT("docs")), 0600); err != nil {
					return fmt.Errorf("failed to write %s: %w", dotOut, err)
				}
				cc.Renderer.Success(fmt.Sprintf("wrote %s", dotOut))
				if summary {
					renderGraphSummary(cc, g)
				}
				return nil
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				hasCycle, cycle := g.HasCycle()
				return cc.Renderer.JSON(map[string]any{
					"nodes":   g.Nodes(),
					"edges":   g.EdgeCount(),
					"orphans": g.Orphans(),
					"leaves":  g.Leaves(),
					"levels":  g.Levels(),
					"cycle":   cycle,
					"cyclic":  hasCycle,
				})
			}

			renderGraphSummary(cc, g)
			return nil
		},
	}

	cmd.Flags().StringVar(&dotOut, "dot", "", "Write the graph in DOT format to this file")
	cmd.Flags().BoolVar(&summary, "summary", true, "Print the graph summary")

	return cmd
}

func renderGraphSummary(cc *CommandContext, g *graph.Graph) {
	r := cc.Renderer

	r.Header(1, "Link Graph")
	r.Println("")
	r.Println(r.FormatKeyValue("Documents", fmt.Sprintf("%d", g.NodeCount())))
	r.Println(r.FormatKeyValue("Links", fmt.Sprintf("%d", g.EdgeCount())))
	if levels := g.Levels(); len(levels) > 0 {
		r.Println(r.FormatKeyValue("Depth", fmt.Sprintf("%d", len(levels))))
	}

	if orphans := g.Orphans(); len(orphans) > 0 {
		r.Println("")
		r.Header(2, "Orphans")
		for _, id := range orphans {
			r.StatusLine(id, "fail", "nothing links here")
		}
	}

	if leaves := g.Leaves(); len(leaves) > 0 {
		r.Println("")
		r.Header(2, "Leaves")
		for _, id := range leaves {
			r.Println("  " + id)
		}
	}

	if ok, cycle := g.HasCycle(); ok {
		r.Println("")
		r.Error(fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
	}
}
