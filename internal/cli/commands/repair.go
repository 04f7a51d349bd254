package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/cli/output"
	"github.com/TroyWilliams3687/md-tools/internal/markdown"
	"github.com/TroyWilliams3687/md-tools/internal/repair"
)

// NewRepairCommand creates the repair command with its subcommands.
func NewRepairCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Fix broken links, images, and missing section anchors",
		Long: `Repair problems in the documentation tree.

Broken links and images whose file name matches exactly one file in the
tree are rewritten in place. Ambiguous or fuzzy matches are reported for
manual review. Use --dry-run to preview every change.`,
	}

	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing files")

	cmd.AddCommand(newRepairLinksCommand(&dryRun))
	cmd.AddCommand(newRepairImagesCommand(&dryRun))
	cmd.AddCommand(newRepairHeadersCommand(&dryRun))

	return cmd
}

func newRepairLinksCommand(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "Repair broken relative markdown links",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepair(cmd, *dryRun, repair.Links)
		},
	}
}

func newRepairImagesCommand(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "Repair broken image references",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepair(cmd, *dryRun, repair.Images)
		},
	}
}

func newRepairHeadersCommand(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "headers",
		Short: "Add section anchors to headers that lack one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutStore(cmd)

			tree, err := scanDocs(cmd, cc)
			if err != nil {
				return err
			}

			result, err := repair.Headers(tree, repair.Options{DryRun: *dryRun})
			if err != nil {
				return err
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(result)
			}

			r := cc.Renderer
			for _, fix := range result.Fixes {
				r.StatusLine(fmt.Sprintf("%s:%d", fix.File, fix.Line), "ok", fix.Attribute)
			}
			summarizeRepair(cc, len(result.Fixes), result.Changed, *dryRun)
			return nil
		},
	}
}

func runRepair(cmd *cobra.Command, dryRun bool, fn func(*markdown.Tree, repair.Options) (*repair.Result, error)) error {
	cc := NewCommandContextWithoutStore(cmd)

	tree, err := scanDocs(cmd, cc)
	if err != nil {
		return err
	}

	result, err := fn(tree, repair.Options{DryRun: dryRun})
	if err != nil {
		return err
	}

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(result)
	}

	r := cc.Renderer
	for _, fix := range result.Fixes {
		location := fmt.Sprintf("%s:%d", fix.File, fix.Line)
		switch fix.Class {
		case repair.ExactMatch:
			r.StatusLine(location, "ok", fmt.Sprintf("%s -> %s", fix.URL, fix.Replacement))
		case repair.MultipleMatches:
			r.StatusLine(location, "fail", fmt.Sprintf("%s matches: %s", fix.URL, strings.Join(fix.Candidates, ", ")))
		case repair.Suggestion:
			r.StatusLine(location, "fail", fmt.Sprintf("%s, did you mean: %s", fix.URL, strings.Join(fix.Candidates, ", ")))
		default:
			r.StatusLine(location, "fail", fmt.Sprintf("%s has no match in the tree", fix.URL))
		}
	}
	summarizeRepair(cc, len(result.Fixes), result.Changed, dryRun)
	return nil
}

func summarizeRepair(cc *CommandContext, fixes int, changed []string, dryRun bool) {
	r := cc.Renderer
	if fixes > 0 {
		r.Println("")
	}

	if fixes == 0 {
		r.Success("nothing to repair")
		return
	}
	if dryRun {
		r.Println(r.FormatKeyValue("Findings", fmt.Sprintf("%d (dry run, nothing written)", fixes)))
		return
	}
	r.Println(r.FormatKeyValue("Findings", fmt.Sprintf("%d", fixes)))
	r.Println(r.FormatKeyValue("Files rewritten", fmt.Sprintf("%d", len(changed))))
}
