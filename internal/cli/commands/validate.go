package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/cli/output"
	"github.com/TroyWilliams3687/md-tools/internal/markdown"
	"github.com/TroyWilliams3687/md-tools/internal/validate"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the documentation tree for problems",
		Long: `Validate every markdown document under the docs root.

Checks that relative links and images resolve to files on disk and that
each document carries a well formed, unique UUID in its YAML metadata
block. With --remote, absolute URLs are probed over HTTP as well.`,
		Example: `  # Validate the tree
  docs validate

  # Also probe external URLs
  docs validate --remote

  # Machine readable report
  docs validate -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutStore(cmd)

			tree, err := scanDocs(cmd, cc)
			if err != nil {
				return err
			}

			result, err := validate.Tree(cmd.Context(), tree, validate.Options{Remote: remote})
			if err != nil {
				return err
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				if err := cc.Renderer.JSON(result); err != nil {
					return err
				}
			} else {
				renderValidation(cc, result)
			}

			if !result.OK() {
				return fmt.Errorf("%d problems found", len(result.Issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Probe absolute URLs with HTTP requests")

	return cmd
}

func renderValidation(cc *CommandContext, result *validate.Result) {
	r := cc.Renderer

	r.Header(1, "Validation")
	r.Println("")

	for _, issue := range result.Issues {
		location := issue.File
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
		}
		r.StatusLine(location, "fail", fmt.Sprintf("%s: %s", issue.Kind, issue.Detail))
	}
	if len(result.Issues) > 0 {
		r.Println("")
	}

	r.Println(r.FormatKeyValue("Documents", fmt.Sprintf("%d", result.Documents)))
	r.Println(r.FormatKeyValue("Assets", fmt.Sprintf("%d", result.Assets)))
	if result.OK() {
		r.Success("no problems found")
	} else {
		r.Println(r.FormatKeyValue("Problems", fmt.Sprintf("%d", len(result.Issues))))
	}
}

// scanDocs scans the configured docs root.
func scanDocs(cmd *cobra.Command, cc *CommandContext) (*markdown.Tree, error) {
	if _, err := os.Stat(cc.Cfg.DocsRoot); err != nil {
		return nil, fmt.Errorf("docs root not found: %s", cc.Cfg.DocsRoot)
	}

	cc.Logger.Debug("scanning documentation tree", "root", cc.Cfg.DocsRoot)
	tree, err := markdown.ScanTree(cmd.Context(), cc.Cfg.DocsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", cc.Cfg.DocsRoot, err)
	}
	return tree, nil
}
