package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/convert"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "convert <file.html>",
		Short: "Convert an HTML file to markdown",
		Long: `Convert an HTML file to markdown. The result is written next to the
input with a .md extension unless --output is given.`,
		Example: `  docs convert notes.html
  docs convert notes.html --output docs/notes.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContextWithoutStore(cmd)

			written, err := convert.File(args[0], outPath)
			if err != nil {
				return fmt.Errorf("failed to convert %s: %w", args[0], err)
			}

			cc.Renderer.Success(fmt.Sprintf("wrote %s", written))
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "output", "", "Path of the markdown file to write")

	return cmd
}
