package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TroyWilliams3687/md-tools/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new documentation project",
		Long: `Initialize a new documentation project with default structure and configuration.

This creates:
  - mdtools.yaml configuration file
  - docs/ directory with a starter index page
  - requirements.txt and dev-requirements.txt for the Python tooling
  - .gitignore covering the virtual environment and index`,
		Example: `  # Initialize in current directory
  docs init

  # Initialize in a new directory
  docs init my-book

  # Force overwrite existing config
  docs init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "mdtools.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("mdtools.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate("project", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	if err := stampUUIDs(filepath.Join(dir, "docs")); err != nil {
		return fmt.Errorf("failed to assign document UUIDs: %w", err)
	}

	files, _ := listTemplateFiles("project")
	groups := groupTemplateFiles(files)

	caser := cases.Title(language.English)
	for _, group := range []string{"config", "docs"} {
		r.Header(2, caser.String(group))
		for _, f := range groups[group] {
			r.StatusLine(f, "success", "")
		}
		r.Println("")
	}

	r.Success("Documentation project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  docs env build    Create the Python tooling environment")
	r.Println("  docs validate     Check links and metadata")
	r.Println("  docs serve        Preview the tree locally")

	return nil
}
