package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/cli/config"
	"github.com/TroyWilliams3687/md-tools/internal/env"
)

// NewEnvCommand creates the env command with its subcommands.
func NewEnvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage the Python tooling environment",
		Long: `Manage the Python virtual environment the documentation tooling runs in.

The interpreter, environment prefix, and requirements files come from
the venv section of mdtools.yaml.`,
	}

	cmd.AddCommand(newEnvBuildCommand())
	cmd.AddCommand(newEnvRemoveCommand())

	return cmd
}

func newEnvBuildCommand() *cobra.Command {
	var recreate bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Create the virtual environment and install requirements",
		Example: `  docs env build
  docs env build --recreate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutStore(cmd)

			// Building an environment without a project config would
			// drop a .venv wherever the command happens to run.
			if config.GetConfigFileUsed() == "" {
				return fmt.Errorf("no mdtools.yaml found; run 'docs init' to create one")
			}

			b := builderFromConfig(cc, recreate)
			cc.Logger.Debug("building environment",
				"python", b.Python, "prefix", b.Prefix, "requirements", b.Requirements)

			if err := b.Build(cmd.Context()); err != nil {
				return err
			}

			cc.Renderer.Success(fmt.Sprintf("environment ready at %s", b.Prefix))
			return nil
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate", false, "Remove an existing environment first")

	return cmd
}

func newEnvRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the virtual environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutStore(cmd)

			b := builderFromConfig(cc, false)
			if err := b.Remove(cmd.Context()); err != nil {
				return err
			}

			cc.Renderer.Success(fmt.Sprintf("removed %s", b.Prefix))
			return nil
		},
	}
}

func builderFromConfig(cc *CommandContext, recreate bool) *env.Builder {
	venv := cc.Cfg.GetVenvConfig()
	return &env.Builder{
		Python:       venv.Python,
		Prefix:       venv.Prefix,
		Requirements: venv.Requirements,
		Recreate:     recreate,
		Logger:       cc.Logger,
		Stdout:       cc.Renderer.Writer(),
	}
}
