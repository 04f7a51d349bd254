package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/serve"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the documentation tree",
		Long: `Serve the documentation tree over HTTP and keep the index current.

The server watches the tree for changes and re-indexes automatically.
Besides the raw files it exposes a small JSON API:

  /api/documents   every indexed document
  /api/backlinks   documents linking to ?target=<path>
  /api/graph       the link graph`,
		Example: `  docs serve
  docs serve --port 9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			serveCfg := cc.Cfg.GetServeConfig()
			if cmd.Flags().Changed("port") {
				serveCfg.Port = port
			}

			addr := fmt.Sprintf("127.0.0.1:%d", serveCfg.Port)
			cc.Renderer.Success(fmt.Sprintf("serving %s on http://%s", cc.Cfg.DocsRoot, addr))

			srv := serve.New(cc.Cfg.DocsRoot, addr, cc.Store, cc.Logger)
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on")

	return cmd
}
