package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/influencemap/internal/server"
	"github.com/matzehuels/influencemap/pkg/cache"
	"github.com/matzehuels/influencemap/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map over an HTTP API",
		Long: `Serve the stored map over a JSON API under /api. Edits made through the
API are saved to the configured store and can be undone with POST /api/undo.
Stop the server with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx := cmd.Context()
			sess, closeStore, err := c.openSession(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			srv := server.New(sess,
				server.WithLogger(c.Logger),
				server.WithRunner(pipeline.NewRunner(cache.NewMemoryCache(256),
					cache.NewScopedKeyer(cache.NewDefaultKeyer(), sess.Key()+":"), c.Logger)),
				server.WithRenderDefaults(pipeline.Options{
					Width:           cfg.Render.Width,
					Height:          cfg.Render.Height,
					GroupByDivision: cfg.Render.GroupByDivision,
				}),
			)
			return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
				printSuccess("Serving %d stakeholders", sess.Current().Len())
				printDetail("http://%s/api/stakeholders", a)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
