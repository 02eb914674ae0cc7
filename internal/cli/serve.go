package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/npmap/internal/server"
	"github.com/matzehuels/npmap/pkg/observability"
)

type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the "serve" command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve import maps over HTTP",
		Long: `Run an HTTP server that generates import maps on request.

  POST /v1/importmap                 body is a package.json
  GET  /v1/importmap?manifest=URL    fetch a remote package.json
  GET  /v1/cdns                      list supported CDNs
  GET  /healthz                      liveness probe

Both importmap routes accept the cdn, dev, peer and optional query parameters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := c.cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr = opts.addr
			}

			hooks := &logHooks{logger: c.Logger}
			observability.SetResolveHooks(hooks)

			ctx := cmd.Context()
			runner, closeCache := c.newRunner(ctx, opts.noCache)
			defer closeCache()

			return server.New(runner, c.Logger, c.cfg.CDN).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", c.cfg.Server.Addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not cache fetched manifests")

	return cmd
}
