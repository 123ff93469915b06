package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cmdtower/internal/api"
	"github.com/matzehuels/cmdtower/pkg/config"
	"github.com/matzehuels/cmdtower/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API until the
// context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the placement pipeline over HTTP",
		Long: `Serve starts the HTTP API. Layouts are kept in the configured store
(memory, file or mongo) and artifacts are cached in the configured cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr == "" {
				addr = cfg.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			st, err := c.newStore(ctx)
			if err != nil {
				runner.Close()
				return err
			}
			runner.Store = st
			defer runner.Close()

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPlacementHooks(hooks)
			observability.SetCacheHooks(hooks)
			defer observability.Reset()

			defaults := c.defaultOptions()
			defaults.Formats = nil
			srv := api.New(runner, st, api.Options{
				Defaults:        defaults,
				MaxBodyBytes:    cfg.MaxBodyBytes,
				MaxVolume:       cfg.MaxVolume,
				ReadTimeout:     cfg.ReadTimeout,
				WriteTimeout:    cfg.WriteTimeout,
				ShutdownTimeout: cfg.ShutdownTimeout,
				Logger:          c.Logger,
			})

			printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
			printDetail("Store: %s · Cache: %s", c.Config.Store.Backend, cacheLabel(c.Config.Cache.Backend, noCache))
			if c.Config.Store.Backend == config.StoreMemory {
				printWarning("Layouts are kept in memory and lost on exit")
			}
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func cacheLabel(backend string, noCache bool) string {
	if noCache {
		return "none"
	}
	return backend
}
