package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rstfmt/rstfmt/internal/daemon"
	"github.com/rstfmt/rstfmt/pkg/cache"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string
	idleTimeout time.Duration
	redisAddr   string
	noCache     bool
}

// serveCommand creates the daemon command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:        "127.0.0.1:7628",
		idleTimeout: daemon.DefaultIdleTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a resident formatter daemon",
		Long: `Run rstfmt as a resident HTTP daemon.

The daemon keeps the fingerprint cache warm across requests, so editor
integrations pay neither process startup nor cache load per save. It
stops itself after the idle timeout and flushes the cache on shutdown.

Endpoints:
  POST /v1/format   format a batch of documents
  GET  /healthz     liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(formatOpts{})
			if err != nil {
				return err
			}
			store, err := c.serveStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer store.Close()

			server := daemon.NewServer(c.newRunner(store, cfg), store, c.Logger, opts.idleTimeout)
			return server.Run(cmd.Context(), opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().DurationVar(&opts.idleTimeout, "idle-timeout", opts.idleTimeout, "self-stop after this long without requests")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "back the cache with Redis at this address instead of the local manifest")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "run without a fingerprint cache")

	return cmd
}

// serveStore picks the daemon's fingerprint store: Redis when
// requested, the local manifest otherwise.
func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (cache.Store, error) {
	if opts.noCache {
		return cache.NewNullStore(), nil
	}
	if opts.redisAddr != "" {
		return cache.NewRedisStore(ctx, opts.redisAddr)
	}
	return c.newStore(false), nil
}
