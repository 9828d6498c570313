package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractaldraw/pkg/cache"
	"github.com/matzehuels/fractaldraw/pkg/pipeline"
	"github.com/matzehuels/fractaldraw/pkg/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve curves over HTTP",
		Long: `Serve the curve catalog and rendered levels over HTTP:

  GET /healthz
  GET /curves
  GET /curves/{curve}
  GET /curves/{curve}/levels/{level}.{svg|png|json}
  GET /curves/{curve}/grammar.svg

Renders are cached on disk, or in Redis with --redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			srvCfg := c.config().Server
			if addr == "" {
				addr = srvCfg.Addr
			}
			if redisAddr == "" {
				redisAddr = srvCfg.RedisAddr
			}

			runner, err := c.serverRunner(ctx, redisAddr, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, server.Config{
				Defaults: c.config().Options(),
				Timeout:  srvCfg.RequestTimeout.Duration,
				Logger:   c.Logger,
			})

			printSuccess("Serving %d curves on %s", runner.Catalog.Len(), addr)
			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "cache renders in Redis at this address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// serverRunner builds a runner over Redis, the local file cache or nothing.
func (c *CLI) serverRunner(ctx context.Context, redisAddr string, noCache bool) (*pipeline.Runner, error) {
	if noCache || redisAddr == "" {
		r, err := c.newRunner(noCache)
		if err != nil {
			return nil, err
		}
		if ttl := c.config().Server.CacheTTL.Duration; ttl > 0 {
			r.TTL = ttl
		}
		return r, nil
	}

	rc, err := c.redisCache(ctx, redisAddr)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "addr", redisAddr)

	r := pipeline.NewRunner(rc, nil, c.Logger)
	r.Catalog = c.curves()
	if ttl := c.config().Server.CacheTTL.Duration; ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

// redisCache connects to Redis with the credentials from the config file.
func (c *CLI) redisCache(ctx context.Context, addr string) (*cache.RedisCache, error) {
	srv := c.config().Server
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     addr,
		Password: srv.RedisPassword,
		DB:       srv.RedisDB,
		Prefix:   srv.CachePrefix,
	})
}
