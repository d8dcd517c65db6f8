package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/internal/server"
	"github.com/matzehuels/graphweave/pkg/cache"
	"github.com/matzehuels/graphweave/pkg/config"
	"github.com/matzehuels/graphweave/pkg/pipeline"
	"github.com/matzehuels/graphweave/pkg/store"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve starts the graphweave HTTP API.

The cache backend, project store and listen address come from the config
file. With [server] mongo_uri set, projects persist in MongoDB; otherwise
they live in memory for the lifetime of the process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, configPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./"+config.DefaultFileName+")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, configPath string) error {
	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDir(".")
	}
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ch, err := c.serveCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}

	st, err := c.serveStore(ctx, cfg.Server)
	if err != nil {
		_ = ch.Close()
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			c.Logger.Warn("close store", "error", err)
		}
	}()

	runner := pipeline.NewRunner(ch, nil, c.Logger)
	defer runner.Close()

	srv := server.New(runner, st, c.Logger)

	c.Logger.Info("listening", "addr", addr, "cache", cfg.Cache.Backend)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

func (c *CLI) serveCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) serveStore(ctx context.Context, cfg config.Server) (store.Store, error) {
	if cfg.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
}
