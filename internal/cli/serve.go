package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/internal/server"
	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configFile string
		backend    string
	)

	cmd := &cobra.Command{
		Use:   "serve [family.json]",
		Short: "Serve a family tree over HTTP",
		Long: `Serve a family tree over HTTP.

The serve command loads a family records file and starts an HTTP server
with an interactive SVG view and a JSON API for editing people and
partnerships. Rendered artifacts are cached per content hash, so repeated
views of an unchanged tree are served from cache.

Settings can be provided in a TOML config file (default:
~/.config/kintree/config.toml); command-line flags take precedence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if backend != "" {
				cfg.Cache.Backend = backend
				if err := validateConfig(cfg); err != nil {
					return err
				}
			}
			return c.runServe(cmd.Context(), args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&configFile, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: file (default), redis, none")

	return cmd
}

// runServe loads the tree, wires the cache backend, and blocks serving
// HTTP until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, input string, cfg Config) error {
	prog := newProgress(c.Logger)
	tree, err := family.ImportFile(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Loaded %d people from %s", tree.Len(), input))

	store, err := c.newServeCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	srv := server.New(tree, runner, c.Logger, server.WithRenderDefaults(server.RenderDefaults{
		Style:       cfg.Render.Style,
		Scale:       cfg.Render.Scale,
		Metrics:     cfg.Layout.Metrics(),
		Interactive: cfg.Render.Interactive,
		Popups:      cfg.Render.Popups,
	}))

	printInfo("Serving %s", input)
	printDetail("Address: http://localhost%s/", cfg.Addr)
	printDetail("Cache: %s", describeBackend(cfg.Cache))

	return srv.ListenAndServe(ctx, cfg.Addr)
}

// newServeCache constructs the cache backend named in the config.
func (c *CLI) newServeCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	case cacheBackendRedis:
		addr := cfg.Redis.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		return cache.NewRedisCache(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
	case cacheBackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// describeBackend renders the backend choice for the startup banner.
func describeBackend(cfg CacheConfig) string {
	switch cfg.Backend {
	case cacheBackendNone:
		return "disabled"
	case cacheBackendRedis:
		addr := cfg.Redis.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		return "redis (" + addr + ")"
	default:
		return "file"
	}
}
