// Package cli implements the topodraw command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/topodraw/internal/architecture"
	"github.com/matzehuels/topodraw/internal/config"
	"github.com/matzehuels/topodraw/pkg/buildinfo"
	"github.com/matzehuels/topodraw/pkg/cache"
	"github.com/matzehuels/topodraw/pkg/catalog"
	"github.com/matzehuels/topodraw/pkg/observability"
	"github.com/matzehuels/topodraw/pkg/render"
	"github.com/matzehuels/topodraw/pkg/topology"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "topodraw"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// open replaces the system viewer when set.
	open func(path string) error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Run without a subcommand, it draws the reference architecture.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Topodraw draws cloud architecture diagrams",
		Long: `Topodraw describes cloud architectures as nested clusters of typed nodes
and renders them through Graphviz.

Without a subcommand it draws the reference load-balanced EC2 autoscaling
application into the output directory and opens the result.`,
		Args:         cobra.NoArgs,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.draw(cmd, architecture.Build)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().String("config", "", "config file (default: ./topodraw.toml)")
	addDrawFlags(root)

	hooks := &logHooks{logger: c.Logger}
	observability.SetRenderHooks(hooks)
	observability.SetCacheHooks(hooks)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// addDrawFlags registers the flags shared by commands that write a diagram
// to disk. Their names match the configuration keys.
func addDrawFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output-dir", "o", ".", "directory to write the diagram to")
	f.StringP("format", "f", "", "output format: "+formatList()+" (default: the diagram's own)")
	f.Bool("no-show", false, "do not open the rendered diagram")
	f.Bool("no-cache", false, "disable the artifact cache")
	f.String("cache", "file", "cache backend: file, none or a redis:// URL")
	f.Duration("cache-ttl", render.DefaultTTL, "how long rendered artifacts stay cached")
	f.String("catalog", "", "TOML file with extra node categories")
}

// =============================================================================
// Configuration & Renderer Factory
// =============================================================================

// loadConfig resolves the configuration for cmd and raises the log level if
// the config asks for it.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	return c.loadConfigFlags(cmd.Flags())
}

func (c *CLI) loadConfigFlags(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
	}
	if cfg.ConfigFile != "" {
		c.Logger.Debug("loaded config", "file", cfg.ConfigFile)
	}
	return cfg, nil
}

// newRenderer creates a renderer for CLI use. The caller closes its cache.
func (c *CLI) newRenderer(ctx context.Context, cfg config.Config) (*render.Renderer, error) {
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if _, shared := store.(*cache.RedisCache); shared {
		keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	r := render.NewRenderer(store, keyer, c.Logger)
	r.Catalog = cat
	r.TTL = cfg.CacheTTL
	if c.open != nil {
		r.Open = c.open
	}
	return r, nil
}

// newCache opens the configured cache backend. A file cache without a
// usable directory degrades to no caching.
func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	spec := cfg.Cache
	if (spec == "" || spec == "file") && cfg.CacheDir == "" {
		spec = "none"
	}
	store, err := cache.Open(ctx, spec, cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}

// loadCatalog returns the built-in catalog, extended by the categories in
// path when it is set.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	user, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	return catalog.Default().Merge(user), nil
}

// diagramOptions turns configuration overrides into builder options.
// Unset values keep the diagram's own settings.
func diagramOptions(cfg config.Config) []topology.Option {
	var opts []topology.Option
	if cfg.Format != "" {
		opts = append(opts, topology.WithFormat(cfg.Format))
	}
	if cfg.NoShow {
		opts = append(opts, topology.WithShow(false))
	}
	return opts
}

func formatList() string {
	names := make([]string, 0, len(render.Formats()))
	for _, f := range render.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
