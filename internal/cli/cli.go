package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fractaldraw/pkg/buildinfo"
	"github.com/matzehuels/fractaldraw/pkg/cache"
	"github.com/matzehuels/fractaldraw/pkg/config"
	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "fractaldraw"
)

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

	configPath string
	cfg        *config.Config
	catalog    *curve.Catalog
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
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "fractaldraw draws L-system fractal curves",
		Long: `fractaldraw expands Lindenmayer-system grammars and draws the result with a
turtle: the Koch snowflake, the Hilbert and Peano curves, dragons, plants and
more. Curves animate level by level in the terminal, render to SVG, PNG or
JSON, and can be served over HTTP.`,
		Version:      buildinfo.Resolved(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fractaldraw/config.toml)")

	root.AddCommand(c.listCommand())
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.expandCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.grammarCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Catalog
// =============================================================================

// loadConfig reads the config file once and builds the curve catalog.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog(curve.Builtin())
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path, "curves", len(cfg.Curves))
	}
	c.cfg, c.catalog = cfg, cat
	return nil
}

// config returns the loaded config, or the defaults before PersistentPreRunE.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// curves returns the catalog in use.
func (c *CLI) curves() *curve.Catalog {
	if c.catalog == nil {
		return curve.Builtin()
	}
	return c.catalog
}

// options returns pipeline options seeded from the config.
func (c *CLI) options() pipeline.Options {
	opts := c.config().Options()
	opts.Logger = c.Logger
	return opts
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cache, nil, c.Logger)
	r.Catalog = c.curves()
	return r, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fractaldraw/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// curveArgs completes curve slugs for commands taking a curve argument.
func (c *CLI) curveArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, d := range c.curves().All() {
		if strings.HasPrefix(d.Slug(), toComplete) {
			out = append(out, d.Slug()+"\t"+d.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
