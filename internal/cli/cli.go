// Package cli implements the benchgraph command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/benchgraph/pkg/buildinfo"
	"github.com/matzehuels/benchgraph/pkg/cache"
	"github.com/matzehuels/benchgraph/pkg/compiler"
	"github.com/matzehuels/benchgraph/pkg/config"
	"github.com/matzehuels/benchgraph/pkg/pipeline"
	"github.com/matzehuels/benchgraph/pkg/sink"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "benchgraph"

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
	noCache    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "benchgraph compiles BENCH netlists into typed graph records",
		Long: `benchgraph reads gate-level circuits in the BENCH netlist format and compiles
them into typed graph records: node and edge arrays with role, gate and
polarity codes plus whole-graph statistics, ready for graph learning.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/benchgraph/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the record cache")

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if prefix := c.cfg.Cache.KeyPrefix; prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(compiler.Version), prefix)
	}
	runner := pipeline.NewRunner(cc, keyer, loggerFromContext(ctx))
	runner.TTL = c.cfg.Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr: c.cfg.Cache.RedisAddr,
			DB:   c.cfg.Cache.RedisDB,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		// no home directory; run uncached
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the file cache directory from config, or the default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// formats resolves a --format flag value, falling back to the configured
// formats when the flag is empty.
func (c *CLI) formats(flag string) ([]sink.Format, error) {
	if flag == "" {
		return sink.ParseFormats(c.cfg.Compile.Formats)
	}
	return sink.ParseFormats(strings.Split(flag, ","))
}
