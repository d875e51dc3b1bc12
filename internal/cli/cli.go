package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/samplesize/pkg/buildinfo"
	"github.com/matzehuels/samplesize/pkg/cache"
	"github.com/matzehuels/samplesize/pkg/config"
	"github.com/matzehuels/samplesize/pkg/observability"
	"github.com/matzehuels/samplesize/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// Config is loaded in the root command's PersistentPreRunE.
	Config *config.Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level the calculation
// and cache hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := debugHooks{logger: c.Logger}
		observability.SetCalculationHooks(h)
		observability.SetCacheHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Samplesize calculates sample sizes for epidemiological studies",
		Long: `Samplesize computes the number of participants required for prevalence
surveys, case-control and cohort studies, randomized trials and comparisons
of two means, and shows the result as a dot-matrix chart.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/samplesize/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the result cache")

	// Register all subcommands
	root.AddCommand(c.calcCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.designsCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if level, err := log.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
		c.SetLogLevel(level)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache backend.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	if ttl := c.Config.Cache.TTL.Duration; ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

// newCache opens the cache backend selected by the config. An unusable file
// cache directory degrades to no caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.Redis)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warnf("Cache disabled: %v", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warnf("Cache disabled: %v", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/samplesize/).
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
