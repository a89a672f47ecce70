// Package cli implements the pomrewrite command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pomrewrite/pkg/buildinfo"
	"github.com/matzehuels/pomrewrite/pkg/cache"
	"github.com/matzehuels/pomrewrite/pkg/config"
	"github.com/matzehuels/pomrewrite/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pomrewrite"
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
		Short: "pomrewrite rewrites Maven POM files for distribution packaging",
		Long: `pomrewrite rewrites Maven POM descriptors with dependency rules so that a
Java library can be rebuilt and installed against the artifacts already
present in a local repository.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.SetCacheHooks(cacheLogHooks{logger: c.Logger})
			observability.SetScanHooks(scanLogHooks{logger: c.Logger})
			c.Logger.Debug("starting", "agent", buildinfo.UserAgent())
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (default: search for "+config.FileName+")")

	// Register all subcommands
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.repoCommand())
	root.AddCommand(c.rulesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the file named by --config, or the first one found.
// Without either the defaults apply.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		found, ok := config.Find()
		if !ok {
			c.cfg = config.Default()
			return nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.cfg = cfg
	return nil
}

// settings returns a copy of the active configuration that commands may
// override with their flags.
func (c *CLI) settings() config.Config {
	cfg := *c.cfg
	cfg.Rules.Rewrite = append([]string(nil), c.cfg.Rules.Rewrite...)
	cfg.Rules.Ignore = append([]string(nil), c.cfg.Rules.Ignore...)
	cfg.Rules.Published = append([]string(nil), c.cfg.Rules.Published...)
	cfg.Repository.Excludes = append([]string(nil), c.cfg.Repository.Excludes...)
	return cfg
}

// =============================================================================
// Cache
// =============================================================================

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

// cacheDir returns the cache directory using XDG standard (~/.cache/pomrewrite/).
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
