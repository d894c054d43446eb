// Package cli implements the facezoom command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mbuehler/facezoom/pkg/buildinfo"
	"github.com/mbuehler/facezoom/pkg/cache"
	"github.com/mbuehler/facezoom/pkg/errors"
	"github.com/mbuehler/facezoom/pkg/face"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "facezoom"

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

	// configPath is the --config override; empty means the default location.
	configPath string
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
		Use:          "facezoom",
		Short:        "Facezoom uniformly rescales editor faces",
		Long: `Facezoom rescales every face (named style) in an editor session by a
fixed factor, so zooming keeps syntax highlighting and UI faces visually
consistent instead of only resizing the default face.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"config file (default $XDG_CONFIG_HOME/facezoom/config.toml)")

	// Register all subcommands
	root.AddCommand(c.growCommand())
	root.AddCommand(c.shrinkCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Registry Factory
// =============================================================================

// newRegistry opens the configured registry backend. The returned cleanup
// releases backend connections and is safe to call unconditionally.
func (c *CLI) newRegistry(ctx context.Context, cfg RegistryConfig) (face.Registry, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case "", BackendMemory:
		return demoRegistry(), noop, nil

	case BackendFile:
		path := cfg.Path
		if path == "" {
			dir, err := configDir()
			if err != nil {
				return nil, noop, err
			}
			path = filepath.Join(dir, "faces.json")
		}
		reg, err := face.NewFile(path)
		if err != nil {
			return nil, noop, errors.Wrap(errors.ErrCodeStore, err, "open faces file")
		}
		return reg, noop, nil

	case BackendRedis:
		reg, err := face.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, errors.Wrap(errors.ErrCodeStore, err, "open redis registry")
		}
		return reg, func() { _ = reg.Close() }, nil

	case BackendMongo:
		reg, err := face.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, noop, errors.Wrap(errors.ErrCodeStore, err, "open mongo registry")
		}
		return reg, func() { _ = reg.Close(context.Background()) }, nil
	}

	return nil, noop, errors.New(errors.ErrCodeInvalidBackend,
		"unknown registry backend %q (want memory, file, redis, or mongo)", cfg.Backend)
}

// demoRegistry returns a seeded in-memory registry resembling a typical
// editor session, so show/tui/graph work without an editor attached.
func demoRegistry() *face.Memory {
	h := func(v int) *int { return &v }
	return face.NewMemory(
		face.Face{Name: "default", Height: h(140)},
		face.Face{Name: "fixed-pitch", Inherit: "default"},
		face.Face{Name: "variable-pitch", Height: h(150)},
		face.Face{Name: "font-lock-comment-face", Inherit: "default"},
		face.Face{Name: "font-lock-string-face", Inherit: "default"},
		face.Face{Name: "font-lock-keyword-face", Inherit: "default"},
		face.Face{Name: "line-number", Height: h(110)},
		face.Face{Name: "minibuffer-prompt", Height: h(140)},
		face.Face{Name: "mode-line", Height: h(120)},
		face.Face{Name: "mode-line-inactive", Inherit: "mode-line"},
		face.Face{Name: "header-line", Inherit: "mode-line"},
		face.Face{Name: "tab-bar", Height: h(120)},
	)
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/facezoom/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/facezoom/).
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
