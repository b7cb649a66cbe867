// Package cli implements the rstfmt command-line interface.
//
// The main commands are:
//   - format: canonicalize reStructuredText files and Python docstrings
//   - serve: run the resident formatter daemon
//   - cache: manage the fingerprint cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rstfmt/rstfmt/pkg/buildinfo"
	"github.com/rstfmt/rstfmt/pkg/cache"
	"github.com/rstfmt/rstfmt/pkg/config"
	"github.com/rstfmt/rstfmt/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "rstfmt"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Fs     afero.Fs

	// Stdout is the destination for formatted text and reports.
	Stdout io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Fs:     afero.NewOsFs(),
		Stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "rstfmt canonicalizes reStructuredText documents",
		Long:         `rstfmt is a formatter for reStructuredText files and the docstrings inside Python source. It parses each document, rebuilds it in a single canonical form, and verifies the result is stable before writing anything back.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.formatCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newStore opens the fingerprint store for CLI use. Cache failures fall
// back to a null store; formatting must work without one.
func (c *CLI) newStore(noCache bool) cache.Store {
	if noCache {
		return cache.NewNullStore()
	}
	path, err := cachePath()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullStore()
	}
	store, err := cache.NewFileStore(c.Fs, path)
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullStore()
	}
	return store
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(store cache.Store, cfg config.Config) *pipeline.Runner {
	return pipeline.NewRunner(store, cfg, c.Logger)
}

// cachePath returns the fingerprint manifest path using the XDG
// standard (~/.cache/rstfmt/manifest.json).
func cachePath() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName, "manifest.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName, "manifest.json"), nil
}
