// Package cli implements the graphweave command-line interface.
//
// This package provides commands for importing tabular data into graph
// documents, computing physics-based layouts, grouping nodes into meta-node
// hierarchies, exporting renderable artifacts, and serving the HTTP API.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - import: Convert a CSV file into a graph document
//   - layout: Compute a force-directed layout for a graph document
//   - group: Preview meta-node grouping without simulating
//   - export: Render a computed layout as DOT or SVG
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/pkg/buildinfo"
	"github.com/matzehuels/graphweave/pkg/cache"
	"github.com/matzehuels/graphweave/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "graphweave"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
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
		Use:          "graphweave",
		Short:        "Graphweave lays out attributed entity graphs",
		Long:         `Graphweave is a CLI tool for turning tabular data into force-directed graph layouts, with attribute-based grouping that collapses clusters into expandable meta-nodes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.importCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.groupCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
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

// cacheDir returns the cache directory using XDG standard (~/.cache/graphweave/).
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

// outputPath derives the output file name from the input when no explicit
// output was given.
func outputPath(input, explicit, suffix string) string {
	if explicit != "" {
		return explicit
	}
	base := input[:len(input)-len(filepath.Ext(input))]
	return base + suffix
}
