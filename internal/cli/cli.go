// Package cli implements the boardgen command-line interface.
//
// This package provides commands for generating artboard batches from
// preset files, previewing document layouts as SVG, inspecting preset
// sizes, and serving the generation API over HTTP. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/boardgen/boardgen/pkg/buildinfo"
)

// appName is the application name used for display and completions.
const appName = "boardgen"

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
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
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
		Short:        "Boardgen generates artboard batches from a master design",
		Long:         `Boardgen duplicates master artboards into a batch of requested output sizes, packing the results into rows, rescaling their contents, and adding bleed guides and crop marks for print sizes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.sizesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
