package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/boardgen/boardgen/pkg/board"
	"github.com/boardgen/boardgen/pkg/geom"
	"github.com/boardgen/boardgen/pkg/host/memory"
	"github.com/boardgen/boardgen/pkg/pipeline"
	"github.com/boardgen/boardgen/pkg/render"
)

// generateFlags holds the generate command's flag values.
type generateFlags struct {
	preset      string
	output      string
	preview     string
	tui         bool
	gap         float64
	maxRowWidth float64
	resolution  float64
	scaleMode   string
}

// generateCommand creates the generate command for running a batch.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate [document.json]",
		Short: "Generate a batch of artboards from a preset",
		Long: `Generate a batch of artboards from a preset.

The generate command opens a document file, duplicates the preset's
source artboards into every requested size, packs the results into rows
to the right of the sources, rescales their contents, and adds bleed
guides and crop marks to print sizes. The updated document is written
back when the batch finishes.

A size that exactly matches its source's dimensions is skipped once per
orientation; failures are isolated per size and reported at the end.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.preset, "preset", "p", "", "preset TOML file with sizes and sources (required)")
	_ = cmd.MarkFlagRequired("preset")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output document file (default: update input in place)")
	cmd.Flags().StringVar(&flags.preview, "preview", "", "also write an SVG preview of the result")
	cmd.Flags().BoolVar(&flags.tui, "tui", false, "show interactive batch progress")

	// Layout overrides; unset flags keep the preset's values.
	cmd.Flags().Float64Var(&flags.gap, "gap", pipeline.DefaultGap, "spacing between generated artboards in pixels")
	cmd.Flags().Float64Var(&flags.maxRowWidth, "max-row-width", pipeline.DefaultMaxRowWidth, "maximum packing row width in pixels")
	cmd.Flags().Float64Var(&flags.resolution, "resolution", geom.DefaultResolution, "document resolution in pixels per inch")
	cmd.Flags().StringVar(&flags.scaleMode, "scale-mode", string(pipeline.DefaultScaleMode), "content scale mode: cover, contain, relative")

	return cmd
}

// runGenerate loads the document and preset, executes the batch, and
// writes the updated document back.
func (c *CLI) runGenerate(cmd *cobra.Command, input string, flags generateFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	doc, err := memory.LoadFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	preset, err := board.LoadPreset(flags.preset)
	if err != nil {
		return fmt.Errorf("load preset %s: %w", flags.preset, err)
	}

	opts := pipeline.FromPreset(preset)
	opts.Logger = logger
	if cmd.Flags().Changed("gap") {
		opts.Gap = flags.gap
	}
	if cmd.Flags().Changed("max-row-width") {
		opts.MaxRowWidth = flags.maxRowWidth
	}
	if cmd.Flags().Changed("resolution") {
		opts.Resolution = flags.resolution
	}
	if cmd.Flags().Changed("scale-mode") {
		opts.ScaleMode = geom.ScaleMode(flags.scaleMode)
	}

	runner := pipeline.NewRunner(doc, logger)

	var result *pipeline.Result
	if flags.tui {
		result, err = runBatchTUI(ctx, runner, opts)
	} else {
		result, err = runBatchPlain(ctx, logger, runner, opts)
	}
	if err != nil {
		return err
	}

	printBatchOutcome(result)

	outputPath := flags.output
	if outputPath == "" {
		outputPath = input
	}
	if err := memory.SaveFile(doc, outputPath); err != nil {
		return fmt.Errorf("write document %s: %w", outputPath, err)
	}
	printFile(outputPath)

	if flags.preview != "" {
		svg := render.RenderSVG(doc.Export(), render.WithGuides())
		if err := os.WriteFile(flags.preview, svg, 0o644); err != nil {
			return fmt.Errorf("write preview %s: %w", flags.preview, err)
		}
		printFile(flags.preview)
	}

	printNewline()
	printNextStep("Preview", appName+" preview "+outputPath)
	return nil
}

// runBatchPlain executes the batch with log-line progress.
func runBatchPlain(ctx context.Context, logger *log.Logger, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	track := newProgress(logger)
	opts.OnProgress = func(index, total int, name string) {
		printDetail("[%d/%d] %s", index, total, name)
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	track.done(fmt.Sprintf("Generated %d artboards", len(result.Created)))
	return result, nil
}

// printBatchOutcome renders the created/skipped/failed summary.
func printBatchOutcome(result *pipeline.Result) {
	switch {
	case len(result.Failed) == 0:
		printSuccess("Batch complete")
	case len(result.Created) > 0:
		printWarning("Batch finished with failures")
	default:
		printError("Batch failed")
	}

	for _, e := range result.Skipped {
		printDetail("skipped %s: %s", e.Name, e.Reason)
	}
	for _, e := range result.Failed {
		printDetail("failed %s (%s): %s", e.Name, e.Phase, e.Reason)
	}
	printBatchStats(len(result.Created), len(result.Skipped), len(result.Failed),
		time.Duration(result.Stats.DurationMS)*time.Millisecond)
}
