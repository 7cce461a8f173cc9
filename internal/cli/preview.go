package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boardgen/boardgen/pkg/host/memory"
	"github.com/boardgen/boardgen/pkg/render"
)

// previewCommand creates the preview command for rendering a document to SVG.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output   string
		noGuides bool
		layers   bool
		noLabels bool
		padding  float64
	)

	cmd := &cobra.Command{
		Use:   "preview [document.json]",
		Short: "Render a document layout as SVG",
		Long: `Render a document layout as SVG.

The preview command draws every artboard in its document position, with
bleed guides and crop marks, so a generated batch can be inspected
without opening the host application.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			doc, err := memory.LoadFile(input)
			if err != nil {
				return fmt.Errorf("load document %s: %w", input, err)
			}

			var opts []render.SVGOption
			if !noGuides {
				opts = append(opts, render.WithGuides())
			}
			if layers {
				opts = append(opts, render.WithLayers())
			}
			if noLabels {
				opts = append(opts, render.WithoutLabels())
			}
			if cmd.Flags().Changed("padding") {
				opts = append(opts, render.WithPadding(padding))
			}

			spinner := newSpinnerWithContext(cmd.Context(), "Rendering preview...")
			spinner.Start()
			svg := render.RenderSVG(doc.Export(), opts...)
			spinner.Stop()

			outputPath := output
			if outputPath == "" {
				outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
			}
			if err := os.WriteFile(outputPath, svg, 0o644); err != nil {
				return fmt.Errorf("write preview %s: %w", outputPath, err)
			}

			printSuccess("Preview rendered")
			printFile(outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG file (default: <input>.svg)")
	cmd.Flags().BoolVar(&noGuides, "no-guides", false, "hide bleed guides")
	cmd.Flags().BoolVar(&layers, "layers", false, "draw content layers inside artboards")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "hide artboard name labels")
	cmd.Flags().Float64Var(&padding, "padding", 120, "whitespace around the drawing in pixels")

	return cmd
}
