package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/boardgen/boardgen/pkg/board"
)

// sizesCommand creates the sizes command for inspecting a preset.
func (c *CLI) sizesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sizes [preset.toml]",
		Short: "List the sizes a preset will generate",
		Long: `List the sizes a preset will generate.

For every size the table shows its orientation bucket, the final
dimensions after bleed expansion, and the source artboard that will be
duplicated for it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := board.LoadPreset(args[0])
			if err != nil {
				return fmt.Errorf("load preset %s: %w", args[0], err)
			}
			printPresetSizes(preset)
			return nil
		},
	}
	return cmd
}

func printPresetSizes(preset *board.Preset) {
	fmt.Println(StyleTitle.Render("Preset sizes"))
	printKeyValue("resolution", fmt.Sprintf("%g ppi", preset.Resolution))
	if preset.Options.Gap > 0 {
		printKeyValue("gap", fmt.Sprintf("%g px", preset.Options.Gap))
	}
	if preset.Options.MaxRowWidth > 0 {
		printKeyValue("row width", fmt.Sprintf("%g px", preset.Options.MaxRowWidth))
	}
	printNewline()

	sources := preset.SourceConfig()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return StyleHighlight.Bold(true).Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		Headers("NAME", "SIZE", "ORIENTATION", "FINAL", "BLEED", "SOURCE")

	for _, s := range preset.Sizes {
		target := board.WithBleed(s, preset.Resolution)
		bleed := "-"
		if target.BleedPx > 0 {
			bleed = fmt.Sprintf("%g px", target.BleedPx)
		}
		sourceName := StyleWarning.Render("(none)")
		if src, ok := sources.Get(s.Orientation()); ok {
			sourceName = src.Artboard
		}
		t.Row(
			s.Name,
			fmt.Sprintf("%gx%g", s.Width, s.Height),
			string(s.Orientation()),
			fmt.Sprintf("%gx%g", target.Width, target.Height),
			bleed,
			sourceName,
		)
	}
	fmt.Println(t)

	if missing := sources.MissingOrientations(preset.Sizes); len(missing) > 0 {
		printNewline()
		printWarning("no source configured for %v", missing)
	}
}
