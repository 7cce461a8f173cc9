package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boardgen/boardgen/pkg/geom"
	"github.com/boardgen/boardgen/pkg/host/memory"
)

const testPreset = `
resolution = 300

[options]
gap = 100

[[sizes]]
name = "banner"
width = 3000
height = 1000

[[sizes]]
name = "print"
width = 1000
height = 400
requires_bleed = true
bleed = 0.125
bleed_unit = "inches"

[sources.landscape]
artboard = "Landscape Master"
`

func TestGenerateEndToEnd(t *testing.T) {
	dir := t.TempDir()

	docPath := filepath.Join(dir, "doc.json")
	doc := memory.New()
	doc.AddArtboard("Landscape Master", geom.NewBounds(0, 0, 1500, 500),
		memory.Layer{Name: "Background", Bounds: geom.NewBounds(0, 0, 1500, 500)},
	)
	if err := memory.SaveFile(doc, docPath); err != nil {
		t.Fatal(err)
	}

	presetPath := filepath.Join(dir, "preset.toml")
	if err := os.WriteFile(presetPath, []byte(testPreset), 0o644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "out.json")
	previewPath := filepath.Join(dir, "preview.svg")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{
		"generate", docPath,
		"--preset", presetPath,
		"--output", outPath,
		"--preview", previewPath,
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The input document is untouched; the output has the new artboards.
	updated, err := memory.LoadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	tops, err := updated.ListTopLevel(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]geom.Bounds, len(tops))
	for _, ref := range tops {
		names[ref.Name] = ref.Bounds
	}
	if b, ok := names["banner"]; !ok || b.Width() != 3000 || b.Height() != 1000 {
		t.Errorf("banner = %+v (found=%v)", b, ok)
	}
	if b, ok := names["print"]; !ok || b.Width() != 1075 || b.Height() != 475 {
		t.Errorf("print = %+v (found=%v), want bleed-expanded 1075x475", b, ok)
	}

	svg, err := os.ReadFile(previewPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(svg), "<svg") {
		t.Errorf("preview is not SVG: %.60s", svg)
	}
}

func TestGenerateMissingPreset(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.json")
	if err := memory.SaveFile(memory.New(), docPath); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"generate", docPath, "--preset", filepath.Join(dir, "missing.toml")})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for missing preset")
	}
}
