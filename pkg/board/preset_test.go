package board

import (
	"testing"

	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
)

const samplePreset = `
resolution = 300

[options]
gap = 120
max_row_width = 4000
scale_mode = "cover"

[options.crop_marks]
length = 20
weight = 1
offset = 8
color = "#222222"

[[sizes]]
name = "Leaderboard"
width = 728
height = 90
type = "display"

[[sizes]]
name = "Poster A4"
width = 2480
height = 3508
type = "print"
requires_bleed = true
bleed = 0.125
bleed_unit = "inches"

[sources.landscape]
artboard = "Landscape Master"

[sources.landscape.layers]
headline = "Headline"
logo = "Logo"

[sources.portrait]
artboard = "Portrait Master"
`

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset([]byte(samplePreset))
	if err != nil {
		t.Fatalf("ParsePreset() error = %v", err)
	}

	if p.Resolution != 300 {
		t.Errorf("Resolution = %g, want 300", p.Resolution)
	}
	if p.Options.Gap != 120 || p.Options.MaxRowWidth != 4000 {
		t.Errorf("Options = %+v", p.Options)
	}
	if p.Options.CropMarks.Color != "#222222" {
		t.Errorf("CropMarks.Color = %q", p.Options.CropMarks.Color)
	}

	if len(p.Sizes) != 2 {
		t.Fatalf("len(Sizes) = %d, want 2", len(p.Sizes))
	}
	poster := p.Sizes[1]
	if !poster.RequiresBleed || poster.Bleed != 0.125 || poster.BleedUnit != geom.UnitInches {
		t.Errorf("poster spec = %+v", poster)
	}

	cfg := p.SourceConfig()
	src, ok := cfg.Get(OrientationLandscape)
	if !ok || src.Artboard != "Landscape Master" {
		t.Errorf("landscape source = %+v ok=%v", src, ok)
	}
	if src.LayerRoles["headline"] != "Headline" {
		t.Errorf("layer roles = %v", src.LayerRoles)
	}
	if _, ok := cfg.Get(OrientationSquare); ok {
		t.Error("square source should be unconfigured")
	}
}

func TestParsePresetDefaults(t *testing.T) {
	minimal := `
[[sizes]]
name = "Square"
width = 1000
height = 1000
`
	p, err := ParsePreset([]byte(minimal))
	if err != nil {
		t.Fatalf("ParsePreset() error = %v", err)
	}
	if p.Resolution != geom.DefaultResolution {
		t.Errorf("Resolution = %g, want default %g", p.Resolution, geom.DefaultResolution)
	}
	if p.Options.CropMarks != DefaultMarkSettings {
		t.Errorf("CropMarks = %+v, want defaults", p.Options.CropMarks)
	}
}

func TestParsePresetErrors(t *testing.T) {
	tests := []struct {
		name     string
		toml     string
		wantCode errors.Code
	}{
		{
			name:     "no sizes",
			toml:     `resolution = 300`,
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name: "invalid size",
			toml: `
[[sizes]]
name = "Bad"
width = 0
height = 100
`,
			wantCode: errors.ErrCodeInvalidSize,
		},
		{
			name: "unknown scale mode",
			toml: `
[options]
scale_mode = "stretch"

[[sizes]]
name = "Ok"
width = 100
height = 100
`,
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "malformed toml",
			toml:     `sizes = [`,
			wantCode: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePreset([]byte(tt.toml))
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("ParsePreset() error = %v, want code %v", err, tt.wantCode)
			}
		})
	}
}
