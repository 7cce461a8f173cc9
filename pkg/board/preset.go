package board

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
)

// Preset is the on-disk TOML configuration for a batch: the requested
// sizes, the source artboard for each orientation, and layout/crop-mark
// options.
//
// Example:
//
//	resolution = 300
//
//	[options]
//	gap = 100
//	max_row_width = 4000
//
//	[options.crop_marks]
//	length = 18
//	offset = 9
//
//	[[sizes]]
//	name = "Poster A4"
//	width = 2480
//	height = 3508
//	requires_bleed = true
//	bleed = 0.125
//	bleed_unit = "inches"
//
//	[sources.portrait]
//	artboard = "Portrait Master"
type Preset struct {
	Resolution float64                `toml:"resolution"`
	Options    PresetOptions          `toml:"options"`
	Sizes      []SizeSpec             `toml:"sizes"`
	Sources    map[Orientation]Source `toml:"sources"`
}

// PresetOptions holds the layout and finishing options of a preset.
type PresetOptions struct {
	Gap         float64      `toml:"gap"`
	MaxRowWidth float64      `toml:"max_row_width"`
	ScaleMode   string       `toml:"scale_mode"`
	CropMarks   MarkSettings `toml:"crop_marks"`
}

// LoadPreset reads and validates a preset TOML file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read preset %s", path)
	}
	return ParsePreset(data)
}

// ParsePreset parses and validates preset TOML data.
func ParsePreset(data []byte) (*Preset, error) {
	var p Preset
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse preset")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the preset's invariants and fills zero-value options
// with defaults.
func (p *Preset) Validate() error {
	if len(p.Sizes) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "preset declares no sizes")
	}
	for _, s := range p.Sizes {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	switch geom.ScaleMode(p.Options.ScaleMode) {
	case "", geom.ScaleCover, geom.ScaleContain, geom.ScaleRelative:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown scale mode %q", p.Options.ScaleMode)
	}
	if p.Resolution == 0 {
		p.Resolution = geom.DefaultResolution
	}
	if p.Options.CropMarks == (MarkSettings{}) {
		p.Options.CropMarks = DefaultMarkSettings
	}
	if p.Sources == nil {
		p.Sources = SourceConfig{}
	}
	return nil
}

// SourceConfig returns the preset's source mapping.
func (p *Preset) SourceConfig() SourceConfig {
	return SourceConfig(p.Sources)
}
