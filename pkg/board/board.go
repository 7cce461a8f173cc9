// Package board defines the artboard generation data model: requested
// size specifications, orientation classification, source configuration,
// bleed expansion, and crop mark geometry.
//
// Everything in this package is pure data and math. Talking to a live
// document is the host package's job; orchestrating a batch is the
// pipeline package's job.
package board

import (
	"fmt"

	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
)

// Orientation classifies a size by aspect ratio.
type Orientation string

// Orientation buckets.
const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
	OrientationSquare    Orientation = "square"
)

// Aspect-ratio thresholds for orientation classification. Every component
// that needs to classify a size uses these two constants; a size must map
// to exactly one bucket everywhere it is evaluated in a single run.
const (
	PortraitMaxRatio  = 0.85
	LandscapeMinRatio = 1.15
)

// Orientations lists all buckets in a stable order.
var Orientations = []Orientation{OrientationLandscape, OrientationPortrait, OrientationSquare}

// ResolveOrientation maps a width/height pair to its orientation bucket.
func ResolveOrientation(width, height float64) Orientation {
	ratio := width / height
	switch {
	case ratio < PortraitMaxRatio:
		return OrientationPortrait
	case ratio > LandscapeMinRatio:
		return OrientationLandscape
	default:
		return OrientationSquare
	}
}

// SizeSpec describes one requested output size. All fields are immutable
// inputs. Width and Height are pixels at the document's working
// resolution; Bleed is expressed in BleedUnit.
type SizeSpec struct {
	Width         float64   `json:"width" toml:"width"`
	Height        float64   `json:"height" toml:"height"`
	Name          string    `json:"name" toml:"name"`
	Type          string    `json:"type,omitempty" toml:"type,omitempty"`
	RequiresBleed bool      `json:"requires_bleed,omitempty" toml:"requires_bleed,omitempty"`
	Bleed         float64   `json:"bleed,omitempty" toml:"bleed,omitempty"`
	BleedUnit     geom.Unit `json:"bleed_unit,omitempty" toml:"bleed_unit,omitempty"`
}

// Validate checks the SizeSpec invariants.
func (s SizeSpec) Validate() error {
	if s.Name == "" {
		return errors.New(errors.ErrCodeInvalidSize, "size name is required")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidSize,
			"size %q: dimensions must be positive, got %gx%g", s.Name, s.Width, s.Height)
	}
	if s.Bleed < 0 {
		return errors.New(errors.ErrCodeInvalidSize, "size %q: bleed must not be negative", s.Name)
	}
	switch s.BleedUnit {
	case "", geom.UnitInches, geom.UnitMillimeters, geom.UnitPixels:
	default:
		return errors.New(errors.ErrCodeInvalidUnit, "size %q: unknown bleed unit %q", s.Name, s.BleedUnit)
	}
	return nil
}

// Orientation returns the orientation bucket for this size.
func (s SizeSpec) Orientation() Orientation {
	return ResolveOrientation(s.Width, s.Height)
}

// Size returns the requested dimensions without bleed.
func (s SizeSpec) Size() geom.Size {
	return geom.Size{W: s.Width, H: s.Height}
}

// Source assigns a live-document artboard to an orientation bucket. The
// artboard reference identifies a pre-existing canvas owned by the host;
// the engine only ever references it, never copies it.
type Source struct {
	Artboard   string            `json:"artboard" toml:"artboard"`
	LayerRoles map[string]string `json:"layers,omitempty" toml:"layers,omitempty"`
}

// PinnedLayers returns the layer roles whose key names a known anchor,
// keyed by that anchor. Pinned layers are repositioned after the content
// transform so they keep their anchored position instead of the
// group-centered one. Role keys that are not anchors carry no layout
// meaning and are ignored here.
func (s Source) PinnedLayers() map[geom.Anchor]string {
	var pins map[geom.Anchor]string
	for role, layer := range s.LayerRoles {
		if layer == "" {
			continue
		}
		for _, a := range geom.Anchors {
			if geom.Anchor(role) == a {
				if pins == nil {
					pins = make(map[geom.Anchor]string)
				}
				pins[a] = layer
				break
			}
		}
	}
	return pins
}

// SourceConfig maps orientation buckets to their source artboards.
type SourceConfig map[Orientation]Source

// Get returns the source for an orientation and whether it is configured
// with a non-empty artboard reference.
func (c SourceConfig) Get(o Orientation) (Source, bool) {
	s, ok := c[o]
	return s, ok && s.Artboard != ""
}

// CanGenerate reports whether a size has a configured source for its
// orientation bucket.
func (c SourceConfig) CanGenerate(s SizeSpec) bool {
	_, ok := c.Get(s.Orientation())
	return ok
}

// MissingOrientations returns the orientation buckets that are needed by
// the given sizes but have no configured source, in stable bucket order.
func (c SourceConfig) MissingOrientations(sizes []SizeSpec) []Orientation {
	needed := make(map[Orientation]bool, len(Orientations))
	for _, s := range sizes {
		needed[s.Orientation()] = true
	}
	var missing []Orientation
	for _, o := range Orientations {
		if _, ok := c.Get(o); needed[o] && !ok {
			missing = append(missing, o)
		}
	}
	return missing
}

// GenerationResult records one successfully created artboard.
type GenerationResult struct {
	Name           string     `json:"name"`
	Width          float64    `json:"width"`
	Height         float64    `json:"height"`
	OriginalWidth  float64    `json:"original_width"`
	OriginalHeight float64    `json:"original_height"`
	BleedPx        float64    `json:"bleed_px,omitempty"`
	RequiresBleed  bool       `json:"requires_bleed,omitempty"`
	Position       geom.Point `json:"position"`
}

// String implements fmt.Stringer for log output.
func (r GenerationResult) String() string {
	return fmt.Sprintf("%s (%gx%g at %g,%g)", r.Name, r.Width, r.Height, r.Position.X, r.Position.Y)
}
