package board

import "github.com/boardgen/boardgen/pkg/geom"

// TargetSize is a requested size after bleed expansion. Width and Height
// are the final artboard dimensions; BleedPx is the per-side margin that
// was added (0 when the size needs no bleed).
type TargetSize struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	BleedPx float64 `json:"bleed_px"`
}

// Size returns the bleed-adjusted dimensions.
func (t TargetSize) Size() geom.Size { return geom.Size{W: t.Width, H: t.Height} }

// WithBleed expands a size spec by its bleed margin at the given document
// resolution. Bleed is applied symmetrically on all four sides, so each
// dimension grows by twice the pixel bleed. Specs without bleed pass
// through unchanged with BleedPx 0.
func WithBleed(s SizeSpec, resolution float64) TargetSize {
	if !s.RequiresBleed || s.Bleed <= 0 {
		return TargetSize{Width: s.Width, Height: s.Height}
	}
	bleedPx := geom.UnitsToPixels(s.Bleed, s.BleedUnit, resolution)
	return TargetSize{
		Width:   s.Width + 2*bleedPx,
		Height:  s.Height + 2*bleedPx,
		BleedPx: bleedPx,
	}
}

// TrimBounds insets each side of an artboard's bounds by bleedPx,
// producing the boundary where final visible content is trimmed.
func TrimBounds(artboard geom.Bounds, bleedPx float64) geom.Bounds {
	return artboard.Inset(bleedPx)
}

// MarkSettings controls crop mark geometry and appearance.
type MarkSettings struct {
	Length float64 `json:"length" toml:"length"` // how far each mark extends outward
	Weight float64 `json:"weight" toml:"weight"` // stroke thickness
	Offset float64 `json:"offset" toml:"offset"` // mandatory gap between trim edge and mark
	Color  string  `json:"color" toml:"color"`
}

// DefaultMarkSettings are the crop mark defaults used when a preset does
// not override them.
var DefaultMarkSettings = MarkSettings{
	Length: 18,
	Weight: 1,
	Offset: 9,
	Color:  "#000000",
}

// Mark is one crop mark segment, expressed as a thin filled rectangle so
// hosts can draw it with a plain rectangle primitive.
type Mark struct {
	Bounds geom.Bounds `json:"bounds"`
	Color  string      `json:"color"`
}

// CropMarks produces the eight crop mark segments for a trim boundary:
// two per corner, one horizontal and one vertical. Each mark starts Offset
// outside the trim edge and extends Length further outward. Marks never
// touch the trim boundary; print shops rely on the Offset gap.
func CropMarks(trim geom.Bounds, s MarkSettings) []Mark {
	half := s.Weight / 2

	// Horizontal segments sit on the trim's top/bottom edge lines and
	// extend outward past the left/right edges; vertical segments sit on
	// the left/right edge lines and extend outward past the top/bottom.
	horizontal := func(edgeY, outerX float64, leftward bool) geom.Bounds {
		if leftward {
			return geom.Bounds{
				Left:   outerX - s.Offset - s.Length,
				Top:    edgeY - half,
				Right:  outerX - s.Offset,
				Bottom: edgeY + half,
			}
		}
		return geom.Bounds{
			Left:   outerX + s.Offset,
			Top:    edgeY - half,
			Right:  outerX + s.Offset + s.Length,
			Bottom: edgeY + half,
		}
	}
	vertical := func(edgeX, outerY float64, upward bool) geom.Bounds {
		if upward {
			return geom.Bounds{
				Left:   edgeX - half,
				Top:    outerY - s.Offset - s.Length,
				Right:  edgeX + half,
				Bottom: outerY - s.Offset,
			}
		}
		return geom.Bounds{
			Left:   edgeX - half,
			Top:    outerY + s.Offset,
			Right:  edgeX + half,
			Bottom: outerY + s.Offset + s.Length,
		}
	}

	return []Mark{
		// top-left corner
		{Bounds: horizontal(trim.Top, trim.Left, true), Color: s.Color},
		{Bounds: vertical(trim.Left, trim.Top, true), Color: s.Color},
		// top-right corner
		{Bounds: horizontal(trim.Top, trim.Right, false), Color: s.Color},
		{Bounds: vertical(trim.Right, trim.Top, true), Color: s.Color},
		// bottom-left corner
		{Bounds: horizontal(trim.Bottom, trim.Left, true), Color: s.Color},
		{Bounds: vertical(trim.Left, trim.Bottom, false), Color: s.Color},
		// bottom-right corner
		{Bounds: horizontal(trim.Bottom, trim.Right, false), Color: s.Color},
		{Bounds: vertical(trim.Right, trim.Bottom, false), Color: s.Color},
	}
}
