// Package geom provides the 2D primitives and scale math used by the
// artboard generation engine: unit conversion, scale-factor computation
// for the cover/contain/relative fit modes, anchor-based positioning, and
// proportional-offset translation.
//
// All values are float64 user units (pixels at the document's working
// resolution). Nothing in this package rounds; callers round only at the
// host-command boundary.
package geom

import "math"

// DefaultResolution is the pixels-per-inch used when a caller passes a
// zero resolution to UnitsToPixels.
const DefaultResolution = 300.0

// Unit is a physical measurement unit convertible to pixels.
type Unit string

// Supported measurement units.
const (
	UnitInches      Unit = "inches"
	UnitMillimeters Unit = "millimeters"
	UnitPixels      Unit = "pixels"
)

// mmPerInch converts millimeters to inches.
const mmPerInch = 25.4

// UnitsToPixels converts value from unit to pixels at the given resolution
// (pixels per inch). A resolution of 0 means DefaultResolution. Unknown
// units are treated as pixels.
func UnitsToPixels(value float64, unit Unit, resolution float64) float64 {
	if resolution == 0 {
		resolution = DefaultResolution
	}
	switch unit {
	case UnitInches:
		return value * resolution
	case UnitMillimeters:
		return (value / mmPerInch) * resolution
	default:
		return value
	}
}

// Point represents a 2D point or translation vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the component-wise difference of p and q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Size represents a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Diagonal returns the length of the size's diagonal.
func (s Size) Diagonal() float64 { return math.Hypot(s.W, s.H) }

// AspectRatio returns width divided by height.
func (s Size) AspectRatio() float64 { return s.W / s.H }

// Bounds is an axis-aligned rectangle. Right = Left + Width and
// Bottom = Top + Height always hold; Top is the smaller Y value
// (screen coordinates, Y grows downward).
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewBounds constructs a Bounds from an origin and a size.
func NewBounds(left, top, width, height float64) Bounds {
	return Bounds{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the horizontal span of the bounds.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the bounds.
func (b Bounds) Height() float64 { return b.Bottom - b.Top }

// Size returns the bounds' dimensions.
func (b Bounds) Size() Size { return Size{W: b.Width(), H: b.Height()} }

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Point {
	return Point{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

// Inset returns b shrunk by d on all four sides.
func (b Bounds) Inset(d float64) Bounds {
	return Bounds{Left: b.Left + d, Top: b.Top + d, Right: b.Right - d, Bottom: b.Bottom - d}
}

// Translate returns b moved by the vector v.
func (b Bounds) Translate(v Point) Bounds {
	return Bounds{Left: b.Left + v.X, Top: b.Top + v.Y, Right: b.Right + v.X, Bottom: b.Bottom + v.Y}
}

// Intersects reports whether b and o overlap. The test is open-interval:
// rectangles that merely share an edge do not intersect.
func (b Bounds) Intersects(o Bounds) bool {
	return b.Left < o.Right && o.Left < b.Right && b.Top < o.Bottom && o.Top < b.Bottom
}

// ScaleMode is a policy for fitting source content into a differently
// sized target.
type ScaleMode string

// Supported scale modes.
const (
	// ScaleCover guarantees the scaled source fully covers the target;
	// it may overflow on one axis.
	ScaleCover ScaleMode = "cover"

	// ScaleContain guarantees the scaled source fits entirely inside the
	// target; it may leave margin.
	ScaleContain ScaleMode = "contain"

	// ScaleRelative scales by the ratio of the diagonals, preserving
	// apparent size regardless of aspect-ratio change. Used for elements
	// whose on-canvas scale should track overall canvas size rather than
	// fill behavior.
	ScaleRelative ScaleMode = "relative"
)

// ScaleFactor computes the multiplicative factor that maps source onto
// target under the given mode. 1.0 means unchanged; percentage is
// factor * 100.
func ScaleFactor(source, target Size, mode ScaleMode) float64 {
	switch mode {
	case ScaleContain:
		return math.Min(target.W/source.W, target.H/source.H)
	case ScaleRelative:
		return target.Diagonal() / source.Diagonal()
	default: // cover
		return math.Max(target.W/source.W, target.H/source.H)
	}
}

// Anchor names the edge or corner an element is pinned to.
type Anchor string

// Supported anchors. AnchorCenter is the default when unspecified.
const (
	AnchorCenter      Anchor = "center"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// Anchors lists all supported anchors in a stable order.
var Anchors = []Anchor{AnchorCenter, AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight}

// AnchorPosition returns the top-left position for a layer of layerSize
// inside targetSize. For AnchorCenter the layer is centered. For the four
// corner anchors, rel is the proportional offset (fraction of the source
// artboard, 0..1 per axis) captured when the layer was authored; it is
// scaled into the target's coordinate space so corner-pinned elements keep
// their proportional distance from each edge after resize. A nil rel means
// the corner itself.
func AnchorPosition(anchor Anchor, layerSize, targetSize Size, rel *Point) Point {
	var rx, ry float64
	if rel != nil {
		rx, ry = rel.X, rel.Y
	}
	switch anchor {
	case AnchorTopLeft:
		return Point{X: rx * targetSize.W, Y: ry * targetSize.H}
	case AnchorTopRight:
		return Point{X: targetSize.W - rx*targetSize.W - layerSize.W, Y: ry * targetSize.H}
	case AnchorBottomLeft:
		return Point{X: rx * targetSize.W, Y: targetSize.H - ry*targetSize.H - layerSize.H}
	case AnchorBottomRight:
		return Point{
			X: targetSize.W - rx*targetSize.W - layerSize.W,
			Y: targetSize.H - ry*targetSize.H - layerSize.H,
		}
	default:
		return Point{X: (targetSize.W - layerSize.W) / 2, Y: (targetSize.H - layerSize.H) / 2}
	}
}

// ProportionalOffset computes how far a layer's center must move, after
// scaling by factor, so that it keeps the same proportional offset from
// the target canvas's center that it had from the source canvas's center.
// The result is a translation vector, not an absolute position: scaling an
// element in place does not relocate it, so the caller applies this delta
// after the scale step.
func ProportionalOffset(layer, source, target Bounds, factor float64) Point {
	srcCenter := source.Center()
	dstCenter := target.Center()
	layerCenter := layer.Center()

	// Offset from the source center as a fraction of the source extent.
	fx := (layerCenter.X - srcCenter.X) / source.Width()
	fy := (layerCenter.Y - srcCenter.Y) / source.Height()

	// Where the (already scaled, not yet moved) layer center sits now.
	scaledCenter := Point{
		X: srcCenter.X + (layerCenter.X-srcCenter.X)*factor,
		Y: srcCenter.Y + (layerCenter.Y-srcCenter.Y)*factor,
	}

	want := Point{
		X: dstCenter.X + fx*target.Width(),
		Y: dstCenter.Y + fy*target.Height(),
	}
	return want.Sub(scaledCenter)
}
