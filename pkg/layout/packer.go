// Package layout assigns non-overlapping document positions to newly
// generated artboards.
//
// The packer works in a single forward pass with no backtracking: each
// request is placed immediately, in order, using row-based packing with
// dynamic row breaks. It never needs to know future placements, which
// matches how a batch run interleaves placement with host-side artboard
// creation.
package layout

import "github.com/boardgen/boardgen/pkg/geom"

// Default packing options used when the caller passes zero values.
const (
	DefaultGap         = 100.0
	DefaultMaxRowWidth = 4000.0

	// DefaultRowHeightDivergence is the row-break heuristic threshold:
	// a new row starts when an item's height differs from the row's
	// tallest item by more than this fraction of their average. The
	// value is a tunable, not a proven optimum.
	DefaultRowHeightDivergence = 0.5
)

// PlacedArtboard records one placement for overlap checks. Created when a
// canvas is placed, never mutated, alive for one batch run.
type PlacedArtboard struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the placement as a rectangle.
func (p PlacedArtboard) Bounds() geom.Bounds {
	return geom.NewBounds(p.X, p.Y, p.Width, p.Height)
}

// Packer assigns positions left to right, top to bottom, starting from a
// caller-supplied anchor point. Not safe for concurrent use; a batch run
// owns one Packer.
type Packer struct {
	// HeightDivergence overrides the row-break height heuristic when
	// non-zero. See DefaultRowHeightDivergence.
	HeightDivergence float64

	startX      float64
	gap         float64
	maxRowWidth float64

	placed          []PlacedArtboard
	currentX        float64
	currentRowY     float64
	rowMaxHeight    float64
	globalMaxBottom float64
}

// NewPacker creates a packer anchored at (startX, startY). gap and
// maxRowWidth are used as given; callers wanting defaults apply
// DefaultGap and DefaultMaxRowWidth themselves (the pipeline's option
// validation does this).
func NewPacker(startX, startY, gap, maxRowWidth float64) *Packer {
	return &Packer{
		startX:          startX,
		gap:             gap,
		maxRowWidth:     maxRowWidth,
		currentX:        startX,
		currentRowY:     startY,
		globalMaxBottom: startY,
	}
}

// Placed returns the placements registered so far. The returned slice is
// the packer's own; callers must not mutate it.
func (p *Packer) Placed() []PlacedArtboard { return p.placed }

// NextPosition computes the position for the next artboard of the given
// dimensions. The caller must confirm the placement with Register once the
// artboard actually occupies the space; until then subsequent calls would
// hand out the same candidate.
func (p *Packer) NextPosition(width, height float64) geom.Point {
	if p.rowHasContent() && p.breakForWidth(width) {
		p.startNewRow()
	} else if p.rowHasContent() && p.breakForHeight(height) {
		p.startNewRow()
	}

	candidate := geom.NewBounds(p.currentX, p.currentRowY, width, height)

	// A forced new row cannot overlap: rows start below every placed
	// bottom edge.
	if p.overlapsAny(candidate) {
		p.startNewRow()
		candidate = geom.NewBounds(p.currentX, p.currentRowY, width, height)
	}

	return geom.Point{X: candidate.Left, Y: candidate.Top}
}

// Register records an artboard as placed and advances the cursor past it.
func (p *Packer) Register(a PlacedArtboard) {
	p.placed = append(p.placed, a)
	p.currentX = a.X + a.Width + p.gap
	if a.Height > p.rowMaxHeight {
		p.rowMaxHeight = a.Height
	}
	if bottom := a.Y + a.Height; bottom > p.globalMaxBottom {
		p.globalMaxBottom = bottom
	}
}

// Place combines NextPosition and Register for callers that occupy the
// space immediately.
func (p *Packer) Place(width, height float64) PlacedArtboard {
	pos := p.NextPosition(width, height)
	a := PlacedArtboard{X: pos.X, Y: pos.Y, Width: width, Height: height}
	p.Register(a)
	return a
}

func (p *Packer) rowHasContent() bool { return p.currentX > p.startX }

func (p *Packer) breakForWidth(width float64) bool {
	return p.currentX+width > p.startX+p.maxRowWidth
}

// breakForHeight guards against visually mismatched rows: an item whose
// height diverges from the row's tallest by more than the threshold
// fraction of their average starts a new row.
func (p *Packer) breakForHeight(height float64) bool {
	if p.rowMaxHeight == 0 {
		return false
	}
	diff := height - p.rowMaxHeight
	if diff < 0 {
		diff = -diff
	}
	avg := (height + p.rowMaxHeight) / 2
	threshold := p.HeightDivergence
	if threshold == 0 {
		threshold = DefaultRowHeightDivergence
	}
	return diff > threshold*avg
}

func (p *Packer) startNewRow() {
	p.currentRowY = p.globalMaxBottom + p.gap
	p.currentX = p.startX
	p.rowMaxHeight = 0
}

func (p *Packer) overlapsAny(candidate geom.Bounds) bool {
	for _, a := range p.placed {
		if candidate.Intersects(a.Bounds()) {
			return true
		}
	}
	return false
}
