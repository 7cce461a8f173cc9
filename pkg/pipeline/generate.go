package pipeline

import (
	"context"
	"regexp"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boardgen/boardgen/pkg/board"
	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
	"github.com/boardgen/boardgen/pkg/host"
	"github.com/boardgen/boardgen/pkg/observability"
)

// generator runs the four-phase pipeline for a single size. It holds no
// per-size state; the Runner reuses one instance across the batch.
type generator struct {
	doc    host.Document
	opts   *Options
	logger *log.Logger
}

// phaseError tags a host failure with the pipeline phase it happened in.
type phaseError struct {
	phase string
	err   error
}

func (e *phaseError) Error() string { return e.err.Error() }
func (e *phaseError) Unwrap() error { return e.err }

// PhaseOf returns the pipeline phase a generation error happened in, or
// "" when the error carries no phase.
func PhaseOf(err error) string {
	for err != nil {
		if pe, ok := err.(*phaseError); ok {
			return pe.phase
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// call times one host operation, reports it to the host hooks, and wraps
// a failure with the phase and operation name.
func (g *generator) call(ctx context.Context, phase, op string, fn func() error) error {
	start := time.Now()
	err := fn()
	observability.Host().OnHostCall(ctx, op, phase, time.Since(start), err)
	if err != nil {
		return &phaseError{
			phase: phase,
			err:   errors.Wrap(errors.ErrCodeHostOperation, err, "%s: %s failed", phase, op),
		}
	}
	return nil
}

// generate creates one artboard at pos. The phases run strictly in order;
// every host call is awaited before the next command is issued, and the
// first failure aborts the remaining phases for this size.
//
// placed reports whether the duplicate occupied canvas space before the
// error, so the coordinator can register the footprint even for a size
// that failed mid-pipeline.
func (g *generator) generate(ctx context.Context, spec board.SizeSpec, source host.CanvasRef, target board.TargetSize, pos geom.Point) (res board.GenerationResult, placed bool, err error) {
	final := geom.NewBounds(pos.X, pos.Y, target.Width, target.Height)

	// Phase 1: snapshot the source contents needed for pinning, then
	// duplicate the source and re-resolve the copy. The host reports the
	// duplicate (or something inside it) as the active selection; the
	// source ref never points at the copy.
	pins := g.opts.Sources[spec.Orientation()].PinnedLayers()
	var sourceLayers []host.CanvasRef
	if len(pins) > 0 {
		if err := g.call(ctx, PhaseResolve, "list source contents", func() error {
			var err error
			sourceLayers, err = g.doc.Children(ctx, source)
			return err
		}); err != nil {
			return res, false, err
		}
	}
	if err := g.call(ctx, PhaseResolve, "duplicate", func() error {
		return g.doc.Duplicate(ctx, source)
	}); err != nil {
		return res, false, err
	}
	var dup host.CanvasRef
	if err := g.call(ctx, PhaseResolve, "resolve duplicate", func() error {
		sel, err := g.doc.ActiveSelection(ctx)
		if err != nil {
			return err
		}
		if len(sel) == 0 {
			return errors.New(errors.ErrCodeHostOperation, "duplicate reported no selection")
		}
		dup, err = host.TopLevelAncestor(ctx, g.doc, sel[0])
		return err
	}); err != nil {
		return res, false, err
	}

	// Phase 2: move the duplicate into its packed slot and give it the
	// requested name. Once the resize lands the footprint is occupied.
	if err := g.call(ctx, PhaseResize, "resize", func() error {
		return g.doc.Resize(ctx, dup, final)
	}); err != nil {
		return res, false, err
	}
	placed = true
	if err := g.call(ctx, PhaseResize, "rename", func() error {
		return g.doc.Rename(ctx, dup, spec.Name)
	}); err != nil {
		return res, placed, err
	}

	// Phase 3: fit the contents. The resize left them at their source
	// positions, so recenter, scale uniformly around the combined center,
	// and recenter again to absorb the scale drift.
	var children []host.CanvasRef
	if err := g.call(ctx, PhaseTransform, "list children", func() error {
		var err error
		children, err = g.doc.Children(ctx, dup)
		return err
	}); err != nil {
		return res, placed, err
	}
	if len(children) > 0 {
		if err := g.transform(ctx, children, source.Bounds.Size(), target.Size()); err != nil {
			return res, placed, err
		}
		if err := g.cleanNames(ctx, dup, 0); err != nil {
			return res, placed, err
		}
		if len(pins) > 0 {
			if err := g.pinLayers(ctx, dup, pins, sourceLayers, source.Bounds, final, target.Size()); err != nil {
				return res, placed, err
			}
		}
	}

	// Phase 4: bleed finishing, only for sizes that asked for it.
	if target.BleedPx > 0 {
		if err := g.finish(ctx, dup, final, target.BleedPx); err != nil {
			return res, placed, err
		}
	}

	g.logger.Debug("artboard generated",
		"name", spec.Name,
		"width", target.Width,
		"height", target.Height,
		"x", pos.X,
		"y", pos.Y,
	)
	return board.GenerationResult{
		Name:           spec.Name,
		Width:          target.Width,
		Height:         target.Height,
		OriginalWidth:  spec.Width,
		OriginalHeight: spec.Height,
		BleedPx:        target.BleedPx,
		RequiresBleed:  target.BleedPx > 0,
		Position:       pos,
	}, placed, nil
}

// transform centers and scales the duplicate's direct children as one
// group, preserving their relative positions.
func (g *generator) transform(ctx context.Context, children []host.CanvasRef, source, target geom.Size) error {
	if err := g.call(ctx, PhaseTransform, "align contents", func() error {
		return g.doc.SelectAndAlign(ctx, children, host.AxisBoth)
	}); err != nil {
		return err
	}
	factor := geom.ScaleFactor(source, target, g.opts.ScaleMode)
	if factor != 1 {
		if err := g.call(ctx, PhaseTransform, "scale contents", func() error {
			return g.doc.Scale(ctx, children, factor*100)
		}); err != nil {
			return err
		}
		// Scaling around the group center can drift off the artboard
		// center by sub-pixel rounding in the host.
		if err := g.call(ctx, PhaseTransform, "realign contents", func() error {
			return g.doc.SelectAndAlign(ctx, children, host.AxisBoth)
		}); err != nil {
			return err
		}
	}
	return nil
}

// pinLayers restores anchor-pinned layers after the group transform. The
// group scale keeps every layer's position relative to the group; a layer
// named in the source's anchor roles instead keeps its position relative
// to its anchor, measured on the source artboard and rescaled into the
// final bounds.
func (g *generator) pinLayers(ctx context.Context, dup host.CanvasRef, pins map[geom.Anchor]string, sourceLayers []host.CanvasRef, source, final geom.Bounds, target geom.Size) error {
	var children []host.CanvasRef
	if err := g.call(ctx, PhaseTransform, "list children", func() error {
		var err error
		children, err = g.doc.Children(ctx, dup)
		return err
	}); err != nil {
		return err
	}

	factor := geom.ScaleFactor(source.Size(), target, g.opts.ScaleMode)
	for _, anchor := range geom.Anchors {
		name, ok := pins[anchor]
		if !ok {
			continue
		}
		orig, ok := findByName(sourceLayers, name)
		if !ok {
			g.logger.Debug("pinned layer not on source artboard", "layer", name, "anchor", anchor)
			continue
		}
		child, ok := findByName(children, name)
		if !ok {
			g.logger.Debug("pinned layer missing from duplicate", "layer", name, "anchor", anchor)
			continue
		}
		want := pinPosition(anchor, orig.Bounds, source, final, child.Bounds, factor)
		delta := want.Sub(geom.Point{X: child.Bounds.Left, Y: child.Bounds.Top})
		if delta == (geom.Point{}) {
			continue
		}
		if err := g.call(ctx, PhaseTransform, "pin layer", func() error {
			return g.doc.Move(ctx, []host.CanvasRef{child}, delta)
		}); err != nil {
			return err
		}
	}
	return nil
}

// pinPosition computes the absolute top-left a pinned layer must land on.
// Corner anchors keep the layer's proportional distance from the anchored
// edges; the center anchor keeps its proportional offset from the canvas
// center.
func pinPosition(anchor geom.Anchor, orig, source, final, current geom.Bounds, factor float64) geom.Point {
	if anchor == geom.AnchorCenter {
		// ProportionalOffset is a delta from a scale around the source
		// center, so rebuild that reference point first.
		srcCenter := source.Center()
		scaled := geom.Point{
			X: srcCenter.X + (orig.Center().X-srcCenter.X)*factor,
			Y: srcCenter.Y + (orig.Center().Y-srcCenter.Y)*factor,
		}
		center := scaled.Add(geom.ProportionalOffset(orig, source, final, factor))
		return geom.Point{X: center.X - current.Width()/2, Y: center.Y - current.Height()/2}
	}
	rel := anchorFraction(anchor, orig, source)
	p := geom.AnchorPosition(anchor, current.Size(), final.Size(), &rel)
	return geom.Point{X: final.Left + p.X, Y: final.Top + p.Y}
}

// anchorFraction measures a layer's distance from its anchored edges as a
// fraction of the source artboard's extent.
func anchorFraction(anchor geom.Anchor, layer, source geom.Bounds) geom.Point {
	var f geom.Point
	switch anchor {
	case geom.AnchorTopLeft, geom.AnchorBottomLeft:
		f.X = (layer.Left - source.Left) / source.Width()
	case geom.AnchorTopRight, geom.AnchorBottomRight:
		f.X = (source.Right - layer.Right) / source.Width()
	}
	switch anchor {
	case geom.AnchorTopLeft, geom.AnchorTopRight:
		f.Y = (layer.Top - source.Top) / source.Height()
	case geom.AnchorBottomLeft, geom.AnchorBottomRight:
		f.Y = (source.Bottom - layer.Bottom) / source.Height()
	}
	return f
}

// findByName returns the first ref with the given layer name.
func findByName(refs []host.CanvasRef, name string) (host.CanvasRef, bool) {
	for _, r := range refs {
		if r.Name == name {
			return r, true
		}
	}
	return host.CanvasRef{}, false
}

// copySuffix matches the " copy" / " copy 2" suffixes hosts append to
// every layer of a duplicated tree.
var copySuffix = regexp.MustCompile(` copy(?: \d+)?$`)

// maxCleanDepth bounds the rename walk; duplicated trees deeper than
// this keep their suffixes rather than risking a runaway traversal.
const maxCleanDepth = 16

// cleanNames strips the duplication suffix from every layer under ref.
func (g *generator) cleanNames(ctx context.Context, ref host.CanvasRef, depth int) error {
	if depth >= maxCleanDepth {
		return nil
	}
	var children []host.CanvasRef
	if err := g.call(ctx, PhaseTransform, "list children", func() error {
		var err error
		children, err = g.doc.Children(ctx, ref)
		return err
	}); err != nil {
		return err
	}
	for _, child := range children {
		if clean := copySuffix.ReplaceAllString(child.Name, ""); clean != child.Name && clean != "" {
			if err := g.call(ctx, PhaseTransform, "rename layer", func() error {
				return g.doc.Rename(ctx, child, clean)
			}); err != nil {
				return err
			}
		}
		if err := g.cleanNames(ctx, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// finish adds margin guides at the bleed inset and draws the eight crop
// mark segments around the trim box.
func (g *generator) finish(ctx context.Context, dup host.CanvasRef, final geom.Bounds, bleedPx float64) error {
	if err := g.call(ctx, PhaseFinish, "add margin guides", func() error {
		return g.doc.AddMarginGuides(ctx, dup, bleedPx)
	}); err != nil {
		return err
	}
	trim := board.TrimBounds(final, bleedPx)
	for _, mark := range board.CropMarks(trim, g.opts.CropMarks) {
		if err := g.call(ctx, PhaseFinish, "draw crop mark", func() error {
			return g.doc.DrawRectangle(ctx, mark.Bounds, mark.Color)
		}); err != nil {
			return err
		}
	}
	return nil
}
