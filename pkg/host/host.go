// Package host defines the document contract the generation engine runs
// against. The engine consumes this interface but never implements the
// document itself; the surrounding application (or the in-memory
// implementation in host/memory) provides it.
//
// Every call may suspend and may fail: the engine awaits each result
// before issuing the next command, and treats any error as a phase
// failure for the size being generated.
package host

import (
	"context"
	"errors"

	"github.com/boardgen/boardgen/pkg/geom"
)

// CanvasRef identifies a canvas or layer in the live document. The ID is
// host-owned and only valid while the document is open; Bounds are a
// snapshot taken when the ref was reported, not a live view.
type CanvasRef struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	IsArtboard bool        `json:"is_artboard"`
	Bounds     geom.Bounds `json:"bounds"`
}

// Axis selects the alignment axis for SelectAndAlign.
type Axis string

// Alignment axes.
const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
	AxisBoth       Axis = "both"
)

// Document is the minimal host contract the engine needs. Implementations
// decide what a "canvas" is; the engine only assumes the duplicate /
// selection / transform semantics documented per method.
type Document interface {
	// ListTopLevel enumerates the document's top-level canvases.
	ListTopLevel(ctx context.Context) ([]CanvasRef, error)

	// Children returns the direct child layers of a canvas, with fresh
	// bounds.
	Children(ctx context.Context, ref CanvasRef) ([]CanvasRef, error)

	// ParentOf returns the parent of a nested layer. ok is false when the
	// ref is already top-level.
	ParentOf(ctx context.Context, ref CanvasRef) (parent CanvasRef, ok bool, err error)

	// ActiveSelection reports the host's current selection. Immediately
	// after Duplicate it reports (something inside) the duplicate.
	ActiveSelection(ctx context.Context) ([]CanvasRef, error)

	// Duplicate deep-copies a canvas and everything inside it. The copy
	// gets a new identity; callers must re-resolve it via
	// ActiveSelection, never assume the source ref now points at it.
	Duplicate(ctx context.Context, ref CanvasRef) error

	// Resize applies new bounds to a canvas. Contents do not move.
	Resize(ctx context.Context, ref CanvasRef, bounds geom.Bounds) error

	// Rename changes a canvas or layer name.
	Rename(ctx context.Context, ref CanvasRef, name string) error

	// SelectAndAlign selects refs together and aligns their combined
	// bounding box to the center of their containing artboard on the
	// given axis. Relative positions within the selection are preserved.
	SelectAndAlign(ctx context.Context, refs []CanvasRef, axis Axis) error

	// Scale scales the selection uniformly by percent (100 = unchanged)
	// around the selection's combined center.
	Scale(ctx context.Context, refs []CanvasRef, percent float64) error

	// Move translates the selection by delta.
	Move(ctx context.Context, refs []CanvasRef, delta geom.Point) error

	// AddMarginGuides adds guides inset by marginPx on all four sides of
	// a canvas.
	AddMarginGuides(ctx context.Context, ref CanvasRef, marginPx float64) error

	// DrawRectangle draws a filled rectangle (used for crop marks) in
	// document coordinates.
	DrawRectangle(ctx context.Context, bounds geom.Bounds, color string) error

	// SuspendHistory and ResumeHistory bracket a batch so it collapses
	// into a single undoable action. Resume must be called on every exit
	// path; use WithHistorySuspended.
	SuspendHistory(ctx context.Context) error
	ResumeHistory(ctx context.Context) error
}

// WithHistorySuspended runs fn inside a SuspendHistory/ResumeHistory
// bracket, guaranteeing the resume on every exit path including panics
// unwinding through fn. A resume failure is reported only when fn itself
// succeeded.
func WithHistorySuspended(ctx context.Context, doc Document, fn func() error) (err error) {
	if err := doc.SuspendHistory(ctx); err != nil {
		return err
	}
	defer func() {
		rerr := doc.ResumeHistory(ctx)
		if err == nil {
			err = rerr
		} else if rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn()
}

// TopLevelAncestor walks upward from ref through parent links until it
// reaches a top-level canvas. Duplicating a nested content tree makes a
// deep copy, and hosts often report an inner layer of the copy as the
// active selection; this resolves the actual artboard.
func TopLevelAncestor(ctx context.Context, doc Document, ref CanvasRef) (CanvasRef, error) {
	for {
		parent, ok, err := doc.ParentOf(ctx, ref)
		if err != nil {
			return CanvasRef{}, err
		}
		if !ok {
			return ref, nil
		}
		ref = parent
	}
}
