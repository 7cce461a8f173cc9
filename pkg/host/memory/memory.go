// Package memory implements the host.Document contract against an
// in-memory canvas tree. It backs the CLI and HTTP API (documents loaded
// from JSON files) and the engine's tests.
//
// The implementation mimics the duplicate semantics of real design hosts:
// duplicating a canvas deep-copies its content tree, appends a " copy"
// suffix to every copied name, and leaves the active selection pointing
// at a layer inside the copy rather than the copy itself.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
	"github.com/boardgen/boardgen/pkg/host"
)

// node is one canvas or layer in the tree.
type node struct {
	id       string
	name     string
	artboard bool
	bounds   geom.Bounds
	guides   []float64 // margin guide insets, most recent last
	color    string    // fill color for drawn rectangles
	parent   *node
	children []*node
}

// Document is an in-memory host document. Safe for concurrent use, though
// the engine only ever drives it from one goroutine.
type Document struct {
	mu           sync.Mutex
	roots        []*node
	byID         map[string]*node
	selection    []string
	historyDepth int
}

// New creates an empty document.
func New() *Document {
	return &Document{byID: make(map[string]*node)}
}

// Layer describes a content layer when building a document.
type Layer struct {
	Name   string      `json:"name"`
	Bounds geom.Bounds `json:"bounds"`
	Layers []Layer     `json:"layers,omitempty"`
}

// AddArtboard adds a top-level artboard with the given content layers and
// returns its ref.
func (d *Document) AddArtboard(name string, bounds geom.Bounds, layers ...Layer) host.CanvasRef {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := &node{id: uuid.NewString(), name: name, artboard: true, bounds: bounds}
	for _, l := range layers {
		n.children = append(n.children, buildLayer(n, l))
	}
	d.roots = append(d.roots, n)
	d.index(n)
	return refOf(n)
}

func buildLayer(parent *node, l Layer) *node {
	n := &node{id: uuid.NewString(), name: l.Name, bounds: l.Bounds, parent: parent}
	for _, child := range l.Layers {
		n.children = append(n.children, buildLayer(n, child))
	}
	return n
}

func (d *Document) index(n *node) {
	d.byID[n.id] = n
	for _, c := range n.children {
		d.index(c)
	}
}

func refOf(n *node) host.CanvasRef {
	return host.CanvasRef{ID: n.id, Name: n.name, IsArtboard: n.artboard, Bounds: n.bounds}
}

func (d *Document) lookup(ref host.CanvasRef) (*node, error) {
	if n, ok := d.byID[ref.ID]; ok {
		return n, nil
	}
	return nil, errors.New(errors.ErrCodeSourceNotFound, "canvas %q (%s) not in document", ref.Name, ref.ID)
}

// HistoryBalanced reports whether every SuspendHistory has been matched by
// a ResumeHistory. Exposed for tests.
func (d *Document) HistoryBalanced() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.historyDepth == 0
}

// ListTopLevel implements host.Document.
func (d *Document) ListTopLevel(ctx context.Context) ([]host.CanvasRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	refs := make([]host.CanvasRef, 0, len(d.roots))
	for _, n := range d.roots {
		refs = append(refs, refOf(n))
	}
	return refs, nil
}

// Children implements host.Document.
func (d *Document) Children(ctx context.Context, ref host.CanvasRef) ([]host.CanvasRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.lookup(ref)
	if err != nil {
		return nil, err
	}
	refs := make([]host.CanvasRef, 0, len(n.children))
	for _, c := range n.children {
		refs = append(refs, refOf(c))
	}
	return refs, nil
}

// ParentOf implements host.Document.
func (d *Document) ParentOf(ctx context.Context, ref host.CanvasRef) (host.CanvasRef, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.lookup(ref)
	if err != nil {
		return host.CanvasRef{}, false, err
	}
	if n.parent == nil {
		return host.CanvasRef{}, false, nil
	}
	return refOf(n.parent), true, nil
}

// ActiveSelection implements host.Document.
func (d *Document) ActiveSelection(ctx context.Context) ([]host.CanvasRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	refs := make([]host.CanvasRef, 0, len(d.selection))
	for _, id := range d.selection {
		if n, ok := d.byID[id]; ok {
			refs = append(refs, refOf(n))
		}
	}
	return refs, nil
}

// Duplicate implements host.Document. The copy is appended after the
// existing top-level canvases; the active selection afterwards points at
// the deepest first descendant of the copy, the way editors report the
// innermost pasted layer.
func (d *Document) Duplicate(ctx context.Context, ref host.CanvasRef) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.lookup(ref)
	if err != nil {
		return err
	}
	if n.parent != nil {
		return errors.New(errors.ErrCodeHostOperation, "duplicate of nested layer %q not supported", n.name)
	}

	dup := deepCopy(n, nil)
	d.roots = append(d.roots, dup)
	d.index(dup)

	sel := dup
	for len(sel.children) > 0 {
		sel = sel.children[0]
	}
	d.selection = []string{sel.id}
	return nil
}

func deepCopy(n *node, parent *node) *node {
	c := &node{
		id:       uuid.NewString(),
		name:     n.name + " copy",
		artboard: n.artboard,
		bounds:   n.bounds,
		color:    n.color,
		parent:   parent,
		guides:   append([]float64(nil), n.guides...),
	}
	for _, child := range n.children {
		c.children = append(c.children, deepCopy(child, c))
	}
	return c
}

// Resize implements host.Document. Contents keep their document positions.
func (d *Document) Resize(ctx context.Context, ref host.CanvasRef, bounds geom.Bounds) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.lookup(ref)
	if err != nil {
		return err
	}
	n.bounds = bounds
	return nil
}

// Rename implements host.Document.
func (d *Document) Rename(ctx context.Context, ref host.CanvasRef, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.lookup(ref)
	if err != nil {
		return err
	}
	n.name = name
	return nil
}

// SelectAndAlign implements host.Document: the selection's combined
// bounding box is centered on the containing artboard along the given
// axis; relative positions within the selection are preserved.
func (d *Document) SelectAndAlign(ctx context.Context, refs []host.CanvasRef, axis host.Axis) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes, err := d.lookupAll(refs)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}

	board := topLevel(nodes[0])
	union := unionBounds(nodes)
	delta := geom.Point{}
	if axis == host.AxisHorizontal || axis == host.AxisBoth {
		delta.X = board.bounds.Center().X - union.Center().X
	}
	if axis == host.AxisVertical || axis == host.AxisBoth {
		delta.Y = board.bounds.Center().Y - union.Center().Y
	}
	for _, n := range nodes {
		translate(n, delta)
	}
	return nil
}

// Scale implements host.Document: uniform scale around the selection's
// combined center, applied to the whole subtree of each selected layer.
func (d *Document) Scale(ctx context.Context, refs []host.CanvasRef, percent float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes, err := d.lookupAll(refs)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}

	factor := percent / 100
	center := unionBounds(nodes).Center()
	for _, n := range nodes {
		scaleAround(n, center, factor)
	}
	return nil
}

// Move implements host.Document.
func (d *Document) Move(ctx context.Context, refs []host.CanvasRef, delta geom.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes, err := d.lookupAll(refs)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		translate(n, delta)
	}
	return nil
}

// AddMarginGuides implements host.Document.
func (d *Document) AddMarginGuides(ctx context.Context, ref host.CanvasRef, marginPx float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.lookup(ref)
	if err != nil {
		return err
	}
	n.guides = append(n.guides, marginPx)
	return nil
}

// Guides returns the margin guides recorded on a canvas. Exposed for
// tests and the preview renderer.
func (d *Document) Guides(ref host.CanvasRef) []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.byID[ref.ID]
	if !ok {
		return nil
	}
	return append([]float64(nil), n.guides...)
}

// DrawRectangle implements host.Document. The rectangle becomes a layer
// of the artboard containing its center, or a top-level shape when it
// falls outside every artboard.
func (d *Document) DrawRectangle(ctx context.Context, bounds geom.Bounds, color string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	rect := &node{
		id:     uuid.NewString(),
		name:   fmt.Sprintf("Rectangle %d", len(d.byID)+1),
		bounds: bounds,
		color:  color,
	}

	center := bounds.Center()
	for _, root := range d.roots {
		if root.artboard &&
			center.X >= root.bounds.Left && center.X <= root.bounds.Right &&
			center.Y >= root.bounds.Top && center.Y <= root.bounds.Bottom {
			rect.parent = root
			root.children = append(root.children, rect)
			d.byID[rect.id] = rect
			return nil
		}
	}

	d.roots = append(d.roots, rect)
	d.byID[rect.id] = rect
	return nil
}

// SuspendHistory implements host.Document.
func (d *Document) SuspendHistory(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.historyDepth++
	return nil
}

// ResumeHistory implements host.Document.
func (d *Document) ResumeHistory(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.historyDepth == 0 {
		return errors.New(errors.ErrCodeHostOperation, "resume without matching suspend")
	}
	d.historyDepth--
	return nil
}

func (d *Document) lookupAll(refs []host.CanvasRef) ([]*node, error) {
	nodes := make([]*node, 0, len(refs))
	for _, ref := range refs {
		n, err := d.lookup(ref)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func topLevel(n *node) *node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

func unionBounds(nodes []*node) geom.Bounds {
	u := nodes[0].bounds
	for _, n := range nodes[1:] {
		if n.bounds.Left < u.Left {
			u.Left = n.bounds.Left
		}
		if n.bounds.Top < u.Top {
			u.Top = n.bounds.Top
		}
		if n.bounds.Right > u.Right {
			u.Right = n.bounds.Right
		}
		if n.bounds.Bottom > u.Bottom {
			u.Bottom = n.bounds.Bottom
		}
	}
	return u
}

func translate(n *node, delta geom.Point) {
	n.bounds = n.bounds.Translate(delta)
	for _, c := range n.children {
		translate(c, delta)
	}
}

func scaleAround(n *node, center geom.Point, factor float64) {
	n.bounds = geom.Bounds{
		Left:   center.X + (n.bounds.Left-center.X)*factor,
		Top:    center.Y + (n.bounds.Top-center.Y)*factor,
		Right:  center.X + (n.bounds.Right-center.X)*factor,
		Bottom: center.Y + (n.bounds.Bottom-center.Y)*factor,
	}
	for _, c := range n.children {
		scaleAround(c, center, factor)
	}
}
