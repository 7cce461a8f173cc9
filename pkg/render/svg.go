// Package render turns a document snapshot into a standalone SVG preview.
// The preview shows source and generated artboards in their packed
// positions, with optional bleed guides, so a layout can be inspected
// without opening the host application.
package render

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/boardgen/boardgen/pkg/geom"
	"github.com/boardgen/boardgen/pkg/host/memory"
)

// Preview palette.
const (
	artboardFill   = "#ffffff"
	artboardStroke = "#b7bdc8"
	layerFill      = "#dbe4f0"
	layerStroke    = "#8596ad"
	guideStroke    = "#2f9e6e"
	labelColor     = "#3b4252"
	canvasFill     = "#f4f5f7"
)

const labelFontSize = 24.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	showGuides bool
	showLayers bool
	labels     bool
	padding    float64
}

// WithGuides draws bleed guides as dashed lines.
func WithGuides() SVGOption { return func(r *svgRenderer) { r.showGuides = true } }

// WithLayers draws content layers inside each artboard.
func WithLayers() SVGOption { return func(r *svgRenderer) { r.showLayers = true } }

// WithoutLabels suppresses artboard name labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithPadding overrides the whitespace around the drawing.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// RenderSVG renders a document snapshot. Canvases are drawn in stable
// name order so repeated renders of the same document are identical.
func RenderSVG(doc memory.DocumentFile, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	canvases := append([]memory.Canvas(nil), doc.Canvases...)
	slices.SortFunc(canvases, func(a, b memory.Canvas) int {
		return cmp.Compare(a.Name, b.Name)
	})

	frame := frameBounds(canvases, r.padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frame.Left, frame.Top, frame.Width(), frame.Height(), frame.Width(), frame.Height())
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		frame.Left, frame.Top, frame.Width(), frame.Height(), canvasFill)

	for _, c := range canvases {
		r.renderCanvas(&buf, c, true)
	}
	if r.labels {
		for _, c := range canvases {
			if c.Artboard {
				renderLabel(&buf, c)
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{labels: true, padding: 120}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// frameBounds is the union of all canvas bounds grown by the padding.
// An empty document still gets a non-degenerate frame.
func frameBounds(canvases []memory.Canvas, padding float64) geom.Bounds {
	if len(canvases) == 0 {
		return geom.NewBounds(0, 0, 2*padding, 2*padding)
	}
	frame := canvases[0].Bounds
	for _, c := range canvases[1:] {
		if c.Bounds.Left < frame.Left {
			frame.Left = c.Bounds.Left
		}
		if c.Bounds.Top < frame.Top {
			frame.Top = c.Bounds.Top
		}
		if c.Bounds.Right > frame.Right {
			frame.Right = c.Bounds.Right
		}
		if c.Bounds.Bottom > frame.Bottom {
			frame.Bottom = c.Bounds.Bottom
		}
	}
	return frame.Inset(-padding)
}

func (r *svgRenderer) renderCanvas(buf *bytes.Buffer, c memory.Canvas, topLevel bool) {
	switch {
	case c.Artboard:
		rect(buf, c.Bounds, artboardFill, artboardStroke, 2, 1)
	case c.Color != "":
		// Colored shapes (crop marks) render as drawn.
		rect(buf, c.Bounds, c.Color, "", 0, 1)
	case topLevel || r.showLayers:
		rect(buf, c.Bounds, layerFill, layerStroke, 1, 0.6)
	default:
		return
	}

	if r.showGuides {
		renderGuides(buf, c)
	}
	for _, child := range c.Children {
		r.renderCanvas(buf, child, false)
	}
}

// renderGuides draws each recorded margin guide as a dashed rectangle
// inset from the canvas edges, matching how margin guides look in the
// host application.
func renderGuides(buf *bytes.Buffer, c memory.Canvas) {
	for _, margin := range c.Guides {
		inset := c.Bounds.Inset(margin)
		if inset.Width() <= 0 || inset.Height() <= 0 {
			continue
		}
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1" stroke-dasharray="8 6"/>`+"\n",
			inset.Left, inset.Top, inset.Width(), inset.Height(), guideStroke)
	}
}

func renderLabel(buf *bytes.Buffer, c memory.Canvas) {
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" fill="%s">%s</text>`+"\n",
		c.Bounds.Left, c.Bounds.Top-10, labelFontSize, labelColor, escapeText(c.Name))
}

func rect(buf *bytes.Buffer, b geom.Bounds, fill, stroke string, strokeWidth, opacity float64) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"`,
		b.Left, b.Top, b.Width(), b.Height(), fill)
	if stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%.1f"`, stroke, strokeWidth)
	}
	if opacity != 1 {
		fmt.Fprintf(buf, ` fill-opacity="%.2f"`, opacity)
	}
	buf.WriteString("/>\n")
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
