package memory

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"

	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
)

// Canvas is the serializable form of one canvas or layer.
type Canvas struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Artboard bool        `json:"artboard,omitempty"`
	Bounds   geom.Bounds `json:"bounds"`
	Color    string      `json:"color,omitempty"`
	Guides   []float64   `json:"guides,omitempty"`
	Children []Canvas    `json:"children,omitempty"`
}

// DocumentFile is the on-disk JSON document format.
type DocumentFile struct {
	Canvases []Canvas `json:"canvases"`
}

// Export snapshots the document into its serializable form.
func (d *Document) Export() DocumentFile {
	d.mu.Lock()
	defer d.mu.Unlock()

	f := DocumentFile{Canvases: make([]Canvas, 0, len(d.roots))}
	for _, n := range d.roots {
		f.Canvases = append(f.Canvases, exportNode(n))
	}
	return f
}

func exportNode(n *node) Canvas {
	c := Canvas{
		ID:       n.id,
		Name:     n.name,
		Artboard: n.artboard,
		Bounds:   n.bounds,
		Color:    n.color,
		Guides:   append([]float64(nil), n.guides...),
	}
	for _, child := range n.children {
		c.Children = append(c.Children, exportNode(child))
	}
	return c
}

// FromFile builds a document from its serializable form. Canvases without
// IDs get fresh ones.
func FromFile(f DocumentFile) *Document {
	d := New()
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range f.Canvases {
		n := importNode(c, nil)
		d.roots = append(d.roots, n)
		d.index(n)
	}
	return d
}

func importNode(c Canvas, parent *node) *node {
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	n := &node{
		id:       id,
		name:     c.Name,
		artboard: c.Artboard,
		bounds:   c.Bounds,
		color:    c.Color,
		guides:   append([]float64(nil), c.Guides...),
		parent:   parent,
	}
	for _, child := range c.Children {
		n.children = append(n.children, importNode(child, n))
	}
	return n
}

// Marshal serializes a document to pretty-printed JSON.
func Marshal(d *Document) ([]byte, error) {
	return json.MarshalIndent(d.Export(), "", "  ")
}

// Unmarshal deserializes JSON into a document.
func Unmarshal(data []byte) (*Document, error) {
	var f DocumentFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "unmarshal document")
	}
	return FromFile(f), nil
}

// LoadFile reads a document from a JSON file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read document %s", path)
	}
	return Unmarshal(data)
}

// SaveFile writes a document to a JSON file.
func SaveFile(d *Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
