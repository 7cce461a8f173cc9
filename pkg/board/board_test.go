package board

import (
	"testing"

	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
)

func TestResolveOrientation(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		want          Orientation
	}{
		{
			name:  "tall portrait",
			width: 1080, height: 1920,
			want: OrientationPortrait,
		},
		{
			name:  "wide landscape",
			width: 1920, height: 1080,
			want: OrientationLandscape,
		},
		{
			name:  "exact square",
			width: 1000, height: 1000,
			want: OrientationSquare,
		},
		{
			name:  "slightly wide is still square",
			width: 1100, height: 1000,
			want: OrientationSquare,
		},
		{
			name:  "slightly tall is still square",
			width: 900, height: 1000,
			want: OrientationSquare,
		},
		{
			name:  "just past landscape threshold",
			width: 1160, height: 1000,
			want: OrientationLandscape,
		},
		{
			name:  "just past portrait threshold",
			width: 840, height: 1000,
			want: OrientationPortrait,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveOrientation(tt.width, tt.height); got != tt.want {
				t.Errorf("ResolveOrientation(%g, %g) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestSizeSpecValidate(t *testing.T) {
	tests := []struct {
		name     string
		spec     SizeSpec
		wantCode errors.Code
	}{
		{
			name: "valid",
			spec: SizeSpec{Name: "Banner", Width: 728, Height: 90},
		},
		{
			name: "valid with bleed",
			spec: SizeSpec{Name: "Poster", Width: 100, Height: 100, RequiresBleed: true, Bleed: 0.125, BleedUnit: geom.UnitInches},
		},
		{
			name:     "missing name",
			spec:     SizeSpec{Width: 100, Height: 100},
			wantCode: errors.ErrCodeInvalidSize,
		},
		{
			name:     "zero width",
			spec:     SizeSpec{Name: "Bad", Width: 0, Height: 100},
			wantCode: errors.ErrCodeInvalidSize,
		},
		{
			name:     "negative height",
			spec:     SizeSpec{Name: "Bad", Width: 100, Height: -1},
			wantCode: errors.ErrCodeInvalidSize,
		},
		{
			name:     "negative bleed",
			spec:     SizeSpec{Name: "Bad", Width: 100, Height: 100, Bleed: -0.5},
			wantCode: errors.ErrCodeInvalidSize,
		},
		{
			name:     "unknown bleed unit",
			spec:     SizeSpec{Name: "Bad", Width: 100, Height: 100, Bleed: 1, BleedUnit: "furlongs"},
			wantCode: errors.ErrCodeInvalidUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want code %v", err, tt.wantCode)
			}
		})
	}
}

func TestSourceConfig(t *testing.T) {
	cfg := SourceConfig{
		OrientationLandscape: {Artboard: "Landscape Master"},
		OrientationPortrait:  {Artboard: ""}, // configured but empty
	}

	if _, ok := cfg.Get(OrientationLandscape); !ok {
		t.Error("Get(landscape) ok = false, want true")
	}
	if _, ok := cfg.Get(OrientationPortrait); ok {
		t.Error("Get(portrait) ok = true, want false for empty artboard ref")
	}
	if _, ok := cfg.Get(OrientationSquare); ok {
		t.Error("Get(square) ok = true, want false for missing entry")
	}

	wide := SizeSpec{Name: "Wide", Width: 200, Height: 100}
	tall := SizeSpec{Name: "Tall", Width: 100, Height: 200}
	if !cfg.CanGenerate(wide) {
		t.Error("CanGenerate(wide) = false, want true")
	}
	if cfg.CanGenerate(tall) {
		t.Error("CanGenerate(tall) = true, want false")
	}

	missing := cfg.MissingOrientations([]SizeSpec{wide, tall, {Name: "Sq", Width: 100, Height: 100}})
	if len(missing) != 2 || missing[0] != OrientationPortrait || missing[1] != OrientationSquare {
		t.Errorf("MissingOrientations() = %v, want [portrait square]", missing)
	}
}

func TestPinnedLayers(t *testing.T) {
	src := Source{
		Artboard: "Landscape Master",
		LayerRoles: map[string]string{
			"bottom-right": "Logo",
			"center":       "Headline",
			"headline":     "Headline", // semantic role, not an anchor
			"top-left":     "",         // empty layer name is ignored
		},
	}

	pins := src.PinnedLayers()
	if len(pins) != 2 {
		t.Fatalf("PinnedLayers() = %v, want 2 entries", pins)
	}
	if pins[geom.AnchorBottomRight] != "Logo" {
		t.Errorf("bottom-right pin = %q, want Logo", pins[geom.AnchorBottomRight])
	}
	if pins[geom.AnchorCenter] != "Headline" {
		t.Errorf("center pin = %q, want Headline", pins[geom.AnchorCenter])
	}

	if pins := (Source{Artboard: "X"}).PinnedLayers(); pins != nil {
		t.Errorf("PinnedLayers() without roles = %v, want nil", pins)
	}
}

func TestWithBleed(t *testing.T) {
	tests := []struct {
		name        string
		spec        SizeSpec
		resolution  float64
		wantW       float64
		wantH       float64
		wantBleedPx float64
	}{
		{
			name: "eighth inch at 300dpi",
			spec: SizeSpec{
				Name: "Poster", Width: 1000, Height: 1000,
				RequiresBleed: true, Bleed: 0.125, BleedUnit: geom.UnitInches,
			},
			resolution:  300,
			wantW:       1075,
			wantH:       1075,
			wantBleedPx: 37.5,
		},
		{
			name: "millimeter bleed",
			spec: SizeSpec{
				Name: "Flyer", Width: 100, Height: 200,
				RequiresBleed: true, Bleed: 25.4, BleedUnit: geom.UnitMillimeters,
			},
			resolution:  300,
			wantW:       700,
			wantH:       800,
			wantBleedPx: 300,
		},
		{
			name: "no bleed requested",
			spec: SizeSpec{
				Name: "Banner", Width: 728, Height: 90,
				Bleed: 0.125, BleedUnit: geom.UnitInches,
			},
			resolution: 300,
			wantW:      728, wantH: 90,
		},
		{
			name: "bleed required but zero",
			spec: SizeSpec{
				Name: "Banner", Width: 728, Height: 90,
				RequiresBleed: true,
			},
			resolution: 300,
			wantW:      728, wantH: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithBleed(tt.spec, tt.resolution)
			if got.Width != tt.wantW || got.Height != tt.wantH || got.BleedPx != tt.wantBleedPx {
				t.Errorf("WithBleed() = %+v, want %gx%g bleed %g", got, tt.wantW, tt.wantH, tt.wantBleedPx)
			}
		})
	}
}

// Bleed round-trip: removing the per-side bleed twice recovers the
// requested dimensions exactly.
func TestWithBleedRoundTrip(t *testing.T) {
	specs := []SizeSpec{
		{Name: "A", Width: 1000, Height: 1000, RequiresBleed: true, Bleed: 0.125, BleedUnit: geom.UnitInches},
		{Name: "B", Width: 2480, Height: 3508, RequiresBleed: true, Bleed: 3, BleedUnit: geom.UnitMillimeters},
		{Name: "C", Width: 500, Height: 250, RequiresBleed: true, Bleed: 12, BleedUnit: geom.UnitPixels},
	}

	for _, spec := range specs {
		got := WithBleed(spec, 300)
		if got.Width-2*got.BleedPx != spec.Width {
			t.Errorf("%s: width round-trip = %g, want %g", spec.Name, got.Width-2*got.BleedPx, spec.Width)
		}
		if got.Height-2*got.BleedPx != spec.Height {
			t.Errorf("%s: height round-trip = %g, want %g", spec.Name, got.Height-2*got.BleedPx, spec.Height)
		}
	}
}

func TestTrimBounds(t *testing.T) {
	artboard := geom.NewBounds(0, 0, 1075, 1075)
	trim := TrimBounds(artboard, 37.5)

	want := geom.Bounds{Left: 37.5, Top: 37.5, Right: 1037.5, Bottom: 1037.5}
	if trim != want {
		t.Errorf("TrimBounds() = %+v, want %+v", trim, want)
	}
	if trim.Width() != 1000 || trim.Height() != 1000 {
		t.Errorf("trim size = %gx%g, want 1000x1000", trim.Width(), trim.Height())
	}
}

func TestCropMarks(t *testing.T) {
	trim := geom.NewBounds(100, 100, 800, 600)
	s := MarkSettings{Length: 20, Weight: 1, Offset: 8, Color: "#111111"}

	marks := CropMarks(trim, s)
	if len(marks) != 8 {
		t.Fatalf("len(marks) = %d, want 8", len(marks))
	}

	for i, m := range marks {
		if m.Color != "#111111" {
			t.Errorf("mark %d color = %q, want %q", i, m.Color, "#111111")
		}
		w, h := m.Bounds.Width(), m.Bounds.Height()
		long, short := w, h
		if h > w {
			long, short = h, w
		}
		if long != s.Length {
			t.Errorf("mark %d long side = %g, want %g", i, long, s.Length)
		}
		if short != s.Weight {
			t.Errorf("mark %d short side = %g, want %g", i, short, s.Weight)
		}
	}

	// The offset gap is mandatory: no mark may reach the trim rectangle.
	// Horizontal marks stop Offset short of the left/right edges,
	// vertical marks stop Offset short of the top/bottom edges.
	for i, m := range marks {
		b := m.Bounds
		horizontal := b.Width() > b.Height()
		if horizontal {
			if b.Right > trim.Left && b.Left < trim.Right {
				t.Errorf("mark %d horizontally enters trim span: %+v", i, b)
			}
			if gotGap := minGap(trim.Left-b.Right, b.Left-trim.Right); gotGap != s.Offset {
				t.Errorf("mark %d horizontal gap = %g, want %g", i, gotGap, s.Offset)
			}
		} else {
			if b.Bottom > trim.Top && b.Top < trim.Bottom {
				t.Errorf("mark %d vertically enters trim span: %+v", i, b)
			}
			if gotGap := minGap(trim.Top-b.Bottom, b.Top-trim.Bottom); gotGap != s.Offset {
				t.Errorf("mark %d vertical gap = %g, want %g", i, gotGap, s.Offset)
			}
		}
	}
}

// minGap returns whichever candidate gap is non-negative; marks sit on
// exactly one side of the trim edge.
func minGap(a, b float64) float64 {
	if a >= 0 {
		return a
	}
	return b
}

func TestCropMarksAlignWithTrimEdges(t *testing.T) {
	trim := geom.NewBounds(50, 50, 400, 300)
	marks := CropMarks(trim, DefaultMarkSettings)

	half := DefaultMarkSettings.Weight / 2
	edgeXs := map[float64]bool{trim.Left: true, trim.Right: true}
	edgeYs := map[float64]bool{trim.Top: true, trim.Bottom: true}

	for i, m := range marks {
		b := m.Bounds
		if b.Width() > b.Height() {
			center := (b.Top + b.Bottom) / 2
			if !edgeYs[center] {
				t.Errorf("horizontal mark %d centered at y=%g, want a trim edge line", i, center)
			}
			if b.Bottom-b.Top != 2*half {
				t.Errorf("horizontal mark %d thickness = %g", i, b.Bottom-b.Top)
			}
		} else {
			center := (b.Left + b.Right) / 2
			if !edgeXs[center] {
				t.Errorf("vertical mark %d centered at x=%g, want a trim edge line", i, center)
			}
		}
	}
}
