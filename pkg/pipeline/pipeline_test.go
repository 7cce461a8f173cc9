package pipeline

import (
	"fmt"
	"testing"

	"github.com/boardgen/boardgen/pkg/board"
	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
)

func landscapeSources() board.SourceConfig {
	return board.SourceConfig{
		board.OrientationLandscape: {Artboard: "Landscape Master"},
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{
			name: "no sizes",
			opts: Options{Sources: landscapeSources()},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "invalid size",
			opts: Options{
				Sizes:   []board.SizeSpec{{Name: "bad", Width: 0, Height: 100}},
				Sources: landscapeSources(),
			},
			code: errors.ErrCodeInvalidSize,
		},
		{
			name: "unknown scale mode",
			opts: Options{
				Sizes:     []board.SizeSpec{{Name: "a", Width: 300, Height: 100}},
				Sources:   landscapeSources(),
				ScaleMode: "stretch",
			},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "missing orientation source",
			opts: Options{
				Sizes:   []board.SizeSpec{{Name: "tall", Width: 100, Height: 300}},
				Sources: landscapeSources(),
			},
			code: errors.ErrCodeNoSourceConfigured,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{
		Sizes:   []board.SizeSpec{{Name: "a", Width: 300, Height: 100}},
		Sources: landscapeSources(),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Resolution != geom.DefaultResolution {
		t.Errorf("Resolution = %g, want %g", opts.Resolution, geom.DefaultResolution)
	}
	if opts.Gap != DefaultGap {
		t.Errorf("Gap = %g, want %g", opts.Gap, float64(DefaultGap))
	}
	if opts.MaxRowWidth != DefaultMaxRowWidth {
		t.Errorf("MaxRowWidth = %g, want %g", opts.MaxRowWidth, float64(DefaultMaxRowWidth))
	}
	if opts.ScaleMode != geom.ScaleCover {
		t.Errorf("ScaleMode = %s, want %s", opts.ScaleMode, geom.ScaleCover)
	}
	if opts.CropMarks != board.DefaultMarkSettings {
		t.Errorf("CropMarks = %+v, want defaults", opts.CropMarks)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	// Idempotent: explicit values survive a second call.
	opts.Gap = 25
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Gap != 25 {
		t.Errorf("Gap = %g after revalidation, want 25", opts.Gap)
	}
}

func TestFromPreset(t *testing.T) {
	p := &board.Preset{
		Resolution: 150,
		Options: board.PresetOptions{
			Gap:         40,
			MaxRowWidth: 9000,
			ScaleMode:   "contain",
			CropMarks:   board.MarkSettings{Length: 10, Weight: 2, Offset: 5, Color: "#ff0000"},
		},
		Sizes: []board.SizeSpec{{Name: "a", Width: 300, Height: 100}},
		Sources: map[board.Orientation]board.Source{
			board.OrientationLandscape: {Artboard: "Master"},
		},
	}
	opts := FromPreset(p)
	if opts.Resolution != 150 || opts.Gap != 40 || opts.MaxRowWidth != 9000 {
		t.Errorf("numeric options not carried over: %+v", opts)
	}
	if opts.ScaleMode != geom.ScaleContain {
		t.Errorf("ScaleMode = %s, want contain", opts.ScaleMode)
	}
	if opts.CropMarks != p.Options.CropMarks {
		t.Errorf("CropMarks = %+v", opts.CropMarks)
	}
	if len(opts.Sizes) != 1 || opts.Sizes[0].Name != "a" {
		t.Errorf("Sizes = %+v", opts.Sizes)
	}
	if _, ok := opts.Sources.Get(board.OrientationLandscape); !ok {
		t.Error("landscape source not carried over")
	}
}

func TestPhaseOf(t *testing.T) {
	inner := &phaseError{
		phase: PhaseTransform,
		err:   errors.New(errors.ErrCodeHostOperation, "scale failed"),
	}
	wrapped := fmt.Errorf("size banner: %w", inner)

	if got := PhaseOf(wrapped); got != PhaseTransform {
		t.Errorf("PhaseOf(wrapped) = %q, want %q", got, PhaseTransform)
	}
	if got := PhaseOf(errors.New(errors.ErrCodeLayout, "plain")); got != "" {
		t.Errorf("PhaseOf(plain) = %q, want empty", got)
	}
	if got := PhaseOf(nil); got != "" {
		t.Errorf("PhaseOf(nil) = %q, want empty", got)
	}
}
