// Package pipeline provides the batch artboard generation engine.
//
// This package implements the complete resolve → duplicate → resize →
// transform → finish pipeline that can be used by CLI and API components.
// By centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// A batch run has two layers:
//
//  1. Runner: the batch coordinator. It resolves the configured source
//     artboards once, applies the skip policy, packs positions, and
//     aggregates per-size outcomes into created/skipped/failed lists.
//  2. generator: the per-size pipeline. It executes the four strictly
//     sequential phases against the host document, always operating on
//     the re-resolved duplicate, never the source.
//
// Everything the engine does to the document happens inside one
// suspend/resume history bracket so a whole batch collapses into a
// single undoable action.
//
// # Usage
//
// Create a Runner and execute a batch:
//
//	runner := pipeline.NewRunner(doc, logger)
//	opts := pipeline.Options{
//	    Sizes:   sizes,
//	    Sources: sources,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range result.Created {
//	    fmt.Println(r)
//	}
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/boardgen/boardgen/pkg/board"
	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
	"github.com/boardgen/boardgen/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultGap is the spacing in pixels between generated artboards.
	DefaultGap = layout.DefaultGap

	// DefaultMaxRowWidth is the packing row width in pixels.
	DefaultMaxRowWidth = layout.DefaultMaxRowWidth

	// SkipTolerancePx is the per-axis tolerance when deciding that a
	// requested size already matches a source's exact dimensions.
	SkipTolerancePx = 1.0
)

// DefaultScaleMode is the content scale mode used when none is configured.
// Cover guarantees generated boards have no uncovered margin.
const DefaultScaleMode = geom.ScaleCover

// Pipeline phase names, used in failure entries, logs, and host hooks.
const (
	PhaseResolve   = "resolve"
	PhaseResize    = "resize"
	PhaseTransform = "transform"
	PhaseFinish    = "finish"
)

// ProgressFunc receives (index, total, name) after each attempted size.
type ProgressFunc func(index, total int, name string)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a batch run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Requested output sizes, generated in order.
	Sizes []board.SizeSpec `json:"sizes"`

	// Sources maps orientation buckets to source artboards.
	Sources board.SourceConfig `json:"sources"`

	// Resolution is the document's working resolution in pixels per inch;
	// it converts physical bleed units. 0 means geom.DefaultResolution.
	Resolution float64 `json:"resolution,omitempty"`

	// Layout options
	Gap         float64 `json:"gap,omitempty"`
	MaxRowWidth float64 `json:"max_row_width,omitempty"`

	// ScaleMode controls how duplicated contents are fitted to the new
	// dimensions. Empty means DefaultScaleMode.
	ScaleMode geom.ScaleMode `json:"scale_mode,omitempty"`

	// CropMarks configures phase-4 mark geometry. The zero value means
	// board.DefaultMarkSettings.
	CropMarks board.MarkSettings `json:"crop_marks,omitempty"`

	// Runtime options (not serialized)
	OnProgress ProgressFunc `json:"-"`
	Logger     *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Sizes) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no sizes requested")
	}
	for _, s := range o.Sizes {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	switch o.ScaleMode {
	case "", geom.ScaleCover, geom.ScaleContain, geom.ScaleRelative:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown scale mode %q", o.ScaleMode)
	}

	// Every orientation the requested sizes need must have a configured
	// source before any host call is made.
	if missing := o.Sources.MissingOrientations(o.Sizes); len(missing) > 0 {
		return errors.New(errors.ErrCodeNoSourceConfigured,
			"no source artboard configured for %v", missing)
	}

	if o.Resolution == 0 {
		o.Resolution = geom.DefaultResolution
	}
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
	if o.MaxRowWidth == 0 {
		o.MaxRowWidth = DefaultMaxRowWidth
	}
	if o.ScaleMode == "" {
		o.ScaleMode = DefaultScaleMode
	}
	if o.CropMarks == (board.MarkSettings{}) {
		o.CropMarks = board.DefaultMarkSettings
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// FromPreset builds Options from a loaded preset file. Runtime fields
// (logger, progress callback) are left for the caller to fill in.
func FromPreset(p *board.Preset) Options {
	return Options{
		Sizes:       p.Sizes,
		Sources:     p.SourceConfig(),
		Resolution:  p.Resolution,
		Gap:         p.Options.Gap,
		MaxRowWidth: p.Options.MaxRowWidth,
		ScaleMode:   geom.ScaleMode(p.Options.ScaleMode),
		CropMarks:   p.Options.CropMarks,
	}
}

// =============================================================================
// Result Types
// =============================================================================

// Entry records one size that was not created, with the reason and, for
// failures, the phase that broke.
type Entry struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Phase  string `json:"phase,omitempty"`
}

// Result contains the outputs of a batch run. The three lists are always
// populated separately so callers can render partial success.
type Result struct {
	Created []board.GenerationResult `json:"created"`
	Skipped []Entry                  `json:"skipped"`
	Failed  []Entry                  `json:"failed"`
	Stats   Stats                    `json:"stats"`
}

// Stats contains batch execution statistics.
type Stats struct {
	Total      int   `json:"total"`
	DurationMS int64 `json:"duration_ms"`
}
