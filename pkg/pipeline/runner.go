package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boardgen/boardgen/pkg/board"
	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/geom"
	"github.com/boardgen/boardgen/pkg/host"
	"github.com/boardgen/boardgen/pkg/layout"
	"github.com/boardgen/boardgen/pkg/observability"
)

// Runner coordinates a batch run against a host document.
type Runner struct {
	Doc    host.Document
	Logger *log.Logger
}

// NewRunner creates a Runner. A nil logger discards all output.
func NewRunner(doc host.Document, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Doc: doc, Logger: logger}
}

// resolvedSource is a batch-start snapshot of one orientation's source.
type resolvedSource struct {
	ref host.CanvasRef
	ok  bool
}

// Execute runs the batch. Configuration problems abort before any host
// call; once generation starts, failures are isolated per size and the
// returned Result reports every size in exactly one of Created, Skipped,
// or Failed. The whole run sits inside one history bracket.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	sources, err := r.resolveSources(ctx, opts)
	if err != nil {
		return nil, err
	}

	startX, startY := startPosition(sources, opts.Gap)
	packer := layout.NewPacker(startX, startY, opts.Gap, opts.MaxRowWidth)
	gen := &generator{doc: r.Doc, opts: &opts, logger: logger}
	hooks := observability.Batch()

	total := len(opts.Sizes)
	hooks.OnBatchStart(ctx, total)
	logger.Info("starting batch", "sizes", total)

	result := &Result{}
	skippedOnce := make(map[board.Orientation]bool)

	runErr := host.WithHistorySuspended(ctx, r.Doc, func() error {
		for i, spec := range opts.Sizes {
			if err := ctx.Err(); err != nil {
				return err
			}
			hooks.OnSizeStart(ctx, i, spec.Name)
			sizeStart := time.Now()
			outcome, err := r.runSize(ctx, gen, packer, spec, sources, skippedOnce, result)
			hooks.OnSizeComplete(ctx, i, spec.Name, outcome, time.Since(sizeStart), err)
			if opts.OnProgress != nil {
				opts.OnProgress(i+1, total, spec.Name)
			}
		}
		return nil
	})

	result.Stats = Stats{
		Total:      total,
		DurationMS: time.Since(start).Milliseconds(),
	}
	hooks.OnBatchComplete(ctx, len(result.Created), len(result.Skipped), len(result.Failed), time.Since(start))
	logger.Info("batch complete",
		"created", len(result.Created),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
		"duration", time.Since(start),
	)
	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// runSize handles one requested size: skip check, packing, generation,
// and result bookkeeping. It returns the outcome label for the hooks and
// the per-size error, which never aborts the batch.
func (r *Runner) runSize(ctx context.Context, gen *generator, packer *layout.Packer, spec board.SizeSpec, sources map[board.Orientation]resolvedSource, skippedOnce map[board.Orientation]bool, result *Result) (string, error) {
	o := spec.Orientation()
	target := board.WithBleed(spec, gen.opts.Resolution)

	src := sources[o]
	if !src.ok {
		cfg := gen.opts.Sources[o]
		err := errors.New(errors.ErrCodeSourceNotFound,
			"source artboard %q for %s sizes not found in document", cfg.Artboard, o)
		result.Failed = append(result.Failed, Entry{
			Name:   spec.Name,
			Reason: err.Error(),
			Phase:  PhaseResolve,
		})
		gen.opts.Logger.Warn("size failed", "name", spec.Name, "err", err)
		return "failed", err
	}

	if !skippedOnce[o] && matchesBounds(target, src.ref.Bounds) {
		skippedOnce[o] = true
		result.Skipped = append(result.Skipped, Entry{
			Name:   spec.Name,
			Reason: fmt.Sprintf("matches source artboard %q", src.ref.Name),
		})
		gen.opts.Logger.Info("size skipped", "name", spec.Name, "source", src.ref.Name)
		return "skipped", nil
	}

	pos := packer.NextPosition(target.Width, target.Height)
	if a, ok := overlapsPlaced(packer, pos, target); ok {
		err := errors.New(errors.ErrCodeLayout,
			"computed position (%.1f, %.1f) for %q overlaps artboard at (%.1f, %.1f)",
			pos.X, pos.Y, spec.Name, a.X, a.Y)
		result.Failed = append(result.Failed, Entry{
			Name:   spec.Name,
			Reason: err.Error(),
			Phase:  PhaseResolve,
		})
		gen.opts.Logger.Error("size failed", "name", spec.Name, "err", err)
		return "failed", err
	}
	res, placed, err := gen.generate(ctx, spec, src.ref, target, pos)
	if placed || err == nil {
		// Even a partial failure occupied the slot; later sizes must
		// pack around it.
		packer.Register(layout.PlacedArtboard{
			X:      pos.X,
			Y:      pos.Y,
			Width:  target.Width,
			Height: target.Height,
		})
	}
	if err != nil {
		result.Failed = append(result.Failed, Entry{
			Name:   spec.Name,
			Reason: err.Error(),
			Phase:  PhaseOf(err),
		})
		gen.opts.Logger.Warn("size failed", "name", spec.Name, "phase", PhaseOf(err), "err", err)
		return "failed", err
	}
	result.Created = append(result.Created, res)
	return "created", nil
}

// resolveSources snapshots the configured source artboards once per
// batch. A configured reference that no longer resolves is recorded as
// missing so each size needing it fails individually rather than
// aborting the batch.
func (r *Runner) resolveSources(ctx context.Context, opts Options) (map[board.Orientation]resolvedSource, error) {
	tops, err := r.Doc.ListTopLevel(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostOperation, err, "listing document artboards")
	}

	needed := make(map[board.Orientation]bool)
	for _, s := range opts.Sizes {
		needed[s.Orientation()] = true
	}

	sources := make(map[board.Orientation]resolvedSource, len(needed))
	for o := range needed {
		cfg, _ := opts.Sources.Get(o)
		for _, ref := range tops {
			if ref.ID == cfg.Artboard || ref.Name == cfg.Artboard {
				sources[o] = resolvedSource{ref: ref, ok: true}
				break
			}
		}
		if s := sources[o]; !s.ok {
			opts.Logger.Warn("configured source not found", "orientation", o, "artboard", cfg.Artboard)
		}
	}
	return sources, nil
}

// startPosition places the packing origin to the right of every resolved
// source, level with the topmost one, so generated boards never collide
// with the originals.
func startPosition(sources map[board.Orientation]resolvedSource, gap float64) (x, y float64) {
	maxRight := math.Inf(-1)
	minTop := math.Inf(1)
	for _, s := range sources {
		if !s.ok {
			continue
		}
		if s.ref.Bounds.Right > maxRight {
			maxRight = s.ref.Bounds.Right
		}
		if s.ref.Bounds.Top < minTop {
			minTop = s.ref.Bounds.Top
		}
	}
	if math.IsInf(maxRight, -1) {
		return 0, 0
	}
	return maxRight + gap, minTop
}

// overlapsPlaced reports whether placing target at pos would intersect an
// already placed artboard. The packer prevents this; a hit signals a
// packing defect, and the size fails rather than corrupt the document.
func overlapsPlaced(packer *layout.Packer, pos geom.Point, target board.TargetSize) (layout.PlacedArtboard, bool) {
	candidate := geom.NewBounds(pos.X, pos.Y, target.Width, target.Height)
	for _, a := range packer.Placed() {
		if candidate.Intersects(a.Bounds()) {
			return a, true
		}
	}
	return layout.PlacedArtboard{}, false
}

// matchesBounds reports whether the target dimensions already match the
// source artboard within the skip tolerance on both axes.
func matchesBounds(target board.TargetSize, b geom.Bounds) bool {
	return math.Abs(target.Width-b.Width()) <= SkipTolerancePx &&
		math.Abs(target.Height-b.Height()) <= SkipTolerancePx
}
