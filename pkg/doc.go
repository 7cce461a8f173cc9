// Package pkg provides the core libraries for boardgen artboard generation.
//
// # Overview
//
// Boardgen turns one master design per orientation into a batch of output
// sizes: each requested size duplicates its source artboard, is packed
// into rows next to the originals, has its contents rescaled to fit, and,
// for print sizes, gets bleed guides and crop marks. The pkg directory is
// organized into five main areas:
//
//  1. [geom] - Coordinate math (units, bounds, scale factors, anchors)
//  2. [board] - Domain types (sizes, orientations, bleed, presets)
//  3. [layout] - Row packing for generated artboards
//  4. [host] - The document contract the engine drives, plus an in-memory
//     implementation with JSON persistence
//  5. [pipeline] - Batch orchestration (resolve → resize → transform → finish)
//
// Supporting packages: [errors] for coded errors, [observability] for
// batch and host-call hooks, [render] for SVG previews, and [buildinfo]
// for version stamping.
//
// # Data Flow
//
// A batch starts from a preset (sizes plus per-orientation sources) and a
// host document:
//
//	preset.toml ──> pipeline.Options ──> pipeline.Runner ──> host.Document
//	                                          │
//	                                          └──> pipeline.Result (created/skipped/failed)
//
// The CLI and the HTTP API under internal/ are thin wrappers around this
// flow.
package pkg
