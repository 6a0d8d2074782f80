// Package maplabel lays out map labels for vector tiles.
//
// # Overview
//
// For every feature of a tile layer that carries text or an icon, layout
// finds every valid label anchor, builds the glyph and icon quads drawn at
// each anchor, packs them into GPU-ready vertex arrays and records the
// collision geometry a later placement pass uses to decide which labels
// are shown.
//
// # Quick Start
//
//	layer, err := style.LoadLayer(f)
//	if err != nil {
//	    return err
//	}
//	bucket, err := maplabel.NewBucket(maplabel.BucketParams{Zoom: 14}, layer)
//	if err != nil {
//	    return err
//	}
//	bucket.Populate(features)
//	err = maplabel.PerformLayout(bucket, maplabel.Atlas{Glyphs: glyphs, Images: images})
//
//	for _, inst := range bucket.SymbolInstances() {
//	    fmt.Println(inst.Anchor, inst.TextBoxes, inst.NumGlyphVertices)
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Bucket, PerformLayout, SymbolInstance, SizeData, Diagnostics
//   - style: layout property expressions and YAML layer files
//   - text: shaping, icon shaping, script predicates
//   - anchor: line, line-center, polygon and point anchors
//   - collision: collision box store and collision features
//   - quad: glyph and icon quads
//   - debug: collision debug rendering with wgpu
//
// # Coordinate System
//
// Tiles span [0, Extent) tile units on both axes with the origin at the
// top-left. Shaping units are CSS pixels at a font size of text.OneEm.
//
// # Concurrency
//
// A Bucket belongs to one layout pass at a time. Different buckets may be
// laid out concurrently; Diagnostics and Metrics may be shared between them.
package maplabel
