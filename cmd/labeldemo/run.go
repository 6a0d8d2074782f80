package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/maplabel"
	"github.com/gogpu/maplabel/debug"
	"github.com/gogpu/maplabel/style"
	"github.com/gogpu/maplabel/text"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"
)

// tileResult summarizes the layout of one tile.
type tileResult struct {
	Tile      maptile.Tile
	Features  int
	Instances int
	TextQuads int
	IconQuads int
	Boxes     int

	// DebugLines is the number of collision outline lines, when debug
	// buffers are generated.
	DebugLines int
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	layer, err := loadLayer(cfg.Style)
	if err != nil {
		return err
	}
	fc, err := loadFeatures(cfg.Input)
	if err != nil {
		return err
	}
	fontData := goregular.TTF
	if cfg.Font != "" {
		if fontData, err = os.ReadFile(cfg.Font); err != nil {
			return fmt.Errorf("read font: %w", err)
		}
	}

	zoom := maptile.Zoom(cfg.Zoom)
	tiles := cutTiles(fc, zoom)
	atlas, err := buildAtlas(layer, tiles, fontData, float64(cfg.Zoom))
	if err != nil {
		return err
	}
	shaper, err := newShaper(cfg.Shaper, fontData)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := maplabel.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	diag := maplabel.NewDiagnostics()
	opts := []maplabel.LayoutOption{
		maplabel.WithShaper(shaper),
		maplabel.WithDiagnostics(diag),
		maplabel.WithMetrics(metrics),
		maplabel.WithCollisionDebug(cfg.Debug),
	}

	slog.Info("laying out tiles", "tiles", len(tiles), "zoom", cfg.Zoom, "workers", cfg.Workers)

	results := make([]tileResult, len(tiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, tf := range tiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := maplabel.NewBucket(maplabel.BucketParams{Zoom: float64(cfg.Zoom), Index: i}, layer)
			if err != nil {
				return fmt.Errorf("tile %v: %w", tf.Tile, err)
			}
			b.Populate(tf.Features)
			if err := maplabel.PerformLayout(b, atlas, opts...); err != nil {
				return fmt.Errorf("tile %v: %w", tf.Tile, err)
			}
			results[i] = summarize(tf.Tile, b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeSummary(out, results, diag); err != nil {
		return err
	}
	if cfg.Metrics.Dump {
		return dumpMetrics(out, reg)
	}
	return nil
}

func loadLayer(path string) (*style.Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open style: %w", err)
	}
	defer f.Close()
	return style.LoadLayer(f)
}

func loadFeatures(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return fc, nil
}

// buildAtlas rasterizes every rune the features may display, once per font
// stack the layer resolves to.
func buildAtlas(layer *style.Layer, tiles []tileFeatures, fontData []byte, zoom float64) (maplabel.Atlas, error) {
	stacks := make(map[string]struct{})
	var texts []string
	for _, tf := range tiles {
		for i := range tf.Features {
			f := &tf.Features[i]
			stacks[strings.Join(layer.Layout.TextFont.Value(zoom, f), ",")] = struct{}{}
			label := style.ResolveTokens(layer.Layout.TextField.Value(zoom, f), f)
			texts = append(texts, label, strings.ToUpper(label), strings.ToLower(label))
		}
	}

	atlas := maplabel.Atlas{Glyphs: text.GlyphAtlas{}, Images: text.ImageAtlas{}}
	if len(stacks) == 0 {
		return atlas, nil
	}
	rasterized, err := text.RasterizeGlyphs(fontData, "", text.Runes(texts...))
	if err != nil {
		return maplabel.Atlas{}, err
	}
	for stack := range stacks {
		atlas.Glyphs[stack] = rasterized.Glyphs[""]
	}
	return atlas, nil
}

func newShaper(cfg ShaperConfig, fontData []byte) (text.Shaper, error) {
	var s text.Shaper = text.NewMetricShaper()
	if cfg.Kind == "gotext" {
		gs, err := text.NewGoTextShaper(fontData)
		if err != nil {
			return nil, err
		}
		s = gs
	}
	if cfg.CacheSize <= 0 {
		return s, nil
	}
	return text.NewCachedShaper(s, cfg.CacheSize)
}

func summarize(t maptile.Tile, b *maplabel.Bucket) tileResult {
	r := tileResult{
		Tile:      t,
		Features:  len(b.Features()),
		Instances: len(b.SymbolInstances()),
		TextQuads: len(b.Text().Vertices) / 4,
		IconQuads: len(b.Icon().Vertices) / 4,
		Boxes:     len(b.CollisionBoxes()),
	}
	if b.TextCollisionBox() == nil {
		return r
	}
	view := debug.View{Width: 512, Height: 512, Zoom: b.Params().Zoom}
	tile := debug.Tile{Bucket: b, Matrix: maplabel.Ortho(0, maplabel.Extent, maplabel.Extent, 0, 0, 1)}
	for _, icons := range []bool{false, true} {
		view.Icons = icons
		for _, d := range debug.BuildFrame([]debug.Tile{tile}, view).Boxes {
			r.DebugLines += len(d.Outlines.Lines)
		}
	}
	return r
}

func writeSummary(out io.Writer, results []tileResult, diag *maplabel.Diagnostics) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TILE\tFEATURES\tINSTANCES\tTEXT QUADS\tICON QUADS\tBOXES\tDEBUG LINES")
	var total tileResult
	for _, r := range results {
		fmt.Fprintf(tw, "%d/%d/%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Tile.Z, r.Tile.X, r.Tile.Y, r.Features, r.Instances, r.TextQuads, r.IconQuads, r.Boxes, r.DebugLines)
		total.Features += r.Features
		total.Instances += r.Instances
		total.TextQuads += r.TextQuads
		total.IconQuads += r.IconQuads
		total.Boxes += r.Boxes
		total.DebugLines += r.DebugLines
	}
	fmt.Fprintf(tw, "total\t%d\t%d\t%d\t%d\t%d\t%d\n",
		total.Features, total.Instances, total.TextQuads, total.IconQuads, total.Boxes, total.DebugLines)
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, w := range diag.Warnings() {
		if _, err := fmt.Fprintf(out, "warning: %s\n", w); err != nil {
			return err
		}
	}
	return nil
}

func dumpMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}
