// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package debug

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/maplabel"
	"github.com/gogpu/maplabel/style"
	"github.com/gogpu/maplabel/text"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/paulmach/orb"
)

const testFont = "Test Sans"

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func testAtlas() maplabel.Atlas {
	glyphs := make(map[rune]text.GlyphPosition)
	for i, r := range []rune{'A', 'B'} {
		glyphs[r] = text.GlyphPosition{
			Rect:    text.Rect{X: float64(i * 20), W: 16, H: 20},
			Metrics: text.GlyphMetrics{Width: 14, Height: 18, Left: 1, Top: -5, Advance: 10},
		}
	}
	return maplabel.Atlas{
		Glyphs: text.GlyphAtlas{testFont: glyphs},
		Images: text.ImageAtlas{
			"marker": {Rect: text.Rect{W: 22, H: 22}, PixelRatio: 1},
		},
	}
}

// labeledBucket lays out two point labels with icons at zoom 10 and
// generates their collision outlines.
func labeledBucket(t *testing.T, configure func(layer *style.Layer)) *maplabel.Bucket {
	t.Helper()
	layer := style.NewLayer("labels")
	layer.Layout.TextFont = style.Constant([]string{testFont})
	layer.Layout.TextField = style.Constant("{name}")
	layer.Layout.IconImage = style.Constant("marker")
	if configure != nil {
		configure(layer)
	}

	b, err := maplabel.NewBucket(maplabel.BucketParams{Zoom: 10}, layer)
	if err != nil {
		t.Fatalf("NewBucket() error = %v", err)
	}
	b.Populate([]maplabel.SourceFeature{
		{Geometry: orb.Point{100, 100}, Properties: map[string]any{"name": "A"}, Index: 0},
		{Geometry: orb.Point{500, 500}, Properties: map[string]any{"name": "B"}, Index: 1},
	})
	if err := maplabel.PerformLayout(b, testAtlas(), maplabel.WithCollisionDebug(true)); err != nil {
		t.Fatalf("PerformLayout() error = %v", err)
	}
	return b
}

func circles(n int) []maplabel.CollisionCircle {
	out := make([]maplabel.CollisionCircle, n)
	for i := range out {
		out[i] = maplabel.CollisionCircle{X: float64(10 * i), Y: 20, Radius: 5, Collided: i%2 == 1}
	}
	return out
}

func testView() View {
	return View{Width: 800, Height: 600, Zoom: 10}
}
