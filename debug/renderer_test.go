// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package debug

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/maplabel"
	"github.com/gogpu/naga"
)

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return nil }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// mockHALProvider additionally exposes HAL types.
type mockHALProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *mockHALProvider) HalDevice() any { return m.device }
func (m *mockHALProvider) HalQueue() any  { return m.queue }

func TestNewRenderer(t *testing.T) {
	if _, err := NewRenderer(nil, nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewRenderer(nil, nil) error = %v, want ErrNilDevice", err)
	}

	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewRenderer(device, queue, WithSampleCount(4), WithTargetFormat(gputypes.TextureFormatRGBA8Unorm))
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	if r.samples != 4 || r.format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("options not applied: samples %d, format %v", r.samples, r.format)
	}
	if r.boxPipeline != nil || r.circlePipeline != nil {
		t.Error("pipelines created before Prepare")
	}
}

func TestNewRendererFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		wantErr  bool
	}{
		{"no HAL access", &mockProvider{}, true},
		{"wrong device type", &mockHALProvider{device: "device", queue: queue}, true},
		{"wrong queue type", &mockHALProvider{device: device, queue: 42}, true},
		{"ok", &mockHALProvider{mockProvider: mockProvider{format: gputypes.TextureFormatRGBA8Unorm}, device: device, queue: queue}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRendererFromProvider(tt.provider)
			if tt.wantErr {
				if !errors.Is(err, ErrNoHALProvider) {
					t.Errorf("error = %v, want ErrNoHALProvider", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if r.format != gputypes.TextureFormatRGBA8Unorm {
				t.Errorf("format = %v, want provider surface format", r.format)
			}
		})
	}
}

func TestRendererRecordBeforePrepare(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewRenderer(device, queue)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	if err := r.Record(nil); !errors.Is(err, ErrNotPrepared) {
		t.Errorf("Record() error = %v, want ErrNotPrepared", err)
	}
}

func TestRendererFrameLifecycle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewRenderer(device, queue)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	defer r.Destroy()

	b := labeledBucket(t, nil)
	b.SetCollisionCircles(circles(3), maplabel.Identity4(), maplabel.Identity4())
	frame := BuildFrame([]Tile{{Bucket: b, Matrix: maplabel.Identity4()}}, testView())

	if err := r.Prepare(frame); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if r.boxPipeline == nil || r.circlePipeline == nil {
		t.Fatal("pipelines not created")
	}
	if r.frame == nil || len(r.frame.boxes) != 1 || len(r.frame.circles) != 1 {
		t.Fatalf("frame resources = %+v", r.frame)
	}
	if got := r.frame.boxes[0].calls; len(got) != 1 || got[0].indexCount != 16 {
		t.Errorf("box draw calls = %+v, want one 16 index draw", got)
	}
	if r.QuadCapacity() != 3 {
		t.Errorf("QuadCapacity() = %d, want 3", r.QuadCapacity())
	}
	if r.CachedOutlines() != 1 {
		t.Errorf("CachedOutlines() = %d, want 1", r.CachedOutlines())
	}

	r.EndFrame()
	if r.frame != nil {
		t.Error("frame resources kept after EndFrame")
	}
	if r.CachedOutlines() != 1 {
		t.Errorf("outlines drawn by the ended frame released: %d", r.CachedOutlines())
	}

	if err := r.Prepare(BuildFrame(nil, testView())); err != nil {
		t.Fatalf("Prepare(empty) error = %v", err)
	}
	r.EndFrame()
	if r.CachedOutlines() != 0 {
		t.Errorf("CachedOutlines() = %d after a frame without them, want 0", r.CachedOutlines())
	}
}

func TestRendererOutlinesReused(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewRenderer(device, queue)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	defer r.Destroy()

	b := labeledBucket(t, nil)
	tiles := []Tile{{Bucket: b, Matrix: maplabel.Identity4()}}

	if err := r.Prepare(BuildFrame(tiles, testView())); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	first := r.outlines[b.TextCollisionBox()]
	r.EndFrame()

	if err := r.Prepare(BuildFrame(tiles, testView())); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if r.outlines[b.TextCollisionBox()] != first {
		t.Error("outline buffers uploaded again for an unchanged bucket")
	}
	r.EndFrame()
}

func TestRendererQuadIndexOnlyGrows(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewRenderer(device, queue)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	defer r.Destroy()

	b := labeledBucket(t, nil)
	tiles := []Tile{{Bucket: b, Matrix: maplabel.Identity4()}}

	for _, tc := range []struct{ circles, want int }{{5, 5}, {2, 5}, {8, 8}} {
		b.SetCollisionCircles(circles(tc.circles), maplabel.Identity4(), maplabel.Identity4())
		if err := r.Prepare(BuildFrame(tiles, testView())); err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		if r.QuadCapacity() != tc.want {
			t.Errorf("%d circles: QuadCapacity() = %d, want %d", tc.circles, r.QuadCapacity(), tc.want)
		}
		r.EndFrame()
	}
}

func TestRendererDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewRenderer(device, queue)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	b := labeledBucket(t, nil)
	b.SetCollisionCircles(circles(1), maplabel.Identity4(), maplabel.Identity4())
	if err := r.Prepare(BuildFrame([]Tile{{Bucket: b, Matrix: maplabel.Identity4()}}, testView())); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	r.Destroy()
	if r.frame != nil || r.quadIndexBuf != nil || r.boxPipeline != nil || r.CachedOutlines() != 0 {
		t.Error("resources kept after Destroy")
	}
	r.Destroy()
}

func TestShaderCompilation(t *testing.T) {
	shaders := map[string]string{
		"collision_box":    boxShaderSource,
		"collision_circle": circleShaderSource,
	}
	for name, src := range shaders {
		t.Run(name, func(t *testing.T) {
			if src == "" {
				t.Fatal("shader source is empty")
			}
			spirv, err := naga.Compile(src)
			if err != nil {
				if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
					t.Skipf("Skipping: naga feature not yet implemented: %v", err)
				}
				t.Fatalf("failed to compile %s shader: %v", name, err)
			}
			if len(spirv) == 0 {
				t.Error("empty SPIR-V output")
			}
		})
	}
}
