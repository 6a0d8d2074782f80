// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package debug

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/maplabel"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/collision_box.wgsl
var boxShaderSource string

//go:embed shaders/collision_circle.wgsl
var circleShaderSource string

var (
	// ErrNilDevice is returned by NewRenderer without a device or queue.
	ErrNilDevice = errors.New("debug: nil device or queue")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL types.
	ErrNoHALProvider = errors.New("debug: provider does not expose HAL types")

	// ErrNotPrepared is returned by Record before Prepare.
	ErrNotPrepared = errors.New("debug: frame not prepared")
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithTargetFormat sets the color format of the render pass the renderer
// records into. The default is BGRA8Unorm.
func WithTargetFormat(format gputypes.TextureFormat) Option {
	return func(r *Renderer) {
		r.format = format
	}
}

// WithSampleCount sets the multisample count of the target. Zero means 1.
func WithSampleCount(n uint32) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.samples = n
		}
	}
}

// Renderer draws collision debug frames: box outlines as line lists and
// collision circles as screen-space quads.
//
// A frame is drawn in three steps:
//
//	r.Prepare(frame) // upload per-frame buffers
//	r.Record(rp)     // inside the caller's render pass
//	r.EndFrame()     // release per-frame buffers once the pass is submitted
//
// Outline buffers are uploaded once per CollisionDebugBuffers and reused
// while later frames keep drawing them. The quad index buffer is shared by
// all circle batches and only grows.
type Renderer struct {
	device hal.Device
	queue  hal.Queue

	format  gputypes.TextureFormat
	samples uint32

	boxShader      hal.ShaderModule
	circleShader   hal.ShaderModule
	uniformLayout  hal.BindGroupLayout
	pipeLayout     hal.PipelineLayout
	boxPipeline    hal.RenderPipeline
	circlePipeline hal.RenderPipeline

	outlines map[*maplabel.CollisionDebugBuffers]*outlineBuffers

	quadIndexBuf hal.Buffer
	quadCapacity int

	frame *frameResources
}

// NewRenderer creates a renderer on device. Pipelines are created by the
// first Prepare.
func NewRenderer(device hal.Device, queue hal.Queue, opts ...Option) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	r := &Renderer{
		device:   device,
		queue:    queue,
		format:   gputypes.TextureFormatBGRA8Unorm,
		samples:  1,
		outlines: make(map[*maplabel.CollisionDebugBuffers]*outlineBuffers),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewRendererFromProvider creates a renderer on the device of a shared GPU
// context. The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. Its surface format becomes the
// default target format.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	if format := provider.SurfaceFormat(); format != 0 {
		opts = append([]Option{WithTargetFormat(format)}, opts...)
	}
	return NewRenderer(device, queue, opts...)
}

// Prepare uploads the buffers frame draws with. Resources of a previous
// frame that was not ended are released first.
func (r *Renderer) Prepare(frame *Frame) error {
	if frame == nil {
		return nil
	}
	if r.frame != nil {
		r.EndFrame()
	}
	if err := r.ensurePipelines(); err != nil {
		return err
	}

	fr := &frameResources{}
	if err := r.buildBoxResources(fr, frame); err != nil {
		fr.destroy(r.device)
		return err
	}
	if err := r.buildCircleResources(fr, frame); err != nil {
		fr.destroy(r.device)
		return err
	}
	r.frame = fr
	return nil
}

// Record records the prepared frame into rp. The render pass target must
// match the renderer's format and sample count.
func (r *Renderer) Record(rp hal.RenderPassEncoder) error {
	fr := r.frame
	if fr == nil {
		return ErrNotPrepared
	}

	if len(fr.boxes) > 0 {
		rp.SetPipeline(r.boxPipeline)
		for _, b := range fr.boxes {
			rp.SetBindGroup(0, b.bindGroup, nil)
			rp.SetVertexBuffer(0, b.outline.vertBuf, 0)
			rp.SetIndexBuffer(b.outline.indexBuf, gputypes.IndexFormatUint16, 0)
			for _, c := range b.calls {
				rp.DrawIndexed(c.indexCount, 1, c.firstIndex, c.baseVertex, 0)
			}
		}
	}

	if len(fr.circles) > 0 {
		rp.SetPipeline(r.circlePipeline)
		rp.SetVertexBuffer(0, fr.circleVertBuf, 0)
		rp.SetIndexBuffer(r.quadIndexBuf, gputypes.IndexFormatUint32, 0)
		for _, c := range fr.circles {
			rp.SetBindGroup(0, c.bindGroup, nil)
			rp.DrawIndexed(c.call.indexCount, 1, c.call.firstIndex, c.call.baseVertex, 0)
		}
	}
	return nil
}

// EndFrame releases the per-frame buffers of the prepared frame and the
// outline buffers it no longer draws. Call it after the render pass has
// been submitted.
func (r *Renderer) EndFrame() {
	fr := r.frame
	if fr == nil {
		return
	}
	fr.destroy(r.device)
	r.frame = nil

	released := 0
	for key, o := range r.outlines {
		if _, used := fr.used[key]; used {
			continue
		}
		o.destroy(r.device)
		delete(r.outlines, key)
		released++
	}
	if released > 0 {
		maplabel.Logger().Debug("debug: released outline buffers", "count", released)
	}
}

// Destroy releases all GPU resources held by the renderer. Safe to call
// multiple times.
func (r *Renderer) Destroy() {
	if r.frame != nil {
		r.frame.destroy(r.device)
		r.frame = nil
	}
	for key, o := range r.outlines {
		o.destroy(r.device)
		delete(r.outlines, key)
	}
	if r.quadIndexBuf != nil {
		r.device.DestroyBuffer(r.quadIndexBuf)
		r.quadIndexBuf = nil
		r.quadCapacity = 0
	}
	r.destroyPipelines()
}

// QuadCapacity returns the number of circles the shared quad index buffer
// covers.
func (r *Renderer) QuadCapacity() int { return r.quadCapacity }

// CachedOutlines returns the number of outline buffer sets held on the GPU.
func (r *Renderer) CachedOutlines() int { return len(r.outlines) }

func (r *Renderer) buildBoxResources(fr *frameResources, frame *Frame) error {
	fr.used = make(map[*maplabel.CollisionDebugBuffers]struct{}, len(frame.Boxes))
	for i := range frame.Boxes {
		d := &frame.Boxes[i]
		outline, err := r.ensureOutline(d.Outlines)
		if err != nil {
			return err
		}
		fr.used[d.Outlines] = struct{}{}

		uniformBuf, bindGroup, err := r.createUniforms("collision_box_uniforms", boxUniformBytes(d, frame))
		if err != nil {
			return err
		}
		fr.uniformBufs = append(fr.uniformBufs, uniformBuf)
		fr.bindGroups = append(fr.bindGroups, bindGroup)
		fr.boxes = append(fr.boxes, boxResources{
			outline:   outline,
			bindGroup: bindGroup,
			calls:     outlineDrawCalls(d.Outlines),
		})
	}
	return nil
}

func (r *Renderer) buildCircleResources(fr *frameResources, frame *Frame) error {
	if len(frame.CircleVertices) == 0 {
		return nil
	}
	if err := r.ensureQuadIndex(frame.CircleCount()); err != nil {
		return err
	}

	vertBuf, err := r.createAndUploadBuffer("collision_circle_vertices", circleVertexBytes(frame.CircleVertices),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	fr.circleVertBuf = vertBuf

	for i := range frame.CircleBatches {
		c := &frame.CircleBatches[i]
		uniformBuf, bindGroup, err := r.createUniforms("collision_circle_uniforms", circleUniformBytes(c, frame))
		if err != nil {
			return err
		}
		fr.uniformBufs = append(fr.uniformBufs, uniformBuf)
		fr.bindGroups = append(fr.bindGroups, bindGroup)
		fr.circles = append(fr.circles, circleResources{bindGroup: bindGroup, call: circleDrawCall(c)})
	}
	return nil
}

// ensureOutline returns the uploaded buffers of d, uploading them when d
// is new or has changed size since the last upload.
func (r *Renderer) ensureOutline(d *maplabel.CollisionDebugBuffers) (*outlineBuffers, error) {
	if o, ok := r.outlines[d]; ok {
		if o.vertexCount == len(d.Vertices) && o.lineCount == len(d.Lines) {
			return o, nil
		}
		o.destroy(r.device)
		delete(r.outlines, d)
	}

	vertBuf, err := r.createAndUploadBuffer("collision_box_vertices", boxVertexBytes(d),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	indexBuf, err := r.createAndUploadBuffer("collision_box_indices", alignedIndexBytes(d.IndexBytes()),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		r.device.DestroyBuffer(vertBuf)
		return nil, err
	}
	o := &outlineBuffers{
		vertBuf:     vertBuf,
		indexBuf:    indexBuf,
		vertexCount: len(d.Vertices),
		lineCount:   len(d.Lines),
	}
	r.outlines[d] = o
	return o, nil
}

// ensureQuadIndex grows the shared quad index buffer to cover circles.
func (r *Renderer) ensureQuadIndex(circles int) error {
	if circles <= r.quadCapacity {
		return nil
	}
	buf, err := r.createAndUploadBuffer("collision_circle_indices", quadIndexBytes(circles),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	if r.quadIndexBuf != nil {
		r.device.DestroyBuffer(r.quadIndexBuf)
	}
	r.quadIndexBuf = buf
	r.quadCapacity = circles
	return nil
}

func (r *Renderer) createUniforms(label string, data []byte) (hal.Buffer, hal.BindGroup, error) {
	buf, err := r.createAndUploadBuffer(label, data, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, nil, err
	}
	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding:  0,
				Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: uint64(len(data))},
			},
		},
	})
	if err != nil {
		r.device.DestroyBuffer(buf)
		return nil, nil, fmt.Errorf("create %s bind group: %w", label, err)
	}
	return buf, bindGroup, nil
}

func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// alignedIndexBytes pads uint16 index data to the 4 byte copy alignment.
func alignedIndexBytes(b []byte) []byte {
	if len(b)%4 == 0 {
		return b
	}
	return append(b, 0, 0)
}

// ensurePipelines creates the shaders, layouts, and both render pipelines
// if they don't already exist.
func (r *Renderer) ensurePipelines() error {
	if r.boxPipeline != nil && r.circlePipeline != nil {
		return nil
	}
	if err := r.createPipelines(); err != nil {
		r.destroyPipelines()
		return err
	}
	return nil
}

func (r *Renderer) createPipelines() error {
	if boxShaderSource == "" || circleShaderSource == "" {
		return fmt.Errorf("collision debug shader source is empty")
	}

	boxShader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "collision_box_shader",
		Source: hal.ShaderSource{WGSL: boxShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile collision box shader: %w", err)
	}
	r.boxShader = boxShader

	circleShader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "collision_circle_shader",
		Source: hal.ShaderSource{WGSL: circleShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile collision circle shader: %w", err)
	}
	r.circleShader = circleShader

	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "collision_debug_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collision debug uniform layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "collision_debug_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create collision debug pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	boxPipeline, err := r.createPipeline("collision_box_pipeline", r.boxShader,
		boxVertexLayout(), gputypes.PrimitiveTopologyLineList)
	if err != nil {
		return err
	}
	r.boxPipeline = boxPipeline

	circlePipeline, err := r.createPipeline("collision_circle_pipeline", r.circleShader,
		circleVertexLayout(), gputypes.PrimitiveTopologyTriangleList)
	if err != nil {
		return err
	}
	r.circlePipeline = circlePipeline
	return nil
}

func (r *Renderer) createPipeline(label string, shader hal.ShaderModule, buffers []gputypes.VertexBufferLayout,
	topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: r.samples,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return pipeline, nil
}

// destroyPipelines releases all pipeline resources in reverse creation order.
func (r *Renderer) destroyPipelines() {
	if r.device == nil {
		return
	}
	if r.circlePipeline != nil {
		r.device.DestroyRenderPipeline(r.circlePipeline)
		r.circlePipeline = nil
	}
	if r.boxPipeline != nil {
		r.device.DestroyRenderPipeline(r.boxPipeline)
		r.boxPipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.circleShader != nil {
		r.device.DestroyShaderModule(r.circleShader)
		r.circleShader = nil
	}
	if r.boxShader != nil {
		r.device.DestroyShaderModule(r.boxShader)
		r.boxShader = nil
	}
}

// boxVertexLayout returns the vertex buffer layout for the box pipeline.
func boxVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: boxVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // anchor
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2}, // extrude
			},
		},
	}
}

// circleVertexLayout returns the vertex buffer layout for the circle pipeline.
func circleVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: circleVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32, Offset: 8, ShaderLocation: 1},   // radius
				{Format: gputypes.VertexFormatFloat32, Offset: 12, ShaderLocation: 2},  // collided
				{Format: gputypes.VertexFormatFloat32, Offset: 16, ShaderLocation: 3},  // corner
			},
		},
	}
}

// outlineBuffers are the uploaded buffers of one CollisionDebugBuffers.
type outlineBuffers struct {
	vertBuf     hal.Buffer
	indexBuf    hal.Buffer
	vertexCount int
	lineCount   int
}

func (o *outlineBuffers) destroy(device hal.Device) {
	if o.indexBuf != nil {
		device.DestroyBuffer(o.indexBuf)
	}
	if o.vertBuf != nil {
		device.DestroyBuffer(o.vertBuf)
	}
}

type boxResources struct {
	outline   *outlineBuffers
	bindGroup hal.BindGroup
	calls     []drawCall
}

type circleResources struct {
	bindGroup hal.BindGroup
	call      drawCall
}

// frameResources holds the GPU resources of one prepared frame.
type frameResources struct {
	boxes   []boxResources
	circles []circleResources

	circleVertBuf hal.Buffer
	uniformBufs   []hal.Buffer
	bindGroups    []hal.BindGroup

	// used holds the outlines drawn by the frame.
	used map[*maplabel.CollisionDebugBuffers]struct{}
}

func (r *frameResources) destroy(device hal.Device) {
	for _, bg := range r.bindGroups {
		device.DestroyBindGroup(bg)
	}
	for _, buf := range r.uniformBufs {
		device.DestroyBuffer(buf)
	}
	if r.circleVertBuf != nil {
		device.DestroyBuffer(r.circleVertBuf)
	}
	r.bindGroups = nil
	r.uniformBufs = nil
	r.circleVertBuf = nil
}
