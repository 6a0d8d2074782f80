// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package debug draws the collision geometry of laid out symbol buckets.
//
// [BuildFrame] gathers, for every visible tile, the collision box outlines
// generated by [maplabel.Bucket.GenerateCollisionDebugBuffers] and the
// collision circles stored by the latest placement pass. A [Renderer]
// uploads the frame and records it into a caller-owned render pass: box
// outlines as line lists against their existing index buffers, circles as
// screen-space quads against one shared quad index buffer.
//
// The renderer is not safe for concurrent use.
package debug
