package maplabel

import (
	"github.com/gogpu/maplabel/quad"
	"github.com/gogpu/maplabel/text"
)

// LayoutOption configures a PerformLayout call.
//
// Example:
//
//	diag := maplabel.NewDiagnostics()
//	err := maplabel.PerformLayout(bucket, atlas,
//	    maplabel.WithShaper(shaper),
//	    maplabel.WithDiagnostics(diag))
type LayoutOption func(*layoutOptions)

type layoutOptions struct {
	shaper         text.Shaper
	quads          quad.Builder
	diag           *Diagnostics
	metrics        *Metrics
	collisionDebug bool
}

func defaultLayoutOptions() layoutOptions {
	return layoutOptions{
		shaper: text.NewMetricShaper(),
		quads:  quad.Default,
	}
}

// WithShaper sets the text shaper. The default shapes with atlas glyph
// metrics only.
func WithShaper(s text.Shaper) LayoutOption {
	return func(o *layoutOptions) {
		o.shaper = s
	}
}

// WithQuadBuilder replaces the glyph and icon quad builder.
func WithQuadBuilder(b quad.Builder) LayoutOption {
	return func(o *layoutOptions) {
		o.quads = b
	}
}

// WithDiagnostics records layout warnings in d in addition to logging them.
func WithDiagnostics(d *Diagnostics) LayoutOption {
	return func(o *layoutOptions) {
		o.diag = d
	}
}

// WithMetrics updates m after the layout pass.
func WithMetrics(m *Metrics) LayoutOption {
	return func(o *layoutOptions) {
		o.metrics = m
	}
}

// WithCollisionDebug generates collision box debug geometry after layout.
func WithCollisionDebug(enabled bool) LayoutOption {
	return func(o *layoutOptions) {
		o.collisionDebug = enabled
	}
}
