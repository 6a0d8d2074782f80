package maplabel

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by PerformLayout.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	FeaturesTotal        prometheus.Counter
	SymbolInstancesTotal prometheus.Counter
	GlyphQuadsTotal      prometheus.Counter
	WarningsTotal        *prometheus.CounterVec
	LayoutDuration       prometheus.Histogram
}

// NewMetrics creates the layout collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		FeaturesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "maplabel_features_total",
				Help: "Total number of features laid out.",
			},
		),
		SymbolInstancesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "maplabel_symbol_instances_total",
				Help: "Total number of symbol instances created.",
			},
		),
		GlyphQuadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "maplabel_glyph_quads_total",
				Help: "Total number of glyph quads written to vertex arrays.",
			},
		),
		WarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maplabel_warnings_total",
				Help: "Total layout warnings by kind.",
			},
			[]string{"kind"},
		),
		LayoutDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "maplabel_layout_duration_seconds",
				Help:    "Duration of one bucket layout pass in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.FeaturesTotal, m.SymbolInstancesTotal, m.GlyphQuadsTotal, m.WarningsTotal, m.LayoutDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("maplabel: register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observeLayout(features, instances, glyphQuads int, d time.Duration) {
	if m == nil {
		return
	}
	m.FeaturesTotal.Add(float64(features))
	m.SymbolInstancesTotal.Add(float64(instances))
	m.GlyphQuadsTotal.Add(float64(glyphQuads))
	m.LayoutDuration.Observe(d.Seconds())
}

func (m *Metrics) warning(k WarningKind) {
	if m == nil {
		return
	}
	m.WarningsTotal.WithLabelValues(k.String()).Inc()
}
