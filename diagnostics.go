package maplabel

import (
	"fmt"
	"sync"
)

// WarningKind classifies a non-fatal layout condition.
type WarningKind uint8

// Warning kinds.
const (
	// WarnMixedSDFIcons: SDF and non-SDF icons were used in one bucket.
	WarnMixedSDFIcons WarningKind = iota + 1
	// WarnTextSizeRange: a packed text size exceeded MaxPackedSize.
	WarnTextSizeRange
	// WarnIconSizeRange: a packed icon size exceeded MaxPackedSize.
	WarnIconSizeRange
	// WarnTooManyGlyphs: the bucket holds more than MaxGlyphs glyphs.
	WarnTooManyGlyphs
)

// String returns the kind name used in logs and metric labels.
func (k WarningKind) String() string {
	switch k {
	case WarnMixedSDFIcons:
		return "mixed_sdf_icons"
	case WarnTextSizeRange:
		return "text_size_range"
	case WarnIconSizeRange:
		return "icon_size_range"
	case WarnTooManyGlyphs:
		return "too_many_glyphs"
	default:
		return "unknown"
	}
}

// Warning is one recorded non-fatal condition.
type Warning struct {
	Kind    WarningKind
	Layer   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Layer, w.Message)
}

// Diagnostics collects layout warnings. A single Diagnostics may be shared
// by layouts of different tiles running concurrently.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []Warning
}

// NewDiagnostics returns an empty warning collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Warnings returns a copy of the recorded warnings in recording order.
func (d *Diagnostics) Warnings() []Warning {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Warning(nil), d.warnings...)
}

// Len returns the number of recorded warnings.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.warnings)
}

// Count returns the number of recorded warnings of kind k.
func (d *Diagnostics) Count(k WarningKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, w := range d.warnings {
		if w.Kind == k {
			n++
		}
	}
	return n
}

// Reset discards all recorded warnings.
func (d *Diagnostics) Reset() {
	d.mu.Lock()
	d.warnings = nil
	d.mu.Unlock()
}

func (d *Diagnostics) record(w Warning) {
	d.mu.Lock()
	d.warnings = append(d.warnings, w)
	d.mu.Unlock()
}
