package maplabel

import (
	"sync"
	"testing"
)

func TestWarningKindString(t *testing.T) {
	tests := []struct {
		kind WarningKind
		want string
	}{
		{WarnMixedSDFIcons, "mixed_sdf_icons"},
		{WarnTextSizeRange, "text_size_range"},
		{WarnIconSizeRange, "icon_size_range"},
		{WarnTooManyGlyphs, "too_many_glyphs"},
		{0, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("WarningKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	d := NewDiagnostics()
	d.record(Warning{Kind: WarnTextSizeRange, Layer: "roads", Message: "too big"})
	d.record(Warning{Kind: WarnMixedSDFIcons, Layer: "poi", Message: "mixed"})
	d.record(Warning{Kind: WarnTextSizeRange, Layer: "roads", Message: "too big"})

	if d.Len() != 3 {
		t.Errorf("Len() = %d, want 3", d.Len())
	}
	if got := d.Count(WarnTextSizeRange); got != 2 {
		t.Errorf("Count(text_size_range) = %d, want 2", got)
	}
	w := d.Warnings()
	if w[1].String() != "poi: mixed" {
		t.Errorf("Warnings()[1] = %q", w[1].String())
	}
	w[0].Layer = "changed"
	if d.Warnings()[0].Layer != "roads" {
		t.Error("Warnings() returned shared storage")
	}

	d.Reset()
	if d.Len() != 0 {
		t.Errorf("Len() after Reset = %d", d.Len())
	}
}

func TestDiagnosticsConcurrent(t *testing.T) {
	d := NewDiagnostics()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				d.record(Warning{Kind: WarnTooManyGlyphs})
				_ = d.Count(WarnTooManyGlyphs)
			}
		}()
	}
	wg.Wait()
	if d.Len() != 1600 {
		t.Errorf("Len() = %d, want 1600", d.Len())
	}
}
