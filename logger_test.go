package maplabel

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/gogpu/maplabel/style"
)

// recordHandler keeps every record it handles, with the attributes
// flattened into a map.
type recordHandler struct {
	mu      *sync.Mutex
	records *[]loggedRecord
}

type loggedRecord struct {
	level slog.Level
	msg   string
	attrs map[string]string
}

func newRecordHandler() recordHandler {
	return recordHandler{mu: &sync.Mutex{}, records: &[]loggedRecord{}}
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordHandler) Handle(_ context.Context, r slog.Record) error {
	rec := loggedRecord{level: r.Level, msg: r.Message, attrs: make(map[string]string)}
	r.Attrs(func(a slog.Attr) bool {
		rec.attrs[a.Key] = a.Value.String()
		return true
	})
	h.mu.Lock()
	*h.records = append(*h.records, rec)
	h.mu.Unlock()
	return nil
}

func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordHandler) WithGroup(string) slog.Handler      { return h }

// find returns the records with message msg.
func (h recordHandler) find(msg string) []loggedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []loggedRecord
	for _, r := range *h.records {
		if r.msg == msg {
			out = append(out, r)
		}
	}
	return out
}

func captureLogs(t *testing.T) recordHandler {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	h := newRecordHandler()
	SetLogger(slog.New(h))
	return h
}

func TestLoggerSilentUntilSet(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("cleared logger accepts warnings")
	}

	h := newRecordHandler()
	SetLogger(slog.New(h))
	SetLogger(nil)
	layoutFeatures(t, testLayer(labelField), []SourceFeature{point(10, 10, named("A"))})
	if n := len(*h.records); n != 0 {
		t.Errorf("replaced logger still received %d records", n)
	}
}

func TestLayoutDoneRecord(t *testing.T) {
	h := captureLogs(t)

	layer := testLayer(func(l *style.Layout) {
		labelField(l)
		l.IconImage = style.Constant("marker")
		l.IconSize = style.Source(1.0, style.NumberProperty("scale", 1))
	})
	layoutFeatures(t, layer, []SourceFeature{
		point(10, 10, named("A")),
		point(20, 20, named("B")),
	})

	records := h.find("maplabel: layout done")
	if len(records) != 1 {
		t.Fatalf("layout done records = %d, want 1", len(records))
	}
	r := records[0]
	if r.level != slog.LevelDebug {
		t.Errorf("level = %v, want debug", r.level)
	}
	want := map[string]string{
		"layer":     "labels",
		"zoom":      "10",
		"features":  "2",
		"instances": "2",
		"textSize":  "constant",
		"iconSize":  "source",
	}
	for k, v := range want {
		if r.attrs[k] != v {
			t.Errorf("attr %s = %q, want %q", k, r.attrs[k], v)
		}
	}
}

func TestLayoutWarningRecords(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*style.Layout)
		features  []SourceFeature
		msg       string
		kind      string
	}{
		{
			name: "icon size overflow",
			configure: func(l *style.Layout) {
				l.IconImage = style.Constant("marker")
				l.IconSize = style.Source(1.0, style.NumberProperty("scale", 1))
			},
			features: []SourceFeature{point(10, 10, map[string]any{"scale": 300})},
			msg:      `maplabel: value for "icon-size" is >= 256; reduce "icon-size"`,
			kind:     "icon_size_range",
		},
		{
			name: "mixed sdf icons",
			configure: func(l *style.Layout) {
				l.IconImage = style.Constant("{icon}")
			},
			features: []SourceFeature{
				point(10, 10, map[string]any{"icon": "marker"}),
				point(20, 20, map[string]any{"icon": "sdf"}),
				point(30, 30, map[string]any{"icon": "sdf"}),
			},
			msg:  "maplabel: cannot mix SDF and non-SDF icons in one bucket",
			kind: "mixed_sdf_icons",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := captureLogs(t)
			layoutFeatures(t, testLayer(tt.configure), tt.features)

			records := h.find(tt.msg)
			if len(records) != 1 {
				t.Fatalf("records for %q = %d, want 1", tt.msg, len(records))
			}
			r := records[0]
			if r.level != slog.LevelWarn || r.attrs["kind"] != tt.kind || r.attrs["layer"] != "labels" {
				t.Errorf("record = %v %v, want warn with kind=%s layer=labels", r.level, r.attrs, tt.kind)
			}
		})
	}
}

func TestSetLoggerDuringLayout(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b, err := NewBucket(BucketParams{Zoom: 10, Index: i}, testLayer(labelField))
			if err != nil {
				t.Errorf("NewBucket() error = %v", err)
				return
			}
			b.Populate([]SourceFeature{point(float64(10+10*i), 10, named("A"))})
			if err := PerformLayout(b, testAtlas()); err != nil {
				t.Errorf("PerformLayout() error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.New(newRecordHandler()))
			SetLogger(nil)
		}()
	}
	wg.Wait()
}
