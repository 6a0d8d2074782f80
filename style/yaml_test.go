package style

import (
	"errors"
	"strings"
	"testing"
)

const roadLabels = `
id: road-labels
source-layer: roads
minzoom: 10
layout:
  symbol-placement: line
  symbol-spacing: 300
  text-field: "{name}"
  text-font: [Noto Sans Regular]
  text-size:
    stops: [[10, 12], [16, 20]]
  text-max-angle: 30
  text-transform: uppercase
  text-offset: [0, 1]
  icon-size:
    property: scale
    default: 1
  text-rotate:
    property: bearing
    stops: [[0, 1], [20, 2]]
paint:
  text-translate: [2, 4]
  text-translate-anchor: viewport
`

func TestLoadLayer(t *testing.T) {
	layer, err := LoadLayer(strings.NewReader(roadLabels))
	if err != nil {
		t.Fatalf("LoadLayer() error = %v", err)
	}

	if layer.ID != "road-labels" || layer.SourceLayer != "roads" {
		t.Errorf("identity = %q/%q", layer.ID, layer.SourceLayer)
	}
	if layer.MinZoom != 10 || layer.MaxZoom != 24 {
		t.Errorf("zoom range = [%v, %v], want [10, 24]", layer.MinZoom, layer.MaxZoom)
	}

	l := &layer.Layout
	if l.Placement() != PlacementLine {
		t.Errorf("Placement() = %v, want line", l.Placement())
	}
	if got := l.SymbolSpacing.ConstantOr(0); got != 300 {
		t.Errorf("symbol-spacing = %v, want 300", got)
	}
	if got := l.TextField.Value(0, props{"name": "Elm"}); got != "Elm" {
		t.Errorf("text-field = %q, want Elm", got)
	}
	if fonts := l.TextFont.ConstantOr(nil); len(fonts) != 1 || fonts[0] != "Noto Sans Regular" {
		t.Errorf("text-font = %v", fonts)
	}
	if l.TextSize.Kind() != KindCamera {
		t.Errorf("text-size kind = %v, want camera", l.TextSize.Kind())
	}
	if got := l.TextSize.Value(13, nil); got != 16 {
		t.Errorf("text-size(13) = %v, want 16", got)
	}
	if l.IconSize.Kind() != KindSource {
		t.Errorf("icon-size kind = %v, want source", l.IconSize.Kind())
	}
	if got := l.IconSize.Value(0, props{}); got != 1 {
		t.Errorf("icon-size default = %v, want 1", got)
	}
	if got := l.IconSize.Value(0, props{"scale": 2}); got != 2 {
		t.Errorf("icon-size = %v, want 2", got)
	}
	if l.TextRotate.Kind() != KindComposite {
		t.Errorf("text-rotate kind = %v, want composite", l.TextRotate.Kind())
	}
	if got := l.TextRotate.Value(10, props{"bearing": 10}); got != 15 {
		t.Errorf("text-rotate(10) = %v, want 15", got)
	}
	if got := l.TextTransform.ConstantOr(TransformNone); got != TransformUppercase {
		t.Errorf("text-transform = %v", got)
	}
	if got := l.TextOffset.ConstantOr([2]float64{}); got != [2]float64{0, 1} {
		t.Errorf("text-offset = %v", got)
	}

	if layer.Paint.TextTranslate != [2]float64{2, 4} {
		t.Errorf("text-translate = %v", layer.Paint.TextTranslate)
	}
	if layer.Paint.TextTranslateAnchor != TranslateViewport {
		t.Errorf("text-translate-anchor = %v", layer.Paint.TextTranslateAnchor)
	}
	if layer.Paint.IconTranslateAnchor != TranslateMap {
		t.Errorf("icon-translate-anchor = %v, want map default", layer.Paint.IconTranslateAnchor)
	}
}

func TestLoadLayerErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing id", "layout: {text-size: 12}", ErrMissingID},
		{"unknown layout key", "id: a\nlayout: {text-colour: red}", ErrUnknownProperty},
		{"unknown paint key", "id: a\npaint: {text-halo: 1}", ErrUnknownProperty},
		{"bad enum", "id: a\nlayout: {symbol-placement: curve}", ErrInvalidValue},
		{"bad number", "id: a\nlayout: {text-size: big}", ErrInvalidValue},
		{"empty number mapping", "id: a\nlayout: {text-size: {}}", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayer([]byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseLayer() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadLayerDefaults(t *testing.T) {
	layer, err := ParseLayer([]byte("id: poi"))
	if err != nil {
		t.Fatalf("ParseLayer() error = %v", err)
	}
	l := &layer.Layout
	if l.Placement() != PlacementPoint {
		t.Errorf("default placement = %v", l.Placement())
	}
	if got := l.TextSize.ConstantOr(0); got != 16 {
		t.Errorf("default text-size = %v, want 16", got)
	}
	if !l.TextKeepUpright.ConstantOr(false) {
		t.Error("default text-keep-upright = false")
	}
}
