package maplabel

import (
	"github.com/gogpu/maplabel/text"
	"github.com/paulmach/orb"
)

// GeometryType is the vector tile geometry type of a feature.
type GeometryType uint8

// Geometry types.
const (
	GeometryUnknown GeometryType = iota
	GeometryPoint
	GeometryLineString
	GeometryPolygon
)

func (t GeometryType) String() string {
	switch t {
	case GeometryPoint:
		return "Point"
	case GeometryLineString:
		return "LineString"
	case GeometryPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// SourceFeature is a tile feature as decoded from the source, in tile
// coordinates.
type SourceFeature struct {
	Geometry         orb.Geometry
	Properties       map[string]any
	Index            int
	SourceLayerIndex int
}

// Property implements style.Feature.
func (f *SourceFeature) Property(name string) (any, bool) {
	v, ok := f.Properties[name]
	return v, ok
}

// Feature is a feature prepared for symbol layout.
type Feature struct {
	// Text is the label text. Nil when the feature has no text.
	Text *text.Formatted

	// Icon is the icon image name. Empty when the feature has no icon.
	Icon string

	// Geometry holds the points, lines or polygon rings of the feature.
	// Each point of a point feature is its own single-point line.
	Geometry []orb.LineString
	Type     GeometryType

	Index            int
	SourceLayerIndex int
	Properties       map[string]any
}

// Property implements style.Feature.
func (f *Feature) Property(name string) (any, bool) {
	v, ok := f.Properties[name]
	return v, ok
}

// flattenGeometry converts orb geometry into line lists and a geometry type.
func flattenGeometry(g orb.Geometry) ([]orb.LineString, GeometryType) {
	switch g := g.(type) {
	case orb.Point:
		return []orb.LineString{{g}}, GeometryPoint
	case orb.MultiPoint:
		out := make([]orb.LineString, len(g))
		for i, p := range g {
			out[i] = orb.LineString{p}
		}
		return out, GeometryPoint
	case orb.LineString:
		return []orb.LineString{g}, GeometryLineString
	case orb.MultiLineString:
		out := make([]orb.LineString, len(g))
		copy(out, g)
		return out, GeometryLineString
	case orb.Ring:
		return []orb.LineString{orb.LineString(g)}, GeometryPolygon
	case orb.Polygon:
		return polygonLines(g), GeometryPolygon
	case orb.MultiPolygon:
		var out []orb.LineString
		for _, p := range g {
			out = append(out, polygonLines(p)...)
		}
		return out, GeometryPolygon
	default:
		return nil, GeometryUnknown
	}
}

func polygonLines(p orb.Polygon) []orb.LineString {
	out := make([]orb.LineString, len(p))
	for i, r := range p {
		out[i] = orb.LineString(r)
	}
	return out
}
