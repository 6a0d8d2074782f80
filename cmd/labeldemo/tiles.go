package main

import (
	"cmp"
	"slices"

	"github.com/gogpu/maplabel"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
)

// tileFeatures are the source features of one tile, in tile units.
type tileFeatures struct {
	Tile     maptile.Tile
	Features []maplabel.SourceFeature
}

// cutTiles assigns every feature of fc to the tiles at zoom its bound
// touches and converts its geometry to the units of each tile. A point
// goes to the one tile containing it. Tiles are returned in x, y order.
func cutTiles(fc *geojson.FeatureCollection, zoom maptile.Zoom) []tileFeatures {
	byTile := make(map[maptile.Tile][]maplabel.SourceFeature)
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		for _, t := range coveringTiles(f.Geometry, zoom) {
			byTile[t] = append(byTile[t], maplabel.SourceFeature{
				Geometry:   toTileUnits(f.Geometry, t),
				Properties: f.Properties,
				Index:      i,
			})
		}
	}

	out := make([]tileFeatures, 0, len(byTile))
	for t, features := range byTile {
		out = append(out, tileFeatures{Tile: t, Features: features})
	}
	slices.SortFunc(out, func(a, b tileFeatures) int {
		return cmp.Or(cmp.Compare(a.Tile.X, b.Tile.X), cmp.Compare(a.Tile.Y, b.Tile.Y))
	})
	return out
}

// coveringTiles returns the tiles at z overlapping the bound of g.
func coveringTiles(g orb.Geometry, z maptile.Zoom) []maptile.Tile {
	if p, ok := g.(orb.Point); ok {
		return []maptile.Tile{maptile.At(p, z)}
	}
	b := g.Bound()
	nw := maptile.At(orb.Point{b.Min[0], b.Max[1]}, z)
	se := maptile.At(orb.Point{b.Max[0], b.Min[1]}, z)

	var out []maptile.Tile
	for x := nw.X; x <= se.X; x++ {
		for y := nw.Y; y <= se.Y; y++ {
			out = append(out, maptile.New(x, y, z))
		}
	}
	return out
}

// toTileUnits projects a WGS84 geometry into the [0, Extent] space of t.
func toTileUnits(g orb.Geometry, t maptile.Tile) orb.Geometry {
	return project.Geometry(orb.Clone(g), func(p orb.Point) orb.Point {
		f := maptile.Fraction(p, t.Z)
		return orb.Point{
			(f[0] - float64(t.X)) * maplabel.Extent,
			(f[1] - float64(t.Y)) * maplabel.Extent,
		}
	})
}
