// Package collision builds the collision geometry of label placements.
//
// Boxes and circles of every placement in a tile bucket are appended to one
// BoxArray. Callers hold Range handles into it; entries are never modified
// or reordered once appended.
package collision

// Box is a collision box, or a circle when Radius > 0. Coordinates are tile
// units relative to the anchor point.
type Box struct {
	AnchorX, AnchorY float64
	X1, Y1, X2, Y2   float64

	FeatureIndex     int
	SourceLayerIndex int
	BucketIndex      int

	Radius float64

	// SignedDistanceFromAnchor is the padded distance of a line circle from
	// the label anchor along the line. Zero for boxes.
	SignedDistanceFromAnchor float64
}

// IsCircle reports whether b is a line collision circle.
func (b Box) IsCircle() bool { return b.Radius > 0 }

// Range is a half-open index range [Start, End) into a BoxArray.
type Range struct {
	Start, End int
}

// Len returns the number of boxes in r.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether r holds no boxes.
func (r Range) Empty() bool { return r.End <= r.Start }

// BoxArray is an append-only store of collision boxes.
type BoxArray struct {
	boxes []Box
}

// NewBoxArray returns an empty box store.
func NewBoxArray() *BoxArray {
	return &BoxArray{}
}

// Append stores b and returns its index.
func (a *BoxArray) Append(b Box) int {
	a.boxes = append(a.boxes, b)
	return len(a.boxes) - 1
}

// Len returns the number of stored boxes.
func (a *BoxArray) Len() int { return len(a.boxes) }

// At returns a copy of the box at index i.
func (a *BoxArray) At(i int) Box { return a.boxes[i] }

// Boxes returns a copy of the boxes in r.
func (a *BoxArray) Boxes(r Range) []Box {
	if r.Empty() {
		return nil
	}
	return append([]Box(nil), a.boxes[r.Start:r.End]...)
}

// Reset empties the store for a new layout pass.
func (a *BoxArray) Reset() {
	a.boxes = a.boxes[:0]
}
