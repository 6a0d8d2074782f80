package collision

import (
	"math"

	"github.com/gogpu/maplabel/anchor"
	"github.com/gogpu/maplabel/text"
	"github.com/paulmach/orb"
)

// Shape is the footprint of a label around its anchor, in shaping units.
type Shape struct {
	Top, Bottom, Left, Right float64
}

// TextShape returns the footprint of a text shaping.
func TextShape(s *text.Shaping) Shape {
	return Shape{Top: s.Top, Bottom: s.Bottom, Left: s.Left, Right: s.Right}
}

// IconShape returns the footprint of a positioned icon.
func IconShape(i *text.PositionedIcon) Shape {
	return Shape{Top: i.Top, Bottom: i.Bottom, Left: i.Left, Right: i.Right}
}

// FeatureParams describes one collision feature.
type FeatureParams struct {
	Line   orb.LineString
	Anchor anchor.Anchor

	FeatureIndex     int
	SourceLayerIndex int
	BucketIndex      int

	BoxScale float64
	Padding  float64

	// AlignLine builds circles that follow Line instead of one box.
	AlignLine bool

	Overscaling float64

	// Rotate is the label rotation in degrees; ignored when AlignLine is set.
	Rotate float64
}

// Feature is the collision geometry of one label part.
type Feature struct {
	Boxes            Range
	FeatureIndex     int
	SourceLayerIndex int
	BucketIndex      int
}

// NewFeature appends the collision geometry of shape to boxes.
//
// Point labels get one padded box, enlarged to the axis-aligned envelope of
// the rotated box when Rotate is set. Line-aligned labels get circles spaced
// half a box height apart along Line, with extra circles past both ends of
// the label for overscaled tiles.
func NewFeature(boxes *BoxArray, shape Shape, p FeatureParams) Feature {
	y1 := shape.Top*p.BoxScale - p.Padding
	y2 := shape.Bottom*p.BoxScale + p.Padding
	x1 := shape.Left*p.BoxScale - p.Padding
	x2 := shape.Right*p.BoxScale + p.Padding

	f := Feature{
		FeatureIndex:     p.FeatureIndex,
		SourceLayerIndex: p.SourceLayerIndex,
		BucketIndex:      p.BucketIndex,
	}
	f.Boxes.Start = boxes.Len()

	if p.AlignLine {
		height := y2 - y1
		if height > 0 {
			height = math.Max(10*p.BoxScale, height)
			addLineCircles(boxes, p, x2-x1, height)
		}
	} else {
		if p.Rotate != 0 {
			x1, y1, x2, y2 = rotatedEnvelope(x1, y1, x2, y2, p.Rotate*math.Pi/180)
		}
		boxes.Append(Box{
			AnchorX:          p.Anchor.X,
			AnchorY:          p.Anchor.Y,
			X1:               x1,
			Y1:               y1,
			X2:               x2,
			Y2:               y2,
			FeatureIndex:     p.FeatureIndex,
			SourceLayerIndex: p.SourceLayerIndex,
			BucketIndex:      p.BucketIndex,
		})
	}

	f.Boxes.End = boxes.Len()
	return f
}

func rotatedEnvelope(x1, y1, x2, y2, angle float64) (minX, minY, maxX, maxY float64) {
	sin, cos := math.Sincos(angle)
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{x1, y1}, {x2, y1}, {x1, y2}, {x2, y2}} {
		x := c[0]*cos - c[1]*sin
		y := c[0]*sin + c[1]*cos
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return minX, minY, maxX, maxY
}

func addLineCircles(boxes *BoxArray, p FeatureParams, labelLength, boxSize float64) {
	line := p.Line
	if !p.Anchor.HasSegment() || p.Anchor.Segment+1 >= len(line) {
		return
	}

	step := boxSize / 2
	nBoxes := int(math.Floor(labelLength / step))
	if nBoxes == 0 {
		nBoxes = 1
	}

	overscaling := p.Overscaling
	if overscaling < 1 {
		overscaling = 1
	}
	paddingFactor := 1 + 0.4*math.Log2(overscaling)
	nPaddingBoxes := int(math.Floor(float64(nBoxes) * paddingFactor / 2))

	// The first circle is centered half a box in so its edge meets the label edge.
	firstBoxOffset := -boxSize / 2
	pt := p.Anchor.Point()
	index := p.Anchor.Segment + 1
	anchorDistance := firstBoxOffset
	labelStart := -labelLength / 2
	paddingStart := labelStart - labelLength/4

	for {
		index--
		if index < 0 {
			if anchorDistance > labelStart {
				return
			}
			index = 0
			break
		}
		anchorDistance -= distance(line[index], pt)
		pt = line[index]
		if anchorDistance <= paddingStart {
			break
		}
	}

	segmentLength := distance(line[index], line[index+1])
	for i := -nPaddingBoxes; i < nBoxes+nPaddingBoxes; i++ {
		boxOffset := float64(i) * step
		boxDistance := labelStart + boxOffset

		// Padding circles beyond the label spread out faster.
		if boxOffset < 0 {
			boxDistance += boxOffset
		}
		if boxOffset > labelLength {
			boxDistance += boxOffset - labelLength
		}

		if boxDistance < anchorDistance {
			continue
		}

		for anchorDistance+segmentLength < boxDistance {
			anchorDistance += segmentLength
			index++
			if index+1 >= len(line) {
				return
			}
			segmentLength = distance(line[index], line[index+1])
		}

		p0, p1 := line[index], line[index+1]
		along := boxDistance - anchorDistance
		center := p0
		if segmentLength > 0 {
			center = orb.Point{
				math.Round(p0[0] + (p1[0]-p0[0])/segmentLength*along),
				math.Round(p0[1] + (p1[1]-p0[1])/segmentLength*along),
			}
		}

		padded := 0.0
		if math.Abs(boxDistance-firstBoxOffset) >= step {
			padded = (boxDistance - firstBoxOffset) * 0.8
		}

		boxes.Append(Box{
			AnchorX:                  center[0],
			AnchorY:                  center[1],
			X1:                       -boxSize / 2,
			Y1:                       -boxSize / 2,
			X2:                       boxSize / 2,
			Y2:                       boxSize / 2,
			FeatureIndex:             p.FeatureIndex,
			SourceLayerIndex:         p.SourceLayerIndex,
			BucketIndex:              p.BucketIndex,
			Radius:                   boxSize / 2,
			SignedDistanceFromAnchor: padded,
		})
	}
}

func distance(a, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
