package anchor

import (
	"math"

	"github.com/gogpu/maplabel/text"
	"github.com/paulmach/orb"
)

// LineParams describes the label being placed along a line.
type LineParams struct {
	// Spacing is the minimum distance between repeated anchors.
	Spacing float64

	// MaxAngle is the turning budget, in radians, within the angle window.
	MaxAngle float64

	// Text is the shaping to fit; the vertical shaping when one exists.
	Text *text.Shaping
	Icon *text.PositionedIcon

	GlyphSize   float64
	BoxScale    float64
	Overscaling float64
	Extent      float64
}

func (p LineParams) angleWindowSize() float64 {
	if p.Text == nil {
		return 0
	}
	return 3.0 / 5.0 * p.GlyphSize * p.BoxScale
}

// labelLength returns the label footprint along the line, unscaled.
func (p LineParams) labelLength() float64 {
	length := 0.0
	if p.Text != nil {
		length = p.Text.Right - p.Text.Left
	}
	if p.Icon != nil {
		length = math.Max(length, p.Icon.Right-p.Icon.Left)
	}
	return length
}

// Anchors returns anchors repeated along line every p.Spacing units. Anchors
// are rounded to integer coordinates, lie inside the tile, leave room for the
// label on both sides and pass CheckMaxAngle.
//
// A line that starts on the tile edge continues from a neighbouring tile, so
// its first anchor is placed half a spacing in. A line that is not continued
// and yields no anchor gets one more attempt at its midpoint.
func Anchors(line orb.LineString, p LineParams) []Anchor {
	if len(line) < 2 {
		return nil
	}
	labelLength := p.labelLength()
	first := line[0]
	continued := first[0] == 0 || first[0] == p.Extent || first[1] == 0 || first[1] == p.Extent

	spacing := p.Spacing
	if spacing-labelLength*p.BoxScale < spacing/4 {
		spacing = labelLength*p.BoxScale + spacing/4
	}
	if spacing <= 0 {
		return nil
	}

	fixedExtraOffset := p.GlyphSize * 2
	var offset float64
	if !continued {
		offset = math.Mod((labelLength/2+fixedExtraOffset)*p.BoxScale*p.Overscaling, spacing)
	} else {
		offset = math.Mod(spacing/2*p.Overscaling, spacing)
	}

	return resample(line, offset, spacing, p.angleWindowSize(), p.MaxAngle,
		labelLength*p.BoxScale, continued, false, p.Extent)
}

func resample(line orb.LineString, offset, spacing, angleWindowSize, maxAngle, labelLength float64,
	continued, placeAtMiddle bool, extent float64) []Anchor {
	halfLabelLength := labelLength / 2
	total := lineLength(line)

	distance := 0.0
	marked := offset - spacing
	var anchors []Anchor

	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		segment := dist(a, b)
		angle := angleTo(b, a)

		for marked+spacing < distance+segment {
			marked += spacing
			t := (marked - distance) / segment
			x := a[0] + (b[0]-a[0])*t
			y := a[1] + (b[1]-a[1])*t

			if x >= 0 && x < extent && y >= 0 && y < extent &&
				marked-halfLabelLength >= 0 && marked+halfLabelLength <= total {
				anchor := Anchor{X: x, Y: y, Angle: angle, Segment: i}.round()
				if angleWindowSize == 0 || CheckMaxAngle(line, anchor, labelLength, angleWindowSize, maxAngle) {
					anchors = append(anchors, anchor)
				}
			}
		}
		distance += segment
	}

	if !placeAtMiddle && len(anchors) == 0 && !continued {
		anchors = resample(line, distance/2, spacing, angleWindowSize, maxAngle, labelLength, continued, true, extent)
	}
	return anchors
}

// CenterAnchor returns the anchor at the middle of line, or false when the
// line is too short or too curved for the label there.
func CenterAnchor(line orb.LineString, p LineParams) (Anchor, bool) {
	windowSize := p.angleWindowSize()
	labelLength := p.labelLength() * p.BoxScale
	center := lineLength(line) / 2

	prev := 0.0
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		segment := dist(a, b)
		if prev+segment > center {
			t := (center - prev) / segment
			anchor := Anchor{
				X:       a[0] + (b[0]-a[0])*t,
				Y:       a[1] + (b[1]-a[1])*t,
				Angle:   angleTo(b, a),
				Segment: i,
			}.round()
			if windowSize == 0 || CheckMaxAngle(line, anchor, labelLength, windowSize, p.MaxAngle) {
				return anchor, true
			}
			return Anchor{}, false
		}
		prev += segment
	}
	return Anchor{}, false
}
