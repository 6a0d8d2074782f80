package anchor

import (
	"math"

	"github.com/paulmach/orb"
)

// CheckMaxAngle reports whether a label of labelLength centered on a keeps
// the sum of the line's turning angles within any windowSize stretch at or
// below maxAngle (radians). It also fails when the label would run past
// either end of the line. Anchors without a segment always pass.
func CheckMaxAngle(line orb.LineString, a Anchor, labelLength, windowSize, maxAngle float64) bool {
	if !a.HasSegment() {
		return true
	}

	p := a.Point()
	index := a.Segment + 1
	anchorDistance := 0.0

	// Walk back to the first segment the label covers.
	for anchorDistance > -labelLength/2 {
		index--
		if index < 0 {
			return false
		}
		anchorDistance -= dist(line[index], p)
		p = line[index]
	}

	anchorDistance += dist(line[index], line[index+1])
	index++

	type corner struct {
		distance   float64
		angleDelta float64
	}
	var recent []corner
	recentAngleDelta := 0.0

	// Walk forward across the label, summing corners inside the window.
	for anchorDistance < labelLength/2 {
		if index+1 >= len(line) {
			return false
		}
		prev, current, next := line[index-1], line[index], line[index+1]

		delta := angleTo(prev, current) - angleTo(current, next)
		delta = math.Abs(math.Mod(delta+3*math.Pi, 2*math.Pi) - math.Pi)

		recent = append(recent, corner{distance: anchorDistance, angleDelta: delta})
		recentAngleDelta += delta

		for anchorDistance-recent[0].distance > windowSize {
			recentAngleDelta -= recent[0].angleDelta
			recent = recent[1:]
		}

		if recentAngleDelta > maxAngle {
			return false
		}

		index++
		anchorDistance += dist(current, next)
	}
	return true
}
