package domain

import "math"

// PointerAngle is where segment 0 starts, in screen degrees (0° points
// right, angles grow clockwise). The pointer sits here, at 12 o'clock.
const PointerAngle = -90.0

// SegmentWidth returns the angular width of one of n equal segments.
func SegmentWidth(n int) float64 {
	return 360 / float64(n)
}

// SegmentBounds returns the start and end screen angles of segment i on an
// unrotated wheel of n segments.
func SegmentBounds(i, n int) (start, end float64) {
	w := SegmentWidth(n)
	return float64(i)*w + PointerAngle, float64(i+1)*w + PointerAngle
}

// ComputeRotation returns the wheel rotation, in degrees, that lands the
// pointer on the center of segment index after extraTurns full turns:
//
//	extraTurns*360 - (index*w + w/2), with w = 360/n
//
// The wheel counter-rotates, so the offset is negative.
func ComputeRotation(index, n, extraTurns int) float64 {
	// (2i+1)*180/n is index*w + w/2 with one rounding step.
	return float64(extraTurns)*360 - float64(2*index+1)*180/float64(n)
}

// NormalizeAngle maps a into [0, 360).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a == 360 {
		return 0
	}
	return a
}

// SegmentAt returns the index of the segment under the pointer once a wheel
// of n segments has been rotated by rotation degrees. It is the inverse of
// ComputeRotation.
func SegmentAt(rotation float64, n int) int {
	offset := NormalizeAngle(-rotation)
	i := int(math.Floor(offset / SegmentWidth(n)))
	if i >= n {
		i = n - 1
	}
	return i
}
