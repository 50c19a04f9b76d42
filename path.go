package main

import "math"

// SpawnPath is the closed rectangular path just outside the visible screen
// that mobs spawn along. It is wound clockwise starting at the top-left
// corner and sampled by a progress fraction; any real value is accepted and
// wraps around the loop, so aliasing at extreme inputs cannot occur.
type SpawnPath struct {
	screenW float64
	screenH float64
	margin  float64
}

// NewSpawnPath creates a path offset outward from the screen bounds by
// margin pixels
func NewSpawnPath(screenW, screenH, margin float64) *SpawnPath {
	return &SpawnPath{screenW: screenW, screenH: screenH, margin: margin}
}

// Perimeter returns the total path length
func (p *SpawnPath) Perimeter() float64 {
	w := p.screenW + 2*p.margin
	h := p.screenH + 2*p.margin
	return 2 * (w + h)
}

// Sample maps a progress fraction to a point on the path and the tangent
// direction of travel at that point. The fraction wraps: Sample(1.25)
// equals Sample(0.25).
func (p *SpawnPath) Sample(progress float64) (x, y, tangent float64) {
	frac := progress - math.Floor(progress)
	w := p.screenW + 2*p.margin
	h := p.screenH + 2*p.margin
	d := frac * 2 * (w + h)

	left := -p.margin
	top := -p.margin
	right := p.screenW + p.margin
	bottom := p.screenH + p.margin

	switch {
	case d < w: // top edge, moving right
		return left + d, top, 0
	case d < w+h: // right edge, moving down
		return right, top + (d - w), math.Pi / 2
	case d < 2*w+h: // bottom edge, moving left
		return right - (d - w - h), bottom, math.Pi
	default: // left edge, moving up
		return left, bottom - (d - 2*w - h), -math.Pi / 2
	}
}

// Inward returns the direction pointing into the screen from a point with
// the given tangent: a quarter turn clockwise from the travel direction
func Inward(tangent float64) float64 {
	return tangent + math.Pi/2
}
