package main

// Category tags partition overlap queries, mirroring physics-layer groups
type Category string

const (
	CategoryPlayer    Category = "player"
	CategoryMobs      Category = "mobs"
	CategoryFireballs Category = "fireballs"
	CategoryPickups   Category = "pickups"
)

// Area is an overlap sensor with a circular shape. Monitoring gates whether
// the area receives overlap notifications; ShapeDisabled removes the shape
// from queries entirely. Both flags may only be changed mid-step through
// Scheduler.Defer — the collision pass reads them while iterating.
type Area struct {
	X, Y          float64
	Radius        float64
	Category      Category
	Monitoring    bool
	ShapeDisabled bool
}

// CanDetect reports whether the area currently participates in overlap
// detection
func (a *Area) CanDetect() bool {
	return a.Monitoring && !a.ShapeDisabled
}

// OverlapsCircle checks the area's shape against a circle
func (a *Area) OverlapsCircle(x, y, r float64) bool {
	if a.ShapeDisabled {
		return false
	}
	return CheckCollision(a.X, a.Y, a.Radius, x, y, r)
}

// CheckCollision checks if two circles overlap
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	dist2 := dx*dx + dy*dy
	radSum := r1 + r2
	return dist2 <= radSum*radSum
}
