package model

// Point is a position on the truck bed in cm.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned rectangle in cm. X runs along the bed length,
// Y along the bed width.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"width"`
	H int `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate of the far edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// At returns a copy of r moved to the given origin.
func (r Rect) At(p Point) Rect {
	return Rect{X: p.X, Y: p.Y, W: r.W, H: r.H}
}

// Area returns the area in cm².
func (r Rect) Area() int { return r.W * r.H }

// Overlaps reports whether the interiors of r and o intersect.
// Rectangles that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X &&
		r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Within reports whether r lies completely inside outer.
func (r Rect) Within(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y &&
		r.Right() <= outer.Right() && r.Bottom() <= outer.Bottom()
}

// ContainsPoint reports whether p lies inside r. The left and top edges
// are inclusive, the right and bottom edges exclusive.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// SpansY reports whether the horizontal line at y crosses r.
func (r Rect) SpansY(y int) bool { return y >= r.Y && y < r.Bottom() }

// SpansX reports whether the vertical line at x crosses r.
func (r Rect) SpansX(x int) bool { return x >= r.X && x < r.Right() }

// OverlapsAny reports whether r overlaps any rectangle in others.
func OverlapsAny(r Rect, others []Rect) bool {
	for _, o := range others {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}
