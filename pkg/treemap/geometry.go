package treemap

// Rect is an axis-aligned rectangle. Y grows downwards.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// MidX returns the horizontal center.
func (r Rect) MidX() float64 { return r.X + r.W/2 }

// MidY returns the vertical center.
func (r Rect) MidY() float64 { return r.Y + r.H/2 }

// Area returns W·H.
func (r Rect) Area() float64 { return r.W * r.H }

// Contains reports whether o lies within r, allowing eps of rounding error.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.MaxX() <= r.MaxX()+eps && o.MaxY() <= r.MaxY()+eps
}

// Overlaps reports whether r and o share an area larger than eps in both
// dimensions. Touching edges do not overlap.
func (r Rect) Overlaps(o Rect, eps float64) bool {
	return min(r.MaxX(), o.MaxX())-max(r.X, o.X) > eps &&
		min(r.MaxY(), o.MaxY())-max(r.Y, o.Y) > eps
}

// Point is a position in layout coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func centered(r Rect) Rect {
	return Rect{X: r.MidX(), Y: r.MidY()}
}
