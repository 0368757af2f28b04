package images

// Rect is a lightweight axis-aligned region.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// RectAround returns the (2*radius+1)-square region centered on
// (col, row), e.g. the support of a patch extracted around a keypoint.
func RectAround(col, row, radius int) Rect {
	return Rect{X1: col - radius, Y1: row - radius, X2: col + radius + 1, Y2: row + radius + 1}
}

// Area returns the number of pixels covered by the region.
func (r Rect) Area() int {
	if r.X2 <= r.X1 || r.Y2 <= r.Y1 {
		return 0
	}
	return (r.X2 - r.X1) * (r.Y2 - r.Y1)
}

// Intersect returns the overlapping region of r and o. The result has zero
// Area when the regions are disjoint.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{X1: max(r.X1, o.X1), Y1: max(r.Y1, o.Y1), X2: min(r.X2, o.X2), Y2: min(r.Y2, o.Y2)}
	if out.X2 < out.X1 {
		out.X2 = out.X1
	}
	if out.Y2 < out.Y1 {
		out.Y2 = out.Y1
	}
	return out
}

// IoU returns the intersection-over-union overlap of r and o in [0,1].
// Disjoint regions score 0, identical regions score 1.
func (r Rect) IoU(o Rect) float32 {
	inter := r.Intersect(o).Area()
	if inter == 0 {
		return 0
	}
	union := r.Area() + o.Area() - inter
	return float32(inter) / float32(union)
}
