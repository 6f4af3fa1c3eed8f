package geometry

// QuarterTurn is a rotation by a multiple of 90 degrees counter-clockwise
// in image coordinates, where y grows downward: Turn90 maps (x,y) to
// (y, W-x).
type QuarterTurn int

const (
	Turn0 QuarterTurn = iota
	Turn90
	Turn180
	Turn270
)

// Normalize wraps the turn count into {0,1,2,3}.
func (q QuarterTurn) Normalize() QuarterTurn {
	n := int(q) % 4
	if n < 0 {
		n += 4
	}
	return QuarterTurn(n)
}

// Add returns the turn advanced by delta quarter turns (delta may be negative).
func (q QuarterTurn) Add(delta int) QuarterTurn {
	return QuarterTurn(int(q) + delta).Normalize()
}

// Degrees returns the counter-clockwise rotation angle in degrees.
func (q QuarterTurn) Degrees() int {
	return int(q.Normalize()) * 90
}

// Swaps reports whether the rotation exchanges width and height.
func (q QuarterTurn) Swaps() bool {
	n := q.Normalize()
	return n == Turn90 || n == Turn270
}

// RotateSize returns the size after rotation.
func (q QuarterTurn) RotateSize(s Size) Size {
	if q.Swaps() {
		return Size{Width: s.Height, Height: s.Width}
	}
	return s
}

// RotatePoint maps a point from the unrotated raster of size s into the
// rotated raster.
func (q QuarterTurn) RotatePoint(p Point2D, s Size) Point2D {
	switch q.Normalize() {
	case Turn90:
		return Point2D{X: p.Y, Y: s.Width - p.X}
	case Turn180:
		return Point2D{X: s.Width - p.X, Y: s.Height - p.Y}
	case Turn270:
		return Point2D{X: s.Height - p.Y, Y: p.X}
	default:
		return p
	}
}

// UnrotatePoint is the inverse of RotatePoint: it maps a point from the
// rotated raster back into the unrotated raster of size s.
func (q QuarterTurn) UnrotatePoint(p Point2D, s Size) Point2D {
	switch q.Normalize() {
	case Turn90:
		return Point2D{X: s.Width - p.Y, Y: p.X}
	case Turn180:
		return Point2D{X: s.Width - p.X, Y: s.Height - p.Y}
	case Turn270:
		return Point2D{X: p.Y, Y: s.Height - p.X}
	default:
		return p
	}
}
