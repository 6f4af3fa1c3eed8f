package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPointDistance(t *testing.T) {
	d := NewPoint2D(0, 0).Distance(NewPoint2D(3, 4))
	if d != 5 {
		t.Errorf("Expected distance 5, got %v", d)
	}
}

func TestSegmentLengthAndMidpoint(t *testing.T) {
	s := Segment{Start: NewPoint2D(2, 2), End: NewPoint2D(6, 2)}
	if got := s.Length(); got != 4 {
		t.Errorf("Expected length 4, got %v", got)
	}
	mid := s.Midpoint()
	if mid.X != 4 || mid.Y != 2 {
		t.Errorf("Expected midpoint (4,2), got (%v,%v)", mid.X, mid.Y)
	}
	scaled := s.Scale(2)
	if scaled.Start.X != 4 || scaled.End.X != 12 {
		t.Errorf("Expected scaled endpoints x=4 and x=12, got %v and %v",
			scaled.Start.X, scaled.End.X)
	}
}

func TestRectContainsEdgeExclusive(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	tests := []struct {
		p    Point2D
		want bool
	}{
		{NewPoint2D(0, 0), true},
		{NewPoint2D(9.999, 9.999), true},
		{NewPoint2D(10, 5), false},
		{NewPoint2D(5, 10), false},
		{NewPoint2D(-0.001, 5), false},
	}
	for _, tc := range tests {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v,%v): expected %v, got %v", tc.p.X, tc.p.Y, tc.want, got)
		}
	}
}

func TestAffineComposeMatchesSequentialApply(t *testing.T) {
	rot := Rotation(math.Pi / 6)
	tr := Translation(5, -3)
	combined := tr.Compose(rot)

	p := NewPoint2D(7, 11)
	direct := combined.Apply(p)
	stepped := tr.Apply(rot.Apply(p))

	if !almostEqual(direct.X, stepped.X) || !almostEqual(direct.Y, stepped.Y) {
		t.Errorf("Expected (%v,%v), got (%v,%v)", stepped.X, stepped.Y, direct.X, direct.Y)
	}
}

func TestAffineInverseRoundTrip(t *testing.T) {
	tf := Translation(12, -7).Compose(Rotation(0.4)).Compose(Scaling(2, 3))
	inv, ok := tf.Inverse()
	if !ok {
		t.Fatal("Expected invertible transform")
	}
	p := NewPoint2D(3.5, -1.25)
	back := inv.Apply(tf.Apply(p))
	if !almostEqual(back.X, p.X) || !almostEqual(back.Y, p.Y) {
		t.Errorf("Expected round trip to (%v,%v), got (%v,%v)", p.X, p.Y, back.X, back.Y)
	}
}

func TestSingularTransformHasNoInverse(t *testing.T) {
	if _, ok := Scaling(0, 1).Inverse(); ok {
		t.Error("Expected singular transform to report no inverse")
	}
}

func TestQuarterTurnPointRotationRoundTrip(t *testing.T) {
	size := NewSize(100, 50)
	p := NewPoint2D(10, 20)

	rotated := Turn90.RotatePoint(p, size)
	if rotated.X != 20 || rotated.Y != 90 {
		t.Errorf("Expected (20,90), got (%v,%v)", rotated.X, rotated.Y)
	}

	for _, q := range []QuarterTurn{Turn0, Turn90, Turn180, Turn270} {
		back := q.UnrotatePoint(q.RotatePoint(p, size), size)
		if !almostEqual(back.X, p.X) || !almostEqual(back.Y, p.Y) {
			t.Errorf("Turn %d: expected (%v,%v), got (%v,%v)", q, p.X, p.Y, back.X, back.Y)
		}
	}
}

func TestQuarterTurnSizeSwap(t *testing.T) {
	size := NewSize(100, 50)
	r := Turn90.RotateSize(size)
	if r.Width != 50 || r.Height != 100 {
		t.Errorf("Expected 50x100, got %vx%v", r.Width, r.Height)
	}
	if got := Turn180.RotateSize(size); got != size {
		t.Errorf("Expected unchanged size, got %vx%v", got.Width, got.Height)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Point2D{NewPoint2D(0, 0), NewPoint2D(4, 0), NewPoint2D(2, 6)}
	c := Centroid(pts)
	if c.X != 2 || c.Y != 2 {
		t.Errorf("Expected (2,2), got (%v,%v)", c.X, c.Y)
	}
	zero := Centroid(nil)
	if zero.X != 0 || zero.Y != 0 {
		t.Errorf("Expected origin for empty set, got (%v,%v)", zero.X, zero.Y)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Expected 5, got %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
	if got := Clamp(11.5, 0.0, 10.0); got != 10.0 {
		t.Errorf("Expected 10, got %v", got)
	}
}
