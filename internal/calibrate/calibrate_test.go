package calibrate

import (
	"errors"
	"math"
	"testing"

	"ridgecompare/pkg/geometry"
)

func TestNewKnownDistance(t *testing.T) {
	c, err := New(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(500, 0), 25.4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(c.PixelsPerMM-19.685) > 0.001 {
		t.Errorf("Expected pixelsPerMM ~19.685, got %v", c.PixelsPerMM)
	}
	if math.Abs(c.DPI()-500) > 0.001 {
		t.Errorf("Expected DPI ~500, got %v", c.DPI())
	}
}

func TestNewDiagonal(t *testing.T) {
	c, err := New(geometry.NewPoint2D(10, 10), geometry.NewPoint2D(13, 14), 2.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.PixelsPerMM != 2 {
		t.Errorf("Expected pixelsPerMM 2, got %v", c.PixelsPerMM)
	}
}

func TestNewDegenerate(t *testing.T) {
	cases := []struct {
		name     string
		p1, p2   geometry.Point2D
		distance float64
	}{
		{"coincident points", geometry.NewPoint2D(5, 5), geometry.NewPoint2D(5, 5), 10},
		{"zero distance", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0), 0},
		{"negative distance", geometry.NewPoint2D(0, 0), geometry.NewPoint2D(10, 0), -3},
	}
	for _, tc := range cases {
		if _, err := New(tc.p1, tc.p2, tc.distance); !errors.Is(err, ErrDegenerate) {
			t.Errorf("%s: expected ErrDegenerate, got %v", tc.name, err)
		}
	}
}

func TestFromDPI(t *testing.T) {
	c, err := FromDPI(508)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.PixelsPerMM != 20 {
		t.Errorf("Expected pixelsPerMM 20, got %v", c.PixelsPerMM)
	}
	if _, err := FromDPI(0); !errors.Is(err, ErrDegenerate) {
		t.Errorf("Expected ErrDegenerate for zero dpi, got %v", err)
	}
}

func TestToolTwoClicks(t *testing.T) {
	var tool Tool
	if tool.Armed() {
		t.Fatal("New tool should not be armed")
	}
	if done := tool.Click(geometry.NewPoint2D(1, 2)); done {
		t.Fatal("First click should not complete the pair")
	}
	if !tool.Armed() {
		t.Fatal("Tool should be armed after first click")
	}
	if done := tool.Click(geometry.NewPoint2D(3, 4)); !done {
		t.Fatal("Second click should complete the pair")
	}
	tool.Reset()
	if tool.Armed() {
		t.Error("Reset should disarm the tool")
	}
}
