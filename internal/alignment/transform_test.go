package alignment

import (
	"errors"
	"math"
	"testing"

	"ridgecompare/pkg/geometry"
)

func applyAll(pts []geometry.Point2D, t geometry.AffineTransform) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}

func TestEstimateRigidFromTwoPairs(t *testing.T) {
	src := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}}
	truth := geometry.Translation(5, -3)
	dst := applyAll(src, truth)

	r, err := Estimate(src, dst)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.Model != ModelRigid {
		t.Errorf("Expected rigid model, got %v", r.Model)
	}
	if r.MeanError > 1e-9 {
		t.Errorf("Expected near-zero error, got %v", r.MeanError)
	}
	got := r.Transform.Apply(geometry.NewPoint2D(3, 3))
	if math.Abs(got.X-8) > 1e-9 || math.Abs(got.Y+0) > 1e-9 {
		t.Errorf("Unexpected mapping: %v", got)
	}
}

func TestEstimateRecoversRotation(t *testing.T) {
	src := []geometry.Point2D{{X: 10, Y: 0}, {X: 0, Y: 10}, {X: 20, Y: 20}, {X: 5, Y: 15}}
	truth := geometry.Rotation(math.Pi / 6).Compose(geometry.Translation(40, 12))
	dst := applyAll(src, truth)

	r, err := Estimate(src, dst)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := MeanError(src, dst, r.Transform); err > 0.01 {
		t.Errorf("Expected sub-pixel residual, got %v", err)
	}
}

func TestEstimateRejectsOutlier(t *testing.T) {
	src := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}, {X: 50, Y: 50},
	}
	truth := geometry.Translation(7, 9)
	dst := applyAll(src, truth)
	dst[4] = geometry.NewPoint2D(500, 500) // mispaired marker

	r, err := Estimate(src, dst)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(r.Inliers) != 4 {
		t.Errorf("Expected 4 inliers, got %v", r.Inliers)
	}
	got := r.Transform.Apply(geometry.NewPoint2D(10, 10))
	if math.Abs(got.X-17) > 0.1 || math.Abs(got.Y-19) > 0.1 {
		t.Errorf("Outlier contaminated the fit: %v", got)
	}
}

func TestEstimateInsufficientPairs(t *testing.T) {
	if _, err := Estimate([]geometry.Point2D{{X: 1, Y: 1}}, []geometry.Point2D{{X: 2, Y: 2}}); !errors.Is(err, ErrInsufficientPairs) {
		t.Errorf("Expected ErrInsufficientPairs, got %v", err)
	}
}

func TestEstimateCountMismatch(t *testing.T) {
	src := []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}}
	dst := []geometry.Point2D{{X: 0, Y: 0}}
	if _, err := Estimate(src, dst); err == nil {
		t.Error("Expected error for mismatched point counts")
	}
}

func TestEstimateDegeneratePair(t *testing.T) {
	src := []geometry.Point2D{{X: 5, Y: 5}, {X: 5, Y: 5}}
	dst := []geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}
	if _, err := Estimate(src, dst); err == nil {
		t.Error("Expected error for coincident source pair")
	}
}

func TestMeanErrorEmpty(t *testing.T) {
	if e := MeanError(nil, nil, geometry.Identity()); !math.IsInf(e, 1) {
		t.Errorf("Expected +Inf for empty input, got %v", e)
	}
}
