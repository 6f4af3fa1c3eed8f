package resample

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

func testPlane(w, h int, dpi float64) *plane.Plane {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return plane.New(plane.SideLeft, img, dpi, "test")
}

func TestToHalvesResolution(t *testing.T) {
	p := testPlane(200, 100, 500)
	res, err := To(p, 250)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Ratio != 0.5 {
		t.Errorf("Expected ratio 0.5, got %v", res.Ratio)
	}
	if p.Width() != 100 || p.Height() != 50 {
		t.Errorf("Expected 100x50, got %dx%d", p.Width(), p.Height())
	}
	if math.Abs(p.DPI()-250) > 1e-9 {
		t.Errorf("Expected exact DPI 250, got %v", p.DPI())
	}
}

func TestToExactCalibrationNotDerivedFromRounding(t *testing.T) {
	p := testPlane(33, 17, 300)
	if _, err := To(p, 170); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !p.Calibrated() {
		t.Fatal("Expected calibration installed")
	}
	if math.Abs(p.Calib.PixelsPerMM-170/plane.MMPerInch) > 1e-12 {
		t.Errorf("Expected pixelsPerMM %v, got %v", 170/plane.MMPerInch, p.Calib.PixelsPerMM)
	}
}

func TestToSameResolutionIsNoOp(t *testing.T) {
	p := testPlane(50, 50, 400)
	before := append([]uint8(nil), p.Pixels().Pix...)
	res, err := To(p, 400)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Ratio != 1 {
		t.Errorf("Expected ratio 1, got %v", res.Ratio)
	}
	for i, v := range p.Pixels().Pix {
		if v != before[i] {
			t.Fatalf("No-op resample mutated raster at byte %d", i)
		}
	}
}

func TestToCommitsPendingOrientation(t *testing.T) {
	p := testPlane(40, 20, 500)
	p.Rotate(1)
	res, err := To(p, 500)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Ratio != 1 {
		t.Errorf("Expected ratio 1, got %v", res.Ratio)
	}
	if p.Width() != 20 || p.Height() != 40 {
		t.Errorf("Expected 20x40 raster after commit, got %dx%d", p.Width(), p.Height())
	}
	if p.View.Turns != geometry.Turn0 || p.View.FlipH || p.View.FlipV {
		t.Errorf("Expected identity orientation after commit, got %+v", p.View)
	}
	if res.Committed.Turns != geometry.Turn90 {
		t.Errorf("Expected Turn90 committed, got %v", res.Committed.Turns)
	}
	// Raster pixel (39,0) carries R=39 and lands at (0,0) under the turn.
	if got := p.Pixels().RGBAAt(0, 0).R; got != 39 {
		t.Errorf("Expected pixel content rotated, got R=%d at origin", got)
	}
}

func TestToScalesOrientedRaster(t *testing.T) {
	p := testPlane(40, 20, 500)
	p.Rotate(1)
	res, err := To(p, 250)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Ratio != 0.5 {
		t.Errorf("Expected ratio 0.5, got %v", res.Ratio)
	}
	if p.Width() != 10 || p.Height() != 20 {
		t.Errorf("Expected 10x20 raster, got %dx%d", p.Width(), p.Height())
	}
}

func TestToUncalibrated(t *testing.T) {
	p := testPlane(10, 10, 0)
	if _, err := To(p, 500); !errors.Is(err, ErrNotCalibrated) {
		t.Errorf("Expected ErrNotCalibrated, got %v", err)
	}
}

func TestToUsesCalibrationOverNativeDPI(t *testing.T) {
	p := testPlane(100, 100, 300)
	p.SetCalibration(plane.Calibration{PixelsPerMM: 600 / plane.MMPerInch})
	res, err := To(p, 300)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Ratio != 0.5 {
		t.Errorf("Expected ratio 0.5 from calibrated 600dpi, got %v", res.Ratio)
	}
}

func TestToInvalidTarget(t *testing.T) {
	p := testPlane(10, 10, 300)
	if _, err := To(p, -100); err == nil {
		t.Error("Expected error for negative target")
	}
}
