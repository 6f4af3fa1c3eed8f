package plane

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"ridgecompare/pkg/geometry"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 7 % 256), uint8(y * 13 % 256), uint8((x + y) % 256), 255})
		}
	}
	return img
}

func TestSetZoomClamps(t *testing.T) {
	p := New(SideLeft, gradientImage(8, 8), 0, "a")

	p.SetZoom(0.01)
	if p.View.Zoom != MinZoom {
		t.Errorf("Expected zoom clamped to %v, got %v", MinZoom, p.View.Zoom)
	}
	p.SetZoom(50)
	if p.View.Zoom != MaxZoom {
		t.Errorf("Expected zoom clamped to %v, got %v", MaxZoom, p.View.Zoom)
	}
	p.SetZoom(2.5)
	if p.View.Zoom != 2.5 {
		t.Errorf("Expected zoom 2.5, got %v", p.View.Zoom)
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	src := gradientImage(10, 6)
	p := New(SideLeft, src, 0, "a")

	for i := 0; i < 4; i++ {
		p.Rotate(1)
	}
	if p.View.Turns != geometry.Turn0 {
		t.Fatalf("Expected Turn0 after four rotations, got %v", p.View.Turns)
	}
	out := p.Render()
	if out.Bounds() != src.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", src.Bounds(), out.Bounds())
	}
	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("Pixel data changed at byte %d after four quarter turns", i)
		}
	}
}

func TestRotateSwapsRenderedSize(t *testing.T) {
	p := New(SideLeft, gradientImage(10, 6), 0, "a")
	p.Rotate(1)
	out := p.Render()
	if out.Bounds().Dx() != 6 || out.Bounds().Dy() != 10 {
		t.Errorf("Expected 6x10 after one quarter turn, got %dx%d",
			out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestDoubleFlipIsIdentity(t *testing.T) {
	src := gradientImage(7, 5)
	p := New(SideLeft, src, 0, "a")
	p.Flip(FlipHorizontal)
	p.Flip(FlipHorizontal)
	out := p.Render()
	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("Pixel data changed at byte %d after double flip", i)
		}
	}
}

func TestAdjustmentsDoNotMutateRaster(t *testing.T) {
	src := gradientImage(4, 4)
	p := New(SideLeft, src, 0, "a")
	before := append([]uint8(nil), p.Pixels().Pix...)

	p.SetAdjustments(Adjustments{Brightness: 40, Contrast: 1.5, Gamma: 0.8})
	_ = p.Render()

	for i, v := range p.Pixels().Pix {
		if v != before[i] {
			t.Fatalf("Raster mutated at byte %d", i)
		}
	}
}

func TestInvertTwiceNeutralOtherwise(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{10, 100, 200, 255})
	src.SetRGBA(1, 0, color.RGBA{0, 255, 128, 255})

	once := ApplyAdjustments(src, Adjustments{Contrast: 1.0, Gamma: 1.0, Invert: true})
	twice := ApplyAdjustments(once, Adjustments{Contrast: 1.0, Gamma: 1.0, Invert: true})
	for i := range src.Pix {
		if twice.Pix[i] != src.Pix[i] {
			t.Fatalf("Double inversion not identity at byte %d: %d vs %d", i, twice.Pix[i], src.Pix[i])
		}
	}
}

func TestBrokenPlaneIgnoresCommands(t *testing.T) {
	p := NewBroken(SideRight, "bad", errors.New("decode failed"))
	p.SetZoom(3)
	p.Rotate(1)
	p.Flip(FlipVertical)
	p.SetAdjustments(Adjustments{Brightness: 50})
	p.SetCalibration(Calibration{PixelsPerMM: 20})

	if p.View != DefaultViewTransform() {
		t.Errorf("Broken plane view changed: %+v", p.View)
	}
	if p.Adjust != DefaultAdjustments() {
		t.Errorf("Broken plane adjustments changed: %+v", p.Adjust)
	}
	if p.Calibrated() {
		t.Error("Broken plane accepted calibration")
	}
	if p.Render() != nil {
		t.Error("Expected nil render for broken plane")
	}
}

func TestMapUnmapRoundTrip(t *testing.T) {
	size := geometry.NewSize(100, 50)
	views := []ViewTransform{
		{Turns: geometry.Turn90},
		{Turns: geometry.Turn180, FlipH: true},
		{Turns: geometry.Turn270, FlipV: true},
		{FlipH: true, FlipV: true},
	}
	pt := geometry.NewPoint2D(10, 20)
	for _, v := range views {
		mapped := MapPoint(pt, size, v)
		back := UnmapPoint(mapped, size, v)
		if back.Distance(pt) > 1e-9 {
			t.Errorf("Round trip failed for %+v: got %v", v, back)
		}
	}
}

func TestMapPointQuarterTurn(t *testing.T) {
	got := MapPoint(geometry.NewPoint2D(10, 20), geometry.NewSize(100, 50), ViewTransform{Turns: geometry.Turn90})
	if got.X != 20 || got.Y != 90 {
		t.Errorf("Expected (20, 90), got (%v, %v)", got.X, got.Y)
	}
}

func TestCalibrationDPI(t *testing.T) {
	c := Calibration{PixelsPerMM: 500 / 25.4}
	if dpi := c.DPI(); dpi < 499.999 || dpi > 500.001 {
		t.Errorf("Expected DPI 500, got %v", dpi)
	}
}
