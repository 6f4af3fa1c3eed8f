package pane

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"
)

// testPane loads an 8x6 image where pixel (x,y) carries R = x*10+y so draw
// output can be traced back to source coordinates.
func testPane(t *testing.T) (*session.Session, *Pane) {
	t.Helper()
	test.NewApp()

	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x*10 + y), 0, 0, 255})
		}
	}

	s := session.New(nil)
	t.Cleanup(s.Close)
	if err := s.LoadDecoded(plane.SideLeft, img, 500, "test"); err != nil {
		t.Fatal(err)
	}
	p := New(s, plane.SideLeft)
	p.Invalidate()
	return s, p
}

func TestDrawAppliesPan(t *testing.T) {
	s, p := testPane(t)

	before := p.draw(8, 6).(*image.RGBA)
	if got := before.RGBAAt(3, 2).R; got != 32 {
		t.Fatalf("Expected source pixel 32 at (3,2), got %d", got)
	}

	s.Pan(plane.SideLeft, 2, 1)
	p.Invalidate()
	after := p.draw(8, 6).(*image.RGBA)
	if got := after.RGBAAt(3, 2).R; got != 11 {
		t.Errorf("Expected source pixel (1,1)=11 at (3,2) after pan, got %d", got)
	}
	// The strip the image vacated shows background.
	if got := after.RGBAAt(0, 0); got.R != 0 || got.A != 255 {
		t.Errorf("Expected black background at (0,0), got %v", got)
	}
}

func TestDrawAppliesPanUnderZoom(t *testing.T) {
	s, p := testPane(t)

	s.Zoom(plane.SideLeft, 2)
	s.Pan(plane.SideLeft, 1, 0)
	p.Invalidate()
	out := p.draw(16, 12).(*image.RGBA)
	// Output (4,2) samples source (4/2-1, 2/2) = (1,1).
	if got := out.RGBAAt(4, 2).R; got != 11 {
		t.Errorf("Expected source pixel (1,1)=11 at (4,2), got %d", got)
	}
}

func TestCanvasToImageInvertsPanAndZoom(t *testing.T) {
	s, p := testPane(t)

	s.Zoom(plane.SideLeft, 2)
	s.Pan(plane.SideLeft, 2, 1)
	pt := p.canvasToImage(fyne.NewPos(6, 4))
	if pt.X != 1 || pt.Y != 1 {
		t.Errorf("Expected image point (1,1), got (%v,%v)", pt.X, pt.Y)
	}
}
