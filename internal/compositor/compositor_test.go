package compositor

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"ridgecompare/internal/plane"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestOverlayOpacityExtremes(t *testing.T) {
	left := solid(4, 4, color.RGBA{200, 0, 0, 255})
	right := solid(4, 4, color.RGBA{0, 100, 0, 255})

	onlyRight := Overlay(left, right, 0)
	if got := onlyRight.RGBAAt(1, 1); got.R != 0 || got.G != 100 {
		t.Errorf("Opacity 0 should show right only, got %v", got)
	}

	onlyLeft := Overlay(left, right, 1)
	if got := onlyLeft.RGBAAt(1, 1); got.R != 200 || got.G != 0 {
		t.Errorf("Opacity 1 should show left only, got %v", got)
	}
}

func TestOverlayMidBlend(t *testing.T) {
	left := solid(2, 2, color.RGBA{100, 0, 0, 255})
	right := solid(2, 2, color.RGBA{0, 200, 0, 255})

	mid := Overlay(left, right, 0.5)
	got := mid.RGBAAt(0, 0)
	if got.R != 50 || got.G != 100 {
		t.Errorf("Expected (50, 100), got (%d, %d)", got.R, got.G)
	}
}

func TestOverlayUnequalSizes(t *testing.T) {
	left := solid(4, 2, color.RGBA{255, 255, 255, 255})
	right := solid(2, 4, color.RGBA{0, 0, 0, 255})

	out := Overlay(left, right, 0.5)
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 4 {
		t.Errorf("Expected 4x4 union, got %v", out.Bounds())
	}
}

func TestSideBySideLayout(t *testing.T) {
	left := solid(10, 20, color.RGBA{255, 0, 0, 255})
	right := solid(8, 30, color.RGBA{0, 0, 255, 255})

	out := SideBySide(left, right, 10)
	if out.Bounds().Dx() != 28 || out.Bounds().Dy() != 30 {
		t.Fatalf("Expected 28x30, got %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("Expected left pane pixel, got %v", got)
	}
	if got := out.RGBAAt(14, 0); got.R != 255 || got.G != 255 || got.B != 255 {
		t.Errorf("Expected white gap, got %v", got)
	}
	if got := out.RGBAAt(20, 0); got.B != 255 {
		t.Errorf("Expected right pane pixel, got %v", got)
	}
	if got := out.RGBAAt(0, 25); got.R != 255 || got.G != 255 || got.B != 255 {
		t.Errorf("Expected white below shorter pane, got %v", got)
	}
}

func TestSideBySideMissingPane(t *testing.T) {
	left := solid(6, 6, color.RGBA{10, 10, 10, 255})
	out := SideBySide(left, nil, 10)
	if out.Bounds().Dx() != 6 || out.Bounds().Dy() != 6 {
		t.Errorf("Expected single pane dimensions, got %v", out.Bounds())
	}
	if SideBySide(nil, nil, 10) != nil {
		t.Error("Expected nil for two missing panes")
	}
}

func TestBlinkerStopIsSynchronous(t *testing.T) {
	var mu sync.Mutex
	swaps := 0
	b := NewBlinker(time.Millisecond, func(plane.Side) {
		mu.Lock()
		swaps++
		mu.Unlock()
	})
	b.Start()
	time.Sleep(20 * time.Millisecond)
	b.Stop()

	mu.Lock()
	after := swaps
	mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	if swaps != after {
		t.Errorf("Swap fired after Stop returned: %d -> %d", after, swaps)
	}
	mu.Unlock()

	if b.Running() {
		t.Error("Blinker should report stopped")
	}
	b.Stop() // idempotent
}

func TestBlinkerPauseHoldsSide(t *testing.T) {
	b := NewBlinker(time.Millisecond, nil)
	b.Start()
	b.Pause()
	side := b.Current()
	time.Sleep(10 * time.Millisecond)
	if b.Current() != side {
		t.Error("Paused blinker changed side")
	}
	b.Resume()
	deadline := time.Now().Add(200 * time.Millisecond)
	for b.Current() == side {
		if time.Now().After(deadline) {
			t.Fatal("Resumed blinker never swapped")
		}
		time.Sleep(time.Millisecond)
	}
	b.Stop()
}

func TestBlinkerSetIntervalWhileRunning(t *testing.T) {
	b := NewBlinker(time.Hour, nil)
	b.Start()
	defer b.Stop()

	side := b.Current()
	b.SetInterval(time.Millisecond)
	deadline := time.Now().Add(200 * time.Millisecond)
	for b.Current() == side {
		if time.Now().After(deadline) {
			t.Fatal("Shortened interval never produced a swap")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBlinkerStartsOnLeft(t *testing.T) {
	b := NewBlinker(time.Hour, nil)
	b.Start()
	defer b.Stop()
	if b.Current() != plane.SideLeft {
		t.Errorf("Expected start on left, got %v", b.Current())
	}
}

func TestDrawCircleOutline(t *testing.T) {
	img := solid(40, 40, color.RGBA{0, 0, 0, 255})
	DrawCircle(img, 20, 20, 10, color.RGBA{255, 0, 0, 255}, false)

	if got := img.RGBAAt(30, 20); got.R != 255 {
		t.Errorf("Expected outline pixel on rim, got %v", got)
	}
	if got := img.RGBAAt(20, 20); got.R != 0 {
		t.Errorf("Expected untouched center, got %v", got)
	}
}

func TestDrawLabelMarksPixels(t *testing.T) {
	img := solid(40, 20, color.RGBA{0, 0, 0, 255})
	DrawLabel(img, "M3", 2, 2, color.RGBA{0, 255, 0, 255}, 1)

	found := false
	for i := 1; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 {
			found = true
			break
		}
	}
	if !found {
		t.Error("Label drew no pixels")
	}
}
