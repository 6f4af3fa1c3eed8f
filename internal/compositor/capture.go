package compositor

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultCaptureGap is the pixel gap between panes in a side-by-side capture.
const DefaultCaptureGap = 10

// SideBySide lays the two rendered panes next to each other on a white
// background with a gap between them. The canvas height is the taller pane's;
// the shorter pane is top-aligned over white.
func SideBySide(left, right *image.RGBA, gap int) *image.RGBA {
	if gap < 0 {
		gap = DefaultCaptureGap
	}
	if left == nil && right == nil {
		return nil
	}
	if left == nil {
		return onWhite(right)
	}
	if right == nil {
		return onWhite(left)
	}

	lw, lh := left.Bounds().Dx(), left.Bounds().Dy()
	rw, rh := right.Bounds().Dx(), right.Bounds().Dy()
	h := lh
	if rh > h {
		h = rh
	}
	w := lw + gap + rw

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, lw, lh), left, left.Bounds().Min, draw.Src)
	draw.Draw(out, image.Rect(lw+gap, 0, lw+gap+rw, rh), right, right.Bounds().Min, draw.Src)
	return out
}

func onWhite(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
