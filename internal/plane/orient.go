package plane

import (
	"image"

	"ridgecompare/pkg/geometry"
)

// Orient returns src remapped by the view's quarter turns and flips. Because
// rotation is restricted to quarter turns the remap is an exact pixel
// permutation with no resampling and no loss.
func Orient(src *image.RGBA, v ViewTransform) *image.RGBA {
	if v.Turns.Normalize() == geometry.Turn0 && !v.FlipH && !v.FlipV {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	size := geometry.NewSize(float64(w), float64(h))
	osize := v.Turns.RotateSize(size)
	ow, oh := int(osize.Width), int(osize.Height)

	out := image.NewRGBA(image.Rect(0, 0, ow, oh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst := orientPixel(x, y, w, h, v)
			si := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := out.PixOffset(dst.X, dst.Y)
			copy(out.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return out
}

// orientPixel maps a raster pixel to its oriented position: flips first in
// source space, then the quarter-turn rotation. MapPoint below must agree
// with this ordering.
func orientPixel(x, y, w, h int, v ViewTransform) image.Point {
	if v.FlipH {
		x = w - 1 - x
	}
	if v.FlipV {
		y = h - 1 - y
	}
	p := v.Turns.RotatePoint(geometry.NewPoint2D(float64(x), float64(y)),
		geometry.NewSize(float64(w-1), float64(h-1)))
	return image.Point{X: int(p.X), Y: int(p.Y)}
}

// MapPoint maps a point in untransformed pixel space to oriented space for
// the given raster size.
func MapPoint(pt geometry.Point2D, size geometry.Size, v ViewTransform) geometry.Point2D {
	if v.FlipH {
		pt.X = size.Width - pt.X
	}
	if v.FlipV {
		pt.Y = size.Height - pt.Y
	}
	return v.Turns.RotatePoint(pt, size)
}

// UnmapPoint inverts MapPoint, taking an oriented-space point back to
// untransformed pixel space. Click handling uses this so annotations are
// stored against the raster regardless of the current view.
func UnmapPoint(pt geometry.Point2D, size geometry.Size, v ViewTransform) geometry.Point2D {
	pt = v.Turns.UnrotatePoint(pt, size)
	if v.FlipH {
		pt.X = size.Width - pt.X
	}
	if v.FlipV {
		pt.Y = size.Height - pt.Y
	}
	return pt
}

// Render produces the display raster for the plane: adjustments applied, then
// the orientation remap. The result shares storage with the plane's raster
// only when both stages are identity.
func (p *Plane) Render() *image.RGBA {
	if !p.OK() {
		return nil
	}
	img := ApplyAdjustments(p.pixels, p.Adjust)
	return Orient(img, p.View)
}
