package compositor

import (
	"image"
	"image/color"
	"image/draw"

	"ridgecompare/internal/annotation"
	"ridgecompare/internal/measure"
	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// RenderOptions controls what gets burned onto a rendered plane.
type RenderOptions struct {
	Markers      []*annotation.Annotation
	MarkerHidden func(annotation.Kind) bool
	Measurements []measure.Measurement
	Calibration  bool
}

// RenderPlane produces the display raster for one plane with overlays burned
// in: pixel adjustments, orientation remap, then markers, measurements, and
// calibration points mapped through the same view.
func RenderPlane(p *plane.Plane, opts RenderOptions) *image.RGBA {
	if p == nil || !p.OK() {
		return nil
	}
	out := p.Render()
	size := p.Size()

	for _, a := range opts.Markers {
		if opts.MarkerHidden != nil && opts.MarkerHidden(a.Kind) {
			continue
		}
		DrawMarker(out, a, p.View, size)
	}
	for _, m := range opts.Measurements {
		DrawMeasurement(out, m, p.View, size)
	}
	if opts.Calibration && p.Calib != nil {
		DrawCalibrationPoints(out, *p.Calib, p.View, size)
	}
	return out
}

// Overlay alpha-blends the left raster over the right with the given opacity
// for the left side. Opacity 1 shows only the left, 0 only the right. The
// result takes the union of the two sizes over a black background.
func Overlay(left, right *image.RGBA, opacity float64) *image.RGBA {
	opacity = geometry.Clamp(opacity, 0, 1)

	w := left.Bounds().Dx()
	h := left.Bounds().Dy()
	if right.Bounds().Dx() > w {
		w = right.Bounds().Dx()
	}
	if right.Bounds().Dy() > h {
		h = right.Bounds().Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	draw.Draw(out, right.Bounds(), right, right.Bounds().Min, draw.Src)

	lb := left.Bounds()
	for y := lb.Min.Y; y < lb.Max.Y; y++ {
		for x := lb.Min.X; x < lb.Max.X; x++ {
			sc := left.RGBAAt(x, y)
			dc := out.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: blendChannel(sc.R, dc.R, opacity),
				G: blendChannel(sc.G, dc.G, opacity),
				B: blendChannel(sc.B, dc.B, opacity),
				A: 255,
			})
		}
	}
	return out
}

func blendChannel(src, dst uint8, alpha float64) uint8 {
	v := float64(src)*alpha + float64(dst)*(1-alpha)
	return uint8(geometry.Clamp(v, 0, 255))
}
