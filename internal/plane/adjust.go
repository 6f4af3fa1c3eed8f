package plane

import (
	"image"
	"math"

	"ridgecompare/pkg/geometry"
)

// adjustLUT builds the 256-entry channel lookup table for an adjustment set.
// The pipeline order is fixed: brightness, contrast, gamma, invert.
func adjustLUT(a Adjustments) [256]uint8 {
	var lut [256]uint8

	bFactor := 1.0 + a.Brightness/100.0
	contrast := a.Contrast
	if contrast < 0.1 {
		contrast = 0.1
	}
	gamma := a.Gamma
	if gamma <= 0 {
		gamma = 1.0
	}
	invGamma := 1.0 / gamma

	for i := 0; i < 256; i++ {
		v := float64(i) * bFactor
		v = (v-128.0)*contrast + 128.0
		v = geometry.Clamp(v, 0, 255)
		if gamma != 1.0 {
			v = math.Pow(v/255.0, invGamma) * 255.0
		}
		if a.Invert {
			v = 255.0 - v
		}
		lut[i] = uint8(geometry.Clamp(math.Round(v), 0, 255))
	}
	return lut
}

// ApplyAdjustments returns a copy of src with the adjustment pipeline applied
// per channel. Alpha passes through untouched. A neutral set returns src
// unchanged.
func ApplyAdjustments(src *image.RGBA, a Adjustments) *image.RGBA {
	if a.IsNeutral() {
		return src
	}
	lut := adjustLUT(a)

	b := src.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Pix[si] = lut[src.Pix[si]]
			out.Pix[si+1] = lut[src.Pix[si+1]]
			out.Pix[si+2] = lut[src.Pix[si+2]]
			out.Pix[si+3] = src.Pix[si+3]
			si += 4
		}
	}
	return out
}
