// Package resample rescales a plane's raster to a target resolution. Unlike
// view transforms this is a physical change: it rewrites pixels and requires
// annotations and measurements on the plane to be rescaled with it.
package resample

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// ErrNotCalibrated is returned when the plane has neither a calibration nor
// a native DPI, so no current resolution is known to scale from.
var ErrNotCalibrated = errors.New("resample: current resolution unknown")

// Result describes a committed resample.
type Result struct {
	Ratio     float64             // target / current resolution
	OldSize   geometry.Size       // raster size before orientation commit and scaling
	NewSize   geometry.Size
	TargetDPI float64
	Committed plane.ViewTransform // orientation folded into the raster, identity if none
}

// To rescales the plane to targetDPI using Catmull-Rom interpolation and
// installs an exact calibration for the new resolution. Any pending view
// rotation or flip is first committed into the raster and the view reset to
// identity orientation, so the stored pixels match what the user was looking
// at. A target equal to the current resolution skips the scaling pass but
// still commits orientation. The caller is responsible for remapping markers
// through Result.Committed and rescaling them by Result.Ratio.
func To(p *plane.Plane, targetDPI float64) (Result, error) {
	if !p.OK() {
		return Result{}, p.Err()
	}
	if targetDPI <= 0 {
		return Result{}, fmt.Errorf("resample: invalid target %g dpi", targetDPI)
	}
	current := p.DPI()
	if current <= 0 {
		return Result{}, ErrNotCalibrated
	}

	ratio := targetDPI / current
	oldSize := p.Size()
	committed := plane.ViewTransform{
		Turns: p.View.Turns.Normalize(),
		FlipH: p.View.FlipH,
		FlipV: p.View.FlipV,
	}
	res := Result{Ratio: ratio, OldSize: oldSize, NewSize: oldSize, TargetDPI: targetDPI, Committed: committed}

	src := p.Pixels()
	orientedSize := oldSize
	if committed.Turns != geometry.Turn0 || committed.FlipH || committed.FlipV {
		src = plane.Orient(src, committed)
		orientedSize = committed.Turns.RotateSize(oldSize)
		p.View.Turns = geometry.Turn0
		p.View.FlipH = false
		p.View.FlipV = false
	}

	if ratio == 1 {
		p.SetPixels(src)
		res.NewSize = p.Size()
		return res, nil
	}

	w := int(math.Round(orientedSize.Width * ratio))
	h := int(math.Round(orientedSize.Height * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	p.SetPixels(dst)
	// Install the exact target scale rather than rederiving it from the
	// rounded pixel dimensions.
	p.Calib = &plane.Calibration{PixelsPerMM: targetDPI / plane.MMPerInch}
	p.NativeDPI = targetDPI

	res.NewSize = p.Size()
	return res, nil
}
