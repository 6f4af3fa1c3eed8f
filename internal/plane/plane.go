// Package plane provides the image plane: one side of the comparison view,
// owning a raster buffer together with its view transform, pixel adjustments,
// and physical-scale calibration.
package plane

import (
	"image"
	"image/draw"

	"ridgecompare/pkg/geometry"
)

// Side indicates which pane of the comparison view a plane belongs to.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// MMPerInch converts between DPI and pixels-per-millimetre.
const MMPerInch = 25.4

// Zoom limits for SetZoom; zooming clamps rather than fails.
const (
	MinZoom  = 0.1
	MaxZoom  = 10.0
	ZoomStep = 1.25
)

// FlipAxis selects the mirror axis for Flip.
type FlipAxis int

const (
	FlipHorizontal FlipAxis = iota // mirror across the vertical axis
	FlipVertical                   // mirror across the horizontal axis
)

// ViewTransform is the view-only transform of a plane. Rotation and flips are
// geometric remaps applied at render time; they never rewrite the raster.
type ViewTransform struct {
	Zoom  float64
	PanX  float64
	PanY  float64
	Turns geometry.QuarterTurn
	FlipH bool
	FlipV bool
}

// DefaultViewTransform returns the identity view.
func DefaultViewTransform() ViewTransform {
	return ViewTransform{Zoom: 1.0}
}

// Adjustments holds render-time pixel adjustments. They are a pure function
// of pixel value and never mutate the raster.
type Adjustments struct {
	Brightness float64 // -100..100, mapped to a factor of 1 + b/100
	Contrast   float64 // 0.5..2.0, 1.0 = unchanged
	Gamma      float64 // 0.5..2.0, 1.0 = unchanged
	Invert     bool
}

// DefaultAdjustments returns the neutral adjustment set.
func DefaultAdjustments() Adjustments {
	return Adjustments{Brightness: 0, Contrast: 1.0, Gamma: 1.0}
}

// IsNeutral reports whether the adjustments leave pixels unchanged.
func (a Adjustments) IsNeutral() bool {
	return a.Brightness == 0 && a.Contrast == 1.0 && a.Gamma == 1.0 && !a.Invert
}

// Calibration maps pixel distance to physical distance for a plane. It is
// derived from two user-picked reference points and a known distance.
type Calibration struct {
	PixelsPerMM float64
	P1, P2      geometry.Point2D
	DistanceMM  float64
}

// DPI returns the calibrated resolution in dots per inch.
func (c Calibration) DPI() float64 {
	return c.PixelsPerMM * MMPerInch
}

// Plane is one side of the comparison view. A plane is created when a source
// is loaded into a side, replaced wholesale on reload, and dropped when the
// side is cleared. All mutation goes through the listed commands.
type Plane struct {
	Side      Side
	Label     string
	NativeDPI float64 // 0 when the source did not declare one

	pixels *image.RGBA
	broken error // non-nil when the source failed to decode

	View   ViewTransform
	Adjust Adjustments
	Calib  *Calibration
}

// New creates a plane for a decoded raster. The image is copied into an RGBA
// buffer anchored at the origin so later pixel loops can assume zero-based
// bounds.
func New(side Side, img image.Image, nativeDPI float64, label string) *Plane {
	b := img.Bounds()
	buf := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(buf, buf.Bounds(), img, b.Min, draw.Src)

	return &Plane{
		Side:      side,
		Label:     label,
		NativeDPI: nativeDPI,
		pixels:    buf,
		View:      DefaultViewTransform(),
		Adjust:    DefaultAdjustments(),
	}
}

// NewBroken creates a placeholder plane for a source that failed to decode.
// Every operation on it no-ops; Err reports the cause.
func NewBroken(side Side, label string, cause error) *Plane {
	return &Plane{
		Side:   side,
		Label:  label,
		broken: cause,
		View:   DefaultViewTransform(),
		Adjust: DefaultAdjustments(),
	}
}

// Err returns the decode failure for a broken plane, or nil.
func (p *Plane) Err() error {
	return p.broken
}

// OK reports whether the plane holds a usable raster.
func (p *Plane) OK() bool {
	return p.broken == nil && p.pixels != nil
}

// Pixels returns the owned raster. Callers must not write through it outside
// an explicit resample commit.
func (p *Plane) Pixels() *image.RGBA {
	return p.pixels
}

// SetPixels replaces the raster. Used by resample when committing a physical
// change.
func (p *Plane) SetPixels(buf *image.RGBA) {
	p.pixels = buf
}

// Width returns the raster width in pixels.
func (p *Plane) Width() int {
	if p.pixels == nil {
		return 0
	}
	return p.pixels.Bounds().Dx()
}

// Height returns the raster height in pixels.
func (p *Plane) Height() int {
	if p.pixels == nil {
		return 0
	}
	return p.pixels.Bounds().Dy()
}

// Size returns the raster dimensions.
func (p *Plane) Size() geometry.Size {
	return geometry.NewSize(float64(p.Width()), float64(p.Height()))
}

// OrientedSize returns the raster dimensions after the view rotation.
func (p *Plane) OrientedSize() geometry.Size {
	return p.View.Turns.RotateSize(p.Size())
}

// Contains reports whether a point in untransformed pixel space lies on the
// raster.
func (p *Plane) Contains(pt geometry.Point2D) bool {
	return p.Size().Bounds().Contains(pt)
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (p *Plane) SetZoom(factor float64) {
	if !p.OK() {
		return
	}
	p.View.Zoom = geometry.Clamp(factor, MinZoom, MaxZoom)
}

// ZoomIn steps the zoom factor up.
func (p *Plane) ZoomIn() {
	p.SetZoom(p.View.Zoom * ZoomStep)
}

// ZoomOut steps the zoom factor down.
func (p *Plane) ZoomOut() {
	p.SetZoom(p.View.Zoom / ZoomStep)
}

// Pan shifts the viewport offset.
func (p *Plane) Pan(dx, dy float64) {
	if !p.OK() {
		return
	}
	p.View.PanX += dx
	p.View.PanY += dy
}

// Rotate turns the view by the given number of quarter turns (usually ±1).
// View-only: the raster is untouched, so four turns are a perfect identity.
func (p *Plane) Rotate(quarterTurns int) {
	if !p.OK() {
		return
	}
	p.View.Turns = p.View.Turns.Add(quarterTurns)
}

// Flip mirrors the view across the given axis. View-only, like Rotate.
func (p *Plane) Flip(axis FlipAxis) {
	if !p.OK() {
		return
	}
	if axis == FlipHorizontal {
		p.View.FlipH = !p.View.FlipH
	} else {
		p.View.FlipV = !p.View.FlipV
	}
}

// ResetView restores the identity view transform.
func (p *Plane) ResetView() {
	p.View = DefaultViewTransform()
}

// SetAdjustments replaces the render-time pixel adjustments.
func (p *Plane) SetAdjustments(a Adjustments) {
	if !p.OK() {
		return
	}
	p.Adjust = a
}

// ResetAdjustments restores neutral adjustments.
func (p *Plane) ResetAdjustments() {
	p.Adjust = DefaultAdjustments()
}

// SetCalibration installs a calibration, replacing any prior one.
// Recalibration never invalidates annotations; only resampling does.
func (p *Plane) SetCalibration(c Calibration) {
	if !p.OK() {
		return
	}
	p.Calib = &c
}

// Calibrated reports whether the plane has a physical scale.
func (p *Plane) Calibrated() bool {
	return p.Calib != nil
}

// DPI returns the calibrated resolution, falling back to the source's native
// DPI, or 0 when neither is known.
func (p *Plane) DPI() float64 {
	if p.Calib != nil {
		return p.Calib.DPI()
	}
	return p.NativeDPI
}
