// Package calibrate derives a physical scale from two picked reference points
// and a known real-world distance.
package calibrate

import (
	"errors"
	"fmt"

	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// ErrDegenerate is returned when a calibration cannot produce a positive
// finite scale: coincident points or a non-positive known distance.
var ErrDegenerate = errors.New("calibrate: degenerate input")

// New computes a calibration from two points in untransformed pixel space and
// the known distance between them in millimetres. On error any existing
// calibration must be left untouched by the caller.
func New(p1, p2 geometry.Point2D, distanceMM float64) (plane.Calibration, error) {
	if distanceMM <= 0 {
		return plane.Calibration{}, fmt.Errorf("%w: distance %g mm", ErrDegenerate, distanceMM)
	}
	px := p1.Distance(p2)
	if px == 0 {
		return plane.Calibration{}, fmt.Errorf("%w: coincident points", ErrDegenerate)
	}
	return plane.Calibration{
		PixelsPerMM: px / distanceMM,
		P1:          p1,
		P2:          p2,
		DistanceMM:  distanceMM,
	}, nil
}

// FromDPI builds a calibration from a declared resolution, as when adopting a
// source's native DPI without picking points.
func FromDPI(dpi float64) (plane.Calibration, error) {
	if dpi <= 0 {
		return plane.Calibration{}, fmt.Errorf("%w: dpi %g", ErrDegenerate, dpi)
	}
	return plane.Calibration{PixelsPerMM: dpi / plane.MMPerInch}, nil
}

// Tool is the two-click calibration state machine. The first click arms the
// tool, the second completes the point pair; the known distance is supplied
// when committing.
type Tool struct {
	first  geometry.Point2D
	hasOne bool
}

// Click records a point. It returns true when the pair is complete.
func (t *Tool) Click(pt geometry.Point2D) bool {
	if !t.hasOne {
		t.first = pt
		t.hasOne = true
		return false
	}
	return true
}

// Armed reports whether a first point has been recorded.
func (t *Tool) Armed() bool {
	return t.hasOne
}

// First returns the armed point.
func (t *Tool) First() geometry.Point2D {
	return t.first
}

// Reset discards any armed point.
func (t *Tool) Reset() {
	t.hasOne = false
}
