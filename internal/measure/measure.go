// Package measure computes straight-line distances between picked points,
// reported in pixels and, when the plane is calibrated, in millimetres.
package measure

import (
	"fmt"

	"ridgecompare/pkg/geometry"
)

// Measurement is one completed two-point distance. Endpoints are stored in
// untransformed pixel space, like annotations.
type Measurement struct {
	ID      uint64
	Seg     geometry.Segment
	Pixels  float64
	MM      float64
	MMKnown bool
}

// New builds a measurement from two endpoints. pixelsPerMM of 0 means the
// plane is uncalibrated and the physical distance is unavailable.
func New(id uint64, p1, p2 geometry.Point2D, pixelsPerMM float64) Measurement {
	m := Measurement{
		ID:     id,
		Seg:    geometry.Segment{Start: p1, End: p2},
		Pixels: p1.Distance(p2),
	}
	if pixelsPerMM > 0 {
		m.MM = m.Pixels / pixelsPerMM
		m.MMKnown = true
	}
	return m
}

// Rescale returns the measurement with endpoints and pixel length multiplied
// by ratio. The physical length is invariant under resampling, so MM is kept.
func (m Measurement) Rescale(ratio float64) Measurement {
	m.Seg = m.Seg.Scale(ratio)
	m.Pixels *= ratio
	return m
}

// Remap applies fn to both endpoints and recomputes the pixel length from
// the new segment. The physical length is invariant, so MM is kept. Resample
// uses this when a committed orientation moves endpoints as well as scaling
// them.
func (m Measurement) Remap(fn func(geometry.Point2D) geometry.Point2D) Measurement {
	m.Seg.Start = fn(m.Seg.Start)
	m.Seg.End = fn(m.Seg.End)
	m.Pixels = m.Seg.Length()
	return m
}

// Format renders the measurement for the status line, e.g. "141.4 px / 7.18 mm"
// or "141.4 px / -- mm" when uncalibrated.
func (m Measurement) Format() string {
	if m.MMKnown {
		return fmt.Sprintf("%.1f px / %.2f mm", m.Pixels, m.MM)
	}
	return fmt.Sprintf("%.1f px / -- mm", m.Pixels)
}

// Tool is the two-click measurement state machine, one per pane.
type Tool struct {
	first  geometry.Point2D
	hasOne bool
}

// Click records an endpoint. The completed segment is returned on the second
// click.
func (t *Tool) Click(pt geometry.Point2D) (geometry.Segment, bool) {
	if !t.hasOne {
		t.first = pt
		t.hasOne = true
		return geometry.Segment{}, false
	}
	seg := geometry.Segment{Start: t.first, End: pt}
	t.hasOne = false
	return seg, true
}

// Armed reports whether a first endpoint has been recorded.
func (t *Tool) Armed() bool {
	return t.hasOne
}

// First returns the armed endpoint.
func (t *Tool) First() geometry.Point2D {
	return t.first
}

// Reset discards any armed endpoint.
func (t *Tool) Reset() {
	t.hasOne = false
}
