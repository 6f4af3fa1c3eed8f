package session

import (
	"fmt"
	"log"

	"ridgecompare/internal/annotation"
	"ridgecompare/internal/calibrate"
	"ridgecompare/internal/measure"
	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// ToolMode selects what a click on a pane does.
type ToolMode int

const (
	ToolPan ToolMode = iota
	ToolAnnotate
	ToolMeasure
	ToolCalibrate
)

func (t ToolMode) String() string {
	switch t {
	case ToolPan:
		return "pan"
	case ToolAnnotate:
		return "annotate"
	case ToolMeasure:
		return "measure"
	case ToolCalibrate:
		return "calibrate"
	default:
		return "unknown"
	}
}

// calibTool wraps the two-click calibration state machine with its completed
// point pair, held until the known distance arrives from the dialog.
type calibTool struct {
	tool   calibrate.Tool
	p1, p2 geometry.Point2D
	ready  bool
}

func (c *calibTool) reset() {
	c.tool.Reset()
	c.ready = false
}

// SetTool switches the active tool. Switching discards half-finished
// measurement and calibration point pairs.
func (s *Session) SetTool(tool ToolMode) {
	s.mu.Lock()
	s.tool = tool
	for i := range s.measureTools {
		s.measureTools[i].Reset()
	}
	for i := range s.calibTools {
		s.calibTools[i].reset()
	}
	s.mu.Unlock()
	s.Emit(EventModeChanged, tool)
}

// Tool returns the active tool.
func (s *Session) Tool() ToolMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetMarkerKind selects the kind placed by the annotate tool.
func (s *Session) SetMarkerKind(kind annotation.Kind) {
	s.mu.Lock()
	s.markerKind = kind
	s.mu.Unlock()
}

// MarkerKind returns the kind the annotate tool places.
func (s *Session) MarkerKind() annotation.Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markerKind
}

// HandleClick dispatches a primary click on a pane. pt is in the pane's
// oriented display space; it is mapped back to raster space here so stored
// coordinates are independent of the current view.
func (s *Session) HandleClick(side plane.Side, pt geometry.Point2D) error {
	s.mu.Lock()
	p, err := s.usablePlane(side)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	raster := plane.UnmapPoint(pt, p.Size(), p.View)

	switch s.tool {
	case ToolAnnotate:
		a, err := s.ann.Add(side, s.markerKind, raster, p.Size())
		s.mu.Unlock()
		if err != nil {
			return err
		}
		log.Printf("placed %s at (%.0f, %.0f) on %s", a.Label(), raster.X, raster.Y, side)
		s.Emit(EventAnnotationsChanged, side)
		return nil

	case ToolMeasure:
		seg, done := s.measureTools[side].Click(raster)
		if !done {
			s.mu.Unlock()
			return nil
		}
		var ppmm float64
		if p.Calib != nil {
			ppmm = p.Calib.PixelsPerMM
		}
		m := measure.New(s.nextMeasureID, seg.Start, seg.End, ppmm)
		s.nextMeasureID++
		s.measurements[side] = append(s.measurements[side], m)
		s.mu.Unlock()
		s.Emit(EventMeasurementsChanged, side)
		return nil

	case ToolCalibrate:
		ct := &s.calibTools[side]
		if !ct.tool.Click(raster) {
			ct.p1 = raster
			s.mu.Unlock()
			return nil
		}
		ct.p2 = raster
		ct.ready = true
		ct.tool.Reset()
		s.mu.Unlock()
		s.Emit(EventCalibrationChanged, side)
		return nil

	default:
		s.mu.Unlock()
		return nil
	}
}

// HandleAltClick dispatches a secondary click: with the annotate tool it
// removes the nearest marker within the hit tolerance, with the measure tool
// it removes the most recent measurement on that side.
func (s *Session) HandleAltClick(side plane.Side, pt geometry.Point2D) error {
	s.mu.Lock()
	p, err := s.usablePlane(side)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	switch s.tool {
	case ToolAnnotate:
		raster := plane.UnmapPoint(pt, p.Size(), p.View)
		a, ok := s.ann.RemoveAtPoint(side, raster)
		s.mu.Unlock()
		if !ok {
			return nil
		}
		log.Printf("removed %s from %s", a.Label(), side)
		s.Emit(EventAnnotationsChanged, side)
		return nil

	case ToolMeasure:
		n := len(s.measurements[side])
		if n == 0 {
			s.measureTools[side].Reset()
			s.mu.Unlock()
			return nil
		}
		s.measurements[side] = s.measurements[side][:n-1]
		s.measureTools[side].Reset()
		s.mu.Unlock()
		s.Emit(EventMeasurementsChanged, side)
		return nil

	default:
		s.mu.Unlock()
		return nil
	}
}

// CalibrationPending reports whether a completed calibration point pair is
// waiting for its known distance.
func (s *Session) CalibrationPending(side plane.Side) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calibTools[side].ready
}

// CommitCalibration derives and installs the calibration from the pending
// point pair and the known distance. A degenerate pair or distance leaves
// any prior calibration untouched.
func (s *Session) CommitCalibration(side plane.Side, distanceMM float64) error {
	s.mu.Lock()
	p, err := s.usablePlane(side)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	ct := &s.calibTools[side]
	if !ct.ready {
		s.mu.Unlock()
		return fmt.Errorf("session: no calibration points picked for %s side", side)
	}
	c, err := calibrate.New(ct.p1, ct.p2, distanceMM)
	if err != nil {
		ct.reset()
		s.mu.Unlock()
		return err
	}
	p.SetCalibration(c)
	ct.reset()
	s.mu.Unlock()

	log.Printf("calibrated %s side: %.3f px/mm (%.0f dpi)", side, c.PixelsPerMM, c.DPI())
	s.Emit(EventCalibrationChanged, side)
	return nil
}

// AdoptNativeDPI calibrates a side from its source's declared resolution.
func (s *Session) AdoptNativeDPI(side plane.Side) error {
	s.mu.Lock()
	p, err := s.usablePlane(side)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	c, err := calibrate.FromDPI(p.NativeDPI)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	p.SetCalibration(c)
	s.mu.Unlock()
	s.Emit(EventCalibrationChanged, side)
	return nil
}

// Measure computes the distance between two raster points on a side using
// its calibration. The result is returned but not retained; the two-click
// tool is the path that records measurements.
func (s *Session) Measure(side plane.Side, p1, p2 geometry.Point2D) (measure.Measurement, error) {
	s.mu.RLock()
	p, err := s.usablePlane(side)
	if err != nil {
		s.mu.RUnlock()
		return measure.Measurement{}, err
	}
	var ppmm float64
	if p.Calib != nil {
		ppmm = p.Calib.PixelsPerMM
	}
	s.mu.RUnlock()
	return measure.New(0, p1, p2, ppmm), nil
}

// Measurements returns a copy of a side's completed measurements.
func (s *Session) Measurements(side plane.Side) []measure.Measurement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]measure.Measurement, len(s.measurements[side]))
	copy(out, s.measurements[side])
	return out
}

// ClearMeasurements drops a side's measurements.
func (s *Session) ClearMeasurements(side plane.Side) {
	s.mu.Lock()
	s.measurements[side] = nil
	s.measureTools[side].Reset()
	s.mu.Unlock()
	s.Emit(EventMeasurementsChanged, side)
}
