package session

import (
	"fmt"
	"image"
	"log"

	"ridgecompare/internal/alignment"
	"ridgecompare/internal/compositor"
	"ridgecompare/internal/plane"
	"ridgecompare/internal/resample"
	"ridgecompare/pkg/geometry"
)

// beginOp marks a side busy. Commands that rewrite the raster must hold the
// busy flag so a second resample cannot race the first.
func (s *Session) beginOp(side plane.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[side] {
		return fmt.Errorf("%s side: %w", side, ErrOperationInProgress)
	}
	if _, err := s.usablePlane(side); err != nil {
		return err
	}
	s.busy[side] = true
	return nil
}

func (s *Session) endOp(side plane.Side) {
	s.mu.Lock()
	s.busy[side] = false
	s.mu.Unlock()
}

// Busy reports whether a long-running operation holds the side.
func (s *Session) Busy(side plane.Side) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy[side]
}

// ResampleOutcome extends the raster result with the marker fallout: markers
// landing outside the new raster are dropped, and the count reported here.
type ResampleOutcome struct {
	resample.Result
	DroppedMarkers int
}

// applyResample moves a side's markers and measurements through the
// orientation the resample committed into the raster, then the scale ratio.
// Markers landing outside the new raster are dropped and counted. Caller
// holds s.mu.
func (s *Session) applyResample(side plane.Side, p *plane.Plane, res resample.Result) int {
	identity := res.Committed.Turns == geometry.Turn0 && !res.Committed.FlipH && !res.Committed.FlipV
	if identity && res.Ratio == 1 {
		return 0
	}
	remap := func(pt geometry.Point2D) geometry.Point2D {
		return plane.MapPoint(pt, res.OldSize, res.Committed).Scale(res.Ratio)
	}
	dropped := s.ann.RemapSide(side, remap, p.Size())
	for i, m := range s.measurements[side] {
		s.measurements[side][i] = m.Remap(remap)
	}
	return dropped
}

// ResampleSide performs the resample synchronously. It rejects with
// ErrOperationInProgress when the side is already being rewritten.
func (s *Session) ResampleSide(side plane.Side, targetDPI float64) (*ResampleOutcome, error) {
	if err := s.beginOp(side); err != nil {
		return nil, err
	}
	defer s.endOp(side)

	s.mu.Lock()
	p := s.planes[side]
	res, err := resample.To(p, targetDPI)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := &ResampleOutcome{Result: res}
	out.DroppedMarkers = s.applyResample(side, p, res)
	s.mu.Unlock()

	log.Printf("resampled %s side to %.0f dpi (ratio %.3f, %d markers dropped)",
		side, targetDPI, res.Ratio, out.DroppedMarkers)
	s.Emit(EventResampleDone, side)
	return out, nil
}

// ResampleAsync runs ResampleSide on a worker goroutine, reporting through
// done. The busy rejection happens before the goroutine starts so the caller
// gets the error inline.
func (s *Session) ResampleAsync(side plane.Side, targetDPI float64, done func(*ResampleOutcome, error)) error {
	if err := s.beginOp(side); err != nil {
		return err
	}
	go func() {
		defer s.endOp(side)

		s.mu.Lock()
		p := s.planes[side]
		res, err := resample.To(p, targetDPI)
		if err != nil {
			s.mu.Unlock()
			if done != nil {
				done(nil, err)
			}
			return
		}
		out := &ResampleOutcome{Result: res}
		out.DroppedMarkers = s.applyResample(side, p, res)
		s.mu.Unlock()

		s.Emit(EventResampleDone, side)
		if done != nil {
			done(out, nil)
		}
	}()
	return nil
}

// EstimateAlignment fits the transform mapping the right side onto the left
// from match markers paired by sequence number.
func (s *Session) EstimateAlignment() (*alignment.Result, error) {
	s.mu.RLock()
	left, right := s.ann.MatchPairs()
	s.mu.RUnlock()

	r, err := alignment.Estimate(right, left)
	if err != nil {
		return nil, err
	}
	log.Printf("alignment: %d/%d pairs inline, mean error %.2f px", len(r.Inliers), r.PairCount, r.MeanError)
	s.Emit(EventAlignmentDone, r)
	return r, nil
}

// AlignedOverlay warps the right raster by the estimated transform into the
// left side's frame and blends the two at the session opacity.
func (s *Session) AlignedOverlay(r *alignment.Result) (*image.RGBA, error) {
	s.mu.RLock()
	leftPlane, err := s.usablePlane(plane.SideLeft)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	rightPlane, err := s.usablePlane(plane.SideRight)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	left := leftPlane.Pixels()
	right := rightPlane.Pixels()
	opacity := s.overlayOpacity
	s.mu.RUnlock()

	warped, err := alignment.Warp(right, r.Transform, left.Bounds().Dx(), left.Bounds().Dy())
	if err != nil {
		return nil, err
	}
	return compositor.Overlay(left, warped, opacity), nil
}
