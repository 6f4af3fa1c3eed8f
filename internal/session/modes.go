package session

import (
	"image"
	"time"

	"ridgecompare/internal/annotation"
	"ridgecompare/internal/compositor"
	"ridgecompare/internal/config"
	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

func blinkInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Blink.IntervalMS) * time.Millisecond
}

// SetMode switches the display mode. Leaving blink mode stops the blinker
// synchronously, so no swap event fires after SetMode returns.
func (s *Session) SetMode(mode DisplayMode) {
	s.mu.Lock()
	prev := s.mode
	s.mode = mode
	s.mu.Unlock()

	if prev == ModeBlink && mode != ModeBlink {
		s.blinker.Stop()
	}
	if mode == ModeBlink && prev != ModeBlink {
		s.blinker.Start()
	}
	s.Emit(EventModeChanged, mode)
}

// Mode returns the active display mode.
func (s *Session) Mode() DisplayMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// PauseBlink freezes the blink alternation on the current side.
func (s *Session) PauseBlink() {
	s.blinker.Pause()
}

// ResumeBlink continues a paused blink alternation.
func (s *Session) ResumeBlink() {
	s.blinker.Resume()
}

// SetBlinkInterval changes the alternation period. A running blinker
// reschedules immediately rather than finishing the old interval first.
func (s *Session) SetBlinkInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.blinker.SetInterval(d)
}

// BlinkSide returns the side the blinker is showing.
func (s *Session) BlinkSide() plane.Side {
	return s.blinker.Current()
}

// SetOverlayOpacity sets the left side's weight in overlay mode.
func (s *Session) SetOverlayOpacity(opacity float64) {
	s.mu.Lock()
	s.overlayOpacity = geometry.Clamp(opacity, 0, 1)
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// OverlayOpacity returns the overlay blend weight.
func (s *Session) OverlayOpacity() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlayOpacity
}

// renderOptions assembles the overlay draw set for a side. Caller holds the
// lock.
func (s *Session) renderOptions(side plane.Side) compositor.RenderOptions {
	return compositor.RenderOptions{
		Markers:      s.ann.BySide(side),
		MarkerHidden: func(k annotation.Kind) bool { return !s.ann.Visible(k) },
		Measurements: s.measurements[side],
		Calibration:  s.tool == ToolCalibrate,
	}
}

// RenderSide produces the display raster for one pane, overlays included.
// Returns nil for an empty or broken side.
func (s *Session) RenderSide(side plane.Side) *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.planes[side]
	if p == nil || !p.OK() {
		return nil
	}
	return compositor.RenderPlane(p, s.renderOptions(side))
}

// Capture renders the current comparison for export. Side-by-side mode
// yields both panes over white with a gap; overlay mode yields the blended
// image; blink mode yields only the side being shown.
func (s *Session) Capture() *image.RGBA {
	s.mu.RLock()
	mode := s.mode
	opacity := s.overlayOpacity
	gap := s.cfg.Export.GapPixels
	s.mu.RUnlock()

	switch mode {
	case ModeOverlay:
		left := s.RenderSide(plane.SideLeft)
		right := s.RenderSide(plane.SideRight)
		if left == nil {
			return right
		}
		if right == nil {
			return left
		}
		return compositor.Overlay(left, right, opacity)

	case ModeBlink:
		return s.RenderSide(s.blinker.Current())

	default:
		return compositor.SideBySide(s.RenderSide(plane.SideLeft), s.RenderSide(plane.SideRight), gap)
	}
}

// Close releases background resources. Safe to call more than once.
func (s *Session) Close() {
	s.blinker.Stop()
}
