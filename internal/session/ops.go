package session

import (
	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// SetLinked enables or disables linked navigation. While linked, pan and
// zoom mirror to the other side in the same update. Rotation and flip stay
// per side; the two impressions are usually scanned in different
// orientations.
func (s *Session) SetLinked(linked bool) {
	s.mu.Lock()
	s.linked = linked
	s.mu.Unlock()
	s.Emit(EventLinkChanged, linked)
}

// Linked reports whether navigation is mirrored.
func (s *Session) Linked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.linked
}

// targets returns the side's plane plus, when linked, the other side's.
// Caller holds the lock. Broken and empty planes are skipped; their commands
// no-op instead of failing the linked partner.
func (s *Session) targets(side plane.Side) []*plane.Plane {
	var out []*plane.Plane
	if p := s.planes[side]; p != nil {
		out = append(out, p)
	}
	if s.linked {
		if p := s.planes[side.Other()]; p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Zoom sets the zoom factor, clamped to the configured bounds.
func (s *Session) Zoom(side plane.Side, factor float64) {
	s.mu.Lock()
	factor = geometry.Clamp(factor, s.cfg.View.MinZoom, s.cfg.View.MaxZoom)
	for _, p := range s.targets(side) {
		p.SetZoom(factor)
	}
	s.mu.Unlock()
	s.Emit(EventViewChanged, side)
}

// ZoomStep multiplies the zoom by the configured step, in or out.
func (s *Session) ZoomStep(side plane.Side, in bool) {
	s.mu.Lock()
	step := s.cfg.View.ZoomStep
	if !in {
		step = 1 / step
	}
	for _, p := range s.targets(side) {
		p.SetZoom(geometry.Clamp(p.View.Zoom*step, s.cfg.View.MinZoom, s.cfg.View.MaxZoom))
	}
	s.mu.Unlock()
	s.Emit(EventViewChanged, side)
}

// Pan shifts the viewport. Linked panes receive the identical delta.
func (s *Session) Pan(side plane.Side, dx, dy float64) {
	s.mu.Lock()
	for _, p := range s.targets(side) {
		p.Pan(dx, dy)
	}
	s.mu.Unlock()
	s.Emit(EventViewChanged, side)
}

// Rotate turns one side's view by quarter turns. Never mirrored.
func (s *Session) Rotate(side plane.Side, quarterTurns int) {
	s.mu.Lock()
	if p := s.planes[side]; p != nil {
		p.Rotate(quarterTurns)
	}
	s.mu.Unlock()
	s.Emit(EventViewChanged, side)
}

// Flip mirrors one side's view across an axis. Never mirrored to the link.
func (s *Session) Flip(side plane.Side, axis plane.FlipAxis) {
	s.mu.Lock()
	if p := s.planes[side]; p != nil {
		p.Flip(axis)
	}
	s.mu.Unlock()
	s.Emit(EventViewChanged, side)
}

// ResetView restores one side's identity view.
func (s *Session) ResetView(side plane.Side) {
	s.mu.Lock()
	if p := s.planes[side]; p != nil {
		p.ResetView()
	}
	s.mu.Unlock()
	s.Emit(EventViewChanged, side)
}

// SetAdjustments replaces a side's pixel adjustments. Adjustments never
// mirror across the link; lighting differs per impression.
func (s *Session) SetAdjustments(side plane.Side, a plane.Adjustments) error {
	s.mu.Lock()
	p, err := s.usablePlane(side)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	p.SetAdjustments(a)
	s.mu.Unlock()
	s.Emit(EventAdjustmentsChanged, side)
	return nil
}

// ResetAdjustments restores a side's neutral adjustments.
func (s *Session) ResetAdjustments(side plane.Side) {
	s.mu.Lock()
	if p := s.planes[side]; p != nil {
		p.ResetAdjustments()
	}
	s.mu.Unlock()
	s.Emit(EventAdjustmentsChanged, side)
}
