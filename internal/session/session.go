// Package session holds the comparison workspace: both planes, the marker
// store, measurements, tool state, and the display mode. All UI commands go
// through the Session, which serializes them and emits change events.
package session

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"ridgecompare/internal/annotation"
	"ridgecompare/internal/compositor"
	"ridgecompare/internal/config"
	"ridgecompare/internal/loader"
	"ridgecompare/internal/measure"
	"ridgecompare/internal/plane"
)

// ErrNoImage is returned when a command targets a side with no usable image.
var ErrNoImage = errors.New("session: no image loaded")

// ErrOperationInProgress is returned when a long-running operation is already
// working on the targeted side.
var ErrOperationInProgress = errors.New("session: operation in progress")

// EventType identifies session change events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventImageCleared
	EventViewChanged
	EventAdjustmentsChanged
	EventCalibrationChanged
	EventAnnotationsChanged
	EventMeasurementsChanged
	EventModeChanged
	EventResampleDone
	EventAlignmentDone
	EventBlinkSwap
	EventLinkChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// DisplayMode selects how the workspace is presented.
type DisplayMode int

const (
	ModeSideBySide DisplayMode = iota
	ModeOverlay
	ModeBlink
)

// Session is the comparison workspace. Methods are safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	cfg    *config.Config
	planes [2]*plane.Plane

	ann *annotation.Manager

	measurements  [2][]measure.Measurement
	nextMeasureID uint64

	measureTools [2]measure.Tool
	calibTools   [2]calibTool

	tool       ToolMode
	markerKind annotation.Kind
	linked     bool

	mode           DisplayMode
	overlayOpacity float64
	blinker        *compositor.Blinker

	busy [2]bool

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// New creates an empty session.
func New(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Session{
		cfg:            cfg,
		ann:            annotation.NewManager(),
		nextMeasureID:  1,
		tool:           ToolPan,
		markerKind:     annotation.KindMinutia,
		overlayOpacity: cfg.Overlay.Opacity,
	}
	s.blinker = compositor.NewBlinker(blinkInterval(cfg), func(side plane.Side) {
		s.Emit(EventBlinkSwap, side)
	})
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[EventType][]EventListener)
	}
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.lmu.RLock()
	listeners := s.listeners[event]
	s.lmu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Config returns the active configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// LoadSide loads a source file into one side, replacing any existing plane
// there. A decode failure installs a broken placeholder plane so the other
// side keeps working; the error is still returned for display. Markers and
// measurements of the replaced side are discarded either way.
func (s *Session) LoadSide(side plane.Side, path string) error {
	d, err := loader.Load(path)

	s.mu.Lock()
	s.ann.ResetSide(side)
	s.measurements[side] = nil
	s.measureTools[side].Reset()
	s.calibTools[side].reset()
	if err != nil {
		s.planes[side] = plane.NewBroken(side, path, err)
		s.mu.Unlock()
		log.Printf("load %s: %v", side, err)
		s.Emit(EventImageLoaded, side)
		return fmt.Errorf("%s side: %w", side, err)
	}
	s.planes[side] = plane.New(side, d.Image, d.DPI, d.Path)
	s.mu.Unlock()

	log.Printf("loaded %s side: %s (%s, %.0f dpi)", side, path, d.Format, d.DPI)
	s.Emit(EventImageLoaded, side)
	return nil
}

// LoadDecoded installs an already decoded raster into one side, for callers
// that decode images themselves. Same replacement semantics as LoadSide.
func (s *Session) LoadDecoded(side plane.Side, img image.Image, nativeDPI float64, label string) {
	s.mu.Lock()
	s.ann.ResetSide(side)
	s.measurements[side] = nil
	s.measureTools[side].Reset()
	s.calibTools[side].reset()
	s.planes[side] = plane.New(side, img, nativeDPI, label)
	s.mu.Unlock()
	s.Emit(EventImageLoaded, side)
}

// ClearSide drops one side's plane along with its markers and measurements.
func (s *Session) ClearSide(side plane.Side) {
	s.mu.Lock()
	s.planes[side] = nil
	s.ann.ResetSide(side)
	s.measurements[side] = nil
	s.measureTools[side].Reset()
	s.calibTools[side].reset()
	s.mu.Unlock()
	s.Emit(EventImageCleared, side)
}

// Plane returns the plane for a side, or nil when the side is empty.
func (s *Session) Plane(side plane.Side) *plane.Plane {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planes[side]
}

// Annotations returns the marker store.
func (s *Session) Annotations() *annotation.Manager {
	return s.ann
}

// usablePlane returns the side's plane or an error when it is missing or
// broken. Caller holds the lock.
func (s *Session) usablePlane(side plane.Side) (*plane.Plane, error) {
	p := s.planes[side]
	if p == nil {
		return nil, fmt.Errorf("%s side: %w", side, ErrNoImage)
	}
	if !p.OK() {
		return nil, fmt.Errorf("%s side: %w", side, p.Err())
	}
	return p, nil
}
