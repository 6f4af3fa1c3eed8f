package session

import (
	"fmt"
	"log"
	"os"

	"github.com/fxamacker/cbor/v2"

	"ridgecompare/internal/annotation"
	"ridgecompare/internal/measure"
	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// snapshotVersion guards against loading snapshots written by an
// incompatible build.
const snapshotVersion = 1

// Snapshot is the persisted workspace state. The rasters themselves are not
// stored; sides are reloaded from their source paths on restore.
type Snapshot struct {
	Version int              `cbor:"version"`
	Sides   [2]sideSnapshot  `cbor:"sides"`
	Markers []markerSnapshot `cbor:"markers"`
	Mode    DisplayMode      `cbor:"mode"`
	Opacity float64          `cbor:"opacity"`
	Linked  bool             `cbor:"linked"`
}

type sideSnapshot struct {
	Path         string                `cbor:"path,omitempty"`
	View         plane.ViewTransform   `cbor:"view"`
	Adjust       plane.Adjustments     `cbor:"adjust"`
	Calib        *plane.Calibration    `cbor:"calib,omitempty"`
	Measurements []measure.Measurement `cbor:"measurements,omitempty"`
}

type markerSnapshot struct {
	ID    uint64          `cbor:"id"`
	Side  plane.Side      `cbor:"side"`
	Kind  annotation.Kind `cbor:"kind"`
	X     float64         `cbor:"x"`
	Y     float64         `cbor:"y"`
	Seq   int             `cbor:"seq"`
	Notes string          `cbor:"notes,omitempty"`
}

// TakeSnapshot captures the restorable workspace state.
func (s *Session) TakeSnapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Version: snapshotVersion,
		Mode:    s.mode,
		Opacity: s.overlayOpacity,
		Linked:  s.linked,
	}
	for side := range snap.Sides {
		p := s.planes[side]
		if p == nil {
			continue
		}
		snap.Sides[side] = sideSnapshot{
			Path:         p.Label,
			View:         p.View,
			Adjust:       p.Adjust,
			Calib:        p.Calib,
			Measurements: append([]measure.Measurement(nil), s.measurements[side]...),
		}
	}
	for _, a := range s.ann.All() {
		snap.Markers = append(snap.Markers, markerSnapshot{
			ID: a.ID, Side: a.Side, Kind: a.Kind,
			X: a.Pos.X, Y: a.Pos.Y, Seq: a.Seq, Notes: a.Notes,
		})
	}
	return snap
}

// SaveSnapshot writes the workspace state to a CBOR file.
func (s *Session) SaveSnapshot(path string) error {
	data, err := cbor.Marshal(s.TakeSnapshot())
	if err != nil {
		return fmt.Errorf("session: encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("session: write snapshot: %w", err)
	}
	log.Printf("saved snapshot: %s", path)
	return nil
}

// RestoreSnapshot loads a CBOR snapshot, reloading each side from its
// recorded source path. A side whose source is gone restores as empty; the
// error lists what failed while the rest of the snapshot still applies.
func (s *Session) RestoreSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("session: read snapshot: %w", err)
	}
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("session: decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("session: unsupported snapshot version %d", snap.Version)
	}
	return s.applySnapshot(&snap)
}

func (s *Session) applySnapshot(snap *Snapshot) error {
	var loadErr error
	for side := plane.SideLeft; side <= plane.SideRight; side++ {
		ss := snap.Sides[side]
		if ss.Path == "" {
			s.ClearSide(side)
			continue
		}
		if err := s.LoadSide(side, ss.Path); err != nil {
			loadErr = err
			continue
		}
		s.mu.Lock()
		p := s.planes[side]
		p.View = ss.View
		p.Adjust = ss.Adjust
		p.Calib = ss.Calib
		s.measurements[side] = append([]measure.Measurement(nil), ss.Measurements...)
		s.mu.Unlock()
	}

	markers := make([]*annotation.Annotation, 0, len(snap.Markers))
	for _, ms := range snap.Markers {
		markers = append(markers, &annotation.Annotation{
			ID: ms.ID, Side: ms.Side, Kind: ms.Kind,
			Pos: geometry.NewPoint2D(ms.X, ms.Y), Seq: ms.Seq, Notes: ms.Notes,
		})
	}
	s.mu.Lock()
	s.ann.Restore(markers)
	s.linked = snap.Linked
	s.overlayOpacity = snap.Opacity
	s.mu.Unlock()
	s.SetMode(snap.Mode)
	s.Emit(EventAnnotationsChanged, nil)
	return loadErr
}
