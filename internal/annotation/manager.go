package annotation

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// Manager owns all markers for both sides, ordered by placement. Sequence
// numbers advance independently per (side, kind) and are never reused, so
// removing M2 and placing a new match yields M3, not a second M2.
type Manager struct {
	markers *treemap.Map // uint64 id -> *Annotation
	nextID  uint64
	nextSeq [2][kindCount]int
	hidden  [kindCount]bool
}

// NewManager creates an empty marker store.
func NewManager() *Manager {
	return &Manager{
		markers: treemap.NewWith(utils.UInt64Comparator),
		nextID:  1,
	}
}

// Add places a marker at pos, which must lie on the raster of the given size.
func (m *Manager) Add(side plane.Side, kind Kind, pos geometry.Point2D, bounds geometry.Size) (*Annotation, error) {
	if !bounds.Bounds().Contains(pos) {
		return nil, fmt.Errorf("%w: (%g, %g)", ErrOutOfBounds, pos.X, pos.Y)
	}
	m.nextSeq[side][kind]++
	a := &Annotation{
		ID:   m.nextID,
		Side: side,
		Kind: kind,
		Pos:  pos,
		Seq:  m.nextSeq[side][kind],
	}
	m.markers.Put(a.ID, a)
	m.nextID++
	return a, nil
}

// Remove deletes a marker by id.
func (m *Manager) Remove(id uint64) bool {
	if _, ok := m.markers.Get(id); !ok {
		return false
	}
	m.markers.Remove(id)
	return true
}

// FindAtPoint returns the marker on side nearest to pt within the hit
// tolerance. When two markers are equally near, the most recently placed one
// wins.
func (m *Manager) FindAtPoint(side plane.Side, pt geometry.Point2D) (*Annotation, bool) {
	var best *Annotation
	bestDist := HitTolerance
	it := m.markers.Iterator()
	for it.Next() {
		a := it.Value().(*Annotation)
		if a.Side != side {
			continue
		}
		d := a.Pos.Distance(pt)
		if d < bestDist || (d == bestDist && best != nil && a.ID > best.ID) {
			best = a
			bestDist = d
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// RemoveAtPoint deletes the marker FindAtPoint would return, if any.
func (m *Manager) RemoveAtPoint(side plane.Side, pt geometry.Point2D) (*Annotation, bool) {
	a, ok := m.FindAtPoint(side, pt)
	if !ok {
		return nil, false
	}
	m.markers.Remove(a.ID)
	return a, true
}

// Clear removes every marker on one side. Sequence counters are not reset.
func (m *Manager) Clear(side plane.Side) int {
	removed := 0
	for _, id := range m.idsOn(side) {
		m.markers.Remove(id)
		removed++
	}
	return removed
}

// ClearAll removes every marker on both sides.
func (m *Manager) ClearAll() int {
	return m.Clear(plane.SideLeft) + m.Clear(plane.SideRight)
}

// ResetSide removes a side's markers and resets its sequence counters. Used
// when the side's source is replaced or cleared.
func (m *Manager) ResetSide(side plane.Side) {
	m.Clear(side)
	for k := range m.nextSeq[side] {
		m.nextSeq[side][k] = 0
	}
}

// BySide returns the side's markers in placement order.
func (m *Manager) BySide(side plane.Side) []*Annotation {
	var out []*Annotation
	it := m.markers.Iterator()
	for it.Next() {
		a := it.Value().(*Annotation)
		if a.Side == side {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the total marker count.
func (m *Manager) Len() int {
	return m.markers.Size()
}

// CountsByKind tallies a side's markers per kind.
func (m *Manager) CountsByKind(side plane.Side) map[Kind]int {
	counts := make(map[Kind]int, kindCount)
	for _, a := range m.BySide(side) {
		counts[a.Kind]++
	}
	return counts
}

// SetVisible toggles rendering of one marker kind across both sides.
func (m *Manager) SetVisible(kind Kind, visible bool) {
	m.hidden[kind] = !visible
}

// Visible reports whether a marker kind is rendered.
func (m *Manager) Visible(kind Kind) bool {
	return !m.hidden[kind]
}

// SetAllVisible shows or hides every marker kind at once. Markers are only
// hidden, never deleted.
func (m *Manager) SetAllVisible(visible bool) {
	for i := range m.hidden {
		m.hidden[i] = !visible
	}
}

// AnyVisible reports whether at least one marker kind is rendered.
func (m *Manager) AnyVisible() bool {
	for i := range m.hidden {
		if !m.hidden[i] {
			return true
		}
	}
	return false
}

// RemapSide applies fn to a side's marker positions and drops any marker
// that lands outside the new raster. It returns the dropped count. Resample
// uses this to fold the committed orientation and scale ratio into stored
// positions in one pass.
func (m *Manager) RemapSide(side plane.Side, fn func(geometry.Point2D) geometry.Point2D, newBounds geometry.Size) int {
	dropped := 0
	for _, a := range m.BySide(side) {
		pos := fn(a.Pos)
		if !newBounds.Bounds().Contains(pos) {
			m.markers.Remove(a.ID)
			dropped++
			continue
		}
		a.Pos = pos
	}
	return dropped
}

// RescaleSide multiplies a side's marker positions by ratio after a resample
// and drops any marker that lands outside the new raster. It returns the
// dropped count.
func (m *Manager) RescaleSide(side plane.Side, ratio float64, newBounds geometry.Size) int {
	return m.RemapSide(side, func(p geometry.Point2D) geometry.Point2D {
		return p.Scale(ratio)
	}, newBounds)
}

// MatchPairs returns match markers that exist with the same sequence number
// on both sides, as left/right position pairs in sequence order. These drive
// point-pair alignment.
func (m *Manager) MatchPairs() (left, right []geometry.Point2D) {
	bySeq := map[int][2]*Annotation{}
	it := m.markers.Iterator()
	for it.Next() {
		a := it.Value().(*Annotation)
		if a.Kind != KindMatch {
			continue
		}
		pair := bySeq[a.Seq]
		pair[a.Side] = a
		bySeq[a.Seq] = pair
	}
	maxSeq := 0
	for seq := range bySeq {
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	for seq := 1; seq <= maxSeq; seq++ {
		pair := bySeq[seq]
		if pair[plane.SideLeft] != nil && pair[plane.SideRight] != nil {
			left = append(left, pair[plane.SideLeft].Pos)
			right = append(right, pair[plane.SideRight].Pos)
		}
	}
	return left, right
}

// Restore replaces the store contents with previously saved markers,
// advancing the id and sequence counters past everything restored so new
// markers keep the never-reused guarantee.
func (m *Manager) Restore(markers []*Annotation) {
	m.markers.Clear()
	m.nextID = 1
	for s := range m.nextSeq {
		for k := range m.nextSeq[s] {
			m.nextSeq[s][k] = 0
		}
	}
	for _, a := range markers {
		m.markers.Put(a.ID, a)
		if a.ID >= m.nextID {
			m.nextID = a.ID + 1
		}
		if a.Seq > m.nextSeq[a.Side][a.Kind] {
			m.nextSeq[a.Side][a.Kind] = a.Seq
		}
	}
}

// All returns every marker in placement order.
func (m *Manager) All() []*Annotation {
	out := make([]*Annotation, 0, m.markers.Size())
	it := m.markers.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Annotation))
	}
	return out
}

func (m *Manager) idsOn(side plane.Side) []uint64 {
	var ids []uint64
	it := m.markers.Iterator()
	for it.Next() {
		if it.Value().(*Annotation).Side == side {
			ids = append(ids, it.Key().(uint64))
		}
	}
	return ids
}
