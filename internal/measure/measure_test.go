package measure

import (
	"strings"
	"testing"

	"ridgecompare/pkg/geometry"
)

func TestNewUncalibrated(t *testing.T) {
	m := New(1, geometry.NewPoint2D(0, 0), geometry.NewPoint2D(3, 4), 0)
	if m.Pixels != 5 {
		t.Errorf("Expected 5 px, got %v", m.Pixels)
	}
	if m.MMKnown {
		t.Error("Expected MM unavailable without calibration")
	}
	if !strings.Contains(m.Format(), "-- mm") {
		t.Errorf("Expected placeholder mm, got %q", m.Format())
	}
}

func TestNewCalibrated(t *testing.T) {
	m := New(1, geometry.NewPoint2D(0, 0), geometry.NewPoint2D(100, 0), 20)
	if !m.MMKnown || m.MM != 5 {
		t.Errorf("Expected 5 mm, got %v known=%v", m.MM, m.MMKnown)
	}
	if got := m.Format(); got != "100.0 px / 5.00 mm" {
		t.Errorf("Unexpected format %q", got)
	}
}

func TestRescaleKeepsPhysicalLength(t *testing.T) {
	m := New(1, geometry.NewPoint2D(0, 0), geometry.NewPoint2D(100, 0), 20)
	r := m.Rescale(2)
	if r.Pixels != 200 {
		t.Errorf("Expected 200 px, got %v", r.Pixels)
	}
	if r.MM != 5 {
		t.Errorf("Physical length must be invariant, got %v", r.MM)
	}
	if r.Seg.End.X != 200 {
		t.Errorf("Expected endpoint scaled to 200, got %v", r.Seg.End.X)
	}
}

func TestToolStateMachine(t *testing.T) {
	var tool Tool
	if _, done := tool.Click(geometry.NewPoint2D(1, 1)); done {
		t.Fatal("First click should not complete")
	}
	seg, done := tool.Click(geometry.NewPoint2D(4, 5))
	if !done {
		t.Fatal("Second click should complete")
	}
	if seg.Start.X != 1 || seg.End.Y != 5 {
		t.Errorf("Unexpected segment %+v", seg)
	}
	if tool.Armed() {
		t.Error("Tool should rearm from scratch after completion")
	}
}
