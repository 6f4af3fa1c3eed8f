package panels

import (
	"fmt"
	"strings"

	"ridgecompare/internal/annotation"
	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// MarkersPanel shows marker counts, per-kind visibility toggles and the
// completed measurements.
type MarkersPanel struct {
	sess      *session.Session
	refresh   func()
	container fyne.CanvasObject

	visChecks    map[annotation.Kind]*widget.Check
	countsLabel  *widget.Label
	measureLabel *widget.Label
}

// NewMarkersPanel creates the markers panel.
func NewMarkersPanel(sess *session.Session, refresh func()) *MarkersPanel {
	mp := &MarkersPanel{
		sess:      sess,
		refresh:   refresh,
		visChecks: make(map[annotation.Kind]*widget.Check),
	}

	var visRows []fyne.CanvasObject
	for _, k := range annotation.Kinds() {
		kind := k
		check := widget.NewCheck(kind.String(), func(on bool) {
			mp.sess.Annotations().SetVisible(kind, on)
			mp.refresh()
		})
		check.SetChecked(true)
		mp.visChecks[kind] = check
		visRows = append(visRows, check)
	}

	mp.countsLabel = widget.NewLabel("")
	mp.measureLabel = widget.NewLabel("")
	mp.measureLabel.Wrapping = fyne.TextWrapWord

	clearLeft := widget.NewButton("Clear left markers", func() {
		mp.sess.Annotations().Clear(plane.SideLeft)
		mp.sess.Emit(session.EventAnnotationsChanged, plane.SideLeft)
		mp.Sync()
		mp.refresh()
	})
	clearRight := widget.NewButton("Clear right markers", func() {
		mp.sess.Annotations().Clear(plane.SideRight)
		mp.sess.Emit(session.EventAnnotationsChanged, plane.SideRight)
		mp.Sync()
		mp.refresh()
	})
	clearMeasures := widget.NewButton("Clear measurements", func() {
		mp.sess.ClearMeasurements(plane.SideLeft)
		mp.sess.ClearMeasurements(plane.SideRight)
		mp.Sync()
		mp.refresh()
	})

	mp.container = container.NewVBox(append(
		append([]fyne.CanvasObject{widget.NewLabel("Show kinds")}, visRows...),
		widget.NewSeparator(),
		mp.countsLabel,
		clearLeft,
		clearRight,
		widget.NewSeparator(),
		widget.NewLabel("Measurements"),
		mp.measureLabel,
		clearMeasures,
	)...)

	sess.On(session.EventAnnotationsChanged, func(interface{}) {
		mp.Sync()
	})
	sess.On(session.EventMeasurementsChanged, func(interface{}) {
		mp.Sync()
	})

	mp.Sync()
	return mp
}

// Container returns the panel container.
func (mp *MarkersPanel) Container() fyne.CanvasObject {
	return mp.container
}

// Sync refreshes the counts, visibility checks and measurement listing.
func (mp *MarkersPanel) Sync() {
	ann := mp.sess.Annotations()
	for kind, check := range mp.visChecks {
		check.SetChecked(ann.Visible(kind))
	}

	var sb strings.Builder
	for _, side := range []plane.Side{plane.SideLeft, plane.SideRight} {
		counts := ann.CountsByKind(side)
		total := 0
		for _, n := range counts {
			total += n
		}
		fmt.Fprintf(&sb, "%s: %d markers\n", side, total)
	}
	mp.countsLabel.SetText(strings.TrimRight(sb.String(), "\n"))

	sb.Reset()
	for _, side := range []plane.Side{plane.SideLeft, plane.SideRight} {
		for _, m := range mp.sess.Measurements(side) {
			fmt.Fprintf(&sb, "%s: %s\n", side, m.Format())
		}
	}
	if sb.Len() == 0 {
		mp.measureLabel.SetText("none")
	} else {
		mp.measureLabel.SetText(strings.TrimRight(sb.String(), "\n"))
	}
}
