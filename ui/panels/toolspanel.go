package panels

import (
	"fmt"

	"ridgecompare/internal/annotation"
	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"
	"ridgecompare/ui/dialogs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ToolsPanel selects the active tool, the marker kind, the display mode and
// the linked-view state.
type ToolsPanel struct {
	sess      *session.Session
	refresh   func()
	window    fyne.Window
	container fyne.CanvasObject

	toolRadio     *widget.RadioGroup
	kindSelect    *widget.Select
	linkCheck     *widget.Check
	modeRadio     *widget.RadioGroup
	opacitySlider *widget.Slider
	opacityLabel  *widget.Label
	blinkBtn      *widget.Button
}

var toolNames = []string{"Pan", "Place markers", "Measure", "Calibrate"}

var toolByName = map[string]session.ToolMode{
	"Pan":           session.ToolPan,
	"Place markers": session.ToolAnnotate,
	"Measure":       session.ToolMeasure,
	"Calibrate":     session.ToolCalibrate,
}

var modeNames = []string{"Side by side", "Overlay", "Blink"}

var modeByName = map[string]session.DisplayMode{
	"Side by side": session.ModeSideBySide,
	"Overlay":      session.ModeOverlay,
	"Blink":        session.ModeBlink,
}

// NewToolsPanel creates the tool selection panel.
func NewToolsPanel(sess *session.Session, refresh func()) *ToolsPanel {
	tp := &ToolsPanel{sess: sess, refresh: refresh}

	tp.toolRadio = widget.NewRadioGroup(toolNames, func(name string) {
		if tool, ok := toolByName[name]; ok {
			tp.sess.SetTool(tool)
			tp.refresh()
		}
	})
	tp.toolRadio.SetSelected("Pan")

	var kindNames []string
	for _, k := range annotation.Kinds() {
		kindNames = append(kindNames, k.String())
	}
	tp.kindSelect = widget.NewSelect(kindNames, func(name string) {
		for _, k := range annotation.Kinds() {
			if k.String() == name {
				tp.sess.SetMarkerKind(k)
				return
			}
		}
	})
	tp.kindSelect.SetSelected(annotation.KindMinutia.String())

	tp.linkCheck = widget.NewCheck("Link panes", func(on bool) {
		tp.sess.SetLinked(on)
	})

	tp.blinkBtn = widget.NewButton("Pause blink", func() {
		if tp.blinkBtn.Text == "Pause blink" {
			tp.sess.PauseBlink()
			tp.blinkBtn.SetText("Resume blink")
		} else {
			tp.sess.ResumeBlink()
			tp.blinkBtn.SetText("Pause blink")
		}
	})

	tp.modeRadio = widget.NewRadioGroup(modeNames, func(name string) {
		if mode, ok := modeByName[name]; ok {
			tp.sess.SetMode(mode)
			tp.blinkBtn.SetText("Pause blink")
			tp.refresh()
		}
	})
	tp.modeRadio.SetSelected("Side by side")

	tp.opacityLabel = widget.NewLabel("Opacity: 50%")
	tp.opacitySlider = widget.NewSlider(0, 1)
	tp.opacitySlider.Step = 0.05
	tp.opacitySlider.Value = tp.sess.OverlayOpacity()
	tp.opacitySlider.OnChanged = func(v float64) {
		tp.sess.SetOverlayOpacity(v)
		tp.opacityLabel.SetText(fmt.Sprintf("Opacity: %.0f%%", v*100))
		tp.refresh()
	}

	tp.container = container.NewVBox(
		widget.NewLabel("Tool"),
		tp.toolRadio,
		widget.NewLabel("Marker kind"),
		tp.kindSelect,
		widget.NewSeparator(),
		tp.linkCheck,
		widget.NewSeparator(),
		widget.NewLabel("Display"),
		tp.modeRadio,
		tp.opacityLabel,
		tp.opacitySlider,
		tp.blinkBtn,
	)

	// A completed calibration click pair still needs its known distance.
	sess.On(session.EventCalibrationChanged, func(data interface{}) {
		side, ok := data.(plane.Side)
		if !ok || !tp.sess.CalibrationPending(side) || tp.window == nil {
			return
		}
		dialogs.ShowCalibrationDistance(tp.window, tp.sess, side, tp.refresh)
	})

	return tp
}

// Container returns the panel container.
func (tp *ToolsPanel) Container() fyne.CanvasObject {
	return tp.container
}

// SetWindow sets the parent window for the calibration distance dialog.
func (tp *ToolsPanel) SetWindow(w fyne.Window) {
	tp.window = w
}

// Sync pulls the session's tool and mode back into the controls.
func (tp *ToolsPanel) Sync() {
	for name, tool := range toolByName {
		if tool == tp.sess.Tool() {
			tp.toolRadio.SetSelected(name)
		}
	}
	for name, mode := range modeByName {
		if mode == tp.sess.Mode() {
			tp.modeRadio.SetSelected(name)
		}
	}
	tp.linkCheck.SetChecked(tp.sess.Linked())
	tp.opacitySlider.SetValue(tp.sess.OverlayOpacity())
}
