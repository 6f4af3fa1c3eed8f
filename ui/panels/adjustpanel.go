package panels

import (
	"fmt"

	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// AdjustPanel holds the per-side brightness, contrast and gamma controls.
// Adjustments are deliberately per side and never mirrored across a link,
// since the two impressions rarely share lighting.
type AdjustPanel struct {
	sess      *session.Session
	refresh   func()
	container fyne.CanvasObject

	sideSelect *widget.Select
	side       plane.Side

	brightSlider   *widget.Slider
	brightLabel    *widget.Label
	contrastSlider *widget.Slider
	contrastLabel  *widget.Label
	gammaSlider    *widget.Slider
	gammaLabel     *widget.Label
	invertCheck    *widget.Check

	syncing bool
}

// NewAdjustPanel creates the adjustment panel.
func NewAdjustPanel(sess *session.Session, refresh func()) *AdjustPanel {
	ap := &AdjustPanel{sess: sess, refresh: refresh, side: plane.SideLeft}

	ap.sideSelect = widget.NewSelect([]string{"Left", "Right"}, func(name string) {
		if name == "Right" {
			ap.side = plane.SideRight
		} else {
			ap.side = plane.SideLeft
		}
		ap.Sync()
	})

	ap.brightLabel = widget.NewLabel("Brightness: 0")
	ap.brightSlider = widget.NewSlider(-100, 100)
	ap.brightSlider.Step = 1
	ap.brightSlider.OnChanged = func(float64) { ap.apply() }

	ap.contrastLabel = widget.NewLabel("Contrast: 1.00")
	ap.contrastSlider = widget.NewSlider(0.5, 2.0)
	ap.contrastSlider.Step = 0.05
	ap.contrastSlider.Value = 1.0
	ap.contrastSlider.OnChanged = func(float64) { ap.apply() }

	ap.gammaLabel = widget.NewLabel("Gamma: 1.00")
	ap.gammaSlider = widget.NewSlider(0.5, 2.0)
	ap.gammaSlider.Step = 0.05
	ap.gammaSlider.Value = 1.0
	ap.gammaSlider.OnChanged = func(float64) { ap.apply() }

	ap.invertCheck = widget.NewCheck("Invert", func(bool) { ap.apply() })

	ap.sideSelect.SetSelected("Left")

	resetBtn := widget.NewButton("Reset", func() {
		ap.sess.ResetAdjustments(ap.side)
		ap.Sync()
		ap.refresh()
	})

	ap.container = container.NewVBox(
		widget.NewLabel("Side"),
		ap.sideSelect,
		widget.NewSeparator(),
		ap.brightLabel,
		ap.brightSlider,
		ap.contrastLabel,
		ap.contrastSlider,
		ap.gammaLabel,
		ap.gammaSlider,
		ap.invertCheck,
		resetBtn,
	)

	return ap
}

// Container returns the panel container.
func (ap *AdjustPanel) Container() fyne.CanvasObject {
	return ap.container
}

func (ap *AdjustPanel) apply() {
	if ap.syncing {
		return
	}
	a := plane.Adjustments{
		Brightness: ap.brightSlider.Value,
		Contrast:   ap.contrastSlider.Value,
		Gamma:      ap.gammaSlider.Value,
		Invert:     ap.invertCheck.Checked,
	}
	ap.updateLabels(a)
	if err := ap.sess.SetAdjustments(ap.side, a); err != nil {
		return
	}
	ap.refresh()
}

func (ap *AdjustPanel) updateLabels(a plane.Adjustments) {
	ap.brightLabel.SetText(fmt.Sprintf("Brightness: %.0f", a.Brightness))
	ap.contrastLabel.SetText(fmt.Sprintf("Contrast: %.2f", a.Contrast))
	ap.gammaLabel.SetText(fmt.Sprintf("Gamma: %.2f", a.Gamma))
}

// Sync loads the selected side's adjustments into the sliders.
func (ap *AdjustPanel) Sync() {
	a := plane.DefaultAdjustments()
	if p := ap.sess.Plane(ap.side); p != nil && p.OK() {
		a = p.Adjust
	}
	ap.syncing = true
	ap.brightSlider.SetValue(a.Brightness)
	ap.contrastSlider.SetValue(a.Contrast)
	ap.gammaSlider.SetValue(a.Gamma)
	ap.invertCheck.SetChecked(a.Invert)
	ap.syncing = false
	ap.updateLabels(a)
}
