package dialogs

import (
	"fmt"
	"strconv"

	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowResample asks for a target resolution and resamples the side in the
// background. The side must already be calibrated.
func ShowResample(win fyne.Window, sess *session.Session, side plane.Side, refresh func()) {
	p := sess.Plane(side)
	if p == nil || !p.OK() {
		dialog.ShowInformation("Resample", "No image loaded on the "+side.String()+" side.", win)
		return
	}
	if !p.Calibrated() {
		dialog.ShowInformation("Resample",
			"Calibrate the "+side.String()+" side first so its resolution is known.", win)
		return
	}

	entry := widget.NewEntry()
	entry.SetText(strconv.FormatFloat(sess.Config().Resample.TargetDPI, 'f', -1, 64))

	items := []*widget.FormItem{
		widget.NewFormItem("Target DPI", entry),
	}

	dialog.ShowForm(fmt.Sprintf("Resample %s side (now %.0f dpi)", side, p.DPI()),
		"Resample", "Cancel", items,
		func(ok bool) {
			if !ok {
				return
			}
			dpi, err := strconv.ParseFloat(entry.Text, 64)
			if err != nil || dpi <= 0 {
				dialog.ShowError(fmt.Errorf("invalid resolution %q", entry.Text), win)
				return
			}
			err = sess.ResampleAsync(side, dpi, func(out *session.ResampleOutcome, err error) {
				if err != nil {
					dialog.ShowError(err, win)
					return
				}
				msg := fmt.Sprintf("%s side resampled to %.0f dpi (%.0fx%.0f)",
					side, out.TargetDPI, out.NewSize.Width, out.NewSize.Height)
				if out.DroppedMarkers > 0 {
					msg += fmt.Sprintf("\n%d markers fell outside the new bounds and were removed.",
						out.DroppedMarkers)
				}
				dialog.ShowInformation("Resample", msg, win)
				refresh()
			})
			if err != nil {
				dialog.ShowError(err, win)
			}
		}, win)
}
