// Package dialogs provides the application dialogs.
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

// ShowCalibrationDistance asks for the real-world distance between the two
// picked calibration points and commits the calibration.
func ShowCalibrationDistance(win fyne.Window, sess *session.Session, side plane.Side, refresh func()) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("e.g. 25.4")

	items := []*widget.FormItem{
		widget.NewFormItem("Distance (mm)", entry),
	}

	dialog.ShowForm(fmt.Sprintf("Calibrate %s side", side), "Apply", "Cancel", items,
		func(ok bool) {
			if !ok {
				return
			}
			mm, err := strconv.ParseFloat(entry.Text, 64)
			if err != nil {
				dialog.ShowError(fmt.Errorf("invalid distance %q", entry.Text), win)
				return
			}
			if err := sess.CommitCalibration(side, mm); err != nil {
				dialog.ShowError(err, win)
				return
			}
			if p := sess.Plane(side); p != nil && p.Calib != nil {
				dialog.ShowInformation("Calibrated",
					fmt.Sprintf("%s side: %.3f px/mm (%.0f dpi)",
						side, p.Calib.PixelsPerMM, p.Calib.DPI()),
					win)
			}
			refresh()
		}, win)
}
