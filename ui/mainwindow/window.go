// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"
	"ridgecompare/internal/version"
	"ridgecompare/ui/dialogs"
	"ridgecompare/ui/pane"
	"ridgecompare/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir    = "lastDirectory"
	prefKeyLeftImage  = "lastLeftImage"
	prefKeyRightImage = "lastRightImage"
)

// MainWindow is the primary application window: two panes side by side with
// the control panel on the left.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	sess      *session.Session
	leftPane  *pane.Pane
	rightPane *pane.Pane
	sidePanel *panels.SidePanel
	statusBar *widget.Label
}

// New creates the main window.
func New(fyneApp fyne.App, sess *session.Session) *MainWindow {
	win := fyneApp.NewWindow("Ridge Compare")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		sess:   sess,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreLastImages()

	return mw
}

// setupUI creates the main layout.
func (mw *MainWindow) setupUI() {
	mw.leftPane = pane.New(mw.sess, plane.SideLeft)
	mw.rightPane = pane.New(mw.sess, plane.SideRight)

	mw.sidePanel = panels.NewSidePanel(mw.sess, mw.refreshPanes)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	paneSplit := container.NewHSplit(
		mw.leftPane.Container(),
		mw.rightPane.Container(),
	)
	paneSplit.SetOffset(0.5)

	workArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		paneSplit,          // center
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		workArea,
	)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with view controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOut := widget.NewButton("-", func() {
		mw.zoomBoth(false)
	})
	zoomIn := widget.NewButton("+", func() {
		mw.zoomBoth(true)
	})
	rotateLeft := widget.NewButton("Rot L", func() {
		mw.sess.Rotate(plane.SideLeft, 1)
		mw.refreshPanes()
	})
	rotateRight := widget.NewButton("Rot R", func() {
		mw.sess.Rotate(plane.SideRight, 1)
		mw.refreshPanes()
	})
	flipLeft := widget.NewButton("Flip L", func() {
		mw.sess.Flip(plane.SideLeft, plane.FlipHorizontal)
		mw.refreshPanes()
	})
	flipRight := widget.NewButton("Flip R", func() {
		mw.sess.Flip(plane.SideRight, plane.FlipHorizontal)
		mw.refreshPanes()
	})
	resetView := widget.NewButton("Reset view", func() {
		mw.sess.ResetView(plane.SideLeft)
		mw.sess.ResetView(plane.SideRight)
		mw.refreshPanes()
	})

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOut,
		zoomIn,
		widget.NewSeparator(),
		rotateLeft,
		rotateRight,
		flipLeft,
		flipRight,
		resetView,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Left Image...", func() { mw.openImage(plane.SideLeft) }),
		fyne.NewMenuItem("Open Right Image...", func() { mw.openImage(plane.SideRight) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Left", func() { mw.clearSide(plane.SideLeft) }),
		fyne.NewMenuItem("Clear Right", func() { mw.clearSide(plane.SideRight) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Comparison...", mw.onSaveComparison),
		fyne.NewMenuItem("Open Comparison...", mw.onOpenComparison),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Capture...", mw.onExportCapture),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.zoomBoth(true) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.zoomBoth(false) }),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show/Hide Markers", mw.onToggleMarkers),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Use Left Image DPI", func() { mw.adoptDPI(plane.SideLeft) }),
		fyne.NewMenuItem("Use Right Image DPI", func() { mw.adoptDPI(plane.SideRight) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Resample Left...", func() {
			dialogs.ShowResample(mw.Window, mw.sess, plane.SideLeft, mw.refreshPanes)
		}),
		fyne.NewMenuItem("Resample Right...", func() {
			dialogs.ShowResample(mw.Window, mw.sess, plane.SideRight, mw.refreshPanes)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Fit From Match Pairs", mw.onEstimateAlignment),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, toolsMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.sess.On(session.EventImageLoaded, func(data interface{}) {
		mw.sidePanel.Sync()
		mw.refreshPanes()
		if side, ok := data.(plane.Side); ok {
			mw.updateStatus(fmt.Sprintf("Loaded %s image", side))
		}
	})

	mw.sess.On(session.EventImageCleared, func(interface{}) {
		mw.refreshPanes()
	})

	mw.sess.On(session.EventViewChanged, func(interface{}) {
		mw.refreshPanes()
		mw.updateZoomStatus()
	})

	mw.sess.On(session.EventAdjustmentsChanged, func(interface{}) {
		mw.refreshPanes()
	})

	mw.sess.On(session.EventAnnotationsChanged, func(interface{}) {
		mw.refreshPanes()
	})

	mw.sess.On(session.EventMeasurementsChanged, func(data interface{}) {
		mw.refreshPanes()
		if side, ok := data.(plane.Side); ok {
			ms := mw.sess.Measurements(side)
			if len(ms) > 0 {
				mw.updateStatus(fmt.Sprintf("Measured %s", ms[len(ms)-1].Format()))
			}
		}
	})

	mw.sess.On(session.EventCalibrationChanged, func(data interface{}) {
		mw.refreshPanes()
		if side, ok := data.(plane.Side); ok {
			if p := mw.sess.Plane(side); p != nil && p.Calibrated() {
				mw.updateStatus(fmt.Sprintf("%s side: %.0f dpi", side, p.DPI()))
			}
		}
	})

	mw.sess.On(session.EventResampleDone, func(interface{}) {
		mw.refreshPanes()
	})

	mw.sess.On(session.EventBlinkSwap, func(data interface{}) {
		mw.refreshPanes()
		if side, ok := data.(plane.Side); ok {
			mw.updateStatus(fmt.Sprintf("Blink: %s", side))
		}
	})
}

func (mw *MainWindow) refreshPanes() {
	mw.leftPane.Invalidate()
	mw.rightPane.Invalidate()
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateZoomStatus() {
	status := ""
	for _, side := range []plane.Side{plane.SideLeft, plane.SideRight} {
		p := mw.sess.Plane(side)
		if p == nil || !p.OK() {
			continue
		}
		if status != "" {
			status += "   "
		}
		status += fmt.Sprintf("%s %.0f%%", side, p.View.Zoom*100)
	}
	if status != "" {
		mw.updateStatus(status)
	}
}

func (mw *MainWindow) zoomBoth(in bool) {
	mw.sess.ZoomStep(plane.SideLeft, in)
	if !mw.sess.Linked() {
		mw.sess.ZoomStep(plane.SideRight, in)
	}
	mw.refreshPanes()
	mw.updateZoomStatus()
}

func (mw *MainWindow) onToggleMarkers() {
	ann := mw.sess.Annotations()
	ann.SetAllVisible(!ann.AnyVisible())
	mw.sidePanel.Sync()
	mw.refreshPanes()
}

func (mw *MainWindow) onActualSize() {
	mw.sess.Zoom(plane.SideLeft, 1.0)
	mw.sess.Zoom(plane.SideRight, 1.0)
	mw.refreshPanes()
}

func (mw *MainWindow) adoptDPI(side plane.Side) {
	if err := mw.sess.AdoptNativeDPI(side); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.refreshPanes()
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// restoreLastImages reloads the impressions from the previous run.
func (mw *MainWindow) restoreLastImages() {
	for side, key := range map[plane.Side]string{
		plane.SideLeft:  prefKeyLeftImage,
		plane.SideRight: prefKeyRightImage,
	} {
		path := mw.app.Preferences().String(key)
		if path == "" {
			continue
		}
		if err := mw.sess.LoadSide(side, path); err != nil {
			mw.updateStatus(fmt.Sprintf("Could not reload %s image: %v", side, err))
		}
	}
	mw.sidePanel.Sync()
	mw.refreshPanes()
}

func (mw *MainWindow) openImage(side plane.Side) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		if err := mw.sess.LoadSide(side, path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		key := prefKeyLeftImage
		if side == plane.SideRight {
			key = prefKeyRightImage
		}
		mw.app.Preferences().SetString(key, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{
		".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".pbm", ".pgm", ".ppm", ".wsq",
	}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) clearSide(side plane.Side) {
	mw.sess.ClearSide(side)
	key := prefKeyLeftImage
	if side == plane.SideRight {
		key = prefKeyRightImage
	}
	mw.app.Preferences().SetString(key, "")
	mw.refreshPanes()
}

func (mw *MainWindow) onSaveComparison() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".ridgecmp" {
			path += ".ridgecmp"
		}
		mw.saveLastDir(path)
		if err := mw.sess.SaveSnapshot(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Comparison saved: " + path)
	}, mw.Window)
	fd.SetFileName("comparison.ridgecmp")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenComparison() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.sess.RestoreSnapshot(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
		mw.sidePanel.Sync()
		mw.refreshPanes()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".ridgecmp"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// exportPNG runs a save dialog for img and writes it as PNG.
func (mw *MainWindow) exportPNG(img image.Image, defaultName string) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".png" {
			path += ".png"
		}
		mw.saveLastDir(path)

		f, err := os.Create(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported: " + path)
	}, mw.Window)
	fd.SetFileName(defaultName)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportCapture() {
	img := mw.sess.Capture()
	if img == nil {
		dialog.ShowInformation("Export", "Nothing to export: no image is loaded.", mw.Window)
		return
	}
	mw.exportPNG(img, "comparison.png")
}

func (mw *MainWindow) onEstimateAlignment() {
	res, err := mw.sess.EstimateAlignment()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	dialog.ShowConfirm("Alignment fit",
		fmt.Sprintf("Model: %s\nPairs: %d\nInliers: %d\nMean error: %.2f px\n\n"+
			"Export the aligned overlay?",
			res.Model, res.PairCount, len(res.Inliers), res.MeanError),
		func(export bool) {
			if !export {
				return
			}
			img, err := mw.sess.AlignedOverlay(res)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.exportPNG(img, "aligned.png")
		},
		mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Ridge Compare",
		fmt.Sprintf("Ridge Compare v%s\n\n"+
			"Side-by-side impression comparison and annotation.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
