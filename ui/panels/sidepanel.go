// Package panels provides the tabbed control panel beside the panes.
package panels

import (
	"ridgecompare/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel groups the tool, adjustment and marker controls into tabs.
type SidePanel struct {
	sess      *session.Session
	container *container.AppTabs

	toolsPanel   *ToolsPanel
	adjustPanel  *AdjustPanel
	markersPanel *MarkersPanel
}

// NewSidePanel creates the control panel. refresh is called whenever a
// control changed something that the panes need to redraw.
func NewSidePanel(sess *session.Session, refresh func()) *SidePanel {
	sp := &SidePanel{sess: sess}

	sp.toolsPanel = NewToolsPanel(sess, refresh)
	sp.adjustPanel = NewAdjustPanel(sess, refresh)
	sp.markersPanel = NewMarkersPanel(sess, refresh)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Tools", sp.toolsPanel.Container()),
		container.NewTabItem("Adjust", sp.adjustPanel.Container()),
		container.NewTabItem("Markers", sp.markersPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs spawned by the panels.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.toolsPanel.SetWindow(w)
}

// Sync pulls the current session state back into the controls. Called after
// loading an image or restoring a saved comparison.
func (sp *SidePanel) Sync() {
	sp.toolsPanel.Sync()
	sp.adjustPanel.Sync()
	sp.markersPanel.Sync()
}
