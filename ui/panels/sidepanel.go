// Package panels provides the side panel tabs.
package panels

import (
	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/wild"
	"wilderness-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel contains the tabbed side panel with the feature lists and
// display controls.
type SidePanel struct {
	state  *editor.State
	canvas *canvas.MapCanvas

	tabs *container.AppTabs

	regions   *RegionsPanel
	paths     *PathsPanel
	landmarks *LandmarksPanel
	display   *DisplayPanel
}

// NewSidePanel creates the side panel with all tabs.
func NewSidePanel(state *editor.State, mapCanvas *canvas.MapCanvas, backgroundSource string) *SidePanel {
	sp := &SidePanel{
		state:  state,
		canvas: mapCanvas,
	}

	sp.regions = NewRegionsPanel(state, mapCanvas)
	sp.paths = NewPathsPanel(state, mapCanvas)
	sp.landmarks = NewLandmarksPanel(state, mapCanvas)
	sp.display = NewDisplayPanel(state, mapCanvas, backgroundSource)

	sp.tabs = container.NewAppTabs(
		container.NewTabItem("Regions", sp.regions.Container()),
		container.NewTabItem("Paths", sp.paths.Container()),
		container.NewTabItem("Landmarks", sp.landmarks.Container()),
		container.NewTabItem("Display", sp.display.Container()),
	)

	return sp
}

// Container returns the top-level container for the side panel.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.tabs
}

// OnEdit registers the callback invoked when a panel's Edit button is
// pressed on a feature.
func (sp *SidePanel) OnEdit(callback func(wild.Item)) {
	sp.regions.OnEdit(callback)
	sp.paths.OnEdit(callback)
	sp.landmarks.OnEdit(callback)
}

// OnBackgroundChanged registers the callback invoked when the display
// tab changes the background image source.
func (sp *SidePanel) OnBackgroundChanged(callback func(source string)) {
	sp.display.OnBackgroundChanged(callback)
}
