package panels

import (
	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/render"
	"wilderness-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// DisplayPanel holds the layer toggles and the background image source.
type DisplayPanel struct {
	state  *editor.State
	canvas *canvas.MapCanvas

	container *fyne.Container

	backgroundCheck *widget.Check
	gridCheck       *widget.Check
	axesCheck       *widget.Check
	regionsCheck    *widget.Check
	pathsCheck      *widget.Check
	landmarksCheck  *widget.Check
	overlayCheck    *widget.Check

	sourceEntry *widget.Entry

	onBackgroundChanged func(string)
}

// NewDisplayPanel creates the display tab. backgroundSource seeds the
// image source field and is loaded right away when non-empty.
func NewDisplayPanel(state *editor.State, mapCanvas *canvas.MapCanvas, backgroundSource string) *DisplayPanel {
	p := &DisplayPanel{
		state:  state,
		canvas: mapCanvas,
	}

	p.backgroundCheck = p.layerCheck("Background image", func(f *render.Flags, on bool) { f.Background = on })
	p.gridCheck = p.layerCheck("Grid", func(f *render.Flags, on bool) { f.Grid = on })
	p.axesCheck = p.layerCheck("Axes", func(f *render.Flags, on bool) { f.Axes = on })
	p.regionsCheck = p.layerCheck("Regions", func(f *render.Flags, on bool) { f.Regions = on })
	p.pathsCheck = p.layerCheck("Paths", func(f *render.Flags, on bool) { f.Paths = on })
	p.landmarksCheck = p.layerCheck("Landmarks", func(f *render.Flags, on bool) { f.Landmarks = on })
	p.overlayCheck = p.layerCheck("Drawing overlay", func(f *render.Flags, on bool) { f.Overlay = on })
	p.syncFromFlags(state.Flags())

	p.sourceEntry = widget.NewEntry()
	p.sourceEntry.SetPlaceHolder("path or http(s) URL")
	p.sourceEntry.SetText(backgroundSource)

	loadButton := widget.NewButton("Load", func() {
		p.applyBackground(p.sourceEntry.Text)
	})
	clearButton := widget.NewButton("Clear", func() {
		p.sourceEntry.SetText("")
		p.applyBackground("")
	})

	p.container = container.NewVBox(
		widget.NewCard("Layers", "", container.NewVBox(
			p.backgroundCheck,
			p.gridCheck,
			p.axesCheck,
			p.regionsCheck,
			p.pathsCheck,
			p.landmarksCheck,
			p.overlayCheck,
		)),
		widget.NewCard("Background Image", "", container.NewVBox(
			p.sourceEntry,
			container.NewHBox(loadButton, clearButton),
		)),
	)

	state.On(editor.EventFlagsChanged, func(data any) {
		if f, ok := data.(render.Flags); ok {
			p.syncFromFlags(f)
		}
	})

	if backgroundSource != "" {
		mapCanvas.LoadBackground(backgroundSource)
	}

	return p
}

// Container returns the panel's root object.
func (p *DisplayPanel) Container() fyne.CanvasObject {
	return p.container
}

// OnBackgroundChanged registers the callback invoked when the user
// loads or clears the background source.
func (p *DisplayPanel) OnBackgroundChanged(callback func(source string)) {
	p.onBackgroundChanged = callback
}

func (p *DisplayPanel) layerCheck(name string, apply func(*render.Flags, bool)) *widget.Check {
	return widget.NewCheck(name, func(checked bool) {
		f := p.state.Flags()
		apply(&f, checked)
		p.state.SetFlags(f)
	})
}

func (p *DisplayPanel) syncFromFlags(f render.Flags) {
	p.backgroundCheck.SetChecked(f.Background)
	p.gridCheck.SetChecked(f.Grid)
	p.axesCheck.SetChecked(f.Axes)
	p.regionsCheck.SetChecked(f.Regions)
	p.pathsCheck.SetChecked(f.Paths)
	p.landmarksCheck.SetChecked(f.Landmarks)
	p.overlayCheck.SetChecked(f.Overlay)
}

func (p *DisplayPanel) applyBackground(source string) {
	p.canvas.LoadBackground(source)
	if p.onBackgroundChanged != nil {
		p.onBackgroundChanged(source)
	}
}
