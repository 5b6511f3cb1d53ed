package dialogs

import (
	"strconv"

	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

var pathTypes = []wild.PathType{
	wild.PathPavedRoad,
	wild.PathDirtRoad,
	wild.PathGeographic,
	wild.PathRiver,
	wild.PathStream,
}

func pathTypeNames() []string {
	names := make([]string, len(pathTypes))
	for i, t := range pathTypes {
		names[i] = t.String()
	}
	return names
}

func pathTypeByName(name string) wild.PathType {
	for _, t := range pathTypes {
		if t.String() == name {
			return t
		}
	}
	return wild.PathDirtRoad
}

// PathDialog is the property sheet for a path polyline.
type PathDialog struct {
	path   *wild.Path
	window fyne.Window

	nameEntry  *widget.Entry
	typeSelect *widget.Select
	colorEntry *widget.Entry
	propsEntry *widget.Entry
	swatch     *fynecanvas.Rectangle

	onSave func(*wild.Path)
}

// NewPathDialog creates a property sheet for the given path. onSave runs
// only when the user confirms.
func NewPathDialog(path *wild.Path, window fyne.Window, onSave func(*wild.Path)) *PathDialog {
	return &PathDialog{
		path:   path,
		window: window,
		onSave: onSave,
	}
}

// Show displays the dialog.
func (d *PathDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Path "+strconv.Itoa(d.path.VNum),
		"Save",
		"Cancel",
		content,
		func(save bool) {
			if save {
				d.applyChanges()
				if d.onSave != nil {
					d.onSave(d.path)
				}
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 340))
	dlg.Show()
}

func (d *PathDialog) createContent() fyne.CanvasObject {
	d.nameEntry = widget.NewEntry()
	d.nameEntry.SetText(d.path.Name)
	d.nameEntry.SetPlaceHolder("Unnamed path")

	d.typeSelect = widget.NewSelect(pathTypeNames(), func(string) {
		d.updateSwatch()
	})
	d.typeSelect.SetSelected(d.path.Type.String())

	d.colorEntry = widget.NewEntry()
	d.colorEntry.SetText(d.path.Color)
	d.colorEntry.SetPlaceHolder("#RRGGBB, empty for type default")
	d.colorEntry.OnChanged = func(string) { d.updateSwatch() }

	d.swatch = fynecanvas.NewRectangle(d.path.RGBA())
	d.swatch.SetMinSize(fyne.NewSize(40, 24))

	d.propsEntry = widget.NewEntry()
	d.propsEntry.SetText(strconv.Itoa(d.path.Props))

	form := widget.NewForm(
		widget.NewFormItem("Name", d.nameEntry),
		widget.NewFormItem("Type", d.typeSelect),
		widget.NewFormItem("Color", container.NewBorder(nil, nil, nil, d.swatch, d.colorEntry)),
		widget.NewFormItem("Flags", d.propsEntry),
	)

	return container.NewVBox(
		widget.NewCard("Properties", "", form),
		widget.NewLabel(strconv.Itoa(len(d.path.Coords))+" vertices"),
	)
}

func (d *PathDialog) applyChanges() {
	d.path.Name = d.nameEntry.Text
	d.path.Type = pathTypeByName(d.typeSelect.Selected)
	d.path.Color = d.colorEntry.Text
	if v, err := strconv.Atoi(d.propsEntry.Text); err == nil {
		d.path.Props = v
	}
}

func (d *PathDialog) updateSwatch() {
	fallback := pathTypeByName(d.typeSelect.Selected).DefaultColor()
	d.swatch.FillColor = colorutil.ParseHex(d.colorEntry.Text, fallback)
	fynecanvas.Refresh(d.swatch)
}
