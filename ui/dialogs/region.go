// Package dialogs provides application dialogs.
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

var regionTypes = []wild.RegionType{
	wild.RegionGeographic,
	wild.RegionEncounter,
	wild.RegionTransform,
	wild.RegionSectorOverride,
}

func regionTypeNames() []string {
	names := make([]string, len(regionTypes))
	for i, t := range regionTypes {
		names[i] = t.String()
	}
	return names
}

func regionTypeByName(name string) wild.RegionType {
	for _, t := range regionTypes {
		if t.String() == name {
			return t
		}
	}
	return wild.RegionGeographic
}

// RegionDialog is the property sheet for a region polygon.
type RegionDialog struct {
	region *wild.Region
	window fyne.Window

	nameEntry  *widget.Entry
	typeSelect *widget.Select
	colorEntry *widget.Entry
	propsEntry *widget.Entry
	swatch     *fynecanvas.Rectangle

	onSave func(*wild.Region)
}

// NewRegionDialog creates a property sheet for the given region. onSave
// runs only when the user confirms.
func NewRegionDialog(region *wild.Region, window fyne.Window, onSave func(*wild.Region)) *RegionDialog {
	return &RegionDialog{
		region: region,
		window: window,
		onSave: onSave,
	}
}

// Show displays the dialog.
func (d *RegionDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Region "+strconv.Itoa(d.region.VNum),
		"Save",
		"Cancel",
		content,
		func(save bool) {
			if save {
				d.applyChanges()
				if d.onSave != nil {
					d.onSave(d.region)
				}
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 340))
	dlg.Show()
}

func (d *RegionDialog) createContent() fyne.CanvasObject {
	d.nameEntry = widget.NewEntry()
	d.nameEntry.SetText(d.region.Name)
	d.nameEntry.SetPlaceHolder("Unnamed region")

	d.typeSelect = widget.NewSelect(regionTypeNames(), func(string) {
		d.updateSwatch()
	})
	d.typeSelect.SetSelected(d.region.Type.String())

	d.colorEntry = widget.NewEntry()
	d.colorEntry.SetText(d.region.Color)
	d.colorEntry.SetPlaceHolder("#RRGGBB, empty for type default")
	d.colorEntry.OnChanged = func(string) { d.updateSwatch() }

	d.swatch = fynecanvas.NewRectangle(d.region.RGBA())
	d.swatch.SetMinSize(fyne.NewSize(40, 24))

	d.propsEntry = widget.NewEntry()
	d.propsEntry.SetText(strconv.Itoa(d.region.Props))

	form := widget.NewForm(
		widget.NewFormItem("Name", d.nameEntry),
		widget.NewFormItem("Type", d.typeSelect),
		widget.NewFormItem("Color", container.NewBorder(nil, nil, nil, d.swatch, d.colorEntry)),
		widget.NewFormItem("Flags", d.propsEntry),
	)

	return container.NewVBox(
		widget.NewCard("Properties", "", form),
		widget.NewLabel(strconv.Itoa(len(d.region.Coords))+" vertices"),
	)
}

func (d *RegionDialog) applyChanges() {
	d.region.Name = d.nameEntry.Text
	d.region.Type = regionTypeByName(d.typeSelect.Selected)
	d.region.Color = d.colorEntry.Text
	if v, err := strconv.Atoi(d.propsEntry.Text); err == nil {
		d.region.Props = v
	}
}

func (d *RegionDialog) updateSwatch() {
	fallback := regionTypeByName(d.typeSelect.Selected).DefaultColor()
	d.swatch.FillColor = colorutil.ParseHex(d.colorEntry.Text, fallback)
	fynecanvas.Refresh(d.swatch)
}
