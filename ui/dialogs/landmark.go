package dialogs

import (
	"fmt"

	"wilderness-editor/internal/wild"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// LandmarkDialog is the property sheet for a landmark point.
type LandmarkDialog struct {
	landmark *wild.Landmark
	window   fyne.Window

	nameEntry     *widget.Entry
	categoryEntry *widget.Entry

	onSave func(*wild.Landmark)
}

// NewLandmarkDialog creates a property sheet for the given landmark.
// onSave runs only when the user confirms.
func NewLandmarkDialog(landmark *wild.Landmark, window fyne.Window, onSave func(*wild.Landmark)) *LandmarkDialog {
	return &LandmarkDialog{
		landmark: landmark,
		window:   window,
		onSave:   onSave,
	}
}

// Show displays the dialog.
func (d *LandmarkDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Landmark",
		"Save",
		"Cancel",
		content,
		func(save bool) {
			if save {
				d.applyChanges()
				if d.onSave != nil {
					d.onSave(d.landmark)
				}
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(380, 260))
	dlg.Show()
}

func (d *LandmarkDialog) createContent() fyne.CanvasObject {
	d.nameEntry = widget.NewEntry()
	d.nameEntry.SetText(d.landmark.Name)
	d.nameEntry.SetPlaceHolder("Unnamed landmark")

	d.categoryEntry = widget.NewEntry()
	d.categoryEntry.SetText(d.landmark.Category)
	d.categoryEntry.SetPlaceHolder("Landmarks")

	form := widget.NewForm(
		widget.NewFormItem("Name", d.nameEntry),
		widget.NewFormItem("Category", d.categoryEntry),
	)

	position := widget.NewLabel(fmt.Sprintf("At (%d, %d)", d.landmark.Coord.X, d.landmark.Coord.Y))

	return container.NewVBox(
		widget.NewCard("Properties", "", form),
		position,
	)
}

func (d *LandmarkDialog) applyChanges() {
	d.landmark.Name = d.nameEntry.Text
	d.landmark.Category = d.categoryEntry.Text
}
