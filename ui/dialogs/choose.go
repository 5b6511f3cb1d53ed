package dialogs

import (
	"fmt"

	"wilderness-editor/internal/selection"
	"wilderness-editor/internal/wild"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowDisambiguation lists the features overlapping an ambiguous click
// so the user can pick the one they meant. Candidates keep the
// resolver's order: paths before regions, nearest and smallest first.
func ShowDisambiguation(result selection.Result, window fyne.Window, onPick func(wild.Item)) {
	candidates := result.Candidates

	list := widget.NewList(
		func() int { return len(candidates) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			item := candidates[i].Item
			obj.(*widget.Label).SetText(fmt.Sprintf("%s (%s)", item.DisplayName(), item.Ref().Kind))
		},
	)

	var dlg dialog.Dialog
	list.OnSelected = func(i widget.ListItemID) {
		dlg.Hide()
		if onPick != nil {
			onPick(candidates[i].Item)
		}
	}

	dlg = dialog.NewCustom("Multiple Features Here", "Cancel", list, window)
	dlg.Resize(fyne.NewSize(340, 320))
	dlg.Show()
}
