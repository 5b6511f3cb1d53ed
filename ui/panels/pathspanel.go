package panels

import (
	"fmt"

	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/wild"
	"wilderness-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// PathsPanel lists the world's paths with per-path visibility.
type PathsPanel struct {
	state  *editor.State
	canvas *canvas.MapCanvas

	container  *fyne.Container
	list       *widget.List
	countLabel *widget.Label

	paths      []*wild.Path
	visibility *wild.Visibility

	onEdit func(wild.Item)
}

// NewPathsPanel creates the paths tab.
func NewPathsPanel(state *editor.State, mapCanvas *canvas.MapCanvas) *PathsPanel {
	p := &PathsPanel{
		state:  state,
		canvas: mapCanvas,
	}

	p.countLabel = widget.NewLabel("No paths")

	p.list = widget.NewList(
		func() int { return len(p.paths) },
		func() fyne.CanvasObject {
			check := widget.NewCheck("", nil)
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewBorder(nil, nil, check, nil, label)
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i >= len(p.paths) {
				return
			}
			path := p.paths[i]
			row := obj.(*fyne.Container)
			label := row.Objects[0].(*widget.Label)
			check := row.Objects[1].(*widget.Check)

			label.SetText(fmt.Sprintf("%s (%s)", path.DisplayName(), path.Type))

			vnum := path.VNum
			check.OnChanged = nil
			check.SetChecked(p.visibility == nil || p.visibility.PathVisible(path))
			check.OnChanged = func(visible bool) {
				p.state.SetPathHidden(vnum, !visible)
			}
		},
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		if i < len(p.paths) {
			p.state.Select(p.paths[i].Ref())
		}
	}

	centerButton := widget.NewButton("Center", func() {
		if path := p.selectedPath(); path != nil && len(path.Coords) > 0 {
			// The middle vertex is a better "there" for a long polyline
			// than the centroid, which can sit far off the line.
			p.canvas.CenterOn(path.Coords[len(path.Coords)/2])
		}
	})
	editButton := widget.NewButton("Edit...", func() {
		if path := p.selectedPath(); path != nil && p.onEdit != nil {
			p.onEdit(path)
		}
	})

	p.container = container.NewBorder(
		p.countLabel,
		container.NewHBox(centerButton, editButton),
		nil, nil,
		p.list,
	)

	state.On(editor.EventWorldLoaded, func(any) { p.reload() })
	state.On(editor.EventShapesChanged, func(any) { p.reload() })
	state.On(editor.EventVisibilityChanged, func(any) {
		p.visibility = p.state.Visibility()
		p.list.Refresh()
	})
	state.On(editor.EventSelectionChanged, func(data any) {
		ref, _ := data.(wild.Ref)
		p.syncSelection(ref)
	})

	p.reload()
	return p
}

// Container returns the panel's root object.
func (p *PathsPanel) Container() fyne.CanvasObject {
	return p.container
}

// OnEdit registers the callback for the Edit button.
func (p *PathsPanel) OnEdit(callback func(wild.Item)) {
	p.onEdit = callback
}

func (p *PathsPanel) reload() {
	p.paths = p.state.Paths()
	p.visibility = p.state.Visibility()

	switch n := len(p.paths); n {
	case 0:
		p.countLabel.SetText("No paths")
	case 1:
		p.countLabel.SetText("1 path")
	default:
		p.countLabel.SetText(fmt.Sprintf("%d paths", n))
	}
	p.list.Refresh()
}

func (p *PathsPanel) selectedPath() *wild.Path {
	ref := p.state.Selected()
	if ref.Kind != wild.KindPath {
		return nil
	}
	return p.state.Path(ref.VNum)
}

func (p *PathsPanel) syncSelection(ref wild.Ref) {
	if ref.Kind == wild.KindPath {
		for i, path := range p.paths {
			if path.VNum == ref.VNum {
				p.list.Select(i)
				return
			}
		}
	}
	p.list.UnselectAll()
}
