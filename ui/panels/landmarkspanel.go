package panels

import (
	"fmt"
	"sort"

	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/wild"
	"wilderness-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LandmarksPanel lists the world's landmarks with per-landmark
// visibility and whole-category toggles.
type LandmarksPanel struct {
	state  *editor.State
	canvas *canvas.MapCanvas

	container  *fyne.Container
	list       *widget.List
	countLabel *widget.Label
	groupBox   *fyne.Container

	landmarks  []*wild.Landmark
	visibility *wild.Visibility

	onEdit func(wild.Item)
}

// NewLandmarksPanel creates the landmarks tab.
func NewLandmarksPanel(state *editor.State, mapCanvas *canvas.MapCanvas) *LandmarksPanel {
	p := &LandmarksPanel{
		state:  state,
		canvas: mapCanvas,
	}

	p.countLabel = widget.NewLabel("No landmarks")
	p.groupBox = container.NewVBox()

	p.list = widget.NewList(
		func() int { return len(p.landmarks) },
		func() fyne.CanvasObject {
			check := widget.NewCheck("", nil)
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewBorder(nil, nil, check, nil, label)
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i >= len(p.landmarks) {
				return
			}
			l := p.landmarks[i]
			row := obj.(*fyne.Container)
			label := row.Objects[0].(*widget.Label)
			check := row.Objects[1].(*widget.Check)

			label.SetText(fmt.Sprintf("%s (%d, %d)", l.DisplayName(), l.Coord.X, l.Coord.Y))

			id := l.ID
			check.OnChanged = nil
			check.SetChecked(p.visibility == nil || p.visibility.LandmarkVisible(l))
			check.OnChanged = func(visible bool) {
				p.state.SetLandmarkHidden(id, !visible)
			}
		},
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		if i < len(p.landmarks) {
			p.state.Select(p.landmarks[i].Ref())
		}
	}

	centerButton := widget.NewButton("Center", func() {
		if l := p.selectedLandmark(); l != nil {
			p.canvas.CenterOn(l.Coord)
		}
	})
	editButton := widget.NewButton("Edit...", func() {
		if l := p.selectedLandmark(); l != nil && p.onEdit != nil {
			p.onEdit(l)
		}
	})

	p.container = container.NewBorder(
		p.countLabel,
		container.NewVBox(
			widget.NewCard("Categories", "", p.groupBox),
			container.NewHBox(centerButton, editButton),
		),
		nil, nil,
		p.list,
	)

	state.On(editor.EventWorldLoaded, func(any) { p.reload() })
	state.On(editor.EventShapesChanged, func(any) { p.reload() })
	state.On(editor.EventVisibilityChanged, func(any) {
		p.visibility = p.state.Visibility()
		p.list.Refresh()
		p.rebuildGroups()
	})
	state.On(editor.EventSelectionChanged, func(data any) {
		ref, _ := data.(wild.Ref)
		p.syncSelection(ref)
	})

	p.reload()
	return p
}

// Container returns the panel's root object.
func (p *LandmarksPanel) Container() fyne.CanvasObject {
	return p.container
}

// OnEdit registers the callback for the Edit button.
func (p *LandmarksPanel) OnEdit(callback func(wild.Item)) {
	p.onEdit = callback
}

func (p *LandmarksPanel) reload() {
	p.landmarks = p.state.Landmarks()
	p.visibility = p.state.Visibility()

	switch n := len(p.landmarks); n {
	case 0:
		p.countLabel.SetText("No landmarks")
	case 1:
		p.countLabel.SetText("1 landmark")
	default:
		p.countLabel.SetText(fmt.Sprintf("%d landmarks", n))
	}
	p.list.Refresh()
	p.rebuildGroups()
}

// rebuildGroups recreates the category checkboxes from the landmarks
// present in the world.
func (p *LandmarksPanel) rebuildGroups() {
	seen := make(map[string]bool)
	var groups []string
	for _, l := range p.landmarks {
		g := l.Group()
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	sort.Strings(groups)

	p.groupBox.Objects = nil
	for _, g := range groups {
		group := g
		check := widget.NewCheck(group, func(visible bool) {
			p.state.SetGroupHidden(group, !visible)
		})
		check.Checked = !p.state.GroupHidden(group)
		p.groupBox.Add(check)
	}
	p.groupBox.Refresh()
}

func (p *LandmarksPanel) selectedLandmark() *wild.Landmark {
	ref := p.state.Selected()
	if ref.Kind != wild.KindLandmark {
		return nil
	}
	return p.state.Landmark(ref.ID)
}

func (p *LandmarksPanel) syncSelection(ref wild.Ref) {
	if ref.Kind == wild.KindLandmark {
		for i, l := range p.landmarks {
			if l.ID == ref.ID {
				p.list.Select(i)
				return
			}
		}
	}
	p.list.UnselectAll()
}
