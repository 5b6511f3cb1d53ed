package panels

import (
	"fmt"

	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
	"wilderness-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// RegionsPanel lists the world's regions with per-region visibility.
type RegionsPanel struct {
	state  *editor.State
	canvas *canvas.MapCanvas

	container  *fyne.Container
	list       *widget.List
	countLabel *widget.Label

	regions    []*wild.Region
	visibility *wild.Visibility

	onEdit func(wild.Item)
}

// NewRegionsPanel creates the regions tab.
func NewRegionsPanel(state *editor.State, mapCanvas *canvas.MapCanvas) *RegionsPanel {
	p := &RegionsPanel{
		state:  state,
		canvas: mapCanvas,
	}

	p.countLabel = widget.NewLabel("No regions")

	p.list = widget.NewList(
		func() int { return len(p.regions) },
		func() fyne.CanvasObject {
			check := widget.NewCheck("", nil)
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewBorder(nil, nil, check, nil, label)
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i >= len(p.regions) {
				return
			}
			r := p.regions[i]
			row := obj.(*fyne.Container)
			label := row.Objects[0].(*widget.Label)
			check := row.Objects[1].(*widget.Check)

			label.SetText(fmt.Sprintf("%s (%s)", r.DisplayName(), r.Type))

			vnum := r.VNum
			check.OnChanged = nil
			check.SetChecked(p.visibility == nil || p.visibility.RegionVisible(r))
			check.OnChanged = func(visible bool) {
				p.state.SetRegionHidden(vnum, !visible)
			}
		},
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		if i < len(p.regions) {
			p.state.Select(p.regions[i].Ref())
		}
	}

	centerButton := widget.NewButton("Center", func() {
		if r := p.selectedRegion(); r != nil && len(r.Coords) > 0 {
			c := geometry.Centroid(geometry.PointsToFloat(r.Coords)).Round()
			p.canvas.CenterOn(c)
		}
	})
	editButton := widget.NewButton("Edit...", func() {
		if r := p.selectedRegion(); r != nil && p.onEdit != nil {
			p.onEdit(r)
		}
	})
	stampButton := widget.NewButton("Stamp", func() {
		if p.onEdit == nil {
			return
		}
		// A default hexagon at the view center; saving the dialog
		// inserts it, cancelling drops it.
		p.onEdit(&wild.Region{
			VNum:   p.state.NextRegionVNum(),
			Type:   wild.RegionGeographic,
			Coords: wild.StampPolygon(p.canvas.CenterCoord()),
		})
	})

	p.container = container.NewBorder(
		p.countLabel,
		container.NewHBox(centerButton, editButton, stampButton),
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
func (p *RegionsPanel) Container() fyne.CanvasObject {
	return p.container
}

// OnEdit registers the callback for the Edit button.
func (p *RegionsPanel) OnEdit(callback func(wild.Item)) {
	p.onEdit = callback
}

func (p *RegionsPanel) reload() {
	p.regions = p.state.Regions()
	p.visibility = p.state.Visibility()

	switch n := len(p.regions); n {
	case 0:
		p.countLabel.SetText("No regions")
	case 1:
		p.countLabel.SetText("1 region")
	default:
		p.countLabel.SetText(fmt.Sprintf("%d regions", n))
	}
	p.list.Refresh()
}

func (p *RegionsPanel) selectedRegion() *wild.Region {
	ref := p.state.Selected()
	if ref.Kind != wild.KindRegion || ref.IsZero() {
		return nil
	}
	return p.state.Region(ref.VNum)
}

func (p *RegionsPanel) syncSelection(ref wild.Ref) {
	if ref.Kind == wild.KindRegion && !ref.IsZero() {
		for i, r := range p.regions {
			if r.VNum == ref.VNum {
				p.list.Select(i)
				return
			}
		}
	}
	p.list.UnselectAll()
}
