package projection

import "math"

// Zoom limits. Scale requests outside the range clamp instead of erroring;
// zoom is a best-effort affordance, not validated input.
const (
	MinScale = 0.25
	MaxScale = 20.0
)

// View is the pan/zoom state of the canvas. Pan is in device pixels and
// scale is the zoom ratio where 1.0 maps one logical unit to one base
// canvas pixel. Views are immutable values: every update derives a new
// View through one of the Apply reducers, so there is no hidden mutation
// order between event handlers.
type View struct {
	PanX  float64
	PanY  float64
	Scale float64
}

// NewView returns the identity view at 100% zoom.
func NewView() View {
	return View{Scale: 1}
}

// Percent returns the zoom as a whole percentage for display.
func (v View) Percent() int {
	return int(math.Round(v.Scale * 100))
}

// ClampScale bounds a scale to the supported zoom range.
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// ApplyPan translates the view by a pixel delta. Pan is unbounded; the
// caller may clamp if it wants a bounded scroll.
func ApplyPan(v View, dx, dy float64) View {
	return View{PanX: v.PanX + dx, PanY: v.PanY + dy, Scale: v.Scale}
}

// ApplyZoomAt changes scale while keeping the logical point currently
// under the given pixel fixed on screen. The pan solves
//
//	newPan = pixel - (pixel - oldPan) * (newScale / oldScale)
//
// which holds the anchor pixel invariant through the scale change.
func ApplyZoomAt(v View, px, py, newScale float64) View {
	s := ClampScale(newScale)
	ratio := s / v.Scale
	return View{
		PanX:  px - (px-v.PanX)*ratio,
		PanY:  py - (py-v.PanY)*ratio,
		Scale: s,
	}
}

// ApplyZoomCentered zooms about the geometric center of a viewport of the
// given pixel size. Used when zoom changes through a control rather than
// the pointer.
func ApplyZoomCentered(v View, viewportW, viewportH, newScale float64) View {
	return ApplyZoomAt(v, viewportW/2, viewportH/2, newScale)
}
