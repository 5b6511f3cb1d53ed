// Package canvas provides the interactive map viewport.
package canvas

import (
	"image"

	"wilderness-editor/internal/drawing"
	"wilderness-editor/internal/editor"
	"wilderness-editor/internal/projection"
	"wilderness-editor/internal/render"
	"wilderness-editor/internal/selection"
	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Zoom step per wheel notch or toolbar click.
const zoomStep = 1.25

// MapCanvas is the interactive viewport onto the wilderness map. It owns
// no feature data: every repaint pulls a fresh frame from the editor
// state and hands it to the render pipeline, so the widget stays a thin
// shell around pan/zoom gestures and click routing.
type MapCanvas struct {
	widget.BaseWidget

	state      *editor.State
	proj       *projection.Projection
	pipe       *render.Pipeline
	background *render.BackgroundCache

	raster *fynecanvas.Raster

	// pendingCenter holds a CenterOn request made before the widget had
	// a size; it is applied on the first real layout.
	pendingCenter *geometry.PointInt

	onLogicalMove  func(geometry.PointInt)
	onShapeDone    func(drawing.Tool, []geometry.PointInt)
	onDisambiguate func(selection.Result)
	onZoomChange   func(int)
}

// NewMapCanvas creates the viewport bound to the given editor state.
func NewMapCanvas(state *editor.State, proj *projection.Projection) *MapCanvas {
	mc := &MapCanvas{
		state:      state,
		proj:       proj,
		pipe:       render.NewPipeline(proj),
		background: render.NewBackgroundCache(),
	}
	mc.ExtendBaseWidget(mc)

	mc.raster = fynecanvas.NewRaster(mc.draw)
	mc.raster.ScaleMode = fynecanvas.ImageScalePixels
	mc.raster.SetMinSize(fyne.NewSize(480, 360))

	// Any state change that affects pixels repaints the raster.
	for _, ev := range []editor.EventType{
		editor.EventWorldLoaded,
		editor.EventShapesChanged,
		editor.EventSelectionChanged,
		editor.EventViewChanged,
		editor.EventVisibilityChanged,
		editor.EventFlagsChanged,
		editor.EventDrawingChanged,
	} {
		state.On(ev, func(any) { mc.Refresh() })
	}

	return mc
}

// CreateRenderer implements fyne.Widget.
func (mc *MapCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(mc.raster)
}

// draw rasterizes the current frame at the raster's pixel size. Fyne
// passes device pixels, which on a HiDPI screen exceed the widget's
// point size; the ratio feeds the pipeline so strokes and glyphs keep
// their on-screen thickness.
func (mc *MapCanvas) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	frame := mc.state.Frame()
	frame.DPR = mc.deviceScale(w)
	frame.Background = mc.background.Image()
	return mc.pipe.Render(frame, w, h)
}

func (mc *MapCanvas) deviceScale(pixelW int) float64 {
	pointW := float64(mc.Size().Width)
	if pointW <= 0 {
		return 1
	}
	return float64(pixelW) / pointW
}

// Refresh repaints the raster.
func (mc *MapCanvas) Refresh() {
	if mc.raster != nil {
		mc.raster.Refresh()
	}
	mc.BaseWidget.Refresh()
}

// Resize applies any deferred centering once a real size is known.
func (mc *MapCanvas) Resize(size fyne.Size) {
	mc.BaseWidget.Resize(size)
	if mc.pendingCenter != nil && size.Width > 0 && size.Height > 0 {
		c := *mc.pendingCenter
		mc.pendingCenter = nil
		mc.state.SetView(mc.proj.CenterOn(mc.state.View(), c, float64(size.Width), float64(size.Height)))
	}
}

// Tapped routes a primary click by the active tool: inspect resolves a
// selection, capturing tools accumulate vertices, the landmark tool
// emits a single-point shape immediately.
func (mc *MapCanvas) Tapped(ev *fyne.PointEvent) {
	view := mc.state.View()
	switch mc.state.Tool() {
	case drawing.ToolPolygon, drawing.ToolPolyline:
		mc.state.DrawClick(mc.proj.ToCoord(pointOf(ev.Position), view))
	case drawing.ToolLandmark:
		if mc.onShapeDone != nil {
			c := mc.proj.ToCoord(pointOf(ev.Position), view)
			mc.onShapeDone(drawing.ToolLandmark, []geometry.PointInt{c})
		}
	default:
		mc.resolveAt(ev.Position, view)
	}
}

func (mc *MapCanvas) resolveAt(pos fyne.Position, view projection.View) {
	logical := mc.proj.ToLogical(pointOf(pos), view)
	radii := selection.RadiiForScale(mc.proj.PixelsPerUnit(view))
	result := mc.state.ResolveClick(logical, radii)
	if result.Outcome == selection.OutcomeAmbiguous && mc.onDisambiguate != nil {
		mc.onDisambiguate(result)
	}
}

// TappedSecondary cancels an in-progress capture, or clears the
// selection when nothing is being drawn.
func (mc *MapCanvas) TappedSecondary(*fyne.PointEvent) {
	if mc.state.DrawingSession().Active {
		mc.state.CancelDrawing()
		return
	}
	mc.state.ClearSelection()
}

// Dragged pans the view with the pointer.
func (mc *MapCanvas) Dragged(ev *fyne.DragEvent) {
	mc.state.SetView(projection.ApplyPan(mc.state.View(), float64(ev.Dragged.DX), float64(ev.Dragged.DY)))
}

// DragEnd implements fyne.Draggable.
func (mc *MapCanvas) DragEnd() {}

// Scrolled zooms about the pointer so the map point under the cursor
// stays put.
func (mc *MapCanvas) Scrolled(ev *fyne.ScrollEvent) {
	view := mc.state.View()
	target := view.Scale * zoomStep
	if ev.Scrolled.DY < 0 {
		target = view.Scale / zoomStep
	}
	view = projection.ApplyZoomAt(view, float64(ev.Position.X), float64(ev.Position.Y), target)
	mc.state.SetView(view)
	mc.notifyZoom(view)
}

// MouseIn implements desktop.Hoverable.
func (mc *MapCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved reports the pointer's logical coordinate and keeps the
// hovered vertex of the selected shape current.
func (mc *MapCanvas) MouseMoved(ev *desktop.MouseEvent) {
	view := mc.state.View()

	if mc.onLogicalMove != nil {
		mc.onLogicalMove(mc.proj.ToCoord(pointOf(ev.Position), view))
	}

	logical := mc.proj.ToLogical(pointOf(ev.Position), view)
	mc.state.SetHoverVertex(mc.hoveredVertex(logical, view))
}

// MouseOut clears the hover highlight.
func (mc *MapCanvas) MouseOut() {
	mc.state.SetHoverVertex(-1)
}

// hoveredVertex finds the vertex of the selected shape within pick
// range of the logical point, -1 for none. Landmarks have no vertex
// handles.
func (mc *MapCanvas) hoveredVertex(logical geometry.Point2D, view projection.View) int {
	var coords []geometry.PointInt
	switch item := mc.state.SelectedItem().(type) {
	case *wild.Region:
		coords = item.Coords
	case *wild.Path:
		coords = item.Coords
	default:
		return -1
	}

	maxDist := selection.VertexPickPixels / mc.proj.PixelsPerUnit(view)
	if i, ok := selection.NearestVertex(logical, coords, maxDist); ok {
		return i
	}
	return -1
}

// ZoomIn raises the zoom one step about the viewport center.
func (mc *MapCanvas) ZoomIn() {
	mc.zoomCentered(mc.state.View().Scale * zoomStep)
}

// ZoomOut lowers the zoom one step about the viewport center.
func (mc *MapCanvas) ZoomOut() {
	mc.zoomCentered(mc.state.View().Scale / zoomStep)
}

// ResetZoom returns to 100%.
func (mc *MapCanvas) ResetZoom() {
	mc.zoomCentered(1)
}

// SetZoomPercent jumps to an absolute zoom percentage.
func (mc *MapCanvas) SetZoomPercent(percent int) {
	mc.zoomCentered(float64(percent) / 100)
}

func (mc *MapCanvas) zoomCentered(target float64) {
	size := mc.Size()
	view := projection.ApplyZoomCentered(mc.state.View(), float64(size.Width), float64(size.Height), target)
	mc.state.SetView(view)
	mc.notifyZoom(view)
}

func (mc *MapCanvas) notifyZoom(view projection.View) {
	if mc.onZoomChange != nil {
		mc.onZoomChange(view.Percent())
	}
}

// CenterOn moves the view so the world coordinate sits at the viewport
// center. Calls before the first layout are deferred until the widget
// has a size.
func (mc *MapCanvas) CenterOn(c geometry.PointInt) {
	size := mc.Size()
	if size.Width <= 0 || size.Height <= 0 {
		mc.pendingCenter = &c
		return
	}
	mc.state.SetView(mc.proj.CenterOn(mc.state.View(), c, float64(size.Width), float64(size.Height)))
}

// CenterCoord returns the world coordinate currently at the viewport
// center.
func (mc *MapCanvas) CenterCoord() geometry.PointInt {
	size := mc.Size()
	mid := geometry.Point2D{X: float64(size.Width) / 2, Y: float64(size.Height) / 2}
	return mc.proj.ToCoord(mid, mc.state.View())
}

// LoadBackground swaps the reference image stretched behind the map. An
// empty source clears it; file paths and http(s) URLs both work.
// Loading is asynchronous and repaints on completion.
func (mc *MapCanvas) LoadBackground(source string) {
	if source == "" {
		mc.background.Clear()
		mc.Refresh()
		return
	}
	mc.background.Load(source, mc.Refresh)
}

// OnLogicalMove registers the pointer coordinate readout callback.
func (mc *MapCanvas) OnLogicalMove(callback func(geometry.PointInt)) {
	mc.onLogicalMove = callback
}

// OnShapeDone registers the callback for shapes that complete without a
// capture session (landmark stamps).
func (mc *MapCanvas) OnShapeDone(callback func(drawing.Tool, []geometry.PointInt)) {
	mc.onShapeDone = callback
}

// OnDisambiguate registers the callback for clicks that hit several
// overlapping features.
func (mc *MapCanvas) OnDisambiguate(callback func(selection.Result)) {
	mc.onDisambiguate = callback
}

// OnZoomChange registers the callback for zoom changes made through the
// canvas itself.
func (mc *MapCanvas) OnZoomChange(callback func(percent int)) {
	mc.onZoomChange = callback
}

func pointOf(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}
