package render

import (
	"image"
	"image/color"
	"log"
	"math"
	"strconv"

	"wilderness-editor/internal/drawing"
	"wilderness-editor/internal/projection"
	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/colorutil"
	"wilderness-editor/pkg/geometry"
)

// Canvas chrome colors. Shape colors come from the shapes themselves.
var (
	canvasFill   = color.RGBA{R: 13, G: 17, B: 23, A: 255}
	gridColor    = color.RGBA{R: 48, G: 54, B: 61, A: 255}
	axisColor    = color.RGBA{R: 88, G: 96, B: 105, A: 255}
	labelColor   = color.RGBA{R: 230, G: 237, B: 243, A: 255}
	landmarkFill = colorutil.Cyan
	sessionValid = colorutil.Green
	sessionShort = colorutil.Amber
)

const (
	// gridStep is the spacing of grid lines in world units.
	gridStep = 50.0
	// fillAlpha is the opacity of region interiors.
	fillAlpha = 64
	// cullMargin keeps shapes whose box is this many stroke widths
	// outside the viewport, so strokes and vertex rings still draw.
	cullMargin = 32
)

// Flags switches individual layers on or off. Layers draw back to
// front in field order.
type Flags struct {
	Background bool
	Grid       bool
	Axes       bool
	Regions    bool
	Paths      bool
	Landmarks  bool
	Overlay    bool
}

// DefaultFlags returns every layer enabled.
func DefaultFlags() Flags {
	return Flags{
		Background: true,
		Grid:       true,
		Axes:       true,
		Regions:    true,
		Paths:      true,
		Landmarks:  true,
		Overlay:    true,
	}
}

// Frame is a self-contained description of one render: world content,
// view, and toggles. It holds no references back into the pipeline, so
// a frame can be assembled under the editor lock and rasterized after
// releasing it.
type Frame struct {
	Regions   []*wild.Region
	Paths     []*wild.Path
	Landmarks []*wild.Landmark

	Visibility *wild.Visibility
	Selected   wild.Ref
	// HoverVertex indexes the selected shape's vertices, -1 for none.
	// It is ignored while nothing is selected.
	HoverVertex int

	Session drawing.Session

	View  projection.View
	Flags Flags

	// DPR is the device pixel ratio of the target. Values <= 0 mean 1.
	DPR float64

	// Background is the reference image stretched over the whole
	// canvas, or nil while it has not loaded.
	Background image.Image
}

// Pipeline rasterizes frames into RGBA images. It is stateless apart
// from the projection, so one pipeline can serve renders of any size.
type Pipeline struct {
	proj *projection.Projection
}

func NewPipeline(p *projection.Projection) *Pipeline {
	return &Pipeline{proj: p}
}

// Render rasterizes f into a w by h image. Layers draw back to front;
// a layer that panics is logged and skipped so one bad shape cannot
// take down the whole frame.
func (pl *Pipeline) Render(f Frame, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), canvasFill)

	fr := pl.projectFrame(f, w, h)

	layers := []struct {
		name string
		on   bool
		draw func(*image.RGBA, *projectedFrame)
	}{
		{"background", f.Flags.Background, pl.drawBackground},
		{"grid", f.Flags.Grid, pl.drawGrid},
		{"axes", f.Flags.Axes, pl.drawAxes},
		{"regions", f.Flags.Regions, pl.drawRegions},
		{"paths", f.Flags.Paths, pl.drawPaths},
		{"landmarks", f.Flags.Landmarks, pl.drawLandmarks},
		{"overlay", f.Flags.Overlay, pl.drawOverlay},
	}
	for _, layer := range layers {
		if !layer.on {
			continue
		}
		pl.renderLayer(img, fr, layer.name, layer.draw)
	}
	return img
}

func (pl *Pipeline) renderLayer(img *image.RGBA, fr *projectedFrame, name string, draw func(*image.RGBA, *projectedFrame)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render: %s layer failed: %v", name, r)
		}
	}()
	draw(img, fr)
}

// projectedFrame caches what projectFrame computed for one render: the
// composed transform and the device-pixel vertices of every shape that
// survived visibility and viewport culling. Layers share it so no
// vertex is projected twice per frame.
type projectedFrame struct {
	frame *Frame
	tr    geometry.AffineTransform
	view  projection.View // device view with DPR folded in
	w, h  int
	sw    int // base stroke width in device pixels

	regions   []projectedRegion
	paths     []projectedPath
	landmarks []projectedLandmark
}

type projectedRegion struct {
	src      *wild.Region
	pts      []geometry.Point2D
	selected bool
}

type projectedPath struct {
	src      *wild.Path
	pts      []geometry.Point2D
	selected bool
}

type projectedLandmark struct {
	src      *wild.Landmark
	pt       geometry.Point2D
	selected bool
}

func (pl *Pipeline) projectFrame(f Frame, w, h int) *projectedFrame {
	dpr := f.DPR
	if dpr <= 0 {
		dpr = 1
	}
	dv := projection.View{
		PanX:  f.View.PanX * dpr,
		PanY:  f.View.PanY * dpr,
		Scale: f.View.Scale * dpr,
	}

	fr := &projectedFrame{
		frame: &f,
		tr:    pl.proj.Transform(dv),
		view:  dv,
		w:     w,
		h:     h,
		sw:    max(1, round(dpr)),
	}

	margin := float64(cullMargin * fr.sw)
	viewport := geometry.Rect{
		X:      -margin,
		Y:      -margin,
		Width:  float64(w) + 2*margin,
		Height: float64(h) + 2*margin,
	}

	for _, r := range f.Regions {
		if r == nil || !r.Renderable() || !f.Visibility.RegionVisible(r) {
			continue
		}
		pts := projectCoords(fr.tr, r.Coords)
		if !geometry.BoundingBox(pts).Intersects(viewport) {
			continue
		}
		fr.regions = append(fr.regions, projectedRegion{
			src:      r,
			pts:      pts,
			selected: f.Selected == r.Ref(),
		})
	}
	for _, p := range f.Paths {
		if p == nil || !p.Renderable() || !f.Visibility.PathVisible(p) {
			continue
		}
		pts := projectCoords(fr.tr, p.Coords)
		if !geometry.BoundingBox(pts).Intersects(viewport) {
			continue
		}
		fr.paths = append(fr.paths, projectedPath{
			src:      p,
			pts:      pts,
			selected: f.Selected == p.Ref(),
		})
	}
	for _, l := range f.Landmarks {
		if l == nil || !f.Visibility.LandmarkVisible(l) {
			continue
		}
		pt := fr.tr.Apply(geometry.Point2D{X: float64(l.Coord.X), Y: float64(l.Coord.Y)})
		if !viewport.Contains(pt) {
			continue
		}
		fr.landmarks = append(fr.landmarks, projectedLandmark{
			src:      l,
			pt:       pt,
			selected: f.Selected == l.Ref(),
		})
	}
	return fr
}

func projectCoords(tr geometry.AffineTransform, coords []geometry.PointInt) []geometry.Point2D {
	out := make([]geometry.Point2D, len(coords))
	for i, c := range coords {
		out[i] = tr.Apply(geometry.Point2D{X: float64(c.X), Y: float64(c.Y)})
	}
	return out
}

// drawBackground stretches the reference image over the full logical
// canvas with nearest-neighbor sampling, so pixels stay crisp when
// zoomed in.
func (pl *Pipeline) drawBackground(img *image.RGBA, fr *projectedFrame) {
	src := fr.frame.Background
	if src == nil {
		return
	}
	sb := src.Bounds()
	if sb.Dx() <= 0 || sb.Dy() <= 0 {
		return
	}

	size := pl.proj.Config().CanvasSize * fr.view.Scale
	if size <= 0 {
		return
	}
	x0 := fr.view.PanX
	y0 := fr.view.PanY

	dx0 := max(int(math.Floor(x0)), 0)
	dy0 := max(int(math.Floor(y0)), 0)
	dx1 := min(int(math.Ceil(x0+size)), fr.w)
	dy1 := min(int(math.Ceil(y0+size)), fr.h)

	for y := dy0; y < dy1; y++ {
		sy := sb.Min.Y + int((float64(y)+0.5-y0)/size*float64(sb.Dy()))
		sy = min(max(sy, sb.Min.Y), sb.Max.Y-1)
		for x := dx0; x < dx1; x++ {
			sx := sb.Min.X + int((float64(x)+0.5-x0)/size*float64(sb.Dx()))
			sx = min(max(sx, sb.Min.X), sb.Max.X-1)
			img.Set(x, y, src.At(sx, sy))
		}
	}
}

func (pl *Pipeline) drawGrid(img *image.RGBA, fr *projectedFrame) {
	cfg := pl.proj.Config()
	w := float64(fr.w)
	h := float64(fr.h)
	dash := 4 * fr.sw
	gap := 4 * fr.sw

	line := func(a, b geometry.Point2D) {
		pa, pb, ok := clipSegment(fr.tr.Apply(a), fr.tr.Apply(b), w, h)
		if !ok {
			return
		}
		drawDashedLine(img, round(pa.X), round(pa.Y), round(pb.X), round(pb.Y), dash, gap, gridColor, img.Bounds())
	}

	start := math.Ceil(cfg.WorldMin/gridStep) * gridStep
	for g := start; g <= cfg.WorldMax; g += gridStep {
		if g == 0 && fr.frame.Flags.Axes {
			// The axis layer draws the zero lines solid.
			continue
		}
		line(geometry.Point2D{X: g, Y: cfg.WorldMin}, geometry.Point2D{X: g, Y: cfg.WorldMax})
		line(geometry.Point2D{X: cfg.WorldMin, Y: g}, geometry.Point2D{X: cfg.WorldMax, Y: g})
	}
}

func (pl *Pipeline) drawAxes(img *image.RGBA, fr *projectedFrame) {
	cfg := pl.proj.Config()
	w := float64(fr.w)
	h := float64(fr.h)
	sw := fr.sw

	line := func(a, b geometry.Point2D) {
		pa, pb, ok := clipSegment(fr.tr.Apply(a), fr.tr.Apply(b), w, h)
		if !ok {
			return
		}
		drawThickLine(img, pa.X, pa.Y, pb.X, pb.Y, sw, axisColor)
	}

	line(geometry.Point2D{X: 0, Y: cfg.WorldMin}, geometry.Point2D{X: 0, Y: cfg.WorldMax})
	line(geometry.Point2D{X: cfg.WorldMin, Y: 0}, geometry.Point2D{X: cfg.WorldMax, Y: 0})

	// Origin marker
	o := fr.tr.Apply(geometry.Point2D{})
	ox, oy := round(o.X), round(o.Y)
	fillCircle(img, ox, oy, 2*sw, colorutil.White)
	drawCircle(img, ox, oy, 4*sw, axisColor)
}

func (pl *Pipeline) drawRegions(img *image.RGBA, fr *projectedFrame) {
	for _, pr := range fr.regions {
		stroke := pr.src.RGBA()
		fillPolygon(img, pr.pts, colorutil.WithAlpha(stroke, fillAlpha))

		thickness := fr.sw
		if pr.selected {
			stroke = colorutil.Lighten(stroke, 0.35)
			thickness *= 2
		}
		strokePolygon(img, pr.pts, thickness, stroke)

		if pr.selected {
			pl.drawHoverVertex(img, fr, pr.pts)
		}
	}
}

func (pl *Pipeline) drawPaths(img *image.RGBA, fr *projectedFrame) {
	for _, pp := range fr.paths {
		stroke := pp.src.RGBA()
		thickness := fr.sw
		if pp.selected {
			stroke = colorutil.Lighten(stroke, 0.35)
			thickness *= 2
		}
		strokePolyline(img, pp.pts, thickness, stroke)

		if pp.selected {
			pl.drawHoverVertex(img, fr, pp.pts)
		}
	}
}

// drawHoverVertex rings the hovered vertex of the selected shape and
// labels it with its one-based index.
func (pl *Pipeline) drawHoverVertex(img *image.RGBA, fr *projectedFrame, pts []geometry.Point2D) {
	i := fr.frame.HoverVertex
	if fr.frame.Selected.IsZero() || i < 0 || i >= len(pts) {
		return
	}

	sw := fr.sw
	x, y := round(pts[i].X), round(pts[i].Y)
	fillCircle(img, x, y, 3*sw, colorutil.White)
	drawCircle(img, x, y, 5*sw, colorutil.Cyan)
	drawLabel(img, strconv.Itoa(i+1), x+6*sw, y-6*sw, labelColor)
}

func (pl *Pipeline) drawLandmarks(img *image.RGBA, fr *projectedFrame) {
	sw := fr.sw
	r := 4 * sw

	for _, pm := range fr.landmarks {
		x, y := round(pm.pt.X), round(pm.pt.Y)

		c := landmarkFill
		if pm.selected {
			c = colorutil.Lighten(c, 0.35)
		}
		fillCircle(img, x, y, r, c)
		drawCircle(img, x, y, r, colorutil.Darken(c, 0.5))
		if pm.selected {
			drawCircle(img, x, y, r+2*sw, colorutil.White)
		}

		drawLabel(img, pm.src.Name, x+r+3*sw, y+4, labelColor)
	}
}

// drawOverlay renders the in-progress drawing session: dashed edges,
// numbered vertex markers, and the status line. Green means the shape
// has enough points to finish, amber means it is still short.
func (pl *Pipeline) drawOverlay(img *image.RGBA, fr *projectedFrame) {
	s := fr.frame.Session
	if !s.Active || len(s.Vertices) == 0 {
		return
	}

	sw := fr.sw
	c := sessionShort
	if s.Valid() {
		c = sessionValid
	}

	pts := projectCoords(fr.tr, s.Vertices)
	dash := 4 * sw
	gap := 3 * sw

	for i := 0; i < len(pts)-1; i++ {
		drawThickDashedLine(img, pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, sw, dash, gap, c)
	}
	if s.Tool == drawing.ToolPolygon && len(pts) >= 3 {
		last := pts[len(pts)-1]
		drawThickDashedLine(img, last.X, last.Y, pts[0].X, pts[0].Y, sw, dash, gap, c)
	}

	for i, p := range pts {
		x, y := round(p.X), round(p.Y)
		fillCircle(img, x, y, 2*sw+1, c)
		drawLabel(img, strconv.Itoa(i+1), x+4*sw, y-4*sw, labelColor)
	}

	drawLabel(img, s.Status(), 8, fr.h-8, labelColor)
}
