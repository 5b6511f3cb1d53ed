// Package projection maps between the logical world grid and canvas
// pixels. The world range is normalized to [0,1] on both axes (with Y
// inverted, since the world is north-positive and pixels grow downward),
// scaled to a fixed base canvas resolution, and finally transformed by
// the view's pan and zoom.
package projection

import (
	"wilderness-editor/pkg/geometry"
)

// Config fixes the logical world range and the base canvas resolution.
// At scale 1.0 one logical unit maps to CanvasSize/(WorldMax-WorldMin)
// canvas pixels; with the defaults that ratio is exactly 1.
type Config struct {
	WorldMin   float64
	WorldMax   float64
	CanvasSize float64
}

// DefaultConfig covers the standard world grid: coordinates in
// [-1024, 1024] rendered on a 2048-pixel base canvas.
func DefaultConfig() Config {
	return Config{WorldMin: -1024, WorldMax: 1024, CanvasSize: 2048}
}

// Projection converts between logical coordinates and device pixels for
// a given view. The zero value is unusable; construct with New.
type Projection struct {
	cfg  Config
	span float64
}

// New creates a projection for the given world configuration. Degenerate
// configurations fall back to the default.
func New(cfg Config) *Projection {
	if cfg.WorldMax <= cfg.WorldMin || cfg.CanvasSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Projection{cfg: cfg, span: cfg.WorldMax - cfg.WorldMin}
}

// Config returns the world configuration.
func (p *Projection) Config() Config {
	return p.cfg
}

// BasePixel returns the canvas position of a logical point before the
// view transform is applied: the position at scale 1.0 with zero pan.
func (p *Projection) BasePixel(c geometry.Point2D) geometry.Point2D {
	nx := (c.X - p.cfg.WorldMin) / p.span
	ny := (c.Y - p.cfg.WorldMin) / p.span
	return geometry.Point2D{
		X: nx * p.cfg.CanvasSize,
		Y: (1 - ny) * p.cfg.CanvasSize,
	}
}

// Transform returns the full logical-to-pixel affine transform for a view.
// Render passes compose it once and reuse it for every vertex.
func (p *Projection) Transform(v View) geometry.AffineTransform {
	s := p.cfg.CanvasSize / p.span
	base := geometry.Translation(0, p.cfg.CanvasSize).
		Compose(geometry.Scale(s, -s)).
		Compose(geometry.Translation(-p.cfg.WorldMin, -p.cfg.WorldMin))
	view := geometry.Translation(v.PanX, v.PanY).
		Compose(geometry.Scale(v.Scale, v.Scale))
	return view.Compose(base)
}

// ToPixel maps a logical coordinate to device pixels under the view.
func (p *Projection) ToPixel(c geometry.PointInt, v View) geometry.Point2D {
	return p.Transform(v).Apply(c.ToFloat())
}

// ToLogical maps a device pixel back to a continuous logical position.
// The normalized position is clamped to [0,1] first, so pixels outside
// the canvas resolve to the nearest boundary coordinate instead of
// escaping the world range.
func (p *Projection) ToLogical(px geometry.Point2D, v View) geometry.Point2D {
	cx := (px.X - v.PanX) / v.Scale
	cy := (px.Y - v.PanY) / v.Scale

	nx := clamp01(cx / p.cfg.CanvasSize)
	ny := clamp01(1 - cy/p.cfg.CanvasSize)

	return geometry.Point2D{
		X: p.cfg.WorldMin + nx*p.span,
		Y: p.cfg.WorldMin + ny*p.span,
	}
}

// ToCoord maps a device pixel to the nearest integer world coordinate.
// The world grid is integer-addressed, so display positions round.
func (p *Projection) ToCoord(px geometry.Point2D, v View) geometry.PointInt {
	return p.ToLogical(px, v).Round()
}

// CenterOn returns a view whose pan places the logical coordinate at the
// center of a viewport of the given pixel size, holding scale fixed.
func (p *Projection) CenterOn(v View, c geometry.PointInt, viewportW, viewportH float64) View {
	base := p.BasePixel(c.ToFloat())
	return View{
		PanX:  viewportW/2 - base.X*v.Scale,
		PanY:  viewportH/2 - base.Y*v.Scale,
		Scale: v.Scale,
	}
}

// PixelsPerUnit returns how many device pixels one logical unit spans
// under the view. Pixel-space pick radii divide by this to become
// world-unit tolerances.
func (p *Projection) PixelsPerUnit(v View) float64 {
	return v.Scale * p.cfg.CanvasSize / p.span
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
