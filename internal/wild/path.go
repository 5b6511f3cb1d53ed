package wild

import (
	"fmt"
	"image/color"
	"math"

	"wilderness-editor/pkg/colorutil"
	"wilderness-editor/pkg/geometry"
)

// PathType describes the gameplay semantics of a path polyline.
type PathType int

const (
	PathPavedRoad PathType = iota + 1
	PathDirtRoad
	PathGeographic
	PathRiver
	PathStream
)

// String returns the display name for the path type.
func (t PathType) String() string {
	switch t {
	case PathPavedRoad:
		return "Paved Road"
	case PathDirtRoad:
		return "Dirt Road"
	case PathGeographic:
		return "Geographic"
	case PathRiver:
		return "River"
	case PathStream:
		return "Stream"
	default:
		return fmt.Sprintf("PathType(%d)", int(t))
	}
}

// DefaultColor returns the fallback display color for the path type.
func (t PathType) DefaultColor() color.RGBA {
	switch t {
	case PathPavedRoad:
		return color.RGBA{R: 139, G: 148, B: 158, A: 255}
	case PathDirtRoad:
		return color.RGBA{R: 161, G: 118, B: 61, A: 255}
	case PathGeographic:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255}
	case PathRiver:
		return color.RGBA{R: 47, G: 129, B: 247, A: 255}
	case PathStream:
		return color.RGBA{R: 88, G: 166, B: 255, A: 255}
	default:
		return colorutil.White
	}
}

// Path is an authored polyline such as a road or river. Vertices connect
// in order; the polyline does not close.
type Path struct {
	VNum   int                 `json:"vnum"`
	Name   string              `json:"name"`
	Type   PathType            `json:"path_type"`
	Coords []geometry.PointInt `json:"coordinates"`
	Color  string              `json:"color,omitempty"`
	Props  int                 `json:"path_props,omitempty"`

	// Dirty marks local edits not yet confirmed persisted.
	Dirty bool `json:"-"`
}

// Ref implements Item.
func (p *Path) Ref() Ref {
	return Ref{Kind: KindPath, VNum: p.VNum}
}

// DisplayName implements Item.
func (p *Path) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("Path %d", p.VNum)
}

// Group implements Item. Paths group by their type for visibility toggles.
func (p *Path) Group() string {
	return p.Type.String()
}

// Renderable reports whether the path has enough vertices to form a
// segment. Paths below the minimum are inert: not drawn, not hit-testable.
func (p *Path) Renderable() bool {
	return len(p.Coords) >= 2
}

// FloatCoords returns the vertices as floating-point points.
func (p *Path) FloatCoords() []geometry.Point2D {
	return geometry.PointsToFloat(p.Coords)
}

// DistanceTo returns the shortest distance in world units from the logical
// point to the polyline, or +Inf when the path is not renderable.
func (p *Path) DistanceTo(pt geometry.Point2D) float64 {
	if !p.Renderable() {
		return math.Inf(1)
	}
	return geometry.DistanceToPolyline(pt, p.FloatCoords())
}

// Bounds returns the axis-aligned bounding box in world units.
func (p *Path) Bounds() geometry.Rect {
	return geometry.BoundingBox(p.FloatCoords())
}

// RGBA resolves the path's display color, falling back to the type default.
func (p *Path) RGBA() color.RGBA {
	return colorutil.ParseHex(p.Color, p.Type.DefaultColor())
}
