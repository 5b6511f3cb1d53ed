package wild

import (
	"fmt"
	"image/color"

	"wilderness-editor/pkg/colorutil"
	"wilderness-editor/pkg/geometry"
)

// RegionType describes the gameplay semantics of a region polygon.
type RegionType int

const (
	RegionGeographic RegionType = iota + 1
	RegionEncounter
	RegionTransform
	RegionSectorOverride
)

// String returns the display name for the region type.
func (t RegionType) String() string {
	switch t {
	case RegionGeographic:
		return "Geographic"
	case RegionEncounter:
		return "Encounter"
	case RegionTransform:
		return "Transform"
	case RegionSectorOverride:
		return "Sector Override"
	default:
		return fmt.Sprintf("RegionType(%d)", int(t))
	}
}

// DefaultColor returns the fallback display color for the region type.
func (t RegionType) DefaultColor() color.RGBA {
	switch t {
	case RegionGeographic:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255}
	case RegionEncounter:
		return color.RGBA{R: 218, G: 54, B: 51, A: 255}
	case RegionTransform:
		return color.RGBA{R: 163, G: 113, B: 247, A: 255}
	case RegionSectorOverride:
		return color.RGBA{R: 210, G: 153, B: 34, A: 255}
	default:
		return colorutil.White
	}
}

// Region is an authored polygon with gameplay semantics. The vertex order
// is significant: consecutive vertices form the polygon edges, closing
// implicitly from the last vertex back to the first.
type Region struct {
	VNum   int                 `json:"vnum"`
	Name   string              `json:"name"`
	Type   RegionType          `json:"region_type"`
	Coords []geometry.PointInt `json:"coordinates"`
	Color  string              `json:"color,omitempty"`
	Props  int                 `json:"region_props,omitempty"`

	// Dirty marks local edits not yet confirmed persisted.
	Dirty bool `json:"-"`
}

// Ref implements Item.
func (r *Region) Ref() Ref {
	return Ref{Kind: KindRegion, VNum: r.VNum}
}

// DisplayName implements Item.
func (r *Region) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Region %d", r.VNum)
}

// Group implements Item. Regions group by their type for visibility toggles.
func (r *Region) Group() string {
	return r.Type.String()
}

// Renderable reports whether the region has enough vertices to form an
// area. Regions below the minimum are inert: not drawn, not hit-testable.
func (r *Region) Renderable() bool {
	return len(r.Coords) >= 3
}

// FloatCoords returns the vertices as floating-point points.
func (r *Region) FloatCoords() []geometry.Point2D {
	return geometry.PointsToFloat(r.Coords)
}

// Contains reports whether the logical point lies inside the polygon.
func (r *Region) Contains(p geometry.Point2D) bool {
	if !r.Renderable() {
		return false
	}
	return geometry.PointInPolygon(p, r.FloatCoords())
}

// Area returns the polygon area in square world units.
func (r *Region) Area() float64 {
	return geometry.PolygonArea(r.FloatCoords())
}

// Bounds returns the axis-aligned bounding box in world units.
func (r *Region) Bounds() geometry.Rect {
	return geometry.BoundingBox(r.FloatCoords())
}

// RGBA resolves the region's display color, falling back to the type default.
func (r *Region) RGBA() color.RGBA {
	return colorutil.ParseHex(r.Color, r.Type.DefaultColor())
}
