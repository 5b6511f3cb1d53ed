package wild

import (
	"fmt"

	"github.com/google/uuid"

	"wilderness-editor/pkg/geometry"
)

// Landmark is a zero-dimensional named marker at a world coordinate.
type Landmark struct {
	ID       string            `json:"id"`
	Coord    geometry.PointInt `json:"coordinate"`
	Name     string            `json:"name"`
	Category string            `json:"category,omitempty"`
}

// NewLandmark creates a landmark at the given coordinate with a fresh
// local ID. The server assigns the persistent ID on save.
func NewLandmark(coord geometry.PointInt, name string) *Landmark {
	return &Landmark{
		ID:    uuid.NewString(),
		Coord: ClampCoord(coord),
		Name:  name,
	}
}

// Ref implements Item.
func (l *Landmark) Ref() Ref {
	return Ref{Kind: KindLandmark, ID: l.ID}
}

// DisplayName implements Item.
func (l *Landmark) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("Landmark (%d, %d)", l.Coord.X, l.Coord.Y)
}

// Group implements Item. Landmarks group by category, defaulting to a
// catch-all label so they still participate in group visibility.
func (l *Landmark) Group() string {
	if l.Category != "" {
		return l.Category
	}
	return "Landmarks"
}

// DistanceTo returns the distance in world units from the logical point
// to the landmark.
func (l *Landmark) DistanceTo(p geometry.Point2D) float64 {
	return l.Coord.ToFloat().Distance(p)
}

// StampRadius is the half-size in world units of the default polygon a
// landmark stamp produces.
const StampRadius = 3.0

// StampPolygon returns the small default polygon centered on a coordinate,
// used when stamping a region from a single landmark-tool click.
func StampPolygon(center geometry.PointInt) []geometry.PointInt {
	pts := geometry.GenerateCirclePoints(float64(center.X), float64(center.Y), StampRadius, 6)
	out := make([]geometry.PointInt, len(pts))
	for i, p := range pts {
		out[i] = ClampCoord(p.Round())
	}
	return out
}
