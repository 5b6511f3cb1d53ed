// Package wild defines the map features the editor authors: polygonal
// regions, polyline paths, and named landmarks on the world grid.
//
// Coordinates are integers in [-WorldRadius, WorldRadius] on both axes,
// origin at the world center, +x east and +y north. Feature vertices are
// stored as geometry.PointInt; all geometric math runs on the float
// conversions.
package wild

import "wilderness-editor/pkg/geometry"

// WorldRadius is half the logical world span. Coordinates on both axes
// are confined to [-WorldRadius, WorldRadius].
const WorldRadius = 1024

// Kind identifies a feature kind.
type Kind int

const (
	KindRegion Kind = iota
	KindPath
	KindLandmark
)

// String returns the lowercase kind name used in logs and API routes.
func (k Kind) String() string {
	switch k {
	case KindRegion:
		return "region"
	case KindPath:
		return "path"
	case KindLandmark:
		return "landmark"
	default:
		return "unknown"
	}
}

// Ref identifies a single feature. Regions and paths are keyed by VNum,
// landmarks by ID.
type Ref struct {
	Kind Kind
	VNum int
	ID   string
}

// IsZero reports whether the ref points at nothing.
func (r Ref) IsZero() bool {
	return r == Ref{}
}

// Item is the common interface for map features.
type Item interface {
	// Ref returns the feature's identity.
	Ref() Ref

	// DisplayName returns the user-visible name.
	DisplayName() string

	// Group returns the visibility group label this feature belongs to.
	Group() string
}

// ClampCoord clamps a coordinate to the world range.
func ClampCoord(c geometry.PointInt) geometry.PointInt {
	return geometry.PointInt{
		X: clampInt(c.X, -WorldRadius, WorldRadius),
		Y: clampInt(c.Y, -WorldRadius, WorldRadius),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
