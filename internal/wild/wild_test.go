package wild

import (
	"encoding/json"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilderness-editor/pkg/geometry"
)

func squareRegion(vnum, size int) *Region {
	return &Region{
		VNum: vnum,
		Name: "test",
		Type: RegionGeographic,
		Coords: []geometry.PointInt{
			{X: 0, Y: 0}, {X: size, Y: 0}, {X: size, Y: size}, {X: 0, Y: size},
		},
	}
}

func TestRegionRenderable(t *testing.T) {
	r := &Region{VNum: 1, Type: RegionGeographic}

	r.Coords = []geometry.PointInt{{0, 0}, {5, 0}}
	assert.False(t, r.Renderable())
	assert.False(t, r.Contains(geometry.Point2D{X: 1, Y: 0}))

	r.Coords = append(r.Coords, geometry.PointInt{X: 5, Y: 5})
	assert.True(t, r.Renderable())
}

func TestRegionContainsAndArea(t *testing.T) {
	r := squareRegion(100, 10)

	assert.True(t, r.Contains(geometry.Point2D{X: 5, Y: 5}))
	assert.False(t, r.Contains(geometry.Point2D{X: 15, Y: 5}))
	assert.InDelta(t, 100, r.Area(), 1e-9)

	b := r.Bounds()
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}, b)
}

func TestRegionJSONRoundTrip(t *testing.T) {
	r := squareRegion(42, 8)
	r.Type = RegionEncounter
	r.Color = "#ff0000"
	r.Dirty = true

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back Region
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, r.VNum, back.VNum)
	assert.Equal(t, r.Type, back.Type)
	assert.Equal(t, r.Coords, back.Coords)
	assert.Equal(t, r.Color, back.Color)
	assert.False(t, back.Dirty, "dirty flag is local-only and must not travel")
}

func TestRegionColorFallback(t *testing.T) {
	r := squareRegion(1, 4)

	assert.Equal(t, RegionGeographic.DefaultColor(), r.RGBA())

	r.Color = "#102030"
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}, r.RGBA())

	r.Color = "not-a-color"
	assert.Equal(t, RegionGeographic.DefaultColor(), r.RGBA())
}

func TestPathDistance(t *testing.T) {
	p := &Path{
		VNum:   7,
		Type:   PathRiver,
		Coords: []geometry.PointInt{{X: 0, Y: 0}, {X: 10, Y: 0}},
	}

	assert.True(t, p.Renderable())
	assert.InDelta(t, 5, p.DistanceTo(geometry.Point2D{X: 5, Y: 5}), 1e-9)

	p.Coords = p.Coords[:1]
	assert.False(t, p.Renderable())
	assert.True(t, math.IsInf(p.DistanceTo(geometry.Point2D{X: 0, Y: 0}), 1))
}

func TestDisplayNames(t *testing.T) {
	r := &Region{VNum: 5}
	assert.Equal(t, "Region 5", r.DisplayName())
	r.Name = "Darkwood"
	assert.Equal(t, "Darkwood", r.DisplayName())

	p := &Path{VNum: 9}
	assert.Equal(t, "Path 9", p.DisplayName())

	l := &Landmark{Coord: geometry.PointInt{X: 3, Y: -4}}
	assert.Equal(t, "Landmark (3, -4)", l.DisplayName())
}

func TestNewLandmark(t *testing.T) {
	l := NewLandmark(geometry.PointInt{X: 2000, Y: -2000}, "Spire")

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, geometry.PointInt{X: WorldRadius, Y: -WorldRadius}, l.Coord)
	assert.Equal(t, "Spire", l.Name)

	other := NewLandmark(geometry.PointInt{}, "")
	assert.NotEqual(t, l.ID, other.ID)
}

func TestStampPolygon(t *testing.T) {
	poly := StampPolygon(geometry.PointInt{X: 0, Y: 0})

	require.GreaterOrEqual(t, len(poly), 3)
	for _, c := range poly {
		assert.LessOrEqual(t, c.X, WorldRadius)
		assert.GreaterOrEqual(t, c.X, -WorldRadius)
	}

	r := Region{Type: RegionGeographic, Coords: poly}
	assert.True(t, r.Renderable())
	assert.True(t, r.Contains(geometry.Point2D{X: 0, Y: 0}))
}

func TestRefIdentity(t *testing.T) {
	r := squareRegion(3, 2)
	p := &Path{VNum: 3}

	assert.NotEqual(t, r.Ref(), p.Ref(), "same vnum, different kinds")
	assert.Equal(t, Ref{Kind: KindRegion, VNum: 3}, r.Ref())
	assert.True(t, Ref{}.IsZero())
	assert.False(t, r.Ref().IsZero())
}
