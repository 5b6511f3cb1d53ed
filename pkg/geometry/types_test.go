package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffineTransformComposeInverse(t *testing.T) {
	// Scale then translate, the shape every canvas projection takes.
	tr := Translation(100, 50).Compose(Scale(2, -2))

	p := Point2D{X: 3, Y: 7}
	mapped := tr.Apply(p)
	assert.InDelta(t, 106, mapped.X, 1e-9)
	assert.InDelta(t, 36, mapped.Y, 1e-9)

	inv, ok := tr.Inverse()
	require.True(t, ok)

	back := inv.Apply(mapped)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestAffineTransformSingular(t *testing.T) {
	_, ok := Scale(0, 1).Inverse()
	assert.False(t, ok)
}

func TestRoundAndToFloat(t *testing.T) {
	assert.Equal(t, PointInt{X: 3, Y: -2}, Point2D{X: 2.6, Y: -2.4}.Round())
	assert.Equal(t, Point2D{X: -5, Y: 9}, PointInt{X: -5, Y: 9}.ToFloat())

	pts := PointsToFloat([]PointInt{{1, 2}, {-3, 4}})
	assert.Equal(t, []Point2D{{1, 2}, {-3, 4}}, pts)
}

func TestBoundingBoxAndCentroid(t *testing.T) {
	pts := []Point2D{{-5, 0}, {5, 10}, {0, -10}}

	box := BoundingBox(pts)
	assert.Equal(t, Rect{X: -5, Y: -10, Width: 10, Height: 20}, box)
	assert.Equal(t, Point2D{X: 0, Y: 0}, box.Center())

	c := Centroid(pts)
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)
}

func TestRectExpandIntersects(t *testing.T) {
	r := NewRect(0, 0, 10, 10)

	grown := r.Expand(2)
	assert.Equal(t, Rect{X: -2, Y: -2, Width: 14, Height: 14}, grown)

	assert.True(t, r.Intersects(NewRect(9, 9, 5, 5)))
	assert.False(t, r.Intersects(NewRect(11, 0, 5, 5)))

	u := r.Union(NewRect(20, 20, 5, 5))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 25, Height: 25}, u)
}
