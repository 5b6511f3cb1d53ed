package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wilderness-editor/pkg/geometry"
)

func testViews() []View {
	return []View{
		NewView(),
		{PanX: 120, PanY: -80, Scale: 1},
		{PanX: -300.5, PanY: 900.25, Scale: 0.25},
		{PanX: 40, PanY: 40, Scale: 4},
		{PanX: -5000, PanY: 12345, Scale: 20},
		{PanX: 0.3, PanY: -0.7, Scale: 2.5},
	}
}

func testCoords() []geometry.PointInt {
	return []geometry.PointInt{
		{X: 0, Y: 0},
		{X: 1, Y: 1},
		{X: -1, Y: 1},
		{X: 512, Y: -512},
		{X: -1024, Y: -1024},
		{X: 1024, Y: 1024},
		{X: -1024, Y: 1024},
		{X: 317, Y: -41},
	}
}

func TestRoundTrip(t *testing.T) {
	p := New(DefaultConfig())

	for _, v := range testViews() {
		for _, c := range testCoords() {
			got := p.ToCoord(p.ToPixel(c, v), v)
			assert.InDelta(t, c.X, got.X, 1, "x for %+v under %+v", c, v)
			assert.InDelta(t, c.Y, got.Y, 1, "y for %+v under %+v", c, v)
		}
	}
}

func TestYInversion(t *testing.T) {
	p := New(DefaultConfig())
	v := NewView()

	north := p.ToPixel(geometry.PointInt{X: 0, Y: 1000}, v)
	south := p.ToPixel(geometry.PointInt{X: 0, Y: -1000}, v)
	assert.Less(t, north.Y, south.Y, "north must be above south on screen")

	east := p.ToPixel(geometry.PointInt{X: 1000, Y: 0}, v)
	west := p.ToPixel(geometry.PointInt{X: -1000, Y: 0}, v)
	assert.Greater(t, east.X, west.X, "east must be right of west on screen")
}

func TestToLogicalClampsOutOfCanvas(t *testing.T) {
	p := New(DefaultConfig())
	v := NewView()

	c := p.ToCoord(geometry.Point2D{X: -99999, Y: 99999}, v)
	assert.Equal(t, geometry.PointInt{X: -1024, Y: -1024}, c)

	c = p.ToCoord(geometry.Point2D{X: 1e9, Y: -1e9}, v)
	assert.Equal(t, geometry.PointInt{X: 1024, Y: 1024}, c)
}

func TestZoomAtKeepsAnchorFixed(t *testing.T) {
	p := New(DefaultConfig())

	anchors := []geometry.Point2D{
		{X: 400, Y: 300},
		{X: 0, Y: 0},
		{X: 1023.5, Y: 17},
	}
	scales := []float64{0.25, 0.5, 1, 3.7, 20}

	for _, v1 := range testViews() {
		for _, a := range anchors {
			logical := p.ToLogical(a, v1)
			for _, s2 := range scales {
				v2 := ApplyZoomAt(v1, a.X, a.Y, s2)

				// Re-project the same logical point under the new view.
				base := p.BasePixel(logical)
				after := geometry.Point2D{
					X: base.X*v2.Scale + v2.PanX,
					Y: base.Y*v2.Scale + v2.PanY,
				}
				assert.InDelta(t, a.X, after.X, 1, "anchor x from %+v to scale %v", v1, s2)
				assert.InDelta(t, a.Y, after.Y, 1, "anchor y from %+v to scale %v", v1, s2)
			}
		}
	}
}

func TestZoomClamps(t *testing.T) {
	v := NewView()

	low := ApplyZoomAt(v, 0, 0, 0.01)
	assert.Equal(t, MinScale, low.Scale)

	high := ApplyZoomAt(v, 0, 0, 500)
	assert.Equal(t, MaxScale, high.Scale)

	assert.Equal(t, MinScale, ClampScale(-3))
	assert.Equal(t, 1.0, ClampScale(1))
}

func TestApplyPan(t *testing.T) {
	v := View{PanX: 10, PanY: 20, Scale: 2}

	moved := ApplyPan(v, -15, 5)
	assert.Equal(t, View{PanX: -5, PanY: 25, Scale: 2}, moved)
	assert.Equal(t, View{PanX: 10, PanY: 20, Scale: 2}, v, "input view unchanged")
}

func TestApplyZoomCentered(t *testing.T) {
	v := View{PanX: 50, PanY: 60, Scale: 1}

	centered := ApplyZoomCentered(v, 800, 600, 2)
	direct := ApplyZoomAt(v, 400, 300, 2)
	assert.Equal(t, direct, centered)
}

func TestCenterOn(t *testing.T) {
	p := New(DefaultConfig())

	for _, scale := range []float64{0.25, 1, 8} {
		v := View{PanX: -123, PanY: 456, Scale: scale}
		c := geometry.PointInt{X: 200, Y: -350}

		centered := p.CenterOn(v, c, 1024, 768)
		assert.Equal(t, scale, centered.Scale, "scale held fixed")

		px := p.ToPixel(c, centered)
		assert.InDelta(t, 512, px.X, 1e-9)
		assert.InDelta(t, 384, px.Y, 1e-9)
	}
}

func TestReducersAreDeterministic(t *testing.T) {
	v := View{PanX: 3, PanY: 4, Scale: 2}

	a := ApplyZoomAt(v, 100, 100, 5)
	b := ApplyZoomAt(v, 100, 100, 5)
	assert.Equal(t, a, b)
}

func TestPixelsPerUnit(t *testing.T) {
	p := New(DefaultConfig())

	// Defaults: one unit is one pixel at 100%.
	assert.InDelta(t, 1, p.PixelsPerUnit(NewView()), 1e-9)
	assert.InDelta(t, 4, p.PixelsPerUnit(View{Scale: 4}), 1e-9)

	// Half-resolution canvas halves the density.
	small := New(Config{WorldMin: -1024, WorldMax: 1024, CanvasSize: 1024})
	assert.InDelta(t, 0.5, small.PixelsPerUnit(NewView()), 1e-9)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 100, NewView().Percent())
	assert.Equal(t, 25, View{Scale: 0.25}.Percent())
	assert.Equal(t, 250, View{Scale: 2.5}.Percent())
	assert.Equal(t, 2000, View{Scale: 20}.Percent())
}

func TestCustomWorldConfig(t *testing.T) {
	// The projection works against arbitrary grids, not just the default.
	p := New(Config{WorldMin: 0, WorldMax: 100, CanvasSize: 500})
	v := NewView()

	px := p.ToPixel(geometry.PointInt{X: 0, Y: 0}, v)
	assert.InDelta(t, 0, px.X, 1e-9)
	assert.InDelta(t, 500, px.Y, 1e-9, "world minimum sits at the canvas bottom")

	px = p.ToPixel(geometry.PointInt{X: 100, Y: 100}, v)
	assert.InDelta(t, 500, px.X, 1e-9)
	assert.InDelta(t, 0, px.Y, 1e-9)

	got := p.ToCoord(p.ToPixel(geometry.PointInt{X: 37, Y: 62}, v), v)
	assert.Equal(t, geometry.PointInt{X: 37, Y: 62}, got)
}

func TestDegenerateConfigFallsBack(t *testing.T) {
	p := New(Config{WorldMin: 5, WorldMax: 5, CanvasSize: -1})
	assert.Equal(t, DefaultConfig(), p.Config())
}
