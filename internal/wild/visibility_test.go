package wild

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wilderness-editor/pkg/geometry"
)

func TestVisibilityByVNum(t *testing.T) {
	v := NewVisibility()
	r := squareRegion(10, 5)
	p := &Path{VNum: 10, Type: PathRiver, Coords: []geometry.PointInt{{0, 0}, {1, 1}}}

	assert.True(t, v.RegionVisible(r))
	assert.True(t, v.PathVisible(p))

	v.SetRegionHidden(10, true)
	assert.False(t, v.RegionVisible(r))
	assert.True(t, v.PathVisible(p), "region and path vnums are separate namespaces")

	v.SetRegionHidden(10, false)
	assert.True(t, v.RegionVisible(r))
}

func TestVisibilityByGroup(t *testing.T) {
	v := NewVisibility()
	enc := &Region{VNum: 1, Type: RegionEncounter, Coords: squareRegion(1, 4).Coords}
	geo := &Region{VNum: 2, Type: RegionGeographic, Coords: squareRegion(2, 4).Coords}

	v.SetGroupHidden(RegionEncounter.String(), true)
	assert.False(t, v.RegionVisible(enc))
	assert.True(t, v.RegionVisible(geo))

	river := &Path{VNum: 3, Type: PathRiver, Coords: []geometry.PointInt{{0, 0}, {2, 2}}}
	v.SetGroupHidden(PathRiver.String(), true)
	assert.False(t, v.PathVisible(river))
}

func TestVisibilityLandmarks(t *testing.T) {
	v := NewVisibility()
	l := NewLandmark(geometry.PointInt{X: 1, Y: 1}, "Well")

	assert.True(t, v.LandmarkVisible(l))

	v.SetLandmarkHidden(l.ID, true)
	assert.False(t, v.LandmarkVisible(l))

	v.SetLandmarkHidden(l.ID, false)
	v.SetGroupHidden(l.Group(), true)
	assert.False(t, v.LandmarkVisible(l))
}

func TestVisibilityCloneIsIndependent(t *testing.T) {
	v := NewVisibility()
	v.SetRegionHidden(5, true)

	c := v.Clone()
	c.SetRegionHidden(5, false)
	c.SetPathHidden(6, true)

	r := squareRegion(5, 3)
	assert.False(t, v.RegionVisible(r), "original still hides region 5")
	assert.True(t, c.RegionVisible(r))
}

func TestNilVisibilityShowsEverything(t *testing.T) {
	var v *Visibility
	assert.True(t, v.RegionVisible(squareRegion(1, 2)))
	assert.True(t, v.PathVisible(&Path{VNum: 1}))
	assert.True(t, v.LandmarkVisible(&Landmark{ID: "x"}))
}
