package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
)

func square(vnum, x, y, size int) *wild.Region {
	return &wild.Region{
		VNum: vnum,
		Type: wild.RegionGeographic,
		Coords: []geometry.PointInt{
			{X: x, Y: y}, {X: x + size, Y: y},
			{X: x + size, Y: y + size}, {X: x, Y: y + size},
		},
	}
}

func defaultRadii() Radii {
	return RadiiForScale(1)
}

func TestResolveNothing(t *testing.T) {
	w := World{Visibility: wild.NewVisibility()}
	res := Resolve(geometry.Point2D{X: 0, Y: 0}, w, defaultRadii())
	assert.Equal(t, OutcomeNone, res.Outcome)
	assert.Nil(t, res.Selected)
	assert.Empty(t, res.Candidates)
}

func TestSingleRegionSelectsImmediately(t *testing.T) {
	w := World{
		Regions:    []*wild.Region{square(1, 0, 0, 10)},
		Visibility: wild.NewVisibility(),
	}

	res := Resolve(geometry.Point2D{X: 5, Y: 5}, w, defaultRadii())
	require.Equal(t, OutcomeSelected, res.Outcome)
	assert.Equal(t, wild.Ref{Kind: wild.KindRegion, VNum: 1}, res.Selected.Ref())
	assert.Empty(t, res.Candidates, "no disambiguation for a single hit")
}

func TestLandmarkBeatsRegion(t *testing.T) {
	lm := wild.NewLandmark(geometry.PointInt{X: 0, Y: 0}, "Obelisk")
	w := World{
		Regions:    []*wild.Region{square(1, -10, -10, 20)},
		Landmarks:  []*wild.Landmark{lm},
		Visibility: wild.NewVisibility(),
	}

	res := Resolve(geometry.Point2D{X: 0, Y: 0}, w, defaultRadii())
	require.Equal(t, OutcomeSelected, res.Outcome)
	assert.Equal(t, wild.KindLandmark, res.Selected.Ref().Kind)
}

func TestLandmarkOutOfRadiusIgnored(t *testing.T) {
	lm := wild.NewLandmark(geometry.PointInt{X: 100, Y: 100}, "Far")
	w := World{
		Landmarks:  []*wild.Landmark{lm},
		Visibility: wild.NewVisibility(),
	}

	res := Resolve(geometry.Point2D{X: 0, Y: 0}, w, defaultRadii())
	assert.Equal(t, OutcomeNone, res.Outcome)
}

func TestNearestLandmarkWins(t *testing.T) {
	near := wild.NewLandmark(geometry.PointInt{X: 1, Y: 0}, "Near")
	far := wild.NewLandmark(geometry.PointInt{X: 4, Y: 0}, "Far")
	w := World{
		Landmarks:  []*wild.Landmark{far, near},
		Visibility: wild.NewVisibility(),
	}

	res := Resolve(geometry.Point2D{X: 0, Y: 0}, w, defaultRadii())
	require.Equal(t, OutcomeSelected, res.Outcome)
	assert.Equal(t, near.ID, res.Selected.Ref().ID)
}

func TestSmallerRegionRanksFirst(t *testing.T) {
	small := square(1, 0, 0, 10)  // area 100
	large := square(2, -5, -5, 20) // area 400
	w := World{
		Regions:    []*wild.Region{large, small},
		Visibility: wild.NewVisibility(),
	}

	res := Resolve(geometry.Point2D{X: 5, Y: 5}, w, defaultRadii())
	require.Equal(t, OutcomeAmbiguous, res.Outcome)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, 1, res.Candidates[0].Item.Ref().VNum, "area 100 before area 400")
	assert.InDelta(t, 100, res.Candidates[0].RankKey, 1e-9)
	assert.InDelta(t, 400, res.Candidates[1].RankKey, 1e-9)
}

func TestPathsOrderBeforeRegions(t *testing.T) {
	region := square(1, -10, -10, 20)
	nearPath := &wild.Path{
		VNum: 2, Type: wild.PathRiver,
		Coords: []geometry.PointInt{{X: -10, Y: 1}, {X: 10, Y: 1}},
	}
	farPath := &wild.Path{
		VNum: 3, Type: wild.PathDirtRoad,
		Coords: []geometry.PointInt{{X: -10, Y: 4}, {X: 10, Y: 4}},
	}
	w := World{
		Regions:    []*wild.Region{region},
		Paths:      []*wild.Path{farPath, nearPath},
		Visibility: wild.NewVisibility(),
	}

	res := Resolve(geometry.Point2D{X: 0, Y: 0}, w, defaultRadii())
	require.Equal(t, OutcomeAmbiguous, res.Outcome)
	require.Len(t, res.Candidates, 3)

	assert.Equal(t, wild.KindPath, res.Candidates[0].Item.Ref().Kind)
	assert.Equal(t, 2, res.Candidates[0].Item.Ref().VNum, "nearest path first")
	assert.Equal(t, wild.KindPath, res.Candidates[1].Item.Ref().Kind)
	assert.Equal(t, wild.KindRegion, res.Candidates[2].Item.Ref().Kind, "regions after paths")
}

func TestHiddenRegionIsClickThrough(t *testing.T) {
	vis := wild.NewVisibility()
	vis.SetRegionHidden(1, true)
	w := World{
		Regions:    []*wild.Region{square(1, 0, 0, 10), square(2, 0, 0, 30)},
		Visibility: vis,
	}

	res := Resolve(geometry.Point2D{X: 5, Y: 5}, w, defaultRadii())
	require.Equal(t, OutcomeSelected, res.Outcome)
	assert.Equal(t, 2, res.Selected.Ref().VNum, "hidden region never appears as a candidate")
}

func TestHiddenGroupIsClickThrough(t *testing.T) {
	vis := wild.NewVisibility()
	vis.SetGroupHidden(wild.PathRiver.String(), true)
	river := &wild.Path{
		VNum: 1, Type: wild.PathRiver,
		Coords: []geometry.PointInt{{X: -5, Y: 0}, {X: 5, Y: 0}},
	}
	w := World{Paths: []*wild.Path{river}, Visibility: vis}

	res := Resolve(geometry.Point2D{X: 0, Y: 0}, w, defaultRadii())
	assert.Equal(t, OutcomeNone, res.Outcome)
}

func TestDegenerateShapesNeverHit(t *testing.T) {
	flat := &wild.Region{VNum: 1, Coords: []geometry.PointInt{{0, 0}, {10, 0}}}
	stub := &wild.Path{VNum: 2, Coords: []geometry.PointInt{{0, 0}}}
	w := World{
		Regions:    []*wild.Region{flat},
		Paths:      []*wild.Path{stub},
		Visibility: wild.NewVisibility(),
	}

	res := Resolve(geometry.Point2D{X: 0, Y: 0}, w, defaultRadii())
	assert.Equal(t, OutcomeNone, res.Outcome)
}

func TestPathToleranceScalesWithRadii(t *testing.T) {
	path := &wild.Path{
		VNum: 1, Type: wild.PathDirtRoad,
		Coords: []geometry.PointInt{{X: -10, Y: 3}, {X: 10, Y: 3}},
	}
	w := World{Paths: []*wild.Path{path}, Visibility: wild.NewVisibility()}

	res := Resolve(geometry.Point2D{X: 0, Y: 0}, w, Radii{Path: 5})
	assert.Equal(t, OutcomeSelected, res.Outcome)

	res = Resolve(geometry.Point2D{X: 0, Y: 0}, w, Radii{Path: 2})
	assert.Equal(t, OutcomeNone, res.Outcome)
}

func TestRadiiForScale(t *testing.T) {
	r := RadiiForScale(1)
	assert.InDelta(t, 8, r.Landmark, 1e-9)
	assert.InDelta(t, 5, r.Path, 1e-9)

	// Zoomed to 4x, the same 8-pixel target covers fewer world units.
	r = RadiiForScale(4)
	assert.InDelta(t, 2, r.Landmark, 1e-9)
	assert.InDelta(t, 5, r.Path, 1e-9, "path tolerance is zoom-independent")
}

func TestNearestVertex(t *testing.T) {
	coords := []geometry.PointInt{{0, 0}, {10, 0}, {10, 10}}

	idx, ok := NearestVertex(geometry.Point2D{X: 9.4, Y: 0.2}, coords, 2)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = NearestVertex(geometry.Point2D{X: 50, Y: 50}, coords, 2)
	assert.False(t, ok)

	_, ok = NearestVertex(geometry.Point2D{}, nil, 2)
	assert.False(t, ok)
}
