package editor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilderness-editor/internal/drawing"
	"wilderness-editor/internal/projection"
	"wilderness-editor/internal/selection"
	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
)

func testRegion(vnum, half int) *wild.Region {
	return &wild.Region{
		VNum: vnum,
		Name: "region",
		Type: wild.RegionGeographic,
		Coords: []geometry.PointInt{
			{X: -half, Y: -half},
			{X: half, Y: -half},
			{X: half, Y: half},
			{X: -half, Y: half},
		},
	}
}

func TestUpsertKeepsInsertionOrder(t *testing.T) {
	s := NewState()

	s.UpsertRegion(testRegion(5, 10))
	s.UpsertRegion(testRegion(2, 10))
	s.UpsertRegion(testRegion(9, 10))

	var vnums []int
	for _, r := range s.Regions() {
		vnums = append(vnums, r.VNum)
	}
	assert.Equal(t, []int{5, 2, 9}, vnums)

	// Replacing an existing vnum must not duplicate or reorder it.
	replacement := testRegion(2, 40)
	replacement.Name = "bigger"
	s.UpsertRegion(replacement)

	vnums = vnums[:0]
	for _, r := range s.Regions() {
		vnums = append(vnums, r.VNum)
	}
	assert.Equal(t, []int{5, 2, 9}, vnums)
	assert.Equal(t, "bigger", s.Region(2).Name)
}

func TestUpsertMarksDirtyAndModified(t *testing.T) {
	s := NewState()
	assert.False(t, s.Modified())

	s.UpsertRegion(testRegion(1, 10))
	assert.True(t, s.Modified())
	assert.True(t, s.Region(1).Dirty)

	dirtyRegions, dirtyPaths := s.DirtyShapes()
	assert.Len(t, dirtyRegions, 1)
	assert.Empty(t, dirtyPaths)

	s.MarkSynced(wild.Ref{Kind: wild.KindRegion, VNum: 1})
	dirtyRegions, _ = s.DirtyShapes()
	assert.Empty(t, dirtyRegions)
}

func TestRemoveClearsSelection(t *testing.T) {
	s := NewState()
	r := testRegion(3, 10)
	s.UpsertRegion(r)
	s.Select(r.Ref())

	var cleared bool
	s.On(EventSelectionChanged, func(data any) {
		if ref, ok := data.(wild.Ref); ok && ref.IsZero() {
			cleared = true
		}
	})

	require.True(t, s.RemoveRegion(3))
	assert.True(t, s.Selected().IsZero())
	assert.True(t, cleared)
	assert.Nil(t, s.Region(3))

	assert.False(t, s.RemoveRegion(3), "second remove reports missing")
}

func TestReplaceWorldResetsState(t *testing.T) {
	s := NewState()
	s.UpsertRegion(testRegion(1, 10))
	s.Select(wild.Ref{Kind: wild.KindRegion, VNum: 1})

	var loaded bool
	s.On(EventWorldLoaded, func(any) { loaded = true })

	lm := wild.NewLandmark(geometry.PointInt{X: 5, Y: 5}, "well")
	s.ReplaceWorld(
		[]*wild.Region{testRegion(10, 20)},
		[]*wild.Path{{VNum: 4, Coords: []geometry.PointInt{{X: 0, Y: 0}, {X: 9, Y: 9}}}},
		[]*wild.Landmark{lm},
	)

	assert.True(t, loaded)
	assert.False(t, s.Modified())
	assert.True(t, s.Selected().IsZero())
	assert.Nil(t, s.Region(1))
	assert.NotNil(t, s.Region(10))
	assert.NotNil(t, s.Path(4))
	assert.NotNil(t, s.Landmark(lm.ID))
}

func TestNextVNums(t *testing.T) {
	s := NewState()
	assert.Equal(t, 1, s.NextRegionVNum())

	s.UpsertRegion(testRegion(7, 10))
	s.UpsertRegion(testRegion(3, 10))
	assert.Equal(t, 8, s.NextRegionVNum())
	assert.Equal(t, 1, s.NextPathVNum())
}

func TestResolveClickAppliesOutcome(t *testing.T) {
	s := NewState()
	r := testRegion(1, 50)
	s.UpsertRegion(r)

	radii := selection.Radii{Landmark: 8, Path: 5}

	res := s.ResolveClick(geometry.Point2D{X: 0, Y: 0}, radii)
	assert.Equal(t, selection.OutcomeSelected, res.Outcome)
	assert.Equal(t, r.Ref(), s.Selected())

	res = s.ResolveClick(geometry.Point2D{X: 500, Y: 500}, radii)
	assert.Equal(t, selection.OutcomeNone, res.Outcome)
	assert.True(t, s.Selected().IsZero())
}

func TestDrawingFlow(t *testing.T) {
	s := NewState()

	var events int
	s.On(EventDrawingChanged, func(any) { events++ })

	s.SetTool(drawing.ToolPolygon)
	require.True(t, s.DrawClick(geometry.PointInt{X: 0, Y: 0}))
	require.True(t, s.DrawClick(geometry.PointInt{X: 10, Y: 0}))

	_, _, err := s.FinishDrawing()
	var verr *drawing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, s.DrawingSession().Active, "failed finish keeps the session")

	require.True(t, s.DrawClick(geometry.PointInt{X: 10, Y: 10}))
	tool, verts, err := s.FinishDrawing()
	require.NoError(t, err)
	assert.Equal(t, drawing.ToolPolygon, tool)
	assert.Len(t, verts, 3)
	assert.False(t, s.DrawingSession().Active)
	assert.Positive(t, events)
}

func TestToolSwitchCancelsCapture(t *testing.T) {
	s := NewState()
	s.SetTool(drawing.ToolPolyline)
	require.True(t, s.DrawClick(geometry.PointInt{X: 1, Y: 1}))

	s.SetTool(drawing.ToolInspect)
	assert.False(t, s.DrawingSession().Active)
}

func TestVisibilityThroughState(t *testing.T) {
	s := NewState()
	r := testRegion(6, 10)
	s.UpsertRegion(r)

	var fired int
	s.On(EventVisibilityChanged, func(any) { fired++ })

	s.SetRegionHidden(6, true)
	f := s.Frame()
	assert.False(t, f.Visibility.RegionVisible(r))
	assert.Equal(t, 1, fired)

	// The frame holds a clone; later changes must not leak into it.
	s.SetRegionHidden(6, false)
	assert.False(t, f.Visibility.RegionVisible(r))
	assert.True(t, s.Frame().Visibility.RegionVisible(r))
}

func TestSetViewDedups(t *testing.T) {
	s := NewState()

	var fired int
	s.On(EventViewChanged, func(any) { fired++ })

	v := projection.View{PanX: 10, PanY: 20, Scale: 2}
	s.SetView(v)
	s.SetView(v)
	assert.Equal(t, 1, fired)
	assert.Equal(t, v, s.View())
}

func TestFrameSnapshot(t *testing.T) {
	s := NewState()
	r := testRegion(1, 10)
	s.UpsertRegion(r)
	s.Select(r.Ref())
	s.SetHoverVertex(2)

	f := s.Frame()
	assert.Len(t, f.Regions, 1)
	assert.Equal(t, r.Ref(), f.Selected)
	assert.Equal(t, 2, f.HoverVertex)
	assert.Equal(t, s.View(), f.View)
}

func TestWorldFileRoundTrip(t *testing.T) {
	s := NewState()
	s.UpsertRegion(testRegion(1, 10))
	s.UpsertPath(&wild.Path{
		VNum:   2,
		Name:   "trail",
		Type:   wild.PathDirtRoad,
		Coords: []geometry.PointInt{{X: 0, Y: 0}, {X: 30, Y: 30}},
	})
	s.UpsertLandmark(wild.NewLandmark(geometry.PointInt{X: 4, Y: -4}, "cairn"))

	path := filepath.Join(t.TempDir(), "world.wild")
	require.NoError(t, s.SaveWorld(path))
	assert.False(t, s.Modified())
	assert.Equal(t, path, s.WorldPath())

	loaded := NewState()
	require.NoError(t, loaded.LoadWorld(path))

	require.Len(t, loaded.Regions(), 1)
	require.Len(t, loaded.Paths(), 1)
	require.Len(t, loaded.Landmarks(), 1)
	assert.Equal(t, s.Region(1).Coords, loaded.Region(1).Coords)
	assert.Equal(t, "trail", loaded.Path(2).Name)
	assert.Equal(t, path, loaded.WorldPath())
	assert.False(t, loaded.Modified())
}

func TestLoadWorldMissingFile(t *testing.T) {
	s := NewState()
	err := s.LoadWorld(filepath.Join(t.TempDir(), "missing.wild"))
	assert.Error(t, err)
}
