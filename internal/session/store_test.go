package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"wilderness-editor/pkg/geometry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDraftRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	verts := []geometry.PointInt{{X: -3, Y: 7}, {X: 10, Y: 10}, {X: 4, Y: -2}}
	require.NoError(t, s.SaveDraft(ctx, ActiveDraftID, "polygon", verts))

	d, err := s.LoadDraft(ctx, ActiveDraftID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "polygon", d.Tool)
	assert.Equal(t, verts, d.Vertices)
	assert.False(t, d.UpdatedAt.IsZero())
}

func TestSaveDraftUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, ActiveDraftID, "polygon", []geometry.PointInt{{X: 1, Y: 1}}))
	require.NoError(t, s.SaveDraft(ctx, ActiveDraftID, "polyline", []geometry.PointInt{{X: 2, Y: 2}, {X: 3, Y: 3}}))

	drafts, err := s.LoadDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "polyline", drafts[0].Tool)
	assert.Len(t, drafts[0].Vertices, 2)
}

func TestLoadMissingDraft(t *testing.T) {
	s := openTestStore(t)

	d, err := s.LoadDraft(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestDeleteDraft(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, ActiveDraftID, "polygon", nil))
	require.NoError(t, s.DeleteDraft(ctx, ActiveDraftID))

	d, err := s.LoadDraft(ctx, ActiveDraftID)
	require.NoError(t, err)
	assert.Nil(t, d)

	require.NoError(t, s.DeleteDraft(ctx, ActiveDraftID), "deleting a missing draft is not an error")
}

func TestRecentWorldsOrderAndDedup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.TouchRecentWorld(ctx, "/worlds/a.wild"))
	require.NoError(t, s.TouchRecentWorld(ctx, "/worlds/b.wild"))
	require.NoError(t, s.TouchRecentWorld(ctx, "/worlds/a.wild"))

	paths, err := s.RecentWorlds(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"/worlds/a.wild", "/worlds/b.wild"}, paths)

	paths, err = s.RecentWorlds(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/worlds/a.wild"}, paths)
}
