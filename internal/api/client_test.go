package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
)

func TestFetchWorldSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/world", r.URL.Path)

		json.NewEncoder(w).Encode(World{
			Regions: []*wild.Region{{VNum: 1, Name: "forest"}},
			Paths:   []*wild.Path{{VNum: 2, Name: "trail"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", time.Second)
	w, err := c.FetchWorld(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	require.Len(t, w.Regions, 1)
	assert.Equal(t, "forest", w.Regions[0].Name)
	require.Len(t, w.Paths, 1)
	assert.Equal(t, 2, w.Paths[0].VNum)
}

func TestCreateRegionRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/regions", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in wild.Region
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.Name = "stored " + in.Name

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&in)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	out, err := c.CreateRegion(context.Background(), &wild.Region{
		VNum:   9,
		Name:   "swamp",
		Type:   wild.RegionGeographic,
		Coords: []geometry.PointInt{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, out.VNum)
	assert.Equal(t, "stored swamp", out.Name)
}

func TestUpdateAndDeleteHitVNumRoutes(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	require.NoError(t, c.UpdateRegion(context.Background(), &wild.Region{VNum: 12}))
	require.NoError(t, c.DeletePath(context.Background(), 7))
	require.NoError(t, c.DeleteLandmark(context.Background(), "abc-123"))

	assert.Equal(t, []string{
		"PUT /api/regions/12",
		"DELETE /api/paths/7",
		"DELETE /api/landmarks/abc-123",
	}, paths)
}

func TestStatusErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such region", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	err := c.DeleteRegion(context.Background(), 99)
	require.Error(t, err)

	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusForbidden))
	assert.Contains(t, err.Error(), "no such region")
}

func TestLoginInstallsToken(t *testing.T) {
	var authOnSecond string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var req loginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "builder", req.Username)
			json.NewEncoder(w).Encode(loginResponse{Token: "fresh-token"})
		case "/api/regions":
			authOnSecond = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode([]*wild.Region{})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	token, err := c.Login(context.Background(), "builder", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)

	_, err = c.ListRegions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer fresh-token", authOnSecond)
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*wild.Region{})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.ListRegions(ctx)
	assert.Error(t, err)
}
