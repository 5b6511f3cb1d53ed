package worldapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
)

func newTestServer(t *testing.T) (*fiber.App, *Repository) {
	t.Helper()
	repo := openTestRepo(t)
	app := fiber.New()
	NewHandler(repo, NewSessionManager()).Register(app)
	return app, repo
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func loginToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doRequest(t, app, "POST", "/api/login", map[string]string{
		"username": "builder",
		"password": "builder",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[struct {
		Token string `json:"token"`
	}](t, resp)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _ := newTestServer(t)

	resp := doRequest(t, app, "POST", "/api/login", map[string]string{
		"username": "builder",
		"password": "nope",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	loginToken(t, app)
}

func TestRequestsRequireToken(t *testing.T) {
	app, _ := newTestServer(t)

	for _, path := range []string{"/api/world", "/api/regions", "/api/paths", "/api/landmarks"} {
		resp := doRequest(t, app, "GET", path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := doRequest(t, app, "GET", "/api/world", nil, "made-up-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestWorldPayload(t *testing.T) {
	app, repo := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateRegion(ctx, &wild.Region{
		Type:   wild.RegionGeographic,
		Coords: []geometry.PointInt{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}},
	}))
	require.NoError(t, repo.CreatePath(ctx, &wild.Path{
		Type:   wild.PathDirtRoad,
		Coords: []geometry.PointInt{{X: -3, Y: 1}, {X: 9, Y: 2}},
	}))
	require.NoError(t, repo.CreateLandmark(ctx, &wild.Landmark{Name: "Well"}))

	token := loginToken(t, app)
	resp := doRequest(t, app, "GET", "/api/world", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	world := decodeBody[worldResponse](t, resp)
	assert.Len(t, world.Regions, 1)
	assert.Len(t, world.Paths, 1)
	assert.Len(t, world.Landmarks, 1)
}

func TestRegionLifecycleOverHTTP(t *testing.T) {
	app, _ := newTestServer(t)
	token := loginToken(t, app)

	resp := doRequest(t, app, "POST", "/api/regions", &wild.Region{
		Name:   "Mire",
		Type:   wild.RegionEncounter,
		Coords: []geometry.PointInt{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 3, Y: 6}},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[wild.Region](t, resp)
	require.Positive(t, created.VNum)

	created.Name = "Greater Mire"
	resp = doRequest(t, app, "PUT", "/api/regions/"+strconv.Itoa(created.VNum), &created, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/api/regions", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	regions := decodeBody[[]*wild.Region](t, resp)
	require.Len(t, regions, 1)
	assert.Equal(t, "Greater Mire", regions[0].Name)

	resp = doRequest(t, app, "DELETE", "/api/regions/"+strconv.Itoa(created.VNum), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "PUT", "/api/regions/"+strconv.Itoa(created.VNum), &created, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateRegionValidation(t *testing.T) {
	app, _ := newTestServer(t)
	token := loginToken(t, app)

	resp := doRequest(t, app, "POST", "/api/regions", &wild.Region{
		Type:   wild.RegionGeographic,
		Coords: []geometry.PointInt{{X: 0, Y: 0}, {X: 1, Y: 1}},
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "POST", "/api/regions", &wild.Region{
		Type:   wild.RegionType(99),
		Coords: []geometry.PointInt{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "PUT", "/api/regions/notanumber", &wild.Region{}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCoordinatesClampedOnCreate(t *testing.T) {
	app, _ := newTestServer(t)
	token := loginToken(t, app)

	resp := doRequest(t, app, "POST", "/api/regions", &wild.Region{
		Type:   wild.RegionGeographic,
		Coords: []geometry.PointInt{{X: 5000, Y: 0}, {X: 0, Y: -5000}, {X: 10, Y: 10}},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[wild.Region](t, resp)
	assert.Equal(t, wild.WorldRadius, created.Coords[0].X)
	assert.Equal(t, -wild.WorldRadius, created.Coords[1].Y)
}

func TestLandmarkLifecycleOverHTTP(t *testing.T) {
	app, _ := newTestServer(t)
	token := loginToken(t, app)

	resp := doRequest(t, app, "POST", "/api/landmarks", &wild.Landmark{
		Name:  "Standing Stones",
		Coord: geometry.PointInt{X: 40, Y: 40},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[wild.Landmark](t, resp)
	require.NotEmpty(t, created.ID)

	created.Category = "Ruin"
	resp = doRequest(t, app, "PUT", "/api/landmarks/"+created.ID, &created, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/api/landmarks", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	landmarks := decodeBody[[]*wild.Landmark](t, resp)
	require.Len(t, landmarks, 1)
	assert.Equal(t, "Ruin", landmarks[0].Category)

	resp = doRequest(t, app, "DELETE", "/api/landmarks/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "DELETE", "/api/landmarks/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

