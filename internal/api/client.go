// Package api is the HTTP client for the world server. It mirrors the
// server's JSON region/path/landmark CRUD and keeps all transport
// details (auth header, timeouts, status mapping) out of the editor.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wilderness-editor/internal/wild"
)

// World is the full content payload returned by GET /api/world.
type World struct {
	Regions   []*wild.Region   `json:"regions"`
	Paths     []*wild.Path     `json:"paths"`
	Landmarks []*wild.Landmark `json:"landmarks"`
}

// StatusError reports a non-2xx server response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client talks to one world server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the server at baseURL. token may be
// empty until Login.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken replaces the bearer token, normally after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session token and installs it on
// the client.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// FetchWorld downloads the complete world content.
func (c *Client) FetchWorld(ctx context.Context) (World, error) {
	var w World
	err := c.do(ctx, http.MethodGet, "/api/world", nil, &w)
	return w, err
}

// ListRegions returns all regions.
func (c *Client) ListRegions(ctx context.Context) ([]*wild.Region, error) {
	var out []*wild.Region
	err := c.do(ctx, http.MethodGet, "/api/regions", nil, &out)
	return out, err
}

// CreateRegion stores a new region and returns the server's copy.
func (c *Client) CreateRegion(ctx context.Context, r *wild.Region) (*wild.Region, error) {
	var out wild.Region
	if err := c.do(ctx, http.MethodPost, "/api/regions", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRegion replaces the region with the same vnum.
func (c *Client) UpdateRegion(ctx context.Context, r *wild.Region) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/regions/%d", r.VNum), r, nil)
}

// DeleteRegion removes a region by vnum.
func (c *Client) DeleteRegion(ctx context.Context, vnum int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/regions/%d", vnum), nil, nil)
}

// ListPaths returns all paths.
func (c *Client) ListPaths(ctx context.Context) ([]*wild.Path, error) {
	var out []*wild.Path
	err := c.do(ctx, http.MethodGet, "/api/paths", nil, &out)
	return out, err
}

// CreatePath stores a new path and returns the server's copy.
func (c *Client) CreatePath(ctx context.Context, p *wild.Path) (*wild.Path, error) {
	var out wild.Path
	if err := c.do(ctx, http.MethodPost, "/api/paths", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePath replaces the path with the same vnum.
func (c *Client) UpdatePath(ctx context.Context, p *wild.Path) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/paths/%d", p.VNum), p, nil)
}

// DeletePath removes a path by vnum.
func (c *Client) DeletePath(ctx context.Context, vnum int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/paths/%d", vnum), nil, nil)
}

// ListLandmarks returns all landmarks.
func (c *Client) ListLandmarks(ctx context.Context) ([]*wild.Landmark, error) {
	var out []*wild.Landmark
	err := c.do(ctx, http.MethodGet, "/api/landmarks", nil, &out)
	return out, err
}

// CreateLandmark stores a new landmark.
func (c *Client) CreateLandmark(ctx context.Context, l *wild.Landmark) (*wild.Landmark, error) {
	var out wild.Landmark
	if err := c.do(ctx, http.MethodPost, "/api/landmarks", l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLandmark replaces the landmark with the same id.
func (c *Client) UpdateLandmark(ctx context.Context, l *wild.Landmark) error {
	return c.do(ctx, http.MethodPut, "/api/landmarks/"+l.ID, l, nil)
}

// DeleteLandmark removes a landmark by id.
func (c *Client) DeleteLandmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/landmarks/"+id, nil, nil)
}

// do runs one JSON round trip. in is marshaled as the request body when
// non-nil; a non-2xx status becomes a StatusError; out is decoded from
// the response body when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %w", method, path, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(msg)),
		})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
