package worldapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"wilderness-editor/internal/wild"
)

// Handler serves the world editing API backed by a Repository.
type Handler struct {
	repo     *Repository
	sessions *SessionManager
}

// NewHandler creates a handler over the repository and session manager.
func NewHandler(repo *Repository, sessions *SessionManager) *Handler {
	return &Handler{repo: repo, sessions: sessions}
}

// Register attaches all API routes to the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/api/login", h.Login)

	app.Get("/api/world", h.World)

	app.Get("/api/regions", h.ListRegions)
	app.Post("/api/regions", h.CreateRegion)
	app.Put("/api/regions/:vnum", h.UpdateRegion)
	app.Delete("/api/regions/:vnum", h.DeleteRegion)

	app.Get("/api/paths", h.ListPaths)
	app.Post("/api/paths", h.CreatePath)
	app.Put("/api/paths/:vnum", h.UpdatePath)
	app.Delete("/api/paths/:vnum", h.DeletePath)

	app.Get("/api/landmarks", h.ListLandmarks)
	app.Post("/api/landmarks", h.CreateLandmark)
	app.Put("/api/landmarks/:id", h.UpdateLandmark)
	app.Delete("/api/landmarks/:id", h.DeleteLandmark)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login issues a bearer token for a username/password pair.
func (h *Handler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "username and password required"})
	}

	userID, err := h.repo.UserByCredentials(context.Background(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	token := h.sessions.Issue(userID)
	return c.JSON(fiber.Map{"token": token})
}

// authorize resolves the Bearer token on the request.
func (h *Handler) authorize(c fiber.Ctx) (string, bool) {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return h.sessions.Resolve(token)
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

type worldResponse struct {
	Regions   []*wild.Region   `json:"regions"`
	Paths     []*wild.Path     `json:"paths"`
	Landmarks []*wild.Landmark `json:"landmarks"`
}

// World returns every region, path and landmark in one payload.
func (h *Handler) World(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	ctx := context.Background()
	regions, err := h.repo.ListRegions(ctx)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "load regions failed"})
	}
	paths, err := h.repo.ListPaths(ctx)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "load paths failed"})
	}
	landmarks, err := h.repo.ListLandmarks(ctx)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "load landmarks failed"})
	}

	return c.JSON(worldResponse{Regions: regions, Paths: paths, Landmarks: landmarks})
}

func validateRegion(r *wild.Region) error {
	if r.Type < wild.RegionGeographic || r.Type > wild.RegionSectorOverride {
		return fmt.Errorf("unknown region type %d", r.Type)
	}
	if len(r.Coords) < 3 {
		return errors.New("a region needs at least 3 vertices")
	}
	for i, coord := range r.Coords {
		r.Coords[i] = wild.ClampCoord(coord)
	}
	return nil
}

func validatePath(p *wild.Path) error {
	if p.Type < wild.PathPavedRoad || p.Type > wild.PathStream {
		return fmt.Errorf("unknown path type %d", p.Type)
	}
	if len(p.Coords) < 2 {
		return errors.New("a path needs at least 2 vertices")
	}
	for i, coord := range p.Coords {
		p.Coords[i] = wild.ClampCoord(coord)
	}
	return nil
}

// ListRegions returns all regions.
func (h *Handler) ListRegions(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	regions, err := h.repo.ListRegions(context.Background())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "load regions failed"})
	}
	if regions == nil {
		regions = []*wild.Region{}
	}
	return c.JSON(regions)
}

// CreateRegion stores a new region and returns the stored copy, with the
// vnum the server assigned when the request left it unset.
func (h *Handler) CreateRegion(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	var reg wild.Region
	if err := json.Unmarshal(c.Body(), &reg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validateRegion(&reg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.CreateRegion(context.Background(), &reg); err != nil {
		if errors.Is(err, ErrExists) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("region %d already exists", reg.VNum)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "store region failed"})
	}
	return c.Status(http.StatusCreated).JSON(&reg)
}

// UpdateRegion replaces the region named by the vnum route parameter.
func (h *Handler) UpdateRegion(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	vnum, err := strconv.Atoi(c.Params("vnum"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid vnum"})
	}

	var reg wild.Region
	if err := json.Unmarshal(c.Body(), &reg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	reg.VNum = vnum
	if err := validateRegion(&reg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.UpdateRegion(context.Background(), &reg); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("region %d not found", vnum)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "store region failed"})
	}
	return c.JSON(&reg)
}

// DeleteRegion removes the region named by the vnum route parameter.
func (h *Handler) DeleteRegion(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	vnum, err := strconv.Atoi(c.Params("vnum"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid vnum"})
	}

	if err := h.repo.DeleteRegion(context.Background(), vnum); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("region %d not found", vnum)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "delete region failed"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// ListPaths returns all paths.
func (h *Handler) ListPaths(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	paths, err := h.repo.ListPaths(context.Background())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "load paths failed"})
	}
	if paths == nil {
		paths = []*wild.Path{}
	}
	return c.JSON(paths)
}

// CreatePath stores a new path and returns the stored copy.
func (h *Handler) CreatePath(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	var p wild.Path
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validatePath(&p); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.CreatePath(context.Background(), &p); err != nil {
		if errors.Is(err, ErrExists) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("path %d already exists", p.VNum)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "store path failed"})
	}
	return c.Status(http.StatusCreated).JSON(&p)
}

// UpdatePath replaces the path named by the vnum route parameter.
func (h *Handler) UpdatePath(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	vnum, err := strconv.Atoi(c.Params("vnum"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid vnum"})
	}

	var p wild.Path
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	p.VNum = vnum
	if err := validatePath(&p); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.UpdatePath(context.Background(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("path %d not found", vnum)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "store path failed"})
	}
	return c.JSON(&p)
}

// DeletePath removes the path named by the vnum route parameter.
func (h *Handler) DeletePath(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	vnum, err := strconv.Atoi(c.Params("vnum"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid vnum"})
	}

	if err := h.repo.DeletePath(context.Background(), vnum); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("path %d not found", vnum)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "delete path failed"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// ListLandmarks returns all landmarks.
func (h *Handler) ListLandmarks(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	landmarks, err := h.repo.ListLandmarks(context.Background())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "load landmarks failed"})
	}
	if landmarks == nil {
		landmarks = []*wild.Landmark{}
	}
	return c.JSON(landmarks)
}

// CreateLandmark stores a new landmark and returns the stored copy, with
// the id the server assigned when the request left it unset.
func (h *Handler) CreateLandmark(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	var l wild.Landmark
	if err := json.Unmarshal(c.Body(), &l); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	l.Coord = wild.ClampCoord(l.Coord)

	if err := h.repo.CreateLandmark(context.Background(), &l); err != nil {
		if errors.Is(err, ErrExists) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("landmark %s already exists", l.ID)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "store landmark failed"})
	}
	return c.Status(http.StatusCreated).JSON(&l)
}

// UpdateLandmark replaces the landmark named by the id route parameter.
func (h *Handler) UpdateLandmark(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	id := c.Params("id")
	var l wild.Landmark
	if err := json.Unmarshal(c.Body(), &l); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	l.ID = id
	l.Coord = wild.ClampCoord(l.Coord)

	if err := h.repo.UpdateLandmark(context.Background(), &l); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("landmark %s not found", id)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "store landmark failed"})
	}
	return c.JSON(&l)
}

// DeleteLandmark removes the landmark named by the id route parameter.
func (h *Handler) DeleteLandmark(c fiber.Ctx) error {
	if _, ok := h.authorize(c); !ok {
		return unauthorized(c)
	}

	id := c.Params("id")
	if err := h.repo.DeleteLandmark(context.Background(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("landmark %s not found", id)})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "delete landmark failed"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
