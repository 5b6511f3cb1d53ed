package worldapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"wilderness-editor/internal/wild"
	"wilderness-editor/pkg/geometry"
)

// ErrNotFound reports that the requested row does not exist.
var ErrNotFound = errors.New("worldapi: not found")

// ErrExists reports a create that collides with an existing row.
var ErrExists = errors.New("worldapi: already exists")

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id       TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS regions (
    vnum         INTEGER PRIMARY KEY,
    name         TEXT NOT NULL DEFAULT '',
    region_type  INTEGER NOT NULL,
    coordinates  TEXT NOT NULL,
    color        TEXT NOT NULL DEFAULT '',
    region_props INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS paths (
    vnum        INTEGER PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    path_type   INTEGER NOT NULL,
    coordinates TEXT NOT NULL,
    color       TEXT NOT NULL DEFAULT '',
    path_props  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS landmarks (
    id       TEXT PRIMARY KEY,
    name     TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    x        INTEGER NOT NULL,
    y        INTEGER NOT NULL
);
`

// Repository persists the authored world in a local sqlite database.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at dbPath, applies
// the schema and seeds the default builder account.
func Open(dbPath string) (*Repository, error) {
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	r := &Repository{db: db}
	if err := r.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func openSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (r *Repository) init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return r.ensureBuilder(ctx)
}

// ensureBuilder seeds the default account so a fresh database is usable
// without an out-of-band user setup step.
func (r *Repository) ensureBuilder(ctx context.Context) error {
	_, err := r.UserByCredentials(ctx, "builder", "builder")
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO users (id, username, password) VALUES (?, ?, ?)
    `, uuid.NewString(), "builder", "builder")
	if err != nil {
		return fmt.Errorf("seed builder: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// UserByCredentials returns the id of the user matching the username and
// password pair, or ErrNotFound.
func (r *Repository) UserByCredentials(ctx context.Context, username, password string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id FROM users WHERE username = ? AND password = ?
    `, username, password)

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return id, nil
}

func marshalCoords(coords []geometry.PointInt) (string, error) {
	if coords == nil {
		coords = []geometry.PointInt{}
	}
	b, err := json.Marshal(coords)
	if err != nil {
		return "", fmt.Errorf("encode coordinates: %w", err)
	}
	return string(b), nil
}

func unmarshalCoords(text string) ([]geometry.PointInt, error) {
	var coords []geometry.PointInt
	if err := json.Unmarshal([]byte(text), &coords); err != nil {
		return nil, fmt.Errorf("decode coordinates: %w", err)
	}
	return coords, nil
}

// ListRegions returns all regions ordered by vnum.
func (r *Repository) ListRegions(ctx context.Context) ([]*wild.Region, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT vnum, name, region_type, coordinates, color, region_props
        FROM regions ORDER BY vnum
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []*wild.Region
	for rows.Next() {
		var reg wild.Region
		var coords string
		if err := rows.Scan(&reg.VNum, &reg.Name, &reg.Type, &coords, &reg.Color, &reg.Props); err != nil {
			return nil, err
		}
		if reg.Coords, err = unmarshalCoords(coords); err != nil {
			return nil, fmt.Errorf("region %d: %w", reg.VNum, err)
		}
		regions = append(regions, &reg)
	}
	return regions, rows.Err()
}

// CreateRegion inserts the region, assigning the next free vnum when the
// given one is zero or negative. The assigned vnum is written back.
func (r *Repository) CreateRegion(ctx context.Context, reg *wild.Region) error {
	coords, err := marshalCoords(reg.Coords)
	if err != nil {
		return err
	}

	if reg.VNum > 0 {
		if exists, err := r.rowExists(ctx, `SELECT 1 FROM regions WHERE vnum = ?`, reg.VNum); err != nil {
			return err
		} else if exists {
			return ErrExists
		}
		_, err = r.db.ExecContext(ctx, `
            INSERT INTO regions (vnum, name, region_type, coordinates, color, region_props)
            VALUES (?, ?, ?, ?, ?, ?)
        `, reg.VNum, reg.Name, reg.Type, coords, reg.Color, reg.Props)
		return err
	}

	res, err := r.db.ExecContext(ctx, `
        INSERT INTO regions (name, region_type, coordinates, color, region_props)
        VALUES (?, ?, ?, ?, ?)
    `, reg.Name, reg.Type, coords, reg.Color, reg.Props)
	if err != nil {
		return err
	}
	vnum, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.VNum = int(vnum)
	return nil
}

// UpdateRegion replaces the stored region with the same vnum.
func (r *Repository) UpdateRegion(ctx context.Context, reg *wild.Region) error {
	coords, err := marshalCoords(reg.Coords)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE regions
        SET name = ?, region_type = ?, coordinates = ?, color = ?, region_props = ?
        WHERE vnum = ?
    `, reg.Name, reg.Type, coords, reg.Color, reg.Props, reg.VNum)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteRegion removes the region with the given vnum.
func (r *Repository) DeleteRegion(ctx context.Context, vnum int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM regions WHERE vnum = ?`, vnum)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListPaths returns all paths ordered by vnum.
func (r *Repository) ListPaths(ctx context.Context) ([]*wild.Path, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT vnum, name, path_type, coordinates, color, path_props
        FROM paths ORDER BY vnum
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []*wild.Path
	for rows.Next() {
		var p wild.Path
		var coords string
		if err := rows.Scan(&p.VNum, &p.Name, &p.Type, &coords, &p.Color, &p.Props); err != nil {
			return nil, err
		}
		if p.Coords, err = unmarshalCoords(coords); err != nil {
			return nil, fmt.Errorf("path %d: %w", p.VNum, err)
		}
		paths = append(paths, &p)
	}
	return paths, rows.Err()
}

// CreatePath inserts the path, assigning the next free vnum when the
// given one is zero or negative. The assigned vnum is written back.
func (r *Repository) CreatePath(ctx context.Context, p *wild.Path) error {
	coords, err := marshalCoords(p.Coords)
	if err != nil {
		return err
	}

	if p.VNum > 0 {
		if exists, err := r.rowExists(ctx, `SELECT 1 FROM paths WHERE vnum = ?`, p.VNum); err != nil {
			return err
		} else if exists {
			return ErrExists
		}
		_, err = r.db.ExecContext(ctx, `
            INSERT INTO paths (vnum, name, path_type, coordinates, color, path_props)
            VALUES (?, ?, ?, ?, ?, ?)
        `, p.VNum, p.Name, p.Type, coords, p.Color, p.Props)
		return err
	}

	res, err := r.db.ExecContext(ctx, `
        INSERT INTO paths (name, path_type, coordinates, color, path_props)
        VALUES (?, ?, ?, ?, ?)
    `, p.Name, p.Type, coords, p.Color, p.Props)
	if err != nil {
		return err
	}
	vnum, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.VNum = int(vnum)
	return nil
}

// UpdatePath replaces the stored path with the same vnum.
func (r *Repository) UpdatePath(ctx context.Context, p *wild.Path) error {
	coords, err := marshalCoords(p.Coords)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE paths
        SET name = ?, path_type = ?, coordinates = ?, color = ?, path_props = ?
        WHERE vnum = ?
    `, p.Name, p.Type, coords, p.Color, p.Props, p.VNum)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeletePath removes the path with the given vnum.
func (r *Repository) DeletePath(ctx context.Context, vnum int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM paths WHERE vnum = ?`, vnum)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListLandmarks returns all landmarks ordered by name then id.
func (r *Repository) ListLandmarks(ctx context.Context) ([]*wild.Landmark, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, category, x, y FROM landmarks ORDER BY name, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var landmarks []*wild.Landmark
	for rows.Next() {
		var l wild.Landmark
		if err := rows.Scan(&l.ID, &l.Name, &l.Category, &l.Coord.X, &l.Coord.Y); err != nil {
			return nil, err
		}
		landmarks = append(landmarks, &l)
	}
	return landmarks, rows.Err()
}

// CreateLandmark inserts the landmark, assigning a fresh id when none is
// given. The assigned id is written back.
func (r *Repository) CreateLandmark(ctx context.Context, l *wild.Landmark) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	} else {
		if exists, err := r.rowExists(ctx, `SELECT 1 FROM landmarks WHERE id = ?`, l.ID); err != nil {
			return err
		} else if exists {
			return ErrExists
		}
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO landmarks (id, name, category, x, y) VALUES (?, ?, ?, ?, ?)
    `, l.ID, l.Name, l.Category, l.Coord.X, l.Coord.Y)
	return err
}

// UpdateLandmark replaces the stored landmark with the same id.
func (r *Repository) UpdateLandmark(ctx context.Context, l *wild.Landmark) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE landmarks SET name = ?, category = ?, x = ?, y = ? WHERE id = ?
    `, l.Name, l.Category, l.Coord.X, l.Coord.Y, l.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteLandmark removes the landmark with the given id.
func (r *Repository) DeleteLandmark(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM landmarks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *Repository) rowExists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
