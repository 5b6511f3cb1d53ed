// Package session persists editing state that must survive a crash: the
// in-progress drawing draft and the recent-worlds list. Backed by a
// single-connection sqlite file; the driver is registered by the
// importing binary.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wilderness-editor/pkg/geometry"
)

// ActiveDraftID is the draft slot the canvas checkpoints into while a
// shape is being drawn.
const ActiveDraftID = "active"

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
    id         TEXT PRIMARY KEY,
    tool       TEXT NOT NULL,
    vertices   TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS recent_worlds (
    path      TEXT PRIMARY KEY,
    opened_at INTEGER NOT NULL
);
`

// Draft is one checkpointed capture session.
type Draft struct {
	ID        string
	Tool      string
	Vertices  []geometry.PointInt
	UpdatedAt time.Time
}

// Store is the sqlite-backed session store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply session schema: %w", err)
	}
	return &Store{db: db}, nil
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

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDraft upserts a capture checkpoint.
func (s *Store) SaveDraft(ctx context.Context, id, tool string, vertices []geometry.PointInt) error {
	data, err := json.Marshal(vertices)
	if err != nil {
		return fmt.Errorf("encode draft vertices: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO drafts (id, tool, vertices, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            tool = excluded.tool,
            vertices = excluded.vertices,
            updated_at = excluded.updated_at
    `, id, tool, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// LoadDraft returns the draft with the given id, or nil when none is
// stored.
func (s *Store) LoadDraft(ctx context.Context, id string) (*Draft, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, tool, vertices, updated_at
        FROM drafts
        WHERE id = ?
    `, id)

	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// LoadDrafts returns all checkpoints, newest first.
func (s *Store) LoadDrafts(ctx context.Context) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, tool, vertices, updated_at
        FROM drafts
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("load drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}
	return drafts, rows.Err()
}

// DeleteDraft removes a checkpoint, normally after the shape was
// finished or cancelled.
func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*Draft, error) {
	var (
		d     Draft
		verts string
		nanos int64
	)
	if err := row.Scan(&d.ID, &d.Tool, &verts, &nanos); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(verts), &d.Vertices); err != nil {
		return nil, fmt.Errorf("decode draft vertices: %w", err)
	}
	d.UpdatedAt = time.Unix(0, nanos)
	return &d, nil
}

// TouchRecentWorld records that a world file was opened now.
func (s *Store) TouchRecentWorld(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO recent_worlds (path, opened_at)
        VALUES (?, ?)
        ON CONFLICT(path) DO UPDATE SET opened_at = excluded.opened_at
    `, path, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("touch recent world: %w", err)
	}
	return nil
}

// RecentWorlds returns up to limit world file paths, most recent first.
func (s *Store) RecentWorlds(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT path
        FROM recent_worlds
        ORDER BY opened_at DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("recent worlds: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
