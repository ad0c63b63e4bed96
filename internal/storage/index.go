/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gowhiteboard/internal/domain"
	applog "gowhiteboard/internal/log"
	"gowhiteboard/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-board ephemeral/index data under the board root.
	IndexDirName  = ".gwb"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the board's embedded index database file.
func IndexPath(boardRoot string) string {
	return filepath.Join(boardRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-board SQLite index exists at .gwb/index.sqlite,
// opens the database, enables WAL mode, and ensures the meta/version tables exist.
// The returned *sql.DB is ready for use. Callers may close it when no longer needed.
func InitOrOpenIndex(boardRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", boardRoot),
	)
	if strings.TrimSpace(boardRoot) == "" {
		return nil, errors.New("board root is required")
	}
	if err := os.MkdirAll(filepath.Join(boardRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .gwb dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .gwb dir: %w", err)
	}

	path := IndexPath(boardRoot)
	// Use a URI with shared cache and a busy timeout. Forward slashes for the SQLite URI.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Embedded usage: a single connection avoids writer contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Fresh DB starts at the current schema
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Never downgrade
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// Add the bounding-box lookup index used by reference queries
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_elements_scene_bbox ON elements(scene, x, y);`,
				`CREATE INDEX IF NOT EXISTS idx_elements_kind ON elements(kind);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize (outside the tx)
			if _, err := db.ExecContext(ctx, `INSERT INTO fts_elements(fts_elements) VALUES('optimize')`); err != nil {
				// ignore; optimize is advisory
			}
		default:
			// Unknown future step; nothing to do
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates core index tables and FTS structures if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Elements table mirrors the manifest's scene content with bounding
		// boxes for fast reference-set queries.
		`CREATE TABLE IF NOT EXISTS elements (
			el_id    INTEGER PRIMARY KEY,
			scene    TEXT    NOT NULL,
			ext_id   TEXT    NOT NULL,
			kind     TEXT    NOT NULL,
			x        REAL    NOT NULL,
			y        REAL    NOT NULL,
			width    REAL    NOT NULL,
			height   REAL    NOT NULL,
			rotation REAL    NOT NULL DEFAULT 0,
			text     TEXT
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_elements_scene_ext ON elements(scene, ext_id);`,
		`CREATE INDEX IF NOT EXISTS idx_elements_scene ON elements(scene);`,

		// Contentless FTS5 index over text-element content fed via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_elements USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// Scene snapshots (history of scene changes as opaque deltas)
		`CREATE TABLE IF NOT EXISTS snapshots (
			id         INTEGER PRIMARY KEY,
			scene      TEXT    NOT NULL,
			ts         TEXT    NOT NULL,
			delta_blob BLOB    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_scene_ts ON snapshots(scene, ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers keep the contentless FTS table in sync with elements.text
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS elements_ai AFTER INSERT ON elements BEGIN
			INSERT INTO fts_elements(rowid, text) VALUES (new.el_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS elements_ad AFTER DELETE ON elements BEGIN
			INSERT INTO fts_elements(fts_elements, rowid, text) VALUES ('delete', old.el_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS elements_au AFTER UPDATE OF text ON elements BEGIN
			INSERT INTO fts_elements(fts_elements, rowid, text) VALUES ('delete', old.el_id, old.text);
			INSERT INTO fts_elements(rowid, text) VALUES (new.el_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds the index if needed.
// It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, boardRoot string, b domain.Board) (bool, error) {
	path := IndexPath(boardRoot)
	db, err := InitOrOpenIndex(boardRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, boardRoot, b); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM elements LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	_ = os.Remove(path)
	if err := RebuildIndex(ctx, boardRoot, b); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .gwb/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// BuildIndexIfEmpty populates the index from the manifest when the elements
// table has no rows yet. Safe to call on every open.
func BuildIndexIfEmpty(ctx context.Context, boardRoot string, b domain.Board) error {
	db, err := InitOrOpenIndex(boardRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM elements;").Scan(&cnt); err != nil {
		return fmt.Errorf("check elements count: %w", err)
	}
	if cnt > 0 {
		return nil
	}
	return rebuildElementsFromBoard(ctx, db, b)
}

// UpdateIndex replaces the element rows from the provided manifest.
func UpdateIndex(ctx context.Context, boardRoot string, b domain.Board) error {
	db, err := InitOrOpenIndex(boardRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildElementsFromBoard(ctx, db, b)
}

// RebuildIndex drops and recreates core index tables and rebuilds content from the manifest.
// It preserves meta/version tables. The index is derived from board.json, so this is a safe operation.
func RebuildIndex(ctx context.Context, boardRoot string, b domain.Board) error {
	db, err := InitOrOpenIndex(boardRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS snapshots;",
		"DROP TRIGGER IF EXISTS elements_ai;",
		"DROP TRIGGER IF EXISTS elements_ad;",
		"DROP TRIGGER IF EXISTS elements_au;",
		"DROP TABLE IF EXISTS elements;",
		"DROP TABLE IF EXISTS fts_elements;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	return rebuildElementsFromBoard(ctx, db, b)
}

// rebuildElementsFromBoard replaces the elements table content from the given board manifest.
func rebuildElementsFromBoard(ctx context.Context, db *sql.DB, b domain.Board) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM elements;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear elements: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO elements(scene, ext_id, kind, x, y, width, height, rotation, text) VALUES(?,?,?,?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, sc := range b.Scenes {
		for _, e := range sc.Elements {
			var text sql.NullString
			if strings.TrimSpace(e.Text) != "" {
				text = sql.NullString{String: e.Text, Valid: true}
			}
			if _, err := ins.ExecContext(ctx, sc.Name, e.ID, string(e.Kind), e.X, e.Y, e.Width, e.Height, e.Rotation, text); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert element: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SceneElements loads the indexed elements of a scene, optionally restricted
// to those whose bounding box intersects the given window (both rects in
// world units). A nil window returns all elements of the scene. The result
// is the reference set handed to the snapping engine.
func SceneElements(ctx context.Context, db *sql.DB, scene string, window *domain.Element) ([]domain.Element, error) {
	q := `SELECT ext_id, kind, x, y, width, height, rotation, COALESCE(text, '') FROM elements WHERE scene = ?`
	args := []any{scene}
	if window != nil {
		q += ` AND x < ? AND x + width > ? AND y < ? AND y + height > ?`
		args = append(args,
			window.X+window.Width, window.X,
			window.Y+window.Height, window.Y)
	}
	q += ` ORDER BY el_id`
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query scene elements: %w", err)
	}
	defer rows.Close()
	var out []domain.Element
	for rows.Next() {
		var e domain.Element
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.X, &e.Y, &e.Width, &e.Height, &e.Rotation, &e.Text); err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		e.Kind = domain.ElementKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

// TextSearchResult is one FTS hit over text-element content.
type TextSearchResult struct {
	Scene     string
	ElementID string
	Text      string
}

// SearchText runs a full-text query over indexed text elements.
func SearchText(ctx context.Context, db *sql.DB, query string, limit int) ([]TextSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT e.scene, e.ext_id, e.text
		FROM fts_elements f JOIN elements e ON e.el_id = f.rowid
		WHERE fts_elements MATCH ? ORDER BY rank LIMIT ?`
	rows, err := db.QueryContext(ctx, q, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()
	var out []TextSearchResult
	for rows.Next() {
		var r TextSearchResult
		if err := rows.Scan(&r.Scene, &r.ElementID, &r.Text); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
