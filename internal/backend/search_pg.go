/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gowhiteboard/internal/storage"
)

// SearchPG executes a full-text search over the Postgres board_elements table
// using tsvector and returns results mapped to storage.TextSearchResult to
// ease parity checks against the local SQLite index.
func SearchPG(ctx context.Context, db *sql.DB, boardID int64, query string, limit int) ([]storage.TextSearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT e.scene, e.ext_id, COALESCE(e.text, '')
		FROM board_elements e
		WHERE e.board_id = $1
		  AND e.search_vector @@ plainto_tsquery('simple', $2)
		ORDER BY ts_rank(e.search_vector, plainto_tsquery('simple', $2)) DESC, e.id
		LIMIT $3`, boardID, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search pg query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []storage.TextSearchResult
	for rows.Next() {
		var r storage.TextSearchResult
		if err := rows.Scan(&r.Scene, &r.ElementID, &r.Text); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
