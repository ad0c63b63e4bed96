/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(scene, ts, delta_blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, delta_blob FROM snapshots WHERE scene = ? ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, delta_blob FROM snapshots WHERE scene = ? ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE scene = ? AND id NOT IN (
	SELECT id FROM snapshots WHERE scene = ? ORDER BY ts DESC LIMIT ?
)`

// SceneSnapshot is one stored scene history record.
type SceneSnapshot struct {
	TS    time.Time
	Delta []byte
}

// SaveSnapshot persists a scene snapshot delta blob with a timestamp.
// It opens the board's index database if needed and inserts the record.
func SaveSnapshot(ctx context.Context, bh *BoardHandle, scene string, delta []byte, ts time.Time) error {
	if bh == nil {
		return errors.New("nil BoardHandle")
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, scene, ts.UTC().Format(time.RFC3339Nano), delta)
	return err
}

// GetLatestSnapshot returns the latest snapshot blob for a scene or nil if none.
func GetLatestSnapshot(ctx context.Context, bh *BoardHandle, scene string) ([]byte, time.Time, error) {
	if bh == nil {
		return nil, time.Time{}, errors.New("nil BoardHandle")
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var delta []byte
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL, scene).Scan(&tsStr, &delta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	ts, perr := time.Parse(time.RFC3339Nano, tsStr)
	if perr != nil {
		ts = time.Time{}
	}
	return delta, ts, nil
}

// ListSnapshots returns up to limit snapshots for a scene, newest first.
func ListSnapshots(ctx context.Context, bh *BoardHandle, scene string, limit int) ([]SceneSnapshot, error) {
	if bh == nil {
		return nil, errors.New("nil BoardHandle")
	}
	if limit <= 0 {
		limit = 20
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, scene, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SceneSnapshot
	for rows.Next() {
		var tsStr string
		var delta []byte
		if err := rows.Scan(&tsStr, &delta); err != nil {
			return nil, err
		}
		ts, perr := time.Parse(time.RFC3339Nano, tsStr)
		if perr != nil {
			ts = time.Time{}
		}
		out = append(out, SceneSnapshot{TS: ts, Delta: delta})
	}
	return out, rows.Err()
}

// PruneOldSnapshots keeps only the newest keepLast snapshots for a scene and
// returns the number of rows removed.
func PruneOldSnapshots(ctx context.Context, bh *BoardHandle, scene string, keepLast int) (int64, error) {
	if bh == nil {
		return 0, errors.New("nil BoardHandle")
	}
	if keepLast < 0 {
		keepLast = 0
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, scene, scene, keepLast)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
