package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gowhiteboard/internal/domain"
)

func indexTestBoard() domain.Board {
	return domain.Board{
		Name: "IndexTest",
		Scenes: []domain.Scene{
			{Name: "Main", Width: 1600, Height: 900, Elements: []domain.Element{
				{ID: "r1", Kind: domain.KindRect, X: 0, Y: 0, Width: 100, Height: 50},
				{ID: "r2", Kind: domain.KindRect, X: 400, Y: 400, Width: 100, Height: 50, Rotation: 0.3},
				{ID: "t1", Kind: domain.KindText, X: 10, Y: 200, Width: 120, Height: 30, Text: "meeting agenda"},
				{ID: "t2", Kind: domain.KindText, X: 10, Y: 260, Width: 120, Height: 30, Text: "retro notes"},
			}},
			{Name: "Side", Elements: []domain.Element{
				{ID: "s1", Kind: domain.KindEllipse, X: 5, Y: 5, Width: 40, Height: 40},
			}},
		},
	}
}

func TestInitOrOpenIndexCreatesSchema(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}
	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema = %d, want %d", schema, schemaVersion)
	}
	if _, err := db.Exec(`SELECT 1 FROM elements LIMIT 1`); err != nil {
		t.Fatalf("elements table missing: %v", err)
	}
}

func TestBuildIndexIfEmptyPopulatesOnce(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	board := indexTestBoard()

	if err := BuildIndexIfEmpty(ctx, root, board); err != nil {
		t.Fatalf("BuildIndexIfEmpty error: %v", err)
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	var cnt int
	if err := db.QueryRow(`SELECT COUNT(*) FROM elements`).Scan(&cnt); err != nil {
		t.Fatalf("count elements: %v", err)
	}
	db.Close()
	if cnt != 5 {
		t.Fatalf("element rows = %d, want 5", cnt)
	}

	// A second call on a populated index must not duplicate rows.
	if err := BuildIndexIfEmpty(ctx, root, board); err != nil {
		t.Fatalf("second BuildIndexIfEmpty error: %v", err)
	}
	db, err = InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("reopen index: %v", err)
	}
	defer db.Close()
	if err := db.QueryRow(`SELECT COUNT(*) FROM elements`).Scan(&cnt); err != nil {
		t.Fatalf("recount elements: %v", err)
	}
	if cnt != 5 {
		t.Fatalf("element rows after second build = %d, want 5", cnt)
	}
}

func TestSceneElementsWindowQuery(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	if err := UpdateIndex(ctx, root, indexTestBoard()); err != nil {
		t.Fatalf("UpdateIndex error: %v", err)
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()

	all, err := SceneElements(ctx, db, "Main", nil)
	if err != nil {
		t.Fatalf("SceneElements error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Main has %d elements, want 4", len(all))
	}
	if all[1].Rotation != 0.3 {
		t.Fatalf("rotation not stored: %+v", all[1])
	}

	// Window covering only the top-left corner excludes r2.
	window := &domain.Element{X: -10, Y: -10, Width: 300, Height: 320}
	near, err := SceneElements(ctx, db, "Main", window)
	if err != nil {
		t.Fatalf("windowed SceneElements error: %v", err)
	}
	if len(near) != 3 {
		t.Fatalf("windowed query returned %d elements, want 3: %+v", len(near), near)
	}
	for _, e := range near {
		if e.ID == "r2" {
			t.Fatalf("r2 lies outside the window and must be excluded")
		}
	}
}

func TestSearchTextFindsTextElements(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	if err := UpdateIndex(ctx, root, indexTestBoard()); err != nil {
		t.Fatalf("UpdateIndex error: %v", err)
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()

	hits, err := SearchText(ctx, db, "agenda", 10)
	if err != nil {
		t.Fatalf("SearchText error: %v", err)
	}
	if len(hits) != 1 || hits[0].ElementID != "t1" || hits[0].Scene != "Main" {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	if hits, err := SearchText(ctx, db, "", 10); err != nil || hits != nil {
		t.Fatalf("empty query must return nothing, got %v, %v", hits, err)
	}
}

func TestUpdateIndexReplacesRows(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	board := indexTestBoard()
	if err := UpdateIndex(ctx, root, board); err != nil {
		t.Fatalf("UpdateIndex error: %v", err)
	}
	// Drop a scene and update again
	board.Scenes = board.Scenes[:1]
	if err := UpdateIndex(ctx, root, board); err != nil {
		t.Fatalf("second UpdateIndex error: %v", err)
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()
	side, err := SceneElements(ctx, db, "Side", nil)
	if err != nil {
		t.Fatalf("SceneElements error: %v", err)
	}
	if len(side) != 0 {
		t.Fatalf("removed scene still indexed: %+v", side)
	}
}

func TestDetectAndRebuildIndex_OnCorruption(t *testing.T) {
	root := t.TempDir()
	board := indexTestBoard()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := UpdateIndex(ctx, root, board); err != nil {
		t.Fatalf("UpdateIndex error: %v", err)
	}

	// Corrupt the DB file by writing junk
	idx := IndexPath(root)
	if err := os.WriteFile(idx, []byte("THIS IS NOT SQLITE"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	rebuilt, err := DetectAndRebuildIndex(ctx, root, board)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if !rebuilt {
		t.Fatalf("expected rebuild to occur")
	}
	st, err := os.Stat(IndexPath(root))
	if err != nil || st.Size() == 0 {
		t.Fatalf("rebuilt index missing or empty: %v", err)
	}
	// Backup file should exist
	bdir := filepath.Join(root, IndexDirName, "backups")
	entries, _ := os.ReadDir(bdir)
	if len(entries) == 0 {
		t.Fatalf("expected backup file in %s", bdir)
	}
}

func TestSceneSnapshotsRoundTripAndPrune(t *testing.T) {
	root := t.TempDir()
	bh, err := InitBoard(root, testBoard("Snapshots"))
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 5; i++ {
		delta := []byte{byte('a' + i)}
		if err := SaveSnapshot(ctx, bh, "Main", delta, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
	}

	delta, ts, err := GetLatestSnapshot(ctx, bh, "Main")
	if err != nil {
		t.Fatalf("GetLatestSnapshot: %v", err)
	}
	if string(delta) != "e" || !ts.Equal(base.Add(4*time.Minute)) {
		t.Fatalf("latest snapshot = %q at %v", delta, ts)
	}

	list, err := ListSnapshots(ctx, bh, "Main", 3)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(list) != 3 || string(list[0].Delta) != "e" || string(list[2].Delta) != "c" {
		t.Fatalf("unexpected snapshot list: %+v", list)
	}

	removed, err := PruneOldSnapshots(ctx, bh, "Main", 2)
	if err != nil {
		t.Fatalf("PruneOldSnapshots: %v", err)
	}
	if removed != 3 {
		t.Fatalf("pruned %d rows, want 3", removed)
	}
	if delta, _, err := GetLatestSnapshot(ctx, bh, "Other"); err != nil || delta != nil {
		t.Fatalf("unknown scene must have no snapshots: %v, %v", delta, err)
	}
}
