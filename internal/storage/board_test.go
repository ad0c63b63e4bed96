package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gowhiteboard/internal/domain"
)

func testBoard(name string) domain.Board {
	return domain.Board{
		Name: name,
		Scenes: []domain.Scene{
			{Name: "Main", Width: 1600, Height: 900, Elements: []domain.Element{
				{ID: "e1", Kind: domain.KindRect, X: 10, Y: 10, Width: 100, Height: 60},
			}},
		},
	}
}

func TestInitBoardCreatesStructureAndManifest(t *testing.T) {
	root := t.TempDir()
	board := testBoard("Test Board")

	bh, err := InitBoard(root, board)
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}
	if bh == nil || bh.ManifestPath == "" {
		t.Fatalf("InitBoard returned incomplete handle: %+v", bh)
	}

	data, err := os.ReadFile(bh.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var got domain.Board
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if got.Name != board.Name {
		t.Fatalf("manifest name mismatch: got %q want %q", got.Name, board.Name)
	}

	for _, d := range []string{"assets", "exports", BackupsDirName} {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
}

func TestSaveRejectsInvalidBoard(t *testing.T) {
	root := t.TempDir()
	bh, err := InitBoard(root, testBoard("Valid"))
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}
	bh.Board.Scenes[0].Elements = append(bh.Board.Scenes[0].Elements,
		domain.Element{ID: "e1", Kind: domain.KindRect}) // duplicate id
	if err := Save(bh); err == nil {
		t.Fatalf("Save must reject a board with duplicate element ids")
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	bh, err := InitBoard(root, testBoard("Backup Test"))
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}

	// Change something and save again to force a backup
	bh.Board.Metadata.Notes = "changed"
	if err := Save(bh); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var bakCount int
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			bakCount++
		}
	}
	if bakCount == 0 {
		t.Fatalf("expected at least one backup file, found 0")
	}
}

func TestOpenFallsBackToLatestBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	board := testBoard("Open From Backup")
	bh, err := InitBoard(root, board)
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}

	// Force a backup to exist by saving
	bh.Board.Metadata.Notes = "touch"
	if err := Save(bh); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := os.WriteFile(bh.ManifestPath, []byte("{ this is not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}

	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if opened.Board.Name != board.Name {
		t.Fatalf("opened board name mismatch: got %q want %q", opened.Board.Name, board.Name)
	}
}

func TestSaveAsMovesHandleToNewRoot(t *testing.T) {
	root := t.TempDir()
	bh, err := InitBoard(root, testBoard("Move Me"))
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}
	newRoot := filepath.Join(t.TempDir(), "copy")
	if err := SaveAs(bh, newRoot); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	if bh.Root != newRoot {
		t.Fatalf("handle root not updated: %q", bh.Root)
	}
	if _, err := os.Stat(filepath.Join(newRoot, ManifestFileName)); err != nil {
		t.Fatalf("manifest missing at new root: %v", err)
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	board := testBoard("Crash Snapshot")
	bh, err := InitBoard(root, board)
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}

	path, err := AutosaveCrashSnapshot(bh)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file does not exist: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got domain.Board
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if got.Name != board.Name {
		t.Fatalf("snapshot content mismatch: got %q want %q", got.Name, board.Name)
	}
}
