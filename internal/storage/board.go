/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gowhiteboard/internal/domain"
)

const (
	ManifestFileName = "board.json"
	BackupsDirName   = "backups"
)

// Standard subfolders of a board directory.
var standardSubDirs = []string{
	"assets",
	"exports",
	BackupsDirName,
}

// BoardHandle keeps track of the board state loaded/saved from disk.
// Root is the board directory containing board.json and subfolders.
// Board holds the in-memory representation of the manifest.
type BoardHandle struct {
	Root         string
	ManifestPath string
	Board        domain.Board
}

// InitBoard creates a new board directory at root (creating it if it doesn't exist),
// scaffolds the standard subfolders, and writes the given manifest file transactionally.
func InitBoard(root string, b domain.Board) (*BoardHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create board root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	bh := &BoardHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Board:        b,
	}
	if err := Save(bh); err != nil {
		return nil, err
	}
	return bh, nil
}

// Open loads an existing board from the given root directory.
// If the current manifest cannot be read or parsed, it will attempt the last backup.
func Open(root string) (*BoardHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	data, err := os.ReadFile(mpath)
	if err != nil {
		b, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return &BoardHandle{Root: root, ManifestPath: mpath, Board: *b}, nil
	}
	var b domain.Board
	if uerr := json.Unmarshal(data, &b); uerr != nil {
		bb, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", uerr, berr)
		}
		return &BoardHandle{Root: root, ManifestPath: mpath, Board: *bb}, nil
	}
	return &BoardHandle{Root: root, ManifestPath: mpath, Board: b}, nil
}

// Save writes the current BoardHandle.Board to disk with transactional semantics
// and a timestamped backup of the previous manifest (if present).
func Save(bh *BoardHandle) error {
	if bh == nil {
		return errors.New("nil BoardHandle")
	}
	if bh.Root == "" || bh.ManifestPath == "" {
		return errors.New("invalid BoardHandle: missing paths")
	}
	if err := bh.Board.Validate(); err != nil {
		return fmt.Errorf("validate board: %w", err)
	}
	// Marshal in human-readable form
	data, err := json.MarshalIndent(bh.Board, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(bh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current manifest exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(bh.ManifestPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp)
		if cerr := copyFile(bh.ManifestPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(bh.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(bh.ManifestPath); err == nil {
		_ = os.Remove(bh.ManifestPath)
	}
	if rerr := os.Rename(temp, bh.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	return nil
}

// SaveAs writes the manifest to a new root folder, scaffolding structure if needed, and updates the handle.
func SaveAs(bh *BoardHandle, newRoot string) error {
	if bh == nil {
		return errors.New("nil BoardHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	bh.Root = newRoot
	bh.ManifestPath = filepath.Join(newRoot, ManifestFileName)
	return Save(bh)
}

// AutosaveCrashSnapshot writes the in-memory board to a timestamped autosave
// file in the backups directory without touching the current manifest. It is
// used by the crash handler, so it avoids validation and keeps going on a
// best-effort basis.
func AutosaveCrashSnapshot(bh *BoardHandle) (string, error) {
	if bh == nil {
		return "", errors.New("nil BoardHandle")
	}
	bdir := filepath.Join(bh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	data, err := json.MarshalIndent(bh.Board, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal autosave: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("%s.autosave-%s.json", ManifestFileName, stamp))
	if err := writeFileSync(path, append(data, '\n')); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file and ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Board, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	data, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var b domain.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &b, nil
}
