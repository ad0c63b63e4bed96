/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package assetpack

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestInstallPack_ZipSlipAndSkipExisting(t *testing.T) {
	// Build a zip with a malicious entry and a good entry
	board := t.TempDir()
	zpath := filepath.Join(board, "pack.zip")
	f, err := os.Create(zpath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	// Malicious entry
	w, err := zw.Create("../evil.txt")
	if err != nil {
		t.Fatalf("create malicious zip entry: %v", err)
	}
	if _, err := w.Write([]byte("nope")); err != nil {
		t.Fatalf("write malicious entry: %v", err)
	}
	// Good entry under assets/
	w2, err := zw.Create("assets/good.txt")
	if err != nil {
		t.Fatalf("create good zip entry: %v", err)
	}
	if _, err := w2.Write([]byte("ok")); err != nil {
		t.Fatalf("write good entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close zip file: %v", err)
	}

	// Pre-create an existing file to test skip-existing
	target := filepath.Join(board, "assets", "good.txt")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir assets dir: %v", err)
	}
	if err := os.WriteFile(target, []byte("existing"), 0o644); err != nil {
		t.Fatalf("precreate file: %v", err)
	}

	installed, err := InstallPack(board, zpath)
	if err != nil {
		t.Fatalf("install pack: %v", err)
	}
	// Should skip existing file, and malicious should be ignored => nothing installed
	if installed != 0 {
		t.Fatalf("expected 0 installed due to skip+malicious, got %d", installed)
	}
	// Ensure no evil file was written outside assets
	if _, err := os.Stat(filepath.Join(board, "evil.txt")); err == nil {
		t.Fatalf("evil.txt should not exist")
	}
}

func TestInstallPack_PrefixesLooseEntriesAndSkipsDirHeaders(t *testing.T) {
	board := t.TempDir()
	zpath := filepath.Join(board, "pack2.zip")
	f, err := os.Create(zpath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)

	// Directory entry
	dh := &zip.FileHeader{Name: "assets/subdir/"}
	dh.SetMode(os.ModeDir | 0o755)
	if _, err := zw.CreateHeader(dh); err != nil {
		t.Fatalf("create dir header: %v", err)
	}

	// Loose entry should be prefixed by the installer under assets/
	w, _ := zw.Create("stickers/star.png")
	_, _ = w.Write([]byte("content"))

	_ = zw.Close()
	_ = f.Close()

	installed, err := InstallPack(board, zpath)
	if err != nil {
		t.Fatalf("install pack: %v", err)
	}
	if installed != 1 { // only the file counts, directory entry doesn't
		t.Fatalf("expected installed=1, got %d", installed)
	}
	if _, err := os.Stat(filepath.Join(board, "assets", "stickers", "star.png")); err != nil {
		t.Fatalf("expected installed file under assets/stickers: %v", err)
	}
}
