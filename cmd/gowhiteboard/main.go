/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gowhiteboard/internal/assetpack"
	"gowhiteboard/internal/backend"
	"gowhiteboard/internal/crash"
	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/export"
	applog "gowhiteboard/internal/log"
	"gowhiteboard/internal/outline"
	"gowhiteboard/internal/storage"
	"gowhiteboard/internal/ui"
	"gowhiteboard/internal/version"
)

func usage() {
	fmt.Println("Go Whiteboard — collaborative scene editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gowhiteboard version|-v|--version           Show version")
	fmt.Println("  gowhiteboard init <dir> <name>              Create a new board at <dir> with name <name>")
	fmt.Println("  gowhiteboard open <dir>                     Open board at <dir> and print summary")
	fmt.Println("  gowhiteboard save <dir>                     Save board at <dir> (creates backup)")
	fmt.Println("  gowhiteboard import <outline.txt> <dir> <name>  Create a board from a plain-text outline")
	fmt.Println("  gowhiteboard index <dir>                    Rebuild the board's search index")
	fmt.Println("  gowhiteboard search <dir> <query>           Full-text search over board text elements")
	fmt.Println("  gowhiteboard export <dir> <svg|png|pdf|web|print>  Export scenes into the board's exports folder")
	fmt.Println("  gowhiteboard assets export <dir> <zip>      Zip the board's assets directory")
	fmt.Println("  gowhiteboard assets install <dir> <zip>     Install an asset pack into the board")
	fmt.Println("  gowhiteboard serve                          Run the sharing backend (Postgres)")
	fmt.Println("  gowhiteboard ui [<dir>]                     Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var bh *storage.BoardHandle
	defer func() { crash.Recover(bh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Go Whiteboard — collaborative scene editor")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init board", slog.String("root", abs), slog.String("name", name))
			b := domain.Board{Name: name, Scenes: []domain.Scene{{Name: "Main", Width: 1280, Height: 800}}}
			h, err := storage.InitBoard(abs, b)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			fmt.Println("Created board at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(args[2], l)
			bh = h
			fmt.Printf("Opened board: %s\n", h.Board.Name)
			fmt.Printf("Scenes: %d\n", len(h.Board.Scenes))
			for _, sc := range h.Board.Scenes {
				fmt.Printf("  %s (%gx%g, %d elements)\n", sc.Name, sc.Width, sc.Height, len(sc.Elements))
			}
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(args[2], l)
			bh = h
			// Touch metadata to ensure changed content for demo purposes
			h.Board.Metadata.Notes = fmt.Sprintf("Saved at %s", time.Now().Format(time.RFC3339))
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved board and created a backup of previous manifest (if any).")
			return
		case "import":
			if len(args) < 5 {
				fmt.Println("import requires <outline.txt>, <dir> and <name>")
				usage()
				os.Exit(2)
			}
			src, dir, name := args[2], args[3], args[4]
			data, err := os.ReadFile(src)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			o, perrs := outline.Parse(string(data))
			for _, pe := range perrs {
				fmt.Printf("warning: line %d: %s\n", pe.Line, pe.Message)
			}
			abs, _ := filepath.Abs(dir)
			b := outline.ToBoard(o, name)
			h, err := storage.InitBoard(abs, b)
			if err != nil {
				l.Error("import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			total := 0
			for _, sc := range b.Scenes {
				total += len(sc.Elements)
			}
			fmt.Printf("Imported %d scene(s), %d note(s) into %s\n", len(b.Scenes), total, abs)
			return
		case "index":
			if len(args) < 3 {
				fmt.Println("index requires <dir>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(args[2], l)
			bh = h
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := storage.RebuildIndex(ctx, h.Root, h.Board); err != nil {
				l.Error("index rebuild failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Rebuilt search index at", storage.IndexPath(h.Root))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			h := mustOpen(args[2], l)
			bh = h
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			db, err := storage.InitOrOpenIndex(h.Root)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			defer db.Close()
			if err := storage.BuildIndexIfEmpty(ctx, h.Root, h.Board); err != nil {
				l.Warn("index build failed", slog.Any("err", err))
			}
			results, err := storage.SearchText(ctx, db, args[3], 50)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range results {
				fmt.Printf("%s/%s: %s\n", r.Scene, r.ElementID, r.Text)
			}
			fmt.Printf("%d result(s)\n", len(results))
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and a format (svg|png|pdf|web|print)")
				usage()
				os.Exit(2)
			}
			h := mustOpen(args[2], l)
			bh = h
			if err := runExport(h, args[3]); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported to", filepath.Join(h.Root, "exports"))
			return
		case "assets":
			if len(args) < 5 {
				fmt.Println("assets requires a subcommand (export|install), <dir> and <zip>")
				usage()
				os.Exit(2)
			}
			dir, zipPath := args[3], args[4]
			abs, _ := filepath.Abs(dir)
			switch args[2] {
			case "export":
				if err := assetpack.ExportBoardAssets(abs, zipPath); err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Println("Exported asset pack to", zipPath)
			case "install":
				n, err := assetpack.InstallPack(abs, zipPath)
				if err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Printf("Installed %d file(s)\n", n)
			default:
				fmt.Println("unknown assets subcommand:", args[2])
				usage()
				os.Exit(2)
			}
			return
		case "serve":
			l.Info("starting sharing backend")
			if err := backend.Start(); err != nil {
				l.Error("backend failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func mustOpen(dir string, l *slog.Logger) *storage.BoardHandle {
	abs, _ := filepath.Abs(dir)
	l.Info("open board", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}

func runExport(h *storage.BoardHandle, format string) error {
	switch format {
	case "svg":
		return export.ExportBoardSVGScenes(h, "svg", export.SVGOptions{})
	case "png":
		return export.ExportBoardPNGScenes(h, "png", export.PNGOptions{Scale: 2})
	case "pdf":
		return export.ExportBoardPDF(h, filepath.Join("pdf", "board.pdf"), export.PDFOptions{})
	case "web":
		return export.BatchExport(h, export.BatchOptions{Preset: export.PresetWeb})
	case "print":
		return export.BatchExport(h, export.BatchOptions{Preset: export.PresetPrint})
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
