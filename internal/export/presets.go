/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"gowhiteboard/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats/scenes.
//
// Path semantics:
//   - If OutDir is empty or relative, it will be created under <board>/exports/<preset>/.
//   - For PDF a single-file output named board.pdf is placed in OutDir.
//   - For PNG/SVG per-scene outputs, files are <scene>.(png|svg) in subfolders png/ or svg/ inside OutDir.
//     This keeps assets grouped by preset and format.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset        PresetName
	Formats       []string // allowed: pdf, png, svg; empty means preset defaults
	Scenes        []string // scene names; empty means all scenes
	ScaleOverride float64  // when > 0 overrides raster/vector scale where applicable
	OutDir        string   // base directory for outputs (created per preset if relative)
}

// BatchExport runs exports according to the given preset.
func BatchExport(bh *storage.BoardHandle, opt BatchOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	if len(bh.Board.Scenes) == 0 {
		return fmt.Errorf("board has no scenes")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	// normalize format strings
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	// Resolve output base directory
	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(bh.Root, "exports", baseOut)
	}

	for _, f := range formats {
		switch f {
		case "pdf":
			out := filepath.Join(baseOut, "pdf", "board.pdf")
			if err := ExportBoardPDF(bh, out, PDFOptions{Scenes: opt.Scenes}); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		case "png":
			outDir := filepath.Join(baseOut, "png")
			po := PNGOptions{Scenes: opt.Scenes}
			if opt.ScaleOverride > 0 {
				po.Scale = opt.ScaleOverride
			}
			if err := ExportBoardPNGScenes(bh, outDir, po); err != nil {
				return fmt.Errorf("png: %w", err)
			}
		case "svg":
			outDir := filepath.Join(baseOut, "svg")
			so := SVGOptions{Scenes: opt.Scenes}
			if opt.ScaleOverride > 0 {
				so.Scale = opt.ScaleOverride
			}
			if err := ExportBoardSVGScenes(bh, outDir, so); err != nil {
				return fmt.Errorf("svg: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}
