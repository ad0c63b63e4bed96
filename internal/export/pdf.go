/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/storage"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt); scene coordinates map 1:1 onto the page.
// Vector text uses built-in Helvetica for portability; font embedding can
// be added later with TTFs.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	Scenes []string // scene names; empty means all
}

// ExportBoardPDF exports the board to a single PDF at outPath, one page
// per scene.
func ExportBoardPDF(bh *storage.BoardHandle, outPath string, opt PDFOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	scenes := sceneList(bh.Board, opt.Scenes)
	if len(scenes) == 0 {
		return fmt.Errorf("board has no scenes to export")
	}

	first := scenes[0]
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
		// We'll set orientation automatically by size
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Board PDF", bh.Board.Name), false)
	pdf.SetAuthor("Go Whiteboard", false)

	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", 12)

	for _, sc := range scenes {
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: sc.Width, Ht: sc.Height})
		for _, el := range sc.Elements {
			drawElementPDF(pdf, el)
		}
	}

	// Ensure output path is under board exports folder if relative
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(bh.Root, "exports", outPath)
	}
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawElementPDF(pdf *gofpdf.Fpdf, el domain.Element) {
	stroke := el.Style.Stroke
	if stroke.Width == 0 {
		stroke = domain.Stroke{Color: domain.Color{A: 255}, Width: 1}
	}
	setDrawColor(pdf, stroke.Color)
	pdf.SetLineWidth(stroke.Width)

	style := "D"
	if el.Style.Fill.A > 0 {
		setFillColor(pdf, el.Style.Fill)
		style = "FD"
	}

	switch el.Kind {
	case domain.KindEllipse:
		pdf.Ellipse(el.X+el.Width/2, el.Y+el.Height/2, el.Width/2, el.Height/2, 0, style)
	case domain.KindArrow:
		pdf.Line(el.X, el.Y, el.X+el.Width, el.Y+el.Height)
	case domain.KindText:
		pdf.SetFont("Helvetica", "", 12)
		setTextColor(pdf, stroke.Color)
		for i, ln := range wrapElementText(el) {
			pdf.Text(el.X, el.Y+12+float64(i)*textLineStep, ln)
		}
	default: // rect
		pdf.Rect(el.X, el.Y, el.Width, el.Height, style)
	}
}

func setDrawColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
