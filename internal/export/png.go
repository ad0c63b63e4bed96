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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/snap"
	"gowhiteboard/internal/storage"
)

// PNGOptions controls PNG export behavior.
// - Scale: world units to pixels multiplier; <= 0 means 1
// - Guides: snap guide overlay drawn on top of the scene
// - Scenes: scene names to export; empty means all
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	Guides     []snap.Guide
	GuideColor domain.Color
	Scale      float64
	Scenes     []string
}

// ExportBoardPNGScenes exports each scene of a board as a separate PNG file.
// Files are named <scene>.png under outDir or the board's exports folder.
func ExportBoardPNGScenes(bh *storage.BoardHandle, outDir string, opt PNGOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	guideCol := opt.GuideColor
	if guideCol == (domain.Color{}) {
		guideCol = domain.Color{R: 255, G: 0, B: 0, A: 255}
	}

	// Resolve output directory
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(bh.Root, "exports", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	for _, sc := range sceneList(bh.Board, opt.Scenes) {
		pixW := int(math.Round(sc.Width * scale))
		pixH := int(math.Round(sc.Height * scale))
		if pixW < 1 || pixH < 1 {
			return fmt.Errorf("scene %q has no drawable area", sc.Name)
		}
		img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
		// Background white
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

		for _, el := range sc.Elements {
			drawElementPNG(img, el, scale)
		}

		gc := toRGBA(guideCol)
		for _, g := range opt.Guides {
			drawGuidePNG(img, g, scale, gc)
		}

		name := filepath.Join(outDir, fmt.Sprintf("%s.png", safeFileName(sc.Name)))
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("create png: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode png: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close png: %w", err)
		}
	}
	return nil
}

func drawElementPNG(img *image.RGBA, el domain.Element, scale float64) {
	stroke := el.Style.Stroke
	if stroke.Width == 0 {
		stroke = domain.Stroke{Color: domain.Color{A: 255}, Width: 1}
	}
	sc := toRGBA(stroke.Color)
	x0 := int(math.Round(el.X * scale))
	y0 := int(math.Round(el.Y * scale))
	x1 := int(math.Round((el.X + el.Width) * scale))
	y1 := int(math.Round((el.Y + el.Height) * scale))

	switch el.Kind {
	case domain.KindEllipse:
		strokeEllipse(img, x0, y0, x1, y1, sc)
	case domain.KindArrow:
		drawLine(img, x0, y0, x1, y1, sc)
	case domain.KindText:
		for i, ln := range wrapElementText(el) {
			drawLabel(img, x0, y0+12+int(math.Round(float64(i)*textLineStep*scale)), ln, sc)
		}
	default: // rect
		if el.Style.Fill.A > 0 {
			fillRect(img, x0, y0, x1-1, y1-1, toRGBA(el.Style.Fill))
		}
		strokeRect(img, x0, y0, x1-1, y1-1, sc)
	}
}

func drawGuidePNG(img *image.RGBA, g snap.Guide, scale float64, col color.RGBA) {
	x0 := int(math.Round(g.Start.X * scale))
	y0 := int(math.Round(g.Start.Y * scale))
	x1 := int(math.Round(g.End.X * scale))
	y1 := int(math.Round(g.End.Y * scale))
	drawLine(img, x0, y0, x1, y1, col)
	for _, m := range g.Markers {
		mx := int(math.Round(m.X * scale))
		my := int(math.Round(m.Y * scale))
		fillRect(img, mx-1, my-1, mx+1, my+1, col)
	}
	if g.HasLabel {
		lx := (x0 + x1) / 2
		ly := (y0+y1)/2 - 4
		drawLabel(img, lx, ly, formatGapLabel(g.Label), col)
	}
}

// drawLabel renders small deterministic text with the fixed 7x13 face.
func drawLabel(img *image.RGBA, x, y int, s string, col color.RGBA) {
	if s == "" {
		return
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawLine draws a 1px line using integer DDA; guide lines are axis
// aligned in practice but arrows can be diagonal.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.SetRGBA(x0, y0, col)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		img.SetRGBA(x, y, col)
	}
}

// strokeEllipse draws a midpoint approximation of the ellipse inscribed in
// the given box.
func strokeEllipse(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	rx := float64(x1-x0) / 2
	ry := float64(y1-y0) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	steps := int(2 * math.Pi * math.Max(rx, ry))
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		img.SetRGBA(int(math.Round(cx+rx*math.Cos(a))), int(math.Round(cy+ry*math.Sin(a))), col)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	// top and bottom
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	// left and right
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
