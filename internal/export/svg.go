/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gowhiteboard/internal/domain"
	"gowhiteboard/internal/snap"
	"gowhiteboard/internal/storage"
)

// SVGOptions controls SVG export behavior.
// The coordinate system matches the model (world units); a viewBox scales
// the scene into the pixel size derived from Scale.
//
//nolint:revive // clarity is preferred
type SVGOptions struct {
	// Guides, when non-empty, are drawn as an alignment overlay on top of
	// the scene: dashed lines, point markers, and gap-size labels.
	Guides     []snap.Guide
	GuideColor domain.Color
	// Scale multiplies world units into output pixels; <= 0 means 1.
	Scale  float64
	Scenes []string // scene names; empty means all
}

// ExportBoardSVGScenes exports each scene of a board as a separate SVG file.
// Files are named <scene>.svg under outDir or the board's exports folder.
func ExportBoardSVGScenes(bh *storage.BoardHandle, outDir string, opt SVGOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	// Resolve output directory
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(bh.Root, "exports", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	for _, sc := range sceneList(bh.Board, opt.Scenes) {
		buf, err := renderSceneSVG(sc, opt)
		if err != nil {
			return err
		}
		name := filepath.Join(outDir, fmt.Sprintf("%s.svg", safeFileName(sc.Name)))
		if err := os.WriteFile(name, buf, 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	return nil
}

func renderSceneSVG(sc domain.Scene, opt SVGOptions) ([]byte, error) {
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	guideCol := opt.GuideColor
	if guideCol == (domain.Color{}) {
		guideCol = domain.Color{R: 255, G: 0, B: 0, A: 255}
	}
	pxW := int(math.Round(sc.Width * scale))
	pxH := int(math.Round(sc.Height * scale))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n", pxW, pxH, sc.Width, sc.Height)
	// Background white
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", sc.Width, sc.Height)

	for _, el := range sc.Elements {
		writeElementSVG(wf, el)
	}

	gc := svgColor(guideCol)
	for _, g := range opt.Guides {
		writeGuideSVG(wf, g, gc)
	}

	wf("</svg>\n")
	if werr != nil {
		return nil, fmt.Errorf("build svg: %w", werr)
	}
	return buf.Bytes(), nil
}

func writeElementSVG(wf func(string, ...any), el domain.Element) {
	stroke := el.Style.Stroke
	if stroke.Width == 0 {
		stroke = domain.Stroke{Color: domain.Color{A: 255}, Width: 1}
	}
	sc := svgColor(stroke.Color)
	fill := "none"
	if el.Style.Fill.A > 0 {
		fill = svgColor(el.Style.Fill)
	}
	transform := ""
	if el.Rotation != 0 {
		deg := el.Rotation * 180 / math.Pi
		transform = fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", deg, el.X+el.Width/2, el.Y+el.Height/2)
	}
	switch el.Kind {
	case domain.KindEllipse:
		wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			el.X+el.Width/2, el.Y+el.Height/2, el.Width/2, el.Height/2, fill, sc, stroke.Width, transform)
	case domain.KindArrow:
		x2 := el.X + el.Width
		y2 := el.Y + el.Height
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			el.X, el.Y, x2, y2, sc, stroke.Width, transform)
		// arrowhead as two short strokes
		ang := math.Atan2(y2-el.Y, x2-el.X)
		head := 8.0
		for _, d := range []float64{ang + math.Pi - 0.4, ang + math.Pi + 0.4} {
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
				x2, y2, x2+head*math.Cos(d), y2+head*math.Sin(d), sc, stroke.Width, transform)
		}
	case domain.KindText:
		lines := wrapElementText(el)
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"14\" fill=\"%s\"%s>", el.X, el.Y+14, sc, transform)
		for i, ln := range lines {
			if i == 0 {
				wf("%s", escText(ln))
				continue
			}
			wf("<tspan x=\"%g\" dy=\"%g\">%s</tspan>", el.X, textLineStep, escText(ln))
		}
		wf("</text>\n")
	default: // rect
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			el.X, el.Y, el.Width, el.Height, fill, sc, stroke.Width, transform)
	}
}

func writeGuideSVG(wf func(string, ...any), g snap.Guide, color string) {
	wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"1\" stroke-dasharray=\"4 2\"/>\n",
		g.Start.X, g.Start.Y, g.End.X, g.End.Y, color)
	for _, m := range g.Markers {
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"2\" fill=\"%s\"/>\n", m.X, m.Y, color)
	}
	if g.HasLabel {
		mx := (g.Start.X + g.End.X) / 2
		my := (g.Start.Y + g.End.Y) / 2
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"10\" fill=\"%s\">%s</text>\n",
			mx, my-4, color, escText(formatGapLabel(g.Label)))
	}
}

// formatGapLabel renders a gap size without trailing zeros.
func formatGapLabel(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*100)/100)
}

func sceneList(b domain.Board, names []string) []domain.Scene {
	if len(names) == 0 {
		return b.Scenes
	}
	var out []domain.Scene
	for _, n := range names {
		for _, sc := range b.Scenes {
			if sc.Name == n {
				out = append(out, sc)
			}
		}
	}
	return out
}

func safeFileName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch ch {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			out = append(out, '-')
		default:
			out = append(out, ch)
		}
	}
	if len(out) == 0 {
		return "scene"
	}
	return string(out)
}

func svgColor(c domain.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
