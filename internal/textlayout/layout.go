/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement and line breaking for board text elements (notes, labels,
// headings). Everything is kept behind deterministic interfaces so exporters
// and the canvas agree on where lines break, regardless of render backend.

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePt float32
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float32
}

// Span is a run of text sharing a font and spacing parameters.
// Tracking is extra px per inter-glyph gap; Leading is extra px of line height.
type Span struct {
	Text     string
	Font     FontSpec
	Tracking float32
	Leading  float32
}

// Line is a single laid out line with width and ascent/descent.
type Line struct {
	Spans   []Span
	Width   float32
	Ascent  float32
	Descent float32
}

// TextBox is the result of laying out text into a box width.
type TextBox struct {
	Lines   []Line
	Width   float32
	Height  float32
	Metrics Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Layouter performs line-breaking and measurement.
type Layouter interface {
	Layout(spans []Span, maxWidth float32) (TextBox, error)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(m.Descent.Round()),
		LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// WordWrapLayouter breaks on spaces and newlines; it does not perform shaping
// or hyphenation. Exact enough for note bodies on the canvas and in exports.
type WordWrapLayouter struct{ Provider Provider }

func NewWordWrap(provider Provider) *WordWrapLayouter { return &WordWrapLayouter{Provider: provider} }

func (l *WordWrapLayouter) Layout(spans []Span, maxWidth float32) (TextBox, error) {
	if l.Provider == nil {
		l.Provider = BasicProvider{}
	}
	// Metrics aggregate over a single face per box; mixed-face boxes take the
	// first span's metrics, which is fine for note-sized content.
	face, met := l.Provider.Resolve(FontSpec{})
	drawer := &font.Drawer{Face: face}
	var leading float32
	if len(spans) > 0 {
		leading = spans[0].Leading
	}
	cur := Line{Ascent: met.Ascent, Descent: met.Descent}
	box := TextBox{Metrics: met}
	addLine := func() {
		box.Lines = append(box.Lines, cur)
		if cur.Width > box.Width {
			box.Width = cur.Width
		}
		box.Height += met.Ascent + met.Descent + met.LineGap + leading
		cur = Line{Ascent: met.Ascent, Descent: met.Descent}
	}
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		start := 0
		for i := 0; i <= len(sp.Text); i++ {
			if i == len(sp.Text) || sp.Text[i] == ' ' || sp.Text[i] == '\n' { // word boundary
				word := sp.Text[start:i]
				space := byte(0)
				if i < len(sp.Text) {
					space = sp.Text[i]
				}
				w := spanWidth(drawer, word, sp.Tracking)
				// a word that alone exceeds maxWidth still gets its own line
				if cur.Width > 0 && cur.Width+w > maxWidth && maxWidth > 0 {
					addLine()
				}
				if word != "" {
					cur.Spans = append(cur.Spans, Span{Text: word, Font: sp.Font, Tracking: sp.Tracking, Leading: sp.Leading})
					cur.Width += w
				}
				if space == ' ' {
					ws := advance(drawer, " ")
					cur.Spans = append(cur.Spans, Span{Text: " ", Font: sp.Font, Tracking: sp.Tracking, Leading: sp.Leading})
					cur.Width += ws
				} else if space == '\n' {
					addLine()
				}
				start = i + 1
			}
		}
	}
	// flush last line
	if len(cur.Spans) > 0 || len(box.Lines) == 0 {
		addLine()
	}
	return box, nil
}

func advance(d *font.Drawer, s string) float32 {
	return float32(d.MeasureString(s) >> 6) // fixed.Int26_6 to px
}

// spanWidth is the advance of s plus tracking for each inter-glyph gap.
func spanWidth(d *font.Drawer, s string, tracking float32) float32 {
	w := advance(d, s)
	if n := len([]rune(s)); n > 1 && tracking != 0 {
		w += tracking * float32(n-1)
	}
	return w
}

// Measure provides a quick way to measure text width/height without line-breaks.
func Measure(provider Provider, spans []Span) (w, h float32) {
	if provider == nil {
		provider = BasicProvider{}
	}
	_, met := provider.Resolve(FontSpec{})
	var width float32
	var face font.Face
	for _, sp := range spans {
		face, _ = provider.Resolve(sp.Font)
		d := &font.Drawer{Face: face}
		width += spanWidth(d, sp.Text, sp.Tracking)
	}
	lineH := met.Ascent + met.Descent
	return width, lineH
}

// WrapString lays out plain text in the named style into maxWidth and returns
// the broken lines as strings. Convenience for exporters that only need line
// boundaries, not span geometry.
func WrapString(provider Provider, style TextStyle, text string, maxWidth float32) []string {
	wrapper := NewWordWrap(provider)
	box, err := wrapper.Layout([]Span{{Text: text, Font: style.Font, Tracking: style.Tracking, Leading: style.Leading}}, maxWidth)
	if err != nil {
		return []string{text}
	}
	out := make([]string, 0, len(box.Lines))
	for _, ln := range box.Lines {
		var s string
		for _, sp := range ln.Spans {
			s += sp.Text
		}
		// trailing spaces carry no meaning once the break is decided
		for len(s) > 0 && s[len(s)-1] == ' ' {
			s = s[:len(s)-1]
		}
		out = append(out, s)
	}
	return out
}
