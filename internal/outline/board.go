/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package outline

import (
	"fmt"

	"gowhiteboard/internal/domain"
)

// Sticky-note layout constants for imported outlines, in world units.
const (
	noteWidth   = 220
	noteHeight  = 120
	noteMargin  = 40
	noteSpacing = 20
	notesPerRow = 4
)

// ToBoard converts a parsed outline into a board with one scene per outline
// scene. Each note becomes a sticky-note text element laid out left to right
// in rows; comments are dropped. Element IDs are "n1", "n2", ... per scene.
func ToBoard(o Outline, name string) domain.Board {
	b := domain.Board{Name: name}
	for _, sc := range o.Scenes {
		scene := domain.Scene{Name: sc.Title, Width: 1280, Height: 800}
		if scene.Name == "" {
			scene.Name = fmt.Sprintf("Scene %d", len(b.Scenes)+1)
		}
		n := 0
		for _, it := range sc.Items {
			if it.Type == ItemComment {
				continue
			}
			col := n % notesPerRow
			row := n / notesPerRow
			scene.Elements = append(scene.Elements, domain.Element{
				ID:     fmt.Sprintf("n%d", n+1),
				Kind:   domain.KindText,
				X:      float64(noteMargin + col*(noteWidth+noteSpacing)),
				Y:      float64(noteMargin + row*(noteHeight+noteSpacing)),
				Width:  noteWidth,
				Height: noteHeight,
				Text:   it.Text,
				Style: domain.Style{
					Fill:   domain.Color{R: 255, G: 249, B: 196, A: 255},
					Stroke: domain.Stroke{Color: domain.Color{R: 120, G: 110, B: 60, A: 255}, Width: 1},
				},
			})
			n++
		}
		b.Scenes = append(b.Scenes, scene)
	}
	if len(b.Scenes) == 0 {
		b.Scenes = []domain.Scene{{Name: "Main", Width: 1280, Height: 800}}
	}
	return b
}
