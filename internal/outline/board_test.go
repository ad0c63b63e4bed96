/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package outline

import (
	"testing"

	"gowhiteboard/internal/domain"
)

func TestToBoard_LayoutAndComments(t *testing.T) {
	o := Outline{Scenes: []SceneOutline{{
		Title: "Planning",
		Items: []Item{
			{Type: ItemNote, Text: "one"},
			{Type: ItemComment, Text: "skip me"},
			{Type: ItemNote, Text: "two"},
			{Type: ItemNote, Text: "three"},
			{Type: ItemNote, Text: "four"},
			{Type: ItemNote, Text: "five"},
		},
	}}}
	b := ToBoard(o, "Weekly")
	if b.Name != "Weekly" || len(b.Scenes) != 1 {
		t.Fatalf("unexpected board shape: %+v", b)
	}
	sc := b.Scenes[0]
	if sc.Name != "Planning" {
		t.Fatalf("unexpected scene name: %q", sc.Name)
	}
	// Comment dropped, five notes remain
	if len(sc.Elements) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(sc.Elements))
	}
	if sc.Elements[0].ID != "n1" || sc.Elements[0].Kind != domain.KindText {
		t.Fatalf("unexpected first element: %+v", sc.Elements[0])
	}
	// First row is filled left to right, fifth note wraps to the second row
	if sc.Elements[1].X <= sc.Elements[0].X || sc.Elements[1].Y != sc.Elements[0].Y {
		t.Fatalf("expected second note right of the first: %+v vs %+v", sc.Elements[1], sc.Elements[0])
	}
	if sc.Elements[4].X != sc.Elements[0].X || sc.Elements[4].Y <= sc.Elements[0].Y {
		t.Fatalf("expected fifth note to wrap to a new row: %+v", sc.Elements[4])
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("imported board should validate: %v", err)
	}
}

func TestToBoard_EmptyOutlineGetsDefaultScene(t *testing.T) {
	b := ToBoard(Outline{}, "Empty")
	if len(b.Scenes) != 1 || b.Scenes[0].Name != "Main" {
		t.Fatalf("expected a default Main scene, got %+v", b.Scenes)
	}
}
