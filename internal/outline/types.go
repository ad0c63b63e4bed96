/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package outline

// Outline represents a parsed plain-text board outline with scenes and items.
// The format is markdown-ish: headings open scenes, bullets become notes.

type Outline struct {
	Scenes []SceneOutline
}

type SceneOutline struct {
	Title string
	Items []Item
}

// ItemType indicates the kind of an outline item.
// Note:    "- text" or "* text" bullets; these become sticky-note text elements
// Comment: lines starting with ";" are author comments and never reach the board
// Unknown: anything else is kept as a note so no content is silently dropped

type ItemType int

const (
	ItemUnknown ItemType = iota
	ItemNote
	ItemComment
)

// Item captures a single logical item (possibly with indented continuations)
// in a scene. Tags are "@tag-name" markers extracted from the text.

type Item struct {
	Type   ItemType
	Text   string
	Tags   []string
	LineNo int // 1-based starting line number in the source
}

// Error represents a parse error with position context.

type Error struct {
	Line    int
	Column  int
	Message string
}
