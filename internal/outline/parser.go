/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package outline

import (
	"bufio"
	"regexp"
	"strings"
)

// Parse parses a plain-text outline into a structured Outline.
// Supported syntax (minimal):
// - Scene headings:
//   - Lines starting with "#" or "Scene:" introduce a new scene. The rest of the line is the title.
//
// - Notes: "- text" or "* text" bullets.
//   - Continuation lines indented by 2+ spaces are appended to the previous note.
//
// - Comments: lines starting with ';' are ItemComment and never reach the board.
// - Tags: "@tag-name" markers anywhere in a note are collected into Item.Tags.
// Blank lines are separators and close any open continuation.
func Parse(input string) (Outline, []Error) {
	o := Outline{Scenes: []SceneOutline{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	currentScene := SceneOutline{}
	var lastItem *Item

	// Patterns
	reScene := regexp.MustCompile(`^(#+)\s*(.*)$`)
	reSceneAlt := regexp.MustCompile(`^(?i)\s*Scene:\s*(.+)$`)
	reBullet := regexp.MustCompile(`^[-*]\s+(.*)$`)
	reTag := regexp.MustCompile(`(?i)@([a-z0-9_\-]+)`) // tags like @tag-name

	extractTags := func(s string) []string {
		found := reTag.FindAllStringSubmatch(s, -1)
		if len(found) == 0 {
			return nil
		}
		m := map[string]struct{}{}
		for _, f := range found {
			if len(f) > 1 {
				t := strings.ToLower(strings.TrimSpace(f[1]))
				if t != "" {
					m[t] = struct{}{}
				}
			}
		}
		if len(m) == 0 {
			return nil
		}
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		return out
	}

	mergeTags := func(it *Item, tags []string) {
		if len(tags) == 0 {
			return
		}
		m := map[string]struct{}{}
		for _, t := range it.Tags {
			m[t] = struct{}{}
		}
		for _, t := range tags {
			m[t] = struct{}{}
		}
		merged := make([]string, 0, len(m))
		for k := range m {
			merged = append(merged, k)
		}
		it.Tags = merged
	}

	flushScene := func() {
		if strings.TrimSpace(currentScene.Title) != "" || len(currentScene.Items) > 0 {
			o.Scenes = append(o.Scenes, currentScene)
		}
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimRight(raw, "\r\n")

		// Continuation line (indented) -> append to the previous note
		if strings.HasPrefix(line, "  ") && lastItem != nil && lastItem.Type == ItemNote {
			cont := strings.TrimSpace(line)
			if cont != "" {
				lastItem.Text += "\n" + cont
				mergeTags(lastItem, extractTags(cont))
			}
			continue
		}

		trim := strings.TrimSpace(line)
		if trim == "" {
			lastItem = nil
			continue
		}

		// Scene heading
		if m := reScene.FindStringSubmatch(trim); m != nil {
			flushScene()
			currentScene = SceneOutline{Title: strings.TrimSpace(m[2])}
			lastItem = nil
			continue
		}
		if m := reSceneAlt.FindStringSubmatch(trim); m != nil {
			flushScene()
			currentScene = SceneOutline{Title: strings.TrimSpace(m[1])}
			lastItem = nil
			continue
		}

		// Comment line
		if strings.HasPrefix(trim, ";") {
			currentScene.Items = append(currentScene.Items, Item{Type: ItemComment, Text: strings.TrimSpace(strings.TrimPrefix(trim, ";")), LineNo: lineNo})
			lastItem = nil
			continue
		}

		// Bullet note
		if m := reBullet.FindStringSubmatch(trim); m != nil {
			text := strings.TrimSpace(m[1])
			it := Item{Type: ItemNote, Text: text, Tags: extractTags(text), LineNo: lineNo}
			currentScene.Items = append(currentScene.Items, it)
			lastItem = &currentScene.Items[len(currentScene.Items)-1]
			continue
		}

		// If we reach here and we have no scene yet, start an implicit scene
		if len(o.Scenes) == 0 && strings.TrimSpace(currentScene.Title) == "" && len(currentScene.Items) == 0 {
			currentScene.Title = "Untitled"
		}
		// Otherwise keep as an unknown note to avoid data loss
		currentScene.Items = append(currentScene.Items, Item{Type: ItemUnknown, Text: trim, Tags: extractTags(trim), LineNo: lineNo})
		lastItem = &currentScene.Items[len(currentScene.Items)-1]
	}
	// Append last scene
	flushScene()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return o, errs
}
