/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for whiteboard documents. A board
// serializes to a human-readable JSON manifest (board.json) and holds one
// or more scenes of freely placed elements.

import (
	"fmt"

	"gowhiteboard/internal/geometry"
	"gowhiteboard/internal/snap"
)

// Board represents a whiteboard document and its metadata.
type Board struct {
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`
	Scenes   []Scene  `json:"scenes"`
}

// Metadata contains optional descriptive metadata for a board.
type Metadata struct {
	Owner   string `json:"owner,omitempty"`
	Team    string `json:"team,omitempty"`
	Notes   string `json:"notes,omitempty"`
	Created string `json:"created,omitempty"`
}

// Scene is one canvas of a board. Elements are drawn in slice order.
type Scene struct {
	Name     string    `json:"name"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Elements []Element `json:"elements"`
}

// ElementKind enumerates the drawable element types.
type ElementKind string

const (
	KindRect    ElementKind = "rect"
	KindEllipse ElementKind = "ellipse"
	KindArrow   ElementKind = "arrow"
	KindText    ElementKind = "text"
)

// Element is a single drawable object on a scene. Rotation is in radians
// about the element center.
type Element struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"kind"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation,omitempty"`
	Text     string      `json:"text,omitempty"`
	Style    Style       `json:"style,omitempty"`
	Locked   bool        `json:"locked,omitempty"`
}

// Style defines visual styling attributes for an element.
type Style struct {
	Fill   Color  `json:"fill,omitempty"`
	Stroke Stroke `json:"stroke,omitempty"`
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type Stroke struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Rect returns the element's unrotated bounding rectangle.
func (e Element) Rect() geometry.Rect {
	return geometry.R(e.X, e.Y, e.Width, e.Height)
}

// SnapElement converts the element into the snapping engine's input form.
func (e Element) SnapElement() snap.Element {
	return snap.Element{Rect: e.Rect(), Rotation: e.Rotation}
}

// SnapElements converts the scene's elements for the snapping engine,
// excluding the IDs in skip (typically the dragged selection).
func (s *Scene) SnapElements(skip map[string]bool) []snap.Element {
	out := make([]snap.Element, 0, len(s.Elements))
	for _, e := range s.Elements {
		if skip[e.ID] {
			continue
		}
		out = append(out, e.SnapElement())
	}
	return out
}

// FindElement returns a pointer to the element with the given ID.
func (s *Scene) FindElement(id string) (*Element, bool) {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return &s.Elements[i], true
		}
	}
	return nil, false
}

// Scene returns a pointer to the named scene.
func (b *Board) Scene(name string) (*Scene, bool) {
	for i := range b.Scenes {
		if b.Scenes[i].Name == name {
			return &b.Scenes[i], true
		}
	}
	return nil, false
}

// Validate checks structural invariants before a save: non-empty board
// and scene names, unique element IDs per scene, finite positive sizes.
func (b *Board) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("board name must not be empty")
	}
	for si := range b.Scenes {
		s := &b.Scenes[si]
		if s.Name == "" {
			return fmt.Errorf("scene %d: name must not be empty", si)
		}
		seen := make(map[string]bool, len(s.Elements))
		for ei := range s.Elements {
			e := &s.Elements[ei]
			if e.ID == "" {
				return fmt.Errorf("scene %q: element %d has no id", s.Name, ei)
			}
			if seen[e.ID] {
				return fmt.Errorf("scene %q: duplicate element id %q", s.Name, e.ID)
			}
			seen[e.ID] = true
			if e.Width < 0 || e.Height < 0 {
				return fmt.Errorf("scene %q: element %q has negative size", s.Name, e.ID)
			}
		}
	}
	return nil
}
