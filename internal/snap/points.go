/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"math"

	"gowhiteboard/internal/geometry"
)

// epsilon absorbs accumulated floating error from rotation transforms.
// It is used for anchor classification, gap-size bucketing, and the
// "exact snap" test alike.
const epsilon = 1e-4

// Element is the engine's view of a canvas element: its world rectangle
// and a rotation (radians) about the rectangle center. The document
// model reduces every shape to this before calling the engine.
type Element struct {
	Rect     geometry.Rect
	Rotation float64
}

// Bounds returns the element's axis-aligned world bounding box,
// accounting for rotation.
func (e Element) Bounds() geometry.Rect {
	if e.Rotation == 0 {
		return e.Rect
	}
	m := geometry.RotateAbout(e.Rotation, e.Rect.Center())
	corners := [4]geometry.Pt{
		{X: e.Rect.MinX, Y: e.Rect.MinY},
		{X: e.Rect.MaxX, Y: e.Rect.MinY},
		{X: e.Rect.MaxX, Y: e.Rect.MaxY},
		{X: e.Rect.MinX, Y: e.Rect.MaxY},
	}
	p := m.Apply(corners[0])
	b := geometry.Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	for _, c := range corners[1:] {
		p = m.Apply(c)
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// SnapPoint is a world-space anchor point of an element, tagged with its
// per-axis classification relative to the owning element's world bounds.
// Points are rebuilt fresh on every call; they carry no identity.
type SnapPoint struct {
	P       geometry.Pt
	AnchorX geometry.Anchor
	AnchorY geometry.Anchor
	Owner   geometry.Rect
}

// pointKind ranks an extracted point for tie-breaking: centers beat edge
// midpoints beat corners.
type pointKind int

const (
	kindCorner pointKind = iota
	kindEdge
	kindCenter
)

func (p SnapPoint) kind() pointKind {
	cx := p.AnchorX == geometry.AnchorCenter
	cy := p.AnchorY == geometry.AnchorCenter
	switch {
	case cx && cy:
		return kindCenter
	case cx || cy:
		return kindEdge
	default:
		return kindCorner
	}
}

func (p SnapPoint) anchorOn(a geometry.Axis) geometry.Anchor {
	if a == geometry.AxisX {
		return p.AnchorX
	}
	return p.AnchorY
}

// unit offsets of the nine anchor points: corners, edge midpoints, center.
var anchorUnits = [9]geometry.Pt{
	{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1},
	{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0},
	{X: 0, Y: 0},
}

// ExtractPoints computes the nine world-space anchor points of each
// element (rotation applied about the element center) and classifies each
// point per axis against the element's world bounding box. The optional
// offset is the pending drag translation not yet committed to the model.
// Elements with non-finite geometry are skipped.
func ExtractPoints(elements []Element, offset geometry.Pt) []SnapPoint {
	pts := make([]SnapPoint, 0, len(elements)*9)
	for _, e := range elements {
		if !e.Rect.IsFinite() || math.IsNaN(e.Rotation) || math.IsInf(e.Rotation, 0) {
			continue
		}
		c := e.Rect.Center()
		hw := e.Rect.Width() / 2
		hh := e.Rect.Height() / 2
		m := geometry.RotateAbout(e.Rotation, c)
		bounds := e.Bounds().Translate(offset.X, offset.Y)
		for _, u := range anchorUnits {
			p := m.Apply(geometry.Pt{X: c.X + u.X*hw, Y: c.Y + u.Y*hh}).Add(offset)
			pts = append(pts, SnapPoint{
				P:       p,
				AnchorX: classifyAnchor(p.X, bounds.MinX, bounds.CenterX(), bounds.MaxX),
				AnchorY: classifyAnchor(p.Y, bounds.MinY, bounds.CenterY(), bounds.MaxY),
				Owner:   bounds,
			})
		}
	}
	return pts
}

// classifyAnchor maps a coordinate onto start/center/end of the owning
// bounds. Rotated elements land their corners away from the bounds
// extremes; those fall back to whichever side of center they are on.
func classifyAnchor(v, min, center, max float64) geometry.Anchor {
	switch {
	case math.Abs(v-min) <= epsilon:
		return geometry.AnchorStart
	case math.Abs(v-max) <= epsilon:
		return geometry.AnchorEnd
	case math.Abs(v-center) <= epsilon:
		return geometry.AnchorCenter
	case v < center:
		return geometry.AnchorStart
	default:
		return geometry.AnchorEnd
	}
}
