/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geometry provides the 2D primitives used by the snapping engine
// and the editing tools. Coordinates are float64 in world units; the axis
// and anchor enums let callers address rectangle features generically.
package geometry

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Add returns p translated by o.
func (p Pt) Add(o Pt) Pt { return Pt{p.X + o.X, p.Y + o.Y} }

// Coord returns the point coordinate on the given axis.
func (p Pt) Coord(a Axis) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

// Axis selects one of the two orthogonal world axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Anchor names one of a rectangle's three representative positions along
// an axis: the min edge, the center, or the max edge.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorCenter
	AnchorEnd
)

// Anchors lists all three anchors in canonical order.
var Anchors = [3]Anchor{AnchorStart, AnchorCenter, AnchorEnd}

func (an Anchor) String() string {
	switch an {
	case AnchorStart:
		return "start"
	case AnchorCenter:
		return "center"
	default:
		return "end"
	}
}

// Rect is an axis-aligned rectangle given by its min and max corners.
// Degenerate rectangles (zero width or height) are legal values.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// R builds a Rect from min corner and size.
func R(x, y, w, h float64) Rect { return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h} }

func (r Rect) Width() float64   { return r.MaxX - r.MinX }
func (r Rect) Height() float64  { return r.MaxY - r.MinY }
func (r Rect) CenterX() float64 { return (r.MinX + r.MaxX) / 2 }
func (r Rect) CenterY() float64 { return (r.MinY + r.MaxY) / 2 }
func (r Rect) Center() Pt       { return Pt{r.CenterX(), r.CenterY()} }

// Min returns the minimum coordinate on the given axis.
func (r Rect) Min(a Axis) float64 {
	if a == AxisX {
		return r.MinX
	}
	return r.MinY
}

// Max returns the maximum coordinate on the given axis.
func (r Rect) Max(a Axis) float64 {
	if a == AxisX {
		return r.MaxX
	}
	return r.MaxY
}

// Mid returns the center coordinate on the given axis.
func (r Rect) Mid(a Axis) float64 {
	if a == AxisX {
		return r.CenterX()
	}
	return r.CenterY()
}

// Size returns the extent on the given axis.
func (r Rect) Size(a Axis) float64 { return r.Max(a) - r.Min(a) }

// AnchorPos returns the coordinate of the given anchor on the given axis.
func (r Rect) AnchorPos(a Axis, an Anchor) float64 {
	switch an {
	case AnchorStart:
		return r.Min(a)
	case AnchorCenter:
		return r.Mid(a)
	default:
		return r.Max(a)
	}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Overlap returns the shared extent of r and o on the given axis.
// Negative values are the gap between the two rects on that axis.
func (r Rect) Overlap(o Rect, a Axis) float64 {
	return math.Min(r.Max(a), o.Max(a)) - math.Max(r.Min(a), o.Min(a))
}

// Gap returns the empty distance between r and o on the given axis,
// or 0 when the two extents overlap or touch.
func (r Rect) Gap(o Rect, a Axis) float64 {
	if g := -r.Overlap(o, a); g > 0 {
		return g
	}
	return 0
}

// Contains reports whether p is inside r (edges inclusive).
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.MinX && p.Y >= r.MinY && p.X <= r.MaxX && p.Y <= r.MaxY
}

// IsFinite reports whether all four coordinates are finite numbers.
func (r Rect) IsFinite() bool {
	return isFinite(r.MinX) && isFinite(r.MinY) && isFinite(r.MaxX) && isFinite(r.MaxY)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }

func Rotate(rad float64) Affine2D {
	c := math.Cos(rad)
	s := math.Sin(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// RotateAbout rotates around the given center point.
func RotateAbout(rad float64, center Pt) Affine2D {
	return Translate(center.X, center.Y).Mul(Rotate(rad)).Mul(Translate(-center.X, -center.Y))
}
