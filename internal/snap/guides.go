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

// GuideKind distinguishes alignment guides from spacing guides.
type GuideKind int

const (
	GuidePoint GuideKind = iota
	GuideGap
)

// Orientation is the direction of the rendered guide line.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// maxExtraGapGuides bounds the additional same-size gap guides emitted to
// confirm a spacing pattern.
const maxExtraGapGuides = 4

// Guide is a renderable descriptor of why a snap occurred: a line
// segment, marker points, and for spacing guides a numeric gap label.
// The engine only describes; the overlay renderer draws.
type Guide struct {
	Kind     GuideKind
	Axis     Orientation
	Start    geometry.Pt
	End      geometry.Pt
	Markers  []geometry.Pt
	Label    float64
	HasLabel bool
}

func equalGuides(a, b Guide) bool {
	if a.Kind != b.Kind || a.Axis != b.Axis || a.Start != b.Start || a.End != b.End ||
		a.Label != b.Label || a.HasLabel != b.HasLabel || len(a.Markers) != len(b.Markers) {
		return false
	}
	for i := range a.Markers {
		if a.Markers[i] != b.Markers[i] {
			return false
		}
	}
	return true
}

func dedupeGuides(guides []Guide) []Guide {
	out := guides[:0]
	for _, g := range guides {
		dup := false
		for _, kept := range out {
			if equalGuides(kept, g) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, g)
		}
	}
	return out
}

// synthesizeGuides converts the winning candidate on one axis into its
// renderable guides. snapped is the target rectangle with both axis
// offsets already applied; segments are the gap segments collected for
// this axis, used to surface other gaps of the winning size.
func synthesizeGuides(winner candidate, snapped geometry.Rect, segments []gapSegment) []Guide {
	switch winner.kind {
	case pointCandidate:
		return []Guide{pointGuide(winner, snapped)}
	case gapCenterCandidate:
		return append(centerGapGuides(winner, snapped), extraGapGuides(winner, snapped, segments)...)
	default:
		return append([]Guide{sideGapGuide(winner, snapped)}, extraGapGuides(winner, snapped, segments)...)
	}
}

// pointGuide draws the alignment line through the matched coordinate,
// spanning the union of target and reference extents on the other axis.
func pointGuide(c candidate, snapped geometry.Rect) Guide {
	axis := c.axis
	perp := axis.Other()
	pos := c.ref.AnchorPos(axis, c.refAnchor)
	if c.hasPoints {
		pos = c.refPoint.Coord(axis)
	}
	lo := math.Min(snapped.Min(perp), c.ref.Min(perp))
	hi := math.Max(snapped.Max(perp), c.ref.Max(perp))

	var markers []geometry.Pt
	if c.hasPoints {
		moved := c.targetPoint
		if axis == geometry.AxisX {
			moved.X = pos
		} else {
			moved.Y = pos
		}
		markers = []geometry.Pt{moved, c.refPoint}
	} else {
		markers = []geometry.Pt{
			axisPt(axis, pos, snapped.Mid(perp)),
			axisPt(axis, pos, c.ref.Mid(perp)),
		}
	}
	return Guide{
		Kind:    GuidePoint,
		Axis:    lineOrientation(axis, true),
		Start:   axisPt(axis, pos, lo),
		End:     axisPt(axis, pos, hi),
		Markers: markers,
	}
}

// centerGapGuides renders a gap-center win. A target strictly inside the
// matched gap splits the guide into the before and after spacings; a
// target touching (or covering) a gap edge keeps the single full span.
func centerGapGuides(c candidate, snapped geometry.Rect) []Guide {
	axis := c.axis
	start := c.gapBefore.Max(axis)
	end := c.gapAfter.Min(axis)
	mid := snapped.Mid(axis.Other())
	if snapped.Min(axis) > start+epsilon && snapped.Max(axis) < end-epsilon {
		return []Guide{
			gapGuide(axis, start, snapped.Min(axis), mid),
			gapGuide(axis, snapped.Max(axis), end, mid),
		}
	}
	return []Guide{gapGuide(axis, start, end, mid)}
}

func sideGapGuide(c candidate, snapped geometry.Rect) Guide {
	axis := c.axis
	mid := snapped.Mid(axis.Other())
	if c.side == sideBefore {
		return gapGuide(axis, c.ref.Max(axis), snapped.Min(axis), mid)
	}
	return gapGuide(axis, snapped.Max(axis), c.ref.Min(axis), mid)
}

// extraGapGuides adds up to maxExtraGapGuides guides for other segments
// whose size matches the winning bucket, nearest segments first.
func extraGapGuides(winner candidate, snapped geometry.Rect, segments []gapSegment) []Guide {
	axis := winner.axis
	targetMid := snapped.Mid(axis)
	matchStart := winner.gapBefore.Max(axis)
	matchEnd := winner.gapAfter.Min(axis)

	var same []gapSegment
	for _, seg := range segments {
		if math.Abs(seg.size-winner.gapSize) > epsilon {
			continue
		}
		if winner.kind == gapCenterCandidate && seg.start == matchStart && seg.end == matchEnd {
			continue
		}
		same = append(same, seg)
	}
	sortSegmentsByDistance(same, axis, targetMid)
	if len(same) > maxExtraGapGuides {
		same = same[:maxExtraGapGuides]
	}
	guides := make([]Guide, 0, len(same))
	for _, seg := range same {
		guides = append(guides, gapGuide(axis, seg.start, seg.end, segmentMid(seg, axis.Other())))
	}
	return guides
}

func sortSegmentsByDistance(segs []gapSegment, axis geometry.Axis, targetMid float64) {
	for i := 1; i < len(segs); i++ {
		for j := i; j > 0; j-- {
			di := math.Abs((segs[j].start+segs[j].end)/2 - targetMid)
			dp := math.Abs((segs[j-1].start+segs[j-1].end)/2 - targetMid)
			if di >= dp {
				break
			}
			segs[j], segs[j-1] = segs[j-1], segs[j]
		}
	}
}

// segmentMid is the perpendicular coordinate at which a gap segment is
// drawn: the middle of the shared extent of its two rects.
func segmentMid(seg gapSegment, perp geometry.Axis) float64 {
	lo := math.Max(seg.before.Min(perp), seg.after.Min(perp))
	hi := math.Min(seg.before.Max(perp), seg.after.Max(perp))
	return (lo + hi) / 2
}

func gapGuide(axis geometry.Axis, start, end, perpMid float64) Guide {
	a := axisPt(axis, start, perpMid)
	b := axisPt(axis, end, perpMid)
	return Guide{
		Kind:     GuideGap,
		Axis:     lineOrientation(axis, false),
		Start:    a,
		End:      b,
		Markers:  []geometry.Pt{a, b},
		Label:    math.Abs(end - start),
		HasLabel: true,
	}
}

// axisPt builds a point from a coordinate on the working axis and one on
// the perpendicular axis.
func axisPt(axis geometry.Axis, onAxis, onPerp float64) geometry.Pt {
	if axis == geometry.AxisX {
		return geometry.Pt{X: onAxis, Y: onPerp}
	}
	return geometry.Pt{X: onPerp, Y: onAxis}
}

// lineOrientation maps the working axis to the direction of the drawn
// line: alignment guides run across the axis, gap guides run along it.
func lineOrientation(axis geometry.Axis, pointGuide bool) Orientation {
	alongAxis := Horizontal
	acrossAxis := Vertical
	if axis == geometry.AxisY {
		alongAxis = Vertical
		acrossAxis = Horizontal
	}
	if pointGuide {
		return acrossAxis
	}
	return alongAxis
}
