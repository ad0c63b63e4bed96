/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap decides whether and how far to nudge an element being
// moved or resized so it aligns with nearby elements, and produces the
// guide lines shown while dragging. Every entry point is a pure function
// of geometric input to geometric output: the engine owns no state,
// performs no I/O, and is safe to call concurrently with disjoint
// inputs. Snapping is resolved once per axis; the two axes never
// interact except through perpendicular-distance factors in scoring.
package snap

import "gowhiteboard/internal/geometry"

// Query is the low-level request shared by Move and Resize. Advanced
// callers can mix custom anchor sets through Compute directly.
type Query struct {
	// Target is the rectangle being dragged or resized, with any pending
	// translation already applied.
	Target geometry.Rect
	// References are the elements the target may align against.
	References []Element
	// Distance is the maximum offset at which snapping occurs, in world
	// units. Zero or negative disables snapping entirely.
	Distance float64
	// AnchorsX and AnchorsY restrict which target anchors may align on
	// each axis. An empty set disables that axis.
	AnchorsX []geometry.Anchor
	AnchorsY []geometry.Anchor
	// Moving is the element set being dragged, used together with Offset
	// (the not-yet-committed translation) to snap rotated selections via
	// extracted points instead of rect anchors.
	Moving []Element
	Offset geometry.Pt
	// Points and Gaps toggle the two candidate families.
	Points bool
	Gaps   bool
}

// MoveQuery describes a free drag. All three anchors are allowed on both
// axes; the zero value of the No* fields leaves both snap families on.
type MoveQuery struct {
	Target       geometry.Rect
	References   []Element
	Distance     float64
	Moving       []Element
	Offset       geometry.Pt
	NoPointSnaps bool
	NoGapSnaps   bool
}

// ResizeQuery describes an in-progress resize. The caller names exactly
// the anchors being dragged (e.g. only AnchorEnd for a bottom-right
// handle). Gap snapping is never applied while resizing.
type ResizeQuery struct {
	Target       geometry.Rect
	References   []Element
	Distance     float64
	AnchorsX     []geometry.Anchor
	AnchorsY     []geometry.Anchor
	NoPointSnaps bool
}

// Result carries the per-axis nudge and the guides to render. The caller
// adds (Dx, Dy) to its in-progress transform; the engine never mutates
// the document.
type Result struct {
	Dx     float64
	Dy     float64
	Guides []Guide
}

// HasSnap reports whether either axis produced a nonzero nudge. An
// exactly aligned target yields HasSnap false while still returning the
// confirming guide.
func (r Result) HasSnap() bool { return r.Dx != 0 || r.Dy != 0 }

var allAnchors = []geometry.Anchor{geometry.AnchorStart, geometry.AnchorCenter, geometry.AnchorEnd}

// Move resolves snapping for a free drag.
func Move(q MoveQuery) Result {
	return Compute(Query{
		Target:     q.Target,
		References: q.References,
		Distance:   q.Distance,
		AnchorsX:   allAnchors,
		AnchorsY:   allAnchors,
		Moving:     q.Moving,
		Offset:     q.Offset,
		Points:     !q.NoPointSnaps,
		Gaps:       !q.NoGapSnaps,
	})
}

// Resize resolves snapping for a resize drag.
func Resize(q ResizeQuery) Result {
	return Compute(Query{
		Target:     q.Target,
		References: q.References,
		Distance:   q.Distance,
		AnchorsX:   q.AnchorsX,
		AnchorsY:   q.AnchorsY,
		Points:     !q.NoPointSnaps,
	})
}

// Compute is the shared entry both Move and Resize delegate to. Each
// axis is resolved independently: candidates are built, scored, and the
// cascade picks one winner whose guides are then synthesized against the
// fully snapped target. Malformed input degrades to an empty result.
func Compute(q Query) Result {
	if q.Distance <= 0 || len(q.References) == 0 || !q.Target.IsFinite() {
		return Result{}
	}

	refRects := make([]geometry.Rect, 0, len(q.References))
	for _, e := range q.References {
		if b := e.Bounds(); b.IsFinite() {
			refRects = append(refRects, b)
		}
	}
	if len(refRects) == 0 {
		return Result{}
	}

	var targetPts, refPts []SnapPoint
	if q.Points && len(q.Moving) > 0 {
		targetPts = ExtractPoints(q.Moving, q.Offset)
		refPts = ExtractPoints(q.References, geometry.Pt{})
	}

	winX, segsX, okX := resolveAxis(geometry.AxisX, q, refRects, targetPts, refPts)
	winY, segsY, okY := resolveAxis(geometry.AxisY, q, refRects, targetPts, refPts)

	var res Result
	if okX {
		res.Dx = winX.offset
	}
	if okY {
		res.Dy = winY.offset
	}
	snapped := q.Target.Translate(res.Dx, res.Dy)
	if okX {
		res.Guides = append(res.Guides, synthesizeGuides(winX, snapped, segsX)...)
	}
	if okY {
		res.Guides = append(res.Guides, synthesizeGuides(winY, snapped, segsY)...)
	}
	res.Guides = dedupeGuides(res.Guides)
	return res
}

func resolveAxis(axis geometry.Axis, q Query, refRects []geometry.Rect,
	targetPts, refPts []SnapPoint) (candidate, []gapSegment, bool) {

	anchors := q.AnchorsX
	if axis == geometry.AxisY {
		anchors = q.AnchorsY
	}
	if len(anchors) == 0 {
		return candidate{}, nil, false
	}

	var cands []candidate
	var segments []gapSegment
	if q.Points {
		cands = buildPointCandidates(axis, q.Target, refRects, anchors, q.Distance, targetPts, refPts)
	}
	if q.Gaps {
		gapCands, segs := buildGapCandidates(axis, q.Target, refRects, anchors, q.Distance)
		cands = append(cands, gapCands...)
		segments = segs
	}

	winner, ok := selectBest(cands, q.Target, q.Distance)
	return winner, segments, ok
}
