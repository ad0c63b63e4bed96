/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"testing"

	"gowhiteboard/internal/geometry"
)

func TestPointGuide_SpansUnionOfPerpExtents(t *testing.T) {
	// Target left edge aligned to reference right edge on X; the line
	// must run vertically over both rects' combined Y extent.
	snapped := rect(30, 0, 10, 10)
	c := candidate{
		kind:         pointCandidate,
		axis:         geometry.AxisX,
		ref:          rect(20, 20, 10, 10),
		targetAnchor: geometry.AnchorStart,
		refAnchor:    geometry.AnchorEnd,
	}
	g := pointGuide(c, snapped)
	if g.Kind != GuidePoint || g.Axis != Vertical {
		t.Fatalf("unexpected guide shape: %+v", g)
	}
	if g.Start != (geometry.Pt{X: 30, Y: 0}) || g.End != (geometry.Pt{X: 30, Y: 30}) {
		t.Fatalf("unexpected span %v..%v", g.Start, g.End)
	}
	if len(g.Markers) != 2 || g.Markers[0] != (geometry.Pt{X: 30, Y: 5}) || g.Markers[1] != (geometry.Pt{X: 30, Y: 25}) {
		t.Fatalf("unexpected markers %v", g.Markers)
	}
	if g.HasLabel {
		t.Fatalf("alignment guides carry no label")
	}
}

func TestPointGuide_PointPairUsesActualPoints(t *testing.T) {
	snapped := rect(0, 0, 10, 10)
	c := candidate{
		kind:        pointCandidate,
		axis:        geometry.AxisY,
		ref:         rect(20, 0, 10, 10),
		hasPoints:   true,
		targetPoint: geometry.Pt{X: 5, Y: 0.3},
		refPoint:    geometry.Pt{X: 25, Y: 0},
	}
	g := pointGuide(c, snapped)
	if g.Axis != Horizontal {
		t.Fatalf("Y-axis alignment must draw a horizontal line, got %v", g.Axis)
	}
	// Marker one is the moved target point, clamped onto the guide line.
	if g.Markers[0] != (geometry.Pt{X: 5, Y: 0}) || g.Markers[1] != (geometry.Pt{X: 25, Y: 0}) {
		t.Fatalf("unexpected markers %v", g.Markers)
	}
}

func TestCenterGapGuides_SplitsWhenStrictlyInside(t *testing.T) {
	before := rect(0, 0, 10, 10)
	after := rect(30, 0, 10, 10)
	c := candidate{
		kind:      gapCenterCandidate,
		axis:      geometry.AxisX,
		gapBefore: before,
		gapAfter:  after,
	}
	snapped := rect(17, 0, 6, 10)
	guides := centerGapGuides(c, snapped)
	if len(guides) != 2 {
		t.Fatalf("expected split guides, got %d", len(guides))
	}
	for i, g := range guides {
		if g.Kind != GuideGap || g.Axis != Horizontal || !g.HasLabel || g.Label != 7 {
			t.Fatalf("guide %d: %+v", i, g)
		}
	}
	if guides[0].Start.X != 10 || guides[0].End.X != 17 || guides[1].Start.X != 23 || guides[1].End.X != 30 {
		t.Fatalf("unexpected spans %+v", guides)
	}
}

func TestCenterGapGuides_FullSpanWhenTouchingEdge(t *testing.T) {
	c := candidate{
		kind:      gapCenterCandidate,
		axis:      geometry.AxisX,
		gapBefore: rect(0, 0, 10, 10),
		gapAfter:  rect(30, 0, 10, 10),
	}
	// Target flush against the left rect: no before spacing to label.
	guides := centerGapGuides(c, rect(10, 0, 6, 10))
	if len(guides) != 1 || guides[0].Label != 20 {
		t.Fatalf("expected one full-span guide, got %+v", guides)
	}
}

func TestSideGapGuide_CoversNewGapOnly(t *testing.T) {
	c := candidate{
		kind: gapSideCandidate,
		axis: geometry.AxisX,
		ref:  rect(40, 0, 10, 10),
		side: sideBefore,
		// matched spacing of 10 repeated before the target
	}
	g := sideGapGuide(c, rect(60, 0, 10, 10))
	if g.Start.X != 50 || g.End.X != 60 || g.Label != 10 {
		t.Fatalf("unexpected side guide %+v", g)
	}

	c.side = sideAfter
	c.ref = rect(80, 0, 10, 10)
	g = sideGapGuide(c, rect(60, 0, 10, 10))
	if g.Start.X != 70 || g.End.X != 80 || g.Label != 10 {
		t.Fatalf("unexpected side guide %+v", g)
	}
}

func TestExtraGapGuides_NearestFirstAndCapped(t *testing.T) {
	// Seven equal 10-unit gaps in a row; only four extras may surface,
	// ordered by distance from the target center.
	row := make([]geometry.Rect, 0, 8)
	for i := 0; i < 8; i++ {
		row = append(row, rect(float64(i)*20, 0, 10, 10))
	}
	var segments []gapSegment
	for i := 0; i < 7; i++ {
		segments = append(segments, gapSegment{
			before: row[i], after: row[i+1],
			start: row[i].MaxX, end: row[i+1].MinX,
			size: 10, freq: 7,
		})
	}
	winner := candidate{
		kind:      gapCenterCandidate,
		axis:      geometry.AxisX,
		gapBefore: row[3],
		gapAfter:  row[4],
		gapSize:   10,
	}
	snapped := rect(72, 20, 6, 10)
	extras := extraGapGuides(winner, snapped, segments)
	if len(extras) != maxExtraGapGuides {
		t.Fatalf("expected %d extras, got %d", maxExtraGapGuides, len(extras))
	}
	// Matched segment (70..80) is excluded; nearest remaining midpoints
	// are 55, 95, 35, 115.
	wantStarts := []float64{50, 90, 30, 110}
	for i, g := range extras {
		if g.Start.X != wantStarts[i] {
			t.Fatalf("extra %d starts at %v, want %v", i, g.Start.X, wantStarts[i])
		}
		if g.Label != 10 || !g.HasLabel {
			t.Fatalf("extra %d missing spacing label: %+v", i, g)
		}
	}
}

func TestExtraGapGuides_IgnoresOtherSizes(t *testing.T) {
	a, b, c := rect(0, 0, 10, 10), rect(20, 0, 10, 10), rect(45, 0, 10, 10)
	segments := []gapSegment{
		{before: a, after: b, start: 10, end: 20, size: 10, freq: 1},
		{before: b, after: c, start: 30, end: 45, size: 15, freq: 1},
	}
	winner := candidate{
		kind:      gapCenterCandidate,
		axis:      geometry.AxisX,
		gapBefore: a,
		gapAfter:  b,
		gapSize:   10,
	}
	if extras := extraGapGuides(winner, rect(12, 20, 6, 10), segments); len(extras) != 0 {
		t.Fatalf("size-15 segment must not surface for a size-10 win: %+v", extras)
	}
}

func TestDedupeGuides_RemovesStructuralDuplicates(t *testing.T) {
	g1 := gapGuide(geometry.AxisX, 10, 20, 5)
	g2 := gapGuide(geometry.AxisX, 10, 20, 5)
	g3 := gapGuide(geometry.AxisX, 10, 20, 7) // different draw height
	out := dedupeGuides([]Guide{g1, g2, g3})
	if len(out) != 2 {
		t.Fatalf("expected 2 guides after dedupe, got %d", len(out))
	}
}
