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
	"testing"

	"gowhiteboard/internal/geometry"
)

func TestStrength_PointCandidateWeights(t *testing.T) {
	target := rect(0, 0, 10, 10)
	c := candidate{
		kind:         pointCandidate,
		axis:         geometry.AxisX,
		offset:       0,
		ref:          rect(20, 0, 10, 10),
		targetAnchor: geometry.AnchorCenter,
		refAnchor:    geometry.AnchorCenter,
		perpDist:     0,
	}
	// Exact, perfectly aligned center/center candidate scores 1.
	if s := strength(c, target, 5); math.Abs(s-1) > 1e-12 {
		t.Fatalf("expected full strength, got %v", s)
	}
	c.offset = 5
	// Distance at the tolerance boundary drops only the distance factor.
	if s := strength(c, target, 5); math.Abs(s-0.55) > 1e-12 {
		t.Fatalf("expected 0.55, got %v", s)
	}
}

func TestStrength_GapScaleKeepsPointsAhead(t *testing.T) {
	target := rect(0, 0, 10, 10)
	gap := candidate{kind: gapCenterCandidate, axis: geometry.AxisX, offset: 0, gapFreq: 1000000}
	// Even a maxed-out gap candidate cannot exceed the 0.9 scale.
	if s := strength(gap, target, 5); s > gapScale {
		t.Fatalf("gap strength %v exceeds the scale cap", s)
	}
}

func TestStrength_FrequencyRewardsRepeatedSpacing(t *testing.T) {
	target := rect(0, 0, 10, 10)
	single := candidate{kind: gapCenterCandidate, axis: geometry.AxisX, offset: 1, gapFreq: 1}
	repeated := single
	repeated.gapFreq = 4
	if strength(repeated, target, 5) <= strength(single, target, 5) {
		t.Fatalf("higher frequency must raise the score")
	}
}

func TestBeats_ClearStrengthDifferenceDecides(t *testing.T) {
	strong := candidate{kind: pointCandidate, axis: geometry.AxisX, offset: 0,
		ref: rect(20, 0, 10, 10), targetAnchor: geometry.AnchorCenter, refAnchor: geometry.AnchorCenter}
	weak := candidate{kind: pointCandidate, axis: geometry.AxisX, offset: 4.5,
		ref: rect(20, 0, 10, 10), targetAnchor: geometry.AnchorStart, refAnchor: geometry.AnchorEnd, perpDist: 30}
	target := rect(0, 0, 10, 10)
	best, ok := selectBest([]candidate{weak, strong}, target, 5)
	if !ok || best.offset != 0 {
		t.Fatalf("expected the strong candidate to win, got %+v", best)
	}
}

func TestBeats_ExactBeatsNearbyNonExact(t *testing.T) {
	target := rect(0, 0, 10, 10)
	ref := rect(20, 0, 10, 10)
	exact := candidate{kind: pointCandidate, axis: geometry.AxisY, offset: 0,
		ref: ref, targetAnchor: geometry.AnchorStart, refAnchor: geometry.AnchorStart}
	near := candidate{kind: pointCandidate, axis: geometry.AxisY, offset: 0.2,
		ref: ref, targetAnchor: geometry.AnchorStart, refAnchor: geometry.AnchorStart}
	best, _ := selectBest([]candidate{near, exact}, target, 5)
	if best.offset != 0 {
		t.Fatalf("exact candidate must beat a non-exact one at similar strength, got %+v", best)
	}
}

func TestBeats_PointBeatsGapOnTie(t *testing.T) {
	// Both candidates land within the strength slack and the distance
	// slack; the cascade must fall through to preferring the point snap.
	target := rect(0, 0, 10, 10)
	point := candidate{kind: pointCandidate, axis: geometry.AxisX, offset: 4,
		ref: rect(0, 22, 10, 10), targetAnchor: geometry.AnchorStart, refAnchor: geometry.AnchorEnd, perpDist: 12}
	gap := candidate{kind: gapSideCandidate, axis: geometry.AxisX, offset: 4, gapSize: 20, gapFreq: 1}

	sp := strength(point, target, 10)
	sg := strength(gap, target, 10)
	if math.Abs(sp-sg) > strengthSlack {
		t.Fatalf("setup broken: strengths %v vs %v not within slack", sp, sg)
	}
	best, _ := selectBest([]candidate{gap, point}, target, 10)
	if best.kind != pointCandidate {
		t.Fatalf("point candidate must win the tie, got kind %v", best.kind)
	}
	best, _ = selectBest([]candidate{point, gap}, target, 10)
	if best.kind != pointCandidate {
		t.Fatalf("point incumbent must survive the tie, got kind %v", best.kind)
	}
}

func TestBeats_PointPriorityThenPerpendicularDistance(t *testing.T) {
	target := rect(0, 0, 10, 10)
	ref := rect(20, 0, 10, 10)
	centerPair := candidate{kind: pointCandidate, axis: geometry.AxisX, offset: 1,
		ref: ref, targetAnchor: geometry.AnchorCenter, refAnchor: geometry.AnchorCenter, perpDist: 3}
	samePair := candidate{kind: pointCandidate, axis: geometry.AxisX, offset: 1,
		ref: ref, targetAnchor: geometry.AnchorStart, refAnchor: geometry.AnchorStart, perpDist: 3}
	best, _ := selectBest([]candidate{samePair, centerPair}, target, 5)
	if best.targetAnchor != geometry.AnchorCenter {
		t.Fatalf("lower anchor priority must win, got %+v", best)
	}

	closer := samePair
	closer.perpDist = 1
	best, _ = selectBest([]candidate{samePair, closer}, target, 5)
	if best.perpDist != 1 {
		t.Fatalf("equal priority resolves by perpendicular distance, got %+v", best)
	}
}

func TestBeats_GapFrequencyThenKindThenDistance(t *testing.T) {
	target := rect(0, 0, 10, 10)
	rare := candidate{kind: gapCenterCandidate, axis: geometry.AxisX, offset: 1, gapFreq: 1}
	common := candidate{kind: gapSideCandidate, axis: geometry.AxisX, offset: 1, gapFreq: 3}
	best, _ := selectBest([]candidate{rare, common}, target, 40)
	if best.gapFreq != 3 {
		t.Fatalf("higher gap frequency must win, got %+v", best)
	}

	side := candidate{kind: gapSideCandidate, axis: geometry.AxisX, offset: 1, gapFreq: 2}
	center := candidate{kind: gapCenterCandidate, axis: geometry.AxisX, offset: 1, gapFreq: 2}
	best, _ = selectBest([]candidate{side, center}, target, 40)
	if best.kind != gapCenterCandidate {
		t.Fatalf("gap-center must beat gap-side at equal frequency, got %+v", best)
	}

	far := candidate{kind: gapCenterCandidate, axis: geometry.AxisX, offset: 39, gapFreq: 2}
	near := candidate{kind: gapCenterCandidate, axis: geometry.AxisX, offset: 38.9, gapFreq: 2}
	best, _ = selectBest([]candidate{far, near}, target, 40)
	if best.offset != 38.9 {
		t.Fatalf("smaller distance must break the final gap tie, got %+v", best)
	}
}

func TestSelectBest_StableOnFullTie(t *testing.T) {
	target := rect(0, 0, 10, 10)
	ref := rect(20, 0, 10, 10)
	a := candidate{kind: pointCandidate, axis: geometry.AxisX, offset: 1,
		ref: ref, targetAnchor: geometry.AnchorStart, refAnchor: geometry.AnchorStart, perpDist: 2}
	b := a
	b.offset = -1 // same distance, same everything else
	best, _ := selectBest([]candidate{a, b}, target, 5)
	if best.offset != 1 {
		t.Fatalf("full tie must keep the incumbent, got %+v", best)
	}
}

func TestSelectBest_EmptyInput(t *testing.T) {
	if _, ok := selectBest(nil, rect(0, 0, 1, 1), 5); ok {
		t.Fatalf("no candidates must yield no winner")
	}
}
