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

// Empirically tuned scoring constants. These are UX values carried over
// from extensive interactive tuning; do not re-derive them.
const (
	pointDistanceWeight = 0.45
	pointPerpWeight     = 0.40
	pointAnchorWeight   = 0.15

	gapDistanceWeight  = 0.70
	gapFrequencyWeight = 0.20
	gapKindWeight      = 0.10
	gapScale           = 0.90

	gapCenterKindStrength = 1.0
	gapSideKindStrength   = 0.85

	strengthSlack = 0.05
)

// strength scores a candidate in [0, 1] from weighted sub-factors.
func strength(c candidate, target geometry.Rect, snapDistance float64) float64 {
	distStrength := 1 - math.Min(1, c.distance()/snapDistance)
	if c.kind != pointCandidate {
		freqStrength := 0.0
		if c.gapFreq > 0 {
			freqStrength = 1 - 1/float64(c.gapFreq+1)
		}
		kindStrength := gapSideKindStrength
		if c.kind == gapCenterCandidate {
			kindStrength = gapCenterKindStrength
		}
		return gapScale * (gapDistanceWeight*distStrength +
			gapFrequencyWeight*freqStrength +
			gapKindWeight*kindStrength)
	}

	perp := c.axis.Other()
	perpRange := math.Max(math.Max(target.Size(perp), c.ref.Size(perp))*1.5, snapDistance*4)
	perpRange = math.Max(perpRange, snapDistance)
	perpStrength := 1 - math.Min(1, c.perpDist/perpRange)

	return pointDistanceWeight*distStrength +
		pointPerpWeight*perpStrength +
		pointAnchorWeight*anchorStrength(c)
}

// anchorStrength normalizes the anchor-priority table into [0, 1].
func anchorStrength(c candidate) float64 {
	if c.hasPoints {
		return 1 - float64(pairPriority(c))/4
	}
	return 1 - float64(rectPriority(c))/3
}

// pairPriority ranks explicit point pairs: center/center, center/other,
// edge/edge, edge/other, corner/corner.
func pairPriority(c candidate) int {
	tc := c.targetKind == kindCenter
	rc := c.refKind == kindCenter
	te := c.targetKind == kindEdge
	re := c.refKind == kindEdge
	switch {
	case tc && rc:
		return 0
	case tc || rc:
		return 1
	case te && re:
		return 2
	case te || re:
		return 3
	default:
		return 4
	}
}

// rectPriority ranks rect-anchor pairs: center/center, same anchor,
// either center, everything else.
func rectPriority(c candidate) int {
	tc := c.targetAnchor == geometry.AnchorCenter
	rc := c.refAnchor == geometry.AnchorCenter
	switch {
	case tc && rc:
		return 0
	case c.targetAnchor == c.refAnchor:
		return 1
	case tc || rc:
		return 2
	default:
		return 3
	}
}

// selectBest runs the per-axis tie-break cascade over all candidates and
// returns the winner. Iteration order is preserved on full ties, which
// keeps the decision stable while dragging.
func selectBest(cands []candidate, target geometry.Rect, snapDistance float64) (candidate, bool) {
	if len(cands) == 0 {
		return candidate{}, false
	}
	best := cands[0]
	bestStrength := strength(best, target, snapDistance)
	for _, ch := range cands[1:] {
		s := strength(ch, target, snapDistance)
		if beats(ch, s, best, bestStrength, snapDistance) {
			best = ch
			bestStrength = s
		}
	}
	return best, true
}

// beats reports whether challenger a displaces incumbent b. The first
// decisive rule wins; a full tie keeps the incumbent.
func beats(a candidate, aStrength float64, b candidate, bStrength float64, snapDistance float64) bool {
	if math.Abs(aStrength-bStrength) > strengthSlack {
		return aStrength > bStrength
	}
	aExact := a.distance() <= epsilon
	bExact := b.distance() <= epsilon
	if aExact != bExact {
		return aExact
	}
	slack := math.Min(0.5, snapDistance*0.05)
	if math.Abs(a.distance()-b.distance()) > slack {
		return a.distance() < b.distance()
	}
	aPoint := a.kind == pointCandidate
	bPoint := b.kind == pointCandidate
	if aPoint != bPoint {
		return aPoint
	}
	if aPoint {
		ap, bp := candidatePriority(a), candidatePriority(b)
		if ap != bp {
			return ap < bp
		}
		if a.perpDist != b.perpDist {
			return a.perpDist < b.perpDist
		}
	} else {
		if a.gapFreq != b.gapFreq {
			return a.gapFreq > b.gapFreq
		}
		aCenter := a.kind == gapCenterCandidate
		bCenter := b.kind == gapCenterCandidate
		if aCenter != bCenter {
			return aCenter
		}
		if a.distance() != b.distance() {
			return a.distance() < b.distance()
		}
	}
	return a.distance() < b.distance()
}

func candidatePriority(c candidate) int {
	if c.hasPoints {
		return pairPriority(c)
	}
	return rectPriority(c)
}
