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

type candidateKind int

const (
	pointCandidate candidateKind = iota
	gapCenterCandidate
	gapSideCandidate
)

type gapSide int

const (
	sideBefore gapSide = iota
	sideAfter
)

// candidate is one proposed alignment on a single axis. Candidates are
// transient: generated, scored, and discarded within one engine call.
type candidate struct {
	kind   candidateKind
	axis   geometry.Axis
	offset float64

	// point candidates
	ref          geometry.Rect
	targetAnchor geometry.Anchor
	refAnchor    geometry.Anchor
	hasPoints    bool
	targetPoint  geometry.Pt
	refPoint     geometry.Pt
	targetKind   pointKind
	refKind      pointKind
	perpDist     float64

	// gap candidates
	gapBefore geometry.Rect
	gapAfter  geometry.Rect
	gapSize   float64
	gapFreq   int
	side      gapSide
}

func (c candidate) distance() float64 { return math.Abs(c.offset) }

// buildPointCandidates emits one candidate per target/reference anchor
// combination whose aligning offset is within snapDistance. When both
// point sets are non-empty the explicit point-pair mode takes precedence
// over rect anchors; that path serves rotated multi-element drags.
func buildPointCandidates(axis geometry.Axis, target geometry.Rect, refs []geometry.Rect,
	anchors []geometry.Anchor, snapDistance float64, targetPts, refPts []SnapPoint) []candidate {

	if snapDistance <= 0 || len(anchors) == 0 {
		return nil
	}
	if len(targetPts) > 0 && len(refPts) > 0 {
		return pointPairCandidates(axis, anchors, snapDistance, targetPts, refPts)
	}
	if len(refs) == 0 || !target.IsFinite() {
		return nil
	}
	perp := axis.Other()
	var out []candidate
	for _, ref := range refs {
		if !ref.IsFinite() {
			continue
		}
		perpDist := target.Gap(ref, perp)
		for _, ta := range anchors {
			for _, ra := range geometry.Anchors {
				offset := ref.AnchorPos(axis, ra) - target.AnchorPos(axis, ta)
				if math.Abs(offset) > snapDistance {
					continue
				}
				out = append(out, candidate{
					kind:         pointCandidate,
					axis:         axis,
					offset:       offset,
					ref:          ref,
					targetAnchor: ta,
					refAnchor:    ra,
					perpDist:     perpDist,
				})
			}
		}
	}
	return out
}

func pointPairCandidates(axis geometry.Axis, anchors []geometry.Anchor,
	snapDistance float64, targetPts, refPts []SnapPoint) []candidate {

	perp := axis.Other()
	var out []candidate
	for _, tp := range targetPts {
		if !anchorAllowed(anchors, tp.anchorOn(axis)) {
			continue
		}
		for _, rp := range refPts {
			offset := rp.P.Coord(axis) - tp.P.Coord(axis)
			if math.Abs(offset) > snapDistance {
				continue
			}
			out = append(out, candidate{
				kind:         pointCandidate,
				axis:         axis,
				offset:       offset,
				ref:          rp.Owner,
				targetAnchor: tp.anchorOn(axis),
				refAnchor:    rp.anchorOn(axis),
				hasPoints:    true,
				targetPoint:  tp.P,
				refPoint:     rp.P,
				targetKind:   tp.kind(),
				refKind:      rp.kind(),
				perpDist:     math.Abs(rp.P.Coord(perp) - tp.P.Coord(perp)),
			})
		}
	}
	return out
}

func anchorAllowed(anchors []geometry.Anchor, an geometry.Anchor) bool {
	for _, a := range anchors {
		if a == an {
			return true
		}
	}
	return false
}
