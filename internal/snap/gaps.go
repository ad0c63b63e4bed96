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
	"sort"

	"gowhiteboard/internal/geometry"
)

// gapSegment is the empty span between two adjacent reference rects that
// overlap the target on the perpendicular axis. freq counts how many
// segments in the same call share this (bucketed) size.
type gapSegment struct {
	before geometry.Rect
	after  geometry.Rect
	start  float64
	end    float64
	size   float64
	freq   int
}

// buildGapCandidates analyzes spacing between reference rects in the
// target's row (or column) and proposes centering the target inside a
// gap or repeating an existing gap size next to the nearest neighbor.
// The segments are returned as well so guide synthesis can surface other
// same-size gaps. At least two overlapping references are required.
func buildGapCandidates(axis geometry.Axis, target geometry.Rect, refs []geometry.Rect,
	anchors []geometry.Anchor, snapDistance float64) ([]candidate, []gapSegment) {

	if snapDistance <= 0 || len(anchors) == 0 || !target.IsFinite() {
		return nil, nil
	}
	perp := axis.Other()
	row := make([]geometry.Rect, 0, len(refs))
	for _, r := range refs {
		if r.IsFinite() && r.Overlap(target, perp) > 0 {
			row = append(row, r)
		}
	}
	if len(row) < 2 {
		return nil, nil
	}
	sort.Slice(row, func(i, j int) bool {
		if row[i].Min(axis) != row[j].Min(axis) {
			return row[i].Min(axis) < row[j].Min(axis)
		}
		return row[i].Max(axis) < row[j].Max(axis)
	})

	segments := make([]gapSegment, 0, len(row)-1)
	for i := 1; i < len(row); i++ {
		gap := row[i].Min(axis) - row[i-1].Max(axis)
		if gap <= 0 {
			continue
		}
		segments = append(segments, gapSegment{
			before: row[i-1],
			after:  row[i],
			start:  row[i-1].Max(axis),
			end:    row[i].Min(axis),
			size:   gap,
		})
	}
	if len(segments) == 0 {
		return nil, nil
	}
	buckets := bucketSizes(segments)

	var out []candidate
	if anchorAllowed(anchors, geometry.AnchorCenter) {
		for _, seg := range segments {
			offset := (seg.start+seg.end)/2 - target.Mid(axis)
			if math.Abs(offset) > snapDistance {
				continue
			}
			out = append(out, candidate{
				kind:      gapCenterCandidate,
				axis:      axis,
				offset:    offset,
				gapBefore: seg.before,
				gapAfter:  seg.after,
				gapSize:   seg.size,
				gapFreq:   seg.freq,
			})
		}
	}

	nb, hasBefore := nearestBefore(row, target, axis)
	na, hasAfter := nearestAfter(row, target, axis)
	for _, b := range buckets {
		if hasBefore {
			offset := nb.Max(axis) + b.size - target.Min(axis)
			if c, ok := sideCandidate(axis, nb, offset, b, sideBefore, anchors, snapDistance); ok {
				out = append(out, c)
			}
		}
		if hasAfter {
			offset := na.Min(axis) - b.size - target.Max(axis)
			if c, ok := sideCandidate(axis, na, offset, b, sideAfter, anchors, snapDistance); ok {
				out = append(out, c)
			}
		}
	}
	return out, segments
}

type sizeBucket struct {
	size float64
	freq int
}

// bucketSizes groups segment sizes within epsilon and writes the
// resulting frequency back onto each segment. Repeating spacing is
// rewarded by the scorer through that frequency.
func bucketSizes(segments []gapSegment) []sizeBucket {
	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return segments[order[i]].size < segments[order[j]].size })

	var buckets []sizeBucket
	members := make([][]int, 0, len(segments))
	for _, idx := range order {
		s := segments[idx].size
		if n := len(buckets); n > 0 && s-buckets[n-1].size <= epsilon {
			buckets[n-1].freq++
			members[n-1] = append(members[n-1], idx)
			continue
		}
		buckets = append(buckets, sizeBucket{size: s, freq: 1})
		members = append(members, []int{idx})
	}
	for bi, b := range buckets {
		for _, idx := range members[bi] {
			segments[idx].freq = b.freq
		}
	}
	return buckets
}

// sideCandidate proposes moving the target so its near edge sits exactly
// one bucketed gap away from the nearest neighbor. The placement is a
// single position; anchors are consulted start, end, center purely as
// permission, the first allowed one carries the candidate.
func sideCandidate(axis geometry.Axis, neighbor geometry.Rect, offset float64,
	b sizeBucket, side gapSide, anchors []geometry.Anchor, snapDistance float64) (candidate, bool) {

	if math.Abs(offset) > snapDistance {
		return candidate{}, false
	}
	for _, an := range [3]geometry.Anchor{geometry.AnchorStart, geometry.AnchorEnd, geometry.AnchorCenter} {
		if !anchorAllowed(anchors, an) {
			continue
		}
		return candidate{
			kind:    gapSideCandidate,
			axis:    axis,
			offset:  offset,
			ref:     neighbor,
			gapSize: b.size,
			gapFreq: b.freq,
			side:    side,
		}, true
	}
	return candidate{}, false
}

func nearestBefore(row []geometry.Rect, target geometry.Rect, axis geometry.Axis) (geometry.Rect, bool) {
	var best geometry.Rect
	found := false
	for _, r := range row {
		if r.Max(axis) > target.Min(axis) {
			continue
		}
		if !found || r.Max(axis) > best.Max(axis) {
			best = r
			found = true
		}
	}
	return best, found
}

func nearestAfter(row []geometry.Rect, target geometry.Rect, axis geometry.Axis) (geometry.Rect, bool) {
	var best geometry.Rect
	found := false
	for _, r := range row {
		if r.Min(axis) < target.Max(axis) {
			continue
		}
		if !found || r.Min(axis) < best.Min(axis) {
			best = r
			found = true
		}
	}
	return best, found
}
