/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func TestClearSceneAndStats(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MaxPerScene: 10, MinInterval: time.Millisecond})
	sc := "Planning"
	m.PushSnapshot(Snapshot{Scene: sc, Blob: []byte("abcdef"), TS: time.Now()})
	tb, scenes, total := m.Stats()
	if tb == 0 || scenes != 1 || total != 1 {
		t.Fatalf("unexpected stats before clear: tb=%d scenes=%d total=%d", tb, scenes, total)
	}
	m.ClearScene(sc)
	tb2, scenes2, total2 := m.Stats()
	if tb2 != 0 || scenes2 != 0 || total2 != 0 {
		t.Fatalf("expected cleared stats to be zero, got tb=%d scenes=%d total=%d", tb2, scenes2, total2)
	}
}

func TestGlobalPruneAcrossScenes(t *testing.T) {
	// Very small MaxBytes so pruning triggers across scenes
	m := NewManager(Config{MaxBytes: 8, MaxPerScene: 0, MinInterval: time.Millisecond})
	t0 := time.Now()
	// Older snapshot on the first scene
	m.PushSnapshot(Snapshot{Scene: "Main", Blob: []byte("xxxx"), TS: t0})
	// Newer snapshot on the second scene
	m.PushSnapshot(Snapshot{Scene: "Side", Blob: []byte("yyyy"), TS: t0.Add(time.Second)})

	// Add another snapshot to exceed the cap and force pruning of the oldest entry
	m.PushSnapshot(Snapshot{Scene: "Side", Blob: []byte("zzzz"), TS: t0.Add(2 * time.Second)})

	// After pruning, the oldest ("Main") should be gone
	_, scenes, total := m.Stats()
	if scenes == 0 || total == 0 {
		t.Fatalf("expected some snapshots to remain")
	}
	if _, ok := m.Undo("Main"); ok {
		t.Fatalf("expected Main scene to have been pruned")
	}
	if _, ok := m.Undo("Side"); !ok {
		t.Fatalf("expected Side scene to have snapshots")
	}
}
