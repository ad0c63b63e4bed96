/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package textlayout

import "testing"

func TestStyleSheet_ResolvePrecedence(t *testing.T) {
	ss := NewStyleSheet()
	// Base builtin Note exists
	b, ok := ss.Resolve("Note")
	if !ok {
		t.Fatalf("expected builtin Note")
	}

	// Board overrides Note tracking
	brd := TextStyle{Name: "Note", Font: b.Font, Tracking: 1.25, Leading: b.Leading}
	// Scene overrides Note leading
	scn := TextStyle{Name: "Note", Font: b.Font, Tracking: brd.Tracking, Leading: 9}

	ss = ss.WithBoard(map[string]TextStyle{"Note": brd})
	got, ok := ss.Resolve("Note")
	if !ok {
		t.Fatalf("resolve after board override failed")
	}
	if got.Tracking != 1.25 {
		t.Fatalf("board override not applied: got tracking=%v", got.Tracking)
	}
	if got.Leading != b.Leading {
		t.Fatalf("board override should not change leading: got leading=%v want %v", got.Leading, b.Leading)
	}

	ss = ss.WithScene(map[string]TextStyle{"Note": scn})
	got2, ok := ss.Resolve("Note")
	if !ok {
		t.Fatalf("resolve after scene override failed")
	}
	if got2.Leading != 9 {
		t.Fatalf("scene override not applied: got leading=%v", got2.Leading)
	}
	if got2.Tracking != 1.25 {
		t.Fatalf("scene should inherit board tracking when not overridden: got tracking=%v", got2.Tracking)
	}
}

func TestStyleSheet_FallbackBuiltin(t *testing.T) {
	ss := &StyleSheet{Global: map[string]TextStyle{}, Board: map[string]TextStyle{}, Scene: map[string]TextStyle{}}
	// Should still resolve builtins
	if _, ok := ss.Resolve("Label"); !ok {
		t.Fatalf("expected builtin fallback for Label")
	}
	if _, ok := ss.Resolve("Heading"); !ok {
		t.Fatalf("expected builtin fallback for Heading")
	}
	// Unknown should fail
	if _, ok := ss.Resolve("Nonexistent"); ok {
		t.Fatalf("unexpected resolve of unknown style")
	}
}

func TestStyleSheet_NamesDeterministic(t *testing.T) {
	ss := NewStyleSheet()
	// Add a new custom style only at scene level
	ss = ss.WithScene(map[string]TextStyle{"Callout": {Name: "Callout", Font: FontSpec{Family: "Inter", SizePt: 8}}})
	names := ss.Names()
	if len(names) < 4 {
		t.Fatalf("expected at least 4 names, got %v", names)
	}
	// Builtins should come first in stable order
	if names[0] != "Note" || names[1] != "Label" || names[2] != "Heading" {
		t.Fatalf("unexpected initial order: %v", names)
	}
}
