// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/rigwrite/internal/buffer"
)

func TestAnimatorTickAdvancesFrame(t *testing.T) {
	b := buffer.FromString(Placeholder())
	a := NewAnimator(b, 0, StylePlain)

	if !a.tick(1) {
		t.Fatal("tick() = false, want true")
	}
	want := "/" + placeholderMessage
	if got := b.Line(0); got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestAnimatorTickCalloutKeepsPrefix(t *testing.T) {
	b := buffer.FromString(calloutPrefix + Placeholder())
	a := NewAnimator(b, 0, StyleCallout)

	if !a.tick(2) {
		t.Fatal("tick() = false, want true")
	}
	want := calloutPrefix + "-" + placeholderMessage
	if got := b.Line(0); got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestAnimatorGuardLeavesRealContent(t *testing.T) {
	b := buffer.FromString("user replaced this line")
	a := NewAnimator(b, 0, StylePlain)

	if !a.tick(1) {
		t.Fatal("tick() = false, want true")
	}
	if got := b.Line(0); got != "user replaced this line" {
		t.Errorf("guard failed, line rewritten to %q", got)
	}
}

func TestAnimatorGuardCalloutMissingPrefix(t *testing.T) {
	b := buffer.FromString("| no quote marker")
	a := NewAnimator(b, 0, StyleCallout)

	a.tick(1)
	if got := b.Line(0); got != "| no quote marker" {
		t.Errorf("guard failed, line rewritten to %q", got)
	}
}

func TestAnimatorGuardLeavesFrameLikeContent(t *testing.T) {
	// Markdown bullets and table rows start with the same glyphs as
	// the spinner frames; the guard must not mistake them for it.
	lines := []string{
		"- first point",
		"| col | col |",
		"/etc/hosts notes",
		"\\begin{figure}",
		"- Generating... is what it said",
	}
	for _, line := range lines {
		b := buffer.FromString(line)
		a := NewAnimator(b, 0, StylePlain)

		a.tick(1)
		if got := b.Line(0); got != line {
			t.Errorf("guard failed for %q, rewritten to %q", line, got)
		}
	}
}

func TestAnimatorSelfCancelsWhenLineGone(t *testing.T) {
	b := buffer.FromString("only line")
	a := NewAnimator(b, 5, StylePlain)

	if a.tick(1) {
		t.Error("tick() = true for vanished line, want false")
	}
}

func TestAnimatorRunsAndStops(t *testing.T) {
	b := buffer.FromString(Placeholder())
	a := NewAnimator(b, 0, StylePlain)
	a.Start()

	time.Sleep(250 * time.Millisecond)
	if got := b.Line(0); got == Placeholder() {
		t.Errorf("frame never advanced: %q", got)
	}
	if !strings.HasSuffix(b.Line(0), placeholderMessage) {
		t.Errorf("placeholder message lost: %q", b.Line(0))
	}

	a.Stop()
	a.Stop() // idempotent

	// Stop waits for the loop, so the line is frozen the moment it
	// returns.
	frozen := b.Line(0)
	time.Sleep(250 * time.Millisecond)
	if got := b.Line(0); got != frozen {
		t.Errorf("line changed after Stop: %q -> %q", frozen, got)
	}
}

func TestAnimatorStopBlocksUntilLoopExit(t *testing.T) {
	b := buffer.FromString(Placeholder())
	a := NewAnimator(b, 0, StylePlain)
	a.Start()

	time.Sleep(120 * time.Millisecond)
	a.Stop()

	// Once Stop returns, the first delta must stick even if a tick
	// was in flight when the stop signal went out.
	b.ReplaceLine(0, "- first point")
	time.Sleep(250 * time.Millisecond)
	if got := b.Line(0); got != "- first point" {
		t.Errorf("stale tick overwrote content after Stop: %q", got)
	}
}

func TestIsPlaceholder(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{Placeholder(), true},
		{"/ Generating...", true},
		{"> \\ Generating...", true},
		{"- Generating... done", false},
		{"| pipe table", false},
		{"plain text", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsPlaceholder(tc.text); got != tc.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
