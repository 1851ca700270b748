// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"testing"

	"github.com/jeranaias/rigwrite/internal/buffer"
)

func placeholderBuf(t *testing.T, style ResponseStyle) (*buffer.Buffer, int) {
	t.Helper()
	head := "invocation line" + style.preamble() + Placeholder()
	b := buffer.FromString(head)
	return b, style.PlaceholderOffset()
}

func TestFirstDeltaReplacesPlaceholder(t *testing.T) {
	b, line := placeholderBuf(t, StylePlain)
	c := NewInsertionCursor(b, line, StylePlain)

	c.WriteDelta("Hello")
	if got := b.Line(line); got != "Hello" {
		t.Errorf("line = %q, want %q", got, "Hello")
	}
	if got := c.Pos(); got != (buffer.Pos{Line: line, Col: 5}) {
		t.Errorf("pos = %+v, want {%d 5}", got, line)
	}
	if !c.Started() {
		t.Error("Started() = false after first delta")
	}
}

func TestChunkBoundaryInvariance(t *testing.T) {
	// The same response split differently across deltas must produce
	// an identical buffer.
	split := [][]string{
		{"Hello world"},
		{"Hel", "lo world"},
		{"Hello", " ", "world"},
		{"H", "e", "l", "l", "o", " world"},
	}

	var want string
	for i, deltas := range split {
		b, line := placeholderBuf(t, StylePlain)
		c := NewInsertionCursor(b, line, StylePlain)
		for _, d := range deltas {
			c.WriteDelta(d)
		}
		if i == 0 {
			want = b.String()
			continue
		}
		if got := b.String(); got != want {
			t.Errorf("split %v produced %q, want %q", deltas, got, want)
		}
	}
}

func TestMultiLineDeltaAdvancesPosition(t *testing.T) {
	b, line := placeholderBuf(t, StylePlain)
	c := NewInsertionCursor(b, line, StylePlain)

	c.WriteDelta("x")
	c.WriteDelta("a\nb")
	if got := c.Pos(); got != (buffer.Pos{Line: line + 1, Col: 1}) {
		t.Errorf("pos = %+v, want {%d 1}", got, line+1)
	}
	if got := b.Line(line); got != "xa" {
		t.Errorf("first line = %q, want %q", got, "xa")
	}
	if got := b.Line(line + 1); got != "b" {
		t.Errorf("second line = %q, want %q", got, "b")
	}
}

func TestMultiByteDeltaAdvancesByRunes(t *testing.T) {
	b, line := placeholderBuf(t, StylePlain)
	c := NewInsertionCursor(b, line, StylePlain)

	c.WriteDelta("héllo") // 5 runes, 6 bytes
	if got := c.Pos(); got != (buffer.Pos{Line: line, Col: 5}) {
		t.Errorf("pos = %+v, want {%d 5}", got, line)
	}
}

func TestEmptyDeltaIgnored(t *testing.T) {
	b, line := placeholderBuf(t, StylePlain)
	c := NewInsertionCursor(b, line, StylePlain)

	c.WriteDelta("")
	if c.Started() {
		t.Error("empty delta counted as first content")
	}
	if got := b.Line(line); got != Placeholder() {
		t.Errorf("placeholder disturbed: %q", got)
	}
}

func TestCalloutDeltasStayQuoted(t *testing.T) {
	b, line := placeholderBuf(t, StyleCallout)
	c := NewInsertionCursor(b, line, StyleCallout)

	c.WriteDelta("first")
	c.WriteDelta(" line\nsecond line")

	if got := b.Line(line); got != "> first line" {
		t.Errorf("line %d = %q", line, got)
	}
	if got := b.Line(line + 1); got != "> second line" {
		t.Errorf("line %d = %q", line+1, got)
	}
}

func TestVanishedLineFallsBackToAppend(t *testing.T) {
	b := buffer.FromString("only line")
	c := NewInsertionCursor(b, 7, StylePlain)

	c.WriteDelta("rescued")
	want := "only line\n\nrescued"
	if got := b.String(); got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}

	c.WriteDelta(" more")
	if got := b.String(); got != want+" more" {
		t.Errorf("buffer = %q, want %q", got, want+" more")
	}
}

func TestInsertAdvances(t *testing.T) {
	b, line := placeholderBuf(t, StylePlain)
	c := NewInsertionCursor(b, line, StylePlain)

	c.WriteDelta("done")
	c.Insert("\n\n---")
	if got := c.Pos(); got != (buffer.Pos{Line: line + 2, Col: 3}) {
		t.Errorf("pos = %+v, want {%d 3}", got, line+2)
	}
}

func TestFinishMovesToEnd(t *testing.T) {
	b, line := placeholderBuf(t, StylePlain)
	c := NewInsertionCursor(b, line, StylePlain)

	c.WriteDelta("response")
	c.Finish(CursorToEnd)

	want := buffer.Pos{Line: line + 1, Col: 0}
	if got := b.Cursor(); got != want {
		t.Errorf("cursor = %+v, want %+v", got, want)
	}
	if got := b.Line(line); got != "response" {
		t.Errorf("line = %q", got)
	}
}

func TestFinishKeepLeavesCursor(t *testing.T) {
	b, line := placeholderBuf(t, StylePlain)
	before := b.Cursor()
	c := NewInsertionCursor(b, line, StylePlain)

	c.WriteDelta("response")
	c.Finish(CursorKeep)
	if got := b.Cursor(); got != before {
		t.Errorf("cursor moved: %+v -> %+v", before, got)
	}
	if got := b.String(); got[len(got)-1] == '\n' {
		t.Error("keep behavior added a trailing newline")
	}
}
