// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import "testing"

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want ResponseStyle
	}{
		{"plain", StylePlain},
		{"divider", StyleDivider},
		{"callout", StyleCallout},
		{"", StylePlain},
		{"bogus", StylePlain},
	}
	for _, tc := range tests {
		if got := ParseStyle(tc.in); got != tc.want {
			t.Errorf("ParseStyle(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPlaceholderOffset(t *testing.T) {
	tests := []struct {
		style ResponseStyle
		want  int
	}{
		{StylePlain, 2},
		{StyleDivider, 4},
		{StyleCallout, 3},
	}
	for _, tc := range tests {
		if got := tc.style.PlaceholderOffset(); got != tc.want {
			t.Errorf("%v.PlaceholderOffset() = %d, want %d", tc.style, got, tc.want)
		}
	}
}

func TestPreambleOffsetAgreement(t *testing.T) {
	// The placeholder offset and the preamble shape are two views of
	// the same layout; they must agree or the animator targets the
	// wrong line.
	for _, style := range []ResponseStyle{StylePlain, StyleDivider, StyleCallout} {
		newlines := 0
		for _, r := range style.preamble() {
			if r == '\n' {
				newlines++
			}
		}
		if newlines != style.PlaceholderOffset() {
			t.Errorf("%v: preamble has %d newlines, offset is %d", style, newlines, style.PlaceholderOffset())
		}
	}
}

func TestCalloutTransform(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no newline", "hello", "hello"},
		{"one newline", "a\nb", "a\n> b"},
		{"several", "a\nb\nc", "a\n> b\n> c"},
		{"trailing newline", "para\n", "para\n> "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StyleCallout.transform(tc.in); got != tc.want {
				t.Errorf("transform(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTransformPlainPassthrough(t *testing.T) {
	in := "a\nb\nc"
	if got := StylePlain.transform(in); got != in {
		t.Errorf("plain transform changed text: %q", got)
	}
	if got := StylePlain.transformFirst(in); got != in {
		t.Errorf("plain transformFirst changed text: %q", got)
	}
}

func TestTransformFirstCallout(t *testing.T) {
	if got := StyleCallout.transformFirst("a\nb"); got != "> a\n> b" {
		t.Errorf("transformFirst = %q, want %q", got, "> a\n> b")
	}
}

func TestTrailer(t *testing.T) {
	if got := StyleDivider.trailer(); got != "\n\n---" {
		t.Errorf("divider trailer = %q", got)
	}
	if got := StylePlain.trailer(); got != "" {
		t.Errorf("plain trailer = %q, want empty", got)
	}
	if got := StyleCallout.trailer(); got != "" {
		t.Errorf("callout trailer = %q, want empty", got)
	}
}

func TestParseCursorBehavior(t *testing.T) {
	if ParseCursorBehavior("keep") != CursorKeep {
		t.Error("keep did not parse")
	}
	if ParseCursorBehavior("end") != CursorToEnd {
		t.Error("end did not parse")
	}
	if ParseCursorBehavior("") != CursorToEnd {
		t.Error("default is not end")
	}
}
