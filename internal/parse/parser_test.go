// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parse

import (
	"testing"

	"github.com/jeranaias/rigwrite/internal/buffer"
)

func TestFindReference(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		line      int
		wantTok   string
		wantLine  int
		wantStart int
		wantErr   bool
	}{
		{
			name:     "token on invocation line",
			text:     "notes\n@gpt-4o summarize this",
			line:     1,
			wantTok:  "gpt-4o",
			wantLine: 1,
		},
		{
			name:     "token on earlier line",
			text:     "@openai/gpt-4o-mini\nsome\nprompt text",
			line:     2,
			wantTok:  "openai/gpt-4o-mini",
			wantLine: 0,
		},
		{
			name:     "last token on line wins",
			text:     "@first then @second go",
			line:     0,
			wantTok:  "second",
			wantLine: 0,
		},
		{
			name:     "closer line shadows earlier line",
			text:     "@old\ntext\n@new prompt",
			line:     2,
			wantTok:  "new",
			wantLine: 2,
		},
		{
			name:    "no reference anywhere",
			text:    "plain text\nno tokens here",
			line:    1,
			wantErr: true,
		},
		{
			name:      "token mid-line",
			text:      "see @anthropic/claude-3.5-sonnet for this",
			line:      0,
			wantTok:   "anthropic/claude-3.5-sonnet",
			wantLine:  0,
			wantStart: 4,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := buffer.FromString(tc.text)
			ref, err := FindReference(b, tc.line)

			if tc.wantErr {
				if err != ErrNoReference {
					t.Fatalf("FindReference() error = %v, want ErrNoReference", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindReference() error = %v", err)
			}
			if ref.Token != tc.wantTok {
				t.Errorf("Token = %q, want %q", ref.Token, tc.wantTok)
			}
			if ref.Line != tc.wantLine {
				t.Errorf("Line = %d, want %d", ref.Line, tc.wantLine)
			}
			if tc.wantStart != 0 && ref.Start != tc.wantStart {
				t.Errorf("Start = %d, want %d", ref.Start, tc.wantStart)
			}
		})
	}
}

// A reference after the invocation line must never be selected.
func TestFindReferenceNeverLooksForward(t *testing.T) {
	b := buffer.FromString("early text\nmore text\n@later prompt")
	_, err := FindReference(b, 1)
	if err != ErrNoReference {
		t.Fatalf("FindReference() error = %v, want ErrNoReference", err)
	}
}

func TestFindReferenceMultibyteColumns(t *testing.T) {
	// Columns are rune offsets: the CJK prefix is 2 runes wide.
	b := buffer.FromString("日本 @gpt-4o hi")
	ref, err := FindReference(b, 0)
	if err != nil {
		t.Fatalf("FindReference() error = %v", err)
	}
	if ref.Start != 3 {
		t.Errorf("Start = %d, want 3", ref.Start)
	}
	if ref.End != 10 {
		t.Errorf("End = %d, want 10", ref.End)
	}
}

func TestContext(t *testing.T) {
	b := buffer.FromString("intro line\nsecond @gpt-4o prompt")
	ref, err := FindReference(b, 1)
	if err != nil {
		t.Fatalf("FindReference() error = %v", err)
	}
	want := "intro line\nsecond "
	if got := Context(b, ref); got != want {
		t.Errorf("Context() = %q, want %q", got, want)
	}
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		trigger string
		want    string
	}{
		{"with trigger", "@gpt-4o Summarize this ;;", ";;", "Summarize this"},
		{"without trigger", "@gpt-4o Summarize this", ";;", "Summarize this"},
		{"trigger not at end ignored", "@gpt-4o a ;; b", ";;", "a ;; b"},
		{"empty prompt", "@gpt-4o ;;", ";;", ""},
		{"custom trigger", "@gpt-4o go now!!", "!!", "go now"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := buffer.FromString(tc.line)
			ref, err := FindReference(b, 0)
			if err != nil {
				t.Fatalf("FindReference() error = %v", err)
			}
			if got := Prompt(b, ref, 0, tc.trigger); got != tc.want {
				t.Errorf("Prompt() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPromptSpansLines(t *testing.T) {
	b := buffer.FromString("@gpt-4o first part\ncontinued here ;;")
	ref, err := FindReference(b, 1)
	if err != nil {
		t.Fatalf("FindReference() error = %v", err)
	}
	want := "first part\ncontinued here"
	if got := Prompt(b, ref, 1, ";;"); got != want {
		t.Errorf("Prompt() = %q, want %q", got, want)
	}
}

func TestStripWebFlag(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     string
		wantFlag bool
	}{
		{"no flag", "summarize this", "summarize this", false},
		{"flag with space", "summarize this +web", "summarize this", true},
		{"flag glued", "summarize+web", "summarize", true},
		{"flag only", "+web", "", true},
		{"repeated flags", "ask +web +web", "ask", true},
		{"flag mid-prompt kept", "use +web sources now", "use +web sources now", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, flag := StripWebFlag(tc.in)
			if got != tc.want || flag != tc.wantFlag {
				t.Errorf("StripWebFlag(%q) = (%q, %v), want (%q, %v)",
					tc.in, got, flag, tc.want, tc.wantFlag)
			}
		})
	}
}

// Stripping must be idempotent: applying it to its own output changes nothing.
func TestStripWebFlagIdempotent(t *testing.T) {
	inputs := []string{
		"summarize this +web",
		"summarize this",
		"+web",
		"ask +web +web",
		"",
	}
	for _, in := range inputs {
		once, _ := StripWebFlag(in)
		twice, flag := StripWebFlag(once)
		if twice != once {
			t.Errorf("StripWebFlag not idempotent for %q: %q != %q", in, once, twice)
		}
		if flag {
			t.Errorf("second strip of %q still reported a flag", in)
		}
	}
}

func TestTriggerHelpers(t *testing.T) {
	if !HasTrigger("do the thing ;;", ";;") {
		t.Error("HasTrigger() = false, want true")
	}
	if HasTrigger("do the thing", ";;") {
		t.Error("HasTrigger() = true, want false")
	}
	if HasTrigger("anything", "") {
		t.Error("HasTrigger() with empty trigger = true, want false")
	}

	if got := StripTrigger("do the thing ;;", ";;"); got != "do the thing" {
		t.Errorf("StripTrigger() = %q, want %q", got, "do the thing")
	}
	if got := StripTrigger("no trigger here", ";;"); got != "no trigger here" {
		t.Errorf("StripTrigger() = %q, want unchanged", got)
	}
}
