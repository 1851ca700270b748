// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package parse recovers model references and prompts from buffer text.
//
// A reference is an @ token naming a model or persona, e.g.
// "@openai/gpt-4o-mini" or "@reviewer". The parser scans backward from
// the invocation line: the last token on the closest preceding line
// wins, so later references shadow earlier ones.
package parse

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/rigwrite/internal/buffer"
	"github.com/jeranaias/rigwrite/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNoReference indicates no @ token precedes the invocation point.
// This is a user error: the caller must show a notice and leave the
// buffer untouched.
var ErrNoReference = errors.New("no @model or @persona reference found")

// =============================================================================
// REFERENCE
// =============================================================================

// tokenPattern matches an @ token: "@" followed by word characters,
// "/", "." or "-". Model IDs like "openai/gpt-4o-mini" and persona
// names are both covered.
var tokenPattern = regexp.MustCompile(`@[\w/.\-]+`)

// webFlag is the trailing marker that requests a web search.
const webFlag = "+web"

// Reference is a located @ token in the buffer.
type Reference struct {
	// Token is the text after "@", e.g. "openai/gpt-4o-mini".
	Token string

	// Line is the buffer line the token appears on.
	Line int

	// Start and End are rune columns: Start points at "@", End just
	// past the last token character.
	Start int
	End   int
}

// =============================================================================
// PARSER
// =============================================================================

// FindReference scans from line upward to line 0 looking for the
// nearest preceding @ token. On each line all matches are considered
// and the last one wins. Returns ErrNoReference if no line contains a
// token.
//
// Line text is NFC-normalized before matching so that decomposed
// sequences cannot split a token.
func FindReference(b *buffer.Buffer, line int) (Reference, error) {
	if line >= b.LineCount() {
		line = b.LineCount() - 1
	}
	for i := line; i >= 0; i-- {
		text := norm.NFC.String(b.Line(i))
		matches := tokenPattern.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		last := matches[len(matches)-1]
		// Regex indices are byte offsets; convert to rune columns.
		start := util.RuneLen(text[:last[0]])
		end := util.RuneLen(text[:last[1]])
		return Reference{
			Token: text[last[0]+1 : last[1]],
			Line:  i,
			Start: start,
			End:   end,
		}, nil
	}
	return Reference{}, ErrNoReference
}

// Tokens returns the byte-index [start, end) pairs of every @ token on
// the line, for syntax highlighting.
func Tokens(lineText string) [][]int {
	return tokenPattern.FindAllStringIndex(lineText, -1)
}

// Context returns everything in the buffer before the reference token.
func Context(b *buffer.Buffer, ref Reference) string {
	return b.Range(buffer.Pos{Line: 0, Col: 0}, buffer.Pos{Line: ref.Line, Col: ref.Start})
}

// Prompt extracts the prompt: the buffer range from immediately after
// the token to the end of the invocation line, minus the trigger
// phrase when it terminates that line. The result is
// whitespace-trimmed. When the reference sits on an earlier line the
// prompt spans the lines in between.
func Prompt(b *buffer.Buffer, ref Reference, line int, trigger string) string {
	if line < ref.Line {
		line = ref.Line
	}
	end := buffer.Pos{Line: line, Col: b.LineLen(line)}
	text := b.Range(buffer.Pos{Line: ref.Line, Col: ref.End}, end)
	if trigger != "" && strings.HasSuffix(text, trigger) {
		text = text[:len(text)-len(trigger)]
	}
	return strings.TrimSpace(text)
}

// StripWebFlag removes a trailing "+web" marker (and any whitespace
// before it) from the prompt. The second return reports whether a
// marker was present. Repeated markers are all consumed, which makes
// stripping idempotent: re-running on the output is a no-op, and
// prompts without the marker pass through unchanged.
func StripWebFlag(prompt string) (string, bool) {
	found := false
	for strings.HasSuffix(prompt, webFlag) {
		found = true
		prompt = strings.TrimRight(prompt[:len(prompt)-len(webFlag)], " \t")
	}
	return prompt, found
}

// HasTrigger reports whether the line ends with the trigger phrase.
// Used by the passive document-change path to detect an invocation.
func HasTrigger(lineText, trigger string) bool {
	return trigger != "" && strings.HasSuffix(lineText, trigger)
}

// StripTrigger removes the trigger phrase suffix from the line.
func StripTrigger(lineText, trigger string) string {
	if !HasTrigger(lineText, trigger) {
		return lineText
	}
	return strings.TrimRight(lineText[:len(lineText)-len(trigger)], " \t")
}
