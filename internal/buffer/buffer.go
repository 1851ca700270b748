// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package buffer provides the line-oriented document buffer that hosts
// inline generation.
//
// The buffer is the only shared mutable resource touched by the editor,
// the placeholder animator, and the streaming inserter. Every operation
// is a single atomic read or replace under an internal mutex; callers
// never hold the buffer open across operations, so the only hazard is
// algorithmic (writing to a stale offset), never a data race.
//
// All columns are rune offsets, never byte offsets.
package buffer

import (
	"strings"
	"sync"

	"github.com/jeranaias/rigwrite/internal/util"
)

// =============================================================================
// POSITION
// =============================================================================

// Pos is a (line, column) position in the buffer. Col counts runes.
type Pos struct {
	Line int
	Col  int
}

// Before reports whether p is strictly before q in document order.
func (p Pos) Before(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// =============================================================================
// BUFFER
// =============================================================================

// Buffer is a mutable line-oriented text buffer with an edit cursor.
// The zero value is a buffer with a single empty line.
type Buffer struct {
	mu     sync.Mutex
	lines  []string
	cursor Pos
}

// New creates an empty buffer containing a single empty line.
func New() *Buffer {
	return &Buffer{lines: []string{""}}
}

// FromString creates a buffer from text. The text is split on "\n";
// a trailing newline produces a final empty line, matching how editors
// represent end-of-file.
func FromString(text string) *Buffer {
	return &Buffer{lines: strings.Split(text, "\n")}
}

// String returns the full buffer content with "\n" line separators.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Line returns the text of line i, or "" if i is out of range.
func (b *Buffer) Line(i int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the rune length of line i, or 0 if out of range.
func (b *Buffer) LineLen(i int) int {
	return util.RuneLen(b.Line(i))
}

// End returns the position just past the last character of the buffer.
func (b *Buffer) End() Pos {
	b.mu.Lock()
	defer b.mu.Unlock()
	last := len(b.lines) - 1
	return Pos{Line: last, Col: util.RuneLen(b.lines[last])}
}

// Cursor returns the current edit cursor position.
func (b *Buffer) Cursor() Pos {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetCursor moves the edit cursor, clamping to valid positions.
func (b *Buffer) SetCursor(p Pos) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = b.clampLocked(p)
}

// Range returns the text between start and end (end exclusive), joined
// with "\n". Positions are clamped; an inverted range returns "".
func (b *Buffer) Range(start, end Pos) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	start = b.clampLocked(start)
	end = b.clampLocked(end)
	if !start.Before(end) {
		return ""
	}

	if start.Line == end.Line {
		return util.SafeSubstring(b.lines[start.Line], start.Col, end.Col)
	}

	var sb strings.Builder
	sb.WriteString(util.SafeSubstring(b.lines[start.Line], start.Col, -1))
	for i := start.Line + 1; i < end.Line; i++ {
		sb.WriteString("\n")
		sb.WriteString(b.lines[i])
	}
	sb.WriteString("\n")
	sb.WriteString(util.SafeSubstring(b.lines[end.Line], 0, end.Col))
	return sb.String()
}

// ReplaceRange replaces the text between start and end (end exclusive)
// with text. When start == end this is a pure insertion. Embedded "\n"
// in text splits lines. Positions are clamped to the buffer.
func (b *Buffer) ReplaceRange(start, end Pos, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start = b.clampLocked(start)
	end = b.clampLocked(end)
	if end.Before(start) {
		start, end = end, start
	}

	head := util.SafeSubstring(b.lines[start.Line], 0, start.Col)
	tail := util.SafeSubstring(b.lines[end.Line], end.Col, -1)

	newLines := strings.Split(head+text+tail, "\n")

	replaced := make([]string, 0, len(b.lines)-(end.Line-start.Line+1)+len(newLines))
	replaced = append(replaced, b.lines[:start.Line]...)
	replaced = append(replaced, newLines...)
	replaced = append(replaced, b.lines[end.Line+1:]...)
	b.lines = replaced

	b.cursor = b.clampLocked(b.cursor)
}

// Insert inserts text at p. Equivalent to ReplaceRange(p, p, text).
func (b *Buffer) Insert(p Pos, text string) {
	b.ReplaceRange(p, p, text)
}

// ReplaceLine replaces the entire content of line i. Out-of-range lines
// are ignored.
func (b *Buffer) ReplaceLine(i int, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.lines) {
		return
	}
	// Single-line replacement only; embedded newlines go through ReplaceRange.
	b.lines[i] = text
}

// ReplaceLineIf replaces line i only when it still holds old, under a
// single lock. Reports whether the swap happened. This is the
// check-and-write primitive for writers racing other goroutines on
// the same line.
func (b *Buffer) ReplaceLineIf(i int, old, text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.lines) || b.lines[i] != old {
		return false
	}
	b.lines[i] = text
	return true
}

// Append adds text at the very end of the buffer.
func (b *Buffer) Append(text string) {
	b.Insert(b.End(), text)
}

// clampLocked clamps p to a valid buffer position. Caller holds b.mu.
func (b *Buffer) clampLocked(p Pos) Pos {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(b.lines) {
		p.Line = len(b.lines) - 1
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if l := util.RuneLen(b.lines[p.Line]); p.Col > l {
		p.Col = l
	}
	return p
}
