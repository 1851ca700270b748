// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"

	"github.com/jeranaias/rigwrite/internal/buffer"
	"github.com/jeranaias/rigwrite/internal/util"
)

// =============================================================================
// INSERTION CURSOR
// =============================================================================

// InsertionCursor tracks where the next stream delta goes. It is the
// reason concurrent user edits elsewhere in the document survive a
// generation: after the first delta replaces the placeholder line,
// every later delta is a pure insertion at the tracked position and
// never measures or rewrites surrounding text.
//
// The position advances by the shape of each inserted fragment: a
// fragment without newlines extends the column, a multi-line fragment
// moves down by its newline count and lands after its final segment.
type InsertionCursor struct {
	buf     *buffer.Buffer
	style   ResponseStyle
	line    int // placeholder line at creation time
	pos     buffer.Pos
	started bool
}

// NewInsertionCursor creates a cursor aimed at the placeholder line.
func NewInsertionCursor(buf *buffer.Buffer, line int, style ResponseStyle) *InsertionCursor {
	return &InsertionCursor{
		buf:   buf,
		style: style,
		line:  line,
		pos:   buffer.Pos{Line: line, Col: 0},
	}
}

// Started reports whether any content has been written yet.
func (c *InsertionCursor) Started() bool {
	return c.started
}

// Pos returns the position the next delta will be inserted at.
func (c *InsertionCursor) Pos() buffer.Pos {
	return c.pos
}

// WriteDelta inserts one stream delta. Empty deltas are ignored and do
// not count as the first delta.
//
// The first delta replaces the entire placeholder line with the
// styled content. If the placeholder line has vanished (the user
// deleted it mid-wait) the response falls back to an append at the
// document end instead of being lost.
func (c *InsertionCursor) WriteDelta(delta string) {
	if delta == "" {
		return
	}
	if !c.started {
		c.started = true
		c.writeFirst(delta)
		return
	}
	text := c.style.transform(delta)
	c.buf.Insert(c.pos, text)
	c.advance(text)
}

func (c *InsertionCursor) writeFirst(delta string) {
	if c.line >= c.buf.LineCount() {
		sep := "\n\n"
		text := sep + c.style.transformFirst(delta)
		start := c.buf.End()
		c.buf.Insert(start, text)
		c.pos = start
		c.advance(text)
		return
	}
	text := c.style.transformFirst(delta)
	start := buffer.Pos{Line: c.line, Col: 0}
	end := buffer.Pos{Line: c.line, Col: c.buf.LineLen(c.line)}
	c.buf.ReplaceRange(start, end, text)
	c.pos = start
	c.advance(text)
}

// Insert places already-styled text (sources list, divider trailer) at
// the tracked position and advances past it.
func (c *InsertionCursor) Insert(text string) {
	if text == "" {
		return
	}
	c.buf.Insert(c.pos, text)
	c.advance(text)
}

// advance recomputes the position from the shape of the inserted text.
// Columns are rune counts, consistent with buffer addressing.
func (c *InsertionCursor) advance(text string) {
	segs := strings.Split(text, "\n")
	if len(segs) == 1 {
		c.pos.Col += util.RuneLen(text)
		return
	}
	c.pos.Line += len(segs) - 1
	c.pos.Col = util.RuneLen(segs[len(segs)-1])
}

// Finish applies the configured cursor behavior to the buffer's
// editing cursor. CursorToEnd lands on a fresh line after the
// response; CursorKeep is a no-op.
func (c *InsertionCursor) Finish(behavior CursorBehavior) {
	if behavior != CursorToEnd || !c.started {
		return
	}
	end := c.pos
	if end.Col != 0 {
		c.buf.Insert(end, "\n")
		end = buffer.Pos{Line: end.Line + 1, Col: 0}
	}
	c.buf.SetCursor(end)
	c.pos = end
}
