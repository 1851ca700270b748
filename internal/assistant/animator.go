// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/rigwrite/internal/buffer"
)

// =============================================================================
// PLACEHOLDER ANIMATOR
// =============================================================================

// placeholderFrames are the spinner glyphs cycled on the placeholder
// line while awaiting the first byte.
var placeholderFrames = []string{"|", "/", "-", "\\"}

// placeholderMessage follows the frame glyph on the placeholder line.
const placeholderMessage = " Generating..."

// frameInterval is the spinner advance period.
const frameInterval = 100 * time.Millisecond

// Placeholder returns the initial placeholder text, frame zero plus
// the message. It is inserted together with the style preamble so the
// whole thing lands in one atomic edit.
func Placeholder() string {
	return placeholderFrames[0] + placeholderMessage
}

// IsPlaceholder reports whether a line currently holds the spinner
// placeholder, so hosts can style it apart from document text.
func IsPlaceholder(lineText string) bool {
	return placeholderContent(strings.TrimPrefix(lineText, calloutPrefix))
}

// placeholderContent matches the exact frame+message text and nothing
// else. Markdown lines routinely start with "-" or "|", so a bare
// glyph-prefix check would mistake real content for the placeholder.
func placeholderContent(content string) bool {
	for _, f := range placeholderFrames {
		if content == f+placeholderMessage {
			return true
		}
	}
	return false
}

// Animator cycles spinner frames on the placeholder line until the
// first content delta arrives or the generation fails.
//
// Every frame advance is a compare-and-swap: the line is rewritten
// only if it still holds the exact placeholder text, under one buffer
// lock. RELIABILITY: a user edit that replaced the placeholder is
// left alone, and Stop blocks until the loop goroutine has exited, so
// a caller that stops the animator before writing the first delta
// cannot have a stale tick land on top of it.
type Animator struct {
	buf   *buffer.Buffer
	line  int
	style ResponseStyle

	started  bool
	stopOnce sync.Once
	done     chan struct{}
	loopDone chan struct{}
}

// NewAnimator creates an animator for the placeholder on the given
// line. The placeholder must already be present; Start only begins the
// frame cycle.
func NewAnimator(buf *buffer.Buffer, line int, style ResponseStyle) *Animator {
	return &Animator{
		buf:      buf,
		line:     line,
		style:    style,
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
}

// Start launches the animation goroutine.
func (a *Animator) Start() {
	a.started = true
	go a.loop()
}

// Stop halts the animation and waits for the loop goroutine to exit.
// Safe to call multiple times. Once Stop returns no further tick can
// touch the buffer, so the caller may write the first delta without
// racing a frame advance.
func (a *Animator) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
	if a.started {
		<-a.loopDone
	}
}

func (a *Animator) loop() {
	defer close(a.loopDone)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	frame := 1
	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			if !a.tick(frame) {
				return
			}
			frame = (frame + 1) % len(placeholderFrames)
		}
	}
}

// tick writes the next frame. Returns false when the placeholder line
// no longer exists, which self-cancels the loop.
func (a *Animator) tick(frame int) bool {
	if a.line >= a.buf.LineCount() {
		return false
	}
	current := a.buf.Line(a.line)

	content := current
	prefix := ""
	if a.style == StyleCallout {
		if !strings.HasPrefix(content, calloutPrefix) {
			return true
		}
		prefix = calloutPrefix
		content = strings.TrimPrefix(content, calloutPrefix)
	}
	if !placeholderContent(content) {
		// Real content took the line; stop touching it but keep
		// ticking in case this was a transient read.
		return true
	}

	// Swap only if the line is unchanged since the guard read.
	a.buf.ReplaceLineIf(a.line, current, prefix+placeholderFrames[frame]+placeholderMessage)
	return true
}
