// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigwrite/internal/assistant"
	"github.com/jeranaias/rigwrite/internal/buffer"
	"github.com/jeranaias/rigwrite/internal/ui/components"
	"github.com/jeranaias/rigwrite/internal/util"
)

// noticeTTL is how long a transient notice stays on the status bar.
const noticeTTL = 4 * time.Second

// repaintInterval refreshes the view while a generation streams.
const repaintInterval = 100 * time.Millisecond

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case noticeMsg:
		m.noticeSeq++
		m.statusBar.Notice = msg.text
		if msg.isErr {
			m.statusBar.Status = components.StatusError
		}
		seq := m.noticeSeq
		expire := tea.Tick(noticeTTL, func(time.Time) tea.Msg {
			return clearNoticeMsg{seq: seq}
		})
		return m, tea.Batch(m.waitEvent(), expire)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.statusBar.Notice = ""
			if m.statusBar.Status == components.StatusError {
				m.statusBar.Status = components.StatusReady
			}
		}
		return m, nil

	case phaseMsg:
		switch msg.phase {
		case assistant.PhaseReferenceResolved, assistant.PhaseAwaitingFirstByte:
			m.statusBar.Status = components.StatusWaiting
		case assistant.PhaseStreaming:
			m.statusBar.Status = components.StatusStreaming
		case assistant.PhaseFinalized, assistant.PhaseIdle:
			m.statusBar.Status = components.StatusReady
		}
		return m, m.waitEvent()

	case genDoneMsg:
		m.generating--
		if m.generating <= 0 {
			m.generating = 0
			m.spin.Stop()
			if m.statusBar.Status == components.StatusWaiting ||
				m.statusBar.Status == components.StatusStreaming {
				m.statusBar.Status = components.StatusReady
			}
		}
		if msg.err == nil {
			m.dirty = true
			m.ensureVisible()
		}
		return m, m.waitEvent()

	case repaintMsg:
		if m.generating > 0 {
			return m, m.repaintTick()
		}
		return m, nil

	default:
		if cmd := m.spin.Update(msg); cmd != nil {
			return m, cmd
		}
		return m, nil
	}
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keyMap
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Save):
		m.save()
		return m, nil

	case key.Matches(msg, k.Preview):
		m.togglePreview()
		return m, nil

	case key.Matches(msg, k.Generate):
		return m, m.startGeneration(m.buf.Cursor().Line)

	case key.Matches(msg, k.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, k.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, k.Left):
		m.moveCursorLeft()
	case key.Matches(msg, k.Right):
		m.moveCursorRight()
	case key.Matches(msg, k.PageUp):
		m.moveCursor(-m.viewHeight(), 0)
	case key.Matches(msg, k.PageDown):
		m.moveCursor(m.viewHeight(), 0)
	case key.Matches(msg, k.Home):
		c := m.buf.Cursor()
		m.buf.SetCursor(buffer.Pos{Line: c.Line, Col: 0})
	case key.Matches(msg, k.End):
		c := m.buf.Cursor()
		m.buf.SetCursor(buffer.Pos{Line: c.Line, Col: m.buf.LineLen(c.Line)})

	default:
		return m.handleEdit(msg)
	}
	m.ensureVisible()
	return m, nil
}

// handleEdit applies text-changing keys. The preview pane is
// read-only.
func (m *Model) handleEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.preview {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		c := m.buf.Cursor()
		m.buf.Insert(c, "\n")
		m.buf.SetCursor(buffer.Pos{Line: c.Line + 1, Col: 0})
		m.dirty = true

	case tea.KeyBackspace:
		c := m.buf.Cursor()
		if c.Col > 0 {
			m.buf.ReplaceRange(buffer.Pos{Line: c.Line, Col: c.Col - 1}, c, "")
			m.buf.SetCursor(buffer.Pos{Line: c.Line, Col: c.Col - 1})
		} else if c.Line > 0 {
			joinCol := m.buf.LineLen(c.Line - 1)
			m.buf.ReplaceRange(buffer.Pos{Line: c.Line - 1, Col: joinCol}, c, "")
			m.buf.SetCursor(buffer.Pos{Line: c.Line - 1, Col: joinCol})
		}
		m.dirty = true

	case tea.KeyDelete:
		c := m.buf.Cursor()
		if c.Col < m.buf.LineLen(c.Line) {
			m.buf.ReplaceRange(c, buffer.Pos{Line: c.Line, Col: c.Col + 1}, "")
		} else if c.Line < m.buf.LineCount()-1 {
			m.buf.ReplaceRange(c, buffer.Pos{Line: c.Line + 1, Col: 0}, "")
		}
		m.dirty = true

	case tea.KeyTab:
		m.insertText("    ")

	case tea.KeySpace:
		m.insertText(" ")

	case tea.KeyRunes:
		m.insertText(string(msg.Runes))

	default:
		return m, nil
	}

	m.ensureVisible()

	// Passive trigger detection: typing the trigger phrase at the end
	// of a line starts a generation on that line.
	line := m.buf.Cursor().Line
	if m.orc.CheckLine(m.buf, line) {
		return m, m.startGeneration(line)
	}
	return m, nil
}

func (m *Model) insertText(text string) {
	c := m.buf.Cursor()
	m.buf.Insert(c, text)
	m.buf.SetCursor(buffer.Pos{Line: c.Line, Col: c.Col + util.RuneLen(text)})
	m.dirty = true
}

// =============================================================================
// CURSOR MOVEMENT
// =============================================================================

func (m *Model) moveCursor(dLine, dCol int) {
	c := m.buf.Cursor()
	m.buf.SetCursor(buffer.Pos{Line: c.Line + dLine, Col: c.Col + dCol})
}

func (m *Model) moveCursorLeft() {
	c := m.buf.Cursor()
	if c.Col > 0 {
		m.buf.SetCursor(buffer.Pos{Line: c.Line, Col: c.Col - 1})
	} else if c.Line > 0 {
		m.buf.SetCursor(buffer.Pos{Line: c.Line - 1, Col: m.buf.LineLen(c.Line - 1)})
	}
}

func (m *Model) moveCursorRight() {
	c := m.buf.Cursor()
	if c.Col < m.buf.LineLen(c.Line) {
		m.buf.SetCursor(buffer.Pos{Line: c.Line, Col: c.Col + 1})
	} else if c.Line < m.buf.LineCount()-1 {
		m.buf.SetCursor(buffer.Pos{Line: c.Line + 1, Col: 0})
	}
}

// ensureVisible scrolls so the cursor line is on screen.
func (m *Model) ensureVisible() {
	h := m.viewHeight()
	if h <= 0 {
		return
	}
	line := m.buf.Cursor().Line
	if line < m.top {
		m.top = line
	}
	if line >= m.top+h {
		m.top = line - h + 1
	}
	if m.top < 0 {
		m.top = 0
	}
}

// viewHeight is the number of buffer lines the view shows; the status
// bar takes the last row.
func (m *Model) viewHeight() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

// =============================================================================
// GENERATION
// =============================================================================

// startGeneration launches one generation for the line on its own
// goroutine. The buffer serializes edits, so typing during a stream is
// safe; the insertion cursor keeps the response anchored.
func (m *Model) startGeneration(line int) tea.Cmd {
	m.generating++
	go func() {
		_, err := m.orc.Generate(context.Background(), m.buf, line)
		m.events <- genDoneMsg{err: err}
	}()

	// The event pump armed in Init re-arms itself on every delivered
	// message; only the spinner and the repaint tick start here.
	return tea.Batch(m.spin.Start("Generating"), m.repaintTick())
}

func (m *Model) repaintTick() tea.Cmd {
	return tea.Tick(repaintInterval, func(time.Time) tea.Msg {
		return repaintMsg{}
	})
}

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// save writes the buffer atomically to its file path.
func (m *Model) save() {
	if m.filePath == "" {
		m.noticeNow("No file name; start rigwrite with a path to save")
		return
	}
	if err := util.AtomicWriteFile(m.filePath, []byte(m.buf.String()), 0o644); err != nil {
		m.noticeNow("Save failed: " + err.Error())
		return
	}
	m.dirty = false
	m.noticeNow("Saved " + m.filePath)
}

// noticeNow sets a notice from the UI goroutine, bypassing the event
// channel.
func (m *Model) noticeNow(text string) {
	m.noticeSeq++
	m.statusBar.Notice = text
}
