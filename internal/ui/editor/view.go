// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigwrite/internal/assistant"
	"github.com/jeranaias/rigwrite/internal/parse"
	"github.com/jeranaias/rigwrite/internal/ui/components"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var body string
	if m.preview {
		body = m.viewPreview()
	} else {
		body = m.viewSource()
	}

	cursor := m.buf.Cursor()
	m.statusBar.FileName = m.filePath
	m.statusBar.Dirty = m.dirty
	m.statusBar.Line = cursor.Line + 1
	m.statusBar.Col = cursor.Col + 1
	m.statusBar.Spinner = m.spin.View()

	return body + "\n" + m.statusBar.View()
}

// =============================================================================
// SOURCE VIEW
// =============================================================================

// viewSource renders the visible buffer window with line numbers,
// token highlighting and the cursor cell.
func (m *Model) viewSource() string {
	h := m.viewHeight()
	cursor := m.buf.Cursor()
	count := m.buf.LineCount()

	// Highlight fenced code up front so fences spanning the window
	// edge render consistently.
	lines := make([]string, 0, h)
	raw := make([]string, count)
	for i := 0; i < count; i++ {
		raw[i] = m.buf.Line(i)
	}
	highlighted := components.HighlightFences(raw, m.theme.IsDark)

	for i := m.top; i < m.top+h; i++ {
		var row string
		if i < count {
			text := highlighted[i]
			if text == raw[i] {
				// Not inside a fence: style tokens and trigger.
				text = m.styleLine(raw[i])
			}
			if i == cursor.Line {
				text = m.renderCursor(raw[i], cursor.Col)
			}
			row = text
		} else {
			row = m.theme.StatusHint.Render("~")
		}
		if m.showLineNumbers {
			num := ""
			if i < count {
				num = fmt.Sprintf("%d", i+1)
			}
			row = m.theme.LineNumber.Render(num) + row
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// styleLine applies @ token, trigger phrase and placeholder styling
// to one line.
func (m *Model) styleLine(text string) string {
	if assistant.IsPlaceholder(text) {
		return m.theme.Placeholder.Render(text)
	}

	body := text
	trigger := m.orc.Trigger()
	hasTrigger := trigger != "" && strings.HasSuffix(text, trigger)
	if hasTrigger {
		body = strings.TrimSuffix(text, trigger)
	}

	var sb strings.Builder
	prev := 0
	for _, span := range parse.Tokens(body) {
		sb.WriteString(m.theme.Text.Render(body[prev:span[0]]))
		sb.WriteString(m.theme.Token.Render(body[span[0]:span[1]]))
		prev = span[1]
	}
	sb.WriteString(m.theme.Text.Render(body[prev:]))
	if hasTrigger {
		sb.WriteString(m.theme.Trigger.Render(trigger))
	}
	return sb.String()
}

// renderCursor draws the cursor cell on its line. Rune-indexed, like
// all buffer columns.
func (m *Model) renderCursor(text string, col int) string {
	runes := []rune(text)
	if col > len(runes) {
		col = len(runes)
	}
	before := string(runes[:col])
	var at, after string
	if col < len(runes) {
		at = string(runes[col])
		after = string(runes[col+1:])
	} else {
		at = " "
	}
	return m.theme.CursorLine.Render(before) + m.theme.Cursor.Render(at) + m.theme.CursorLine.Render(after)
}

// =============================================================================
// PREVIEW VIEW
// =============================================================================

// togglePreview flips between source and rendered Markdown.
func (m *Model) togglePreview() {
	m.preview = !m.preview
	if !m.preview {
		return
	}
	text := m.buf.String()
	if m.renderer == nil {
		m.previewText = text
		return
	}
	rendered, err := m.renderer.Render(text)
	if err != nil {
		m.previewText = text
		return
	}
	m.previewText = rendered
}

// viewPreview shows the rendered document window.
func (m *Model) viewPreview() string {
	lines := strings.Split(m.previewText, "\n")
	h := m.viewHeight()
	top := m.top
	if top >= len(lines) {
		top = max(0, len(lines)-1)
	}
	end := min(len(lines), top+h)
	window := lines[top:end]
	for len(window) < h {
		window = append(window, "")
	}
	return strings.Join(window, "\n")
}
