// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// =============================================================================
// FENCED CODE HIGHLIGHTING
// =============================================================================

// HighlightFences walks a Markdown document and syntax-highlights the
// contents of fenced code blocks in place, leaving all other lines
// untouched. Used by the editor's source view; the preview pane gets
// highlighting from Glamour instead.
func HighlightFences(lines []string, dark bool) []string {
	out := make([]string, len(lines))
	var code []string
	var lang string
	var fenceStart int
	inFence := false

	for i, line := range lines {
		if strings.HasPrefix(line, "```") {
			if !inFence {
				inFence = true
				fenceStart = i
				lang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				code = code[:0]
				out[i] = line
				continue
			}
			// Closing fence: highlight the collected block.
			highlighted := highlightCode(strings.Join(code, "\n"), lang, dark)
			hlines := strings.Split(highlighted, "\n")
			for j, h := range hlines {
				if fenceStart+1+j < i {
					out[fenceStart+1+j] = h
				}
			}
			inFence = false
			out[i] = line
			continue
		}
		if inFence {
			code = append(code, line)
			out[i] = line // overwritten on fence close
			continue
		}
		out[i] = line
	}
	return out
}

// highlightCode renders source through chroma for terminal output.
// Returns the input unchanged when the language is unknown or
// formatting fails; a plain block beats a broken one.
func highlightCode(code, language string, dark bool) string {
	if code == "" {
		return code
	}

	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "github"
	if dark {
		styleName = "catppuccin-mocha"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
