// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigwrite/internal/cloud"
	"github.com/jeranaias/rigwrite/internal/history"
)

// =============================================================================
// SOURCE COLLECTION
// =============================================================================

// SourceList accumulates web-search citations across a stream,
// de-duplicated by URL. First occurrence wins, for both ordering and
// title, so a citation repeated on several deltas renders once.
type SourceList struct {
	order []string
	seen  map[string]string // url -> title
}

// NewSourceList returns an empty source list.
func NewSourceList() *SourceList {
	return &SourceList{seen: make(map[string]string)}
}

// Add collects the URL citations from one delta's annotations.
// Annotations without a URL citation are ignored.
func (s *SourceList) Add(annotations []cloud.Annotation) {
	for _, a := range annotations {
		if a.URLCitation == nil || a.URLCitation.URL == "" {
			continue
		}
		url := a.URLCitation.URL
		if _, ok := s.seen[url]; ok {
			continue
		}
		s.seen[url] = a.URLCitation.Title
		s.order = append(s.order, url)
	}
}

// Empty reports whether no citations were collected.
func (s *SourceList) Empty() bool {
	return len(s.order) == 0
}

// Markdown renders the collected citations as a Sources section,
// separated from the response by a blank line. Returns "" when empty.
// The caller styles the result for the active response style.
func (s *SourceList) Markdown() string {
	if s.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n**Sources:**")
	for _, url := range s.order {
		title := s.seen[url]
		if title == "" {
			title = url
		}
		fmt.Fprintf(&sb, "\n- [%s](%s)", title, url)
	}
	return sb.String()
}

// Entries returns the citations in collection order for the history
// log.
func (s *SourceList) Entries() []history.Source {
	if s.Empty() {
		return nil
	}
	out := make([]history.Source, 0, len(s.order))
	for _, url := range s.order {
		out = append(out, history.Source{URL: url, Title: s.seen[url]})
	}
	return out
}
