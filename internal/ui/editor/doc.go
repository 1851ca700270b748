// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor provides the Bubble Tea editor host for rigwrite.
//
// The editor is a line-oriented Markdown buffer view: the user types
// into a buffer.Buffer, and generations run against the same buffer
// from a background goroutine. The Bubble Tea model never blocks on
// the network: Generate results, phase changes and notices arrive as
// messages through an internal event channel, and a repaint tick keeps
// the view current while deltas stream in.
//
// Generation starts two ways: typing the trigger phrase at the end of
// a line, or Ctrl+G on the cursor line.
package editor
