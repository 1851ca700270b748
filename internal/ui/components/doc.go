// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the rigwrite TUI.
//
// Components are plain values rendered into strings; the editor model
// owns them and feeds them state. None of them touch the document
// buffer directly.
package components
