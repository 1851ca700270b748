// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the rigwrite
// TUI.
//
// Colors are Lip Gloss AdaptiveColor values so light and dark
// terminals both get readable contrast without configuration. Theme
// bundles the prebuilt lipgloss styles the editor and its components
// render with; build one per program with NewTheme and share it.
package styles
