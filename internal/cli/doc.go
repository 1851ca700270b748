// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements command parsing and the non-TUI command
// handlers for rigwrite.
//
// The default command opens the editor; the rest are one-shot
// utilities (ask, models, personas, config, setup, history, version)
// that print to stdout and exit. Handlers return errors instead of
// calling os.Exit so main owns the process exit code.
package cli
