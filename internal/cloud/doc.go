// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud implements the OpenRouter-compatible completion client
// used for inline generation.
//
// The client issues streaming chat-completion requests and decodes the
// line-oriented SSE response body incrementally. Events are delivered
// synchronously through a handler callback: no chunk is read from the
// network before the previous chunk's handler returns, so insertion
// backpressure is automatic.
package cloud
