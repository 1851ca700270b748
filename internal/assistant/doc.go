// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant orchestrates inline AI generation in a buffer.
//
// An invocation starts at a line whose text ends with the trigger
// phrase. The orchestrator resolves the nearest preceding @ token to a
// model, strips the trigger, inserts an animated placeholder below the
// line and streams the completion into the buffer as it arrives. The
// first delta replaces the placeholder line; every later delta is a
// pure insertion at a tracked position, so user edits elsewhere in the
// document are never overwritten.
//
// All buffer mutation goes through buffer.Buffer, whose operations are
// individually atomic. Within one invocation the stream handler runs
// deltas strictly in arrival order, and the network is not read ahead
// of the handler, so a slow buffer applies backpressure to the stream.
package assistant
