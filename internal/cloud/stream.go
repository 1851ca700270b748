// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// =============================================================================
// STREAM TYPES
// =============================================================================

// keepAliveComment is the comment line OpenRouter emits while the
// upstream model is still thinking. Ignored, like every SSE comment.
const keepAliveComment = ": OPENROUTER PROCESSING"

// doneSentinel terminates the data stream.
const doneSentinel = "[DONE]"

// URLCitation is a web-search source attached to a delta.
type URLCitation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Annotation is a citation annotation carried by a stream delta.
type Annotation struct {
	Type        string       `json:"type"`
	URLCitation *URLCitation `json:"url_citation,omitempty"`
}

// StreamEvent is one decoded event from the response stream. Exactly
// one invocation of the handler occurs per event, in network arrival
// order.
type StreamEvent struct {
	// Content is the incremental content fragment, possibly empty.
	Content string

	// Annotations are citation annotations carried by this delta.
	Annotations []Annotation

	// Err is set for in-band stream errors ("error: " lines). The
	// stream continues after such an event; the remote may still send
	// more data or the done sentinel.
	Err error
}

// StreamHandler consumes stream events. The decode loop does not read
// the next network chunk until the handler returns, so a handler that
// performs a buffer edit gives automatic backpressure.
type StreamHandler func(ev StreamEvent)

// InBandError is a mid-stream error reported by the remote on an
// "error: " line. It never aborts the read loop.
type InBandError struct {
	Message string
}

// Error implements the error interface.
func (e *InBandError) Error() string {
	return fmt.Sprintf("stream error: %s", e.Message)
}

// CompletionRequest describes one inline generation request.
type CompletionRequest struct {
	// Model is the target model identifier.
	Model string

	// System is the system prompt, already context-augmented.
	System string

	// Prompt is the user prompt.
	Prompt string

	// WebSearch attaches the web plugin to the request.
	WebSearch bool

	// WebEngine selects the search engine ("native", "exa"). Empty or
	// "auto" lets the backend decide.
	WebEngine string
}

// streamChunk is the wire shape of a data payload.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content     string       `json:"content"`
			Annotations []Annotation `json:"annotations"`
		} `json:"delta"`
	} `json:"choices"`
}

// =============================================================================
// STREAMING COMPLETION
// =============================================================================

// StreamCompletion issues a streaming completion request and invokes
// handler for every decoded event until the stream ends.
//
// Fails with ErrNotConfigured before any network activity when no API
// key is set. A non-2xx response fails with *APIError. Malformed data
// payloads are logged and skipped, never aborting the stream; in-band
// "error: " lines are delivered as events with Err set and the loop
// continues. A nil return means the stream ended normally.
func (c *Client) StreamCompletion(ctx context.Context, req CompletionRequest, handler StreamHandler) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body := chatRequest{
		Model:  req.Model,
		Stream: true,
		Messages: []ChatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
	}
	if req.WebSearch {
		plugin := Plugin{ID: "web"}
		if req.WebEngine != "" && req.WebEngine != "auto" {
			plugin.Engine = req.WebEngine
		}
		body.Plugins = []Plugin{plugin}
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := sharedStreamingClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		return &APIError{Status: resp.StatusCode, Body: bodyPrefix(raw)}
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return ErrEmptyBody
	}

	return c.decodeStream(ctx, resp.Body, handler)
}

// decodeStream reads the line-framed SSE body. Complete lines are
// processed as they arrive; a final fragment without a trailing
// newline is processed at EOF.
func (c *Client) decodeStream(ctx context.Context, body io.Reader, handler StreamHandler) error {
	reader := bufio.NewReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if line != "" {
			c.processLine(strings.TrimRight(line, "\r\n"), handler)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream read failed: %w", err)
		}
	}
}

// processLine handles one complete frame line.
func (c *Client) processLine(line string, handler StreamHandler) {
	switch {
	case line == "":
		// Blank separator between events.

	case line == keepAliveComment, strings.HasPrefix(line, ":"):
		// Keep-alive and other SSE comments.

	case strings.HasPrefix(line, "data: "):
		data := strings.TrimPrefix(line, "data: ")
		if data == doneSentinel {
			return
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// A single malformed payload never aborts the stream.
			log.Printf("skipping malformed stream chunk: %v", err)
			return
		}
		if len(chunk.Choices) == 0 {
			return
		}
		delta := chunk.Choices[0].Delta
		if delta.Content == "" && len(delta.Annotations) == 0 {
			return
		}
		handler(StreamEvent{Content: delta.Content, Annotations: delta.Annotations})

	case strings.HasPrefix(line, "error: "):
		handler(StreamEvent{Err: &InBandError{Message: strings.TrimPrefix(line, "error: ")}})
	}
}
