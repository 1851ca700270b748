// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigwrite/internal/buffer"
	"github.com/jeranaias/rigwrite/internal/cloud"
	"github.com/jeranaias/rigwrite/internal/history"
	"github.com/jeranaias/rigwrite/internal/parse"
	"github.com/jeranaias/rigwrite/internal/persona"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeCompleter struct {
	configured bool
	events     []cloud.StreamEvent
	err        error
	gotReq     cloud.CompletionRequest
	calls      int
}

func (f *fakeCompleter) IsConfigured() bool { return f.configured }

func (f *fakeCompleter) StreamCompletion(ctx context.Context, req cloud.CompletionRequest, handler cloud.StreamHandler) error {
	f.gotReq = req
	f.calls++
	if f.err != nil {
		return f.err
	}
	for _, ev := range f.events {
		handler(ev)
	}
	return nil
}

type captureNotifier struct {
	msgs []string
}

func (n *captureNotifier) Notify(msg string) { n.msgs = append(n.msgs, msg) }

func (n *captureNotifier) contains(sub string) bool {
	for _, m := range n.msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

type captureRecorder struct {
	entries []history.Entry
}

func (r *captureRecorder) Record(_ context.Context, e history.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func deltas(parts ...string) []cloud.StreamEvent {
	evs := make([]cloud.StreamEvent, 0, len(parts))
	for _, p := range parts {
		evs = append(evs, cloud.StreamEvent{Content: p})
	}
	return evs
}

func testSettings(mut func(*Settings)) func() Settings {
	s := Settings{
		TriggerPhrase: ";;",
		Style:         StylePlain,
		Cursor:        CursorKeep,
		WebSearch:     WebOnFlag,
	}
	if mut != nil {
		mut(&s)
	}
	return func() Settings { return s }
}

// =============================================================================
// GENERATE
// =============================================================================

func TestGeneratePlainEndToEnd(t *testing.T) {
	b := buffer.FromString("@openai/gpt-4o-mini write a haiku ;;")
	client := &fakeCompleter{configured: true, events: deltas("Hel", "lo")}
	notes := &captureNotifier{}
	o := New(client, notes, testSettings(nil))

	result, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	assert.Equal(t, "@openai/gpt-4o-mini write a haiku\n\nHello", b.String())
	assert.Equal(t, "openai/gpt-4o-mini", client.gotReq.Model)
	assert.Equal(t, "write a haiku", client.gotReq.Prompt)
	assert.False(t, client.gotReq.WebSearch)
	assert.Equal(t, "Hello", result.Response)
	assert.Empty(t, notes.msgs)
}

func TestGenerateCalloutEndToEnd(t *testing.T) {
	b := buffer.FromString("@gpt write ;;")
	client := &fakeCompleter{configured: true, events: deltas("first line\nsecond")}
	o := New(client, &captureNotifier{}, testSettings(func(s *Settings) {
		s.Style = StyleCallout
	}))

	_, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	want := "@gpt write\n\n> [!ai]+ AI\n> first line\n> second"
	assert.Equal(t, want, b.String())
}

func TestGenerateDividerEndToEnd(t *testing.T) {
	b := buffer.FromString("@gpt write ;;")
	client := &fakeCompleter{configured: true, events: deltas("Hello")}
	o := New(client, &captureNotifier{}, testSettings(func(s *Settings) {
		s.Style = StyleDivider
	}))

	_, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	want := "@gpt write\n\n---\n\nHello\n\n---"
	assert.Equal(t, want, b.String())
}

func TestGenerateChunkingInvariant(t *testing.T) {
	// Identical responses split differently across deltas finalize to
	// identical buffers.
	run := func(parts ...string) string {
		b := buffer.FromString("@gpt summarize ;;")
		client := &fakeCompleter{configured: true, events: deltas(parts...)}
		o := New(client, &captureNotifier{}, testSettings(nil))
		_, err := o.Generate(context.Background(), b, 0)
		require.NoError(t, err)
		return b.String()
	}

	whole := run("A short answer.\nWith a second line.")
	split := run("A short ", "answer.\nWith a ", "second line.")
	assert.Equal(t, whole, split)
}

func TestGenerateSourcesAppendedOnce(t *testing.T) {
	b := buffer.FromString("@gpt look this up ;;")
	client := &fakeCompleter{configured: true, events: []cloud.StreamEvent{
		{Content: "ans", Annotations: []cloud.Annotation{cite("https://a.example", "A")}},
		{Content: "!", Annotations: []cloud.Annotation{cite("https://a.example", "A"), cite("https://b.example", "B")}},
	}}
	o := New(client, &captureNotifier{}, testSettings(nil))

	result, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	want := "@gpt look this up\n\nans!\n\n**Sources:**\n- [A](https://a.example)\n- [B](https://b.example)"
	assert.Equal(t, want, b.String())
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "https://a.example", result.Sources[0].URL)
}

func TestGenerateCalloutSourcesQuoted(t *testing.T) {
	b := buffer.FromString("@gpt look ;;")
	client := &fakeCompleter{configured: true, events: []cloud.StreamEvent{
		{Content: "ans", Annotations: []cloud.Annotation{cite("https://a.example", "A")}},
	}}
	o := New(client, &captureNotifier{}, testSettings(func(s *Settings) {
		s.Style = StyleCallout
	}))

	_, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	want := "@gpt look\n\n> [!ai]+ AI\n> ans\n> \n> **Sources:**\n> - [A](https://a.example)"
	assert.Equal(t, want, b.String())
}

// =============================================================================
// ERROR PATHS
// =============================================================================

func TestGenerateNoReferenceLeavesBufferUntouched(t *testing.T) {
	b := buffer.FromString("no token here ;;")
	before := b.String()
	client := &fakeCompleter{configured: true}
	notes := &captureNotifier{}
	o := New(client, notes, testSettings(nil))

	_, err := o.Generate(context.Background(), b, 0)
	require.ErrorIs(t, err, parse.ErrNoReference)

	assert.Equal(t, before, b.String())
	assert.Zero(t, client.calls)
	assert.True(t, notes.contains("No @model or @persona reference"))
}

func TestGenerateEmptyPromptLeavesBufferUntouched(t *testing.T) {
	b := buffer.FromString("@gpt ;;")
	before := b.String()
	o := New(&fakeCompleter{configured: true}, &captureNotifier{}, testSettings(nil))

	_, err := o.Generate(context.Background(), b, 0)
	require.Error(t, err)
	assert.Equal(t, before, b.String())
}

func TestGenerateNotConfiguredLeavesBufferUntouched(t *testing.T) {
	b := buffer.FromString("@gpt hello ;;")
	before := b.String()
	notes := &captureNotifier{}
	o := New(&fakeCompleter{configured: false}, notes, testSettings(nil))

	_, err := o.Generate(context.Background(), b, 0)
	require.ErrorIs(t, err, cloud.ErrNotConfigured)

	assert.Equal(t, before, b.String())
	assert.True(t, notes.contains("rigwrite setup"))
}

func TestGenerateHTTPErrorStopsAnimation(t *testing.T) {
	b := buffer.FromString("@gpt hello ;;")
	client := &fakeCompleter{configured: true, err: &cloud.APIError{Status: 401, Body: "unauthorized"}}
	notes := &captureNotifier{}
	o := New(client, notes, testSettings(nil))

	_, err := o.Generate(context.Background(), b, 0)
	require.Error(t, err)

	// Trigger stripped, placeholder left in place.
	assert.Equal(t, "@gpt hello", b.Line(0))
	assert.True(t, strings.HasSuffix(b.Line(2), placeholderMessage), "placeholder gone: %q", b.Line(2))
	assert.True(t, notes.contains("401"), "notices: %v", notes.msgs)

	// Animation must be stopped: the buffer stays frozen.
	time.Sleep(150 * time.Millisecond)
	frozen := b.String()
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, frozen, b.String())
}

func TestGenerateInBandErrorKeepsStreaming(t *testing.T) {
	b := buffer.FromString("@gpt hello ;;")
	client := &fakeCompleter{configured: true, events: []cloud.StreamEvent{
		{Content: "part"},
		{Err: &cloud.InBandError{Message: "overloaded"}},
		{Content: "ial"},
	}}
	notes := &captureNotifier{}
	o := New(client, notes, testSettings(nil))

	_, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	assert.Equal(t, "@gpt hello\n\npartial", b.String())
	assert.True(t, notes.contains("overloaded"))
}

func TestGenerateEmptyStreamNotifies(t *testing.T) {
	b := buffer.FromString("@gpt hello ;;")
	client := &fakeCompleter{configured: true}
	notes := &captureNotifier{}
	o := New(client, notes, testSettings(nil))

	_, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)
	assert.True(t, notes.contains("no content"))
	// Placeholder stays; nothing arrived to replace it.
	assert.True(t, strings.HasSuffix(b.Line(2), placeholderMessage))
}

// =============================================================================
// REQUEST SHAPING
// =============================================================================

func TestGenerateWebSearchPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy WebSearchPolicy
		prompt string
		want   bool
	}{
		{"on-flag with flag", WebOnFlag, "look up +web ;;", true},
		{"on-flag without flag", WebOnFlag, "look up ;;", false},
		{"always without flag", WebAlways, "look up ;;", true},
		{"off with flag", WebOff, "look up +web ;;", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := buffer.FromString("@gpt " + tc.prompt)
			client := &fakeCompleter{configured: true, events: deltas("ok")}
			o := New(client, &captureNotifier{}, testSettings(func(s *Settings) {
				s.WebSearch = tc.policy
			}))

			_, err := o.Generate(context.Background(), b, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, client.gotReq.WebSearch)
			// The flag never reaches the prompt regardless of policy.
			assert.Equal(t, "look up", client.gotReq.Prompt)
		})
	}
}

func TestGeneratePersonaResolution(t *testing.T) {
	b := buffer.FromString("notes from the meeting\n@reviewer check this ;;")
	client := &fakeCompleter{configured: true, events: deltas("ok")}
	o := New(client, &captureNotifier{}, testSettings(func(s *Settings) {
		s.Personas = []persona.Persona{
			{Name: "reviewer", Model: "anthropic/claude-sonnet-4", SystemPrompt: "You review text critically."},
		}
	}))

	result, err := o.Generate(context.Background(), b, 1)
	require.NoError(t, err)

	assert.Equal(t, "anthropic/claude-sonnet-4", client.gotReq.Model)
	assert.True(t, strings.HasPrefix(client.gotReq.System, "You review text critically."))
	assert.Contains(t, client.gotReq.System, "notes from the meeting")
	assert.Equal(t, "reviewer", result.Persona)
}

func TestGenerateLiteralModelGetsDefaultSystem(t *testing.T) {
	b := buffer.FromString("@openai/gpt-4o hello ;;")
	client := &fakeCompleter{configured: true, events: deltas("ok")}
	o := New(client, &captureNotifier{}, testSettings(nil))

	result, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o", client.gotReq.Model)
	assert.True(t, strings.HasPrefix(client.gotReq.System, defaultSystemPrompt))
	assert.Empty(t, result.Persona)
}

// =============================================================================
// FINALIZATION
// =============================================================================

func TestGenerateCursorToEnd(t *testing.T) {
	b := buffer.FromString("@gpt hello ;;")
	client := &fakeCompleter{configured: true, events: deltas("response")}
	o := New(client, &captureNotifier{}, testSettings(func(s *Settings) {
		s.Cursor = CursorToEnd
	}))

	_, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	assert.Equal(t, "@gpt hello\n\nresponse\n", b.String())
	assert.Equal(t, buffer.Pos{Line: 3, Col: 0}, b.Cursor())
}

func TestGenerateRecordsHistory(t *testing.T) {
	b := buffer.FromString("@gpt hello ;;")
	client := &fakeCompleter{configured: true, events: deltas("hi ", "there")}
	rec := &captureRecorder{}
	o := New(client, &captureNotifier{}, testSettings(nil)).WithRecorder(rec)

	_, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)

	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.Equal(t, "gpt", e.Model)
	assert.Equal(t, "hello", e.Prompt)
	assert.Equal(t, "hi there", e.Response)
}

func TestGeneratePhases(t *testing.T) {
	b := buffer.FromString("@gpt hello ;;")
	client := &fakeCompleter{configured: true, events: deltas("ok")}
	o := New(client, &captureNotifier{}, testSettings(nil))

	var phases []Phase
	o.OnPhase = func(p Phase) { phases = append(phases, p) }

	_, err := o.Generate(context.Background(), b, 0)
	require.NoError(t, err)
	assert.Equal(t, []Phase{PhaseReferenceResolved, PhaseAwaitingFirstByte, PhaseStreaming, PhaseFinalized}, phases)
}

func TestCheckLine(t *testing.T) {
	o := New(&fakeCompleter{}, &captureNotifier{}, testSettings(nil))
	b := buffer.FromString("@gpt hello ;;\nplain text")

	assert.True(t, o.CheckLine(b, 0))
	assert.False(t, o.CheckLine(b, 1))
}
