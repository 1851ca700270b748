// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jeranaias/rigwrite/internal/buffer"
	"github.com/jeranaias/rigwrite/internal/cloud"
	"github.com/jeranaias/rigwrite/internal/config"
	"github.com/jeranaias/rigwrite/internal/history"
	"github.com/jeranaias/rigwrite/internal/parse"
	"github.com/jeranaias/rigwrite/internal/persona"
	"github.com/jeranaias/rigwrite/internal/util"
)

// =============================================================================
// SETTINGS
// =============================================================================

// WebSearchPolicy controls when requests carry the web plugin.
type WebSearchPolicy int

const (
	// WebOnFlag enables search only when the prompt ends with "+web".
	WebOnFlag WebSearchPolicy = iota

	// WebAlways enables search on every request.
	WebAlways

	// WebOff never enables search; "+web" is still stripped.
	WebOff
)

// ParseWebSearchPolicy maps a configuration string to a policy.
func ParseWebSearchPolicy(s string) WebSearchPolicy {
	switch s {
	case "always":
		return WebAlways
	case "off":
		return WebOff
	default:
		return WebOnFlag
	}
}

// defaultSystemPrompt is used when the resolved persona carries no
// override.
const defaultSystemPrompt = "You are a writing assistant embedded in a text editor. " +
	"Your responses are inserted directly into the user's document, so answer " +
	"with the content itself: no preamble, no sign-off, Markdown formatting only " +
	"where it helps."

// Settings is the per-invocation snapshot of generation configuration.
// Snapshotting at invocation start means a concurrent config reload
// never changes a generation mid-flight.
type Settings struct {
	TriggerPhrase string
	Style         ResponseStyle
	Cursor        CursorBehavior
	WebSearch     WebSearchPolicy
	WebEngine     string
	Personas      []persona.Persona
}

// SettingsFromConfig derives invocation settings from a loaded config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		TriggerPhrase: cfg.Generation.TriggerPhrase,
		Style:         ParseStyle(cfg.Generation.ResponseStyle),
		Cursor:        ParseCursorBehavior(cfg.Generation.CursorBehavior),
		WebSearch:     ParseWebSearchPolicy(cfg.Generation.WebSearch),
		WebEngine:     cfg.Generation.WebEngine,
		Personas:      cfg.Personas,
	}
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// Notifier receives user-facing notices (errors, status messages).
// The TUI host surfaces them in the status bar.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// Completer is the streaming completion backend. *cloud.Client
// satisfies it.
type Completer interface {
	IsConfigured() bool
	StreamCompletion(ctx context.Context, req cloud.CompletionRequest, handler cloud.StreamHandler) error
}

// Recorder persists finished generations. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Phase is the lifecycle stage of one invocation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReferenceResolved
	PhaseAwaitingFirstByte
	PhaseStreaming
	PhaseFinalized
)

// Result summarizes a finished generation.
type Result struct {
	Model    string
	Persona  string
	Prompt   string
	Response string
	Sources  []history.Source
	Duration time.Duration
	TTFT     time.Duration
}

// Orchestrator runs inline generations against a buffer. It is safe
// for concurrent use: each Generate call keeps all per-invocation
// state in locals, and the buffer serializes individual edits, so
// overlapping invocations on different document regions interleave
// without corrupting each other.
type Orchestrator struct {
	client   Completer
	notifier Notifier
	recorder Recorder // nil disables history
	settings func() Settings

	// OnPhase, when set, observes lifecycle transitions. Called from
	// the Generate goroutine; hosts use it for status display.
	OnPhase func(Phase)
}

// New creates an orchestrator. The settings function is called once
// per invocation; wiring it to the live config lets reloads take
// effect on the next generation.
func New(client Completer, notifier Notifier, settings func() Settings) *Orchestrator {
	return &Orchestrator{
		client:   client,
		notifier: notifier,
		settings: settings,
	}
}

// WithRecorder enables history logging.
func (o *Orchestrator) WithRecorder(r Recorder) *Orchestrator {
	o.recorder = r
	return o
}

// Trigger returns the trigger phrase from the current settings
// snapshot, for hosts that highlight it in the document view.
func (o *Orchestrator) Trigger() string {
	return o.settings().TriggerPhrase
}

// CheckLine reports whether the line invokes a generation, for the
// passive document-change path. The host calls Generate when true.
func (o *Orchestrator) CheckLine(b *buffer.Buffer, line int) bool {
	return parse.HasTrigger(b.Line(line), o.settings().TriggerPhrase)
}

// Generate runs one inline generation for the invocation line. It
// blocks until the stream finishes; the host runs it on its own
// goroutine. Error paths before any mutation leave the buffer
// byte-identical; later errors stop the animation, notify, and leave
// partial content in place rather than rolling it back.
func (o *Orchestrator) Generate(ctx context.Context, b *buffer.Buffer, line int) (*Result, error) {
	s := o.settings()

	// --- Resolve: no buffer mutation until this whole block passes.
	ref, err := parse.FindReference(b, line)
	if err != nil {
		o.notify("No @model or @persona reference found above the cursor")
		return nil, err
	}
	res := persona.Resolve(ref.Token, s.Personas)
	prompt := parse.Prompt(b, ref, line, s.TriggerPhrase)
	prompt, wantWeb := parse.StripWebFlag(prompt)
	if prompt == "" {
		o.notify("Nothing to send: the prompt after @" + ref.Token + " is empty")
		return nil, fmt.Errorf("empty prompt for @%s", ref.Token)
	}
	if !o.client.IsConfigured() {
		o.notify("API key not configured. Run: rigwrite setup")
		return nil, cloud.ErrNotConfigured
	}
	docContext := parse.Context(b, ref)
	webSearch := s.WebSearch == WebAlways || (s.WebSearch == WebOnFlag && wantWeb)

	req := cloud.CompletionRequest{
		Model:     res.Model,
		System:    systemPromptFor(res, docContext),
		Prompt:    prompt,
		WebSearch: webSearch,
		WebEngine: s.WebEngine,
	}
	o.phase(PhaseReferenceResolved)

	// --- Mutate: strip trigger, open the response block, start the
	// spinner. One Insert carries the preamble and the placeholder so
	// the layout appears atomically.
	stripped := parse.StripTrigger(b.Line(line), s.TriggerPhrase)
	b.ReplaceLine(line, stripped)
	b.Insert(buffer.Pos{Line: line, Col: util.RuneLen(stripped)}, s.Style.preamble()+Placeholder())

	genLine := line + s.Style.PlaceholderOffset()
	anim := NewAnimator(b, genLine, s.Style)
	anim.Start()
	defer anim.Stop()

	cursor := NewInsertionCursor(b, genLine, s.Style)
	sources := NewSourceList()
	var response strings.Builder
	var ttft time.Duration
	start := time.Now()
	o.phase(PhaseAwaitingFirstByte)

	handler := func(ev cloud.StreamEvent) {
		if ev.Err != nil {
			// In-band errors do not abort the stream; surface and
			// keep reading.
			o.notify(fmt.Sprintf("Generation error: %v", ev.Err))
			return
		}
		sources.Add(ev.Annotations)
		if ev.Content == "" {
			return
		}
		if !cursor.Started() {
			anim.Stop()
			ttft = time.Since(start)
			o.phase(PhaseStreaming)
		}
		cursor.WriteDelta(ev.Content)
		response.WriteString(ev.Content)
	}
	if streamErr := o.client.StreamCompletion(ctx, req, handler); streamErr != nil {
		anim.Stop()
		o.notify(fmt.Sprintf("Generation failed: %v", streamErr))
		o.phase(PhaseIdle)
		return nil, streamErr
	}

	// --- Finalize.
	anim.Stop()
	if cursor.Started() {
		if md := sources.Markdown(); md != "" {
			cursor.Insert(s.Style.transform(md))
		}
		cursor.Insert(s.Style.trailer())
		cursor.Finish(s.Cursor)
	} else {
		o.notify("The model returned no content")
	}
	o.phase(PhaseFinalized)

	result := &Result{
		Model:    res.Model,
		Persona:  res.Persona,
		Prompt:   prompt,
		Response: response.String(),
		Sources:  sources.Entries(),
		Duration: time.Since(start),
		TTFT:     ttft,
	}
	o.record(ctx, result)
	return result, nil
}

func (o *Orchestrator) phase(p Phase) {
	if o.OnPhase != nil {
		o.OnPhase(p)
	}
}

func (o *Orchestrator) notify(message string) {
	if o.notifier != nil {
		o.notifier.Notify(message)
	}
}

// record persists the generation. Logging failures must not fail the
// generation; the content is already in the buffer.
func (o *Orchestrator) record(ctx context.Context, r *Result) {
	if o.recorder == nil || r.Response == "" {
		return
	}
	err := o.recorder.Record(ctx, history.Entry{
		Model:      r.Model,
		Persona:    r.Persona,
		Prompt:     r.Prompt,
		Response:   r.Response,
		Sources:    r.Sources,
		DurationMs: r.Duration.Milliseconds(),
		TTFTMs:     r.TTFT.Milliseconds(),
	})
	if err != nil {
		log.Printf("history: record failed: %v", err)
	}
}

// systemPromptFor composes the system prompt: persona override or the
// default, augmented with the document text preceding the reference.
func systemPromptFor(res persona.Resolution, docContext string) string {
	base := res.SystemPrompt
	if base == "" {
		base = defaultSystemPrompt
	}
	docContext = strings.TrimSpace(docContext)
	if docContext == "" {
		return base
	}
	return base + "\n\nDocument context (text preceding the request):\n" + docContext
}
