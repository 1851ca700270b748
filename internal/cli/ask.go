// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot and interactive question command for rigwrite.
//
// Command: ask [question]
// Short:   Ask a single question without opening the editor
//
// Examples:
//   rigwrite ask "What is a zero-copy buffer?"
//   rigwrite ask -m @reviewer "Critique this paragraph" -f draft.md
//   rigwrite ask --web "Latest Go release notes"
//   rigwrite ask                (interactive prompt loop)
//
// The response streams to stdout as it arrives. On a TTY the full
// response is re-rendered through Glamour when the stream completes;
// piped output stays raw.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/rigwrite/internal/cloud"
	"github.com/jeranaias/rigwrite/internal/config"
	"github.com/jeranaias/rigwrite/internal/parse"
	"github.com/jeranaias/rigwrite/internal/persona"
)

// maxIncludeFileSize bounds --file content (50KB).
const maxIncludeFileSize = 50 * 1024

// markdownRenderer is the shared glamour renderer for ask output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(TermWidth(), 100)),
	)
	if err != nil {
		markdownRenderer = nil // fall back to raw text
	}
}

func renderMarkdown(content string) string {
	if markdownRenderer == nil || !IsStdoutTTY() {
		return content
	}
	out, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// =============================================================================
// ASK COMMAND HANDLER
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	client, err := newCloudClient(cfg)
	if err != nil {
		return err
	}

	if args.Query == "" {
		if !IsTTY() {
			return fmt.Errorf("no question given and stdin is not a terminal")
		}
		return runInteractive(cfg, client, args)
	}
	return runOnce(cfg, client, args, args.Query)
}

// newCloudClient builds the completion client from config, resolving
// an encrypted API key through the keystore.
func newCloudClient(cfg *config.Config) (*cloud.Client, error) {
	key, err := config.DefaultKeystore().ResolveAPIKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve API key: %w", err)
	}
	client := cloud.NewClient(key)
	if cfg.Cloud.BaseURL != "" {
		client = client.WithBaseURL(cfg.Cloud.BaseURL)
	}
	return client, nil
}

// runOnce sends one question and streams the answer to stdout.
func runOnce(cfg *config.Config, client *cloud.Client, args Args, query string) error {
	if !client.IsConfigured() {
		return fmt.Errorf("API key not configured; run: rigwrite setup")
	}

	prompt := query
	if args.File != "" {
		content, err := readIncludeFile(args.File)
		if err != nil {
			return err
		}
		prompt = query + "\n\n" + content
	}

	// The prompt accepts the same "+web" marker as the editor.
	prompt, wantWeb := parse.StripWebFlag(prompt)
	policy := cfg.Generation.WebSearch
	webSearch := args.Web || policy == "always" || (policy == "on-flag" && wantWeb)

	token := strings.TrimPrefix(args.Model, "@")
	if token == "" {
		token = defaultModel(cfg)
	}
	res := persona.Resolve(token, cfg.Personas)

	var sb strings.Builder
	handler := func(ev cloud.StreamEvent) {
		if ev.Err != nil {
			fmt.Fprintf(os.Stderr, "\nstream error: %v\n", ev.Err)
			return
		}
		if ev.Content == "" {
			return
		}
		sb.WriteString(ev.Content)
		if args.Plain || !IsStdoutTTY() {
			fmt.Print(ev.Content)
		}
	}

	if !args.Quiet && IsStdoutTTY() {
		fmt.Println(MutedStyle.Render("model: " + res.Model))
	}
	err := client.StreamCompletion(context.Background(), cloud.CompletionRequest{
		Model:     res.Model,
		System:    res.SystemPrompt,
		Prompt:    prompt,
		WebSearch: webSearch,
		WebEngine: cfg.Generation.WebEngine,
	}, handler)
	if err != nil {
		return err
	}

	response := sb.String()
	switch {
	case args.JSON:
		out, _ := json.Marshal(map[string]string{
			"model":    res.Model,
			"prompt":   prompt,
			"response": response,
		})
		fmt.Println(string(out))
	case args.Plain || !IsStdoutTTY():
		fmt.Println()
	default:
		fmt.Print(renderMarkdown(response))
	}
	return nil
}

// defaultModel picks the model used when ask has no -m flag: the
// first configured model, or a sensible fallback.
func defaultModel(cfg *config.Config) string {
	if len(cfg.Cloud.Models) > 0 {
		return cfg.Cloud.Models[0]
	}
	return "openai/gpt-4o-mini"
}

func readIncludeFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot include %s: %w", path, err)
	}
	if info.Size() > maxIncludeFileSize {
		return "", fmt.Errorf("file %s exceeds %d bytes", path, maxIncludeFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot include %s: %w", path, err)
	}
	return fmt.Sprintf("--- %s ---\n%s", filepath.Base(path), data), nil
}

// =============================================================================
// INTERACTIVE MODE
// =============================================================================

// askHistoryFile stores liner history across interactive sessions.
func askHistoryFile() string {
	return filepath.Join(config.Dir(), "ask_history")
}

// runInteractive runs a prompt loop with line editing and history.
func runInteractive(cfg *config.Config, client *cloud.Client, args Args) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(askHistoryFile()); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(askHistoryFile()); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(TitleStyle.Render("rigwrite ask") + MutedStyle.Render("  (empty line or Ctrl+D to quit)"))
	for {
		query, err := line.Prompt("> ")
		if err == liner.ErrPromptAborted || err != nil {
			return nil
		}
		query = strings.TrimSpace(query)
		if query == "" {
			return nil
		}
		line.AppendHistory(query)

		if err := runOnce(cfg, client, args, query); err != nil {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render(err.Error()))
		}
	}
}
