// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run wizard for rigwrite.
//
// Command: setup
// Short:   Interactive first-run configuration
// Aliases: init
//
// The wizard walks through:
//   1. OpenRouter API key entry (no echo) and encrypted storage
//   2. Key verification against the models endpoint
//   3. Default model selection
//   4. Response style and trigger phrase

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/rigwrite/internal/cloud"
	"github.com/jeranaias/rigwrite/internal/config"
)

// =============================================================================
// SETUP COMMAND HANDLER
// =============================================================================

// HandleSetup handles the "setup" command.
func HandleSetup(args Args) error {
	if !IsTTY() {
		return fmt.Errorf("setup requires an interactive terminal")
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		cfg = config.Default()
	}
	reader := bufio.NewReader(os.Stdin)

	fmt.Println(TitleStyle.Render("rigwrite setup"))

	// --- 1. API key, read without echo.
	fmt.Print("OpenRouter API key (input hidden, empty keeps current): ")
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	key := strings.TrimSpace(string(keyBytes))

	if key != "" {
		encrypted, err := config.DefaultKeystore().Encrypt(key)
		if err != nil {
			return fmt.Errorf("failed to encrypt key: %w", err)
		}
		cfg.Cloud.APIKey = encrypted
	}

	// --- 2. Verify the key and fetch the model catalog.
	resolved, err := config.DefaultKeystore().ResolveAPIKey(cfg)
	if err != nil || resolved == "" {
		return fmt.Errorf("no API key configured")
	}
	client := cloud.NewClient(resolved)
	if cfg.Cloud.BaseURL != "" {
		client = client.WithBaseURL(cfg.Cloud.BaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	models, err := client.ListModels(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("key verification failed: %w", err)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Key verified; %d models available.", len(models))))

	// --- 3. Default model.
	suggestions := []string{
		"openai/gpt-4o-mini",
		"anthropic/claude-sonnet-4",
		"google/gemini-2.0-flash-001",
	}
	fmt.Println("\nDefault model:")
	for i, m := range suggestions {
		fmt.Printf("  %d) %s\n", i+1, AccentStyle.Render(m))
	}
	fmt.Print("Choice [1], or type a model id: ")
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	model := suggestions[0]
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(suggestions) {
		model = suggestions[n-1]
	} else if choice != "" {
		model = choice
	}
	cfg.Cloud.Models = prependUnique(model, cfg.Cloud.Models)

	// --- 4. Style and trigger.
	fmt.Printf("Response style (plain/divider/callout) [%s]: ", cfg.Generation.ResponseStyle)
	if style, _ := reader.ReadString('\n'); strings.TrimSpace(style) != "" {
		cfg.Generation.ResponseStyle = strings.TrimSpace(style)
	}
	fmt.Printf("Trigger phrase [%s]: ", cfg.Generation.TriggerPhrase)
	if trigger, _ := reader.ReadString('\n'); strings.TrimSpace(trigger) != "" {
		cfg.Generation.TriggerPhrase = strings.TrimSpace(trigger)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(config.DefaultPath()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println(SuccessStyle.Render("\nConfiguration written to " + config.DefaultPath()))
	fmt.Println(MutedStyle.Render("Try: rigwrite notes.md, then type  @" + model + " say hello ;;"))
	return nil
}

// prependUnique puts value first and drops any duplicate further down.
func prependUnique(value string, list []string) []string {
	out := []string{value}
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
