// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command for rigwrite.
//
// Command: config [show|set|path]
// Short:   Show or change configuration
//
// Examples:
//   rigwrite config                       Show current configuration
//   rigwrite config set response_style callout
//   rigwrite config set trigger_phrase ";;"
//   rigwrite config path

package cli

import (
	"fmt"

	"github.com/jeranaias/rigwrite/internal/cloud"
	"github.com/jeranaias/rigwrite/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig(args)
	case "set":
		return setConfig(args)
	case "path":
		fmt.Println(config.DefaultPath())
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q (want show, set or path)", args.Subcommand)
	}
}

func showConfig(args Args) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(TitleStyle.Render("rigwrite configuration"))
	row := func(label, value string) {
		fmt.Println(LabelStyle.Render(label) + ValueStyle.Render(value))
	}
	row("config file", config.DefaultPath())
	row("api key", maskedKeyStatus(cfg))
	row("base url", cfg.Cloud.BaseURL)
	row("trigger", cfg.Generation.TriggerPhrase)
	row("style", cfg.Generation.ResponseStyle)
	row("cursor", cfg.Generation.CursorBehavior)
	row("web search", cfg.Generation.WebSearch)
	row("web engine", cfg.Generation.WebEngine)
	row("history", fmt.Sprintf("%v (%s)", cfg.History.Enabled, cfg.History.Path))
	row("personas", fmt.Sprintf("%d configured", len(cfg.Personas)))
	return nil
}

func maskedKeyStatus(cfg *config.Config) string {
	if cfg.Cloud.APIKey == "" {
		return "not set"
	}
	key, err := config.DefaultKeystore().ResolveAPIKey(cfg)
	if err != nil || key == "" {
		return "set (cannot decrypt)"
	}
	return "set, fingerprint " + cloud.NewClient(key).APIKeyMasked()
}

// settableFields maps config keys to setters. Only generation-level
// knobs are settable here; keys go through setup.
var settableFields = map[string]func(*config.Config, string){
	"trigger_phrase":  func(c *config.Config, v string) { c.Generation.TriggerPhrase = v },
	"response_style":  func(c *config.Config, v string) { c.Generation.ResponseStyle = v },
	"cursor_behavior": func(c *config.Config, v string) { c.Generation.CursorBehavior = v },
	"web_search":      func(c *config.Config, v string) { c.Generation.WebSearch = v },
	"web_engine":      func(c *config.Config, v string) { c.Generation.WebEngine = v },
	"base_url":        func(c *config.Config, v string) { c.Cloud.BaseURL = v },
}

func setConfig(args Args) error {
	if len(args.Rest) < 2 {
		return fmt.Errorf("usage: rigwrite config set <key> <value>")
	}
	key, value := args.Rest[0], args.Rest[1]

	setter, ok := settableFields[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setter(cfg, value)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	if err := cfg.Save(config.DefaultPath()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("%s = %s", key, value)))
	return nil
}
