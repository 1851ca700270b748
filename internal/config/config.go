// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigwrite.
//
// TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location: ~/.rigwrite/config.toml
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigwrite/internal/persona"
	"github.com/jeranaias/rigwrite/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete rigwrite configuration.
type Config struct {
	Version string `toml:"version"`

	// Cloud (OpenRouter) configuration
	Cloud CloudConfig `toml:"cloud"`

	// Generation behavior
	Generation GenerationConfig `toml:"generation"`

	// Configured personas, referenced by @name
	Personas []persona.Persona `toml:"personas"`

	// History persistence
	History HistoryConfig `toml:"history"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// CloudConfig contains completion endpoint configuration.
type CloudConfig struct {
	// APIKey is the bearer key. May be stored encrypted with the
	// "ENC:" prefix; use ResolveAPIKey to obtain the plaintext.
	APIKey string `toml:"api_key"`
	// BaseURL is the API base URL.
	BaseURL string `toml:"base_url"`
	// Models is the enabled model list shown in suggestions.
	Models []string `toml:"models"`
}

// GenerationConfig controls inline generation behavior.
type GenerationConfig struct {
	// TriggerPhrase terminates a prompt and starts generation.
	TriggerPhrase string `toml:"trigger_phrase"`
	// ResponseStyle is "plain", "divider" or "callout".
	ResponseStyle string `toml:"response_style"`
	// CursorBehavior is "keep" or "end".
	CursorBehavior string `toml:"cursor_behavior"`
	// WebSearch is "off", "on-flag" or "always".
	WebSearch string `toml:"web_search"`
	// WebEngine is "auto", "native" or "exa".
	WebEngine string `toml:"web_engine"`
}

// HistoryConfig controls the generation log.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// UIConfig contains editor host settings.
type UIConfig struct {
	ShowLineNumbers bool `toml:"show_line_numbers"`
	ShowSpinner     bool `toml:"show_spinner"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultTriggerPhrase is the default prompt terminator.
const DefaultTriggerPhrase = ";;"

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Cloud: CloudConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Models: []string{
				"openrouter/auto",
				"openai/gpt-4o-mini",
				"anthropic/claude-3.5-sonnet",
			},
		},
		Generation: GenerationConfig{
			TriggerPhrase:  DefaultTriggerPhrase,
			ResponseStyle:  "plain",
			CursorBehavior: "end",
			WebSearch:      "on-flag",
			WebEngine:      "auto",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(Dir(), "history.db"),
		},
		UI: UIConfig{
			ShowLineNumbers: true,
			ShowSpinner:     true,
		},
	}
}

// Dir returns the rigwrite configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".rigwrite")
	}
	return filepath.Join(home, ".rigwrite")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config from path, falling back to defaults when the
// file does not exist. Environment overrides apply after decoding.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path atomically with restricted
// permissions (the file may contain the API key).
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("RIGWRITE_API_KEY"); v != "" {
		c.Cloud.APIKey = v
	}
	if v := os.Getenv("RIGWRITE_BASE_URL"); v != "" {
		c.Cloud.BaseURL = v
	}
	if v := os.Getenv("RIGWRITE_TRIGGER_PHRASE"); v != "" {
		c.Generation.TriggerPhrase = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// enumField validates a config value against its allowed set.
func enumField(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (allowed: %s)", name, value, strings.Join(allowed, ", "))
}

// Validate checks enumerated fields and structural constraints.
func (c *Config) Validate() error {
	if c.Generation.TriggerPhrase == "" {
		return errors.New("trigger_phrase must not be empty")
	}
	if err := enumField("response_style", c.Generation.ResponseStyle,
		"plain", "divider", "callout"); err != nil {
		return err
	}
	if err := enumField("cursor_behavior", c.Generation.CursorBehavior,
		"keep", "end"); err != nil {
		return err
	}
	if err := enumField("web_search", c.Generation.WebSearch,
		"off", "on-flag", "always"); err != nil {
		return err
	}
	if err := enumField("web_engine", c.Generation.WebEngine,
		"auto", "native", "exa"); err != nil {
		return err
	}
	for _, p := range c.Personas {
		if p.Name == "" {
			return errors.New("persona name must not be empty")
		}
		if strings.ContainsAny(p.Name, " \t") {
			return fmt.Errorf("persona name %q must not contain whitespace", p.Name)
		}
		if p.Model == "" {
			return fmt.Errorf("persona %q has no model", p.Name)
		}
	}
	return nil
}
