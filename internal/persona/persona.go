// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persona maps reference tokens to models.
//
// A persona bundles a model with a system-prompt override under a
// short @-mention name. Resolution is a pure lookup: no I/O, no
// network, deterministic for a given (token, persona list) pair.
package persona

// Persona is a user-configured named model binding.
type Persona struct {
	// Name is the @-mention token. Must not contain whitespace.
	// Uniqueness is advisory: on duplicates the first entry wins.
	Name string `toml:"name" json:"name"`

	// Model is the target model identifier, e.g. "openai/gpt-4o-mini".
	Model string `toml:"model" json:"model"`

	// SystemPrompt overrides the default system prompt when set.
	SystemPrompt string `toml:"system_prompt" json:"system_prompt"`
}

// Resolution is the outcome of resolving a reference token.
type Resolution struct {
	// Model is the model identifier to request.
	Model string

	// SystemPrompt is the persona override, empty for literal models.
	SystemPrompt string

	// Persona is the matched persona name, empty for literal models.
	Persona string
}

// Resolve maps token to a configured persona by exact name match, or
// treats the token as a literal model identifier when no persona
// matches. First match wins.
func Resolve(token string, personas []Persona) Resolution {
	for _, p := range personas {
		if p.Name == token {
			return Resolution{
				Model:        p.Model,
				SystemPrompt: p.SystemPrompt,
				Persona:      p.Name,
			}
		}
	}
	return Resolution{Model: token}
}
