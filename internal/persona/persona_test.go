// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persona

import "testing"

func TestResolve(t *testing.T) {
	personas := []Persona{
		{Name: "reviewer", Model: "anthropic/claude-3.5-sonnet", SystemPrompt: "You review prose."},
		{Name: "coder", Model: "openai/gpt-4o", SystemPrompt: "You write Go."},
		{Name: "reviewer", Model: "openai/gpt-4o-mini", SystemPrompt: "duplicate, never used"},
	}

	tests := []struct {
		name       string
		token      string
		wantModel  string
		wantSystem string
		wantName   string
	}{
		{"persona match", "coder", "openai/gpt-4o", "You write Go.", "coder"},
		{"duplicate name takes first", "reviewer", "anthropic/claude-3.5-sonnet", "You review prose.", "reviewer"},
		{"literal model fallthrough", "openai/gpt-4o-mini", "openai/gpt-4o-mini", "", ""},
		{"case sensitive", "Coder", "Coder", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.token, personas)
			if got.Model != tc.wantModel {
				t.Errorf("Model = %q, want %q", got.Model, tc.wantModel)
			}
			if got.SystemPrompt != tc.wantSystem {
				t.Errorf("SystemPrompt = %q, want %q", got.SystemPrompt, tc.wantSystem)
			}
			if got.Persona != tc.wantName {
				t.Errorf("Persona = %q, want %q", got.Persona, tc.wantName)
			}
		})
	}
}

func TestResolveEmptyList(t *testing.T) {
	got := Resolve("openrouter/auto", nil)
	if got.Model != "openrouter/auto" || got.SystemPrompt != "" {
		t.Errorf("Resolve() = %+v, want literal model", got)
	}
}
