// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// personas.go - Persona management command for rigwrite.
//
// Command: personas [list|add|remove]
// Short:   Manage @-mention personas
//
// Examples:
//   rigwrite personas
//   rigwrite personas add reviewer anthropic/claude-sonnet-4 --system "Review text critically"
//   rigwrite personas remove reviewer

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeranaias/rigwrite/internal/config"
	"github.com/jeranaias/rigwrite/internal/persona"
)

// HandlePersonas handles the "personas" command.
func HandlePersonas(args Args) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch args.Subcommand {
	case "", "list":
		return listPersonas(cfg, args)
	case "add":
		return addPersona(cfg, args)
	case "remove", "rm":
		return removePersona(cfg, args)
	default:
		return fmt.Errorf("unknown personas subcommand %q (want list, add or remove)", args.Subcommand)
	}
}

func listPersonas(cfg *config.Config, args Args) error {
	if args.JSON {
		out, _ := json.MarshalIndent(cfg.Personas, "", "  ")
		fmt.Println(string(out))
		return nil
	}
	if len(cfg.Personas) == 0 {
		fmt.Println(MutedStyle.Render("No personas configured. Add one with: rigwrite personas add <name> <model>"))
		return nil
	}
	for _, p := range cfg.Personas {
		fmt.Printf("%s %s\n", AccentStyle.Render("@"+p.Name), MutedStyle.Render(p.Model))
		if p.SystemPrompt != "" {
			fmt.Println("    " + ValueStyle.Render(p.SystemPrompt))
		}
	}
	return nil
}

func addPersona(cfg *config.Config, args Args) error {
	rest := args.Rest
	if len(rest) < 2 {
		return fmt.Errorf("usage: rigwrite personas add <name> <model> [--system PROMPT]")
	}
	name := strings.TrimPrefix(rest[0], "@")
	if strings.ContainsAny(name, " \t") {
		return fmt.Errorf("persona name must not contain whitespace")
	}
	for _, p := range cfg.Personas {
		if p.Name == name {
			return fmt.Errorf("persona @%s already exists", name)
		}
	}

	cfg.Personas = append(cfg.Personas, persona.Persona{
		Name:         name,
		Model:        rest[1],
		SystemPrompt: args.Parser.Flag("system", "s"),
	})
	if err := cfg.Save(config.DefaultPath()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println(SuccessStyle.Render("Added @" + name + " -> " + rest[1]))
	return nil
}

func removePersona(cfg *config.Config, args Args) error {
	if len(args.Rest) < 1 {
		return fmt.Errorf("usage: rigwrite personas remove <name>")
	}
	name := strings.TrimPrefix(args.Rest[0], "@")

	kept := cfg.Personas[:0]
	found := false
	for _, p := range cfg.Personas {
		if p.Name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("no persona named @%s", name)
	}
	cfg.Personas = kept
	if err := cfg.Save(config.DefaultPath()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println(SuccessStyle.Render("Removed @" + name))
	return nil
}
