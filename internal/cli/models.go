// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - Model listing command for rigwrite.
//
// Command: models
// Short:   List configured models and personas
//
// Examples:
//   rigwrite models           Configured models and personas
//   rigwrite models --remote  Full catalog from the API
//   rigwrite models --json    Machine-readable output

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/rigwrite/internal/config"
)

// HandleModels handles the "models" command.
func HandleModels(args Args) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if args.Parser.BoolFlag("remote") {
		return listRemoteModels(cfg, args)
	}

	if args.JSON {
		out, _ := json.MarshalIndent(map[string]any{
			"models":   cfg.Cloud.Models,
			"personas": cfg.Personas,
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(TitleStyle.Render("Configured models"))
	if len(cfg.Cloud.Models) == 0 {
		fmt.Println(MutedStyle.Render("  (none; run rigwrite setup)"))
	}
	for _, m := range cfg.Cloud.Models {
		fmt.Println("  " + AccentStyle.Render("@"+m))
	}

	if len(cfg.Personas) > 0 {
		fmt.Println(TitleStyle.Render("Personas"))
		for _, p := range cfg.Personas {
			fmt.Printf("  %s %s\n", AccentStyle.Render("@"+p.Name), MutedStyle.Render("-> "+p.Model))
		}
	}
	return nil
}

func listRemoteModels(cfg *config.Config, args Args) error {
	client, err := newCloudClient(cfg)
	if err != nil {
		return err
	}
	if !client.IsConfigured() {
		return fmt.Errorf("API key not configured; run: rigwrite setup")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	if args.JSON {
		out, _ := json.MarshalIndent(models, "", "  ")
		fmt.Println(string(out))
		return nil
	}
	for _, m := range models {
		fmt.Println(AccentStyle.Render(m.ID) + " " + MutedStyle.Render(m.Name))
	}
	return nil
}
