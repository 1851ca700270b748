// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Generation log command for rigwrite.
//
// Command: history [list|search|prune|count]
// Short:   Inspect the local generation log
//
// Examples:
//   rigwrite history                    Recent generations
//   rigwrite history list --limit 50
//   rigwrite history search "haiku"
//   rigwrite history prune --days 30
//   rigwrite history count

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/rigwrite/internal/config"
	"github.com/jeranaias/rigwrite/internal/history"
	"github.com/jeranaias/rigwrite/internal/util"
)

// HandleHistory handles the "history" command.
func HandleHistory(args Args) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled; enable it in %s", config.DefaultPath())
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	switch args.Subcommand {
	case "", "list":
		entries, err := store.List(ctx, args.Parser.IntFlag(20, "limit", "n"))
		if err != nil {
			return err
		}
		return printEntries(entries, args)

	case "search":
		if len(args.Rest) == 0 {
			return fmt.Errorf("usage: rigwrite history search <term>")
		}
		entries, err := store.Search(ctx, args.Rest[0], args.Parser.IntFlag(20, "limit", "n"))
		if err != nil {
			return err
		}
		return printEntries(entries, args)

	case "prune":
		days := args.Parser.IntFlag(30, "days")
		cutoff := time.Now().AddDate(0, 0, -days)
		n, err := store.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Pruned %d entries older than %d days", n, days)))
		return nil

	case "count":
		n, err := store.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil

	default:
		return fmt.Errorf("unknown history subcommand %q (want list, search, prune or count)", args.Subcommand)
	}
}

func printEntries(entries []history.Entry, args Args) error {
	if args.JSON {
		out, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(out))
		return nil
	}
	if len(entries) == 0 {
		fmt.Println(MutedStyle.Render("No generations recorded."))
		return nil
	}
	for _, e := range entries {
		who := e.Model
		if e.Persona != "" {
			who = "@" + e.Persona + " (" + e.Model + ")"
		}
		fmt.Printf("%s  %s\n", MutedStyle.Render(e.CreatedAt.Format("2006-01-02 15:04")), AccentStyle.Render(who))
		fmt.Println("  " + ValueStyle.Render(util.TruncateWidth(e.Prompt, 76)))
		fmt.Println("  " + MutedStyle.Render(util.TruncateWidth(e.Response, 76)))
	}
	return nil
}
