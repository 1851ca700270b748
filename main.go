// rigwrite - a terminal Markdown editor with inline AI generation.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigwrite/internal/assistant"
	"github.com/jeranaias/rigwrite/internal/buffer"
	"github.com/jeranaias/rigwrite/internal/cli"
	"github.com/jeranaias/rigwrite/internal/cloud"
	"github.com/jeranaias/rigwrite/internal/config"
	"github.com/jeranaias/rigwrite/internal/history"
	"github.com/jeranaias/rigwrite/internal/ui/editor"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdEdit:
		err = runEditor(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdModels:
		err = cli.HandleModels(args)
	case cli.CmdPersonas:
		err = cli.HandlePersonas(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdSetup:
		err = cli.HandleSetup(args)
	case cli.CmdHistory:
		err = cli.HandleHistory(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "rigwrite: "+err.Error())
		os.Exit(1)
	}
}

// runEditor wires the editor: config (with live reload), cloud client,
// history store, orchestrator and the Bubble Tea program.
func runEditor(args cli.Args) error {
	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Live settings: the watcher swaps the pointer, each generation
	// snapshots it at invocation start.
	var current atomic.Pointer[config.Config]
	current.Store(cfg)
	if watcher, werr := config.NewWatcher(cfgPath, func(c *config.Config) {
		current.Store(c)
	}); werr == nil {
		if werr := watcher.Watch(); werr != nil {
			log.Printf("config watch disabled: %v", werr)
		}
		defer watcher.Close()
	}

	key, err := config.DefaultKeystore().ResolveAPIKey(cfg)
	if err != nil {
		return fmt.Errorf("failed to resolve API key: %w", err)
	}
	client := cloud.NewClient(key)
	if cfg.Cloud.BaseURL != "" {
		client = client.WithBaseURL(cfg.Cloud.BaseURL)
	}

	buf, err := loadBuffer(args.File)
	if err != nil {
		return err
	}

	settings := func() assistant.Settings {
		return assistant.SettingsFromConfig(current.Load())
	}

	// The editor is the notifier; bind through a closure since the
	// orchestrator is constructed first.
	var ed *editor.Model
	orc := assistant.New(client, assistant.NotifierFunc(func(msg string) {
		ed.Notify(msg)
	}), settings)

	if cfg.History.Enabled {
		store, herr := history.Open(cfg.History.Path)
		if herr != nil {
			log.Printf("history disabled: %v", herr)
		} else {
			defer store.Close()
			orc = orc.WithRecorder(store)
		}
	}

	ed = editor.New(buf, orc, cfg, args.File)
	ed.Wire()

	program := tea.NewProgram(ed, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// loadBuffer reads the file into a buffer, or starts empty when the
// path is empty or missing.
func loadBuffer(path string) (*buffer.Buffer, error) {
	if path == "" {
		return buffer.New(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return buffer.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return buffer.FromString(string(data)), nil
}
