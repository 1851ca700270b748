// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for rigwrite.

package cli

import (
	"fmt"
	"os"
	"runtime"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdEdit Command = iota // open the editor (default)
	CmdAsk
	CmdModels
	CmdPersonas
	CmdConfig
	CmdSetup
	CmdHistory
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Model   string // --model override for ask

	// Command-specific
	Query      string   // ask query text
	File       string   // editor file or --file for ask
	Subcommand string   // e.g. "list", "set", "clear"
	Rest       []string // positionals after the subcommand
	Web        bool     // --web for ask
	Plain      bool     // --plain disables markdown rendering

	Parser *ArgParser // full parser for handler-specific flags
}

const usageText = `rigwrite - inline AI generation for Markdown documents

Rigwrite is a terminal Markdown editor where AI completions stream
directly into the document. Reference a model or persona with an
@ token, end the line with the trigger phrase (default ";;"), and the
response is inserted below the line as it arrives.

Usage:
  rigwrite [file]            Open the editor (default command)
  rigwrite ask "question"    One-shot question, streamed to stdout
  rigwrite models            List configured models (--remote for all)
  rigwrite personas          Manage personas (list|add|remove)
  rigwrite config            Configuration (show|set|path)
  rigwrite setup             Interactive setup (API key, model)
  rigwrite history           Generation log (list|search|prune|clear)
  rigwrite version           Show version
  rigwrite help              Show this help

Ask flags:
  -m, --model NAME    Use a specific model or persona
  -f, --file FILE     Include file content with the question
  --web               Enable web search for this question
  --plain             Print raw text, skip markdown rendering
  --json              Output response as JSON

In the editor:
  @openai/gpt-4o-mini summarize the notes above ;;
  Ctrl+G  generate at cursor      Ctrl+P  toggle preview
  Ctrl+S  save                    Ctrl+Q  quit

Environment:
  RIGWRITE_API_KEY        OpenRouter API key (overrides config)
  RIGWRITE_BASE_URL       API base URL override
  RIGWRITE_TRIGGER_PHRASE Trigger phrase override
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

func parseArgs(argv []string) (Command, Args) {
	args := Args{}
	if len(argv) == 0 {
		return CmdEdit, args
	}

	cmd := CmdEdit
	rest := argv
	switch argv[0] {
	case "ask":
		cmd, rest = CmdAsk, argv[1:]
	case "models", "model":
		cmd, rest = CmdModels, argv[1:]
	case "personas", "persona":
		cmd, rest = CmdPersonas, argv[1:]
	case "config":
		cmd, rest = CmdConfig, argv[1:]
	case "setup", "init":
		cmd, rest = CmdSetup, argv[1:]
	case "history":
		cmd, rest = CmdHistory, argv[1:]
	case "version", "-V", "--version":
		cmd, rest = CmdVersion, argv[1:]
	case "help", "-h", "--help":
		cmd, rest = CmdHelp, argv[1:]
	}

	p := NewArgParser(rest)
	args.Parser = p
	args.Quiet = p.BoolFlag("quiet", "q")
	args.Verbose = p.BoolFlag("verbose", "v")
	args.JSON = p.BoolFlag("json")
	args.Model = p.Flag("model", "m")
	args.Web = p.BoolFlag("web")
	args.Plain = p.BoolFlag("plain")
	args.Subcommand = p.Subcommand()
	args.Rest = p.Rest()

	switch cmd {
	case CmdEdit:
		// The only positional is the file to open.
		if len(p.Positional()) > 0 {
			args.File = p.Positional()[0]
		}
	case CmdAsk:
		args.File = p.Flag("file", "f")
		args.Query = joinPositional(p.Positional())
	}
	return cmd, args
}

func joinPositional(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}

// PrintUsage writes the help text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("rigwrite %s (%s, %s, %s/%s)\n",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}
