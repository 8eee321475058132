// Package main is the entry point for storysource, which shows a story
// source file partitioned into its story regions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dshills/storysource/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	application, err := app.New(opts, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string) (app.Options, error) {
	var opts app.Options
	var replace string
	var color string
	var showVersion bool

	fs := flag.NewFlagSet("storysource", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "storysource.toml", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "storysource.toml", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.RegionsPath, "regions", "", "YAML or JSON file mapping region keys to boundaries")
	fs.StringVar(&opts.Active, "active", "", "Key of the active region (group@item)")
	fs.StringVar(&opts.Select, "select", "", "Navigate to the region with this key after loading")
	fs.StringVar(&replace, "replace", "", "New text for the active region")
	fs.BoolVar(&opts.Write, "write", false, "Write the edited source and regions back to disk")
	fs.BoolVar(&opts.Watch, "watch", false, "Re-render whenever the files change")
	fs.BoolVar(&opts.Watch, "w", false, "Re-render whenever the files change (shorthand)")
	fs.BoolVar(&opts.Interactive, "tui", false, "Show the file in an interactive terminal viewer")
	fs.StringVar(&opts.Script, "script", "", "Lua navigation hook defining navigate(group, item)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (none, error, warning, notice, info, debug)")
	fs.StringVar(&color, "color", "auto", "Colour output (auto, always, never)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "storysource - show story regions of a source file\n\n")
		fmt.Fprintf(out, "Usage: storysource [options] file\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  storysource -regions b.yaml -active 'Button@with text' Button.stories.js\n")
		fmt.Fprintf(out, "  storysource -regions b.yaml -active 'Button@with text' -replace '<Button/>' -write Button.stories.js\n")
		fmt.Fprintf(out, "  storysource -regions b.yaml -watch Button.stories.js\n")
		fmt.Fprintf(out, "  storysource -regions b.json -script storybook.lua -tui Button.stories.js\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if showVersion {
		fmt.Printf("storysource %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return opts, flag.ErrHelp
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "replace" {
			opts.Replace = &replace
		}
	})

	switch color {
	case "auto":
	case "always", "never":
		on := color == "always"
		opts.Color = &on
	default:
		return opts, fmt.Errorf("invalid -color %q (must be auto, always, or never)", color)
	}

	if opts.Write && opts.Replace == nil {
		return opts, errors.New("-write requires -replace")
	}
	if opts.Interactive && opts.Watch {
		return opts, errors.New("-tui already watches; drop -watch")
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("expected exactly one source file")
	}
	opts.SourcePath = fs.Arg(0)
	return opts, nil
}
