// atelier-viewer is an interactive terminal viewer for the portfolio
// catalog. It loads the compiled-in sample catalog unless --catalog names
// a YAML or TOML file, and needs no database or server.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/ganot/atelier/internal/catalog"
	"github.com/ganot/atelier/internal/logfile"
	"github.com/ganot/atelier/internal/tui"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var (
		catalogPath string
		maxTags     int
		tag         string
		query       string
		printOnly   bool
		logOutput   string
	)

	flagSet := pflag.NewFlagSet("atelier-viewer", pflag.ContinueOnError)
	flagSet.StringVar(&catalogPath, "catalog", "", "catalog file (.yaml, .yml or .toml); default is the built-in sample")
	flagSet.IntVar(&maxTags, "max-tags", 0, "maximum number of tag chips, the all-chip included (0 = default, <0 = unlimited)")
	flagSet.StringVar(&tag, "tag", "", "initial tag filter")
	flagSet.StringVarP(&query, "query", "q", "", "initial search text")
	flagSet.BoolVar(&printOnly, "print", false, "print the filtered list and exit instead of starting the viewer")
	flagSet.StringVar(&logOutput, "log-output", "", "write debug logs to this file")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	projects, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if printOnly {
		return printProjects(stdout, projects, tag, query, maxTags)
	}

	// The terminal belongs to the TUI, so logs only go to a file.
	logger := slog.New(slog.DiscardHandler)
	if logOutput != "" {
		file, err := logfile.Open(logOutput)
		if err != nil {
			return fmt.Errorf("open log output: %w", err)
		}
		defer file.Close()
		logger = slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	model := tui.NewModel(projects, tui.Options{
		MaxTags: maxTags,
		Tag:     tag,
		Query:   query,
		Logger:  logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `atelier-viewer browses an architecture portfolio in the terminal.

Usage:
  atelier-viewer [flags]

Examples:
  # Browse the built-in sample catalog
  atelier-viewer

  # Start filtered on a tag
  atelier-viewer --tag 공공

  # Print matching projects without the interactive viewer
  atelier-viewer --print --query 콘크리트

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
