package cmd

import (
	"errors"
	"fmt"

	"github.com/harrison/fe/internal/config"
	"github.com/harrison/fe/internal/display"
	"github.com/harrison/fe/internal/logger"
	"github.com/harrison/fe/internal/matcher"
	"github.com/harrison/fe/internal/search"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for fe
func NewRootCommand() *cobra.Command {
	return newRootCommand(display.IsTerminal)
}

// newRootCommand builds the command with an injectable terminal check so
// tests can exercise every mode without a real tty.
func newRootCommand(isTerminal display.TerminalFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fe [flags] <pattern> [<directory>]",
		Short: "Search a directory tree for lines matching a regular expression",
		Long: `fe recursively searches a directory tree for lines matching a POSIX
extended regular expression and prints every matching line.

On a terminal, matches are grouped under a coloured file name and each
match is highlighted. When output is piped, every matching line is printed
as path:line:text with no colour.

When standard input is piped, fe ignores <directory> and filters standard
input instead, so it can sit in a pipeline.

Version-control metadata directories (.git) are never searched.

Examples:
  # Search the current directory
  fe 'func [A-Z]'

  # Search a specific directory
  fe 'TODO|FIXME' ./internal

  # Filter another command's output
  dmesg | fe 'usb[0-9]+'

  # Force plain output on a terminal
  fe --color never 'ab+c' .`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          validateArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, isTerminal)
		},
	}

	defaults := config.DefaultConfig()
	cmd.Flags().String("color", defaults.Color, "When to highlight matches: auto, always or never")
	cmd.Flags().StringSlice("exclude-dir", defaults.ExcludeDirs, "Directory names that are never searched")
	cmd.Flags().Int("max-line-length", defaults.MaxLineLength, "Bytes per scanned line before it is split")
	cmd.Flags().String("log-level", defaults.LogLevel, "Diagnostic verbosity: trace, debug, info, warn or error")

	return cmd
}

// validateArgs prints usage to the diagnostic stream when the positional
// arguments are wrong.
func validateArgs(cmd *cobra.Command, args []string) error {
	var err error
	switch {
	case len(args) == 0:
		err = errors.New("missing <pattern> argument")
	case len(args) > 2:
		err = fmt.Errorf("expected <pattern> [<directory>], got %d arguments", len(args))
	default:
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return err
}

// loadConfig starts from defaults and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	flags := cmd.Flags()

	var logLevel, colorMode *string
	var maxLineLength *int
	var excludeDirs *[]string

	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		logLevel = &v
	}
	if flags.Changed("max-line-length") {
		v, _ := flags.GetInt("max-line-length")
		maxLineLength = &v
	}
	if flags.Changed("exclude-dir") {
		v, _ := flags.GetStringSlice("exclude-dir")
		excludeDirs = &v
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		colorMode = &v
	}

	cfg.MergeWithFlags(logLevel, maxLineLength, excludeDirs, colorMode)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// selectModes decides input and output modes once, before any searching.
func selectModes(cmd *cobra.Command, cfg *config.Config, isTerminal display.TerminalFunc) display.Modes {
	modes := display.DetectModes(cmd.InOrStdin(), cmd.OutOrStdout(), isTerminal)
	switch cfg.Color {
	case config.ColorAlways:
		modes.Output = display.OutputHighlighted
	case config.ColorNever:
		modes.Output = display.OutputPlain
	}
	return modes
}

func runSearch(cmd *cobra.Command, args []string, isTerminal display.TerminalFunc) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pattern, err := matcher.Compile(args[0])
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	modes := selectModes(cmd, cfg, isTerminal)
	log.LogDebug(fmt.Sprintf("pattern %s, input mode %s, output mode %s", pattern.String(), modes.Input, modes.Output))

	scanner := search.NewScanner(pattern, display.NewFormatter(modes), cmd.OutOrStdout(), cfg.MaxLineLength)
	searcher := search.NewSearcher(scanner, log, search.Options{ExcludeDirs: cfg.ExcludeDirs})

	if modes.Input == display.InputStream {
		if len(args) > 1 {
			log.LogDebug(fmt.Sprintf("standard input is piped, ignoring directory %s", args[1]))
		}
		return searcher.SearchStream(cmd.InOrStdin())
	}

	root := "."
	if len(args) > 1 {
		root = args[1]
	}
	return searcher.SearchTree(root)
}
