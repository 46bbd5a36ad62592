// Package config holds fe's run configuration. fe reads no configuration
// files or environment variables; values come from defaults and flags.
package config

import (
	"fmt"
	"strings"

	"github.com/harrison/fe/internal/fileutil"
	"github.com/harrison/fe/internal/logger"
	"github.com/harrison/fe/internal/search"
)

// Color choices for the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents fe configuration options
type Config struct {
	// LogLevel sets the diagnostic verbosity (trace, debug, info, warn, error)
	LogLevel string

	// MaxLineLength bounds a scanned line in bytes, terminator included.
	// Longer lines are split.
	MaxLineLength int

	// ExcludeDirs are path segments never scanned or descended into
	ExcludeDirs []string

	// Color selects highlighting: auto follows stdout, always/never force it
	Color string
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		MaxLineLength: search.DefaultMaxLineLength,
		ExcludeDirs:   append([]string(nil), fileutil.DefaultExcludeDirs...),
		Color:         ColorAuto,
	}
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(logLevel *string, maxLineLength *int, excludeDirs *[]string, colorMode *string) {
	if logLevel != nil {
		c.LogLevel = strings.ToLower(strings.TrimSpace(*logLevel))
	}
	if maxLineLength != nil {
		c.MaxLineLength = *maxLineLength
	}
	if excludeDirs != nil {
		c.ExcludeDirs = append([]string(nil), (*excludeDirs)...)
	}
	if colorMode != nil {
		c.Color = strings.ToLower(strings.TrimSpace(*colorMode))
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q, must be one of: %s",
			c.LogLevel, strings.Join(logger.ValidLevels, ", "))
	}

	if c.MaxLineLength < search.MinMaxLineLength {
		return fmt.Errorf("max line length must be >= %d, got %d", search.MinMaxLineLength, c.MaxLineLength)
	}

	for _, dir := range c.ExcludeDirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("invalid exclude dir %q, must be a single path segment", dir)
		}
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color %q, must be one of: auto, always, never", c.Color)
	}

	return nil
}
