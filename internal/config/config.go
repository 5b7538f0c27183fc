// Package config handles global conch configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/conch-sh/conch/internal/complete"
	"github.com/conch-sh/conch/internal/expand"
	"github.com/conch-sh/conch/internal/parse"
)

// Config is the conch configuration, loaded from config.toml.
type Config struct {
	// Prompt is shown before each new statement; ContinuationPrompt
	// while a multiline command is accumulating input.
	Prompt             string `toml:"prompt"`
	ContinuationPrompt string `toml:"continuation_prompt"`

	// Terminators end input for multiline commands. An empty input line
	// always terminates regardless of this list.
	Terminators []string `toml:"terminators"`

	// Quotes, Escape, and Comment configure the tokenizer. Each must be
	// a single character; Quotes may list several.
	Quotes  []string `toml:"quotes"`
	Escape  string   `toml:"escape"`
	Comment string   `toml:"comment"`

	// RedirectOverwrite, RedirectAppend, and Pipe are the output
	// routing operators.
	RedirectOverwrite string `toml:"redirect_overwrite"`
	RedirectAppend    string `toml:"redirect_append"`
	Pipe              string `toml:"pipe"`

	// ExpansionBound caps iterative shortcut/alias/macro resolution.
	ExpansionBound int `toml:"expansion_bound"`

	// CompletionSort selects candidate ordering: "lexical" (default,
	// case-insensitive) or "natural" (numeric-aware).
	CompletionSort string `toml:"completion_sort"`

	// HistoryPath and AliasesPath locate the on-disk history database
	// and the persisted alias/macro/shortcut tables. Empty values fall
	// back under the user config directory.
	HistoryPath string `toml:"history_path"`
	AliasesPath string `toml:"aliases_path"`

	// Echo repeats each statement before running it, useful for
	// scripted input.
	Echo bool `toml:"echo"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Prompt:             "(conch) ",
		ContinuationPrompt: "... ",
		Terminators:        []string{";"},
		Quotes:             []string{`"`, "'"},
		Escape:             `\`,
		Comment:            "#",
		RedirectOverwrite:  ">",
		RedirectAppend:     ">>",
		Pipe:               "|",
		ExpansionBound:     expand.DefaultBound,
		CompletionSort:     "lexical",
	}
}

// Load reads the configuration at path, applying defaults for anything
// unset. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the standard config file location,
// ~/.config/conch/config.toml unless overridden by the OS.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "conch", "config.toml"), nil
}

// DefaultDataDir returns the directory holding the history database and
// alias tables when no explicit paths are configured.
func DefaultDataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "conch"), nil
}

func (c Config) validate() error {
	for _, q := range c.Quotes {
		if len([]rune(q)) != 1 {
			return fmt.Errorf("quote %q must be a single character", q)
		}
	}
	if len([]rune(c.Escape)) != 1 {
		return fmt.Errorf("escape %q must be a single character", c.Escape)
	}
	if len([]rune(c.Comment)) != 1 {
		return fmt.Errorf("comment %q must be a single character", c.Comment)
	}
	for _, t := range c.Terminators {
		if t == "" {
			return fmt.Errorf("terminators must not be empty strings")
		}
	}
	switch c.CompletionSort {
	case "lexical", "natural":
	default:
		return fmt.Errorf("completion_sort must be %q or %q, got %q", "lexical", "natural", c.CompletionSort)
	}
	if c.ExpansionBound < 1 {
		return fmt.Errorf("expansion_bound must be positive, got %d", c.ExpansionBound)
	}
	return nil
}

// ParseConfig translates the file-level configuration into the parser's
// character and operator sets.
func (c Config) ParseConfig() parse.Config {
	pc := parse.Config{
		Escape:            []rune(c.Escape)[0],
		Comment:           []rune(c.Comment)[0],
		Terminators:       c.Terminators,
		RedirectOverwrite: c.RedirectOverwrite,
		RedirectAppend:    c.RedirectAppend,
		Pipe:              c.Pipe,
	}
	for _, q := range c.Quotes {
		pc.Quotes = append(pc.Quotes, []rune(q)[0])
	}
	return pc
}

// SortMode translates the configured completion ordering.
func (c Config) SortMode() complete.SortMode {
	if c.CompletionSort == "natural" {
		return complete.SortNatural
	}
	return complete.SortLexical
}
