package expand

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/conch-sh/conch/internal/atomicfile"
)

// fileFormat is the on-disk YAML layout for the expansion tables.
type fileFormat struct {
	Shortcuts map[string]string    `yaml:"shortcuts,omitempty"`
	Aliases   map[string]string    `yaml:"aliases,omitempty"`
	Macros    map[string]macroYAML `yaml:"macros,omitempty"`
}

type macroYAML struct {
	Template string `yaml:"template"`
}

// LoadFile merges the shortcut, alias, and macro tables stored at path
// into the expander. A missing file is not an error; the tables simply
// start empty.
func (e *Expander) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for char, command := range f.Shortcuts {
		runes := []rune(char)
		if len(runes) != 1 {
			return fmt.Errorf("%s: shortcut %q must be a single character", path, char)
		}
		if err := e.SetShortcut(runes[0], command); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	for name, replacement := range f.Aliases {
		e.SetAlias(name, replacement)
	}
	for name, m := range f.Macros {
		if err := e.SetMacro(name, m.Template); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// SaveFile writes the expander's tables to path as YAML, creating parent
// directories as needed.
func (e *Expander) SaveFile(path string) error {
	f := fileFormat{}
	if len(e.shortcuts) > 0 {
		f.Shortcuts = make(map[string]string, len(e.shortcuts))
		for char, command := range e.shortcuts {
			f.Shortcuts[string(char)] = command
		}
	}
	if len(e.aliases) > 0 {
		f.Aliases = make(map[string]string, len(e.aliases))
		for name, replacement := range e.aliases {
			f.Aliases[name] = replacement
		}
	}
	if len(e.macros) > 0 {
		f.Macros = make(map[string]macroYAML, len(e.macros))
		for name, m := range e.macros {
			f.Macros[name] = macroYAML{Template: m.Template}
		}
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("failed to encode expansion tables: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := atomicfile.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
