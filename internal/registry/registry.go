// Package registry maps command names to handler descriptors. Commands
// are registered explicitly at startup; there is no name-scanning or
// reflection involved in dispatch.
package registry

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/conch-sh/conch/internal/argspec"
	"github.com/conch-sh/conch/internal/parse"
)

// Invocation carries everything a handler needs for one call: the parsed
// statement and the writers the shell has routed output to (which may be
// a file or a pipe when the statement redirects).
type Invocation struct {
	Statement *parse.Statement
	Stdout    io.Writer
	Stderr    io.Writer
}

// Handler runs one command invocation.
type Handler func(ctx context.Context, inv *Invocation) error

// Command is a handler descriptor: the function, its argument
// specification, and its help text, associated at registration time.
type Command struct {
	// Name is the primary command name.
	Name string

	// Help is the one-line summary shown by the help listing. HelpTopic
	// optionally names an embedded long-form document.
	Help      string
	HelpTopic string

	// Spec declares the command's arguments for validation and
	// completion. May be nil for commands taking free-form text.
	Spec *argspec.Command

	// Run executes the command.
	Run Handler

	// Multiline marks commands whose input continues across physical
	// lines until a terminator.
	Multiline bool

	// Hidden commands dispatch normally but stay out of listings and
	// command-name completion.
	Hidden bool
}

// Set is a named group of commands installed and removed together.
type Set struct {
	Name     string
	Commands []*Command
}

// Registry is the central command table for one shell instance. It is
// not safe for concurrent mutation; each shell owns its own Registry.
type Registry struct {
	byName map[string]*Command
	order  []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*Command)}
}

// Register adds one command. Registering a name twice is an error; remove
// the existing entry first.
func (r *Registry) Register(cmd *Command) error {
	if cmd.Name == "" {
		return fmt.Errorf("command has no name")
	}
	if _, exists := r.byName[cmd.Name]; exists {
		return fmt.Errorf("command %q already registered", cmd.Name)
	}
	if cmd.Spec != nil {
		if err := cmd.Spec.Validate(); err != nil {
			return fmt.Errorf("command %q: %w", cmd.Name, err)
		}
	}
	r.byName[cmd.Name] = cmd
	r.order = append(r.order, cmd.Name)
	return nil
}

// Remove deletes a command by name, reporting whether it existed.
func (r *Registry) Remove(name string) bool {
	if _, ok := r.byName[name]; !ok {
		return false
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Install registers every command in the set, rolling back on the first
// conflict so a set lands whole or not at all.
func (r *Registry) Install(set *Set) error {
	for i, cmd := range set.Commands {
		if err := r.Register(cmd); err != nil {
			for _, done := range set.Commands[:i] {
				r.Remove(done.Name)
			}
			return fmt.Errorf("installing set %q: %w", set.Name, err)
		}
	}
	return nil
}

// Uninstall removes every command in the set.
func (r *Registry) Uninstall(set *Set) {
	for _, cmd := range set.Commands {
		r.Remove(cmd.Name)
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Names returns all visible command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name, cmd := range r.byName {
		if cmd.Hidden {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MultilineNames reports the commands registered as multiline, for the
// statement builder's continuation decision.
func (r *Registry) MultilineNames() map[string]bool {
	out := make(map[string]bool)
	for name, cmd := range r.byName {
		if cmd.Multiline {
			out[name] = true
		}
	}
	return out
}

// Suggest returns the closest registered command name to the unknown
// name, or "" when nothing is within two edits.
func (r *Registry) Suggest(name string) string {
	best := ""
	bestDist := 3
	for _, cand := range r.Names() {
		if d := fuzzy.LevenshteinDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}
