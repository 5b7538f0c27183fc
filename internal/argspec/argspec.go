// Package argspec declares the arguments a command accepts: ordered
// positionals, named flags, and sub-commands. Specs are authored with the
// builder API at registration time and consumed read-only by validation
// and completion.
package argspec

import (
	"fmt"
	"strings"
)

// Unbounded marks a cardinality with no upper limit.
const Unbounded = -1

// Cardinality bounds how many values an argument may consume.
type Cardinality struct {
	Min int
	Max int // Unbounded for "as many as typed"
}

// ExactlyOne is the default positional cardinality.
func ExactlyOne() Cardinality { return Cardinality{Min: 1, Max: 1} }

// Exactly requires precisely n values.
func Exactly(n int) Cardinality { return Cardinality{Min: n, Max: n} }

// Optional allows zero or one value.
func Optional() Cardinality { return Cardinality{Min: 0, Max: 1} }

// AtLeastOne consumes one or more values and never advances past itself.
func AtLeastOne() Cardinality { return Cardinality{Min: 1, Max: Unbounded} }

// Remainder consumes everything left on the line, including nothing.
func Remainder() Cardinality { return Cardinality{Min: 0, Max: Unbounded} }

// CompleteFunc produces dynamic completion candidates for a prefix. It
// may run arbitrary caller code: the completion resolver treats errors
// and panics as "no candidates" and never lets them escape.
type CompleteFunc func(prefix string) ([]string, error)

// Positional is one ordered argument slot.
type Positional struct {
	name     string
	card     Cardinality
	choices  []string
	complete CompleteFunc
}

// Name returns the positional's display name.
func (p *Positional) Name() string { return p.name }

// Card returns the positional's cardinality.
func (p *Positional) Card() Cardinality { return p.card }

// Choices returns the static choice set, if any.
func (p *Positional) Choices() []string { return p.choices }

// Completer returns the dynamic choice provider, if any.
func (p *Positional) Completer() CompleteFunc { return p.complete }

// WithChoices sets a static choice set and returns the positional for
// chaining.
func (p *Positional) WithChoices(choices ...string) *Positional {
	p.choices = choices
	return p
}

// WithCompleter sets a dynamic choice provider and returns the positional
// for chaining.
func (p *Positional) WithCompleter(f CompleteFunc) *Positional {
	p.complete = f
	return p
}

// Flag is a named argument with one or more trigger strings, such as a
// short and a long form.
type Flag struct {
	triggers []string
	arity    int
	choices  []string
	complete CompleteFunc
	group    string
	repeat   bool
	help     string
}

// Triggers returns the flag's trigger strings.
func (f *Flag) Triggers() []string { return f.triggers }

// Arity returns how many value tokens the flag consumes.
func (f *Flag) Arity() int { return f.arity }

// Choices returns the static choice set for the flag's value.
func (f *Flag) Choices() []string { return f.choices }

// Completer returns the dynamic choice provider for the flag's value.
func (f *Flag) Completer() CompleteFunc { return f.complete }

// Group returns the mutually exclusive group the flag belongs to, or "".
func (f *Flag) Group() string { return f.group }

// Repeatable reports whether the flag may be supplied more than once.
func (f *Flag) Repeatable() bool { return f.repeat }

// Help returns the flag's one-line description.
func (f *Flag) Help() string { return f.help }

// WithArity sets how many value tokens the flag consumes (default 0).
func (f *Flag) WithArity(n int) *Flag {
	f.arity = n
	return f
}

// WithChoices sets the static choice set for the flag's value and implies
// arity 1 when no arity was set.
func (f *Flag) WithChoices(choices ...string) *Flag {
	f.choices = choices
	if f.arity == 0 {
		f.arity = 1
	}
	return f
}

// WithCompleter sets a dynamic choice provider for the flag's value and
// implies arity 1 when no arity was set.
func (f *Flag) WithCompleter(fn CompleteFunc) *Flag {
	f.complete = fn
	if f.arity == 0 {
		f.arity = 1
	}
	return f
}

// WithGroup puts the flag in a mutually exclusive group: at most one
// member of a group may be supplied per invocation.
func (f *Flag) WithGroup(group string) *Flag {
	f.group = group
	return f
}

// AllowRepeat allows the flag to be supplied more than once.
func (f *Flag) AllowRepeat() *Flag {
	f.repeat = true
	return f
}

// WithHelp sets the flag's one-line description.
func (f *Flag) WithHelp(help string) *Flag {
	f.help = help
	return f
}

// Command is one node of the argument specification tree.
type Command struct {
	name        string
	flags       []*Flag
	positionals []*Positional
	subcommands []*Command
}

// New returns an empty spec node for the named command.
func New(name string) *Command {
	return &Command{name: name}
}

// Name returns the command name this node describes.
func (c *Command) Name() string { return c.name }

// Flags returns the node's flags in declaration order.
func (c *Command) Flags() []*Flag { return c.flags }

// Positionals returns the node's positionals in declaration order.
func (c *Command) Positionals() []*Positional { return c.positionals }

// Subcommands returns the node's children in declaration order.
func (c *Command) Subcommands() []*Command { return c.subcommands }

// Flag declares a flag with the given trigger strings and returns it for
// chaining.
func (c *Command) Flag(triggers ...string) *Flag {
	f := &Flag{triggers: triggers}
	c.flags = append(c.flags, f)
	return f
}

// Positional declares the next ordered argument slot and returns it for
// chaining.
func (c *Command) Positional(name string, card Cardinality) *Positional {
	p := &Positional{name: name, card: card}
	c.positionals = append(c.positionals, p)
	return p
}

// Subcommand declares a child node reached by typing its name, and
// returns the child for further declarations.
func (c *Command) Subcommand(name string) *Command {
	child := New(name)
	c.subcommands = append(c.subcommands, child)
	return child
}

// FindSubcommand returns the child matching token, if any.
func (c *Command) FindSubcommand(token string) (*Command, bool) {
	for _, sub := range c.subcommands {
		if sub.name == token {
			return sub, true
		}
	}
	return nil, false
}

// Validate checks the node invariants recursively: flag triggers are
// unique within a node, flags have at least one trigger, and at most one
// trailing positional is unbounded.
func (c *Command) Validate() error {
	seen := make(map[string]bool)
	for _, f := range c.flags {
		if len(f.triggers) == 0 {
			return fmt.Errorf("%s: flag declared with no trigger strings", c.name)
		}
		for _, trig := range f.triggers {
			if trig == "" || strings.ContainsAny(trig, " \t") {
				return fmt.Errorf("%s: invalid flag trigger %q", c.name, trig)
			}
			if seen[trig] {
				return fmt.Errorf("%s: duplicate flag trigger %q", c.name, trig)
			}
			seen[trig] = true
		}
	}
	for i, p := range c.positionals {
		if p.card.Max == Unbounded && i != len(c.positionals)-1 {
			return fmt.Errorf("%s: unbounded positional %q must be last", c.name, p.name)
		}
	}
	names := make(map[string]bool)
	for _, sub := range c.subcommands {
		if names[sub.name] {
			return fmt.Errorf("%s: duplicate subcommand %q", c.name, sub.name)
		}
		names[sub.name] = true
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}
