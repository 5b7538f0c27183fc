package shell

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/conch-sh/conch/docs"
	"github.com/conch-sh/conch/internal/argspec"
	"github.com/conch-sh/conch/internal/history"
	"github.com/conch-sh/conch/internal/registry"
	"github.com/conch-sh/conch/internal/ui"
)

// builtins is the command set every shell starts with: introspection,
// expansion table management, settings, history, and exit.
func builtins(s *Shell) *registry.Set {
	return &registry.Set{
		Name: "builtin",
		Commands: []*registry.Command{
			helpCommand(s),
			aliasCommand(s),
			unaliasCommand(s),
			macroCommand(s),
			unmacroCommand(s),
			shortcutCommand(s),
			unshortcutCommand(s),
			setCommand(s),
			historyCommand(s),
			shellOutCommand(s),
			exitCommand("exit", false),
			exitCommand("quit", true),
		},
	}
}

func helpCommand(s *Shell) *registry.Command {
	spec := argspec.New("help")
	spec.Positional("command", argspec.Optional()).WithCompleter(func(string) ([]string, error) {
		return append(s.registry.Names(), docs.Topics()...), nil
	})

	return &registry.Command{
		Name: "help",
		Help: "List commands, or show details for one command or topic",
		Spec: spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			if len(inv.Statement.ArgList) == 0 {
				for _, name := range s.registry.Names() {
					cmd, _ := s.registry.Lookup(name)
					fmt.Fprintf(inv.Stdout, "%-14s %s\n", name, cmd.Help)
				}
				if topics := docs.Topics(); len(topics) > 0 {
					fmt.Fprintf(inv.Stdout, "\nTopics:\n%s", ui.Columns(topics, s.display.TermWidth))
				}
				return nil
			}

			name := s.unquote(inv.Statement.ArgList[0])
			if cmd, ok := s.registry.Lookup(name); ok {
				fmt.Fprintf(inv.Stdout, "%s: %s\n", ui.Bold.Render(cmd.Name), cmd.Help)
				if cmd.HelpTopic != "" {
					return s.printTopic(inv, cmd.HelpTopic)
				}
				return nil
			}
			return s.printTopic(inv, name)
		},
	}
}

// printTopic renders an embedded help topic, styled when writing to a
// terminal and as plain markdown otherwise.
func (s *Shell) printTopic(inv *registry.Invocation, name string) error {
	source, err := docs.Topic(name)
	if err != nil {
		return fmt.Errorf("no command or topic named %q", name)
	}
	if inv.Stdout == s.stdout && s.display.IsTTY {
		rendered, err := ui.RenderMarkdown(source, s.display.TermWidth)
		if err != nil {
			return err
		}
		fmt.Fprint(inv.Stdout, rendered)
		return nil
	}
	fmt.Fprint(inv.Stdout, source)
	return nil
}

func aliasCommand(s *Shell) *registry.Command {
	spec := argspec.New("alias")
	spec.Positional("name", argspec.Optional()).WithCompleter(func(string) ([]string, error) {
		return s.expander.AliasNames(), nil
	})
	spec.Positional("replacement", argspec.Remainder())

	return &registry.Command{
		Name: "alias",
		Help: "List, show, or define command aliases",
		Spec: spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			args := inv.Statement.ArgList
			switch len(args) {
			case 0:
				for _, name := range s.expander.AliasNames() {
					replacement, _ := s.expander.Alias(name)
					fmt.Fprintf(inv.Stdout, "%s=%s\n", name, replacement)
				}
				return nil
			case 1:
				name := s.unquote(args[0])
				replacement, ok := s.expander.Alias(name)
				if !ok {
					return fmt.Errorf("no alias named %q", name)
				}
				fmt.Fprintf(inv.Stdout, "%s=%s\n", name, replacement)
				return nil
			default:
				name := s.unquote(args[0])
				s.expander.SetAlias(name, restAfterFirst(inv.Statement.Args, args[0]))
				return s.saveTables()
			}
		},
	}
}

func unaliasCommand(s *Shell) *registry.Command {
	spec := argspec.New("unalias")
	spec.Positional("name", argspec.AtLeastOne()).WithCompleter(func(string) ([]string, error) {
		return s.expander.AliasNames(), nil
	})

	return &registry.Command{
		Name: "unalias",
		Help: "Remove one or more aliases",
		Spec: spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			if len(inv.Statement.ArgList) == 0 {
				return fmt.Errorf("unalias needs at least one alias name")
			}
			for _, arg := range inv.Statement.ArgList {
				name := s.unquote(arg)
				if !s.expander.RemoveAlias(name) {
					return fmt.Errorf("no alias named %q", name)
				}
			}
			return s.saveTables()
		},
	}
}

func macroCommand(s *Shell) *registry.Command {
	spec := argspec.New("macro")
	spec.Positional("name", argspec.Optional()).WithCompleter(func(string) ([]string, error) {
		return s.expander.MacroNames(), nil
	})
	spec.Positional("template", argspec.Remainder())

	return &registry.Command{
		Name: "macro",
		Help: "List, show, or define macros with {1}-style placeholders",
		Spec: spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			args := inv.Statement.ArgList
			switch len(args) {
			case 0:
				for _, name := range s.expander.MacroNames() {
					m, _ := s.expander.MacroByName(name)
					fmt.Fprintf(inv.Stdout, "%s=%s\n", name, m.Template)
				}
				return nil
			case 1:
				name := s.unquote(args[0])
				m, ok := s.expander.MacroByName(name)
				if !ok {
					return fmt.Errorf("no macro named %q", name)
				}
				fmt.Fprintf(inv.Stdout, "%s=%s\n", name, m.Template)
				return nil
			default:
				name := s.unquote(args[0])
				if err := s.expander.SetMacro(name, restAfterFirst(inv.Statement.Args, args[0])); err != nil {
					return err
				}
				return s.saveTables()
			}
		},
	}
}

func unmacroCommand(s *Shell) *registry.Command {
	spec := argspec.New("unmacro")
	spec.Positional("name", argspec.AtLeastOne()).WithCompleter(func(string) ([]string, error) {
		return s.expander.MacroNames(), nil
	})

	return &registry.Command{
		Name: "unmacro",
		Help: "Remove one or more macros",
		Spec: spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			if len(inv.Statement.ArgList) == 0 {
				return fmt.Errorf("unmacro needs at least one macro name")
			}
			for _, arg := range inv.Statement.ArgList {
				name := s.unquote(arg)
				if !s.expander.RemoveMacro(name) {
					return fmt.Errorf("no macro named %q", name)
				}
			}
			return s.saveTables()
		},
	}
}

func shortcutCommand(s *Shell) *registry.Command {
	spec := argspec.New("shortcut")
	spec.Positional("char", argspec.Optional())
	spec.Positional("command", argspec.Optional()).WithCompleter(func(string) ([]string, error) {
		return s.registry.Names(), nil
	})

	return &registry.Command{
		Name: "shortcut",
		Help: "List shortcuts, or map a leading character to a command",
		Spec: spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			args := inv.Statement.ArgList
			switch len(args) {
			case 0:
				table := s.expander.Shortcuts()
				chars := make([]string, 0, len(table))
				for char := range table {
					chars = append(chars, string(char))
				}
				sort.Strings(chars)
				for _, char := range chars {
					fmt.Fprintf(inv.Stdout, "%s=%s\n", char, table[[]rune(char)[0]])
				}
				return nil
			case 2:
				char := []rune(s.unquote(args[0]))
				if len(char) != 1 {
					return fmt.Errorf("shortcut %q must be a single character", args[0])
				}
				if err := s.expander.SetShortcut(char[0], s.unquote(args[1])); err != nil {
					return err
				}
				return s.saveTables()
			default:
				return fmt.Errorf("usage: shortcut [<char> <command>]")
			}
		},
	}
}

func unshortcutCommand(s *Shell) *registry.Command {
	spec := argspec.New("unshortcut")
	spec.Positional("char", argspec.ExactlyOne())

	return &registry.Command{
		Name: "unshortcut",
		Help: "Remove a shortcut character",
		Spec: spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			if len(inv.Statement.ArgList) != 1 {
				return fmt.Errorf("usage: unshortcut <char>")
			}
			char := []rune(s.unquote(inv.Statement.ArgList[0]))
			if len(char) != 1 || !s.expander.RemoveShortcut(char[0]) {
				return fmt.Errorf("no shortcut %q", inv.Statement.ArgList[0])
			}
			return s.saveTables()
		},
	}
}

func setCommand(s *Shell) *registry.Command {
	spec := argspec.New("set")
	spec.Positional("name", argspec.Optional()).WithCompleter(func(string) ([]string, error) {
		return s.settings.Names(), nil
	})
	spec.Positional("value", argspec.Remainder())

	return &registry.Command{
		Name: "set",
		Help: "List, show, or change runtime settings",
		Spec: spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			args := inv.Statement.ArgList
			switch len(args) {
			case 0:
				for _, name := range s.settings.Names() {
					value, _ := s.settings.Get(name)
					fmt.Fprintf(inv.Stdout, "%s=%q\n", name, value)
				}
				return nil
			case 1:
				name := s.unquote(args[0])
				value, err := s.settings.Get(name)
				if err != nil {
					return err
				}
				desc, _ := s.settings.Describe(name)
				fmt.Fprintf(inv.Stdout, "%s=%q\n", name, value)
				if desc != "" {
					fmt.Fprintf(inv.Stdout, "  %s\n", desc)
				}
				return nil
			default:
				name := s.unquote(args[0])
				return s.settings.Set(name, s.unquote(restAfterFirst(inv.Statement.Args, args[0])))
			}
		},
	}
}

func historyCommand(s *Shell) *registry.Command {
	spec := argspec.New("history")
	spec.Flag("-n", "--limit").WithArity(1).WithHelp("Show at most N entries")
	spec.Flag("-s", "--search").WithArity(1).WithGroup("view").WithHelp("Show entries containing a term")
	spec.Flag("-f", "--frequency").WithGroup("view").WithHelp("Show per-command run counts")

	return &registry.Command{
		Name:      "history",
		Help:      "Show previously run statements",
		HelpTopic: "syntax",
		Spec:      spec,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			if s.history == nil {
				return fmt.Errorf("history persistence is disabled")
			}

			fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
			fs.SetOutput(inv.Stderr)
			limit := fs.IntP("limit", "n", 40, "")
			search := fs.StringP("search", "s", "", "")
			frequency := fs.BoolP("frequency", "f", false, "")
			args := make([]string, 0, len(inv.Statement.ArgList))
			for _, a := range inv.Statement.ArgList {
				args = append(args, s.unquote(a))
			}
			if err := fs.Parse(args); err != nil {
				return err
			}

			if *frequency {
				counts, err := s.history.CommandCounts()
				if err != nil {
					return err
				}
				names := make([]string, 0, len(counts))
				for name := range counts {
					names = append(names, name)
				}
				sort.Slice(names, func(i, j int) bool {
					if counts[names[i]] != counts[names[j]] {
						return counts[names[i]] > counts[names[j]]
					}
					return names[i] < names[j]
				})
				for _, name := range names {
					fmt.Fprintf(inv.Stdout, "%6d  %s\n", counts[name], name)
				}
				return nil
			}

			var entries []history.Entry
			var err error
			if *search != "" {
				entries, err = s.history.Search(*search, *limit)
			} else {
				entries, err = s.history.Recent(*limit)
			}
			if err != nil {
				return err
			}
			// Stored newest first; show oldest first like a transcript.
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintf(inv.Stdout, "%6d  %s\n", e.ID, strings.ReplaceAll(e.Raw, "\n", "\\n"))
			}
			return nil
		},
	}
}

func shellOutCommand(s *Shell) *registry.Command {
	return &registry.Command{
		Name: "shell",
		Help: "Run a command in the system shell",
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			if strings.TrimSpace(inv.Statement.Args) == "" {
				return fmt.Errorf("shell needs a command to run")
			}
			cmd := exec.CommandContext(ctx, "sh", "-c", inv.Statement.Args)
			cmd.Stdout = inv.Stdout
			cmd.Stderr = inv.Stderr
			return cmd.Run()
		},
	}
}

func exitCommand(name string, hidden bool) *registry.Command {
	return &registry.Command{
		Name:   name,
		Help:   "End the session",
		Hidden: hidden,
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			return ErrExit
		},
	}
}

// restAfterFirst returns the argument text following the first token,
// with its original spacing.
func restAfterFirst(args, first string) string {
	rest := strings.TrimPrefix(args, first)
	return strings.TrimLeft(rest, " \t")
}
