// Package shell runs the interactive read loop: it feeds physical lines
// through the statement builder, dispatches completed statements against
// the command registry, and resolves tab-completion requests.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/conch-sh/conch/internal/complete"
	"github.com/conch-sh/conch/internal/config"
	"github.com/conch-sh/conch/internal/expand"
	"github.com/conch-sh/conch/internal/history"
	"github.com/conch-sh/conch/internal/parse"
	"github.com/conch-sh/conch/internal/registry"
	"github.com/conch-sh/conch/internal/settable"
	"github.com/conch-sh/conch/internal/shellquote"
	"github.com/conch-sh/conch/internal/ui"
)

// ErrExit is returned by a handler to end the read loop cleanly.
var ErrExit = errors.New("exit")

// Options configures a new Shell. Zero-value fields fall back to the
// process's standard streams and an in-memory-only session.
type Options struct {
	Config config.Config

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// History receives every dispatched statement. Nil disables
	// persistence.
	History *history.Store

	// TablesPath is where the alias, macro, and shortcut tables persist.
	// Empty keeps the tables in memory for the session only.
	TablesPath string
}

// Shell is one interactive session: a registry of commands, the expansion
// tables, the statement builder, and the streams it reads and writes.
type Shell struct {
	cfg      config.Config
	parseCfg parse.Config

	registry *registry.Registry
	expander *expand.Expander
	builder  *parse.Builder
	settings *settable.Table
	history  *history.Store

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	display     *ui.DisplayContext
	interactive bool

	tablesPath string

	prompt         string
	contPrompt     string
	echo           bool
	completionSort string
}

// New builds a shell with the builtin command set installed and the
// persisted expansion tables loaded.
func New(opts Options) (*Shell, error) {
	s := &Shell{
		cfg:            opts.Config,
		parseCfg:       opts.Config.ParseConfig(),
		registry:       registry.New(),
		expander:       expand.New(),
		settings:       settable.NewTable(),
		history:        opts.History,
		stdin:          opts.Stdin,
		stdout:         opts.Stdout,
		stderr:         opts.Stderr,
		tablesPath:     opts.TablesPath,
		prompt:         opts.Config.Prompt,
		contPrompt:     opts.Config.ContinuationPrompt,
		echo:           opts.Config.Echo,
		completionSort: opts.Config.CompletionSort,
	}
	if s.stdin == nil {
		s.stdin = os.Stdin
		s.interactive = ui.InteractiveInput()
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	s.display = ui.NewDisplayContext()

	s.expander.SetBound(opts.Config.ExpansionBound)
	// The ! shortcut ships by default; a persisted table may remap it.
	s.expander.SetShortcut('!', "shell")
	if s.tablesPath != "" {
		if err := s.expander.LoadFile(s.tablesPath); err != nil {
			return nil, err
		}
	}

	s.builder = parse.NewBuilder(s.parseCfg, s.expander.Expand, func(name string) bool {
		cmd, ok := s.registry.Lookup(name)
		return ok && cmd.Multiline
	})

	if err := s.registerSettings(); err != nil {
		return nil, err
	}
	if err := s.registry.Install(builtins(s)); err != nil {
		return nil, err
	}
	return s, nil
}

// Registry exposes the command table for installing application sets.
func (s *Shell) Registry() *registry.Registry { return s.registry }

// Expander exposes the expansion tables.
func (s *Shell) Expander() *expand.Expander { return s.expander }

// Settings exposes the settable parameter table.
func (s *Shell) Settings() *settable.Table { return s.settings }

func (s *Shell) registerSettings() error {
	for _, st := range []*settable.Settable{
		settable.String("prompt", "Prompt shown before each statement", &s.prompt),
		settable.String("continuation_prompt", "Prompt shown while a multiline command reads", &s.contPrompt),
		settable.Bool("echo", "Repeat each statement before running it", &s.echo),
		{
			Name:        "completion_sort",
			Description: "Candidate ordering: lexical or natural",
			Get:         func() string { return s.completionSort },
			Set: func(value string) error {
				if value != "lexical" && value != "natural" {
					return fmt.Errorf("completion_sort expects lexical or natural, got %q", value)
				}
				s.completionSort = value
				return nil
			},
		},
	} {
		if err := s.settings.Register(st); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) sortMode() complete.SortMode {
	if s.completionSort == "natural" {
		return complete.SortNatural
	}
	return complete.SortLexical
}

// Run reads statements until EOF, a cancelled context, or an exit
// command.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending *parse.Partial
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.interactive {
			fmt.Fprint(s.stdout, s.currentPrompt(pending != nil))
		}
		if !scanner.Scan() {
			break
		}

		res, err := s.builder.Feed(scanner.Text(), pending)
		pending = nil
		if err != nil {
			if parse.IsEmptyStatement(err) {
				continue
			}
			fmt.Fprintln(s.stderr, ui.Error(err.Error()))
			continue
		}
		if res.Partial != nil {
			pending = res.Partial
			continue
		}

		if done := s.runStatement(ctx, res.Statement); done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// EOF while a multiline command is still reading: an empty line
	// terminates it, same as typing one.
	if pending != nil {
		res, err := s.builder.Feed("", pending)
		if err != nil || res.Statement == nil {
			return nil
		}
		s.runStatement(ctx, res.Statement)
	}
	return nil
}

// RunLine parses and dispatches a single self-contained statement, for
// non-interactive use. Multiline commands read embedded newlines from the
// line itself.
func (s *Shell) RunLine(ctx context.Context, line string) error {
	var pending *parse.Partial
	rest := line
	for {
		var chunk string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			chunk, rest = rest[:i], rest[i+1:]
		} else {
			chunk, rest = rest, ""
		}
		res, err := s.builder.Feed(chunk, pending)
		if err != nil {
			if parse.IsEmptyStatement(err) {
				return nil
			}
			return err
		}
		if res.Statement != nil {
			return s.dispatch(ctx, res.Statement)
		}
		pending = res.Partial
		if rest == "" {
			// Force termination the way an empty input line would.
			res, err = s.builder.Feed("", pending)
			if err != nil {
				return err
			}
			if res.Statement == nil {
				return fmt.Errorf("statement never terminated: %q", line)
			}
			return s.dispatch(ctx, res.Statement)
		}
	}
}

func (s *Shell) currentPrompt(continuing bool) string {
	p := s.prompt
	if continuing {
		p = s.contPrompt
	}
	if s.display.IsTTY {
		return ui.Accent.Render(p)
	}
	return p
}

// runStatement dispatches one statement and reports whether the loop
// should end.
func (s *Shell) runStatement(ctx context.Context, st *parse.Statement) bool {
	if s.echo {
		fmt.Fprintln(s.stdout, st.Raw)
	}
	if err := s.dispatch(ctx, st); err != nil {
		if errors.Is(err, ErrExit) {
			return true
		}
		fmt.Fprintln(s.stderr, ui.Error(err.Error()))
	}
	return false
}

func (s *Shell) dispatch(ctx context.Context, st *parse.Statement) error {
	if s.history != nil {
		if err := s.history.Append(st); err != nil {
			fmt.Fprintln(s.stderr, ui.Hint(err.Error()))
		}
	}

	cmd, ok := s.registry.Lookup(st.Command)
	if !ok {
		msg := fmt.Sprintf("unknown command: %s", st.Command)
		if suggestion := s.registry.Suggest(st.Command); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		return errors.New(msg)
	}

	stdout, cleanup, err := s.route(st)
	if err != nil {
		return err
	}

	runErr := cmd.Run(ctx, &registry.Invocation{
		Statement: st,
		Stdout:    stdout,
		Stderr:    s.stderr,
	})
	if cerr := cleanup(); cerr != nil && runErr == nil {
		runErr = cerr
	}
	return runErr
}

// Complete resolves candidates for the partial word at byte offset pos in
// line. The first word completes against command, alias, and macro names;
// later words walk the command's argument specification.
func (s *Shell) Complete(line string, pos int) complete.Result {
	if pos > len(line) {
		pos = len(line)
	}
	text := line[:pos]

	tokens, err := parse.Tokenize(s.parseCfg, text)
	if err != nil {
		// Inside an unclosed quote there is nothing sensible to offer.
		return complete.Result{}
	}

	prefix := ""
	typed := tokens
	if len(tokens) > 0 && tokens[len(tokens)-1].End == len(text) {
		prefix = tokens[len(tokens)-1].Text
		typed = tokens[:len(tokens)-1]
	}

	if len(typed) == 0 {
		names := s.registry.Names()
		names = append(names, s.expander.AliasNames()...)
		names = append(names, s.expander.MacroNames()...)
		return quoteCandidates(complete.Result{Candidates: complete.Rank(names, prefix, s.sortMode())})
	}

	// Resolve shortcut and alias chains the same way dispatch will, so a
	// line typed as "!x" or through an alias of an alias still completes
	// against the final command's specification.
	command := typed[0].Text
	if expanded, err := s.expander.Expand(command); err == nil {
		command = firstField(expanded)
	}
	cmd, ok := s.registry.Lookup(command)
	if !ok || cmd.Spec == nil {
		return complete.Result{}
	}

	args := make([]string, 0, len(typed)-1)
	for _, t := range typed[1:] {
		args = append(args, t.Text)
	}
	return quoteCandidates(complete.Complete(cmd.Spec, args, len(args), prefix, s.sortMode()))
}

// quoteCandidates quotes candidates the tokenizer would split, so that
// inserting one always yields a single word.
func quoteCandidates(res complete.Result) complete.Result {
	for i, c := range res.Candidates {
		res.Candidates[i] = shellquote.QuoteIfNeeded(c)
	}
	return res
}

// saveTables persists the expansion tables if a path is configured.
func (s *Shell) saveTables() error {
	if s.tablesPath == "" {
		return nil
	}
	return s.expander.SaveFile(s.tablesPath)
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
