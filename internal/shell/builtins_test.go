package shell

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conch-sh/conch/internal/config"
	"github.com/conch-sh/conch/internal/history"
	"github.com/conch-sh/conch/internal/registry"
)

func TestAliasDefineExpandAndRemove(t *testing.T) {
	ts := newTestShell(t, nil)
	registerSay(t, ts.shell)
	ctx := context.Background()

	if err := ts.shell.RunLine(ctx, "alias greet say hello"); err != nil {
		t.Fatalf("alias: %v", err)
	}
	if err := ts.shell.RunLine(ctx, "greet world"); err != nil {
		t.Fatalf("expanded statement: %v", err)
	}
	if !strings.Contains(ts.stdout.String(), "hello world") {
		t.Errorf("stdout = %q, want expanded alias output", ts.stdout.String())
	}

	ts.stdout.Reset()
	if err := ts.shell.RunLine(ctx, "alias"); err != nil {
		t.Fatalf("alias list: %v", err)
	}
	if !strings.Contains(ts.stdout.String(), "greet=say hello") {
		t.Errorf("alias list = %q", ts.stdout.String())
	}

	if err := ts.shell.RunLine(ctx, "unalias greet"); err != nil {
		t.Fatalf("unalias: %v", err)
	}
	if err := ts.shell.RunLine(ctx, "unalias greet"); err == nil {
		t.Error("removing a missing alias should fail")
	}
}

func TestAliasReplacementKeepsSpacing(t *testing.T) {
	ts := newTestShell(t, nil)
	ctx := context.Background()

	if err := ts.shell.RunLine(ctx, `alias banner say "*  *"`); err != nil {
		t.Fatalf("alias: %v", err)
	}
	replacement, ok := ts.shell.Expander().Alias("banner")
	if !ok || replacement != `say "*  *"` {
		t.Errorf("Alias(banner) = %q, want quoted spacing preserved", replacement)
	}
}

func TestMacroDefineAndExpand(t *testing.T) {
	ts := newTestShell(t, nil)
	registerSay(t, ts.shell)
	ctx := context.Background()

	if err := ts.shell.RunLine(ctx, "macro both say {1} and {2}"); err != nil {
		t.Fatalf("macro: %v", err)
	}
	if err := ts.shell.RunLine(ctx, "both left right"); err != nil {
		t.Fatalf("macro call: %v", err)
	}
	if !strings.Contains(ts.stdout.String(), "left and right") {
		t.Errorf("stdout = %q, want substituted macro output", ts.stdout.String())
	}

	if err := ts.shell.RunLine(ctx, "both onlyone"); err == nil {
		t.Error("macro call with missing arguments should fail")
	}
}

func TestMacroRejectsInvalidPlaceholder(t *testing.T) {
	ts := newTestShell(t, nil)
	registerSay(t, ts.shell)
	ctx := context.Background()

	if err := ts.shell.RunLine(ctx, "macro m say {0}"); err == nil {
		t.Fatal("macro with a {0} placeholder should be rejected")
	}
	if _, ok := ts.shell.Expander().MacroByName("m"); ok {
		t.Error("rejected macro must not be registered")
	}
}

func TestShortcutRoundTrip(t *testing.T) {
	ts := newTestShell(t, nil)
	registerSay(t, ts.shell)
	ctx := context.Background()

	if err := ts.shell.RunLine(ctx, "shortcut ! say"); err != nil {
		t.Fatalf("shortcut: %v", err)
	}
	if err := ts.shell.RunLine(ctx, "!compact"); err != nil {
		t.Fatalf("shortcut call: %v", err)
	}
	if !strings.Contains(ts.stdout.String(), "compact") {
		t.Errorf("stdout = %q, want shortcut-expanded output", ts.stdout.String())
	}

	if err := ts.shell.RunLine(ctx, "unshortcut !"); err != nil {
		t.Fatalf("unshortcut: %v", err)
	}
	if err := ts.shell.RunLine(ctx, "!compact"); err == nil {
		t.Error("removed shortcut should no longer expand")
	}
}

func TestTablesPersistAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	ctx := context.Background()

	first, err := New(Options{
		Config:     config.Default(),
		Stdin:      strings.NewReader(""),
		Stdout:     &bytes.Buffer{},
		Stderr:     &bytes.Buffer{},
		TablesPath: path,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := first.RunLine(ctx, "alias greet say hello"); err != nil {
		t.Fatalf("alias: %v", err)
	}

	second, err := New(Options{
		Config:     config.Default(),
		Stdin:      strings.NewReader(""),
		Stdout:     &bytes.Buffer{},
		Stderr:     &bytes.Buffer{},
		TablesPath: path,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if replacement, ok := second.Expander().Alias("greet"); !ok || replacement != "say hello" {
		t.Errorf("Alias(greet) after reload = %q, %v", replacement, ok)
	}
}

func TestSetShowsAndChangesSettings(t *testing.T) {
	ts := newTestShell(t, nil)
	ctx := context.Background()

	if err := ts.shell.RunLine(ctx, `set prompt ">> "`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := ts.shell.Settings().Get("prompt"); got != ">> " {
		t.Errorf("prompt = %q, want quoted value dequoted", got)
	}

	ts.stdout.Reset()
	if err := ts.shell.RunLine(ctx, "set"); err != nil {
		t.Fatalf("set list: %v", err)
	}
	out := ts.stdout.String()
	for _, name := range []string{"prompt", "echo", "completion_sort"} {
		if !strings.Contains(out, name) {
			t.Errorf("set listing missing %q: %q", name, out)
		}
	}

	if err := ts.shell.RunLine(ctx, "set completion_sort sideways"); err == nil {
		t.Error("invalid completion_sort value should be rejected")
	}
	if err := ts.shell.RunLine(ctx, "set no_such_setting 1"); err == nil {
		t.Error("unknown setting should be rejected")
	}
}

func TestHelpListsAndShowsCommands(t *testing.T) {
	ts := newTestShell(t, nil)
	ctx := context.Background()

	if err := ts.shell.RunLine(ctx, "help"); err != nil {
		t.Fatalf("help: %v", err)
	}
	out := ts.stdout.String()
	for _, name := range []string{"alias", "set", "history", "exit"} {
		if !strings.Contains(out, name) {
			t.Errorf("help listing missing %q", name)
		}
	}
	if strings.Contains(out, "quit") {
		t.Error("hidden commands should stay out of the help listing")
	}

	ts.stdout.Reset()
	if err := ts.shell.RunLine(ctx, "help alias"); err != nil {
		t.Fatalf("help alias: %v", err)
	}
	if !strings.Contains(ts.stdout.String(), "aliases") {
		t.Errorf("help alias = %q", ts.stdout.String())
	}

	if err := ts.shell.RunLine(ctx, "help nonsense"); err == nil {
		t.Error("help for an unknown name should fail")
	}
}

func TestHelpRendersTopics(t *testing.T) {
	ts := newTestShell(t, nil)

	if err := ts.shell.RunLine(context.Background(), "help syntax"); err != nil {
		t.Fatalf("help syntax: %v", err)
	}
	if !strings.Contains(ts.stdout.String(), "terminator") {
		t.Errorf("topic output = %q, want syntax topic content", ts.stdout.String())
	}
}

func TestHistoryBuiltin(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	var stdout, stderr bytes.Buffer
	s, err := New(Options{
		Config:  config.Default(),
		Stdin:   strings.NewReader(""),
		Stdout:  &stdout,
		Stderr:  &stderr,
		History: store,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Registry().Register(&registry.Command{
		Name: "say",
		Run:  func(ctx context.Context, inv *registry.Invocation) error { return nil },
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.RunLine(ctx, fmt.Sprintf("say item %d", i)); err != nil {
			t.Fatalf("say: %v", err)
		}
	}

	if err := s.RunLine(ctx, "history -n 2"); err != nil {
		t.Fatalf("history: %v", err)
	}
	out := stdout.String()
	if strings.Contains(out, "item 0") || !strings.Contains(out, "item 2") {
		t.Errorf("history -n 2 = %q, want only the last two entries", out)
	}

	stdout.Reset()
	if err := s.RunLine(ctx, "history --search item 1"); err != nil {
		t.Fatalf("history --search: %v", err)
	}
	// pflag reads the value after --search; the trailing 1 is surplus.
	if !strings.Contains(stdout.String(), "item") {
		t.Errorf("history --search = %q", stdout.String())
	}

	stdout.Reset()
	if err := s.RunLine(ctx, "history -f"); err != nil {
		t.Fatalf("history -f: %v", err)
	}
	if !strings.Contains(stdout.String(), "say") {
		t.Errorf("history -f = %q, want per-command counts", stdout.String())
	}
}

func TestHistoryDisabled(t *testing.T) {
	ts := newTestShell(t, nil)
	if err := ts.shell.RunLine(context.Background(), "history"); err == nil {
		t.Error("history without a store should fail")
	}
}
