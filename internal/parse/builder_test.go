package parse

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func testBuilder(multiline ...string) *Builder {
	set := make(map[string]bool, len(multiline))
	for _, name := range multiline {
		set[name] = true
	}
	return NewBuilder(DefaultConfig(), nil, func(cmd string) bool { return set[cmd] })
}

func feedComplete(t *testing.T, b *Builder, line string) *Statement {
	t.Helper()
	res, err := b.Feed(line, nil)
	if err != nil {
		t.Fatalf("Feed(%q) error = %v", line, err)
	}
	if res.Statement == nil {
		t.Fatalf("Feed(%q) did not complete a statement", line)
	}
	return res.Statement
}

func TestBuildSimpleStatement(t *testing.T) {
	st := feedComplete(t, testBuilder(), "say hello")

	if st.Command != "say" {
		t.Errorf("Command = %q, want %q", st.Command, "say")
	}
	if st.Args != "hello" {
		t.Errorf("Args = %q, want %q", st.Args, "hello")
	}
	if !reflect.DeepEqual(st.ArgList, []string{"hello"}) {
		t.Errorf("ArgList = %v, want [hello]", st.ArgList)
	}
	if st.Terminator != "" {
		t.Errorf("Terminator = %q, want empty", st.Terminator)
	}
	if st.Raw != "say hello" {
		t.Errorf("Raw = %q, want %q", st.Raw, "say hello")
	}
}

func TestBuildStatementParts(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Statement
	}{
		{
			name: "redirect overwrite",
			line: "ls -la > out.txt",
			want: Statement{Command: "ls", Args: "-la", ArgList: []string{"-la"}, Output: ">", OutputTo: "out.txt"},
		},
		{
			name: "redirect append",
			line: "ls -la >> out.txt",
			want: Statement{Command: "ls", Args: "-la", ArgList: []string{"-la"}, Output: ">>", OutputTo: "out.txt"},
		},
		{
			name: "redirect with quoted destination",
			line: `ls > "my out.txt"`,
			want: Statement{Command: "ls", Output: ">", OutputTo: `"my out.txt"`},
		},
		{
			name: "pipe keeps remaining line",
			line: "ls -la | wc -l",
			want: Statement{Command: "ls", Args: "-la", ArgList: []string{"-la"}, PipeTo: "wc -l"},
		},
		{
			name: "quoted pipe is an argument",
			line: `say "|" done`,
			want: Statement{Command: "say", Args: `"|" done`, ArgList: []string{`"|"`, "done"}},
		},
		{
			name: "terminator typed on single-line command",
			line: "say hi; and more",
			want: Statement{Command: "say", Args: "hi", ArgList: []string{"hi"}, Terminator: ";", Suffix: "and more"},
		},
		{
			name: "quotes preserved in args",
			line: `say "hello  there" friend`,
			want: Statement{Command: "say", Args: `"hello  there" friend`, ArgList: []string{`"hello  there"`, "friend"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := feedComplete(t, testBuilder(), tt.line)
			tt.want.Raw = tt.line
			if !reflect.DeepEqual(*st, tt.want) {
				t.Errorf("Feed(%q)\n got %+v\nwant %+v", tt.line, *st, tt.want)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		code string
	}{
		{name: "blank line", line: "   ", code: CodeEmptyStatement},
		{name: "comment line", line: "# just a note", code: CodeEmptyStatement},
		{name: "lone terminator", line: ";", code: CodeEmptyStatement},
		{name: "unterminated quote", line: `say "oops`, code: CodeUnterminatedQuote},
		{name: "redirect without destination", line: "ls >", code: CodeAmbiguousRedirect},
		{name: "redirect then pipe", line: "ls > out.txt | wc", code: CodeAmbiguousRedirect},
		{name: "pipe without command", line: "ls |", code: CodeAmbiguousRedirect},
		{name: "redirect into operator", line: "ls > >", code: CodeAmbiguousRedirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testBuilder().Feed(tt.line, nil)
			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("Feed(%q) error = %v, want *parse.Error", tt.line, err)
			}
			if pe.Code != tt.code {
				t.Errorf("Feed(%q) code = %s, want %s", tt.line, pe.Code, tt.code)
			}
		})
	}
}

func TestBuildMultilineContinuation(t *testing.T) {
	b := testBuilder("orate")

	res, err := b.Feed("orate line one", nil)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if res.Partial == nil {
		t.Fatalf("expected continuation, got %+v", res)
	}
	if res.Partial.Command != "orate" {
		t.Errorf("Partial.Command = %q, want %q", res.Partial.Command, "orate")
	}

	res, err = b.Feed("line two;", res.Partial)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	st := res.Statement
	if st == nil {
		t.Fatalf("expected completed statement, got %+v", res)
	}
	if st.Terminator != ";" {
		t.Errorf("Terminator = %q, want %q", st.Terminator, ";")
	}
	if st.MultilineCommand != "orate" {
		t.Errorf("MultilineCommand = %q, want %q", st.MultilineCommand, "orate")
	}
	if !strings.Contains(st.Raw, "\n") {
		t.Errorf("Raw = %q, want embedded newline", st.Raw)
	}
	if st.Args != "line one\nline two" {
		t.Errorf("Args = %q, want %q", st.Args, "line one\nline two")
	}
}

func TestBuildMultilineTerminatorOnFirstLine(t *testing.T) {
	st := feedComplete(t, testBuilder("orate"), "orate line one;")

	if st.Terminator != ";" {
		t.Errorf("Terminator = %q, want %q", st.Terminator, ";")
	}
	if st.Args != "line one" {
		t.Errorf("Args = %q, want %q", st.Args, "line one")
	}
	if st.MultilineCommand != "orate" {
		t.Errorf("MultilineCommand = %q, want %q", st.MultilineCommand, "orate")
	}
}

func TestBuildMultilineEmptyLineTerminates(t *testing.T) {
	b := testBuilder("orate")

	res, err := b.Feed("orate hello", nil)
	if err != nil || res.Partial == nil {
		t.Fatalf("Feed() = %+v, %v; want continuation", res, err)
	}
	res, err = b.Feed("", res.Partial)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if res.Statement == nil {
		t.Fatalf("expected completed statement, got %+v", res)
	}
	if res.Statement.Terminator != "\n" {
		t.Errorf("Terminator = %q, want newline", res.Statement.Terminator)
	}
}

func TestBuildMultilineQuoteSpansLines(t *testing.T) {
	b := testBuilder("orate")

	res, err := b.Feed(`orate "line one`, nil)
	if err != nil || res.Partial == nil {
		t.Fatalf("Feed() = %+v, %v; want continuation despite open quote", res, err)
	}
	res, err = b.Feed(`line two";`, res.Partial)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	st := res.Statement
	if st == nil {
		t.Fatalf("expected completed statement, got %+v", res)
	}
	if want := "line one\nline two"; !strings.Contains(st.Args, want) {
		t.Errorf("Args = %q, want to contain %q", st.Args, want)
	}
}

func TestBuildMultilineRedirectAfterTerminator(t *testing.T) {
	b := testBuilder("orate")

	res, err := b.Feed("orate speech text", nil)
	if err != nil || res.Partial == nil {
		t.Fatalf("Feed() = %+v, %v; want continuation", res, err)
	}
	res, err = b.Feed("more text; > speech.txt", res.Partial)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	st := res.Statement
	if st == nil {
		t.Fatalf("expected completed statement, got %+v", res)
	}
	if st.Output != ">" || st.OutputTo != "speech.txt" {
		t.Errorf("Output = %q %q, want > speech.txt", st.Output, st.OutputTo)
	}
	// A ">" before the terminator is plain argument text.
	b2 := testBuilder("orate")
	res, err = b2.Feed("orate a > b;", nil)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if res.Statement == nil || res.Statement.Output != "" {
		t.Errorf("operator before terminator should stay an argument: %+v", res.Statement)
	}
}

func TestBuildExpansionApplied(t *testing.T) {
	expand := func(line string) (string, error) {
		if strings.HasPrefix(line, "greet") {
			return "say hello" + strings.TrimPrefix(line, "greet"), nil
		}
		return line, nil
	}
	b := NewBuilder(DefaultConfig(), expand, func(cmd string) bool { return cmd == "say" })

	// The alias expands to a multiline command, so continuation must
	// trigger even though "greet" itself is not registered multiline.
	res, err := b.Feed("greet there", nil)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if res.Partial == nil {
		t.Fatalf("expected continuation after expansion, got %+v", res)
	}
	res, err = b.Feed("friend;", res.Partial)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	st := res.Statement
	if st == nil {
		t.Fatalf("expected completed statement, got %+v", res)
	}
	if st.Command != "say" {
		t.Errorf("Command = %q, want %q", st.Command, "say")
	}
	if st.Raw != "greet there\nfriend;" {
		t.Errorf("Raw = %q, want original unexpanded input", st.Raw)
	}
}

// Joining ArgList back together must reconstruct argument text that
// re-tokenizes to the same values as Args.
func TestArgListRoundTrip(t *testing.T) {
	cfg := DefaultConfig()

	lines := []string{
		"say hello world",
		`say "hello  there" friend`,
		`say 'a b' c "d  e"`,
		`say one\ token two`,
	}
	for _, line := range lines {
		st := feedComplete(t, testBuilder(), line)

		fromArgs, err := Tokenize(cfg, st.Args)
		if err != nil {
			t.Fatalf("Tokenize(Args=%q) error = %v", st.Args, err)
		}
		fromList, err := Tokenize(cfg, strings.Join(st.ArgList, " "))
		if err != nil {
			t.Fatalf("Tokenize(joined ArgList) error = %v", err)
		}
		if len(fromArgs) != len(fromList) {
			t.Fatalf("%q: token counts differ: %d vs %d", line, len(fromArgs), len(fromList))
		}
		for i := range fromArgs {
			if fromArgs[i].Text != fromList[i].Text {
				t.Errorf("%q: token %d differs: %q vs %q", line, i, fromArgs[i].Text, fromList[i].Text)
			}
		}
	}
}
