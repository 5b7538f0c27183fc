package parse

// Statement is the fully parsed representation of one logical command
// invocation. It is immutable after construction: the builder returns a
// fresh value per completed input and never retains it.
type Statement struct {
	// Command is the resolved command name after shortcut, alias, and
	// macro expansion. Empty only when the input held no command.
	Command string

	// Args is the raw argument text with inter-word spacing and quotes
	// preserved.
	Args string

	// ArgList holds the argument tokens in order, quotes preserved per
	// token.
	ArgList []string

	// Raw is the exact original input, including embedded newlines for
	// multiline input, before any expansion.
	Raw string

	// MultilineCommand names the multiline command this statement
	// belongs to, or is empty for single-line commands.
	MultilineCommand string

	// Terminator is the character sequence that ended input: a
	// configured terminator, "\n" for an empty-line ending, or empty
	// when no terminator was typed.
	Terminator string

	// Suffix is the text between the terminator and any redirection or
	// pipe operator.
	Suffix string

	// PipeTo is the trailing shell command when output was piped.
	PipeTo string

	// Output is the redirection operator (">" or ">>") and OutputTo its
	// destination token, quotes preserved. At most one of redirection
	// and piping is set.
	Output   string
	OutputTo string
}

// Redirected reports whether the statement routes its output anywhere
// other than the caller's writer.
func (s *Statement) Redirected() bool {
	return s.Output != "" || s.PipeTo != ""
}

// newStatement assembles a Statement from classified parts. src is the
// expanded text the tokens index into; raw is the original input.
func newStatement(p parts, src, raw, multilineCommand string) *Statement {
	st := &Statement{
		Command:          p.words[0].Text,
		Raw:              raw,
		MultilineCommand: multilineCommand,
		Terminator:       p.terminator,
		Suffix:           p.suffix,
		PipeTo:           p.pipeTo,
		Output:           p.output,
		OutputTo:         p.outputTo,
	}
	if len(p.words) > 1 {
		st.Args = src[p.words[1].Pos:p.words[len(p.words)-1].End]
		st.ArgList = make([]string, 0, len(p.words)-1)
		for _, w := range p.words[1:] {
			st.ArgList = append(st.ArgList, w.Surface)
		}
	}
	return st
}
