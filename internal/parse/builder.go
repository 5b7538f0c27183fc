package parse

import (
	"strings"
	"unicode"
)

// ExpandFunc rewrites the leading token of a line before tokenization
// completes, applying shortcut, alias, and macro expansion. A nil
// ExpandFunc leaves lines untouched.
type ExpandFunc func(line string) (string, error)

// Builder assembles statements from physical input lines, waiting for a
// terminator across several reads when the command is multiline. A
// Builder holds no per-statement state; the caller threads the Partial
// value through successive Feed calls.
type Builder struct {
	cfg         Config
	expand      ExpandFunc
	isMultiline func(command string) bool
}

// NewBuilder returns a builder using cfg. expand and isMultiline may be
// nil, in which case no expansion happens and no command is multiline.
func NewBuilder(cfg Config, expand ExpandFunc, isMultiline func(string) bool) *Builder {
	return &Builder{cfg: cfg, expand: expand, isMultiline: isMultiline}
}

// Partial is a statement still waiting for its terminator. It is owned
// by the caller driving the read loop and must not be shared.
type Partial struct {
	// Command is the resolved multiline command awaiting input.
	Command string

	raw      string // original input accumulated across reads
	expanded string // post-expansion text accumulated across reads
}

// BuildResult is the outcome of feeding one line: exactly one of
// Statement (input complete) or Partial (more input needed) is set.
type BuildResult struct {
	Statement *Statement
	Partial   *Partial
}

// Feed consumes one physical line. Pass pending as nil for the first
// line of a statement, or the Partial from the previous call while a
// multiline command is accumulating input.
func (b *Builder) Feed(line string, pending *Partial) (BuildResult, error) {
	if pending != nil {
		return b.continueStatement(line, pending)
	}
	return b.startStatement(line)
}

func (b *Builder) startStatement(line string) (BuildResult, error) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if trimmed == "" {
		return BuildResult{}, errEmptyStatement()
	}
	// Comment-ness is decided on the raw input, before expansion.
	if []rune(trimmed)[0] == b.cfg.Comment {
		return BuildResult{}, errEmptyStatement()
	}

	expanded := line
	if b.expand != nil {
		var err error
		expanded, err = b.expand(line)
		if err != nil {
			return BuildResult{}, err
		}
	}

	tokens, err := tokenize(b.cfg, expanded)
	if err != nil {
		// An unclosed quote keeps a multiline command reading; for
		// anything else it rejects the line.
		if IsUnterminatedQuote(err) {
			if cmd := firstWord(expanded); cmd != "" && b.multiline(cmd) {
				return BuildResult{Partial: &Partial{Command: cmd, raw: line, expanded: expanded}}, nil
			}
		}
		return BuildResult{}, err
	}
	if len(tokens) == 0 {
		return BuildResult{}, errEmptyStatement()
	}

	command := tokens[0].Text
	if b.multiline(command) {
		p, err := classify(b.cfg, tokens, expanded, true)
		if err != nil {
			return BuildResult{}, err
		}
		if p.terminator == "" {
			return BuildResult{Partial: &Partial{Command: command, raw: line, expanded: expanded}}, nil
		}
		return BuildResult{Statement: newStatement(p, expanded, line, command)}, nil
	}

	p, err := classify(b.cfg, tokens, expanded, false)
	if err != nil {
		return BuildResult{}, err
	}
	if len(p.words) == 0 {
		return BuildResult{}, errEmptyStatement()
	}
	return BuildResult{Statement: newStatement(p, expanded, line, "")}, nil
}

func (b *Builder) continueStatement(line string, pending *Partial) (BuildResult, error) {
	// An empty line ends a multiline statement even without the
	// terminator character.
	if strings.TrimSpace(line) == "" {
		tokens, err := tokenize(b.cfg, pending.expanded)
		if err != nil {
			return BuildResult{}, err
		}
		p, err := classify(b.cfg, tokens, pending.expanded, true)
		if err != nil {
			return BuildResult{}, err
		}
		if len(p.words) == 0 {
			return BuildResult{}, errEmptyStatement()
		}
		st := newStatement(p, pending.expanded, pending.raw+"\n", pending.Command)
		st.Terminator = "\n"
		return BuildResult{Statement: st}, nil
	}

	raw := pending.raw + "\n" + line
	expanded := pending.expanded + "\n" + line

	tokens, err := tokenize(b.cfg, expanded)
	if err != nil {
		if IsUnterminatedQuote(err) {
			return BuildResult{Partial: &Partial{Command: pending.Command, raw: raw, expanded: expanded}}, nil
		}
		return BuildResult{}, err
	}

	p, err := classify(b.cfg, tokens, expanded, true)
	if err != nil {
		return BuildResult{}, err
	}
	if p.terminator == "" {
		return BuildResult{Partial: &Partial{Command: pending.Command, raw: raw, expanded: expanded}}, nil
	}
	return BuildResult{Statement: newStatement(p, expanded, raw, pending.Command)}, nil
}

func (b *Builder) multiline(command string) bool {
	return b.isMultiline != nil && b.isMultiline(command)
}

// firstWord returns the leading whitespace-delimited word of s.
func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
