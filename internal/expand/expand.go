// Package expand rewrites the leading token of an input line, applying
// shortcut, alias, and macro expansion before parsing completes.
package expand

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// DefaultBound is the expansion iteration limit. Resolution is iterative
// (the result of one expansion is itself re-checked), so mutually
// referencing names would otherwise loop forever.
const DefaultBound = 20

// Error codes for expansion failures.
const (
	CodeExpansionCycle   = "EXPANSION_CYCLE"
	CodeMacroArgs        = "INSUFFICIENT_MACRO_ARGS"
	CodeMacroPlaceholder = "INVALID_MACRO_PLACEHOLDER"
)

// Error is an expansion failure naming the offending alias or macro.
type Error struct {
	Code   string
	Name   string
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// IsExpansionCycle reports whether err is an expansion cycle failure.
func IsExpansionCycle(err error) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Code == CodeExpansionCycle
}

// IsMacroArgs reports whether err is a missing-macro-argument failure.
func IsMacroArgs(err error) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Code == CodeMacroArgs
}

// IsMacroPlaceholder reports whether err is an invalid-placeholder failure.
func IsMacroPlaceholder(err error) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Code == CodeMacroPlaceholder
}

// Macro is a named replacement template with ordered positional
// placeholders like {1} and {2}. MinArgs is derived from the highest
// placeholder index at registration time.
type Macro struct {
	Name     string
	Template string
	MinArgs  int
}

var placeholderRe = regexp.MustCompile(`\{(\d+)\}`)

// Expander holds one shell session's shortcut, alias, and macro tables.
// It is not safe for concurrent use; each session owns its own Expander.
type Expander struct {
	shortcuts map[rune]string
	aliases   map[string]string
	macros    map[string]Macro
	bound     int
}

// New returns an empty Expander with the default iteration bound.
func New() *Expander {
	return &Expander{
		shortcuts: make(map[rune]string),
		aliases:   make(map[string]string),
		macros:    make(map[string]Macro),
		bound:     DefaultBound,
	}
}

// SetBound overrides the expansion iteration limit.
func (e *Expander) SetBound(n int) {
	if n > 0 {
		e.bound = n
	}
}

// SetShortcut maps a single non-alphanumeric leading character to a
// command name. The shortcut needs no separating space: "!ls" expands to
// "<command> ls".
func (e *Expander) SetShortcut(char rune, command string) error {
	if unicode.IsLetter(char) || unicode.IsDigit(char) || unicode.IsSpace(char) {
		return fmt.Errorf("shortcut %q must be a single non-alphanumeric character", char)
	}
	e.shortcuts[char] = command
	return nil
}

// SetAlias registers name as a verbatim replacement string. The
// replacement may itself begin with another alias or macro name; cycle
// detection bounds the recursion.
func (e *Expander) SetAlias(name, replacement string) {
	e.aliases[name] = replacement
}

// SetMacro registers a macro template. Placeholders are numbered from
// {1}; the minimum argument count is the highest placeholder index the
// template references.
func (e *Expander) SetMacro(name, template string) error {
	minArgs := 0
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return &Error{
				Code:   CodeMacroPlaceholder,
				Name:   name,
				Detail: fmt.Sprintf("macro %q: placeholder %s is invalid; placeholders start at {1}", name, m[0]),
			}
		}
		if n > minArgs {
			minArgs = n
		}
	}
	e.macros[name] = Macro{Name: name, Template: template, MinArgs: minArgs}
	return nil
}

// RemoveShortcut deletes a shortcut, reporting whether it existed.
func (e *Expander) RemoveShortcut(char rune) bool {
	_, ok := e.shortcuts[char]
	delete(e.shortcuts, char)
	return ok
}

// RemoveAlias deletes an alias, reporting whether it existed.
func (e *Expander) RemoveAlias(name string) bool {
	_, ok := e.aliases[name]
	delete(e.aliases, name)
	return ok
}

// RemoveMacro deletes a macro, reporting whether it existed.
func (e *Expander) RemoveMacro(name string) bool {
	_, ok := e.macros[name]
	delete(e.macros, name)
	return ok
}

// Alias returns the replacement for name, if registered.
func (e *Expander) Alias(name string) (string, bool) {
	r, ok := e.aliases[name]
	return r, ok
}

// MacroByName returns the macro registered under name, if any.
func (e *Expander) MacroByName(name string) (Macro, bool) {
	m, ok := e.macros[name]
	return m, ok
}

// AliasNames returns all alias names, sorted.
func (e *Expander) AliasNames() []string {
	names := make([]string, 0, len(e.aliases))
	for n := range e.aliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MacroNames returns all macro names, sorted.
func (e *Expander) MacroNames() []string {
	names := make([]string, 0, len(e.macros))
	for n := range e.macros {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Shortcuts returns the shortcut table keyed by its trigger characters.
func (e *Expander) Shortcuts() map[rune]string {
	out := make(map[rune]string, len(e.shortcuts))
	for k, v := range e.shortcuts {
		out[k] = v
	}
	return out
}

// Expand rewrites the leading token of line. Checks run in order:
// shortcut prefix, alias exact match, macro exact match; the result of
// each expansion is re-checked until nothing matches or the iteration
// bound is exceeded.
func (e *Expander) Expand(line string) (string, error) {
	for i := 0; i < e.bound; i++ {
		out, changed, err := e.expandOnce(line)
		if err != nil {
			return "", err
		}
		if !changed {
			return out, nil
		}
		line = out
	}
	name := firstToken(line)
	return "", &Error{
		Code:   CodeExpansionCycle,
		Name:   name,
		Detail: fmt.Sprintf("expanding %q did not settle after %d rounds; alias or macro cycle?", name, e.bound),
	}
}

func (e *Expander) expandOnce(line string) (string, bool, error) {
	lead := strings.TrimLeftFunc(line, unicode.IsSpace)
	if lead == "" {
		return line, false, nil
	}
	indent := line[:len(line)-len(lead)]

	// Shortcut prefix: a single character, no separating space needed.
	first := []rune(lead)[0]
	if command, ok := e.shortcuts[first]; ok {
		rest := lead[len(string(first)):]
		if rest != "" && !strings.HasPrefix(rest, " ") {
			rest = " " + rest
		}
		return indent + command + rest, true, nil
	}

	name := firstToken(lead)
	rest := strings.TrimPrefix(lead, name)

	if replacement, ok := e.aliases[name]; ok {
		return indent + replacement + rest, true, nil
	}

	if macro, ok := e.macros[name]; ok {
		out, err := e.applyMacro(macro, rest)
		if err != nil {
			return "", false, err
		}
		return indent + out, true, nil
	}

	return line, false, nil
}

// applyMacro substitutes positional placeholders from the argument tokens
// following the macro name. Surplus arguments are appended verbatim after
// the expanded template. Placeholders SetMacro would reject, or that name
// an argument past the end, stay literal.
func (e *Expander) applyMacro(m Macro, rest string) (string, error) {
	args := splitArgs(rest)
	if len(args) < m.MinArgs {
		return "", &Error{
			Code: CodeMacroArgs,
			Name: m.Name,
			Detail: fmt.Sprintf("macro %q needs at least %d argument(s), got %d",
				m.Name, m.MinArgs, len(args)),
		}
	}

	out := placeholderRe.ReplaceAllStringFunc(m.Template, func(ph string) string {
		n, err := strconv.Atoi(ph[1 : len(ph)-1])
		if err != nil || n < 1 || n > len(args) {
			return ph
		}
		return args[n-1].text
	})
	if len(args) > m.MinArgs {
		// Slice the original text so surplus spacing and quoting survive.
		surplus := rest[args[m.MinArgs].pos:]
		out = strings.TrimRight(out, " ") + " " + surplus
	}
	return out, nil
}

// firstToken returns the first whitespace-delimited word of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// macroArg is one macro argument with the byte offset where it begins in
// the original text.
type macroArg struct {
	text string
	pos  int
}

// splitArgs splits macro arguments on whitespace, keeping quoted regions
// together with their surface quoting intact.
func splitArgs(s string) []macroArg {
	var out []macroArg
	var cur strings.Builder
	var quote rune
	start := 0
	escaped := false

	write := func(i int, r rune) {
		if cur.Len() == 0 {
			start = i
		}
		cur.WriteRune(r)
	}
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, macroArg{text: cur.String(), pos: start})
			cur.Reset()
		}
	}

	for i, r := range s {
		switch {
		case escaped:
			write(i, r)
			escaped = false
		case r == '\\':
			write(i, r)
			escaped = true
		case quote != 0:
			write(i, r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			write(i, r)
			quote = r
		case unicode.IsSpace(r):
			flush()
		default:
			write(i, r)
		}
	}
	flush()
	return out
}
