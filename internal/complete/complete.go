// Package complete resolves context-correct completion candidates for a
// partially typed command line against an argument specification tree.
package complete

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conch-sh/conch/internal/argspec"
)

// NoMoreFlags is the separator that permanently disables flag and
// subcommand matching for the remainder of the current scope.
const NoMoreFlags = "--"

// Error is a non-fatal completion failure. It degrades to "no
// completions" and is shown as a hint; it never aborts the read loop.
type Error struct {
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// SortMode selects candidate ordering.
type SortMode int

const (
	// SortLexical orders candidates case-insensitively (default).
	SortLexical SortMode = iota
	// SortNatural orders candidates with numeric awareness, so "item2"
	// sorts before "item10".
	SortNatural
)

// Result is a ranked candidate list. When Err is set the candidates are
// suppressed and the error is surfaced as a hint.
type Result struct {
	Candidates []string
	Err        *Error
}

// Complete walks tokens (the argument tokens already typed, excluding the
// command name itself) against spec and returns candidates for prefix,
// the partial token under the cursor. idx is the index within tokens at
// which the cursor sits; tokens beyond idx are ignored.
func Complete(spec *argspec.Command, tokens []string, idx int, prefix string, mode SortMode) Result {
	if spec == nil {
		return Result{}
	}
	if idx > len(tokens) {
		idx = len(tokens)
	}

	w := newWalker(spec)
	for _, tok := range tokens[:idx] {
		w.consume(tok)
	}
	if w.err != nil {
		return Result{Err: w.err}
	}
	return w.candidates(prefix, mode)
}

// Rank filters values by prefix, deduplicates, and orders them under the
// given mode, keeping input order on ties. It is the same ranking Complete
// applies, exposed for candidate lists built outside a spec walk such as
// command names.
func Rank(values []string, prefix string, mode SortMode) []string {
	cands := make([]candidate, 0, len(values))
	for i, v := range values {
		if strings.HasPrefix(v, prefix) {
			cands = append(cands, candidate{value: v, order: i})
		}
	}
	return finish(cands, mode, nil).Candidates
}

// walker tracks the completion context while consuming typed tokens:
// the current spec node, which flags and groups are already satisfied,
// the active positional, and whether "--" has been seen.
type walker struct {
	node            *argspec.Command
	satisfiedGroups map[string]bool
	usedFlags       map[*argspec.Flag]bool
	posIndex        int
	posConsumed     int
	noMoreFlags     bool
	pendingFlag     *argspec.Flag
	pendingArity    int
	err             *Error
}

func newWalker(node *argspec.Command) *walker {
	return &walker{
		node:            node,
		satisfiedGroups: make(map[string]bool),
		usedFlags:       make(map[*argspec.Flag]bool),
	}
}

// enter descends into a subcommand scope, resetting the satisfied-flags
// set and positional index.
func (w *walker) enter(node *argspec.Command) {
	w.node = node
	w.satisfiedGroups = make(map[string]bool)
	w.usedFlags = make(map[*argspec.Flag]bool)
	w.posIndex = 0
	w.posConsumed = 0
	w.noMoreFlags = false
	w.pendingFlag = nil
	w.pendingArity = 0
}

func (w *walker) consume(tok string) {
	// Value slots of a flag swallow tokens before anything else.
	if w.pendingArity > 0 {
		w.pendingArity--
		if w.pendingArity == 0 {
			w.pendingFlag = nil
		}
		return
	}

	if !w.noMoreFlags && tok == NoMoreFlags {
		w.noMoreFlags = true
		return
	}

	if !w.noMoreFlags {
		if f := w.matchFlag(tok); f != nil {
			w.recordFlag(f, tok)
			return
		}
		// Subcommands are selectable until a positional value has been
		// consumed in this scope.
		if w.posIndex == 0 && w.posConsumed == 0 {
			if sub, ok := w.node.FindSubcommand(tok); ok {
				w.enter(sub)
				return
			}
		}
	}

	w.consumePositional()
}

// matchFlag finds the flag whose trigger matches tok, preferring longer
// triggers when several could apply.
func (w *walker) matchFlag(tok string) *argspec.Flag {
	var best *argspec.Flag
	bestLen := -1
	for _, f := range w.node.Flags() {
		for _, trig := range f.Triggers() {
			if trig == tok && len(trig) > bestLen {
				best = f
				bestLen = len(trig)
			}
		}
	}
	return best
}

func (w *walker) recordFlag(f *argspec.Flag, tok string) {
	if g := f.Group(); g != "" && w.satisfiedGroups[g] && !w.usedFlags[f] {
		w.fail("%s conflicts with an option already given", tok)
	} else if w.usedFlags[f] && !f.Repeatable() {
		w.fail("%s may only be given once", tok)
	}
	w.usedFlags[f] = true
	if g := f.Group(); g != "" {
		w.satisfiedGroups[g] = true
	}
	w.pendingFlag = f
	w.pendingArity = f.Arity()
}

func (w *walker) consumePositional() {
	positionals := w.node.Positionals()
	if w.posIndex >= len(positionals) {
		// Surplus token; nothing left to complete against.
		return
	}
	p := positionals[w.posIndex]
	w.posConsumed++
	// A one-or-more/remainder positional never advances past itself.
	if c := p.Card(); c.Max != argspec.Unbounded && w.posConsumed >= c.Max {
		w.posIndex++
		w.posConsumed = 0
	}
}

// fail records the first non-fatal completion error; parsing of the rest
// of the line continues but candidates are suppressed.
func (w *walker) fail(format string, args ...interface{}) {
	if w.err == nil {
		w.err = &Error{Detail: fmt.Sprintf(format, args...)}
	}
}

// candidate pairs a value with its declaration order for tie-breaking.
type candidate struct {
	value string
	order int
}

func (w *walker) candidates(prefix string, mode SortMode) Result {
	var (
		cands []candidate
		hint  *Error
	)
	order := 0
	add := func(value string) {
		if strings.HasPrefix(value, prefix) {
			cands = append(cands, candidate{value: value, order: order})
		}
		order++
	}

	// The cursor sits on a flag's value: only that flag's choices apply.
	if w.pendingArity > 0 && w.pendingFlag != nil {
		values, err := flagValues(w.pendingFlag, prefix)
		if err != nil {
			return Result{Err: err}
		}
		for _, v := range values {
			add(v)
		}
		return finish(cands, mode, hint)
	}

	if !w.noMoreFlags {
		for _, f := range w.node.Flags() {
			excluded := (f.Group() != "" && w.satisfiedGroups[f.Group()] && !w.usedFlags[f]) ||
				(w.usedFlags[f] && !f.Repeatable())
			if excluded {
				// Typing an excluded flag out in full is reported
				// rather than silently ignored.
				for _, trig := range f.Triggers() {
					if trig == prefix && prefix != "" {
						return Result{Err: &Error{
							Detail: fmt.Sprintf("%s conflicts with an option already given", trig),
						}}
					}
				}
				order += len(f.Triggers())
				continue
			}
			for _, trig := range f.Triggers() {
				add(trig)
			}
		}
		if w.posIndex == 0 && w.posConsumed == 0 {
			for _, sub := range w.node.Subcommands() {
				add(sub.Name())
			}
		}
	}

	if positionals := w.node.Positionals(); w.posIndex < len(positionals) {
		p := positionals[w.posIndex]
		values, err := positionalValues(p, prefix)
		if err != nil {
			hint = err
		}
		for _, v := range values {
			add(v)
		}
	}

	return finish(cands, mode, hint)
}

func flagValues(f *argspec.Flag, prefix string) ([]string, *Error) {
	if len(f.Choices()) > 0 {
		return f.Choices(), nil
	}
	if f.Completer() != nil {
		return invokeCompleter(f.Completer(), prefix, f.Triggers()[0])
	}
	return nil, nil
}

func positionalValues(p *argspec.Positional, prefix string) ([]string, *Error) {
	if len(p.Choices()) > 0 {
		return p.Choices(), nil
	}
	if p.Completer() != nil {
		return invokeCompleter(p.Completer(), prefix, p.Name())
	}
	return nil, nil
}

// invokeCompleter runs a dynamic choice provider, converting errors and
// panics into a non-fatal Error with zero candidates.
func invokeCompleter(fn argspec.CompleteFunc, prefix, what string) (values []string, cerr *Error) {
	defer func() {
		if r := recover(); r != nil {
			values = nil
			cerr = &Error{Detail: fmt.Sprintf("completer for %s panicked: %v", what, r)}
		}
	}()
	values, err := fn(prefix)
	if err != nil {
		return nil, &Error{Detail: fmt.Sprintf("completer for %s failed: %v", what, err)}
	}
	return values, nil
}

// finish deduplicates, ranks, and unwraps the candidate list. Ties under
// the chosen ordering keep declaration order.
func finish(cands []candidate, mode SortMode, hint *Error) Result {
	seen := make(map[string]bool, len(cands))
	deduped := cands[:0]
	for _, c := range cands {
		if seen[c.value] {
			continue
		}
		seen[c.value] = true
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		a, b := deduped[i], deduped[j]
		var less, eq bool
		switch mode {
		case SortNatural:
			less, eq = naturalLess(a.value, b.value)
		default:
			la, lb := strings.ToLower(a.value), strings.ToLower(b.value)
			less, eq = la < lb, la == lb
		}
		if eq {
			return a.order < b.order
		}
		return less
	})

	out := make([]string, 0, len(deduped))
	for _, c := range deduped {
		out = append(out, c.value)
	}
	if len(out) == 0 && hint != nil {
		return Result{Err: hint}
	}
	return Result{Candidates: out, Err: hint}
}
