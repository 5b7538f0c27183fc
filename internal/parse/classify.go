package parse

import "strings"

// parts is the classifier's partitioned view of one token sequence:
// command and argument words, then an optional terminator, an optional
// suffix, and an optional redirection or pipe tail.
type parts struct {
	words      []RawToken
	terminator string
	suffix     string
	output     string
	outputTo   string
	pipeTo     string
}

// classify partitions tokens into statement parts. Operators are
// recognized only when unquoted; a quoted ">" or "|" is an ordinary
// argument. For multiline commands redirection and piping are recognized
// only after the terminator, so operator characters typed mid-statement
// stay part of the accumulated arguments.
func classify(cfg Config, tokens []RawToken, src string, multiline bool) (parts, error) {
	var p parts

	// First unquoted terminator, if any.
	term := -1
	for i, t := range tokens {
		if !t.Quoted && cfg.isTerminator(t.Text) {
			term = i
			break
		}
	}

	// First unquoted redirection or pipe operator. Multiline commands
	// only honor operators once the terminator has been seen.
	opFrom := 0
	if multiline {
		if term < 0 {
			opFrom = len(tokens)
		} else {
			opFrom = term + 1
		}
	}
	op := -1
	for i := opFrom; i < len(tokens); i++ {
		t := tokens[i]
		if t.Quoted {
			continue
		}
		if t.Text == cfg.RedirectOverwrite || t.Text == cfg.RedirectAppend || t.Text == cfg.Pipe {
			op = i
			break
		}
	}

	wordsEnd := len(tokens)
	if term >= 0 {
		wordsEnd = term
		p.terminator = tokens[term].Text
	}
	if op >= 0 && op < wordsEnd {
		wordsEnd = op
	}
	p.words = tokens[:wordsEnd]

	// Suffix: text between the terminator and any operator.
	if term >= 0 {
		suffixEnd := len(tokens)
		if op > term {
			suffixEnd = op
		}
		if suffixEnd > term+1 {
			p.suffix = strings.TrimSpace(src[tokens[term+1].Pos:tokens[suffixEnd-1].End])
		}
	}

	if op < 0 {
		return p, nil
	}

	if tokens[op].Text == cfg.Pipe {
		if op == len(tokens)-1 {
			return p, errAmbiguousRedirect("pipe is missing a command")
		}
		p.pipeTo = strings.TrimSpace(src[tokens[op+1].Pos:])
		return p, nil
	}

	// Output redirection: exactly one destination token may follow.
	if op == len(tokens)-1 {
		return p, errAmbiguousRedirect("redirection is missing a destination")
	}
	dest := tokens[op+1]
	if !dest.Quoted && (dest.Text == cfg.RedirectOverwrite || dest.Text == cfg.RedirectAppend || dest.Text == cfg.Pipe || cfg.isTerminator(dest.Text)) {
		return p, errAmbiguousRedirect("redirection destination is not a file name")
	}
	if op+2 < len(tokens) {
		extra := tokens[op+2]
		if !extra.Quoted && extra.Text == cfg.Pipe {
			return p, errAmbiguousRedirect("cannot both redirect and pipe output")
		}
		return p, errAmbiguousRedirect("unexpected input after redirection destination")
	}
	p.output = tokens[op].Text
	p.outputTo = dest.Surface
	return p, nil
}
