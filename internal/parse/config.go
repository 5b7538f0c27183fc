// Package parse turns raw input lines into structured statements.
//
// Parsing happens in three stages: the tokenizer splits a line into raw
// tokens while tracking quote and escape state, the classifier partitions
// those tokens into command words, terminator, redirection, and pipe parts,
// and the builder assembles the final Statement, driving multiline
// continuation when a command needs more input.
package parse

// Config holds the characters and operator strings the parser recognizes.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	// Quotes are the characters that open and close quoted regions.
	Quotes []rune

	// Escape causes the following character to be taken literally,
	// inside or outside quotes.
	Escape rune

	// Comment discards the rest of the line when it is the first
	// non-whitespace character of the whole statement. Anywhere else it
	// is an ordinary character.
	Comment rune

	// Terminators end input for multiline commands. Each must be a run
	// of punctuation characters that forms its own token.
	Terminators []string

	// RedirectOverwrite and RedirectAppend are the output redirection
	// operators (">" and ">>" by default).
	RedirectOverwrite string
	RedirectAppend    string

	// Pipe hands the statement's output to an external shell command.
	Pipe string
}

// DefaultConfig returns the parser configuration used when nothing is
// overridden: double and single quotes, backslash escape, "#" comments,
// ";" terminator, ">"/">>" redirection, and "|" piping.
func DefaultConfig() Config {
	return Config{
		Quotes:            []rune{'"', '\''},
		Escape:            '\\',
		Comment:           '#',
		Terminators:       []string{";"},
		RedirectOverwrite: ">",
		RedirectAppend:    ">>",
		Pipe:              "|",
	}
}

// punctuation returns the set of characters that self-delimit into their
// own tokens when unquoted. Runs of adjacent punctuation characters stay
// together so multi-character operators like ">>" survive tokenization.
func (c Config) punctuation() map[rune]bool {
	set := make(map[rune]bool)
	add := func(s string) {
		for _, r := range s {
			set[r] = true
		}
	}
	for _, t := range c.Terminators {
		add(t)
	}
	add(c.RedirectOverwrite)
	add(c.RedirectAppend)
	add(c.Pipe)
	return set
}

func (c Config) isQuote(r rune) bool {
	for _, q := range c.Quotes {
		if r == q {
			return true
		}
	}
	return false
}

func (c Config) isTerminator(s string) bool {
	for _, t := range c.Terminators {
		if s == t {
			return true
		}
	}
	return false
}
