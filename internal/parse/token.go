package parse

import (
	"strings"
	"unicode"
)

// RawToken is one token produced by the tokenizer. The tokenizer never
// interprets meaning; it only tracks quoting so later stages can decide
// whether a token is eligible to be an operator.
type RawToken struct {
	// Text is the token value with quotes stripped and escapes applied.
	Text string

	// Surface is the original text of the token, including any quotes
	// and escape characters.
	Surface string

	// Quoted reports whether any part of the token was quoted.
	Quoted bool

	// Pos and End are byte offsets of the token within the input.
	Pos int
	End int
}

// Tokenize splits input into raw tokens. Whitespace separates tokens
// outside quotes, a quote opens a region closed by the matching unescaped
// quote, and the escape character takes the following character literally.
// Runs of unquoted operator punctuation (terminators, redirection, pipe)
// form their own tokens so "one;" splits into "one" and ";".
//
// When the comment character is the first non-whitespace character of the
// input the whole line is discarded and Tokenize returns no tokens. A
// comment character anywhere else is an ordinary character.
func Tokenize(cfg Config, input string) ([]RawToken, error) {
	trimmed := strings.TrimLeftFunc(input, unicode.IsSpace)
	if trimmed != "" && []rune(trimmed)[0] == cfg.Comment {
		return nil, nil
	}
	return tokenize(cfg, input)
}

// tokenize is Tokenize without the leading-comment check. The builder
// calls it directly for expanded text: whether a statement is a comment is
// decided on the raw input before alias and macro expansion, never
// re-checked afterwards.
func tokenize(cfg Config, input string) ([]RawToken, error) {
	punct := cfg.punctuation()

	var (
		tokens   []RawToken
		text     strings.Builder
		start    = -1    // byte offset where the current token began
		quoted   bool    // current token contains a quoted region
		quote    rune    // active quote character, 0 when outside quotes
		escaped  bool    // previous character was the escape character
		punctRun bool    // current token is a run of operator punctuation
	)

	flush := func(end int) {
		if start < 0 {
			return
		}
		tokens = append(tokens, RawToken{
			Text:    text.String(),
			Surface: input[start:end],
			Quoted:  quoted,
			Pos:     start,
			End:     end,
		})
		text.Reset()
		start = -1
		quoted = false
		punctRun = false
	}

	for i, r := range input {
		if escaped {
			text.WriteRune(r)
			escaped = false
			continue
		}
		if r == cfg.Escape {
			if start < 0 {
				start = i
			}
			escaped = true
			continue
		}
		if quote != 0 {
			if r == quote {
				quote = 0
			} else {
				text.WriteRune(r)
			}
			continue
		}
		if cfg.isQuote(r) {
			if punctRun {
				flush(i)
			}
			if start < 0 {
				start = i
			}
			quote = r
			quoted = true
			continue
		}
		if unicode.IsSpace(r) {
			flush(i)
			continue
		}
		if punct[r] {
			if start >= 0 && !punctRun {
				flush(i)
			}
			if start < 0 {
				start = i
				punctRun = true
			}
			text.WriteRune(r)
			continue
		}
		if punctRun {
			flush(i)
		}
		if start < 0 {
			start = i
		}
		text.WriteRune(r)
	}

	if quote != 0 {
		return nil, errUnterminatedQuote(quote)
	}
	if escaped {
		// A trailing escape character has nothing to escape; keep it.
		text.WriteRune(cfg.Escape)
	}
	flush(len(input))

	return tokens, nil
}
