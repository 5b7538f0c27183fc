// Package shellquote quotes strings so the statement tokenizer reads
// them back as single words.
package shellquote

import "strings"

// Quote wraps s in double quotes, escaping internal double quotes and
// backslashes.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// QuoteIfNeeded quotes strings the tokenizer would otherwise split or
// reinterpret, such as completion candidates with embedded spaces.
func QuoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'\\#;|><") {
		return Quote(s)
	}
	return s
}
