package parse

import (
	"errors"
	"fmt"
)

// Error codes for parse failures. These are stable and can be relied upon
// by front ends that report errors programmatically.
const (
	CodeUnterminatedQuote = "UNTERMINATED_QUOTE"
	CodeAmbiguousRedirect = "AMBIGUOUS_REDIRECT"
	CodeEmptyStatement    = "EMPTY_STATEMENT"
)

// Error is a parse failure with a stable machine-readable code.
type Error struct {
	Code   string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return e.Detail
}

func errUnterminatedQuote(quote rune) error {
	return &Error{
		Code:   CodeUnterminatedQuote,
		Detail: fmt.Sprintf("unterminated %c-quoted string", quote),
	}
}

func errAmbiguousRedirect(detail string) error {
	return &Error{Code: CodeAmbiguousRedirect, Detail: detail}
}

func errEmptyStatement() error {
	return &Error{Code: CodeEmptyStatement, Detail: "empty statement"}
}

// IsEmptyStatement reports whether err is the no-op "nothing to run" case.
// Callers typically treat it as a blank line rather than a failure.
func IsEmptyStatement(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeEmptyStatement
}

// IsUnterminatedQuote reports whether err indicates an unclosed quote.
// The builder uses this to keep reading input for multiline commands.
func IsUnterminatedQuote(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeUnterminatedQuote
}
