package ui

import (
	"fmt"
	"sort"
	"strings"
)

// Unicode symbols for status indicators
const (
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// Error returns an error message with X symbol.
func Error(msg string) string {
	return ErrorStyle.Render(fmt.Sprintf("%s %s", SymbolError, msg))
}

// Hint returns a muted, non-blocking notice such as a completion failure.
func Hint(msg string) string {
	return Muted.Render(fmt.Sprintf("%s %s", SymbolWarning, msg))
}

// Columns lays values out in columns fitting the given width, the way
// candidate lists are shown. Values are sorted for display.
func Columns(values []string, width int) string {
	if len(values) == 0 {
		return ""
	}
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)

	colWidth := 0
	for _, v := range sorted {
		if len(v)+2 > colWidth {
			colWidth = len(v) + 2
		}
	}
	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}

	var b strings.Builder
	for i, v := range sorted {
		b.WriteString(v)
		if (i+1)%cols == 0 || i == len(sorted)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(strings.Repeat(" ", colWidth-len(v)))
		}
	}
	return b.String()
}
