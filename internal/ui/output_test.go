package ui

import (
	"strings"
	"testing"
)

func TestColumnsFitsWidth(t *testing.T) {
	values := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	out := Columns(values, 40)

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) > 40 {
			t.Errorf("line %q exceeds width 40", line)
		}
	}
	for _, v := range values {
		if !strings.Contains(out, v) {
			t.Errorf("output missing %q", v)
		}
	}
}

func TestColumnsEmpty(t *testing.T) {
	if got := Columns(nil, 80); got != "" {
		t.Errorf("Columns(nil) = %q, want empty", got)
	}
}

func TestColumnsNarrowWidth(t *testing.T) {
	out := Columns([]string{"longvaluehere", "another"}, 4)
	if !strings.Contains(out, "longvaluehere") {
		t.Errorf("narrow width should still emit every value, got %q", out)
	}
}
