package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownBasic(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\nSome body text.\n", 60)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.Contains(out, "Title") {
		t.Errorf("output missing heading: %q", out)
	}
	if !strings.Contains(out, "Some body text.") {
		t.Errorf("output missing body: %q", out)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("output should end with exactly one newline: %q", out)
	}
}

func TestRenderMarkdownZeroWidthFallsBack(t *testing.T) {
	if _, err := RenderMarkdown("plain text", 0); err != nil {
		t.Fatalf("RenderMarkdown() with zero width error = %v", err)
	}
}
