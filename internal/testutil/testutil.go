// Package testutil drives scripted shell sessions in tests.
package testutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/conch-sh/conch/internal/config"
	"github.com/conch-sh/conch/internal/shell"
)

// Script holds what one scripted session wrote.
type Script struct {
	Stdout string
	Stderr string
}

// RunScript builds a shell, lets register install commands on it, feeds
// it the given input lines, and returns the session's output. The session
// must end cleanly; parse errors land in Stderr, not in the test failure.
func RunScript(t *testing.T, register func(*shell.Shell), lines ...string) Script {
	t.Helper()

	var stdout, stderr bytes.Buffer
	s, err := shell.New(shell.Options{
		Config: config.Default(),
		Stdin:  strings.NewReader(strings.Join(lines, "\n") + "\n"),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("shell.New() error = %v", err)
	}
	if register != nil {
		register(s)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("shell.Run() error = %v", err)
	}
	return Script{Stdout: stdout.String(), Stderr: stderr.String()}
}
