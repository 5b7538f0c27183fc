package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/conch-sh/conch/internal/parse"
)

// route resolves where a statement's output goes: the shell's stdout, a
// file, or a spawned pipe command. The returned cleanup flushes and
// closes whatever was opened and must always be called.
func (s *Shell) route(st *parse.Statement) (io.Writer, func() error, error) {
	switch {
	case st.Output != "":
		return s.routeFile(st)
	case st.PipeTo != "":
		return s.routePipe(st)
	default:
		return s.stdout, func() error { return nil }, nil
	}
}

func (s *Shell) routeFile(st *parse.Statement) (io.Writer, func() error, error) {
	path := s.unquote(st.OutputTo)
	flags := os.O_WRONLY | os.O_CREATE
	if st.Output == s.parseCfg.RedirectAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, f.Close, nil
}

func (s *Shell) routePipe(st *parse.Statement) (io.Writer, func() error, error) {
	cmd := exec.Command("sh", "-c", st.PipeTo)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start %q: %w", st.PipeTo, err)
	}

	cleanup := func() error {
		if err := stdin.Close(); err != nil {
			cmd.Wait()
			return err
		}
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("pipe command %q: %w", st.PipeTo, err)
		}
		return nil
	}
	return stdin, cleanup, nil
}

// unquote strips one layer of surrounding quotes from a destination
// token, which keeps its surface form through classification.
func (s *Shell) unquote(tok string) string {
	runes := []rune(tok)
	if len(runes) < 2 {
		return tok
	}
	for _, q := range s.parseCfg.Quotes {
		if runes[0] == q && runes[len(runes)-1] == q {
			return string(runes[1 : len(runes)-1])
		}
	}
	return tok
}
