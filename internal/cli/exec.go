package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <statement>",
	Short: "Parse and run a single statement, then exit",
	Long: `Parse and run one statement outside the interactive loop. The
arguments are joined into a single input line, so quoting the whole
statement is usually easiest:

  conch exec 'alias greet say hello'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := newShell()
		if err != nil {
			return err
		}
		defer cleanup()
		return s.RunLine(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
