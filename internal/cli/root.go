// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conch-sh/conch/internal/config"
	"github.com/conch-sh/conch/internal/history"
	"github.com/conch-sh/conch/internal/shell"
	"github.com/conch-sh/conch/internal/ui"
)

var (
	// Global flags
	configPath string
	noHistory  bool

	// Resolved values
	cfg config.Config
)

// rootCmd represents the base command; running it with no subcommand
// starts the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "conch",
	Short: "Conch - an interactive command shell",
	Long: `Conch is an interactive command shell: statements with quoting,
terminators, output redirection, aliases, macros, and specification-driven
completion, with a builtin command set to manage it all.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := newShell()
		if err != nil {
			return err
		}
		defer cleanup()
		return s.Run(cmd.Context())
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not record statements to the history database")
}

// newShell assembles a shell from the loaded config: history store,
// persisted expansion tables, and the standard streams.
func newShell() (*shell.Shell, func(), error) {
	dataDir, err := config.DefaultDataDir()
	if err != nil {
		return nil, nil, err
	}

	historyPath := cfg.HistoryPath
	if historyPath == "" {
		historyPath = filepath.Join(dataDir, "history.db")
	}
	tablesPath := cfg.AliasesPath
	if tablesPath == "" {
		tablesPath = filepath.Join(dataDir, "tables.yaml")
	}

	var store *history.Store
	if !noHistory {
		store, err = history.Open(historyPath)
		if err != nil {
			// A broken history database degrades the session, it does
			// not block it.
			fmt.Fprintln(os.Stderr, ui.Hint(err.Error()))
			store = nil
		}
	}

	s, err := shell.New(shell.Options{
		Config:     cfg,
		History:    store,
		TablesPath: tablesPath,
	})
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		if store != nil {
			store.Close()
		}
	}
	return s, cleanup, nil
}
